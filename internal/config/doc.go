// Package config provides the configuration of selfcheck: report metadata,
// output formats, PDF export settings and the locations of the taxonomy and
// the report archive.
//
// Values come from CLI flags; a YAML configuration file supplies defaults
// for everything a flag did not set.
package config
