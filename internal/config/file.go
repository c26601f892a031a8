package config

// File represents the structure of the configuration file.
// Every field is optional; empty values leave the built-in default.
type File struct {
	// Report holds report metadata and output settings.
	Report ReportSection `yaml:"report,omitempty"`

	// Capture holds the rasterization settings of the PDF export.
	Capture CaptureSection `yaml:"capture,omitempty"`

	// Taxonomy is the path of a taxonomy file replacing the built-in one.
	Taxonomy string `yaml:"taxonomy,omitempty"`
}

// ReportSection is the "report" block of the configuration file.
type ReportSection struct {
	// Title is the report heading.
	Title string `yaml:"title,omitempty"`

	// Respondent names the person answering.
	Respondent string `yaml:"respondent,omitempty"`

	// Organization names the school or institution.
	Organization string `yaml:"organization,omitempty"`

	// PageSize is "a4" or "letter".
	PageSize string `yaml:"pageSize,omitempty"`

	// OutputDir is where exported PDFs are written by default.
	OutputDir string `yaml:"outputDir,omitempty"`
}

// CaptureSection is the "capture" block of the configuration file.
type CaptureSection struct {
	// Mode is "chart" or "browser".
	Mode string `yaml:"mode,omitempty"`

	// Scale is the resolution multiplier.
	Scale int `yaml:"scale,omitempty"`

	// ChromeBin is the browser executable for the browser mode.
	ChromeBin string `yaml:"chromeBin,omitempty"`
}
