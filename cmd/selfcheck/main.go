// Package main provides the entry point for the selfcheck CLI.
//
// selfcheck is a self-assessment questionnaire. Users select indicators from
// a taxonomy, answer the questions of each indicator, and receive a report
// that can be exported as a multi-page PDF document.
//
// Usage:
//
//	selfcheck run
//	selfcheck report answers.yaml --pdf report.pdf
//
// See --help for all available options.
package main

// main is the entry point for selfcheck.
func main() {
	Execute()
}
