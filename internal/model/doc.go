// Package model defines the core data structures used throughout selfcheck.
//
// This package contains the following main types:
//   - Taxonomy: The read-only Dimension → Section → Indicator → Question tree,
//     together with the flat lookup indexes computed once at load time
//   - AnswerCategory and Answers: The four-point answer scale and the sparse
//     answer store keyed by indicator and question
//   - IndicatorTally: Per-indicator answer counts derived on demand
//   - AssessmentReport: The complete, renderable result of a session
//   - PagePlacement: Where a slice of the rendered report lands in a document
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The assessment, aggregate, render, report and database packages
// all need these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
