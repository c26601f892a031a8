// Package report renders assessment reports in several output formats.
//
// This package contains writers for different output formats:
//   - SimpleWriter: plain text for terminal display
//   - MarkdownWriter: Markdown with tables, alerts and a mermaid pie chart
//   - JSONWriter: structured JSON for tool integration
//   - HTMLWriter: a standalone page with inline SVG charts, also used as the
//     input of the browser capture
//
// It also owns the stacked bar chart of the tallies, which is shared by the
// HTML output (SVG) and the raster capture (PNG).
//
// Design decision: We separate report writing from report data structures
// (which are in the model package). This allows adding new output formats
// without modifying the core data structures.
package report
