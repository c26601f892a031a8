// Package render turns an assessment report into one tall raster image.
//
// Two capturers are provided:
//   - ChartCapturer draws the report itself: a header, a stacked bar chart of
//     the tallies rendered with go-chart, a legend and the detail listing.
//     It needs nothing but the Go process.
//   - BrowserCapturer renders the HTML report in headless Chrome through
//     go-rod and takes a full-page screenshot.
//
// The image is the only input of pagination, which slices it across pages.
package render
