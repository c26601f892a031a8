// Package paginate splits one tall rendered report image across fixed-size
// document pages.
//
// The image is scaled to the page width. Every page redraws the full image,
// shifted upward by the height already consumed on earlier pages, and the
// page boundary clips what falls outside. Paginate only computes those
// placements; drawing them is the job of the document writer.
package paginate
