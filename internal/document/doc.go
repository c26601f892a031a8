// Package document writes a paginated report image as a PDF file.
//
// The full image is placed on every page at the offset computed by the
// paginate package and the page boundary clips it. Files are written to a
// temporary name in the target directory and renamed into place, so a failed
// export never leaves a truncated document behind.
package document
