package paginate

import (
	"fmt"
	"math"

	"github.com/nao1215/selfcheck/internal/model"
)

// PageSize is a page size in millimeters.
type PageSize struct {
	Width  float64
	Height float64
}

var (
	// A4 is ISO 216 A4 portrait, the default.
	A4 = PageSize{Width: 210, Height: 297}

	// Letter is US Letter portrait.
	Letter = PageSize{Width: 215.9, Height: 279.4}
)

// pageSizes maps the configuration names to sizes.
var pageSizes = map[string]PageSize{
	"a4":     A4,
	"letter": Letter,
}

// PageSizeByName returns the named page size ("a4" or "letter").
func PageSizeByName(name string) (PageSize, bool) {
	s, ok := pageSizes[name]
	return s, ok
}

// Valid reports whether both sides are positive.
func (p PageSize) Valid() bool {
	return p.Width > 0 && p.Height > 0
}

// ScaledHeight returns the height of a pixelWidth×pixelHeight image once its
// width is scaled to the page width.
//
// scale = pixelWidth / page.Width and scaledHeight = pixelHeight / scale.
func ScaledHeight(pixelWidth, pixelHeight int, page PageSize) float64 {
	scale := float64(pixelWidth) / page.Width
	return float64(pixelHeight) / scale
}

// PageCount returns how many pages are needed for an image of the given
// scaled height. It is never less than one.
func PageCount(scaledHeight, pageHeight float64) int {
	n := int(math.Ceil(scaledHeight / pageHeight))
	if n < 1 {
		return 1
	}
	return n
}

// Paginate computes the page placements for a rendered image.
//
// Page 0 draws the image at offset 0. Page k>0 draws it at offset
// -(k * page.Height), so that the part of the image starting at the consumed
// height lines up with the top of the page. Every page after the first is
// marked IsNewPage.
//
// The sum of visible heights equals the scaled height: the last page shows
// the remainder and is never empty.
func Paginate(pixelWidth, pixelHeight int, page PageSize) ([]model.PagePlacement, error) {
	if pixelWidth <= 0 || pixelHeight <= 0 {
		return nil, fmt.Errorf("%w: image is %dx%d px", ErrInvalidDimensions, pixelWidth, pixelHeight)
	}
	if !page.Valid() {
		return nil, fmt.Errorf("%w: page is %gx%g mm", ErrInvalidDimensions, page.Width, page.Height)
	}

	scaled := ScaledHeight(pixelWidth, pixelHeight, page)
	count := PageCount(scaled, page.Height)

	placements := make([]model.PagePlacement, 0, count)
	for k := 0; k < count; k++ {
		placements = append(placements, model.PagePlacement{
			PageIndex: k,
			Offset:    -float64(k) * page.Height,
			IsNewPage: k > 0,
		})
	}

	return placements, nil
}

// VisibleHeight returns how much of the scaled image a placement shows on a
// page of the given height.
func VisibleHeight(p model.PagePlacement, scaledHeight, pageHeight float64) float64 {
	remaining := scaledHeight + p.Offset
	if remaining <= 0 {
		return 0
	}
	return math.Min(remaining, pageHeight)
}
