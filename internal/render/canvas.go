package render

import (
	"image"
	"image/color"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	margin     = 24
	lineHeight = 18
	charWidth  = 7
	swatchSize = 10
)

var (
	textColor  = color.RGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff}
	mutedColor = color.RGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}
	ruleColor  = color.RGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
)

// block is one vertical slice of the composed report.
type block struct {
	height int
	draw   func(dst *image.RGBA, top int)
}

// compose stacks blocks top to bottom on a white canvas of the given width.
func compose(width int, blocks []block) *image.RGBA {
	height := 2 * margin
	for _, b := range blocks {
		height += b.height
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.Draw(dst, dst.Bounds(), image.White, image.Point{}, xdraw.Src)

	top := margin
	for _, b := range blocks {
		if b.draw != nil {
			b.draw(dst, top)
		}
		top += b.height
	}
	return dst
}

// upscale enlarges src by an integer factor.
func upscale(src image.Image, factor int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// drawText draws s with its baseline at y.
func drawText(dst *image.RGBA, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawBoldText overstrikes s one pixel to the right.
func drawBoldText(dst *image.RGBA, x, y int, s string, c color.Color) {
	drawText(dst, x, y, s, c)
	drawText(dst, x+1, y, s, c)
}

// textWidth returns the advance of s in pixels.
func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// drawImage draws src into r of dst.
func drawImage(dst *image.RGBA, r image.Rectangle, src image.Image) {
	xdraw.Draw(dst, r, src, src.Bounds().Min, xdraw.Over)
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	xdraw.Draw(dst, r, image.NewUniform(c), image.Point{}, xdraw.Src)
}

// baseline returns the text baseline within a line that starts at top.
func baseline(top int) int {
	return top + lineHeight - 5
}

// wrap breaks s into lines of at most width runes. Words longer than a
// line are split between runes.
func wrap(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines  []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curLen = 0
	}

	for _, w := range words {
		r := []rune(w)
		for len(r) > width {
			if curLen > 0 {
				flush()
			}
			lines = append(lines, string(r[:width]))
			r = r[width:]
		}
		switch {
		case curLen == 0:
		case curLen+1+len(r) <= width:
			cur.WriteByte(' ')
			curLen++
		default:
			flush()
		}
		cur.WriteString(string(r))
		curLen += len(r)
	}
	if cur.Len() > 0 {
		flush()
	}
	return lines
}
