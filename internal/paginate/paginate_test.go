package paginate

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/selfcheck/internal/model"
)

// TestPaginate_TwoPages tests an 800x1200 image on A4.
// Scale is 800/210, so the scaled height is 315 mm: one full page and 18 mm.
func TestPaginate_TwoPages(t *testing.T) {
	t.Parallel()

	got, err := Paginate(800, 1200, A4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []model.PagePlacement{
		{PageIndex: 0, Offset: 0, IsNewPage: false},
		{PageIndex: 1, Offset: -297, IsNewPage: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Paginate() mismatch (-want +got):\n%s", diff)
	}

	if h := ScaledHeight(800, 1200, A4); math.Abs(h-315) > 1e-9 {
		t.Errorf("ScaledHeight() = %v, want 315", h)
	}
}

// TestPaginate tests page counts across sizes.
func TestPaginate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		width    int
		height   int
		page     PageSize
		expected int
	}{
		{"short image fits one page", 210, 100, A4, 1},
		{"exact page height", 210, 297, A4, 1},
		{"one pixel over", 210, 298, A4, 2},
		{"three pages", 420, 1500, A4, 3},
		{"tiny image", 1, 1, A4, 1},
		{"letter", 2159, 5000, Letter, 2},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Paginate(tc.width, tc.height, tc.page)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tc.expected {
				t.Fatalf("got %d pages, expected %d", len(got), tc.expected)
			}

			scaled := ScaledHeight(tc.width, tc.height, tc.page)
			want := int(math.Max(1, math.Ceil(scaled/tc.page.Height)))
			if len(got) != want {
				t.Errorf("page count %d does not match ceil(%v/%v)", len(got), scaled, tc.page.Height)
			}

			visible := 0.0
			for k, p := range got {
				if p.PageIndex != k {
					t.Errorf("page %d has index %d", k, p.PageIndex)
				}
				if p.IsNewPage != (k > 0) {
					t.Errorf("page %d IsNewPage = %v", k, p.IsNewPage)
				}
				if p.Offset != -float64(k)*tc.page.Height {
					t.Errorf("page %d offset = %v", k, p.Offset)
				}
				v := VisibleHeight(p, scaled, tc.page.Height)
				if v <= 0 {
					t.Errorf("page %d shows nothing", k)
				}
				visible += v
			}
			if math.Abs(visible-scaled) > 1e-6 {
				t.Errorf("visible heights sum to %v, expected %v", visible, scaled)
			}
		})
	}
}

// TestPaginate_InvalidDimensions tests rejection of degenerate input.
func TestPaginate_InvalidDimensions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		width  int
		height int
		page   PageSize
	}{
		{"zero width", 0, 100, A4},
		{"zero height", 100, 0, A4},
		{"negative", -1, -1, A4},
		{"zero page", 100, 100, PageSize{}},
		{"negative page height", 100, 100, PageSize{Width: 210, Height: -1}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Paginate(tc.width, tc.height, tc.page)
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("expected ErrInvalidDimensions, got %v", err)
			}
			if got != nil {
				t.Errorf("expected nil placements, got %v", got)
			}
		})
	}
}

// TestPageSizeByName tests the named sizes.
func TestPageSizeByName(t *testing.T) {
	t.Parallel()

	if s, ok := PageSizeByName("a4"); !ok || s != A4 {
		t.Errorf("a4 = %v, %v", s, ok)
	}
	if s, ok := PageSizeByName("letter"); !ok || s != Letter {
		t.Errorf("letter = %v, %v", s, ok)
	}
	if _, ok := PageSizeByName("a3"); ok {
		t.Error("a3 should be unknown")
	}
}

// TestPageCount tests the minimum of one page.
func TestPageCount(t *testing.T) {
	t.Parallel()

	if n := PageCount(0, 297); n != 1 {
		t.Errorf("PageCount(0) = %d, want 1", n)
	}
	if n := PageCount(594, 297); n != 2 {
		t.Errorf("PageCount(594) = %d, want 2", n)
	}
}
