package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// newTestTaxonomy builds a two-dimension taxonomy used across tests.
func newTestTaxonomy() *Taxonomy {
	return NewTaxonomy([]Dimension{
		{
			ID:    "A",
			Title: "Culture",
			Color: "#ff0000",
			Sections: []Section{
				{
					ID:    "A1",
					Title: "Community",
					Indicators: []Indicator{
						{ID: "A1.1", Title: "Welcome", Questions: []Question{{ID: "q1", Text: "Q one"}, {ID: "q2", Text: "Q two"}}},
						{ID: "A1.2", Title: "Empty"},
					},
				},
			},
		},
		{
			ID:    "B",
			Title: "Policy",
			Color: "#00ff00",
			Sections: []Section{
				{
					ID:    "B1",
					Title: "Planning",
					Indicators: []Indicator{
						{ID: "B1.1", Title: "Plans", Questions: []Question{{ID: "q1", Text: "B q one"}}},
					},
				},
			},
		},
	})
}

// TestTaxonomyLookups tests the flat indexes built by NewTaxonomy.
func TestTaxonomyLookups(t *testing.T) {
	t.Parallel()

	tax := newTestTaxonomy()

	t.Run("indicator order follows traversal", func(t *testing.T) {
		t.Parallel()
		want := []string{"A1.1", "A1.2", "B1.1"}
		if diff := cmp.Diff(want, tax.IndicatorIDs()); diff != "" {
			t.Errorf("IndicatorIDs() mismatch (-want +got):\n%s", diff)
		}
		if tax.Len() != 3 {
			t.Errorf("Len() = %d, want 3", tax.Len())
		}
	})

	t.Run("dimension color is inherited", func(t *testing.T) {
		t.Parallel()
		color, ok := tax.DimensionColor("B1.1")
		if !ok || color != "#00ff00" {
			t.Errorf("DimensionColor(B1.1) = %q, %v", color, ok)
		}
		if _, ok := tax.DimensionColor("missing"); ok {
			t.Error("expected unknown id to report false")
		}
	})

	t.Run("question membership is per indicator", func(t *testing.T) {
		t.Parallel()
		if !tax.HasQuestion("A1.1", "q2") {
			t.Error("expected q2 to belong to A1.1")
		}
		if tax.HasQuestion("B1.1", "q2") {
			t.Error("expected q2 not to belong to B1.1")
		}
		if tax.HasQuestion("missing", "q1") {
			t.Error("expected unknown indicator to have no questions")
		}
	})

	t.Run("ordered sorts and drops unknown ids", func(t *testing.T) {
		t.Parallel()
		got := tax.Ordered([]string{"B1.1", "nope", "A1.1", "B1.1"})
		want := []string{"A1.1", "B1.1"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Ordered() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("questions flatten in taxonomy order", func(t *testing.T) {
		t.Parallel()
		got := tax.Questions([]string{"B1.1", "A1.1", "A1.2"})
		if len(got) != 3 {
			t.Fatalf("len(Questions) = %d, want 3", len(got))
		}
		if got[0].IndicatorID != "A1.1" || got[0].Question.ID != "q1" {
			t.Errorf("first question = %+v", got[0])
		}
		if got[2].IndicatorID != "B1.1" || got[2].Color != "#00ff00" {
			t.Errorf("last question = %+v", got[2])
		}
	})

	t.Run("ref carries section and dimension titles", func(t *testing.T) {
		t.Parallel()
		ref, ok := tax.Ref("A1.2")
		if !ok {
			t.Fatal("expected A1.2 to exist")
		}
		if ref.SectionTitle != "Community" || ref.DimensionTitle != "Culture" {
			t.Errorf("unexpected ref %+v", ref)
		}
	})
}

// TestNewTaxonomy_DuplicateIndicator tests that the first occurrence wins.
func TestNewTaxonomy_DuplicateIndicator(t *testing.T) {
	t.Parallel()

	tax := NewTaxonomy([]Dimension{
		{ID: "A", Color: "#111111", Sections: []Section{{ID: "A1", Indicators: []Indicator{{ID: "x", Title: "first"}}}}},
		{ID: "B", Color: "#222222", Sections: []Section{{ID: "B1", Indicators: []Indicator{{ID: "x", Title: "second"}}}}},
	})

	ind, ok := tax.Indicator("x")
	if !ok || ind.Title != "first" {
		t.Errorf("Indicator(x) = %+v, %v", ind, ok)
	}
	if tax.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tax.Len())
	}
}
