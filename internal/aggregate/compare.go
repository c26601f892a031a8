package aggregate

import "github.com/nao1215/selfcheck/internal/model"

// IndicatorDelta is the change of one indicator between two reports.
// Counts maps each category to new count minus old count.
type IndicatorDelta struct {
	IndicatorID    string
	IndicatorTitle string
	Color          string

	// InOld and InNew report whether the indicator was selected in each report.
	InOld bool
	InNew bool

	Counts map[model.AnswerCategory]int
}

// Compare returns per-indicator deltas between two reports.
//
// Indicators appear in the order of the newer report, followed by those
// present only in the older one. An indicator missing from one side is
// treated as all zero on that side.
func Compare(older, newer *model.AssessmentReport) []IndicatorDelta {
	oldTallies := make(map[string]model.IndicatorTally, len(older.Tallies))
	for _, t := range older.Tallies {
		oldTallies[t.IndicatorID] = t
	}

	deltas := make([]IndicatorDelta, 0, len(newer.Tallies)+len(older.Tallies))
	seen := make(map[string]bool, len(newer.Tallies))

	for _, nt := range newer.Tallies {
		seen[nt.IndicatorID] = true
		ot, inOld := oldTallies[nt.IndicatorID]
		deltas = append(deltas, delta(nt, ot, inOld, true))
	}
	for _, ot := range older.Tallies {
		if seen[ot.IndicatorID] {
			continue
		}
		deltas = append(deltas, delta(ot, model.IndicatorTally{}, true, false))
	}

	return deltas
}

// delta builds the entry for ref, which is the newer tally when present.
func delta(ref, other model.IndicatorTally, inOld, inNew bool) IndicatorDelta {
	d := IndicatorDelta{
		IndicatorID:    ref.IndicatorID,
		IndicatorTitle: ref.IndicatorTitle,
		Color:          ref.Color,
		InOld:          inOld,
		InNew:          inNew,
		Counts:         make(map[model.AnswerCategory]int, 4),
	}

	for _, c := range model.AllCategories() {
		switch {
		case inNew && inOld:
			d.Counts[c] = ref.Counts[c] - other.Counts[c]
		case inNew:
			d.Counts[c] = ref.Counts[c]
		default:
			d.Counts[c] = -ref.Counts[c]
		}
	}

	return d
}
