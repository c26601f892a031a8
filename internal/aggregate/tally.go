package aggregate

import (
	"time"

	"github.com/nao1215/selfcheck/internal/model"
)

// DefaultIndicatorColor is returned for indicators that are not part of the
// taxonomy.
const DefaultIndicatorColor = "#6366f1"

// ComputeTallies counts the answers of each selected indicator.
//
// The result follows taxonomy order (dimension by dimension, section by
// section), not the order of selected. Unknown indicator ids are skipped.
// Answers that are absent, not a recognized category, or keyed by a question
// the indicator does not own are not counted.
func ComputeTallies(selected []string, answers model.Answers, taxonomy *model.Taxonomy) []model.IndicatorTally {
	return computeTallies(selected, answers, taxonomy, newLabels(taxonomy))
}

// labels is the id keyed color and title lookup of one report. The chart
// bars and the detail listing both read from it.
type labels struct {
	colors map[string]string
	titles map[string]string
}

func newLabels(taxonomy *model.Taxonomy) labels {
	return labels{colors: ColorMap(taxonomy), titles: TitleMap(taxonomy)}
}

func computeTallies(selected []string, answers model.Answers, taxonomy *model.Taxonomy, lb labels) []model.IndicatorTally {
	ids := taxonomy.Ordered(selected)
	tallies := make([]model.IndicatorTally, 0, len(ids))

	for _, id := range ids {
		ind, _ := taxonomy.Indicator(id)
		tally := model.NewIndicatorTally(ind, lb.colors[id])
		tally.IndicatorTitle = lb.titles[id]

		for _, q := range ind.Questions {
			c, ok := answers.Get(id, q.ID)
			if !ok || !c.Valid() {
				continue
			}
			tally.Counts[c]++
		}

		tallies = append(tallies, tally)
	}

	return tallies
}

// ResolveIndicatorColor returns the color of the dimension that contains the
// indicator, or DefaultIndicatorColor when the id is unknown.
func ResolveIndicatorColor(indicatorID string, taxonomy *model.Taxonomy) string {
	if color, ok := taxonomy.DimensionColor(indicatorID); ok {
		return color
	}
	return DefaultIndicatorColor
}

// ColorMap returns indicator id → dimension color for every indicator.
func ColorMap(taxonomy *model.Taxonomy) map[string]string {
	ids := taxonomy.IndicatorIDs()
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		out[id] = ResolveIndicatorColor(id, taxonomy)
	}
	return out
}

// TitleMap returns indicator id → indicator title for every indicator.
func TitleMap(taxonomy *model.Taxonomy) map[string]string {
	ids := taxonomy.IndicatorIDs()
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		ind, _ := taxonomy.Indicator(id)
		out[id] = ind.Title
	}
	return out
}

// Meta carries the descriptive fields of a report.
type Meta struct {
	Title        string
	Respondent   string
	Organization string
}

// DefaultReportTitle is used when Meta.Title is empty.
const DefaultReportTitle = "Self-Assessment Report"

// BuildReport assembles the full report of a session: tallies, the detail
// listing and the totals.
func BuildReport(selected []string, answers model.Answers, taxonomy *model.Taxonomy, meta Meta) *model.AssessmentReport {
	title := meta.Title
	if title == "" {
		title = DefaultReportTitle
	}

	lb := newLabels(taxonomy)
	tallies := computeTallies(selected, answers, taxonomy, lb)
	r := &model.AssessmentReport{
		Title:        title,
		Respondent:   meta.Respondent,
		Organization: meta.Organization,
		GeneratedAt:  time.Now().UTC(),
		Tallies:      tallies,
		Details:      make([]model.IndicatorDetail, 0, len(tallies)),
		Totals:       make(map[model.AnswerCategory]int, 4),
	}

	for _, c := range model.AllCategories() {
		r.Totals[c] = 0
	}

	for _, tally := range tallies {
		r.QuestionCount += tally.QuestionCount
		r.AnsweredCount += tally.Answered()
		for c, n := range tally.Counts {
			r.Totals[c] += n
		}
		r.Details = append(r.Details, buildDetail(tally.IndicatorID, answers, taxonomy, lb))
	}

	return r
}

// buildDetail lists every question of one indicator with its answer.
// Unrecognized answers are shown as not answered, matching the tallies.
func buildDetail(id string, answers model.Answers, taxonomy *model.Taxonomy, lb labels) model.IndicatorDetail {
	ref, _ := taxonomy.Ref(id)
	detail := model.IndicatorDetail{
		IndicatorID:    id,
		IndicatorTitle: lb.titles[id],
		DimensionTitle: ref.DimensionTitle,
		SectionTitle:   ref.SectionTitle,
		Color:          lb.colors[id],
		Questions:      make([]model.QuestionDetail, 0, len(ref.Indicator.Questions)),
	}

	for _, q := range ref.Indicator.Questions {
		qd := model.QuestionDetail{QuestionID: q.ID, Text: q.Text}
		if c, ok := answers.Get(id, q.ID); ok && c.Valid() {
			qd.Answer = c
		}
		detail.Questions = append(detail.Questions, qd)
	}

	return detail
}
