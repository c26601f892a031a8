package model

import "time"

// AssessmentReport is the complete result of one assessment session.
// It is the input of every report writer, of the raster capture and of the
// report archive.
//
// Design decision: We keep tallies and the per-question details side by side
// rather than recomputing the details from Answers in every writer because:
// 1. Every output format shows the same "answers in detail" listing
// 2. It can be serialized to JSON without access to the taxonomy
// 3. It separates presentation concerns from aggregation
type AssessmentReport struct {
	// Title is the report heading.
	Title string `json:"title"`

	// Respondent optionally names the person who answered.
	Respondent string `json:"respondent,omitempty"`

	// Organization optionally names the school or institution.
	Organization string `json:"organization,omitempty"`

	// GeneratedAt is when the report was built.
	GeneratedAt time.Time `json:"generated_at"`

	// Tallies holds one entry per selected indicator in taxonomy order.
	Tallies []IndicatorTally `json:"tallies"`

	// Details holds the per-question listing, grouped like Tallies.
	Details []IndicatorDetail `json:"details"`

	// Totals sums the tallies per category.
	Totals map[AnswerCategory]int `json:"totals"`

	// QuestionCount is the number of questions across all selected indicators.
	QuestionCount int `json:"question_count"`

	// AnsweredCount is the number of counted answers across all indicators.
	AnsweredCount int `json:"answered_count"`
}

// IndicatorDetail lists the questions of one indicator with their answers.
type IndicatorDetail struct {
	IndicatorID    string           `json:"indicator_id"`
	IndicatorTitle string           `json:"indicator_title"`
	DimensionTitle string           `json:"dimension_title"`
	SectionTitle   string           `json:"section_title"`
	Color          string           `json:"color"`
	Questions      []QuestionDetail `json:"questions"`
}

// QuestionDetail is one line of the detail listing.
// Answer is empty when the question was not answered.
type QuestionDetail struct {
	QuestionID string         `json:"question_id"`
	Text       string         `json:"text"`
	Answer     AnswerCategory `json:"answer,omitempty"`
}

// AnswerLabel returns the label of the answer or NotAnsweredLabel.
func (q QuestionDetail) AnswerLabel() string {
	if q.Answer == "" {
		return NotAnsweredLabel
	}
	return q.Answer.Label()
}

// HasTallies reports whether any indicator was selected.
func (r *AssessmentReport) HasTallies() bool {
	return len(r.Tallies) > 0
}

// HasAnswers reports whether at least one answer was counted.
func (r *AssessmentReport) HasAnswers() bool {
	return r.AnsweredCount > 0
}

// Completion returns the answered share of all questions in [0, 1].
// A report without questions is reported as complete.
func (r *AssessmentReport) Completion() float64 {
	if r.QuestionCount == 0 {
		return 1
	}
	return float64(r.AnsweredCount) / float64(r.QuestionCount)
}

// Total returns the total count for one category.
func (r *AssessmentReport) Total(c AnswerCategory) int {
	return r.Totals[c]
}
