package model

// IndicatorTally holds the answer counts of one indicator.
// It is derived from Answers and the Taxonomy on every read and never stored
// on its own.
type IndicatorTally struct {
	IndicatorID    string                 `json:"indicator_id"`
	IndicatorTitle string                 `json:"indicator_title"`
	Color          string                 `json:"color"`
	QuestionCount  int                    `json:"question_count"`
	Counts         map[AnswerCategory]int `json:"counts"`
}

// NewIndicatorTally returns a tally with every category present at zero.
func NewIndicatorTally(ind Indicator, color string) IndicatorTally {
	counts := make(map[AnswerCategory]int, 4)
	for _, c := range AllCategories() {
		counts[c] = 0
	}
	return IndicatorTally{
		IndicatorID:    ind.ID,
		IndicatorTitle: ind.Title,
		Color:          color,
		QuestionCount:  len(ind.Questions),
		Counts:         counts,
	}
}

// Answered returns the number of counted answers.
func (t IndicatorTally) Answered() int {
	n := 0
	for _, v := range t.Counts {
		n += v
	}
	return n
}

// Unanswered returns the number of questions without a counted answer.
func (t IndicatorTally) Unanswered() int {
	return t.QuestionCount - t.Answered()
}

// PagePlacement describes where the rendered report is drawn on one page.
// Offset is in document units and is zero or negative: the same full image is
// redrawn on every page, shifted upward by the height already consumed.
type PagePlacement struct {
	PageIndex int     `json:"page_index"`
	Offset    float64 `json:"offset"`
	IsNewPage bool    `json:"is_new_page"`
}
