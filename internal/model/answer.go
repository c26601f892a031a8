package model

import (
	"errors"
	"fmt"
	"strings"
)

// AnswerCategory is one of the four fixed response labels of the questionnaire.
//
// Design decision: We use string constants rather than iota because the
// values travel through YAML answer files, JSON reports and the database.
// The ordering of the categories carries no meaning; AllCategories defines
// the display order only.
type AnswerCategory string

const (
	// Applies means the statement holds.
	Applies AnswerCategory = "applies"

	// Partially means the statement holds to some degree.
	Partially AnswerCategory = "partially"

	// NotApplies means the statement does not hold.
	NotApplies AnswerCategory = "not_applies"

	// NotRelevant means the statement is not relevant or the respondent
	// does not know.
	NotRelevant AnswerCategory = "not_relevant"
)

// ErrInvalidAnswerCategory is returned when parsing an unknown category.
var ErrInvalidAnswerCategory = errors.New("invalid answer category")

// categoryInfo holds the presentation attributes of a category.
type categoryInfo struct {
	label string
	color string
}

// categoryInfoMapping is the single source of truth for labels and colors.
var categoryInfoMapping = map[AnswerCategory]categoryInfo{
	Applies:     {label: "Applies", color: "#22c55e"},
	Partially:   {label: "Partially applies", color: "#facc15"},
	NotApplies:  {label: "Does not apply", color: "#ef4444"},
	NotRelevant: {label: "Not relevant / don't know", color: "#9ca3af"},
}

// NotAnsweredLabel is shown for questions without an answer.
const NotAnsweredLabel = "Not answered"

// AllCategories returns the categories in display order.
func AllCategories() []AnswerCategory {
	return []AnswerCategory{Applies, Partially, NotApplies, NotRelevant}
}

// Valid reports whether c is one of the four known categories.
func (c AnswerCategory) Valid() bool {
	_, ok := categoryInfoMapping[c]
	return ok
}

// String returns the wire value of the category.
func (c AnswerCategory) String() string {
	return string(c)
}

// Label returns the human-readable label, or "Unknown" for invalid values.
func (c AnswerCategory) Label() string {
	if info, ok := categoryInfoMapping[c]; ok {
		return info.label
	}
	return "Unknown"
}

// Color returns the display color as a hex string.
// Invalid values get the neutral gray of NotRelevant.
func (c AnswerCategory) Color() string {
	if info, ok := categoryInfoMapping[c]; ok {
		return info.color
	}
	return categoryInfoMapping[NotRelevant].color
}

// ParseAnswerCategory converts user input into a category.
// It accepts the wire value (case-insensitive, "-" or " " for "_") and the
// 1-based position in AllCategories ("1".."4").
func ParseAnswerCategory(s string) (AnswerCategory, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)

	switch norm {
	case "1":
		return Applies, nil
	case "2":
		return Partially, nil
	case "3":
		return NotApplies, nil
	case "4":
		return NotRelevant, nil
	}

	c := AnswerCategory(norm)
	if !c.Valid() {
		return "", fmt.Errorf("%w %q: must be one of: applies, partially, not_applies, not_relevant", ErrInvalidAnswerCategory, s)
	}
	return c, nil
}

// Answers maps indicator id → question id → category.
// An absent entry means the question is unanswered.
type Answers map[string]map[string]AnswerCategory

// Set upserts the answer for a single question.
func (a Answers) Set(indicatorID, questionID string, c AnswerCategory) {
	inner, ok := a[indicatorID]
	if !ok {
		inner = make(map[string]AnswerCategory)
		a[indicatorID] = inner
	}
	inner[questionID] = c
}

// Get returns the answer for a question, if any.
func (a Answers) Get(indicatorID, questionID string) (AnswerCategory, bool) {
	inner, ok := a[indicatorID]
	if !ok {
		return "", false
	}
	c, ok := inner[questionID]
	return c, ok
}

// Count returns the number of stored answers.
func (a Answers) Count() int {
	n := 0
	for _, inner := range a {
		n += len(inner)
	}
	return n
}

// Clone returns a deep copy.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for ind, inner := range a {
		cp := make(map[string]AnswerCategory, len(inner))
		for q, c := range inner {
			cp[q] = c
		}
		out[ind] = cp
	}
	return out
}
