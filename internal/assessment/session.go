package assessment

import (
	"fmt"
	"log/slog"

	"github.com/nao1215/selfcheck/internal/model"
)

// Phase is the step of the assessment flow a session is in.
type Phase int

const (
	// PhaseSelecting is the initial phase: indicators are toggled in and out.
	PhaseSelecting Phase = iota

	// PhaseAnswering is the questionnaire phase: answers are recorded.
	PhaseAnswering

	// PhaseReviewing is the final phase: the report is shown and exported.
	PhaseReviewing
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseSelecting:
		return "selecting"
	case PhaseAnswering:
		return "answering"
	case PhaseReviewing:
		return "reviewing"
	default:
		return "unknown"
	}
}

// Session is the single owner of the mutable assessment state: the selected
// indicators, the answers and the questionnaire cursor.
//
// Design decision: All state changes go through the transition methods below
// instead of exposing the maps. This keeps the phase rules in one place and
// makes it impossible to, for example, change the selection while answering.
//
// A Session is not safe for concurrent use; it belongs to one UI loop.
type Session struct {
	taxonomy *model.Taxonomy
	logger   *slog.Logger

	phase    Phase
	selected []string
	answers  model.Answers

	// questions is the flat question list of the selection, frozen when
	// answering starts.
	questions []model.FlatQuestion
	cursor    int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used to trace transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a session in PhaseSelecting with an empty selection.
func NewSession(taxonomy *model.Taxonomy, opts ...Option) *Session {
	s := &Session{
		taxonomy: taxonomy,
		phase:    PhaseSelecting,
		selected: make([]string, 0),
		answers:  make(model.Answers),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Taxonomy returns the taxonomy the session works on.
func (s *Session) Taxonomy() *model.Taxonomy {
	return s.taxonomy
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Selected returns the selected indicator ids in the order they were added.
func (s *Session) Selected() []string {
	out := make([]string, len(s.selected))
	copy(out, s.selected)
	return out
}

// IsSelected reports whether the indicator is selected.
func (s *Session) IsSelected(id string) bool {
	return s.indexOf(id) >= 0
}

// Answers returns a copy of the recorded answers.
func (s *Session) Answers() model.Answers {
	return s.answers.Clone()
}

// Answer returns the recorded answer for one question.
func (s *Session) Answer(indicatorID, questionID string) (model.AnswerCategory, bool) {
	return s.answers.Get(indicatorID, questionID)
}

// ToggleIndicator adds the indicator to the selection, or removes it when it
// is already selected. Only valid while selecting.
func (s *Session) ToggleIndicator(id string) error {
	if s.phase != PhaseSelecting {
		return s.reject("toggle", ErrInvalidPhaseTransition, id)
	}
	if !s.taxonomy.HasIndicator(id) {
		return s.reject("toggle", ErrUnknownIndicator, id)
	}

	if i := s.indexOf(id); i >= 0 {
		s.selected = append(s.selected[:i], s.selected[i+1:]...)
		s.logger.Debug("indicator deselected", "indicator", id, "selected", len(s.selected))
		return nil
	}

	s.selected = append(s.selected, id)
	s.logger.Debug("indicator selected", "indicator", id, "selected", len(s.selected))
	return nil
}

// StartAnswering freezes the selection and moves to PhaseAnswering.
// The questionnaire cursor is placed on the first question.
func (s *Session) StartAnswering() error {
	if s.phase != PhaseSelecting {
		return s.reject("start", ErrInvalidPhaseTransition, "")
	}
	if len(s.selected) == 0 {
		return s.reject("start", ErrEmptySelection, "")
	}

	s.questions = s.taxonomy.Questions(s.selected)
	s.cursor = 0
	s.phase = PhaseAnswering

	s.logger.Info("answering started",
		"indicators", len(s.selected),
		"questions", len(s.questions),
	)
	return nil
}

// RecordAnswer upserts the answer to one question. Only valid while
// answering; the indicator must be selected and the question must belong to
// it.
func (s *Session) RecordAnswer(indicatorID, questionID string, category model.AnswerCategory) error {
	if s.phase != PhaseAnswering {
		return s.reject("record", ErrInvalidPhaseTransition, "")
	}
	if !category.Valid() {
		return s.reject("record", ErrInvalidAnswer, string(category))
	}
	if !s.IsSelected(indicatorID) || !s.taxonomy.HasQuestion(indicatorID, questionID) {
		return s.reject("record", ErrUnknownQuestion, indicatorID+"/"+questionID)
	}

	s.answers.Set(indicatorID, questionID, category)
	s.logger.Debug("answer recorded",
		"indicator", indicatorID,
		"question", questionID,
		"answer", category.String(),
	)
	return nil
}

// Submit moves to PhaseReviewing. Unanswered questions are allowed.
func (s *Session) Submit() error {
	if s.phase != PhaseAnswering {
		return s.reject("submit", ErrInvalidPhaseTransition, "")
	}

	s.phase = PhaseReviewing
	s.logger.Info("assessment submitted",
		"answered", s.answers.Count(),
		"questions", len(s.questions),
	)
	return nil
}

// Back leaves the questionnaire and returns to the selection, discarding the
// selection and all answers. Only valid while answering.
func (s *Session) Back() error {
	if s.phase != PhaseAnswering {
		return s.reject("back", ErrInvalidPhaseTransition, "")
	}
	s.reset()
	return nil
}

// Restart clears everything and returns to PhaseSelecting from any phase.
func (s *Session) Restart() {
	s.reset()
}

func (s *Session) reset() {
	from := s.phase
	s.phase = PhaseSelecting
	s.selected = make([]string, 0)
	s.answers = make(model.Answers)
	s.questions = nil
	s.cursor = 0
	s.logger.Info("session reset", "from", from.String())
}

func (s *Session) indexOf(id string) int {
	for i, sel := range s.selected {
		if sel == id {
			return i
		}
	}
	return -1
}

func (s *Session) reject(op string, err error, detail string) error {
	terr := &TransitionError{Op: op, Phase: s.phase, Detail: detail, Err: err}
	s.logger.Debug("operation rejected", "error", terr)
	return terr
}

// String implements fmt.Stringer for debugging.
func (s *Session) String() string {
	return fmt.Sprintf("session(phase=%s selected=%d answered=%d)", s.phase, len(s.selected), s.answers.Count())
}
