package assessment

import "github.com/nao1215/selfcheck/internal/model"

// The questionnaire presents one question at a time. The cursor walks the
// flat question list of the selection in taxonomy order.

// NoQuestions reports whether the selection has no questions at all.
// Such a session can only go back or be submitted.
func (s *Session) NoQuestions() bool {
	return s.phase == PhaseAnswering && len(s.questions) == 0
}

// Questions returns the frozen question list. It is empty outside of
// PhaseAnswering and PhaseReviewing.
func (s *Session) Questions() []model.FlatQuestion {
	out := make([]model.FlatQuestion, len(s.questions))
	copy(out, s.questions)
	return out
}

// CurrentQuestion returns the question under the cursor.
func (s *Session) CurrentQuestion() (model.FlatQuestion, bool) {
	if s.phase != PhaseAnswering || len(s.questions) == 0 {
		return model.FlatQuestion{}, false
	}
	return s.questions[s.cursor], true
}

// Progress returns the 1-based cursor position and the number of questions.
func (s *Session) Progress() (current, total int) {
	if len(s.questions) == 0 {
		return 0, 0
	}
	return s.cursor + 1, len(s.questions)
}

// IsLastQuestion reports whether the cursor is on the final question.
func (s *Session) IsLastQuestion() bool {
	return len(s.questions) > 0 && s.cursor == len(s.questions)-1
}

// RecordCurrent answers the question under the cursor.
func (s *Session) RecordCurrent(category model.AnswerCategory) error {
	q, ok := s.CurrentQuestion()
	if !ok {
		return s.reject("record", ErrInvalidPhaseTransition, "no current question")
	}
	return s.RecordAnswer(q.IndicatorID, q.Question.ID, category)
}

// Next advances the cursor. On the last question it submits the session
// instead and reports submitted=true.
func (s *Session) Next() (submitted bool, err error) {
	if s.phase != PhaseAnswering {
		return false, s.reject("next", ErrInvalidPhaseTransition, "")
	}
	if s.cursor < len(s.questions)-1 {
		s.cursor++
		return false, nil
	}
	if err := s.Submit(); err != nil {
		return false, err
	}
	return true, nil
}

// Previous moves the cursor back one question. It is a no-op on the first
// question.
func (s *Session) Previous() error {
	if s.phase != PhaseAnswering {
		return s.reject("previous", ErrInvalidPhaseTransition, "")
	}
	if s.cursor > 0 {
		s.cursor--
	}
	return nil
}
