package assessment

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/selfcheck/internal/model"
)

// newTestSession creates a session over a small taxonomy with a silent logger.
func newTestSession(t *testing.T) *Session {
	t.Helper()

	tax := model.NewTaxonomy([]model.Dimension{
		{
			ID:    "A",
			Color: "#ff0000",
			Sections: []model.Section{
				{
					ID: "A1",
					Indicators: []model.Indicator{
						{ID: "ind1", Title: "One", Questions: []model.Question{{ID: "q1"}, {ID: "q2"}}},
						{ID: "ind2", Title: "Two", Questions: []model.Question{{ID: "q1"}}},
						{ID: "empty", Title: "No questions"},
					},
				},
			},
		},
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSession(tax, WithLogger(logger))
}

// TestSession_ToggleIndicator tests selection changes.
func TestSession_ToggleIndicator(t *testing.T) {
	t.Parallel()

	t.Run("toggles in and out preserving insertion order", func(t *testing.T) {
		t.Parallel()
		s := newTestSession(t)

		for _, id := range []string{"ind2", "ind1", "empty", "empty"} {
			if err := s.ToggleIndicator(id); err != nil {
				t.Fatalf("ToggleIndicator(%s): %v", id, err)
			}
		}

		if diff := cmp.Diff([]string{"ind2", "ind1"}, s.Selected()); diff != "" {
			t.Errorf("Selected() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("rejects unknown indicator", func(t *testing.T) {
		t.Parallel()
		s := newTestSession(t)

		err := s.ToggleIndicator("nope")
		if !errors.Is(err, ErrUnknownIndicator) {
			t.Errorf("expected ErrUnknownIndicator, got %v", err)
		}
	})

	t.Run("rejects toggle outside selecting", func(t *testing.T) {
		t.Parallel()
		s := newTestSession(t)
		mustToggle(t, s, "ind1")
		mustStart(t, s)

		err := s.ToggleIndicator("ind2")
		if !errors.Is(err, ErrInvalidPhaseTransition) {
			t.Errorf("expected ErrInvalidPhaseTransition, got %v", err)
		}

		var terr *TransitionError
		if !errors.As(err, &terr) || terr.Phase != PhaseAnswering || terr.Op != "toggle" {
			t.Errorf("unexpected transition error %+v", terr)
		}
	})
}

// TestSession_StartAnswering tests the Selecting → Answering transition.
func TestSession_StartAnswering(t *testing.T) {
	t.Parallel()

	t.Run("empty selection fails", func(t *testing.T) {
		t.Parallel()
		s := newTestSession(t)

		if err := s.StartAnswering(); !errors.Is(err, ErrEmptySelection) {
			t.Errorf("expected ErrEmptySelection, got %v", err)
		}
		if s.Phase() != PhaseSelecting {
			t.Errorf("phase = %s, want selecting", s.Phase())
		}
	})

	t.Run("cannot start twice", func(t *testing.T) {
		t.Parallel()
		s := newTestSession(t)
		mustToggle(t, s, "ind1")
		mustStart(t, s)

		if err := s.StartAnswering(); !errors.Is(err, ErrInvalidPhaseTransition) {
			t.Errorf("expected ErrInvalidPhaseTransition, got %v", err)
		}
	})

	t.Run("selection without questions is reported", func(t *testing.T) {
		t.Parallel()
		s := newTestSession(t)
		mustToggle(t, s, "empty")
		mustStart(t, s)

		if !s.NoQuestions() {
			t.Error("expected NoQuestions() to be true")
		}
		if _, ok := s.CurrentQuestion(); ok {
			t.Error("expected no current question")
		}
	})
}

// TestSession_RecordAnswer tests answer validation.
func TestSession_RecordAnswer(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		indicator string
		question  string
		category  model.AnswerCategory
		wantErr   error
	}{
		{"valid answer", "ind1", "q2", model.Partially, nil},
		{"question of other indicator", "ind2", "q2", model.Applies, ErrUnknownQuestion},
		{"indicator not selected", "empty", "q1", model.Applies, ErrUnknownQuestion},
		{"unknown indicator", "zzz", "q1", model.Applies, ErrUnknownQuestion},
		{"invalid category", "ind1", "q1", model.AnswerCategory("maybe"), ErrInvalidAnswer},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := newTestSession(t)
			mustToggle(t, s, "ind1")
			mustToggle(t, s, "ind2")
			mustStart(t, s)

			err := s.RecordAnswer(tc.indicator, tc.question, tc.category)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				got, ok := s.Answer(tc.indicator, tc.question)
				if !ok || got != tc.category {
					t.Errorf("Answer() = %q, %v", got, ok)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
			if s.Answers().Count() != 0 {
				t.Error("rejected answer must not be stored")
			}
		})
	}

	t.Run("rejected while selecting", func(t *testing.T) {
		t.Parallel()
		s := newTestSession(t)
		mustToggle(t, s, "ind1")

		err := s.RecordAnswer("ind1", "q1", model.Applies)
		if !errors.Is(err, ErrInvalidPhaseTransition) {
			t.Errorf("expected ErrInvalidPhaseTransition, got %v", err)
		}
	})

	t.Run("read-only while reviewing", func(t *testing.T) {
		t.Parallel()
		s := newTestSession(t)
		mustToggle(t, s, "ind1")
		mustStart(t, s)
		if err := s.Submit(); err != nil {
			t.Fatalf("Submit: %v", err)
		}

		err := s.RecordAnswer("ind1", "q1", model.Applies)
		if !errors.Is(err, ErrInvalidPhaseTransition) {
			t.Errorf("expected ErrInvalidPhaseTransition, got %v", err)
		}
	})
}

// TestSession_Lifecycle tests submit, back and restart.
func TestSession_Lifecycle(t *testing.T) {
	t.Parallel()

	t.Run("partial completion can be submitted", func(t *testing.T) {
		t.Parallel()
		s := newTestSession(t)
		mustToggle(t, s, "ind1")
		mustStart(t, s)
		if err := s.RecordAnswer("ind1", "q1", model.Applies); err != nil {
			t.Fatal(err)
		}

		if err := s.Submit(); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if s.Phase() != PhaseReviewing {
			t.Errorf("phase = %s, want reviewing", s.Phase())
		}
		if err := s.Submit(); !errors.Is(err, ErrInvalidPhaseTransition) {
			t.Errorf("second Submit: expected ErrInvalidPhaseTransition, got %v", err)
		}
	})

	t.Run("back clears selection and answers", func(t *testing.T) {
		t.Parallel()
		s := newTestSession(t)
		mustToggle(t, s, "ind1")
		mustStart(t, s)
		if err := s.RecordAnswer("ind1", "q1", model.Applies); err != nil {
			t.Fatal(err)
		}

		if err := s.Back(); err != nil {
			t.Fatalf("Back: %v", err)
		}
		if s.Phase() != PhaseSelecting || len(s.Selected()) != 0 || s.Answers().Count() != 0 {
			t.Errorf("unexpected state after Back: %s", s)
		}
	})

	t.Run("back is invalid while selecting", func(t *testing.T) {
		t.Parallel()
		s := newTestSession(t)
		if err := s.Back(); !errors.Is(err, ErrInvalidPhaseTransition) {
			t.Errorf("expected ErrInvalidPhaseTransition, got %v", err)
		}
	})

	t.Run("restart works from every phase", func(t *testing.T) {
		t.Parallel()
		s := newTestSession(t)

		s.Restart()
		if s.Phase() != PhaseSelecting {
			t.Fatalf("phase = %s", s.Phase())
		}

		mustToggle(t, s, "ind1")
		mustStart(t, s)
		if err := s.Submit(); err != nil {
			t.Fatal(err)
		}
		s.Restart()
		if s.Phase() != PhaseSelecting || len(s.Selected()) != 0 {
			t.Errorf("unexpected state after Restart: %s", s)
		}
	})
}

// TestSession_Cursor tests question navigation.
func TestSession_Cursor(t *testing.T) {
	t.Parallel()

	s := newTestSession(t)
	mustToggle(t, s, "ind2")
	mustToggle(t, s, "ind1")
	mustStart(t, s)

	cur, total := s.Progress()
	if cur != 1 || total != 3 {
		t.Fatalf("Progress() = %d/%d, want 1/3", cur, total)
	}

	q, ok := s.CurrentQuestion()
	if !ok || q.IndicatorID != "ind1" || q.Question.ID != "q1" {
		t.Fatalf("first question = %+v; want taxonomy order", q)
	}

	if err := s.Previous(); err != nil {
		t.Fatalf("Previous on first question: %v", err)
	}
	if cur, _ := s.Progress(); cur != 1 {
		t.Errorf("Previous on first question moved cursor to %d", cur)
	}

	if err := s.RecordCurrent(model.NotApplies); err != nil {
		t.Fatalf("RecordCurrent: %v", err)
	}
	if got, _ := s.Answer("ind1", "q1"); got != model.NotApplies {
		t.Errorf("answer = %q", got)
	}

	for i := 0; i < 2; i++ {
		submitted, err := s.Next()
		if err != nil || submitted {
			t.Fatalf("Next() = %v, %v", submitted, err)
		}
	}
	if !s.IsLastQuestion() {
		t.Fatal("expected cursor on last question")
	}

	submitted, err := s.Next()
	if err != nil || !submitted {
		t.Fatalf("Next() on last question = %v, %v; want submit", submitted, err)
	}
	if s.Phase() != PhaseReviewing {
		t.Errorf("phase = %s, want reviewing", s.Phase())
	}
}

func mustToggle(t *testing.T, s *Session, id string) {
	t.Helper()
	if err := s.ToggleIndicator(id); err != nil {
		t.Fatalf("ToggleIndicator(%s): %v", id, err)
	}
}

func mustStart(t *testing.T, s *Session) {
	t.Helper()
	if err := s.StartAnswering(); err != nil {
		t.Fatalf("StartAnswering: %v", err)
	}
}
