package taxonomy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/selfcheck/internal/aggregate"
	"github.com/nao1215/selfcheck/internal/assessment"
	"github.com/nao1215/selfcheck/internal/model"
)

// Script is one filled-in questionnaire.
//
// Example:
//
//	title: Spring review
//	selected: [lead-vision, teach-feedback]
//	answers:
//	  lead-vision:
//	    q1: applies
//	    q2: partially
type Script struct {
	// Title, Respondent and Organization override the configured metadata.
	Title        string `yaml:"title,omitempty"`
	Respondent   string `yaml:"respondent,omitempty"`
	Organization string `yaml:"organization,omitempty"`

	// Selected lists indicator ids in selection order.
	Selected []string `yaml:"selected"`

	// Answers maps indicator id → question id → category wire value.
	Answers map[string]map[string]string `yaml:"answers"`
}

// LoadScript reads an answer script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided answer file is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}

	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrDecode, err)
	}
	return &s, nil
}

// Replay runs the script through a new session and returns the session in
// PhaseReviewing.
//
// Answers are recorded in taxonomy order so that errors are reported
// deterministically. The first rejected selection or answer aborts the
// replay with the session's error.
func (s *Script) Replay(tax *model.Taxonomy) (*assessment.Session, error) {
	session := assessment.NewSession(tax)

	for _, id := range s.Selected {
		if session.IsSelected(id) {
			continue
		}
		if err := session.ToggleIndicator(id); err != nil {
			return nil, err
		}
	}

	if err := session.StartAnswering(); err != nil {
		return nil, err
	}

	for _, q := range session.Questions() {
		raw, ok := s.Answers[q.IndicatorID][q.Question.ID]
		if !ok {
			continue
		}
		category, err := model.ParseAnswerCategory(raw)
		if err != nil {
			return nil, &assessment.TransitionError{
				Op:     "record",
				Phase:  session.Phase(),
				Detail: fmt.Sprintf("%s/%s: %q", q.IndicatorID, q.Question.ID, raw),
				Err:    assessment.ErrInvalidAnswer,
			}
		}
		if err := session.RecordAnswer(q.IndicatorID, q.Question.ID, category); err != nil {
			return nil, err
		}
	}

	if err := s.checkOrphans(tax, session); err != nil {
		return nil, err
	}

	if err := session.Submit(); err != nil {
		return nil, err
	}
	return session, nil
}

// checkOrphans rejects answers for questions outside the selection.
func (s *Script) checkOrphans(tax *model.Taxonomy, session *assessment.Session) error {
	for indicatorID, questions := range s.Answers {
		for questionID := range questions {
			if session.IsSelected(indicatorID) && tax.HasQuestion(indicatorID, questionID) {
				continue
			}
			return &assessment.TransitionError{
				Op:     "record",
				Phase:  session.Phase(),
				Detail: indicatorID + "/" + questionID,
				Err:    assessment.ErrUnknownQuestion,
			}
		}
	}
	return nil
}

// Meta merges the script's metadata over base.
func (s *Script) Meta(base aggregate.Meta) aggregate.Meta {
	if s.Title != "" {
		base.Title = s.Title
	}
	if s.Respondent != "" {
		base.Respondent = s.Respondent
	}
	if s.Organization != "" {
		base.Organization = s.Organization
	}
	return base
}

// BuildReport loads, replays and aggregates one answer script.
func BuildReport(path string, tax *model.Taxonomy, base aggregate.Meta) (*model.AssessmentReport, error) {
	script, err := LoadScript(path)
	if err != nil {
		return nil, err
	}

	session, err := script.Replay(tax)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return aggregate.BuildReport(session.Selected(), session.Answers(), tax, script.Meta(base)), nil
}

// ReportSource returns a function that builds the report of the answer
// script named by a job. It matches pipeline.ReportSource.
func ReportSource(tax *model.Taxonomy, base aggregate.Meta) func(ctx context.Context, path string) (*model.AssessmentReport, error) {
	return func(ctx context.Context, path string) (*model.AssessmentReport, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return BuildReport(path, tax, base)
	}
}

// ScriptName returns the base name of an answer script without extension,
// used to name derived PDF files.
func ScriptName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
