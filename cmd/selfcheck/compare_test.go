package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/selfcheck/internal/model"
)

func runCompare(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewCompareCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestNewCompareCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCompareCmd()

	if cmd.Use != "compare [name]" {
		t.Errorf("unexpected Use: got %q", cmd.Use)
	}
	for _, flag := range []string{"old", "new", "json", "markdown", "db-dir"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag %q to exist", flag)
		}
	}
}

func TestCompareCmd(t *testing.T) {
	t.Parallel()

	t.Run("needs two reports", func(t *testing.T) {
		t.Parallel()

		if _, err := runCompare(t, "--db-dir", t.TempDir()); !errors.Is(err, ErrNotEnoughReports) {
			t.Errorf("expected ErrNotEnoughReports, got %v", err)
		}
	})

	t.Run("conflicting formats", func(t *testing.T) {
		t.Parallel()

		if _, err := runCompare(t, "--db-dir", t.TempDir(), "--json", "--markdown"); err == nil {
			t.Error("expected an error for --json with --markdown")
		}
	})

	t.Run("json output of the latest two", func(t *testing.T) {
		t.Parallel()

		dir, _ := seedArchive(t)
		output, err := runCompare(t, "--db-dir", dir, "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var result ComparisonResult
		if err := json.Unmarshal([]byte(output), &result); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, output)
		}
		if result.Previous.Title != "Spring review" || result.Current.Title != "Autumn review" {
			t.Errorf("unexpected sides: %q -> %q", result.Previous.Title, result.Current.Title)
		}

		want := []IndicatorChange{
			{
				IndicatorID:    "lead-vision",
				IndicatorTitle: "Shared educational vision",
				Status:         statusChanged,
				Delta:          map[string]int{"applies": 2, "partially": -1, "not_applies": 0, "not_relevant": 0},
			},
			{
				IndicatorID:    "teach-feedback",
				IndicatorTitle: "Feedback culture",
				Status:         statusRemoved,
				Delta:          map[string]int{"applies": 0, "partially": 0, "not_applies": -1, "not_relevant": 0},
			},
		}
		if diff := cmp.Diff(want, result.Changes); diff != "" {
			t.Errorf("changes mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("explicit ids in reverse", func(t *testing.T) {
		t.Parallel()

		dir, ids := seedArchive(t)
		output, err := runCompare(t, "--db-dir", dir,
			"--old", strconv.FormatInt(ids[1], 10), "--new", strconv.FormatInt(ids[0], 10))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "[+] Feedback culture") {
			t.Errorf("expected the added indicator:\n%s", output)
		}
	})

	t.Run("new without old picks the previous report", func(t *testing.T) {
		t.Parallel()

		dir, ids := seedArchive(t)
		output, err := runCompare(t, "--db-dir", dir, "--new", strconv.FormatInt(ids[1], 10))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "Previous: Spring review") {
			t.Errorf("unexpected output:\n%s", output)
		}

		if _, err := runCompare(t, "--db-dir", dir, "--new", strconv.FormatInt(ids[0], 10)); !errors.Is(err, ErrNoOlderReport) {
			t.Errorf("expected ErrNoOlderReport, got %v", err)
		}
	})

	t.Run("markdown output", func(t *testing.T) {
		t.Parallel()

		dir, _ := seedArchive(t)
		output, err := runCompare(t, "--db-dir", dir, "--markdown")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"# Report Comparison", "## Summary", "## Indicators", "| Indicator | Status |", "Shared educational vision", "changed"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in output:\n%s", want, output)
			}
		}
	})
}

func TestOutputComparisonText(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	result := &ComparisonResult{
		Previous: ReportSummary{Title: "Before", GeneratedAt: at, Totals: map[string]int{"applies": 1}},
		Current:  ReportSummary{Title: "After", GeneratedAt: at, Totals: map[string]int{"applies": 3}},
		Changes: []IndicatorChange{
			{IndicatorTitle: "Same", Status: statusSame, Delta: map[string]int{}},
		},
	}

	var buf bytes.Buffer
	if err := outputComparisonText(&buf, result); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	for _, want := range []string{"Previous: Before (2025-01-02 03:04:05)", "+2", "[ ] Same: unchanged"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestCompareReports(t *testing.T) {
	t.Parallel()

	tally := func(id string, counts map[model.AnswerCategory]int) model.IndicatorTally {
		return model.IndicatorTally{IndicatorID: id, IndicatorTitle: id, QuestionCount: 2, Counts: counts}
	}
	older := &model.AssessmentReport{Tallies: []model.IndicatorTally{
		tally("kept", map[model.AnswerCategory]int{model.Applies: 1}),
	}}
	newer := &model.AssessmentReport{Tallies: []model.IndicatorTally{
		tally("kept", map[model.AnswerCategory]int{model.Applies: 1}),
		tally("new", map[model.AnswerCategory]int{}),
	}}

	result := compareReports(older, newer)
	var got []string
	for _, ch := range result.Changes {
		got = append(got, ch.IndicatorID+":"+ch.Status)
	}
	if diff := cmp.Diff([]string{"kept:unchanged", "new:added"}, got); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		delta int
		want  string
	}{
		{5, "+5"},
		{-3, "-3"},
		{0, "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := formatDelta(tt.delta); got != tt.want {
				t.Errorf("formatDelta(%d) = %q, want %q", tt.delta, got, tt.want)
			}
		})
	}
}
