package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/selfcheck/internal/assessment"
	"github.com/nao1215/selfcheck/internal/config"
	"github.com/nao1215/selfcheck/internal/database"
	"github.com/nao1215/selfcheck/internal/report"
)

const springAnswers = `title: Spring review
selected: [lead-vision, teach-feedback]
answers:
  lead-vision:
    q1: applies
    q2: partially
  teach-feedback:
    q1: not_applies
`

const autumnAnswers = `title: Autumn review
selected: [lead-vision]
answers:
  lead-vision:
    q1: applies
    q2: applies
    q3: applies
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeAnswers writes an answer file into dir.
func writeAnswers(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// testConfig returns a validated config that does not archive.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.DBDir = t.TempDir()
	cfg.Scale = 1
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestNewReportCmd(t *testing.T) {
	t.Parallel()

	cmd := NewReportCmd()

	flagsWithShort := map[string]string{
		"json":     "j",
		"markdown": "m",
		"output":   "o",
		"batch":    "b",
	}
	for flag, shorthand := range flagsWithShort {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			t.Errorf("expected flag %q to exist", flag)
			continue
		}
		if f.Shorthand != shorthand {
			t.Errorf("flag %q: expected shorthand %q, got %q", flag, shorthand, f.Shorthand)
		}
	}

	if err := cmd.Args(cmd, nil); err == nil {
		t.Error("expected an error without answer files")
	}
}

func TestRunReport(t *testing.T) {
	t.Parallel()

	t.Run("text report", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		file := writeAnswers(t, dir, "spring.yaml", springAnswers)

		var buf bytes.Buffer
		if err := runReport(context.Background(), testConfig(t), []string{file}, &buf, discardLogger()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{"Spring review", "Shared educational vision", "Not answered"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in output:\n%s", want, output)
			}
		}
	})

	t.Run("json report to file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		file := writeAnswers(t, dir, "spring.yaml", springAnswers)
		cfg := testConfig(t)
		cfg.JSONReport = true
		cfg.ReportFile = filepath.Join(dir, "out", "report.json")

		if err := runReport(context.Background(), cfg, []string{file}, io.Discard, discardLogger()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatal(err)
		}
		var got report.JSONReport
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Report == nil || got.Report.AnsweredCount != 3 || got.Report.QuestionCount != 5 {
			t.Errorf("unexpected report %+v", got.Report)
		}
	})

	t.Run("invalid answer is rejected", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		file := writeAnswers(t, dir, "bad.yaml", `selected: [lead-vision]
answers:
  lead-vision:
    q1: maybe
`)
		err := runReport(context.Background(), testConfig(t), []string{file}, io.Discard, discardLogger())
		if !errors.Is(err, assessment.ErrInvalidAnswer) {
			t.Errorf("expected ErrInvalidAnswer, got %v", err)
		}
	})

	t.Run("archives reports", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		files := []string{
			writeAnswers(t, dir, "spring.yaml", springAnswers),
			writeAnswers(t, dir, "autumn.yaml", autumnAnswers),
		}
		cfg := testConfig(t)
		cfg.SaveToDB = true

		if err := runReport(context.Background(), cfg, files, io.Discard, discardLogger()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()

		metas, err := db.ListReports(context.Background(), "", 0)
		if err != nil {
			t.Fatal(err)
		}
		var names []string
		for _, m := range metas {
			names = append(names, m.Name)
		}
		if diff := cmp.Diff([]string{"autumn", "spring"}, names); diff != "" {
			t.Errorf("archived names mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("exports a pdf", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		file := writeAnswers(t, dir, "spring.yaml", springAnswers)
		cfg := testConfig(t)
		cfg.PDFPath = filepath.Join(dir, "spring.pdf")

		if err := runReport(context.Background(), cfg, []string{file}, io.Discard, discardLogger()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertPDF(t, cfg.PDFPath)
	})

	t.Run("single export into a directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		file := writeAnswers(t, dir, "spring.yaml", springAnswers)
		cfg := testConfig(t)
		cfg.PDFPath = filepath.Join(dir, "exports") + string(filepath.Separator)

		if err := runReport(context.Background(), cfg, []string{file}, io.Discard, discardLogger()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertPDF(t, filepath.Join(dir, "exports", "spring.pdf"))
	})

	t.Run("batch export into a directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		files := []string{
			writeAnswers(t, dir, "spring.yaml", springAnswers),
			writeAnswers(t, dir, "autumn.yaml", autumnAnswers),
		}
		cfg := testConfig(t)
		cfg.PDFPath = filepath.Join(dir, "exports")
		cfg.BatchSize = 2

		if err := runReport(context.Background(), cfg, files, io.Discard, discardLogger()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertPDF(t, filepath.Join(cfg.PDFPath, "spring.pdf"))
		assertPDF(t, filepath.Join(cfg.PDFPath, "autumn.pdf"))
	})

	t.Run("duplicate export names are rejected", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := os.Mkdir(filepath.Join(dir, "other"), 0o750); err != nil {
			t.Fatal(err)
		}
		files := []string{
			writeAnswers(t, dir, "spring.yaml", springAnswers),
			writeAnswers(t, filepath.Join(dir, "other"), "spring.yaml", springAnswers),
		}
		cfg := testConfig(t)
		cfg.PDFPath = filepath.Join(dir, "exports")

		err := runReport(context.Background(), cfg, files, io.Discard, discardLogger())
		if err == nil || !strings.Contains(err.Error(), "spring.pdf") {
			t.Errorf("expected duplicate name error, got %v", err)
		}
	})
}

// assertPDF checks that path holds a PDF document.
func assertPDF(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected PDF at %s: %v", path, err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("%s is not a PDF document", path)
	}
}

func TestOpenReportOutput(t *testing.T) {
	t.Parallel()

	t.Run("empty path is stdout", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		out, closeOut, err := openReportOutput("", &buf)
		if err != nil {
			t.Fatal(err)
		}
		defer closeOut()
		if out != &buf {
			t.Error("expected stdout writer")
		}
	})

	t.Run("file is owner readable only", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a", "b", "report.txt")
		_, closeOut, err := openReportOutput(path, io.Discard)
		if err != nil {
			t.Fatal(err)
		}
		closeOut()

		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("expected permission 0600, got %o", perm)
		}
	})
}
