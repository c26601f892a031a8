package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/selfcheck/internal/taxonomy"
)

func runTaxonomy(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewTaxonomyCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestTaxonomyCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists the built-in taxonomy", func(t *testing.T) {
		t.Parallel()

		output, err := runTaxonomy(t)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"#2563eb", "Leadership and Management", "lead-vision", "12 indicators"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in output:\n%s", want, output)
			}
		}
		if strings.Contains(output, "mission statement") {
			t.Error("questions must only be listed with --questions")
		}
	})

	t.Run("lists questions", func(t *testing.T) {
		t.Parallel()

		output, err := runTaxonomy(t, "--questions")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "mission statement") {
			t.Errorf("expected question text in output:\n%s", output)
		}
	})

	t.Run("dumps the embedded yaml", func(t *testing.T) {
		t.Parallel()

		output, err := runTaxonomy(t, "--dump")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output != string(taxonomy.Raw()) {
			t.Error("dump must print the embedded taxonomy unchanged")
		}
	})

	t.Run("custom taxonomy file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		content := `dimensions:
  - id: d1
    title: Only Dimension
    color: "#123456"
    sections:
      - id: s1
        title: Only Section
        indicators:
          - id: only
            title: Only indicator
            questions:
              - id: q1
                text: Only question
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		output, err := runTaxonomy(t, "--taxonomy", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "Only Dimension") || !strings.Contains(output, "1 indicators") {
			t.Errorf("unexpected output:\n%s", output)
		}
	})

	t.Run("missing taxonomy file", func(t *testing.T) {
		t.Parallel()

		if _, err := runTaxonomy(t, "--taxonomy", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("expected error for missing taxonomy file")
		}
	})
}
