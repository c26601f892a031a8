package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/selfcheck/internal/config"
)

func TestSetupTUILogger(t *testing.T) {
	t.Parallel()

	t.Run("quiet discards logs", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.DBDir = filepath.Join(t.TempDir(), "data")
		logger, closeLog, err := setupTUILogger(cfg)
		if err != nil {
			t.Fatal(err)
		}
		defer closeLog()

		logger.Error("not written")
		if _, err := os.Stat(cfg.DBDir); !os.IsNotExist(err) {
			t.Error("quiet mode must not create the data directory")
		}
	})

	t.Run("verbose writes a masked JSON log file", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.DBDir = t.TempDir()
		cfg.Verbose = true
		logger, closeLog, err := setupTUILogger(cfg)
		if err != nil {
			t.Fatal(err)
		}
		logger.Info("export started", "respondent", "Jane Doe")
		closeLog()

		data, err := os.ReadFile(filepath.Join(cfg.DBDir, logFileName))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "export started") {
			t.Errorf("expected the log line, got %q", data)
		}
		if strings.Contains(string(data), "Jane Doe") {
			t.Error("respondent must be masked in the log file")
		}

		var entry map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
			t.Fatalf("log line is not JSON: %v", err)
		}
		if entry["msg"] != "export started" {
			t.Errorf("msg = %v, want %q", entry["msg"], "export started")
		}
	})
}

func TestNewRunCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRunCmd()
	if cmd.Use != "run" {
		t.Errorf("expected use 'run', got %q", cmd.Use)
	}
	if err := cmd.Args(cmd, []string{"extra"}); err == nil {
		t.Error("run takes no arguments")
	}
}
