package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"ratecard/internal/config"
)

func TestConfigShow(t *testing.T) {
	var buf bytes.Buffer
	configShowCmd.SetOut(&buf)
	if err := configShowCmd.RunE(configShowCmd, nil); err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	for _, key := range []string{"default_currency", "session_history_limit", "addr"} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("Expected %q in config show output", key)
		}
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	var buf bytes.Buffer
	configInitCmd.SetOut(&buf)

	if err := configInitCmd.RunE(configInitCmd, []string{path}); err != nil {
		t.Fatalf("config init failed: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Pricing.SessionHistoryLimit != 50 {
		t.Errorf("Expected default session history limit 50, got %d", cfg.Pricing.SessionHistoryLimit)
	}

	// An existing file is never overwritten
	if err := configInitCmd.RunE(configInitCmd, []string{path}); err == nil {
		t.Error("Expected init to refuse an existing file")
	}
}
