package config_test

import (
	"testing"

	"github.com/tobyjaguar/rpgkernel/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RPG_DATA_DIR", "")
	t.Setenv("NODE_ENV", "")
	t.Setenv("RPG_LOG_LEVEL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "./rpg.db" {
		t.Fatalf("expected default data dir, got %q", cfg.DataDir)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.LogLevel)
	}
	if cfg.IsTest() {
		t.Fatal("expected IsTest()=false with NODE_ENV unset")
	}
	if cfg.StoreDSN() != "./rpg.db" {
		t.Fatalf("expected StoreDSN to equal DataDir, got %q", cfg.StoreDSN())
	}
}

func TestLoadTestMode(t *testing.T) {
	t.Setenv("NODE_ENV", "test")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.IsTest() {
		t.Fatal("expected IsTest()=true with NODE_ENV=test")
	}
	if cfg.StoreDSN() != ":memory:" {
		t.Fatalf("expected in-memory DSN under test mode, got %q", cfg.StoreDSN())
	}
}
