package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("DATA_FILE")
	os.Unsetenv("OUTBREAK_THRESHOLD")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.DataFile != "symptom_log.csv" {
		t.Errorf("expected default data file, got %s", cfg.DataFile)
	}
	if cfg.OutbreakThreshold != 10 {
		t.Errorf("expected default threshold 10, got %d", cfg.OutbreakThreshold)
	}
	if cfg.OutbreakWindowDays != 7 {
		t.Errorf("expected default window 7, got %d", cfg.OutbreakWindowDays)
	}
	if cfg.CollectReporterName {
		t.Error("expected reporter name collection off by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Setenv("DATA_FILE", "/tmp/reports.csv")
	os.Setenv("OUTBREAK_THRESHOLD", "5")
	defer os.Unsetenv("DATA_FILE")
	defer os.Unsetenv("OUTBREAK_THRESHOLD")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataFile != "/tmp/reports.csv" {
		t.Errorf("expected DATA_FILE override, got %s", cfg.DataFile)
	}
	if cfg.OutbreakThreshold != 5 {
		t.Errorf("expected threshold override, got %d", cfg.OutbreakThreshold)
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}

func TestConfig_Validate(t *testing.T) {
	c := &Config{DataFile: "symptom_log.csv", OutbreakThreshold: 10, OutbreakWindowDays: 7}
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	c.DataFile = ""
	if err := c.Validate(); err == nil {
		t.Error("expected error for empty DATA_FILE")
	}

	c.DataFile = "symptom_log.csv"
	c.OutbreakThreshold = 0
	if err := c.Validate(); err == nil {
		t.Error("expected error for zero threshold")
	}

	c.OutbreakThreshold = 10
	c.OutbreakWindowDays = 0
	if err := c.Validate(); err == nil {
		t.Error("expected error for zero window")
	}
}
