package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.EnhancedDir != "processedChordPro" {
		t.Errorf("EnhancedDir = %q, want processedChordPro", cfg.EnhancedDir)
	}
	if cfg.ShowDir != "processedFreeShow" {
		t.Errorf("ShowDir = %q, want processedFreeShow", cfg.ShowDir)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout())
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryDelay() != time.Second {
		t.Errorf("RetryDelay = %v, want 1s", cfg.RetryDelay())
	}
	if !cfg.FixFrenchPunctuation {
		t.Error("FixFrenchPunctuation should default to true")
	}
	if !cfg.DeduplicateSections {
		t.Error("DeduplicateSections should default to true")
	}
	if cfg.SectionColors["chorus"] != "#f525d2" {
		t.Errorf("Chorus color = %q, want #f525d2", cfg.SectionColors["chorus"])
	}
	if _, mapped := cfg.SectionColors["verse"]; mapped {
		t.Error("Verses should stay uncolored by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }},
		{"negative delay", func(c *Config) { c.RetryDelaySeconds = -1 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"zero font size", func(c *Config) { c.FontSize = 0 }},
		{"negative slide split", func(c *Config) { c.MaxLinesPerSlide = -1 }},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate accepted invalid config", tt.name)
		}
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chordshow.yaml")
	content := "enhanced_dir: out/enhanced\nworkers: 4\nfont_size: 80\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.EnhancedDir != "out/enhanced" {
		t.Errorf("EnhancedDir = %q, want out/enhanced", cfg.EnhancedDir)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.FontSize != 80 {
		t.Errorf("FontSize = %d, want 80", cfg.FontSize)
	}
	// Unset fields keep their defaults.
	if cfg.ShowDir != "processedFreeShow" {
		t.Errorf("ShowDir = %q, want default", cfg.ShowDir)
	}
	if cfg.SectionColors["chorus"] == "" {
		t.Error("Default section colors missing after partial file load")
	}
}

func TestLoadYAMLDisablesToggles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chordshow.yaml")
	content := "fix_french_punctuation: false\ndeduplicate_sections: false\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.FixFrenchPunctuation {
		t.Error("fix_french_punctuation: false in file did not stick")
	}
	if cfg.DeduplicateSections {
		t.Error("deduplicate_sections: false in file did not stick")
	}
}

func TestLoadSectionColorsReplaceDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chordshow.yaml")
	content := "section_colors:\n  chorus: \"#112233\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SectionColors["chorus"] != "#112233" {
		t.Errorf("Chorus color = %q, want #112233", cfg.SectionColors["chorus"])
	}
	if _, mapped := cfg.SectionColors["bridge"]; mapped {
		t.Error("Stock bridge color leaked into an explicit section_colors block")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chordshow.yaml")
	if err := os.WriteFile(path, []byte("workers: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHORDSHOW_WORKERS", "8")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want env override 8", cfg.Workers)
	}
}

func TestLoadRejectsMalformedEnv(t *testing.T) {
	t.Setenv("CHORDSHOW_MAX_RETRIES", "abc")
	if _, err := Load(""); err == nil {
		t.Error("Expected error for unparseable CHORDSHOW_MAX_RETRIES")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg.CatalogPath != "chordshow.db" {
		t.Errorf("CatalogPath = %q, want default", cfg.CatalogPath)
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chordshow.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load of written default failed: %v", err)
	}
	if cfg.Timeout() != Default().Timeout() {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout(), Default().Timeout())
	}
	if cfg.SectionColors["bridge"] != "#f52598" {
		t.Errorf("Bridge color = %q after round trip", cfg.SectionColors["bridge"])
	}
}

func TestRetryDelayFractionalSeconds(t *testing.T) {
	cfg := Default()
	cfg.RetryDelaySeconds = 0.5
	if cfg.RetryDelay() != 500*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 500ms", cfg.RetryDelay())
	}
}
