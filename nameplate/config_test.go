package nameplate

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LogoSizeMM != 30 || cfg.LogoMarginMM != 10 {
		t.Errorf("logo geometry = %v/%v mm", cfg.LogoSizeMM, cfg.LogoMarginMM)
	}
	if cfg.FontSizeLarge != 48 || cfg.FontSizeMedium != 36 {
		t.Errorf("font sizes = %v/%v", cfg.FontSizeLarge, cfg.FontSizeMedium)
	}
	if cfg.NameLengthThreshold != 20 {
		t.Errorf("threshold = %d", cfg.NameLengthThreshold)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, "logo_size_mm: 25\nname_length_threshold: 15\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogoSizeMM != 25 {
		t.Errorf("logo_size_mm = %v, want 25", cfg.LogoSizeMM)
	}
	if cfg.NameLengthThreshold != 15 {
		t.Errorf("threshold = %d, want 15", cfg.NameLengthThreshold)
	}
	// Untouched keys keep their defaults.
	if cfg.FontSizeLarge != 48 || cfg.LogoMarginMM != 10 {
		t.Error("unrelated defaults were changed")
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := writeConfig(t, "paper_size: letter\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
