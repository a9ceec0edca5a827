// Package nameplate turns a list of names into a print-ready PDF: one A4
// page per name, each page a foldable nameplate with the name and logo
// repeated upside-down so both sides read correctly after a half-fold.
package nameplate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// mm converts millimetres to PDF points.
const mm = 72.0 / 25.4

// Config is the immutable page geometry and autofit rule. It is passed
// explicitly into the layout engine; nothing reads it from package state.
type Config struct {
	PageWidth  float64 // points
	PageHeight float64 // points

	LogoSizeMM   float64 // square box the logo is fitted into
	LogoMarginMM float64 // inset from page edge and fold line

	FontSizeLarge  float64 // short names
	FontSizeMedium float64 // names above the threshold

	// NameLengthThreshold is the rune count above which the medium font
	// size applies. A coarse autofit: it counts runes, not glyph widths.
	NameLengthThreshold int

	FoldLineWidth float64
	FoldDash      []float64
}

// DefaultConfig returns the standard A4 nameplate geometry.
func DefaultConfig() Config {
	return Config{
		PageWidth:           210 * mm,
		PageHeight:          297 * mm,
		LogoSizeMM:          30,
		LogoMarginMM:        10,
		FontSizeLarge:       48,
		FontSizeMedium:      36,
		NameLengthThreshold: 20,
		FoldLineWidth:       0.5,
		FoldDash:            []float64{3, 3},
	}
}

// configFile is the YAML override surface. Only the keys present in the
// file override the defaults; unknown keys are rejected.
type configFile struct {
	LogoSizeMM          *float64 `yaml:"logo_size_mm"`
	LogoMarginMM        *float64 `yaml:"logo_margin_mm"`
	FontSizeLarge       *float64 `yaml:"font_size_large"`
	FontSizeMedium      *float64 `yaml:"font_size_medium"`
	NameLengthThreshold *int     `yaml:"name_length_threshold"`
}

// LoadConfig reads a YAML override file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var file configFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if file.LogoSizeMM != nil {
		cfg.LogoSizeMM = *file.LogoSizeMM
	}
	if file.LogoMarginMM != nil {
		cfg.LogoMarginMM = *file.LogoMarginMM
	}
	if file.FontSizeLarge != nil {
		cfg.FontSizeLarge = *file.FontSizeLarge
	}
	if file.FontSizeMedium != nil {
		cfg.FontSizeMedium = *file.FontSizeMedium
	}
	if file.NameLengthThreshold != nil {
		cfg.NameLengthThreshold = *file.NameLengthThreshold
	}
	return cfg, nil
}
