package fonts

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadTrueType(t *testing.T) {
	font, err := LoadTrueType("Go Regular", goregular.TTF)
	if err != nil {
		t.Fatalf("LoadTrueType: %v", err)
	}
	if font.Subtype != "Type0" {
		t.Errorf("subtype = %q, want Type0", font.Subtype)
	}
	if font.Encoding != "Identity-H" {
		t.Errorf("encoding = %q, want Identity-H", font.Encoding)
	}
	if font.BaseFont == "" {
		t.Error("empty base font name")
	}
	if font.DescendantFont == nil {
		t.Fatal("missing descendant font")
	}
	if font.DescendantFont.Subtype != "CIDFontType2" {
		t.Errorf("descendant subtype = %q, want CIDFontType2", font.DescendantFont.Subtype)
	}
	if got := font.DescendantFont.CIDSystemInfo; got.Registry != "Adobe" || got.Ordering != "Identity" {
		t.Errorf("CIDSystemInfo = %+v", got)
	}
	if len(font.Widths) == 0 {
		t.Error("no glyph widths extracted")
	}
}

func TestLoadTrueTypeDescriptor(t *testing.T) {
	font, err := LoadTrueType("Go Regular", goregular.TTF)
	if err != nil {
		t.Fatalf("LoadTrueType: %v", err)
	}
	desc := font.Descriptor
	if desc == nil {
		t.Fatal("missing descriptor")
	}
	if desc.FontFileType != "FontFile2" {
		t.Errorf("font file type = %q, want FontFile2", desc.FontFileType)
	}
	if len(desc.FontFile) != len(goregular.TTF) {
		t.Errorf("embedded program length = %d, want %d", len(desc.FontFile), len(goregular.TTF))
	}
	if desc.Ascent <= 0 {
		t.Errorf("ascent = %v, want > 0", desc.Ascent)
	}
	if desc.Descent >= 0 {
		t.Errorf("descent = %v, want < 0", desc.Descent)
	}
}

func TestLoadTrueTypeEmpty(t *testing.T) {
	if _, err := LoadTrueType("x", nil); err == nil {
		t.Fatal("expected error for empty data")
	}
}

func TestLoadTrueTypeGarbage(t *testing.T) {
	if _, err := LoadTrueType("x", []byte("not a font")); err == nil {
		t.Fatal("expected error for invalid data")
	}
}
