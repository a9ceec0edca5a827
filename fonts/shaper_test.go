package fonts

import (
	"testing"

	"github.com/go-text/typesetting/language"
	"golang.org/x/image/font/gofont/goregular"
)

func newTestShaper(t *testing.T) *Shaper {
	t.Helper()
	s, err := NewShaper(goregular.TTF)
	if err != nil {
		t.Fatalf("NewShaper: %v", err)
	}
	return s
}

func TestShapeBasic(t *testing.T) {
	s := newTestShaper(t)
	glyphs := s.Shape("Hello")
	if len(glyphs) != 5 {
		t.Fatalf("got %d glyphs, want 5", len(glyphs))
	}
	for i, g := range glyphs {
		if g.ID == 0 {
			t.Errorf("glyph %d is .notdef", i)
		}
		if g.XAdvance <= 0 {
			t.Errorf("glyph %d advance = %v, want > 0", i, g.XAdvance)
		}
	}
	// Two "l" glyphs must shape identically.
	if glyphs[2].ID != glyphs[3].ID {
		t.Errorf("repeated rune shaped to different glyphs: %d vs %d", glyphs[2].ID, glyphs[3].ID)
	}
}

func TestShapeEmpty(t *testing.T) {
	s := newTestShaper(t)
	if got := s.Shape(""); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
}

func TestEncodeText(t *testing.T) {
	s := newTestShaper(t)
	encoded := s.EncodeText("Hi")
	if len(encoded) != 4 {
		t.Fatalf("encoded length = %d, want 4", len(encoded))
	}
	glyphs := s.Shape("Hi")
	for i, g := range glyphs {
		cid := int(encoded[i*2])<<8 | int(encoded[i*2+1])
		if cid != g.ID {
			t.Errorf("glyph %d: encoded CID %d, shaped ID %d", i, cid, g.ID)
		}
	}
}

func TestMeasureString(t *testing.T) {
	s := newTestShaper(t)
	narrow := s.MeasureString("iii", 48)
	wide := s.MeasureString("WWW", 48)
	if narrow <= 0 {
		t.Fatalf("narrow width = %v, want > 0", narrow)
	}
	if wide <= narrow {
		t.Errorf("W run (%v) not wider than i run (%v)", wide, narrow)
	}
	// Width scales linearly with font size.
	at24 := s.MeasureString("WWW", 24)
	if diff := wide - 2*at24; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("width at 48pt = %v, at 24pt = %v, want exact 2x", wide, at24)
	}
}

func TestGlyphRunes(t *testing.T) {
	s := newTestShaper(t)
	m := s.GlyphRunes("Ab")
	if len(m) != 2 {
		t.Fatalf("got %d entries, want 2", len(m))
	}
	glyphs := s.Shape("Ab")
	if got := m[glyphs[0].ID]; len(got) != 1 || got[0] != 'A' {
		t.Errorf("first glyph runes = %q, want A", string(got))
	}
	if got := m[glyphs[1].ID]; len(got) != 1 || got[0] != 'b' {
		t.Errorf("second glyph runes = %q, want b", string(got))
	}
}

func TestDetectScript(t *testing.T) {
	cases := []struct {
		text string
		want language.Script
	}{
		{"Alice Johnson", language.Latin},
		{"Иванов Иван", language.Cyrillic},
		{"Παπαδόπουλος", language.Greek},
		{"Dr. Μ. Smith example", language.Latin},
		{"", language.Latin},
		{"12345 .,!", language.Latin},
	}
	for _, tc := range cases {
		if got := DetectScript([]rune(tc.text)); got != tc.want {
			t.Errorf("DetectScript(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
