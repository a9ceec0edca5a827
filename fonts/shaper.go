package fonts

import (
	"bytes"
	"fmt"
	"unicode"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// ShapedGlyph is a single shaped glyph with positioning information.
// Advances and offsets are in 1/1000 em.
type ShapedGlyph struct {
	ID       int
	Cluster  int
	XAdvance float64
	YAdvance float64
	XOffset  float64
	YOffset  float64
}

// Shaper shapes text against one parsed face. Under Identity-H encoding the
// glyph IDs it produces are the CIDs written into content streams, so the
// same shaping pass drives both encoding and width measurement.
type Shaper struct {
	face   *gofont.Face
	shaper shaping.HarfbuzzShaper
}

// NewShaper parses TrueType data into a shaping face.
func NewShaper(data []byte) (*Shaper, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("truetype font data is empty")
	}
	face, err := gofont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse face: %w", err)
	}
	return &Shaper{face: face}, nil
}

// Shape shapes text and returns the glyphs in visual order.
func (s *Shaper) Shape(text string) []ShapedGlyph {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	script := DetectScript(runes)

	// Shape at 1000 units per em so advances come out in PDF glyph space.
	size := fixed.Int26_6(1000 * 64)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: scriptDirection(script),
		Face:      s.face,
		Size:      size,
		Script:    script,
		Language:  language.DefaultLanguage(),
	}
	output := s.shaper.Shape(input)

	result := make([]ShapedGlyph, 0, len(output.Glyphs))
	for _, g := range output.Glyphs {
		result = append(result, ShapedGlyph{
			ID:       int(g.GlyphID),
			Cluster:  int(g.ClusterIndex),
			XAdvance: float64(g.XAdvance) / 64.0,
			YAdvance: float64(g.YAdvance) / 64.0,
			XOffset:  float64(g.XOffset) / 64.0,
			YOffset:  float64(g.YOffset) / 64.0,
		})
	}
	return result
}

// EncodeText shapes text and returns the Identity-H string operand:
// one big-endian 16-bit glyph ID per shaped glyph.
func (s *Shaper) EncodeText(text string) []byte {
	glyphs := s.Shape(text)
	buf := make([]byte, 0, len(glyphs)*2)
	for _, g := range glyphs {
		buf = append(buf, byte(g.ID>>8), byte(g.ID))
	}
	return buf
}

// MeasureString returns the advance width of text at the given font size,
// in points.
func (s *Shaper) MeasureString(text string, size float64) float64 {
	var total float64
	for _, g := range s.Shape(text) {
		total += g.XAdvance
	}
	return total / 1000 * size
}

// GlyphRunes maps each shaped glyph ID to the runes of its cluster, for
// building ToUnicode CMaps. When several glyphs share a cluster the runes
// are attributed to the cluster's first glyph.
func (s *Shaper) GlyphRunes(text string) map[int][]rune {
	runes := []rune(text)
	glyphs := s.Shape(text)
	if len(glyphs) == 0 {
		return nil
	}
	m := make(map[int][]rune)
	for i, g := range glyphs {
		if i > 0 && glyphs[i-1].Cluster == g.Cluster {
			continue
		}
		end := len(runes)
		for _, other := range glyphs {
			if other.Cluster > g.Cluster && other.Cluster < end {
				end = other.Cluster
			}
		}
		if g.Cluster < 0 || g.Cluster >= len(runes) || end <= g.Cluster {
			continue
		}
		if _, seen := m[g.ID]; !seen {
			m[g.ID] = runes[g.Cluster:end]
		}
	}
	return m
}

func scriptDirection(script language.Script) di.Direction {
	switch script {
	case language.Arabic, language.Hebrew, language.Syriac, language.Thaana, language.Nko:
		return di.DirectionRTL
	default:
		return di.DirectionLTR
	}
}

// DetectScript picks the dominant script of a rune sequence; ties keep the
// earlier script.
func DetectScript(runes []rune) language.Script {
	counts := make(map[language.Script]int)
	maxCount := 0
	bestScript := language.Latin

	for _, r := range runes {
		script := scriptFromRune(r)
		if script == language.Unknown {
			continue
		}
		counts[script]++
		if counts[script] > maxCount {
			maxCount = counts[script]
			bestScript = script
		}
	}
	return bestScript
}

func scriptFromRune(r rune) language.Script {
	switch {
	case unicode.Is(unicode.Latin, r):
		return language.Latin
	case unicode.Is(unicode.Cyrillic, r):
		return language.Cyrillic
	case unicode.Is(unicode.Greek, r):
		return language.Greek
	case unicode.Is(unicode.Arabic, r):
		return language.Arabic
	case unicode.Is(unicode.Hebrew, r):
		return language.Hebrew
	case unicode.Is(unicode.Armenian, r):
		return language.Armenian
	case unicode.Is(unicode.Georgian, r):
		return language.Georgian
	case unicode.Is(unicode.Han, r):
		return language.Han
	case unicode.Is(unicode.Hiragana, r):
		return language.Hiragana
	case unicode.Is(unicode.Katakana, r):
		return language.Katakana
	case unicode.Is(unicode.Hangul, r):
		return language.Hangul
	case unicode.Is(unicode.Thai, r):
		return language.Thai
	case unicode.Is(unicode.Devanagari, r):
		return language.Devanagari
	}
	return language.Unknown
}
