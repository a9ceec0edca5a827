package nameplate

import "unicode/utf8"

// TextBlock anchors one instance of the name: X is the horizontal center of
// the run, Y the baseline. A rotated block is turned 180° about that anchor,
// so the page's two blocks are 180° images of each other about page center.
type TextBlock struct {
	X, Y     float64
	FontSize float64
	Rotated  bool
}

// LogoBlock anchors one logo placement. For an upright block the fitted box
// hangs up-right from the anchor (anchor = lower-left corner); for a rotated
// block it hangs down-left (anchor = upper-right corner). BoxSide is the
// square the logo is aspect-fitted into.
type LogoBlock struct {
	AnchorX, AnchorY float64
	BoxSide          float64
	Rotated          bool
}

// Line is the fold guide segment.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// Layout is the complete placement of one page, derived deterministically
// from the name and configuration. It carries no font or image data.
type Layout struct {
	Name       string
	PageWidth  float64
	PageHeight float64

	Top    TextBlock
	Bottom TextBlock

	TopLogo    LogoBlock
	BottomLogo LogoBlock

	FoldGuide Line
}

// FontSize selects the size tier from the name's rune count. Large applies
// up to and including the threshold, Medium above it.
func FontSize(name string, cfg Config) float64 {
	if utf8.RuneCountInString(name) > cfg.NameLengthThreshold {
		return cfg.FontSizeMedium
	}
	return cfg.FontSizeLarge
}

// ComputeLayout places both text blocks, both logo blocks, and the fold
// guide. Pure: same name and config always produce the same layout.
func ComputeLayout(name string, cfg Config) Layout {
	w := cfg.PageWidth
	h := cfg.PageHeight
	fold := h / 2
	size := FontSize(name, cfg)
	margin := cfg.LogoMarginMM * mm
	box := cfg.LogoSizeMM * mm

	// Baseline vertically centered in the top half's band; the bottom
	// block's anchor is the 180°-about-page-center image of the top one.
	topY := fold + (h-fold)/2

	return Layout{
		Name:       name,
		PageWidth:  w,
		PageHeight: h,
		Top: TextBlock{
			X:        w / 2,
			Y:        topY,
			FontSize: size,
		},
		Bottom: TextBlock{
			X:        w / 2,
			Y:        h - topY,
			FontSize: size,
			Rotated:  true,
		},
		TopLogo: LogoBlock{
			AnchorX: margin,
			AnchorY: fold + margin,
			BoxSide: box,
		},
		BottomLogo: LogoBlock{
			AnchorX: w - margin,
			AnchorY: fold - margin,
			BoxSide: box,
			Rotated: true,
		},
		FoldGuide: Line{X1: 0, Y1: fold, X2: w, Y2: fold},
	}
}

// FitLogo scales source dimensions into a square box preserving aspect
// ratio: the longer side maps to the box side exactly.
func FitLogo(srcW, srcH int, box float64) (fw, fh float64) {
	if srcW <= 0 || srcH <= 0 {
		return box, box
	}
	if srcW >= srcH {
		return box, box * float64(srcH) / float64(srcW)
	}
	return box * float64(srcW) / float64(srcH), box
}
