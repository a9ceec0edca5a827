// Package builder provides a fluent API for assembling a semantic.Document
// from pages, text runs, images, and strokes.
package builder

import (
	"fmt"

	"nameplatekit/coords"
	"nameplatekit/fonts"
	"nameplatekit/ir/semantic"
)

// PDFBuilder accumulates pages and document-level state.
type PDFBuilder interface {
	NewPage(width, height float64) PageBuilder
	AddPage(page *semantic.Page) PDFBuilder
	SetInfo(info *semantic.DocumentInfo) PDFBuilder
	RegisterFont(name string, font *semantic.Font, shaper *fonts.Shaper) PDFBuilder
	RegisterTrueTypeFont(name string, data []byte) PDFBuilder
	Build() (*semantic.Document, error)
}

// PageBuilder draws content onto a single page.
type PageBuilder interface {
	DrawText(text string, opts TextOptions) PageBuilder
	DrawImage(img *semantic.Image, m coords.Matrix, opts ImageOptions) PageBuilder
	DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder
	SetMediaBox(box semantic.Rectangle) PageBuilder
	Finish() PDFBuilder
}

// TextOptions configures a text run. Matrix is the full text matrix, so
// callers control rotation and placement in one place.
type TextOptions struct {
	Font     string
	FontSize float64
	Matrix   coords.Matrix
}

// ImageOptions configures image drawing.
type ImageOptions struct {
	Interpolate bool
}

// LineOptions configures line stroking.
type LineOptions struct {
	LineWidth   float64
	DashPattern []float64
	DashPhase   float64
}

type fontResource struct {
	font   *semantic.Font
	shaper *fonts.Shaper
}

type builderImpl struct {
	pages        []*semantic.Page
	info         *semantic.DocumentInfo
	fonts        map[string]fontResource
	defaultFont  string
	xobjectCount int
	xobjectNames map[*semantic.Image]string
	fontErr      error
}

type pageBuilderImpl struct {
	parent *builderImpl
	page   *semantic.Page
}

// NewBuilder constructs an empty PDFBuilder.
func NewBuilder() PDFBuilder { return &builderImpl{} }

func (b *builderImpl) NewPage(w, h float64) PageBuilder {
	p := &semantic.Page{MediaBox: semantic.Rectangle{LLX: 0, LLY: 0, URX: w, URY: h}}
	b.pages = append(b.pages, p)
	return &pageBuilderImpl{parent: b, page: p}
}

func (b *builderImpl) AddPage(p *semantic.Page) PDFBuilder {
	b.pages = append(b.pages, p)
	return b
}

func (b *builderImpl) SetInfo(info *semantic.DocumentInfo) PDFBuilder {
	b.info = info
	return b
}

// RegisterFont associates a font resource name with an embeddable font and
// the shaper that produced it. Text drawn with this font is shaped to glyph
// IDs, which double as CIDs under Identity-H.
func (b *builderImpl) RegisterFont(name string, font *semantic.Font, shaper *fonts.Shaper) PDFBuilder {
	if font == nil {
		return b
	}
	if b.fonts == nil {
		b.fonts = make(map[string]fontResource)
	}
	b.fonts[name] = fontResource{font: font, shaper: shaper}
	if b.defaultFont == "" {
		b.defaultFont = name
	}
	return b
}

// RegisterTrueTypeFont loads raw TrueType data and registers it in one step.
func (b *builderImpl) RegisterTrueTypeFont(name string, data []byte) PDFBuilder {
	font, err := fonts.LoadTrueType(name, data)
	if err != nil {
		b.fontErr = err
		return b
	}
	shaper, err := fonts.NewShaper(data)
	if err != nil {
		b.fontErr = err
		return b
	}
	return b.RegisterFont(name, font, shaper)
}

func (b *builderImpl) Build() (*semantic.Document, error) {
	if b.fontErr != nil {
		return nil, b.fontErr
	}
	for i, p := range b.pages {
		p.Index = i
	}
	return &semantic.Document{Pages: b.pages, Info: b.info}, nil
}

func (p *pageBuilderImpl) DrawText(text string, opts TextOptions) PageBuilder {
	res, ok := p.parent.fonts[p.fontName(opts.Font)]
	if !ok {
		p.parent.fontErr = fmt.Errorf("font %q not registered", opts.Font)
		return p
	}
	fontName := p.fontName(opts.Font)
	resources := p.ensureResources()
	if _, exists := resources.Fonts[fontName]; !exists {
		resources.Fonts[fontName] = res.font
	}
	size := opts.FontSize
	if size <= 0 {
		size = 12
	}
	m := opts.Matrix
	if m == (coords.Matrix{}) {
		m = coords.Identity()
	}

	encoded := encodeText(text, res)
	mergeToUnicode(res, text)

	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "BT"})
	*ops = append(*ops, semantic.Operation{
		Operator: "Tf",
		Operands: []semantic.Operand{semantic.NameOperand{Value: fontName}, semantic.NumberOperand{Value: size}},
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "Tm",
		Operands: matrixOperands(m),
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "Tj",
		Operands: []semantic.Operand{semantic.StringOperand{Value: encoded}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "ET"})
	return p
}

func (p *pageBuilderImpl) DrawImage(img *semantic.Image, m coords.Matrix, opts ImageOptions) PageBuilder {
	if img == nil {
		return p
	}
	resources := p.ensureResources()
	name := p.parent.imageName(img)
	if _, exists := resources.XObjects[name]; !exists {
		xobj := semantic.XObject{
			Subtype:          "Image",
			Width:            img.Width,
			Height:           img.Height,
			ColorSpace:       img.ColorSpace,
			BitsPerComponent: img.BitsPerComponent,
			Interpolate:      opts.Interpolate,
			Data:             img.Data,
			SMask:            img.SMask,
		}
		resources.XObjects[name] = xobj
	}

	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	*ops = append(*ops, semantic.Operation{Operator: "cm", Operands: matrixOperands(m)})
	*ops = append(*ops, semantic.Operation{
		Operator: "Do",
		Operands: []semantic.Operand{semantic.NameOperand{Value: name}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "Q"})
	return p
}

func (p *pageBuilderImpl) DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder {
	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	if opts.LineWidth > 0 {
		*ops = append(*ops, semantic.Operation{Operator: "w", Operands: []semantic.Operand{semantic.NumberOperand{Value: opts.LineWidth}}})
	}
	if len(opts.DashPattern) > 0 {
		vals := make([]semantic.Operand, 0, len(opts.DashPattern))
		for _, v := range opts.DashPattern {
			vals = append(vals, semantic.NumberOperand{Value: v})
		}
		*ops = append(*ops, semantic.Operation{
			Operator: "d",
			Operands: []semantic.Operand{
				semantic.ArrayOperand{Values: vals},
				semantic.NumberOperand{Value: opts.DashPhase},
			},
		})
	}
	*ops = append(*ops, semantic.Operation{
		Operator: "m",
		Operands: []semantic.Operand{semantic.NumberOperand{Value: x1}, semantic.NumberOperand{Value: y1}},
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "l",
		Operands: []semantic.Operand{semantic.NumberOperand{Value: x2}, semantic.NumberOperand{Value: y2}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "S"})
	*ops = append(*ops, semantic.Operation{Operator: "Q"})
	return p
}

func (p *pageBuilderImpl) SetMediaBox(box semantic.Rectangle) PageBuilder {
	p.page.MediaBox = box
	return p
}

func (p *pageBuilderImpl) Finish() PDFBuilder { return p.parent }

func (p *pageBuilderImpl) fontName(name string) string {
	if name == "" {
		return p.parent.defaultFont
	}
	return name
}

func (b *builderImpl) imageName(img *semantic.Image) string {
	if b.xobjectNames == nil {
		b.xobjectNames = make(map[*semantic.Image]string)
	}
	if name, ok := b.xobjectNames[img]; ok {
		return name
	}
	b.xobjectCount++
	name := fmt.Sprintf("Im%d", b.xobjectCount)
	b.xobjectNames[img] = name
	return name
}

func (p *pageBuilderImpl) ensureResources() *semantic.Resources {
	if p.page.Resources == nil {
		p.page.Resources = &semantic.Resources{}
	}
	if p.page.Resources.Fonts == nil {
		p.page.Resources.Fonts = make(map[string]*semantic.Font)
	}
	if p.page.Resources.XObjects == nil {
		p.page.Resources.XObjects = make(map[string]semantic.XObject)
	}
	return p.page.Resources
}

func (p *pageBuilderImpl) ensureContentOps() *[]semantic.Operation {
	if len(p.page.Contents) == 0 {
		p.page.Contents = append(p.page.Contents, semantic.ContentStream{})
	}
	return &p.page.Contents[0].Operations
}

func matrixOperands(m coords.Matrix) []semantic.Operand {
	out := make([]semantic.Operand, 6)
	for i, v := range m {
		out[i] = semantic.NumberOperand{Value: v}
	}
	return out
}

// encodeText produces the Identity-H string operand for a text run. Fonts
// without a shaper fall back to raw bytes.
func encodeText(text string, res fontResource) []byte {
	if res.shaper != nil && res.font.Subtype == "Type0" && res.font.Encoding == "Identity-H" {
		return res.shaper.EncodeText(text)
	}
	return []byte(text)
}

// mergeToUnicode records the CID-to-rune mapping for every glyph the run
// produced, so the writer can emit a ToUnicode CMap covering all drawn text.
func mergeToUnicode(res fontResource, text string) {
	if res.shaper == nil {
		return
	}
	mapping := res.shaper.GlyphRunes(text)
	if len(mapping) == 0 {
		return
	}
	if res.font.ToUnicode == nil {
		res.font.ToUnicode = make(map[int][]rune, len(mapping))
	}
	for cid, runes := range mapping {
		if _, exists := res.font.ToUnicode[cid]; !exists {
			res.font.ToUnicode[cid] = runes
		}
	}
}
