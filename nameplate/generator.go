package nameplate

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"

	"nameplatekit/builder"
	"nameplatekit/coords"
	"nameplatekit/fonts"
	"nameplatekit/ir/semantic"
	"nameplatekit/observability"
	"nameplatekit/writer"
)

const fontResourceName = "F1"

// Generator renders nameplate pages. Assets are loaded once and reused,
// read-only, across every page of a run.
type Generator struct {
	cfg Config
	log observability.Logger

	font   *semantic.Font
	shaper *fonts.Shaper
	logo   *semantic.Image
}

// NewGenerator returns a Generator with the given geometry. A nil logger
// defaults to the nop logger.
func NewGenerator(cfg Config, log observability.Logger) *Generator {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Generator{cfg: cfg, log: log}
}

// LoadAssets reads and decodes the font and logo. Failures are *AssetError
// and leave the generator unusable for rendering.
func (g *Generator) LoadAssets(fontPath, logoPath string) error {
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return &AssetError{Kind: "font", Path: fontPath, Err: err}
	}
	name := filepath.Base(fontPath)
	font, err := fonts.LoadTrueType(name, data)
	if err != nil {
		return &AssetError{Kind: "font", Path: fontPath, Err: err}
	}
	shaper, err := fonts.NewShaper(data)
	if err != nil {
		return &AssetError{Kind: "font", Path: fontPath, Err: err}
	}

	logo, err := builder.ImageFromFile(logoPath)
	if err != nil {
		return &AssetError{Kind: "logo", Path: logoPath, Err: err}
	}

	g.font = font
	g.shaper = shaper
	g.logo = logo
	g.log.Debug("assets loaded",
		observability.String("font", font.BaseFont),
		observability.Int("logo_width", logo.Width),
		observability.Int("logo_height", logo.Height))
	return nil
}

// Render composes one page per name and serializes the document in memory.
// A zero-name input yields a valid zero-page PDF.
func (g *Generator) Render(ctx context.Context, names []string) ([]byte, error) {
	if g.font == nil || g.shaper == nil || g.logo == nil {
		return nil, &RenderError{Err: errAssetsNotLoaded}
	}

	b := builder.NewBuilder().
		RegisterFont(fontResourceName, g.font, g.shaper).
		SetInfo(&semantic.DocumentInfo{
			Title:    "Nameplates",
			Producer: "nameplatekit",
		})
	for _, name := range names {
		g.renderPage(b, ComputeLayout(name, g.cfg))
	}

	doc, err := b.Build()
	if err != nil {
		return nil, &RenderError{Err: err}
	}

	var buf bytes.Buffer
	w := (&writer.WriterBuilder{}).Build()
	if err := w.Write(ctx, doc, &buf, writer.Config{ContentFilter: writer.FilterFlate, Compression: 6}); err != nil {
		return nil, &RenderError{Err: err}
	}
	g.log.Info("document rendered",
		observability.Int("pages", len(doc.Pages)),
		observability.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// Generate runs the full pipeline and writes the finished document to
// outPath. The file is touched only after rendering succeeded; destination
// failures are *OutputError.
func (g *Generator) Generate(ctx context.Context, names []string, outPath string) error {
	data, err := g.Render(ctx, names)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return &OutputError{Path: outPath, Err: err}
	}
	g.log.Info("document written",
		observability.String("output", outPath),
		observability.Int("pages", len(names)))
	return nil
}

// renderPage draws one nameplate: both name instances, both logo
// placements, and the fold guide.
func (g *Generator) renderPage(b builder.PDFBuilder, l Layout) {
	page := b.NewPage(l.PageWidth, l.PageHeight)

	page.DrawText(l.Name, builder.TextOptions{
		Font:     fontResourceName,
		FontSize: l.Top.FontSize,
		Matrix:   g.textMatrix(l.Name, l.Top),
	})
	page.DrawText(l.Name, builder.TextOptions{
		Font:     fontResourceName,
		FontSize: l.Bottom.FontSize,
		Matrix:   g.textMatrix(l.Name, l.Bottom),
	})

	page.DrawImage(g.logo, g.logoMatrix(l.TopLogo), builder.ImageOptions{Interpolate: true})
	page.DrawImage(g.logo, g.logoMatrix(l.BottomLogo), builder.ImageOptions{Interpolate: true})

	page.DrawLine(l.FoldGuide.X1, l.FoldGuide.Y1, l.FoldGuide.X2, l.FoldGuide.Y2, builder.LineOptions{
		LineWidth:   g.cfg.FoldLineWidth,
		DashPattern: g.cfg.FoldDash,
	})
	page.Finish()
}

// textMatrix centers the shaped run on the block anchor. The rotated block
// starts its pen half a width past center and runs back, which is the 180°
// rotation of the upright placement about the anchor.
func (g *Generator) textMatrix(name string, block TextBlock) coords.Matrix {
	width := g.shaper.MeasureString(name, block.FontSize)
	if block.Rotated {
		return coords.Rotate(math.Pi).Multiply(coords.Translate(block.X+width/2, block.Y))
	}
	return coords.Translate(block.X-width/2, block.Y)
}

// logoMatrix maps the unit image square onto the aspect-fitted box at the
// block's anchor, flipping the rotated placement about its box center.
func (g *Generator) logoMatrix(block LogoBlock) coords.Matrix {
	fw, fh := FitLogo(g.logo.Width, g.logo.Height, block.BoxSide)
	if block.Rotated {
		return coords.Scale(fw, fh).
			Multiply(coords.Rotate(math.Pi)).
			Multiply(coords.Translate(block.AnchorX, block.AnchorY))
	}
	return coords.Scale(fw, fh).Multiply(coords.Translate(block.AnchorX, block.AnchorY))
}

type generatorError string

func (e generatorError) Error() string { return string(e) }

const errAssetsNotLoaded = generatorError("assets not loaded")
