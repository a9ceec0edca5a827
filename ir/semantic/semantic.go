// Package semantic holds the writer-facing document model: pages, content
// operations, fonts, and image XObjects. The generator builds a Document
// through the builder package and the writer lowers it to raw objects.
package semantic

// Rectangle in PDF user space, lower-left to upper-right.
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rectangle) Width() float64 { return r.URX - r.LLX }

// Height returns the vertical extent of the rectangle.
func (r Rectangle) Height() float64 { return r.URY - r.LLY }

// Document is an ordered, append-only collection of pages plus metadata.
type Document struct {
	Pages []*Page
	Info  *DocumentInfo
}

// DocumentInfo maps to the PDF Info dictionary.
type DocumentInfo struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string
}

// Page describes one output page.
type Page struct {
	Index     int
	MediaBox  Rectangle
	Resources *Resources
	Contents  []ContentStream
}

// Resources names the fonts and XObjects a page's content stream refers to.
type Resources struct {
	Fonts    map[string]*Font
	XObjects map[string]XObject
}

// ContentStream is a sequence of content operations. If RawBytes is set it
// takes precedence over Operations when serialized.
type ContentStream struct {
	Operations []Operation
	RawBytes   []byte
}

// Operation is a single content-stream operator with its operands.
type Operation struct {
	Operator string
	Operands []Operand
}

// Operand is a typed content-stream operand.
type Operand interface{ isOperand() }

type NumberOperand struct{ Value float64 }
type NameOperand struct{ Value string }
type StringOperand struct{ Value []byte }
type ArrayOperand struct{ Values []Operand }

func (NumberOperand) isOperand() {}
func (NameOperand) isOperand()   {}
func (StringOperand) isOperand() {}
func (ArrayOperand) isOperand()  {}

// Font describes a font resource. The generator embeds TrueType fonts as
// Type0 / Identity-H with a CIDFontType2 descendant; string operands are
// then big-endian glyph-ID pairs.
type Font struct {
	Subtype        string
	BaseFont       string
	Encoding       string
	Widths         map[int]int
	CIDSystemInfo  *CIDSystemInfo
	DescendantFont *CIDFont
	Descriptor     *FontDescriptor

	// ToUnicode maps CIDs (glyph IDs under Identity-H) to the runes they
	// were shaped from, for text extraction. Populated lazily as text is
	// drawn, since the mapping depends on shaping.
	ToUnicode map[int][]rune
}

// CIDFont is the descendant font of a Type0 composite font.
type CIDFont struct {
	Subtype       string
	BaseFont      string
	CIDSystemInfo CIDSystemInfo
	DW            int
	W             map[int]int
	Descriptor    *FontDescriptor
}

// CIDSystemInfo identifies the character collection of a CID font.
type CIDSystemInfo struct {
	Registry   string
	Ordering   string
	Supplement int
}

// FontDescriptor carries font-wide metrics and the embedded font program.
type FontDescriptor struct {
	FontName     string
	Flags        int
	ItalicAngle  float64
	Ascent       float64
	Descent      float64
	CapHeight    float64
	StemV        int
	FontBBox     [4]float64
	FontFile     []byte
	FontFileType string // "FontFile2" for TrueType
}

// Image is decoded raster data ready for embedding.
type Image struct {
	Width            int
	Height           int
	ColorSpace       string // "DeviceRGB" or "DeviceGray"
	BitsPerComponent int
	Data             []byte
	SMask            *Image
}

// XObject is an image external object as referenced from page resources.
type XObject struct {
	Subtype          string
	Width            int
	Height           int
	ColorSpace       string
	BitsPerComponent int
	Interpolate      bool
	Data             []byte
	SMask            *Image
}
