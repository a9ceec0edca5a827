package writer

import (
	"bytes"
	"context"
	"math"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"nameplatekit/builder"
	"nameplatekit/coords"
	"nameplatekit/ir/raw"
	"nameplatekit/ir/semantic"
)

func buildTestDocument(t *testing.T, pages int) *semantic.Document {
	t.Helper()
	b := builder.NewBuilder().RegisterTrueTypeFont("F1", goregular.TTF)
	for i := 0; i < pages; i++ {
		b.NewPage(595.2756, 841.8898).DrawText("Test Name", builder.TextOptions{
			Font:     "F1",
			FontSize: 48,
			Matrix:   coords.Translate(200, 600),
		})
	}
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return doc
}

func writeDocument(t *testing.T, doc *semantic.Document, cfg Config) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := (&WriterBuilder{}).Build()
	if err := w.Write(context.Background(), doc, &buf, cfg); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return buf.Bytes()
}

func TestWriteStructure(t *testing.T) {
	out := writeDocument(t, buildTestDocument(t, 2), Config{})
	s := string(out)

	if !strings.HasPrefix(s, "%PDF-1.7\n") {
		t.Errorf("missing header, got %q", s[:16])
	}
	for _, want := range []string{
		"/Type /Catalog",
		"/Type /Pages",
		"/Count 2",
		"/Type /Page",
		"/Subtype /Type0",
		"/Encoding /Identity-H",
		"/Subtype /CIDFontType2",
		"/FontFile2",
		"/ToUnicode",
		"xref",
		"trailer",
		"startxref",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if !strings.HasSuffix(s, "%%EOF\n") {
		t.Error("missing EOF terminator")
	}
}

func TestWriteEmptyDocument(t *testing.T) {
	out := writeDocument(t, &semantic.Document{}, Config{})
	s := string(out)
	if !strings.Contains(s, "/Count 0") {
		t.Error("zero-page document should still carry a pages tree")
	}
	if !strings.Contains(s, "/Type /Catalog") {
		t.Error("missing catalog")
	}
}

func TestWriteDeterministic(t *testing.T) {
	cfg := Config{Deterministic: true}
	a := writeDocument(t, buildTestDocument(t, 1), cfg)
	b := writeDocument(t, buildTestDocument(t, 1), cfg)
	if !bytes.Equal(a, b) {
		t.Error("deterministic writes differ")
	}
}

func TestWriteRandomFileID(t *testing.T) {
	a := writeDocument(t, buildTestDocument(t, 1), Config{})
	b := writeDocument(t, buildTestDocument(t, 1), Config{})
	if bytes.Equal(a, b) {
		t.Error("non-deterministic writes should carry different file IDs")
	}
}

func TestWriteFlateFilter(t *testing.T) {
	out := writeDocument(t, buildTestDocument(t, 1), Config{ContentFilter: FilterFlate, Compression: 6})
	if !strings.Contains(string(out), "/Filter /FlateDecode") {
		t.Error("missing FlateDecode filter entry")
	}
}

func TestWriteInfoDictionary(t *testing.T) {
	doc := buildTestDocument(t, 1)
	doc.Info = &semantic.DocumentInfo{Title: "Placards", Producer: "nameplatekit"}
	s := string(writeDocument(t, doc, Config{}))
	if !strings.Contains(s, "(Placards)") {
		t.Error("missing title string")
	}
	if !strings.Contains(s, "/Info ") {
		t.Error("trailer missing /Info")
	}
}

func TestWriteCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	w := (&WriterBuilder{}).Build()
	if err := w.Write(ctx, buildTestDocument(t, 1), &buf, Config{}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{3, "3"},
		{-1, "-1"},
		{0.5, "0.5"},
		{595.2756, "595.2756"},
		{math.Sin(math.Pi), "0"},
		{-math.Sin(math.Pi), "0"},
	}
	for _, tc := range cases {
		if got := formatNumber(tc.in); got != tc.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestContentStreamRotatedMatrixNumbers(t *testing.T) {
	// A half-turn matrix carries sin residues near zero; the serialized
	// operands must stay in fixed notation, never exponent form.
	m := coords.Rotate(math.Pi).Multiply(coords.Translate(300, 200))
	operands := make([]semantic.Operand, len(m))
	for i, v := range m {
		operands[i] = semantic.NumberOperand{Value: v}
	}
	cs := semantic.ContentStream{Operations: []semantic.Operation{{Operator: "cm", Operands: operands}}}
	out := string(serializeContentStream(cs))
	if strings.ContainsAny(out, "eE") {
		t.Errorf("exponent notation leaked into content stream: %q", out)
	}
	if out != "-1 0 0 -1 300 200 cm\n" {
		t.Errorf("serialized matrix = %q", out)
	}
}

func TestEncodeCIDWidths(t *testing.T) {
	arr := encodeCIDWidths(map[int]int{1: 500, 2: 500, 3: 500, 5: 600})
	got := string(serializePrimitive(arr))
	if got != "[1 3 500 5 5 600]" {
		t.Errorf("encodeCIDWidths = %s", got)
	}
}

func TestEscapeLiteralString(t *testing.T) {
	got := string(escapeLiteralString([]byte("a(b)\\c\nd")))
	want := `(a\(b\)\\c\nd)`
	if got != want {
		t.Errorf("escaped = %s, want %s", got, want)
	}
}

func TestSerializeObject(t *testing.T) {
	w := &impl{}
	d := raw.Dict()
	d.Set(raw.NameLiteral("Type"), raw.NameLiteral("Catalog"))
	out, err := w.SerializeObject(raw.ObjectRef{Num: 3, Gen: 0}, d)
	if err != nil {
		t.Fatalf("SerializeObject: %v", err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "3 0 obj\n") || !strings.HasSuffix(s, "endobj\n") {
		t.Errorf("unexpected framing: %q", s)
	}
}

func TestXrefOffsetsPointAtObjects(t *testing.T) {
	out := writeDocument(t, buildTestDocument(t, 1), Config{Deterministic: true})
	s := string(out)
	idx := strings.LastIndex(s, "startxref\n")
	if idx < 0 {
		t.Fatal("no startxref")
	}
	rest := s[idx+len("startxref\n"):]
	off, err := strconv.Atoi(rest[:strings.IndexByte(rest, '\n')])
	if err != nil {
		t.Fatalf("parse startxref offset: %v", err)
	}
	if off <= 0 || off >= len(out) || !strings.HasPrefix(s[off:], "xref") {
		t.Errorf("startxref %d does not point at xref table", off)
	}
}
