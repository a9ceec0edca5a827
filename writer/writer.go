// Package writer lowers a semantic.Document to raw PDF objects and
// serializes them as a complete file with cross-reference table and trailer.
package writer

import (
	"context"
	"io"

	"nameplatekit/ir/raw"
	"nameplatekit/ir/semantic"
)

type PDFVersion string

const (
	PDF17 PDFVersion = "1.7"
)

type ContentFilter int

const (
	FilterNone ContentFilter = iota
	FilterFlate
)

// Config controls serialization. Deterministic makes the trailer file ID a
// pure function of document content, so identical inputs produce
// byte-identical files.
type Config struct {
	Version       PDFVersion
	Compression   int
	ContentFilter ContentFilter
	Deterministic bool
}

type Writer interface {
	Write(ctx context.Context, doc *semantic.Document, w io.Writer, cfg Config) error
	SerializeObject(ref raw.ObjectRef, obj raw.Object) ([]byte, error)
}

type WriterBuilder struct{}

func (b *WriterBuilder) Build() Writer { return &impl{} }
