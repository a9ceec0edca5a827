package writer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"nameplatekit/ir/raw"
	"nameplatekit/ir/semantic"
)

type impl struct{}

func (w *impl) SerializeObject(ref raw.ObjectRef, obj raw.Object) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%d %d obj\n", ref.Num, ref.Gen))
	buf.Write(serializePrimitive(obj))
	buf.WriteString("\nendobj\n")
	return buf.Bytes(), nil
}

func (w *impl) Write(ctx context.Context, doc *semantic.Document, out io.Writer, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	objects, catalogRef, infoRef, err := newObjectBuilder(doc, cfg).Build()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%%PDF-%s\n%%\xE2\xE3\xCF\xD3\n", pdfVersion(cfg)))
	offsets := make(map[int]int64)

	ordered := make([]raw.ObjectRef, 0, len(objects))
	for ref := range objects {
		ordered = append(ordered, ref)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Num < ordered[j].Num })
	for _, ref := range ordered {
		if err := ctx.Err(); err != nil {
			return err
		}
		offset := int64(buf.Len())
		serialized, err := w.SerializeObject(ref, objects[ref])
		if err != nil {
			return err
		}
		buf.Write(serialized)
		offsets[ref.Num] = offset
	}

	// Cross-reference table
	xrefOffset := buf.Len()
	maxObjNum := 0
	if len(ordered) > 0 {
		maxObjNum = ordered[len(ordered)-1].Num
	}
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n", maxObjNum+1))
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= maxObjNum; i++ {
		if off, ok := offsets[i]; ok {
			buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}

	// Trailer
	trailer := buildTrailer(maxObjNum+1, catalogRef, infoRef, fileID(doc, cfg))
	buf.WriteString("trailer\n")
	buf.Write(serializePrimitive(trailer))
	buf.WriteString(fmt.Sprintf("\nstartxref\n%d\n%%%%EOF\n", xrefOffset))

	_, err = out.Write(buf.Bytes())
	return err
}
