package writer

import (
	"fmt"

	"nameplatekit/ir/raw"
	"nameplatekit/ir/semantic"
)

type objectBuilder struct {
	doc     *semantic.Document
	cfg     Config
	objects map[raw.ObjectRef]raw.Object
	objNum  int

	fontRefs    map[string]raw.ObjectRef
	xobjectRefs map[string]raw.ObjectRef
}

func newObjectBuilder(doc *semantic.Document, cfg Config) *objectBuilder {
	return &objectBuilder{
		doc:         doc,
		cfg:         cfg,
		objects:     make(map[raw.ObjectRef]raw.Object),
		objNum:      1,
		fontRefs:    make(map[string]raw.ObjectRef),
		xobjectRefs: make(map[string]raw.ObjectRef),
	}
}

func (b *objectBuilder) nextRef() raw.ObjectRef {
	ref := raw.ObjectRef{Num: b.objNum, Gen: 0}
	b.objNum++
	return ref
}

// Build lowers the document into numbered raw objects and returns them with
// the catalog reference and optional info reference.
func (b *objectBuilder) Build() (map[raw.ObjectRef]raw.Object, raw.ObjectRef, *raw.ObjectRef, error) {
	catalogRef := b.nextRef()
	pagesRef := b.nextRef()
	pageRefs := make([]raw.ObjectRef, 0, len(b.doc.Pages))

	// Document info dictionary
	var infoRef *raw.ObjectRef
	if b.doc.Info != nil {
		infoDict := raw.Dict()
		if b.doc.Info.Title != "" {
			infoDict.Set(raw.NameLiteral("Title"), raw.Str([]byte(b.doc.Info.Title)))
		}
		if b.doc.Info.Author != "" {
			infoDict.Set(raw.NameLiteral("Author"), raw.Str([]byte(b.doc.Info.Author)))
		}
		if b.doc.Info.Subject != "" {
			infoDict.Set(raw.NameLiteral("Subject"), raw.Str([]byte(b.doc.Info.Subject)))
		}
		if b.doc.Info.Creator != "" {
			infoDict.Set(raw.NameLiteral("Creator"), raw.Str([]byte(b.doc.Info.Creator)))
		}
		if b.doc.Info.Producer != "" {
			infoDict.Set(raw.NameLiteral("Producer"), raw.Str([]byte(b.doc.Info.Producer)))
		}
		if infoDict.Len() > 0 {
			ref := b.nextRef()
			infoRef = &ref
			b.objects[ref] = infoDict
		}
	}

	// Page content streams
	contentRefs := []raw.ObjectRef{}
	for _, p := range b.doc.Pages {
		contentData := []byte{}
		for _, cs := range p.Contents {
			contentData = append(contentData, serializeContentStream(cs)...)
		}
		streamData := contentData
		contentRef := b.nextRef()
		dict := raw.Dict()
		if pickContentFilter(b.cfg) == FilterFlate {
			data, err := flateEncode(streamData, b.cfg.Compression)
			if err != nil {
				return nil, raw.ObjectRef{}, nil, err
			}
			streamData = data
			dict.Set(raw.NameLiteral("Filter"), raw.NameLiteral("FlateDecode"))
		}
		dict.Set(raw.NameLiteral("Length"), raw.NumberInt(int64(len(streamData))))
		b.objects[contentRef] = raw.NewStream(dict, streamData)
		contentRefs = append(contentRefs, contentRef)
	}

	// Pages
	procEntries := map[string]bool{"PDF": true, "Text": true}
	procSet := raw.NewArray(raw.NameLiteral("PDF"), raw.NameLiteral("Text"))
	addProc := func(name string) {
		if !procEntries[name] {
			procEntries[name] = true
			procSet.Append(raw.NameLiteral(name))
		}
	}
	for i, p := range b.doc.Pages {
		ref := b.nextRef()
		pageRefs = append(pageRefs, ref)
		pageDict := raw.Dict()
		pageDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Page"))
		pageDict.Set(raw.NameLiteral("Parent"), raw.Ref(pagesRef.Num, pagesRef.Gen))
		pageDict.Set(raw.NameLiteral("MediaBox"), rectArray(p.MediaBox))

		resDict := raw.Dict()
		if p.Resources != nil && len(p.Resources.Fonts) > 0 {
			fontResDict := raw.Dict()
			for name, font := range p.Resources.Fonts {
				fRef := b.ensureFont(font)
				fontResDict.Set(raw.NameLiteral(name), raw.Ref(fRef.Num, fRef.Gen))
			}
			resDict.Set(raw.NameLiteral("Font"), fontResDict)
		}
		if p.Resources != nil && len(p.Resources.XObjects) > 0 {
			xDict := raw.Dict()
			for name, xo := range p.Resources.XObjects {
				xref := b.ensureXObject(name, xo)
				xDict.Set(raw.NameLiteral(name), raw.Ref(xref.Num, xref.Gen))
				if xo.ColorSpace == "DeviceGray" {
					addProc("ImageB")
				} else {
					addProc("ImageC")
				}
			}
			resDict.Set(raw.NameLiteral("XObject"), xDict)
		}
		resDict.Set(raw.NameLiteral("ProcSet"), procSet)
		pageDict.Set(raw.NameLiteral("Resources"), resDict)
		pageDict.Set(raw.NameLiteral("Contents"), raw.Ref(contentRefs[i].Num, contentRefs[i].Gen))
		b.objects[ref] = pageDict
	}

	// Pages tree
	kidsArr := raw.NewArray()
	for _, r := range pageRefs {
		kidsArr.Append(raw.Ref(r.Num, r.Gen))
	}
	pagesDict := raw.Dict()
	pagesDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Pages"))
	pagesDict.Set(raw.NameLiteral("Count"), raw.NumberInt(int64(len(pageRefs))))
	pagesDict.Set(raw.NameLiteral("Kids"), kidsArr)
	b.objects[pagesRef] = pagesDict

	// Catalog
	catalogDict := raw.Dict()
	catalogDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Catalog"))
	catalogDict.Set(raw.NameLiteral("Pages"), raw.Ref(pagesRef.Num, pagesRef.Gen))
	if b.doc.Info != nil && b.doc.Info.Title != "" {
		vp := raw.Dict()
		vp.Set(raw.NameLiteral("DisplayDocTitle"), raw.Bool(true))
		catalogDict.Set(raw.NameLiteral("ViewerPreferences"), vp)
	}
	b.objects[catalogRef] = catalogDict

	return b.objects, catalogRef, infoRef, nil
}

func (b *objectBuilder) addFontDescriptor(fd *semantic.FontDescriptor) *raw.ObjectRef {
	if fd == nil {
		return nil
	}
	ref := b.nextRef()
	d := raw.Dict()
	d.Set(raw.NameLiteral("Type"), raw.NameLiteral("FontDescriptor"))
	name := fd.FontName
	if name == "" {
		name = "CustomFont"
	}
	d.Set(raw.NameLiteral("FontName"), raw.NameLiteral(name))
	flags := fd.Flags
	if flags == 0 {
		flags = 4
	}
	d.Set(raw.NameLiteral("Flags"), raw.NumberInt(int64(flags)))
	d.Set(raw.NameLiteral("ItalicAngle"), raw.NumberFloat(fd.ItalicAngle))
	d.Set(raw.NameLiteral("Ascent"), raw.NumberFloat(fd.Ascent))
	d.Set(raw.NameLiteral("Descent"), raw.NumberFloat(fd.Descent))
	d.Set(raw.NameLiteral("CapHeight"), raw.NumberFloat(fd.CapHeight))
	stem := fd.StemV
	if stem == 0 {
		stem = 80
	}
	d.Set(raw.NameLiteral("StemV"), raw.NumberInt(int64(stem)))
	d.Set(raw.NameLiteral("FontBBox"), raw.NewArray(
		raw.NumberFloat(fd.FontBBox[0]),
		raw.NumberFloat(fd.FontBBox[1]),
		raw.NumberFloat(fd.FontBBox[2]),
		raw.NumberFloat(fd.FontBBox[3]),
	))
	if len(fd.FontFile) > 0 {
		streamDict := raw.Dict()
		streamDict.Set(raw.NameLiteral("Length"), raw.NumberInt(int64(len(fd.FontFile))))
		streamRef := b.nextRef()
		b.objects[streamRef] = raw.NewStream(streamDict, fd.FontFile)
		key := "FontFile2"
		if fd.FontFileType != "" {
			key = fd.FontFileType
		}
		d.Set(raw.NameLiteral(key), raw.Ref(streamRef.Num, streamRef.Gen))
	}
	b.objects[ref] = d
	return &ref
}

func (b *objectBuilder) addToUnicode(font *semantic.Font) *raw.ObjectRef {
	if font == nil || len(font.ToUnicode) == 0 {
		return nil
	}
	cmap := buildToUnicodeCMap(font)
	if len(cmap) == 0 {
		return nil
	}
	ref := b.nextRef()
	d := raw.Dict()
	d.Set(raw.NameLiteral("Length"), raw.NumberInt(int64(len(cmap))))
	b.objects[ref] = raw.NewStream(d, cmap)
	return &ref
}

func (b *objectBuilder) ensureFont(font *semantic.Font) raw.ObjectRef {
	base := "Helvetica"
	encoding := ""
	subtype := "Type1"
	if font != nil {
		if font.BaseFont != "" {
			base = font.BaseFont
		}
		encoding = font.Encoding
		if font.Subtype != "" {
			subtype = font.Subtype
		}
	}
	key := fontKey(base, encoding, subtype, font)
	if ref, ok := b.fontRefs[key]; ok {
		return ref
	}
	ref := b.nextRef()
	fontDict := raw.Dict()
	fontDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Font"))
	fontDict.Set(raw.NameLiteral("Subtype"), raw.NameLiteral(subtype))
	fontDict.Set(raw.NameLiteral("BaseFont"), raw.NameLiteral(base))

	if subtype == "Type0" {
		desc := font.DescendantFont
		if encoding == "" {
			encoding = "Identity-H"
		}
		fontDict.Set(raw.NameLiteral("Encoding"), raw.NameLiteral(encoding))

		descRef := b.nextRef()
		descDict := raw.Dict()
		descDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Font"))
		descSubtype := "CIDFontType2"
		if desc != nil && desc.Subtype != "" {
			descSubtype = desc.Subtype
		}
		descDict.Set(raw.NameLiteral("Subtype"), raw.NameLiteral(descSubtype))
		descBase := base
		if desc != nil && desc.BaseFont != "" {
			descBase = desc.BaseFont
		}
		descDict.Set(raw.NameLiteral("BaseFont"), raw.NameLiteral(descBase))

		var csi *semantic.CIDSystemInfo
		if font.CIDSystemInfo != nil {
			csi = font.CIDSystemInfo
		} else if desc != nil {
			csi = &desc.CIDSystemInfo
		}
		if csi != nil {
			cs := raw.Dict()
			reg := csi.Registry
			if reg == "" {
				reg = "Adobe"
			}
			ord := csi.Ordering
			if ord == "" {
				ord = "Identity"
			}
			cs.Set(raw.NameLiteral("Registry"), raw.Str([]byte(reg)))
			cs.Set(raw.NameLiteral("Ordering"), raw.Str([]byte(ord)))
			cs.Set(raw.NameLiteral("Supplement"), raw.NumberInt(int64(csi.Supplement)))
			descDict.Set(raw.NameLiteral("CIDSystemInfo"), cs)
		}
		dw := 1000
		if desc != nil && desc.DW > 0 {
			dw = desc.DW
		}
		descDict.Set(raw.NameLiteral("DW"), raw.NumberInt(int64(dw)))
		widths := map[int]int{}
		if desc != nil && len(desc.W) > 0 {
			widths = desc.W
		} else if len(font.Widths) > 0 {
			widths = font.Widths
		}
		if len(widths) > 0 {
			descDict.Set(raw.NameLiteral("W"), encodeCIDWidths(widths))
		}
		if fd := b.addFontDescriptor(fontDescriptor(desc, font)); fd != nil {
			descDict.Set(raw.NameLiteral("FontDescriptor"), raw.Ref(fd.Num, fd.Gen))
		}
		b.objects[descRef] = descDict
		fontDict.Set(raw.NameLiteral("DescendantFonts"), raw.NewArray(raw.Ref(descRef.Num, descRef.Gen)))
		if uref := b.addToUnicode(font); uref != nil {
			fontDict.Set(raw.NameLiteral("ToUnicode"), raw.Ref(uref.Num, uref.Gen))
		}
	} else {
		if encoding != "" {
			fontDict.Set(raw.NameLiteral("Encoding"), raw.NameLiteral(encoding))
		}
		if font != nil {
			if fd := b.addFontDescriptor(fontDescriptor(nil, font)); fd != nil {
				fontDict.Set(raw.NameLiteral("FontDescriptor"), raw.Ref(fd.Num, fd.Gen))
			}
		}
	}
	b.objects[ref] = fontDict
	b.fontRefs[key] = ref
	return ref
}

func (b *objectBuilder) ensureXObject(name string, xo semantic.XObject) raw.ObjectRef {
	key := xoKey(name, xo)
	if ref, ok := b.xobjectRefs[key]; ok {
		return ref
	}
	ref := b.nextRef()
	dict := raw.Dict()
	dict.Set(raw.NameLiteral("Type"), raw.NameLiteral("XObject"))
	sub := xo.Subtype
	if sub == "" {
		sub = "Image"
	}
	dict.Set(raw.NameLiteral("Subtype"), raw.NameLiteral(sub))
	if xo.Width > 0 {
		dict.Set(raw.NameLiteral("Width"), raw.NumberInt(int64(xo.Width)))
	}
	if xo.Height > 0 {
		dict.Set(raw.NameLiteral("Height"), raw.NumberInt(int64(xo.Height)))
	}
	color := xo.ColorSpace
	if color == "" {
		color = "DeviceRGB"
	}
	dict.Set(raw.NameLiteral("ColorSpace"), raw.NameLiteral(color))
	if xo.BitsPerComponent > 0 {
		dict.Set(raw.NameLiteral("BitsPerComponent"), raw.NumberInt(int64(xo.BitsPerComponent)))
	}
	if xo.Interpolate {
		dict.Set(raw.NameLiteral("Interpolate"), raw.Bool(true))
	}
	if xo.SMask != nil {
		mask := semantic.XObject{
			Subtype:          "Image",
			Width:            xo.SMask.Width,
			Height:           xo.SMask.Height,
			ColorSpace:       xo.SMask.ColorSpace,
			BitsPerComponent: xo.SMask.BitsPerComponent,
			Data:             xo.SMask.Data,
		}
		maskRef := b.ensureXObject(fmt.Sprintf("%s:SMask", name), mask)
		dict.Set(raw.NameLiteral("SMask"), raw.Ref(maskRef.Num, maskRef.Gen))
	}
	dict.Set(raw.NameLiteral("Length"), raw.NumberInt(int64(len(xo.Data))))
	b.objects[ref] = raw.NewStream(dict, xo.Data)
	b.xobjectRefs[key] = ref
	return ref
}
