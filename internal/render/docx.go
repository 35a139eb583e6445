// Package render serializes assembled documents to Office Open XML.
package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/docforma/internal/assemble"
)

// ContentType is the MIME type of the files DOCX writes.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// A4 page size in twips.
const (
	pageWidth  = 11906
	pageHeight = 16838
)

// DOCX writes doc as a .docx file to w.
//
// go-docx has no space-after attribute, so each block's SpaceAfterPt is
// written as space-before on the paragraph that follows it.
func DOCX(w io.Writer, doc assemble.Document) error {
	f := docx.New().WithDefaultTheme()
	fm := doc.Formatting
	line := int(math.Round(240 * fm.LineSpacing))

	before := 0
	for _, b := range doc.Blocks {
		p := f.AddParagraph()
		if b.Kind == assemble.KindPageBreak {
			p.AddPageBreaks()
			before = 0
			continue
		}

		p.Properties = &docx.ParagraphProperties{
			Spacing: &docx.Spacing{Before: before, Line: line, LineRule: "auto"},
		}
		if b.IndentLeft != 0 || b.IndentFirstLine != 0 || b.IndentHanging != 0 {
			p.Properties.Ind = &docx.Ind{
				Left:      b.IndentLeft,
				FirstLine: b.IndentFirstLine,
				Hanging:   b.IndentHanging,
			}
		}
		if jc := justification(b.Align); jc != "" {
			p.Justification(jc)
		}

		if b.Text != "" {
			size := float64(b.SizePt)
			if size == 0 {
				size = fm.FontSizePt
			}
			r := p.AddText(b.Text).
				Size(strconv.Itoa(halfPoints(size))).
				Font(fm.FontFamily, fm.FontFamily, fm.FontFamily, "")
			if b.Bold {
				r.Bold()
			}
			if b.Italic {
				r.Italic()
			}
		}
		before = b.SpaceAfterPt * 20
	}

	// sectPr must be the last element of the body.
	f.Document.Body.Items = append(f.Document.Body.Items, &docx.SectPr{
		PgSz: &docx.PgSz{W: pageWidth, H: pageHeight},
		PgMar: &docx.PgMar{
			Top:    fm.MarginTop,
			Left:   fm.MarginLeft,
			Bottom: fm.MarginBottom,
			Right:  fm.MarginRight,
			Header: 709,
			Footer: 709,
		},
	})

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

// Bytes renders doc into memory.
func Bytes(doc assemble.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := DOCX(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// halfPoints converts a point size to the half-point units of w:sz.
func halfPoints(pt float64) int {
	return int(math.Round(pt * 2))
}

func justification(a assemble.Align) string {
	switch a {
	case assemble.AlignCenter:
		return "center"
	case assemble.AlignJustify:
		return "both"
	case assemble.AlignLeft:
		return "left"
	}
	return ""
}
