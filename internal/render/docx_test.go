package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docforma/internal/assemble"
	"github.com/dgallion1/docforma/internal/docspec"
	"github.com/dgallion1/docforma/internal/partition"
)

func paragraphText(p *docx.Paragraph) string {
	var sb strings.Builder
	for _, child := range p.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				sb.WriteString(t.Text)
			}
		}
	}
	return sb.String()
}

func parse(t *testing.T, data []byte) *docx.Docx {
	t.Helper()
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return doc
}

func TestDOCX_RoundTrip(t *testing.T) {
	spec := docspec.StandardDefaults().Spec()
	spec.Formatting.MarginLeft = "2,5 см"
	sections := partition.Partition("Введение\nПервый абзац введения.\nГлава 1\nТекст первой главы.\nГлава 2\nТекст второй главы.\nГлава 3\nТекст третьей главы.\nЗаключение\nИтоговый абзац работы.", 5)

	doc := assemble.New(assemble.Options{}, nil).Assemble(spec, sections, assemble.Extras{
		WorkType: "essay",
		Topic:    "Тестовая тема",
		Year:     2025,
	})

	data, err := Bytes(doc)
	require.NoError(t, err)
	parsed := parse(t, data)

	var (
		texts []string
		sect  *docx.SectPr
	)
	for _, item := range parsed.Document.Body.Items {
		switch v := item.(type) {
		case *docx.Paragraph:
			if s := paragraphText(v); s != "" {
				texts = append(texts, s)
			}
		case *docx.SectPr:
			sect = v
		}
	}

	joined := strings.Join(texts, "\n")
	assert.Contains(t, joined, "РЕФЕРАТ")
	assert.Contains(t, joined, "на тему: \"Тестовая тема\"")
	assert.Contains(t, joined, "ВВЕДЕНИЕ")
	assert.Contains(t, joined, "Текст второй главы.")
	assert.Contains(t, joined, "СПИСОК ЛИТЕРАТУРЫ")

	require.NotNil(t, sect, "expected section properties")
	require.NotNil(t, sect.PgMar)
	assert.Equal(t, assemble.CMToTwips(2.5), sect.PgMar.Left)
	assert.Equal(t, assemble.CMToTwips(1), sect.PgMar.Right)
	assert.Equal(t, pageWidth, sect.PgSz.W)
}

func TestDOCX_ParagraphProperties(t *testing.T) {
	doc := assemble.Document{
		Formatting: assemble.DefaultFormatting(),
		Blocks: []assemble.Block{
			{Kind: assemble.KindHeading, Text: "ВВЕДЕНИЕ", Align: assemble.AlignCenter, Bold: true, SpaceAfterPt: 12},
			{Kind: assemble.KindParagraph, Text: "Абзац текста.", IndentFirstLine: 720},
		},
	}
	data, err := Bytes(doc)
	require.NoError(t, err)

	var paras []*docx.Paragraph
	for _, item := range parse(t, data).Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			paras = append(paras, p)
		}
	}
	require.Len(t, paras, 2)

	head := paras[0]
	require.NotNil(t, head.Properties.Justification)
	assert.Equal(t, "center", head.Properties.Justification.Val)
	run := head.Children[0].(*docx.Run)
	assert.NotNil(t, run.RunProperties.Bold)
	assert.Equal(t, "28", run.RunProperties.Size.Val)
	assert.Equal(t, "Times New Roman", run.RunProperties.Fonts.ASCII)

	body := paras[1]
	require.NotNil(t, body.Properties.Spacing)
	assert.Equal(t, 240, body.Properties.Spacing.Before)
	assert.Equal(t, 360, body.Properties.Spacing.Line)
	require.NotNil(t, body.Properties.Ind)
	assert.Equal(t, 720, body.Properties.Ind.FirstLine)
}

func TestDOCX_HalfPointFontSize(t *testing.T) {
	spec := docspec.StandardDefaults().Spec()
	spec.Formatting.FontSize = "12,5"
	doc := assemble.New(assemble.Options{}, nil).Assemble(spec, partition.Partition("", 3), assemble.Extras{})
	require.Equal(t, 12.5, doc.Formatting.FontSizePt)

	data, err := Bytes(assemble.Document{
		Formatting: doc.Formatting,
		Blocks:     []assemble.Block{{Kind: assemble.KindParagraph, Text: "Абзац текста."}},
	})
	require.NoError(t, err)

	for _, item := range parse(t, data).Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			run := p.Children[0].(*docx.Run)
			assert.Equal(t, "25", run.RunProperties.Size.Val)
			return
		}
	}
	t.Fatal("expected a paragraph")
}

func TestDOCX_PageBreakResetsSpacing(t *testing.T) {
	doc := assemble.Document{
		Formatting: assemble.DefaultFormatting(),
		Blocks: []assemble.Block{
			{Kind: assemble.KindParagraph, Text: "Первый", SpaceAfterPt: 36},
			{Kind: assemble.KindPageBreak},
			{Kind: assemble.KindParagraph, Text: "Второй"},
		},
	}
	data, err := Bytes(doc)
	require.NoError(t, err)

	var last *docx.Paragraph
	for _, item := range parse(t, data).Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			last = p
		}
	}
	require.NotNil(t, last)
	assert.Equal(t, "Второй", paragraphText(last))
	assert.Zero(t, last.Properties.Spacing.Before)
}
