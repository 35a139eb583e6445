// Package assemble lays out a DocumentSpec and partitioned content as an
// ordered list of blocks: title page, table of contents, headed body and
// bibliography. Rendering the blocks to a file format is left to the
// caller.
package assemble

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/docforma/internal/docspec"
	"github.com/dgallion1/docforma/internal/partition"
)

// Kind is the type of a Block.
type Kind string

const (
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindPageBreak Kind = "page_break"
)

// Align is a paragraph alignment.
type Align string

const (
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignJustify Align = "both"
)

// Indents used by the layout, in twips.
const (
	indentAttribution = 5040 // 3.5"
	indentFirstLine   = 720  // 0.5"
	indentHanging     = 432  // 0.3"
)

// minParagraphRunes drops stray fragments such as lone numbers.
const minParagraphRunes = 10

// Block is one element of an assembled document. SizePt 0 means the
// document font size. Indents are in twips, spacing in points.
type Block struct {
	Kind            Kind   `json:"kind"`
	Text            string `json:"text,omitempty"`
	Align           Align  `json:"align,omitempty"`
	Bold            bool   `json:"bold,omitempty"`
	Italic          bool   `json:"italic,omitempty"`
	SizePt          int    `json:"size_pt,omitempty"`
	IndentLeft      int    `json:"indent_left,omitempty"`
	IndentFirstLine int    `json:"indent_first_line,omitempty"`
	IndentHanging   int    `json:"indent_hanging,omitempty"`
	SpaceAfterPt    int    `json:"space_after_pt,omitempty"`
}

// Document is the final layout: blocks in reading order plus the
// formatting applied to the whole document.
type Document struct {
	Blocks     []Block    `json:"blocks"`
	Formatting Formatting `json:"formatting"`
}

// Headings returns the text of every heading block in order.
func (d Document) Headings() []string {
	var out []string
	for _, b := range d.Blocks {
		if b.Kind == KindHeading {
			out = append(out, b.Text)
		}
	}
	return out
}

// Person is a student or teacher named on the title page.
type Person struct {
	FullName string `json:"full_name" yaml:"full_name"`
	Group    string `json:"group,omitempty" yaml:"group"`
}

// Extras carries the identity data that does not come from the guide. A
// nil Student or Teacher omits that block; Year 0 omits the year.
type Extras struct {
	WorkType string  `json:"work_type"`
	Subject  string  `json:"subject"`
	Topic    string  `json:"topic"`
	Student  *Person `json:"student,omitempty"`
	Teacher  *Person `json:"teacher,omitempty"`
	City     string  `json:"city,omitempty"`
	Year     int     `json:"year,omitempty"`
}

// Options configure an Assembler. Zero values select RussianLabels and
// DefaultFormatting.
type Options struct {
	Labels   Labels
	Fallback Formatting
}

// Assembler builds Documents. It holds no per-document state and is safe
// for concurrent use.
type Assembler struct {
	labels   Labels
	fallback Formatting
	log      *slog.Logger
}

// New creates an Assembler. A nil logger discards output.
func New(opts Options, log *slog.Logger) *Assembler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	fallback := opts.Fallback
	if fallback == (Formatting{}) {
		fallback = DefaultFormatting()
	}
	return &Assembler{
		labels:   opts.Labels.Complete(),
		fallback: fallback,
		log:      log,
	}
}

// Labels returns the label set in use.
func (a *Assembler) Labels() Labels {
	return a.labels
}

// Assemble lays out spec, sections and extras. Section 0 is the
// introduction, the last section the conclusion and the rest are chapters
// in order. It never fails: malformed formatting values fall back field
// by field.
func (a *Assembler) Assemble(spec docspec.DocumentSpec, sections []partition.Section, extras Extras) Document {
	l := &layout{labels: a.labels}
	l.titlePage(spec.Institution, extras)
	l.contents(spec.Structure)
	l.body(sections, spec.Structure.ChapterCount)
	l.bibliography()

	doc := Document{
		Blocks:     l.blocks,
		Formatting: resolveFormatting(spec.Formatting, a.fallback, a.log),
	}
	a.log.Debug("document assembled",
		"blocks", len(doc.Blocks),
		"sections", len(sections),
		"font", doc.Formatting.FontFamily,
		"font_size", doc.Formatting.FontSizePt)
	return doc
}

type layout struct {
	labels Labels
	blocks []Block
}

func (l *layout) add(b Block) {
	if b.Kind == "" {
		b.Kind = KindParagraph
	}
	l.blocks = append(l.blocks, b)
}

func (l *layout) heading(text string) {
	l.add(Block{Kind: KindHeading, Text: text, Align: AlignCenter, Bold: true, SpaceAfterPt: 12})
}

func (l *layout) pageBreak() {
	l.add(Block{Kind: KindPageBreak})
}

func (l *layout) titlePage(inst docspec.Institution, extras Extras) {
	lb := l.labels

	l.add(Block{Text: inst.Name, Align: AlignCenter, Bold: true, SizePt: 12})
	if inst.Address != "" {
		l.add(Block{Text: inst.Address, Align: AlignCenter, Italic: true, SizePt: 10})
	}
	l.add(Block{Text: inst.Faculty, Align: AlignCenter, Bold: true, SizePt: 12})
	l.add(Block{Text: inst.Department, Align: AlignCenter, Bold: true, SizePt: 12})
	l.add(Block{})

	l.add(Block{Text: lb.WorkType(extras.WorkType), Align: AlignCenter, Bold: true, SizePt: 16, SpaceAfterPt: 24})
	if extras.Subject != "" {
		l.add(Block{Text: fmt.Sprintf(lb.Subject, extras.Subject), Align: AlignCenter, Bold: true, SizePt: 14, SpaceAfterPt: 18})
	}
	if extras.Topic != "" {
		l.add(Block{Text: fmt.Sprintf(lb.Topic, extras.Topic), Align: AlignCenter, Bold: true, SizePt: 14, SpaceAfterPt: 36})
	}

	if s := extras.Student; s != nil {
		text := fmt.Sprintf(lb.Student, firstNonBlank(s.FullName, lb.DefaultStudent)) + "\n" +
			fmt.Sprintf(lb.Group, firstNonBlank(s.Group, lb.DefaultGroup))
		l.add(Block{Text: text, Align: AlignLeft, SizePt: 12, IndentLeft: indentAttribution, SpaceAfterPt: 18})
	}
	if t := extras.Teacher; t != nil {
		text := fmt.Sprintf(lb.Teacher, firstNonBlank(t.FullName, lb.DefaultTeacher))
		l.add(Block{Text: text, Align: AlignLeft, SizePt: 12, IndentLeft: indentAttribution, SpaceAfterPt: 36})
	}

	city := firstNonBlank(extras.City, cityFromAddress(inst.Address), lb.DefaultCity)
	if extras.Year > 0 {
		city += " " + strconv.Itoa(extras.Year)
	}
	l.add(Block{Text: city, Align: AlignCenter, SizePt: 12})
	l.pageBreak()
}

// contents lists the required sections, or a synthesized outline when the
// spec carries none.
func (l *layout) contents(st docspec.Structure) {
	lb := l.labels
	l.heading(lb.Contents)

	entries := st.RequiredSections
	if len(entries) == 0 {
		entries = []string{lb.TOCIntroduction}
		for i := 1; i <= max(st.ChapterCount, 1); i++ {
			entry := fmt.Sprintf(lb.TOCChapter, i)
			if title, ok := lb.ChapterTitle(i); ok {
				entry += ". " + title
			}
			entries = append(entries, entry)
		}
		entries = append(entries, lb.TOCConclusion, lb.TOCBibliography)
	}
	for _, e := range entries {
		l.add(Block{Text: e, SpaceAfterPt: 6})
	}
	l.pageBreak()
}

func (l *layout) body(sections []partition.Section, chapterCount int) {
	headings := l.labels.BodyHeadings(len(sections), chapterCount)
	for i, s := range sections {
		l.heading(headings[i])
		for _, p := range partition.Paragraphs(s.Text, minParagraphRunes) {
			l.add(Block{Text: p, Align: AlignJustify, IndentFirstLine: indentFirstLine, SpaceAfterPt: 6})
		}
	}
}

func (l *layout) bibliography() {
	l.pageBreak()
	l.heading(l.labels.Bibliography)
	for _, entry := range l.labels.BibliographyEntries {
		l.add(Block{Text: entry, IndentLeft: indentHanging, IndentHanging: indentHanging, SpaceAfterPt: 6})
	}
}

var cityRe = regexp.MustCompile(`(?:^|[\s,])г\.\s*([А-ЯЁ][а-яё]+(?:-[А-ЯЁа-яё][а-яё]+)*)`)

// cityFromAddress picks the city out of a Russian address ("г. Казань, ...").
func cityFromAddress(addr string) string {
	if m := cityRe.FindStringSubmatch(addr); m != nil {
		return m[1]
	}
	return ""
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
