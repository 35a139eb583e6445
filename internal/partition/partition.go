// Package partition splits generated content into exactly the number of
// sections a DocumentSpec demands.
package partition

import (
	"slices"
	"strings"
)

// Section is one contiguous span of content. Heading repeats the keyword
// line that opened the section, which also stays the first line of Text.
// It is empty for uniform splits and for a leading preamble.
type Section struct {
	Index   int    `json:"index"`
	Heading string `json:"heading,omitempty"`
	Text    string `json:"text"`
}

// Strategy names the strategy that produced a partition.
type Strategy string

const (
	StrategyKeyword Strategy = "keyword"
	StrategyUniform Strategy = "uniform"
)

// DefaultKeywords mark the start of a new section when found in a line.
var DefaultKeywords = []string{
	"введение", "глава", "заключение", "список литературы",
	"introduction", "chapter", "conclusion", "bibliography", "references",
}

// Partitioner splits content by structural keywords, falling back to a
// uniform word split when the keywords produce too few sections.
type Partitioner struct {
	Keywords []string
}

// Partition splits content into exactly n sections with DefaultKeywords.
func Partition(content string, n int) []Section {
	sections, _ := Partitioner{}.Split(content, n)
	return sections
}

// Split returns exactly max(n, 1) sections and the strategy that produced
// them.
//
// Keyword splits that overshoot n are folded: with n >= 3 the sections
// between the first n-2 and the final one are merged into the last
// chapter and the final section stays the conclusion; with n <= 2 all
// trailing sections are merged into the last one.
func (p Partitioner) Split(content string, n int) ([]Section, Strategy) {
	if n < 1 {
		n = 1
	}
	sections := p.byKeywords(content)
	if len(sections) < n {
		return uniform(content, n), StrategyUniform
	}
	return reindex(fold(sections, n)), StrategyKeyword
}

func (p Partitioner) keywords() []string {
	if len(p.Keywords) == 0 {
		return DefaultKeywords
	}
	out := make([]string, 0, len(p.Keywords))
	for _, kw := range p.Keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func isMarker(line string, keywords []string) bool {
	lower := strings.ToLower(line)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// byKeywords scans line by line. A marker line closes the current section
// and opens a new one that starts with the marker line itself; blank lines
// inside a section are kept so paragraph boundaries survive.
func (p Partitioner) byKeywords(content string) []Section {
	var (
		sections []Section
		heading  string
		lines    []string
	)
	keywords := p.keywords()
	flush := func() {
		text := strings.TrimSpace(strings.Join(lines, "\n"))
		if text != "" {
			sections = append(sections, Section{Heading: heading, Text: text})
		}
		lines = lines[:0]
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if trimmed := strings.TrimSpace(line); trimmed != "" && isMarker(trimmed, keywords) {
			flush()
			heading = trimmed
		}
		lines = append(lines, line)
	}
	flush()
	return sections
}

func fold(sections []Section, n int) []Section {
	k := len(sections)
	if k <= n {
		return sections
	}
	if n >= 3 {
		out := slices.Clone(sections[:n-2])
		out = append(out, merge(sections[n-2:k-1]), sections[k-1])
		return out
	}
	out := slices.Clone(sections[:n-1])
	return append(out, merge(sections[n-1:]))
}

// merge joins sections into the first one, keeping its heading. The
// absorbed sections start new paragraphs.
func merge(sections []Section) Section {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return Section{Heading: sections[0].Heading, Text: strings.Join(parts, "\n\n")}
}

// uniform divides the words of content into n contiguous runs of
// len/n words; the last run absorbs the remainder. With fewer words than
// sections, the leading sections get one word each and the rest are empty.
func uniform(content string, n int) []Section {
	words := strings.Fields(content)
	out := make([]Section, n)
	per := len(words) / n

	for i := range out {
		out[i].Index = i
		if per == 0 {
			if i < len(words) {
				out[i].Text = words[i]
			}
			continue
		}
		start, end := i*per, (i+1)*per
		if i == n-1 {
			end = len(words)
		}
		out[i].Text = strings.Join(words[start:end], " ")
	}
	return out
}

func reindex(sections []Section) []Section {
	for i := range sections {
		sections[i].Index = i
	}
	return sections
}
