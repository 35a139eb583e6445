// Package quality scores generated text with cheap lexical heuristics.
package quality

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Report is the quality summary stored with a generated work. Scores are
// percentages in [0, 100].
type Report struct {
	WordCount     int     `json:"word_count"`
	SentenceCount int     `json:"sentence_count"`
	Uniqueness    float64 `json:"uniqueness"`
	Grammar       float64 `json:"grammar"`
	AcademicLevel float64 `json:"academic_level"`
	GrammarIssues int     `json:"grammar_issues"`
}

const (
	// A word repeated more often than this counts against uniqueness.
	commonWordLimit = 5
	// Words longer than this many runes count as academic vocabulary.
	academicWordRunes = 8
)

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// Analyze computes a Report for text.
func Analyze(text string) Report {
	words := strings.Fields(text)
	var sentences []string
	for _, s := range sentenceEnd.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences = append(sentences, s)
		}
	}

	r := Report{WordCount: len(words), SentenceCount: len(sentences)}
	if len(words) == 0 {
		r.Grammar = 100
		return r
	}

	freq := make(map[string]int, len(words))
	for _, w := range words {
		freq[w]++
	}
	common, academic := 0, 0
	for _, n := range freq {
		if n > commonWordLimit {
			common += n
		}
	}
	for _, w := range words {
		if utf8.RuneCountInString(w) > academicWordRunes {
			academic++
		}
	}
	r.Uniqueness = 100 - percent(common, len(words))
	r.AcademicLevel = percent(academic, len(words))

	r.GrammarIssues = grammarIssues(text, sentences)
	r.Grammar = 100
	if len(sentences) > 0 {
		r.Grammar = max(0, 100-percent(r.GrammarIssues, len(sentences)))
	}
	return r
}

func percent(part, whole int) float64 {
	return float64(part) / float64(whole) * 100
}

// grammarIssues counts a lower-case letter directly followed by an
// upper-case one inside a word, plus adjacent sentences that share more
// than three of their first ten words.
func grammarIssues(text string, sentences []string) int {
	issues := 0
	var prev rune
	for _, r := range text {
		if unicode.IsLower(prev) && unicode.IsUpper(r) {
			issues++
		}
		prev = r
	}

	for i := 1; i < len(sentences); i++ {
		cur := strings.Fields(strings.ToLower(sentences[i]))
		if len(cur) <= 5 {
			continue
		}
		if overlap(firstN(strings.Fields(strings.ToLower(sentences[i-1])), 10), firstN(cur, 10)) > 3 {
			issues++
		}
	}
	return issues
}

func firstN(words []string, n int) []string {
	if len(words) > n {
		return words[:n]
	}
	return words
}

func overlap(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, w := range a {
		set[w] = true
	}
	n := 0
	for _, w := range b {
		if set[w] {
			n++
			delete(set, w)
		}
	}
	return n
}
