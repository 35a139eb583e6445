package generate

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docforma/internal/partition"
)

// DefaultCliches maps stock academic phrases to less formulaic ones.
func DefaultCliches() map[string]string {
	return map[string]string{
		"в данной работе":                 "в исследовании",
		"актуальность темы заключается":   "значимость изучения обусловлена",
		"целью работы является":           "основной целью выступает",
		"задачами работы являются":        "ключевыми задачами исследования определены",
		"объектом исследования является":  "в качестве объекта изучения рассматривается",
		"предметом исследования является": "предметная область охватывает",
		"во введении":                     "в начальном разделе",
		"в заключении":                    "в завершающей части",
		"было выявлено":                   "установлено",
		"можно сделать вывод":             "следует заключить",
	}
}

// dedupWords is how many leading words identify a repeated sentence.
const dedupWords = 8

type replacement struct {
	re   *regexp.Regexp
	with string
}

// Polisher cleans generated text: it drops repeated sentences, strips
// stray Markdown and rewrites stock phrases.
type Polisher struct {
	replacements []replacement
}

// NewPolisher compiles cliches into case-insensitive whole-phrase
// replacements. Longer phrases are tried first.
func NewPolisher(cliches map[string]string) *Polisher {
	phrases := make([]string, 0, len(cliches))
	for k := range cliches {
		phrases = append(phrases, k)
	}
	slices.SortFunc(phrases, func(a, b string) int {
		if d := utf8.RuneCountInString(b) - utf8.RuneCountInString(a); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})

	p := &Polisher{}
	for _, phrase := range phrases {
		// RE2 word boundaries are ASCII-only, so letters are checked
		// explicitly.
		expr := `(?i)(^|[^\p{L}\p{N}])(` + regexp.QuoteMeta(phrase) + `)($|[^\p{L}\p{N}])`
		p.replacements = append(p.replacements, replacement{
			re:   regexp.MustCompile(expr),
			with: cliches[phrase],
		})
	}
	return p
}

var markdownMarks = strings.NewReplacer("**", "", "__", "")

// Polish keeps paragraph boundaries; within each paragraph it drops
// sentences whose first words repeat an earlier sentence.
func (p *Polisher) Polish(text string) string {
	return p.PolishAll([]string{text})[0]
}

// PolishAll polishes several texts with one shared record of seen
// sentences, so a repeat across sections is dropped too.
func (p *Polisher) PolishAll(texts []string) []string {
	seen := make(map[string]bool)
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = p.polish(text, seen)
	}
	return out
}

func (p *Polisher) polish(text string, seen map[string]bool) string {
	var out []string
	for _, para := range partition.Paragraphs(text, 0) {
		para = strings.TrimLeft(markdownMarks.Replace(para), "# ")
		var kept []string
		for _, s := range partition.Sentences(para) {
			key := sentenceKey(s)
			if key != "" && seen[key] {
				continue
			}
			seen[key] = true
			kept = append(kept, p.replace(s))
		}
		if len(kept) > 0 {
			out = append(out, strings.Join(kept, " "))
		}
	}
	return strings.Join(out, "\n\n")
}

func (p *Polisher) replace(s string) string {
	for _, r := range p.replacements {
		s = r.re.ReplaceAllStringFunc(s, func(m string) string {
			sub := r.re.FindStringSubmatch(m)
			return sub[1] + matchCase(sub[2], r.with) + sub[3]
		})
	}
	return s
}

// matchCase capitalizes repl when the original phrase started with an
// upper-case letter.
func matchCase(orig, repl string) string {
	first, _ := utf8.DecodeRuneInString(orig)
	if !unicode.IsUpper(first) {
		return repl
	}
	r, size := utf8.DecodeRuneInString(repl)
	return string(unicode.ToUpper(r)) + repl[size:]
}

func sentenceKey(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(words) > dedupWords {
		words = words[:dedupWords]
	}
	return strings.Join(words, " ")
}
