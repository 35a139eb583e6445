package docspec

import (
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// field binds an ordered rule list to the spec field it fills.
type field struct {
	path  string
	rules []Rule[string]
	dst   func(*DocumentSpec) *string
	def   func(Defaults) string
	clean func(string) string
}

// fields are evaluated independently; the order here is only the order of
// log output.
var fields = []field{
	{"institution.name", nameRules,
		func(s *DocumentSpec) *string { return &s.Institution.Name },
		func(d Defaults) string { return d.Institution.Name }, nil},
	{"institution.address", addressRules,
		func(s *DocumentSpec) *string { return &s.Institution.Address },
		func(d Defaults) string { return d.Institution.Address }, nil},
	{"institution.faculty", facultyRules,
		func(s *DocumentSpec) *string { return &s.Institution.Faculty },
		func(d Defaults) string { return d.Institution.Faculty }, nil},
	{"institution.department", departmentRules,
		func(s *DocumentSpec) *string { return &s.Institution.Department },
		func(d Defaults) string { return d.Institution.Department }, nil},
	{"formatting.font_family", fontFamilyRules,
		func(s *DocumentSpec) *string { return &s.Formatting.FontFamily },
		func(d Defaults) string { return d.Formatting.FontFamily },
		fontName},
	{"formatting.font_size", fontSizeRules,
		func(s *DocumentSpec) *string { return &s.Formatting.FontSize },
		func(d Defaults) string { return d.Formatting.FontSize }, nil},
	{"formatting.line_spacing", lineSpacingRules,
		func(s *DocumentSpec) *string { return &s.Formatting.LineSpacing },
		func(d Defaults) string { return d.Formatting.LineSpacing }, nil},
	{"formatting.margin_left", marginLeftRules,
		func(s *DocumentSpec) *string { return &s.Formatting.MarginLeft },
		func(d Defaults) string { return d.Formatting.MarginLeft }, nil},
	{"formatting.margin_right", marginRightRules,
		func(s *DocumentSpec) *string { return &s.Formatting.MarginRight },
		func(d Defaults) string { return d.Formatting.MarginRight }, nil},
	{"formatting.margin_top", marginTopRules,
		func(s *DocumentSpec) *string { return &s.Formatting.MarginTop },
		func(d Defaults) string { return d.Formatting.MarginTop }, nil},
	{"formatting.margin_bottom", marginBottomRules,
		func(s *DocumentSpec) *string { return &s.Formatting.MarginBottom },
		func(d Defaults) string { return d.Formatting.MarginBottom }, nil},
}

var chapterMarker = regexp.MustCompile(chapterMarkerExpr)

// Extractor turns normalized guide text into a DocumentSpec. It holds no
// mutable state and is safe for concurrent use.
type Extractor struct {
	defaults Defaults
	log      *slog.Logger
}

// NewExtractor returns an Extractor that substitutes values from defaults.
// Zero fields of defaults are filled from StandardDefaults.
func NewExtractor(defaults Defaults, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Extractor{defaults: defaults.Complete(), log: log}
}

// Defaults returns the completed defaults in use.
func (e *Extractor) Defaults() Defaults {
	return e.defaults
}

// Extract always returns a fully populated spec.
func (e *Extractor) Extract(raw string) DocumentSpec {
	spec, _ := e.ExtractWithReport(raw)
	return spec
}

// ExtractWithReport is Extract plus the provenance of every field.
func (e *Extractor) ExtractWithReport(raw string) (DocumentSpec, Report) {
	var spec DocumentSpec
	report := make(Report, len(fields)+2)

	for _, f := range fields {
		dst := f.dst(&spec)
		if v, idx, ok := FirstMatch(raw, f.rules); ok {
			if f.clean != nil {
				v = f.clean(v)
			}
			*dst = v
			report[f.path] = Provenance{Source: Recovered, Rule: f.rules[idx].Name}
			continue
		}
		*dst = f.def(e.defaults)
		report[f.path] = Provenance{Source: Defaulted}
	}

	spec.Structure = e.extractStructure(raw, report)

	e.log.Debug("spec extracted",
		"recovered", report.Count(Recovered),
		"defaulted", report.Count(Defaulted),
		"chapters", spec.Structure.ChapterCount,
	)
	return spec, report
}

func (e *Extractor) extractStructure(raw string, report Report) Structure {
	d := e.defaults
	fallback := func() Structure {
		report["structure.required_sections"] = Provenance{Source: Defaulted}
		report["structure.chapter_count"] = Provenance{Source: Defaulted}
		return d.structure(slices.Clone(d.Sections), d.ChapterCount)
	}

	window, idx, ok := FirstMatch(raw, structureRules)
	if !ok {
		return fallback()
	}

	var sections []string
	lower := strings.ToLower(window)
	for _, kw := range sectionKeywords {
		if containsAny(lower, kw.stems) {
			sections = append(sections, kw.name(d.SectionNames))
		}
	}
	if len(sections) == 0 {
		e.log.Debug("structure window without section keywords", "rule", structureRules[idx].Name)
		return fallback()
	}

	rule := structureRules[idx].Name
	report["structure.required_sections"] = Provenance{Source: Recovered, Rule: rule}

	chapters := d.ChapterCount
	if n := len(chapterMarker.FindAllStringIndex(window, -1)); n > 0 {
		chapters = n
		report["structure.chapter_count"] = Provenance{Source: Recovered, Rule: rule}
	} else {
		report["structure.chapter_count"] = Provenance{Source: Defaulted}
	}
	return d.structure(sections, chapters)
}

// fontName title-cases a family written entirely in lower case
// ("times new roman" -> "Times New Roman").
func fontName(v string) string {
	if strings.ToLower(v) != v {
		return v
	}
	return cases.Title(language.Und).String(v)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
