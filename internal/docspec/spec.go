// Package docspec recovers a DocumentSpec (institution identity, required
// structure and formatting rules) from the plain text of a methodic guide.
package docspec

import "slices"

// Institution identifies the university the work is written for.
type Institution struct {
	Name       string `json:"name" yaml:"name"`
	Address    string `json:"address" yaml:"address"`
	Faculty    string `json:"faculty" yaml:"faculty"`
	Department string `json:"department" yaml:"department"`
}

// Structure describes which sections the work must contain.
type Structure struct {
	RequiredSections []string `json:"required_sections" yaml:"required_sections"`
	ChapterCount     int      `json:"chapter_count" yaml:"chapter_count"`
	HasIntroduction  bool     `json:"has_introduction" yaml:"has_introduction"`
	HasConclusion    bool     `json:"has_conclusion" yaml:"has_conclusion"`
	HasBibliography  bool     `json:"has_bibliography" yaml:"has_bibliography"`
}

// Formatting holds page and font rules as they were written in the guide
// ("14", "1,5", "полуторный", "30 мм"). Interpreting them is up to the
// assembler.
type Formatting struct {
	FontFamily   string `json:"font_family" yaml:"font_family"`
	FontSize     string `json:"font_size" yaml:"font_size"`
	LineSpacing  string `json:"line_spacing" yaml:"line_spacing"`
	MarginLeft   string `json:"margin_left" yaml:"margin_left"`
	MarginRight  string `json:"margin_right" yaml:"margin_right"`
	MarginTop    string `json:"margin_top" yaml:"margin_top"`
	MarginBottom string `json:"margin_bottom" yaml:"margin_bottom"`
}

// DocumentSpec is the fully resolved set of requirements. Every field is
// populated: values missing from the guide are replaced by Defaults.
type DocumentSpec struct {
	Institution Institution `json:"institution" yaml:"institution"`
	Structure   Structure   `json:"structure" yaml:"structure"`
	Formatting  Formatting  `json:"formatting" yaml:"formatting"`
}

// SectionNames are the canonical names appended to RequiredSections when
// the matching keyword is found in a structure window.
type SectionNames struct {
	Introduction string `yaml:"introduction"`
	MainBody     string `yaml:"main_body"`
	Conclusion   string `yaml:"conclusion"`
	Bibliography string `yaml:"bibliography"`
	Appendix     string `yaml:"appendix"`
}

// Defaults are substituted for every field the guide does not mention.
type Defaults struct {
	Institution  Institution  `yaml:"institution"`
	Sections     []string     `yaml:"sections"`
	ChapterCount int          `yaml:"chapter_count"`
	Formatting   Formatting   `yaml:"formatting"`
	SectionNames SectionNames `yaml:"section_names"`
}

// StandardDefaults returns the defaults used when no profile is configured.
func StandardDefaults() Defaults {
	names := SectionNames{
		Introduction: "Введение",
		MainBody:     "Основная часть",
		Conclusion:   "Заключение",
		Bibliography: "Список литературы",
		Appendix:     "Приложения",
	}
	return Defaults{
		Institution: Institution{
			Name:       "Федеральное государственное автономное образовательное учреждение высшего образования",
			Address:    "г. Москва, ул. Примерная, д. 123",
			Faculty:    "Факультет информационных технологий",
			Department: "Кафедра информатики и вычислительной техники",
		},
		Sections:     []string{names.Introduction, names.MainBody, names.Conclusion, names.Bibliography},
		ChapterCount: 3,
		Formatting: Formatting{
			FontFamily:   "Times New Roman",
			FontSize:     "14",
			LineSpacing:  "1.5",
			MarginLeft:   "3",
			MarginRight:  "1",
			MarginTop:    "2",
			MarginBottom: "2",
		},
		SectionNames: names,
	}
}

// EnglishDefaults are the defaults of an English-language profile.
func EnglishDefaults() Defaults {
	names := SectionNames{
		Introduction: "Introduction",
		MainBody:     "Main Body",
		Conclusion:   "Conclusion",
		Bibliography: "Bibliography",
		Appendix:     "Appendices",
	}
	return Defaults{
		Institution: Institution{
			Name:       "State University",
			Address:    "123 Example Street, Springfield",
			Faculty:    "Faculty of Information Technology",
			Department: "Department of Computer Science",
		},
		Sections:     []string{names.Introduction, names.MainBody, names.Conclusion, names.Bibliography},
		ChapterCount: 3,
		Formatting: Formatting{
			FontFamily:   "Times New Roman",
			FontSize:     "12",
			LineSpacing:  "2",
			MarginLeft:   "2.5",
			MarginRight:  "2.5",
			MarginTop:    "2.5",
			MarginBottom: "2.5",
		},
		SectionNames: names,
	}
}

// DefaultsFor returns EnglishDefaults for "en" and StandardDefaults otherwise.
func DefaultsFor(lang string) Defaults {
	if lang == "en" {
		return EnglishDefaults()
	}
	return StandardDefaults()
}

// Complete fills every zero field of d from StandardDefaults, so a partial
// profile still yields fully populated specs.
func (d Defaults) Complete() Defaults {
	std := StandardDefaults()
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&d.Institution.Name, std.Institution.Name)
	fill(&d.Institution.Address, std.Institution.Address)
	fill(&d.Institution.Faculty, std.Institution.Faculty)
	fill(&d.Institution.Department, std.Institution.Department)

	fill(&d.Formatting.FontFamily, std.Formatting.FontFamily)
	fill(&d.Formatting.FontSize, std.Formatting.FontSize)
	fill(&d.Formatting.LineSpacing, std.Formatting.LineSpacing)
	fill(&d.Formatting.MarginLeft, std.Formatting.MarginLeft)
	fill(&d.Formatting.MarginRight, std.Formatting.MarginRight)
	fill(&d.Formatting.MarginTop, std.Formatting.MarginTop)
	fill(&d.Formatting.MarginBottom, std.Formatting.MarginBottom)

	fill(&d.SectionNames.Introduction, std.SectionNames.Introduction)
	fill(&d.SectionNames.MainBody, std.SectionNames.MainBody)
	fill(&d.SectionNames.Conclusion, std.SectionNames.Conclusion)
	fill(&d.SectionNames.Bibliography, std.SectionNames.Bibliography)
	fill(&d.SectionNames.Appendix, std.SectionNames.Appendix)

	if len(d.Sections) == 0 {
		d.Sections = []string{
			d.SectionNames.Introduction,
			d.SectionNames.MainBody,
			d.SectionNames.Conclusion,
			d.SectionNames.Bibliography,
		}
	}
	if d.ChapterCount < 1 {
		d.ChapterCount = std.ChapterCount
	}
	return d
}

// Spec returns the spec made only of defaults.
func (d Defaults) Spec() DocumentSpec {
	d = d.Complete()
	return DocumentSpec{
		Institution: d.Institution,
		Structure:   d.structure(slices.Clone(d.Sections), d.ChapterCount),
		Formatting:  d.Formatting,
	}
}

func (d Defaults) structure(sections []string, chapters int) Structure {
	return Structure{
		RequiredSections: sections,
		ChapterCount:     chapters,
		HasIntroduction:  slices.Contains(sections, d.SectionNames.Introduction),
		HasConclusion:    slices.Contains(sections, d.SectionNames.Conclusion),
		HasBibliography:  slices.Contains(sections, d.SectionNames.Bibliography),
	}
}
