package docspec

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor() *Extractor {
	return NewExtractor(StandardDefaults(), nil)
}

func assertComplete(t *testing.T, spec DocumentSpec) {
	t.Helper()
	for name, v := range map[string]string{
		"name":          spec.Institution.Name,
		"address":       spec.Institution.Address,
		"faculty":       spec.Institution.Faculty,
		"department":    spec.Institution.Department,
		"font_family":   spec.Formatting.FontFamily,
		"font_size":     spec.Formatting.FontSize,
		"line_spacing":  spec.Formatting.LineSpacing,
		"margin_left":   spec.Formatting.MarginLeft,
		"margin_right":  spec.Formatting.MarginRight,
		"margin_top":    spec.Formatting.MarginTop,
		"margin_bottom": spec.Formatting.MarginBottom,
	} {
		assert.NotEmpty(t, v, "field %s is empty", name)
	}
	assert.GreaterOrEqual(t, spec.Structure.ChapterCount, 1)
	assert.NotEmpty(t, spec.Structure.RequiredSections)
}

func TestExtract_AlwaysComplete(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", " \n\t\n "},
		{"latin noise", "lorem ipsum dolor sit amet"},
		{"punctuation", strings.Repeat("!?.", 500)},
		{"bare keywords", strings.Repeat("глава ", 200)},
		{"invalid bytes", "\x00\xff\xfe шрифт"},
		{"digits only", "1 2 3 4 5 6 7 8 9"},
	}
	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertComplete(t, e.Extract(tt.raw))
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	raw := "ФГБОУ ВО «Уральский федеральный университет». Структура: введение, глава 1, глава 2, заключение. Шрифт Arial, 12 пт."
	e := newTestExtractor()
	first := e.Extract(raw)
	second := e.Extract(raw)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("extract not idempotent (-first +second):\n%s", diff)
	}
}

func TestExtract_StructureRoundTrip(t *testing.T) {
	spec, report := newTestExtractor().ExtractWithReport("структура: введение, глава 1, глава 2, заключение, список литературы")

	assert.Equal(t, []string{"Введение", "Заключение", "Список литературы"}, spec.Structure.RequiredSections)
	assert.Equal(t, 2, spec.Structure.ChapterCount)
	assert.True(t, spec.Structure.HasIntroduction)
	assert.True(t, spec.Structure.HasConclusion)
	assert.True(t, spec.Structure.HasBibliography)
	assert.True(t, report.Recovered("structure.required_sections"))
	assert.True(t, report.Recovered("structure.chapter_count"))
	assert.Equal(t, "structure#0", report["structure.chapter_count"].Rule)
}

func TestExtract_StructureAppendix(t *testing.T) {
	raw := "Работа должна содержать введение, три главы, заключение, список литературы и приложения"
	spec := newTestExtractor().Extract(raw)
	assert.Equal(t, []string{"Введение", "Заключение", "Список литературы", "Приложения"}, spec.Structure.RequiredSections)
	// No numbered chapters in the window: count keeps its default.
	assert.Equal(t, 3, spec.Structure.ChapterCount)
}

func TestExtract_StructureWindowWithoutKeywordsFallsBack(t *testing.T) {
	spec, report := newTestExtractor().ExtractWithReport("глава 1 обзор источников, глава 2 анализ, глава 3 модель, глава 4 проект")

	assert.Equal(t, StandardDefaults().Sections, spec.Structure.RequiredSections)
	assert.Equal(t, 3, spec.Structure.ChapterCount)
	assert.False(t, report.Recovered("structure.required_sections"))
	assert.False(t, report.Recovered("structure.chapter_count"))
}

func TestExtract_NoStructureUsesDefaults(t *testing.T) {
	spec, report := newTestExtractor().ExtractWithReport("Требования к оформлению отсутствуют")

	assert.Equal(t, []string{"Введение", "Основная часть", "Заключение", "Список литературы"}, spec.Structure.RequiredSections)
	assert.Equal(t, 3, spec.Structure.ChapterCount)
	assert.Equal(t, Defaulted, report["structure.required_sections"].Source)
}

func TestExtract_NoInstitutionEvidenceEqualsDefaults(t *testing.T) {
	spec, report := newTestExtractor().ExtractWithReport("Текст набирается шрифтом Times New Roman 14 пт с полуторным интервалом")

	want := Institution{
		Name:       "Федеральное государственное автономное образовательное учреждение высшего образования",
		Address:    "г. Москва, ул. Примерная, д. 123",
		Faculty:    "Факультет информационных технологий",
		Department: "Кафедра информатики и вычислительной техники",
	}
	if diff := cmp.Diff(want, spec.Institution); diff != "" {
		t.Fatalf("institution mismatch (-want +got):\n%s", diff)
	}
	for _, f := range []string{"institution.name", "institution.address", "institution.faculty", "institution.department"} {
		assert.Equal(t, Defaulted, report[f].Source, f)
	}
}

func TestExtract_InstitutionRecovered(t *testing.T) {
	raw := strings.Join([]string{
		"Министерство науки и высшего образования Российской Федерации",
		"ФГБОУ ВО «Московский государственный технический университет»",
		"Факультет информатики и систем управления",
		"Кафедра программного обеспечения ЭВМ",
		"Адрес: 105005, г. Москва, ул. Бауманская, д. 5",
	}, "\n")
	spec, report := newTestExtractor().ExtractWithReport(raw)

	assert.Equal(t, "ФГБОУ ВО «Московский государственный технический университет", spec.Institution.Name)
	assert.Equal(t, "Факультет информатики и систем управления", spec.Institution.Faculty)
	assert.Equal(t, "Кафедра программного обеспечения ЭВМ", spec.Institution.Department)
	assert.Equal(t, "105005, г. Москва, ул. Бауманская, д. 5", spec.Institution.Address)
	assert.Equal(t, "institution.name#0", report["institution.name"].Rule)
	for _, f := range []string{"institution.name", "institution.address", "institution.faculty", "institution.department"} {
		assert.True(t, report.Recovered(f), f)
	}
}

func TestExtract_FormattingRecovered(t *testing.T) {
	raw := "Шрифт Times New Roman, 14, межстрочный интервал 1,5. Поля: левое – 30 мм, правое – 10 мм, верхнее и нижнее – 20 мм."
	spec, report := newTestExtractor().ExtractWithReport(raw)

	want := Formatting{
		FontFamily:   "Times New Roman",
		FontSize:     "14",
		LineSpacing:  "1,5",
		MarginLeft:   "30 мм",
		MarginRight:  "10 мм",
		MarginTop:    "20 мм",
		MarginBottom: "20 мм",
	}
	if diff := cmp.Diff(want, spec.Formatting); diff != "" {
		t.Fatalf("formatting mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "formatting.font_size#2", report["formatting.font_size"].Rule)
}

func TestExtract_FormattingIndependentDefaults(t *testing.T) {
	spec, report := newTestExtractor().ExtractWithReport("Межстрочный интервал – одинарный.")

	assert.Equal(t, "одинарный", spec.Formatting.LineSpacing)
	assert.True(t, report.Recovered("formatting.line_spacing"))
	assert.Equal(t, "Times New Roman", spec.Formatting.FontFamily)
	assert.Equal(t, "14", spec.Formatting.FontSize)
	assert.Equal(t, "3", spec.Formatting.MarginLeft)
	assert.Equal(t, "1", spec.Formatting.MarginRight)
	assert.Equal(t, "2", spec.Formatting.MarginTop)
	assert.Equal(t, "2", spec.Formatting.MarginBottom)
	assert.False(t, report.Recovered("formatting.margin_left"))
}

func TestExtract_EnglishGuide(t *testing.T) {
	defaults := StandardDefaults()
	defaults.SectionNames = SectionNames{
		Introduction: "Introduction",
		MainBody:     "Main Body",
		Conclusion:   "Conclusion",
		Bibliography: "Bibliography",
		Appendix:     "Appendix",
	}
	defaults.Sections = nil
	e := NewExtractor(defaults, nil)

	raw := "The paper must contain an introduction, chapter 1, chapter 2, chapter 3, chapter 4, a conclusion and references. Font size: 12. Line spacing: double. Margin-left: 2.5 cm"
	spec := e.Extract(raw)

	assert.Equal(t, []string{"Introduction", "Conclusion", "Bibliography"}, spec.Structure.RequiredSections)
	assert.Equal(t, 4, spec.Structure.ChapterCount)
	assert.Equal(t, "12", spec.Formatting.FontSize)
	assert.Equal(t, "double", spec.Formatting.LineSpacing)
	assert.Equal(t, "2.5 cm", spec.Formatting.MarginLeft)
}

func TestNewExtractor_PartialDefaultsAreCompleted(t *testing.T) {
	e := NewExtractor(Defaults{Institution: Institution{Name: "Test University"}}, nil)
	spec := e.Extract("")

	assert.Equal(t, "Test University", spec.Institution.Name)
	assert.Equal(t, StandardDefaults().Institution.Faculty, spec.Institution.Faculty)
	assert.Equal(t, 3, spec.Structure.ChapterCount)
	assertComplete(t, spec)
}

func TestDefaults_SpecDoesNotAliasSections(t *testing.T) {
	d := StandardDefaults()
	spec := d.Spec()
	require.NotEmpty(t, spec.Structure.RequiredSections)
	spec.Structure.RequiredSections[0] = "changed"
	assert.Equal(t, "Введение", d.Sections[0])
}

func TestExtract_FontNameTitleCased(t *testing.T) {
	spec := newTestExtractor().Extract("основной шрифт – times new roman")
	assert.Equal(t, "Times New Roman", spec.Formatting.FontFamily)
}
