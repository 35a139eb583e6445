package generate

import (
	"fmt"
	"strings"
)

// Work describes the paper being written.
type Work struct {
	WorkType string
	Subject  string
	Topic    string
	// Structure lists the sections the guide requires; empty selects the
	// standard outline.
	Structure []string
}

// Section is one unit of generation: the heading it will appear under and
// its share of the total word target.
type Section struct {
	Index   int
	Heading string
	Words   int
}

var workTypeGenitive = map[string]string{
	"coursework": "курсовой работы",
	"essay":      "реферата",
	"thesis":     "дипломной работы",
}

// WorkTypeName returns the genitive Russian name used in prompts.
func WorkTypeName(workType string) string {
	if name, ok := workTypeGenitive[workType]; ok {
		return name
	}
	return "академической работы"
}

// TargetWords is the total length asked of the model for a work type.
func TargetWords(workType string) int {
	switch workType {
	case "essay":
		return 4000
	case "coursework":
		return 8000
	case "thesis":
		return 15000
	}
	return 6000
}

// Plan spreads the work type's word target over headings. The first and
// last headings (introduction and conclusion) weigh half as much as each
// chapter.
func Plan(workType string, headings []string) []Section {
	n := len(headings)
	if n == 0 {
		return nil
	}
	weights := make([]int, n)
	total := 0
	for i := range headings {
		weights[i] = 2
		if n > 2 && (i == 0 || i == n-1) {
			weights[i] = 1
		}
		total += weights[i]
	}

	target := TargetWords(workType)
	plan := make([]Section, n)
	for i, h := range headings {
		plan[i] = Section{Index: i, Heading: h, Words: target * weights[i] / total}
	}
	return plan
}

// SystemPrompt sets the style rules shared by every section of a work.
func SystemPrompt(w Work) string {
	var structure string
	if len(w.Structure) > 0 {
		structure = "СТРУКТУРА ИЗ МЕТОДИЧКИ:\n- " + strings.Join(w.Structure, "\n- ")
	} else {
		structure = "СТАНДАРТНАЯ СТРУКТУРА:\n- Введение\n- 3 главы основной части\n- Заключение\n- Список литературы"
	}

	return fmt.Sprintf(`Ты - опытный академический писатель. Создай уникальную, грамотную и научно обоснованную работу.

%s

ТЕМА: %s
ПРЕДМЕТ: %s
ТИП РАБОТЫ: %s

КЛЮЧЕВЫЕ ТРЕБОВАНИЯ:
1. Уникальность: избегай шаблонных фраз, клише и повторений
2. Грамматика: безупречная грамматика, пунктуация и стиль
3. Научность: используй точную терминологию предметной области
4. Структура: четкая логическая последовательность изложения

ЗАПРЕЩЕНО:
- Шаблонные фразы вроде "В данной работе", "Актуальность темы заключается"
- Повторять одни и те же мысли
- Разметка Markdown, списки и заголовки внутри текста

СТИЛЬ: академический, но естественный.`,
		structure, w.Topic, w.Subject, WorkTypeName(w.WorkType))
}

// SectionPrompt asks for the body of one section. The heading itself is
// added by the caller.
func SectionPrompt(w Work, s Section) string {
	return fmt.Sprintf(
		"Напиши текст раздела «%s» %s на тему «%s» по дисциплине «%s». "+
			"Объем около %d слов. Не повторяй заголовок раздела, пиши связный текст, "+
			"абзацы разделяй пустой строкой.",
		s.Heading, WorkTypeName(w.WorkType), w.Topic, w.Subject, s.Words)
}
