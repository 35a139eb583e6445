package assemble

import "fmt"

// Labels are the fixed strings the assembler writes around generated
// content. Format strings take the values named in the field comment.
type Labels struct {
	Contents     string `yaml:"contents"`
	Introduction string `yaml:"introduction"`
	Chapter      string `yaml:"chapter"` // chapter number
	Conclusion   string `yaml:"conclusion"`
	Bibliography string `yaml:"bibliography"`

	TOCIntroduction string `yaml:"toc_introduction"`
	TOCChapter      string `yaml:"toc_chapter"` // chapter number
	TOCConclusion   string `yaml:"toc_conclusion"`
	TOCBibliography string `yaml:"toc_bibliography"`

	WorkTypes        map[string]string `yaml:"work_types"`
	WorkTypeFallback string            `yaml:"work_type_fallback"`

	Subject        string `yaml:"subject"`  // subject
	Topic          string `yaml:"topic"`    // topic
	Student        string `yaml:"student"`  // full name
	Group          string `yaml:"group"`    // group
	Teacher        string `yaml:"teacher"`  // full name
	DefaultStudent string `yaml:"default_student"`
	DefaultGroup   string `yaml:"default_group"`
	DefaultTeacher string `yaml:"default_teacher"`
	DefaultCity    string `yaml:"default_city"`

	// ChapterTitles[i] names chapter i+1. Chapters past the end get the
	// bare Chapter label.
	ChapterTitles []string `yaml:"chapter_titles"`

	BibliographyEntries []string `yaml:"bibliography_entries"`
}

// RussianLabels returns the labels of a Russian academic work.
func RussianLabels() Labels {
	return Labels{
		Contents:     "СОДЕРЖАНИЕ",
		Introduction: "ВВЕДЕНИЕ",
		Chapter:      "ГЛАВА %d",
		Conclusion:   "ЗАКЛЮЧЕНИЕ",
		Bibliography: "СПИСОК ЛИТЕРАТУРЫ",

		TOCIntroduction: "Введение",
		TOCChapter:      "Глава %d",
		TOCConclusion:   "Заключение",
		TOCBibliography: "Список литературы",

		WorkTypes: map[string]string{
			"coursework": "КУРСОВАЯ РАБОТА",
			"essay":      "РЕФЕРАТ",
			"thesis":     "ДИПЛОМНАЯ РАБОТА",
		},
		WorkTypeFallback: "АКАДЕМИЧЕСКАЯ РАБОТА",

		Subject:        "по дисциплине: %s",
		Topic:          "на тему: \"%s\"",
		Student:        "Выполнил(а): %s",
		Group:          "Группа: %s",
		Teacher:        "Проверил(а): %s",
		DefaultStudent: "Студент",
		DefaultGroup:   "Не указана",
		DefaultTeacher: "Преподаватель",
		DefaultCity:    "Москва",

		ChapterTitles: []string{
			"Теоретические основы исследования",
			"Практическое исследование",
			"Анализ и выводы",
			"Результаты и рекомендации",
			"Перспективы развития",
		},

		BibliographyEntries: []string{
			"1. Иванов А.В. Современные проблемы информатики. - М.: Наука, 2020. - 345 с.",
			"2. Петров С.К. Методы исследования в информационных системах // Вестник университета. - 2021. - №3. - С. 45-52.",
			"3. Сидоров Д.М. Анализ данных и принятие решений. - СПб.: Питер, 2019. - 278 с.",
			"4. Козлова Е.Н. Информационные технологии в образовании. - М.: Высшая школа, 2022. - 412 с.",
			"5. Николаев П.С. Современные подходы к проектированию систем // Информационные системы. - 2020. - №2. - С. 23-30.",
		},
	}
}

// EnglishLabels returns the labels of an English-language work.
func EnglishLabels() Labels {
	return Labels{
		Contents:     "CONTENTS",
		Introduction: "INTRODUCTION",
		Chapter:      "CHAPTER %d",
		Conclusion:   "CONCLUSION",
		Bibliography: "BIBLIOGRAPHY",

		TOCIntroduction: "Introduction",
		TOCChapter:      "Chapter %d",
		TOCConclusion:   "Conclusion",
		TOCBibliography: "Bibliography",

		WorkTypes: map[string]string{
			"coursework": "COURSEWORK",
			"essay":      "ESSAY",
			"thesis":     "THESIS",
		},
		WorkTypeFallback: "ACADEMIC PAPER",

		Subject:        "Course: %s",
		Topic:          "Topic: \"%s\"",
		Student:        "Submitted by: %s",
		Group:          "Group: %s",
		Teacher:        "Supervisor: %s",
		DefaultStudent: "Student",
		DefaultGroup:   "Not specified",
		DefaultTeacher: "Supervisor",
		DefaultCity:    "Moscow",

		ChapterTitles: []string{
			"Theoretical foundations",
			"Practical study",
			"Analysis and conclusions",
			"Results and recommendations",
			"Future prospects",
		},

		BibliographyEntries: []string{
			"1. Ivanov A.V. Modern Problems of Computer Science. Moscow: Nauka, 2020. 345 p.",
			"2. Petrov S.K. Research Methods in Information Systems. University Bulletin, 2021, no. 3, pp. 45-52.",
			"3. Sidorov D.M. Data Analysis and Decision Making. St. Petersburg: Piter, 2019. 278 p.",
			"4. Kozlova E.N. Information Technology in Education. Moscow: Vysshaya Shkola, 2022. 412 p.",
			"5. Nikolaev P.S. Modern Approaches to System Design. Information Systems, 2020, no. 2, pp. 23-30.",
		},
	}
}

// LabelsFor returns the label set for a language tag; anything other than
// "en" yields RussianLabels.
func LabelsFor(lang string) Labels {
	if lang == "en" {
		return EnglishLabels()
	}
	return RussianLabels()
}

// Complete fills every zero field of l from RussianLabels.
func (l Labels) Complete() Labels {
	std := RussianLabels()
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&l.Contents, std.Contents)
	fill(&l.Introduction, std.Introduction)
	fill(&l.Chapter, std.Chapter)
	fill(&l.Conclusion, std.Conclusion)
	fill(&l.Bibliography, std.Bibliography)
	fill(&l.TOCIntroduction, std.TOCIntroduction)
	fill(&l.TOCChapter, std.TOCChapter)
	fill(&l.TOCConclusion, std.TOCConclusion)
	fill(&l.TOCBibliography, std.TOCBibliography)
	fill(&l.WorkTypeFallback, std.WorkTypeFallback)
	fill(&l.Subject, std.Subject)
	fill(&l.Topic, std.Topic)
	fill(&l.Student, std.Student)
	fill(&l.Group, std.Group)
	fill(&l.Teacher, std.Teacher)
	fill(&l.DefaultStudent, std.DefaultStudent)
	fill(&l.DefaultGroup, std.DefaultGroup)
	fill(&l.DefaultTeacher, std.DefaultTeacher)
	fill(&l.DefaultCity, std.DefaultCity)

	if l.WorkTypes == nil {
		l.WorkTypes = std.WorkTypes
	}
	if l.ChapterTitles == nil {
		l.ChapterTitles = std.ChapterTitles
	}
	if l.BibliographyEntries == nil {
		l.BibliographyEntries = std.BibliographyEntries
	}
	return l
}

// WorkType returns the title-page label for a work type key.
func (l Labels) WorkType(key string) string {
	if name, ok := l.WorkTypes[key]; ok {
		return name
	}
	return l.WorkTypeFallback
}

// ChapterTitle returns the canonical title of chapter n (1-based).
func (l Labels) ChapterTitle(n int) (string, bool) {
	if n < 1 || n > len(l.ChapterTitles) {
		return "", false
	}
	return l.ChapterTitles[n-1], true
}

// BodyHeadings returns the headings of n body sections: the introduction,
// n-2 chapters and the conclusion. A single section is the introduction.
func (l Labels) BodyHeadings(n, chapterCount int) []string {
	out := make([]string, n)
	for i := range out {
		switch {
		case i == 0:
			out[i] = l.Introduction
		case i == n-1:
			out[i] = l.Conclusion
		default:
			out[i] = l.chapterHeading(i, chapterCount)
		}
	}
	return out
}

func (l Labels) chapterHeading(n, chapterCount int) string {
	h := fmt.Sprintf(l.Chapter, n)
	if n > chapterCount {
		return h
	}
	if title, ok := l.ChapterTitle(n); ok {
		h += ". " + title
	}
	return h
}
