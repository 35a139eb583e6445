package docspec

// Institution patterns run most specific first: official institutional
// prefixes, then labelled values, then generic capitalized phrases.
var (
	nameRules = Patterns("institution.name",
		`(?:ФГБОУ ВО|ФГАОУ ВО|ФГБОУ|ГОУ ВПО|Федеральное|Государственное)[^.!?]{0,200}?(?:университет|институт|академия|college|university)`,
		`[А-Я][А-Яа-яё\s\-]{5,}?(?:университет|институт|академия)[^.!?]{0,100}`,
		`МИНИСТЕРСТВО[^.!?]{0,150}?(?:университет|институт|академия)`,
		`НАЦИОНАЛЬНЫЙ[^.!?]{0,100}?(?:университет|институт|академия)`,
		`(?:university|institute|academy|college)\s+of\s+[^.!?\n,]{3,80}`,
		`[^.!?\n]{0,60}?(?:state|national|technical)\s+(?:university|institute)`,
	)

	addressRules = Patterns("institution.address",
		`(?:юридический\s+|почтовый\s+)?(?:адрес|address)[:\s]+([^!?\n]{10,120})`,
		`(\d{6},?\s*(?:г\.|город|city)\s*[А-ЯЁ][^!?\n]{2,100})`,
		`((?:г\.|город)\s*[А-ЯЁ][а-яё\-]+[^!?\n]{0,50}?(?:ул\.|улица|проспект|пр-т|пр\.)[^!?\n]{0,60})`,
		`([А-ЯЁ][а-яё\-]+\s+(?:область|край)[^!?\n]{0,50}?(?:г\.|город)\s*[А-ЯЁ][а-яё\-]+)`,
	)

	facultyRules = Patterns("institution.faculty",
		`((?:факультет|faculty)[\s:]+[^.!?\n]{10,80})`,
		`[А-Я][А-Яа-яё\s\-]{5,}?(?:факультет|институт)[^.!?]{0,50}`,
		`(?:институт)[^.!?]{0,50}?([А-Я][А-Яа-яё\s\-]{5,}?(?:информатики|экономики|юриспруденции))`,
	)

	departmentRules = Patterns("institution.department",
		`((?:кафедра|department)[\s:]+[^.!?\n]{10,80})`,
		`[А-Я][А-Яа-яё\s\-]{5,}?(?:кафедра)[^.!?]{0,50}`,
		`(?:кафедра)[^.!?]{0,50}?([А-Я][А-Яа-яё\s\-]{5,}?(?:информатики|математики|физики))`,
	)
)

// Structure windows. The first one to match is the only text scanned for
// chapter numbers and section keywords.
var structureRules = Patterns("structure",
	`(?:структура|содержание|оглавление)[^.!?]{0,200}?(?:введение|введени[ея])[^.!?]{0,200}?(?:глава|раздел|часть)[^.!?]{0,200}?(?:заключение|выводы)[^.!?]{0,300}`,
	`(?:должна содержать|включает|состоит из)[^.!?]{0,300}`,
	`(?:введение|введени[ея])[^.!?]{0,100}?(?:основная часть|главы|разделы)[^.!?]{0,100}?(?:заключение|выводы)[^.!?]{0,300}`,
	`(?:глава\s+\d+[^.!?]{0,50}){2,}`,
	`(?:раздел\s+\d+[^.!?]{0,50}){2,}`,
	`(?:structure|contents|outline)[^.!?]{0,200}?introduction[^.!?]{0,200}?(?:chapter|section|part)[^.!?]{0,200}?(?:conclusion|summary)[^.!?]{0,300}`,
	`(?:must contain|must include|consists of)[^.!?]{0,300}`,
	`(?:chapter\s+\d+[^.!?]{0,50}){2,}`,
)

const chapterMarkerExpr = `(?i)(?:глава|раздел|chapter|section)\s*\d+`

// sectionKeywords are scanned in this order; the order fixes the order of
// RequiredSections.
var sectionKeywords = []struct {
	stems []string
	name  func(SectionNames) string
}{
	{[]string{"введени", "introduction"}, func(n SectionNames) string { return n.Introduction }},
	{[]string{"заключени", "вывод", "conclusion"}, func(n SectionNames) string { return n.Conclusion }},
	{[]string{"литератур", "библиограф", "bibliograph", "references"}, func(n SectionNames) string { return n.Bibliography }},
	{[]string{"приложени", "appendix", "appendices"}, func(n SectionNames) string { return n.Appendix }},
}

const (
	numberExpr = `\d+(?:[.,]\d+)?`
	lengthExpr = `(` + numberExpr + `\s*(?:см|мм|cm|mm)?)`
)

var (
	fontFamilyRules = Patterns("formatting.font_family",
		`(times new roman|arial|helvetica|calibri|courier new|georgia|verdana|pt astra serif|pt serif|liberation serif)`,
		`(?:шрифт[:\s\-–—]+|font(?:-family|\s+family)?\s*:\s*)([A-Za-z][A-Za-z \-]{2,29}[A-Za-z])`,
	)

	fontSizeRules = Patterns("formatting.font_size",
		`(?:размер\s+шрифта|кегль|font[- ]size)[^\d\n]{0,15}?(\d{1,2}(?:[.,]5)?)`,
		`шрифт[:\s]*(\d{1,2})`,
		`(?:times new roman|arial|calibri)[,\s]+(\d{1,2})`,
		`(\d{1,2})\s*(?:pt|пт|пунктов)`,
	)

	lineSpacingRules = Patterns("formatting.line_spacing",
		`интервал[:\s\-–—]*(\d(?:[.,]\d{1,2})?)`,
		`(\d(?:[.,]\d{1,2})?)[\s\-]*(?:междустрочн|межстрочн|интервал)`,
		`(?:полуторн|одинарн|двойн)[а-яё]*`,
		`line[- ]spacing[:\s\-]*(\d(?:[.,]\d{1,2})?|single|double|one and a half)`,
		`(single|double|one and a half|one-and-a-half)[- ]spac`,
	)

	marginLeftRules = Patterns("formatting.margin_left",
		`(?:левое|слева)[^\d\n]{0,25}?`+lengthExpr,
		`(?:margin[- ]left|left margin)[^\d\n]{0,10}?`+lengthExpr,
	)
	marginRightRules = Patterns("formatting.margin_right",
		`(?:правое|справа)[^\d\n]{0,25}?`+lengthExpr,
		`(?:margin[- ]right|right margin)[^\d\n]{0,10}?`+lengthExpr,
	)
	marginTopRules = Patterns("formatting.margin_top",
		`(?:верхнее|сверху)[^\d\n]{0,25}?`+lengthExpr,
		`(?:margin[- ]top|top margin)[^\d\n]{0,10}?`+lengthExpr,
	)
	marginBottomRules = Patterns("formatting.margin_bottom",
		`(?:нижнее|снизу)[^\d\n]{0,25}?`+lengthExpr,
		`(?:margin[- ]bottom|bottom margin)[^\d\n]{0,10}?`+lengthExpr,
	)
)
