package assemble

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/docforma/internal/docspec"
)

// TwipsPerCM converts centimeters to twentieths of a point.
const TwipsPerCM = 1440 / 2.54

// Formatting is the resolved, numeric form of docspec.Formatting.
type Formatting struct {
	FontFamily  string  `json:"font_family"`
	FontSizePt  float64 `json:"font_size_pt"`
	LineSpacing float64 `json:"line_spacing"`

	// Margins in twips.
	MarginLeft   int `json:"margin_left"`
	MarginRight  int `json:"margin_right"`
	MarginTop    int `json:"margin_top"`
	MarginBottom int `json:"margin_bottom"`
}

// DefaultFormatting is Times New Roman 14pt, one-and-a-half spacing and
// margins of 3/1/2/2 cm (left/right/top/bottom).
func DefaultFormatting() Formatting {
	return Formatting{
		FontFamily:   "Times New Roman",
		FontSizePt:   14,
		LineSpacing:  1.5,
		MarginLeft:   CMToTwips(3),
		MarginRight:  CMToTwips(1),
		MarginTop:    CMToTwips(2),
		MarginBottom: CMToTwips(2),
	}
}

// CMToTwips rounds a length in centimeters to twips.
func CMToTwips(cm float64) int {
	return int(math.Round(cm * TwipsPerCM))
}

var numberRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)`)

var lengthRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(см|мм|cm|mm)?`)

func parseNumber(s string) (float64, error) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, fmt.Errorf("no number in %q", s)
	}
	return strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
}

// ParseFontSize reads a point size such as "14", "14 pt" or "12,5" and
// rounds it to the nearest half point.
func ParseFontSize(s string) (float64, error) {
	v, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	pt := math.Round(v*2) / 2
	if pt < 6 || pt > 72 {
		return 0, fmt.Errorf("font size %g out of range", pt)
	}
	return pt, nil
}

// ParseLineSpacing maps a numeric or worded spacing to one of the three
// canonical multipliers 1.0, 1.5 and 2.0.
func ParseLineSpacing(s string) (float64, error) {
	if v, err := parseNumber(s); err == nil {
		switch v {
		case 1, 1.5, 2:
			return v, nil
		}
		return 0, fmt.Errorf("unsupported line spacing %q", s)
	}

	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "полуторн"), strings.Contains(lower, "one and a half"):
		return 1.5, nil
	case strings.Contains(lower, "одинарн"), strings.Contains(lower, "single"):
		return 1.0, nil
	case strings.Contains(lower, "двойн"), strings.Contains(lower, "double"):
		return 2.0, nil
	}
	return 0, fmt.Errorf("unsupported line spacing %q", s)
}

// ParseMargin converts a length such as "3", "2,5 см" or "30 мм" to twips.
// A bare number is taken as centimeters.
func ParseMargin(s string) (int, error) {
	m := lengthRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("no length in %q", s)
	}
	cm, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return 0, err
	}
	switch strings.ToLower(m[2]) {
	case "мм", "mm":
		cm /= 10
	}
	if cm <= 0 || cm > 10 {
		return 0, fmt.Errorf("margin %.2f cm out of range", cm)
	}
	return CMToTwips(cm), nil
}

// resolveFormatting interprets every field independently. A value that
// does not parse is logged and replaced by the matching fallback field.
func resolveFormatting(f docspec.Formatting, fallback Formatting, log *slog.Logger) Formatting {
	out := fallback
	reject := func(field, value string, err error) {
		log.Warn("formatting value rejected, using default",
			"field", field, "value", value, "error", err)
	}

	if family := strings.TrimSpace(f.FontFamily); family != "" {
		out.FontFamily = family
	} else {
		reject("font_family", f.FontFamily, fmt.Errorf("empty"))
	}
	if v, err := ParseFontSize(f.FontSize); err == nil {
		out.FontSizePt = v
	} else {
		reject("font_size", f.FontSize, err)
	}
	if v, err := ParseLineSpacing(f.LineSpacing); err == nil {
		out.LineSpacing = v
	} else {
		reject("line_spacing", f.LineSpacing, err)
	}

	margins := []struct {
		name  string
		value string
		dst   *int
	}{
		{"margin_left", f.MarginLeft, &out.MarginLeft},
		{"margin_right", f.MarginRight, &out.MarginRight},
		{"margin_top", f.MarginTop, &out.MarginTop},
		{"margin_bottom", f.MarginBottom, &out.MarginBottom},
	}
	for _, m := range margins {
		if v, err := ParseMargin(m.value); err == nil {
			*m.dst = v
		} else {
			reject(m.name, m.value, err)
		}
	}
	return out
}
