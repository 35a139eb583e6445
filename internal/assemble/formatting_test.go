package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineSpacing(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1.5", 1.5},
		{"1,5", 1.5},
		{"1", 1.0},
		{"1.0", 1.0},
		{"2", 2.0},
		{"полуторный", 1.5},
		{"одинарный", 1.0},
		{"двойной", 2.0},
		{"single", 1.0},
		{"double", 2.0},
		{"one and a half", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLineSpacing(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLineSpacing_Rejects(t *testing.T) {
	for _, in := range []string{"", "1.15", "тройной", "3"} {
		_, err := ParseLineSpacing(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseMargin(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"3", 1701},
		{"3 см", 1701},
		{"30 мм", 1701},
		{"2,5 cm", 1417},
		{"10mm", 567},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMargin(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMargin_Rejects(t *testing.T) {
	for _, in := range []string{"", "широкое", "0", "25 см"} {
		_, err := ParseMargin(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseFontSize(t *testing.T) {
	got, err := ParseFontSize("14 pt")
	require.NoError(t, err)
	assert.Equal(t, 14.0, got)

	got, err = ParseFontSize("12,5")
	require.NoError(t, err)
	assert.Equal(t, 12.5, got)

	got, err = ParseFontSize("10.3 пт")
	require.NoError(t, err)
	assert.Equal(t, 10.5, got)

	_, err = ParseFontSize("200")
	assert.Error(t, err)
	_, err = ParseFontSize("крупный")
	assert.Error(t, err)
}
