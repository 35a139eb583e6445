package docspec

// Source tells whether a field value was found in the guide or substituted
// from Defaults.
type Source string

const (
	Recovered Source = "recovered"
	Defaulted Source = "defaulted"
)

// Provenance records where one field came from. Rule names the pattern
// that produced a recovered value.
type Provenance struct {
	Source Source `json:"source"`
	Rule   string `json:"rule,omitempty"`
}

// Report maps a field path such as "institution.name" to its provenance.
type Report map[string]Provenance

// Recovered reports whether field was found in the guide text.
func (r Report) Recovered(field string) bool {
	return r[field].Source == Recovered
}

// Count returns how many fields have the given source.
func (r Report) Count(src Source) int {
	n := 0
	for _, p := range r {
		if p.Source == src {
			n++
		}
	}
	return n
}
