package pipeline

import "github.com/dgallion1/docforma/internal/store"

// newJobID returns a time-ordered job identifier.
func newJobID() string {
	return "job_" + store.NewID()
}
