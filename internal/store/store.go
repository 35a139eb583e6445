// Package store persists extracted methodics and generated works.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/docforma/internal/docspec"
	"github.com/dgallion1/docforma/internal/quality"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Methodic is an uploaded methodic guide together with the spec extracted from it.
type Methodic struct {
	ID          string               `json:"id" db:"id"`
	UserID      string               `json:"user_id" db:"user_id"`
	Filename    string               `json:"filename" db:"filename"`
	ContentHash string               `json:"content_hash" db:"content_hash"`
	Spec        docspec.DocumentSpec `json:"spec" db:"-"`
	Report      docspec.Report       `json:"report" db:"-"`
	CreatedAt   time.Time            `json:"created_at" db:"created_at"`
}

// Work is a generated academic work and its rendered document.
type Work struct {
	ID         string         `json:"id" db:"id"`
	UserID     string         `json:"user_id" db:"user_id"`
	MethodicID string         `json:"methodic_id,omitempty" db:"methodic_id"`
	WorkType   string         `json:"work_type" db:"work_type"`
	Subject    string         `json:"subject" db:"subject"`
	Topic      string         `json:"topic" db:"topic"`
	Content    string         `json:"-" db:"content"`
	Quality    quality.Report `json:"quality" db:"-"`
	Document   []byte         `json:"-" db:"document"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// Store is implemented by every persistence backend.
type Store interface {
	SaveMethodic(ctx context.Context, m *Methodic) error
	GetMethodic(ctx context.Context, id string) (*Methodic, error)
	// FindMethodicByHash returns ErrNotFound when the user has no guide with
	// this content hash.
	FindMethodicByHash(ctx context.Context, userID, hash string) (*Methodic, error)
	ListMethodics(ctx context.Context, userID string) ([]Methodic, error)
	// DeleteMethodic removes a user's guide; ErrNotFound if the user does not
	// own it.
	DeleteMethodic(ctx context.Context, userID, id string) error

	SaveWork(ctx context.Context, w *Work) error
	GetWork(ctx context.Context, id string) (*Work, error)

	Close() error
}

// NewID returns a time-ordered UUIDv7, falling back to a random UUID.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// prepare fills in the ID and creation time of a new record.
func prepare(id *string, created *time.Time) {
	if *id == "" {
		*id = NewID()
	}
	if created.IsZero() {
		*created = time.Now().UTC()
	}
}
