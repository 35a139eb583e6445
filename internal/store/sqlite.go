package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLite is a Store backed by a local SQLite database.
type SQLite struct {
	db *sqlx.DB
}

var _ Store = (*SQLite)(nil)

var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS methodics (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		filename     TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		spec_json    TEXT NOT NULL,
		report_json  TEXT NOT NULL,
		created_at   TIMESTAMP NOT NULL,
		UNIQUE (user_id, content_hash)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_methodics_user ON methodics(user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS works (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		methodic_id  TEXT NOT NULL DEFAULT '',
		work_type    TEXT NOT NULL,
		subject      TEXT NOT NULL,
		topic        TEXT NOT NULL,
		content      TEXT NOT NULL,
		quality_json TEXT NOT NULL,
		document     BLOB,
		created_at   TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_works_user ON works(user_id, created_at)`,
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
// The path ":memory:" opens a private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Each connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	s := &SQLite{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type methodicRow struct {
	Methodic
	SpecJSON   string `db:"spec_json"`
	ReportJSON string `db:"report_json"`
}

func (r methodicRow) decode() (*Methodic, error) {
	m := r.Methodic
	m.CreatedAt = m.CreatedAt.UTC()
	if err := json.Unmarshal([]byte(r.SpecJSON), &m.Spec); err != nil {
		return nil, fmt.Errorf("decode spec %s: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(r.ReportJSON), &m.Report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", m.ID, err)
	}
	return &m, nil
}

const methodicColumns = `id, user_id, filename, content_hash, spec_json, report_json, created_at`

func (s *SQLite) SaveMethodic(ctx context.Context, m *Methodic) error {
	prepare(&m.ID, &m.CreatedAt)
	spec, err := json.Marshal(m.Spec)
	if err != nil {
		return fmt.Errorf("marshal spec: %w", err)
	}
	report, err := json.Marshal(m.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = s.db.NamedExecContext(ctx,
		`INSERT INTO methodics (`+methodicColumns+`)
		 VALUES (:id, :user_id, :filename, :content_hash, :spec_json, :report_json, :created_at)`,
		methodicRow{Methodic: *m, SpecJSON: string(spec), ReportJSON: string(report)})
	if err != nil {
		return fmt.Errorf("insert methodic: %w", err)
	}
	return nil
}

func (s *SQLite) GetMethodic(ctx context.Context, id string) (*Methodic, error) {
	return s.getMethodic(ctx, `SELECT `+methodicColumns+` FROM methodics WHERE id = ?`, id)
}

func (s *SQLite) FindMethodicByHash(ctx context.Context, userID, hash string) (*Methodic, error) {
	return s.getMethodic(ctx,
		`SELECT `+methodicColumns+` FROM methodics WHERE user_id = ? AND content_hash = ?`, userID, hash)
}

func (s *SQLite) getMethodic(ctx context.Context, query string, args ...any) (*Methodic, error) {
	var row methodicRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get methodic: %w", err)
	}
	return row.decode()
}

func (s *SQLite) ListMethodics(ctx context.Context, userID string) ([]Methodic, error) {
	var rows []methodicRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+methodicColumns+` FROM methodics WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list methodics: %w", err)
	}
	out := make([]Methodic, 0, len(rows))
	for _, r := range rows {
		m, err := r.decode()
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, nil
}

func (s *SQLite) DeleteMethodic(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM methodics WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete methodic: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete methodic: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type workRow struct {
	Work
	QualityJSON string `db:"quality_json"`
}

func (s *SQLite) SaveWork(ctx context.Context, w *Work) error {
	prepare(&w.ID, &w.CreatedAt)
	q, err := json.Marshal(w.Quality)
	if err != nil {
		return fmt.Errorf("marshal quality: %w", err)
	}
	_, err = s.db.NamedExecContext(ctx,
		`INSERT INTO works (id, user_id, methodic_id, work_type, subject, topic, content, quality_json, document, created_at)
		 VALUES (:id, :user_id, :methodic_id, :work_type, :subject, :topic, :content, :quality_json, :document, :created_at)`,
		workRow{Work: *w, QualityJSON: string(q)})
	if err != nil {
		return fmt.Errorf("insert work: %w", err)
	}
	return nil
}

func (s *SQLite) GetWork(ctx context.Context, id string) (*Work, error) {
	var row workRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, user_id, methodic_id, work_type, subject, topic, content, quality_json, document, created_at
		 FROM works WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get work: %w", err)
	}
	w := row.Work
	if err := json.Unmarshal([]byte(row.QualityJSON), &w.Quality); err != nil {
		return nil, fmt.Errorf("decode quality %s: %w", w.ID, err)
	}
	w.CreatedAt = w.CreatedAt.UTC()
	return &w, nil
}
