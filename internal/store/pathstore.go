package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dgallion1/docforma/internal/pathstore"
	"github.com/dgallion1/docforma/internal/quality"
)

const source = "docforma"

// Pathstore is a Store backed by a remote pathstore instance. Records live under
// a key prefix:
//
//	{prefix}/methodics/{id}
//	{prefix}/users/{user}/methodics/{id}
//	{prefix}/users/{user}/by_hash/{hash}
//	{prefix}/works/{id}
type Pathstore struct {
	ps     *pathstore.Client
	prefix string
}

var _ Store = (*Pathstore)(nil)

// NewPathstore wraps ps. An empty prefix defaults to "docforma".
func NewPathstore(ps *pathstore.Client, prefix string) *Pathstore {
	if prefix == "" {
		prefix = source
	}
	return &Pathstore{ps: ps, prefix: prefix}
}

type idRef struct {
	ID string `json:"id"`
}

// workRecord carries the fields Work hides from API responses.
type workRecord struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	MethodicID string         `json:"methodic_id,omitempty"`
	WorkType   string         `json:"work_type"`
	Subject    string         `json:"subject"`
	Topic      string         `json:"topic"`
	Content    string         `json:"content"`
	Quality    quality.Report `json:"quality"`
	Document   []byte         `json:"document"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (p *Pathstore) key(format string, args ...any) string {
	return p.prefix + "/" + fmt.Sprintf(format, args...)
}

func (p *Pathstore) put(ctx context.Context, key string, value any, salience float64) error {
	return p.ps.PutNode(ctx, key, pathstore.NodeRequest{
		Value:      value,
		MemoryType: "metacognitive",
		Salience:   salience,
		Source:     source,
	})
}

func (p *Pathstore) get(ctx context.Context, key string, dst any) error {
	node, err := p.ps.GetNode(ctx, key)
	if err != nil {
		return err
	}
	if node == nil {
		return ErrNotFound
	}
	if err := json.Unmarshal(node.Value, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (p *Pathstore) SaveMethodic(ctx context.Context, m *Methodic) error {
	prepare(&m.ID, &m.CreatedAt)
	if err := p.put(ctx, p.key("methodics/%s", m.ID), m, 0.5); err != nil {
		return fmt.Errorf("store methodic: %w", err)
	}
	ref := idRef{ID: m.ID}
	if err := p.put(ctx, p.key("users/%s/methodics/%s", m.UserID, m.ID), ref, 0.1); err != nil {
		return fmt.Errorf("store methodic index: %w", err)
	}
	if err := p.put(ctx, p.key("users/%s/by_hash/%s", m.UserID, m.ContentHash), ref, 0.1); err != nil {
		return fmt.Errorf("store hash index: %w", err)
	}
	return nil
}

func (p *Pathstore) GetMethodic(ctx context.Context, id string) (*Methodic, error) {
	var m Methodic
	if err := p.get(ctx, p.key("methodics/%s", id), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (p *Pathstore) FindMethodicByHash(ctx context.Context, userID, hash string) (*Methodic, error) {
	var ref idRef
	if err := p.get(ctx, p.key("users/%s/by_hash/%s", userID, hash), &ref); err != nil {
		return nil, err
	}
	return p.GetMethodic(ctx, ref.ID)
}

func (p *Pathstore) ListMethodics(ctx context.Context, userID string) ([]Methodic, error) {
	nodes, err := p.ps.ListChildren(ctx, p.key("users/%s/methodics", userID), 0)
	if err != nil {
		return nil, fmt.Errorf("list methodics: %w", err)
	}
	out := make([]Methodic, 0, len(nodes))
	for _, n := range nodes {
		var ref idRef
		if err := json.Unmarshal(n.Value, &ref); err != nil || ref.ID == "" {
			continue
		}
		m, err := p.GetMethodic(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (p *Pathstore) DeleteMethodic(ctx context.Context, userID, id string) error {
	m, err := p.GetMethodic(ctx, id)
	if err != nil {
		return err
	}
	if m.UserID != userID {
		return ErrNotFound
	}
	for _, key := range []string{
		p.key("users/%s/by_hash/%s", userID, m.ContentHash),
		p.key("users/%s/methodics/%s", userID, id),
		p.key("methodics/%s", id),
	} {
		if err := p.ps.DeleteNode(ctx, key, false); err != nil {
			return fmt.Errorf("delete methodic: %w", err)
		}
	}
	return nil
}

func (p *Pathstore) SaveWork(ctx context.Context, w *Work) error {
	prepare(&w.ID, &w.CreatedAt)
	rec := workRecord(*w)
	if err := p.put(ctx, p.key("works/%s", w.ID), rec, 0.5); err != nil {
		return fmt.Errorf("store work: %w", err)
	}
	if w.MethodicID != "" {
		err := p.ps.PutLink(ctx, pathstore.LinkRequest{
			From:    p.key("works/%s", w.ID),
			To:      p.key("methodics/%s", w.MethodicID),
			Weight:  1,
			Summary: "formatted by",
		})
		if err != nil {
			return fmt.Errorf("link work: %w", err)
		}
	}
	return nil
}

func (p *Pathstore) GetWork(ctx context.Context, id string) (*Work, error) {
	var rec workRecord
	if err := p.get(ctx, p.key("works/%s", id), &rec); err != nil {
		return nil, err
	}
	w := Work(rec)
	return &w, nil
}

// Close releases idle connections of the underlying client.
func (p *Pathstore) Close() error {
	p.ps.Close()
	return nil
}
