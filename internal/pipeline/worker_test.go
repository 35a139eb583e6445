package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docforma/internal/docspec"
	"github.com/dgallion1/docforma/internal/generate"
	"github.com/dgallion1/docforma/internal/store"
)

func openStore(t *testing.T) *store.SQLite {
	t.Helper()
	s, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// uniqueLLM answers every prompt with a paragraph no other call repeats.
func uniqueLLM(calls *atomic.Int32) generate.Client {
	return generate.ClientFunc(func(ctx context.Context, system, user string) (string, error) {
		n := calls.Add(1)
		return fmt.Sprintf("Абзац номер %d подробно описывает отдельный аспект исследуемой проблемы.", n), nil
	})
}

func newTestWorker(t *testing.T, s store.Store, llm generate.Client) *Worker {
	t.Helper()
	w := NewWorker(Deps{Store: s, LLM: llm}, 2)
	w.backoff = func(int) time.Duration { return 0 }
	return w
}

func TestWorker_GeneratesAndStores(t *testing.T) {
	s := openStore(t)
	var calls atomic.Int32
	w := newTestWorker(t, s, uniqueLLM(&calls))

	job := NewJob(Request{UserID: "u1", WorkType: "coursework", Subject: "Информатика", Topic: "Базы данных", Year: 2024})
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	require.Equal(t, StatusCompleted, snap.Status, "errors: %v", snap.Progress.Errors)
	assert.EqualValues(t, 5, calls.Load(), "three chapters plus introduction and conclusion")
	assert.Equal(t, 5, snap.Progress.TotalSections)
	assert.Equal(t, 5, snap.Progress.SectionsGenerated)
	require.NotNil(t, snap.Quality)
	assert.Equal(t, 5*9, snap.Quality.WordCount)

	work, err := s.GetWork(context.Background(), snap.WorkID)
	require.NoError(t, err)
	assert.Equal(t, "Базы данных", work.Topic)
	assert.Contains(t, work.Content, "Абзац номер")

	doc, err := docx.Parse(bytes.NewReader(work.Document), int64(len(work.Document)))
	require.NoError(t, err)
	var text strings.Builder
	for _, it := range doc.Document.Body.Items {
		if p, ok := it.(*docx.Paragraph); ok {
			text.WriteString(p.String())
			text.WriteString("\n")
		}
	}
	assert.Contains(t, text.String(), "КУРСОВАЯ РАБОТА")
	assert.Contains(t, text.String(), "ЗАКЛЮЧЕНИЕ")
	assert.Contains(t, text.String(), "Москва 2024")
}

func TestWorker_RetriesTransientErrors(t *testing.T) {
	s := openStore(t)
	var calls atomic.Int32
	llm := generate.ClientFunc(func(ctx context.Context, system, user string) (string, error) {
		n := calls.Add(1)
		if n <= 2 {
			return "", &generate.RetryableError{StatusCode: 429, Message: "slow down"}
		}
		return fmt.Sprintf("Ответ номер %d описывает отдельную сторону вопроса без повторов.", n), nil
	})
	w := NewWorker(Deps{Store: s, LLM: llm}, 1)
	w.backoff = func(int) time.Duration { return 0 }

	job := NewJob(Request{UserID: "u1", WorkType: "essay"})
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	require.Equal(t, StatusCompleted, snap.Status, "errors: %v", snap.Progress.Errors)
	assert.EqualValues(t, 7, calls.Load())
}

func TestWorker_PermanentFailure(t *testing.T) {
	s := openStore(t)
	llm := generate.ClientFunc(func(ctx context.Context, system, user string) (string, error) {
		return "", errors.New("invalid api key")
	})
	w := newTestWorker(t, s, llm)

	job := NewJob(Request{UserID: "u1", WorkType: "essay"})
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "generating", snap.Phase)
	require.Len(t, snap.Progress.Errors, 1)
	assert.Contains(t, snap.Progress.Errors[0], "invalid api key")
	assert.Empty(t, snap.WorkID)
}

func TestWorker_RetriesExhausted(t *testing.T) {
	s := openStore(t)
	var calls atomic.Int32
	llm := generate.ClientFunc(func(ctx context.Context, system, user string) (string, error) {
		calls.Add(1)
		return "", &generate.RetryableError{StatusCode: 503, Message: "unavailable"}
	})
	w := NewWorker(Deps{Store: s, LLM: llm}, 1)
	w.backoff = func(int) time.Duration { return 0 }

	job := NewJob(Request{UserID: "u1"})
	w.Process(context.Background(), job)

	assert.Equal(t, StatusFailed, job.Snapshot().Status)
	// The first section exhausts its attempts and cancels the rest.
	assert.EqualValues(t, MaxRetries, calls.Load())
}

func TestWorker_SuppliedContentSkipsGeneration(t *testing.T) {
	s := openStore(t)
	var calls atomic.Int32
	w := newTestWorker(t, s, uniqueLLM(&calls))

	content := "Введение\nВступительный текст работы.\n" +
		"Глава 1\nПервая глава.\nГлава 2\nВторая глава.\nГлава 3\nТретья глава.\n" +
		"Заключение\nИтоги работы."
	job := NewJob(Request{UserID: "u1", WorkType: "thesis", Content: content})
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	require.Equal(t, StatusCompleted, snap.Status, "errors: %v", snap.Progress.Errors)
	assert.Zero(t, calls.Load())

	work, err := s.GetWork(context.Background(), snap.WorkID)
	require.NoError(t, err)
	assert.Equal(t, strings.Fields(content), strings.Fields(work.Content))
	assert.Contains(t, work.Content, "Первая глава.")
}

func TestWorker_UsesMethodicSpec(t *testing.T) {
	s := openStore(t)
	spec := docspec.StandardDefaults().Spec()
	spec.Structure.ChapterCount = 1
	m := &store.Methodic{UserID: "u1", Filename: "guide.txt", ContentHash: "h", Spec: spec}
	require.NoError(t, s.SaveMethodic(context.Background(), m))

	var calls atomic.Int32
	w := newTestWorker(t, s, uniqueLLM(&calls))

	job := NewJob(Request{UserID: "u1", MethodicID: m.ID, WorkType: "essay"})
	w.Process(context.Background(), job)
	snap := job.Snapshot()
	require.Equal(t, StatusCompleted, snap.Status, "errors: %v", snap.Progress.Errors)
	assert.Equal(t, 3, snap.Progress.TotalSections)

	other := NewJob(Request{UserID: "u2", MethodicID: m.ID})
	w.Process(context.Background(), other)
	snap = other.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "loading spec", snap.Phase)
}

func TestWithRetry_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := withRetry(ctx, func(int) time.Duration { return time.Hour }, func(int, error) {}, func() error {
		calls++
		return &generate.RetryableError{StatusCode: 500}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsRetryable(t *testing.T) {
	wrapped := fmt.Errorf("section 1: %w", &generate.RetryableError{StatusCode: 429})
	assert.True(t, IsRetryable(wrapped))
	assert.False(t, IsRetryable(errors.New("bad request")))
}

func TestBackoff_Bounds(t *testing.T) {
	for attempt := range 8 {
		d := Backoff(attempt)
		base := min(time.Duration(1<<uint(attempt))*time.Second, 30*time.Second)
		if d < base || d >= base+base/2 {
			t.Errorf("attempt %d: backoff %s outside [%s, %s)", attempt, d, base, base+base/2)
		}
	}
}
