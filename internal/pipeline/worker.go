package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/docforma/internal/assemble"
	"github.com/dgallion1/docforma/internal/docspec"
	"github.com/dgallion1/docforma/internal/generate"
	"github.com/dgallion1/docforma/internal/partition"
	"github.com/dgallion1/docforma/internal/quality"
	"github.com/dgallion1/docforma/internal/render"
	"github.com/dgallion1/docforma/internal/store"
)

// Deps are the collaborators a Worker needs. Nil Polisher, Assembler and
// Log fall back to their defaults.
type Deps struct {
	Store       store.Store
	LLM         generate.Client
	Polisher    *generate.Polisher
	Partitioner partition.Partitioner
	Defaults    docspec.Defaults
	Assembler   *assemble.Assembler
	Log         *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = slog.New(slog.DiscardHandler)
	}
	if d.Polisher == nil {
		d.Polisher = generate.NewPolisher(generate.DefaultCliches())
	}
	if d.Assembler == nil {
		d.Assembler = assemble.New(assemble.Options{}, d.Log)
	}
	d.Defaults = d.Defaults.Complete()
	return d
}

// Worker processes a single work generation job.
type Worker struct {
	deps    Deps
	log     *slog.Logger
	backoff func(attempt int) time.Duration

	maxConcurrentGenerate int
}

func NewWorker(deps Deps, maxGenerate int) *Worker {
	deps = deps.withDefaults()
	return &Worker{
		deps:                  deps,
		log:                   deps.Log,
		backoff:               Backoff,
		maxConcurrentGenerate: max(maxGenerate, 1),
	}
}

// Process runs the full generation pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	req := job.Request
	log := w.log.With("job_id", job.ID, "user_id", req.UserID, "methodic_id", req.MethodicID)
	fail := func(phase string, err error) {
		log.Error(phase+" failed", "error", err)
		job.AddError(fmt.Sprintf("%s: %s", phase, err))
		job.SetStatus(StatusFailed, phase)
	}

	// Phase 1: Load the formatting spec.
	job.SetStatus(StatusLoadingSpec, "loading spec")
	spec, err := w.loadSpec(ctx, req)
	if err != nil {
		fail("loading spec", err)
		return
	}
	chapters := spec.Structure.ChapterCount
	headings := w.deps.Assembler.Labels().BodyHeadings(chapters+2, chapters)

	var sections []partition.Section
	if strings.TrimSpace(req.Content) == "" {
		// Phase 2: Generate one text per section.
		job.SetStatus(StatusGenerating, "generating")
		job.SetTotalSections(len(headings))
		texts, err := w.generate(ctx, job, log, headings)
		if err != nil {
			fail("generating", err)
			return
		}

		// Phase 3: Polish across sections so repeats between them are dropped.
		job.SetStatus(StatusPolishing, "polishing")
		texts = w.deps.Polisher.PolishAll(texts)

		job.SetStatus(StatusPartitioning, "partitioning")
		sections = make([]partition.Section, len(texts))
		for i, text := range texts {
			sections[i] = partition.Section{Index: i, Heading: headings[i], Text: text}
		}
	} else {
		job.SetStatus(StatusPartitioning, "partitioning")
		var strategy partition.Strategy
		sections, strategy = w.deps.Partitioner.Split(req.Content, len(headings))
		log.Info("partitioned supplied content", "sections", len(sections), "strategy", strategy)
	}

	texts := make([]string, len(sections))
	for i, s := range sections {
		texts[i] = s.Text
	}
	report := quality.Analyze(strings.Join(texts, "\n\n"))

	// Phase 4: Lay out and render.
	job.SetStatus(StatusAssembling, "assembling")
	year := req.Year
	if year == 0 {
		year = time.Now().Year()
	}
	doc := w.deps.Assembler.Assemble(spec, sections, assemble.Extras{
		WorkType: req.WorkType,
		Subject:  req.Subject,
		Topic:    req.Topic,
		Student:  req.Student,
		Teacher:  req.Teacher,
		City:     req.City,
		Year:     year,
	})

	job.SetStatus(StatusRendering, "rendering")
	data, err := render.Bytes(doc)
	if err != nil {
		fail("rendering", err)
		return
	}

	// Phase 5: Persist.
	job.SetStatus(StatusStoring, "storing")
	work := &store.Work{
		UserID:     req.UserID,
		MethodicID: req.MethodicID,
		WorkType:   req.WorkType,
		Subject:    req.Subject,
		Topic:      req.Topic,
		Content:    strings.Join(texts, "\n\n"),
		Quality:    report,
		Document:   data,
	}
	if err := w.deps.Store.SaveWork(ctx, work); err != nil {
		fail("storing", err)
		return
	}

	log.Info("work generated",
		"work_id", work.ID,
		"sections", len(sections),
		"words", report.WordCount,
		"bytes", len(data))
	job.Complete(work.ID, report)
}

func (w *Worker) loadSpec(ctx context.Context, req Request) (docspec.DocumentSpec, error) {
	if req.MethodicID == "" {
		return w.deps.Defaults.Spec(), nil
	}
	m, err := w.deps.Store.GetMethodic(ctx, req.MethodicID)
	if err != nil {
		return docspec.DocumentSpec{}, fmt.Errorf("methodic %s: %w", req.MethodicID, err)
	}
	if m.UserID != req.UserID {
		return docspec.DocumentSpec{}, fmt.Errorf("methodic %s: %w", req.MethodicID, store.ErrNotFound)
	}
	return m.Spec, nil
}

// generate runs one completion per heading with bounded concurrency. The
// first section that fails after retries cancels the rest.
func (w *Worker) generate(ctx context.Context, job *Job, log *slog.Logger, headings []string) ([]string, error) {
	req := job.Request
	work := generate.Work{
		WorkType:  req.WorkType,
		Subject:   req.Subject,
		Topic:     req.Topic,
		Structure: headings,
	}
	system := generate.SystemPrompt(work)
	plan := generate.Plan(req.WorkType, headings)
	texts := make([]string, len(plan))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.maxConcurrentGenerate)
	for i, section := range plan {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			prompt := generate.SectionPrompt(work, section)
			onRetry := func(attempt int, err error) {
				log.Warn("retryable generation error", "section", i, "attempt", attempt, "error", err)
			}
			err := withRetry(gctx, w.backoff, onRetry, func() error {
				text, err := w.deps.LLM.Complete(gctx, system, prompt)
				if err != nil {
					return err
				}
				texts[i] = text
				return nil
			})
			if err != nil {
				return fmt.Errorf("section %d (%s): %w", i, section.Heading, err)
			}
			job.IncrSectionsGenerated()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}
