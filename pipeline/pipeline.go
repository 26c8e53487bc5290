// Package pipeline runs alignment and projection over batches of records.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/revelaction/interlin/align"
	"github.com/revelaction/interlin/analysis"
	"github.com/revelaction/interlin/corpus"
	"github.com/revelaction/interlin/igt"
	"github.com/revelaction/interlin/project"
)

type Runner struct {
	aligner *align.Aligner

	// used for records stored without an analysis, may be nil
	parser analysis.Parser

	strictMorphs bool
	workers      int
	logger       *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

func WithParser(p analysis.Parser) Option {
	return func(r *Runner) { r.parser = p }
}

// WithWorkers bounds the number of records processed at once. Zero or less
// means one per CPU.
func WithWorkers(n int) Option {
	return func(r *Runner) { r.workers = n }
}

func WithStrictMorphs(strict bool) Option {
	return func(r *Runner) { r.strictMorphs = strict }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

func NewRunner(aligner *align.Aligner, opts ...Option) *Runner {
	r := &Runner{aligner: aligner}
	for _, o := range opts {
		o(r)
	}
	if r.workers <= 0 {
		r.workers = runtime.NumCPU()
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Enrich aligns inst, projects tags onto its gloss line and projects the
// translation structure onto its language line. The translation line is
// parsed first when it carries no structure.
func (r *Runner) Enrich(inst *igt.Instance) error {
	if inst.Trans.DS == nil {
		if r.parser == nil {
			return fmt.Errorf("instance %q: %w", inst.ID, analysis.ErrNotFound)
		}
		if err := analysis.Process(inst, r.parser); err != nil {
			return err
		}
	}

	if _, err := r.aligner.Align(inst); err != nil {
		return err
	}

	project.ClearTags(inst.Gloss)
	project.Tags(inst)

	if err := align.GlossToMorph(inst, r.strictMorphs); err != nil {
		return err
	}

	if _, err := project.Structure(inst, r.logger); err != nil {
		return err
	}
	return nil
}

// Process builds and enriches one record. Failures are recorded in the
// returned result, which is never nil.
func (r *Runner) Process(rec corpus.Record) (*igt.Instance, *corpus.Result) {
	inst, err := corpus.Build(rec)
	if err == nil {
		err = r.Enrich(inst)
	}
	if err != nil {
		r.logger.Warn("instance failed", slog.String("instance", rec.ID), slog.String("error", err.Error()))
	}
	return inst, corpus.Capture(inst, err)
}

// Run processes records in place, setting the Result of each. Record
// failures do not stop the batch; only a cancelled ctx does. progress, when
// not nil, is called after each record.
func (r *Runner) Run(ctx context.Context, records []corpus.Record, progress func(done, total int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	var (
		mu   sync.Mutex
		done int
	)
	total := len(records)

	for i := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, res := r.Process(records[i])
			records[i].Result = res

			if progress != nil {
				mu.Lock()
				done++
				progress(done, total)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
