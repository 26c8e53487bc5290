package main

import (
	"context"
	"fmt"

	"github.com/gosuri/uiprogress"

	"github.com/revelaction/interlin/corpus"
	"github.com/revelaction/interlin/pipeline"
	"github.com/revelaction/interlin/storage"
)

// docIDs returns ids, or the ids of all documents when empty.
func docIDs(repo storage.DocReader, ids []int) ([]int, error) {
	if len(ids) > 0 {
		return ids, nil
	}
	docs, err := repo.List("")
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		ids = append(ids, d.Id)
	}
	return ids, nil
}

// Run command
func runCommand(ctx context.Context, repo storage.DocRepository, runner *pipeline.Runner, ids []int, progress bool, ui UI) error {
	ids, err := docIDs(repo, ids)
	if err != nil {
		return err
	}

	for _, id := range ids {
		doc, err := repo.Read(id)
		if err != nil {
			return err
		}
		if len(doc.Records) == 0 {
			continue
		}

		var (
			cb   func(done, total int)
			prog *uiprogress.Progress
		)
		if progress {
			// one progress per document, finished bars are not redrawn
			prog = newProgress(ui)
			bar := prog.AddBar(len(doc.Records))
			bar.AppendCompleted()
			bar.PrependElapsed()
			prog.Start()
			cb = func(done, total int) { _ = bar.Set(done) }
		}

		err = runner.Run(ctx, doc.Records, cb)
		if prog != nil {
			prog.Stop()
		}
		if err != nil {
			return err
		}

		if err := repo.WriteResults(doc.Id, doc.Records); err != nil {
			return fmt.Errorf("failed to write results of doc %d: %w", doc.Id, err)
		}

		failed, projected := count(doc.Records)
		fmt.Fprintf(ui.Out, "📖 %d %s: %d records, %d failed, %d projected\n", doc.Id, doc.Title, len(doc.Records), failed, projected)
	}

	return nil
}

func count(records []corpus.Record) (failed, projected int) {
	for _, rec := range records {
		if rec.Result.Failed() {
			failed++
		}
		if rec.Result.Projected() {
			projected++
		}
	}
	return failed, projected
}

func newProgress(ui UI) *uiprogress.Progress {
	p := uiprogress.New()
	p.SetOut(ui.Err)
	return p
}
