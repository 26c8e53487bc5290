package main

import (
	"fmt"
	"slices"

	"github.com/revelaction/interlin/corpus"
	"github.com/revelaction/interlin/render"
	"github.com/revelaction/interlin/storage"
)

type ShowOptions struct {
	Format   string
	NoColor  bool
	NoPrefix bool
}

// Show command: render the stored results of a document, or of some of its
// records.
func showCommand(repo storage.DocReader, opts ShowOptions, docID int, recordIDs []string, ui UI) error {
	doc, err := repo.Read(docID)
	if err != nil {
		return err
	}

	var printer render.Printer
	switch {
	case opts.Format == "json":
		printer = render.NewJSONRenderer(ui.Out)
	case slices.Contains(render.SupportedFormats(), opts.Format):
		r := render.NewRenderer(ui.Out)
		r.Format = opts.Format
		r.HasColor = !opts.NoColor
		r.HasPrefix = !opts.NoPrefix
		printer = r
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}

	var items []render.Item
	for _, rec := range doc.Records {
		if len(recordIDs) > 0 && !slices.Contains(recordIDs, rec.ID) {
			continue
		}
		inst, err := corpus.Restore(rec)
		item := render.Item{DocID: doc.Id, DocTitle: doc.Title, Instance: inst}
		switch {
		case err != nil:
			item.Error = err.Error()
		case rec.Result != nil:
			item.Error = rec.Result.Error
		}
		items = append(items, item)
	}

	if len(recordIDs) > 0 && len(items) == 0 {
		return fmt.Errorf("no records %v in doc %d: %w", recordIDs, docID, storage.ErrNotFound)
	}

	printer.Render(items)
	return nil
}
