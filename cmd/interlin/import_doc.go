package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/revelaction/interlin/corpus"
	"github.com/revelaction/interlin/storage"
	"github.com/revelaction/interlin/storage/filesystem"
)

type ImportDocOptions struct {
	From   string
	Title  string
	Labels []string
}

// Import command: a JSON document, or plain interlinear text for any other
// extension.
func importDocCommand(repo storage.DocWriter, opts ImportDocOptions, ui UI) error {
	var doc corpus.Doc

	if filepath.Ext(opts.From) == ".json" {
		d, err := filesystem.ReadDoc(opts.From)
		if err != nil {
			return fmt.Errorf("%s: %w", opts.From, err)
		}
		doc = d
	} else {
		f, err := os.Open(opts.From)
		if err != nil {
			return err
		}
		defer f.Close()

		records, err := corpus.ReadText(f)
		if err != nil {
			return fmt.Errorf("%s: %w", opts.From, err)
		}
		doc.Records = records
	}

	if opts.Title != "" {
		doc.Title = opts.Title
	}
	if doc.Title == "" {
		doc.Title = strings.TrimSuffix(filepath.Base(opts.From), filepath.Ext(opts.From))
	}
	if len(opts.Labels) > 0 {
		doc.Labels = opts.Labels
	}
	corpus.AssignIDs(&doc)

	id, err := repo.Write(doc)
	if err != nil {
		return fmt.Errorf("failed to write doc %s: %w", doc.Title, err)
	}

	fmt.Fprintf(ui.Out, "Successfully imported %d records from %s as doc %d\n", len(doc.Records), opts.From, id)
	return nil
}
