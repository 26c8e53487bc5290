package main

import (
	"fmt"
	"os"

	"github.com/revelaction/interlin/corpus"
	"github.com/revelaction/interlin/storage"
	"github.com/revelaction/interlin/storage/filesystem"
)

type ExportDocOptions struct {
	To   string
	Text bool
}

// Export command: write a document as JSON, or as plain interlinear text.
func exportDocCommand(repo storage.DocReader, docID int, opts ExportDocOptions, ui UI) error {
	doc, err := repo.Read(docID)
	if err != nil {
		return err
	}

	if opts.Text {
		f, err := os.Create(opts.To)
		if err != nil {
			return err
		}
		if err := corpus.WriteText(f, doc.Records); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	} else if err := filesystem.WriteDoc(opts.To, doc); err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "Successfully exported doc %d (%d records) to %s\n", docID, len(doc.Records), opts.To)
	return nil
}
