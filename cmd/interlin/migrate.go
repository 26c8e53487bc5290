package main

import (
	"fmt"

	"github.com/gosuri/uiprogress"

	"github.com/revelaction/interlin/storage"
)

// Migrate command: copy every document, with its results, from src to dst.
func migrateCommand(src storage.DocReader, dst storage.DocWriter, progress bool, ui UI) error {
	if p, ok := src.(storage.Preloader); ok && progress {
		fmt.Fprintln(ui.Out, "Loading docs...")
		if err := p.Preload(nil); err != nil {
			return err
		}
	}

	docs, err := src.List("")
	if err != nil {
		return err
	}

	var bar *uiprogress.Bar
	if progress {
		uiprogress.Start()
		bar = uiprogress.AddBar(len(docs))
		bar.AppendCompleted()
		bar.PrependElapsed()
		defer uiprogress.Stop()
	}

	count := 0
	for _, meta := range docs {
		doc, err := src.Read(meta.Id)
		if err != nil {
			return fmt.Errorf("failed to read doc %s: %w", meta.Title, err)
		}

		if _, err := dst.Write(doc); err != nil {
			return fmt.Errorf("failed to write doc %s: %w", meta.Title, err)
		}
		count++
		if bar != nil {
			bar.Incr()
		}
	}

	fmt.Fprintf(ui.Out, "Successfully migrated %d docs\n", count)
	return nil
}
