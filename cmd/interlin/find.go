package main

import (
	"fmt"

	"github.com/revelaction/interlin/storage"
)

const findBatch = 500

// Find command: records whose gloss line has all the given parts.
func findCommand(repo storage.DocReader, parts []string, limit int, ui UI) error {
	cursor := storage.Cursor(0)
	found := 0
	for {
		batch := findBatch
		if limit > 0 {
			batch = min(batch, limit-found)
		}

		newCursor, err := repo.FindCandidates(parts, cursor, batch, func(c storage.Candidate) error {
			found++
			fmt.Fprintf(ui.Out, "[%d %s] %s\t%s\n", c.DocID, c.DocTitle, c.Record.ID, c.Record.Gloss)
			return nil
		})
		if err != nil {
			return err
		}
		if newCursor == cursor {
			break // No more progress
		}
		if limit > 0 && found >= limit {
			break
		}
		cursor = newCursor
	}

	fmt.Fprintf(ui.Out, "%d records\n", found)
	return nil
}
