package main

import (
	"fmt"

	"github.com/revelaction/interlin/stat"
	"github.com/revelaction/interlin/storage"
)

func statCommand(repo storage.DocReader, ids []int, ui UI) error {
	ids, err := docIDs(repo, ids)
	if err != nil {
		return err
	}

	hdl := stat.NewHandler()
	for _, id := range ids {
		doc, err := repo.Read(id)
		if err != nil {
			return err
		}
		hdl.Aggregate(doc)
	}

	stats := hdl.Get()
	fmt.Fprintf(ui.Out, "Num docs %d, num records %d, processed %d, failed %d\n", stats.NumDocs, stats.NumRecords, stats.NumProcessed, stats.NumFailed)
	fmt.Fprintf(ui.Out, "Alignments %d, translation words aligned %d/%d (%.1f%%)\n", stats.NumAlignments, stats.NumAlignedTrans, stats.NumTransWords, 100*stats.AlignmentCoverage())
	fmt.Fprintf(ui.Out, "Projected %d/%d (%.1f%%)\n", stats.NumProjected, stats.NumProcessed, 100*stats.ProjectionCoverage())

	return nil
}
