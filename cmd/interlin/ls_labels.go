package main

import (
	"fmt"

	"github.com/revelaction/interlin/storage"
)

func lsLabelsCommand(repo storage.DocReader, pattern string, ui UI) error {
	labels, err := repo.Labels(pattern)
	if err != nil {
		return err
	}

	for _, l := range labels {
		fmt.Fprintf(ui.Out, "🏷  %s\n", l)
	}
	return nil
}
