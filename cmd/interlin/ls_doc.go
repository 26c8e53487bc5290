package main

import (
	"fmt"
	"strings"

	"github.com/revelaction/interlin/storage"
)

func lsDocCommand(repo storage.DocReader, labelMatch string, ui UI) error {
	docs, err := repo.List(labelMatch)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		if len(doc.Labels) == 0 {
			fmt.Fprintf(ui.Out, "📖 %d %s\n", doc.Id, doc.Title)
			continue
		}
		fmt.Fprintf(ui.Out, "📖 %d %s 🏷  %s\n", doc.Id, doc.Title, strings.Join(doc.Labels, ","))
	}

	return nil
}
