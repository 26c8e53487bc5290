package main

import (
	"github.com/revelaction/interlin/inspect"
	"github.com/revelaction/interlin/pipeline"
	"github.com/revelaction/interlin/render"
	"github.com/revelaction/interlin/storage"
)

// Inspect command: browse the records of a document in a prompt. Records
// processed again in the prompt are saved on exit.
func inspectCommand(repo storage.DocRepository, runner *pipeline.Runner, docID int, noColor bool, ui UI) error {
	doc, err := repo.Read(docID)
	if err != nil {
		return err
	}

	r := render.NewRenderer(ui.Out)
	r.HasColor = !noColor

	h := inspect.NewHandler(doc, runner, r)
	if err := h.Run(); err != nil {
		return err
	}
	return repo.WriteResults(doc.Id, h.Doc.Records)
}
