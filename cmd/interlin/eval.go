package main

import (
	"fmt"
	"io"

	"github.com/revelaction/interlin/eval"
	"github.com/revelaction/interlin/storage"
)

func evalCommand(repo storage.DocReader, ids []int, ui UI) error {
	ids, err := docIDs(repo, ids)
	if err != nil {
		return err
	}

	hdl := eval.NewHandler()
	for _, id := range ids {
		doc, err := repo.Read(id)
		if err != nil {
			return err
		}
		if err := hdl.Aggregate(doc); err != nil {
			return fmt.Errorf("doc %d: %w", id, err)
		}
	}

	report := hdl.Get()
	fmt.Fprintln(ui.Out, "Alignment evaluation:")
	printPRF(ui.Out, report.Alignments)

	fmt.Fprintln(ui.Out, "POS evaluation (gloss):")
	printPRF(ui.Out, report.Tags.PRF)
	if len(report.Tags.Labels) > 0 {
		printLabels(ui.Out, report.Tags)
	}
	return nil
}

func printPRF(w io.Writer, p eval.PRF) {
	for _, c := range []struct {
		name string
		val  int
	}{
		{"Instances:", p.Instances},
		{"Sys Counts:", p.System},
		{"Gold Counts:", p.Gold},
		{"Matches:", p.Matches},
	} {
		fmt.Fprintf(w, "%20s %d\n", c.name, c.val)
	}
	fmt.Fprintf(w, "%20s %.2f\n", "Precision:", p.Precision())
	fmt.Fprintf(w, "%20s %.2f\n", "Recall:", p.Recall())
	fmt.Fprintf(w, "%20s %.2f\n", "F-Measure:", p.FMeasure())
}

// printLabels writes the per label scores and the confusion matrix, gold tags
// in rows.
func printLabels(w io.Writer, t eval.Tagging) {
	labels := t.SortedLabels()

	fmt.Fprintf(w, "\n%8s %9s %9s %9s %9s\n", "", "precision", "recall", "f1", "support")
	for _, l := range labels {
		p := t.Labels[l]
		fmt.Fprintf(w, "%8s %9.2f %9.2f %9.2f %9d\n", l, p.Precision(), p.Recall(), p.FMeasure(), p.Gold)
	}

	cols := append(labels, eval.NoTag)
	fmt.Fprintf(w, "\n%8s", "t/p")
	for _, c := range cols {
		fmt.Fprintf(w, " %6s", c)
	}
	fmt.Fprintln(w)
	for _, l := range labels {
		row, ok := t.Confusion[l]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%8s", l)
		for _, c := range cols {
			fmt.Fprintf(w, " %6d", row[c])
		}
		fmt.Fprintln(w)
	}
}
