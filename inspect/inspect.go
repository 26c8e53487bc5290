// Package inspect is an interactive prompt to browse the instances of one
// document.
package inspect

import (
	"fmt"
	"slices"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/interlin/corpus"
	"github.com/revelaction/interlin/pipeline"
	"github.com/revelaction/interlin/render"
)

var commands = []prompt.Suggest{
	{Text: "ls", Description: "list records and their status"},
	{Text: "find", Description: "records whose gloss has all the given parts"},
	{Text: "run", Description: "process a record again"},
	{Text: "quit", Description: "exit"},
}

type Handler struct {
	Doc      corpus.Doc
	Runner   *pipeline.Runner
	Renderer *render.Renderer

	index map[string]int
}

// NewHandler returns a handler for doc. runner may be nil; records are then
// shown from their stored results only.
func NewHandler(doc corpus.Doc, runner *pipeline.Runner, r *render.Renderer) *Handler {
	h := &Handler{Doc: doc, Runner: runner, Renderer: r, index: map[string]int{}}
	for i, rec := range doc.Records {
		h.index[rec.ID] = i
	}
	return h
}

func (h *Handler) Run() error {
	fmt.Fprintln(h.Renderer.Out, "🔑 Ctrl+X: Toggle prefix, Ctrl+F: next Format, 🔧 quit")

	// initialize prompt history
	history := []string{}

	for {
		in := prompt.Input("      🔎 ", h.completer,
			prompt.OptionTitle("interlin inspect"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextFormat()
					fmt.Fprintln(h.Renderer.Out, "Format set to: "+h.Renderer.Format)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextPrefix()
					fmt.Fprintf(h.Renderer.Out, "Prefix set to %t\n", h.Renderer.HasPrefix)
				}}),
		)

		history = append(history, in)
		if h.Exec(in) {
			return nil
		}
	}
}

// Exec runs one prompt line and reports whether the prompt should end.
func (h *Handler) Exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	out := h.Renderer.Out
	switch fields[0] {
	case "quit", "exit":
		return true
	case "ls":
		for _, rec := range h.Doc.Records {
			fmt.Fprintf(out, "%s\t%s\n", rec.ID, status(rec.Result))
		}
	case "find":
		if len(fields) < 2 {
			fmt.Fprintln(out, "❌ find needs at least one gloss part")
			return false
		}
		n := 0
		for _, rec := range h.Doc.Records {
			if corpus.HasParts(rec, fields[1:]) {
				fmt.Fprintf(out, "%s\t%s\n", rec.ID, rec.Gloss)
				n++
			}
		}
		fmt.Fprintf(out, "%d records\n", n)
	case "run":
		if len(fields) != 2 {
			fmt.Fprintln(out, "❌ usage: run <record id>")
			return false
		}
		h.run(fields[1])
	default:
		h.show(fields[0])
	}
	return false
}

func (h *Handler) show(id string) {
	i, ok := h.index[id]
	if !ok {
		fmt.Fprintf(h.Renderer.Out, "❌ no record %q\n", id)
		return
	}

	rec := h.Doc.Records[i]
	if rec.Result == nil && h.Runner != nil {
		h.run(id)
		return
	}

	inst, err := corpus.Restore(rec)
	item := render.Item{DocID: h.Doc.Id, DocTitle: h.Doc.Title, Instance: inst}
	switch {
	case err != nil:
		item.Error = err.Error()
	case rec.Result != nil:
		item.Error = rec.Result.Error
	}
	h.Renderer.Item(item)
}

func (h *Handler) run(id string) {
	i, ok := h.index[id]
	if !ok {
		fmt.Fprintf(h.Renderer.Out, "❌ no record %q\n", id)
		return
	}
	if h.Runner == nil {
		fmt.Fprintln(h.Renderer.Out, "❌ no runner")
		return
	}

	inst, res := h.Runner.Process(h.Doc.Records[i])
	h.Doc.Records[i].Result = res
	h.Renderer.Item(render.Item{DocID: h.Doc.Id, DocTitle: h.Doc.Title, Instance: inst, Error: res.Error})
}

func (h *Handler) completer(in prompt.Document) []prompt.Suggest {
	return h.suggest(in.TextBeforeCursor())
}

// suggest completes commands and record ids for the text before the cursor.
func (h *Handler) suggest(before string) []prompt.Suggest {
	if before == "" {
		return []prompt.Suggest{}
	}

	tokens := strings.Split(before, " ")
	word := tokens[len(tokens)-1]

	switch {
	case len(tokens) == 1:
		s := prompt.FilterHasPrefix(commands, word, true)
		return append(s, h.ids(word)...)
	case len(tokens) == 2 && tokens[0] == "run":
		return h.ids(word)
	}
	return []prompt.Suggest{}
}

func (h *Handler) ids(prefix string) []prompt.Suggest {
	var s []prompt.Suggest
	for _, rec := range h.Doc.Records {
		if strings.HasPrefix(rec.ID, prefix) {
			s = append(s, prompt.Suggest{Text: rec.ID, Description: status(rec.Result)})
		}
	}
	slices.SortFunc(s, func(a, b prompt.Suggest) int { return strings.Compare(a.Text, b.Text) })
	return s
}

func status(res *corpus.Result) string {
	switch {
	case res == nil:
		return "pending"
	case res.Failed():
		return "failed"
	case res.Projected():
		return "projected"
	default:
		return "aligned"
	}
}
