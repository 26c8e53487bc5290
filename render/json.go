package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/interlin/corpus"
)

// JSONRenderer writes items as a JSON array to a writer.
type JSONRenderer struct {
	W io.Writer
}

type jsonItem struct {
	DocID    int            `json:"doc_id"`
	DocTitle string         `json:"doc_title,omitempty"`
	ID       string         `json:"id"`
	Lang     string         `json:"lang"`
	Gloss    string         `json:"gloss"`
	Trans    string         `json:"trans"`
	Result   *corpus.Result `json:"result"`
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Render serializes every item with its captured result. Items without an
// instance are skipped.
func (r *JSONRenderer) Render(items []Item) {
	out := []jsonItem{}
	for _, it := range items {
		inst := it.Instance
		if inst == nil {
			continue
		}
		res := corpus.Capture(inst, nil)
		res.Error = it.Error
		out = append(out, jsonItem{
			DocID:    it.DocID,
			DocTitle: it.DocTitle,
			ID:       inst.ID,
			Lang:     inst.Lang.Hyphenated(),
			Gloss:    inst.Gloss.Hyphenated(),
			Trans:    inst.Trans.String(),
			Result:   res,
		})
	}
	json.NewEncoder(r.W).Encode(out)
}

// compile-time interface check
var _ Printer = (*JSONRenderer)(nil)
