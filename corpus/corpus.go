// Package corpus holds the serialized form of interlinear documents and the
// conversion between records and in-memory instances.
package corpus

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/revelaction/interlin/align"
	"github.com/revelaction/interlin/analysis"
	"github.com/revelaction/interlin/dep"
	"github.com/revelaction/interlin/igt"
)

type Doc struct {
	Id int `json:"id"`

	Title string `json:"title"`

	Labels  []string `json:"labels,omitempty"`
	Records []Record `json:"records"`
}

// Library is a collection of Doc
type Library []Doc

// Record is one interlinear instance as raw lines, with the analysis of its
// translation line and, once processed, its result.
type Record struct {
	ID    string `json:"id"`
	Lang  string `json:"lang"`
	Gloss string `json:"gloss"`
	Trans string `json:"trans"`

	Analysis []analysis.Token `json:"analysis,omitempty"`
	Result   *Result          `json:"result,omitempty"`

	// Gold is the reference annotation processing is evaluated against.
	Gold *Gold `json:"gold,omitempty"`
}

// Gold holds hand made alignments, in the "trans-gloss" form of
// Result.Alignments, and gloss word tags. Gold alignments address either
// whole gloss words or sub-words, not both.
type Gold struct {
	Alignments []string `json:"alignments,omitempty"`
	GlossTags  []string `json:"gloss_tags,omitempty"`
}

// Result is what processing produced for a record. Error is set when the
// record could not be processed; the other fields may then be partial.
type Result struct {
	Alignments []string `json:"alignments"`
	GlossTags  []string `json:"gloss_tags,omitempty"`
	LangDeps   []Dep    `json:"lang_deps,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func (r *Result) Failed() bool {
	return r != nil && r.Error != ""
}

// Projected reports whether a language dependency structure was produced.
func (r *Result) Projected() bool {
	return r != nil && len(r.LangDeps) > 0
}

// Dep is a language line dependency. Head is -1 for root links.
type Dep struct {
	Child int    `json:"child"`
	Head  int    `json:"head"`
	Type  string `json:"type,omitempty"`
}

// AssignIDs gives a random id to every record without one.
func AssignIDs(doc *Doc) {
	for i := range doc.Records {
		if doc.Records[i].ID == "" {
			doc.Records[i].ID = uuid.NewString()
		}
	}
}

// Build returns the instance for rec, with the stored translation analysis
// applied when present.
func Build(rec Record) (*igt.Instance, error) {
	inst := igt.ParseInstance(rec.ID, rec.Lang, rec.Gloss, rec.Trans)
	if err := inst.Validate(); err != nil {
		return inst, err
	}
	if len(rec.Analysis) > 0 {
		if err := analysis.Apply(inst, rec.Analysis); err != nil {
			return inst, err
		}
	}
	return inst, nil
}

// Capture serializes the alignment, the gloss tags and the projected
// structure of inst. A non-nil err is recorded as the result error.
func Capture(inst *igt.Instance, err error) *Result {
	res := &Result{Alignments: []string{}}
	if err != nil {
		res.Error = err.Error()
	}
	if inst == nil {
		return res
	}

	for _, p := range align.Pairs(inst) {
		res.Alignments = append(res.Alignments, p.String())
	}

	if tags := inst.Gloss.Tags(); hasTags(tags) {
		res.GlossTags = tags
	}

	if inst.Lang.DS != nil {
		for _, l := range inst.Lang.DS.Links() {
			d := Dep{Child: l.Child.Index(), Head: -1, Type: l.Type}
			if !l.IsRoot() {
				d.Head = l.Parent.Index()
			}
			res.LangDeps = append(res.LangDeps, d)
		}
	}
	return res
}

func hasTags(tags []string) bool {
	for _, t := range tags {
		if t != "" {
			return true
		}
	}
	return false
}

// Restore rebuilds the processed instance of rec from its stored result.
func Restore(rec Record) (*igt.Instance, error) {
	inst, err := Build(rec)
	if err != nil {
		return inst, err
	}
	if rec.Result == nil {
		return inst, nil
	}

	pairs := make([]align.Pair, 0, len(rec.Result.Alignments))
	for _, s := range rec.Result.Alignments {
		p, err := align.ParsePair(s)
		if err != nil {
			return inst, fmt.Errorf("record %q: %w", rec.ID, err)
		}
		pairs = append(pairs, p)
	}
	if err := align.Apply(inst, pairs); err != nil {
		return inst, err
	}

	for i, t := range rec.Result.GlossTags {
		if i < inst.Gloss.Len() {
			inst.Gloss.Words[i].SetTag(t)
		}
	}

	if len(rec.Result.LangDeps) > 0 {
		ds := dep.New()
		words := inst.Lang.Words
		for _, d := range rec.Result.LangDeps {
			if d.Child < 0 || d.Child >= len(words) || d.Head >= len(words) {
				return inst, fmt.Errorf("record %q: %w: dependency %d -> %d", rec.ID, igt.ErrMisaligned, d.Child, d.Head)
			}
			l := dep.Link{Child: words[d.Child], Type: d.Type}
			if d.Head >= 0 {
				l.Parent = words[d.Head]
			}
			ds.Add(l)
		}
		inst.Lang.DS = ds
	}
	return inst, nil
}

// GlossParts returns the distinct lowercase gloss parts of rec, sorted.
func GlossParts(rec Record) []string {
	p := igt.PhraseFromString(igt.Gloss, rec.Gloss, "gw")
	var parts []string
	for _, part := range p.Parts() {
		s := strings.ToLower(part.Text)
		if !slices.Contains(parts, s) {
			parts = append(parts, s)
		}
	}
	slices.Sort(parts)
	return parts
}

// HasParts reports whether the gloss line of rec contains every part.
func HasParts(rec Record, parts []string) bool {
	have := GlossParts(rec)
	for _, p := range parts {
		if !slices.Contains(have, strings.ToLower(p)) {
			return false
		}
	}
	return true
}
