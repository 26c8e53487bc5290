// Package eval scores processed records against their gold annotation:
// translation to gloss alignments and projected gloss word tags.
package eval

import (
	"errors"
	"fmt"
	"slices"

	"github.com/revelaction/interlin/align"
	"github.com/revelaction/interlin/corpus"
	"github.com/revelaction/interlin/igt"
)

// NoTag is the predicted label of a gold tagged word left untagged.
const NoTag = "NONE"

var (
	ErrMixedGold = errors.New("gold alignments mix words and sub-words")
	ErrTagCount  = errors.New("gold and system tag counts differ")
)

// PRF counts matches between system and gold items.
type PRF struct {
	Instances int
	Compares  int

	Matches int
	System  int
	Gold    int
}

func (p PRF) Precision() float64 {
	if p.System == 0 {
		return 0
	}
	return float64(p.Matches) / float64(p.System)
}

func (p PRF) Recall() float64 {
	if p.Gold == 0 {
		return 0
	}
	return float64(p.Matches) / float64(p.Gold)
}

// FMeasure is the harmonic mean of precision and recall.
func (p PRF) FMeasure() float64 {
	pr, rc := p.Precision(), p.Recall()
	if pr+rc == 0 {
		return 0
	}
	return 2 * pr * rc / (pr + rc)
}

// Tagging is the PRF of gloss word tags plus a breakdown per label.
type Tagging struct {
	PRF

	// per label, Gold counts words with that gold tag and System words
	// predicted with it
	Labels map[string]*PRF

	// gold tag -> predicted tag -> words
	Confusion map[string]map[string]int
}

func (t *Tagging) add(gold, pred string) {
	t.Compares++
	t.Gold++
	if pred != "" {
		t.System++
	}
	if pred == "" {
		pred = NoTag
	}
	if gold == pred {
		t.Matches++
	}

	t.label(gold).Gold++
	if pred != NoTag {
		t.label(pred).System++
	}
	if gold == pred {
		t.label(gold).Matches++
	}

	row, ok := t.Confusion[gold]
	if !ok {
		row = map[string]int{}
		t.Confusion[gold] = row
	}
	row[pred]++
}

func (t *Tagging) label(l string) *PRF {
	p, ok := t.Labels[l]
	if !ok {
		p = &PRF{}
		t.Labels[l] = p
	}
	return p
}

// SortedLabels returns the labels seen as gold or prediction.
func (t *Tagging) SortedLabels() []string {
	labels := make([]string, 0, len(t.Labels))
	for l := range t.Labels {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	return labels
}

type Report struct {
	Alignments PRF
	Tags       Tagging
}

type Handler struct {
	report Report
}

func NewHandler() *Handler {
	return &Handler{
		report: Report{Tags: Tagging{
			Labels:    map[string]*PRF{},
			Confusion: map[string]map[string]int{},
		}},
	}
}

func (h *Handler) Get() Report {
	return h.report
}

// Aggregate scores the records of doc that have both a result and a gold
// annotation.
func (h *Handler) Aggregate(doc corpus.Doc) error {
	for _, rec := range doc.Records {
		if rec.Gold == nil || rec.Result == nil {
			continue
		}
		if len(rec.Gold.Alignments) > 0 {
			if err := h.alignments(rec); err != nil {
				return fmt.Errorf("record %q: %w", rec.ID, err)
			}
		}
		if hasTags(rec.Gold.GlossTags) {
			if err := h.tags(rec); err != nil {
				return fmt.Errorf("record %q: %w", rec.ID, err)
			}
		}
	}
	return nil
}

// alignments compares at the granularity of the gold pairs: system pairs are
// reduced to their gloss word for word level gold, and only sub-word pairs
// count against sub-word gold.
func (h *Handler) alignments(rec corpus.Record) error {
	gold, err := pairSet(rec.Gold.Alignments)
	if err != nil {
		return err
	}

	words, subs := 0, 0
	for p := range gold {
		if p.Gloss.IsWord() {
			words++
		} else {
			subs++
		}
	}
	if words > 0 && subs > 0 {
		return ErrMixedGold
	}

	sys, err := pairSet(rec.Result.Alignments)
	if err != nil {
		return err
	}

	hyp := map[align.Pair]struct{}{}
	for p := range sys {
		switch {
		case words > 0:
			hyp[align.Pair{Trans: p.Trans, Gloss: igt.WordPos(p.Gloss.Word)}] = struct{}{}
		case !p.Gloss.IsWord():
			hyp[p] = struct{}{}
		}
	}

	a := &h.report.Alignments
	for p := range gold {
		if _, ok := hyp[p]; ok {
			a.Matches++
		}
	}
	a.System += len(hyp)
	a.Gold += len(gold)
	a.Compares += len(gold)
	a.Instances++
	return nil
}

func (h *Handler) tags(rec corpus.Record) error {
	gold := rec.Gold.GlossTags
	sys := rec.Result.GlossTags
	if len(sys) == 0 {
		sys = make([]string, len(gold))
	}
	if len(sys) != len(gold) {
		return fmt.Errorf("%w: %d gold, %d system", ErrTagCount, len(gold), len(sys))
	}

	h.report.Tags.Instances++
	for i, g := range gold {
		if g == "" {
			continue
		}
		h.report.Tags.add(g, sys[i])
	}
	return nil
}

func pairSet(ss []string) (map[align.Pair]struct{}, error) {
	set := make(map[align.Pair]struct{}, len(ss))
	for _, s := range ss {
		p, err := align.ParsePair(s)
		if err != nil {
			return nil, err
		}
		set[p] = struct{}{}
	}
	return set, nil
}

func hasTags(tags []string) bool {
	return slices.ContainsFunc(tags, func(t string) bool { return t != "" })
}
