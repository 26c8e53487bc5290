// Package project transfers annotation from the translation line to the
// language line through the word alignment: part of speech tags to the gloss
// line and the dependency structure to the language line.
package project

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/revelaction/interlin/dep"
	"github.com/revelaction/interlin/igt"
)

var ErrNoStructure = errors.New("translation has no dependency structure")

// Structure projects the translation dependency structure onto the language
// line and assigns it to inst.Lang.DS.
//
// Unaligned translation words are removed, promoting their children. Every
// aligned translation word is replaced by each language word it reaches
// through the alignment. A language word reached from several translation
// words keeps only its shallowest attachment. Language words still outside
// the structure are attached next to their nearest aligned neighbours.
//
// When no language word is reached the projection is abandoned: nil is
// returned without error and inst is left unchanged.
func Structure(inst *igt.Instance, logger *slog.Logger) (*dep.Structure, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if inst.Trans.DS == nil {
		return nil, fmt.Errorf("instance %q: %w", inst.ID, ErrNoStructure)
	}

	ds := inst.Trans.DS.Copy()

	for _, tw := range inst.Trans.Words {
		if len(inst.Alignments.Aligned(tw)) == 0 {
			ds.RemoveWord(tw, true)
		}
	}

	for _, tw := range inst.Trans.Words {
		if len(inst.Alignments.Aligned(tw)) == 0 {
			continue
		}
		for _, lw := range LangWords(inst, tw) {
			ds.ReplaceWord(tw, lw, false)
		}
		ds.RemoveWord(tw, false)
	}

	var aligned, unaligned []*igt.Word
	for _, lw := range inst.Lang.Words {
		if ds.Contains(lw) {
			aligned = append(aligned, lw)
		} else {
			unaligned = append(unaligned, lw)
		}
	}

	for _, lw := range aligned {
		if err := keepShallowest(ds, lw); err != nil {
			return nil, fmt.Errorf("instance %q: %w", inst.ID, err)
		}
	}

	if len(aligned) == 0 {
		logger.Warn("no words were aligned, structure projection aborted", slog.String("instance", inst.ID))
		return nil, nil
	}

	var attach []dep.Link
	for _, uw := range unaligned {
		parent := attachmentSite(ds, uw, aligned)
		if parent == nil {
			logger.Info("no attachment site found",
				slog.String("instance", inst.ID),
				slog.String("word", uw.ID),
				slog.String("text", uw.Hyphenated()))
			continue
		}
		logger.Debug("reattaching unaligned word",
			slog.String("instance", inst.ID),
			slog.String("word", uw.ID),
			slog.String("parent", parent.ID))
		attach = append(attach, dep.Link{Child: uw, Parent: parent})
	}
	for _, l := range attach {
		ds.Add(l)
	}

	inst.Lang.DS = ds
	return ds, nil
}

// LangWords returns the language words a translation word reaches: words it
// is aligned to directly, and the language words aligned to the gloss words
// it is aligned to. The result is ordered by index.
func LangWords(inst *igt.Instance, tw *igt.Word) []*igt.Word {
	var out []*igt.Word
	add := func(w *igt.Word) {
		if !slices.Contains(out, w) {
			out = append(out, w)
		}
	}

	for _, w := range inst.Alignments.AlignedWords(tw) {
		switch w.Tier() {
		case igt.Lang:
			add(w)
		case igt.Gloss:
			for _, lw := range inst.Alignments.AlignedWords(w, igt.Lang) {
				add(lw)
			}
		}
	}

	slices.SortFunc(out, func(a, b *igt.Word) int { return a.Index() - b.Index() })
	return out
}

// keepShallowest removes every parent link of n deeper than its shallowest
// one. Links whose depth cannot be computed are dropped as long as one link
// reaches a root.
func keepShallowest(ds *dep.Structure, n dep.Node) error {
	links := ds.ParentLinks(n)
	if len(links) < 2 {
		return nil
	}

	depths := make([]int, len(links))
	minDepth := -1
	var lastErr error
	for i, l := range links {
		d, err := ds.Depth(l)
		if err != nil {
			depths[i] = -1
			lastErr = err
			continue
		}
		depths[i] = d
		if minDepth < 0 || d < minDepth {
			minDepth = d
		}
	}

	if minDepth < 0 {
		return lastErr
	}

	for i, l := range links {
		if depths[i] < 0 || depths[i] > minDepth {
			ds.Remove(l)
		}
	}
	return nil
}

// attachmentSite picks the parent of an unaligned word w. With aligned words
// only on one side, it is the closest of them. Otherwise the closest pair of
// left and right words where one is the direct parent of the other gives the
// dependent one of the pair.
func attachmentSite(ds *dep.Structure, w *igt.Word, aligned []*igt.Word) *igt.Word {
	j := w.Index()

	var left, right []*igt.Word
	for _, a := range aligned {
		switch {
		case a.Index() < j:
			left = append(left, a)
		case a.Index() > j:
			right = append(right, a)
		}
	}
	slices.Reverse(left)

	switch {
	case len(right) == 0 && len(left) > 0:
		return left[0]
	case len(left) == 0 && len(right) > 0:
		return right[0]
	case len(left) == 0:
		return nil
	}

	type pair struct {
		l, r *igt.Word
		dist int
	}
	var pairs []pair
	for _, l := range left {
		for _, r := range right {
			pairs = append(pairs, pair{l: l, r: r, dist: (j - l.Index()) + (r.Index() - j)})
		}
	}
	slices.SortStableFunc(pairs, func(a, b pair) int { return a.dist - b.dist })

	for _, p := range pairs {
		if slices.Contains(ds.Parents(p.l), dep.Node(p.r)) {
			return p.l
		}
		if slices.Contains(ds.Parents(p.r), dep.Node(p.l)) {
			return p.r
		}
	}
	return nil
}
