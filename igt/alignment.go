package igt

import (
	"slices"
)

// AlignmentIndex is the symmetric alignment relation between the tokens of an
// instance. Add and Remove always update both sides.
type AlignmentIndex struct {
	m map[Token]map[Token]struct{}
}

func NewAlignmentIndex() *AlignmentIndex {
	return &AlignmentIndex{m: map[Token]map[Token]struct{}{}}
}

// Add aligns a and b.
func (a *AlignmentIndex) Add(x, y Token) {
	if x == y {
		return
	}
	a.link(x, y)
	a.link(y, x)
}

func (a *AlignmentIndex) link(x, y Token) {
	set, ok := a.m[x]
	if !ok {
		set = map[Token]struct{}{}
		a.m[x] = set
	}
	set[y] = struct{}{}
}

// Remove deletes the alignment between x and y, if any.
func (a *AlignmentIndex) Remove(x, y Token) {
	a.unlink(x, y)
	a.unlink(y, x)
}

func (a *AlignmentIndex) unlink(x, y Token) {
	set, ok := a.m[x]
	if !ok {
		return
	}
	delete(set, y)
	if len(set) == 0 {
		delete(a.m, x)
	}
}

// Has reports whether x and y are aligned.
func (a *AlignmentIndex) Has(x, y Token) bool {
	_, ok := a.m[x][y]
	return ok
}

// Of returns the tokens aligned to t itself, sorted.
func (a *AlignmentIndex) Of(t Token) []Token {
	set := a.m[t]
	out := make([]Token, 0, len(set))
	for o := range set {
		out = append(out, o)
	}
	slices.SortFunc(out, CompareTokens)
	return out
}

// OfWord returns the effective alignment set of a word: its own alignments
// and the alignments of its sub-words.
func (a *AlignmentIndex) OfWord(w *Word) []Token {
	seen := map[Token]struct{}{}
	for o := range a.m[w] {
		seen[o] = struct{}{}
	}
	for _, sw := range w.subwords {
		for o := range a.m[sw] {
			seen[o] = struct{}{}
		}
	}

	out := make([]Token, 0, len(seen))
	for o := range seen {
		out = append(out, o)
	}
	slices.SortFunc(out, CompareTokens)
	return out
}

// Aligned returns the effective alignments of t: OfWord for words, Of for
// sub-words.
func (a *AlignmentIndex) Aligned(t Token) []Token {
	if w, ok := t.(*Word); ok {
		return a.OfWord(w)
	}
	return a.Of(t)
}

// AlignedWords maps the alignments of t to their owning words, keeping only
// words of the given tiers (all tiers when none given).
func (a *AlignmentIndex) AlignedWords(t Token, tiers ...Tier) []*Word {
	var words []*Word
	for _, o := range a.Aligned(t) {
		w := o.Word()
		if len(tiers) > 0 && !slices.Contains(tiers, w.Tier()) {
			continue
		}
		if !slices.Contains(words, w) {
			words = append(words, w)
		}
	}
	return words
}

// Clear removes every alignment of t (not of its sub-words).
func (a *AlignmentIndex) Clear(t Token) {
	for o := range a.m[t] {
		a.Remove(t, o)
	}
}

// ClearWord removes the alignments of w and of its sub-words.
func (a *AlignmentIndex) ClearWord(w *Word) {
	a.Clear(w)
	for _, sw := range w.subwords {
		a.Clear(sw)
	}
}

// Len returns the number of aligned pairs.
func (a *AlignmentIndex) Len() int {
	n := 0
	for _, set := range a.m {
		n += len(set)
	}
	return n / 2
}

// CompareTokens orders tokens by tier, then position.
func CompareTokens(x, y Token) int {
	tx, ty := x.Word().Tier(), y.Word().Tier()
	if tx != ty {
		return int(tx) - int(ty)
	}
	return x.Pos().Compare(y.Pos())
}
