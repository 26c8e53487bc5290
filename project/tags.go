package project

import (
	"slices"

	"github.com/revelaction/interlin/igt"
)

// Precedence orders coarse tags from most to least specific. Tags not listed
// rank below all of them.
var Precedence = []string{
	"PROPN", "NOUN", "VERB", "ADJ", "ADV", "PRON", "DET", "ADP", "CONJ",
	"CCONJ", "PART", "PRT", "NUM", "PUNC", "X", "SYM", "INTJ", "PUNCT",
}

func rank(tag string) int {
	if i := slices.Index(Precedence, tag); i >= 0 {
		return i
	}
	return len(Precedence)
}

// MoreSpecific reports whether tag a outranks tag b.
func MoreSpecific(a, b string) bool {
	return rank(a) < rank(b)
}

// Tags copies the tag of every translation word onto the gloss tokens aligned
// to it, unless the gloss token already has a more specific tag. Gloss words
// then take the most specific tag among their sub-words, or none.
func Tags(inst *igt.Instance) {
	for _, tw := range inst.Trans.Words {
		tag := tw.Tag()
		if tag == "" {
			continue
		}
		for _, tok := range inst.Alignments.Aligned(tw) {
			if tok.Word().Tier() != igt.Gloss {
				continue
			}
			if tok.Tag() == "" || MoreSpecific(tag, tok.Tag()) {
				tok.SetTag(tag)
			}
		}
	}

	for _, gw := range inst.Gloss.Words {
		combineSubWordTags(gw)
	}
}

func combineSubWordTags(w *igt.Word) {
	best := ""
	for _, sw := range w.SubWords() {
		t := sw.Tag()
		if t == "" {
			continue
		}
		if best == "" || MoreSpecific(t, best) {
			best = t
		}
	}
	w.SetTag(best)
}

// ClearTags removes word and sub-word tags of p.
func ClearTags(p *igt.Phrase) {
	for _, w := range p.Words {
		w.SetTag("")
		for _, sw := range w.SubWords() {
			sw.SetTag("")
		}
	}
}
