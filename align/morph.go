package align

import (
	"fmt"

	"github.com/revelaction/interlin/igt"
)

// GlossToMorph aligns gloss sub-words with language sub-words.
//
// In strict mode the i-th gloss sub-word of the phrase is aligned with the
// i-th language sub-word, and differing counts fail with igt.ErrMisaligned.
// Otherwise words are paired by index: a word of one sub-word is aligned
// with every sub-word on the other side, equal counts are paired in order,
// and each gloss word is also aligned with its language word.
func GlossToMorph(inst *igt.Instance, strict bool) error {
	if inst.Lang == nil || inst.Gloss == nil || inst.Lang.Len() == 0 || inst.Gloss.Len() == 0 {
		return fmt.Errorf("instance %q: %w: language and gloss lines are required", inst.ID, igt.ErrMissingLine)
	}

	if strict {
		return strictMorphs(inst)
	}

	if inst.Lang.Len() != inst.Gloss.Len() {
		return fmt.Errorf("instance %q: %w: %d language words, %d gloss words",
			inst.ID, igt.ErrMisaligned, inst.Lang.Len(), inst.Gloss.Len())
	}

	for i, lw := range inst.Lang.Words {
		gw := inst.Gloss.Words[i]
		lsw, gsw := lw.SubWords(), gw.SubWords()

		switch {
		case len(lsw) == 1:
			for _, g := range gsw {
				inst.Alignments.Add(g, lsw[0])
			}
		case len(gsw) == 1:
			for _, l := range lsw {
				inst.Alignments.Add(gsw[0], l)
			}
		case len(lsw) == len(gsw):
			for j := range lsw {
				inst.Alignments.Add(gsw[j], lsw[j])
			}
		default:
			return fmt.Errorf("instance %q: %w: cannot pair %q with %q",
				inst.ID, igt.ErrMisaligned, lw.Hyphenated(), gw.Hyphenated())
		}
		inst.Alignments.Add(gw, lw)
	}
	return nil
}

func strictMorphs(inst *igt.Instance) error {
	lsw := inst.Lang.SubWords()
	gsw := inst.Gloss.SubWords()
	if len(lsw) != len(gsw) {
		return fmt.Errorf("instance %q: %w: %d morphs, %d glosses",
			inst.ID, igt.ErrMisaligned, len(lsw), len(gsw))
	}
	for i, g := range gsw {
		inst.Alignments.Add(g, lsw[i])
	}
	return nil
}

// ClearMorphs removes every alignment between the gloss and language lines.
func ClearMorphs(inst *igt.Instance) {
	for _, gw := range inst.Gloss.Words {
		for _, tok := range inst.Alignments.Aligned(gw) {
			if tok.Word().Tier() == igt.Lang {
				inst.Alignments.Remove(gw, tok)
				for _, sw := range gw.SubWords() {
					inst.Alignments.Remove(sw, tok)
				}
			}
		}
	}
}
