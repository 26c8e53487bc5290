// Package align builds word alignments between the translation line and the
// gloss line of an interlinear instance.
//
// Alignment runs as a cascade: an exact pass over the language line, then
// every configured heuristic in order. Each pass only proposes pairs, which
// are filtered against what earlier passes committed and reduced to a
// monotonic one-gloss-one-word mapping before being merged.
package align

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/revelaction/interlin/igt"
)

// Lemmatizer returns the lemma of each given word, in order.
type Lemmatizer interface {
	Lemmatize(words []string) ([]string, error)
}

type Aligner struct {
	heuristics []Heuristic
	lemmatizer Lemmatizer
	logger     *slog.Logger
}

// NewAligner returns an aligner running heuristics in order. Gloss part
// lemmas come from lem; without one a part lemma is its lowercase text.
func NewAligner(heuristics []Heuristic, lem Lemmatizer, logger *slog.Logger) *Aligner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Aligner{heuristics: heuristics, lemmatizer: lem, logger: logger}
}

// Align replaces the translation alignments of inst and returns the
// committed pairs, sorted.
func (a *Aligner) Align(inst *igt.Instance) ([]Pair, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}

	parts, err := a.glossParts(inst.Gloss)
	if err != nil {
		return nil, fmt.Errorf("instance %q: %w", inst.ID, err)
	}

	ClearBilingual(inst)

	existing := namePass(inst)
	a.logger.Debug("name pass", slog.String("instance", inst.ID), slog.Any("pairs", existing))

	for _, h := range a.heuristics {
		proposed, err := matchPass(h, inst.Trans, parts)
		if err != nil {
			return nil, fmt.Errorf("instance %q: heuristic %s: %w", inst.ID, h.Name, err)
		}

		resolved := Resolve(RemoveConflicts(existing, proposed))
		existing = SortPairs(append(existing, resolved...))

		a.logger.Debug("heuristic pass",
			slog.String("instance", inst.ID),
			slog.String("heuristic", h.Name),
			slog.Int("proposed", len(proposed)),
			slog.Any("committed", resolved))
	}

	for _, p := range existing {
		tok := inst.Gloss.At(p.Gloss)
		if tok == nil {
			return nil, fmt.Errorf("instance %q: no gloss token at %s", inst.ID, p.Gloss)
		}
		inst.Alignments.Add(inst.Trans.Words[p.Trans], tok)
	}

	return existing, nil
}

func (a *Aligner) glossParts(gloss *igt.Phrase) ([]igt.Part, error) {
	parts := gloss.Parts()
	if a.lemmatizer == nil {
		for i := range parts {
			parts[i].Lemma = strings.ToLower(parts[i].Text)
		}
		return parts, nil
	}

	texts := make([]string, len(parts))
	for i, p := range parts {
		texts[i] = p.Text
	}
	lemmas, err := a.lemmatizer.Lemmatize(texts)
	if err != nil {
		return nil, fmt.Errorf("lemmatize gloss: %w", err)
	}
	if len(lemmas) != len(parts) {
		return nil, fmt.Errorf("lemmatize gloss: got %d lemmas for %d parts", len(lemmas), len(parts))
	}
	for i := range parts {
		parts[i].Lemma = strings.ToLower(lemmas[i])
	}
	return parts, nil
}

// namePass pairs translation words with language words of the same surface.
// Language word i stands for the whole gloss word i.
func namePass(inst *igt.Instance) []Pair {
	var existing []Pair
	for _, lw := range inst.Lang.Words {
		for _, tw := range inst.Trans.Words {
			if !strings.EqualFold(lw.Text(), tw.Text()) {
				continue
			}
			existing = Resolve(append(existing, Pair{Trans: tw.Index(), Gloss: igt.WordPos(lw.Index())}))
		}
	}
	return existing
}

func matchPass(h Heuristic, trans *igt.Phrase, parts []igt.Part) ([]Pair, error) {
	var pairs []Pair
	for _, tw := range trans.Words {
		for _, p := range parts {
			ok, err := h.Match(tw, p)
			if err != nil {
				return nil, err
			}
			if ok {
				pairs = append(pairs, Pair{Trans: tw.Index(), Gloss: p.Pos})
			}
		}
	}
	return pairs, nil
}

// ClearBilingual removes every alignment of the translation words. Gloss to
// language alignments are kept.
func ClearBilingual(inst *igt.Instance) {
	for _, tw := range inst.Trans.Words {
		inst.Alignments.ClearWord(tw)
	}
}

// Pairs reads back the translation alignments of inst as pairs.
func Pairs(inst *igt.Instance) []Pair {
	var pairs []Pair
	for _, tw := range inst.Trans.Words {
		for _, tok := range inst.Alignments.Aligned(tw) {
			if tok.Word().Tier() == igt.Gloss {
				pairs = append(pairs, Pair{Trans: tw.Index(), Gloss: tok.Pos()})
			}
		}
	}
	return SortPairs(pairs)
}

// Apply materializes pairs on inst, replacing its translation alignments.
func Apply(inst *igt.Instance, pairs []Pair) error {
	ClearBilingual(inst)
	for _, p := range pairs {
		if p.Trans < 0 || p.Trans >= inst.Trans.Len() {
			return fmt.Errorf("instance %q: no translation word at %d", inst.ID, p.Trans)
		}
		tok := inst.Gloss.At(p.Gloss)
		if tok == nil {
			return fmt.Errorf("instance %q: no gloss token at %s", inst.ID, p.Gloss)
		}
		inst.Alignments.Add(inst.Trans.Words[p.Trans], tok)
	}
	return nil
}
