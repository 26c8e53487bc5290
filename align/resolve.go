package align

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/revelaction/interlin/igt"
)

// Pair aligns the translation word at index Trans with the gloss token at
// Gloss. Gloss addresses either a whole gloss word or one of its sub-words.
type Pair struct {
	Trans int
	Gloss igt.Pos
}

func (p Pair) String() string {
	return fmt.Sprintf("%d-%s", p.Trans, p.Gloss)
}

// ParsePair parses the "trans-gloss" form produced by String.
func ParsePair(s string) (Pair, error) {
	t, g, ok := strings.Cut(s, "-")
	if !ok {
		return Pair{}, fmt.Errorf("invalid alignment pair %q", s)
	}
	trans, err := strconv.Atoi(t)
	if err != nil {
		return Pair{}, fmt.Errorf("invalid alignment pair %q: %w", s, err)
	}
	gloss, err := igt.ParsePos(g)
	if err != nil {
		return Pair{}, fmt.Errorf("invalid alignment pair %q: %w", s, err)
	}
	return Pair{Trans: trans, Gloss: gloss}, nil
}

func comparePairs(a, b Pair) int {
	if c := cmp.Compare(a.Trans, b.Trans); c != 0 {
		return c
	}
	return a.Gloss.Compare(b.Gloss)
}

// SortPairs sorts by translation index, then gloss position, and drops
// duplicates.
func SortPairs(pairs []Pair) []Pair {
	out := slices.Clone(pairs)
	slices.SortFunc(out, comparePairs)
	return slices.Compact(out)
}

// Resolve reduces many-to-many candidate pairs monotonically.
//
// Gloss positions are visited in ascending order; each takes the smallest
// candidate translation index not yet taken by an earlier gloss, or its
// largest candidate when all are taken. Translation indexes left without a
// gloss are then attached to their smallest candidate gloss. Every gloss
// position of the input appears exactly once in the output and every
// translation index at least once.
func Resolve(pairs []Pair) []Pair {
	pairs = SortPairs(pairs)

	byGloss := map[igt.Pos][]int{}
	byTrans := map[int][]igt.Pos{}
	free := map[int]bool{}
	var glosses []igt.Pos

	for _, p := range pairs {
		if _, ok := byGloss[p.Gloss]; !ok {
			glosses = append(glosses, p.Gloss)
		}
		byGloss[p.Gloss] = append(byGloss[p.Gloss], p.Trans)
		byTrans[p.Trans] = append(byTrans[p.Trans], p.Gloss)
		free[p.Trans] = true
	}

	for t := range byGloss {
		slices.Sort(byGloss[t])
	}
	for t := range byTrans {
		slices.SortFunc(byTrans[t], igt.Pos.Compare)
	}
	slices.SortFunc(glosses, igt.Pos.Compare)

	var resolved []Pair
	for _, g := range glosses {
		cands := byGloss[g]
		word := cands[len(cands)-1]
		for _, c := range cands {
			if free[c] {
				word = c
				break
			}
		}
		resolved = append(resolved, Pair{Trans: word, Gloss: g})
		free[word] = false
	}

	for t, isFree := range free {
		if isFree {
			resolved = append(resolved, Pair{Trans: t, Gloss: byTrans[t][0]})
		}
	}

	return SortPairs(resolved)
}

// RemoveConflicts drops proposed pairs whose translation index or gloss
// position is already used by an existing pair. A pair is kept anyway when
// its unaligned side has no other candidate among the proposals.
func RemoveConflicts(existing, proposed []Pair) []Pair {
	proposed = SortPairs(proposed)

	alignedTrans := map[int]bool{}
	var alignedGloss []igt.Pos
	for _, p := range existing {
		alignedTrans[p.Trans] = true
		alignedGloss = append(alignedGloss, p.Gloss)
	}

	glossAligned := func(g igt.Pos) bool {
		return slices.ContainsFunc(alignedGloss, g.Overlaps)
	}

	transCands := map[int]int{}
	glossCands := map[igt.Pos]int{}
	for _, p := range proposed {
		transCands[p.Trans]++
		glossCands[p.Gloss]++
	}

	var kept []Pair
	for _, p := range proposed {
		tAligned := alignedTrans[p.Trans]
		gAligned := glossAligned(p.Gloss)

		switch {
		case !tAligned && !gAligned:
			kept = append(kept, p)
		case !tAligned && transCands[p.Trans] == 1:
			kept = append(kept, p)
		case !gAligned && glossCands[p.Gloss] == 1:
			kept = append(kept, p)
		}
	}
	return kept
}
