package igt

import (
	"fmt"
	"strconv"
	"strings"
)

// Pos is the ordering key of a token inside its phrase.
//
// A word at index 3 is Pos{Word: 3, Sub: -1}, its second sub-word is
// Pos{Word: 3, Sub: 1}. The key gives a total order across mixed granularity:
// a word sorts right before its own sub-words.
type Pos struct {
	Word int
	Sub  int
}

// WordPos returns the position of a whole word.
func WordPos(i int) Pos {
	return Pos{Word: i, Sub: -1}
}

// SubPos returns the position of the sub-word j of word i.
func SubPos(i, j int) Pos {
	return Pos{Word: i, Sub: j}
}

// IsWord reports whether p addresses a whole word.
func (p Pos) IsWord() bool {
	return p.Sub < 0
}

func (p Pos) Less(o Pos) bool {
	if p.Word != o.Word {
		return p.Word < o.Word
	}
	return p.Sub < o.Sub
}

// Compare returns -1, 0 or 1. It is meant for slices.SortFunc.
func (p Pos) Compare(o Pos) int {
	switch {
	case p.Less(o):
		return -1
	case o.Less(p):
		return 1
	}
	return 0
}

// Overlaps reports whether p and o address the same word material: equal
// positions, or a whole word and any of its own sub-words.
func (p Pos) Overlaps(o Pos) bool {
	if p == o {
		return true
	}
	return p.Word == o.Word && (p.IsWord() || o.IsWord())
}

func (p Pos) String() string {
	if p.IsWord() {
		return strconv.Itoa(p.Word)
	}
	return fmt.Sprintf("%d.%d", p.Word, p.Sub)
}

// ParsePos parses the "word" or "word.sub" form produced by String.
func ParsePos(s string) (Pos, error) {
	w, sub, found := strings.Cut(s, ".")
	wi, err := strconv.Atoi(w)
	if err != nil {
		return Pos{}, fmt.Errorf("invalid position %q: %w", s, err)
	}
	if !found {
		return WordPos(wi), nil
	}
	si, err := strconv.Atoi(sub)
	if err != nil {
		return Pos{}, fmt.Errorf("invalid position %q: %w", s, err)
	}
	return SubPos(wi, si), nil
}
