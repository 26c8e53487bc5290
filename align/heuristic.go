package align

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/revelaction/interlin/igt"
)

var (
	ErrUnknownHeuristic = errors.New("unknown heuristic")

	// ErrMissingLemma is returned by the lemma heuristic when a translation
	// word has not been analyzed.
	ErrMissingLemma = errors.New("translation word has no lemma")
)

// DefaultHeuristics is the cascade order used when none is configured.
var DefaultHeuristics = []string{"exact", "lemma", "sub", "gram"}

// DefaultSubstringMinLength is the shortest part the substring heuristic
// considers.
const DefaultSubstringMinLength = 3

// MatchFunc reports whether the translation word matches the gloss part.
type MatchFunc func(w *igt.Word, p igt.Part) (bool, error)

// Heuristic is a named matcher run as one pass of the alignment cascade.
type Heuristic struct {
	Name  string
	Match MatchFunc
}

// Exact matches a part whose text equals the word, ignoring case.
func Exact() Heuristic {
	return Heuristic{
		Name: "exact",
		Match: func(w *igt.Word, p igt.Part) (bool, error) {
			return strings.EqualFold(w.Text(), p.Text), nil
		},
	}
}

// Lemma matches the word lemma against the part lemma. Words must carry a
// lemma.
func Lemma() Heuristic {
	return Heuristic{
		Name: "lemma",
		Match: func(w *igt.Word, p igt.Part) (bool, error) {
			if w.Lemma == "" {
				return false, fmt.Errorf("%w: %q", ErrMissingLemma, w.Text())
			}
			pl := p.Lemma
			if pl == "" {
				pl = strings.ToLower(p.Text)
			}
			return strings.EqualFold(w.Lemma, pl), nil
		},
	}
}

// Substring matches when either the word or the part contains the other,
// ignoring case. The contained string must be at least minLen characters.
func Substring(minLen int) Heuristic {
	return Heuristic{
		Name: "sub",
		Match: func(w *igt.Word, p igt.Part) (bool, error) {
			ws := strings.ToLower(w.Text())
			ps := strings.ToLower(p.Text)
			return utf8.RuneCountInString(ws) >= minLen && strings.Contains(ps, ws) ||
				utf8.RuneCountInString(ps) >= minLen && strings.Contains(ws, ps), nil
		},
	}
}

// Gram matches a grammatical marker part against the function words listed
// for it in dict.
func Gram(dict GramDict) Heuristic {
	return Heuristic{
		Name: "gram",
		Match: func(w *igt.Word, p igt.Part) (bool, error) {
			return dict.Matches(p.Text, w.Text()), nil
		},
	}
}

// ParseHeuristics builds the cascade from configured names. A nil dict uses
// the built-in gram dictionary.
func ParseHeuristics(names []string, dict GramDict, minLen int) ([]Heuristic, error) {
	if dict == nil {
		dict = DefaultGramDict()
	}
	if minLen <= 0 {
		minLen = DefaultSubstringMinLength
	}

	var hs []Heuristic
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "exact":
			hs = append(hs, Exact())
		case "lemma":
			hs = append(hs, Lemma())
		case "sub", "substring":
			hs = append(hs, Substring(minLen))
		case "gram":
			hs = append(hs, Gram(dict))
		case "":
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownHeuristic, name)
		}
	}
	return hs, nil
}
