package igt

import (
	"fmt"
	"strings"
	"unicode"
)

const morphBoundaries = "-="

var clitics = []string{"n't", "'s", "'re", "'ve", "'ll", "'d", "'m"}

// ParseInstance builds an instance from the three raw lines. Language and
// gloss words are split into sub-words on "-" and "="; the translation is
// tokenized with TokenizeTranslation.
func ParseInstance(id, lang, gloss, trans string) *Instance {
	return NewInstance(id,
		PhraseFromString(Lang, lang, "w"),
		PhraseFromString(Gloss, gloss, "gw"),
		PhraseFromTokens(Trans, TokenizeTranslation(trans), "tw"),
	)
}

// PhraseFromString splits s on whitespace and segments every word into
// sub-words. Word ids are idBase followed by the 1-based word number.
func PhraseFromString(tier Tier, s, idBase string) *Phrase {
	p := NewPhrase(tier)
	p.ID = tier.String()
	for i, tok := range strings.Fields(s) {
		w := NewWordFromSubWords(SplitMorphs(tok)...)
		w.ID = fmt.Sprintf("%s%d", idBase, i+1)
		p.Add(w)
	}
	return p
}

// PhraseFromTokens builds a phrase of unsegmented words.
func PhraseFromTokens(tier Tier, tokens []string, idBase string) *Phrase {
	p := NewPhrase(tier)
	p.ID = tier.String()
	for i, tok := range tokens {
		w := NewWord(tok)
		w.ID = fmt.Sprintf("%s%d", idBase, i+1)
		p.Add(w)
	}
	return p
}

// SplitMorphs segments a word on morpheme boundary symbols. The symbol is
// kept as the Right symbol of the preceding sub-word ("statija-ta=i" gives
// "statija-", "ta=", "i"). A leading symbol becomes the Left symbol of the
// first sub-word.
func SplitMorphs(s string) []*SubWord {
	var (
		subwords []*SubWord
		left     string
		cur      strings.Builder
	)

	flush := func(right string) {
		if cur.Len() == 0 {
			// "--" or a leading boundary: attach to whatever comes next
			left += right
			return
		}
		sw := NewSubWord(cur.String())
		sw.Left = left
		sw.Right = right
		subwords = append(subwords, sw)
		left = ""
		cur.Reset()
	}

	for _, r := range s {
		if strings.ContainsRune(morphBoundaries, r) {
			flush(string(r))
			continue
		}
		cur.WriteRune(r)
	}

	if cur.Len() > 0 || len(subwords) == 0 {
		sw := NewSubWord(cur.String())
		sw.Left = left
		subwords = append(subwords, sw)
	} else if left != "" {
		// trailing boundary
		subwords[len(subwords)-1].Right += left
	}

	return subwords
}

// TokenizeTranslation splits a free translation into words, separating
// surrounding punctuation and English clitics ("don't" gives "do", "n't").
func TokenizeTranslation(s string) []string {
	var tokens []string
	for _, field := range strings.Fields(s) {
		var trailing []string

		// leading punctuation
		for len(field) > 0 {
			r := []rune(field)[0]
			if !isSplitPunct(r) {
				break
			}
			tokens = append(tokens, string(r))
			field = field[len(string(r)):]
		}

		// trailing punctuation, collected in reverse
		for len(field) > 0 {
			rs := []rune(field)
			r := rs[len(rs)-1]
			if !isSplitPunct(r) {
				break
			}
			trailing = append(trailing, string(r))
			field = string(rs[:len(rs)-1])
		}

		if field != "" {
			tokens = append(tokens, splitClitic(field)...)
		}

		for i := len(trailing) - 1; i >= 0; i-- {
			tokens = append(tokens, trailing[i])
		}
	}
	return tokens
}

func isSplitPunct(r rune) bool {
	if r == '\'' || r == '-' {
		return false
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func splitClitic(word string) []string {
	lower := strings.ToLower(word)
	for _, c := range clitics {
		if len(lower) > len(c) && strings.HasSuffix(lower, c) {
			cut := len(word) - len(c)
			return []string{word[:cut], word[cut:]}
		}
	}
	return []string{word}
}
