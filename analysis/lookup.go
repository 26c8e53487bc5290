package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Doc is a parser output file: a list of analyzed sentences.
type Doc struct {
	Tokens [][]Token `json:"tokens"`
}

// Lookup is a Parser over sentences analyzed ahead of time. It also serves as
// a lemma table for gloss parts.
type Lookup struct {
	sentences map[string][]Token
	lemmas    map[string]string
}

// NewLookup indexes the given sentences by their space joined text.
func NewLookup(sentences ...[]Token) *Lookup {
	l := &Lookup{
		sentences: map[string][]Token{},
		lemmas:    map[string]string{},
	}
	for _, s := range sentences {
		l.Add(s)
	}
	return l
}

// LoadLookup reads a Doc JSON from the given path.
func LoadLookup(path string) (*Lookup, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}

	var doc Doc
	if err := json.Unmarshal(f, &doc); err != nil {
		return nil, fmt.Errorf("JSON decoding error: %w", err)
	}

	return NewLookup(doc.Tokens...), nil
}

func (l *Lookup) Add(tokens []Token) {
	texts := make([]string, len(tokens))
	for i, t := range tokens {
		texts[i] = t.Text
		if t.Lemma != "" {
			l.lemmas[strings.ToLower(t.Text)] = strings.ToLower(t.Lemma)
		}
	}
	l.sentences[strings.Join(texts, " ")] = tokens
}

func (l *Lookup) Len() int {
	return len(l.sentences)
}

func (l *Lookup) Parse(words []string) ([]Token, error) {
	key := strings.Join(words, " ")
	tokens, ok := l.sentences[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return tokens, nil
}

// Lemmatize returns the lemma seen for each word, or the lowercase word when
// it was never analyzed.
func (l *Lookup) Lemmatize(words []string) ([]string, error) {
	out := make([]string, len(words))
	for i, w := range words {
		lw := strings.ToLower(w)
		if lemma, ok := l.lemmas[lw]; ok {
			out[i] = lemma
		} else {
			out[i] = lw
		}
	}
	return out, nil
}

// Precomputed is a Parser returning a stored analysis of one sentence.
type Precomputed []Token

func (p Precomputed) Parse(words []string) ([]Token, error) {
	if len(words) != len(p) {
		return nil, fmt.Errorf("%w: %d tokens for %d words", ErrMismatch, len(p), len(words))
	}
	return p, nil
}
