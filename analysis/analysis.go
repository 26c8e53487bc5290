// Package analysis attaches an external parse of the translation line to an
// instance: coarse tags, lemmas and the dependency structure.
package analysis

import (
	"errors"
	"fmt"

	"github.com/revelaction/interlin/dep"
	"github.com/revelaction/interlin/igt"
)

var (
	// ErrMismatch is returned when a parse does not line up with the
	// translation words.
	ErrMismatch = errors.New("analysis does not match translation")

	ErrNotFound = errors.New("no analysis for translation")
)

// Token represents a translation word with POS and dependency metadata, as
// produced by a spaCy or stanza style parser.
type Token struct {
	Id   int    `json:"id"`
	Head int    `json:"head"`
	Pos  string `json:"pos"`
	Dep  string `json:"dep"`

	// A string containing detailed POS data
	Tag string `json:"tag,omitempty"`

	// The unmodified word
	Text string `json:"text"`

	// The lemma of the word
	Lemma string `json:"lemma"`

	// The index of the word in the sentence, starting at 0. A token whose
	// Head equals its Index is the root.
	Index int `json:"index"`
}

func (t Token) IsRoot() bool {
	return t.Head == t.Index
}

// Parser analyzes an already tokenized translation line.
type Parser interface {
	Parse(words []string) ([]Token, error)
}

// Process parses the translation line of inst with p and applies the result.
func Process(inst *igt.Instance, p Parser) error {
	tokens, err := p.Parse(inst.Trans.Strings())
	if err != nil {
		return fmt.Errorf("instance %q: %w", inst.ID, err)
	}
	return Apply(inst, tokens)
}

// Apply sets the tag and lemma of every translation word and replaces the
// translation dependency structure.
func Apply(inst *igt.Instance, tokens []Token) error {
	words := inst.Trans.Words
	if len(tokens) != len(words) {
		return fmt.Errorf("instance %q: %w: %d tokens for %d words", inst.ID, ErrMismatch, len(tokens), len(words))
	}

	ds := dep.New()
	for i, tok := range tokens {
		w := words[i]
		if tok.Text != "" && tok.Text != w.Text() {
			return fmt.Errorf("instance %q: %w: token %d is %q, word is %q", inst.ID, ErrMismatch, i, tok.Text, w.Text())
		}

		if tok.IsRoot() {
			ds.Add(dep.Link{Child: w, Type: dep.RootType})
		} else {
			if tok.Head < 0 || tok.Head >= len(words) {
				return fmt.Errorf("instance %q: %w: token %d has head %d", inst.ID, ErrMismatch, i, tok.Head)
			}
			ds.Add(dep.Link{Child: w, Parent: words[tok.Head], Type: tok.Dep})
		}
	}

	// only commit once the whole parse is known to be valid
	for i, tok := range tokens {
		words[i].SetTag(tok.Pos)
		words[i].Lemma = tok.Lemma
	}
	inst.Trans.DS = ds
	return nil
}

// Tokens reads back the analysis stored on the translation line of inst.
// Words outside the dependency structure are reported as roots.
func Tokens(inst *igt.Instance) []Token {
	words := inst.Trans.Words
	tokens := make([]Token, len(words))
	for i, w := range words {
		tok := Token{
			Id:    i,
			Head:  i,
			Pos:   w.Tag(),
			Text:  w.Text(),
			Lemma: w.Lemma,
			Index: i,
		}
		if inst.Trans.DS != nil {
			for _, l := range inst.Trans.DS.ParentLinks(w) {
				tok.Dep = l.Type
				if !l.IsRoot() {
					tok.Head = l.Parent.Index()
				}
				break
			}
		}
		tokens[i] = tok
	}
	return tokens
}

// Clear removes tags, lemmas and the structure of the translation line.
func Clear(inst *igt.Instance) {
	for _, w := range inst.Trans.Words {
		w.SetTag("")
		w.Lemma = ""
	}
	inst.Trans.DS = nil
}
