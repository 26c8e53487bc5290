package igt

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/revelaction/interlin/dep"
)

var (
	// ErrMissingLine is returned when an instance lacks a line an operation needs.
	ErrMissingLine = errors.New("missing line")

	// ErrMisaligned is returned when two lines must have the same number of
	// tokens and do not.
	ErrMisaligned = errors.New("token counts differ")
)

// Tier identifies the line of an IGT instance a phrase belongs to.
type Tier int

const (
	Lang Tier = iota
	Gloss
	Trans
)

func (t Tier) String() string {
	switch t {
	case Lang:
		return "lang"
	case Gloss:
		return "gloss"
	case Trans:
		return "trans"
	}
	return "unknown"
}

// Token is anything that can be aligned: a Word or a SubWord.
type Token interface {
	Pos() Pos
	Text() string
	Tag() string
	SetTag(tag string)

	// Word returns the owning word (the word itself for a Word).
	Word() *Word
}

var partSplit = regexp.MustCompile(`[./()]+`)

// SubWord is a morpheme of a language word or a gloss of a gloss word.
type SubWord struct {
	text  string
	tag   string
	index int
	word  *Word

	// Left and Right are the boundary symbols ("-", "=") joining this
	// sub-word to its neighbours.
	Left  string
	Right string
}

// NewSubWord returns a detached sub-word. It gets its index when added to a Word.
func NewSubWord(text string) *SubWord {
	return &SubWord{text: text}
}

func (s *SubWord) Text() string { return s.text }
func (s *SubWord) Tag() string { return s.tag }
func (s *SubWord) SetTag(tag string) { s.tag = tag }
func (s *SubWord) Word() *Word { return s.word }
func (s *SubWord) Index() int { return s.index }
func (s *SubWord) String() string { return s.text }
func (s *SubWord) Pos() Pos { return SubPos(s.word.index, s.index) }
func (s *SubWord) Hyphenated() string { return s.Left + s.text + s.Right }

// Part is a period or slash delimited component of a sub-word, like "1sg" in
// "read.1sg". It keeps the position of the owning sub-word.
type Part struct {
	Pos   Pos
	Text  string
	Lemma string
}

// Parts splits the sub-word on ".", "/", "(" and ")".
func (s *SubWord) Parts() []Part {
	var parts []Part
	for _, p := range partSplit.Split(s.text, -1) {
		if p == "" {
			continue
		}
		parts = append(parts, Part{Pos: s.Pos(), Text: p})
	}
	return parts
}

// Word is a whitespace-delimited token of a phrase. Every word owns at least
// one sub-word.
type Word struct {
	ID string

	// Lemma is only meaningful for translation words, it is set by the
	// external analysis.
	Lemma string

	tag      string
	index    int
	phrase   *Phrase
	subwords []*SubWord
}

// NewWord builds a word of one sub-word.
func NewWord(text string) *Word {
	return NewWordFromSubWords(NewSubWord(text))
}

// NewWordFromSubWords builds a word owning the given sub-words.
func NewWordFromSubWords(subwords ...*SubWord) *Word {
	w := &Word{subwords: subwords}
	for i, sw := range subwords {
		sw.word = w
		sw.index = i
	}
	return w
}

func (w *Word) Tag() string { return w.tag }
func (w *Word) SetTag(tag string) { w.tag = tag }
func (w *Word) Word() *Word { return w }
func (w *Word) Index() int { return w.index }
func (w *Word) Pos() Pos { return WordPos(w.index) }
func (w *Word) Phrase() *Phrase { return w.phrase }
func (w *Word) SubWords() []*SubWord { return w.subwords }
func (w *Word) SubWord(i int) *SubWord { return w.subwords[i] }

// Tier returns the tier of the owning phrase. Detached words are Lang.
func (w *Word) Tier() Tier {
	if w.phrase == nil {
		return Lang
	}
	return w.phrase.Tier
}

// Text returns the sub-words concatenated without boundary symbols.
func (w *Word) Text() string {
	var b strings.Builder
	for _, sw := range w.subwords {
		b.WriteString(sw.text)
	}
	return b.String()
}

func (w *Word) String() string { return w.Hyphenated() }

// Hyphenated returns the word with its morpheme boundaries. Sub-words without
// any boundary symbol are joined with "-".
func (w *Word) Hyphenated() string {
	var b strings.Builder
	b.WriteString(w.subwords[0].Hyphenated())
	prev := w.subwords[0]
	for _, sw := range w.subwords[1:] {
		if sw.Left == "" && sw.Right == "" && prev.Right == "" {
			b.WriteString("-" + sw.text)
		} else {
			b.WriteString(sw.Hyphenated())
		}
		prev = sw
	}
	return b.String()
}

// Parts returns the parts of all sub-words in order.
func (w *Word) Parts() []Part {
	var parts []Part
	for _, sw := range w.subwords {
		parts = append(parts, sw.Parts()...)
	}
	return parts
}

// Equals compares surface, position and (when both set) ids.
func (w *Word) Equals(o *Word) bool {
	if w.Hyphenated() != o.Hyphenated() || w.index != o.index {
		return false
	}
	return w.ID == "" || o.ID == "" || w.ID == o.ID
}

// Phrase is an ordered sequence of words of one tier. It owns at most one
// dependency structure.
type Phrase struct {
	ID    string
	Tier  Tier
	Words []*Word

	DS *dep.Structure
}

// NewPhrase takes ownership of the words and numbers them.
func NewPhrase(tier Tier, words ...*Word) *Phrase {
	p := &Phrase{Tier: tier}
	for _, w := range words {
		p.Add(w)
	}
	return p
}

// Add appends w to the phrase.
func (p *Phrase) Add(w *Word) {
	w.index = len(p.Words)
	w.phrase = p
	p.Words = append(p.Words, w)
}

func (p *Phrase) Len() int { return len(p.Words) }

// At returns the word or sub-word at pos, or nil when out of range.
func (p *Phrase) At(pos Pos) Token {
	if pos.Word < 0 || pos.Word >= len(p.Words) {
		return nil
	}
	w := p.Words[pos.Word]
	if pos.IsWord() {
		return w
	}
	if pos.Sub >= len(w.subwords) {
		return nil
	}
	return w.subwords[pos.Sub]
}

// SubWords returns all sub-words in order.
func (p *Phrase) SubWords() []*SubWord {
	var sws []*SubWord
	for _, w := range p.Words {
		sws = append(sws, w.subwords...)
	}
	return sws
}

// Parts returns the parts of every word in order.
func (p *Phrase) Parts() []Part {
	var parts []Part
	for _, w := range p.Words {
		parts = append(parts, w.Parts()...)
	}
	return parts
}

// Strings returns the surface of every word.
func (p *Phrase) Strings() []string {
	s := make([]string, len(p.Words))
	for i, w := range p.Words {
		s[i] = w.Text()
	}
	return s
}

// Tags returns the word level tags.
func (p *Phrase) Tags() []string {
	tags := make([]string, len(p.Words))
	for i, w := range p.Words {
		tags[i] = w.tag
	}
	return tags
}

func (p *Phrase) Hyphenated() string {
	s := make([]string, len(p.Words))
	for i, w := range p.Words {
		s[i] = w.Hyphenated()
	}
	return strings.Join(s, " ")
}

func (p *Phrase) String() string {
	return strings.Join(p.Strings(), " ")
}

// Instance is one IGT example: a language line, a gloss line and a free
// translation, plus the alignments between their tokens.
type Instance struct {
	ID string

	Lang  *Phrase
	Gloss *Phrase
	Trans *Phrase

	Alignments *AlignmentIndex
}

// NewInstance builds an instance from already tokenized phrases.
func NewInstance(id string, lang, gloss, trans *Phrase) *Instance {
	return &Instance{
		ID:         id,
		Lang:       lang,
		Gloss:      gloss,
		Trans:      trans,
		Alignments: NewAlignmentIndex(),
	}
}

// Validate checks that the three lines are present and that lang and gloss
// have the same number of words.
func (inst *Instance) Validate() error {
	switch {
	case inst.Lang == nil || inst.Lang.Len() == 0:
		return fmt.Errorf("instance %q: %w: lang", inst.ID, ErrMissingLine)
	case inst.Gloss == nil || inst.Gloss.Len() == 0:
		return fmt.Errorf("instance %q: %w: gloss", inst.ID, ErrMissingLine)
	case inst.Trans == nil || inst.Trans.Len() == 0:
		return fmt.Errorf("instance %q: %w: trans", inst.ID, ErrMissingLine)
	}
	if inst.Lang.Len() != inst.Gloss.Len() {
		return fmt.Errorf("instance %q: %w: %d lang words, %d gloss words", inst.ID, ErrMisaligned, inst.Lang.Len(), inst.Gloss.Len())
	}
	return nil
}
