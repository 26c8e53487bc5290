package analysis

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/interlin/dep"
	"github.com/revelaction/interlin/igt"
)

var readArticle = []Token{
	{Id: 0, Head: 1, Pos: "PRON", Dep: "nsubj", Text: "I", Lemma: "-PRON-", Index: 0},
	{Id: 1, Head: 1, Pos: "VERB", Dep: "ROOT", Text: "read", Lemma: "read", Index: 1},
	{Id: 2, Head: 3, Pos: "PRON", Dep: "poss", Text: "her", Lemma: "-PRON-", Index: 2},
	{Id: 3, Head: 1, Pos: "NOUN", Dep: "dobj", Text: "article", Lemma: "article", Index: 3},
	{Id: 4, Head: 1, Pos: "PUNCT", Dep: "punct", Text: ".", Lemma: ".", Index: 4},
}

func instance() *igt.Instance {
	return igt.ParseInstance("i1", "Procetox statija-ta=i", "read.1sg article-DEF=3fsg", "I read her article.")
}

func TestProcess(t *testing.T) {
	inst := instance()
	require.NoError(t, Process(inst, NewLookup(readArticle)))

	w := inst.Trans.Words
	assert.Equal(t, []string{"PRON", "VERB", "PRON", "NOUN", "PUNCT"}, inst.Trans.Tags())
	assert.Equal(t, "article", w[3].Lemma)

	ds := inst.Trans.DS
	require.NotNil(t, ds)
	assert.Equal(t, 5, ds.Len())
	assert.True(t, ds.Has(dep.Link{Child: w[1], Type: dep.RootType}))
	assert.True(t, ds.Has(dep.Link{Child: w[2], Parent: w[3], Type: "poss"}))
	assert.Equal(t, []dep.Node{w[0], w[3], w[4]}, ds.Children(w[1]))
}

func TestTokensRoundTrip(t *testing.T) {
	inst := instance()
	require.NoError(t, Apply(inst, readArticle))

	tokens := Tokens(inst)
	require.Len(t, tokens, 5)
	assert.Equal(t, 1, tokens[0].Head)
	assert.True(t, tokens[1].IsRoot())
	assert.Equal(t, dep.RootType, tokens[1].Dep)

	other := instance()
	require.NoError(t, Apply(other, tokens))
	assert.Equal(t, inst.Trans.DS.String(), other.Trans.DS.String())

	Clear(other)
	assert.Nil(t, other.Trans.DS)
	assert.Equal(t, "", other.Trans.Words[3].Lemma)
}

func TestApplyMismatch(t *testing.T) {
	inst := instance()

	err := Apply(inst, readArticle[:4])
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMismatch))

	bad := append([]Token(nil), readArticle...)
	bad[0].Text = "You"
	assert.True(t, errors.Is(Apply(inst, bad), ErrMismatch))

	bad = append([]Token(nil), readArticle...)
	bad[0].Head = 9
	assert.True(t, errors.Is(Apply(inst, bad), ErrMismatch))

	// a failed apply leaves the instance untouched
	assert.Nil(t, inst.Trans.DS)
	assert.Equal(t, "", inst.Trans.Words[1].Tag())
}

func TestLookupNotFound(t *testing.T) {
	inst := igt.ParseInstance("i2", "a", "x", "Something else.")
	err := Process(inst, NewLookup(readArticle))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	content := `{"tokens": [[
		{"id": 0, "head": 0, "pos": "VERB", "dep": "ROOT", "text": "Reading", "lemma": "read", "index": 0},
		{"id": 1, "head": 0, "pos": "NOUN", "dep": "dobj", "text": "books", "lemma": "book", "index": 1}
	]]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	l, err := LoadLookup(path)
	require.NoError(t, err)
	assert.Equal(t, 1, l.Len())

	tokens, err := l.Parse([]string{"Reading", "books"})
	require.NoError(t, err)
	assert.Equal(t, "book", tokens[1].Lemma)

	lemmas, err := l.Lemmatize([]string{"BOOKS", "Cats"})
	require.NoError(t, err)
	assert.Equal(t, []string{"book", "cats"}, lemmas)

	_, err = LoadLookup(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}

func TestPrecomputed(t *testing.T) {
	inst := instance()
	require.NoError(t, Process(inst, Precomputed(readArticle)))
	assert.Equal(t, "read", inst.Trans.Words[1].Lemma)

	_, err := Precomputed(readArticle[:2]).Parse([]string{"I"})
	assert.True(t, errors.Is(err, ErrMismatch))
}
