package align

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/interlin/igt"
)

func p(trans, word int) Pair {
	return Pair{Trans: trans, Gloss: igt.SubPos(word, 0)}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		in   []Pair
		want []Pair
	}{
		{
			name: "many to many",
			in:   []Pair{p(0, 0), p(0, 2), p(1, 0), p(1, 2), p(1, 3), p(2, 3), p(3, 3)},
			want: []Pair{p(0, 0), p(1, 2), p(2, 3), p(3, 3)},
		},
		{
			name: "one gloss three words",
			in:   []Pair{p(0, 0), p(1, 0), p(2, 0)},
			want: []Pair{p(0, 0), p(1, 0), p(2, 0)},
		},
		{
			name: "one word three glosses",
			in:   []Pair{p(0, 0), p(0, 1), p(0, 2)},
			want: []Pair{p(0, 0), p(0, 1), p(0, 2)},
		},
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
		{
			name: "crossing",
			in:   []Pair{p(0, 3), p(2, 1), p(2, 2), p(4, 3)},
			want: []Pair{p(0, 3), p(2, 1), p(2, 2), p(4, 3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Resolve(got), "resolution is idempotent")
		})
	}
}

func TestResolveFallsBackToLargestCandidate(t *testing.T) {
	// gloss 1 finds word 0 taken and takes its largest candidate
	got := Resolve([]Pair{p(0, 0), p(0, 1)})
	assert.Equal(t, []Pair{p(0, 0), p(0, 1)}, got)

	got = Resolve([]Pair{p(0, 0), p(1, 0), p(0, 1), p(1, 1)})
	assert.Equal(t, []Pair{p(0, 0), p(1, 1)}, got)
}

func TestRemoveConflicts(t *testing.T) {
	existing := []Pair{p(1, 0), p(3, 1)}

	t.Run("fresh pair kept", func(t *testing.T) {
		got := RemoveConflicts(existing, []Pair{p(2, 2)})
		assert.Equal(t, []Pair{p(2, 2)}, got)
	})

	t.Run("both sides taken", func(t *testing.T) {
		got := RemoveConflicts(existing, []Pair{p(1, 0), p(3, 1)})
		assert.Empty(t, got)
	})

	t.Run("single candidate completes a partial alignment", func(t *testing.T) {
		got := RemoveConflicts(existing, []Pair{p(0, 0)})
		assert.Equal(t, []Pair{p(0, 0)}, got)
	})

	t.Run("competing candidates dropped", func(t *testing.T) {
		// word 0 has two proposals, both glosses taken
		got := RemoveConflicts(existing, []Pair{p(0, 0), p(0, 1)})
		assert.Empty(t, got)
	})

	t.Run("whole word conflicts with its sub-words", func(t *testing.T) {
		whole := []Pair{{Trans: 1, Gloss: igt.WordPos(2)}}
		got := RemoveConflicts(whole, []Pair{p(1, 2), {Trans: 1, Gloss: igt.SubPos(2, 1)}})
		assert.Empty(t, got)
	})
}

func TestParsePair(t *testing.T) {
	for _, s := range []string{"0-1", "3-1.2"} {
		pair, err := ParsePair(s)
		require.NoError(t, err)
		assert.Equal(t, s, pair.String())
	}
	_, err := ParsePair("x")
	assert.Error(t, err)
	_, err = ParsePair("a-1")
	assert.Error(t, err)
}

func procetox(t *testing.T) *igt.Instance {
	t.Helper()
	inst := igt.ParseInstance("i1", "Procetox statija-ta=i", "read.1sg article-DEF=3fsg", "I read her article.")
	for i, l := range []string{"-PRON-", "read", "-PRON-", "article", "."} {
		inst.Trans.Words[i].Lemma = l
	}
	return inst
}

func TestAlign(t *testing.T) {
	inst := procetox(t)
	hs, err := ParseHeuristics(DefaultHeuristics, nil, 0)
	require.NoError(t, err)

	pairs, err := NewAligner(hs, nil, nil).Align(inst)
	require.NoError(t, err)

	want := []Pair{p(0, 0), p(1, 0), {Trans: 2, Gloss: igt.SubPos(1, 2)}, p(3, 1)}
	assert.Equal(t, want, pairs)
	assert.Equal(t, want, Pairs(inst))

	her := inst.Trans.Words[2]
	require.Len(t, inst.Alignments.Of(her), 1)
	assert.Same(t, inst.Gloss.Words[1].SubWord(2), inst.Alignments.Of(her)[0])
	assert.Empty(t, inst.Alignments.Of(inst.Trans.Words[4]))
}

func TestAlignIsRepeatable(t *testing.T) {
	inst := procetox(t)
	hs, err := ParseHeuristics(DefaultHeuristics, nil, 0)
	require.NoError(t, err)
	a := NewAligner(hs, nil, nil)

	first, err := a.Align(inst)
	require.NoError(t, err)
	second, err := a.Align(inst)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, len(first), inst.Alignments.Len())
}

func TestAlignNamePass(t *testing.T) {
	inst := igt.ParseInstance("i2", "Maria ama Juan", "Mary love.3sg John", "Maria loves Juan")
	for _, w := range inst.Trans.Words {
		w.Lemma = strings.ToLower(w.Text())
	}

	pairs, err := NewAligner(nil, nil, nil).Align(inst)
	require.NoError(t, err)
	assert.Equal(t, []Pair{
		{Trans: 0, Gloss: igt.WordPos(0)},
		{Trans: 2, Gloss: igt.WordPos(2)},
	}, pairs)

	aligned := inst.Alignments.Of(inst.Trans.Words[0])
	require.Len(t, aligned, 1)
	assert.Same(t, inst.Gloss.Words[0], aligned[0])
}

func TestAlignMissingLemma(t *testing.T) {
	inst := igt.ParseInstance("i3", "Procetox", "read.1sg", "I read.")
	_, err := NewAligner([]Heuristic{Lemma()}, nil, nil).Align(inst)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingLemma))
}

func TestAlignInvalidInstance(t *testing.T) {
	inst := igt.ParseInstance("i4", "a b", "x", "A B")
	_, err := NewAligner(nil, nil, nil).Align(inst)
	assert.True(t, errors.Is(err, igt.ErrMisaligned))
}

type stemLemmatizer struct{}

func (stemLemmatizer) Lemmatize(words []string) ([]string, error) {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.TrimSuffix(strings.ToLower(w), "s")
	}
	return out, nil
}

func TestAlignLemmatizer(t *testing.T) {
	inst := igt.ParseInstance("i5", "kitab-lar", "book-PL", "books")
	inst.Trans.Words[0].Lemma = "book"

	// with gloss lemmas the part "book" matches the lemma of "books"
	pairs, err := NewAligner([]Heuristic{Lemma()}, stemLemmatizer{}, nil).Align(inst)
	require.NoError(t, err)
	assert.Equal(t, []Pair{p(0, 0)}, pairs)
}

func TestParseHeuristics(t *testing.T) {
	hs, err := ParseHeuristics([]string{"exact", " Gram ", "substring"}, nil, 0)
	require.NoError(t, err)
	require.Len(t, hs, 3)
	assert.Equal(t, "exact", hs[0].Name)
	assert.Equal(t, "gram", hs[1].Name)
	assert.Equal(t, "sub", hs[2].Name)

	_, err = ParseHeuristics([]string{"exact", "vec"}, nil, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownHeuristic))
}

func TestHeuristics(t *testing.T) {
	w := igt.NewWord("Reading")
	w.Lemma = "read"
	part := func(s string) igt.Part { return igt.Part{Text: s} }

	tests := []struct {
		h    Heuristic
		part string
		want bool
	}{
		{Exact(), "reading", true},
		{Exact(), "read", false},
		{Lemma(), "READ", true},
		{Substring(3), "read", true},
		{Substring(3), "in", false},
		{Substring(3), "readings", true},
		{Gram(DefaultGramDict()), "1sg", false},
	}
	for _, tt := range tests {
		got, err := tt.h.Match(w, part(tt.part))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %q", tt.h.Name, tt.part)
	}

	we := igt.NewWord("We")
	ok, err := Gram(DefaultGramDict()).Match(we, part("1PL"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoadGramDict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gram.yaml")
	require.NoError(t, os.WriteFile(path, []byte("erg: [by]\n1sg: [I, me, my]\n"), 0o644))

	dict, err := LoadGramDict(path)
	require.NoError(t, err)
	assert.True(t, dict.Matches("ERG", "by"))
	assert.True(t, dict.Matches("1sg", "my"))
	assert.True(t, dict.Matches("neg", "not"), "built-in entries are kept")

	_, err = LoadGramDict(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGlossToMorph(t *testing.T) {
	inst := procetox(t)
	require.NoError(t, GlossToMorph(inst, true))

	lw := inst.Lang.Words[1]
	gw := inst.Gloss.Words[1]
	for i, sw := range gw.SubWords() {
		require.Len(t, inst.Alignments.Of(sw), 1)
		assert.Same(t, lw.SubWord(i), inst.Alignments.Of(sw)[0])
	}

	ClearMorphs(inst)
	assert.Empty(t, inst.Alignments.AlignedWords(gw, igt.Lang))
}

func TestGlossToMorphMismatch(t *testing.T) {
	inst := igt.ParseInstance("i6", "a-b c", "x y", "A C")

	err := GlossToMorph(inst, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, igt.ErrMisaligned))

	// per word, the single gloss sub-word covers both morphs
	require.NoError(t, GlossToMorph(inst, false))
	x := inst.Gloss.Words[0]
	assert.Len(t, inst.Alignments.Of(x.SubWord(0)), 2)
	words := inst.Alignments.AlignedWords(x, igt.Lang)
	require.Len(t, words, 1)
	assert.Same(t, inst.Lang.Words[0], words[0])

	bad := igt.ParseInstance("i7", "a-b-c", "x-y", "A")
	assert.True(t, errors.Is(GlossToMorph(bad, false), igt.ErrMisaligned))
}
