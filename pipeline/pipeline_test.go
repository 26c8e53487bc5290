package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/interlin/align"
	"github.com/revelaction/interlin/analysis"
	"github.com/revelaction/interlin/corpus"
)

var readArticle = []analysis.Token{
	{Head: 1, Pos: "PRON", Dep: "nsubj", Text: "I", Lemma: "-PRON-", Index: 0},
	{Head: 1, Pos: "VERB", Dep: "ROOT", Text: "read", Lemma: "read", Index: 1},
	{Head: 3, Pos: "PRON", Dep: "poss", Text: "her", Lemma: "-PRON-", Index: 2},
	{Head: 1, Pos: "NOUN", Dep: "dobj", Text: "article", Lemma: "article", Index: 3},
	{Head: 1, Pos: "PUNCT", Dep: "punct", Text: ".", Lemma: ".", Index: 4},
}

func runner(t *testing.T, opts ...Option) *Runner {
	t.Helper()
	hs, err := align.ParseHeuristics(align.DefaultHeuristics, nil, 0)
	require.NoError(t, err)
	return NewRunner(align.NewAligner(hs, nil, nil), opts...)
}

func good(id string) corpus.Record {
	return corpus.Record{
		ID:       id,
		Lang:     "Procetox statija-ta=i",
		Gloss:    "read.1sg article-DEF=3fsg",
		Trans:    "I read her article.",
		Analysis: readArticle,
	}
}

func TestProcess(t *testing.T) {
	inst, res := runner(t).Process(good("r1"))
	require.NotNil(t, res)
	assert.Empty(t, res.Error)
	assert.Equal(t, []corpus.Dep{{Child: 0, Head: -1, Type: "root"}, {Child: 1, Head: 0, Type: "dobj"}}, res.LangDeps)
	assert.NotNil(t, inst.Lang.DS)
}

func TestProcessUsesParser(t *testing.T) {
	rec := good("r2")
	rec.Analysis = nil

	_, res := runner(t).Process(rec)
	assert.True(t, res.Failed())
	assert.Contains(t, res.Error, analysis.ErrNotFound.Error())

	_, res = runner(t, WithParser(analysis.NewLookup(readArticle))).Process(rec)
	assert.False(t, res.Failed())
	assert.True(t, res.Projected())
}

func TestProcessStrictMorphs(t *testing.T) {
	rec := corpus.Record{
		ID:    "r3",
		Lang:  "ama-ba Juan",
		Gloss: "love John",
		Trans: "loves Juan",
		Analysis: []analysis.Token{
			{Head: 0, Pos: "VERB", Text: "loves", Lemma: "love", Index: 0},
			{Head: 0, Pos: "PROPN", Dep: "dobj", Text: "Juan", Lemma: "Juan", Index: 1},
		},
	}

	_, res := runner(t, WithStrictMorphs(true)).Process(rec)
	assert.True(t, res.Failed())
	// the alignment is kept even though projection failed
	assert.NotEmpty(t, res.Alignments)

	_, res = runner(t).Process(rec)
	assert.False(t, res.Failed(), res.Error)
	assert.True(t, res.Projected())
}

func TestRun(t *testing.T) {
	var records []corpus.Record
	for i := range 20 {
		records = append(records, good(fmt.Sprintf("r%d", i)))
	}
	records[7].Gloss = "read.1sg"

	var calls []int
	err := runner(t, WithWorkers(4)).Run(context.Background(), records, func(done, total int) {
		assert.Equal(t, 20, total)
		calls = append(calls, done)
	})
	require.NoError(t, err)

	require.Len(t, calls, 20)
	assert.Equal(t, 20, calls[19])
	for i, rec := range records {
		require.NotNil(t, rec.Result, "record %d", i)
		if i == 7 {
			assert.True(t, rec.Result.Failed())
			continue
		}
		assert.False(t, rec.Result.Failed(), "record %d: %s", i, rec.Result.Error)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := []corpus.Record{good("a"), good("b")}
	err := runner(t, WithWorkers(1)).Run(ctx, records, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}
