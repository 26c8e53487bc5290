package inspect

import (
	"bytes"
	"testing"

	"github.com/c-bata/go-prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/interlin/align"
	"github.com/revelaction/interlin/analysis"
	"github.com/revelaction/interlin/corpus"
	"github.com/revelaction/interlin/pipeline"
	"github.com/revelaction/interlin/render"
)

var readArticle = []analysis.Token{
	{Head: 1, Pos: "PRON", Dep: "nsubj", Text: "I", Lemma: "-PRON-", Index: 0},
	{Head: 1, Pos: "VERB", Dep: "ROOT", Text: "read", Lemma: "read", Index: 1},
	{Head: 3, Pos: "PRON", Dep: "poss", Text: "her", Lemma: "-PRON-", Index: 2},
	{Head: 1, Pos: "NOUN", Dep: "dobj", Text: "article", Lemma: "article", Index: 3},
	{Head: 1, Pos: "PUNCT", Dep: "punct", Text: ".", Lemma: ".", Index: 4},
}

func doc() corpus.Doc {
	return corpus.Doc{
		Id:    3,
		Title: "bul",
		Records: []corpus.Record{
			{ID: "r1", Lang: "Procetox statija-ta=i", Gloss: "read.1sg article-DEF=3fsg", Trans: "I read her article.", Analysis: readArticle},
			{ID: "r2", Lang: "Maria ama Juan", Gloss: "Mary love.3sg John", Trans: "Maria loves Juan",
				Result: &corpus.Result{Error: "no parse"}},
			{ID: "x1", Lang: "a b", Gloss: "c", Trans: "d"},
		},
	}
}

func handler(t *testing.T, withRunner bool) (*Handler, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r := render.NewRenderer(&buf)

	var runner *pipeline.Runner
	if withRunner {
		hs, err := align.ParseHeuristics(align.DefaultHeuristics, nil, 0)
		require.NoError(t, err)
		runner = pipeline.NewRunner(align.NewAligner(hs, nil, nil))
	}
	return NewHandler(doc(), runner, r), &buf
}

func TestExecLs(t *testing.T) {
	h, buf := handler(t, false)
	assert.False(t, h.Exec("ls"))
	assert.Equal(t, "r1\tpending\nr2\tfailed\nx1\tpending\n", buf.String())
}

func TestExecFind(t *testing.T) {
	h, buf := handler(t, false)
	h.Exec("find 3SG")
	assert.Equal(t, "r2\tMary love.3sg John\n1 records\n", buf.String())

	buf.Reset()
	h.Exec("find")
	assert.Contains(t, buf.String(), "❌")
}

func TestExecShowRunsPending(t *testing.T) {
	h, buf := handler(t, true)
	h.Renderer.Format = "align"

	h.Exec("r1")
	assert.Contains(t, buf.String(), "her(2) -> 3fsg(1.2)")
	require.NotNil(t, h.Doc.Records[0].Result)
	assert.True(t, h.Doc.Records[0].Result.Projected())

	buf.Reset()
	h.Exec("x1")
	assert.Contains(t, buf.String(), "error:")
	assert.True(t, h.Doc.Records[2].Result.Failed())
}

func TestExecShowStored(t *testing.T) {
	h, buf := handler(t, false)
	h.Exec("r2")
	assert.Contains(t, buf.String(), "error: no parse")
	assert.Contains(t, buf.String(), "Maria  ama       Juan")

	buf.Reset()
	h.Exec("nope")
	assert.Contains(t, buf.String(), `no record "nope"`)

	buf.Reset()
	h.Exec("run r1")
	assert.Contains(t, buf.String(), "no runner")
}

func TestExecQuit(t *testing.T) {
	h, _ := handler(t, false)
	assert.True(t, h.Exec("quit"))
	assert.False(t, h.Exec("   "))
}

func texts(s []prompt.Suggest) []string {
	var out []string
	for _, x := range s {
		out = append(out, x.Text)
	}
	return out
}

func TestSuggest(t *testing.T) {
	h, _ := handler(t, false)

	assert.Empty(t, h.suggest(""))
	assert.Equal(t, []string{"run", "r1", "r2"}, texts(h.suggest("r")))
	assert.Equal(t, []string{"x1"}, texts(h.suggest("x")))
	assert.Equal(t, []string{"r1", "r2"}, texts(h.suggest("run r")))
	assert.Empty(t, h.suggest("find r"))

	buf := prompt.NewBuffer()
	buf.InsertText("qu", false, true)
	assert.Equal(t, []string{"quit"}, texts(h.completer(*buf.Document())))
}
