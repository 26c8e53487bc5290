package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/interlin/analysis"
	"github.com/revelaction/interlin/corpus"
)

const sampleText = `# bulgarian
Procetox statija-ta=i
read.1sg article-DEF=3fsg
I read her article.

Maria ama Juan
Mary love.3sg John
Maria loves Juan
`

var readArticle = []analysis.Token{
	{Head: 1, Pos: "PRON", Dep: "nsubj", Text: "I", Lemma: "-PRON-", Index: 0},
	{Head: 1, Pos: "VERB", Dep: "ROOT", Text: "read", Lemma: "read", Index: 1},
	{Head: 3, Pos: "PRON", Dep: "poss", Text: "her", Lemma: "-PRON-", Index: 2},
	{Head: 1, Pos: "NOUN", Dep: "dobj", Text: "article", Lemma: "article", Index: 3},
	{Head: 1, Pos: "PUNCT", Dep: "punct", Text: ".", Lemma: ".", Index: 4},
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := newApp(UI{Out: &out, Err: &errOut}).Run(append([]string{"interlin"}, args...))
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runApp(t, args...)
	require.NoError(t, err, strings.Join(args, " "))
	return out
}

// workspace returns an empty document directory, an IGT text file and a
// lookup file.
func workspace(t *testing.T) (docs, text, lookup string) {
	t.Helper()
	dir := t.TempDir()

	docs = filepath.Join(dir, "docs")
	require.NoError(t, os.Mkdir(docs, 0o755))

	text = filepath.Join(dir, "sample.txt")
	require.NoError(t, os.WriteFile(text, []byte(sampleText), 0o644))

	data, err := json.Marshal(analysis.Doc{Tokens: [][]analysis.Token{readArticle}})
	require.NoError(t, err)
	lookup = filepath.Join(dir, "lookup.json")
	require.NoError(t, os.WriteFile(lookup, data, 0o644))
	return docs, text, lookup
}

func TestWorkflow(t *testing.T) {
	docs, text, lookup := workspace(t)

	out := mustRun(t, "-p", docs, "import", "--title", "bul", "--label", "bul", text)
	assert.Contains(t, out, "Successfully imported 2 records")

	out = mustRun(t, "-p", docs, "ls")
	assert.Contains(t, out, "📖 0 bul")

	out = mustRun(t, "-p", docs, "labels")
	assert.Equal(t, "🏷  bul\n", out)

	out = mustRun(t, "-p", docs, "run", "--no-progress", "--lookup", lookup)
	assert.Equal(t, "📖 0 bul: 2 records, 1 failed, 1 projected\n", out)

	out = mustRun(t, "-p", docs, "show", "--no-color", "--no-prefix", "--format", "align", "0")
	assert.Contains(t, out, "her(2) -> 3fsg(1.2)")
	assert.Contains(t, out, "error:")

	out = mustRun(t, "-p", docs, "show", "--no-color", "--format", "dep", "0")
	assert.Contains(t, out, "statija-ta=i(1) --dobj--> Procetox(0)")

	out = mustRun(t, "-p", docs, "stat")
	assert.Contains(t, out, "Num docs 1, num records 2, processed 2, failed 1")
	assert.Contains(t, out, "Projected 1/2 (50.0%)")

	out = mustRun(t, "-p", docs, "find", "3sg")
	assert.Contains(t, out, "Mary love.3sg John")
	assert.Contains(t, out, "1 records\n")

	exported := filepath.Join(t.TempDir(), "out.txt")
	mustRun(t, "-p", docs, "export", "--text", "0", exported)
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Procetox statija-ta=i\nread.1sg article-DEF=3fsg\nI read her article.\n")
}

func TestRunProgressPerDoc(t *testing.T) {
	docs, text, lookup := workspace(t)
	mustRun(t, "-p", docs, "import", "--title", "a", text)
	mustRun(t, "-p", docs, "import", "--title", "b", text)

	var out, errOut bytes.Buffer
	err := newApp(UI{Out: &out, Err: &errOut}).Run([]string{"interlin", "-p", docs, "run", "--lookup", lookup})
	require.NoError(t, err)

	assert.Equal(t, "📖 0 a: 2 records, 1 failed, 1 projected\n📖 1 b: 2 records, 1 failed, 1 projected\n", out.String())
	assert.NotEmpty(t, errOut.String(), "bars are drawn on the error stream")

	p1, p2 := newProgress(UI{Err: &errOut}), newProgress(UI{Err: &errOut})
	assert.NotSame(t, p1, p2)
	assert.Empty(t, p2.Bars)
}

func TestEval(t *testing.T) {
	docs, _, lookup := workspace(t)

	doc := corpus.Doc{Title: "gold", Records: []corpus.Record{{
		ID:    "r1",
		Lang:  "Procetox statija-ta=i",
		Gloss: "read.1sg article-DEF=3fsg",
		Trans: "I read her article.",
		Gold: &corpus.Gold{
			Alignments: []string{"0-0", "2-1", "3-1"},
			GlossTags:  []string{"VERB", "ADJ"},
		},
	}}}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "gold.json")
	require.NoError(t, os.WriteFile(file, data, 0o644))

	mustRun(t, "-p", docs, "import", file)
	mustRun(t, "-p", docs, "run", "--no-progress", "--lookup", lookup)

	out := mustRun(t, "-p", docs, "eval")
	alignment, pos, ok := strings.Cut(out, "POS evaluation (gloss):\n")
	require.True(t, ok, out)

	assert.Contains(t, alignment, "Sys Counts: 4\n")
	assert.Contains(t, alignment, "Gold Counts: 3\n")
	assert.Contains(t, alignment, "Precision: 0.75\n")
	assert.Contains(t, alignment, "Recall: 1.00\n")

	assert.Contains(t, pos, "Matches: 1\n")
	assert.Contains(t, pos, "Precision: 0.50\n")
	assert.Contains(t, pos, "Recall: 0.50\n")
	assert.Regexp(t, `ADJ\s+0\s+1\s+0\s+0\n`, pos)
}

func TestMigrateToSQLite(t *testing.T) {
	docs, text, lookup := workspace(t)
	mustRun(t, "-p", docs, "import", "--title", "bul", text)
	mustRun(t, "-p", docs, "run", "--no-progress", "--lookup", lookup)

	db := filepath.Join(t.TempDir(), "corpus.db")
	out := mustRun(t, "-p", docs, "migrate", "--no-progress", "--to", db)
	assert.Contains(t, out, "Successfully migrated 1 docs")

	out = mustRun(t, "-p", db, "ls")
	assert.Equal(t, "📖 1 bul\n", out)

	out = mustRun(t, "-p", db, "show", "--format", "json", "1")
	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	result := items[0]["result"].(map[string]any)
	assert.Equal(t, []any{"0-0.0", "1-0.0", "2-1.2", "3-1.0"}, result["alignments"])

	out = mustRun(t, "-p", db, "find", "read", "def")
	assert.Contains(t, out, "[1 bul]")
}

func TestImportIntoNewSQLite(t *testing.T) {
	_, text, _ := workspace(t)
	db := filepath.Join(t.TempDir(), "new.db")

	out := mustRun(t, "-p", db, "import", text)
	assert.Contains(t, out, "as doc 1")

	out = mustRun(t, "-p", db, "ls")
	assert.Equal(t, "📖 1 sample\n", out)
}

func TestErrors(t *testing.T) {
	docs, _, _ := workspace(t)

	_, err := runApp(t, "-p", filepath.Join(docs, "missing"), "ls")
	assert.ErrorContains(t, err, "repository not found")

	t.Setenv("INTERLIN_DOC_PATH", "")
	_, err = runApp(t, "ls")
	assert.ErrorContains(t, err, "no document path")

	_, err = runApp(t, "-p", docs, "show", "7")
	assert.Error(t, err)

	_, err = runApp(t, "-p", docs, "show", "x")
	assert.ErrorContains(t, err, "invalid document id")

	_, err = runApp(t, "-p", docs, "run", "--heuristics", "exact,fuzzy")
	assert.ErrorContains(t, err, "unknown heuristic")

	_, err = runApp(t, "-c", filepath.Join(docs, "nope.yaml"), "version")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out := mustRun(t, "version")
	assert.Equal(t, "interlin version dev (commit: none)\n", out)
}
