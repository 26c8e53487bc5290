package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/interlin/align"
	"github.com/revelaction/interlin/analysis"
	"github.com/revelaction/interlin/corpus"
	"github.com/revelaction/interlin/pipeline"
)

var readArticle = []analysis.Token{
	{Head: 1, Pos: "PRON", Dep: "nsubj", Text: "I", Lemma: "-PRON-", Index: 0},
	{Head: 1, Pos: "VERB", Dep: "ROOT", Text: "read", Lemma: "read", Index: 1},
	{Head: 3, Pos: "PRON", Dep: "poss", Text: "her", Lemma: "-PRON-", Index: 2},
	{Head: 1, Pos: "NOUN", Dep: "dobj", Text: "article", Lemma: "article", Index: 3},
	{Head: 1, Pos: "PUNCT", Dep: "punct", Text: ".", Lemma: ".", Index: 4},
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	hs, err := align.ParseHeuristics(align.DefaultHeuristics, nil, 0)
	require.NoError(t, err)
	runner := pipeline.NewRunner(align.NewAligner(hs, nil, nil))

	ts := httptest.NewServer(New(runner, []string{"http://allowed.example"}, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, body any) (*http.Response, map[string]any) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/project", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestProject(t *testing.T) {
	ts := newServer(t)

	resp, out := post(t, ts, projectRequest{
		ID:       "r1",
		Lang:     "Procetox statija-ta=i",
		Gloss:    "read.1sg article-DEF=3fsg",
		Trans:    "I read her article.",
		Analysis: readArticle,
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "r1", out["id"])
	assert.Equal(t, []any{"0-0.0", "1-0.0", "2-1.2", "3-1.0"}, out["alignments"])
	assert.Len(t, out["lang_deps"], 2)
	assert.NotContains(t, out, "error")
	assert.Contains(t, out["structure"], "statija-ta=i->(Procetox)")
}

func TestProjectFailure(t *testing.T) {
	ts := newServer(t)

	// no analysis and no parser
	resp, out := post(t, ts, corpus.Record{Lang: "a b", Gloss: "x y", Trans: "x y"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "request", out["id"])
	assert.Contains(t, out["error"], analysis.ErrNotFound.Error())

	// gloss and lang word counts differ
	resp, out = post(t, ts, projectRequest{Lang: "a b", Gloss: "x", Trans: "x", Analysis: readArticle[:1]})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.NotEmpty(t, out["error"])
}

func TestProjectBadRequest(t *testing.T) {
	ts := newServer(t)

	resp, out := post(t, ts, map[string]string{"lang": "a"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, out["error"])

	resp, err := http.Post(ts.URL+"/api/project", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/project")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthAndCORS(t *testing.T) {
	ts := newServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://allowed.example")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://allowed.example", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://other.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New(pipeline.NewRunner(align.NewAligner(nil, nil, nil)), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
