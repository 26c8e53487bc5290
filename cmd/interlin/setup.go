package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/revelaction/interlin/align"
	"github.com/revelaction/interlin/analysis"
	"github.com/revelaction/interlin/config"
	"github.com/revelaction/interlin/pipeline"
	"github.com/revelaction/interlin/storage"
	"github.com/revelaction/interlin/storage/filesystem"
	"github.com/revelaction/interlin/storage/sqlite/zombiezen"
)

// NewDocRepository returns the filesystem store for a directory and the
// SQLite store for a file. With create, a missing path with a SQLite
// extension is created as a new database.
func NewDocRepository(p *Pool, path string, create bool) (storage.DocRepository, error) {
	if path == "" {
		return nil, errors.New("no document path: use --doc-path or INTERLIN_DOC_PATH")
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return filesystem.NewDocStore(path)
	case err == nil:
	case create && isSQLitePath(path):
	default:
		return nil, fmt.Errorf("repository not found: %s", path)
	}

	pool, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewDocStore(pool), nil
}

func isSQLitePath(path string) bool {
	switch filepath.Ext(path) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// NewRunner builds the processing pipeline from the configuration. A
// non-empty lookupPath loads a translation analysis file, used both as parser
// and as lemma table.
func NewRunner(cfg *config.Config, lookupPath string, logger *slog.Logger) (*pipeline.Runner, error) {
	var dict align.GramDict
	if cfg.Align.GramDict != "" {
		d, err := align.LoadGramDict(cfg.Align.GramDict)
		if err != nil {
			return nil, err
		}
		dict = d
	}

	hs, err := align.ParseHeuristics(cfg.Align.Heuristics(), dict, cfg.Align.SubstringMinLength)
	if err != nil {
		return nil, err
	}

	opts := []pipeline.Option{
		pipeline.WithWorkers(cfg.Pipeline.Workers),
		pipeline.WithStrictMorphs(cfg.Align.StrictMorphs),
		pipeline.WithLogger(logger),
	}

	var lem align.Lemmatizer
	if lookupPath != "" {
		lookup, err := analysis.LoadLookup(lookupPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", lookupPath, err)
		}
		lem = lookup
		opts = append(opts, pipeline.WithParser(lookup))
	}

	return pipeline.NewRunner(align.NewAligner(hs, lem, logger), opts...), nil
}
