package filesystem

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/revelaction/interlin/corpus"
	"github.com/revelaction/interlin/storage"
)

// DocStore keeps every document as one JSON file in a directory. Document
// ids are positions in the directory listing.
type DocStore struct {
	docDir string

	// In-memory cache
	docs   []corpus.Doc
	files  []string
	loaded []bool
}

var _ storage.DocRepository = (*DocStore)(nil)
var _ storage.Preloader = (*DocStore)(nil)

// NewDocStore creates a filesystem document handler.
func NewDocStore(docDir string) (*DocStore, error) {
	files, err := os.ReadDir(docDir)
	if err != nil {
		return nil, err
	}

	h := &DocStore{docDir: docDir}
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}
		h.add(corpus.Doc{Title: file.Name()}, file.Name(), false)
	}
	return h, nil
}

func (h *DocStore) add(doc corpus.Doc, file string, loaded bool) int {
	doc.Id = len(h.docs)
	h.docs = append(h.docs, doc)
	h.files = append(h.files, file)
	h.loaded = append(h.loaded, loaded)
	return doc.Id
}

func (h *DocStore) load(id int) error {
	if h.loaded[id] {
		return nil
	}

	doc, err := ReadDoc(filepath.Join(h.docDir, h.files[id]))
	if err != nil {
		return fmt.Errorf("%s: %w", h.files[id], err)
	}

	doc.Id = id
	if doc.Title == "" {
		doc.Title = h.files[id]
	}
	h.docs[id] = doc
	h.loaded[id] = true
	return nil
}

// Preload loads all docs into memory.
func (h *DocStore) Preload(cb func(current, total int, name string)) error {
	total := len(h.docs)
	for i := range h.docs {
		if cb != nil {
			cb(i+1, total, h.files[i])
		}
		if err := h.load(i); err != nil {
			return err
		}
	}
	return nil
}

func (h *DocStore) List(labelMatch string) ([]corpus.Doc, error) {
	if labelMatch != "" {
		if err := h.Preload(nil); err != nil {
			return nil, err
		}
	}

	var docs []corpus.Doc
	for _, doc := range h.docs {
		if labelMatch != "" && !slices.ContainsFunc(doc.Labels, func(l string) bool {
			return strings.Contains(l, labelMatch)
		}) {
			continue
		}
		docs = append(docs, corpus.Doc{Id: doc.Id, Title: doc.Title, Labels: doc.Labels})
	}
	return docs, nil
}

func (h *DocStore) Read(id int) (corpus.Doc, error) {
	if id < 0 || id >= len(h.docs) {
		return corpus.Doc{}, fmt.Errorf("doc id out of range: %d: %w", id, storage.ErrNotFound)
	}
	if err := h.load(id); err != nil {
		return corpus.Doc{}, err
	}
	return h.docs[id], nil
}

// FindCandidates scans all records in memory. The cursor is the position of
// the last returned record across all documents, starting at 1.
func (h *DocStore) FindCandidates(parts []string, after storage.Cursor, limit int, onCandidate func(storage.Candidate) error) (storage.Cursor, error) {
	if len(parts) == 0 {
		return after, nil
	}
	if err := h.Preload(nil); err != nil {
		return after, err
	}

	var pos storage.Cursor
	found := 0
	for _, doc := range h.docs {
		for _, rec := range doc.Records {
			pos++
			if pos <= after || !corpus.HasParts(rec, parts) {
				continue
			}
			if err := onCandidate(storage.Candidate{DocID: doc.Id, DocTitle: doc.Title, Record: rec}); err != nil {
				return after, err
			}
			after = pos
			found++
			if limit > 0 && found >= limit {
				return after, nil
			}
		}
	}
	return after, nil
}

func (h *DocStore) Labels(pattern string) ([]string, error) {
	if err := h.Preload(nil); err != nil {
		return nil, err
	}

	var labels []string
	for _, doc := range h.docs {
		for _, l := range doc.Labels {
			if pattern != "" && !strings.Contains(l, pattern) {
				continue
			}
			if !slices.Contains(labels, l) {
				labels = append(labels, l)
			}
		}
	}
	slices.Sort(labels)
	return labels, nil
}

// Write stores doc in a new file named after its title.
func (h *DocStore) Write(doc corpus.Doc) (int, error) {
	name := FileName(doc.Title)
	path := filepath.Join(h.docDir, name)
	if _, err := os.Stat(path); err == nil {
		return 0, fmt.Errorf("doc file already exists: %s", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return 0, err
	}

	id := len(h.docs)
	doc.Id = id
	if err := WriteDoc(path, doc); err != nil {
		return 0, err
	}
	return h.add(doc, name, true), nil
}

func (h *DocStore) WriteResults(docID int, records []corpus.Record) error {
	doc, err := h.Read(docID)
	if err != nil {
		return err
	}

	results := make(map[string]*corpus.Result, len(records))
	for _, rec := range records {
		results[rec.ID] = rec.Result
	}
	for i, rec := range doc.Records {
		if res, ok := results[rec.ID]; ok {
			doc.Records[i].Result = res
		}
	}

	if err := WriteDoc(filepath.Join(h.docDir, h.files[docID]), doc); err != nil {
		return err
	}
	h.docs[docID] = doc
	return nil
}

// FileName turns a document title into a JSON file name.
func FileName(title string) string {
	base := strings.TrimSuffix(filepath.Base(title), ".json")
	slug := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			return unicode.ToLower(r)
		}
		return '-'
	}, base)
	if slug == "" || slug == "." {
		slug = "doc"
	}
	return slug + ".json"
}

// ReadDoc reads a Doc JSON from the given path and unmarshals it.
func ReadDoc(path string) (corpus.Doc, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return corpus.Doc{}, fmt.Errorf("IO error: %w", err)
	}

	var doc corpus.Doc
	err = json.Unmarshal(f, &doc)
	if err != nil {
		return corpus.Doc{}, fmt.Errorf("JSON decoding error: %w", err)
	}

	return doc, nil
}

// WriteDoc marshals doc as indented JSON to path.
func WriteDoc(path string, doc corpus.Doc) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
