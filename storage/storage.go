package storage

import (
	"errors"

	"github.com/revelaction/interlin/corpus"
)

var ErrNotFound = errors.New("not found")

// Cursor for paginated gloss part queries
type Cursor int64

// Candidate is a record found by FindCandidates, with its document.
type Candidate struct {
	DocID    int
	DocTitle string
	Record   corpus.Record
}

// DocReader defines read operations for document storage
type DocReader interface {
	// List returns the metadata (Id, Title, Labels) of documents.
	// If labelMatch is not empty, only documents with at least one label containing the string are returned.
	// Content (Records) is not loaded.
	List(labelMatch string) ([]corpus.Doc, error)

	// Read returns a document by ID
	Read(id int) (corpus.Doc, error)

	// FindCandidates returns records whose gloss line has ALL given parts
	// (lowercase, like "3sg" or "article"), resuming after the given cursor.
	// It calls onCandidate for each result and returns the new cursor.
	FindCandidates(parts []string, after Cursor, limit int, onCandidate func(Candidate) error) (Cursor, error)

	// Labels returns all unique labels found across all documents, sorted alphabetically.
	// If pattern is not empty, it returns labels that contain the pattern.
	Labels(pattern string) ([]string, error)
}

// DocWriter defines write operations for document storage
type DocWriter interface {
	// Write persists a new document with its records and returns its id.
	Write(doc corpus.Doc) (int, error)

	// WriteResults replaces the stored results of the given records of a
	// document. Records are matched by ID.
	WriteResults(docID int, records []corpus.Record) error
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}

// Preloader defines an optional capability for repositories that require
// or support eager loading of data into memory.
type Preloader interface {
	Preload(cb func(current, total int, name string)) error
}
