package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/interlin/corpus"
	"github.com/revelaction/interlin/storage"
)

type DocStore struct {
	pool *sqlitex.Pool
}

var _ storage.DocRepository = (*DocStore)(nil)

func NewDocStore(pool *sqlitex.Pool) *DocStore {
	return &DocStore{pool: pool}
}

func (h *DocStore) List(labelMatch string) ([]corpus.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var docs []corpus.Doc
	err = sqlitex.Execute(conn, "SELECT id, title, labels FROM docs ORDER BY title", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			doc := corpus.Doc{
				Id:     stmt.ColumnInt(0),
				Title:  stmt.ColumnText(1),
				Labels: splitLabels(stmt.ColumnText(2)),
			}
			if labelMatch != "" && !slices.ContainsFunc(doc.Labels, func(l string) bool {
				return strings.Contains(l, labelMatch)
			}) {
				return nil
			}
			docs = append(docs, doc)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (h *DocStore) Read(id int) (corpus.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return corpus.Doc{}, err
	}
	defer h.pool.Put(conn)

	doc := corpus.Doc{Id: id}
	found := false

	err = sqlitex.Execute(conn, "SELECT title, labels FROM docs WHERE id = ?", &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			doc.Title = stmt.ColumnText(0)
			doc.Labels = splitLabels(stmt.ColumnText(1))
			return nil
		},
	})
	if err != nil {
		return corpus.Doc{}, err
	}
	if !found {
		return corpus.Doc{}, fmt.Errorf("doc not found: %d: %w", id, storage.ErrNotFound)
	}

	err = sqlitex.Execute(conn, "SELECT data, result FROM records WHERE doc_id = ? ORDER BY position", &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rec, err := scanRecord(stmt, 0, 1)
			if err != nil {
				return err
			}
			doc.Records = append(doc.Records, rec)
			return nil
		},
	})
	if err != nil {
		return corpus.Doc{}, err
	}

	return doc, nil
}

func (h *DocStore) FindCandidates(parts []string, after storage.Cursor, limit int, onCandidate func(storage.Candidate) error) (storage.Cursor, error) {
	if len(parts) == 0 {
		return after, nil
	}

	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return after, err
	}
	defer h.pool.Put(conn)

	// INTERSECT keeps the records having ALL parts, each once.
	var queryBuilder strings.Builder
	var args []any

	for i, part := range parts {
		if i > 0 {
			queryBuilder.WriteString(" INTERSECT ")
		}
		queryBuilder.WriteString("SELECT record_rowid FROM record_parts WHERE part = ? AND record_rowid > ?")
		args = append(args, strings.ToLower(part), int64(after))
	}
	queryBuilder.WriteString(" ORDER BY 1")
	if limit > 0 {
		queryBuilder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	var rowIDs []string
	err = sqlitex.Execute(conn, queryBuilder.String(), &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rowIDs = append(rowIDs, strconv.FormatInt(stmt.ColumnInt64(0), 10))
			return nil
		},
	})
	if err != nil {
		return after, err
	}

	if len(rowIDs) == 0 {
		return after, nil
	}

	query := fmt.Sprintf(`SELECT r.id, r.doc_id, d.title, r.data, r.result
		FROM records r JOIN docs d ON r.doc_id = d.id
		WHERE r.id IN (%s) ORDER BY r.id`, strings.Join(rowIDs, ","))

	newCursor := after
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rowID := stmt.ColumnInt64(0)
			rec, err := scanRecord(stmt, 3, 4)
			if err != nil {
				return err
			}
			if err := onCandidate(storage.Candidate{
				DocID:    stmt.ColumnInt(1),
				DocTitle: stmt.ColumnText(2),
				Record:   rec,
			}); err != nil {
				return err
			}
			if storage.Cursor(rowID) > newCursor {
				newCursor = storage.Cursor(rowID)
			}
			return nil
		},
	})
	if err != nil {
		return after, err
	}

	return newCursor, nil
}

func (h *DocStore) Labels(pattern string) ([]string, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var labels []string
	err = sqlitex.Execute(conn, "SELECT labels FROM docs", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			for _, l := range splitLabels(stmt.ColumnText(0)) {
				if pattern != "" && !strings.Contains(l, pattern) {
					continue
				}
				if !slices.Contains(labels, l) {
					labels = append(labels, l)
				}
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(labels)
	return labels, nil
}

func (h *DocStore) Write(doc corpus.Doc) (id int, err error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return 0, err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	labels := strings.Join(doc.Labels, ",")
	err = sqlitex.Execute(conn, "INSERT INTO docs (title, labels) VALUES (?, ?)", &sqlitex.ExecOptions{
		Args: []any{doc.Title, labels},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert doc: %w", err)
	}
	docID := conn.LastInsertRowID()

	for pos, rec := range doc.Records {
		data, result, err := marshalRecord(rec)
		if err != nil {
			return 0, err
		}

		err = sqlitex.Execute(conn, "INSERT INTO records (doc_id, position, record_id, data, result) VALUES (?, ?, ?, ?, ?)", &sqlitex.ExecOptions{
			Args: []any{docID, pos, rec.ID, data, result},
		})
		if err != nil {
			return 0, fmt.Errorf("failed to insert record %s: %w", rec.ID, err)
		}
		recRowID := conn.LastInsertRowID()

		for _, part := range corpus.GlossParts(rec) {
			err = sqlitex.Execute(conn, "INSERT INTO record_parts (part, record_rowid) VALUES (?, ?)", &sqlitex.ExecOptions{
				Args: []any{part, recRowID},
			})
			if err != nil {
				return 0, fmt.Errorf("failed to insert part: %w", err)
			}
		}
	}

	return int(docID), nil
}

func (h *DocStore) WriteResults(docID int, records []corpus.Record) (err error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	for _, rec := range records {
		_, result, err := marshalRecord(rec)
		if err != nil {
			return err
		}
		err = sqlitex.Execute(conn, "UPDATE records SET result = ? WHERE doc_id = ? AND record_id = ?", &sqlitex.ExecOptions{
			Args: []any{result, docID, rec.ID},
		})
		if err != nil {
			return fmt.Errorf("failed to update result of %s: %w", rec.ID, err)
		}
	}
	return nil
}

// marshalRecord returns the record without its result, and the result or nil
// for NULL.
func marshalRecord(rec corpus.Record) (string, any, error) {
	res := rec.Result
	rec.Result = nil

	data, err := json.Marshal(rec)
	if err != nil {
		return "", nil, err
	}
	if res == nil {
		return string(data), nil, nil
	}

	resData, err := json.Marshal(res)
	if err != nil {
		return "", nil, err
	}
	return string(data), string(resData), nil
}

func scanRecord(stmt *sqlite.Stmt, dataCol, resultCol int) (corpus.Record, error) {
	var rec corpus.Record
	if err := json.Unmarshal([]byte(stmt.ColumnText(dataCol)), &rec); err != nil {
		return rec, err
	}
	if stmt.ColumnType(resultCol) != sqlite.TypeNull {
		rec.Result = &corpus.Result{}
		if err := json.Unmarshal([]byte(stmt.ColumnText(resultCol)), rec.Result); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

func splitLabels(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
