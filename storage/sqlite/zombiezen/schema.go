package zombiezen

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"

	"zombiezen.com/go/sqlite/sqlitex"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// DocsSchema creates the docs, records and record_parts tables.
const DocsSchema = "docs.sql"

var ErrUnknownSchema = errors.New("unknown schema")

// Schemas returns the names of the embedded scripts, sorted.
func Schemas() []string {
	names, err := fs.Glob(sqlFiles, "sql/*.sql")
	if err != nil {
		// the pattern is constant
		panic(err)
	}
	for i, n := range names {
		names[i] = path.Base(n)
	}
	slices.Sort(names)
	return names
}

// CreateSchemas runs the named scripts, all of them when none is given, in
// one transaction. Scripts only create missing objects, so running them on an
// existing database is a no-op.
func CreateSchemas(ctx context.Context, pool *sqlitex.Pool, names ...string) (err error) {
	known := Schemas()
	if len(names) == 0 {
		names = known
	}

	scripts := make([]string, len(names))
	for i, name := range names {
		if !slices.Contains(known, name) {
			return fmt.Errorf("%w: %q, have %v", ErrUnknownSchema, name, known)
		}
		data, err := sqlFiles.ReadFile(path.Join("sql", name))
		if err != nil {
			return err
		}
		scripts[i] = string(data)
	}

	conn, err := pool.Take(ctx)
	if err != nil {
		return err
	}
	defer pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	for i, script := range scripts {
		if err := sqlitex.ExecuteScript(conn, script, nil); err != nil {
			return fmt.Errorf("schema %s: %w", names[i], err)
		}
	}
	return nil
}
