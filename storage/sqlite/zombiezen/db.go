package zombiezen

import (
	"fmt"
	"runtime"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// NewPool opens a pool of connections to the corpus database at dbPath.
// size <= 0 means one connection per CPU. Every connection enforces foreign
// keys.
func NewPool(dbPath string, size int) (*sqlitex.Pool, error) {
	if size <= 0 {
		size = runtime.NumCPU()
	}

	pool, err := sqlitex.NewPool(fmt.Sprintf("file:%s", dbPath), sqlitex.PoolOptions{
		PoolSize: size,
		PrepareConn: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteTransient(conn, "PRAGMA foreign_keys = ON;", nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus database %s: %w", dbPath, err)
	}
	return pool, nil
}
