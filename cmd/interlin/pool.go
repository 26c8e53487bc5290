package main

import (
	"context"

	"github.com/revelaction/interlin/storage/sqlite/zombiezen"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Pool opens the SQLite pool of a command lazily, once.
type Pool struct {
	p    *sqlitex.Pool
	size int
}

func (p *Pool) Open(path string) (*sqlitex.Pool, error) {
	if p.p != nil {
		return p.p, nil
	}
	pool, err := zombiezen.NewPool(path, p.size)
	if err != nil {
		return nil, err
	}
	if err := zombiezen.CreateSchemas(context.TODO(), pool); err != nil {
		pool.Close()
		return nil, err
	}
	p.p = pool
	return p.p, nil
}

func (p *Pool) Close() error {
	if p.p != nil {
		err := p.p.Close()
		p.p = nil
		return err
	}
	return nil
}
