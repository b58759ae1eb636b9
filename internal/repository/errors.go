// Package repository implements the storage collaborators over database/sql
// with MySQL. Repositories that back a core interface (schedule.TxStore,
// enroll.TxStore) expose a Transact method that reruns the repository's own
// methods against a *sql.Tx, so core transactions stay invisible to callers.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrEmailTaken is returned when registering a user with an email that
// already exists. Handlers translate it into an HTTP 409.
var ErrEmailTaken = errors.New("email already registered")

// dbtx is the subset of database operations shared by *sql.DB and *sql.Tx.
// Repository methods run against it so the same code serves both plain and
// transactional calls.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
