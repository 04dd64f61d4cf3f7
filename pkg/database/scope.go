package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx shared by pooled connections and transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var (
	_ Querier = (*pgxpool.Conn)(nil)
	_ Querier = (pgx.Tx)(nil)
)

// Scope is a database handle bound to one request or background run.
// Conn is a pooled connection, or a transaction inside InTx.
type Scope struct {
	Conn    Querier
	release func()
}

// Close releases the underlying connection. Safe to call more than once.
func (s *Scope) Close() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

// Acquire takes a connection from the pool. The returned Scope MUST be closed.
func (db *DB) Acquire(ctx context.Context) (*Scope, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &Scope{Conn: conn, release: conn.Release}, nil
}

// InTx runs fn inside a transaction on the scope stored in ctx. The context
// passed to fn carries a scope bound to the transaction, so repositories
// called from fn join it. A nested InTx becomes a savepoint.
func InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	scope, ok := GetScope(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	tx, err := scope.Conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(SetScope(ctx, &Scope{Conn: tx})); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
