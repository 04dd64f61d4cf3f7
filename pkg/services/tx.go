package services

import (
	"context"

	"github.com/lacrosselens/lacrosselens-engine/pkg/database"
)

// Transactor runs fn inside a transaction. The context passed to fn carries
// the transaction scope.
type Transactor func(ctx context.Context, fn func(ctx context.Context) error) error

// DatabaseTransactor uses the scope stored in the context.
var DatabaseTransactor Transactor = database.InTx

// passthroughTx runs fn without a transaction.
func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ScopeFunc gives background work its own database scope. The cleanup
// function must be called when the work is done.
type ScopeFunc func(ctx context.Context) (context.Context, func(), error)

// ProviderScope adapts a database.ScopeProvider.
func ProviderScope(p database.ScopeProvider) ScopeFunc {
	return p.WithScope
}

// inheritScope reuses whatever scope ctx already carries.
func inheritScope(ctx context.Context) (context.Context, func(), error) {
	return ctx, func() {}, nil
}
