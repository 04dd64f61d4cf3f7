package database

import (
	"context"
)

type contextKey string

// ScopeKey is the context key for the request's database scope.
const ScopeKey contextKey = "dbScope"

// GetScope retrieves the database scope from context.
func GetScope(ctx context.Context) (*Scope, bool) {
	scope, ok := ctx.Value(ScopeKey).(*Scope)
	return scope, ok && scope != nil
}

// SetScope stores the database scope in context.
func SetScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, ScopeKey, scope)
}

// ScopeProvider creates scoped contexts for code that runs outside an HTTP
// request: the video processor, the watchdog and MCP tools.
type ScopeProvider interface {
	WithScope(ctx context.Context) (context.Context, func(), error)
}

type poolScopeProvider struct {
	db *DB
}

var _ ScopeProvider = (*poolScopeProvider)(nil)

// NewScopeProvider creates a ScopeProvider backed by db.
func NewScopeProvider(db *DB) ScopeProvider {
	return &poolScopeProvider{db: db}
}

// WithScope returns a context carrying a fresh scope. The cleanup function
// must be called when the work is done.
func (p *poolScopeProvider) WithScope(ctx context.Context) (context.Context, func(), error) {
	scope, err := p.db.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	return SetScope(ctx, scope), scope.Close, nil
}
