package repositories

import (
	"context"
	"fmt"

	"github.com/lacrosselens/lacrosselens-engine/pkg/database"
)

// conn returns the connection (or transaction) bound to ctx.
func conn(ctx context.Context) (database.Querier, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}
	return scope.Conn, nil
}
