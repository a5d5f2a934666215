// AngelaMos | 2026
// context.go

package market

import (
	"context"
)

type contextKey struct{}

func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func StoreFromContext(ctx context.Context) *Store {
	if s, ok := ctx.Value(contextKey{}).(*Store); ok {
		return s
	}
	return nil
}
