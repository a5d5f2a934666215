// AngelaMos | 2026
// user.go

package session

import (
	"context"
)

// User is the read-only view of the signed-in visitor supplied by the auth
// collaborator. A nil *User means nobody is signed in.
type User struct {
	ID       string
	Verified bool
}

func (u *User) IsVerified() bool {
	return u != nil && u.Verified
}

type contextKey struct{}

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

func UserFromContext(ctx context.Context) *User {
	if u, ok := ctx.Value(contextKey{}).(*User); ok {
		return u
	}
	return nil
}
