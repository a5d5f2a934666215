// AngelaMos | 2026
// cookie.go

package preference

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/carterperez-dev/automarket/internal/market"
)

// CookieStore keeps the market code in a first-party cookie so a server
// rendered page can read it before any client code runs.
type CookieStore struct {
	r      *http.Request
	w      http.ResponseWriter
	name   string
	maxAge time.Duration
	secure bool
}

type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

func NewCookieStore(
	w http.ResponseWriter,
	r *http.Request,
	opts CookieOptions,
) *CookieStore {
	return &CookieStore{
		r:      r,
		w:      w,
		name:   opts.Name,
		maxAge: opts.MaxAge,
		secure: opts.Secure,
	}
}

func (s *CookieStore) Name() string {
	return "cookie"
}

func (s *CookieStore) Read(_ context.Context) (string, error) {
	c, err := s.r.Cookie(s.name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read cookie %s: %w", s.name, err)
	}
	return c.Value, nil
}

func (s *CookieStore) Write(_ context.Context, code market.Code) error {
	c := &http.Cookie{
		Name:     s.name,
		Value:    code.String(),
		Path:     "/",
		MaxAge:   int(s.maxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	}

	if err := c.Valid(); err != nil {
		return fmt.Errorf("write cookie %s: %w", s.name, err)
	}

	http.SetCookie(s.w, c)
	return nil
}
