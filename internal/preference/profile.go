// AngelaMos | 2026
// profile.go

package preference

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ProfileID returns the visitor's browser profile id, issuing a new one when
// the cookie is missing or malformed.
func ProfileID(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	maxAge time.Duration,
	secure bool,
) string {
	if c, err := r.Cookie(name); err == nil {
		if id, parseErr := uuid.Parse(c.Value); parseErr == nil {
			return id.String()
		}
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    id,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}
