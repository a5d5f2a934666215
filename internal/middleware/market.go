// AngelaMos | 2026
// market.go

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/carterperez-dev/automarket/internal/market"
	"github.com/carterperez-dev/automarket/internal/preference"
)

const ProfileIDKey contextKey = "profile_id"

// PrimaryStoreFunc builds the long-lived preference store for a profile.
type PrimaryStoreFunc func(profileID string) market.PreferenceStore

type MarketConfig struct {
	Catalog           *market.Catalog
	Detector          *market.Detector
	Primary           PrimaryStoreFunc
	CookieName        string
	CookieMaxAge      time.Duration
	ProfileCookieName string
	ProfileMaxAge     time.Duration
	SecureCookies     bool
	Logger            *slog.Logger
}

// Market builds one market.Store per request, runs its initialization, and
// exposes it through the request context.
func Market(cfg MarketConfig) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profileID := preference.ProfileID(
				w,
				r,
				cfg.ProfileCookieName,
				cfg.ProfileMaxAge,
				cfg.SecureCookies,
			)

			stores := make([]market.PreferenceStore, 0, 2)
			if cfg.Primary != nil {
				stores = append(stores, cfg.Primary(profileID))
			}
			stores = append(stores, preference.NewCookieStore(w, r,
				preference.CookieOptions{
					Name:   cfg.CookieName,
					MaxAge: cfg.CookieMaxAge,
					Secure: cfg.SecureCookies,
				},
			))

			logger := cfg.Logger.With("profile_id", profileID)
			store := market.NewStore(cfg.Catalog, cfg.Detector, logger, stores...)
			defer store.Teardown()

			store.Initialize(r.Context(), market.NewRequestSignals(r))

			ctx := context.WithValue(r.Context(), ProfileIDKey, profileID)
			ctx = market.WithStore(ctx, store)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetProfileID(ctx context.Context) string {
	if id, ok := ctx.Value(ProfileIDKey).(string); ok {
		return id
	}
	return ""
}
