// AngelaMos | 2026
// resolver.go

package feature

import (
	"github.com/carterperez-dev/automarket/internal/market"
	"github.com/carterperez-dev/automarket/internal/session"
)

type Reason string

const (
	ReasonNone                 Reason = "none"
	ReasonFeatureNotFound      Reason = "feature_not_found"
	ReasonMarketNotSupported   Reason = "market_not_supported"
	ReasonAuthRequired         Reason = "auth_required"
	ReasonVerificationRequired Reason = "verification_required"
)

type Verdict struct {
	Enabled bool    `json:"enabled"`
	Reason  Reason  `json:"reason"`
	Config  *Config `json:"config"`
}

func denied(reason Reason, cfg *Config) Verdict {
	return Verdict{Enabled: false, Reason: reason, Config: cfg}
}

type Resolver struct {
	catalog *Catalog
}

func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve is a pure function of its inputs. Market gating runs before the
// auth checks so an unsupported feature never prompts for login.
func (r *Resolver) Resolve(key Key, code market.Code, user *session.User) Verdict {
	cfg, ok := r.catalog.Get(key)
	if !ok {
		return denied(ReasonFeatureNotFound, nil)
	}

	if !r.catalog.IsEnabledForMarket(key, code) {
		return denied(ReasonMarketNotSupported, &cfg)
	}

	if cfg.RequiresAuth && user == nil {
		return denied(ReasonAuthRequired, &cfg)
	}

	if cfg.RequiresVerification && !user.IsVerified() {
		return denied(ReasonVerificationRequired, &cfg)
	}

	return Verdict{Enabled: true, Reason: ReasonNone, Config: &cfg}
}

// ResolveName resolves an untrusted feature name; unknown names fail closed.
func (r *Resolver) ResolveName(name string, code market.Code, user *session.User) Verdict {
	key, ok := ParseKey(name)
	if !ok {
		return denied(ReasonFeatureNotFound, nil)
	}
	return r.Resolve(key, code, user)
}

func (r *Resolver) Snapshot(code market.Code, user *session.User) map[string]Verdict {
	out := make(map[string]Verdict, len(allKeys))
	for _, key := range allKeys {
		out[key.String()] = r.Resolve(key, code, user)
	}
	return out
}
