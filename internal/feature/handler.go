// AngelaMos | 2026
// handler.go

package feature

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/automarket/internal/core"
	"github.com/carterperez-dev/automarket/internal/market"
	"github.com/carterperez-dev/automarket/internal/session"
)

var errNoStore = errors.New("market store missing from request context")

type Handler struct {
	resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/features", func(r chi.Router) {
		r.Get("/", h.ListFeatures)
		r.Get("/{key}", h.GetFeature)
		r.Get("/{key}/gate", h.RenderGate)
	})
}

func (h *Handler) ListFeatures(w http.ResponseWriter, r *http.Request) {
	store := market.StoreFromContext(r.Context())
	if store == nil {
		core.InternalServerError(w, errNoStore)
		return
	}

	code := store.Current()
	core.OK(w, SnapshotResponse{
		Market:   code,
		Features: h.resolver.Snapshot(code, session.UserFromContext(r.Context())),
	})
}

// GetFeature answers 200 even for unknown keys; the verdict reason carries
// feature_not_found so clients fail closed.
func (h *Handler) GetFeature(w http.ResponseWriter, r *http.Request) {
	store := market.StoreFromContext(r.Context())
	if store == nil {
		core.InternalServerError(w, errNoStore)
		return
	}

	name := chi.URLParam(r, "key")
	code := store.Current()

	core.OK(w, VerdictResponse{
		Key:     name,
		Market:  code,
		Verdict: h.resolver.ResolveName(name, code, session.UserFromContext(r.Context())),
	})
}

// RenderGate returns the HTML fragment for one gated slot.
func (h *Handler) RenderGate(w http.ResponseWriter, r *http.Request) {
	store := market.StoreFromContext(r.Context())
	if store == nil {
		core.InternalServerError(w, errNoStore)
		return
	}

	name := chi.URLParam(r, "key")
	q := r.URL.Query()

	gate := Gate{
		Fallback:        template.HTML(template.HTMLEscapeString(q.Get("fallback"))), //nolint:gosec // escaped above
		ShowLoginPrompt: parseBoolQuery(r, "login_prompt"),
		ShowComingSoon:  parseBoolQuery(r, "coming_soon"),
		ShowBeta:        parseBoolQuery(r, "beta"),
	}

	verdict := h.resolver.ResolveName(
		name,
		store.Current(),
		session.UserFromContext(r.Context()),
	)

	slot := template.HTML(fmt.Sprintf( //nolint:gosec // name is escaped
		`<div data-feature="%s"></div>`,
		template.HTMLEscapeString(name),
	))

	var buf bytes.Buffer
	outcome, err := gate.Render(&buf, verdict, slot)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Feature-Outcome", outcome.String())
	w.Header().Set("X-Feature-Reason", string(verdict.Reason))
	w.Header().Set("Vary", "Cookie, Authorization")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // best-effort response write
	_, _ = buf.WriteTo(w)
}

func parseBoolQuery(r *http.Request, key string) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return false
	}

	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return false
	}

	return parsed
}
