// AngelaMos | 2026
// handler.go

package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/automarket/internal/core"
)

var errNoStore = errors.New("market store missing from request context")

type HandlerConfig struct {
	Catalog *Catalog
	// Snapshot returns the feature verdicts for a market; the caller's
	// session is read from ctx.
	Snapshot func(ctx context.Context, code Code) any
}

type Handler struct {
	catalog   *Catalog
	snapshot  func(ctx context.Context, code Code) any
	validator *validator.Validate
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		catalog:   cfg.Catalog,
		snapshot:  cfg.Snapshot,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	switchLimiter func(http.Handler) http.Handler,
) {
	if switchLimiter == nil {
		switchLimiter = func(next http.Handler) http.Handler { return next }
	}

	r.Get("/markets", h.ListMarkets)

	r.Route("/market", func(r chi.Router) {
		r.Get("/", h.GetMarket)
		r.With(switchLimiter).Put("/", h.SetMarket)
	})
}

func (h *Handler) ListMarkets(w http.ResponseWriter, _ *http.Request) {
	enabled := h.catalog.ListEnabled()
	configs := make([]Config, 0, len(enabled))
	for _, code := range enabled {
		configs = append(configs, h.catalog.MustGet(code))
	}

	core.OK(w, MarketListResponse{
		Markets: configs,
		Default: h.catalog.Default(),
	})
}

func (h *Handler) GetMarket(w http.ResponseWriter, r *http.Request) {
	store := StoreFromContext(r.Context())
	if store == nil {
		core.InternalServerError(w, errNoStore)
		return
	}

	core.OK(w, ToMarketResponse(store))
}

func (h *Handler) SetMarket(w http.ResponseWriter, r *http.Request) {
	store := StoreFromContext(r.Context())
	if store == nil {
		core.InternalServerError(w, errNoStore)
		return
	}

	var req SetMarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	code, ok := ParseCode(req.Market)
	if !ok || !h.catalog.IsEnabled(code) {
		core.JSONError(w, core.UnprocessableError(
			"MARKET_NOT_ENABLED",
			fmt.Sprintf("market %s is not available", req.Market),
			core.ErrMarketDisabled,
		))
		return
	}

	previous := store.Current()

	ctx, span := core.StartSpan(r.Context(), "market.switch",
		attribute.String("market.from", previous.String()),
		attribute.String("market.to", code.String()),
	)
	defer span.End()

	store.SetMarket(ctx, code)
	core.AddSpanEvent(ctx, "market.switched",
		attribute.String("from", previous.String()),
		attribute.String("to", code.String()),
	)

	resp := SwitchResponse{MarketResponse: ToMarketResponse(store)}
	if h.snapshot != nil {
		resp.Features = h.snapshot(ctx, code)
	}

	core.OK(w, resp)
}
