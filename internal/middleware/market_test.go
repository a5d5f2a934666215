// AngelaMos | 2026
// market_test.go

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/automarket/internal/market"
	"github.com/carterperez-dev/automarket/internal/preference"
)

// profileStores hands out one memory store per profile, standing in for
// the redis primary.
type profileStores struct {
	mu     sync.Mutex
	stores map[string]*preference.MemoryStore
}

func (p *profileStores) get(profileID string) *preference.MemoryStore {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stores == nil {
		p.stores = make(map[string]*preference.MemoryStore)
	}
	s, ok := p.stores[profileID]
	if !ok {
		s = preference.NewMemoryStore("memory", "")
		p.stores[profileID] = s
	}
	return s
}

func newMarketRouter(t *testing.T, primary *profileStores) http.Handler {
	t.Helper()

	catalog := market.DefaultCatalog()

	r := chi.NewRouter()
	r.Use(Market(MarketConfig{
		Catalog:  catalog,
		Detector: market.NewDetector(catalog),
		Primary: func(profileID string) market.PreferenceStore {
			return primary.get(profileID)
		},
		CookieName:        "market",
		CookieMaxAge:      30 * 24 * time.Hour,
		ProfileCookieName: "profile_id",
		ProfileMaxAge:     400 * 24 * time.Hour,
	}))
	market.NewHandler(market.HandlerConfig{Catalog: catalog}).RegisterRoutes(r, nil)

	return r
}

type marketBody struct {
	Market string `json:"market"`
	Source string `json:"source"`
	State  string `json:"state"`
}

func serveMarket(t *testing.T, h http.Handler, req *http.Request) (marketBody, *http.Response) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("%s %s status = %d: %s", req.Method, req.URL.Path, rec.Code, rec.Body.String())
	}

	var env struct {
		Data marketBody `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Data, rec.Result()
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestMarket_DetectsThenPersistsAcrossRequests(t *testing.T) {
	primary := &profileStores{}
	h := newMarketRouter(t, primary)

	first := httptest.NewRequest(http.MethodGet, "/market", nil)
	first.Header.Set("Accept-Language", "pl-PL,pl;q=0.9,en;q=0.8")

	body, resp := serveMarket(t, h, first)
	if body.Market != "PL" || body.Source != "detected" || body.State != "resolved" {
		t.Fatalf("first load = %+v, want PL detected resolved", body)
	}

	profile := findCookie(resp, "profile_id")
	if profile == nil {
		t.Fatal("first load did not issue a profile cookie")
	}

	put := httptest.NewRequest(http.MethodPut, "/market", strings.NewReader(`{"market":"UA"}`))
	put.AddCookie(profile)
	body, resp = serveMarket(t, h, put)
	if body.Market != "UA" || body.Source != "selected" {
		t.Fatalf("switch = %+v, want UA selected", body)
	}

	marketCookie := findCookie(resp, "market")
	if marketCookie == nil || marketCookie.Value != "UA" {
		t.Fatalf("switch cookie = %+v, want market=UA", marketCookie)
	}
	if got := primary.get(profile.Value).Value(); got != "UA" {
		t.Errorf("primary store = %q, want UA", got)
	}

	reload := httptest.NewRequest(http.MethodGet, "/market", nil)
	reload.Header.Set("Accept-Language", "pl")
	reload.AddCookie(profile)
	body, _ = serveMarket(t, h, reload)
	if body.Market != "UA" || body.Source != "persisted" {
		t.Errorf("reload = %+v, want UA persisted", body)
	}
}

func TestMarket_CookieFallbackWithFreshProfile(t *testing.T) {
	h := newMarketRouter(t, &profileStores{})

	req := httptest.NewRequest(http.MethodGet, "/market", nil)
	req.Header.Set("Accept-Language", "uk")
	req.AddCookie(&http.Cookie{Name: "market", Value: "PL"})

	body, _ := serveMarket(t, h, req)
	if body.Market != "PL" || body.Source != "persisted" {
		t.Errorf("got %+v, want PL from the cookie", body)
	}
}

func TestMarket_IgnoresDisabledPersistedValue(t *testing.T) {
	h := newMarketRouter(t, &profileStores{})

	req := httptest.NewRequest(http.MethodGet, "/market", nil)
	req.AddCookie(&http.Cookie{Name: "market", Value: "SK"})

	body, _ := serveMarket(t, h, req)
	if body.Market != "UA" || body.Source != "detected" {
		t.Errorf("got %+v, want default UA via detection", body)
	}
}

func TestMarket_ProfileIDInContext(t *testing.T) {
	catalog := market.DefaultCatalog()

	var seen string
	h := Market(MarketConfig{
		Catalog:           catalog,
		Detector:          market.NewDetector(catalog),
		CookieName:        "market",
		CookieMaxAge:      time.Hour,
		ProfileCookieName: "profile_id",
		ProfileMaxAge:     time.Hour,
	})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetProfileID(r.Context())
		if market.StoreFromContext(r.Context()) == nil {
			t.Error("store missing from context")
		}
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookie := findCookie(rec.Result(), "profile_id")
	if cookie == nil || seen != cookie.Value {
		t.Errorf("context profile id = %q, cookie = %+v", seen, cookie)
	}
}
