// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
redis:
  url: redis://localhost:6379/0
market:
  enabled: [UA, PL, SK]
  cookie_max_age: 48h
`)

	c, err := load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Market.Default != "UA" {
		t.Errorf("Market.Default = %q, want UA", c.Market.Default)
	}
	if strings.Join(c.Market.Enabled, ",") != "UA,PL,SK" {
		t.Errorf("Market.Enabled = %v, want [UA PL SK]", c.Market.Enabled)
	}
	if c.Market.CookieMaxAge != 48*time.Hour {
		t.Errorf("Market.CookieMaxAge = %v, want 48h", c.Market.CookieMaxAge)
	}
	if c.Market.PrimaryStore != PrimaryStoreRedis {
		t.Errorf("Market.PrimaryStore = %q, want redis", c.Market.PrimaryStore)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
redis:
  url: redis://file:6379/0
market:
  default: UA
`)
	t.Setenv("REDIS_URL", "redis://env:6379/0")
	t.Setenv("MARKET_DEFAULT", "PL")

	c, err := load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Redis.URL != "redis://env:6379/0" {
		t.Errorf("Redis.URL = %q, want env value", c.Redis.URL)
	}
	if c.Market.Default != "PL" {
		t.Errorf("Market.Default = %q, want PL", c.Market.Default)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("load(missing) = nil error, want error")
	}
}

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Server: ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second},
		Redis:  RedisConfig{URL: "redis://localhost:6379"},
		Market: MarketConfig{
			Default:           "UA",
			Enabled:           []string{"UA", "PL"},
			PrimaryStore:      PrimaryStoreRedis,
			CookieName:        "market",
			CookieMaxAge:      time.Hour,
			ProfileCookieName: "profile_id",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing redis", func(c *Config) { c.Redis.URL = "" }, "REDIS_URL"},
		{"postgres without url", func(c *Config) { c.Market.PrimaryStore = PrimaryStorePostgres }, "DATABASE_URL"},
		{"postgres with url", func(c *Config) {
			c.Market.PrimaryStore = PrimaryStorePostgres
			c.Database.URL = "postgres://localhost/automarket"
		}, ""},
		{"unknown store", func(c *Config) { c.Market.PrimaryStore = "localstorage" }, "primary_store"},
		{"no markets", func(c *Config) { c.Market.Enabled = nil }, "market.enabled"},
		{"empty cookie name", func(c *Config) { c.Market.CookieName = "" }, "cookie names"},
		{"zero cookie age", func(c *Config) { c.Market.CookieMaxAge = 0 }, "cookie_max_age"},
		{"insecure cookies in production", func(c *Config) { c.App.Environment = "production" }, "MARKET_SECURE_COOKIES"},
		{"insecure otel in production", func(c *Config) {
			c.App.Environment = "production"
			c.Market.SecureCookies = true
			c.Otel = OtelConfig{Enabled: true, Insecure: true}
		}, "OTEL_INSECURE"},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "read_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := validate(c)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
