// AngelaMos | 2026
// catalog.go

package market

import (
	"fmt"
	"strings"
)

type Code uint8

const (
	UA Code = iota + 1
	PL
	SK
	CZ
)

// numCodes must track the last declared Code.
const numCodes = int(CZ)

const Default = UA

var allCodes = [...]Code{UA, PL, SK, CZ}

func AllCodes() []Code {
	out := make([]Code, len(allCodes))
	copy(out, allCodes[:])
	return out
}

func (c Code) String() string {
	switch c {
	case UA:
		return "UA"
	case PL:
		return "PL"
	case SK:
		return "SK"
	case CZ:
		return "CZ"
	default:
		return fmt.Sprintf("Code(%d)", uint8(c))
	}
}

func (c Code) Valid() bool {
	return c >= UA && int(c) <= numCodes
}

func (c Code) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("marshal market code %d: %w", uint8(c), ErrUnknownCode)
	}
	return []byte(c.String()), nil
}

func (c *Code) UnmarshalText(text []byte) error {
	parsed, ok := ParseCode(string(text))
	if !ok {
		return fmt.Errorf("unmarshal market code %q: %w", text, ErrUnknownCode)
	}
	*c = parsed
	return nil
}

func ParseCode(s string) (Code, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UA":
		return UA, true
	case "PL":
		return PL, true
	case "SK":
		return SK, true
	case "CZ":
		return CZ, true
	default:
		return 0, false
	}
}

type Config struct {
	Code     Code   `json:"code"`
	Name     string `json:"name"`
	Flag     string `json:"flag"`
	Currency string `json:"currency"`
	Timezone string `json:"timezone"`
	Language string `json:"language"`
}

var entries = [numCodes]Config{
	{
		Code:     UA,
		Name:     "Україна",
		Flag:     "🇺🇦",
		Currency: "UAH",
		Timezone: "Europe/Kyiv",
		Language: "uk",
	},
	{
		Code:     PL,
		Name:     "Polska",
		Flag:     "🇵🇱",
		Currency: "PLN",
		Timezone: "Europe/Warsaw",
		Language: "pl",
	},
	{
		Code:     SK,
		Name:     "Slovensko",
		Flag:     "🇸🇰",
		Currency: "EUR",
		Timezone: "Europe/Bratislava",
		Language: "sk",
	},
	{
		Code:     CZ,
		Name:     "Česko",
		Flag:     "🇨🇿",
		Currency: "CZK",
		Timezone: "Europe/Prague",
		Language: "cs",
	},
}

var DefaultEnabled = []Code{UA, PL}

// Catalog is immutable once built and safe for concurrent use.
type Catalog struct {
	enabled [numCodes + 1]bool
	order   []Code
	def     Code
}

func NewCatalog(enabled []Code, def Code) (*Catalog, error) {
	if len(enabled) == 0 {
		return nil, fmt.Errorf("new catalog: no enabled markets: %w", ErrInvalidCatalog)
	}

	c := &Catalog{}
	for _, code := range enabled {
		if !code.Valid() {
			return nil, fmt.Errorf("new catalog: %w: %s", ErrUnknownCode, code)
		}
		c.enabled[code] = true
	}

	if !def.Valid() || !c.enabled[def] {
		return nil, fmt.Errorf(
			"new catalog: default market %s is not enabled: %w",
			def,
			ErrInvalidCatalog,
		)
	}
	c.def = def

	for _, code := range allCodes {
		if c.enabled[code] {
			c.order = append(c.order, code)
		}
	}

	return c, nil
}

func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultEnabled, Default)
	if err != nil {
		panic(fmt.Sprintf("market: default catalog: %v", err))
	}
	return c
}

func (c *Catalog) Get(code Code) (Config, bool) {
	if !code.Valid() {
		return Config{}, false
	}
	return entries[code-1], true
}

// MustGet panics for codes outside the enumeration.
func (c *Catalog) MustGet(code Code) Config {
	cfg, ok := c.Get(code)
	if !ok {
		panic(fmt.Sprintf("market: no catalog entry for %s", code))
	}
	return cfg
}

func (c *Catalog) IsEnabled(code Code) bool {
	return code.Valid() && c.enabled[code]
}

// ListEnabled returns enabled markets in declaration order.
func (c *Catalog) ListEnabled() []Code {
	out := make([]Code, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Catalog) Default() Code {
	return c.def
}

// CatalogFromNames builds a catalog from configuration strings.
func CatalogFromNames(enabled []string, def string) (*Catalog, error) {
	codes := make([]Code, 0, len(enabled))
	for _, raw := range enabled {
		code, ok := ParseCode(raw)
		if !ok {
			return nil, fmt.Errorf("enabled market %q: %w", raw, ErrUnknownCode)
		}
		codes = append(codes, code)
	}

	defCode, ok := ParseCode(def)
	if !ok {
		return nil, fmt.Errorf("default market %q: %w", def, ErrUnknownCode)
	}

	return NewCatalog(codes, defCode)
}
