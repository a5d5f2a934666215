// AngelaMos | 2026
// catalog.go

package feature

import (
	"fmt"
	"slices"
	"strings"

	"github.com/carterperez-dev/automarket/internal/market"
)

type Key uint8

const (
	BrowseCars Key = iota + 1
	SellCars
	RentCars
	Favorites
	Messaging
	VINCheck
	CarFinancing
	DealerDashboard
)

// numKeys must track the last declared Key.
const numKeys = int(DealerDashboard)

var allKeys = [...]Key{
	BrowseCars,
	SellCars,
	RentCars,
	Favorites,
	Messaging,
	VINCheck,
	CarFinancing,
	DealerDashboard,
}

var (
	_ [numKeys - len(allKeys)]struct{}
	_ [len(allKeys) - numKeys]struct{}
)

func AllKeys() []Key {
	out := make([]Key, len(allKeys))
	copy(out, allKeys[:])
	return out
}

func (k Key) String() string {
	switch k {
	case BrowseCars:
		return "browse_cars"
	case SellCars:
		return "sell_cars"
	case RentCars:
		return "rent_cars"
	case Favorites:
		return "favorites"
	case Messaging:
		return "messaging"
	case VINCheck:
		return "vin_check"
	case CarFinancing:
		return "car_financing"
	case DealerDashboard:
		return "dealer_dashboard"
	default:
		return fmt.Sprintf("Key(%d)", uint8(k))
	}
}

func (k Key) Valid() bool {
	return k >= BrowseCars && int(k) <= numKeys
}

func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func ParseKey(s string) (Key, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range allKeys {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

type Config struct {
	Key                  Key           `json:"key"`
	Name                 string        `json:"name"`
	Markets              []market.Code `json:"markets"`
	RequiresAuth         bool          `json:"requires_auth"`
	RequiresVerification bool          `json:"requires_verification"`
	Beta                 bool          `json:"beta,omitempty"`
	ComingSoon           bool          `json:"coming_soon,omitempty"`
}

var entries = [numKeys]Config{
	{
		Key:     BrowseCars,
		Name:    "Browse cars",
		Markets: []market.Code{market.UA, market.PL, market.SK, market.CZ},
	},
	{
		Key:          SellCars,
		Name:         "List a car for sale",
		Markets:      []market.Code{market.UA, market.PL},
		RequiresAuth: true,
	},
	{
		Key:                  RentCars,
		Name:                 "Rent a car",
		Markets:              []market.Code{market.UA},
		RequiresAuth:         true,
		RequiresVerification: true,
	},
	{
		Key:          Favorites,
		Name:         "Saved cars",
		Markets:      []market.Code{market.UA, market.PL, market.SK},
		RequiresAuth: true,
	},
	{
		Key:          Messaging,
		Name:         "Messages",
		Markets:      []market.Code{market.UA, market.PL},
		RequiresAuth: true,
	},
	{
		Key:     VINCheck,
		Name:    "VIN history check",
		Markets: []market.Code{market.UA, market.PL},
		Beta:    true,
	},
	{
		Key:                  CarFinancing,
		Name:                 "Car financing",
		Markets:              []market.Code{market.PL},
		RequiresAuth:         true,
		RequiresVerification: true,
		ComingSoon:           true,
	},
	{
		Key:                  DealerDashboard,
		Name:                 "Dealer dashboard",
		Markets:              []market.Code{market.UA},
		RequiresAuth:         true,
		RequiresVerification: true,
		Beta:                 true,
	},
}

// Catalog is immutable and safe for concurrent use.
type Catalog struct {
	entries map[Key]Config
}

func DefaultCatalog() *Catalog {
	return NewCatalog(entries[:]...)
}

// NewCatalog indexes configs by key; a later config for the same key wins.
func NewCatalog(configs ...Config) *Catalog {
	c := &Catalog{entries: make(map[Key]Config, len(configs))}
	for _, cfg := range configs {
		cfg.Markets = slices.Clone(cfg.Markets)
		c.entries[cfg.Key] = cfg
	}
	return c
}

func (c *Catalog) Get(key Key) (Config, bool) {
	cfg, ok := c.entries[key]
	if !ok {
		return Config{}, false
	}
	cfg.Markets = slices.Clone(cfg.Markets)
	return cfg, true
}

// IsEnabledForMarket reports false for unknown keys. Only the resolver
// distinguishes "not found" from "disabled".
func (c *Catalog) IsEnabledForMarket(key Key, code market.Code) bool {
	cfg, ok := c.entries[key]
	if !ok {
		return false
	}
	return slices.Contains(cfg.Markets, code)
}
