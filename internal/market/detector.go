// AngelaMos | 2026
// detector.go

package market

import (
	"fmt"
	"strings"
)

// Signals are read-only environment inputs reported by the visitor's runtime.
// Either method may fail; a failure only disables the strategy that needs it.
type Signals interface {
	Language() (string, error)
	Timezone() (string, error)
}

var languageMarkets = map[string]Code{
	"uk": UA,
	"pl": PL,
	"sk": SK,
	"cs": CZ,
}

var timezoneMarkets = map[string]Code{
	"Europe/Kyiv":       UA,
	"Europe/Kiev":       UA,
	"Europe/Uzhgorod":   UA,
	"Europe/Zaporozhye": UA,
	"Europe/Simferopol": UA,
	"Europe/Warsaw":     PL,
	"Europe/Bratislava": SK,
	"Europe/Prague":     CZ,
}

type Detector struct {
	catalog *Catalog
}

func NewDetector(catalog *Catalog) *Detector {
	return &Detector{catalog: catalog}
}

// Detect never fails: it falls through to the catalog default.
func (d *Detector) Detect(signals Signals) Code {
	if signals == nil {
		return d.catalog.Default()
	}

	if lang, err := readSignal(signals.Language); err == nil {
		if code, ok := d.byLanguage(lang); ok {
			return code
		}
	}

	if tz, err := readSignal(signals.Timezone); err == nil {
		if code, ok := d.byTimezone(tz); ok {
			return code
		}
		if code, ok := d.byCity(tz); ok {
			return code
		}
	}

	return d.catalog.Default()
}

func (d *Detector) byLanguage(tag string) (Code, bool) {
	primary := strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(primary, "-_"); i >= 0 {
		primary = primary[:i]
	}

	code, ok := languageMarkets[primary]
	if !ok || !d.catalog.IsEnabled(code) {
		return 0, false
	}
	return code, true
}

func (d *Detector) byTimezone(tz string) (Code, bool) {
	code, ok := timezoneMarkets[tz]
	if !ok || !d.catalog.IsEnabled(code) {
		return 0, false
	}
	return code, true
}

func (d *Detector) byCity(tz string) (Code, bool) {
	city := tz
	if i := strings.LastIndex(tz, "/"); i >= 0 {
		city = tz[i+1:]
	}
	if city == "" {
		return 0, false
	}

	for _, code := range d.catalog.ListEnabled() {
		cfg := d.catalog.MustGet(code)
		if cfg.Timezone != "" && strings.Contains(cfg.Timezone, city) {
			return code, true
		}
	}
	return 0, false
}

func readSignal(fn func() (string, error)) (value string, err error) {
	defer func() {
		if p := recover(); p != nil {
			value = ""
			err = fmt.Errorf("read signal: %v: %w", p, ErrSignalMissing)
		}
	}()

	value, err = fn()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(value) == "" {
		return "", ErrSignalMissing
	}
	return value, nil
}

// StaticSignals is a fixed signal set; empty fields report ErrSignalMissing.
type StaticSignals struct {
	Lang string
	TZ   string
}

func (s StaticSignals) Language() (string, error) {
	if s.Lang == "" {
		return "", ErrSignalMissing
	}
	return s.Lang, nil
}

func (s StaticSignals) Timezone() (string, error) {
	if s.TZ == "" {
		return "", ErrSignalMissing
	}
	return s.TZ, nil
}
