// AngelaMos | 2026
// signals.go

package market

import (
	"fmt"
	"net/http"
	"time"
	_ "time/tzdata"

	"golang.org/x/text/language"
)

const (
	TimezoneHeader = "X-Timezone"
	TimezoneCookie = "tz"
)

// RequestSignals reads detection signals from an incoming request: the
// Accept-Language header and the timezone the client script reported.
type RequestSignals struct {
	r *http.Request
}

func NewRequestSignals(r *http.Request) RequestSignals {
	return RequestSignals{r: r}
}

func (s RequestSignals) Language() (string, error) {
	header := s.r.Header.Get("Accept-Language")
	if header == "" {
		return "", ErrSignalMissing
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return "", fmt.Errorf("parse accept-language: %w", err)
	}
	if len(tags) == 0 {
		return "", ErrSignalMissing
	}

	base, _ := tags[0].Base()
	return base.String(), nil
}

func (s RequestSignals) Timezone() (string, error) {
	tz := s.r.Header.Get(TimezoneHeader)
	if tz == "" {
		if c, err := s.r.Cookie(TimezoneCookie); err == nil {
			tz = c.Value
		}
	}
	if tz == "" {
		return "", ErrSignalMissing
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", fmt.Errorf("load timezone %q: %w", tz, err)
	}
	return loc.String(), nil
}
