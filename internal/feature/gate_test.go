// AngelaMos | 2026
// gate_test.go

package feature

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
)

func TestGate_Decide(t *testing.T) {
	plain := &Config{Key: SellCars, Name: "List a car for sale"}
	soon := &Config{Key: CarFinancing, Name: "Car financing", ComingSoon: true}
	beta := &Config{Key: VINCheck, Name: "VIN history check", Beta: true}

	tests := []struct {
		name    string
		gate    Gate
		verdict Verdict
		want    Outcome
	}{
		{"enabled renders children", Gate{Fallback: "x"}, Verdict{Enabled: true, Reason: ReasonNone, Config: plain}, OutcomeChildren},
		{"fallback wins when disabled", Gate{Fallback: "<p>no</p>", ShowLoginPrompt: true}, Verdict{Reason: ReasonAuthRequired, Config: plain}, OutcomeFallback},
		{"login prompt on auth_required", Gate{ShowLoginPrompt: true}, Verdict{Reason: ReasonAuthRequired, Config: plain}, OutcomeLoginPrompt},
		{"no login prompt for other reasons", Gate{ShowLoginPrompt: true}, Verdict{Reason: ReasonMarketNotSupported, Config: plain}, OutcomeNothing},
		{"login prompt not requested", Gate{}, Verdict{Reason: ReasonAuthRequired, Config: plain}, OutcomeNothing},
		{"coming soon badge", Gate{ShowComingSoon: true}, Verdict{Reason: ReasonMarketNotSupported, Config: soon}, OutcomeComingSoon},
		{"coming soon flag unset", Gate{ShowComingSoon: true}, Verdict{Reason: ReasonMarketNotSupported, Config: beta}, OutcomeNothing},
		{"beta badge", Gate{ShowBeta: true}, Verdict{Reason: ReasonMarketNotSupported, Config: beta}, OutcomeBeta},
		{"beta not requested", Gate{ShowComingSoon: true}, Verdict{Reason: ReasonMarketNotSupported, Config: beta}, OutcomeNothing},
		{"unknown feature renders nothing", Gate{ShowLoginPrompt: true, ShowBeta: true}, Verdict{Reason: ReasonFeatureNotFound}, OutcomeNothing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.gate.Decide(tt.verdict); got != tt.want {
				t.Errorf("Decide() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGate_Render(t *testing.T) {
	cfg := &Config{Key: SellCars, Name: "List <a> car"}

	tests := []struct {
		name     string
		gate     Gate
		verdict  Verdict
		contains string
		empty    bool
	}{
		{"children", Gate{}, Verdict{Enabled: true, Config: cfg}, `<button>Sell</button>`, false},
		{"fallback", Gate{Fallback: template.HTML(`<p>Unavailable</p>`)}, Verdict{Reason: ReasonAuthRequired, Config: cfg}, `<p>Unavailable</p>`, false},
		{"login prompt escapes name", Gate{ShowLoginPrompt: true}, Verdict{Reason: ReasonAuthRequired, Config: cfg}, `Sign in to use List &lt;a&gt; car`, false},
		{"nothing", Gate{}, Verdict{Reason: ReasonMarketNotSupported, Config: cfg}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if _, err := tt.gate.Render(&buf, tt.verdict, template.HTML(`<button>Sell</button>`)); err != nil {
				t.Fatalf("Render: %v", err)
			}
			if tt.empty && buf.Len() != 0 {
				t.Errorf("Render() wrote %q, want nothing", buf.String())
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("Render() = %q, want it to contain %q", buf.String(), tt.contains)
			}
		})
	}
}
