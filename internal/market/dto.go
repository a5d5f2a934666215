// AngelaMos | 2026
// dto.go

package market

type SetMarketRequest struct {
	Market string `json:"market" validate:"required,len=2,alpha"`
}

type MarketResponse struct {
	Market    Code   `json:"market"`
	Config    Config `json:"config"`
	State     State  `json:"state"`
	Source    Source `json:"source"`
	Detecting bool   `json:"detecting"`
}

// SwitchResponse carries whatever the features snapshot returns so the
// client can re-render gated UI in place after a switch.
type SwitchResponse struct {
	MarketResponse
	Features any `json:"features,omitempty"`
}

type MarketListResponse struct {
	Markets []Config `json:"markets"`
	Default Code     `json:"default"`
}

func ToMarketResponse(s *Store) MarketResponse {
	return MarketResponse{
		Market:    s.Current(),
		Config:    s.Config(),
		State:     s.State(),
		Source:    s.Source(),
		Detecting: s.Detecting(),
	}
}
