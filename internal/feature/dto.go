// AngelaMos | 2026
// dto.go

package feature

import (
	"github.com/carterperez-dev/automarket/internal/market"
)

type VerdictResponse struct {
	Key    string      `json:"key"`
	Market market.Code `json:"market"`
	Verdict
}

type SnapshotResponse struct {
	Market   market.Code        `json:"market"`
	Features map[string]Verdict `json:"features"`
}
