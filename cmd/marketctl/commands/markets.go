// AngelaMos | 2026
// markets.go

package commands

import (
	"github.com/spf13/cobra"

	"github.com/carterperez-dev/automarket/internal/market"
)

type marketRow struct {
	market.Config
	Enabled bool `json:"enabled"`
}

func marketsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "markets",
		Short: "List the market catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([]marketRow, 0, len(market.AllCodes()))
			for _, code := range market.AllCodes() {
				rows = append(rows, marketRow{
					Config:  catalog.MustGet(code),
					Enabled: catalog.IsEnabled(code),
				})
			}
			return writeJSON(cmd.OutOrStdout(), rows)
		},
	}
}
