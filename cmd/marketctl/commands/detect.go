// AngelaMos | 2026
// detect.go

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/automarket/internal/market"
	"github.com/carterperez-dev/automarket/internal/preference"
)

func detectCmd() *cobra.Command {
	var (
		lang      string
		tz        string
		persisted string
		cookie    string
	)

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Run market initialization against the given signals",
		Example: `  marketctl detect --lang pl
  marketctl detect --tz Europe/Kyiv --persisted SK`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := market.NewStore(
				catalog,
				market.NewDetector(catalog),
				nil,
				preference.NewMemoryStore("primary", persisted),
				preference.NewMemoryStore("cookie", cookie),
			)
			store.Initialize(context.Background(), market.StaticSignals{Lang: lang, TZ: tz})

			resp := market.ToMarketResponse(store)
			if resp.State != market.Resolved {
				return fmt.Errorf("market store did not resolve: %s", resp.State)
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "primary language tag reported by the browser")
	cmd.Flags().StringVar(&tz, "tz", "", "IANA timezone reported by the browser")
	cmd.Flags().StringVar(&persisted, "persisted", "", "value already in the primary store")
	cmd.Flags().StringVar(&cookie, "cookie", "", "value already in the market cookie")

	return cmd
}
