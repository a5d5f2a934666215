// AngelaMos | 2026
// root.go

package commands

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/automarket/internal/feature"
	"github.com/carterperez-dev/automarket/internal/market"
)

var (
	enabledMarkets []string
	defaultMarket  string

	catalog  *market.Catalog
	resolver *feature.Resolver
)

func Execute() error {
	return NewRoot().Execute()
}

func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "marketctl",
		Short:         "Inspect market detection and feature gating offline",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := market.CatalogFromNames(enabledMarkets, defaultMarket)
			if err != nil {
				return err
			}
			catalog = c
			resolver = feature.NewResolver(feature.DefaultCatalog())
			return nil
		},
	}

	root.PersistentFlags().StringSliceVar(&enabledMarkets, "enabled", []string{"UA", "PL"}, "enabled market codes")
	root.PersistentFlags().StringVar(&defaultMarket, "default", market.Default.String(), "fallback market code")

	root.AddCommand(marketsCmd(), detectCmd(), resolveCmd(), featuresCmd())
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
