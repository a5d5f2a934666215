// AngelaMos | 2026
// resolve.go

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/automarket/internal/feature"
	"github.com/carterperez-dev/automarket/internal/market"
	"github.com/carterperez-dev/automarket/internal/session"
)

func parseMarketFlag(raw string) (market.Code, error) {
	code, ok := market.ParseCode(raw)
	if !ok {
		return 0, fmt.Errorf("unknown market %q", raw)
	}
	return code, nil
}

func sessionFromFlags(signedIn, verified bool) *session.User {
	if !signedIn {
		return nil
	}
	return &session.User{ID: "cli", Verified: verified}
}

func resolveCmd() *cobra.Command {
	var (
		marketFlag string
		key        string
		signedIn   bool
		verified   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve one feature for a market and visitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := parseMarketFlag(marketFlag)
			if err != nil {
				return err
			}

			user := sessionFromFlags(signedIn, verified)
			return writeJSON(cmd.OutOrStdout(), feature.VerdictResponse{
				Key:     key,
				Market:  code,
				Verdict: resolver.ResolveName(key, code, user),
			})
		},
	}

	cmd.Flags().StringVar(&marketFlag, "market", market.Default.String(), "market code")
	cmd.Flags().StringVar(&key, "feature", "", "feature key, e.g. sell_cars")
	cmd.Flags().BoolVar(&signedIn, "user", false, "resolve as a signed-in visitor")
	cmd.Flags().BoolVar(&verified, "verified", false, "the signed-in visitor is verified")
	_ = cmd.MarkFlagRequired("feature") //nolint:errcheck // flag is defined above

	return cmd
}

func featuresCmd() *cobra.Command {
	var (
		marketFlag string
		signedIn   bool
		verified   bool
	)

	cmd := &cobra.Command{
		Use:   "features",
		Short: "Resolve every feature for a market and visitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := parseMarketFlag(marketFlag)
			if err != nil {
				return err
			}

			user := sessionFromFlags(signedIn, verified)
			return writeJSON(cmd.OutOrStdout(), feature.SnapshotResponse{
				Market:   code,
				Features: resolver.Snapshot(code, user),
			})
		},
	}

	cmd.Flags().StringVar(&marketFlag, "market", market.Default.String(), "market code")
	cmd.Flags().BoolVar(&signedIn, "user", false, "resolve as a signed-in visitor")
	cmd.Flags().BoolVar(&verified, "verified", false, "the signed-in visitor is verified")

	return cmd
}
