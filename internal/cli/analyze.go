package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"optionscope/internal/errors"
	"optionscope/internal/logging"
	"optionscope/internal/report"
	"optionscope/pkg/utils"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <ticker>",
		Short: "Analyze the options chain for a ticker",
		Long: `Fetch the options chain for a ticker, compute sentiment metrics
(put/call ratio, IV skew, average IV, ATM concentration), a reliability
index, and an expected trading box, and emit a strategy recommendation.`,
		Example: `  optionscope analyze AAPL
  optionscope analyze TSLA --expiry 2026-09-18
  optionscope analyze NVDA --spot 182.50 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			symbol := strings.ToUpper(args[0])
			expiryStr, _ := cmd.Flags().GetString("expiry")
			spotFlag, _ := cmd.Flags().GetFloat64("spot")
			plain, _ := cmd.Flags().GetBool("report")

			var expiry time.Time
			if expiryStr != "" {
				var err error
				expiry, err = time.Parse("2006-01-02", expiryStr)
				if err != nil {
					output.Error("Invalid expiry format. Use YYYY-MM-DD")
					return err
				}
			}

			c, err := app.Provider.GetOptionChain(ctx, symbol, expiry)
			if err != nil {
				if errors.Is(err, errors.ErrEmptyChain) {
					output.Error("No usable options data for %s; try another expiry.", symbol)
				} else {
					output.Error("Failed to fetch options chain: %v", err)
				}
				return err
			}

			spot := spotFlag
			if spot <= 0 {
				spot = c.SpotPrice
			}
			if spot <= 0 {
				output.Error("No spot price available; pass --spot.")
				return errors.ErrDataNotFound
			}

			result, err := app.Engine.Analyze(c, spot)
			if err != nil {
				output.Error("Analysis failed: %v", err)
				return err
			}
			logging.LogAnalysis(app.Logger, symbol, string(result.Label), result.Snapshot.ReliabilityIndex)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":   symbol,
					"expiry":   c.Expiry.Format("2006-01-02"),
					"spot":     spot,
					"label":    result.Label,
					"snapshot": result.Snapshot,
				})
			}
			if plain {
				output.Println(report.Render(symbol, c.Expiry, spot, result))
				return nil
			}

			snap := result.Snapshot
			output.Bold("Options Analysis - %s", symbol)
			output.Printf("  Spot: %s  Expiry: %s (%.0f days)\n\n",
				utils.FormatPrice(spot), utils.FormatDate(c.Expiry), snap.DaysToExpiry)

			output.Printf("  Strategy: %s\n\n", output.Label(result.Label))

			table := NewTable(output, "Metric", "Value")
			if snap.PutCallDefined {
				table.AddRow("Put/Call ratio", utils.FormatRatio(snap.PutCallRatio))
			} else {
				table.AddRow("Put/Call ratio", output.Yellow("undefined (no call volume)"))
			}
			table.AddRow("IV skew (P-C)", utils.FormatPercent(snap.IVSkew))
			table.AddRow("Average IV", utils.FormatRatio(snap.AvgIV)+"%")
			table.AddRow("ATM strike", utils.FormatStrike(snap.ATMStrike))
			table.AddRow("ATM concentration", utils.FormatRatio(snap.ATMConcentration*100)+"%")
			table.AddRow("Most traded strike", utils.FormatStrike(snap.MostTradedStrike))
			table.AddRow("Reliability index", utils.FormatRatio(snap.ReliabilityIndex))
			table.Render()
			output.Println()

			output.Printf("  Most traded call: %s (volume %s, OI %s)\n",
				utils.FormatStrike(snap.MostTradedCall.Strike),
				utils.FormatVolume(snap.MostTradedCall.Volume),
				utils.FormatVolume(snap.MostTradedCall.OpenInterest))
			output.Printf("  Most traded put:  %s (volume %s, OI %s)\n\n",
				utils.FormatStrike(snap.MostTradedPut.Strike),
				utils.FormatVolume(snap.MostTradedPut.Volume),
				utils.FormatVolume(snap.MostTradedPut.OpenInterest))

			output.Printf("  Expected trading box: %s ~ %s\n",
				utils.FormatPrice(snap.EstimatedRange.Low),
				utils.FormatPrice(snap.EstimatedRange.High))

			return nil
		},
	}

	cmd.Flags().String("expiry", "", "Expiry date (YYYY-MM-DD); defaults to the nearest expiry")
	cmd.Flags().Float64("spot", 0, "Spot price override (required for CSV chains)")
	cmd.Flags().Bool("report", false, "Print the plain-text report instead of the table")

	return cmd
}

func newExpiriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expiries <ticker>",
		Short: "List available expiry dates for a ticker",
		Example: `  optionscope expiries AAPL
  optionscope expiries MSFT --refresh`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			symbol := strings.ToUpper(args[0])
			refresh, _ := cmd.Flags().GetBool("refresh")

			if refresh {
				if cached, ok := app.Provider.(interface{ Invalidate(string) }); ok {
					cached.Invalidate(symbol)
				}
			}

			expiries, err := app.Provider.GetExpiryDates(ctx, symbol)
			if err != nil {
				output.Error("Failed to get expiry dates: %v", err)
				return err
			}

			if output.IsJSON() {
				dates := make([]string, len(expiries))
				for i, e := range expiries {
					dates[i] = e.Format("2006-01-02")
				}
				return output.JSON(map[string]interface{}{"symbol": symbol, "expiries": dates})
			}

			output.Bold("Expiry dates - %s", symbol)
			now := time.Now()
			for _, e := range expiries {
				days := e.Sub(now).Hours() / 24
				output.Printf("  %s  (%.0f days)\n", utils.FormatDate(e), days)
			}
			return nil
		},
	}

	cmd.Flags().Bool("refresh", false, "Invalidate the cached expiries before fetching")

	return cmd
}
