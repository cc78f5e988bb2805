// Package cli provides the command-line interface for the analyzer.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"optionscope/internal/analysis/engine"
	"optionscope/internal/config"
	"optionscope/internal/data"
	"optionscope/internal/logging"
	"optionscope/pkg/utils"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Provider data.Provider
	Engine   *engine.Engine
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	var inner data.Provider
	switch cfg.Data.Provider {
	case "csv":
		inner = data.NewCSVProvider(cfg.Data.CSVDir)
	default:
		inner = data.NewYahooProvider(cfg.FetchTimeout(), utils.RetryConfig{
			MaxAttempts: cfg.Data.RetryAttempts,
			Delay:       cfg.RetryDelay(),
		}, logging.WithProvider(logger, "yahoo"))
	}
	app.Provider = data.NewCachedProvider(inner, cfg.CacheTTL())
	logger.Debug().Str("provider", inner.Name()).Msg("Data provider initialized")

	app.Engine = engine.New(
		engine.WithWeights(cfg.ScoringWeights()),
		engine.WithThresholds(cfg.StrategyThresholds()),
		engine.WithATMWindowSteps(cfg.Analysis.ATMWindowSteps),
		engine.WithLogger(logger),
	)

	rootCmd := &cobra.Command{
		Use:   "optionscope",
		Short: "Options chain sentiment analyzer",
		Long: `Optionscope fetches an options chain for a ticker, derives sentiment
and confidence metrics (put/call ratio, IV skew, ATM concentration,
reliability index), and emits a strategy recommendation with an
estimated trading range.

Use 'optionscope help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/optionscope)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newExpiriesCmd(app))
	rootCmd.AddCommand(newServeCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("optionscope v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Analysis")
	output.Printf("  Weights:         volume %.2f  oi %.2f  atm %.2f  time %.2f\n",
		cfg.Analysis.Weights.Volume, cfg.Analysis.Weights.OI,
		cfg.Analysis.Weights.ATM, cfg.Analysis.Weights.Time)
	output.Printf("  Ratio bullish:   %.2f\n", cfg.Analysis.Thresholds.RatioBullish)
	output.Printf("  Ratio bearish:   %.2f\n", cfg.Analysis.Thresholds.RatioBearish)
	output.Printf("  Skew bullish:    %.2f\n", cfg.Analysis.Thresholds.SkewBullish)
	output.Printf("  Skew bearish:    %.2f\n", cfg.Analysis.Thresholds.SkewBearish)
	output.Printf("  High IV:         %.1f%%\n", cfg.Analysis.Thresholds.HighIV)
	output.Printf("  Min reliability: %.2f\n", cfg.Analysis.Thresholds.MinReliability)
	output.Printf("  ATM window:      %.1f steps\n", cfg.Analysis.ATMWindowSteps)
	output.Println()

	output.Bold("Data")
	output.Printf("  Provider:       %s\n", cfg.Data.Provider)
	output.Printf("  Timeout:        %ds\n", cfg.Data.TimeoutSec)
	output.Printf("  Retry attempts: %d\n", cfg.Data.RetryAttempts)
	output.Printf("  Cache TTL:      %dm\n", cfg.Data.CacheTTLMin)
	output.Println()

	output.Bold("Server")
	output.Printf("  Listen: %s\n", cfg.Server.Listen)

	return nil
}
