package cli

import (
	"github.com/spf13/cobra"

	"optionscope/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web report server",
		Long: `Serve the analysis over HTTP:

  GET /health                               liveness check
  GET /api/expiries?ticker=AAPL             available expiry dates
  GET /api/report?ticker=AAPL&expiry=...    full analysis report`,
		Example: `  optionscope serve
  optionscope serve --listen :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			listen, _ := cmd.Flags().GetString("listen")
			if listen == "" {
				listen = app.Config.Server.Listen
			}

			srv := server.New(app.Provider, app.Engine, app.Logger)
			app.Logger.Info().Str("listen", listen).Msg("Starting report server")
			return srv.ListenAndServe(listen)
		},
	}

	cmd.Flags().String("listen", "", "listen address (default from config)")

	return cmd
}
