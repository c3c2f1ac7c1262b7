package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-registry/app"
	fwapp "github.com/km-arc/go-registry/framework/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the example HTTP application",
	Long: `Serve the example application on HTTP_PORT until SIGINT or SIGTERM.

Every request runs in its own child registry holding the request and its ID.

Examples:
  go-registry serve
  go-registry serve --env-file .env --env-file .env.local
  curl 'localhost:8000/widgets?n=3'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := fwapp.New(fwapp.WithEnvFiles(envFiles...))
		if err != nil {
			return err
		}
		if err := application.Register(&app.Provider{}); err != nil {
			return err
		}
		if err := application.Boot(); err != nil {
			return err
		}
		app.Routes(application.Router())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return application.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
