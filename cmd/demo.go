package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-registry/app"
	"github.com/km-arc/go-registry/framework/config"
	"github.com/km-arc/go-registry/framework/container"
	"github.com/km-arc/go-registry/framework/ctxlog"
)

var (
	demoVerbose bool
	demoTrace   bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Print the project/scene registry demo",
	Long: `Build a project registry and a scene registry beneath it, create three
widgets with the scene's factory and print them.

Use --verbose to see every registration and resolution on stderr, or
--trace for a plain list of the keys the scene resolved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(envFiles...)
		if demoVerbose {
			cfg.Log.Level = "debug"
		}

		project := container.New(nil)
		project.SetLogger(ctxlog.New(cfg.Log, cmd.ErrOrStderr()))

		if err := (&app.Provider{}).Register(project); err != nil {
			return err
		}
		var trace io.Writer
		if demoTrace {
			trace = cmd.ErrOrStderr()
		}
		return app.RunDemo(cmd.OutOrStdout(), project, trace)
	},
}

func init() {
	demoCmd.Flags().BoolVarP(&demoVerbose, "verbose", "v", false, "log registrations and resolutions")
	demoCmd.Flags().BoolVar(&demoTrace, "trace", false, "print each key resolved on the scene")
	rootCmd.AddCommand(demoCmd)
}
