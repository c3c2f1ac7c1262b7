package cmd

import (
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	envFiles []string
)

var rootCmd = &cobra.Command{
	Use:   "go-registry",
	Short: "Hierarchical dependency registry with a request-scoped HTTP host",
	Long: `go-registry hosts a small HTTP application whose requests each run in a
child of the application registry, and ships a console demo of project and
scene registries.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringArrayVar(&envFiles, "env-file", nil,
		"env file to load (repeatable, default: .env)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
