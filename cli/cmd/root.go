// Package cmd wires the recsel and recfix cobra commands: flag parsing,
// config loading, and the thin glue between recfile/selector/transform and
// the terminal.
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	debug      bool
	configPath string
	log        = logrus.New()

	rootCmd = &cobra.Command{
		Use:   "rec",
		Short: "Query and repair plain-text rec record databases",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				log.SetLevel(logrus.DebugLevel)
			}
			return loadConfig(configPath)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging and repr dumps of intermediate values")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a .recutilsrc config file (default $HOME/.recutilsrc)")
}

// Execute runs whichever subcommand was invoked; it's the single entry
// point called from cli/recsel and cli/recfix's main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
