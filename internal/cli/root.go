// Package cli implements the netsim command line: an interactive shell that
// drives a topology session, plus one-shot subcommands that operate on
// snapshot files. Every command maps onto a core operation; core errors are
// reported and the session continues. Only startup and environment failures
// terminate the process.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"netsim/internal/config"
)

var (
	cfgFile string
	verbose bool

	// Shared state set during PersistentPreRunE.
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "netsim",
	Short: "Model a network topology and simulate connectivity",
	Long: `Netsim models a small network as a graph of routers, switches, and hosts
connected through addressed interfaces, and simulates connectivity queries
over that graph. Run without arguments for the interactive shell, or use the
one-shot subcommands against a saved topology file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).With().Timestamp().Logger()

		var path string
		var err error
		if cfgFile != "" {
			cfg, path, err = config.LoadFromPath(cfgFile)
		} else {
			cfg, path, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if path != "" {
			log.Debug().Str("path", path).Msg("configuration loaded")
		} else {
			log.Debug().Msg("no config file found, using defaults")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $NETSIM_CONFIG, ./netsim.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command. It exits non-zero only on fatal errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
