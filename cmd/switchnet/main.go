package main

import (
	"os"
	"time"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose, quiet bool
	rootCmd := &cobra.Command{
		Use:   "switchnet",
		Short: "Approximate arithmetic on switch networks",
		Long: `switchnet builds primitives and an 8x8 multiplier from switch operation
scripts, drops outputs to trade accuracy for activation cost and evaluates
the resulting approximate multiplier.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			if quiet {
				level = zerolog.WarnLevel
			}
			zerolog.SetGlobalLevel(level)
			out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
			logger.Set(zerolog.New(out).With().Timestamp().Logger())
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every drop and mode change")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log warnings only")

	rootCmd.AddCommand(
		newTruthCmd(),
		newProveCmd(),
		newCostCmd(),
		newDropsCmd(),
		newEvaluateCmd(),
		newLUTCmd(),
	)

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
