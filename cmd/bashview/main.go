package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	configPath string
	setFlags   []string
)

var rootCmd = &cobra.Command{
	Use:   "bashview",
	Short: "Render bash's internal structures and decorate its stack frames",
	Long: "bashview renders the command trees, word lists and shell variables of a bash\n" +
		"process, and relabels its stack frames with the shell code they are running.\n" +
		"Debuggee images come from Starlark fixture scripts, snapshots, or a live pid.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set up zerolog
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

		// Parse and set log level
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid log level '%s', using 'info'\n", logLevel)
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Set log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("BASHVIEW_CONFIG"), "Configuration file (.toml, .yaml)")
	rootCmd.PersistentFlags().StringArrayVar(&setFlags, "set", nil, "Override a parameter for this run, as name=bool")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(framesCmd)
	rootCmd.AddCommand(peekCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
