package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bgdev/bashview/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the extension's parameters",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every parameter with its current value",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		sess := openSession(nil)
		defer sess.Close()
		for _, p := range sess.reg.Parameters() {
			v := color.Red.Sprint("off")
			if p.Get() {
				v = color.Green.Sprint("on")
			}
			fmt.Printf("%-14s %s  %s\n", p.Name, v, color.Gray.Sprint(p.Doc))
		}
		flags := sess.ext.Flags
		fmt.Printf("%-14s %d\n", "word-list-cap", flags.WordListCap)
		fmt.Printf("%-14s %d\n", "max-depth", flags.MaxDepth)
		fmt.Printf("%-14s %s\n", "trace-file", flags.TraceFile)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set NAME on|off",
	Short: "Change a parameter in the configuration file",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if configPath == "" {
			log.Fatal().Msg("config set needs --config or BASHVIEW_CONFIG")
		}
		v, err := parseBool(args[1])
		if err != nil {
			log.Fatal().Err(err).Msg("Bad value")
		}
		flags := config.NewFlags()
		if _, err := os.Stat(configPath); err == nil {
			if flags, err = config.Load(configPath); err != nil {
				log.Fatal().Err(err).Msg("Couldn't load configuration")
			}
		} else {
			log.Info().Str("path", configPath).Msg("starting a new configuration file")
		}
		if err := flags.Set(args[0], v); err != nil {
			log.Fatal().Err(err).Msg("Couldn't set parameter")
		}
		if err := config.FileOf(flags).Save(configPath); err != nil {
			log.Fatal().Err(err).Msg("Couldn't write configuration")
		}
		log.Info().Str("parameter", args[0]).Bool("value", v).Msg("saved")
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
