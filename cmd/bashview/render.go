package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bgdev/bashview/fixture"
)

var treeDepth int

var renderCmd = &cobra.Command{
	Use:   "render SCRIPT [SYMBOL]",
	Short: "Render a value from a fixture script",
	Long: "Render SYMBOL, a script variable or image global, with its children.\n" +
		"Without SYMBOL every script variable is printed on one line.",
	Args: cobra.RangeArgs(1, 2),
	Run:  renderCommand,
}

func init() {
	renderCmd.Flags().IntVar(&treeDepth, "depth", 3, "Levels of children to expand")
}

func loadScript(path string) *fixture.Script {
	s, err := fixture.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load fixture script")
	}
	return s
}

func renderCommand(cmd *cobra.Command, args []string) {
	script := loadScript(args[0])
	sess := openSession(script.Image)
	defer sess.Close()
	renderScript(sess, script, args[1:])
}

func renderScript(sess *session, script *fixture.Script, names []string) {
	if len(names) == 0 {
		for _, name := range script.Names() {
			v, err := script.Value(name)
			if err != nil {
				log.Fatal().Err(err).Str("symbol", name).Msg("Couldn't resolve symbol")
			}
			fmt.Printf("%s = %s\n", color.Yellow.Sprint(name), sess.ext.Table.Display(v))
		}
		return
	}
	v, err := script.Value(names[0])
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't resolve symbol")
	}
	sess.ext.Table.Tree(os.Stdout, names[0], v, treeDepth)
}
