package main

import (
	"os"

	"github.com/spf13/cobra"
)

var showLocals bool

var framesCmd = &cobra.Command{
	Use:   "frames SCRIPT",
	Short: "Print the backtrace of a fixture script's stack",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		script := loadScript(args[0])
		sess := openSession(script.Image)
		defer sess.Close()
		sess.backtrace(os.Stdout, script.Image.Stack(), showLocals)
	},
}

func init() {
	framesCmd.Flags().BoolVar(&showLocals, "locals", false, "List each frame's variables")
}
