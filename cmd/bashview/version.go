package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bashview",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("bashview version " + version)
	},
}
