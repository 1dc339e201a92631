package main

import (
	"github.com/spf13/cobra"
)

// version is stamped by the build via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the kioskd version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("kioskd", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
