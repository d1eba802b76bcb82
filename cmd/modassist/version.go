package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/modassist"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of modassist",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "modassist version %s\n", strings.TrimSpace(modassist.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
