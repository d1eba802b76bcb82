package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/modassist/internal/cli"
)

var checkCmd = &cobra.Command{
	Use:   "check <command>",
	Short: "Check whether a command would run on the current selection",
	Long:  `Interprets and validates the command without touching the scene.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunCheck(optionsFrom(cmd), strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
