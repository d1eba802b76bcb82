package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/modassist/internal/cli"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the recognized workflows and their keywords",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.PrintCommands(optionsFrom(cmd))
	},
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}
