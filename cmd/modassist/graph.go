package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/modassist/internal/cli"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [workflow]",
	Short: "Export workflow procedures as Mermaid diagrams",
	Long:  `Outputs a Mermaid flowchart (graph TD) per workflow, one branch per selection variant.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workflow := ""
		if len(args) > 0 {
			workflow = args[0]
		}
		return cli.PrintGraph(optionsFrom(cmd), workflow)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
