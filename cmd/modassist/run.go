package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/modassist/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <command>...",
	Short: "Run one or more commands against the scene",
	Long: `Invokes each argument as a separate command, in order, against the scene loaded
with --scene. Use --out to save the resulting scene and --metrics to print Prometheus
metrics afterwards. Exits non-zero if any command was cancelled.`,
	Example: `  modassist run -s scene.yaml "hard surface" --out result.yaml
  modassist run -s scene.yaml mirror solidify --metrics`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionsFrom(cmd)
		opts.OutPath, _ = cmd.Flags().GetString("out")
		opts.Metrics, _ = cmd.Flags().GetBool("metrics")
		return cli.RunCommands(opts, args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("out", "o", "", "Save the scene afterwards (- for stdout)")
	runCmd.Flags().Bool("metrics", false, "Print Prometheus metrics after the run")
}
