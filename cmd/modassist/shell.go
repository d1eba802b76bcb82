package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/modassist/internal/cli"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive command loop",
	Long: `Reads one command per line. Besides workflow commands the shell understands
help, selection, select <active> [names...], check <command>, undo, redo and quit.
When stdin is not a terminal the shell runs headless.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionsFrom(cmd)
		opts.OutPath, _ = cmd.Flags().GetString("out")
		opts.Headless, _ = cmd.Flags().GetBool("headless")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.Metrics, _ = cmd.Flags().GetBool("metrics")
		return cli.RunShell(opts)
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)

	shellCmd.Flags().StringP("out", "o", "", "Save the scene on exit (- for stdout)")
	shellCmd.Flags().Bool("headless", false, "No banner, prompt or markdown rendering")
	shellCmd.Flags().BoolP("watch", "w", false, "Reload the scene when its file changes")
	shellCmd.Flags().Bool("metrics", false, "Print Prometheus metrics on exit")

	rootCmd.RunE = shellCmd.RunE
	rootCmd.Flags().AddFlagSet(shellCmd.Flags())
}
