package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/modassist/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "modassist",
	Short: "modassist applies modifier workflows from short natural-language commands",
	Long: `modassist resolves commands such as "make array" or "curve deform" to a workflow,
validates the current selection and applies the workflow to a YAML scene.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cancelled commands already printed their status line.
		if !errors.Is(err, cli.ErrCommandCancelled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "modassist.yaml", "Preferences file (missing file means defaults)")
	rootCmd.PersistentFlags().StringArray("set", nil, "Override a preference, e.g. --set defaults.array_count=8")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every lifecycle event to stderr")
	rootCmd.PersistentFlags().StringP("scene", "s", "", "YAML scene fixture to operate on")
}

// optionsFrom reads the persistent flags shared by every command.
func optionsFrom(cmd *cobra.Command) cli.RunOptions {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	overrides, _ := flags.GetStringArray("set")
	logLevel, _ := flags.GetString("log-level")
	debug, _ := flags.GetBool("debug")
	scene, _ := flags.GetString("scene")
	return cli.RunOptions{
		ConfigPath: configPath,
		Overrides:  overrides,
		LogLevel:   logLevel,
		Debug:      debug,
		ScenePath:  scene,
		In:         cmd.InOrStdin(),
		Out:        cmd.OutOrStdout(),
		ErrOut:     cmd.ErrOrStderr(),
	}
}
