// Package main implements the gameforge CLI, which turns a game concept into
// a published, evaluated game project.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// configPath is the optional YAML config file
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gameforge",
	Short: "Generate, evaluate and publish small games from a concept",
	Long: `gameforge drives an LLM through a design, implement, evaluate and fix
loop until the generated game passes every quality check or the fix budget
runs out, then publishes the result.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(evaluateCmd)
}
