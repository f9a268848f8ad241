// Package cmd implements the studypilot CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "0.1.0"
const logo = "🎓"

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "studypilot",
	Short: logo + " studypilot — AI study assistant",
	Long:  logo + " studypilot — an AI assistant that connects to your courses, notes, and project tools",
}

// Execute runs the root command and exits on error.
func Execute() {
	// Local .env overrides nothing; it only fills unset variables.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(integrationsCmd)
	rootCmd.AddCommand(statusCmd)
}
