// Package main provides the entry point for the VibeCheck CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vibecheck",
	Short: "VibeCheck content pre-mortem",
	Long:  "VibeCheck runs a draft announcement past a slate of AI reviewer personas, interviews each one, and synthesizes their reactions into a go/no-go report before anything ships.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
