package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/erin/vibecheck/internal/config"
	"github.com/erin/vibecheck/internal/credentials"
	"github.com/erin/vibecheck/internal/llm"
	"github.com/erin/vibecheck/internal/server"
	"github.com/erin/vibecheck/internal/wizard"
)

var (
	servePort   int
	serveDBPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local REST API server",
	Long:  `Start the HTTP server that backs the VibeCheck UI: wizard session state, credential management, persona generation, and the SSE analysis stream.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "Path to the credential database (defaults to VIBECHECK_DB env var or the user config dir)")
	rootCmd.AddCommand(serveCmd)
}

// resolveDBPath picks the credential database location: flag, then env,
// then the per-user default.
func resolveDBPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("VIBECHECK_DB"); env != "" {
		return env
	}
	return credentials.DefaultPath()
}

// geminiFactory builds real Gemini clients for the controller.
func geminiFactory(ctx context.Context, apiKey string) (llm.Client, error) {
	return llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
}

func runServe(_ *cobra.Command, _ []string) error {
	store, err := credentials.Open(resolveDBPath(serveDBPath))
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	defer store.Close()

	// Seed the store from the environment on first run so the UI starts
	// past the credential step.
	if store.Get() == "" {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			if err := store.Set(context.Background(), key); err != nil {
				return fmt.Errorf("failed to store credential: %w", err)
			}
		}
	}

	controller := wizard.NewController(store, geminiFactory,
		wizard.WithDisplayDelay(600*time.Millisecond))

	srv := server.New(server.Config{Port: servePort}, controller, store)
	return srv.Start()
}
