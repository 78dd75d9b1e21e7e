package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erin/vibecheck/internal/credentials"
)

var credentialDBPath string

var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Manage the stored API key",
}

var credentialSetCmd = &cobra.Command{
	Use:   "set <api-key>",
	Short: "Store a Gemini API key",
	Long:  `Stores the key in the local credential database. The key survives restarts and wizard resets; setting a new key replaces the old one.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCredentialSet,
}

var credentialStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether an API key is stored",
	RunE:  runCredentialStatus,
}

func init() {
	credentialCmd.PersistentFlags().StringVar(&credentialDBPath, "db", "", "Path to the credential database")
	credentialCmd.AddCommand(credentialSetCmd)
	credentialCmd.AddCommand(credentialStatusCmd)
	rootCmd.AddCommand(credentialCmd)
}

func runCredentialSet(_ *cobra.Command, args []string) error {
	key := strings.TrimSpace(args[0])
	if key == "" {
		return fmt.Errorf("api key must not be empty")
	}

	store, err := credentials.Open(resolveDBPath(credentialDBPath))
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	defer store.Close()

	if err := store.Set(context.Background(), key); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	fmt.Println("API key stored.")
	return nil
}

func runCredentialStatus(_ *cobra.Command, _ []string) error {
	store, err := credentials.Open(resolveDBPath(credentialDBPath))
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	defer store.Close()

	if store.Get() == "" {
		fmt.Println("No API key stored.")
	} else {
		fmt.Println("An API key is stored.")
	}
	return nil
}
