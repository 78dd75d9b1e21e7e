package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/erin/vibecheck/internal/config"
	"github.com/erin/vibecheck/internal/credentials"
	"github.com/erin/vibecheck/internal/observability"
	"github.com/erin/vibecheck/internal/types"
	"github.com/erin/vibecheck/internal/wizard"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a full vibe check from the command line",
	Long: `Runs the whole wizard headlessly: generates the persona slate for the given content, interviews every persona, and prints the synthesized report.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runAnalyze,
}

var (
	analyzeConfigPath  string
	analyzeContent     string
	analyzeContentFile string
	analyzeMode        string
	analyzeWildcards   int
	analyzeAPIKey      string
	analyzeDBPath      string
	analyzeTimeout     int
	analyzeVerbose     bool
)

func init() {
	// Config file flag (processed first)
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	analyzeCmd.Flags().StringVar(&analyzeContent, "content", "", "Content to review (mutually exclusive with --content-file)")
	analyzeCmd.Flags().StringVarP(&analyzeContentFile, "content-file", "f", "", "Path to a file holding the content to review")
	analyzeCmd.Flags().StringVarP(&analyzeMode, "mode", "m", "", `Evaluation mode: "standard" or "crisis"`)
	analyzeCmd.Flags().IntVarP(&analyzeWildcards, "wildcards", "w", 0, "Number of extra wildcard personas to add to the slate")
	analyzeCmd.Flags().StringVar(&analyzeDBPath, "db", "", "Path to the credential database")
	analyzeCmd.Flags().IntVar(&analyzeTimeout, "call-timeout", 0, "Per-LLM-call timeout in seconds")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print personas and per-interview detail")

	// API key can be passed as a flag, or read from the store / GEMINI_API_KEY env var
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to the stored credential or GEMINI_API_KEY)")

	rootCmd.AddCommand(analyzeCmd)
}

// resolveCallTimeout picks the per-call timeout in effect. An explicitly
// passed flag wins verbatim, so `--call-timeout 0` disables the bound
// instead of being coerced back to the default by the zero-means-unset
// config merge.
func resolveCallTimeout(flagChanged bool, flagSeconds, mergedSeconds int) time.Duration {
	if flagChanged {
		return time.Duration(flagSeconds) * time.Second
	}
	return time.Duration(mergedSeconds) * time.Second
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if analyzeConfigPath != "" {
		loadedCfg, err := config.LoadConfig(analyzeConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if analyzeVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", analyzeConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("content-file") {
		cfg.ContentFile = analyzeContentFile
	}
	if cmd.Flags().Changed("mode") {
		cfg.Mode = analyzeMode
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = analyzeAPIKey
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath = analyzeDBPath
	}
	if cmd.Flags().Changed("call-timeout") {
		cfg.CallTimeout = analyzeTimeout
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = analyzeVerbose
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{})
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Step 4: Resolve the content
	if analyzeContent != "" && cfg.ContentFile != "" {
		return fmt.Errorf("--content and --content-file are mutually exclusive; provide only one")
	}
	content := analyzeContent
	if cfg.ContentFile != "" {
		data, err := os.ReadFile(cfg.ContentFile)
		if err != nil {
			return fmt.Errorf("failed to read content file: %w", err)
		}
		content = string(data)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("either --content or --content-file must be provided (via flag or config)")
	}

	// Step 5: Resolve the credential. A key given on the command line is
	// stored for later runs, matching the wizard's credential step.
	store, err := credentials.Open(resolveDBPath(cfg.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	defer store.Close()

	if cfg.APIKey != "" {
		if err := store.Set(ctx, strings.TrimSpace(cfg.APIKey)); err != nil {
			return fmt.Errorf("failed to store credential: %w", err)
		}
	} else if store.Get() == "" {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			if err := store.Set(ctx, key); err != nil {
				return fmt.Errorf("failed to store credential: %w", err)
			}
		}
	}
	if store.Get() == "" {
		return fmt.Errorf("no API key available: pass --api-key, set GEMINI_API_KEY, or run 'vibecheck credential set'")
	}

	controller := wizard.NewController(store, geminiFactory,
		wizard.WithCallTimeout(resolveCallTimeout(cmd.Flags().Changed("call-timeout"), analyzeTimeout, cfg.CallTimeout)))

	if err := controller.SetContent(content, types.SourceText); err != nil {
		return err
	}
	if err := controller.SetContentMode(types.ContentMode(cfg.Mode)); err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)

	// Step 6: Build the persona slate
	fmt.Println("Generating personas...")
	if err := controller.GenerateInitialPersonas(ctx); err != nil {
		return fmt.Errorf("persona generation failed: %w", err)
	}
	for i := 0; i < analyzeWildcards; i++ {
		fmt.Printf("Adding wildcard persona %d/%d...\n", i+1, analyzeWildcards)
		if err := controller.GenerateWildcardPersona(ctx); err != nil {
			return fmt.Errorf("wildcard generation failed: %w", err)
		}
	}

	snap := controller.Snapshot()
	if cfg.Verbose {
		printer.PrintPersonas(snap.GeneratedPersonas)
	}

	// Headless runs interview the whole slate
	for _, p := range snap.GeneratedPersonas {
		if err := controller.TogglePersona(p.ID); err != nil {
			return err
		}
	}

	// Step 7: Run the pipeline with printed progress
	err = controller.RunAnalysis(ctx, func(e wizard.ProgressEvent) {
		fmt.Printf("[%3.0f%%] %s\n", e.Percent, e.Message)
	})
	if err != nil {
		return err
	}

	// Step 8: Print the report
	snap = controller.Snapshot()
	if cfg.Verbose {
		for i := range snap.InterviewResults {
			printer.PrintInterviewResult(&snap.InterviewResults[i])
		}
	}
	printer.PrintReport(snap.FinalReport)

	return nil
}
