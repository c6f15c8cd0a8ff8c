package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/89534449434inside-eng/ai-platform/internal/config"
)

// Version information (injected at build time via ldflags)
var (
	AppVersion = "development"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and configuration information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion() error {
	fmt.Printf("ai-platform %s\n", AppVersion)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Println("Configuration:")
	fmt.Printf("  Model: %s\n", cfg.ModelName)
	fmt.Printf("  Temperature: %.2f\n", cfg.Temperature)
	fmt.Printf("  Max tokens: %d\n", cfg.MaxTokens)
	fmt.Printf("  History window: %d\n", cfg.HistoryWindow)

	// Check API key from environment (don't display full content)
	key := os.Getenv("GIGACHAT_API_KEY")
	if key != "" {
		fmt.Println("  GIGACHAT_API_KEY: configured")
	} else {
		fmt.Println("  GIGACHAT_API_KEY: Not set")
		fmt.Println()
		fmt.Println("Hint: set the GIGACHAT_API_KEY environment variable")
		fmt.Println("  export GIGACHAT_API_KEY=your-authorization-key")
	}

	return nil
}
