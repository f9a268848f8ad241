package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studypilot/studypilot/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show studypilot status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	fmt.Printf("%s studypilot Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:  %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	fmt.Printf("Model:   %s\n", cfg.Agent.Model)
	fmt.Printf("Server:  %s\n\n", cfg.Server.Addr)

	fmt.Println("Providers:")
	printProvider("OpenAI", cfg.Providers.OpenAI)
	printProvider("Anthropic", cfg.Providers.Anthropic)
	printProvider("OpenRouter", cfg.Providers.OpenRouter)
	printProvider("Custom", cfg.Providers.Custom)

	fmt.Println("\nIntegrations:")
	if cfg.Integrations.Canvas.BaseURL != "" && cfg.Integrations.Canvas.Token != "" {
		fmt.Printf("  %-12s ✓ %s\n", "Canvas", cfg.Integrations.Canvas.BaseURL)
	} else {
		fmt.Printf("  %-12s (not set)\n", "Canvas")
	}
	if cfg.Integrations.SeedFile != "" {
		fmt.Printf("  %-12s %s\n", "Seed file", cfg.Integrations.SeedFile)
	}
	return nil
}

func printProvider(label string, p config.ProviderConfig) {
	switch {
	case p.APIKey != "":
		fmt.Printf("  %-12s ✓\n", label)
	case p.APIBase != "":
		fmt.Printf("  %-12s ✓ %s\n", label, p.APIBase)
	default:
		fmt.Printf("  %-12s (not set)\n", label)
	}
}
