package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/studypilot/studypilot/internal/config"
	"github.com/studypilot/studypilot/internal/container"
	"github.com/studypilot/studypilot/internal/integrations"
)

var (
	addType       string
	addName       string
	addCredential string
	addEndpoint   string
	addExtra      []string
)

var integrationsCmd = &cobra.Command{
	Use:   "integrations",
	Short: "Inspect and test configured integrations",
	Long: `Inspect and test the integrations seeded from configuration.

Persistent instances come from the config file (integrations.canvas) or the
YAML seed file (integrations.seedFile); the running server also accepts them
over the HTTP API.`,
}

var integrationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured integrations",
	RunE:  runIntegrationsList,
}

var integrationsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Validate and test an integration configuration",
	RunE:  runIntegrationsAdd,
}

var integrationsTestCmd = &cobra.Command{
	Use:   "test <id>",
	Short: "Test the connection of one integration",
	Args:  cobra.ExactArgs(1),
	RunE:  runIntegrationsTest,
}

var integrationsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show integration counts by status and type",
	RunE:  runIntegrationsStats,
}

func init() {
	integrationsAddCmd.Flags().StringVar(&addType, "type", "", "Integration type: canvas, github, notion, slack, gdrive")
	integrationsAddCmd.Flags().StringVar(&addName, "name", "", "Display name")
	integrationsAddCmd.Flags().StringVar(&addCredential, "credential", "", "API token")
	integrationsAddCmd.Flags().StringVar(&addEndpoint, "endpoint", "", "API base URL (required for canvas)")
	integrationsAddCmd.Flags().StringArrayVar(&addExtra, "extra", nil, "Extra key=value settings (repeatable)")
	_ = integrationsAddCmd.MarkFlagRequired("type")
	_ = integrationsAddCmd.MarkFlagRequired("credential")

	integrationsCmd.AddCommand(integrationsListCmd)
	integrationsCmd.AddCommand(integrationsAddCmd)
	integrationsCmd.AddCommand(integrationsTestCmd)
	integrationsCmd.AddCommand(integrationsStatsCmd)
}

func loadRegistry() (*integrations.Registry, error) {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return container.BuildRegistry(cfg)
}

func runIntegrationsList(_ *cobra.Command, _ []string) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	list := registry.List()
	if len(list) == 0 {
		fmt.Println("No integrations configured.")
		return nil
	}

	for _, inst := range list {
		fmt.Printf("%-40s %-8s %-12s %s\n", inst.ID, inst.Type, inst.Status, inst.Name)
	}
	return nil
}

func runIntegrationsAdd(_ *cobra.Command, _ []string) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	extra := map[string]string{}
	for _, kv := range addExtra {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --extra %q, expected key=value", kv)
		}
		extra[k] = v
	}

	inst, err := registry.Add(integrations.Config{
		Type:       integrations.Type(addType),
		Name:       addName,
		Credential: addCredential,
		Endpoint:   addEndpoint,
		Extra:      extra,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Configuration valid: %s\n", inst.ID)
	return testAndPrint(registry, inst.ID)
}

func runIntegrationsTest(_ *cobra.Command, args []string) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}
	return testAndPrint(registry, args[0])
}

func testAndPrint(registry *integrations.Registry, id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report, err := registry.TestConnection(ctx, id)
	if err != nil {
		return err
	}
	if !report.Success {
		fmt.Printf("✗ Connection failed: %s\n", report.Error)
		return nil
	}
	fmt.Println("✓ Connected")
	return nil
}

func runIntegrationsStats(_ *cobra.Command, _ []string) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	stats := registry.Stats()
	fmt.Printf("Total: %d\n\n", stats.Total)

	fmt.Println("By status:")
	for status, n := range stats.ByStatus {
		fmt.Printf("  %-14s %d\n", status, n)
	}
	fmt.Println("By type:")
	for typ, n := range stats.ByType {
		fmt.Printf("  %-14s %d\n", typ, n)
	}
	return nil
}
