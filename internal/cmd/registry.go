package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/natbkgift/flowbiz-infra-n8n/internal/observability"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/registry"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the workflow registry",
}

var registryValidatePath string

var registryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a registry artifact",
	Long: `Validate a registry artifact without starting the server.

Exits non-zero if the artifact is missing, malformed, or contains
duplicate keys. These are the same checks the server applies at startup.

Example:
  flowbizd registry validate --file workflows/registry.json`,
	RunE: runRegistryValidate,
}

func init() {
	rootCmd.AddCommand(registryCmd)
	registryCmd.AddCommand(registryValidateCmd)

	registryValidateCmd.Flags().StringVarP(&registryValidatePath, "file", "f", "workflows/registry.json", "Path to the registry artifact")
}

func runRegistryValidate(cmd *cobra.Command, args []string) error {
	reg, err := registry.Load(registryValidatePath)
	if err != nil {
		observability.CLILogger.Error("registry invalid",
			zap.String("path", registryValidatePath),
			zap.Error(err))
		return err
	}

	observability.CLILogger.Info("registry valid",
		zap.String("path", registryValidatePath),
		zap.Int("workflows", reg.Len()))

	for _, key := range reg.Keys() {
		entry, _ := reg.Lookup(key)
		state := "enabled"
		if !entry.IsEnabled() {
			state = "disabled"
		}
		fmt.Printf("  %-30s %-10s %s\n", key, state, entry.Name)
	}
	return nil
}
