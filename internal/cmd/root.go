// Package cmd wires the flowbizd command tree.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/natbkgift/flowbiz-infra-n8n/internal/observability"
)

// Build metadata, overridable at link time:
//
//	-ldflags "-X .../internal/cmd.version=... -X .../internal/cmd.buildSHA=..."
var (
	version  = "0.1.0"
	buildSHA = "local"
)

var rootCmd = &cobra.Command{
	Use:   "flowbizd",
	Short: "HTTP bridge between the flowbiz platform and the n8n runtime",
	Long: `flowbizd accepts job-trigger requests, validates them against the
workflow registry, and receives signed completion callbacks from n8n.

Configuration comes from environment variables (FLOWBIZ_* plus the
platform contract names such as CALLBACK_SIGNING_SECRET).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		observability.CLILogger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
