// Package main implements the assessor CLI for working with a running
// assessor server and validating catalog files offline.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"maturity.app/assessor/internal/client"
)

var (
	// serverURL is the base URL of the assessor HTTP server
	serverURL string
	timeout   time.Duration
	version   = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "assessor",
	Short: "CLI for the maturity assessor",
	Long: `assessor talks to a running assessor server to inspect the current
assessment, save snapshots, chart the maturity trend and print the gap report.
Catalog files can be validated locally without a server.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("ASSESSOR_SERVER", "http://localhost:3131"), "assessor server URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(catalogCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		h, err := client.New(serverURL).Health(ctx)
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (backend: %s, policy: %s)\n", h.Status, h.Backend, h.Policy)
		return nil
	},
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
