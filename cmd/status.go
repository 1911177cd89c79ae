package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sahayak-app/sahayak/internal/config"
	"github.com/sahayak-app/sahayak/internal/material"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server, configuration, and history info",
		Long: `Display the current sahayak status including:
  - Server base URL and credentials
  - Configuration file locations
  - Local history database and size`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	// Print header
	fmt.Fprintln(out, "Sahayak Status")
	fmt.Fprintln(out, strings.Repeat("─", 40))
	fmt.Fprintln(out)

	// Server
	fmt.Fprintln(out, "Server:")
	fmt.Fprintf(out, "  Base URL: %s\n", cfg.BaseURL())
	if cfg.APIKey() != "" {
		fmt.Fprintf(out, "  API key:  %s\n", maskSecret(cfg.APIKey()))
	} else {
		fmt.Fprintln(out, "  API key:  not set")
	}
	if n := len(cfg.Headers()); n > 0 {
		fmt.Fprintf(out, "  Headers:  %d extra\n", n)
	}
	if timeout, _ := cfg.Timeout(); timeout > 0 {
		fmt.Fprintf(out, "  Timeout:  %s\n", timeout)
	}
	if config.NeedsSetup(cfg) {
		fmt.Fprintln(out, "  Using the default local server; run 'sahayak config init' to configure.")
	}
	fmt.Fprintln(out)

	// History
	fmt.Fprintln(out, "History:")
	if !cfg.AutoSave() {
		fmt.Fprintln(out, "  Auto-save: off")
	}
	hist, err := openHistory(cmd.Context(), cfg, nil)
	if err != nil {
		fmt.Fprintf(out, "  Unavailable: %v\n", err)
	} else {
		defer hist.Close()
		items, err := hist.service.List(cmd.Context(), material.Filter{})
		if err != nil {
			return fmt.Errorf("listing history: %w", err)
		}
		published := 0
		for _, m := range items {
			if m.Published {
				published++
			}
		}
		fmt.Fprintf(out, "  Database: %s (schema v%d)\n", hist.db.Path(), hist.db.Version())
		fmt.Fprintf(out, "  Results:  %d (%d published)\n", len(items), published)
	}
	fmt.Fprintln(out)

	// Config file location
	fmt.Fprintf(out, "Config File: %s\n", config.GlobalConfigPath())
	if config.IsFirstRun() {
		fmt.Fprintln(out, "  (not created yet)")
	}
	fmt.Fprintf(out, "Data Directory: %s\n", cfg.DataDir())

	return nil
}
