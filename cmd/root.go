// Package cmd provides the CLI commands for sahayak.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sahayak-app/sahayak/internal/api"
	"github.com/sahayak-app/sahayak/internal/config"
	"github.com/sahayak-app/sahayak/internal/db"
	"github.com/sahayak-app/sahayak/internal/debug"
	"github.com/sahayak-app/sahayak/internal/events"
	"github.com/sahayak-app/sahayak/internal/generation"
	"github.com/sahayak-app/sahayak/internal/material"
	"github.com/sahayak-app/sahayak/internal/pubsub"
)

// Version is set at build time with -ldflags.
var Version = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sahayak",
		Short: "Sahayak teaching-assistant CLI",
		Long: `Sahayak asks the teaching-assistant server to generate classroom content
and shows the result as it streams in.

It can generate:
  - Answers: explain a topic in response to a question
  - Activities: gamified activities for a grade
  - Question prompts: discussion questions for a lesson day
  - Videos: short explainer videos

Results are kept in a local history and can be published to the
server's class materials.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPostRun: func(*cobra.Command, []string) { debug.Disable() },
	}

	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging to <data dir>/debug.log")
	cmd.PersistentFlags().String("base-url", "", "Server base URL (overrides config)")

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newMockServerCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sahayak %s\n", Version)
		},
	}
}

// loadConfig loads configuration, applies global flags, and enables debug
// logging when requested.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if baseURL, _ := cmd.Flags().GetString("base-url"); baseURL != "" {
		cfg.Server.BaseURL = baseURL
	}

	debugMode, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return nil, fmt.Errorf("getting debug flag: %w", err)
	}
	if debugMode || cfg.Options.Debug {
		logPath := cfg.DebugLogPath()
		if debugErr := debug.Enable(logPath); debugErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to enable debug logging: %v\n", debugErr)
		} else if debugMode {
			fmt.Fprintf(os.Stderr, "Debug: %s\n", logPath)
		}
	}

	return cfg, nil
}

// newTransport builds the streaming transport for cfg.
func newTransport(cfg *config.Config) *generation.HTTPTransport {
	opts := []generation.HTTPOption{generation.WithAPIKey(cfg.APIKey())}
	for k, v := range cfg.Headers() {
		opts = append(opts, generation.WithHeader(k, v))
	}
	return generation.NewHTTPTransport(cfg.BaseURL(), opts...)
}

// newAPIClient builds the REST client for cfg.
func newAPIClient(cfg *config.Config) *api.Client {
	return api.New(cfg.BaseURL(), api.WithAPIKey(cfg.APIKey()), api.WithHeaders(cfg.Headers()))
}

// history is the opened local history database.
type history struct {
	db      *db.DB
	service *material.Service
}

// openHistory opens the history database under the configured data
// directory. broker may be nil.
func openHistory(ctx context.Context, cfg *config.Config, broker *pubsub.Broker[events.MaterialEvent]) (*history, error) {
	database, err := db.Open(ctx, db.PathIn(cfg.DataDir()))
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	store := material.NewSQLiteStore(database.Conn())
	return &history{db: database, service: material.NewService(store, broker)}, nil
}

func (h *history) Close() error {
	return h.db.Close()
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx available to subcommands.
func ExecuteContext(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
