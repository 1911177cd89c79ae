package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/sahayak-app/sahayak/internal/debug"
	"github.com/sahayak-app/sahayak/internal/mockserver"
)

func newMockServerCmd() *cobra.Command {
	var (
		addr  string
		delay time.Duration
	)
	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run a local server that streams sample results",
		Long: `Run a local server that implements the generation and class-material
endpoints with sample data, for trying the CLI without a real server.

Example:
  sahayak mock-server --addr :8000 &
  sahayak generate prompts --topic t1 --day d1 --base-url http://localhost:8000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
				if _, err := loadConfig(cmd); err != nil {
					return err
				}
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           mockserver.New(mockserver.WithDelay(delay)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "Mock server listening on %s\n", addr)
			debug.Event("mockserver", "listen", addr)

			select {
			case err := <-errCh:
				return fmt.Errorf("serving: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("shutting down: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8000", "Listen address")
	cmd.Flags().DurationVar(&delay, "delay", 400*time.Millisecond, "Pause between streamed events")
	return cmd
}
