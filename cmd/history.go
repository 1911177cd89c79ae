package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/sahayak-app/sahayak/internal/artifact"
	"github.com/sahayak-app/sahayak/internal/material"
	"github.com/sahayak-app/sahayak/internal/pubsub"
	"github.com/sahayak-app/sahayak/internal/render"
	"github.com/sahayak-app/sahayak/internal/tui"
	"github.com/sahayak-app/sahayak/internal/tui/page/browse"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse generated results",
		Long: `Browse the results kept in local history.

Examples:
  sahayak history list --kind question_prompts
  sahayak history show 3f2a
  sahayak history publish 3f2a
  sahayak history delete 3f2a
  sahayak history browse`,
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryPublishCmd())
	cmd.AddCommand(newHistoryDeleteCmd())
	cmd.AddCommand(newHistoryBrowseCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var (
		kind   string
		thread string
		topic  string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List results, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			hist, err := openHistory(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer hist.Close()

			items, err := hist.service.List(cmd.Context(), material.Filter{
				Kind:     artifact.Kind(kind),
				ThreadID: thread,
				TopicID:  topic,
				Limit:    limit,
			})
			if err != nil {
				return fmt.Errorf("listing history: %w", err)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No results yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKIND\tSCOPE\tCREATED\tPUBLISHED\tSUMMARY")
			for _, m := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					shortID(m.ID), m.Kind, m.Scope, m.CreatedAt.Local().Format("2006-01-02 15:04"),
					yesNo(m.Published), render.ProgressLine(render.Summary(m.Payload), 60))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only show this kind (answer, activities, question_prompts, video)")
	cmd.Flags().StringVar(&thread, "thread", "", "Only show this thread")
	cmd.Flags().StringVar(&topic, "topic", "", "Only show this topic")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results (0 for all)")

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			hist, err := openHistory(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer hist.Close()

			m, err := hist.service.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("loading %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:        %s\n", m.ID)
			fmt.Fprintf(out, "Kind:      %s\n", m.Kind)
			fmt.Fprintf(out, "Scope:     %s\n", m.Scope)
			fmt.Fprintf(out, "Thread:    %s\n", m.ThreadID)
			fmt.Fprintf(out, "Created:   %s\n", m.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Published: %s\n", yesNo(m.Published))
			fmt.Fprintln(out, strings.Repeat("─", 40))

			profile := termenv.EnvColorProfile()
			if plain {
				profile = termenv.Ascii
			}
			renderer := render.NewTerminal(cfg.BaseURL(), profile)
			if plain {
				fmt.Fprint(out, renderer.Markdown(m.Payload))
				return nil
			}
			rendered, _ := renderer.Render(m.Payload, 80)
			fmt.Fprint(out, rendered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print markdown without styling")
	return cmd
}

func newHistoryPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a result to the server's class materials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			hist, err := openHistory(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer hist.Close()

			m, err := hist.service.Publish(cmd.Context(), args[0], newAPIClient(cfg))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published %s (%s) to %s\n", shortID(m.ID), m.Kind, m.Scope)
			return nil
		},
	}
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a result from local history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			hist, err := openHistory(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer hist.Close()

			if err := hist.service.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newHistoryBrowseCmd() *cobra.Command {
	var (
		kind  string
		topic string
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Review history interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			hub := pubsub.NewHub()
			defer hub.Shutdown()

			hist, err := openHistory(cmd.Context(), cfg, hub.Material)
			if err != nil {
				return err
			}
			defer hist.Close()

			return tui.Browse(cmd.Context(), hub, browse.Options{
				Service:  hist.service,
				Saver:    newAPIClient(cfg),
				Renderer: render.NewTerminal(cfg.BaseURL(), termenv.EnvColorProfile()),
				Filter: material.Filter{
					Kind:    artifact.Kind(kind),
					TopicID: topic,
				},
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only show this kind")
	cmd.Flags().StringVar(&topic, "topic", "", "Only show this topic")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
