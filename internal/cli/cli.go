package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/citypulse/citypulse/internal/app"
	"github.com/citypulse/citypulse/internal/config"
	"github.com/citypulse/citypulse/pkg/client"
	"github.com/citypulse/citypulse/pkg/event"
	"github.com/citypulse/citypulse/pkg/news"
	"github.com/spf13/cobra"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	defaultServer = "http://localhost:8181"
)

type clientFlags struct {
	server  string
	format  string
	timeout time.Duration
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "citypulse",
		Short: "City events and news listing service",
		Long: `citypulse aggregates upcoming city events from a ticketing API with a scraping
fallback, serves local news, and keeps admin-curated custom events.`,
		SilenceUsage: true,
	}

	flags := &clientFlags{}
	cmd.PersistentFlags().StringVar(&flags.server, "server", defaultServer, "Base URL of a running citypulse server")
	cmd.PersistentFlags().StringVar(&flags.format, "format", FormatText, "Output format: text or json")
	cmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 15*time.Second, "Request timeout")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newEventsCmd(flags))
	cmd.AddCommand(newNewsCmd(flags))
	cmd.AddCommand(newAddCmd(flags))
	return cmd
}

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, err := app.NewApplication(ctx, cfg)
			if err != nil {
				return fmt.Errorf("initializing application: %w", err)
			}
			return application.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML config file")
	return cmd
}

func newEventsCmd(flags *clientFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List upcoming events",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
			defer cancel()

			events, err := c.FetchEvents(ctx)
			if err != nil {
				return fmt.Errorf("fetching events: %w", err)
			}
			return flags.print(cmd.OutOrStdout(), events, func(w io.Writer) {
				FormatEvents(w, events)
			})
		},
	}
}

func newNewsCmd(flags *clientFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "news",
		Short: "List the latest news",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
			defer cancel()

			items, err := c.FetchNews(ctx)
			if err != nil {
				return fmt.Errorf("fetching news: %w", err)
			}
			return flags.print(cmd.OutOrStdout(), items, func(w io.Writer) {
				FormatNews(w, items)
			})
		},
	}
}

func newAddCmd(flags *clientFlags) *cobra.Command {
	var dto event.EventDTO
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			if missing := event.MissingRequiredFields(dto); len(missing) > 0 {
				return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
			}
			c, err := flags.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
			defer cancel()

			created, err := c.CreateEvent(ctx, dto)
			if err != nil {
				return fmt.Errorf("creating event: %w", err)
			}
			return flags.print(cmd.OutOrStdout(), created, func(w io.Writer) {
				fmt.Fprintf(w, "Created event %s: %s\n", created.ID, created.Title)
			})
		},
	}
	cmd.Flags().StringVar(&dto.Title, "title", "", "Event title (required)")
	cmd.Flags().StringVar(&dto.Date, "date", "", "Event date, e.g. 2026-10-25 (required)")
	cmd.Flags().StringVar(&dto.Time, "time", "", "Event time, e.g. 18:00 (required)")
	cmd.Flags().StringVar(&dto.Venue, "venue", "", "Venue name (required)")
	cmd.Flags().StringVar(&dto.Category, "category", "", "Category")
	cmd.Flags().StringVar(&dto.Description, "description", "", "Description")
	cmd.Flags().StringVar(&dto.Image, "image", "", "Image URL")
	cmd.Flags().StringVar(&dto.URL, "url", "", "Event URL")
	cmd.Flags().StringVar(&dto.Price, "price", "", "Price")
	return cmd
}

func (f *clientFlags) client() (client.Client, error) {
	if f.format != FormatText && f.format != FormatJSON {
		return nil, fmt.Errorf("invalid format: %s (must be 'text' or 'json')", f.format)
	}
	return client.NewHTTPClient(f.server, f.timeout), nil
}

func (f *clientFlags) print(w io.Writer, value any, text func(io.Writer)) error {
	if f.format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	}
	text(w)
	return nil
}

// FormatEvents writes one block per event.
func FormatEvents(w io.Writer, events []event.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}
	for _, e := range events {
		when := strings.TrimSpace(e.Date + " " + e.Time)
		fmt.Fprintf(w, "• %s\n", e.Title)
		if when != "" {
			fmt.Fprintf(w, "  %s\n", when)
		}
		if e.Venue != "" {
			fmt.Fprintf(w, "  %s\n", e.Venue)
		}
		if e.Price != "" {
			fmt.Fprintf(w, "  %s\n", e.Price)
		}
		if e.URL != "" {
			fmt.Fprintf(w, "  %s\n", e.URL)
		}
	}
}

func FormatNews(w io.Writer, items []news.NewsItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No news found.")
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "• %s (%s)\n", item.Title, item.Source)
		if item.URL != "" {
			fmt.Fprintf(w, "  %s\n", item.URL)
		}
	}
}
