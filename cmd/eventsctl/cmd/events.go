package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/cli/output"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/service"
	"github.com/Mubashir-4041/event-compliance-monitor/pkg/predicthq"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:     "fetch",
	Aliases: []string{"ls"},
	Short:   "Import events and list them",
	Long:    "Fetch events from PredictHQ, normalize them and print the filtered list with license stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := loadEvents(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("output")
		return printEvents(cmd.OutOrStdout(), events, format)
	},
}

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Print map positions of events",
	Long:  "Fetch events and print their projected position on the 0-100 map plane",
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := loadEvents(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("output")
		return printMap(cmd.OutOrStdout(), service.Project(events), format)
	},
}

func init() {
	for _, c := range []*cobra.Command{fetchCmd, mapCmd} {
		c.Flags().String("country", "", "country code (default IT)")
		c.Flags().String("category", "", "event category (default concerts)")
		c.Flags().String("limit", "", "maximum number of events (default 10)")
		c.Flags().StringP("query", "q", "", "text search over name, venue, source, address and inspector")
		c.Flags().String("status", "all", "license status: all, licensed, unlicensed")
		c.Flags().String("source", "all", "event source")
		rootCmd.AddCommand(c)
	}
}

// loadEvents runs the gateway and normalizer and applies the command's filter flags.
func loadEvents(cmd *cobra.Command) ([]entity.DashboardEvent, error) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = cfg.PredictHQ.APIToken
	}
	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = cfg.PredictHQ.BaseURL
	}

	country, _ := cmd.Flags().GetString("country")
	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetString("limit")
	q := predicthq.Query{Country: country, Category: category, Limit: limit}.Merge(predicthq.Query{
		Country:  cfg.PredictHQ.Country,
		Category: cfg.PredictHQ.Category,
		Limit:    cfg.PredictHQ.Limit,
	})

	query, _ := cmd.Flags().GetString("query")
	status, _ := cmd.Flags().GetString("status")
	source, _ := cmd.Flags().GetString("source")
	filter := entity.EventFilter{Query: query, Status: entity.ParseStatusFilter(status), Source: source}

	client := predicthq.NewClient(baseURL, token, cfg.PredictHQ.Timeout)
	normalizer := service.NewNormalizer(cfg.App.Location(), nil)
	return fetchAndFilter(cmd.Context(), client, normalizer, q, filter)
}

func fetchAndFilter(ctx context.Context, gateway predicthq.Fetcher, normalizer *service.Normalizer, q predicthq.Query, f entity.EventFilter) ([]entity.DashboardEvent, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := gateway.FetchEvents(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return service.Filter(normalizer.NormalizeAll(resp.Events), f), nil
}

func printEvents(w io.Writer, events []entity.DashboardEvent, format string) error {
	if format == "json" {
		return output.JSON(w, events)
	}
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found")
		return nil
	}

	table := output.NewTable([]string{"ID", "Name", "Date", "Time", "Venue", "Source", "Status"})
	for _, ev := range events {
		table.AddRow([]string{
			strconv.FormatInt(ev.ID, 10),
			ev.Name,
			ev.Date,
			ev.Time,
			ev.Venue,
			ev.Source,
			output.LicenseStatus(ev.Licensed),
		})
	}
	table.Render(w)

	stats := service.Stats(events)
	fmt.Fprintf(w, "\n%d events: %d licensed, %d unlicensed, %d pending\n",
		stats.Total, stats.Licensed, stats.Unlicensed, stats.Pending)
	return nil
}

func printMap(w io.Writer, points []entity.MapPoint, format string) error {
	if format == "json" {
		return output.JSON(w, points)
	}
	if len(points) == 0 {
		fmt.Fprintln(w, "No events found")
		return nil
	}

	table := output.NewTable([]string{"ID", "Name", "X", "Y", "Status"})
	for _, p := range points {
		table.AddRow([]string{
			strconv.FormatInt(p.Event.ID, 10),
			p.Event.Name,
			strconv.FormatFloat(p.X, 'f', 1, 64),
			strconv.FormatFloat(p.Y, 'f', 1, 64),
			output.LicenseStatus(p.Event.Licensed),
		})
	}
	table.Render(w)
	return nil
}
