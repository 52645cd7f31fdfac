package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/reliefscout/reliefscout/internal/feed"
	"github.com/reliefscout/reliefscout/internal/model"
	"github.com/reliefscout/reliefscout/internal/pipeline"
	"github.com/reliefscout/reliefscout/internal/worker"
	"github.com/spf13/cobra"
)

var (
	feedName    string
	feedLimit   int
	feedTimeout time.Duration
	feedAnalyze bool
)

// feedsCmd represents the feeds command
var feedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "Pull current items from the configured disaster feeds",
	Long: `Feeds lists recent items from the configured situational-awareness
sources (USGS significant earthquakes, GDACS alerts, ReliefWeb updates).

With --analyze each item is run through the analysis pipeline and scored.

Example:
  reliefscout feeds
  reliefscout feeds --feed usgs_earthquakes --limit 5
  reliefscout feeds --analyze --oracle ollama`,
	RunE: runFeeds,
}

func init() {
	rootCmd.AddCommand(feedsCmd)

	feedsCmd.Flags().StringVar(&feedName, "feed", "", "fetch only this feed (default: all)")
	feedsCmd.Flags().IntVar(&feedLimit, "limit", 10, "max items to list or analyze")
	feedsCmd.Flags().DurationVar(&feedTimeout, "timeout", 30*time.Second, "fetch timeout")
	feedsCmd.Flags().BoolVar(&feedAnalyze, "analyze", false, "run each item through the analysis pipeline")

	feedsCmd.Flags().BoolVar(&noGeocode, "no-geocode", false, "skip coordinate resolution")
	feedsCmd.Flags().StringVar(&oracleName, "oracle", "", "classification oracle (openai, ollama; empty = heuristics only)")
	feedsCmd.Flags().StringVar(&oracleModel, "oracle-model", "", "oracle model name")
	feedsCmd.Flags().StringVar(&oracleURL, "oracle-url", "", "oracle base URL")
}

func runFeeds(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), feedTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	client := feed.NewClient(&cfg.Feeds, &cfg.HTTP)

	var items []feed.Item
	if feedName != "" {
		fetched, err := client.Fetch(ctx, feedName)
		if err != nil {
			return err
		}
		items = fetched
	} else {
		fetched, failures := client.FetchAll(ctx)
		for name, err := range failures {
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", name, err)
		}
		items = fetched
	}

	if feedLimit > 0 && len(items) > feedLimit {
		items = items[:feedLimit]
	}
	if len(items) == 0 {
		fmt.Println("No feed items available.")
		return nil
	}

	if feedAnalyze {
		return analyzeFeedItems(items)
	}

	for _, item := range items {
		when := "          "
		if !item.Published.IsZero() {
			when = item.Published.Format("2006-01-02")
		}
		fmt.Printf("%-16s %s  %s\n", item.Source, when, item.Title)
		if verbose && item.Link != "" {
			fmt.Printf("                 %s\n", item.Link)
		}
	}

	return nil
}

// analyzeFeedItems scores feed entries through the full pipeline. Feed text
// is treated as source "web"; the feed being official does not make every
// report inside it official.
func analyzeFeedItems(items []feed.Item) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	// Feed analysis may involve oracle and geocoder calls per item; the
	// fetch timeout is far too tight for that.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers,
		cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst)

	lines := make([]string, 0, len(items))
	for _, item := range items {
		text := strings.Join(strings.Fields(item.Title+". "+item.Summary), " ")
		lines = append(lines, "web\t"+text)
	}

	results := processor.ProcessLines(ctx, lines, time.Now().UTC())

	for _, result := range results {
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "FAIL %.60s: %v\n", result.Input, result.Error)
			continue
		}
		fmt.Printf("%3d%% %-18s %-10s %s\n",
			result.Report.Credibility.Percentage,
			result.Report.Credibility.Status,
			result.Report.DisasterType,
			result.Report.NormalizedText)
	}

	return nil
}
