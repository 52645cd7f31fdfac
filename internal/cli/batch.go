package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/reliefscout/reliefscout/internal/pipeline"
	"github.com/reliefscout/reliefscout/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many reports from a file in parallel",
	Long: `Batch processes one report per line concurrently. Lines can be:
- free text:              flooding on main street, need boats
- platform-tagged text:   twitter<TAB>HELP water rising
- a URL to fetch:         https://www.gdacs.org/report?id=1

URL fetches are rate-limited per origin host. Each report is written
to the output directory as <request_id>.json.

Example:
  reliefscout batch reports.txt
  reliefscout batch reports.txt --concurrency 10 --output-dir ./records
  reliefscout batch reports.txt --oracle ollama`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./reliefscout-records", "output directory for report records")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	batchCmd.Flags().StringVar(&userAgent, "ua", "ReliefScout/0.1 (+https://github.com/reliefscout/reliefscout)", "HTTP User-Agent")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable fetch/geocode caching")
	batchCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "persist cache entries under this directory")
	batchCmd.Flags().BoolVar(&noGeocode, "no-geocode", false, "skip coordinate resolution")
	batchCmd.Flags().BoolVar(&noRobots, "no-robots", false, "ignore robots.txt for URL intake")

	batchCmd.Flags().StringVar(&oracleName, "oracle", "", "classification oracle (openai, ollama; empty = heuristics only)")
	batchCmd.Flags().StringVar(&oracleModel, "oracle-model", "", "oracle model name")
	batchCmd.Flags().StringVar(&oracleURL, "oracle-url", "", "oracle base URL")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, concurrency,
		cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst)

	fmt.Fprintf(os.Stderr, "Reading reports from %s\n", file)
	results, err := processor.ProcessFile(ctx, file, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "FAIL %.60s: %v\n", result.Input, result.Error)
			continue
		}

		jsonPath := filepath.Join(outputDir, result.Report.RequestID+".json")
		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "FAIL %.60s: write: %v\n", result.Input, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "OK   %s %s %d%% (%s)\n",
			result.Report.RequestID[:8], result.Report.DisasterType,
			result.Report.Credibility.Percentage, result.Report.Credibility.Status)
	}

	fmt.Fprintf(os.Stderr, "\nProcessed %d reports: %d ok, %d failed. Records in %s\n",
		len(results), successCount, failureCount, outputDir)

	return nil
}
