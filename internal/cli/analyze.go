package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/reliefscout/reliefscout/internal/model"
	"github.com/reliefscout/reliefscout/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	srcPlatform string
	outJSON     string
	outMD       string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	cacheDir    string
	noGeocode   bool
	noRobots    bool
	noFooter    bool
	oracleName  string
	oracleModel string
	oracleURL   string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <text or url>",
	Short: "Analyze one disaster report and produce a structured record",
	Long: `Analyze takes a single report (free text or a URL to fetch) and:
- Classifies the source platform and its trust tier
- Extracts disaster type, need, urgency and people figures
- Resolves the mentioned location to coordinates when possible
- Scans for donation scam indicators and recycled content
- Scores overall credibility with a transparent factor breakdown

Example:
  reliefscout analyze "HELP! Trapped on roof, water rising fast!" --source twitter
  reliefscout analyze https://www.gdacs.org/report?id=1 --json report.json
  reliefscout analyze "sel basti me ghus gaya" --oracle openai`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&srcPlatform, "source", "", "source platform tag (twitter, usgs, sms, ...)")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&userAgent, "ua", "ReliefScout/0.1 (+https://github.com/reliefscout/reliefscout)", "HTTP User-Agent")
	analyzeCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read for URL intake")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable fetch/geocode caching")
	analyzeCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "persist cache entries under this directory")
	analyzeCmd.Flags().BoolVar(&noGeocode, "no-geocode", false, "skip coordinate resolution")
	analyzeCmd.Flags().BoolVar(&noRobots, "no-robots", false, "ignore robots.txt for URL intake")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	analyzeCmd.Flags().StringVar(&oracleName, "oracle", "", "classification oracle (openai, ollama; empty = heuristics only)")
	analyzeCmd.Flags().StringVar(&oracleModel, "oracle-model", "", "oracle model name")
	analyzeCmd.Flags().StringVar(&oracleURL, "oracle-url", "", "oracle base URL (for ollama or compatible endpoints)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg)

	req := model.IntakeRequest{
		SourcePlatform: srcPlatform,
		ReceivedAt:     time.Now().UTC(),
	}

	var report *model.DisasterReport
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		if verbose {
			fmt.Fprintf(os.Stderr, "Fetching: %s\n", input)
		}
		report, err = p.AnalyzeURL(ctx, input, req)
	} else {
		req.RawText = input
		report, err = p.Analyze(ctx, req)
	}
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyInput) {
			return fmt.Errorf("nothing to analyze: %w", err)
		}
		return fmt.Errorf("analyze failed: %w", err)
	}

	fmt.Print(p.Summary(report))

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig assembles the runtime configuration from defaults and the
// analyze/batch flag set, pulling oracle credentials from the environment.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.RespectRobots = !noRobots
	cfg.Cache.Enabled = !noCache
	cfg.Cache.Dir = cacheDir
	cfg.Geocoder.Enabled = !noGeocode
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if oracleName != "" {
		cfg.Oracle.Provider = oracleName
		cfg.Oracle.Model = oracleModel

		switch oracleName {
		case "openai":
			cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.Oracle.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
			if oracleURL != "" {
				cfg.Oracle.BaseURL = oracleURL
			}
		case "ollama":
			cfg.Oracle.BaseURL = oracleURL
			if cfg.Oracle.BaseURL == "" {
				cfg.Oracle.BaseURL = os.Getenv("OLLAMA_BASE_URL")
			}
		default:
			return nil, fmt.Errorf("unknown oracle provider: %s (supported: openai, ollama)", oracleName)
		}
	}

	return cfg, nil
}
