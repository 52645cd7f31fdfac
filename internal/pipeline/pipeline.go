package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/reliefscout/reliefscout/internal/cache"
	"github.com/reliefscout/reliefscout/internal/donation"
	"github.com/reliefscout/reliefscout/internal/extract"
	"github.com/reliefscout/reliefscout/internal/freshness"
	"github.com/reliefscout/reliefscout/internal/geo"
	"github.com/reliefscout/reliefscout/internal/model"
	"github.com/reliefscout/reliefscout/internal/oracle"
	"github.com/reliefscout/reliefscout/internal/score"
	"github.com/reliefscout/reliefscout/internal/source"
)

// ErrEmptyInput is the only failure the pipeline surfaces: nothing
// extractable to classify. Every other problem degrades into the report.
var ErrEmptyInput = errors.New("no extractable text in input")

// Pipeline orchestrates one intake call end to end. All components are
// constructed once and shared across calls; per-call state stays local.
type Pipeline struct {
	classifier *source.Classifier
	oracle     *oracle.Adapter
	resolver   *geo.Resolver
	donations  *donation.Detector
	freshness  *freshness.Analyzer
	scorer     *score.Scorer
	fetcher    *Fetcher
	renderer   *Renderer
	config     *model.Config
}

// NewPipeline creates a pipeline with the given configuration.
func NewPipeline(cfg *model.Config) *Pipeline {
	provider, err := oracle.NewProvider(oracle.ConfigFromModel(cfg.Oracle))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: oracle disabled: %v\n", err)
		provider = nil
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			store = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			store = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
		}
	}

	var geocoder geo.Geocoder
	if cfg.Geocoder.Enabled {
		client := geo.NewClient(&cfg.Geocoder, cfg.HTTP.UserAgent)
		if store != nil {
			geocoder = geo.NewCachedGeocoder(client, store, cfg.Cache.TTL)
		} else {
			geocoder = client
		}
	}

	return &Pipeline{
		classifier: source.NewClassifier(&cfg.Platforms),
		oracle:     oracle.NewAdapter(provider, cfg.Output.Verbose),
		resolver:   geo.NewResolver(geocoder),
		donations:  donation.NewDetector(&cfg.Donation),
		freshness:  freshness.NewAnalyzer(&cfg.Freshness),
		scorer:     score.NewScorer(),
		fetcher:    NewFetcher(&cfg.HTTP, store, cfg.Cache.TTL),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		config:     cfg,
	}
}

// Analyze processes one text report and returns the complete record.
// The oracle call dominates latency, so the local analyzers run
// alongside it; geocoding waits for the oracle's extracted location,
// and scoring joins everything.
func (p *Pipeline) Analyze(ctx context.Context, req model.IntakeRequest) (*model.DisasterReport, error) {
	text := strings.TrimSpace(req.RawText)
	if text == "" {
		return nil, ErrEmptyInput
	}

	var (
		profile   model.SourceProfile
		donations model.DonationAnalysis
		fresh     model.FreshnessAssessment
		wg        sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		profile = p.classifier.Classify(req.SourcePlatform)
	}()
	go func() {
		defer wg.Done()
		donations = p.donations.Analyze(text)
	}()
	go func() {
		defer wg.Done()
		fresh = p.freshness.Analyze(text, req.ReceivedAt)
	}()

	classification := p.oracle.Classify(ctx, oracle.ClassifyRequest{
		Text:           text,
		SourcePlatform: req.SourcePlatform,
	})

	wg.Wait()

	location := p.resolver.Resolve(ctx, classification.LocationRawText)

	estimates := mergeEstimates(classification.PeopleEstimates,
		extract.PeopleEstimates(text+" "+classification.NormalizedText))

	assessment := p.scorer.Calculate(score.Input{
		Source:         profile,
		Classification: classification,
		Donation:       donations,
		Freshness:      fresh,
		Text:           text,
	})

	return p.assemble(req, text, classification, profile, location, donations, fresh, assessment, estimates), nil
}

// AnalyzeURL fetches a page, extracts its visible text and runs the
// standard analysis with the URL as the source hint.
func (p *Pipeline) AnalyzeURL(ctx context.Context, rawURL string, req model.IntakeRequest) (*model.DisasterReport, error) {
	fetched, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	text, err := extract.VisibleText(fetched.Body)
	if err != nil {
		return nil, fmt.Errorf("extract text from %s: %w", rawURL, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	req.RawText = extract.TruncateForOracle(text)
	if req.SourcePlatform == "" {
		req.SourcePlatform = rawURL
	}

	report, err := p.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	report.Flags = append(report.Flags, "source_url:"+fetched.FinalURL)
	return report, nil
}

// RenderReport writes the report to the configured outputs.
func (p *Pipeline) RenderReport(report *model.DisasterReport, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("Wrote Markdown: %s\n", mdPath)
		}
	}

	return nil
}

// Summary returns the short terminal rendering of a report.
func (p *Pipeline) Summary(report *model.DisasterReport) string {
	return p.renderer.Summary(report)
}

// assemble merges component outputs into the final record. It never
// fails: degraded upstream results yield unknown/default fields, not a
// missing record.
func (p *Pipeline) assemble(
	req model.IntakeRequest,
	text string,
	classification model.ClassificationResult,
	profile model.SourceProfile,
	location model.ResolvedLocation,
	donations model.DonationAnalysis,
	fresh model.FreshnessAssessment,
	assessment model.CredibilityAssessment,
	estimates map[model.PeopleCategory]int,
) *model.DisasterReport {
	report := &model.DisasterReport{
		RequestID: uuid.NewString(),
		Timestamp: req.ReceivedAt.UTC(),

		SourceLanguage: classification.SourceLanguage,
		OriginalText:   text,
		NormalizedText: classification.NormalizedText,

		DisasterType: classification.DisasterType,
		NeedType:     classification.NeedType,
		Urgency:      classification.Urgency,
		Confidence:   classification.Confidence,

		PeopleEstimates:  estimates,
		PeopleAffected:   classification.PeopleAffected,
		VulnerableGroups: classification.VulnerableGroups,
		ContactInfo:      classification.ContactInfo,

		Location:          location,
		SourceAnalysis:    profile,
		Credibility:       assessment,
		DonationAnalysis:  donations,
		FreshnessAnalysis: fresh,
	}

	if report.NormalizedText == "" {
		report.NormalizedText = normalizedSummary(classification, location)
	}

	if report.PeopleAffected == nil {
		if n, ok := estimates[model.PeopleAffected]; ok {
			affected := n
			report.PeopleAffected = &affected
		}
	}

	if !p.oracle.Enabled() {
		report.Flags = append(report.Flags, "oracle_disabled")
	}

	return report
}

// mergeEstimates overlays regex-extracted figures on the oracle's.
// Text-extracted numbers win for the categories they cover; the oracle
// keeps categories the regexes found nothing for.
func mergeEstimates(fromOracle, fromText map[model.PeopleCategory]int) map[model.PeopleCategory]int {
	if len(fromText) == 0 {
		return fromOracle
	}

	merged := make(map[model.PeopleCategory]int, len(fromOracle)+len(fromText))
	for category, n := range fromOracle {
		merged[category] = n
	}
	for category, n := range fromText {
		merged[category] = n
	}
	return merged
}

// normalizedSummary is the fallback one-line summary when the oracle
// did not supply one.
func normalizedSummary(c model.ClassificationResult, location model.ResolvedLocation) string {
	place := location.RawText
	if place == "" {
		place = "an unspecified location"
	}
	return fmt.Sprintf("%s %s report, needs %s, near %s", c.Urgency, c.DisasterType, c.NeedType, place)
}
