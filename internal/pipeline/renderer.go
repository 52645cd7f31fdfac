package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/reliefscout/reliefscout/internal/model"
)

// Renderer writes reports as JSON or Markdown files and formats the
// short terminal summary.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON.
func (r *Renderer) RenderJSON(report *model.DisasterReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report.
func (r *Renderer) RenderMarkdown(report *model.DisasterReport, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Disaster Report %s\n\n", report.RequestID)
	fmt.Fprintf(&b, "**Received:** %s\n\n", report.Timestamp.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "> %s\n\n", report.NormalizedText)

	b.WriteString("## Classification\n\n")
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Disaster type | %s |\n", report.DisasterType)
	fmt.Fprintf(&b, "| Need | %s |\n", report.NeedType)
	fmt.Fprintf(&b, "| Urgency | %s |\n", report.Urgency)
	fmt.Fprintf(&b, "| Confidence | %.2f |\n", report.Confidence)
	fmt.Fprintf(&b, "| Source language | %s |\n\n", report.SourceLanguage)

	if len(report.PeopleEstimates) > 0 {
		b.WriteString("## People\n\n")
		categories := make([]string, 0, len(report.PeopleEstimates))
		for category := range report.PeopleEstimates {
			categories = append(categories, string(category))
		}
		sort.Strings(categories)
		for _, category := range categories {
			fmt.Fprintf(&b, "- %s: %d\n", category, report.PeopleEstimates[model.PeopleCategory(category)])
		}
		b.WriteString("\n")
	}

	b.WriteString("## Location\n\n")
	fmt.Fprintf(&b, "- State: %s\n", report.Location.ResolutionState)
	if report.Location.RawText != "" {
		fmt.Fprintf(&b, "- Mentioned: %s\n", report.Location.RawText)
	}
	if report.Location.HasCoordinates() {
		fmt.Fprintf(&b, "- Coordinates: %.5f, %.5f\n", *report.Location.Latitude, *report.Location.Longitude)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Credibility: %d%% (%s)\n\n", report.Credibility.Percentage, report.Credibility.Status)
	for _, factor := range report.Credibility.Factors {
		sign := "+"
		if factor.Impact < 0 {
			sign = ""
		}
		fmt.Fprintf(&b, "- %s: %s%d\n", factor.Factor, sign, factor.Impact)
	}
	fmt.Fprintf(&b, "\n**Recommendation:** %s\n\n", report.Credibility.Recommendation)

	fmt.Fprintf(&b, "## Source\n\n- Platform: %s (%s), tier %d\n\n",
		report.SourceAnalysis.DisplayName, report.SourceAnalysis.PlatformKey, report.SourceAnalysis.TrustTier)

	if report.DonationAnalysis.DonationTrust != model.DonationNoneFound {
		fmt.Fprintf(&b, "## Donations: %s\n\n", report.DonationAnalysis.DonationTrust)
		for _, indicator := range report.DonationAnalysis.ScamIndicatorsFound {
			fmt.Fprintf(&b, "- Scam indicator: %s\n", indicator)
		}
		for _, charity := range report.DonationAnalysis.LegitimateCharitiesFound {
			fmt.Fprintf(&b, "- Known charity: %s\n", charity)
		}
		b.WriteString("\n")
	}

	if report.FreshnessAnalysis.Warning != "" {
		fmt.Fprintf(&b, "## Freshness warning\n\n%s\n\n", report.FreshnessAnalysis.Warning)
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by reliefscout. Scores are heuristic triage aids, not ground truth.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Summary formats the one-screen terminal output.
func (r *Renderer) Summary(report *model.DisasterReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s | %s | urgency: %s | confidence: %.2f\n",
		report.DisasterType, report.NeedType, report.Urgency, report.Confidence)
	fmt.Fprintf(&b, "credibility: %d%% (%s)\n", report.Credibility.Percentage, report.Credibility.Status)

	switch report.Location.ResolutionState {
	case model.ResolutionCoordinates:
		fmt.Fprintf(&b, "location: %s (%.5f, %.5f)\n",
			report.Location.RawText, *report.Location.Latitude, *report.Location.Longitude)
	case model.ResolutionTextOnly:
		fmt.Fprintf(&b, "location: %s (no coordinates)\n", report.Location.RawText)
	default:
		b.WriteString("location: unresolved\n")
	}

	if report.DonationAnalysis.DonationTrust == model.DonationScamLikely {
		b.WriteString("WARNING: donation scam indicators detected\n")
	}
	if report.FreshnessAnalysis.Warning != "" {
		fmt.Fprintf(&b, "WARNING: %s\n", report.FreshnessAnalysis.Warning)
	}

	fmt.Fprintf(&b, "%s\n", report.Credibility.Recommendation)
	return b.String()
}
