package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/reliefscout/reliefscout/internal/model"
)

// Baseline is the starting percentage before any factor is applied.
const Baseline = 50

// Input carries everything the scorer joins on. All fields are the
// already-degraded outputs of the upstream analyzers; the scorer itself
// has no failure modes and no external calls.
type Input struct {
	Source         model.SourceProfile
	Classification model.ClassificationResult
	Donation       model.DonationAnalysis
	Freshness      model.FreshnessAssessment
	Text           string
}

// Scorer computes the credibility assessment from the joined analyzer
// outputs. Factors are evaluated in a fixed order and each appends one
// entry with its signed impact; identical inputs produce bit-identical
// factor lists and percentages.
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// sensationalCues mark exclamatory phrasing with no verifiable content.
var sensationalCues = []string{
	"breaking", "exclusive", "shocking", "viral", "must see",
	"share now", "you won't believe", "unbelievable",
}

// Calculate runs the ordered factor evaluations and derives the status
// and recommendation from the clamped percentage.
func (s *Scorer) Calculate(in Input) model.CredibilityAssessment {
	factors := []model.CredibilityFactor{
		s.sourceTierFactor(in.Source),
	}

	// Official bonus is the one factor omitted when it contributes nothing.
	if in.Source.IsOfficial {
		factors = append(factors, model.CredibilityFactor{
			Factor:   "Verified official source",
			Positive: true,
			Impact:   10,
		})
	}

	factors = append(factors,
		s.confidenceFactor(in.Classification.Confidence),
		s.specificityFactor(in),
		s.donationFactor(in.Donation),
		s.freshnessFactor(in.Freshness),
	)

	total := Baseline
	for _, f := range factors {
		total += f.Impact
	}
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}

	status := StatusFor(total)

	return model.CredibilityAssessment{
		Percentage:     total,
		Status:         status,
		Factors:        factors,
		Recommendation: recommendation(status, dominantFactor(factors)),
	}
}

// StatusFor maps a percentage to its credibility band.
func StatusFor(percentage int) model.CredibilityStatus {
	switch {
	case percentage >= 85:
		return model.StatusVerified
	case percentage >= 65:
		return model.StatusLikelyCredible
	case percentage >= 40:
		return model.StatusNeedsVerification
	case percentage >= 20:
		return model.StatusSuspicious
	default:
		return model.StatusLikelyFake
	}
}

func (s *Scorer) sourceTierFactor(source model.SourceProfile) model.CredibilityFactor {
	var impact int
	var label string

	switch source.TrustTier {
	case 1:
		impact, label = 30, "Official agency source"
	case 2:
		impact, label = 15, "Established news outlet"
	case 3:
		impact, label = 0, "Community platform source"
	case 4:
		impact, label = -10, "Relayed message, sender unverifiable"
	default:
		impact, label = -15, "Unverified social or unknown source"
	}

	return model.CredibilityFactor{
		Factor:   fmt.Sprintf("%s (tier %d)", label, source.TrustTier),
		Positive: impact >= 0,
		Impact:   impact,
	}
}

func (s *Scorer) confidenceFactor(confidence float64) model.CredibilityFactor {
	impact := int(math.Round((confidence - 0.5) * 40))

	return model.CredibilityFactor{
		Factor:   fmt.Sprintf("Classification confidence %.2f", confidence),
		Positive: impact >= 0,
		Impact:   impact,
	}
}

// specificityFactor rewards concrete, checkable detail and penalizes
// purely exclamatory text. A report with both gets the reward: specifics
// can be verified regardless of tone.
func (s *Scorer) specificityFactor(in Input) model.CredibilityFactor {
	if hasSpecifics(in) {
		return model.CredibilityFactor{
			Factor:   "Specific verifiable details present",
			Positive: true,
			Impact:   5,
		}
	}

	if isSensational(in.Text) {
		return model.CredibilityFactor{
			Factor:   "Sensational phrasing without verifiable detail",
			Positive: false,
			Impact:   -5,
		}
	}

	return model.CredibilityFactor{
		Factor:   "No strong content signal",
		Positive: true,
		Impact:   0,
	}
}

func hasSpecifics(in Input) bool {
	if in.Classification.LocationRawText != "" {
		return true
	}
	if len(in.Classification.PeopleEstimates) > 0 || in.Classification.PeopleAffected != nil {
		return true
	}
	for _, r := range in.Text {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func isSensational(text string) bool {
	lower := strings.ToLower(text)
	for _, cue := range sensationalCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return strings.Count(text, "!") >= 3
}

func (s *Scorer) donationFactor(donation model.DonationAnalysis) model.CredibilityFactor {
	switch donation.DonationTrust {
	case model.DonationScamLikely:
		return model.CredibilityFactor{
			Factor:   "Scam indicators in donation content",
			Positive: false,
			Impact:   -25,
		}
	case model.DonationVerified:
		return model.CredibilityFactor{
			Factor:   "Donation link matches known charity",
			Positive: true,
			Impact:   10,
		}
	default:
		return model.CredibilityFactor{
			Factor:   "No donation trust signal",
			Positive: true,
			Impact:   0,
		}
	}
}

func (s *Scorer) freshnessFactor(freshness model.FreshnessAssessment) model.CredibilityFactor {
	if freshness.Freshness == model.FreshnessOutdated {
		return model.CredibilityFactor{
			Factor:   "Content may be recycled or outdated",
			Positive: false,
			Impact:   -10,
		}
	}

	return model.CredibilityFactor{
		Factor:   "Content appears current",
		Positive: true,
		Impact:   0,
	}
}

// dominantFactor returns the label of the factor with the largest
// absolute impact. Ties resolve to the earliest factor so the result
// stays order-stable.
func dominantFactor(factors []model.CredibilityFactor) string {
	best := ""
	bestAbs := 0
	for _, f := range factors {
		abs := f.Impact
		if abs < 0 {
			abs = -abs
		}
		if abs > bestAbs {
			bestAbs = abs
			best = f.Factor
		}
	}
	return best
}

func recommendation(status model.CredibilityStatus, dominant string) string {
	var base string
	switch status {
	case model.StatusVerified:
		base = "High-confidence report, safe to act on"
	case model.StatusLikelyCredible:
		base = "Credible report, spot-check before wide distribution"
	case model.StatusNeedsVerification:
		base = "Verify with a second source before acting"
	case model.StatusSuspicious:
		base = "Treat with caution, negative signals outweigh positives"
	default:
		base = "Do not act without independent confirmation"
	}

	if dominant == "" {
		return base + "."
	}
	return fmt.Sprintf("%s. Strongest signal: %s.", base, strings.ToLower(dominant[:1])+dominant[1:])
}
