package donation

import (
	"regexp"
	"strings"

	"github.com/reliefscout/reliefscout/internal/model"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

// Detector scans report text for donation links and matches them against
// the charity allowlist and scam denylist. Static tables, no state.
type Detector struct {
	scamIndicators       []string
	charityDomains       []string
	suspiciousShorteners []string
}

// NewDetector builds a detector from the donation tables.
func NewDetector(cfg *model.DonationConfig) *Detector {
	if cfg == nil {
		def := model.DefaultConfig().Donation
		cfg = &def
	}
	return &Detector{
		scamIndicators:       cfg.ScamIndicators,
		charityDomains:       cfg.CharityDomains,
		suspiciousShorteners: cfg.SuspiciousShortU,
	}
}

// Analyze produces the donation verdict for a report. Scam evidence
// dominates: a single denylist hit yields scam_likely no matter how many
// allowlist matches are present. Both match sets are always reported.
func (d *Detector) Analyze(text string) model.DonationAnalysis {
	lower := strings.ToLower(text)

	var scamFound []string
	for _, indicator := range d.scamIndicators {
		if strings.Contains(lower, indicator) {
			scamFound = append(scamFound, indicator)
		}
	}

	var charitiesFound []string
	for _, domain := range d.charityDomains {
		if strings.Contains(lower, domain) {
			charitiesFound = append(charitiesFound, domain)
		}
	}

	var donationURLs []model.DonationURL
	for _, raw := range urlPattern.FindAllString(text, -1) {
		urlLower := strings.ToLower(raw)
		donationURLs = append(donationURLs, model.DonationURL{
			URL:                   truncate(raw, 100),
			IsLegitimateCharity:   containsAny(urlLower, d.charityDomains),
			IsShortenedSuspicious: containsAny(urlLower, d.suspiciousShorteners),
		})
	}

	// Scam phrasing alone is enough for scam_likely even without a URL
	// or payment token; pressure language is the signal being scored.
	verdict := model.DonationNoneFound
	switch {
	case len(scamFound) > 0:
		verdict = model.DonationScamLikely
	case len(charitiesFound) > 0:
		verdict = model.DonationVerified
	case len(donationURLs) > 0:
		verdict = model.DonationUnverified
	}

	return model.DonationAnalysis{
		DonationTrust:            verdict,
		ScamIndicatorsFound:      capSlice(scamFound, 5),
		LegitimateCharitiesFound: capSlice(charitiesFound, 5),
		DonationURLs:             capURLs(donationURLs, 3),
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func capSlice(s []string, max int) []string {
	if s == nil {
		return []string{}
	}
	if len(s) > max {
		return s[:max]
	}
	return s
}

func capURLs(s []model.DonationURL, max int) []model.DonationURL {
	if len(s) > max {
		return s[:max]
	}
	return s
}
