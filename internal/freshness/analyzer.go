package freshness

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/reliefscout/reliefscout/internal/model"
)

var (
	yearPattern     = regexp.MustCompile(`\b(19[7-9][0-9]|20[0-9][0-9])\b`)
	relativePattern = regexp.MustCompile(`\b(\d{1,3})\s+(day|week|month|year)s?\s+ago\b`)
	datePattern     = regexp.MustCompile(`\b(20[0-9][0-9])-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])\b`)
)

// Analyzer extracts temporal cues from report text and compares them
// against the intake timestamp. Text without any temporal cue is treated
// as current: silence is not evidence of staleness.
type Analyzer struct {
	stalenessDays      int
	recycledIndicators []string
}

// NewAnalyzer builds an analyzer with the given staleness threshold.
func NewAnalyzer(cfg *model.FreshnessConfig) *Analyzer {
	if cfg == nil {
		def := model.DefaultConfig().Freshness
		cfg = &def
	}
	days := cfg.StalenessDays
	if days <= 0 {
		days = 14
	}
	return &Analyzer{
		stalenessDays:      days,
		recycledIndicators: cfg.RecycledIndicators,
	}
}

// Analyze produces the freshness verdict for a report received at the
// given timestamp. Deterministic: no wall clock is consulted.
func (a *Analyzer) Analyze(text string, receivedAt time.Time) model.FreshnessAssessment {
	lower := strings.ToLower(text)
	threshold := time.Duration(a.stalenessDays) * 24 * time.Hour

	var recycledFound []string
	for _, indicator := range a.recycledIndicators {
		if strings.Contains(lower, indicator) {
			recycledFound = append(recycledFound, indicator)
		}
	}

	oldYears := a.staleYears(text, receivedAt)

	staleRelative := ""
	for _, match := range relativePattern.FindAllStringSubmatch(lower, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		var age time.Duration
		switch match[2] {
		case "day":
			age = time.Duration(n) * 24 * time.Hour
		case "week":
			age = time.Duration(n) * 7 * 24 * time.Hour
		case "month":
			age = time.Duration(n) * 30 * 24 * time.Hour
		case "year":
			age = time.Duration(n) * 365 * 24 * time.Hour
		}
		if age > threshold {
			staleRelative = match[0]
			break
		}
	}

	staleDate := ""
	for _, match := range datePattern.FindAllString(text, -1) {
		if t, err := time.Parse("2006-01-02", match); err == nil {
			if receivedAt.Sub(t) > threshold {
				staleDate = match
				break
			}
		}
	}

	if len(recycledFound) == 0 && len(oldYears) == 0 && staleRelative == "" && staleDate == "" {
		return model.FreshnessAssessment{Freshness: model.FreshnessCurrent}
	}

	return model.FreshnessAssessment{
		Freshness:          model.FreshnessOutdated,
		OldYearsMentioned:  capStrings(oldYears, 3),
		RecycledIndicators: capStrings(recycledFound, 3),
		Warning:            buildWarning(oldYears, recycledFound, staleRelative, staleDate),
	}
}

// staleYears returns mentioned years old enough to predate the event by
// more than a year relative to intake. The previous calendar year is not
// stale on its own: a January report legitimately references December.
func (a *Analyzer) staleYears(text string, receivedAt time.Time) []string {
	var old []string
	seen := make(map[string]bool)
	for _, y := range yearPattern.FindAllString(text, -1) {
		year, err := strconv.Atoi(y)
		if err != nil || seen[y] {
			continue
		}
		if year < receivedAt.Year()-1 {
			seen[y] = true
			old = append(old, y)
		}
	}
	return old
}

func buildWarning(oldYears, recycled []string, staleRelative, staleDate string) string {
	switch {
	case staleDate != "":
		return fmt.Sprintf("Content references a date past the staleness threshold (%s)", staleDate)
	case staleRelative != "":
		return fmt.Sprintf("Content describes an event from %q, past the staleness threshold", staleRelative)
	case len(oldYears) > 0:
		return fmt.Sprintf("Content mentions past years (%s) and may be recycled from old events", strings.Join(capStrings(oldYears, 3), ", "))
	default:
		return fmt.Sprintf("Content contains recycled-content phrasing (%q)", recycled[0])
	}
}

func capStrings(s []string, max int) []string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
