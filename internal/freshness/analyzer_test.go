package freshness

import (
	"testing"
	"time"

	"github.com/reliefscout/reliefscout/internal/model"
)

var intakeTime = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestAnalyzer_NoTemporalCuesIsCurrent(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	assessment := analyzer.Analyze("Flooding on Main Street, water rising fast, send boats", intakeTime)
	if assessment.Freshness != model.FreshnessCurrent {
		t.Errorf("expected current for text without temporal cues, got %s", assessment.Freshness)
	}
	if assessment.Warning != "" {
		t.Errorf("expected empty warning for current content, got %q", assessment.Warning)
	}
}

func TestAnalyzer_OldYearMention(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	assessment := analyzer.Analyze("Devastating earthquake footage from 2021 shows collapsed buildings", intakeTime)
	if assessment.Freshness != model.FreshnessOutdated {
		t.Fatalf("expected potentially_outdated, got %s", assessment.Freshness)
	}
	if assessment.Warning == "" {
		t.Error("potentially_outdated requires a non-empty warning")
	}
	if len(assessment.OldYearsMentioned) != 1 || assessment.OldYearsMentioned[0] != "2021" {
		t.Errorf("unexpected old years: %v", assessment.OldYearsMentioned)
	}
}

func TestAnalyzer_PreviousYearNotStale(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	// March 2026 intake mentioning 2025 is plausibly about a recent event.
	assessment := analyzer.Analyze("The December 2025 storm recovery continues", intakeTime)
	if assessment.Freshness != model.FreshnessCurrent {
		t.Errorf("previous calendar year alone should not be stale, got %s", assessment.Freshness)
	}
}

func TestAnalyzer_RecycledPhrasing(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	assessment := analyzer.Analyze("Throwback to the big flood, old footage of the rescue", intakeTime)
	if assessment.Freshness != model.FreshnessOutdated {
		t.Fatalf("expected potentially_outdated for recycled phrasing, got %s", assessment.Freshness)
	}
	if len(assessment.RecycledIndicators) == 0 {
		t.Error("expected recycled indicators to be reported")
	}
	if assessment.Warning == "" {
		t.Error("expected warning naming the detected cue")
	}
}

func TestAnalyzer_RelativePhraseBeyondThreshold(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	assessment := analyzer.Analyze("The dam broke 3 weeks ago and the valley flooded", intakeTime)
	if assessment.Freshness != model.FreshnessOutdated {
		t.Errorf("expected potentially_outdated for 3-weeks-ago event, got %s", assessment.Freshness)
	}

	assessment = analyzer.Analyze("The dam broke 2 days ago and the valley flooded", intakeTime)
	if assessment.Freshness != model.FreshnessCurrent {
		t.Errorf("expected current for 2-days-ago event, got %s", assessment.Freshness)
	}
}

func TestAnalyzer_AbsoluteDateBeyondThreshold(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	assessment := analyzer.Analyze("Situation report 2026-01-02: shelters at capacity", intakeTime)
	if assessment.Freshness != model.FreshnessOutdated {
		t.Errorf("expected potentially_outdated for date past threshold, got %s", assessment.Freshness)
	}

	assessment = analyzer.Analyze("Situation report 2026-03-10: shelters at capacity", intakeTime)
	if assessment.Freshness != model.FreshnessCurrent {
		t.Errorf("expected current for date within threshold, got %s", assessment.Freshness)
	}
}

func TestAnalyzer_CustomThreshold(t *testing.T) {
	analyzer := NewAnalyzer(&model.FreshnessConfig{
		StalenessDays:      30,
		RecycledIndicators: model.DefaultRecycledIndicators(),
	})

	// 3 weeks is inside a 30-day threshold.
	assessment := analyzer.Analyze("The dam broke 3 weeks ago", intakeTime)
	if assessment.Freshness != model.FreshnessCurrent {
		t.Errorf("expected current under 30-day threshold, got %s", assessment.Freshness)
	}
}
