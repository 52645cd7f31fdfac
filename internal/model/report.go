package model

import "time"

// IntakeRequest is one raw report handed to the pipeline. Immutable once
// constructed; ReceivedAt is supplied by the caller so identical inputs
// reproduce identical output (request_id aside).
type IntakeRequest struct {
	RawText        string    `json:"raw_text"`
	SourcePlatform string    `json:"source_platform,omitempty"`
	ReceivedAt     time.Time `json:"received_at"`
}

// SourceProfile describes the trust standing of a report's source platform.
// Computed from the static platform table, never mutated.
type SourceProfile struct {
	PlatformKey string `json:"platform"`
	DisplayName string `json:"platform_name"`
	TrustTier   int    `json:"trust_tier"` // 1 (official) .. 5 (unverified anonymous)
	IsOfficial  bool   `json:"is_official"`
}

// ResolutionState discriminates how much location detail was determined
type ResolutionState string

const (
	ResolutionCoordinates ResolutionState = "coordinates_resolved"
	ResolutionTextOnly    ResolutionState = "text_only"
	ResolutionUnresolved  ResolutionState = "unresolved"
)

// ResolvedLocation is the structured location for a report. Latitude and
// longitude are both set or both nil.
type ResolvedLocation struct {
	RawText         string          `json:"raw_text,omitempty"`
	City            string          `json:"city,omitempty"`
	Region          string          `json:"region,omitempty"`
	Country         string          `json:"country,omitempty"`
	Latitude        *float64        `json:"latitude,omitempty"`
	Longitude       *float64        `json:"longitude,omitempty"`
	ResolutionState ResolutionState `json:"resolution_state"`
}

// HasCoordinates reports whether both coordinates are present.
func (l ResolvedLocation) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// CredibilityStatus is the verdict band derived from the percentage
type CredibilityStatus string

const (
	StatusVerified          CredibilityStatus = "verified"
	StatusLikelyCredible    CredibilityStatus = "likely_credible"
	StatusNeedsVerification CredibilityStatus = "needs_verification"
	StatusSuspicious        CredibilityStatus = "suspicious"
	StatusLikelyFake        CredibilityStatus = "likely_fake"
)

// CredibilityFactor is one labeled, signed contribution to the trust
// percentage, recorded in evaluation order.
type CredibilityFactor struct {
	Factor   string `json:"factor"`
	Positive bool   `json:"positive"`
	Impact   int    `json:"impact"`
}

// CredibilityAssessment is the scoring engine's verdict. Percentage equals
// the clamped sum of factor impacts plus the baseline; Status is a pure
// function of Percentage.
type CredibilityAssessment struct {
	Percentage     int                 `json:"percentage"` // [0,100]
	Status         CredibilityStatus   `json:"status"`
	Factors        []CredibilityFactor `json:"factors"`
	Recommendation string              `json:"recommendation"`
}

// DonationTrust is the donation/scam verdict for a report
type DonationTrust string

const (
	DonationNoneFound  DonationTrust = "none_found"
	DonationVerified   DonationTrust = "verified"
	DonationUnverified DonationTrust = "unverified"
	DonationScamLikely DonationTrust = "scam_likely"
)

// DonationAnalysis reports donation links found in a report and the
// allowlist/denylist evidence behind the verdict. Both match sets are
// reported even when only one drives the verdict.
type DonationAnalysis struct {
	DonationTrust            DonationTrust `json:"donation_trust"`
	ScamIndicatorsFound      []string      `json:"scam_indicators_found"`
	LegitimateCharitiesFound []string      `json:"legitimate_charities_found"`
	DonationURLs             []DonationURL `json:"donation_urls,omitempty"`
}

// DonationURL is one URL-like token detected in the text
type DonationURL struct {
	URL                   string `json:"url"`
	IsLegitimateCharity   bool   `json:"is_legitimate_charity"`
	IsShortenedSuspicious bool   `json:"is_shortened_suspicious"`
}

// FreshnessState marks whether a report looks current or recycled
type FreshnessState string

const (
	FreshnessCurrent  FreshnessState = "current"
	FreshnessOutdated FreshnessState = "potentially_outdated"
)

// FreshnessAssessment is the staleness verdict. Warning is non-empty
// exactly when the state is potentially_outdated.
type FreshnessAssessment struct {
	Freshness          FreshnessState `json:"freshness"`
	OldYearsMentioned  []string       `json:"old_years_mentioned,omitempty"`
	RecycledIndicators []string       `json:"recycled_indicators,omitempty"`
	Warning            string         `json:"warning,omitempty"`
}

// DisasterReport is the final structured record emitted once per intake
// call. Never mutated after return; persistence is left to the caller.
type DisasterReport struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"` // intake time, not processing time

	SourceLanguage string `json:"source_language"`
	OriginalText   string `json:"original_text"`
	NormalizedText string `json:"normalized_text"`

	DisasterType DisasterType `json:"disaster_type"`
	NeedType     NeedType     `json:"need_type"`
	Urgency      Urgency      `json:"urgency"`
	Confidence   float64      `json:"confidence"`

	PeopleEstimates  map[PeopleCategory]int `json:"people_estimates"`
	PeopleAffected   *int                   `json:"people_affected,omitempty"`
	VulnerableGroups []VulnerableGroup      `json:"vulnerable_groups,omitempty"`
	ContactInfo      string                 `json:"contact_info,omitempty"`

	Location          ResolvedLocation      `json:"location"`
	SourceAnalysis    SourceProfile         `json:"source_analysis"`
	Credibility       CredibilityAssessment `json:"credibility"`
	DonationAnalysis  DonationAnalysis      `json:"donation_analysis"`
	FreshnessAnalysis FreshnessAssessment   `json:"freshness_analysis"`

	Flags []string `json:"flags,omitempty"`
}
