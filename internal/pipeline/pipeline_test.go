package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/reliefscout/reliefscout/internal/model"
)

var intakeTime = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// mockOracleServer emulates the local-model generate endpoint and
// returns the given classification JSON for every request.
func mockOracleServer(t *testing.T, classification string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":    "llama3.1",
			"response": classification,
			"done":     true,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(oracleURL string) *model.Config {
	cfg := model.DefaultConfig()
	cfg.Geocoder.Enabled = false
	cfg.Cache.Enabled = false
	cfg.HTTP.RespectRobots = false
	if oracleURL != "" {
		cfg.Oracle.Provider = "ollama"
		cfg.Oracle.BaseURL = oracleURL
		cfg.Oracle.Timeout = 5
	}
	return cfg
}

func TestPipeline_Analyze_EmptyInput(t *testing.T) {
	p := NewPipeline(testConfig(""))

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := p.Analyze(context.Background(), model.IntakeRequest{
			RawText:    text,
			ReceivedAt: intakeTime,
		})
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Analyze(%q) error = %v, want ErrEmptyInput", text, err)
		}
	}
}

func TestPipeline_Analyze_SocialFloodReport(t *testing.T) {
	server := mockOracleServer(t, `{
		"disaster_type": "flood", "need_type": "rescue", "urgency": "critical",
		"confidence": 0.9, "location_raw_text": "Cedar Rapids, Iowa",
		"source_language": "en",
		"normalized_text": "Family trapped on a roof by rising floodwater in Cedar Rapids."}`)

	p := NewPipeline(testConfig(server.URL))

	report, err := p.Analyze(context.Background(), model.IntakeRequest{
		RawText:        "HELP! Trapped on roof with 2 kids, water rising fast!",
		SourcePlatform: "twitter",
		ReceivedAt:     intakeTime,
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.DisasterType != model.DisasterFlood {
		t.Errorf("Expected flood, got %s", report.DisasterType)
	}
	if report.Urgency != model.UrgencyCritical {
		t.Errorf("Expected critical urgency, got %s", report.Urgency)
	}
	if report.SourceAnalysis.TrustTier != 5 {
		t.Errorf("Expected tier 5 for twitter, got %d", report.SourceAnalysis.TrustTier)
	}
	if report.RequestID == "" {
		t.Error("Expected generated request_id")
	}
	if !report.Timestamp.Equal(intakeTime) {
		t.Errorf("Timestamp must be intake time, got %v", report.Timestamp)
	}
	// Geocoder disabled: location text survives without coordinates.
	if report.Location.ResolutionState != model.ResolutionTextOnly {
		t.Errorf("Expected text_only resolution, got %s", report.Location.ResolutionState)
	}
	if report.Location.RawText != "Cedar Rapids, Iowa" {
		t.Errorf("Unexpected location text: %q", report.Location.RawText)
	}
	if report.Credibility.Percentage <= 0 || report.Credibility.Percentage > 100 {
		t.Errorf("Percentage out of range: %d", report.Credibility.Percentage)
	}
	if report.NormalizedText == "" {
		t.Error("Expected normalized text")
	}
}

func TestPipeline_Analyze_OracleDown_Degrades(t *testing.T) {
	// Point at a server that immediately fails every call.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewPipeline(testConfig(server.URL))

	report, err := p.Analyze(context.Background(), model.IntakeRequest{
		RawText:        "earthquake downtown, buildings shaking",
		SourcePlatform: "user_report",
		ReceivedAt:     intakeTime,
	})
	if err != nil {
		t.Fatalf("Oracle failure must not fail the pipeline: %v", err)
	}

	if report.DisasterType != model.DisasterUnknown {
		t.Errorf("Expected unknown classification, got %s", report.DisasterType)
	}
	if report.Confidence != 0 {
		t.Errorf("Expected zero confidence, got %v", report.Confidence)
	}
	if report.Location.ResolutionState != model.ResolutionUnresolved {
		t.Errorf("Expected unresolved location, got %s", report.Location.ResolutionState)
	}
	// Low confidence must drag the score down.
	if report.Credibility.Percentage >= 50 {
		t.Errorf("Expected penalized credibility, got %d", report.Credibility.Percentage)
	}
	if report.NormalizedText == "" {
		t.Error("Degraded report still needs a normalized summary")
	}
}

func TestPipeline_Analyze_OracleDisabled(t *testing.T) {
	p := NewPipeline(testConfig(""))

	report, err := p.Analyze(context.Background(), model.IntakeRequest{
		RawText:    "flooding on main street",
		ReceivedAt: intakeTime,
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	found := false
	for _, flag := range report.Flags {
		if flag == "oracle_disabled" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected oracle_disabled flag, got %v", report.Flags)
	}
}

func TestPipeline_Analyze_Idempotent(t *testing.T) {
	server := mockOracleServer(t, `{
		"disaster_type": "wildfire", "need_type": "evacuation", "urgency": "high",
		"confidence": 0.85, "location_raw_text": "Paradise, California"}`)

	p := NewPipeline(testConfig(server.URL))

	req := model.IntakeRequest{
		RawText:        "Fire crossing the ridge, 200 people evacuated",
		SourcePlatform: "reddit",
		ReceivedAt:     intakeTime,
	}

	first, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, err := p.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if first.RequestID == second.RequestID {
		t.Error("Request IDs must differ between runs")
	}

	// Everything else must be identical.
	first.RequestID = ""
	second.RequestID = ""
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("Identical inputs produced different reports:\n%s\n%s", a, b)
	}
}

func TestPipeline_Analyze_PeopleEstimatesBackfilled(t *testing.T) {
	server := mockOracleServer(t, `{
		"disaster_type": "flood", "need_type": "rescue", "urgency": "high", "confidence": 0.8}`)

	p := NewPipeline(testConfig(server.URL))

	report, err := p.Analyze(context.Background(), model.IntakeRequest{
		RawText:    "Flooding everywhere, 300 people evacuated and 12 injured",
		ReceivedAt: intakeTime,
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.PeopleEstimates[model.PeopleEvacuated] != 300 {
		t.Errorf("Expected 300 evacuated from text, got %v", report.PeopleEstimates)
	}
	if report.PeopleEstimates[model.PeopleInjured] != 12 {
		t.Errorf("Expected 12 injured from text, got %v", report.PeopleEstimates)
	}
}

func TestPipeline_Analyze_ScamDonationCapsStatus(t *testing.T) {
	server := mockOracleServer(t, `{
		"disaster_type": "hurricane", "need_type": "supplies", "urgency": "high", "confidence": 0.9}`)

	p := NewPipeline(testConfig(server.URL))

	report, err := p.Analyze(context.Background(), model.IntakeRequest{
		RawText:        "Hurricane relief! Send help via venmo only, act now: http://hurricane-relief-now.xyz/donate",
		SourcePlatform: "facebook",
		ReceivedAt:     intakeTime,
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.DonationAnalysis.DonationTrust != model.DonationScamLikely {
		t.Errorf("Expected scam_likely, got %s", report.DonationAnalysis.DonationTrust)
	}
	if report.Credibility.Status == model.StatusVerified {
		t.Error("Scam report must not be verified")
	}
}

func TestPipeline_AnalyzeURL(t *testing.T) {
	oracleServer := mockOracleServer(t, `{
		"disaster_type": "earthquake", "need_type": "information", "urgency": "medium",
		"confidence": 0.95, "location_raw_text": "Ridgecrest, CA"}`)

	pageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1>M 6.4 Earthquake</h1><p>Strong shaking reported near Ridgecrest.</p></body></html>`))
	}))
	defer pageServer.Close()

	p := NewPipeline(testConfig(oracleServer.URL))

	report, err := p.AnalyzeURL(context.Background(), pageServer.URL, model.IntakeRequest{
		ReceivedAt: intakeTime,
	})
	if err != nil {
		t.Fatalf("AnalyzeURL failed: %v", err)
	}

	if report.DisasterType != model.DisasterEarthquake {
		t.Errorf("Expected earthquake, got %s", report.DisasterType)
	}
	if !strings.Contains(report.OriginalText, "Strong shaking") {
		t.Errorf("Expected extracted page text, got %q", report.OriginalText)
	}

	flagged := false
	for _, flag := range report.Flags {
		if strings.HasPrefix(flag, "source_url:") {
			flagged = true
		}
	}
	if !flagged {
		t.Errorf("Expected source_url flag, got %v", report.Flags)
	}
}

func TestPipeline_AnalyzeURL_EmptyPage(t *testing.T) {
	pageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><script>nothing()</script></body></html>`))
	}))
	defer pageServer.Close()

	p := NewPipeline(testConfig(""))

	_, err := p.AnalyzeURL(context.Background(), pageServer.URL, model.IntakeRequest{ReceivedAt: intakeTime})
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput for contentless page, got %v", err)
	}
}
