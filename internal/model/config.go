package model

import "time"

// Config is the full runtime configuration. Loaded once at startup from
// defaults, config file, environment and flags; read-only afterwards.
type Config struct {
	Oracle      OracleConfig      `yaml:"oracle" mapstructure:"oracle"`
	Geocoder    GeocoderConfig    `yaml:"geocoder" mapstructure:"geocoder"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Platforms   PlatformConfig    `yaml:"platforms" mapstructure:"platforms"`
	Donation    DonationConfig    `yaml:"donation" mapstructure:"donation"`
	Freshness   FreshnessConfig   `yaml:"freshness" mapstructure:"freshness"`
	Feeds       FeedConfig        `yaml:"feeds" mapstructure:"feeds"`
}

// OracleConfig configures the external classification oracle
type OracleConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, ollama, "" = disabled
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// GeocoderConfig configures the external geocoding collaborator
type GeocoderConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Timeout int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
}

// HTTPConfig configures outbound HTTP for URL ingestion
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy" mapstructure:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// CacheConfig configures fetch/geocode result caching
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
	// Dir enables a disk layer under memory when set. Geocode results are
	// stable, so persisting them saves repeated Nominatim round trips.
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	DiskTTL time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig configures batch/feed worker counts
type ConcurrencyConfig struct {
	Workers           int     `yaml:"workers" mapstructure:"workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// PlatformRule maps URL/host patterns onto one platform entry of the
// trust table. Rules are matched in declaration order, most specific first.
type PlatformRule struct {
	Key        string   `yaml:"key" mapstructure:"key"`
	Name       string   `yaml:"name" mapstructure:"name"`
	Tier       int      `yaml:"tier" mapstructure:"tier"`
	IsOfficial bool     `yaml:"is_official" mapstructure:"is_official"`
	Patterns   []string `yaml:"patterns" mapstructure:"patterns"`
}

// PlatformConfig is the static source-trust table
type PlatformConfig struct {
	Rules []PlatformRule `yaml:"rules" mapstructure:"rules"`
}

// DonationConfig holds the charity allowlist and scam denylist
type DonationConfig struct {
	ScamIndicators   []string `yaml:"scam_indicators" mapstructure:"scam_indicators"`
	CharityDomains   []string `yaml:"charity_domains" mapstructure:"charity_domains"`
	SuspiciousShortU []string `yaml:"suspicious_shorteners" mapstructure:"suspicious_shorteners"`
}

// FreshnessConfig holds staleness detection tunables
type FreshnessConfig struct {
	StalenessDays      int      `yaml:"staleness_days" mapstructure:"staleness_days"`
	RecycledIndicators []string `yaml:"recycled_indicators" mapstructure:"recycled_indicators"`
}

// FeedConfig names the live disaster feeds
type FeedConfig struct {
	Sources map[string]string `yaml:"sources" mapstructure:"sources"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Oracle: OracleConfig{
			Provider:  "",
			Model:     "",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Geocoder: GeocoderConfig{
			BaseURL: "https://nominatim.openstreetmap.org",
			Timeout: 10,
			Enabled: true,
		},
		HTTP: HTTPConfig{
			Timeout:       15 * time.Second,
			UserAgent:     "ReliefScout/0.1 (+https://github.com/reliefscout/reliefscout)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             15 * time.Minute,
			CleanupInterval: 5 * time.Minute,
			DiskTTL:         7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:           5,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Platforms: PlatformConfig{
			Rules: DefaultPlatformRules(),
		},
		Donation: DonationConfig{
			ScamIndicators:   DefaultScamIndicators(),
			CharityDomains:   DefaultCharityDomains(),
			SuspiciousShortU: []string{"bit.ly", "tinyurl", "t.co/", "goo.gl"},
		},
		Freshness: FreshnessConfig{
			StalenessDays:      14,
			RecycledIndicators: DefaultRecycledIndicators(),
		},
		Feeds: FeedConfig{
			Sources: map[string]string{
				"usgs_earthquakes": "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/significant_week.atom",
				"gdacs":            "https://www.gdacs.org/xml/rss.xml",
				"reliefweb":        "https://reliefweb.int/updates/rss.xml",
			},
		},
	}
}

// DefaultPlatformRules is the built-in source-trust table, ordered by
// specificity: official agency domains, then named news outlets, then
// named social platforms. Unmatched sources fall through to the tier-5
// default profile in the classifier.
func DefaultPlatformRules() []PlatformRule {
	return []PlatformRule{
		// Tier 1: official government/agency sources
		{Key: "usgs", Name: "USGS Official", Tier: 1, IsOfficial: true, Patterns: []string{"usgs.gov"}},
		{Key: "noaa", Name: "NOAA Weather", Tier: 1, IsOfficial: true, Patterns: []string{"noaa.gov", "weather.gov", "nhc.noaa.gov"}},
		{Key: "fema", Name: "FEMA", Tier: 1, IsOfficial: true, Patterns: []string{"fema.gov"}},
		{Key: "cdc", Name: "CDC", Tier: 1, IsOfficial: true, Patterns: []string{"cdc.gov"}},
		{Key: "gdacs", Name: "GDACS", Tier: 1, IsOfficial: true, Patterns: []string{"gdacs.org"}},

		// Tier 2: major news agencies
		{Key: "reuters", Name: "Reuters", Tier: 2, IsOfficial: true, Patterns: []string{"reuters.com"}},
		{Key: "ap_news", Name: "AP News", Tier: 2, IsOfficial: true, Patterns: []string{"apnews.com"}},
		{Key: "bbc", Name: "BBC News", Tier: 2, IsOfficial: true, Patterns: []string{"bbc.com", "bbc.co.uk"}},
		{Key: "cnn", Name: "CNN", Tier: 2, IsOfficial: false, Patterns: []string{"cnn.com"}},
		{Key: "nytimes", Name: "NY Times", Tier: 2, IsOfficial: false, Patterns: []string{"nytimes.com"}},
		{Key: "guardian", Name: "The Guardian", Tier: 2, IsOfficial: false, Patterns: []string{"theguardian.com"}},
		{Key: "aljazeera", Name: "Al Jazeera", Tier: 2, IsOfficial: false, Patterns: []string{"aljazeera.com"}},
		{Key: "reliefweb", Name: "ReliefWeb", Tier: 2, IsOfficial: true, Patterns: []string{"reliefweb.int"}},

		// Tier 3: community platforms with some moderation signal
		{Key: "reddit", Name: "Reddit", Tier: 3, IsOfficial: false, Patterns: []string{"reddit.com", "redd.it"}},
		{Key: "youtube", Name: "YouTube", Tier: 3, IsOfficial: false, Patterns: []string{"youtube.com", "youtu.be"}},

		// Tier 4: relayed messages, sender identity unverifiable
		{Key: "whatsapp", Name: "WhatsApp", Tier: 4, IsOfficial: false, Patterns: []string{"whatsapp.com", "wa.me"}},
		{Key: "telegram", Name: "Telegram", Tier: 4, IsOfficial: false, Patterns: []string{"telegram.org", "telegram.me", "t.me"}},
		{Key: "sms", Name: "SMS", Tier: 4, IsOfficial: false},

		// Tier 5: open social media, anyone can post
		{Key: "twitter", Name: "Twitter/X", Tier: 5, IsOfficial: false, Patterns: []string{"twitter.com", "x.com", "t.co"}},
		{Key: "facebook", Name: "Facebook", Tier: 5, IsOfficial: false, Patterns: []string{"facebook.com", "fb.com", "fb.me"}},
		{Key: "instagram", Name: "Instagram", Tier: 5, IsOfficial: false, Patterns: []string{"instagram.com", "instagr.am"}},
		{Key: "tiktok", Name: "TikTok", Tier: 5, IsOfficial: false, Patterns: []string{"tiktok.com"}},
		{Key: "bluesky", Name: "Bluesky", Tier: 5, IsOfficial: false, Patterns: []string{"bsky.app"}},
		{Key: "mastodon", Name: "Mastodon", Tier: 5, IsOfficial: false, Patterns: []string{"mastodon.social", "mastodon.online"}},
	}
}

// DefaultScamIndicators is the built-in scam denylist. Any hit dominates
// the donation verdict.
func DefaultScamIndicators() []string {
	return []string{
		"send crypto", "bitcoin only", "wire transfer", "western union",
		"cash app only", "venmo only", "zelle only", "paypal friends",
		"urgent donate now", "100% goes to victims", "tax deductible guaranteed",
		"dm for donation link", "click link in bio", "limited time",
		"match your donation", "celebrity endorsed", "government approved",
	}
}

// DefaultCharityDomains is the built-in allowlist of known charities.
func DefaultCharityDomains() []string {
	return []string{
		"redcross.org", "unicef.org", "savethechildren.org", "directrelief.org",
		"americares.org", "doctorswithoutborders.org", "globalgiving.org",
		"gofundme.com/f/", "habitat.org", "feedingamerica.org", "care.org",
	}
}

// DefaultRecycledIndicators lists phrases suggesting recycled or
// historical content.
func DefaultRecycledIndicators() []string {
	return []string{
		"years ago", "last year", "throwback", "remember when",
		"old footage", "archive", "historical", "anniversary of",
		"on this day", "retrospective",
	}
}
