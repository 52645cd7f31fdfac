package source

import (
	"net/url"
	"strings"

	"github.com/reliefscout/reliefscout/internal/model"
)

// Classifier maps raw source identifiers (platform tags or URLs) onto
// SourceProfiles using the static platform trust table. Pure lookup:
// absence of a match is a valid outcome, not an error.
type Classifier struct {
	rules []model.PlatformRule
	byKey map[string]*model.PlatformRule
}

// NewClassifier builds a classifier from the platform table. The table is
// read-only after construction.
func NewClassifier(cfg *model.PlatformConfig) *Classifier {
	if cfg == nil || len(cfg.Rules) == 0 {
		cfg = &model.PlatformConfig{Rules: model.DefaultPlatformRules()}
	}

	c := &Classifier{
		rules: cfg.Rules,
		byKey: make(map[string]*model.PlatformRule, len(cfg.Rules)),
	}
	for i := range c.rules {
		c.byKey[c.rules[i].Key] = &c.rules[i]
	}
	return c
}

// Classify resolves a platform identifier or URL to a SourceProfile.
// Rules are checked in table order so official agency domains win over
// news outlets, which win over social platforms.
func (c *Classifier) Classify(identifier string) model.SourceProfile {
	id := strings.ToLower(strings.TrimSpace(identifier))
	if id == "" || id == "unknown" {
		return c.defaultProfile(false)
	}

	isURL := strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://")

	// Exact platform tag, e.g. source="twitter"
	if !isURL {
		if rule, ok := c.byKey[id]; ok {
			return profileFromRule(rule)
		}
	}

	// Host match against the table, most specific tier first. Patterns
	// anchor at domain-label boundaries so "sms" never matches inside a
	// longer hostname and "t.co" never matches a host ending in "t.com".
	host := hostOf(id)
	if isURL {
		if parsed, err := url.Parse(id); err == nil && parsed.Host != "" {
			host = parsed.Hostname()
		}
	}
	for i := range c.rules {
		for _, pattern := range c.rules[i].Patterns {
			if host == pattern || strings.HasSuffix(host, "."+pattern) {
				return profileFromRule(&c.rules[i])
			}
		}
	}

	// Government and academic hosts are official even when not in the table
	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") {
		return model.SourceProfile{
			PlatformKey: "government",
			DisplayName: "Government Source",
			TrustTier:   1,
			IsOfficial:  true,
		}
	}

	return c.defaultProfile(isURL)
}

func (c *Classifier) defaultProfile(isURL bool) model.SourceProfile {
	if isURL {
		return model.SourceProfile{
			PlatformKey: "web",
			DisplayName: "Web Source",
			TrustTier:   5,
			IsOfficial:  false,
		}
	}
	return model.SourceProfile{
		PlatformKey: "user_report",
		DisplayName: "User Report",
		TrustTier:   5,
		IsOfficial:  false,
	}
}

func profileFromRule(rule *model.PlatformRule) model.SourceProfile {
	return model.SourceProfile{
		PlatformKey: rule.Key,
		DisplayName: rule.Name,
		TrustTier:   rule.Tier,
		IsOfficial:  rule.IsOfficial,
	}
}

func hostOf(s string) string {
	if idx := strings.IndexAny(s, "/?#"); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.Index(s, ":"); idx > 0 {
		s = s[:idx]
	}
	return s
}
