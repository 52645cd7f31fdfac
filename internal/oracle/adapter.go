package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/reliefscout/reliefscout/internal/model"
)

// adapterSleepFunc is the sleep used before the retry (injectable for tests)
var adapterSleepFunc = time.Sleep

const retryBackoff = 2 * time.Second

// Adapter is the validation boundary between the non-deterministic
// oracle and the rest of the pipeline. It converts whatever the provider
// returns into a schema-safe ClassificationResult. Transport failures
// retry once, then degrade to the full default; the pipeline must
// always produce a record, so Classify never returns an error.
type Adapter struct {
	provider Provider
	verbose  bool
}

// NewAdapter creates an adapter over the given provider. A nil provider
// (oracle disabled) degrades every call to the default classification.
func NewAdapter(provider Provider, verbose bool) *Adapter {
	return &Adapter{provider: provider, verbose: verbose}
}

// Enabled reports whether an oracle backend is configured.
func (a *Adapter) Enabled() bool {
	return a.provider != nil
}

// Classify runs one oracle call and coerces the response. All failure
// modes end in the default result, never an error.
func (a *Adapter) Classify(ctx context.Context, req ClassifyRequest) model.ClassificationResult {
	if a.provider == nil {
		return model.DefaultClassification()
	}

	raw, err := a.provider.Classify(ctx, req)
	if err != nil {
		// One bounded retry on transport failure, then give up.
		if ctx.Err() != nil {
			return model.DefaultClassification()
		}
		adapterSleepFunc(retryBackoff)
		raw, err = a.provider.Classify(ctx, req)
		if err != nil {
			if a.verbose {
				fmt.Fprintf(os.Stderr, "Warning: oracle call failed after retry: %v\n", err)
			}
			return model.DefaultClassification()
		}
	}

	result, quality := Coerce(raw)
	if a.verbose && len(quality) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: oracle output coerced: %s\n", strings.Join(quality, "; "))
	}
	return result
}

// Coerce decodes the oracle's raw JSON with per-field defaults. Nothing
// here is fatal: unrecognized enums become unknown, out-of-range numbers
// are clamped or discarded. The returned quality notes name each field
// that needed repair, for logging only.
func Coerce(raw string) (model.ClassificationResult, []string) {
	result := model.DefaultClassification()
	var quality []string

	raw = stripFences(raw)

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return result, []string{fmt.Sprintf("unparseable response: %v", err)}
	}

	if s, ok := stringField(fields, "disaster_type"); ok {
		result.DisasterType = model.ParseDisasterType(s)
		if string(result.DisasterType) != s {
			quality = append(quality, "disaster_type: "+s)
		}
	}
	if s, ok := stringField(fields, "need_type"); ok {
		result.NeedType = model.ParseNeedType(s)
		if string(result.NeedType) != s {
			quality = append(quality, "need_type: "+s)
		}
	}
	if s, ok := stringField(fields, "urgency"); ok {
		result.Urgency = model.ParseUrgency(s)
		if string(result.Urgency) != s {
			quality = append(quality, "urgency: "+s)
		}
	}

	if f, ok := numberField(fields, "confidence"); ok {
		clamped := math.Max(0, math.Min(1, f))
		if clamped != f {
			quality = append(quality, fmt.Sprintf("confidence clamped from %v", f))
		}
		result.Confidence = clamped
	}

	if estimates, ok := fields["people_estimates"].(map[string]any); ok {
		coerced := make(map[model.PeopleCategory]int)
		for key, val := range estimates {
			category, known := model.ParsePeopleCategory(key)
			if !known {
				quality = append(quality, "people_estimates key: "+key)
				continue
			}
			n, ok := nonNegativeInt(val)
			if !ok {
				quality = append(quality, fmt.Sprintf("people_estimates[%s]: %v", key, val))
				continue
			}
			coerced[category] = n
		}
		if len(coerced) > 0 {
			result.PeopleEstimates = coerced
		}
	}

	if val, exists := fields["people_affected"]; exists && val != nil {
		if n, ok := nonNegativeInt(val); ok {
			result.PeopleAffected = &n
		} else {
			quality = append(quality, fmt.Sprintf("people_affected: %v", val))
		}
	}

	if groups, ok := fields["vulnerable_groups"].([]any); ok {
		for _, g := range groups {
			s, isString := g.(string)
			if !isString {
				continue
			}
			group, known := model.ParseVulnerableGroup(strings.ToLower(s))
			if !known {
				quality = append(quality, "vulnerable_groups: "+s)
				continue
			}
			result.VulnerableGroups = append(result.VulnerableGroups, group)
		}
	}

	if s, ok := stringField(fields, "location_raw_text"); ok {
		result.LocationRawText = cleanLocation(s)
	} else if loc, ok := fields["location"].(map[string]any); ok {
		// Some models nest the location despite the flat schema.
		if s, ok := stringField(loc, "raw_text"); ok {
			result.LocationRawText = cleanLocation(s)
		}
	}

	if s, ok := stringField(fields, "contact_info"); ok {
		result.ContactInfo = s
	}
	if s, ok := stringField(fields, "source_language"); ok && len(s) <= 8 {
		result.SourceLanguage = strings.ToLower(s)
	}
	if s, ok := stringField(fields, "normalized_text"); ok {
		result.NormalizedText = s
	}

	return result, quality
}

// cleanLocation drops placeholder location strings some models emit
// instead of omitting the field.
func cleanLocation(s string) string {
	switch strings.ToLower(s) {
	case "unknown", "n/a", "none", "not specified":
		return ""
	}
	return s
}

// stripFences removes markdown code fences some models wrap around JSON.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(raw, "```")
		raw = strings.TrimSpace(raw)
	}
	return raw
}

func stringField(fields map[string]any, key string) (string, bool) {
	val, exists := fields[key]
	if !exists || val == nil {
		return "", false
	}
	s, ok := val.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return "", false
	}
	return s, true
}

func numberField(fields map[string]any, key string) (float64, bool) {
	val, exists := fields[key]
	if !exists || val == nil {
		return 0, false
	}
	switch n := val.(type) {
	case float64:
		return n, true
	case string:
		var f float64
		if _, err := fmt.Sscanf(n, "%g", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

func nonNegativeInt(val any) (int, bool) {
	f, ok := val.(float64)
	if !ok {
		if s, isString := val.(string); isString {
			if _, err := fmt.Sscanf(s, "%g", &f); err != nil {
				return 0, false
			}
			ok = true
		}
	}
	if !ok || f < 0 || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
