package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache is the interface shared by the memory, disk and layered caches.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// FetchKey generates a cache key for a fetched URL.
func FetchKey(url string) string {
	return key("fetch", url)
}

// GeocodeKey generates a cache key for a geocoded place name. Place names
// are normalized so "Miami, FL" and "miami, fl" share an entry.
func GeocodeKey(place string) string {
	return key("geocode", strings.ToLower(strings.TrimSpace(place)))
}

func key(kind, raw string) string {
	hash := sha256.Sum256([]byte(raw))
	return "reliefscout:v1:" + kind + ":" + hex.EncodeToString(hash[:])
}
