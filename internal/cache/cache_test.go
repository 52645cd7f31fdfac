package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("value"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get("k")
	if !found {
		t.Fatal("Expected cache hit, got miss")
	}
	if !bytes.Equal(got, []byte("value")) {
		t.Errorf("Expected 'value', got %q", got)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after delete")
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("Expected entry to expire")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set(GeocodeKey("Miami, FL"), []byte(`{"lat":25.76}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get(GeocodeKey("miami, fl"))
	if !found {
		t.Fatal("Expected hit for case-insensitive place key")
	}
	if !bytes.Contains(got, []byte("25.76")) {
		t.Errorf("Expected stored payload, got %q", got)
	}
}

func TestDiskCache_ExpiredEntryRemoved(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, found := c.Get("k"); found {
		t.Error("Expected expired entry to miss")
	}
	// Second read confirms the expired file was cleaned up, not re-parsed.
	if _, found := c.Get("k"); found {
		t.Error("Expected expired entry to stay gone")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	// Seed only the disk layer, as a previous process run would have.
	disk := NewDiskCache(dir, time.Hour)
	if err := disk.Set("k", []byte("persisted"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get("k")
	if !found {
		t.Fatal("Expected layered cache to fall through to disk")
	}
	if string(got) != "persisted" {
		t.Errorf("Expected 'persisted', got %q", got)
	}

	// The hit should now be served from memory even if disk is cleared.
	if err := disk.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := c.Get("k"); !found {
		t.Error("Expected promoted entry in memory layer")
	}
}

func TestKeys_Distinct(t *testing.T) {
	if FetchKey("https://example.org") == GeocodeKey("https://example.org") {
		t.Error("Expected fetch and geocode keys to differ for the same input")
	}
	if FetchKey("https://a.example") == FetchKey("https://b.example") {
		t.Error("Expected distinct URLs to produce distinct keys")
	}
}
