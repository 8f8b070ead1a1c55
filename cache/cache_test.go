package cache

import (
	"testing"
	"time"

	"github.com/sshuster/viral-video-whisperer-pro/config"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(config.CacheConfig{Enabled: true, MaxSizeMB: 8, TTLSeconds: 60, CounterSize: 100000})
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestSetAndGet(t *testing.T) {
	c := newTestCache(t)

	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	if ok := c.Set("qr:1:256", payload, int64(len(payload))); !ok {
		t.Fatal("Set rejected the entry")
	}
	// Ristretto applies writes asynchronously.
	time.Sleep(10 * time.Millisecond)

	value, found := c.Get("qr:1:256")
	if !found {
		t.Fatal("Get missed a stored entry")
	}
	if got, ok := value.([]byte); !ok || len(got) != len(payload) {
		t.Errorf("Get returned %v", value)
	}
}

func TestGetMissing(t *testing.T) {
	c := newTestCache(t)

	if _, found := c.Get("qr:absent:256"); found {
		t.Error("Get reported a hit for an absent key")
	}
}

func TestDelete(t *testing.T) {
	c := newTestCache(t)

	c.Set("qr:2:512", []byte("png"), 3)
	time.Sleep(10 * time.Millisecond)
	c.Delete("qr:2:512")
	time.Sleep(10 * time.Millisecond)

	if _, found := c.Get("qr:2:512"); found {
		t.Error("Deleted entry is still readable")
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	c := &Cache{}

	if ok := c.Set("k", "v", 1); ok {
		t.Error("Set on a nil-backed cache reported success")
	}
	if _, found := c.Get("k"); found {
		t.Error("Get on a nil-backed cache reported a hit")
	}
	c.Delete("k")
	c.Close()

	snapshot := c.GetMetricsSnapshot()
	if snapshot.Hits != 0 || snapshot.Misses != 0 {
		t.Errorf("Nil-backed snapshot = %+v", snapshot)
	}
}

func TestMetricsSnapshot(t *testing.T) {
	c := newTestCache(t)

	c.Set("qr:3:256", []byte("png"), 3)
	time.Sleep(10 * time.Millisecond)
	c.Get("qr:3:256")
	c.Get("qr:missing:256")

	snapshot := c.GetMetricsSnapshot()
	if snapshot.TTLSeconds != 60 {
		t.Errorf("TTLSeconds = %d, want 60", snapshot.TTLSeconds)
	}
	if snapshot.Hits == 0 {
		t.Error("Snapshot recorded no hits")
	}
	if snapshot.Misses == 0 {
		t.Error("Snapshot recorded no misses")
	}
}
