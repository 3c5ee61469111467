package sim

import (
	"fmt"
	"testing"
)

func TestResultCacheLRUEviction(t *testing.T) {
	cache := newResultCache(3)

	for i := 0; i < 3; i++ {
		cache.put(fmt.Sprintf("key%d", i), &Report{})
	}
	if cache.len() != 3 {
		t.Fatalf("len = %d, want 3", cache.len())
	}

	// Touch key0 so key1 becomes the eviction candidate.
	if _, ok := cache.get("key0"); !ok {
		t.Fatal("key0 missing before eviction")
	}
	cache.put("key3", &Report{})

	if _, ok := cache.get("key1"); ok {
		t.Error("key1 survived eviction despite being least recently used")
	}
	for _, key := range []string{"key0", "key2", "key3"} {
		if _, ok := cache.get(key); !ok {
			t.Errorf("%s evicted unexpectedly", key)
		}
	}
}

func TestResultCacheOverwrite(t *testing.T) {
	cache := newResultCache(2)
	first := &Report{}
	second := &Report{}

	cache.put("key", first)
	cache.put("key", second)

	got, ok := cache.get("key")
	if !ok || got != second {
		t.Error("overwritten entry not returned")
	}
	if cache.len() != 1 {
		t.Errorf("len = %d after overwrite, want 1", cache.len())
	}
}

func TestResultCachePurge(t *testing.T) {
	cache := newResultCache(4)
	cache.put("a", &Report{})
	cache.put("b", &Report{})

	cache.purge()
	if cache.len() != 0 {
		t.Errorf("len = %d after purge, want 0", cache.len())
	}
	if _, ok := cache.get("a"); ok {
		t.Error("purged entry still retrievable")
	}
}
