package snapshot

import (
	"fmt"
	"testing"

	"github.com/bgdev/bashview/inferior"
)

func testImage(n int) *inferior.Image {
	img := inferior.NewImage(fmt.Sprintf("image-%d", n))
	img.AddGlobal(inferior.SymbolDef{Name: "x", Cell: inferior.Int("int", int64(n))})
	return img
}

func TestLRUCache_BasicOperation(t *testing.T) {
	underlying := NewMemoryStore()
	cache := NewLRUCache(underlying, 3) // Small cache for testing

	var hashes []Hash
	for i := 1; i <= 3; i++ {
		h, err := cache.Put(testImage(i))
		if err != nil {
			t.Fatalf("Failed to put image %d: %v", i, err)
		}
		hashes = append(hashes, h)
	}

	// Retrieve image 1 - should populate cache
	retrieved1, err := Retrieve[*inferior.Image](cache, hashes[0])
	if err != nil {
		t.Fatalf("Failed to retrieve image 1: %v", err)
	}
	if retrieved1.Globals[0].Cell.Int != 1 {
		t.Errorf("Retrieved image 1 has wrong value: got %d, want 1", retrieved1.Globals[0].Cell.Int)
	}

	stats := cache.Stats()
	if stats.Size != 1 || stats.Misses != 1 {
		t.Errorf("Cache should hold one entry after one miss, got %+v", stats)
	}

	// A second read is a hit
	if _, err := Retrieve[*inferior.Image](cache, hashes[0]); err != nil {
		t.Fatalf("Failed to retrieve image 1 again: %v", err)
	}
	if stats = cache.Stats(); stats.Hits != 1 {
		t.Errorf("Expected one hit, got %+v", stats)
	}

	for _, h := range hashes[1:] {
		if _, err := Retrieve[*inferior.Image](cache, h); err != nil {
			t.Fatalf("Failed to retrieve %s: %v", h, err)
		}
	}

	// Add image 4 and retrieve - the least recently used entry is evicted
	hash4, err := cache.Put(testImage(4))
	if err != nil {
		t.Fatalf("Failed to put image 4: %v", err)
	}
	if _, err := Retrieve[*inferior.Image](cache, hash4); err != nil {
		t.Fatalf("Failed to retrieve image 4: %v", err)
	}

	stats = cache.Stats()
	if stats.Size > stats.MaxSize {
		t.Errorf("Cache size %d exceeds max size %d after eviction", stats.Size, stats.MaxSize)
	}
	if _, ok := cache.cache[hashes[0]]; ok {
		t.Errorf("Image 1 should have been evicted")
	}

	// Evicted entries are still served from the underlying store
	if _, err := Retrieve[*inferior.Image](cache, hashes[0]); err != nil {
		t.Fatalf("Failed to retrieve evicted image 1: %v", err)
	}
}

func TestLRUCache_Has(t *testing.T) {
	underlying := NewMemoryStore()
	cache := NewLRUCache(underlying, 10)

	hash, err := cache.Put(testImage(42))
	if err != nil {
		t.Fatalf("Failed to put image: %v", err)
	}

	if !cache.Has(hash) {
		t.Errorf("Cache should report hash exists")
	}

	if cache.Has(Hash(99999)) {
		t.Errorf("Cache should report non-existent hash doesn't exist")
	}
}

func TestLRUCache_DefaultSize(t *testing.T) {
	cache := NewLRUCache(NewMemoryStore(), 0)
	if cache.Stats().MaxSize <= 0 {
		t.Errorf("Default max size should be positive, got %d", cache.Stats().MaxSize)
	}
}
