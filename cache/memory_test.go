package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// Keys follow the translator's "<source hash>:<target lang>" convention.
const (
	keySaveES  = "dd0ae7a5cbcf233968657563dce34639e681861e2df6d3f845c08d49981c0999:es_ES"
	keyHelloES = "185f8db32271fe25f561a6fc938b2e264306ec304eda518007d1764826381969:es_ES"
)

func TestInMemoryCache_GetSet(t *testing.T) {
	c := NewInMemoryCache(3600)

	if err := c.Set(keySaveES, "Guardar cambios"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := c.Get(keySaveES)
	if !ok {
		t.Error("Get should find the stored translation")
	}
	if got != "Guardar cambios" {
		t.Errorf("Get returned %q, want %q", got, "Guardar cambios")
	}

	got, ok = c.Get(keyHelloES)
	if ok {
		t.Error("Get should miss for a key never stored")
	}
	if got != "" {
		t.Errorf("Get on a miss should return empty string, got %q", got)
	}
}

func TestInMemoryCache_TTLExpiry(t *testing.T) {
	c := NewInMemoryCache(1)

	c.Set(keySaveES, "Guardar cambios")
	if _, ok := c.Get(keySaveES); !ok {
		t.Fatal("translation should be readable right after Set")
	}

	time.Sleep(1100 * time.Millisecond)

	if got, ok := c.Get(keySaveES); ok || got != "" {
		t.Errorf("expired record should miss, got %q, %v", got, ok)
	}
	// The lazy delete on read removes the stale record.
	if c.Len() != 0 {
		t.Errorf("Len() = %d after expired read, want 0", c.Len())
	}
}

func TestInMemoryCache_NoTTL(t *testing.T) {
	c := NewInMemoryCache(0)

	c.Set(keySaveES, "Guardar cambios")
	if got, ok := c.Get(keySaveES); !ok || got != "Guardar cambios" {
		t.Error("records should never expire with TTL disabled")
	}
}

func TestInMemoryCache_Overwrite(t *testing.T) {
	c := NewInMemoryCache(3600)

	c.Set(keySaveES, "Guardar")
	c.Set(keySaveES, "Guardar cambios")

	got, ok := c.Get(keySaveES)
	if !ok || got != "Guardar cambios" {
		t.Errorf("Get after overwrite = %q, %v; want the newer translation", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d after overwrite, want 1", c.Len())
	}
}

func TestInMemoryCache_LenAndClear(t *testing.T) {
	c := NewInMemoryCache(3600)

	if c.Len() != 0 {
		t.Errorf("fresh cache Len() = %d, want 0", c.Len())
	}

	c.Set(keySaveES, "Guardar cambios")
	c.Set(keyHelloES, "Hola")
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", c.Len())
	}
	if _, ok := c.Get(keySaveES); ok {
		t.Error("cleared cache should not serve old translations")
	}
}

func TestInMemoryCache_Concurrent(t *testing.T) {
	// Batch translation hits one shared cache from several goroutines.
	c := NewInMemoryCache(3600)
	langs := []string{"es", "fr", "de", "ja"}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("hash%d:%s", i%10, langs[i%len(langs)])
			c.Set(key, "translated")
		}(i)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("hash%d:%s", i%10, langs[i%len(langs)])
			c.Get(key)
		}(i)
	}
	wg.Wait()
}

func TestInMemoryCache_Entries(t *testing.T) {
	c := NewInMemoryCache(3600)
	c.Set(keySaveES, "Guardar cambios")
	c.Set(keyHelloES, "Hola")

	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries() returned %d records, want 2", len(entries))
	}
	if entries[keyHelloES] != "Hola" {
		t.Errorf("entries[%s] = %q, want Hola", keyHelloES, entries[keyHelloES])
	}

	// Entries returns a copy, not the live map.
	entries["other:es"] = "Extra"
	if c.Len() != 2 {
		t.Error("mutating the returned map should not affect the cache")
	}
}

// Verify InMemoryCache implements TranslationCache
var _ TranslationCache = (*InMemoryCache)(nil)
