package arbtrans

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SauravKhanalgit/arb-translator-sub001/memory"
)

// slowCache simulates a slow cache for testing parallel lookups
type slowCache struct {
	data    map[string]string
	mu      sync.RWMutex
	delay   time.Duration
	lookups int64
}

func newSlowCache(delay time.Duration) *slowCache {
	return &slowCache{
		data:  make(map[string]string),
		delay: delay,
	}
}

func (c *slowCache) Get(key string) (string, bool) {
	atomic.AddInt64(&c.lookups, 1)
	time.Sleep(c.delay)
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.data[key]
	return val, ok
}

func (c *slowCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func TestParallelCacheLookup_Basic(t *testing.T) {
	cache := newSlowCache(0)
	cache.Set("hash1:es_ES", "Hola")
	cache.Set("hash2:es_ES", "Mundo")

	nodes := []TextNode{
		{Hash: "hash1", Text: "Hello"},
		{Hash: "hash2", Text: "World"},
		{Hash: "hash3", Text: "Missing"},
	}

	translations, misses := ParallelCacheLookup(cache, nodes, "es_ES")

	if len(translations) != 2 {
		t.Errorf("Expected 2 translations, got %d", len(translations))
	}

	if translations["hash1"] != "Hola" {
		t.Errorf("Expected 'Hola', got %q", translations["hash1"])
	}

	if len(misses) != 1 {
		t.Errorf("Expected 1 miss, got %d", len(misses))
	}

	if misses[0].Hash != "hash3" {
		t.Errorf("Expected miss hash 'hash3', got %q", misses[0].Hash)
	}
}

func TestParallelCacheLookup_Deduplication(t *testing.T) {
	cache := newSlowCache(0)

	// Same hash appears multiple times
	nodes := []TextNode{
		{Hash: "hash1", Text: "Hello"},
		{Hash: "hash1", Text: "Hello"},
		{Hash: "hash1", Text: "Hello"},
	}

	_, misses := ParallelCacheLookup(cache, nodes, "es_ES")

	// Should only have one miss (deduplicated)
	if len(misses) != 1 {
		t.Errorf("Expected 1 deduplicated miss, got %d", len(misses))
	}
}

func TestParallelCacheLookup_NilCache(t *testing.T) {
	nodes := []TextNode{
		{Hash: "hash1", Text: "Hello"},
	}

	translations, misses := ParallelCacheLookup(nil, nodes, "es_ES")

	if len(translations) != 0 {
		t.Errorf("Expected 0 translations with nil cache, got %d", len(translations))
	}

	if len(misses) != 1 {
		t.Errorf("Expected all nodes as misses with nil cache, got %d", len(misses))
	}
}

func TestParallelCacheLookup_EmptyNodes(t *testing.T) {
	cache := newSlowCache(0)
	translations, misses := ParallelCacheLookup(cache, []TextNode{}, "es_ES")

	if len(translations) != 0 {
		t.Errorf("Expected 0 translations for empty nodes, got %d", len(translations))
	}

	if len(misses) != 0 {
		t.Errorf("Expected 0 misses for empty nodes, got %d", len(misses))
	}
}

func TestParallelCacheLookup_FasterThanSequential(t *testing.T) {
	delay := 10 * time.Millisecond
	cache := newSlowCache(delay)

	// Pre-populate cache
	for i := 0; i < 10; i++ {
		cache.Set(CacheKey(string(rune('a'+i)), "es_ES"), "translated")
	}

	nodes := make([]TextNode, 10)
	for i := 0; i < 10; i++ {
		nodes[i] = TextNode{Hash: string(rune('a' + i)), Text: "text"}
	}

	start := time.Now()
	ParallelCacheLookup(cache, nodes, "es_ES")
	elapsed := time.Since(start)

	// Sequential would take 10 * 10ms = 100ms
	// Parallel should be much faster (close to 10ms + overhead)
	maxExpected := 50 * time.Millisecond
	if elapsed > maxExpected {
		t.Errorf("Parallel lookup took %v, expected < %v", elapsed, maxExpected)
	}
}

// batchProvider is a thread-safe mock that can fail selected languages.
type batchProvider struct {
	mu        sync.Mutex
	failLangs map[string]bool
	calls     int
}

func (p *batchProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	p.mu.Lock()
	p.calls++
	fail := p.failLangs[req.TargetLang]
	p.mu.Unlock()

	if fail {
		return nil, &ProviderError{Message: "simulated failure for " + req.TargetLang}
	}

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		results[i] = "[" + req.TargetLang + "] " + text
	}
	return results, nil
}

func TestBatchTranslator_TranslateAll(t *testing.T) {
	provider := &batchProvider{}
	batch := NewBatchTranslator(provider, WithProcessor(&mockHTMLProcessor{}))

	langs := []string{"es", "fr", "de"}
	results, summary := batch.TranslateAll(context.Background(), "<p>Hello</p>", "html", langs)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	if summary.TotalLanguages != 3 || summary.Successful != 3 || summary.Failed != 0 {
		t.Errorf("Unexpected summary: %+v", summary)
	}

	// Results keep the order of the input languages
	for i, lang := range langs {
		if results[i].Language != lang {
			t.Errorf("results[%d].Language = %q, want %q", i, results[i].Language, lang)
		}
		if results[i].Err != nil {
			t.Errorf("results[%d] failed: %v", i, results[i].Err)
		}
		if !strings.Contains(results[i].Content, "["+lang+"] Hello") {
			t.Errorf("results[%d].Content = %q, want translation for %s", i, results[i].Content, lang)
		}
	}
}

func TestBatchTranslator_PartialFailure(t *testing.T) {
	provider := &batchProvider{failLangs: map[string]bool{"fr": true}}
	batch := NewBatchTranslator(provider, WithProcessor(&mockHTMLProcessor{}))

	results, summary := batch.TranslateAll(context.Background(), "<p>Hello</p>", "html", []string{"es", "fr", "de"})

	if summary.Successful != 2 || summary.Failed != 1 {
		t.Errorf("Expected 2 successful and 1 failed, got %+v", summary)
	}

	for _, r := range results {
		if r.Language == "fr" {
			if r.Err == nil {
				t.Error("fr should have failed")
			}
			if r.Content != "" {
				t.Errorf("failed language should have empty content, got %q", r.Content)
			}
		} else if r.Err != nil {
			t.Errorf("%s should have succeeded: %v", r.Language, r.Err)
		}
	}
}

func TestBatchTranslator_SharedMemory(t *testing.T) {
	mem := memory.New(memory.Config{})
	defer mem.Dispose()

	provider := &batchProvider{}
	batch := NewBatchTranslator(provider,
		WithProcessor(&mockHTMLProcessor{}),
		WithMemory(mem),
	)

	_, summary := batch.TranslateAll(context.Background(), "<p>Hello</p>", "html", []string{"es", "fr"})
	if summary.Failed != 0 {
		t.Fatalf("Unexpected failures: %+v", summary)
	}

	// Each language learned its own entry
	if _, ok := mem.FindExactMatch("Hello", "en", "es", nil); !ok {
		t.Error("es translation should be in the memory")
	}
	if _, ok := mem.FindExactMatch("Hello", "en", "fr", nil); !ok {
		t.Error("fr translation should be in the memory")
	}
}

func TestBatchTranslator_NoLanguages(t *testing.T) {
	provider := &batchProvider{}
	batch := NewBatchTranslator(provider, WithProcessor(&mockHTMLProcessor{}))

	results, summary := batch.TranslateAll(context.Background(), "<p>Hello</p>", "html", nil)

	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
	if summary.TotalLanguages != 0 {
		t.Errorf("Expected empty summary, got %+v", summary)
	}
}

func BenchmarkParallelCacheLookup(b *testing.B) {
	cache := newSlowCache(0)
	for i := 0; i < 100; i++ {
		cache.Set(CacheKey(string(rune(i)), "es_ES"), "translated")
	}

	nodes := make([]TextNode, 100)
	for i := 0; i < 100; i++ {
		nodes[i] = TextNode{Hash: string(rune(i)), Text: "text"}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParallelCacheLookup(cache, nodes, "es_ES")
	}
}
