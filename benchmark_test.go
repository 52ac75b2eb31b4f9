package arbtrans_test

import (
	"context"
	"fmt"
	"testing"

	arbtrans "github.com/SauravKhanalgit/arb-translator-sub001"
	"github.com/SauravKhanalgit/arb-translator-sub001/cache"
	"github.com/SauravKhanalgit/arb-translator-sub001/memory"
	"github.com/SauravKhanalgit/arb-translator-sub001/processor"
	"github.com/SauravKhanalgit/arb-translator-sub001/provider"
)

// Benchmarks for performance validation

func BenchmarkHashText(b *testing.B) {
	text := "Hello World, this is a sample text for hashing"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		arbtrans.HashText(text)
	}
}

func BenchmarkCacheKey(b *testing.B) {
	hash := "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e"
	lang := "es_ES"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		arbtrans.CacheKey(hash, lang)
	}
}

func BenchmarkInMemoryCache_Get(b *testing.B) {
	c := cache.NewInMemoryCache(3600)
	c.Set("test-key", "test-value")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("test-key")
	}
}

func BenchmarkInMemoryCache_Set(b *testing.B) {
	c := cache.NewInMemoryCache(3600)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set("test-key", "test-value")
	}
}

func BenchmarkARBProcessor_Extract(b *testing.B) {
	proc := processor.NewARBProcessor()
	arb := `{
  "@@locale": "en",
  "appTitle": "Task Tracker",
  "@appTitle": {"description": "Shown in the app bar"},
  "addTask": "Add task",
  "deleteTask": "Delete task",
  "taskCount": "{count} tasks remaining",
  "@taskCount": {"placeholders": {"count": {"type": "int"}}}
}`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		proc.Extract(arb)
	}
}

func BenchmarkHTMLProcessor_Extract(b *testing.B) {
	proc := processor.NewHTMLProcessor()
	html := `<div><h1>Welcome</h1><p>This is a paragraph with some text.</p></div>`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		proc.Extract(html)
	}
}

func BenchmarkMemory_FindExactMatch(b *testing.B) {
	mem := memory.New(memory.Config{})
	defer mem.Dispose()
	for i := 0; i < 1000; i++ {
		mem.LearnTranslation(fmt.Sprintf("Source text %d", i), fmt.Sprintf("Texto %d", i), "en", "es", "mock", 0.9, nil)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mem.FindExactMatch("Source text 500", "en", "es", nil)
	}
}

func BenchmarkMemory_FindFuzzyMatches(b *testing.B) {
	mem := memory.New(memory.Config{})
	defer mem.Dispose()
	for i := 0; i < 1000; i++ {
		mem.LearnTranslation(fmt.Sprintf("Save the document number %d", i), fmt.Sprintf("Guardar %d", i), "en", "es", "mock", 0.9, nil)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mem.FindFuzzyMatches("Save the document", "en", "es", nil, 3, 0.5)
	}
}

func BenchmarkTranslator_Process_Cached(b *testing.B) {
	p := provider.NewMockProvider()
	c := cache.NewInMemoryCache(3600)
	proc := processor.NewARBProcessor()

	translator := arbtrans.NewTranslator("es", p,
		arbtrans.WithCache(c),
		arbtrans.WithProcessor(proc),
	)

	arb := `{"@@locale": "en", "greeting": "Hello", "farewell": "Goodbye"}`

	// Prime the cache
	translator.ProcessARB(context.Background(), arb)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		translator.ProcessARB(context.Background(), arb)
	}
}

func BenchmarkTranslator_Process_Uncached(b *testing.B) {
	proc := processor.NewARBProcessor()
	arb := `{"@@locale": "en", "greeting": "Hello", "farewell": "Goodbye"}`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Create fresh translator each time to avoid cache
		p := provider.NewMockProvider()
		translator := arbtrans.NewTranslator("es", p,
			arbtrans.WithProcessor(proc),
		)
		translator.ProcessARB(context.Background(), arb)
	}
}

func BenchmarkGetDirection(b *testing.B) {
	langs := []string{"en_US", "es_ES", "ar_SA", "ja_JP", "he_IL"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		arbtrans.GetDirection(langs[i%len(langs)])
	}
}

func BenchmarkGetLanguageName(b *testing.B) {
	langs := []string{"en_US", "es_ES", "ar_SA", "ja_JP", "zh_CN"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		arbtrans.GetLanguageName(langs[i%len(langs)])
	}
}
