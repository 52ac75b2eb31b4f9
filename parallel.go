package arbtrans

import (
	"context"
	"sync"
)

// ParallelCacheLookup performs cache lookups in parallel using goroutines.
// Returns a map of hash to cached value, and a slice of cache misses.
func ParallelCacheLookup(cache TranslationCache, nodes []TextNode, targetLang string) (map[string]string, []TextNode) {
	if cache == nil || len(nodes) == 0 {
		return make(map[string]string), nodes
	}

	type lookupResult struct {
		hash  string
		value string
		found bool
	}

	// Deduplicate nodes by hash first
	uniqueNodes := make(map[string]TextNode)
	for _, node := range nodes {
		if _, exists := uniqueNodes[node.Hash]; !exists {
			uniqueNodes[node.Hash] = node
		}
	}

	results := make(chan lookupResult, len(uniqueNodes))
	var wg sync.WaitGroup

	for hash := range uniqueNodes {
		wg.Add(1)
		go func(h string) {
			defer wg.Done()
			key := CacheKey(h, targetLang)
			if val, ok := cache.Get(key); ok {
				results <- lookupResult{hash: h, value: val, found: true}
			} else {
				results <- lookupResult{hash: h, found: false}
			}
		}(hash)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	translations := make(map[string]string)
	missedHashes := make(map[string]bool)

	for result := range results {
		if result.found {
			translations[result.hash] = result.value
		} else {
			missedHashes[result.hash] = true
		}
	}

	// Build cache misses slice (preserving original order)
	var cacheMisses []TextNode
	seenMisses := make(map[string]bool)
	for _, node := range nodes {
		if missedHashes[node.Hash] && !seenMisses[node.Hash] {
			cacheMisses = append(cacheMisses, node)
			seenMisses[node.Hash] = true
		}
	}

	return translations, cacheMisses
}

// BatchTranslator fans one document out to multiple target languages,
// building a Translator per language over a shared provider, cache, and
// translation memory.
type BatchTranslator struct {
	provider    AIProvider
	opts        []TranslatorOption
	concurrency int
}

// NewBatchTranslator creates a batch translator. The options are applied to
// every per-language Translator it builds.
func NewBatchTranslator(provider AIProvider, opts ...TranslatorOption) *BatchTranslator {
	return &BatchTranslator{
		provider:    provider,
		opts:        opts,
		concurrency: 4,
	}
}

// WithConcurrency sets how many languages are translated at once.
func (b *BatchTranslator) WithConcurrency(n int) *BatchTranslator {
	if n > 0 {
		b.concurrency = n
	}
	return b
}

// TranslateAll translates the content into every target language and
// returns one result per language plus a summary. A failure in one
// language never aborts the others.
func (b *BatchTranslator) TranslateAll(ctx context.Context, content, contentType string, languages []string) ([]LanguageResult, BatchSummary) {
	results := make([]LanguageResult, len(languages))

	sem := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup

	for i, lang := range languages {
		wg.Add(1)
		go func(i int, lang string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			t := NewTranslator(lang, b.provider, b.opts...)
			processed, err := t.Process(ctx, content, contentType)
			if err != nil {
				results[i] = LanguageResult{Language: lang, Err: err}
				return
			}
			results[i] = LanguageResult{Language: lang, Content: processed.Content}
		}(i, lang)
	}

	wg.Wait()

	summary := BatchSummary{TotalLanguages: len(languages)}
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Successful++
		}
	}

	return results, summary
}
