// Package cache provides exact-match translation caching backends.
//
// The cache is keyed by text hash and target language and stores only the
// translated string; fuzzy retrieval and quality tracking live in the
// memory package.
package cache

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key string, value string) error
}
