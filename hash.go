package arbtrans

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText returns the hex SHA-256 digest of the trimmed text. Trimming
// first means an ARB value and the same string re-extracted with stray
// surrounding whitespace share one cache entry.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}

// CacheKey builds the cache key for a source text hash and target
// language, e.g. "185f8d…:es_ES".
func CacheKey(hash, targetLang string) string {
	return hash + ":" + targetLang
}

// CacheKeyExtended builds a cache key that also pins the source language
// and model, for setups where translations from different models must not
// collide.
func CacheKeyExtended(hash, sourceLang, targetLang, model string) string {
	return strings.Join([]string{hash, sourceLang, targetLang, model}, ":")
}
