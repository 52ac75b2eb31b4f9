// Package memory provides a persistent translation memory with fuzzy matching.
//
// The translation memory stores previously produced translations keyed by
// source text, language pair, and context. Lookups are either exact (direct
// key lookup) or fuzzy (similarity-scored scan), so a translator can reuse
// prior work before calling an AI provider. The memory is bounded by a
// quality-based eviction policy and persists itself to a JSON snapshot file,
// both on demand and on a background auto-save cycle.
package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// MatchType classifies how a fuzzy match was found.
type MatchType string

const (
	// MatchExact means the source texts are identical.
	MatchExact MatchType = "exact"
	// MatchContextual means the contexts overlap strongly.
	MatchContextual MatchType = "contextual"
	// MatchTerm means the extracted term sets overlap strongly.
	MatchTerm MatchType = "term"
	// MatchFuzzy is the default classification for approximate matches.
	MatchFuzzy MatchType = "fuzzy"
)

// Entry is one stored translation unit.
type Entry struct {
	SourceText     string            `json:"sourceText"`
	TranslatedText string            `json:"translatedText"`
	SourceLang     string            `json:"sourceLang"`
	TargetLang     string            `json:"targetLang"`
	Provider       string            `json:"provider"`
	QualityScore   float64           `json:"qualityScore"`
	Timestamp      time.Time         `json:"timestamp"`
	Context        map[string]string `json:"context,omitempty"`
	ProjectID      string            `json:"projectId,omitempty"`
	UserID         string            `json:"userId,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
}

// hashText computes the SHA-256 hex digest of the trimmed text. The digest
// must stay stable across runs: composite keys derived from it are written
// to disk and reused after reload.
func hashText(text string) string {
	trimmed := strings.TrimSpace(text)
	sum := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(sum[:])
}

// SourceHash returns the deterministic digest of the entry's source text.
func (e Entry) SourceHash() string {
	return hashText(e.SourceText)
}

// Key returns the composite key identifying this translation unit.
// Two entries with the same key are the same unit; the store holds at
// most one entry per key.
func (e Entry) Key() string {
	return entryKey(e.SourceHash(), e.SourceLang, e.TargetLang, e.Context)
}

// entryKey builds a composite key from a source hash, language pair, and
// context. The context is canonicalized (keys sorted) so that logically
// identical contexts always produce the same key.
func entryKey(hash, sourceLang, targetLang string, context map[string]string) string {
	return hash + ":" + sourceLang + ":" + targetLang + ":" + canonicalContext(context)
}

// canonicalContext serializes a context map in key-sorted order.
func canonicalContext(context map[string]string) string {
	if len(context) == 0 {
		return ""
	}
	keys := make([]string, 0, len(context))
	for k := range context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + context[k]
	}
	return strings.Join(parts, "&")
}

// Match is a fuzzy lookup result: a stored entry with its similarity score.
type Match struct {
	Entry Entry
	Score float64
	Type  MatchType
}

// IsHighConfidence reports whether the match score is at least 0.9.
func (m Match) IsHighConfidence() bool {
	return m.Score >= 0.9
}

// IsAcceptable reports whether the match score is at least 0.7.
func (m Match) IsAcceptable() bool {
	return m.Score >= 0.7
}

// Config holds configuration for the translation memory.
type Config struct {
	Path             string           // Snapshot file path
	Capacity         int              // Maximum entries before eviction (default: 10000)
	AutoSaveInterval time.Duration    // Delay between auto-saves (0 disables the loop)
	Logger           *slog.Logger     // Logger (default: slog.Default())
	Clock            func() time.Time // Clock (default: time.Now), injectable for tests
}

// evictionFraction is the share of configured capacity removed per
// eviction pass.
const evictionFraction = 0.1

// TranslationMemory is a bounded, persistent store of learned translations
// with exact and fuzzy retrieval. All operations are safe for concurrent use.
type TranslationMemory struct {
	mu         sync.Mutex
	entries    map[string]Entry
	fuzzyIndex map[string][]string // source hash -> composite keys
	termIndex  map[string][]string // extracted term -> composite keys
	stats      counters

	path     string
	capacity int
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	stop     chan struct{}
	loopDone chan struct{}
	disposed sync.Once
}

// counters holds the memory's statistics. They are mutated only inside the
// critical section of the operation they count.
type counters struct {
	CacheHits    int
	CacheMisses  int
	FuzzyMatches int
	TotalEntries int
	AutoSaves    int
}

// New creates a translation memory, loads any existing snapshot from
// cfg.Path, and starts the auto-save loop if an interval is configured.
// Call Dispose to stop the loop and flush a final snapshot.
func New(cfg Config) *TranslationMemory {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 10000
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	m := &TranslationMemory{
		entries:    make(map[string]Entry),
		fuzzyIndex: make(map[string][]string),
		termIndex:  make(map[string][]string),
		path:       cfg.Path,
		capacity:   capacity,
		interval:   cfg.AutoSaveInterval,
		logger:     logger,
		now:        now,
	}

	m.load()

	if m.interval > 0 {
		m.stop = make(chan struct{})
		m.loopDone = make(chan struct{})
		go m.autoSaveLoop()
	}

	return m
}

// AddEntry inserts an entry, subject to the quality gate: an entry already
// stored under the same composite key is replaced only by a strictly
// higher quality score. Inserting past capacity triggers eviction.
func (m *TranslationMemory) AddEntry(entry Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addLocked(entry)
}

func (m *TranslationMemory) addLocked(entry Entry) {
	key := entry.Key()

	if existing, ok := m.entries[key]; ok {
		if entry.QualityScore <= existing.QualityScore {
			// Highest-quality-write wins; the new entry is discarded.
			return
		}
		m.entries[key] = entry
	} else {
		m.entries[key] = entry
		if len(m.entries) > m.capacity {
			m.evictLocked()
		}
	}

	m.indexLocked(key, entry)
	m.stats.TotalEntries = len(m.entries)
}

// indexLocked appends the key under the entry's source hash and extracted
// terms. The index lists are non-authoritative acceleration structures;
// repeats and stale keys are acceptable.
func (m *TranslationMemory) indexLocked(key string, entry Entry) {
	hash := entry.SourceHash()
	m.fuzzyIndex[hash] = append(m.fuzzyIndex[hash], key)

	for _, term := range ExtractTerms(entry.SourceText) {
		m.termIndex[term] = append(m.termIndex[term], key)
	}
}

// evictLocked removes the lowest-quality round(capacity*0.1) entries.
// The removal count is a fixed fraction of configured capacity, not of the
// current overage, so a single pass may leave the store above capacity
// under sustained insertion pressure.
func (m *TranslationMemory) evictLocked() {
	count := int(math.Round(float64(m.capacity) * evictionFraction))
	if count <= 0 {
		return
	}
	if count > len(m.entries) {
		count = len(m.entries)
	}

	type keyed struct {
		key     string
		quality float64
	}
	ranked := make([]keyed, 0, len(m.entries))
	for key, entry := range m.entries {
		ranked = append(ranked, keyed{key: key, quality: entry.QualityScore})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].quality < ranked[j].quality
	})

	for _, victim := range ranked[:count] {
		delete(m.entries, victim.key)
	}

	m.logger.Debug("translation memory evicted entries",
		"evicted", count,
		"remaining", len(m.entries),
	)
}

// LearnTranslation records a translation with the current timestamp.
func (m *TranslationMemory) LearnTranslation(sourceText, translatedText, sourceLang, targetLang, provider string, qualityScore float64, context map[string]string) {
	m.AddEntry(Entry{
		SourceText:     sourceText,
		TranslatedText: translatedText,
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		Provider:       provider,
		QualityScore:   qualityScore,
		Timestamp:      m.now(),
		Context:        context,
	})
}

// FindExactMatch looks up an entry by composite key. It increments the hit
// or miss counter as a side effect and never mutates the stored entry.
func (m *TranslationMemory) FindExactMatch(text, sourceLang, targetLang string, context map[string]string) (Entry, bool) {
	key := entryKey(hashText(text), sourceLang, targetLang, context)

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if ok {
		m.stats.CacheHits++
	} else {
		m.stats.CacheMisses++
	}
	return entry, ok
}

// FindFuzzyMatches scans all entries for the given language pair, scores
// each against the query, and returns at most maxResults matches with
// score >= minSimilarity, sorted by descending similarity.
func (m *TranslationMemory) FindFuzzyMatches(text, sourceLang, targetLang string, context map[string]string, maxResults int, minSimilarity float64) []Match {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []Match
	for _, entry := range m.entries {
		if entry.SourceLang != sourceLang || entry.TargetLang != targetLang {
			continue
		}
		score := CombinedSimilarity(text, context, entry.SourceText, entry.Context)
		if score < minSimilarity {
			continue
		}
		matches = append(matches, Match{
			Entry: entry,
			Score: score,
			Type:  classifyMatch(text, context, entry),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if maxResults >= 0 && len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	if len(matches) > 0 {
		m.stats.FuzzyMatches++
	}
	return matches
}

// SuggestTranslation returns the best stored translation for the query:
// an exact match if one exists, otherwise the top fuzzy match with
// similarity >= 0.8, provided it is acceptable.
func (m *TranslationMemory) SuggestTranslation(text, sourceLang, targetLang string, context map[string]string) (string, bool) {
	if entry, ok := m.FindExactMatch(text, sourceLang, targetLang, context); ok {
		return entry.TranslatedText, true
	}

	matches := m.FindFuzzyMatches(text, sourceLang, targetLang, context, 3, 0.8)
	if len(matches) > 0 && matches[0].IsAcceptable() {
		return matches[0].Entry.TranslatedText, true
	}
	return "", false
}

// Stats returns a snapshot copy of the memory's counters.
func (m *TranslationMemory) Stats() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return map[string]int{
		"cacheHits":    m.stats.CacheHits,
		"cacheMisses":  m.stats.CacheMisses,
		"fuzzyMatches": m.stats.FuzzyMatches,
		"totalEntries": m.stats.TotalEntries,
		"autoSaves":    m.stats.AutoSaves,
	}
}

// Len returns the number of stored entries.
func (m *TranslationMemory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Clear empties the store and both indexes and resets the hit, miss, fuzzy,
// and entry counters. The autoSaves counter is preserved.
func (m *TranslationMemory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]Entry)
	m.fuzzyIndex = make(map[string][]string)
	m.termIndex = make(map[string][]string)
	m.stats.CacheHits = 0
	m.stats.CacheMisses = 0
	m.stats.FuzzyMatches = 0
	m.stats.TotalEntries = 0
}

// autoSaveLoop is the self-rescheduling save chain: each cycle waits the
// configured interval, saves, then waits again. The next delay starts only
// after the previous save completes, so drift accumulates by the duration
// of each save. The stop signal is checked at every reschedule point.
func (m *TranslationMemory) autoSaveLoop() {
	defer close(m.loopDone)

	for {
		select {
		case <-m.stop:
			return
		case <-time.After(m.interval):
			m.SaveToDisk()
		}
	}
}

// Dispose stops the auto-save loop and performs one final synchronous save.
// It is safe to call more than once.
func (m *TranslationMemory) Dispose() {
	m.disposed.Do(func() {
		if m.stop != nil {
			close(m.stop)
			<-m.loopDone
		}
		m.SaveToDisk()
	})
}
