package memory

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// snapshotVersion identifies the snapshot schema. The loader tolerates
// unknown or missing versions and treats the document as current.
const snapshotVersion = "1.0"

// snapshot is the on-disk representation of the whole memory.
type snapshot struct {
	Version string         `json:"version"`
	Stats   map[string]int `json:"stats"`
	Entries []Entry        `json:"entries"`
}

// SaveToDisk serializes the full store (entries and stats) to the snapshot
// file and increments the autoSaves counter. Failures are logged and
// absorbed; the in-memory state stays authoritative and the next scheduled
// save retries naturally.
func (m *TranslationMemory) SaveToDisk() {
	if m.path == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snap := snapshot{
		Version: snapshotVersion,
		Stats: map[string]int{
			"cacheHits":    m.stats.CacheHits,
			"cacheMisses":  m.stats.CacheMisses,
			"fuzzyMatches": m.stats.FuzzyMatches,
			"totalEntries": m.stats.TotalEntries,
			"autoSaves":    m.stats.AutoSaves,
		},
		Entries: make([]Entry, 0, len(m.entries)),
	}
	for _, entry := range m.entries {
		snap.Entries = append(snap.Entries, entry)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		m.logger.Error("translation memory serialization failed", "error", err)
		return
	}

	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			m.logger.Error("translation memory save failed",
				"path", m.path,
				"error", err,
			)
			return
		}
	}

	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		m.logger.Error("translation memory save failed",
			"path", m.path,
			"error", err,
		)
		return
	}

	m.stats.AutoSaves++
	m.logger.Debug("translation memory saved",
		"path", m.path,
		"entries", len(snap.Entries),
	)
}

// load reads the snapshot file into the store and rebuilds both indexes.
// A missing file starts the memory empty. Any deserialization failure
// discards the whole snapshot; there is no per-entry recovery. Called once
// from New, before the memory is shared.
func (m *TranslationMemory) load() {
	if m.path == "" {
		return
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Debug("no translation memory snapshot", "path", m.path)
		} else {
			m.logger.Warn("translation memory snapshot unreadable",
				"path", m.path,
				"error", err,
			)
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		m.logger.Warn("translation memory snapshot corrupt, starting empty",
			"path", m.path,
			"error", err,
		)
		return
	}

	for _, entry := range snap.Entries {
		key := entry.Key()
		m.entries[key] = entry
		m.indexLocked(key, entry)
	}

	// Overlay persisted counters, then recompute the entry count from the
	// store itself.
	if v, ok := snap.Stats["cacheHits"]; ok {
		m.stats.CacheHits = v
	}
	if v, ok := snap.Stats["cacheMisses"]; ok {
		m.stats.CacheMisses = v
	}
	if v, ok := snap.Stats["fuzzyMatches"]; ok {
		m.stats.FuzzyMatches = v
	}
	if v, ok := snap.Stats["autoSaves"]; ok {
		m.stats.AutoSaves = v
	}
	m.stats.TotalEntries = len(m.entries)

	m.logger.Debug("translation memory loaded",
		"path", m.path,
		"entries", len(m.entries),
	)
}
