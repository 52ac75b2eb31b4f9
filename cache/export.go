package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

// exportVersion marks the snapshot layout for forward compatibility.
const exportVersion = "1.0"

// ExportFormat is the JSON layout of a cache snapshot, suitable for
// committing next to a project's ARB files and re-importing in CI.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []ExportEntry     `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportEntry is one cached translation.
type ExportEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// enumerable is the capability a cache must expose to be exportable.
// InMemoryCache implements it; the Redis cache does not, since walking a
// shared keyspace is not this tool's job.
type enumerable interface {
	Entries() map[string]string
}

// Exporter writes cache snapshots.
type Exporter struct {
	cache TranslationCache
}

// NewExporter creates a cache exporter.
func NewExporter(cache TranslationCache) *Exporter {
	return &Exporter{cache: cache}
}

// Export writes the cache contents as JSON. Entries are sorted by key so
// consecutive exports of the same cache diff cleanly in version control.
func (e *Exporter) Export(w io.Writer, metadata map[string]string) error {
	src, ok := e.cache.(enumerable)
	if !ok {
		return fmt.Errorf("cache type %T does not support export", e.cache)
	}

	data := src.Entries()
	entries := make([]ExportEntry, 0, len(data))
	for key, value := range data {
		entries = append(entries, ExportEntry{Key: key, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	snapshot := ExportFormat{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   metadata,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// ExportToFile writes a snapshot to the given path.
// The path is provided by the caller and is intentionally user-controlled.
func (e *Exporter) ExportToFile(path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	defer f.Close()

	return e.Export(f, metadata)
}

// Importer loads cache snapshots.
type Importer struct {
	cache TranslationCache
}

// NewImporter creates a cache importer.
func NewImporter(cache TranslationCache) *Importer {
	return &Importer{cache: cache}
}

// Import reads a snapshot and loads its entries into the cache. Entries
// that fail to store are counted, not fatal.
func (i *Importer) Import(r io.Reader) (*ImportResult, error) {
	var snapshot ExportFormat
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	result := &ImportResult{
		Version:  snapshot.Version,
		Metadata: snapshot.Metadata,
	}
	for _, entry := range snapshot.Entries {
		if err := i.cache.Set(entry.Key, entry.Value); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ImportFromFile loads a snapshot from the given path.
// The path is provided by the caller and is intentionally user-controlled.
func (i *Importer) ImportFromFile(path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()

	return i.Import(f)
}

// ImportResult reports what an import did.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int
}
