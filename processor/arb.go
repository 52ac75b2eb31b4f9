package processor

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	arbtrans "github.com/SauravKhanalgit/arb-translator-sub001"
)

// ARBProcessor extracts and applies translations to ARB resource bundles
// (Application Resource Bundle, the Flutter localization format).
//
// Resource keys map to translatable string values. Keys prefixed with "@"
// carry metadata: "@@locale" and friends are file-level, "@<key>" describes
// the resource <key> (description, placeholders). Descriptions are passed
// to the AI as disambiguation context; placeholders are never translated.
type ARBProcessor struct{}

// NewARBProcessor creates a new ARB processor.
func NewARBProcessor() *ARBProcessor {
	return &ARBProcessor{}
}

// parsedARB holds the decoded document.
type parsedARB struct {
	doc map[string]json.RawMessage
}

// arbMetadata is the subset of ARB key metadata the processor reads.
type arbMetadata struct {
	Description  string                     `json:"description"`
	Placeholders map[string]json.RawMessage `json:"placeholders"`
}

// Extract parses an ARB document and extracts translatable text nodes.
func (p *ARBProcessor) Extract(content string) (interface{}, []arbtrans.TextNode, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, nil, &arbtrans.ProcessorError{
			Message:     "failed to parse ARB document",
			Cause:       err,
			ContentType: "arb",
		}
	}

	keys := resourceKeys(doc)

	var nodes []arbtrans.TextNode
	seenHashes := make(map[string]bool)

	for _, key := range keys {
		var value string
		if err := json.Unmarshal(doc[key], &value); err != nil {
			// Non-string resource values are left untouched.
			continue
		}

		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}

		hash := arbtrans.HashText(trimmed)
		if seenHashes[hash] {
			continue
		}
		seenHashes[hash] = true

		node := arbtrans.TextNode{
			ID:       key,
			Text:     trimmed,
			Hash:     hash,
			NodeType: "arb_value",
			Metadata: map[string]string{},
		}

		if meta, ok := keyMetadata(doc, key); ok {
			node.Context = meta.Description
			if len(meta.Placeholders) > 0 {
				node.Metadata["placeholders"] = placeholderList(meta.Placeholders)
			}
		}

		nodes = append(nodes, node)
	}

	return &parsedARB{doc: doc}, nodes, nil
}

// Apply applies translations back to the ARB document. Output keys are
// sorted, which puts "@@" file metadata first, then "@<key>" metadata,
// then resource keys.
func (p *ARBProcessor) Apply(parsed interface{}, nodes []arbtrans.TextNode, translations map[string]string) (string, error) {
	pa, ok := parsed.(*parsedARB)
	if !ok {
		return "", &arbtrans.ProcessorError{
			Message:     "invalid parsed content type",
			ContentType: "arb",
		}
	}

	out := make(map[string]json.RawMessage, len(pa.doc))
	for key, raw := range pa.doc {
		out[key] = raw
	}

	for _, key := range resourceKeys(pa.doc) {
		var value string
		if err := json.Unmarshal(pa.doc[key], &value); err != nil {
			continue
		}

		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}

		if translated, ok := translations[arbtrans.HashText(trimmed)]; ok {
			encoded, err := json.Marshal(preserveWhitespace(value, translated))
			if err != nil {
				return "", &arbtrans.ProcessorError{
					Message:     fmt.Sprintf("failed to encode value for key %q", key),
					Cause:       err,
					ContentType: "arb",
				}
			}
			out[key] = encoded
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", &arbtrans.ProcessorError{
			Message:     "failed to serialize ARB document",
			Cause:       err,
			ContentType: "arb",
		}
	}

	return string(data), nil
}

// ContentType returns "arb".
func (p *ARBProcessor) ContentType() string {
	return "arb"
}

// Validate checks an ARB document for common problems: unparseable JSON,
// a missing @@locale field, and empty resource values. It returns the list
// of issues (empty means valid) and the number of resource keys.
func (p *ARBProcessor) Validate(content string) ([]string, int) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return []string{"content must be a JSON object"}, 0
	}

	var issues []string
	if _, ok := doc["@@locale"]; !ok {
		issues = append(issues, "missing @@locale metadata")
	}

	keys := resourceKeys(doc)
	for _, key := range keys {
		var value string
		if err := json.Unmarshal(doc[key], &value); err != nil {
			issues = append(issues, fmt.Sprintf("non-string value for key: %s", key))
			continue
		}
		if value == "" {
			issues = append(issues, fmt.Sprintf("empty value for key: %s", key))
		}
	}

	return issues, len(keys)
}

// resourceKeys returns the non-metadata keys of the document in sorted
// order, for deterministic extraction.
func resourceKeys(doc map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		if strings.HasPrefix(key, "@") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// keyMetadata looks up the "@<key>" metadata entry for a resource key.
func keyMetadata(doc map[string]json.RawMessage, key string) (arbMetadata, bool) {
	raw, ok := doc["@"+key]
	if !ok {
		return arbMetadata{}, false
	}
	var meta arbMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return arbMetadata{}, false
	}
	return meta, true
}

// placeholderList renders placeholder names as a sorted comma-separated
// list for node metadata.
func placeholderList(placeholders map[string]json.RawMessage) string {
	names := make([]string, 0, len(placeholders))
	for name := range placeholders {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// Verify ARBProcessor implements ContentProcessor
var _ ContentProcessor = (*ARBProcessor)(nil)
