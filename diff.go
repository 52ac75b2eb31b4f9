package arbtrans

// DiffResult describes how the translatable content of a document changed
// between two revisions. Nodes are matched by resource ID (the ARB key, or
// the document position for HTML), so an edited value shows up as one
// Modified pair instead of an unrelated remove/add.
type DiffResult struct {
	// Added holds resources that exist only in the new revision.
	Added []TextNode

	// Removed holds resources that exist only in the old revision.
	Removed []TextNode

	// Unchanged holds resources whose source text is identical in both
	// revisions (the new revision's node).
	Unchanged []TextNode

	// Modified pairs resources whose key survived but whose source text
	// changed.
	Modified []ModifiedNode

	// Renamed pairs resources whose source text survived under a new key.
	// Their translations stay valid; only the key moved.
	Renamed []ModifiedNode
}

// ModifiedNode pairs the old and new revisions of one resource.
type ModifiedNode struct {
	Old TextNode
	New TextNode
}

// DiffStats summarizes a diff by category.
type DiffStats struct {
	Added     int
	Removed   int
	Unchanged int
	Modified  int
	Renamed   int
}

// Stats returns per-category counts for the diff.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
		Renamed:   len(d.Renamed),
	}
}

// HasChanges reports whether the two revisions differ at all. A pure key
// rename counts as a change to the document even though nothing needs
// retranslation.
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0 || len(d.Renamed) > 0
}

// NeedsTranslation returns the nodes an incremental run must send to the
// provider: added resources plus the new side of every modified pair.
// Renamed resources are excluded; their text did not change.
func (d *DiffResult) NeedsTranslation() []TextNode {
	nodes := make([]TextNode, 0, len(d.Added)+len(d.Modified))
	nodes = append(nodes, d.Added...)
	for _, m := range d.Modified {
		nodes = append(nodes, m.New)
	}
	return nodes
}

// DiffNodes compares two extractions of the same document. Matching runs in
// two passes: first by resource ID, then leftover new resources are matched
// to leftover old ones by text hash, which catches key renames. Output
// order follows the extraction order of the inputs.
func DiffNodes(oldNodes, newNodes []TextNode) *DiffResult {
	oldByID := make(map[string]TextNode, len(oldNodes))
	oldIDByHash := make(map[string]string, len(oldNodes))
	for _, n := range oldNodes {
		oldByID[n.ID] = n
		oldIDByHash[n.Hash] = n.ID
	}

	d := &DiffResult{}
	consumed := make(map[string]bool, len(newNodes))

	for _, n := range newNodes {
		if old, ok := oldByID[n.ID]; ok {
			consumed[n.ID] = true
			if old.Hash == n.Hash {
				d.Unchanged = append(d.Unchanged, n)
			} else {
				d.Modified = append(d.Modified, ModifiedNode{Old: old, New: n})
			}
			continue
		}

		if oldID, ok := oldIDByHash[n.Hash]; ok && !consumed[oldID] {
			consumed[oldID] = true
			d.Renamed = append(d.Renamed, ModifiedNode{Old: oldByID[oldID], New: n})
			continue
		}

		d.Added = append(d.Added, n)
	}

	for _, n := range oldNodes {
		if !consumed[n.ID] {
			d.Removed = append(d.Removed, n)
		}
	}

	return d
}

// SeedUnchanged copies translations for unchanged and renamed resources
// from a previously translated revision into the cache, so an incremental
// run resolves them without calling the provider. prior is the extraction
// of the earlier translated output; its nodes carry translated text under
// the resource IDs of the old revision. Returns the number of cache
// entries written.
func (d *DiffResult) SeedUnchanged(c TranslationCache, prior []TextNode, targetLang string) int {
	if c == nil || len(prior) == 0 {
		return 0
	}

	translated := make(map[string]string, len(prior))
	for _, n := range prior {
		translated[n.ID] = n.Text
	}

	seeded := 0
	seed := func(priorID string, sourceHash string) {
		tv, ok := translated[priorID]
		if !ok || tv == "" {
			return
		}
		if err := c.Set(CacheKey(sourceHash, targetLang), tv); err != nil {
			return
		}
		seeded++
	}

	for _, n := range d.Unchanged {
		seed(n.ID, n.Hash)
	}
	// A renamed resource keeps its source hash, so the prior translation
	// stays valid under the old ID.
	for _, r := range d.Renamed {
		seed(r.Old.ID, r.New.Hash)
	}

	return seeded
}
