package domain

// ProjectedColumn pairs column metadata with the filtered, ordered items the
// active facets let through. Total carries the authoritative item count so
// presentations can show "3 of 17" while a filter is on.
type ProjectedColumn struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Total int    `json:"total"`
	Items []Item `json:"items"`
}

// KindGroup is one bucket of the grouped-by-kind projection.
type KindGroup struct {
	Kind  Kind   `json:"kind"`
	Items []Item `json:"items"`
}

// Project derives the filtered read view. Relative item order is preserved
// per column; a column whose title fails an active status facet is dropped
// from the projection entirely. No caching happens across calls: boards are
// small and recomputing beats chasing invalidation bugs.
func (b *Board) Project() []ProjectedColumn {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.projectLocked()
}

func (b *Board) projectLocked() []ProjectedColumn {
	out := make([]ProjectedColumn, 0, len(b.columns))
	for _, col := range b.columns {
		if b.facets.Status != "" && col.Title != b.facets.Status {
			continue
		}
		pc := ProjectedColumn{
			ID:    col.ID,
			Title: col.Title,
			Total: col.Count,
			Items: make([]Item, 0, len(col.Items)),
		}
		for _, it := range col.Items {
			if b.facets.Matches(*it, col.Title) {
				pc.Items = append(pc.Items, it.Clone())
			}
		}
		out = append(out, pc)
	}
	return out
}

// Flatten concatenates the projected columns in column order, for list-style
// presentations.
func (b *Board) Flatten() []Item {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Item
	for _, pc := range b.projectLocked() {
		out = append(out, pc.Items...)
	}
	return out
}

// GroupByKind buckets the flattened projection by item kind. Bucket order is
// fixed (requirements, tasks, defects); empty buckets are omitted.
func (b *Board) GroupByKind() []KindGroup {
	flat := b.Flatten()

	byKind := make(map[Kind][]Item, 3)
	for _, it := range flat {
		byKind[it.Kind] = append(byKind[it.Kind], it)
	}
	var out []KindGroup
	for _, k := range []Kind{KindRequirement, KindTask, KindDefect} {
		if items, ok := byKind[k]; ok {
			out = append(out, KindGroup{Kind: k, Items: items})
		}
	}
	return out
}
