package domain

import "strings"

// FilterFacets is a snapshot of up to eight optional filter dimensions. An
// empty field places no constraint on that dimension, so the zero value
// matches every item.
type FilterFacets struct {
	Search    string   `json:"search,omitempty"`
	Assignee  string   `json:"assignee,omitempty"`
	Kind      Kind     `json:"kind,omitempty"`
	Priority  Priority `json:"priority,omitempty"`
	DueStart  *Date    `json:"dueStart,omitempty"`
	DueEnd    *Date    `json:"dueEnd,omitempty"`
	ProjectID string   `json:"projectId,omitempty"`
	Status    string   `json:"status,omitempty"`
	Creator   string   `json:"creator,omitempty"`
}

// Active reports whether any facet carries a value. Moves are refused while
// the filter is active because visible indexes no longer line up with the
// authoritative column order.
func (f FilterFacets) Active() bool {
	return f.Search != "" ||
		f.Assignee != "" ||
		f.Kind != "" ||
		f.Priority != "" ||
		f.DueStart != nil ||
		f.DueEnd != nil ||
		f.ProjectID != "" ||
		f.Status != "" ||
		f.Creator != ""
}

// Matches evaluates every facet against the item with AND semantics,
// short-circuiting on the first failing facet. The status facet compares
// against columnTitle since the item itself does not know its column.
func (f FilterFacets) Matches(it Item, columnTitle string) bool {
	if f.Search != "" && !matchesSearch(f.Search, it) {
		return false
	}
	if f.Assignee != "" && it.Assignee != f.Assignee {
		return false
	}
	if f.Kind != "" && it.Kind != f.Kind {
		return false
	}
	if f.Priority != "" && it.Priority != f.Priority {
		return false
	}
	if f.ProjectID != "" && it.ProjectID != f.ProjectID {
		return false
	}
	if f.Creator != "" && it.CreatorID != f.Creator {
		return false
	}
	if f.Status != "" && columnTitle != f.Status {
		return false
	}
	if f.DueStart != nil || f.DueEnd != nil {
		if it.DueDate == nil {
			return false
		}
		if f.DueStart != nil && it.DueDate.Before(f.DueStart.Time) {
			return false
		}
		if f.DueEnd != nil && it.DueDate.After(f.DueEnd.Time) {
			return false
		}
	}
	return true
}

func matchesSearch(needle string, it Item) bool {
	needle = strings.ToLower(needle)
	if strings.Contains(strings.ToLower(it.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(it.DisplayID), needle) {
		return true
	}
	return it.Description != "" && strings.Contains(strings.ToLower(it.Description), needle)
}
