package domain

// ViewScope says who can see a saved view.
type ViewScope string

const (
	ViewScopePersonal ViewScope = "personal"
	ViewScopePublic   ViewScope = "public"
)

// SavedView is a named snapshot of facet values. It does not track later
// facet changes; saving again under the same name replaces it.
type SavedView struct {
	Name   string       `json:"name"`
	Scope  ViewScope    `json:"scope"`
	Facets FilterFacets `json:"facets"`
}

// Built-in system view names.
const (
	ViewAllItems      = "all items"
	ViewAssignedToMe  = "assigned to me"
	ViewCreatedByMe   = "created by me"
	ViewParticipating = "items I participate in"
	ViewParentItems   = "parent items"
)

// ResolveView maps a view name to a concrete facet set. System views always
// return a freshly constructed set, never a merge with whatever was active.
// Saved views overlay their stored facets onto the empty baseline. Unknown
// names fall back to the empty set; the identity predicate is always safe.
func ResolveView(name, currentUserID string, saved map[string]SavedView) FilterFacets {
	switch name {
	case ViewAllItems:
		return FilterFacets{}
	case ViewAssignedToMe:
		return FilterFacets{Assignee: currentUserID}
	case ViewCreatedByMe:
		return FilterFacets{Creator: currentUserID}
	case ViewParticipating:
		// Resolves the same as "assigned to me" today; a collaborator-list
		// participation model was never defined upstream.
		return FilterFacets{Assignee: currentUserID}
	case ViewParentItems:
		return FilterFacets{Kind: KindRequirement}
	}
	if v, ok := saved[name]; ok {
		return overlay(FilterFacets{}, v.Facets)
	}
	return FilterFacets{}
}

// overlay copies non-empty fields of src over base, leaving the rest empty.
func overlay(base, src FilterFacets) FilterFacets {
	out := base
	if src.Search != "" {
		out.Search = src.Search
	}
	if src.Assignee != "" {
		out.Assignee = src.Assignee
	}
	if src.Kind != "" {
		out.Kind = src.Kind
	}
	if src.Priority != "" {
		out.Priority = src.Priority
	}
	if src.DueStart != nil {
		due := *src.DueStart
		out.DueStart = &due
	}
	if src.DueEnd != nil {
		due := *src.DueEnd
		out.DueEnd = &due
	}
	if src.ProjectID != "" {
		out.ProjectID = src.ProjectID
	}
	if src.Status != "" {
		out.Status = src.Status
	}
	if src.Creator != "" {
		out.Creator = src.Creator
	}
	return out
}
