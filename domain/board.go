package domain

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Outcome reports how the board handled an intent. Nothing the board does is
// fatal; rejections leave prior state intact.
type Outcome string

const (
	// OutcomeApplied means the intent mutated board state.
	OutcomeApplied Outcome = "applied"
	// OutcomeNoop means the intent referenced something that no longer
	// exists. Silent no-op favors idempotent retries over strict errors.
	OutcomeNoop Outcome = "noop"
	// OutcomeRejectedInvalid means the intent failed validation.
	OutcomeRejectedInvalid Outcome = "rejected-invalid"
	// OutcomeRejectedFilter means a move arrived while the filter was
	// active. Visible indexes do not map onto the authoritative order then,
	// so accepting the move would corrupt the column sequence.
	OutcomeRejectedFilter Outcome = "rejected-filter-active"
)

// ColumnSeed describes one column of a fresh board.
type ColumnSeed struct {
	ID    string
	Title string
}

// Config controls the initial shape of a board.
type Config struct {
	Columns         []ColumnSeed
	IntakeColumnID  string
	Policy          MovePolicy
	DisplayIDPrefix string
}

// Default column ids.
const (
	ColumnTodo  = "todo"
	ColumnDoing = "doing"
	ColumnDone  = "done"
)

// DefaultConfig is the three-stage board new users start with.
func DefaultConfig() Config {
	return Config{
		Columns: []ColumnSeed{
			{ID: ColumnTodo, Title: "To Do"},
			{ID: ColumnDoing, Title: "In Progress"},
			{ID: ColumnDone, Title: "Done"},
		},
		IntakeColumnID:  ColumnTodo,
		Policy:          DefaultMovePolicy(ColumnTodo, ColumnDone),
		DisplayIDPrefix: "WI",
	}
}

// Board owns the authoritative ordered item collection. It is the only
// mutation surface; readers get deep-copied projections. All operations run
// to completion under one lock, so intents never interleave partially.
type Board struct {
	mu       sync.Mutex
	columns  []*Column
	owner    map[string]string // item id -> column id
	facets   FilterFacets
	views    map[string]SavedView
	policy   MovePolicy
	intakeID string
	prefix   string
	seq      int
}

// New builds an empty board from cfg. Panics on a config without columns;
// boards are constructed at startup, not per request.
func New(cfg Config) *Board {
	if len(cfg.Columns) == 0 {
		panic("domain: board needs at least one column")
	}
	b := &Board{
		owner:    make(map[string]string),
		views:    make(map[string]SavedView),
		policy:   cfg.Policy,
		intakeID: cfg.IntakeColumnID,
		prefix:   cfg.DisplayIDPrefix,
	}
	if b.policy == nil {
		b.policy = MovePolicy{}
	}
	for _, seed := range cfg.Columns {
		b.columns = append(b.columns, &Column{ID: seed.ID, Title: seed.Title})
	}
	if b.intakeID == "" {
		b.intakeID = cfg.Columns[0].ID
	}
	if b.prefix == "" {
		b.prefix = "WI"
	}
	return b
}

// CreateItem validates the draft, assigns identity and inserts the item at
// the head of the target column (the intake column when none is given).
func (b *Board) CreateItem(columnID string, draft ItemDraft) (Item, Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return Item{}, OutcomeRejectedInvalid
	}
	kind := draft.Kind
	if kind == "" {
		kind = KindTask
	}
	if !kind.Valid() {
		return Item{}, OutcomeRejectedInvalid
	}
	priority := draft.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.Valid() {
		return Item{}, OutcomeRejectedInvalid
	}
	if columnID == "" {
		columnID = b.intakeID
	}
	col := b.column(columnID)
	if col == nil {
		return Item{}, OutcomeNoop
	}

	b.seq++
	it := &Item{
		ID:          uuid.NewString(),
		DisplayID:   fmt.Sprintf("%s-%d", b.prefix, b.seq),
		Title:       title,
		Description: draft.Description,
		Kind:        kind,
		Priority:    priority,
		Tags:        append([]string(nil), draft.Tags...),
		Assignee:    draft.Assignee,
		StatusToken: StatusPending,
		ProjectID:   draft.ProjectID,
		CreatorID:   draft.CreatorID,
		Attachments: append([]Attachment(nil), draft.Attachments...),
	}
	if draft.DueDate != nil && !draft.DueDate.IsZero() {
		due := *draft.DueDate
		it.DueDate = &due
	}
	col.insert(0, it)
	b.owner[it.ID] = col.ID
	return it.Clone(), OutcomeApplied
}

// UpdateItem replaces only the patched fields. Column membership never
// changes here; moves go through MoveItem.
func (b *Board) UpdateItem(itemID string, patch ItemPatch) (Item, Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, it := b.locate(itemID)
	if it == nil {
		return Item{}, OutcomeNoop
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return Item{}, OutcomeRejectedInvalid
	}
	if patch.Kind != nil && !patch.Kind.Valid() {
		return Item{}, OutcomeRejectedInvalid
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return Item{}, OutcomeRejectedInvalid
	}
	if patch.Progress != nil && (*patch.Progress < 0 || *patch.Progress > 100) {
		return Item{}, OutcomeRejectedInvalid
	}

	if patch.Title != nil {
		it.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		it.Description = *patch.Description
	}
	if patch.Kind != nil {
		it.Kind = *patch.Kind
	}
	if patch.Priority != nil {
		it.Priority = *patch.Priority
	}
	if patch.Tags != nil {
		it.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.DueDate != nil {
		if patch.DueDate.IsZero() {
			it.DueDate = nil
		} else {
			due := *patch.DueDate
			it.DueDate = &due
		}
	}
	if patch.Assignee != nil {
		it.Assignee = *patch.Assignee
	}
	if patch.Progress != nil {
		it.Progress = *patch.Progress
	}
	if patch.Attachments != nil {
		it.Attachments = append([]Attachment(nil), (*patch.Attachments)...)
	}
	return it.Clone(), OutcomeApplied
}

// DeleteItem removes the item from whichever column holds it. Unknown ids
// are a no-op.
func (b *Board) DeleteItem(itemID string) Outcome {
	b.mu.Lock()
	defer b.mu.Unlock()

	col, _ := b.locate(itemID)
	if col == nil {
		return OutcomeNoop
	}
	col.removeAt(col.indexOf(itemID))
	delete(b.owner, itemID)
	return OutcomeApplied
}

// MoveItem relocates a single item, either reordering within a column or
// moving it atomically across columns. Destination-keyed policy effects run
// only on cross-column entry. The move is refused outright while any facet
// is active, regardless of whether the caller checked first.
func (b *Board) MoveItem(itemID, sourceColumnID string, sourceIndex int, destColumnID string, destIndex int) Outcome {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.facets.Active() {
		return OutcomeRejectedFilter
	}
	src := b.column(sourceColumnID)
	dst := b.column(destColumnID)
	if src == nil || dst == nil {
		return OutcomeNoop
	}
	// Stale drag intents reference indexes that no longer hold the item.
	if sourceIndex < 0 || sourceIndex >= len(src.Items) || src.Items[sourceIndex].ID != itemID {
		return OutcomeNoop
	}

	it := src.removeAt(sourceIndex)
	dst.insert(destIndex, it)
	if src != dst {
		b.policy.applyTo(dst.ID, it)
		b.owner[itemID] = dst.ID
	}
	return OutcomeApplied
}

// AddColumn appends a new empty column.
func (b *Board) AddColumn(title string) (Column, Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	title = strings.TrimSpace(title)
	if title == "" {
		return Column{}, OutcomeRejectedInvalid
	}
	col := &Column{ID: uuid.NewString(), Title: title}
	b.columns = append(b.columns, col)
	return Column{ID: col.ID, Title: col.Title}, OutcomeApplied
}

// SetFacets replaces the active facet snapshot.
func (b *Board) SetFacets(f FilterFacets) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.facets = f
}

// Facets returns the active facet snapshot.
func (b *Board) Facets() FilterFacets {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.facets
}

// SelectView resolves a view name for the given user and installs the
// resulting facets, replacing whatever was active.
func (b *Board) SelectView(name, currentUserID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.facets = ResolveView(name, currentUserID, b.views)
}

// SaveCurrentAsView snapshots the active facets under the given name.
// Saving again under an existing name replaces the stored view.
func (b *Board) SaveCurrentAsView(name string, scope ViewScope) (SavedView, Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return SavedView{}, OutcomeRejectedInvalid
	}
	if scope != ViewScopePublic {
		scope = ViewScopePersonal
	}
	v := SavedView{Name: name, Scope: scope, Facets: b.facets}
	b.views[name] = v
	return v, OutcomeApplied
}

// Views lists saved views sorted by name.
func (b *Board) Views() []SavedView {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]SavedView, 0, len(b.views))
	for _, v := range b.views {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (b *Board) column(id string) *Column {
	for _, c := range b.columns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// locate resolves an item id through the ownership index, then scans only
// the owning column for the concrete pointer.
func (b *Board) locate(itemID string) (*Column, *Item) {
	colID, ok := b.owner[itemID]
	if !ok {
		return nil, nil
	}
	col := b.column(colID)
	if col == nil {
		return nil, nil
	}
	if pos := col.indexOf(itemID); pos >= 0 {
		return col, col.Items[pos]
	}
	return nil, nil
}
