package domain

import (
	"testing"
)

func newTestBoard(t *testing.T) *Board {
	t.Helper()
	return New(DefaultConfig())
}

// checkInvariants asserts the two structural board invariants: every column
// count mirrors its item list, and every item lives in exactly one column.
func checkInvariants(t *testing.T, b *Board) {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	seen := make(map[string]string)
	for _, col := range b.columns {
		if col.Count != len(col.Items) {
			t.Fatalf("column %s: count %d != len(items) %d", col.ID, col.Count, len(col.Items))
		}
		for _, it := range col.Items {
			if prev, ok := seen[it.ID]; ok {
				t.Fatalf("item %s owned by both %s and %s", it.ID, prev, col.ID)
			}
			seen[it.ID] = col.ID
			if b.owner[it.ID] != col.ID {
				t.Fatalf("index says item %s lives in %q, found in %q", it.ID, b.owner[it.ID], col.ID)
			}
		}
	}
	if len(seen) != len(b.owner) {
		t.Fatalf("index tracks %d items, columns hold %d", len(b.owner), len(seen))
	}
}

func totalItems(b *Board) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, col := range b.columns {
		n += len(col.Items)
	}
	return n
}

func mustCreate(t *testing.T, b *Board, draft ItemDraft) Item {
	t.Helper()
	it, out := b.CreateItem("", draft)
	if out != OutcomeApplied {
		t.Fatalf("create %q: outcome %s", draft.Title, out)
	}
	checkInvariants(t, b)
	return it
}

func TestCreateItemRejectsEmptyTitle(t *testing.T) {
	b := newTestBoard(t)
	for _, title := range []string{"", "   ", "\t"} {
		if _, out := b.CreateItem("", ItemDraft{Title: title}); out != OutcomeRejectedInvalid {
			t.Fatalf("title %q: got %s, want %s", title, out, OutcomeRejectedInvalid)
		}
	}
	if n := totalItems(b); n != 0 {
		t.Fatalf("rejected creates must not add items, board has %d", n)
	}
}

func TestCreateItemDefaultsAndIdentity(t *testing.T) {
	b := newTestBoard(t)
	first := mustCreate(t, b, ItemDraft{Title: "first"})
	second := mustCreate(t, b, ItemDraft{Title: "second"})

	if first.ID == second.ID {
		t.Fatal("ids must be unique")
	}
	if first.DisplayID != "WI-1" || second.DisplayID != "WI-2" {
		t.Fatalf("unexpected display ids %q, %q", first.DisplayID, second.DisplayID)
	}
	if first.Kind != KindTask || first.Priority != PriorityNormal {
		t.Fatalf("expected task/normal defaults, got %s/%s", first.Kind, first.Priority)
	}
	if first.StatusToken != StatusPending || first.Progress != 0 {
		t.Fatalf("new items start pending at 0%%, got %s/%d", first.StatusToken, first.Progress)
	}

	// Creation inserts at the head of the intake column.
	cols := b.Project()
	if cols[0].ID != ColumnTodo || len(cols[0].Items) != 2 {
		t.Fatalf("expected both items in intake, got %+v", cols[0])
	}
	if cols[0].Items[0].ID != second.ID {
		t.Fatal("latest item should sit at the head of intake")
	}
}

func TestCreateItemRejectsUnknownEnums(t *testing.T) {
	b := newTestBoard(t)
	if _, out := b.CreateItem("", ItemDraft{Title: "x", Kind: "epic"}); out != OutcomeRejectedInvalid {
		t.Fatalf("unknown kind: got %s", out)
	}
	if _, out := b.CreateItem("", ItemDraft{Title: "x", Priority: "blocker"}); out != OutcomeRejectedInvalid {
		t.Fatalf("unknown priority: got %s", out)
	}
}

func TestUpdateItemPatchesOnlyGivenFields(t *testing.T) {
	b := newTestBoard(t)
	created := mustCreate(t, b, ItemDraft{Title: "original", Description: "desc", Assignee: "u1"})

	newTitle := "renamed"
	progress := 40
	got, out := b.UpdateItem(created.ID, ItemPatch{Title: &newTitle, Progress: &progress})
	if out != OutcomeApplied {
		t.Fatalf("update: outcome %s", out)
	}
	if got.Title != "renamed" || got.Progress != 40 {
		t.Fatalf("patched fields not applied: %+v", got)
	}
	if got.Description != "desc" || got.Assignee != "u1" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	checkInvariants(t, b)
}

func TestUpdateItemValidation(t *testing.T) {
	b := newTestBoard(t)
	created := mustCreate(t, b, ItemDraft{Title: "keep"})

	empty := ""
	if _, out := b.UpdateItem(created.ID, ItemPatch{Title: &empty}); out != OutcomeRejectedInvalid {
		t.Fatalf("empty title patch: got %s", out)
	}
	over := 101
	if _, out := b.UpdateItem(created.ID, ItemPatch{Progress: &over}); out != OutcomeRejectedInvalid {
		t.Fatalf("progress out of range: got %s", out)
	}
	got, _ := b.UpdateItem(created.ID, ItemPatch{})
	if got.Title != "keep" || got.Progress != 0 {
		t.Fatalf("rejected patches must leave the item intact: %+v", got)
	}
}

func TestUpdateItemClearsDueDateAndAssignee(t *testing.T) {
	b := newTestBoard(t)
	d := NewDate(2024, 6, 1)
	created := mustCreate(t, b, ItemDraft{Title: "x", DueDate: &d, Assignee: "u1"})
	if created.DueDate == nil {
		t.Fatal("due date not stored")
	}

	var zero Date
	nobody := ""
	got, out := b.UpdateItem(created.ID, ItemPatch{DueDate: &zero, Assignee: &nobody})
	if out != OutcomeApplied {
		t.Fatalf("update: outcome %s", out)
	}
	if got.DueDate != nil {
		t.Fatal("zero date patch should clear the due date")
	}
	if got.Assignee != "" {
		t.Fatal("empty assignee patch should unassign")
	}
}

func TestUpdateUnknownItemIsNoop(t *testing.T) {
	b := newTestBoard(t)
	title := "x"
	if _, out := b.UpdateItem("ghost", ItemPatch{Title: &title}); out != OutcomeNoop {
		t.Fatalf("got %s, want %s", out, OutcomeNoop)
	}
}

func TestDeleteItem(t *testing.T) {
	b := newTestBoard(t)
	created := mustCreate(t, b, ItemDraft{Title: "doomed"})

	if out := b.DeleteItem(created.ID); out != OutcomeApplied {
		t.Fatalf("delete: outcome %s", out)
	}
	checkInvariants(t, b)
	if n := totalItems(b); n != 0 {
		t.Fatalf("expected empty board, have %d items", n)
	}
	// Deleting again is a silent no-op.
	if out := b.DeleteItem(created.ID); out != OutcomeNoop {
		t.Fatalf("second delete: got %s, want %s", out, OutcomeNoop)
	}
}

func TestMoveItemCrossColumnAppliesDonePolicy(t *testing.T) {
	b := newTestBoard(t)
	t2 := mustCreate(t, b, ItemDraft{Title: "t2"})
	t1 := mustCreate(t, b, ItemDraft{Title: "t1"}) // head of todo
	_ = t2

	if out := b.MoveItem(t1.ID, ColumnTodo, 0, ColumnDone, 0); out != OutcomeApplied {
		t.Fatalf("move: outcome %s", out)
	}
	checkInvariants(t, b)

	cols := b.Project()
	todo, done := cols[0], cols[2]
	if todo.Total != 1 || done.Total != 1 {
		t.Fatalf("expected counts 1/1, got %d/%d", todo.Total, done.Total)
	}
	moved := done.Items[0]
	if moved.ID != t1.ID {
		t.Fatalf("wrong item moved: %s", moved.DisplayID)
	}
	if moved.Progress != 100 || moved.StatusToken != StatusCompleted {
		t.Fatalf("done policy not applied: progress=%d token=%s", moved.Progress, moved.StatusToken)
	}
}

func TestMoveItemBackToIntakeResetsToken(t *testing.T) {
	b := newTestBoard(t)
	it := mustCreate(t, b, ItemDraft{Title: "x"})

	if out := b.MoveItem(it.ID, ColumnTodo, 0, ColumnDone, 0); out != OutcomeApplied {
		t.Fatalf("move to done: %s", out)
	}
	if out := b.MoveItem(it.ID, ColumnDone, 0, ColumnTodo, 0); out != OutcomeApplied {
		t.Fatalf("move back: %s", out)
	}
	got := b.Project()[0].Items[0]
	if got.StatusToken != StatusPending {
		t.Fatalf("intake policy should reset the token, got %s", got.StatusToken)
	}
	// Progress has no intake rule and keeps the done value.
	if got.Progress != 100 {
		t.Fatalf("intake has no progress rule, got %d", got.Progress)
	}
}

func TestMoveItemIntermediateColumnHasNoEffect(t *testing.T) {
	b := newTestBoard(t)
	it := mustCreate(t, b, ItemDraft{Title: "x"})
	progress := 30
	b.UpdateItem(it.ID, ItemPatch{Progress: &progress})

	if out := b.MoveItem(it.ID, ColumnTodo, 0, ColumnDoing, 0); out != OutcomeApplied {
		t.Fatalf("move: %s", out)
	}
	got := b.Project()[1].Items[0]
	if got.Progress != 30 || got.StatusToken != StatusPending {
		t.Fatalf("intermediate columns must not normalize: %+v", got)
	}
}

func TestMoveItemReorderWithinColumn(t *testing.T) {
	b := newTestBoard(t)
	c := mustCreate(t, b, ItemDraft{Title: "c"})
	bb := mustCreate(t, b, ItemDraft{Title: "b"})
	a := mustCreate(t, b, ItemDraft{Title: "a"}) // order: a, b, c

	if out := b.MoveItem(a.ID, ColumnTodo, 0, ColumnTodo, 2); out != OutcomeApplied {
		t.Fatalf("reorder: %s", out)
	}
	checkInvariants(t, b)

	got := b.Project()[0]
	wantOrder := []string{bb.ID, c.ID, a.ID}
	for i, want := range wantOrder {
		if got.Items[i].ID != want {
			t.Fatalf("position %d: got %s, want %s", i, got.Items[i].Title, want)
		}
	}
	if got.Total != 3 {
		t.Fatalf("reorder must not change the count, got %d", got.Total)
	}
}

func TestMoveItemConservesTotalCount(t *testing.T) {
	b := newTestBoard(t)
	it := mustCreate(t, b, ItemDraft{Title: "x"})
	mustCreate(t, b, ItemDraft{Title: "y"})
	before := totalItems(b)

	b.MoveItem(it.ID, ColumnTodo, 1, ColumnDoing, 0)
	if got := totalItems(b); got != before {
		t.Fatalf("cross-column move changed total: %d -> %d", before, got)
	}
	b.MoveItem(it.ID, ColumnDoing, 0, ColumnDoing, 0)
	if got := totalItems(b); got != before {
		t.Fatalf("reorder changed total: %d -> %d", before, got)
	}
}

func TestMoveItemStaleIntentIsNoop(t *testing.T) {
	b := newTestBoard(t)
	it := mustCreate(t, b, ItemDraft{Title: "x"})

	cases := []struct {
		name              string
		srcCol            string
		srcIdx            int
		dstCol            string
	}{
		{"index out of range", ColumnTodo, 5, ColumnDone},
		{"negative index", ColumnTodo, -1, ColumnDone},
		{"wrong source column", ColumnDoing, 0, ColumnDone},
		{"unknown destination", ColumnTodo, 0, "archive"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if out := b.MoveItem(it.ID, tc.srcCol, tc.srcIdx, tc.dstCol, 0); out != OutcomeNoop {
				t.Fatalf("got %s, want %s", out, OutcomeNoop)
			}
			checkInvariants(t, b)
		})
	}
}

func TestMoveItemRejectedWhileFilterActive(t *testing.T) {
	b := newTestBoard(t)
	it := mustCreate(t, b, ItemDraft{Title: "bug report"})
	before := b.Project()

	b.SetFacets(FilterFacets{Search: "bug"})
	if out := b.MoveItem(it.ID, ColumnTodo, 0, ColumnDone, 0); out != OutcomeRejectedFilter {
		t.Fatalf("got %s, want %s", out, OutcomeRejectedFilter)
	}

	b.SetFacets(FilterFacets{})
	after := b.Project()
	if len(after) != len(before) {
		t.Fatal("rejected move altered the board")
	}
	for i := range after {
		if after[i].Total != before[i].Total || len(after[i].Items) != len(before[i].Items) {
			t.Fatalf("column %s changed under a rejected move", after[i].ID)
		}
	}
	got := after[0].Items[0]
	if got.StatusToken != StatusPending || got.Progress != 0 {
		t.Fatal("rejected move must not run policy effects")
	}
}

func TestMoveGuardCoversEveryFacet(t *testing.T) {
	d := NewDate(2024, 1, 1)
	facets := []FilterFacets{
		{Search: "x"},
		{Assignee: "u1"},
		{Kind: KindTask},
		{Priority: PriorityUrgent},
		{DueStart: &d},
		{DueEnd: &d},
		{ProjectID: "p1"},
		{Status: "Done"},
		{Creator: "u1"},
	}
	for _, f := range facets {
		b := newTestBoard(t)
		it := mustCreate(t, b, ItemDraft{Title: "x"})
		b.SetFacets(f)
		if out := b.MoveItem(it.ID, ColumnTodo, 0, ColumnDoing, 0); out != OutcomeRejectedFilter {
			t.Fatalf("facets %+v: got %s, want %s", f, out, OutcomeRejectedFilter)
		}
	}
}

func TestAddColumn(t *testing.T) {
	b := newTestBoard(t)
	col, out := b.AddColumn("Review")
	if out != OutcomeApplied || col.ID == "" {
		t.Fatalf("add column: %s %+v", out, col)
	}
	if _, out := b.AddColumn("  "); out != OutcomeRejectedInvalid {
		t.Fatalf("blank title: got %s", out)
	}

	cols := b.Project()
	last := cols[len(cols)-1]
	if last.Title != "Review" || last.Total != 0 {
		t.Fatalf("new column should be appended empty, got %+v", last)
	}

	// New columns accumulate items only via moves.
	it := mustCreate(t, b, ItemDraft{Title: "x"})
	if out := b.MoveItem(it.ID, ColumnTodo, 0, col.ID, 0); out != OutcomeApplied {
		t.Fatalf("move into new column: %s", out)
	}
	got := b.Project()
	if got[len(got)-1].Total != 1 {
		t.Fatal("moved item did not land in the new column")
	}
	moved := got[len(got)-1].Items[0]
	if moved.StatusToken != StatusPending {
		t.Fatal("columns added at runtime carry no policy entry")
	}
	checkInvariants(t, b)
}
