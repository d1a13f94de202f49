package domain

// MoveEffect normalizes an item when it enters a column. Nil fields leave
// the item untouched.
type MoveEffect struct {
	Progress    *int
	StatusToken *string
}

// MovePolicy maps destination column ids to the effect applied on entry.
// Columns without an entry apply no normalization; only the intake and done
// columns carry a defined rule, intermediate stages deliberately have none.
type MovePolicy map[string]MoveEffect

func (p MovePolicy) applyTo(columnID string, it *Item) {
	eff, ok := p[columnID]
	if !ok {
		return
	}
	if eff.Progress != nil {
		it.Progress = *eff.Progress
	}
	if eff.StatusToken != nil {
		it.StatusToken = *eff.StatusToken
	}
}

// DefaultMovePolicy resets items entering the intake column to the pending
// token and completes items entering the done column.
func DefaultMovePolicy(intakeColumnID, doneColumnID string) MovePolicy {
	pending := StatusPending
	completed := StatusCompleted
	full := 100
	return MovePolicy{
		intakeColumnID: {StatusToken: &pending},
		doneColumnID:   {StatusToken: &completed, Progress: &full},
	}
}
