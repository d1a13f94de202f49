package domain

import "github.com/bytedance/sonic"

// Command represents a write intent for the board.
type Command struct {
	// ID carries the idempotency key once the API has finalized the batch.
	ID             string                 `json:"id,omitempty"`
	IdempotencyKey string                 `json:"idempotencyKey"`
	EntityType     string                 `json:"entityType"`
	Type           string                 `json:"type"`
	Data           sonic.NoCopyRawMessage `json:"data,omitempty"`
	Timestamp      int64                  `json:"timestamp"`
}

// CommandEnvelope wraps a command with the user performing it.
type CommandEnvelope struct {
	UserID  string  `json:"userId"`
	Command Command `json:"command"`
}

// Command entity types.
const (
	EntityItem   = "item"
	EntityColumn = "column"
	EntityFilter = "filter"
	EntityView   = "view"
)

// Command types per entity.
const (
	CmdCreate = "create"
	CmdUpdate = "update"
	CmdDelete = "delete"
	CmdMove   = "move"
	CmdAdd    = "add"
	CmdSet    = "set"
	CmdSelect = "select"
	CmdSave   = "save"
)

// CreateItemPayload is the data of an item/create command.
type CreateItemPayload struct {
	ColumnID string    `json:"columnId,omitempty"`
	Item     ItemDraft `json:"item"`
}

// UpdateItemPayload is the data of an item/update command.
type UpdateItemPayload struct {
	ID    string    `json:"id"`
	Patch ItemPatch `json:"patch"`
}

// DeleteItemPayload is the data of an item/delete command.
type DeleteItemPayload struct {
	ID string `json:"id"`
}

// MoveItemPayload is the data of an item/move command. Indexes refer to the
// authoritative column order at drag-commit time.
type MoveItemPayload struct {
	ID           string `json:"id"`
	FromColumnID string `json:"fromColumnId"`
	FromIndex    int    `json:"fromIndex"`
	ToColumnID   string `json:"toColumnId"`
	ToIndex      int    `json:"toIndex"`
}

// AddColumnPayload is the data of a column/add command.
type AddColumnPayload struct {
	Title string `json:"title"`
}

// SetFacetsPayload is the data of a filter/set command.
type SetFacetsPayload struct {
	Facets FilterFacets `json:"facets"`
}

// SelectViewPayload is the data of a view/select command.
type SelectViewPayload struct {
	Name string `json:"name"`
}

// SaveViewPayload is the data of a view/save command.
type SaveViewPayload struct {
	Name  string    `json:"name"`
	Scope ViewScope `json:"scope,omitempty"`
}

// Apply decodes the command payload and dispatches to the matching board
// operation. Malformed payloads and unknown entity/type pairs are rejected
// as invalid, never raised. The user id fills in the creator on item
// creation and resolves user-relative views.
func (b *Board) Apply(userID string, cmd Command) Outcome {
	switch cmd.EntityType {
	case EntityItem:
		return b.applyItem(userID, cmd)
	case EntityColumn:
		if cmd.Type != CmdAdd {
			return OutcomeRejectedInvalid
		}
		var p AddColumnPayload
		if err := sonic.Unmarshal(cmd.Data, &p); err != nil {
			return OutcomeRejectedInvalid
		}
		_, out := b.AddColumn(p.Title)
		return out
	case EntityFilter:
		if cmd.Type != CmdSet {
			return OutcomeRejectedInvalid
		}
		var p SetFacetsPayload
		if err := sonic.Unmarshal(cmd.Data, &p); err != nil {
			return OutcomeRejectedInvalid
		}
		b.SetFacets(p.Facets)
		return OutcomeApplied
	case EntityView:
		return b.applyView(userID, cmd)
	}
	return OutcomeRejectedInvalid
}

func (b *Board) applyItem(userID string, cmd Command) Outcome {
	switch cmd.Type {
	case CmdCreate:
		var p CreateItemPayload
		if err := sonic.Unmarshal(cmd.Data, &p); err != nil {
			return OutcomeRejectedInvalid
		}
		if p.Item.CreatorID == "" {
			p.Item.CreatorID = userID
		}
		_, out := b.CreateItem(p.ColumnID, p.Item)
		return out
	case CmdUpdate:
		var p UpdateItemPayload
		if err := sonic.Unmarshal(cmd.Data, &p); err != nil {
			return OutcomeRejectedInvalid
		}
		_, out := b.UpdateItem(p.ID, p.Patch)
		return out
	case CmdDelete:
		var p DeleteItemPayload
		if err := sonic.Unmarshal(cmd.Data, &p); err != nil {
			return OutcomeRejectedInvalid
		}
		return b.DeleteItem(p.ID)
	case CmdMove:
		var p MoveItemPayload
		if err := sonic.Unmarshal(cmd.Data, &p); err != nil {
			return OutcomeRejectedInvalid
		}
		return b.MoveItem(p.ID, p.FromColumnID, p.FromIndex, p.ToColumnID, p.ToIndex)
	}
	return OutcomeRejectedInvalid
}

func (b *Board) applyView(userID string, cmd Command) Outcome {
	switch cmd.Type {
	case CmdSelect:
		var p SelectViewPayload
		if err := sonic.Unmarshal(cmd.Data, &p); err != nil {
			return OutcomeRejectedInvalid
		}
		b.SelectView(p.Name, userID)
		return OutcomeApplied
	case CmdSave:
		var p SaveViewPayload
		if err := sonic.Unmarshal(cmd.Data, &p); err != nil {
			return OutcomeRejectedInvalid
		}
		_, out := b.SaveCurrentAsView(p.Name, p.Scope)
		return out
	}
	return OutcomeRejectedInvalid
}
