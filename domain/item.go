package domain

import (
	"time"

	"github.com/bytedance/sonic"
)

// Kind classifies a work item.
type Kind string

const (
	KindRequirement Kind = "requirement"
	KindTask        Kind = "task"
	KindDefect      Kind = "defect"
)

// Valid reports whether k is one of the known item kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindRequirement, KindTask, KindDefect:
		return true
	}
	return false
}

// Priority ranks how urgently an item should be handled.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// Workflow status tokens. Column membership is the source of truth for board
// position; the token only drives the item's visual state.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

const dateLayout = "2006-01-02"

// Date is a calendar day without a time component. It marshals as
// "YYYY-MM-DD" and compares as a calendar instant.
type Date struct {
	time.Time
}

// NewDate builds a Date for the given calendar day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return sonic.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Attachment records metadata for a file attached to an item. Storage of the
// attachment bytes lives outside the engine.
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// Item is a single unit of work on the board.
type Item struct {
	ID          string       `json:"id"`
	DisplayID   string       `json:"displayId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Kind        Kind         `json:"kind"`
	Priority    Priority     `json:"priority"`
	Tags        []string     `json:"tags,omitempty"`
	DueDate     *Date        `json:"dueDate,omitempty"`
	Assignee    string       `json:"assignee,omitempty"`
	StatusToken string       `json:"statusToken"`
	Progress    int          `json:"progress"`
	ProjectID   string       `json:"projectId,omitempty"`
	CreatorID   string       `json:"creatorId,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Clone returns a deep copy so projections never alias board-owned state.
func (i Item) Clone() Item {
	out := i
	if i.Tags != nil {
		out.Tags = append([]string(nil), i.Tags...)
	}
	if i.Attachments != nil {
		out.Attachments = append([]Attachment(nil), i.Attachments...)
	}
	if i.DueDate != nil {
		due := *i.DueDate
		out.DueDate = &due
	}
	return out
}

// ItemDraft carries the caller-supplied fields for a new item. The board
// assigns identity, status token and progress.
type ItemDraft struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Kind        Kind         `json:"kind,omitempty"`
	Priority    Priority     `json:"priority,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	DueDate     *Date        `json:"dueDate,omitempty"`
	Assignee    string       `json:"assignee,omitempty"`
	ProjectID   string       `json:"projectId,omitempty"`
	CreatorID   string       `json:"creatorId,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// ItemPatch updates individual item fields. Nil fields are left untouched.
// A zero-valued DueDate clears the due date; an empty Assignee unassigns.
type ItemPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Kind        *Kind         `json:"kind,omitempty"`
	Priority    *Priority     `json:"priority,omitempty"`
	Tags        *[]string     `json:"tags,omitempty"`
	DueDate     *Date         `json:"dueDate,omitempty"`
	Assignee    *string       `json:"assignee,omitempty"`
	Progress    *int          `json:"progress,omitempty"`
	Attachments *[]Attachment `json:"attachments,omitempty"`
}
