package domain

import "sync"

// Registry hands out one board per user, created on demand from a shared
// config. Boards are process-local and ephemeral; nothing survives restart.
type Registry struct {
	mu     sync.Mutex
	cfg    Config
	boards map[string]*Board
}

// NewRegistry creates a registry that seeds new boards from cfg.
func NewRegistry(cfg Config) *Registry {
	return &Registry{cfg: cfg, boards: make(map[string]*Board)}
}

// Board returns the user's board, creating it on first access.
func (r *Registry) Board(userID string) *Board {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.boards[userID]
	if !ok {
		b = New(r.cfg)
		r.boards[userID] = b
	}
	return b
}

// Apply routes a command to the user's board.
func (r *Registry) Apply(userID string, cmd Command) Outcome {
	return r.Board(userID).Apply(userID, cmd)
}

// Project returns the user's filtered columnar projection.
func (r *Registry) Project(userID string) []ProjectedColumn {
	return r.Board(userID).Project()
}

// Flatten returns the user's flattened projection.
func (r *Registry) Flatten(userID string) []Item {
	return r.Board(userID).Flatten()
}

// GroupByKind returns the user's projection grouped by item kind.
func (r *Registry) GroupByKind(userID string) []KindGroup {
	return r.Board(userID).GroupByKind()
}

// Views lists the user's saved views.
func (r *Registry) Views(userID string) []SavedView {
	return r.Board(userID).Views()
}
