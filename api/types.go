package api

import (
	"context"

	"workboard-api/domain"
	"workboard-api/remote"
)

// Boards is the engine surface handlers talk to: one board per user, write
// intents as commands, reads as derived projections.
type Boards interface {
	Apply(userID string, cmd domain.Command) domain.Outcome
	Project(userID string) []domain.ProjectedColumn
	Flatten(userID string) []domain.Item
	GroupByKind(userID string) []domain.KindGroup
	Views(userID string) []domain.SavedView
}

// Collaborators exposes the remote data-fetch services proxied to the
// presentation layer. Failures propagate as-is; the API never retries.
type Collaborators interface {
	FetchProjects(ctx context.Context) ([]remote.Project, error)
	FetchWorkbenchSummary(ctx context.Context, userID string) (remote.WorkbenchSummary, error)
}

// Importer accepts background item-import requests.
type Importer interface {
	// Enqueue hands the user's import off to the background pool and
	// reports whether the pool accepted it.
	Enqueue(userID string) bool
}

// Authenticator is implemented by types able to extract user IDs from headers.
type Authenticator interface {
	UserIDFromAuthHeader(string) (string, error)
}

// Deduper prevents reprocessing of duplicate command batches.
type Deduper interface {
	// AddMany records the idempotency keys and reports which were newly added.
	AddMany(ctx context.Context, userID string, keys []string) ([]bool, error)
	// Remove deletes a previously added key so a rejected command can be retried.
	Remove(ctx context.Context, userID, key string) error
}
