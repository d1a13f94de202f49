// Package remote talks to the data-fetch collaborators surrounding the
// board: the item, project and workbench aggregation services. They all
// speak the same envelope protocol; a non-zero code is a caller-visible
// failure carrying user-facing text.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"

	"workboard-api/domain"
)

// Envelope is the collaborator response wrapper. Code zero denotes success.
type Envelope struct {
	Code    int                    `json:"code"`
	Data    sonic.NoCopyRawMessage `json:"data,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// CollaboratorError is a collaborator reply with a non-zero code. The
// message is meant for the user and propagates unchanged; the engine never
// retries on its own.
type CollaboratorError struct {
	Code    int
	Message string
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("collaborator code %d: %s", e.Code, e.Message)
}

// Project is one entry of the remote project list.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// WorkbenchSummary aggregates the caller's cross-project counters.
type WorkbenchSummary struct {
	Assigned  int `json:"assigned"`
	Created   int `json:"created"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

const defaultFetchTimeout = 10 * time.Second

// Client fetches from the collaborator services under one base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a collaborator client. A zero timeout falls back to the
// default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchItems retrieves the drafts of items assigned to the user, for import
// into the board's intake column.
func (c *Client) FetchItems(ctx context.Context, userID string) ([]domain.ItemDraft, error) {
	var drafts []domain.ItemDraft
	q := url.Values{"assignee": {userID}}
	if err := c.get(ctx, "/items?"+q.Encode(), &drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

// FetchProjects retrieves the project list.
func (c *Client) FetchProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.get(ctx, "/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// FetchWorkbenchSummary retrieves the user's workbench aggregation.
func (c *Client) FetchWorkbenchSummary(ctx context.Context, userID string) (WorkbenchSummary, error) {
	var summary WorkbenchSummary
	q := url.Values{"user": {userID}}
	if err := c.get(ctx, "/workbench?"+q.Encode(), &summary); err != nil {
		return WorkbenchSummary{}, err
	}
	return summary, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("collaborator returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env Envelope
	if err := sonic.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if env.Code != 0 {
		return &CollaboratorError{Code: env.Code, Message: env.Message}
	}
	if len(env.Data) == 0 {
		return nil
	}
	return sonic.Unmarshal(env.Data, out)
}
