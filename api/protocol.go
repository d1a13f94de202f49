package api

import "workboard-api/domain"

const postCommandMaxSize = 64 * 1024 // 64 KiB

// outcome reported for a command swallowed by the idempotency deduper.
const outcomeDuplicate = "duplicate"

// POST /api/commands response body.
type postCommandsResponse struct {
	Results []commandResult `json:"results"`
}

type commandResult struct {
	IdempotencyKey string `json:"idempotencyKey"`
	Outcome        string `json:"outcome"`
}

// GET /api/board response bodies, one per projection shape.
type boardResponse struct {
	Columns []domain.ProjectedColumn `json:"columns"`
}

type flatBoardResponse struct {
	Items []domain.Item `json:"items"`
}

type groupedBoardResponse struct {
	Groups []domain.KindGroup `json:"groups"`
}

type viewsResponse struct {
	Views []domain.SavedView `json:"views"`
}
