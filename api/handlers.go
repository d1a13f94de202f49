package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"workboard-api/domain"
	"workboard-api/remote"
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, boards Boards, collab Collaborators, importer Importer, auth Authenticator, deduper Deduper, logger *log.Logger) {
	e.GET("/api/board", getBoard(boards, auth, logger))
	e.GET("/api/views", getViews(boards, auth))
	e.POST("/api/commands", postCommands(boards, auth, deduper, logger))
	e.GET("/api/projects", getProjects(collab, auth))
	e.GET("/api/workbench", getWorkbench(collab, auth))
	e.POST("/api/import", postImport(importer, auth))
	e.GET("/healthz", healthz)
}

func healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func getBoard(boards Boards, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newBoardRequestMetrics(ctx, logger)
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		authStart := time.Now()
		userID, authErr := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		metrics.ObserveAuth(time.Since(authStart))
		if authErr != nil {
			metrics.SetErrorStage("auth")
			err = c.String(http.StatusUnauthorized, authErr.Error())
			return err
		}

		shape := c.QueryParam("shape")
		metrics.SetShape(shape)

		projectStart := time.Now()
		var resp any
		switch shape {
		case "", "columns":
			cols := boards.Project(userID)
			n := 0
			for _, col := range cols {
				n += len(col.Items)
			}
			metrics.SetItemsReturned(n)
			resp = boardResponse{Columns: cols}
		case "flat":
			items := boards.Flatten(userID)
			metrics.SetItemsReturned(len(items))
			resp = flatBoardResponse{Items: items}
		case "kind":
			groups := boards.GroupByKind(userID)
			n := 0
			for _, g := range groups {
				n += len(g.Items)
			}
			metrics.SetItemsReturned(n)
			resp = groupedBoardResponse{Groups: groups}
		default:
			metrics.SetErrorStage("invalid_shape")
			err = c.String(http.StatusBadRequest, "invalid shape")
			return err
		}
		metrics.ObserveProject(time.Since(projectStart))

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, resp)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func getViews(boards Boards, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		return c.JSON(http.StatusOK, viewsResponse{Views: boards.Views(userID)})
	}
}

func postCommands(boards Boards, auth Authenticator, deduper Deduper, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}

		lr := io.LimitReader(c.Request().Body, postCommandMaxSize)
		dec := sonic.ConfigStd.NewDecoder(lr)
		dec.DisallowUnknownFields()

		cmds := make([]domain.Command, 0, 4)
		if err := dec.Decode(&cmds); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}

		keys := finalizeCommands(cmds)

		added, dedupeErr := deduper.AddMany(ctx, userID, keys)
		if dedupeErr != nil {
			// The board tolerates replays better than it tolerates dropped
			// intents, so a dedupe outage degrades to processing everything.
			logger.WithFields(log.Fields{"user": userID, "error": dedupeErr.Error()}).Warn("deduper unavailable, processing batch without dedupe")
			added = nil
		}

		results := make([]commandResult, len(cmds))
		for i := range cmds {
			if added != nil && !added[i] {
				results[i] = commandResult{IdempotencyKey: keys[i], Outcome: outcomeDuplicate}
				continue
			}
			outcome := boards.Apply(userID, cmds[i])
			commandOutcomes.WithLabelValues(cmds[i].EntityType, cmds[i].Type, string(outcome)).Inc()
			if outcome != domain.OutcomeApplied && added != nil {
				// Free the key so the client may retry once the cause
				// (active filter, bad payload) is gone.
				if rerr := deduper.Remove(context.WithoutCancel(ctx), userID, keys[i]); rerr != nil {
					logger.WithFields(log.Fields{"user": userID, "key": keys[i], "error": rerr.Error()}).Error("dedupe rollback failed")
				}
			}
			results[i] = commandResult{IdempotencyKey: keys[i], Outcome: string(outcome)}
		}

		return c.JSON(http.StatusOK, postCommandsResponse{Results: results})
	}
}

func getProjects(collab Collaborators, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if _, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization")); err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		projects, err := collab.FetchProjects(ctx)
		if err != nil {
			return collaboratorError(c, err)
		}
		return c.JSON(http.StatusOK, projects)
	}
}

func getWorkbench(collab Collaborators, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		summary, err := collab.FetchWorkbenchSummary(ctx, userID)
		if err != nil {
			return collaboratorError(c, err)
		}
		return c.JSON(http.StatusOK, summary)
	}
}

func postImport(importer Importer, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		if !importer.Enqueue(userID) {
			return c.String(http.StatusServiceUnavailable, "import queue saturated")
		}
		return c.NoContent(http.StatusAccepted)
	}
}

// collaboratorError surfaces remote envelope failures with their own message
// and everything else as a plain upstream error.
func collaboratorError(c echo.Context, err error) error {
	var collabErr *remote.CollaboratorError
	if errors.As(err, &collabErr) {
		return c.String(http.StatusBadGateway, collabErr.Message)
	}
	c.Logger().Error(err)
	return c.String(http.StatusBadGateway, "upstream fetch failed")
}
