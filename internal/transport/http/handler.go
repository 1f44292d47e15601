package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/conduitlabs/conduit/internal/orchestrator"
	"github.com/conduitlabs/conduit/internal/store"
)

// Handler holds the transport dependencies.
type Handler struct {
	orch   *orchestrator.Orchestrator
	store  store.SessionStore
	logger zerolog.Logger
}

// NewHandler creates the HTTP handler.
func NewHandler(orch *orchestrator.Orchestrator, sessions store.SessionStore, logger zerolog.Logger) *Handler {
	return &Handler{
		orch:   orch,
		store:  sessions,
		logger: logger.With().Str("component", "http").Logger(),
	}
}

// RegisterRoutes registers all routes on the server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat", h.Chat)
	e.GET("/health", h.Health)
	e.GET("/sessions", h.ListSessions)
	e.GET("/sessions/:session_id", h.GetSession)
	e.DELETE("/sessions/:session_id", h.DeleteSession)
}

// Health is the liveness endpoint.
// GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ListSessions returns stored session identifiers, optionally filtered by user.
// GET /sessions?userId=
func (h *Handler) ListSessions(c echo.Context) error {
	ctx := c.Request().Context()

	ids, err := h.store.List(ctx, c.QueryParam("userId"))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list sessions")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list sessions"})
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"sessions": ids})
}

// GetSession returns the stored conversation for a session.
// GET /sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	conv, err := h.store.Load(ctx, sessionID)
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load session")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load session"})
	}
	if conv == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	return c.JSON(http.StatusOK, conv)
}

// DeleteSession removes a session.
// DELETE /sessions/:session_id
func (h *Handler) DeleteSession(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	if err := h.store.Delete(ctx, sessionID); err != nil {
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to delete session")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete session"})
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
