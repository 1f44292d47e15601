package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/conduitlabs/conduit/internal/domain"
	"github.com/conduitlabs/conduit/internal/validate"
)

// ChatRequest is the inbound chat payload.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

// Chat validates the request, loads the session, streams orchestrator events
// as SSE frames, and persists the updated conversation after a completed
// stream. Once streaming has begun the HTTP status stays 200; failures are
// carried as error events on the stream itself.
// POST /chat
func (h *Handler) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	input, errs := validate.Validate(validate.Input{
		Message:   req.Message,
		SessionID: req.SessionID,
		UserID:    req.UserID,
	})
	if len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": strings.Join(errs, "; ")})
	}

	conv, err := h.store.Load(ctx, input.SessionID)
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", input.SessionID).Msg("failed to load session")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load session"})
	}
	if conv == nil {
		conv = domain.NewConversation(input.SessionID, input.UserID)
	}
	conv.Append(domain.NewUserTurn(input.Message))

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/plain; charset=utf-8")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	completed := false
	streamErr := h.orch.Stream(ctx, conv, func(event domain.StreamEvent) error {
		if event.Type == domain.EventComplete {
			// The caller may not have supplied a session id; echo the one in
			// effect so the next request can continue the conversation.
			if event.Metadata == nil {
				event.Metadata = map[string]any{}
			}
			event.Metadata["sessionId"] = input.SessionID
		}
		frame, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(resp, "data: %s\n\n", frame); err != nil {
			return err
		}
		resp.Flush()
		if event.Type == domain.EventComplete {
			completed = true
		}
		return nil
	})
	if streamErr != nil {
		// Connection dropped or write failed mid-stream; the partial reply is
		// deliberately not persisted.
		h.logger.Warn().Err(streamErr).Str("session_id", input.SessionID).Msg("stream abandoned")
		return nil
	}

	if completed {
		if err := h.store.Save(ctx, conv); err != nil {
			// The user already saw the answer; only persistence for next time
			// is at risk. Reported server-side, never rolled back.
			h.logger.Error().Err(err).Str("session_id", input.SessionID).Msg("failed to save session after stream")
		}
	}

	return nil
}
