package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/conduitlabs/conduit/internal/adapter/llm"
	"github.com/conduitlabs/conduit/internal/domain"
)

const chatPersona = "You are a helpful, friendly conversational assistant. " +
	"Answer clearly and concisely."

const chatContextHint = " Use the prior conversation for context, but answer " +
	"the user's latest message."

// ChatHandler is the general-conversation specialist.
type ChatHandler struct {
	gateway llm.Gateway
	logger  zerolog.Logger
}

// NewChatHandler creates the chat specialist.
func NewChatHandler(gateway llm.Gateway, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		gateway: gateway,
		logger:  logger.With().Str("agent", string(domain.AgentChat)).Logger(),
	}
}

var _ StreamingHandler = (*ChatHandler)(nil)

// Tag returns the chat agent tag.
func (h *ChatHandler) Tag() domain.AgentTag { return domain.AgentChat }

// Handle generates a reply for the latest turn via a single gateway call.
func (h *ChatHandler) Handle(ctx context.Context, conv *domain.Conversation) (*Result, error) {
	subject, system, started, err := h.prepare(conv)
	if err != nil {
		return nil, err
	}

	reply, err := h.gateway.Complete(ctx, subject, system)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	h.logger.Debug().Int("reply_len", len(reply)).Msg("completion finished")
	return h.result(reply, started), nil
}

// HandleStream generates the reply as gateway fragments, re-yielding each
// fragment in order through fn, and returns the accumulated full reply.
func (h *ChatHandler) HandleStream(ctx context.Context, conv *domain.Conversation, fn llm.FragmentFunc) (*Result, error) {
	subject, system, started, err := h.prepare(conv)
	if err != nil {
		return nil, err
	}

	var full strings.Builder
	err = h.gateway.CompleteStream(ctx, subject, system, func(fragment string) error {
		full.WriteString(fragment)
		return fn(fragment)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	return h.result(full.String(), started), nil
}

func (h *ChatHandler) prepare(conv *domain.Conversation) (subject, system string, started time.Time, err error) {
	last, ok := conv.LastTurn()
	if !ok {
		return "", "", time.Time{}, fmt.Errorf("no message to process: %w", domain.ErrEmptyConversation)
	}

	system = chatPersona
	if len(conv.Turns) > 1 {
		system += chatContextHint
	}

	return last.Content, system, time.Now(), nil
}

func (h *ChatHandler) result(reply string, started time.Time) *Result {
	return &Result{
		Agent: domain.AgentChat,
		Reply: reply,
		Metadata: map[string]any{
			"startedAt":  started,
			"durationMs": time.Since(started).Milliseconds(),
		},
	}
}
