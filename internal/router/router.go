// Package router classifies the latest turn of a conversation into one of
// the specialist agents with a single LLM gateway call.
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/conduitlabs/conduit/internal/adapter/llm"
	"github.com/conduitlabs/conduit/internal/domain"
)

// Router issues one classification call per conversation turn.
type Router struct {
	gateway llm.Gateway
	logger  zerolog.Logger
}

// New creates a router backed by the given gateway.
func New(gateway llm.Gateway, logger zerolog.Logger) *Router {
	return &Router{
		gateway: gateway,
		logger:  logger.With().Str("component", "router").Logger(),
	}
}

// Classify routes the most recent turn. It fails only when the conversation
// has no turns or the gateway call itself failed; a gateway answer that is
// unusable (bad JSON, invalid fields) is corrected to the default decision,
// so routing always produces a usable decision once a response was obtained.
func (r *Router) Classify(ctx context.Context, conv *domain.Conversation) (domain.RoutingDecision, error) {
	last, ok := conv.LastTurn()
	if !ok {
		return domain.RoutingDecision{}, fmt.Errorf("no messages to route: %w", domain.ErrEmptyConversation)
	}

	prompt := BuildPrompt(conv, last.Content)

	raw, err := r.gateway.Complete(ctx, prompt, "")
	if err != nil {
		return domain.RoutingDecision{}, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	decision, status := decodeDecision(raw)
	switch status {
	case decodeOK:
		return decision, nil
	case decodeParseFailed:
		r.logger.Warn().Str("raw", truncate(raw, 200)).Msg("classification response was not parseable JSON, using default decision")
		return domain.DefaultDecision("classification response was not valid JSON, defaulting to chat"), nil
	default:
		r.logger.Warn().Str("raw", truncate(raw, 200)).Msg("classification response failed validation, using default decision")
		return domain.DefaultDecision("classification response failed validation, defaulting to chat"), nil
	}
}

// BuildPrompt embeds the prior history, the subject text, and the three
// target labels into the classification prompt.
func BuildPrompt(conv *domain.Conversation, subject string) string {
	var b strings.Builder

	b.WriteString("You are a message router. Classify the user's message and pick the agent that should handle it.\n\n")
	b.WriteString("Conversation history:\n")
	if len(conv.Turns) <= 1 {
		b.WriteString("No previous conversation history.\n")
	} else {
		for _, turn := range conv.Turns[:len(conv.Turns)-1] {
			b.WriteString(roleLabel(turn.Role))
			b.WriteString(": ")
			b.WriteString(turn.Content)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nUser message: ")
	b.WriteString(subject)
	b.WriteString("\n\nAgents:\n")
	b.WriteString("- chat: general conversation\n")
	b.WriteString("- retrieval: requires stored or document knowledge\n")
	b.WriteString("- tool: requires an external action or real-time data\n")
	b.WriteString("\nRespond with a JSON object with fields \"nextAgent\", \"confidence\", and \"reasoning\".\n")

	return b.String()
}

func roleLabel(role domain.Role) string {
	switch role {
	case domain.RoleAssistant:
		return "Assistant"
	case domain.RoleSystem:
		return "System"
	default:
		return "User"
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
