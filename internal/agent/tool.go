package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/conduitlabs/conduit/internal/domain"
)

// ToolHandler is a conforming placeholder for the action-execution
// specialist. A real implementation supplies tool invocation behind the same
// contract.
type ToolHandler struct{}

// NewToolHandler creates the tool placeholder.
func NewToolHandler() *ToolHandler { return &ToolHandler{} }

// Tag returns the tool agent tag.
func (h *ToolHandler) Tag() domain.AgentTag { return domain.AgentTool }

// Handle returns an explanatory placeholder reply.
func (h *ToolHandler) Handle(ctx context.Context, conv *domain.Conversation) (*Result, error) {
	if _, ok := conv.LastTurn(); !ok {
		return nil, fmt.Errorf("no message to process: %w", domain.ErrEmptyConversation)
	}
	return &Result{
		Agent: domain.AgentTool,
		Reply: "Tool execution is not configured yet. I can still help with general questions.",
		Metadata: map[string]any{
			"startedAt":   time.Now(),
			"placeholder": true,
		},
	}, nil
}
