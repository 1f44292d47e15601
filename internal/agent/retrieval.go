package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/conduitlabs/conduit/internal/domain"
)

// RetrievalHandler is a conforming placeholder for the document-retrieval
// specialist. A real implementation supplies its own vector-search algorithm
// behind the same contract.
type RetrievalHandler struct{}

// NewRetrievalHandler creates the retrieval placeholder.
func NewRetrievalHandler() *RetrievalHandler { return &RetrievalHandler{} }

// Tag returns the retrieval agent tag.
func (h *RetrievalHandler) Tag() domain.AgentTag { return domain.AgentRetrieval }

// Handle returns an explanatory placeholder reply.
func (h *RetrievalHandler) Handle(ctx context.Context, conv *domain.Conversation) (*Result, error) {
	if _, ok := conv.LastTurn(); !ok {
		return nil, fmt.Errorf("no message to process: %w", domain.ErrEmptyConversation)
	}
	return &Result{
		Agent: domain.AgentRetrieval,
		Reply: "Document retrieval is not configured yet. I can still help with general questions.",
		Metadata: map[string]any{
			"startedAt":   time.Now(),
			"placeholder": true,
		},
	}, nil
}
