// Package agent defines the specialist handler contract and the tag-based
// dispatch table the orchestrator routes through.
package agent

import (
	"context"

	"github.com/conduitlabs/conduit/internal/adapter/llm"
	"github.com/conduitlabs/conduit/internal/domain"
)

// Result is a handler's reply plus metadata.
type Result struct {
	Agent    domain.AgentTag
	Reply    string
	Metadata map[string]any
}

// Handler turns a conversation into a reply. Handle fails with
// domain.ErrEmptyConversation when there are no turns to process.
type Handler interface {
	Tag() domain.AgentTag
	Handle(ctx context.Context, conv *domain.Conversation) (*Result, error)
}

// StreamingHandler is implemented by handlers that can produce the reply as
// an ordered sequence of text fragments. Each call issues a new gateway
// request; the sequence is finite and not restartable.
type StreamingHandler interface {
	Handler
	HandleStream(ctx context.Context, conv *domain.Conversation, fn llm.FragmentFunc) (*Result, error)
}

// Registry is the tagged dispatch table. Adding a fourth agent is registering
// a new tag and handler, not subclassing anything.
type Registry struct {
	handlers map[domain.AgentTag]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: map[domain.AgentTag]Handler{}}
}

// Register adds a handler under its own tag, replacing any previous one.
func (r *Registry) Register(h Handler) {
	r.handlers[h.Tag()] = h
}

// Get returns the handler for a tag and whether it is registered.
func (r *Registry) Get(tag domain.AgentTag) (Handler, bool) {
	h, ok := r.handlers[tag]
	return h, ok
}

// Tags returns the registered tags.
func (r *Registry) Tags() []domain.AgentTag {
	tags := make([]domain.AgentTag, 0, len(r.handlers))
	for tag := range r.handlers {
		tags = append(tags, tag)
	}
	return tags
}
