package domain

import (
	"time"

	"github.com/google/uuid"
)

// Context keys written by the orchestrator into Conversation.Context.
const (
	ContextKeyRouting       = "routing"
	ContextKeyLastAgent     = "lastAgent"
	ContextKeyAgentMetadata = "agentMetadata"
	ContextKeyRoutingError  = "routingError"
	ContextKeyHandlerError  = "handlerError"
	ContextKeyPolicyBlocked = "policyBlocked"
)

// Turn is a single message in a conversation. Turns are immutable once
// appended, except for metadata updated while the turn is still streaming.
type Turn struct {
	TurnID    string         `json:"turn_id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	Agent     AgentTag       `json:"agent,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewUserTurn creates a user turn with a fresh identifier.
func NewUserTurn(content string) Turn {
	return Turn{
		TurnID:    "turn_" + uuid.New().String()[:8],
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantTurn creates an assistant turn attributed to the given agent.
func NewAssistantTurn(agent AgentTag, content string, metadata map[string]any) Turn {
	return Turn{
		TurnID:    "turn_" + uuid.New().String()[:8],
		Role:      RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
		Agent:     agent,
		Metadata:  metadata,
	}
}

// Conversation is the unit of persistence: the ordered turn history plus
// routing context for one session identifier.
type Conversation struct {
	SessionID string         `json:"session_id"`
	UserID    string         `json:"user_id,omitempty"`
	Turns     []Turn         `json:"turns"`
	Context   map[string]any `json:"context,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewConversation creates an empty conversation for a session.
func NewConversation(sessionID, userID string) *Conversation {
	return &Conversation{
		SessionID: sessionID,
		UserID:    userID,
		Turns:     []Turn{},
		Context:   map[string]any{},
		UpdatedAt: time.Now(),
	}
}

// ConversationFromTurns builds a conversation from an ordered turn history.
func ConversationFromTurns(sessionID, userID string, turns []Turn) *Conversation {
	c := NewConversation(sessionID, userID)
	c.Turns = append(c.Turns, turns...)
	return c
}

// History returns a copy of the ordered turn sequence.
func (c *Conversation) History() []Turn {
	out := make([]Turn, len(c.Turns))
	copy(out, c.Turns)
	return out
}

// Append adds a turn to the end of the history.
func (c *Conversation) Append(t Turn) {
	c.Turns = append(c.Turns, t)
	c.UpdatedAt = time.Now()
}

// LastTurn returns the most recent turn, or false if the history is empty.
func (c *Conversation) LastTurn() (Turn, bool) {
	if len(c.Turns) == 0 {
		return Turn{}, false
	}
	return c.Turns[len(c.Turns)-1], true
}

// SetContext records a value in the free-form context map.
func (c *Conversation) SetContext(key string, value any) {
	if c.Context == nil {
		c.Context = map[string]any{}
	}
	c.Context[key] = value
}

// Clone returns a deep copy of the conversation. Turn metadata maps are
// copied shallowly; values stored in them are treated as immutable.
func (c *Conversation) Clone() *Conversation {
	out := &Conversation{
		SessionID: c.SessionID,
		UserID:    c.UserID,
		Turns:     make([]Turn, len(c.Turns)),
		Context:   make(map[string]any, len(c.Context)),
		UpdatedAt: c.UpdatedAt,
	}
	copy(out.Turns, c.Turns)
	for k, v := range c.Context {
		out.Context[k] = v
	}
	return out
}

// RoutingDecision is the router's classification output.
type RoutingDecision struct {
	NextAgent  AgentTag `json:"nextAgent"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

// DefaultConfidence is the confidence assigned to fallback decisions.
const DefaultConfidence = 0.5

// DefaultDecision is the fallback routing decision used when classification
// produced no usable answer. The reason is carried in the justification.
func DefaultDecision(reason string) RoutingDecision {
	return RoutingDecision{
		NextAgent:  AgentChat,
		Confidence: DefaultConfidence,
		Reasoning:  reason,
	}
}

// Valid reports whether the decision satisfies the routing invariants.
func (d RoutingDecision) Valid() bool {
	return d.NextAgent.ValidTarget() &&
		d.Confidence >= 0 && d.Confidence <= 1 &&
		d.Reasoning != ""
}

// StreamEvent is one unit of the orchestrator's output sequence and the wire
// unit emitted by the HTTP transport.
type StreamEvent struct {
	Type      EventKind      `json:"type"`
	Agent     AgentTag       `json:"agent"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewStreamEvent creates a stream event stamped with the current time.
func NewStreamEvent(kind EventKind, agent AgentTag, content string) StreamEvent {
	return StreamEvent{
		Type:      kind,
		Agent:     agent,
		Content:   content,
		Timestamp: time.Now(),
	}
}
