// Package domain defines the core domain models for the chat service.
package domain

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether the role is one of the three known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// AgentTag identifies which agent produced an event or a turn.
type AgentTag string

const (
	AgentRouter    AgentTag = "router"
	AgentChat      AgentTag = "chat"
	AgentRetrieval AgentTag = "retrieval"
	AgentTool      AgentTag = "tool"
)

// ValidTarget reports whether the tag is a dispatchable agent (the router
// itself is not a dispatch target).
func (a AgentTag) ValidTarget() bool {
	return a == AgentChat || a == AgentRetrieval || a == AgentTool
}

// EventKind is the type of a stream event.
type EventKind string

const (
	EventStatus   EventKind = "status"
	EventChunk    EventKind = "chunk"
	EventComplete EventKind = "complete"
	EventError    EventKind = "error"
)

// Terminal reports whether the kind ends a stream.
func (k EventKind) Terminal() bool {
	return k == EventComplete || k == EventError
}
