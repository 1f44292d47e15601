package domain

import "errors"

// Sentinel errors shared across components. Callers compare with errors.Is.
var (
	// ErrEmptyConversation is returned when there are no turns to route or
	// process.
	ErrEmptyConversation = errors.New("conversation has no turns")

	// ErrGatewayUnavailable wraps LLM gateway transport failures. It is kept
	// distinct from a garbage answer: a failed call means the dependency is
	// unusable this request, not that the model classified badly.
	ErrGatewayUnavailable = errors.New("llm gateway unavailable")

	// ErrSessionNotFound is returned by stores when a session identifier has
	// no stored conversation and absence is not acceptable to the caller.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStoreUnavailable wraps session store failures.
	ErrStoreUnavailable = errors.New("session store unavailable")
)
