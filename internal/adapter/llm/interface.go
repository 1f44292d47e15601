// Package llm provides the LLM gateway abstraction used by the router and
// the specialist handlers.
package llm

import "context"

// FragmentFunc is called for each text fragment of a streaming completion.
// Returning an error stops the stream.
type FragmentFunc func(fragment string) error

// Gateway is the external text-completion capability. A system instruction
// may be empty.
type Gateway interface {
	// Complete returns the full completion for a prompt.
	Complete(ctx context.Context, prompt, system string) (string, error)

	// CompleteStream issues one completion call and invokes fn for each text
	// fragment in order. The stream is finite and not restartable.
	CompleteStream(ctx context.Context, prompt, system string, fn FragmentFunc) error
}

// Ensure implementations satisfy the interface.
var (
	_ Gateway = (*Client)(nil)
	_ Gateway = (*MockClient)(nil)
)
