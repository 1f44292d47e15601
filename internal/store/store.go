// Package store defines the session persistence interface and its
// implementations.
package store

import (
	"context"
	"time"

	"github.com/conduitlabs/conduit/internal/domain"
)

// SessionStore is keyed persistence of conversation state. Load returns
// (nil, nil) for an unknown session: absence is a valid, non-error outcome.
// Concurrent saves for the same session are last-write-wins.
type SessionStore interface {
	// Save overwrites or creates the conversation and stamps UpdatedAt.
	Save(ctx context.Context, conv *domain.Conversation) error

	// Load returns the conversation for a session, or nil when absent.
	Load(ctx context.Context, sessionID string) (*domain.Conversation, error)

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns session identifiers, optionally filtered by user.
	List(ctx context.Context, userID string) ([]string, error)

	// PurgeOlderThan deletes sessions whose UpdatedAt is older than the
	// cutoff and returns how many were removed. Maintenance only; never
	// invoked by request handling.
	PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int, error)

	// Close releases underlying resources.
	Close() error
}
