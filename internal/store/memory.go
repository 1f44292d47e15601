package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/conduitlabs/conduit/internal/domain"
)

// MemoryStore is the process-lifetime in-memory session store used for
// development and tests. Access is guarded by a RWMutex, but two requests
// racing on the same session still resolve last-write-wins.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Conversation
}

var _ SessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]*domain.Conversation{}}
}

// Save stores a deep copy of the conversation and stamps UpdatedAt.
func (s *MemoryStore) Save(ctx context.Context, conv *domain.Conversation) error {
	conv.UpdatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[conv.SessionID] = conv.Clone()
	return nil
}

// Load returns a deep copy of the stored conversation, or nil when absent.
func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return conv.Clone(), nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// List returns session identifiers, sorted for determinism.
func (s *MemoryStore) List(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id, conv := range s.sessions {
		if userID != "" && conv.UserID != userID {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// PurgeOlderThan deletes sessions not updated within maxAge.
func (s *MemoryStore) PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, conv := range s.sessions {
		if conv.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
