package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lk16/reversi/internal/search"
)

// Store holds all live sessions.
type Store struct {
	engine *search.Engine

	mutex    sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewStore creates an empty Store whose sessions use engine for computer moves.
func NewStore(engine *search.Engine) *Store {
	return &Store{
		engine:   engine,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create starts a new game.
func (s *Store) Create(humans Humans, depth int) (*Session, error) {
	if err := search.ValidateDepth(depth); err != nil {
		return nil, err
	}

	session := newSession(humans, depth, s.engine)

	s.mutex.Lock()
	s.sessions[session.id] = session
	s.mutex.Unlock()

	slog.Debug("Created game", "id", session.id, "human", humans, "depth", depth)
	return session, nil
}

// Get looks up a session by its id.
func (s *Store) Get(id string) (*Session, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	session, ok := s.sessions[parsed]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return session, nil
}

// Delete removes a session.
func (s *Store) Delete(id string) error {
	session, err := s.Get(id)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	delete(s.sessions, session.id)
	s.mutex.Unlock()

	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.sessions)
}

// Prune removes sessions that were not used for maxIdle and returns how many were removed.
func (s *Store) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}

	return removed
}

// PruneEvery calls Prune every interval until ctx ends.
func (s *Store) PruneEvery(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Prune(maxIdle); removed > 0 {
				slog.Info("Removed idle games", "count", removed, "remaining", s.Len())
			}
		}
	}
}
