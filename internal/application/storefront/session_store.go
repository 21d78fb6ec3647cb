package storefront

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AdamBejaoui/project-frontend/internal/domain/cart"
	"github.com/AdamBejaoui/project-frontend/internal/domain/checkout"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
	"github.com/AdamBejaoui/project-frontend/internal/domain/showcase"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/config"
)

// SessionState bundles the per-session aggregates: the cart, the checkout
// flow, and the image overlay. All access goes through WithSession, which
// serializes mutations per session; from any reader's perspective each
// mutation is atomic.
type SessionState struct {
	Cart    *cart.Cart
	Flow    *checkout.Flow
	Overlay *showcase.Overlay
}

// EvictFunc is called after a session's state has been dropped, outside the
// store's locks. The showcase service hooks this to tear down rotation tasks.
type EvictFunc func(sessionID uuid.UUID)

type sessionEntry struct {
	mu       sync.Mutex
	state    *SessionState
	lastSeen atomic.Int64 // unix nanos
}

// SessionStore owns all in-memory per-session state. Sessions are created
// lazily on first access (the signed token is the authority; memory only
// caches state) and evicted after the configured idle TTL by a cleanup loop.
// A process restart therefore yields empty carts.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionEntry

	ttl     time.Duration
	logger  *zap.Logger
	onEvict EvictFunc

	cleanupInterval time.Duration
	stopChan        chan struct{}
	stopOnce        sync.Once
	wg              sync.WaitGroup
}

// NewSessionStore creates a session store and starts its cleanup loop.
func NewSessionStore(cfg config.CartConfig, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &SessionStore{
		sessions:        make(map[uuid.UUID]*sessionEntry),
		ttl:             cfg.TTL,
		cleanupInterval: cfg.CleanupInterval,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

// SetEvictionHook registers the callback fired after a session is evicted.
// Must be called before traffic arrives; it is not synchronized.
func (s *SessionStore) SetEvictionHook(fn EvictFunc) {
	s.onEvict = fn
}

// Establish eagerly creates empty state for a freshly issued session.
func (s *SessionStore) Establish(sessionID uuid.UUID) error {
	if sessionID == uuid.Nil {
		return shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	_, err := s.entry(sessionID)
	return err
}

// WithSession runs fn with the session's state under the session's lock.
// Unknown sessions get fresh empty state: an evicted cart comes back empty,
// it does not come back as an error.
func (s *SessionStore) WithSession(sessionID uuid.UUID, fn func(state *SessionState) error) error {
	if sessionID == uuid.Nil {
		return shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}

	e, err := s.entry(sessionID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.state)
}

// withLiveSession runs fn under the session's lock only if state already
// exists. Rotation ticks use it so a tick racing an eviction cannot
// resurrect the session.
func (s *SessionStore) withLiveSession(sessionID uuid.UUID, fn func(state *SessionState) error) error {
	s.mu.Lock()
	e, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.state)
}

// ActiveSessions returns the number of live sessions.
func (s *SessionStore) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Evict drops a session's state immediately and fires the eviction hook.
func (s *SessionStore) Evict(sessionID uuid.UUID) {
	s.mu.Lock()
	_, found := s.sessions[sessionID]
	if found {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if found && s.onEvict != nil {
		s.onEvict(sessionID)
	}
}

// Close stops the cleanup loop. Session state is abandoned with the process.
func (s *SessionStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	return nil
}

// entry returns the live entry for the session, creating empty state on demand.
func (s *SessionStore) entry(sessionID uuid.UUID) (*sessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[sessionID]; ok {
		e.lastSeen.Store(time.Now().UnixNano())
		return e, nil
	}

	c, err := cart.NewCart(sessionID)
	if err != nil {
		return nil, err
	}
	f, err := checkout.NewFlow(sessionID)
	if err != nil {
		return nil, err
	}

	e := &sessionEntry{
		state: &SessionState{
			Cart: c,
			Flow: f,
		},
	}
	e.lastSeen.Store(time.Now().UnixNano())
	s.sessions[sessionID] = e

	s.logger.Debug("session state created", zap.String("session_id", sessionID.String()))
	return e, nil
}

// cleanupLoop periodically drops sessions idle beyond the TTL.
func (s *SessionStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.evictIdle()
		}
	}
}

// evictIdle removes sessions whose last access is older than the TTL.
// Eviction hooks run outside the store lock.
func (s *SessionStore) evictIdle() {
	cutoff := time.Now().Add(-s.ttl).UnixNano()

	s.mu.Lock()
	var evicted []uuid.UUID
	for id, e := range s.sessions {
		if e.lastSeen.Load() < cutoff {
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	s.mu.Unlock()

	if len(evicted) == 0 {
		return
	}

	for _, id := range evicted {
		if s.onEvict != nil {
			s.onEvict(id)
		}
	}
	s.logger.Info("evicted idle sessions", zap.Int("count", len(evicted)))
}
