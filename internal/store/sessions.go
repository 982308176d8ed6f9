package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/streetpulse/streetpulse-backend/internal/models"
)

// TokenSigner issues the opaque token handed back to the client on check-in.
type TokenSigner interface {
	Sign(sessionID string, issued time.Time) (string, error)
}

// SessionRegistry tracks check-in sessions. Sessions are append-only for the
// lifetime of the process: there is no update, delete, or eviction. Unbounded
// growth is accepted MVP behavior; the gatekeeper's freshness window already
// bounds what a stale session can do.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*models.CheckInSession
	signer   TokenSigner
	now      func() time.Time
}

func NewSessionRegistry(signer TokenSigner) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*models.CheckInSession),
		signer:   signer,
		now:      time.Now,
	}
}

// Create registers a new check-in at the given location and returns the
// session with its signed token. Timestamp is fixed here and never refreshed;
// re-checking-in creates a new session.
func (r *SessionRegistry) Create(location models.GeoLocation, alias string) (*models.CheckInSession, error) {
	id := uuid.NewString()
	now := r.now()

	token, err := r.signer.Sign(id, now)
	if err != nil {
		return nil, err
	}

	session := &models.CheckInSession{
		ID:        id,
		Location:  location,
		Timestamp: now,
		Token:     token,
		Alias:     alias,
	}

	r.mu.Lock()
	r.sessions[id] = session
	r.mu.Unlock()

	return session, nil
}

// Get returns the session or nil if it never existed.
func (r *SessionRegistry) Get(id string) *models.CheckInSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// Count returns the number of sessions created so far.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
