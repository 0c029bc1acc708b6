package services

import (
	"github.com/maxaizer/job-finder/internal/metrics"
	"sync"
	"time"
)

type SessionFactory func() (*Session, error)

type registeredSession struct {
	session      *Session
	lastActivity time.Time
}

// SessionRegistry keeps one session per chat and creates them on demand.
type SessionRegistry struct {
	mu       sync.Mutex
	factory  SessionFactory
	sessions map[int64]*registeredSession
	now      func() time.Time
}

func NewSessionRegistry(factory SessionFactory) *SessionRegistry {
	return &SessionRegistry{
		factory:  factory,
		sessions: make(map[int64]*registeredSession),
		now:      time.Now,
	}
}

func (r *SessionRegistry) Get(chatID int64) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if registered, ok := r.sessions[chatID]; ok {
		registered.lastActivity = r.now()
		return registered.session, nil
	}

	session, err := r.factory()
	if err != nil {
		return nil, err
	}
	r.sessions[chatID] = &registeredSession{session: session, lastActivity: r.now()}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return session, nil
}

func (r *SessionRegistry) Remove(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if registered, ok := r.sessions[chatID]; ok {
		registered.session.Close()
		delete(r.sessions, chatID)
	}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
}

// RemoveIdle closes sessions without activity since idleSince.
func (r *SessionRegistry) RemoveIdle(idleSince time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for chatID, registered := range r.sessions {
		if registered.lastActivity.Before(idleSince) {
			registered.session.Close()
			delete(r.sessions, chatID)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return removed
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *SessionRegistry) CloseAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	closed := len(r.sessions)
	for chatID, registered := range r.sessions {
		registered.session.Close()
		delete(r.sessions, chatID)
	}
	metrics.ActiveSessions.Set(0)
	return closed
}
