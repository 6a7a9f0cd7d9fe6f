package usecases

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrSessionBusy     = errors.New("rom is already open in another session, try again later")
	ErrSessionNotFound = errors.New("session not found")
)

// SessionStore keeps the live sessions of the process, at most one per ROM.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	byROM    map[int64]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		byROM:    make(map[int64]string),
	}
}

func (s *SessionStore) Add(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byROM[session.ROMID]; ok {
		return ErrSessionBusy
	}
	s.sessions[session.ID] = session
	s.byROM[session.ROMID] = session.ID
	return nil
}

func (s *SessionStore) Busy(romID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byROM[romID]
	return ok
}

func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[id]; ok {
		delete(s.byROM, session.ROMID)
		delete(s.sessions, id)
	}
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Collector exposes the number of open sessions to prometheus.
func (s *SessionStore) Collector() prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "gaitbase",
		Name:      "open_sessions",
		Help:      "Entry sessions currently open.",
	}, func() float64 {
		return float64(s.Len())
	})
}
