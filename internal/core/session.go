package core

import (
	"sync"
	"time"

	"github.com/LuvellCode/WebRTC-Madness/internal/domain"
)

type SessionID string

// State is the handshake progress of one connection.
type State int

const (
	StateConnected State = iota
	StateIdentified
	StateJoined
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateIdentified:
		return "identified"
	case StateJoined:
		return "joined"
	default:
		return "unknown"
	}
}

// Session binds one connected client to its transport endpoint.
// id, transport and connectedAt never change; name and state are guarded by mu
// so a broadcast snapshot always reads a consistent identity.
type Session struct {
	id          SessionID
	conn        SignalConnection
	connectedAt time.Time
	clientToken string

	mu    sync.RWMutex
	name  string
	state State
}

func NewSession(id SessionID, conn SignalConnection, clientToken string, connectedAt time.Time) *Session {
	return &Session{
		id:          id,
		conn:        conn,
		clientToken: clientToken,
		connectedAt: connectedAt,
	}
}

func (s *Session) ID() SessionID            { return s.id }
func (s *Session) Signal() SignalConnection { return s.conn }
func (s *Session) ConnectedAt() time.Time   { return s.connectedAt }

// ClientToken is the browser cookie token, used for log correlation only.
func (s *Session) ClientToken() string { return s.clientToken }

func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity returns the public {id, name} view sent to other peers.
func (s *Session) Identity() domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.User{ID: domain.UserID(s.id), Name: s.name}
}

// Rename stores the normalized name and returns it.
func (s *Session) Rename(raw string) string {
	name := domain.NormalizeName(raw)
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
	return name
}

// Advance moves the session forward to next. Moving backwards is a no-op,
// so renaming a joined session keeps it joined.
func (s *Session) Advance(next State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if next > s.state {
		s.state = next
	}
	return s.state
}
