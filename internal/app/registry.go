package app

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/LuvellCode/WebRTC-Madness/internal/core"
	"github.com/rs/zerolog/log"
)

var ErrDuplicateSession = errors.New("duplicate session id")

// Registry owns every live session. It is the only cross-connection mutable
// state in the server; all mutation is exclusive and Snapshot never observes a
// half-applied Add or Remove.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*core.Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*core.Session),
	}
}

func (r *Registry) Add(sess *core.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sess.ID()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSession, sess.ID())
	}
	r.sessions[sess.ID()] = sess
	log.Info().Str("module", "app.registry").Str("sid", string(sess.ID())).Int("size", len(r.sessions)).Msg("session added")
	return nil
}

// Remove deletes sid and reports whether this call removed it.
// Removing an absent id is a no-op.
func (r *Registry) Remove(sid core.SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sid]; !ok {
		return false
	}
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Int("size", len(r.sessions)).Msg("session removed")
	return true
}

func (r *Registry) Get(sid core.SessionID) (*core.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[sid]
	return sess, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Snapshot returns the live sessions ordered by connection time, then id.
// The slice is owned by the caller.
func (r *Registry) Snapshot() []*core.Session {
	r.mu.RLock()
	out := make([]*core.Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		out = append(out, sess)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *core.Session) int {
		if c := a.ConnectedAt().Compare(b.ConnectedAt()); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID()), string(b.ID()))
	})
	return out
}
