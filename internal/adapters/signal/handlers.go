package signal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/LuvellCode/WebRTC-Madness/internal/core"
	"github.com/rs/zerolog/log"
)

// Arg names one value a handler may ask the dispatcher for.
type Arg string

const (
	ArgSession     Arg = "session"
	ArgPayload     Arg = "payload"
	ArgTarget      Arg = "target"
	ArgMessageType Arg = "messageType"
)

var capabilities = []Arg{ArgSession, ArgPayload, ArgTarget, ArgMessageType}

var (
	ErrUnsupportedArg = errors.New("unsupported handler argument")
	ErrDuplicateArg   = errors.New("duplicate handler argument")
	ErrNilHandler     = errors.New("nil handler")
)

// Args is the argument record passed to every handler. Only the fields named
// in the registration's required args are set; the rest stay zero.
type Args struct {
	Session     *core.Session
	Payload     json.RawMessage
	Target      *core.Session
	MessageType MessageType
}

type Handler func(ctx context.Context, args Args) error

type Settings struct {
	// LogExecution emits a debug line before each invocation.
	LogExecution bool
	// RequireIdentified drops the message when the sender has not completed
	// confirmId yet and the dispatcher runs with a strict handshake.
	RequireIdentified bool
	// RateLimited counts the message against the sender's inbound limit.
	RateLimited bool
}

type Registration struct {
	MessageType  MessageType
	Handler      Handler
	RequiredArgs []Arg
	Settings     Settings
}

func (r Registration) requires(a Arg) bool {
	return slices.Contains(r.RequiredArgs, a)
}

// HandlerRegistry maps message types to handlers. It is filled once at
// startup; Resolve is safe for concurrent use.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[MessageType]Registration
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[MessageType]Registration)}
}

// Register validates required against the capability set and stores the
// handler. A second registration for the same type replaces the first.
func (hr *HandlerRegistry) Register(t MessageType, h Handler, required []Arg, settings Settings) error {
	if !t.Valid() {
		return &ValidationError{Kind: ErrUnsupportedType, Type: string(t)}
	}
	if h == nil {
		return fmt.Errorf("%w for %s", ErrNilHandler, t)
	}
	args := make([]Arg, 0, len(required))
	for _, a := range required {
		if !slices.Contains(capabilities, a) {
			return fmt.Errorf("%w %q for %s (allowed: %v)", ErrUnsupportedArg, a, t, capabilities)
		}
		if slices.Contains(args, a) {
			return fmt.Errorf("%w %q for %s", ErrDuplicateArg, a, t)
		}
		args = append(args, a)
	}

	hr.mu.Lock()
	defer hr.mu.Unlock()
	if _, ok := hr.handlers[t]; ok {
		log.Warn().Str("module", "signal").Str("type", string(t)).Msg("handler re-registered, previous one replaced")
	}
	hr.handlers[t] = Registration{MessageType: t, Handler: h, RequiredArgs: args, Settings: settings}
	log.Debug().Str("module", "signal").Str("type", string(t)).Interface("args", args).Msg("registered handler")
	return nil
}

// MustRegister is Register for the startup table: an invalid handler makes
// the server refuse to start.
func (hr *HandlerRegistry) MustRegister(t MessageType, h Handler, required []Arg, settings Settings) {
	if err := hr.Register(t, h, required, settings); err != nil {
		panic(err)
	}
}

func (hr *HandlerRegistry) Resolve(t MessageType) (Registration, bool) {
	hr.mu.RLock()
	defer hr.mu.RUnlock()
	reg, ok := hr.handlers[t]
	return reg, ok
}

// Types lists registered message types, sorted.
func (hr *HandlerRegistry) Types() []MessageType {
	hr.mu.RLock()
	out := make([]MessageType, 0, len(hr.handlers))
	for t := range hr.handlers {
		out = append(out, t)
	}
	hr.mu.RUnlock()
	slices.Sort(out)
	return out
}
