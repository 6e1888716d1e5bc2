package signal

import (
	"context"
	"fmt"

	"github.com/LuvellCode/WebRTC-Madness/internal/app"
	"github.com/LuvellCode/WebRTC-Madness/internal/core"
	"github.com/rs/zerolog/log"
)

// Dispatcher turns one inbound frame into one handler call. Every failure is
// contained to the frame that caused it.
type Dispatcher struct {
	Sessions *app.Registry
	Handlers *HandlerRegistry
	// Limiter is optional. It only counts frames whose registration sets
	// Settings.RateLimited.
	Limiter *RateLimiter
	// StrictHandshake drops messages whose registration requires an
	// identified sender when the sender has not sent confirmId yet.
	StrictHandshake bool
}

func (d *Dispatcher) Dispatch(ctx context.Context, sess *core.Session, data []byte) {
	sid := string(sess.ID())
	env, err := ParseEnvelope(data)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", sid).Msg("invalid frame")
		return
	}

	reg, ok := d.Handlers.Resolve(env.Type)
	if !ok {
		log.Error().Str("module", "signal").Str("sid", sid).Str("type", string(env.Type)).Msg("no handler for message type")
		return
	}

	if reg.Settings.RateLimited && d.Limiter != nil && !d.Limiter.Allow(sess.ID()) {
		log.Warn().Str("module", "signal").Str("sid", sid).Str("type", string(env.Type)).Msg("rate limit exceeded, frame dropped")
		return
	}

	if d.StrictHandshake && reg.Settings.RequireIdentified && sess.State() == core.StateConnected {
		log.Warn().Str("module", "signal").Str("sid", sid).Str("type", string(env.Type)).Msg("message before confirmId, dropped")
		return
	}

	args := Args{}
	for _, a := range reg.RequiredArgs {
		switch a {
		case ArgSession:
			args.Session = sess
		case ArgPayload:
			args.Payload = env.Payload
		case ArgMessageType:
			args.MessageType = env.Type
		case ArgTarget:
			tid, err := env.TargetID()
			if err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("sid", sid).Str("type", string(env.Type)).Msg("invalid target")
				return
			}
			if tid == "" {
				log.Warn().Str("module", "signal").Str("sid", sid).Str("type", string(env.Type)).Msg("missing target")
				return
			}
			target, ok := d.Sessions.Get(tid)
			if !ok {
				log.Warn().Str("module", "signal").Str("sid", sid).Str("target", string(tid)).Str("type", string(env.Type)).Msg("target gone")
				return
			}
			args.Target = target
		}
	}

	if err := d.invoke(ctx, reg, args); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", sid).Str("type", string(env.Type)).Msg("handler failed")
		return
	}
	log.Info().Str("module", "signal").Str("sid", sid).Str("name", sess.Name()).Str("type", string(env.Type)).Msg("message handled")
}

// invoke is the only place a handler panic is recovered.
func (d *Dispatcher) invoke(ctx context.Context, reg Registration, args Args) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	if reg.Settings.LogExecution {
		log.Debug().Str("module", "signal").Str("type", string(reg.MessageType)).Interface("args", reg.RequiredArgs).Msg("executing handler")
	}
	return reg.Handler(ctx, args)
}
