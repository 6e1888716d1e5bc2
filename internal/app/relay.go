package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/LuvellCode/WebRTC-Madness/internal/core"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

const defaultBroadcastWorkers = 16

var ErrTargetGone = errors.New("target session gone")

// BroadcastResult reports delivery stats. Err joins the per-recipient
// failures and is meant for logging only.
type BroadcastResult struct {
	SentTo  int
	Dropped []core.SessionID
	Err     error
}

// Relay delivers encoded frames to sessions without looking inside them.
// A missing or broken recipient never affects the other recipients.
type Relay struct {
	registry *Registry
	policy   Policy
	workers  int
}

func NewRelay(registry *Registry, policy Policy, workers int) *Relay {
	if policy == nil {
		policy = SimplePolicy{Action: KickSession}
	}
	if workers < 1 {
		workers = defaultBroadcastWorkers
	}
	return &Relay{registry: registry, policy: policy, workers: workers}
}

// Unicast queues f for target. It returns ErrTargetGone when target is not
// registered, or the send error after the backpressure policy has run.
func (r *Relay) Unicast(ctx context.Context, target core.SessionID, f core.Frame) error {
	sess, ok := r.registry.Get(target)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTargetGone, target)
	}
	return r.deliver(ctx, sess, f)
}

// BroadcastExceptSender fans f out to every live session but sender.
// Sends run concurrently and each one is isolated from the others.
func (r *Relay) BroadcastExceptSender(ctx context.Context, sender core.SessionID, f core.Frame) BroadcastResult {
	var (
		mu  sync.Mutex
		res BroadcastResult
	)
	p := pool.New().WithErrors().WithMaxGoroutines(r.workers)
	for _, sess := range r.registry.Snapshot() {
		if sess.ID() == sender {
			continue
		}
		p.Go(func() error {
			err := r.deliver(ctx, sess, f)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Dropped = append(res.Dropped, sess.ID())
				return fmt.Errorf("%s: %w", sess.ID(), err)
			}
			res.SentTo++
			return nil
		})
	}
	res.Err = p.Wait()

	ev := log.Debug()
	if res.Err != nil {
		ev = log.Warn().Err(res.Err)
	}
	ev.Str("module", "app.relay").Str("from", string(sender)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *Relay) deliver(ctx context.Context, sess *core.Session, f core.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := sess.Signal().TrySend(f)
	if err == nil {
		return nil
	}
	if errors.Is(err, core.ErrBackpressure) {
		action := r.policy.OnBackPressure(sess)
		log.Warn().Str("module", "app.relay").Str("sid", string(sess.ID())).Str("action", action.String()).Msg("backpressure")
		if action == KickSession {
			sess.Signal().Close()
		}
	}
	return err
}
