package signal

import (
	"context"

	"github.com/LuvellCode/WebRTC-Madness/internal/core"
	"github.com/rs/zerolog/log"
)

// handleJoin announces the sender to everybody else. The sender gets no reply.
func (h *signalingHandlers) handleJoin(ctx context.Context, args Args) error {
	sess := args.Session
	sess.Advance(core.StateJoined)
	log.Info().Str("module", "signal").Str("sid", string(sess.ID())).Str("name", sess.Name()).Msg("join")

	frame, err := encodeJSON(userMessage{
		Type:    MessageTypeJoin,
		Payload: userPayload{User: sess.Identity()},
	})
	if err != nil {
		return err
	}
	h.relay.BroadcastExceptSender(ctx, sess.ID(), frame)
	return nil
}
