package signal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LuvellCode/WebRTC-Madness/internal/core"
	"github.com/rs/zerolog/log"
)

type confirmIDPayload struct {
	Name json.RawMessage `json:"name"`
}

// handleConfirmID is the identity handshake: store the name the client sent
// and reply with the server-assigned id. Calling it again renames. A name
// that is not a string leaves the current one in place; the reply is sent
// either way.
func (h *signalingHandlers) handleConfirmID(ctx context.Context, args Args) error {
	sess := args.Session
	sid := string(sess.ID())

	var p confirmIDPayload
	if err := json.Unmarshal(args.Payload, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", sid).Msg("confirmId payload ignored")
	}
	if len(p.Name) > 0 && string(p.Name) != "null" {
		var name string
		if err := json.Unmarshal(p.Name, &name); err != nil {
			log.Warn().Str("module", "signal").Str("sid", sid).RawJSON("name", p.Name).Msg("name is not a string, keeping previous")
		} else {
			sess.Rename(name)
		}
	}
	sess.Advance(core.StateIdentified)
	log.Info().Str("module", "signal").Str("sid", sid).Str("name", sess.Name()).Msg("handshake, sending id back")

	frame, err := encodeJSON(userMessage{
		Type:    MessageTypeConfirmID,
		Payload: userPayload{User: sess.Identity()},
	})
	if err != nil {
		return err
	}
	if err := h.relay.Unicast(ctx, sess.ID(), frame); err != nil {
		return fmt.Errorf("confirmId reply: %w", err)
	}
	return nil
}
