package signal

import (
	"context"
	"fmt"
)

// handleNegotiation forwards offer, answer and candidate payloads to the
// target untouched, tagged with the sender's identity.
func (h *signalingHandlers) handleNegotiation(ctx context.Context, args Args) error {
	frame, err := encodeRelay(args.MessageType, args.Payload, args.Session.Identity())
	if err != nil {
		return err
	}
	if err := h.relay.Unicast(ctx, args.Target.ID(), frame); err != nil {
		return fmt.Errorf("relay %s: %w", args.MessageType, err)
	}
	return nil
}
