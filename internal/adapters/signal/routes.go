package signal

import "github.com/LuvellCode/WebRTC-Madness/internal/app"

type signalingHandlers struct {
	relay *app.Relay
}

// NewSignalingHandlers builds the startup handler table. It panics on an
// invalid registration.
func NewSignalingHandlers(relay *app.Relay, logExecution bool) *HandlerRegistry {
	h := &signalingHandlers{relay: relay}
	hr := NewHandlerRegistry()

	hr.MustRegister(MessageTypeConfirmID, h.handleConfirmID,
		[]Arg{ArgSession, ArgPayload},
		Settings{LogExecution: logExecution, RateLimited: true})
	hr.MustRegister(MessageTypeJoin, h.handleJoin,
		[]Arg{ArgSession},
		Settings{LogExecution: logExecution, RequireIdentified: true, RateLimited: true})

	// Negotiation bursts (trickle ICE) are relayed without a limit.
	for _, t := range []MessageType{MessageTypeOffer, MessageTypeAnswer, MessageTypeCandidate} {
		hr.MustRegister(t, h.handleNegotiation,
			[]Arg{ArgSession, ArgTarget, ArgPayload, ArgMessageType},
			Settings{LogExecution: logExecution, RequireIdentified: true})
	}
	return hr
}
