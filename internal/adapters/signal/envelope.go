package signal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LuvellCode/WebRTC-Madness/internal/core"
)

// MessageType is the closed set of wire message types.
type MessageType string

const (
	MessageTypeConfirmID MessageType = "confirmId"
	MessageTypeJoin      MessageType = "join"
	MessageTypeOffer     MessageType = "offer"
	MessageTypeAnswer    MessageType = "answer"
	MessageTypeCandidate MessageType = "candidate"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeConfirmID, MessageTypeJoin, MessageTypeOffer, MessageTypeAnswer, MessageTypeCandidate:
		return true
	}
	return false
}

var (
	ErrMalformedJSON    = errors.New("malformed json")
	ErrInvalidStructure = errors.New("invalid envelope structure")
	ErrUnsupportedType  = errors.New("unsupported message type")
)

// ValidationError is returned by ParseEnvelope. Kind is one of the sentinel
// errors above, so callers can use errors.Is.
type ValidationError struct {
	Kind   error
	Type   string
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Type != "":
		return fmt.Sprintf("%v: %q", e.Kind, e.Type)
	case e.Reason != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
	default:
		return e.Kind.Error()
	}
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// Envelope is one inbound frame after validation. Payload holds the exact
// bytes the client sent for the payload object. Target is left raw until a
// handler asks for it, see TargetID.
type Envelope struct {
	Type    MessageType
	Payload json.RawMessage
	Target  json.RawMessage
}

// ParseEnvelope validates untrusted bytes into an Envelope. The payload shape
// is never inspected beyond being a JSON object.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Envelope{}, &ValidationError{Kind: ErrMalformedJSON}
	}

	var typ string
	rawType, ok := fields["type"]
	if !ok || json.Unmarshal(rawType, &typ) != nil {
		return Envelope{}, &ValidationError{Kind: ErrInvalidStructure, Reason: "type must be a string"}
	}
	payload, ok := fields["payload"]
	if !ok || !isObject(payload) {
		return Envelope{}, &ValidationError{Kind: ErrInvalidStructure, Reason: "payload must be an object"}
	}

	mt := MessageType(typ)
	if !mt.Valid() {
		return Envelope{}, &ValidationError{Kind: ErrUnsupportedType, Type: typ}
	}

	return Envelope{Type: mt, Payload: payload, Target: fields["target"]}, nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// TargetID accepts a bare id string or an object with an id field, which is
// what browser clients send ({id, name}). An absent or null target is "".
func (e Envelope) TargetID() (core.SessionID, error) {
	raw := bytes.TrimSpace(e.Target)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	var id string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", &ValidationError{Kind: ErrInvalidStructure, Reason: "target must be a session id"}
		}
		return core.SessionID(id), nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj.ID == "" {
		return "", &ValidationError{Kind: ErrInvalidStructure, Reason: "target must carry an id"}
	}
	return core.SessionID(obj.ID), nil
}
