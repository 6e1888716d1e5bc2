package signal

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/LuvellCode/WebRTC-Madness/internal/core"
	"github.com/LuvellCode/WebRTC-Madness/internal/domain"
)

type userPayload struct {
	User domain.User `json:"user"`
}

type userMessage struct {
	Type    MessageType `json:"type"`
	Payload userPayload `json:"payload"`
}

func encodeJSON(v any) (core.Frame, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// encodeRelay builds {"type":..,"payload":<raw>,"from":{id,name}} by hand.
// json.Marshal would compact and HTML-escape a RawMessage, and the payload
// has to reach the target exactly as the sender wrote it.
func encodeRelay(t MessageType, payload json.RawMessage, from domain.User) (core.Frame, error) {
	typ, err := encodeJSON(t)
	if err != nil {
		return nil, fmt.Errorf("encode type: %w", err)
	}
	sender, err := encodeJSON(from)
	if err != nil {
		return nil, fmt.Errorf("encode sender: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(payload) + len(typ) + len(sender) + 32)
	buf.WriteString(`{"type":`)
	buf.Write(typ)
	buf.WriteString(`,"payload":`)
	buf.Write(payload)
	buf.WriteString(`,"from":`)
	buf.Write(sender)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
