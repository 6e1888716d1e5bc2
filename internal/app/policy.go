package app

import (
	"fmt"

	"github.com/LuvellCode/WebRTC-Madness/internal/core"
)

type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	KickSession
)

func (a BackpressureAction) String() string {
	switch a {
	case DropFrame:
		return "drop"
	case KickSession:
		return "kick"
	default:
		return "unknown"
	}
}

// ParseBackpressureAction maps the config value ("drop" or "kick").
func ParseBackpressureAction(s string) (BackpressureAction, error) {
	switch s {
	case "drop":
		return DropFrame, nil
	case "kick":
		return KickSession, nil
	default:
		return 0, fmt.Errorf("unknown backpressure policy %q", s)
	}
}

// Policy decides what happens to a session whose outbound queue is full.
type Policy interface {
	OnBackPressure(sess *core.Session) BackpressureAction
}

type SimplePolicy struct {
	Action BackpressureAction
}

func (p SimplePolicy) OnBackPressure(*core.Session) BackpressureAction {
	return p.Action
}
