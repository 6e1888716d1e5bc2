package signal

import (
	"context"
	"errors"
	"testing"

	"github.com/LuvellCode/WebRTC-Madness/internal/app"
)

func noopHandler(context.Context, Args) error { return nil }

func TestRegisterRejectsUnsupportedArg(t *testing.T) {
	t.Parallel()
	hr := NewHandlerRegistry()

	err := hr.Register(MessageTypeJoin, noopHandler, []Arg{ArgSession, "user"}, Settings{})
	if !errors.Is(err, ErrUnsupportedArg) {
		t.Fatalf("expected ErrUnsupportedArg, got %v", err)
	}
	if _, ok := hr.Resolve(MessageTypeJoin); ok {
		t.Fatalf("rejected handler was stored")
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		typ  MessageType
		h    Handler
		args []Arg
		want error
	}{
		{name: "duplicate arg", typ: MessageTypeJoin, h: noopHandler, args: []Arg{ArgSession, ArgSession}, want: ErrDuplicateArg},
		{name: "nil handler", typ: MessageTypeJoin, h: nil, args: nil, want: ErrNilHandler},
		{name: "unknown type", typ: "bogus", h: noopHandler, args: nil, want: ErrUnsupportedType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := NewHandlerRegistry().Register(tc.typ, tc.h, tc.args, Settings{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("err=%v, want %v", err, tc.want)
			}
		})
	}
}

func TestMustRegisterPanicsOnBadTable(t *testing.T) {
	t.Parallel()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrUnsupportedArg) {
			t.Fatalf("expected panic with ErrUnsupportedArg, got %v", r)
		}
	}()
	NewHandlerRegistry().MustRegister(MessageTypeOffer, noopHandler, []Arg{"websocket"}, Settings{})
}

func TestRegisterLastWins(t *testing.T) {
	t.Parallel()
	hr := NewHandlerRegistry()
	first := errors.New("first")
	second := errors.New("second")

	hr.MustRegister(MessageTypeJoin, func(context.Context, Args) error { return first }, []Arg{ArgSession}, Settings{})
	hr.MustRegister(MessageTypeJoin, func(context.Context, Args) error { return second }, []Arg{ArgPayload}, Settings{LogExecution: true})

	reg, ok := hr.Resolve(MessageTypeJoin)
	if !ok {
		t.Fatalf("Resolve: not found")
	}
	if err := reg.Handler(context.Background(), Args{}); !errors.Is(err, second) {
		t.Fatalf("handler returned %v, want second", err)
	}
	if len(reg.RequiredArgs) != 1 || reg.RequiredArgs[0] != ArgPayload || !reg.Settings.LogExecution {
		t.Fatalf("registration not replaced: %+v", reg)
	}
}

func TestSignalingHandlersStayInCapabilitySet(t *testing.T) {
	t.Parallel()
	hr := NewSignalingHandlers(app.NewRelay(app.NewRegistry(), nil, 1), false)

	want := []MessageType{MessageTypeAnswer, MessageTypeCandidate, MessageTypeConfirmID, MessageTypeJoin, MessageTypeOffer}
	got := hr.Types()
	if len(got) != len(want) {
		t.Fatalf("types=%v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("types=%v, want %v", got, want)
		}
	}

	allowed := map[Arg]bool{ArgSession: true, ArgPayload: true, ArgTarget: true, ArgMessageType: true}
	for _, typ := range got {
		reg, _ := hr.Resolve(typ)
		for _, a := range reg.RequiredArgs {
			if !allowed[a] {
				t.Fatalf("%s requires %q outside the capability set", typ, a)
			}
		}
	}
}
