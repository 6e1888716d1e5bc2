package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/LuvellCode/WebRTC-Madness/internal/app"
	"github.com/LuvellCode/WebRTC-Madness/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Options tunes one WebSocket connection.
type Options struct {
	ReadLimit  int64
	PingPeriod time.Duration
	PongWait   time.Duration
	WriteWait  time.Duration
	SendQueue  int
}

func (o Options) withDefaults() Options {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 32768
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = o.PongWait * 9 / 10
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 5 * time.Second
	}
	if o.SendQueue <= 0 {
		o.SendQueue = 64
	}
	return o
}

type SignalWSController struct {
	Sessions   *app.Registry
	Dispatcher *Dispatcher

	opts     Options
	upgrader websocket.Upgrader
}

func NewSignalWSController(sessions *app.Registry, dispatcher *Dispatcher, opts Options) *SignalWSController {
	return &SignalWSController{
		Sessions:   sessions,
		Dispatcher: dispatcher,
		opts:       opts.withDefaults(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	token := c.GetString("client_token")
	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ctl.Serve(ctx, ws, token)
}

// Serve registers a session for an upgraded connection and starts its pumps.
// It returns immediately; the session lives until the connection closes or
// ctx is done.
func (ctl *SignalWSController) Serve(ctx context.Context, ws *websocket.Conn, clientToken string) {
	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.opts.SendQueue),
	}
	sess := core.NewSession(core.SessionID(uuid.NewString()), conn, clientToken, time.Now())
	if err := ctl.Sessions.Add(sess); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("register session")
		conn.Close()
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sess.ID())).Str("client_token", clientToken).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sess, conn)
}

// CloseAll closes every live connection. Each read loop then removes its own
// session.
func (ctl *SignalWSController) CloseAll() {
	for _, sess := range ctl.Sessions.Snapshot() {
		sess.Signal().Close()
	}
}

func (ctl *SignalWSController) disconnect(sess *core.Session) {
	if ctl.Dispatcher.Limiter != nil {
		ctl.Dispatcher.Limiter.Forget(sess.ID())
	}
	if ctl.Sessions.Remove(sess.ID()) {
		log.Info().Str("module", "signal").Str("sid", string(sess.ID())).Str("name", sess.Name()).Msg("client disconnected")
	}
}
