package signal

import (
	"time"

	"github.com/gorilla/websocket"
)

// keepalive caps inbound frame size and arms the idle deadline, which every
// pong pushes forward.
func (ctl *SignalWSController) keepalive(c *WsSignalConn) error {
	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	if err := c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait)); err != nil {
		return err
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})
	return nil
}

func (ctl *SignalWSController) ping(c *WsSignalConn) error {
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.opts.WriteWait))
}
