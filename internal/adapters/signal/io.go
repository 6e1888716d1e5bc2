package signal

import (
	"context"
	"time"

	"github.com/LuvellCode/WebRTC-Madness/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ticker.C:
			if err := ctl.ping(c); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump is the per-connection dispatch loop. Frames are handled in the
// order they arrive; only a transport error ends the loop.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, sess *core.Session, c *WsSignalConn) {
	sid := string(sess.ID())
	defer func() {
		log.Debug().Str("module", "signal").Str("sid", sid).Msg("readPump closing")
		cancel()
		c.Close()
		ctl.disconnect(sess)
	}()

	if err := ctl.keepalive(c); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", sid).Msg("readPump keepalive setup")
		return
	}

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn().Err(err).Str("module", "signal").Str("sid", sid).Msg("readPump read error")
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		if msgType != websocket.TextMessage {
			log.Warn().Str("module", "signal").Str("sid", sid).Msg("non-text frame dropped")
			continue
		}
		ctl.Dispatcher.Dispatch(ctx, sess, data)
	}
}
