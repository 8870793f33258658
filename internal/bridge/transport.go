package bridge

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is one established socket to the middleware.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Dialer opens a Conn. One attempt per call; no retries.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebsocketDialer dials rosbridge over gorilla/websocket.
type WebsocketDialer struct {
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
}

func (d WebsocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: d.HandshakeTimeout,
	}
	c, resp, err := dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	wc := &wsConn{c: c, writeTimeout: d.WriteTimeout}
	go wc.drain()
	return wc, nil
}

type wsConn struct {
	c            *websocket.Conn
	writeTimeout time.Duration
	dead         atomic.Bool
}

// drain discards inbound frames so control frames keep being processed, and
// marks the socket dead once the peer goes away.
func (w *wsConn) drain() {
	for {
		if _, _, err := w.c.ReadMessage(); err != nil {
			w.dead.Store(true)
			return
		}
	}
}

func (w *wsConn) WriteJSON(v any) error {
	if w.dead.Load() {
		return websocket.ErrCloseSent
	}
	if w.writeTimeout > 0 {
		_ = w.c.SetWriteDeadline(time.Now().Add(w.writeTimeout))
	}
	return w.c.WriteJSON(v)
}

func (w *wsConn) Close() error {
	if !w.dead.Load() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = w.c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	}
	w.dead.Store(true)
	return w.c.Close()
}
