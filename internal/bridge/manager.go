// Package bridge owns the publish/subscribe session with the robot-control
// middleware (a rosbridge v2 server reached over a websocket).
//
// A Manager holds at most one open connection. Every open advertises the
// fixed command topics before returning. Nothing is queued or retried: a
// publish against a closed connection fails immediately.
package bridge

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Connection is the Manager's single socket and the address it was opened
// against. Callers only ever see copies; the live handle stays behind the
// Manager's lock.
type Connection struct {
	Address Address
	sock    Conn
	open    bool
}

func (c *Connection) IsOpen() bool { return c != nil && c.open }

type Options struct {
	Dialer      Dialer
	DialTimeout time.Duration
	Logger      *log.Logger
}

// Manager owns the connection handle. All methods are safe to call from
// several goroutines; Open, Close, Reopen and Publish serialize.
type Manager struct {
	dialer      Dialer
	dialTimeout time.Duration
	log         *log.Logger

	mu   sync.Mutex
	conn *Connection
	// last address that opened successfully, or the initial one
	addr Address
}

func NewManager(initial Address, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	d := opts.Dialer
	if d == nil {
		d = WebsocketDialer{HandshakeTimeout: opts.DialTimeout}
	}
	return &Manager{dialer: d, dialTimeout: opts.DialTimeout, log: logger, addr: initial}
}

// Address returns the last-known-good address.
func (m *Manager) Address() Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addr
}

func (m *Manager) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn.IsOpen()
}

// Open dials addr and advertises every topic in Topics. The returned
// Connection is a snapshot taken at open; use IsOpen for the live state.
func (m *Manager) Open(ctx context.Context, addr Address) (*Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn.IsOpen() {
		return nil, ErrAlreadyOpen
	}
	c, err := m.openLocked(ctx, addr)
	if err != nil {
		return nil, err
	}
	snap := *c
	return &snap, nil
}

// Close is a no-op when nothing is open.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked()
}

// Reopen closes the current connection, if any, and opens addr. On failure
// no connection is open and Address keeps the previous value.
func (m *Manager) Reopen(ctx context.Context, addr Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.closeLocked(); err != nil {
		m.log.Printf("warn: close before reopen: %v", err)
	}
	_, err := m.openLocked(ctx, addr)
	return err
}

// Publish hands msg to the open socket. Success does not mean delivery.
func (m *Manager) Publish(topic string, msg any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.conn.IsOpen() {
		return ErrNotConnected
	}
	if _, ok := LookupTopic(topic); !ok {
		return fmt.Errorf("publish %s: %w", topic, ErrNotAdvertised)
	}
	op := publishOp{Op: opPublish, ID: "publish:" + uuid.NewString(), Topic: topic, Msg: msg}
	if err := m.conn.sock.WriteJSON(op); err != nil {
		// the socket is stale; drop it rather than retry
		addr := m.conn.Address
		_ = m.conn.sock.Close()
		m.conn.open = false
		m.log.Printf("publish %s failed, connection to %s dropped: %v", topic, addr, err)
		return fmt.Errorf("publish %s: %w", topic, &ConnectionError{Address: addr, Err: err})
	}
	return nil
}

func (m *Manager) openLocked(ctx context.Context, addr Address) (*Connection, error) {
	if m.dialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.dialTimeout)
		defer cancel()
	}
	url := addr.String()
	m.log.Printf("connecting to %s", url)
	sock, err := m.dialer.Dial(ctx, url)
	if err != nil {
		return nil, &ConnectionError{Address: addr, Err: err}
	}
	for _, t := range Topics {
		op := advertiseOp{Op: opAdvertise, ID: "advertise:" + uuid.NewString(), Topic: t.Name, Type: t.Type()}
		if err := sock.WriteJSON(op); err != nil {
			_ = sock.Close()
			return nil, &ConnectionError{Address: addr, Err: fmt.Errorf("advertise %s: %w", t.Name, err)}
		}
	}
	m.conn = &Connection{Address: addr, sock: sock, open: true}
	m.addr = addr
	m.log.Printf("connected to %s, advertised %d topics", url, len(Topics))
	return m.conn, nil
}

func (m *Manager) closeLocked() error {
	if !m.conn.IsOpen() {
		return nil
	}
	c := m.conn
	c.open = false
	for _, t := range Topics {
		op := unadvertiseOp{Op: opUnadvertise, ID: "unadvertise:" + uuid.NewString(), Topic: t.Name}
		if err := c.sock.WriteJSON(op); err != nil {
			break
		}
	}
	if err := c.sock.Close(); err != nil {
		return fmt.Errorf("close %s: %w", c.Address, err)
	}
	m.log.Printf("closed connection to %s", c.Address)
	return nil
}
