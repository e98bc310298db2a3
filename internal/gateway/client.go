package gateway

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type connState int

const (
	stateConnecting connState = iota
	stateReady
	stateClosed
)

// Client is one websocket connection. Before authentication it has no
// session or user; both are minted during the handshake. The state field
// is owned by the read pump and never touched elsewhere.
type Client struct {
	conn *connWrapper
	gw   *Gateway

	send   chan []byte
	sendMu sync.Mutex
	closed bool

	state       connState
	SessionID   string
	UserID      string
	ConnectedAt time.Time
}

func newClient(conn *websocket.Conn, gw *Gateway, sendBuffer int) *Client {
	return &Client{
		conn:        newConnWrapper(conn),
		gw:          gw,
		send:        make(chan []byte, sendBuffer), // buffered so slow clients don't stall fanout
		state:       stateConnecting,
		ConnectedAt: time.Now(),
	}
}

// trySend enqueues a pre-marshaled frame without blocking. A full buffer
// means the peer is not draining; the frame is dropped, matching the
// bus's at-most-once contract.
func (c *Client) trySend(payload []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) sendJSON(v any) bool {
	payload, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return c.trySend(payload)
}

// closeSend stops the write pump. Safe to call more than once.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.gw.onDisconnect(c)
		c.closeSend()
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.gw.logClientError(c, err)
			}
			break
		}

		if !c.gw.handleFrame(c, raw) {
			break
		}
	}

	c.state = stateClosed
}

func (c *Client) writePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteRaw(payload); err != nil {
			break
		}
	}
}
