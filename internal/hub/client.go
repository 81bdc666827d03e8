package hub

import (
	"encoding/json"
	"slices"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/soar/XRControllerView/internal/controls"
)

const sendBuffer = 256

// Client represents a connected WebSocket client.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	hands  []controls.Handedness // empty means every hand
	closed bool
}

// NewClient creates a new Client attached to the hub.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// Subscribe limits the client to updates for hands. No hands means all.
func (c *Client) Subscribe(hands []controls.Handedness) {
	c.mu.Lock()
	c.hands = slices.Clone(hands)
	c.mu.Unlock()
}

// Hands returns the current subscription.
func (c *Client) Hands() []controls.Handedness {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.hands)
}

// Wants reports whether updates for hand reach this client. Entities
// without a hand reach every client.
func (c *Client) Wants(hand controls.Handedness) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.hands) == 0 || hand == controls.HandUnknown {
		return true
	}
	return slices.Contains(c.hands, hand)
}

func (c *Client) trySend(msg []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// WritePump sends messages from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	defer func() {
		c.conn.Close()
	}()

	for msg := range c.send {
		err := c.conn.WriteMessage(websocket.TextMessage, msg)
		if err != nil {
			break
		}
	}
}

// ReadPump reads messages from the WebSocket and handles client commands.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var clientMsg ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			c.hub.logger.Warn("bad viewer message", "error", err)
			continue
		}

		switch clientMsg.Type {
		case "subscribe":
			hands, ok := parseHands(clientMsg.Hands)
			if !ok {
				c.hub.logger.Warn("bad viewer subscription", "hands", clientMsg.Hands)
				continue
			}
			c.Subscribe(hands)
			data, _ := json.Marshal(NewSubscribedMessage(hands))
			c.trySend(data)
			c.hub.logger.Debug("viewer subscribed", "hands", hands)
		default:
			c.hub.logger.Warn("unknown viewer message", "type", clientMsg.Type)
		}
	}
}

func parseHands(names []string) ([]controls.Handedness, bool) {
	out := make([]controls.Handedness, 0, len(names))
	for _, n := range names {
		h := controls.Handedness(n)
		switch h {
		case controls.HandLeft, controls.HandRight, controls.HandNone:
		default:
			return nil, false
		}
		if !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	return out, true
}
