// Package hub fans controller updates out to WebSocket viewers.
package hub

import (
	"context"
	"log/slog"
	"sync"

	"github.com/soar/XRControllerView/internal/controls"
)

// Hub manages WebSocket clients and broadcasts messages.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *slog.Logger
	mu         sync.RWMutex
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Register adds a new client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.close()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends msg to every client subscribed to hand.
func (h *Hub) Broadcast(msg []byte, hand controls.Handedness) {
	h.each(func(c *Client) []byte {
		if !c.Wants(hand) {
			return nil
		}
		return msg
	})
}

// BroadcastFunc sends each client the message build returns for it. A nil
// message skips the client.
func (h *Hub) BroadcastFunc(build func(*Client) []byte) {
	h.each(build)
}

func (h *Hub) each(build func(*Client) []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		msg := build(client)
		if msg == nil {
			continue
		}
		if !client.trySend(msg) {
			// Client send buffer full, disconnect
			go h.Unregister(client)
		}
	}
}

// Run starts the hub's main loop until ctx is done. Should be run in a
// goroutine.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		h.mu.Lock()
		for client := range h.clients {
			delete(h.clients, client)
			client.close()
		}
		h.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("viewer connected", "total", n)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("viewer disconnected", "total", n)
		}
	}
}
