package hub

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/soar/XRControllerView/internal/controls"
)

const (
	fullSyncInterval = 5 * time.Second
	deltaCountSync   = 100
)

// StateSource supplies full snapshots.
type StateSource interface {
	CurrentState() []controls.ComponentState
}

// Broadcaster listens for controller updates and broadcasts them to the hub.
type Broadcaster struct {
	hub     *Hub
	changes <-chan controls.Update
	states  StateSource
	seq     atomic.Int64
}

func NewBroadcaster(h *Hub, changes <-chan controls.Update, states StateSource) *Broadcaster {
	return &Broadcaster{
		hub:     h,
		changes: changes,
		states:  states,
	}
}

// Run starts the broadcaster loop until ctx is done or the change stream
// closes. Should be run in a goroutine.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	var deltaCount int64

	for {
		select {
		case <-ctx.Done():
			return

		case u, ok := <-b.changes:
			if !ok {
				return
			}

			if u.Delta == nil {
				b.sendEvent(u)
				continue
			}
			if u.Delta.IsEmpty() {
				continue
			}

			deltaCount++
			// Send full sync periodically
			if deltaCount >= deltaCountSync {
				b.sendFull()
				deltaCount = 0
			} else {
				b.sendDelta(u)
			}

		case <-ticker.C:
			b.sendFull()
		}
	}
}

// SendInitialState sends the current full state to a newly connected client.
func (b *Broadcaster) SendInitialState(c *Client) {
	data, ok := b.marshal(NewFullMessage(b.seq.Add(1), filter(b.states.CurrentState(), c)))
	if ok {
		c.trySend(data)
	}
}

func (b *Broadcaster) sendFull() {
	states := b.states.CurrentState()
	if len(states) == 0 {
		return
	}
	seq := b.seq.Add(1)
	b.hub.BroadcastFunc(func(c *Client) []byte {
		data, _ := b.marshal(NewFullMessage(seq, filter(states, c)))
		return data
	})
}

func (b *Broadcaster) sendDelta(u controls.Update) {
	if data, ok := b.marshal(NewDeltaMessage(b.seq.Add(1), u.Hand, u.Delta)); ok {
		b.hub.Broadcast(data, u.Hand)
	}
}

func (b *Broadcaster) sendEvent(u controls.Update) {
	if data, ok := b.marshal(NewEventMessage(b.seq.Add(1), u)); ok {
		b.hub.Broadcast(data, u.Hand)
	}
}

func (b *Broadcaster) marshal(msg *WSMessage) ([]byte, bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.hub.logger.Error("marshal message", "type", msg.Type, "error", err)
		return nil, false
	}
	return data, true
}

func filter(states []controls.ComponentState, c *Client) []controls.ComponentState {
	out := make([]controls.ComponentState, 0, len(states))
	for _, st := range states {
		if c.Wants(st.Hand) {
			out = append(out, st)
		}
	}
	return out
}
