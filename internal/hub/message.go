package hub

import (
	"time"

	"github.com/soar/XRControllerView/internal/controls"
	"github.com/soar/XRControllerView/internal/event"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type      string                    `json:"type"`              // "full", "delta", "event", "subscribed"
	Seq       int64                     `json:"seq"`               // Sequence number for ordering
	Timestamp int64                     `json:"timestamp"`         // Unix timestamp in milliseconds
	Entity    string                    `json:"entity,omitempty"`  // Entity for "delta" and "event"
	Hand      controls.Handedness       `json:"hand,omitempty"`    // Hand the entity is bound to
	Event     string                    `json:"event,omitempty"`   // Event name for type "event"
	Detail    event.Event               `json:"detail,omitempty"`  // Event payload for type "event"
	Data      []controls.ComponentState `json:"data,omitempty"`    // Every component for type "full"
	Changes   *controls.StateDelta      `json:"changes,omitempty"` // Changed fields for type "delta"
	Hands     []controls.Handedness     `json:"hands,omitempty"`   // Subscription for type "subscribed"
}

// NewFullMessage creates a "full" message with every component's state.
func NewFullMessage(seq int64, states []controls.ComponentState) *WSMessage {
	return &WSMessage{
		Type:      "full",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Data:      states,
	}
}

// NewDeltaMessage creates a "delta" message with one component's changes.
func NewDeltaMessage(seq int64, hand controls.Handedness, changes *controls.StateDelta) *WSMessage {
	return &WSMessage{
		Type:      "delta",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Entity:    changes.Entity,
		Hand:      hand,
		Changes:   changes,
	}
}

// NewEventMessage creates an "event" message for one entity event.
func NewEventMessage(seq int64, u controls.Update) *WSMessage {
	return &WSMessage{
		Type:      "event",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Entity:    u.Entity,
		Hand:      u.Hand,
		Event:     u.Event,
		Detail:    u.Detail,
	}
}

// NewSubscribedMessage confirms a client's hand subscription.
func NewSubscribedMessage(hands []controls.Handedness) *WSMessage {
	return &WSMessage{
		Type:      "subscribed",
		Timestamp: time.Now().UnixMilli(),
		Hands:     hands,
	}
}

// ClientMessage represents a message sent from the client to the server.
type ClientMessage struct {
	Type  string   `json:"type"`            // "subscribe"
	Hands []string `json:"hands,omitempty"` // empty means every hand
}
