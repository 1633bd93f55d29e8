package domain

import (
	"context"
	"strings"
	"time"
)

// EventKind defines how the user produced the event.
type EventKind string

const (
	EventMessage  EventKind = "message"  // free text
	EventCallback EventKind = "callback" // affordance selection
	EventReset    EventKind = "reset"    // explicit reset command
)

// Event is an inbound user interaction, already stripped of transport details.
type Event struct {
	// UserID is the stable identity of the conversation (e.g. the chat id).
	UserID string `json:"user_id"`

	Kind EventKind `json:"kind"`

	// Payload holds the free text for messages or the opaque token for callbacks.
	Payload string `json:"payload"`
}

// NewMessageEvent builds a message event, promoting the reset command to EventReset.
func NewMessageEvent(userID, text string) Event {
	if strings.TrimSpace(text) == ResetCommand {
		return NewResetEvent(userID)
	}
	return Event{UserID: userID, Kind: EventMessage, Payload: text}
}

// NewResetEvent builds the event that restarts the conversation.
func NewResetEvent(userID string) Event {
	return Event{UserID: userID, Kind: EventReset, Payload: ResetCommand}
}

// NewCallbackEvent builds a callback event for the given token.
func NewCallbackEvent(userID, token string) Event {
	return Event{UserID: userID, Kind: EventCallback, Payload: token}
}

// IsCallback reports whether the event is an affordance selection with the given token.
func (e Event) IsCallback(token string) bool {
	return e.Kind == EventCallback && e.Payload == token
}

// TransitionEvent describes a committed state change.
type TransitionEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	UserID    string        `json:"user_id"`
	Kind      EventKind     `json:"kind"`
	From      StateName     `json:"from"`
	To        StateName     `json:"to"`
	Duration  time.Duration `json:"duration"`
}

// FailureEvent describes an event whose processing was aborted.
type FailureEvent struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	Kind      EventKind `json:"kind"`
	State     StateName `json:"state"`
	Reason    string    `json:"reason"`
	Err       error     `json:"-"`
}

// LifecycleHooks defines callbacks for coordinator observability.
type LifecycleHooks struct {
	OnEvent      func(context.Context, Event)
	OnTransition func(context.Context, *TransitionEvent)
	OnFailure    func(context.Context, *FailureEvent)
}
