package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventLeafEnter EventType = "leaf_enter"
	EventLeafLeave EventType = "leaf_leave"
	EventExhausted EventType = "selection_exhausted"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// LeafEvent describes one leaf invocation made by a selector.
type LeafEvent struct {
	EventBase
	LeafName       string        `json:"leaf_name"`
	LeafPath       string        `json:"leaf_path"`
	TargetID       string        `json:"target_id"`
	TargetPlatform Platform      `json:"target_platform"`
	Result         NextResult    `json:"result,omitempty"`
	Err            error         `json:"-"`
	Duration       time.Duration `json:"duration,omitempty"`
}

// SelectionEvent describes the end of a selection that found no handler.
type SelectionEvent struct {
	EventBase
	TargetID       string   `json:"target_id"`
	TargetPlatform Platform `json:"target_platform"`
	Tried          int      `json:"tried"`
}

// LifecycleHooks defines callbacks for selector observability.
type LifecycleHooks struct {
	OnLeafEnter func(context.Context, *LeafEvent)
	OnLeafLeave func(context.Context, *LeafEvent)
	OnExhausted func(context.Context, *SelectionEvent)
}
