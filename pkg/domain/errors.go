package domain

import "errors"

// ErrNothingToSay is returned when every candidate leaf fell through.
// It indicates a configuration bug: install a catch-all or error leaf.
var ErrNothingToSay = errors.New("this bot has nothing to say")

// ErrAlreadySubscribed is returned when a single-consumer stream is subscribed twice.
var ErrAlreadySubscribed = errors.New("stream already has a subscriber")

// ErrUnknownPlatform is returned when a raw payload matches no known platform shape.
var ErrUnknownPlatform = errors.New("unknown platform")

// ErrNoProcessor is returned when no processor is registered for the resolved platform.
var ErrNoProcessor = errors.New("no processor registered for platform")

// ErrMissingPlatformHandler is returned when a per-platform handler was not supplied.
var ErrMissingPlatformHandler = errors.New("platform handler must not be nil")

// ErrContextNotFound is returned when a context store has no entry for a key.
var ErrContextNotFound = errors.New("context not found")
