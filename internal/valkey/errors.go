package valkey

import "errors"

// ErrConnect is returned when the initial round trip to the server fails
var ErrConnect = errors.New("failed to connect to valkey")

// ErrNoChannels is returned when Subscribe is called without any channel
var ErrNoChannels = errors.New("at least one channel is required")

// ErrNilHandler is returned when Subscribe is called without a message handler
var ErrNilHandler = errors.New("message handler is required")
