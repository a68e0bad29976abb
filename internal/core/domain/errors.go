package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrValidation indicates rejected user input, such as blank entry text.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a requested entry or document does not exist.
	// A missing entries or settings file on first run is reported this way.
	ErrNotFound = errors.New("not found")

	// ErrInvalidDocument indicates a persisted or received JSON document
	// that does not match the expected shape.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrPersistence indicates the local file could not be written.
	// In-memory state may be ahead of disk until the next successful write.
	ErrPersistence = errors.New("persistence failed")

	// Broker Errors.

	// ErrConnection indicates the broker could not be reached or refused the session.
	ErrConnection = errors.New("connection error with the MQTT broker")

	// ErrSend indicates the broker client rejected a publish.
	ErrSend = errors.New("error sending message to MQTT broker")

	// ErrNotConnected indicates a publish or subscribe without a live session.
	ErrNotConnected = errors.New("not connected to MQTT broker")

	// ErrRateLimited indicates a connection attempt was throttled.
	ErrRateLimited = errors.New("rate limited")
)
