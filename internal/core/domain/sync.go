package domain

import "time"

// Origin tags where a state change came from. It drives echo suppression:
// only local changes are published.
type Origin string

// Change origins.
const (
	// OriginInitial is the startup load from the entries file.
	OriginInitial Origin = "initial"

	// OriginLocal is a mutation made through the UI or CLI on this device.
	OriginLocal Origin = "local"

	// OriginRemote is a list received from the broker.
	OriginRemote Origin = "remote"

	// OriginFile is an external edit of the entries file picked up while running.
	OriginFile Origin = "file"

	// OriginReorder is a change of sort direction. The entries themselves
	// are unchanged.
	OriginReorder Origin = "reorder"
)

// Publishes returns true if changes with this origin go to the broker.
func (o Origin) Publishes() bool {
	return o == OriginLocal
}

// String returns the string representation.
func (o Origin) String() string {
	return string(o)
}

// ConnectionState is the broker session state.
type ConnectionState string

// Connection states.
const (
	StateIdle             ConnectionState = "idle"
	StateConnecting       ConnectionState = "connecting"
	StateConnected        ConnectionState = "connected"
	StateConnectionFailed ConnectionState = "connection_failed"
)

// String returns the string representation.
func (s ConnectionState) String() string {
	return string(s)
}

// Message is one list update received from the broker.
type Message struct {
	// Topic the message arrived on.
	Topic string

	// Payload is the raw message body.
	Payload []byte

	// Entries is the decoded list. Nil when Err is set.
	Entries []ShoppingEntry

	// Retained is true when the broker replayed a stored message.
	Retained bool

	// Err records a payload that could not be decoded.
	Err error
}

// PublishOptions control a single publish.
type PublishOptions struct {
	// Topic overrides the target topic when non-empty.
	Topic string

	// Retain asks the broker to keep the message for late subscribers.
	Retain bool
}

// DefaultPublishOptions publishes retained to the target topic.
func DefaultPublishOptions() PublishOptions {
	return PublishOptions{Retain: true}
}

// Change describes a committed update of the list.
type Change struct {
	Origin  Origin
	Entries []ShoppingEntry
}

// NoticeLevel grades a user-visible notice.
type NoticeLevel string

// Notice levels.
const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient, non-fatal message for the user.
type Notice struct {
	Level   NoticeLevel
	Message string
	Err     error
}

// JournalRecord is one persisted change in the sync journal.
type JournalRecord struct {
	ID         int64
	Origin     Origin
	EntryCount int
	Published  bool
	Error      string
	At         time.Time
}
