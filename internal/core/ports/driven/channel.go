package driven

import (
	"context"

	"github.com/gsog/shoplist/internal/core/domain"
)

// MessageHandler receives decoded broker messages. It is invoked from the
// channel's single delivery goroutine, never from the broker client's
// network callback.
type MessageHandler func(msg domain.Message)

// SyncChannel is a publish/subscribe broker session.
type SyncChannel interface {
	// SetTarget selects broker, topic and credentials for the next Connect.
	// It does not affect a live session.
	SetTarget(target domain.BrokerTarget)

	// Connect opens a session with the current target. On failure the
	// channel is left in StateConnectionFailed and the error wraps
	// domain.ErrConnection or domain.ErrRateLimited.
	Connect(ctx context.Context) error

	// Disconnect closes the session and stops message delivery before
	// returning. Safe to call when never connected.
	Disconnect()

	// Publish sends payload. Without a live session it is a no-op that
	// returns domain.ErrNotConnected; a rejected send wraps domain.ErrSend.
	Publish(ctx context.Context, payload []byte, opts domain.PublishOptions) error

	// Subscribe registers handler for messages on the target topic.
	// Without a live session it is a no-op that returns domain.ErrNotConnected.
	Subscribe(ctx context.Context, handler MessageHandler) error

	// State returns the current connection state.
	State() domain.ConnectionState

	// Target returns the target set by SetTarget.
	Target() domain.BrokerTarget
}
