package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/gsog/shoplist/internal/core/domain"
	"github.com/gsog/shoplist/internal/core/ports/driven"
)

// Ensure Channel implements the interface.
var _ driven.SyncChannel = (*Channel)(nil)

// Published is one message recorded by Channel.
type Published struct {
	Topic   string
	Payload []byte
	Retain  bool
}

// Channel is an in-memory loopback broker for tests and offline use.
// It records publishes and delivers injected messages synchronously.
type Channel struct {
	mu         sync.Mutex
	target     domain.BrokerTarget
	state      domain.ConnectionState
	connectErr error
	publishErr error
	handler    driven.MessageHandler
	published  []Published
	connects   int
}

// NewChannel creates a disconnected channel.
func NewChannel() *Channel {
	return &Channel{state: domain.StateIdle}
}

// FailConnect makes subsequent Connect calls fail with err.
func (c *Channel) FailConnect(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connectErr = err
}

// FailPublish makes subsequent Publish calls fail with err.
func (c *Channel) FailPublish(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publishErr = err
}

// SetTarget selects the target for the next Connect.
func (c *Channel) SetTarget(target domain.BrokerTarget) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
}

// Target returns the current target.
func (c *Channel) Target() domain.BrokerTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Connect marks the channel connected unless a failure was injected.
// Like a broker client, a new session starts without a subscription.
func (c *Channel) Connect(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connects++
	if c.state != domain.StateConnected {
		c.handler = nil
	}
	if c.connectErr != nil {
		c.state = domain.StateConnectionFailed
		return fmt.Errorf("%w: %w", domain.ErrConnection, c.connectErr)
	}
	c.state = domain.StateConnected
	return nil
}

// Disconnect drops the session and the subscription.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = domain.StateIdle
	c.handler = nil
}

// Publish records the payload when connected.
func (c *Channel) Publish(_ context.Context, payload []byte, opts domain.PublishOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.StateConnected {
		return domain.ErrNotConnected
	}
	if c.publishErr != nil {
		return fmt.Errorf("%w: %w", domain.ErrSend, c.publishErr)
	}
	topic := opts.Topic
	if topic == "" {
		topic = c.target.Topic
	}
	dup := make([]byte, len(payload))
	copy(dup, payload)
	c.published = append(c.published, Published{Topic: topic, Payload: dup, Retain: opts.Retain})
	return nil
}

// Subscribe stores handler when connected.
func (c *Channel) Subscribe(_ context.Context, handler driven.MessageHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.StateConnected {
		return domain.ErrNotConnected
	}
	c.handler = handler
	return nil
}

// State returns the connection state.
func (c *Channel) State() domain.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Drop simulates a lost session.
func (c *Channel) Drop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = domain.StateConnectionFailed
}

// Deliver decodes payload as a broker message on topic and hands it to
// the subscriber. It returns false when nobody is subscribed.
func (c *Channel) Deliver(topic string, payload []byte) bool {
	c.mu.Lock()
	handler := c.handler
	c.mu.Unlock()
	if handler == nil {
		return false
	}

	msg := domain.Message{Topic: topic, Payload: payload}
	msg.Entries, msg.Err = domain.DecodeEntries(payload)
	handler(msg)
	return true
}

// Published returns the recorded publishes.
func (c *Channel) Published() []Published {
	c.mu.Lock()
	defer c.mu.Unlock()
	dup := make([]Published, len(c.published))
	copy(dup, c.published)
	return dup
}

// Connects returns how many Connect calls were made.
func (c *Channel) Connects() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connects
}
