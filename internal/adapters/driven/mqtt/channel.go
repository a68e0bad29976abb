package mqtt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/time/rate"

	"github.com/gsog/shoplist/internal/core/domain"
	"github.com/gsog/shoplist/internal/core/ports/driven"
	"github.com/gsog/shoplist/internal/logger"
)

// Ensure Channel implements the interface.
var _ driven.SyncChannel = (*Channel)(nil)

const (
	// inboxSize is the number of received messages buffered for delivery.
	inboxSize = 16

	// publishTimeout bounds the wait for the client to hand off a publish.
	publishTimeout = 3 * time.Second

	// disconnectQuiesce is the time in ms the client may finish pending work.
	disconnectQuiesce = 250

	// connectBurst attempts are allowed at once, then one per connectEvery.
	connectBurst = 3
	connectEvery = 2 * time.Second
)

var errTimeout = errors.New("timed out")

// clientFactory creates a Paho client; replaced in tests.
type clientFactory func(opts *paho.ClientOptions) paho.Client

// Channel is a driven.SyncChannel backed by a Paho MQTT client.
type Channel struct {
	newClient      clientFactory
	connectTimeout time.Duration
	qos            byte
	limiter        *rate.Limiter

	mu     sync.Mutex
	target domain.BrokerTarget
	client paho.Client
	state  domain.ConnectionState
	sub    *subscription
}

// subscription is one running delivery goroutine.
type subscription struct {
	topic string
	inbox chan domain.Message
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

// NewChannel creates a disconnected channel using cfg for timeouts and QoS.
func NewChannel(cfg domain.MQTTConfig) *Channel {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = domain.DefaultAppConfig().MQTT.ConnectTimeout
	}
	return &Channel{
		newClient:      paho.NewClient,
		connectTimeout: timeout,
		qos:            cfg.QoS,
		limiter:        rate.NewLimiter(rate.Every(connectEvery), connectBurst),
		state:          domain.StateIdle,
	}
}

// EnableClientLogging routes Paho's error and warning logs to w.
func EnableClientLogging(w io.Writer) {
	paho.ERROR = log.New(w, "[mqtt] ERROR ", log.LstdFlags)
	paho.CRITICAL = log.New(w, "[mqtt] CRITICAL ", log.LstdFlags)
	paho.WARN = log.New(w, "[mqtt] WARN ", log.LstdFlags)
}

// SetTarget selects the broker and topic for the next Connect.
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

// State returns the session state.
func (c *Channel) State() domain.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect opens a session to the current target. It waits at most the
// configured connect timeout. A lost session is replaced and its
// subscription stopped, so callers must Subscribe again. Attempts beyond
// the throttle fail with domain.ErrRateLimited without touching the network.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.client != nil && c.state == domain.StateConnected {
		c.mu.Unlock()
		return nil
	}
	target := c.target
	stale, staleSub := c.client, c.sub
	c.client = nil
	c.sub = nil
	c.state = domain.StateConnecting
	c.mu.Unlock()

	// A subscription belongs to the session it was made on.
	if staleSub != nil {
		staleSub.stop()
	}
	if stale != nil {
		stale.Disconnect(0)
	}

	if target.Host == "" {
		c.setState(domain.StateConnectionFailed)
		return fmt.Errorf("%w: no broker configured", domain.ErrConnection)
	}
	if !c.limiter.Allow() {
		c.setState(domain.StateConnectionFailed)
		return fmt.Errorf("%w: too many connection attempts to %s", domain.ErrRateLimited, target.Address())
	}

	client := c.newClient(c.clientOptions(target))
	logger.Debug("mqtt: connecting to %s as %q", target.Address(), target.ClientID)
	if err := waitToken(ctx, client.Connect(), c.connectTimeout); err != nil {
		client.Disconnect(0)
		c.setState(domain.StateConnectionFailed)
		return fmt.Errorf("%w: %s: %w", domain.ErrConnection, target.Address(), err)
	}

	c.mu.Lock()
	c.client = client
	c.state = domain.StateConnected
	c.mu.Unlock()
	return nil
}

func (c *Channel) clientOptions(target domain.BrokerTarget) *paho.ClientOptions {
	opts := paho.NewClientOptions().
		AddBroker("tcp://" + target.Address()).
		SetClientID(target.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetConnectTimeout(c.connectTimeout).
		SetConnectionLostHandler(c.onConnectionLost)
	if target.Username != "" {
		opts.SetUsername(target.Username)
	}
	if target.Password != "" {
		opts.SetPassword(target.Password)
	}
	return opts
}

func (c *Channel) onConnectionLost(_ paho.Client, err error) {
	c.mu.Lock()
	addr := c.target.Address()
	c.state = domain.StateConnectionFailed
	c.mu.Unlock()
	log.Printf("mqtt: connection to %s lost: %v", addr, err)
}

// Disconnect stops delivery and closes the session. It returns after the
// delivery goroutine has exited and is safe to call at any time.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	client := c.client
	sub := c.sub
	c.client = nil
	c.sub = nil
	c.state = domain.StateIdle
	c.mu.Unlock()

	if sub != nil {
		sub.stop()
	}
	if client != nil {
		if client.IsConnectionOpen() {
			client.Disconnect(disconnectQuiesce)
		}
		logger.Debug("mqtt: disconnected")
	}
}

// Publish sends payload to opts.Topic, or the target topic when empty.
func (c *Channel) Publish(ctx context.Context, payload []byte, opts domain.PublishOptions) error {
	client, topic, err := c.session(opts.Topic)
	if err != nil {
		logger.Warn("mqtt: not connected, publish skipped")
		return err
	}

	if err := waitToken(ctx, client.Publish(topic, c.qos, opts.Retain, payload), publishTimeout); err != nil {
		return fmt.Errorf("%w: publish to %s: %w", domain.ErrSend, topic, err)
	}
	logger.Debug("mqtt: published %d bytes to %s (retain=%t)", len(payload), topic, opts.Retain)
	return nil
}

// Subscribe starts delivering messages on the target topic to handler.
// A previous subscription is replaced. Delivery stops on Disconnect or
// when ctx is done.
func (c *Channel) Subscribe(ctx context.Context, handler driven.MessageHandler) error {
	client, topic, err := c.session("")
	if err != nil {
		return err
	}

	sub := &subscription{
		topic: topic,
		inbox: make(chan domain.Message, inboxSize),
		done:  make(chan struct{}),
	}

	c.mu.Lock()
	prev := c.sub
	c.sub = sub
	c.mu.Unlock()
	if prev != nil {
		prev.stop()
	}

	sub.wg.Add(1)
	go sub.deliver(ctx, handler)

	if err := waitToken(ctx, client.Subscribe(topic, c.qos, sub.receive), c.connectTimeout); err != nil {
		c.mu.Lock()
		if c.sub == sub {
			c.sub = nil
		}
		c.mu.Unlock()
		sub.stop()
		return fmt.Errorf("%w: subscribe to %s: %w", domain.ErrConnection, topic, err)
	}
	logger.Debug("mqtt: subscribed to %s", topic)
	return nil
}

// session returns the live client and the topic to use.
func (c *Channel) session(topic string) (paho.Client, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil || c.state != domain.StateConnected || !c.client.IsConnectionOpen() {
		return nil, "", domain.ErrNotConnected
	}
	if topic == "" {
		topic = c.target.Topic
	}
	return c.client, topic, nil
}

func (c *Channel) setState(state domain.ConnectionState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

// receive runs on the Paho router goroutine. It only decodes and queues.
func (s *subscription) receive(_ paho.Client, m paho.Message) {
	msg := domain.Message{
		Topic:    m.Topic(),
		Payload:  m.Payload(),
		Retained: m.Retained(),
	}
	msg.Entries, msg.Err = domain.DecodeEntries(msg.Payload)

	select {
	case s.inbox <- msg:
	case <-s.done:
	}
}

func (s *subscription) deliver(ctx context.Context, handler driven.MessageHandler) {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		case msg := <-s.inbox:
			handler(msg)
		}
	}
}

func (s *subscription) stop() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}

// waitToken waits for token, ctx or timeout, whichever comes first.
func waitToken(ctx context.Context, token paho.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return errTimeout
	}
}
