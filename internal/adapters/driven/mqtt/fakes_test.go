package mqtt

import (
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// fakeToken is a paho.Token completed with err, or pending until complete.
type fakeToken struct {
	paho.Token
	done chan struct{}
	err  error
}

func doneToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func pendingToken() *fakeToken {
	return &fakeToken{done: make(chan struct{})}
}

func (t *fakeToken) Wait() bool {
	<-t.done
	return true
}

func (t *fakeToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *fakeToken) Done() <-chan struct{} { return t.done }

func (t *fakeToken) Error() error { return t.err }

type fakePublish struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeClient records calls made through paho.Client.
type fakeClient struct {
	paho.Client

	mu             sync.Mutex
	opts           *paho.ClientOptions
	connectErr     error
	connectPending bool
	publishErr     error
	subscribeErr   error
	open           bool
	published      []fakePublish
	handlers       map[string]paho.MessageHandler
	disconnects    int
}

func (c *fakeClient) Connect() paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connectPending {
		return pendingToken()
	}
	if c.connectErr != nil {
		return doneToken(c.connectErr)
	}
	c.open = true
	return doneToken(nil)
}

func (c *fakeClient) IsConnected() bool { return c.IsConnectionOpen() }

func (c *fakeClient) IsConnectionOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *fakeClient) Disconnect(uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	c.disconnects++
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publishErr != nil {
		return doneToken(c.publishErr)
	}
	c.published = append(c.published, fakePublish{
		topic:    topic,
		qos:      qos,
		retained: retained,
		payload:  payload.([]byte),
	})
	return doneToken(nil)
}

func (c *fakeClient) Subscribe(topic string, _ byte, callback paho.MessageHandler) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subscribeErr != nil {
		return doneToken(c.subscribeErr)
	}
	if c.handlers == nil {
		c.handlers = make(map[string]paho.MessageHandler)
	}
	c.handlers[topic] = callback
	return doneToken(nil)
}

// deliver invokes the subscription callback for topic like the Paho router.
func (c *fakeClient) deliver(topic string, payload string, retained bool) bool {
	c.mu.Lock()
	handler := c.handlers[topic]
	c.mu.Unlock()
	if handler == nil {
		return false
	}
	handler(c, &fakeMessage{topic: topic, payload: []byte(payload), retained: retained})
	return true
}

func (c *fakeClient) publishes() []fakePublish {
	c.mu.Lock()
	defer c.mu.Unlock()
	dup := make([]fakePublish, len(c.published))
	copy(dup, c.published)
	return dup
}

type fakeMessage struct {
	paho.Message
	topic    string
	payload  []byte
	retained bool
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }
func (m *fakeMessage) Retained() bool  { return m.retained }
