package domain

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DefaultMQTTPort is the plain-TCP MQTT port.
const DefaultMQTTPort = 1883

// BrokerTarget identifies a broker session: where to connect, as whom, and
// which topic carries the list.
type BrokerTarget struct {
	Host     string
	Port     int
	Topic    string
	Username string
	Password string
	ClientID string
}

// Address returns host:port for dialling.
func (t BrokerTarget) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// ParseBrokerAddress splits a server string into host and port. A port
// embedded as host:port overrides the explicit port; a zero port falls back
// to DefaultMQTTPort. An optional tcp:// or mqtt:// prefix is accepted.
func ParseBrokerAddress(server string, port int) (string, int, error) {
	s := strings.TrimSpace(server)
	for _, scheme := range []string{"tcp://", "mqtt://"} {
		s = strings.TrimPrefix(s, scheme)
	}
	s = strings.TrimSuffix(s, "/")
	if s == "" {
		return "", 0, fmt.Errorf("%w: broker address is empty", ErrValidation)
	}

	host := s
	if strings.Contains(s, ":") {
		h, p, err := net.SplitHostPort(s)
		if err != nil {
			return "", 0, fmt.Errorf("%w: broker address %q: %v", ErrValidation, server, err)
		}
		parsed, err := strconv.Atoi(p)
		if err != nil {
			return "", 0, fmt.Errorf("%w: broker port %q is not a number", ErrValidation, p)
		}
		host, port = h, parsed
	}

	if port == 0 {
		port = DefaultMQTTPort
	}
	if port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("%w: broker port %d out of range", ErrValidation, port)
	}
	if host == "" {
		return "", 0, fmt.Errorf("%w: broker host is empty", ErrValidation)
	}
	return host, port, nil
}

// NewBrokerTarget builds a target from the user's MQTT settings.
func NewBrokerTarget(m MQTTSettings, port int, clientID string) (BrokerTarget, error) {
	host, port, err := ParseBrokerAddress(m.Server, port)
	if err != nil {
		return BrokerTarget{}, err
	}
	topic := strings.TrimSpace(m.Topic)
	if topic == "" {
		return BrokerTarget{}, fmt.Errorf("%w: mqtt topic is empty", ErrValidation)
	}
	return BrokerTarget{
		Host:     host,
		Port:     port,
		Topic:    topic,
		Username: m.Username,
		Password: m.Password,
		ClientID: clientID,
	}, nil
}
