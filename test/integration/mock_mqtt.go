// Package integration exercises the full daemon stack: the simulated driver
// opened through the registry, coordinators, entity projections, metrics and
// the MQTT bridge, with only the broker replaced by an in-process mock.
package integration

import (
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MockToken is an already-completed paho token.
type MockToken struct{}

func (t *MockToken) Wait() bool                     { return true }
func (t *MockToken) WaitTimeout(time.Duration) bool { return true }
func (t *MockToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *MockToken) Error() error { return nil }

// MockMessage carries a payload into a subscription handler.
type MockMessage struct {
	topic   string
	payload []byte
}

func (m *MockMessage) Duplicate() bool   { return false }
func (m *MockMessage) Qos() byte         { return 0 }
func (m *MockMessage) Retained() bool    { return false }
func (m *MockMessage) Topic() string     { return m.topic }
func (m *MockMessage) MessageID() uint16 { return 0 }
func (m *MockMessage) Payload() []byte   { return m.payload }
func (m *MockMessage) Ack()              {}

// MockMQTT implements mqtt.Client, recording publishes and capturing
// subscription handlers so tests can inject inbound messages.
type MockMQTT struct {
	mu        sync.Mutex
	published map[string][][]byte
	retained  map[string]bool
	handlers  map[string]mqtt.MessageHandler
}

// NewMockMQTT creates an empty mock broker client.
func NewMockMQTT() *MockMQTT {
	return &MockMQTT{
		published: make(map[string][][]byte),
		retained:  make(map[string]bool),
		handlers:  make(map[string]mqtt.MessageHandler),
	}
}

func (m *MockMQTT) IsConnected() bool       { return true }
func (m *MockMQTT) IsConnectionOpen() bool  { return true }
func (m *MockMQTT) Connect() mqtt.Token     { return &MockToken{} }
func (m *MockMQTT) Disconnect(quiesce uint) {}

func (m *MockMQTT) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published[topic] = append(m.published[topic], payload.([]byte))
	m.retained[topic] = retained
	return &MockToken{}
}

func (m *MockMQTT) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[topic] = callback
	return &MockToken{}
}

func (m *MockMQTT) SubscribeMultiple(filters map[string]byte, callback mqtt.MessageHandler) mqtt.Token {
	return &MockToken{}
}

func (m *MockMQTT) Unsubscribe(topics ...string) mqtt.Token { return &MockToken{} }

func (m *MockMQTT) AddRoute(topic string, callback mqtt.MessageHandler) {}

func (m *MockMQTT) OptionsReader() mqtt.ClientOptionsReader { return mqtt.ClientOptionsReader{} }

// LastPublished returns the most recent payload published to topic.
func (m *MockMQTT) LastPublished(topic string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.published[topic]
	if len(msgs) == 0 {
		return nil, false
	}
	return msgs[len(msgs)-1], true
}

// Retained reports whether the last publish to topic set the retained flag.
func (m *MockMQTT) Retained(topic string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.retained[topic]
}

// Deliver invokes the captured subscription handler for topic with payload,
// as the broker would on an inbound message. It reports whether a handler
// was subscribed.
func (m *MockMQTT) Deliver(topic, payload string) bool {
	m.mu.Lock()
	handler := m.handlers[topic]
	m.mu.Unlock()
	if handler == nil {
		return false
	}
	handler(m, &MockMessage{topic: topic, payload: []byte(payload)})
	return true
}
