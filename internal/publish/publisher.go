// Package publish mirrors bulb state changes to an MQTT broker.
package publish

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"codeberg.org/mutker/bulbctl/internal/errors"
	"codeberg.org/mutker/bulbctl/internal/logger"
	"codeberg.org/mutker/bulbctl/internal/status"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// Client is the subset of pahomqtt.Client the publisher needs.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Disconnect(quiesce uint)
}

// Message is the JSON payload published for each state change.
type Message struct {
	Device    string             `json:"device"`
	Reachable bool               `json:"reachable"`
	State     status.DeviceState `json:"state"`
	Timestamp string             `json:"timestamp"`
}

// Publisher sends retained state messages, skipping unchanged states.
type Publisher struct {
	client Client
	cfg    Config
	logger logger.Logger

	mu   sync.Mutex
	last map[string]Message
}

// Connect dials the broker described by cfg.
func Connect(cfg Config, log logger.Logger) (*Publisher, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.clientID()).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectTimeout(defaultConnectTimeout)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, errFactory.WithData(errors.ErrInitPublisher, "timeout connecting to "+cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, errFactory.Wrap(errors.ErrInitPublisher, err)
	}

	log.Info().Str("broker", cfg.Broker).Msg("Connected to MQTT broker")

	return New(client, cfg, log), nil
}

// New wraps an already connected client.
func New(client Client, cfg Config, log logger.Logger) *Publisher {
	return &Publisher{
		client: client,
		cfg:    cfg,
		logger: log,
		last:   make(map[string]Message),
	}
}

// Topic returns the state topic for device.
func (p *Publisher) Topic(device string) string {
	return strings.TrimSuffix(p.cfg.TopicPrefix, "/") + "/" + topicSegment(device) + "/state"
}

// Publish sends the state of device unless it equals the last one sent.
// It reports whether a message was sent.
func (p *Publisher) Publish(device string, reachable bool, state status.DeviceState, ts time.Time) (bool, error) {
	errFactory := errors.New()

	msg := Message{
		Device:    device,
		Reachable: reachable,
		State:     state,
		Timestamp: ts.UTC().Format(time.RFC3339),
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if prev, ok := p.last[device]; ok && prev.Reachable == reachable && prev.State == state {
		return false, nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return false, errFactory.Wrap(errors.ErrPublish, err)
	}

	topic := p.Topic(device)
	token := p.client.Publish(topic, byte(p.cfg.QoS), true, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return false, errFactory.WithData(errors.ErrPublish, "timeout publishing to "+topic)
	}
	if err := token.Error(); err != nil {
		return false, errFactory.Wrap(errors.ErrPublish, err)
	}

	p.last[device] = msg
	p.logger.Debug().Str("topic", topic).Bool("reachable", reachable).Msg("State published")

	return true, nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

func topicSegment(device string) string {
	r := strings.NewReplacer("/", "_", "+", "_", "#", "_", " ", "_")
	return strings.ToLower(r.Replace(device))
}
