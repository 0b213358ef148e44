package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// mqttPublisher is the subset of mqtt.Client the sink needs.
type mqttPublisher interface {
	IsConnectionOpen() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTConfig selects broker and topic layout.
type MQTTConfig struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	QoS         byte
	Timeout     time.Duration
}

type mqttMessage struct {
	EventID  string    `json:"event_id"`
	Beverage string    `json:"beverage"`
	Name     string    `json:"name"`
	Value    int       `json:"value"`
	At       time.Time `json:"at"`
}

// MQTT publishes each new count as a retained message on
// <prefix>/<beverage id>.
type MQTT struct {
	cli mqttPublisher
	cfg MQTTConfig
}

func NewMQTT(cli mqttPublisher, cfg MQTTConfig) *MQTT {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &MQTT{cli: cli, cfg: cfg}
}

// ConnectMQTT creates a client and starts connecting.
// A broker that is down at startup is not fatal: paho keeps retrying in
// the background and publishes fail until the connection is up.
func ConnectMQTT(cfg MQTTConfig) mqtt.Client {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(mqtt.Client) {
		log.Printf("mqtt: connected (broker=%s client_id=%s)", cfg.Broker, cfg.ClientID)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Printf("mqtt: connection lost (broker=%s): %v", cfg.Broker, err)
	}

	c := mqtt.NewClient(opts)
	c.Connect()
	return c
}

func (m *MQTT) Name() string { return "mqtt" }

func (m *MQTT) Consume(ctx context.Context, ev Event) error {
	if !m.cli.IsConnectionOpen() {
		return fmt.Errorf("mqtt: not connected")
	}

	payload, err := json.Marshal(mqttMessage{
		EventID:  ev.ID.String(),
		Beverage: ev.Beverage.ID,
		Name:     ev.Beverage.Name,
		Value:    ev.Value,
		At:       ev.At,
	})
	if err != nil {
		return fmt.Errorf("mqtt: encode: %w", err)
	}

	topic := m.cfg.TopicPrefix + "/" + ev.Beverage.ID
	token := m.cli.Publish(topic, m.cfg.QoS, true, payload)

	timer := time.NewTimer(m.cfg.Timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("mqtt: publish %s: timeout after %s", topic, m.cfg.Timeout)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: publish %s: %w", topic, err)
	}
	return nil
}
