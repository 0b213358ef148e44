package sink

import (
	"io"
	"log"
	"time"

	cfg "github.com/tamzrod/drink-counter/internal/config"
	"github.com/tamzrod/drink-counter/internal/counter"
	"github.com/tamzrod/drink-counter/internal/printer"
	"github.com/tamzrod/drink-counter/internal/remote"
)

// BuildChain constructs the sinks in their fixed order:
// console, printer, remote, mqtt (when configured).
// Assumes config has already passed Validate and Normalize.
// The returned closer releases the printer device and the mqtt client.
func BuildChain(
	c cfg.CounterConfig,
	stdout io.Writer,
	counts counter.Reader,
	remoteCli *remote.Client,
) ([]Sink, func() error, error) {
	var closers []func() error

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	// ---- console ----
	chain := []Sink{NewConsole(stdout, counts)}

	// ---- printer (opt-in, decided once) ----
	var dev printer.Device
	if c.Printer.Device != "" {
		d, err := printer.Open(printer.Config{
			Device:  c.Printer.Device,
			Baud:    c.Printer.Baud,
			Timeout: time.Duration(c.Printer.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			return nil, nil, err
		}
		dev = d
		closers = append(closers, d.Close)
	} else {
		log.Printf("printer: no device configured, receipts disabled")
	}

	chain = append(chain, NewPrinter(
		dev,
		PrinterConfig{
			CharWidth:  c.Printer.CharWidth,
			BannerURL:  c.Printer.BannerURL,
			BannerSize: c.Printer.BannerSize,
		},
		NewBannerThrottle(c.Printer.BannerFrequency),
	))

	// ---- remote ----
	chain = append(chain, NewRemote(remoteCli, RemoteConfig{
		SensorType: c.Remote.SensorType,
		Unit:       c.Remote.Unit,
	}))

	// ---- mqtt (opt-in) ----
	if c.MQTT.Broker != "" {
		mc := MQTTConfig{
			Broker:      c.MQTT.Broker,
			ClientID:    c.MQTT.ClientID,
			TopicPrefix: c.MQTT.TopicPrefix,
			QoS:         c.MQTT.QoS,
			Timeout:     time.Duration(c.MQTT.TimeoutMs) * time.Millisecond,
		}
		client := ConnectMQTT(mc)
		closers = append(closers, func() error {
			client.Disconnect(250)
			return nil
		})
		chain = append(chain, NewMQTT(client, mc))
	}

	return chain, closeAll, nil
}

// Names lists sink names in chain order.
func Names(chain []Sink) []string {
	out := make([]string, 0, len(chain))
	for _, s := range chain {
		out = append(out, s.Name())
	}
	return out
}
