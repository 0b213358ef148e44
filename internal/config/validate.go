// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values that Normalize fills with defaults are accepted.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}
	c := cfg.Counter

	// ------------------------------------------------------------
	// BEVERAGES
	// ------------------------------------------------------------

	if len(c.Beverages) == 0 {
		return errors.New("at least one beverage is required")
	}

	beverages := make(map[string]struct{}, len(c.Beverages))
	for i, b := range c.Beverages {
		if b.ID == "" {
			return fmt.Errorf("beverage #%d: id is required", i)
		}
		if strings.ContainsAny(b.ID, " /") {
			return fmt.Errorf("beverage %q: id must not contain spaces or slashes", b.ID)
		}
		if b.Name == "" {
			return fmt.Errorf("beverage %q: name is required", b.ID)
		}
		if _, dup := beverages[b.ID]; dup {
			return fmt.Errorf("beverage %q: duplicate id", b.ID)
		}
		beverages[b.ID] = struct{}{}
	}

	// ------------------------------------------------------------
	// INPUTS (LINE -> BEVERAGE BINDINGS)
	// ------------------------------------------------------------

	// key = beverage id, value = input id
	boundBy := make(map[string]string)
	// key = gpio line, value = input id (one board, one owner per pin)
	gpioOwner := make(map[uint16]string)
	inputs := make(map[string]struct{})

	for i, in := range c.Inputs {
		if in.ID == "" {
			return fmt.Errorf("input #%d: id is required", i)
		}
		if _, dup := inputs[in.ID]; dup {
			return fmt.Errorf("input %q: duplicate id", in.ID)
		}
		inputs[in.ID] = struct{}{}

		switch in.Kind {
		case InputGPIO:
			switch in.Pull {
			case "", "up", "down", "none":
			default:
				return fmt.Errorf("input %q: unknown pull %q", in.ID, in.Pull)
			}
		case InputModbusTCP:
			if in.Endpoint == "" {
				return fmt.Errorf("input %q: endpoint is required for %s", in.ID, in.Kind)
			}
		case InputModbusRTU:
			if in.Endpoint == "" {
				return fmt.Errorf("input %q: endpoint is required for %s", in.ID, in.Kind)
			}
			if in.Baud < 0 {
				return fmt.Errorf("input %q: baud must be >= 0", in.ID)
			}
		default:
			return fmt.Errorf("input %q: unknown kind %q", in.ID, in.Kind)
		}

		if in.PollMs < 0 || in.TimeoutMs < 0 {
			return fmt.Errorf("input %q: poll_ms and timeout_ms must be >= 0", in.ID)
		}
		if len(in.Lines) == 0 {
			return fmt.Errorf("input %q: at least one line is required", in.ID)
		}

		lines := make(map[uint16]struct{}, len(in.Lines))
		for _, l := range in.Lines {
			if _, dup := lines[l.Line]; dup {
				return fmt.Errorf("input %q: line %d bound twice", in.ID, l.Line)
			}
			lines[l.Line] = struct{}{}

			if in.Kind == InputGPIO {
				if prev, exists := gpioOwner[l.Line]; exists {
					return fmt.Errorf(
						"gpio line %d: used by inputs %q and %q",
						l.Line,
						prev,
						in.ID,
					)
				}
				gpioOwner[l.Line] = in.ID
			}

			if _, ok := beverages[l.Beverage]; !ok {
				return fmt.Errorf(
					"input %q: line %d bound to unknown beverage %q",
					in.ID,
					l.Line,
					l.Beverage,
				)
			}

			if prev, exists := boundBy[l.Beverage]; exists {
				return fmt.Errorf(
					"beverage %q: bound by inputs %q and %q",
					l.Beverage,
					prev,
					in.ID,
				)
			}
			boundBy[l.Beverage] = in.ID
		}
	}

	// ------------------------------------------------------------
	// REMOTE
	// ------------------------------------------------------------

	if c.Remote.BaseURL == "" {
		return errors.New("remote: base_url is required")
	}
	u, err := url.Parse(c.Remote.BaseURL)
	if err != nil {
		return fmt.Errorf("remote: base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("remote: base_url %q must be an absolute http(s) url", c.Remote.BaseURL)
	}
	if c.Remote.TimeoutMs < 0 {
		return errors.New("remote: timeout_ms must be >= 0")
	}
	if c.Remote.PutPath != "" && !strings.HasPrefix(c.Remote.PutPath, "/") {
		return fmt.Errorf("remote: put_path %q must start with /", c.Remote.PutPath)
	}

	// ------------------------------------------------------------
	// PRINTER (OPT-IN)
	// ------------------------------------------------------------

	p := c.Printer
	if p.CharWidth < 0 {
		return errors.New("printer: char_width must be >= 0")
	}
	if p.BannerFrequency < 0 {
		return errors.New("printer: banner_frequency must be >= 0")
	}
	if p.BannerSize < 0 || p.BannerSize > 16 {
		return errors.New("printer: banner_size must be within 0..16")
	}
	if p.Baud < 0 || p.TimeoutMs < 0 {
		return errors.New("printer: baud and timeout_ms must be >= 0")
	}
	if p.Baud > 0 && strings.HasPrefix(p.Device, "tcp://") {
		return errors.New("printer: baud is not valid for a network printer")
	}

	// ------------------------------------------------------------
	// MQTT (OPT-IN)
	// ------------------------------------------------------------

	m := c.MQTT
	if m.Broker != "" {
		if m.QoS > 2 {
			return fmt.Errorf("mqtt: qos %d out of range", m.QoS)
		}
		if m.TimeoutMs < 0 {
			return errors.New("mqtt: timeout_ms must be >= 0")
		}
		if strings.ContainsAny(m.TopicPrefix, "#+") {
			return fmt.Errorf("mqtt: topic_prefix %q must not contain wildcards", m.TopicPrefix)
		}
	}

	return nil
}
