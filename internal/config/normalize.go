// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultSensorType      = "beverage_consumption"
	DefaultPutPath         = "/sensors/"
	DefaultUnit            = "drk"
	DefaultRemoteTimeoutMs = 5000

	DefaultPollMs         = 20
	DefaultInputTimeoutMs = 1000
	DefaultBaud           = 19200
	DefaultPull           = "up"

	DefaultCharWidth        = 32
	DefaultBannerFrequency  = 10
	DefaultBannerSize       = 6
	DefaultPrinterTimeoutMs = 2000

	DefaultMQTTClientID    = "drink-counter"
	DefaultMQTTTopicPrefix = "drinks"
	DefaultMQTTTimeoutMs   = 2000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	c := &cfg.Counter

	// ---- remote ----
	if c.Remote.SensorType == "" {
		c.Remote.SensorType = DefaultSensorType
	}
	if c.Remote.PutPath == "" {
		c.Remote.PutPath = DefaultPutPath
	}
	if c.Remote.Unit == "" {
		c.Remote.Unit = DefaultUnit
	}
	if c.Remote.TimeoutMs == 0 {
		c.Remote.TimeoutMs = DefaultRemoteTimeoutMs
	}

	// ---- inputs ----
	for i := range c.Inputs {
		in := &c.Inputs[i]
		if in.PollMs == 0 {
			in.PollMs = DefaultPollMs
		}
		if in.TimeoutMs == 0 {
			in.TimeoutMs = DefaultInputTimeoutMs
		}
		if in.Kind == InputModbusRTU && in.Baud == 0 {
			in.Baud = DefaultBaud
		}
		if in.Kind == InputGPIO && in.Pull == "" {
			in.Pull = DefaultPull
		}
		if in.Kind != InputGPIO && in.UnitID == 0 {
			in.UnitID = 1
		}
	}

	// ---- printer ----
	p := &c.Printer
	if p.CharWidth == 0 {
		p.CharWidth = DefaultCharWidth
	}
	if p.BannerFrequency == 0 {
		p.BannerFrequency = DefaultBannerFrequency
	}
	if p.BannerSize == 0 {
		p.BannerSize = DefaultBannerSize
	}
	if p.TimeoutMs == 0 {
		p.TimeoutMs = DefaultPrinterTimeoutMs
	}

	// ---- mqtt ----
	m := &c.MQTT
	if m.Broker == "" {
		return
	}
	if m.ClientID == "" {
		m.ClientID = DefaultMQTTClientID
	}
	if m.TopicPrefix == "" {
		m.TopicPrefix = DefaultMQTTTopicPrefix
	}
	if m.TimeoutMs == 0 {
		m.TimeoutMs = DefaultMQTTTimeoutMs
	}
}
