// internal/config/config.go
package config

type Config struct {
	Counter CounterConfig `yaml:"counter"`
}

type CounterConfig struct {
	Beverages []BeverageConfig `yaml:"beverages"`
	Inputs    []InputConfig    `yaml:"inputs"`
	Remote    RemoteConfig     `yaml:"remote"`
	Printer   PrinterConfig    `yaml:"printer"`
	MQTT      MQTTConfig       `yaml:"mqtt"`
}

// ---- BEVERAGE ----

type BeverageConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// ---- INPUT ----

const (
	InputGPIO      = "gpio"
	InputModbusTCP = "modbus_tcp"
	InputModbusRTU = "modbus_rtu"
)

type InputConfig struct {
	ID        string `yaml:"id"`
	Kind      string `yaml:"kind"`
	Endpoint  string `yaml:"endpoint"`   // modbus only
	UnitID    uint8  `yaml:"unit_id"`    // modbus only
	Baud      int    `yaml:"baud"`       // modbus_rtu only
	TimeoutMs int    `yaml:"timeout_ms"` // modbus only
	PollMs    int    `yaml:"poll_ms"`
	ActiveLow bool   `yaml:"active_low"`
	Pull      string `yaml:"pull"` // gpio only: up | down | none

	Lines []LineConfig `yaml:"lines"`
}

type LineConfig struct {
	Line     uint16 `yaml:"line"`     // BCM GPIO number or discrete input address
	Beverage string `yaml:"beverage"` // beverage id
}

// ---- REMOTE ----

type RemoteConfig struct {
	BaseURL    string `yaml:"base_url"`
	SensorType string `yaml:"sensor_type"`
	PutPath    string `yaml:"put_path"`
	Unit       string `yaml:"unit"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}

// ---- PRINTER ----

type PrinterConfig struct {
	Device          string `yaml:"device"` // empty disables the printer
	Baud            int    `yaml:"baud"`
	TimeoutMs       int    `yaml:"timeout_ms"`
	CharWidth       int    `yaml:"char_width"`
	BannerFrequency int    `yaml:"banner_frequency"`
	BannerURL       string `yaml:"banner_url"`
	BannerSize      int    `yaml:"banner_size"`
}

// ---- MQTT ----

type MQTTConfig struct {
	Broker      string `yaml:"broker"` // empty disables mqtt
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}
