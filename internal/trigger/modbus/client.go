package modbus

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goburrow/modbus"
)

// maxDiscreteInputs is the protocol limit for one FC 2 request.
const maxDiscreteInputs = 2000

// handler is what both goburrow TCP and RTU handlers provide.
type handler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// Client implements trigger.Client by reading discrete inputs (FC 2)
// of a Modbus I/O module.
type Client struct {
	handler handler
	client  modbus.Client
}

// Config is minimal transport config.
// Endpoint is host:port for TCP, a serial device path for RTU.
type Config struct {
	Endpoint string
	RTU      bool
	Baud     int
	UnitID   uint8
	Timeout  time.Duration
}

// New creates a connected client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("trigger modbus: endpoint required")
	}

	var h handler
	if cfg.RTU {
		rh := modbus.NewRTUClientHandler(cfg.Endpoint)
		rh.BaudRate = cfg.Baud
		rh.DataBits = 8
		rh.Parity = "N"
		rh.StopBits = 1
		rh.SlaveId = cfg.UnitID
		rh.Timeout = cfg.Timeout
		h = rh
	} else {
		th := modbus.NewTCPClientHandler(strings.TrimPrefix(cfg.Endpoint, "tcp://"))
		th.SlaveId = cfg.UnitID
		th.Timeout = cfg.Timeout
		h = th
	}

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("trigger modbus: connect %s: %w", cfg.Endpoint, err)
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// ReadLines reads the span covering all lines in one request and picks
// the requested inputs out of it.
func (c *Client) ReadLines(lines []uint16) ([]bool, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	lo, hi := span(lines)
	qty := int(hi) - int(lo) + 1
	if qty > maxDiscreteInputs {
		return nil, fmt.Errorf("trigger modbus: line span %d-%d exceeds %d inputs", lo, hi, maxDiscreteInputs)
	}

	data, err := c.client.ReadDiscreteInputs(lo, uint16(qty))
	if err != nil {
		return nil, err
	}

	bits := unpackBits(data, qty)

	out := make([]bool, len(lines))
	for i, l := range lines {
		out[i] = bits[l-lo]
	}
	return out, nil
}

func span(lines []uint16) (lo, hi uint16) {
	lo, hi = lines[0], lines[0]
	for _, l := range lines[1:] {
		if l < lo {
			lo = l
		}
		if l > hi {
			hi = l
		}
	}
	return lo, hi
}

// ---- helpers (pure geometry) ----

func unpackBits(data []byte, count int) []bool {
	out := make([]bool, count)
	for i := 0; i < count; i++ {
		byteIdx := i / 8
		bitIdx := i % 8
		if byteIdx >= len(data) {
			out[i] = false
			continue
		}
		out[i] = (data[byteIdx]&(1<<bitIdx) != 0)
	}
	return out
}
