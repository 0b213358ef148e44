package printer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/goburrow/serial"
)

// Device is an opened printer. One Write per receipt.
type Device interface {
	io.Writer
	Close() error
}

// Config selects and parameterizes the device.
//
//	/dev/usb/lp0       character device, opened write-only
//	/dev/ttyUSB0 +Baud serial line (8N1)
//	tcp://host:9100    raw network printer, one connection per receipt
type Config struct {
	Device  string
	Baud    int
	Timeout time.Duration
}

// Open opens the configured device once. Callers treat an empty
// Device as "printer disabled" and must not call Open.
func Open(cfg Config) (Device, error) {
	if cfg.Device == "" {
		return nil, errors.New("printer: device required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}

	if strings.HasPrefix(cfg.Device, "tcp://") {
		return newNetDevice(strings.TrimPrefix(cfg.Device, "tcp://"), cfg.Timeout)
	}

	if cfg.Baud > 0 {
		port, err := serial.Open(&serial.Config{
			Address:  cfg.Device,
			BaudRate: cfg.Baud,
			DataBits: 8,
			StopBits: 1,
			Parity:   "N",
			Timeout:  cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("printer: open serial %s: %w", cfg.Device, err)
		}
		return port, nil
	}

	f, err := os.OpenFile(cfg.Device, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return nil, fmt.Errorf("printer: open %s: %w", cfg.Device, err)
	}
	return f, nil
}

// writeAll loops until b is fully written.
func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		b = b[n:]
	}
	return nil
}

// Print writes one encoded receipt to d.
func Print(d Device, r *Receipt) error {
	if d == nil {
		return errors.New("printer: no device")
	}
	if err := writeAll(d, r.Bytes()); err != nil {
		return fmt.Errorf("printer: write: %w", err)
	}
	return nil
}
