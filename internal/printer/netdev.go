package printer

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// netDevice is a raw port-9100 printer (stateless, 1 receipt = 1 connection).
type netDevice struct {
	endpoint string
	timeout  time.Duration
}

func newNetDevice(endpoint string, timeout time.Duration) (*netDevice, error) {
	if endpoint == "" {
		return nil, errors.New("printer: network endpoint required")
	}
	return &netDevice{endpoint: endpoint, timeout: timeout}, nil
}

func (d *netDevice) Write(b []byte) (int, error) {
	conn, err := net.DialTimeout("tcp", d.endpoint, d.timeout)
	if err != nil {
		return 0, fmt.Errorf("printer: dial %s: %w", d.endpoint, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(d.timeout))
	if err := writeAll(conn, b); err != nil {
		return 0, fmt.Errorf("printer: send %s: %w", d.endpoint, err)
	}
	return len(b), nil
}

func (d *netDevice) Close() error { return nil }
