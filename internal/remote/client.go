package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxBody caps how much of an error response is surfaced.
const maxBody = 4096

// Config is minimal transport config.
type Config struct {
	BaseURL string
	PutPath string
	Timeout time.Duration
}

// Client talks to the counter persistence API.
// Every request is bounded by Timeout; expiry is an ordinary error.
type Client struct {
	base    *url.URL
	putPath string
	http    *http.Client
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote: %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Code exposes the HTTP status for callers that only want a number.
func (e *StatusError) Code() uint16 {
	return uint16(e.Status)
}

// Reading is one element of the PUT body.
type Reading struct {
	SensorType  string `json:"SensorType"`
	Location    string `json:"Location"`
	Value       int    `json:"Value"`
	Unit        string `json:"Unit"`
	Description string `json:"Description"`
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("remote: base url required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("remote: base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote: unsupported scheme %q", u.Scheme)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.PutPath == "" {
		cfg.PutPath = "/sensors/"
	}

	return &Client{
		base:    u,
		putPath: cfg.PutPath,
		http:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Get fetches path and returns the body of a 2xx response.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// PutReadings sends readings as a JSON array to the configured put path.
func (c *Client) PutReadings(ctx context.Context, readings []Reading) error {
	body, err := json.Marshal(readings)
	if err != nil {
		return fmt.Errorf("remote: encode readings: %w", err)
	}
	_, err = c.do(ctx, http.MethodPut, c.putPath, body)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("remote: path %q: %w", path, err)
	}
	target := c.base.ResolveReference(ref)

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), rd)
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("remote: %s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(data) > maxBody {
			data = data[:maxBody]
		}
		return nil, &StatusError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   string(data),
		}
	}

	return data, nil
}
