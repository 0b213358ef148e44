package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const category = "beverage_consumption"

func newTestClient(t *testing.T, srv *httptest.Server, timeout time.Duration) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: srv.URL, PutPath: "/sensors/", Timeout: timeout})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return c
}

func TestLoadSnapshot_StripsPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"state":{"sensors":{
			"beverage_consumption":[
				{"name":"beverage_consumption_club_mate","value":5},
				{"name":"beverage_consumption_tschunk","value":2.0},
				{"name":"other_thing","value":1}
			],
			"temperature":[{"name":"temperature_lounge","value":21.5}]
		}}}`)
	}))
	defer srv.Close()

	snap, err := LoadSnapshot(context.Background(), newTestClient(t, srv, time.Second), category)
	if err != nil {
		t.Fatalf("LoadSnapshot err=%v", err)
	}

	if len(snap) != 2 {
		t.Fatalf("expected 2 entries, got %v", snap)
	}
	if snap["club_mate"] != 5 || snap["tschunk"] != 2 {
		t.Fatalf("unexpected snapshot: %v", snap)
	}
}

func TestLoadSnapshot_CategoryAbsentIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"state":{"sensors":{"temperature":[]}}}`)
	}))
	defer srv.Close()

	snap, err := LoadSnapshot(context.Background(), newTestClient(t, srv, time.Second), category)
	if err != nil {
		t.Fatalf("absent category must not fail: %v", err)
	}
	if len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %v", snap)
	}
}

func TestParseSnapshot_SensorsMissingIsFatal(t *testing.T) {
	bodies := []string{
		`{}`,
		`null`,
		`{"error":"not the space api"}`,
		`{"state":{}}`,
		`{"state":null}`,
		`{"state":{"sensors":null}}`,
	}

	for _, body := range bodies {
		snap, err := ParseSnapshot([]byte(body), category)
		if err == nil {
			t.Fatalf("body %s: expected error, got snapshot %v", body, snap)
		}
	}
}

func TestLoadSnapshot_NonSuccessSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, "database offline")
	}))
	defer srv.Close()

	_, err := LoadSnapshot(context.Background(), newTestClient(t, srv, time.Second), category)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if se.Status != http.StatusServiceUnavailable {
		t.Fatalf("status: got=%d want=503", se.Status)
	}
	if !strings.Contains(err.Error(), "database offline") {
		t.Fatalf("error must carry body: %v", err)
	}
}

func TestLoadSnapshot_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newTestClient(t, srv, time.Second)
	srv.Close()

	if _, err := LoadSnapshot(context.Background(), c, category); err == nil {
		t.Fatalf("expected transport error, got nil")
	}
}

func TestParseSnapshot_Malformed(t *testing.T) {
	if _, err := ParseSnapshot([]byte("not json"), category); err == nil {
		t.Fatalf("expected decode error")
	}

	body := []byte(`{"state":{"sensors":{"beverage_consumption":[{"name":"beverage_consumption_x","value":-1}]}}}`)
	if _, err := ParseSnapshot(body, category); err == nil {
		t.Fatalf("expected negative value error")
	}
}

func TestPutReadings_Body(t *testing.T) {
	var got []Reading
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/sensors/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type: got=%q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
	}))
	defer srv.Close()

	err := newTestClient(t, srv, time.Second).PutReadings(context.Background(), []Reading{{
		SensorType:  category,
		Location:    "club_mate",
		Value:       6,
		Unit:        "drk",
		Description: "Club Mate",
	}})
	if err != nil {
		t.Fatalf("PutReadings err=%v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(got))
	}
	if got[0].Location != "club_mate" || got[0].Value != 6 || got[0].Unit != "drk" {
		t.Fatalf("unexpected reading: %+v", got[0])
	}
}

func TestPutReadings_TimeoutIsError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	err := newTestClient(t, srv, 50*time.Millisecond).PutReadings(context.Background(), []Reading{{Location: "x", Value: 1}})
	if err == nil {
		t.Fatalf("expected timeout error, got nil")
	}
}
