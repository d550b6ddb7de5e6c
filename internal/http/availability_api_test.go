package handlers_test

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"accommodations/internal/services"
)

type bookingsStub struct {
	mu         sync.Mutex
	requestIDs []string
}

func (b *bookingsStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requestIDs = append(b.requestIDs, r.Header.Get("X-Request-ID"))
	b.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `[{"idAccommodation":1,"fromDate":1000,"toDate":2000},{"idAccommodation":2,"fromDate":"1970-01-01T00:00:00Z","toDate":100000}]`)
}

func TestAvailabilityOutcomes(t *testing.T) {
	stub := &bookingsStub{}
	srv, _ := peerServer(t, stub)
	ta := newTestApp(t, srv.URL+"/v1/bookings", "")

	cases := []struct {
		name   string
		query  string
		status int
		body   string
	}{
		{"booked at start", "/v1/accommodations/1/availability?fromTime=1500&toTime=2500", 200, "false"},
		{"free at start", "/v1/accommodations/1/availability?fromTime=2500&toTime=3000", 200, "true"},
		{"booking inside window", "/v1/accommodations/1/availability?fromTime=500&toTime=2500", 200, "true"},
		{"rfc3339 booking", "/v1/accommodations/2/availability?fromTime=50&toTime=60", 200, "false"},
		{"unbooked accommodation", "/v1/accommodations/3/availability?fromTime=1500&toTime=2500", 200, "true"},
		{"reversed window", "/v1/accommodations/1/availability?fromTime=2000&toTime=1000", 400, ""},
		{"empty window", "/v1/accommodations/1/availability?fromTime=1000&toTime=1000", 400, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := do(t, ta.app, "GET", tc.query, nil, "")
			if resp.StatusCode != tc.status {
				t.Fatalf("want %d, got %d body=%s", tc.status, resp.StatusCode, body)
			}
			if strings.TrimSpace(body) != tc.body {
				t.Fatalf("want body %q, got %q", tc.body, body)
			}
		})
	}

	stub.mu.Lock()
	defer stub.mu.Unlock()
	for _, rid := range stub.requestIDs {
		if rid == "" {
			t.Fatal("outbound call missing X-Request-ID")
		}
	}
}

func TestAvailabilityRejectsMalformedParams(t *testing.T) {
	ta := newTestApp(t, "", "")
	for _, q := range []string{
		"/v1/accommodations/1/availability",
		"/v1/accommodations/1/availability?fromTime=abc&toTime=10",
		"/v1/accommodations/1/availability?fromTime=1",
		"/v1/accommodations/x/availability?fromTime=1&toTime=2",
	} {
		if resp, body := do(t, ta.app, "GET", q, nil, ""); resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: want 400, got %d body=%s", q, resp.StatusCode, body)
		}
	}
}

func TestAvailabilityBookingsOutage(t *testing.T) {
	srv, _ := peerServer(t, http.NotFoundHandler())
	down := srv.URL + "/v1/bookings"
	srv.Close()
	ta := newTestApp(t, down, "")

	var resp *http.Response
	var body string
	entries := captureLogs(t, func() {
		resp, body = do(t, ta.app, "GET", "/v1/accommodations/1/availability?fromTime=1&toTime=2", nil, "")
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Bookings service unavailable!") {
		t.Fatalf("outage message missing: %s", body)
	}
	if v, ok := ta.reg.Gauge(services.GaugeAvailabilityError); !ok || v != 1 {
		t.Fatalf("error gauge = %v (set=%v), want 1", v, ok)
	}
	e, ok := findLog(entries, "availability.bookings.unavailable")
	if !ok || e.Level != "warn" || e.Err == "" || e.ReqID == "" {
		t.Fatalf("missing warn log, got %+v", entries)
	}
}

func TestAvailabilityBookingsErrorStatus(t *testing.T) {
	srv, _ := peerServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	ta := newTestApp(t, srv.URL+"/v1/bookings", "")
	resp, body := do(t, ta.app, "GET", "/v1/accommodations/1/availability?fromTime=1&toTime=2", nil, "")
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body, "Bookings service unavailable!") {
		t.Fatalf("want 400 outage, got %d %s", resp.StatusCode, body)
	}
}
