package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"accommodations/internal/clients"
	"accommodations/internal/config"
	"accommodations/internal/discovery"
	"accommodations/internal/http/handlers"
	"accommodations/internal/repos"
	"accommodations/internal/telemetry"
)

type testApp struct {
	app  *fiber.App
	repo *repos.AccommodationRepo
	reg  *telemetry.Registry
}

// newTestApp wires the real routes over an in-memory store. bookingsURL and
// peer may be empty when a test does not reach those services.
func newTestApp(t *testing.T, bookingsURL, peer string) *testApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	repo := repos.NewAccommodationRepo(db)
	t.Cleanup(func() { repo.Close() })

	peers := map[string]string{}
	if peer != "" {
		peers["users"] = peer
		peers["notifications"] = peer
	}
	res, err := discovery.NewStaticResolver(peers)
	if err != nil {
		t.Fatal(err)
	}
	if bookingsURL == "" {
		bookingsURL = "http://127.0.0.1:1/v1/bookings"
	}

	reg := telemetry.NewRegistry()
	deps := handlers.NewDeps(
		repo,
		clients.NewBookingsClient(bookingsURL, 500*time.Millisecond),
		clients.NewDirectoryClient(res, "users", "notifications", 500*time.Millisecond),
		nil,
		reg,
	)
	cfg := config.Config{AppName: "accommodations", AppVersion: "test"}
	return &testApp{app: handlers.NewApp(cfg, deps), repo: repo, reg: reg}
}

// peerServer starts an httptest server and returns it with its host:port.
func peerServer(t *testing.T, h http.Handler) (*httptest.Server, string) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, strings.TrimPrefix(srv.URL, "http://")
}

func do(t *testing.T, app *fiber.App, method, target string, body io.Reader, contentType string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req, 2000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

func doJSON(t *testing.T, app *fiber.App, method, target string, v any) (*http.Response, string) {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return do(t, app, method, target, bytes.NewReader(b), fiber.MIMEApplicationJSON)
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	ReqID  string         `json:"req_id"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

// captureLogs collects the structured entries written while fn runs.
// Access log lines are not JSON and are skipped.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	buf := &lockedBuf{}
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(buf.b.String(), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		entries = append(entries, e)
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
