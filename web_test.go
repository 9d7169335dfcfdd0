package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Carson-Bove/tictactyler/games/tictactoe"
	"github.com/prometheus/client_golang/prometheus"
)

type discard struct{}

func (discard) Send(any) bool { return true }

func newTestRouter(t *testing.T, cfg *Config, reg *prometheus.Registry) (http.Handler, *tictactoe.Coordinator) {
	t.Helper()

	coord, err := newCoordinator(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	errs := make(chan error, 16)
	t.Cleanup(func() {
		select {
		case err := <-errs:
			t.Errorf("handler reported error: %v", err)
		default:
		}
	})

	return newRouter(cfg, coord, reg, errs), coord
}

func get(t *testing.T, h http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStaticRoutes(t *testing.T) {
	h, _ := newTestRouter(t, validConfig(), nil)

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/", "text/html; charset=utf-8", "ws://example.com/ws"},
		{"/healthz", "text/plain; charset=utf-8", "Ok"},
		{"/robots.txt", "text/plain; charset=utf-8", "User-agent: GPTBot"},
		{"/version", "text/plain; charset=utf-8", "tictactyler v" + releaseVersion},
		{"/qr", "image/png", "\x89PNG"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path, nil)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Fatalf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Fatal("security headers missing")
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Fatalf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestPrefixedRoutes(t *testing.T) {
	cfg := validConfig()
	cfg.prefix = "/ttt"
	h, _ := newTestRouter(t, cfg, nil)

	if rec := get(t, h, "/ttt/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("prefixed healthz status = %d", rec.Code)
	}
	if rec := get(t, h, "/healthz", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unprefixed healthz status = %d, want 404", rec.Code)
	}
	if rec := get(t, h, "/ttt/", nil); !strings.Contains(rec.Body.String(), "/ttt/ws") {
		t.Fatalf("home page does not advertise the prefixed socket: %s", rec.Body.String())
	}
}

func TestHomePageBehindTLSProxy(t *testing.T) {
	h, _ := newTestRouter(t, validConfig(), nil)

	rec := get(t, h, "/", http.Header{"X-Forwarded-Proto": {"https"}})
	if !strings.Contains(rec.Body.String(), "wss://example.com/ws") {
		t.Fatalf("home page = %s", rec.Body.String())
	}
}

func TestStats(t *testing.T) {
	h, coord := newTestRouter(t, validConfig(), nil)

	coord.Connect("a", discard{})
	if err := coord.Join("a", "Ann"); err != nil {
		t.Fatal(err)
	}

	rec := get(t, h, "/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var st tictactoe.Stats
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	want := tictactoe.Stats{Connections: 1, Waiting: 1, SlotHeld: true}
	if st != want {
		t.Fatalf("stats = %+v, want %+v", st, want)
	}
}

func TestMetricsRoute(t *testing.T) {
	h, _ := newTestRouter(t, validConfig(), nil)
	if rec := get(t, h, "/metrics", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("metrics served while disabled: %d", rec.Code)
	}

	reg := prometheus.NewRegistry()
	m := newMetrics(reg)
	m.SessionCreated("game-1")

	h, _ = newTestRouter(t, validConfig(), reg)
	rec := get(t, h, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "tictactyler_sessions_created_total 1") {
		t.Fatalf("metrics body:\n%s", body)
	}
}

func TestProfileRoutes(t *testing.T) {
	cfg := validConfig()

	h, _ := newTestRouter(t, cfg, nil)
	if rec := get(t, h, "/pprof/heap", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("pprof served while disabled: %d", rec.Code)
	}

	cfg.profile = true
	h, _ = newTestRouter(t, cfg, nil)
	if rec := get(t, h, "/pprof/heap", nil); rec.Code != http.StatusOK {
		t.Fatalf("pprof status = %d", rec.Code)
	}
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		header http.Header
		want   string
	}{
		{"remote addr", "192.0.2.1:5000", nil, "192.0.2.1:5000"},
		{"cloudflare", "192.0.2.1:5000", http.Header{"Cf-Connecting-Ip": {"198.51.100.7"}}, "198.51.100.7:5000"},
		{"real ip", "192.0.2.1:5000", http.Header{"X-Real-Ip": {"198.51.100.8"}}, "198.51.100.8:5000"},
		{"bogus header", "192.0.2.1:5000", http.Header{"X-Real-Ip": {"nope"}}, "192.0.2.1:5000"},
		{"ipv6", "[2001:db8::1]:5000", nil, "[2001:db8::1]:5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header[k] = v
			}
			if got := realIP(req); got != tt.want {
				t.Fatalf("realIP() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHumanReadableSize(t *testing.T) {
	for in, want := range map[int64]string{
		0:       "0 B",
		999:     "999 B",
		1000:    "1.0 kB",
		1500000: "1.5 MB",
	} {
		if got := humanReadableSize(in); got != want {
			t.Errorf("humanReadableSize(%d) = %s, want %s", in, got, want)
		}
	}
}
