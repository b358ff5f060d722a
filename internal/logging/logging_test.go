package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("warn", "json", &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	log.Info("hidden")
	log.Warn("shown", "sheet", "Data")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1:\n%s", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "shown" || entry["sheet"] != "Data" {
		t.Errorf("entry = %v", entry)
	}
	ts, _ := entry["time"].(string)
	if !strings.Contains(ts, "T") || strings.Contains(ts, ".") {
		t.Errorf("time %q not in RFC3339 seconds form", ts)
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New("loud", "text", &bytes.Buffer{}); err == nil {
		t.Error("unknown level should fail")
	}
	if _, err := New("info", "xml", &bytes.Buffer{}); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	base, _ := New("info", "text", &buf)

	FromContext(context.Background(), base).Info("plain")
	FromContext(WithRequestID(context.Background(), "abc123"), base).Info("tagged")

	out := buf.String()
	if strings.Count(out, "request_id=") != 1 || !strings.Contains(out, "request_id=abc123") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if RequestID(context.Background()) != "" {
		t.Error("empty context should have no request ID")
	}
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log, _ := New("info", "text", &buf)

	var seen string
	h := RequestIDMiddleware(Middleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	id := rec.Header().Get("X-Request-ID")
	if id == "" || id != seen {
		t.Errorf("request ID header %q, handler saw %q", id, seen)
	}
	out := buf.String()
	for _, want := range []string{"msg=http_request", "path=/healthz", "status_code=418", "request_id=" + id} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-1")
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "upstream-1" {
		t.Errorf("incoming request ID not reused: %q", got)
	}
}
