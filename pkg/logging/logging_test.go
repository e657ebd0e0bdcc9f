package logging

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		want    slog.Level
		wantErr bool
	}{
		{"", 0, slog.LevelInfo, false},
		{"", 1, slog.LevelDebug, false},
		{"", 3, LevelTrace, false},
		{"warn", 2, slog.LevelWarn, false},
		{"DEBUG", 0, slog.LevelDebug, false},
		{"loud", 0, slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.name, tt.count)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q, %d) error = %v, wantErr %v", tt.name, tt.count, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q, %d) = %v, want %v", tt.name, tt.count, got, tt.want)
		}
	}
}

func TestCompactHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.With("component", "canvas").WithGroup("node").Info("moved", "id", "4", "label", "Java Script")

	line := buf.String()
	for _, want := range []string{"[INFO]", "moved |", "component=canvas", "node.id=4", `node.label="Java Script"`} {
		if !strings.Contains(line, want) {
			t.Errorf("Expected %q in %q", want, line)
		}
	}
}

func TestCompactHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	log.Info("hidden")
	log.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("Info record should be filtered at WARN level")
	}
	if !strings.Contains(buf.String(), "[WARN]") {
		t.Error("Warn record should be written")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/graph", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "fixed-id" {
		t.Errorf("Expected request ID from header, got %q", seen)
	}
	if rec.Header().Get("X-Request-ID") != "fixed-id" {
		t.Errorf("Expected request ID echoed in response")
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/graph", nil))
	if len(rec.Header().Get("X-Request-ID")) != 36 {
		t.Errorf("Expected generated uuid, got %q", rec.Header().Get("X-Request-ID"))
	}
}
