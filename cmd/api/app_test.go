package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chatbot-backend/internal/config"
	"github.com/hugohenrick/chatbot-backend/pkg/logger"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            "0",
			GinMode:         gin.TestMode,
			ShutdownTimeout: time.Second,
			AllowedOrigins:  []string{"http://localhost:5173"},
		},
		Provider: config.ProviderConfig{
			APIKey:  "sk-test",
			BaseURL: "http://127.0.0.1:1",
			Timeout: time.Second,
		},
		Store:  config.StoreConfig{Driver: driver, AutoMigrate: true},
		Export: config.ExportConfig{Location: time.UTC},
	}
}

func TestAppRoutes(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(config.DriverMemory), logger.NewNop())
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer app.Close()

	tests := []struct {
		method, path string
		want         int
		contains     string
	}{
		{http.MethodGet, "/api/health", http.StatusOK, `"store":"memory"`},
		{http.MethodGet, "/api/conversations", http.StatusOK, "[]"},
		{http.MethodPost, "/api/conversations/new", http.StatusCreated, `"messages":[]`},
		{http.MethodGet, "/metrics", http.StatusOK, "chatbot_http_requests_total"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		app.GetRouter().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		if w.Code != tt.want {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, w.Code, tt.want)
		}
		if !strings.Contains(w.Body.String(), tt.contains) {
			t.Errorf("%s %s: body does not contain %q", tt.method, tt.path, tt.contains)
		}
	}
}

func TestAppProviderUnreachable(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(config.DriverMemory), logger.NewNop())
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer app.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.GetRouter().ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502, body = %s", w.Code, w.Body)
	}
	if !strings.Contains(w.Body.String(), `"reason":"provider_error"`) {
		t.Errorf("body = %s", w.Body)
	}
}

func TestAppCORS(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(config.DriverMemory), logger.NewNop())
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer app.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	app.GetRouter().ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allowed origin header = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	app.GetRouter().ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign origin status = %d, want 403", w.Code)
	}
}

func TestAppSQLite(t *testing.T) {
	cfg := testConfig(config.DriverSQLite)
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "chat.db")

	app, err := NewApp(context.Background(), cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer app.Close()

	w := httptest.NewRecorder()
	app.GetRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/conversations/new", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
}
