package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LuvellCode/WebRTC-Madness/internal/adapters/signal"
	"github.com/LuvellCode/WebRTC-Madness/internal/app"
	"github.com/LuvellCode/WebRTC-Madness/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func newTestRouter(t *testing.T) (*gin.Engine, *app.Registry, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	static := t.TempDir()
	if err := os.WriteFile(filepath.Join(static, "index.html"), []byte("<h1>madness</h1>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	cfg := &config.Config{
		Mode:       "test",
		Host:       "example.test",
		Port:       8765,
		StaticPath: static,
		Secret:     "test-secret",
		ICEServers: []config.ICEServer{{URLs: []string{"stun:stun.example.com:3478"}}},
	}

	reg := app.NewRegistry()
	relay := app.NewRelay(reg, nil, 2)
	disp := &signal.Dispatcher{Sessions: reg, Handlers: signal.NewSignalingHandlers(relay, false)}
	ctl := signal.NewSignalWSController(reg, disp, signal.Options{})
	return SetupRouter(context.Background(), cfg, ctl, reg), reg, cfg
}

func TestConfigEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/config", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}

	var body struct {
		WebsocketHost string `json:"websocket_host"`
		ICEServers    []struct {
			URLs []string `json:"urls"`
		} `json:"ice_servers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.WebsocketHost != "ws://example.test:8765/api/ws/signal" {
		t.Fatalf("websocket_host=%q", body.WebsocketHost)
	}
	if len(body.ICEServers) != 1 || body.ICEServers[0].URLs[0] != "stun:stun.example.com:3478" {
		t.Fatalf("ice_servers=%+v", body.ICEServers)
	}
}

func TestRootServesIndexAndSetsClientCookie(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "madness") {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "MadnessSessions=") {
		t.Fatalf("session cookie not set: %q", w.Header().Get("Set-Cookie"))
	}
}

func TestHealthzCountsSessions(t *testing.T) {
	r, reg, _ := newTestRouter(t)
	ts := httptest.NewServer(r)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + config.SignalPath
	c, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	deadline := time.Now().Add(2 * time.Second)
	for reg.Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("session never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	var body struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Sessions != 1 {
		t.Fatalf("unexpected body %+v", body)
	}
}
