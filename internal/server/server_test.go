package server

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/hvactwin/internal/core/camera"
	"github.com/zeusync/hvactwin/internal/core/command"
	"github.com/zeusync/hvactwin/internal/core/events/bus"
	"github.com/zeusync/hvactwin/internal/core/geom"
	"github.com/zeusync/hvactwin/internal/core/layout"
	"github.com/zeusync/hvactwin/internal/core/observability/log"
	"github.com/zeusync/hvactwin/internal/core/picking"
	"github.com/zeusync/hvactwin/internal/core/projector"
	"github.com/zeusync/hvactwin/internal/core/scene"
	"github.com/zeusync/hvactwin/internal/core/telemetry"
)

type fixture struct {
	srv   *Server
	state *scene.State
	sim   *telemetry.Simulator
}

func newFixture(t *testing.T, config Config) *fixture {
	t.Helper()
	cam, err := camera.New(1280, 720)
	require.NoError(t, err)
	state, err := scene.Build(layout.Default(), cam, rand.New(rand.NewPCG(3, 3)))
	require.NoError(t, err)
	b := bus.New()
	proj := projector.New()
	sim := telemetry.New(state, rand.New(rand.NewPCG(8, 8)), b, log.NewNop())
	d := command.NewDispatcher(state, sim, picking.New(state, log.NewNop()), proj, b, log.NewNop())
	return &fixture{srv: New(config, state, proj, d, b, log.NewNop()), state: state, sim: sim}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

type dispatchResponse struct {
	Outcome command.Outcome     `json:"outcome"`
	View    projector.ViewState `json:"view"`
	Error   string              `json:"error"`
	Code    string              `json:"code"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) dispatchResponse {
	t.Helper()
	var out dispatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthAndView(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	rec := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","clients":0}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/view", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Len(t, view["assets"], 13)
	assert.Len(t, view["pipes"], 18)
	assert.Equal(t, "on", view["flow"])
	assert.Equal(t, "0.00", view["throughput"])
	assert.Equal(t, "Tap an object", view["panel"].(map[string]any)["name"])
}

func TestCommandsEndpoint(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	rec := f.do(t, http.MethodPost, "/api/commands", `{"type":"set_flow_speed","level":"turbo"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, scene.FlowTurbo, decode(t, rec).View.Flow)

	rec = f.do(t, http.MethodPost, "/api/commands", `{"type":"pulse","target":{"type":"chiller","id":1}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	require.NotNil(t, resp.Outcome.Pulsed)
	assert.Equal(t, 1.1, resp.Outcome.Pulsed.Load)

	rec = f.do(t, http.MethodPost, "/api/commands", `{"type":"pulse","target":{"type":"chiller","id":77}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/commands", `{"type":"warp"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/commands", `{"type":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPickAndResizeEndpoints(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	px, py, ok := f.state.Snapshot().Camera.Project(geom.V3(15, 2.5, 6))
	require.True(t, ok)

	body, _ := json.Marshal(pickRequest{X: px, Y: py})
	rec := f.do(t, http.MethodPost, "/api/pick", string(body))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	require.NotNil(t, resp.Outcome.Pick)
	assert.True(t, resp.Outcome.Pick.Hit())
	assert.Equal(t, "Compressor 4 (compressor)", resp.View.Panel.Name)

	rec = f.do(t, http.MethodPost, "/api/pick", `{"x":1,"y":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, projector.EmptyPanel, decode(t, rec).View.Panel)

	rec = f.do(t, http.MethodPost, "/api/resize", `{"width":1024,"height":512,"sparkWidth":300,"sparkHeight":60}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode(t, rec)
	assert.Equal(t, 2.0, resp.View.Camera.Aspect)
	assert.Equal(t, 300, resp.View.Sparkline.Width)

	rec = f.do(t, http.MethodPost, "/api/resize", `{"width":-4,"height":512}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "RenderSurfaceUnavailable", decode(t, rec).Code)

	rec = f.do(t, http.MethodPost, "/api/resize", `{"height":512}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebSocketCommands(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ts := httptest.NewServer(f.srv.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageView, msg.Type)
	require.NotNil(t, msg.View)
	assert.Len(t, msg.View.Assets, 13)

	require.NoError(t, conn.WriteJSON(command.ToggleTheme()))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageOutcome, msg.Type)
	require.NotNil(t, msg.Outcome)
	assert.Equal(t, scene.LightTheme, *msg.Outcome.Theme)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	msg = Message{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageError, msg.Type)
	assert.Contains(t, msg.Error, ErrInvalidMessage.Error())

	assert.Equal(t, 1, f.srv.hub.size())
}

func TestWebSocketMaxClients(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxClients = 1
	f := newFixture(t, cfg)
	ts := httptest.NewServer(f.srv.Handler())
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	first, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = first.Close() }()

	second, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()
	require.NoError(t, second.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = second.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseTryAgainLater), "got %v", err)
}

func TestStartBroadcastsTelemetry(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	cfg := DefaultConfig()
	cfg.ListenAddr = addr
	cfg.StreamInterval = time.Hour
	f := newFixture(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.srv.Start(ctx) }()

	var conn *websocket.Conn
	require.Eventually(t, func() bool {
		conn, _, err = websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	defer func() { _ = conn.Close() }()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "0.00", msg.View.Throughput)

	require.Eventually(t, func() bool { return f.srv.hub.size() == 1 }, time.Second, 5*time.Millisecond)
	report := f.sim.Tick()
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageView, msg.Type)
	assert.Equal(t, report.Tick, msg.View.Tick)

	assert.ErrorIs(t, f.srv.Start(ctx), ErrServerAlreadyRunning)
	cancel()
	require.NoError(t, <-done)
	assert.ErrorIs(t, f.srv.Stop(context.Background()), ErrServerNotRunning)
}
