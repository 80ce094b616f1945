package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/vwhost/internal/domain/arrangement"
	"github.com/GriffinCanCode/vwhost/internal/domain/dock"
	"github.com/GriffinCanCode/vwhost/internal/domain/event"
	"github.com/GriffinCanCode/vwhost/internal/domain/host"
	"github.com/GriffinCanCode/vwhost/internal/domain/pip"
	"github.com/GriffinCanCode/vwhost/internal/domain/scene"
	"github.com/GriffinCanCode/vwhost/internal/domain/statusbar"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/mainloop"
	"github.com/GriffinCanCode/vwhost/internal/launcher"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router *gin.Engine
	scenes *scene.HeadlessFactory
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWith(t, launcher.NewLocal())
}

func newTestAPIWith(t *testing.T, l launcher.Launcher) *testAPI {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	loop := mainloop.New(nil, 0)
	go func() { _ = loop.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-loop.Done()
	})

	bus := event.NewBus(nil)
	scenes := scene.NewHeadlessFactory()
	router := statusbar.NewRouter(statusbar.NewStatusBar(nil), nil)
	h := host.New(host.Options{
		MaxWindows:  2,
		Surface:     types.Size{Width: 1280, Height: 800},
		DefaultSize: types.Size{Width: 640, Height: 480},
		MinSize:     types.Size{Width: 160, Height: 120},
		CascadeStep: 32,
		Chrome:      scene.DefaultChrome(),
	}, scenes, router, loop, nil).WithBus(bus)
	coord := pip.NewCoordinator(h, pip.NewHeadlessPresenter(), pip.Options{
		Size: types.Size{Width: 320, Height: 180}, Margin: 16,
	}, nil).WithBus(bus)
	d := dock.New(h, coord, true, nil).Follow(bus)
	store, err := arrangement.NewStore(filepath.Join(t.TempDir(), "arrangement.yaml"))
	require.NoError(t, err)

	handlers := NewHandlers(Deps{
		Loop:        loop,
		Host:        h,
		PiP:         coord,
		Dock:        d,
		Arrangement: store,
		Launcher:    l,
	})
	engine := gin.New()
	handlers.Register(engine)
	return &testAPI{router: engine, scenes: scenes}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func (a *testAPI) open(t *testing.T, bundle, data string) string {
	t.Helper()
	code, body := a.do(t, http.MethodPost, "/windows", launcher.BundleHandle{BundleID: bundle, DataUUID: data})
	require.Equal(t, http.StatusCreated, code, body)
	return body["window"].(map[string]any)["id"].(string)
}

const (
	uuidA = "11111111-1111-4111-8111-111111111111"
	uuidB = "22222222-2222-4222-8222-222222222222"
	uuidC = "33333333-3333-4333-8333-333333333333"
)

func TestOpenListAndGet(t *testing.T) {
	api := newTestAPI(t)
	wid := api.open(t, "com.example.a", uuidA)

	code, body := api.do(t, http.MethodGet, "/windows", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["count"])

	code, body = api.do(t, http.MethodGet, "/windows/"+wid, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["focused"])

	code, _ = api.do(t, http.MethodGet, "/windows/win_missing", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOpenReusesRunningInstance(t *testing.T) {
	api := newTestAPI(t)
	first := api.open(t, "com.example.a", uuidA)
	api.open(t, "com.example.b", uuidB)

	code, body := api.do(t, http.MethodPost, "/windows", launcher.BundleHandle{BundleID: "com.example.a", DataUUID: uuidA})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["reused"])
	w := body["window"].(map[string]any)
	assert.Equal(t, first, w["id"])
	assert.Equal(t, true, w["focused"])
}

// heldLauncher hands out instances whose readiness never arrives until the
// test closes ready
type heldLauncher struct {
	ready chan error
}

func (l *heldLauncher) RequestInstance(ctx context.Context, handle launcher.BundleHandle) (launcher.InstanceRequest, error) {
	req, err := launcher.NewLocal().RequestInstance(ctx, handle)
	req.Ready = l.ready
	return req, err
}

// gatedLauncher blocks the first launch until release is closed
type gatedLauncher struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (l *gatedLauncher) RequestInstance(ctx context.Context, handle launcher.BundleHandle) (launcher.InstanceRequest, error) {
	if l.calls.Add(1) == 1 {
		close(l.entered)
		<-l.release
	}
	return launcher.NewLocal().RequestInstance(ctx, handle)
}

func TestOpenReusesLoadingInstance(t *testing.T) {
	held := &heldLauncher{ready: make(chan error)}
	api := newTestAPIWith(t, held)
	t.Cleanup(func() { close(held.ready) })

	handle := launcher.BundleHandle{BundleID: "com.example.a", DataUUID: uuidA}
	code, first := api.do(t, http.MethodPost, "/windows", handle)
	require.Equal(t, http.StatusAccepted, code, first)
	assert.Equal(t, false, first["reused"])

	code, second := api.do(t, http.MethodPost, "/windows", handle)
	require.Equal(t, http.StatusAccepted, code, second)
	assert.Equal(t, true, second["reused"])
	assert.Equal(t, first["window_id"], second["window_id"])
	assert.Equal(t, first["request_id"], second["request_id"])
}

func TestConcurrentOpenForSameDataIsReused(t *testing.T) {
	gated := &gatedLauncher{entered: make(chan struct{}), release: make(chan struct{})}
	api := newTestAPIWith(t, gated)

	handle := launcher.BundleHandle{BundleID: "com.example.a", DataUUID: uuidA}
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(handle))
	slow := httptest.NewRequest(http.MethodPost, "/windows", &buf)
	slow.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		api.router.ServeHTTP(rec, slow)
	}()

	<-gated.entered
	wid := api.open(t, "com.example.a", uuidA)
	close(gated.release)
	<-done

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["reused"])
	assert.Equal(t, wid, body["window"].(map[string]any)["id"])

	code, list := api.do(t, http.MethodGet, "/windows", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, list["count"])
}

func TestOpenValidationAndLimit(t *testing.T) {
	api := newTestAPI(t)

	code, _ := api.do(t, http.MethodPost, "/windows", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = api.do(t, http.MethodPost, "/windows", launcher.BundleHandle{BundleID: "a", DataUUID: "not-a-uuid"})
	assert.Equal(t, http.StatusBadRequest, code)

	api.open(t, "com.example.a", uuidA)
	api.open(t, "com.example.b", uuidB)
	code, _ = api.do(t, http.MethodPost, "/windows", launcher.BundleHandle{BundleID: "com.example.c", DataUUID: uuidC})
	assert.Equal(t, http.StatusTooManyRequests, code)
}

func TestWindowOperations(t *testing.T) {
	api := newTestAPI(t)
	a := api.open(t, "com.example.a", uuidA)
	b := api.open(t, "com.example.b", uuidB)

	code, body := api.do(t, http.MethodPost, "/windows/"+a+"/focus", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["focused"])

	code, body = api.do(t, http.MethodPost, "/windows/"+b+"/minimize", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, string(types.VisibilityMinimized), body["visibility"])

	code, body = api.do(t, http.MethodPost, "/windows/"+b+"/maximize", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["maximized"])

	code, body = api.do(t, http.MethodPut, "/windows/"+a+"/frame", types.Rect{X: -100, Y: 0, Width: 400, Height: 300})
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, body["frame"].(map[string]any)["x"])

	code, _ = api.do(t, http.MethodPost, "/windows/win_missing/focus", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = api.do(t, http.MethodDelete, "/windows/"+a, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = api.do(t, http.MethodDelete, "/windows/"+a, nil)
	assert.Equal(t, http.StatusOK, code, "closing twice is harmless")
}

func TestPiPEndpoints(t *testing.T) {
	api := newTestAPI(t)
	a := api.open(t, "com.example.a", uuidA)

	code, body := api.do(t, http.MethodPost, "/windows/"+a+"/pip", nil)
	require.Equal(t, http.StatusCreated, code)
	sid := body["id"].(string)
	assert.Equal(t, string(types.PiPFloating), body["state"])

	code, _ = api.do(t, http.MethodPost, "/windows/"+a+"/pip", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = api.do(t, http.MethodPost, "/windows/"+a+"/minimize", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = api.do(t, http.MethodPut, "/pip/"+sid+"/frame", types.Rect{X: 0, Y: 0, Width: 320, Height: 180})
	assert.Equal(t, http.StatusOK, code)

	code, _ = api.do(t, http.MethodPost, "/pip/"+sid+"/reattach", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = api.do(t, http.MethodPost, "/pip/"+sid+"/reattach", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStatusBarTapForwardsToFocused(t *testing.T) {
	api := newTestAPI(t)
	a := api.open(t, "com.example.a", uuidA)

	code, body := api.do(t, http.MethodPost, "/statusbar/tap", types.TapAction{Name: "scroll_to_top"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["forwarded"])
	assert.Equal(t, a, body["window_id"])
}

func TestRouteTapOnChrome(t *testing.T) {
	api := newTestAPI(t)
	api.open(t, "com.example.a", uuidA)

	// first window cascades to the origin; the close button sits at the right end of the title bar
	code, body := api.do(t, http.MethodPost, "/input/tap", map[string]any{"x": 630, "y": 10})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, string(types.HitCloseButton), body["region"])
	assert.Equal(t, true, body["consumed"])

	_, list := api.do(t, http.MethodGet, "/windows", nil)
	assert.EqualValues(t, 0, list["count"])
}

func TestSurfaceAndSceneEvents(t *testing.T) {
	api := newTestAPI(t)
	api.open(t, "com.example.a", uuidA)

	code, _ := api.do(t, http.MethodPut, "/surface", types.Size{Width: 0, Height: 600})
	assert.Equal(t, http.StatusConflict, code)
	code, _ = api.do(t, http.MethodPut, "/surface", types.Size{Width: 800, Height: 600})
	assert.Equal(t, http.StatusOK, code)

	code, _ = api.do(t, http.MethodPost, "/scenes/events", types.SceneEvent{SceneID: "missing", Kind: types.SceneDestroyed})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestArrangementSaveRestore(t *testing.T) {
	api := newTestAPI(t)
	a := api.open(t, "com.example.a", uuidA)
	api.open(t, "com.example.b", uuidB)

	code, body := api.do(t, http.MethodPost, "/arrangement/save", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "yaml", body["format"])

	code, _ = api.do(t, http.MethodPut, "/windows/"+a+"/frame", types.Rect{X: 300, Y: 300, Width: 200, Height: 200})
	require.Equal(t, http.StatusOK, code)

	code, body = api.do(t, http.MethodPost, "/arrangement/restore", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["applied"], 2)

	_, win := api.do(t, http.MethodGet, "/windows/"+a, nil)
	assert.EqualValues(t, 0, win["frame"].(map[string]any)["x"])
}

func TestDockEndpoints(t *testing.T) {
	api := newTestAPI(t)
	a := api.open(t, "com.example.a", uuidA)
	api.open(t, "com.example.b", uuidB)

	code, body := api.do(t, http.MethodGet, "/dock", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["apps"], 2)

	code, body = api.do(t, http.MethodPost, "/dock/apps/"+uuidA+"/front", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, a, body["window_id"])

	code, body = api.do(t, http.MethodPost, "/dock/minimize-all?except="+a, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["minimized"])

	code, body = api.do(t, http.MethodPost, "/dock/collapse", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["collapsed"])
}

func TestHealthAndLogs(t *testing.T) {
	api := newTestAPI(t)

	code, body := api.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])

	code, _ = api.do(t, http.MethodPost, "/logs/shell", ShellLogBatch{})
	assert.Equal(t, http.StatusBadRequest, code)
	code, body = api.do(t, http.MethodPost, "/logs/shell", ShellLogBatch{Entries: []ShellLogEntry{{Level: "warn", Message: "dock drag stalled"}, {Level: "info"}}})
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["entries_received"])
	assert.EqualValues(t, 1, body["entries_rejected"])
}
