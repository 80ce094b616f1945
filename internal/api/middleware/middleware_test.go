package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/vwhost/internal/shared/id"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw)
	r.GET("/windows", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func get(r http.Handler, path, ip string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitPerClient(t *testing.T) {
	r := newRouter(RateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 2, Exempt: []string{"/health"}}))

	assert.Equal(t, http.StatusOK, get(r, "/windows", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, get(r, "/windows", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/windows", "10.0.0.1"))

	assert.Equal(t, http.StatusOK, get(r, "/windows", "10.0.0.2"), "clients have separate buckets")
	assert.Equal(t, http.StatusOK, get(r, "/health", "10.0.0.1"), "exempt paths are never limited")
}

func TestIdleClientsAreSwept(t *testing.T) {
	l := newClientLimiters(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute})
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	l.allow("10.0.0.1")
	l.allow("10.0.0.2")
	assert.Equal(t, 2, l.size())

	now = now.Add(2 * time.Minute)
	l.allow("10.0.0.3")
	assert.Equal(t, 1, l.size())
}

func TestGlobalRateLimit(t *testing.T) {
	r := newRouter(GlobalRateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 1}))
	assert.Equal(t, http.StatusOK, get(r, "/windows", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/windows", "10.0.0.2"))
}

func TestCORSWildcard(t *testing.T) {
	r := newRouter(CORS(DefaultCORSConfig()))
	req := httptest.NewRequest(http.MethodOptions, "/windows", nil)
	req.Header.Set("Origin", "http://shell.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PUT")
}

func TestCORSExplicitOrigins(t *testing.T) {
	r := newRouter(CORS(CORSConfig{AllowOrigins: []string{"http://shell.local"}, MaxAge: time.Hour}))

	req := httptest.NewRequest(http.MethodGet, "/windows", nil)
	req.Header.Set("Origin", "http://shell.local")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "http://shell.local", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/windows", nil)
	req.Header.Set("Origin", "http://evil.local")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequestLoggerAssignsID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	var seen string
	r.GET("/windows", func(c *gin.Context) {
		rid, ok := RequestID(c.Request.Context())
		assert.True(t, ok)
		seen = rid.String()
		c.Status(http.StatusOK)
	})
	r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/windows", nil))
	assert.True(t, id.HasPrefix(rec.Header().Get(RequestIDHeader), id.RequestPrefix))
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	supplied := id.NewRequestID().String()
	req := httptest.NewRequest(http.MethodGet, "/windows", nil)
	req.Header.Set(RequestIDHeader, supplied)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, supplied, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/windows", nil)
	req.Header.Set(RequestIDHeader, "garbage")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.NotEqual(t, "garbage", rec.Header().Get(RequestIDHeader))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))
	assert.Equal(t, 1, logs.FilterMessage("Request failed").Len())
	assert.Equal(t, 3, logs.FilterMessage("Request served").Len())
}
