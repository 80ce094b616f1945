package launcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/vwhost/internal/infrastructure/config"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Instance states reported by the launch service
const (
	StatusLoading = "loading"
	StatusReady   = "ready"
	StatusFailed  = "failed"
)

// HTTPOptions configures the remote launcher client
type HTTPOptions struct {
	BaseURL           string
	Timeout           time.Duration
	PollInterval      time.Duration
	RequestsPerSecond int
	RetryMax          int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
}

// HTTPOptionsFromConfig maps launcher configuration onto client options
func HTTPOptionsFromConfig(cfg config.LauncherConfig) HTTPOptions {
	return HTTPOptions{
		BaseURL:           cfg.URL,
		Timeout:           cfg.Timeout,
		PollInterval:      cfg.PollInterval,
		RequestsPerSecond: cfg.RequestsPerSecond,
		RetryMax:          3,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      2 * time.Second,
	}
}

// instanceResponse is the launch service's view of one instance
type instanceResponse struct {
	ID          string `json:"id"`
	BundleID    string `json:"bundle_id"`
	DataUUID    string `json:"data_uuid"`
	DisplayName string `json:"display_name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}

// StatusError is a non-2xx answer from the launch service
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("launch service: %d %s", e.Code, strings.TrimSpace(e.Body))
}

// HTTPLauncher asks a remote launch service for instances and polls it until
// each one is ready
type HTTPLauncher struct {
	client  *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	opts    HTTPOptions
	logger  *zap.Logger
}

// NewHTTP creates a remote launcher
func NewHTTP(opts HTTPOptions, logger *zap.Logger) *HTTPLauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("launcher")
	if opts.PollInterval <= 0 {
		opts.PollInterval = 250 * time.Millisecond
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = opts.RetryWaitMin
	retryClient.RetryWaitMax = opts.RetryWaitMax
	retryClient.Logger = leveledLogger{logger.Sugar()}
	// hand the final response back so status codes survive exhausted retries
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", "vwhost-launcher/1.0").
		SetHeader("Content-Type", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	limit := rate.Inf
	burst := 0
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		burst = opts.RequestsPerSecond
	}

	breaker := resilience.New("launcher", resilience.Settings{
		FailureThreshold: 5,
		Probes:           1,
		Cooldown:         10 * time.Second,
		Window:           time.Minute,
		IsFailure:        isServiceFailure,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Launch service breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &HTTPLauncher{
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		breaker: breaker,
		opts:    opts,
		logger:  logger,
	}
}

// Breaker exposes the circuit breaker guarding the launch service
func (l *HTTPLauncher) Breaker() *resilience.Breaker {
	return l.breaker
}

// RequestInstance asks the service to launch handle. An instance still
// loading is returned with a Ready channel fed by a poller.
func (l *HTTPLauncher) RequestInstance(ctx context.Context, handle BundleHandle) (InstanceRequest, error) {
	if err := handle.Validate(); err != nil {
		return InstanceRequest{}, err
	}

	inst, err := l.call(ctx, func(ctx context.Context) (*resty.Response, error) {
		return l.client.R().
			SetContext(ctx).
			SetBody(handle).
			SetResult(&instanceResponse{}).
			Post("/instances")
	})
	if err != nil {
		return InstanceRequest{}, fmt.Errorf("request instance %s: %w", handle.BundleID, err)
	}

	req := InstanceRequest{
		ID: id.RequestID(inst.ID),
		Instance: types.Instance{
			BundleID:    firstNonEmpty(inst.BundleID, handle.BundleID),
			DataUUID:    firstNonEmpty(inst.DataUUID, handle.DataUUID),
			DisplayName: firstNonEmpty(inst.DisplayName, handle.DisplayName),
		},
		Size: types.Size{Width: inst.Width, Height: inst.Height},
	}
	if req.ID == "" {
		req.ID = id.NewRequestID()
	}
	if req.Size.IsZero() {
		req.Size = types.Size{Width: handle.Width, Height: handle.Height}
	}

	l.logger.Info("Instance requested",
		zap.String("request_id", req.ID.String()),
		zap.String("bundle_id", req.Instance.BundleID),
		zap.String("status", inst.Status))

	switch inst.Status {
	case StatusReady, "":
		return req, nil
	case StatusFailed:
		return InstanceRequest{}, fmt.Errorf("request instance %s: %s", handle.BundleID, inst.Error)
	}

	ready := make(chan error, 1)
	req.Ready = ready
	go l.poll(inst.ID, ready)
	return req, nil
}

// poll reports readiness of a loading instance. It gives up after the
// configured timeout; the host's own context decides whether anyone still
// waits for the answer.
func (l *HTTPLauncher) poll(instanceID string, ready chan<- error) {
	ctx, cancel := context.WithTimeout(context.Background(), l.opts.Timeout)
	defer cancel()

	ticker := time.NewTicker(l.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ready <- fmt.Errorf("instance %s: not ready after %s", instanceID, l.opts.Timeout)
			return
		case <-ticker.C:
		}

		inst, err := l.call(ctx, func(ctx context.Context) (*resty.Response, error) {
			return l.client.R().
				SetContext(ctx).
				SetPathParam("id", instanceID).
				SetResult(&instanceResponse{}).
				Get("/instances/{id}")
		})
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			ready <- err
			return
		}

		switch inst.Status {
		case StatusReady:
			ready <- nil
			return
		case StatusFailed:
			ready <- fmt.Errorf("instance %s failed: %s", instanceID, inst.Error)
			return
		}
	}
}

// call rate limits and breaker-guards one round trip
func (l *HTTPLauncher) call(ctx context.Context, do func(context.Context) (*resty.Response, error)) (*instanceResponse, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return resilience.Call(ctx, l.breaker, func(ctx context.Context) (*instanceResponse, error) {
		resp, err := do(ctx)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
		}
		inst, ok := resp.Result().(*instanceResponse)
		if !ok || inst == nil {
			return nil, fmt.Errorf("launch service: empty response")
		}
		return inst, nil
	})
}

// isServiceFailure counts transport errors and 5xx answers; a 4xx is the
// caller's fault and leaves the breaker alone
func isServiceFailure(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= http.StatusInternalServerError
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// leveledLogger routes retryablehttp logging into zap
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
