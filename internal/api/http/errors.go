package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/vwhost/internal/infrastructure/mainloop"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/vwhost/internal/launcher"
	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
)

// statusFor maps a domain error onto an HTTP status
func statusFor(err error) int {
	var se *launcher.StatusError
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsInvalidState(err):
		return http.StatusConflict
	case errors.IsResourceExhausted(err):
		return http.StatusTooManyRequests
	case errors.Is(err, mainloop.ErrStopped),
		errors.Is(err, resilience.ErrCircuitOpen),
		errors.Is(err, resilience.ErrProbeInFlight):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &se):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Invalid request: " + err.Error(),
	})
}
