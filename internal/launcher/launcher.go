// Package launcher is the boundary to the app-launch collaborator. It turns a
// bundle handle into an InstanceRequest the host can open; how the bundle is
// loaded or executed is the collaborator's business.
package launcher

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
	"github.com/GriffinCanCode/vwhost/internal/shared/utils"
)

// BundleHandle names the app to host
type BundleHandle struct {
	BundleID    string `json:"bundle_id" binding:"required"`
	DataUUID    string `json:"data_uuid,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// InstanceRequest is a hosted instance that may still be loading.
// A nil Ready channel means the instance is ready now. Otherwise exactly one
// value is delivered: nil when ready, an error when loading failed.
type InstanceRequest struct {
	ID       id.RequestID
	Instance types.Instance
	Size     types.Size
	Ready    <-chan error
}

// Launcher produces instance requests from bundle handles
type Launcher interface {
	RequestInstance(ctx context.Context, handle BundleHandle) (InstanceRequest, error)
}

// Local is a launcher for instances that render in-process and are ready immediately
type Local struct{}

// NewLocal creates a local launcher
func NewLocal() *Local {
	return &Local{}
}

// RequestInstance returns a ready request. A missing data UUID gets a fresh one.
func (l *Local) RequestInstance(ctx context.Context, handle BundleHandle) (InstanceRequest, error) {
	if err := ctx.Err(); err != nil {
		return InstanceRequest{}, err
	}
	if err := handle.Validate(); err != nil {
		return InstanceRequest{}, err
	}
	return InstanceRequest{
		ID:       id.NewRequestID(),
		Instance: handle.instance(),
		Size:     types.Size{Width: handle.Width, Height: handle.Height},
	}, nil
}

// Validate checks the handle names a bundle
func (h BundleHandle) Validate() error {
	if err := utils.ValidateBundleID(h.BundleID); err != nil {
		return fmt.Errorf("bundle handle: %w", err)
	}
	if err := utils.ValidateName(h.DisplayName, "display_name"); err != nil {
		return fmt.Errorf("bundle handle: %w", err)
	}
	if h.DataUUID != "" {
		if _, err := uuid.Parse(h.DataUUID); err != nil {
			return fmt.Errorf("bundle handle: invalid data_uuid %q: %w", h.DataUUID, err)
		}
	}
	return nil
}

func (h BundleHandle) instance() types.Instance {
	data := h.DataUUID
	if data == "" {
		data = uuid.NewString()
	}
	return types.Instance{BundleID: h.BundleID, DataUUID: data, DisplayName: h.DisplayName}
}

// Ready returns a channel that has already delivered err
func Ready(err error) <-chan error {
	ch := make(chan error, 1)
	ch <- err
	return ch
}
