package launcher

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFillsDataUUID(t *testing.T) {
	req, err := NewLocal().RequestInstance(context.Background(), BundleHandle{BundleID: "com.example.app", Width: 400})
	require.NoError(t, err)

	assert.Nil(t, req.Ready)
	assert.Equal(t, "com.example.app", req.Instance.BundleID)
	_, err = uuid.Parse(req.Instance.DataUUID)
	assert.NoError(t, err)
	assert.Equal(t, 400, req.Size.Width)
	assert.NotEmpty(t, req.ID)
}

func TestLocalKeepsGivenDataUUID(t *testing.T) {
	data := uuid.NewString()
	req, err := NewLocal().RequestInstance(context.Background(), BundleHandle{BundleID: "com.example.app", DataUUID: data})
	require.NoError(t, err)
	assert.Equal(t, data, req.Instance.DataUUID)
}

func TestBundleHandleValidate(t *testing.T) {
	assert.Error(t, BundleHandle{}.Validate())
	assert.Error(t, BundleHandle{BundleID: "a", DataUUID: "nope"}.Validate())
	assert.NoError(t, BundleHandle{BundleID: "a"}.Validate())
	assert.Error(t, BundleHandle{BundleID: "com example"}.Validate())
}

func TestLocalHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocal().RequestInstance(ctx, BundleHandle{BundleID: "a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadyDeliversOnce(t *testing.T) {
	boom := errors.New("boom")
	assert.Equal(t, boom, <-Ready(boom))
	assert.NoError(t, <-Ready(nil))
}
