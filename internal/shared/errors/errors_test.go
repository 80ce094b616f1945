package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassificationSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("api: %w", NotFound("host.focus", "win_1"))

	assert.True(t, IsNotFound(err))
	assert.False(t, IsInvalidState(err))
	assert.False(t, IsResourceExhausted(err))

	var classified *Error
	assert.True(t, As(err, &classified))
	assert.Equal(t, "host.focus", classified.Op)
	assert.Equal(t, "win_1", classified.ID)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "host.focus: not found (win_1)", NotFound("host.focus", "win_1").Error())
	assert.Equal(t,
		"pip.detach: invalid state (win_2): window is floating",
		InvalidState("pip.detach", "win_2", "window is %s", "floating").Error())
	assert.Equal(t, "host.open: resource exhausted: limit 4 reached", ResourceExhausted("host.open", 4).Error())
	assert.True(t, IsResourceExhausted(ResourceExhausted("host.open", 4)))
}
