package acceptor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	setupErr := NewSetupError(errors.New("llm CLI not reachable"))
	runtimeErr := NewRuntimeError(errors.New("boom"))
	testErr := NewTestFailureError("2 cases failed")

	assert.True(t, IsSetupError(setupErr))
	assert.False(t, IsSetupError(runtimeErr))
	assert.False(t, IsSetupError(nil))

	assert.True(t, IsRuntimeError(runtimeErr))
	assert.False(t, IsRuntimeError(setupErr))
	assert.False(t, IsRuntimeError(nil))

	assert.True(t, IsTestFailureError(testErr))
	assert.False(t, IsTestFailureError(setupErr))
	assert.False(t, IsTestFailureError(nil))
}

func TestErrorClassificationThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("run failed: %w", NewSetupError(errors.New("install failed")))
	assert.True(t, IsSetupError(wrapped))
	assert.False(t, IsRuntimeError(wrapped))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("install failed")
	assert.ErrorIs(t, NewSetupError(cause), cause)
	assert.ErrorIs(t, NewRuntimeError(cause), cause)
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, NewSetupError(errors.New("x")).Error(), "setup error")
	assert.Contains(t, NewRuntimeError(errors.New("x")).Error(), "runtime error")
	assert.Contains(t, NewTestFailureError("x").Error(), "test failure")
}
