package twinerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsMatchSentinelsByCode(t *testing.T) {
	err := fmt.Errorf("build scene: %w", Configuration("pipe %d has %d waypoints", 3, 1))

	assert.ErrorIs(t, err, ErrConfiguration)
	assert.NotErrorIs(t, err, ErrRenderSurfaceUnavailable)
	assert.Equal(t, CodeConfiguration, CodeOf(err))
	assert.Contains(t, err.Error(), "ConfigurationError: pipe 3 has 1 waypoints")
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("yaml: line 3")
	err := WrapConfiguration(cause, "load layout").WithContext("path", "layout.yaml")

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, "layout.yaml", err.Context["path"])
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("x")))
	assert.Equal(t, "RenderSurfaceUnavailable", RenderSurfaceUnavailable("no gl").Code.String())
}
