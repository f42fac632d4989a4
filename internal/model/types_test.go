package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainerState(t *testing.T) {
	assert.Equal(t, "running", StateRunning.String())
	assert.True(t, StateRunning.IsRunning())
	assert.False(t, StateExited.IsRunning())
	assert.False(t, ContainerState("").IsRunning())
}

func TestContainer_ShortID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"0123456789abcdef0123", "0123456789ab"},
		{"0123456789ab", "0123456789ab"},
		{"abc", "abc"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, Container{ID: tt.id}.ShortID())
		})
	}
}

// TestContainerNames verifies that names keep their order and blank names
// are skipped.
func TestContainerNames(t *testing.T) {
	containers := []Container{
		{Name: "app-api-1"},
		{Name: " "},
		{Name: "app-front-1"},
	}
	assert.Equal(t, []string{"app-api-1", "app-front-1"}, ContainerNames(containers))
	assert.Empty(t, ContainerNames(nil))
}

// TestCLIError verifies the custom error type used for exit code mapping.
func TestCLIError(t *testing.T) {
	t.Run("simple error", func(t *testing.T) {
		err := NewCLIError(ExitDockerNotRunning, "Docker daemon is not running")
		assert.Equal(t, ExitDockerNotRunning, err.Code)
		assert.Equal(t, "Docker daemon is not running", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("wrapped error", func(t *testing.T) {
		inner := errors.New("connection refused")
		err := WrapCLIError(ExitDockerNotRunning, "Docker daemon is not running", inner)
		assert.Equal(t, ExitDockerNotRunning, err.Code)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, inner, err.Unwrap())
		assert.True(t, errors.Is(err, inner))
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ExitSuccess, CodeOf(nil))
	assert.Equal(t, ExitGeneralError, CodeOf(errors.New("boom")))
	assert.Equal(t, ExitGitError, CodeOf(NewCLIError(ExitGitError, "clone failed")))

	// A CLIError wrapped by fmt.Errorf still carries its code.
	wrapped := fmt.Errorf("init: %w", NewCLIError(ExitMissingFile, "template missing"))
	assert.Equal(t, ExitMissingFile, CodeOf(wrapped))
}
