package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name            string
		originalError   error
		message         string
		expectedMessage string
	}{
		{
			name:            "wrap simple error",
			originalError:   errors.New("original error"),
			message:         "wrapper message",
			expectedMessage: "wrapper message: original error",
		},
		{
			name:            "empty wrapper message",
			originalError:   errors.New("original error"),
			message:         "",
			expectedMessage: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrappedError := WrapError(tt.originalError, tt.message)
			assert.Error(t, wrappedError)
			assert.Equal(t, tt.expectedMessage, wrappedError.Error())
			assert.ErrorIs(t, wrappedError, tt.originalError)
		})
	}
}

func TestWrapError_Nil(t *testing.T) {
	assert.NoError(t, WrapError(nil, "wrapper message"))
	assert.NoError(t, WrapErrorf(nil, "wrapper %d", 1))
}

func TestWrapErrorf(t *testing.T) {
	base := errors.New("boom")
	err := WrapErrorf(base, "failed to read '%s'", "engine.js")
	assert.Equal(t, "failed to read 'engine.js': boom", err.Error())
	assert.ErrorIs(t, err, base)
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name            string
		field           string
		value           interface{}
		message         string
		expectedMessage string
	}{
		{
			name:            "string field validation",
			field:           "driver",
			value:           "selenium",
			message:         "unsupported driver",
			expectedMessage: "validation failed for field 'driver': unsupported driver (value: selenium)",
		},
		{
			name:            "nil value validation",
			field:           "source_url",
			value:           nil,
			message:         "cannot be nil",
			expectedMessage: "validation failed for field 'source_url': cannot be nil (value: <nil>)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validationErr := NewValidationError(tt.field, tt.value, tt.message)

			assert.Equal(t, tt.expectedMessage, validationErr.Error())
			assert.Equal(t, tt.field, validationErr.Field)
			assert.ErrorIs(t, validationErr, ErrInvalidInput)
		})
	}
}

func TestConfigurationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigurationError
		expected string
	}{
		{"section and field", NewConfigurationError("browser_config", "driver", "unknown"), "configuration error in section 'browser_config', field 'driver': unknown"},
		{"section only", NewConfigurationError("engine_config", "", "no source"), "configuration error in section 'engine_config': no source"},
		{"reason only", NewConfigurationError("", "", "bad"), "configuration error: bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrInvalidConfiguration)
		})
	}
}

func TestGetRootCause(t *testing.T) {
	root := errors.New("root")
	err := WrapError(WrapError(root, "middle"), "outer")
	assert.Equal(t, root, GetRootCause(err))
	assert.Equal(t, root, GetRootCause(root))
}
