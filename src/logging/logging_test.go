package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		log, err := New(Config{Level: "info", Format: format})
		require.NoError(t, err, format)
		assert.NotNil(t, log)
	}
}

func TestNew_AllLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		log, err := New(Config{Level: level, Format: "json"})
		require.NoError(t, err, "level %q should be valid", level)
		assert.NotNil(t, log)
	}
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(Config{Level: "trace", Format: "json"})
	assert.Error(t, err)

	_, err = New(Config{Level: "info", Format: "xml"})
	assert.Error(t, err)
}
