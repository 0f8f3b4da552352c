package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	lg := NewWithWriter(&buf, 0, true)

	lg.With("component", "test").Info("hello", "user_id", "42")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "test", rec["component"])
	assert.Equal(t, "42", rec["user_id"])
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	lg := NewWithWriter(&buf, 4, false)

	lg.Info("dropped")
	assert.Empty(t, buf.String())

	lg.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}
