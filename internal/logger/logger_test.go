package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/eventplanner/eventplanner-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, config.LogConfig{Level: "debug", Format: "json"})
	assert.Equal(t, log.DebugLevel, l.GetLevel())

	l.Info("event created", "event_id", 7)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "event created", line["msg"])
	assert.EqualValues(t, 7, line["event_id"])
}

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, config.LogConfig{Level: "error", Format: "logfmt"})
	l.Info("dropped")
	assert.Empty(t, buf.String())
	l.Error("kept")
	assert.Contains(t, buf.String(), "kept")
}
