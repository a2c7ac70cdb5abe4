package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureJSON(t *testing.T) {
	var buf bytes.Buffer
	Configure("debug", "JSON", &buf)
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	Session("abc").Info("started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["session"])
	assert.Equal(t, "started", entry["msg"])
}

func TestConfigureFallbacks(t *testing.T) {
	var buf bytes.Buffer
	Configure("nonsense", "", &buf)
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())

	Log.Debug("hidden")
	assert.Empty(t, buf.String())

	Log.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}
