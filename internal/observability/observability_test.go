package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("digest produced", "date_key", "2024-03-10")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "digest produced", line["msg"])
	assert.Equal(t, "2024-03-10", line["date_key"])
	assert.Equal(t, "forecast-digest", line["service"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "TEXT")

	logger.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.FeedsConsumed.Add(3)
	a.CrisisSignals.WithLabelValues("notified").Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(a.FeedsConsumed))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.FeedsConsumed))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.CrisisSignals.WithLabelValues("notified")))
}
