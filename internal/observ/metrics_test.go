package observ

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lalith-99/practicedesk/internal/jobtype"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.TaskCreated("firm", "Tax Return", true)
	m.TaskCreated("user", "Other", false)
	m.TaskCreated("firm", "BAS", true)
	m.NoteCreated()
	m.AuthFailed("invalid")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.tasksCreated.WithLabelValues("firm")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksCreated.WithLabelValues("user")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobTypes.WithLabelValues("Other", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authFailures.WithLabelValues("invalid")))
}

func TestMetrics_SeededSeries(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, len(jobtype.All())+1, testutil.CollectAndCount(m.jobTypes))
	assert.Equal(t, 2, testutil.CollectAndCount(m.tasksCreated))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.jobTypes.WithLabelValues(string(jobtype.BAS), "true")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.TaskCreated("firm", "BAS", true)
		m.NoteCreated()
		m.AuthFailed("missing")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.NoteCreated()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "intake_notes_created_total 1")
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("production", "debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel), "debug level should be enabled")

	logger, err = NewLogger("development", "not-a-level")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel), "unknown level falls back to info")
}

func TestLoggerConfig(t *testing.T) {
	t.Run("production", func(t *testing.T) {
		cfg := loggerConfig("production", "warn")
		assert.Equal(t, "json", cfg.Encoding)
		require.NotNil(t, cfg.Sampling)
		assert.Equal(t, 100, cfg.Sampling.Initial)
		assert.Equal(t, 100, cfg.Sampling.Thereafter)
		assert.Equal(t, zapcore.WarnLevel, cfg.Level.Level())
		assert.Equal(t, "production", cfg.InitialFields["env"])
		assert.Equal(t, "siri-intake", cfg.InitialFields["service"])
	})

	t.Run("development", func(t *testing.T) {
		cfg := loggerConfig("development", "")
		assert.Equal(t, "console", cfg.Encoding)
		assert.Nil(t, cfg.Sampling)
		assert.True(t, cfg.DisableStacktrace)
		assert.Equal(t, zapcore.InfoLevel, cfg.Level.Level())
	})
}
