package observ

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "siri-intake"

// NewLogger builds the process logger for env at the given level. An
// unknown level falls back to info rather than failing startup.
func NewLogger(env, level string) (*zap.Logger, error) {
	return loggerConfig(env, level).Build()
}

// loggerConfig is split out so the per-environment settings can be
// asserted without building a logger.
//
// production:
//   - JSON for the log pipeline, stacktraces only on errors.
//   - Sampling: after the first 100 identical lines in a second, keep one
//     in 100. A shortcut stuck retrying a bad token would otherwise fill
//     the pipeline with identical "request rejected" lines.
//
// anything else:
//   - Coloured console output, no sampling.
//   - Stacktraces off. The development default attaches one to every
//     Warn, which buries the cache and limiter warnings in frames.
func loggerConfig(env, level string) zap.Config {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
		config.EncoderConfig.TimeKey = "ts"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.Sampling = nil
		config.DisableStacktrace = true
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.InitialFields = map[string]any{
		"service": serviceName,
		"env":     env,
	}

	return config
}
