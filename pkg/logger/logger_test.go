package logger_test

import (
	"classscan/pkg/logger"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultLoggerIsUsableWithoutSetup(t *testing.T) {
	require.NotPanics(t, func() {
		logger.Debug(context.Background(), "before setup")
	})
	require.NotNil(t, logger.Get(context.Background()))
}

func TestSetup(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		level       string
		wantDebug   bool
		wantErr     bool
	}{
		{
			name:        "development defaults to debug",
			environment: logger.DevelopmentEnvironment,
			wantDebug:   true,
		},
		{
			name:        "production defaults to info",
			environment: logger.ProductionEnvironment,
			wantDebug:   false,
		},
		{
			name:        "explicit level overrides environment",
			environment: logger.DevelopmentEnvironment,
			level:       "warn",
			wantDebug:   false,
		},
		{
			name:        "invalid level",
			environment: logger.ProductionEnvironment,
			level:       "loud",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := logger.Setup(tt.environment, tt.level)
			if tt.wantErr {
				require.Error(t, err)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantDebug, logger.IsDebug(context.Background()))
		})
	}
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	customLogger, _ := zap.NewDevelopment()

	ctxWithLogger := logger.WithLogger(ctx, customLogger)

	require.Equal(t, customLogger, logger.Get(ctxWithLogger), "Logger in context should match the one we added")
}

func TestWithFieldsAndNamed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	ctx = logger.WithFields(ctx, zap.String("namespace", "a.b"))
	ctx = logger.Named(ctx, "scanner")
	logger.Info(ctx, "begin scan")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "scanner", entries[0].LoggerName)
	require.Equal(t, "begin scan", entries[0].Message)
	require.Equal(t, "a.b", entries[0].ContextMap()["namespace"])
}

func TestLoggingFunctions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	logger.Debug(ctx, "debug message", zap.String("key", "value"))
	logger.Info(ctx, "info message", zap.String("key", "value"))
	logger.Warn(ctx, "warn message", zap.String("key", "value"))
	logger.Error(ctx, "error message", zap.String("key", "value"))

	require.Equal(t, 4, logs.Len())
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}
