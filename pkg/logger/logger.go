// pkg/logger/logger.go

package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// L returns the process-wide logger. InitializeWithFallback must run first.
func L() *zap.Logger {
	if log == nil {
		return zap.L()
	}
	return log
}

// Sync flushes buffered log entries. Safe to call on exit paths.
func Sync() error {
	if log == nil {
		return nil
	}
	return log.Sync()
}

// DefaultConsoleEncoderConfig renders human-readable console output.
func DefaultConsoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// ParseLogLevel maps a LOG_LEVEL string to a zap level, defaulting to Info.
func ParseLogLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.Set(s); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// FindWritableLogPath returns the first log file location we can write to.
func FindWritableLogPath() (string, error) {
	candidates := []string{
		"/var/log/clawsec/clawsec.log",
		filepath.Join(os.Getenv("HOME"), ".clawsec", "clawsec.log"),
		filepath.Join(os.TempDir(), "clawsec.log"),
	}
	for _, path := range candidates {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			continue
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			continue
		}
		f.Close()
		return path, nil
	}
	return "", os.ErrPermission
}
