// pkg/logger/fallback.go

package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewFallbackLogger builds a console-only logger for when no log file path
// is writable (containers, read-only roots).
func NewFallbackLogger() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()),
		zapcore.AddSync(os.Stderr),
		ParseLogLevel(os.Getenv("LOG_LEVEL")),
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// InitializeWithFallback wires the global logger: console plus a JSON file
// tee when a writable path exists, console only otherwise.
func InitializeWithFallback() {
	path, err := FindWritableLogPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, "no writable log path found, logging to console only")
		log = NewFallbackLogger()
		zap.ReplaceGlobals(log)
		return
	}

	jsonCfg := zap.NewProductionEncoderConfig()
	jsonCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	jsonCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	var fileSync zapcore.WriteSyncer
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not open log file, falling back to stderr:", err)
		fileSync = zapcore.AddSync(os.Stderr)
	} else {
		fileSync = zapcore.AddSync(file)
	}

	level := ParseLogLevel(os.Getenv("LOG_LEVEL"))
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()), zapcore.Lock(os.Stderr), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), fileSync, level),
	)

	log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	zap.ReplaceGlobals(log)
}

// InitFallback is an idempotent guard used by the CLI wrapper so commands can
// assume a live logger even when invoked from tests.
func InitFallback() {
	if log != nil {
		return
	}
	log = NewFallbackLogger()
	zap.ReplaceGlobals(log)
}
