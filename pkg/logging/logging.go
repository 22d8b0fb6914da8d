// Package logging builds the application logger. Production JSON encoding
// by default; when LOG_FILE is set the output is teed to the file and
// stdout.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns the configured zap logger.
func New() *zap.Logger {
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logger, _ := zap.NewProduction()
		return logger
	}

	_ = os.MkdirAll(filepath.Dir(logFile), 0o755)
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logger, _ := zap.NewProduction()
		return logger
	}

	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	fileCore := zapcore.NewCore(enc, zapcore.AddSync(f), zapcore.InfoLevel)
	consoleCore := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)
	return zap.New(zapcore.NewTee(fileCore, consoleCore))
}
