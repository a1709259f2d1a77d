// Package logger wraps zap with the key-value logging surface used across
// the service. The logger is an injected value, not process-global state:
// construct it once in the entry point and pass it down.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logFilePrefix = "arlet"

// Logger wraps a zap logger with sugared key-value methods
type Logger struct {
	zap   *zap.Logger
	sugar *zap.SugaredLogger
}

// New creates a logger that tees output to the console and to a per-process
// log file under logDir (arlet_<pid>.log). An unwritable log directory
// degrades to console-only logging rather than failing startup.
func New(level, environment, logDir string) *Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var consoleEnc zapcore.Encoder
	if environment == "production" {
		consoleEnc = zapcore.NewJSONEncoder(encCfg)
	} else {
		consoleEnc = zapcore.NewConsoleEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stdout), lvl),
	}

	var fileErr error
	if logDir != "" {
		if file, err := openLogFile(logDir); err != nil {
			fileErr = err
		} else {
			fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(file), lvl)
			cores = append(cores, fileCore)
		}
	}

	z := zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Named("arlet")
	l := &Logger{
		zap:   z,
		sugar: z.Sugar(),
	}
	if fileErr != nil {
		l.Warn("log file unavailable, logging to console only", "dir", logDir, "error", fileErr)
	}
	return l
}

func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	name := filepath.Join(dir, fmt.Sprintf("%s_%d.log", logFilePrefix, os.Getpid()))
	file, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// Zap exposes the underlying zap logger for packages that take *zap.Logger
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

// Named returns a logger with the given name segment appended
func (l *Logger) Named(name string) *Logger {
	z := l.zap.Named(name)
	return &Logger{zap: z, sugar: z.Sugar()}
}

// Debug logs a message with key-value pairs at debug level
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Info logs a message with key-value pairs at info level
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Warn logs a message with key-value pairs at warn level
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Error logs a message with key-value pairs at error level
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// Fatal logs a message with key-value pairs and exits the process
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.sugar.Fatalw(msg, keysAndValues...)
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.zap.Sync()
}
