package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log levels
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Logger is a printf-style logger writing to stdout and a rotating file.
type Logger struct {
	sugar  *zap.SugaredLogger
	writer *lumberjack.Logger
}

func NewLogger(config *Config) (*Logger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	level, err := zapcore.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	var cores []zapcore.Core
	var writer *lumberjack.Logger

	if config.File != "" {
		// Expand home directory in log file path
		logFile := config.File
		if strings.HasPrefix(logFile, "~/") {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			logFile = filepath.Join(homeDir, logFile[2:])
		}

		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		writer = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    config.MaxSize, // MB
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge, // days
			Compress:   true,
		}

		fileEncoder := zap.NewProductionEncoderConfig()
		fileEncoder.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoder), zapcore.AddSync(writer), level))
	}

	if config.Console || config.File == "" {
		consoleEncoder := zap.NewDevelopmentEncoderConfig()
		consoleEncoder.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEncoder.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoder), zapcore.Lock(os.Stdout), level))
	}

	return &Logger{
		sugar:  zap.New(zapcore.NewTee(cores...)).Sugar(),
		writer: writer,
	}, nil
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) Close() error {
	// Sync on stdout returns EINVAL on some platforms, nothing to act on
	_ = l.sugar.Sync()
	if l.writer == nil {
		return nil
	}
	return l.writer.Close()
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...), writer: l.writer}
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// Error handling utilities
type ErrorWithContext struct {
	Err     error
	Context string
}

func (e *ErrorWithContext) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Err)
}

func (e *ErrorWithContext) Unwrap() error {
	return e.Err
}

func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithContext{
		Err:     err,
		Context: context,
	}
}

// ErrInvalidConfig marks configuration problems detected at startup
var ErrInvalidConfig = errors.New("invalid configuration")

// LogHTTPRequest logs a completed HTTP request
func (l *Logger) LogHTTPRequest(method, path, clientIP, requestID string, status, bytes int, latency string) {
	l.sugar.Infow("[HTTP]",
		"status", status,
		"method", method,
		"path", path,
		"client_ip", clientIP,
		"request_id", requestID,
		"bytes", bytes,
		"latency", latency,
	)
}

// LogHTTPError logs an HTTP error together with the underlying cause
func (l *Logger) LogHTTPError(method, path, clientIP string, status int, message string, err error) {
	l.sugar.Errorw("[HTTP-ERROR] "+message,
		"status", status,
		"method", method,
		"path", path,
		"client_ip", clientIP,
		"error", err,
	)
}
