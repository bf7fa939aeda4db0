package log

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxkey string

const (
	loggerContextKey ctxkey = "logger"
)

// Options configure the global logger.
type Options struct {
	// Level is a zap level name, invalid values fall back to warn.
	Level string
	// File enables a JSON log file next to the console output.
	File string
}

func createGlobalLogger(opts Options) *zap.Logger {
	level := zap.NewAtomicLevelAt(zap.WarnLevel)
	var levelErr error
	if opts.Level != "" {
		levelErr = level.UnmarshalText([]byte(opts.Level))
	}

	// stdout is reserved for the typed text
	console := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	)
	cores := []zapcore.Core{console}

	if opts.File != "" {
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		})
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			file,
			level,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	if levelErr != nil {
		logger.Warn("unknown log level, using warn",
			zap.String("log_level", opts.Level),
			zap.Error(levelErr),
		)
	}
	return logger
}

// DefaultGlobals replaces global zap logger with custom default configuration.
func DefaultGlobals() func() {
	return Globals(Options{})
}

// Globals replaces global zap logger with one built from opts.
func Globals(opts Options) func() {
	return zap.ReplaceGlobals(createGlobalLogger(opts))
}

// FromContext returns logger from context if set. Otherwise returns global logger.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return zap.L()
	}
	if logger, ok := ctx.Value(loggerContextKey).(*zap.Logger); ok {
		return logger
	}
	return zap.L()
}

// With appends fields to logger in context.
func With(ctx context.Context, args ...zap.Field) context.Context {
	var logger *zap.Logger = FromContext(ctx).With(args...)
	return context.WithValue(ctx, loggerContextKey, logger)
}

// Into returns a context with a logger named after the entered component.
func Into(ctx context.Context, name string) context.Context {
	logger := FromContext(ctx).Named(name)
	return context.WithValue(ctx, loggerContextKey, logger)
}

func Debug(ctx context.Context, msg string, args ...zap.Field) {
	FromContext(ctx).Debug(msg, args...)
}

func Info(ctx context.Context, msg string, args ...zap.Field) {
	FromContext(ctx).Info(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...zap.Field) {
	FromContext(ctx).Warn(msg, args...)
}

func Error(ctx context.Context, msg string, args ...zap.Field) {
	FromContext(ctx).Error(msg, args...)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = zap.L().Sync()
}
