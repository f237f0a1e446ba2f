// Package logger provides opinionated logging capabilities for the torngate gateway
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFileName is the file written inside Options.Dir.
const LogFileName = "app.log"

// Options configures a logger built with New.
type Options struct {
	// Debug lowers the level to debug and enables coloured console levels.
	Debug bool

	// Dir is the directory holding the log file. It is created if absent.
	// Leave empty to log to the console only.
	Dir string

	// Secrets are masked from every entry before it reaches a sink.
	Secrets []string
}

// New builds a logger that tees to the console and, when opts.Dir is set, to a
// JSON file in that directory. The returned close function releases the file.
func New(opts Options) (*zap.Logger, func() error, error) {
	lvl := level(opts.Debug)

	console := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig(opts.Debug)),
		zapcore.Lock(zapcore.AddSync(NewMasker(os.Stdout, opts.Secrets))),
		lvl,
	)

	if opts.Dir == "" {
		return zap.New(console, zap.AddCaller()), func() error { return nil }, nil
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(opts.Dir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	fileConfig := encoderConfig(false)
	fileConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	file := zapcore.NewCore(
		zapcore.NewJSONEncoder(fileConfig),
		zapcore.Lock(zapcore.AddSync(NewMasker(f, opts.Secrets))),
		lvl,
	)

	return zap.New(zapcore.NewTee(console, file), zap.AddCaller()), f.Close, nil
}

func encoderConfig(color bool) zapcore.EncoderConfig {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return encoderConfig
}

func level(debug bool) zapcore.Level {
	if debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}
