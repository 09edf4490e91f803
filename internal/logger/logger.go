// Package logger provides the process-wide structured logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// L is the global sugared logger.
	L *zap.SugaredLogger
	// Z is the global zap.Logger for hot paths.
	Z *zap.Logger
)

func init() {
	// Sensible default until Init is called.
	z, _ := zap.NewProduction()
	Z = z
	L = z.Sugar()
}

// Config controls log level and optional file output.
type Config struct {
	Level      string // debug, info, warn, error
	File       string // log file path; empty means stderr only
	MaxSize    int    // max size of one log file in MB
	MaxBackups int    // number of rotated files to keep
	MaxAge     int    // days to keep rotated files
}

// Init replaces the global logger according to cfg.
func Init(cfg Config) error {
	var level zapcore.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zapcore.DebugLevel
	case "info", "":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		return fmt.Errorf("unsupported log level: %s", cfg.Level)
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	var output io.Writer = os.Stderr
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}

		maxSize := cfg.MaxSize
		if maxSize <= 0 {
			maxSize = 64
		}
		maxBackups := cfg.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 3
		}
		maxAge := cfg.MaxAge
		if maxAge <= 0 {
			maxAge = 7
		}

		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
			Compress:   true,
		}
		output = io.MultiWriter(os.Stderr, fileWriter)
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(output),
		level,
	)

	Z = zap.New(core, zap.AddCallerSkip(1))
	L = Z.Sugar()
	return nil
}

// Sync flushes buffered log entries. Call before exit.
func Sync() {
	if Z != nil {
		_ = Z.Sync()
	}
}

func Debug(msg string) { L.Debug(msg) }

func Debugf(template string, args ...interface{}) { L.Debugf(template, args...) }

func Info(msg string) { L.Info(msg) }

func Infof(template string, args ...interface{}) { L.Infof(template, args...) }

func Warn(msg string) { L.Warn(msg) }

func Warnf(template string, args ...interface{}) { L.Warnf(template, args...) }

func Error(msg string) { L.Error(msg) }

func Errorf(template string, args ...interface{}) { L.Errorf(template, args...) }
