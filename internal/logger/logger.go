// Package logger builds the zap logger of the tablemap command.
//
// Console output goes to stderr so generated output and reports on stdout
// stay clean. When a log file is configured the same events are also
// written as JSON, rotated by lumberjack.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configure New.
type Options struct {
	// Level is one of debug, info, warn or error.
	Level string
	// File enables the JSON file sink.
	File string
	// Console receives human-readable output. Defaults to os.Stderr.
	Console io.Writer
}

// New returns a *zap.SugaredLogger with ISO-8601 timestamps and lowercase
// levels.
func New(opts Options) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(console), level),
	}

	errOut := zapcore.AddSync(console)

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, err
		}

		fileSink := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		}

		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileSink), level))
		errOut = zapcore.AddSync(fileSink)
	}

	return zap.New(zapcore.NewTee(cores...), zap.ErrorOutput(errOut)).Sugar(), nil
}
