package observability

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lixenwraith/planets/config"
)

// globalLogger holds the process logger; nil until Initialize succeeds
var globalLogger atomic.Pointer[zap.Logger]

// New builds a JSON file logger with lumberjack rotation
// The terminal is owned by the renderer, so there is no console core; an empty LogFile yields a no-op logger
func New(cfg config.LoggerConfig) (*zap.Logger, error) {
	if cfg.LogFile == "" {
		return zap.NewNop(), nil
	}

	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	if dir := filepath.Dir(cfg.LogFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating log directory %s", dir)
		}
	}

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	})
	core := zapcore.NewCore(newEncoder(), writer, level)

	options := []zap.Option{zap.AddStacktrace(zap.ErrorLevel)}
	if cfg.AddSource {
		options = append(options, zap.AddCaller())
	}
	logger := zap.New(core, options...)
	if cfg.ServiceName != "" {
		logger = logger.Named(cfg.ServiceName)
	}
	return logger, nil
}

func newEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

// Initialize builds the logger from cfg and installs it as the process logger
// Standard library log output is redirected into it
func Initialize(cfg config.LoggerConfig) (*zap.Logger, error) {
	logger, err := New(cfg)
	if err != nil {
		return nil, err
	}
	globalLogger.Store(logger)
	zap.ReplaceGlobals(logger)
	zap.RedirectStdLog(logger)
	return logger, nil
}

// L returns the process logger, a no-op logger before Initialize
func L() *zap.Logger {
	if l := globalLogger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// Sync flushes buffered entries, ignoring errors from non-syncable writers
func Sync() {
	l := globalLogger.Load()
	if l == nil {
		return
	}
	if err := l.Sync(); err != nil && !strings.Contains(err.Error(), "invalid argument") {
		os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
	}
}

// ResetForTest clears the process logger
func ResetForTest() {
	globalLogger.Store(nil)
}
