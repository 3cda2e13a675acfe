package logger

import (
	"os"

	"github.com/samvad-hq/amiibo-connect/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Package-level logger to be used across packages after Init.
var S *zap.SugaredLogger

// Logger is the structured logging surface injected into services.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// Init initializes a zap SugaredLogger using settings from config.
func Init(cfg *config.Config) (*zap.SugaredLogger, error) {
	level := parseLevel(cfg.LogLevel)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(zapcore.Lock(os.Stdout)),
		level,
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	sugar := logger.Sugar()
	S = sugar
	return sugar, nil
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Close flushes any buffered loggers.
func Close() error {
	if S == nil {
		return nil
	}
	return S.Sync()
}

// Zap wraps a SugaredLogger so it satisfies Logger.
type Zap struct {
	S *zap.SugaredLogger
}

func (z Zap) InfoObj(msg, key string, obj interface{}) {
	if z.S != nil {
		z.S.Desugar().Info(msg, zap.Any(key, obj))
	}
}

func (z Zap) DebugObj(msg, key string, obj interface{}) {
	if z.S != nil {
		z.S.Desugar().Debug(msg, zap.Any(key, obj))
	}
}

func (z Zap) WarnObj(msg, key string, obj interface{}) {
	if z.S != nil {
		z.S.Desugar().Warn(msg, zap.Any(key, obj))
	}
}

func (z Zap) ErrorObj(msg, key string, obj interface{}) {
	if z.S != nil {
		z.S.Desugar().Error(msg, zap.Any(key, obj))
	}
}

// NopLogger discards everything.
type NopLogger struct{}

func (*NopLogger) InfoObj(string, string, interface{})  {}
func (*NopLogger) DebugObj(string, string, interface{}) {}
func (*NopLogger) WarnObj(string, string, interface{})  {}
func (*NopLogger) ErrorObj(string, string, interface{}) {}

// Minimal object logging helpers -------------------------------------------------
// These log through the package-level logger and are no-ops before Init.
func InfoObj(msg, key string, obj interface{})  { Zap{S: S}.InfoObj(msg, key, obj) }
func DebugObj(msg, key string, obj interface{}) { Zap{S: S}.DebugObj(msg, key, obj) }
func WarnObj(msg, key string, obj interface{})  { Zap{S: S}.WarnObj(msg, key, obj) }
func ErrorObj(msg, key string, obj interface{}) { Zap{S: S}.ErrorObj(msg, key, obj) }
