package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// nop until Init so packages can log from tests without setup
var sugar = zap.NewNop().Sugar()

// Init builds the process logger. "production" gets the JSON encoder at info
// level, anything else a console encoder at debug level.
func Init(env string) {
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.DebugLevel),
		Development:      true,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if env == "production" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		cfg.Development = false
		cfg.Encoding = "json"
		cfg.EncoderConfig = zap.NewProductionEncoderConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewExample()
	}
	sugar = l.Sugar().With("env", env)
}

func Debug(msg string, kv ...any) { sugar.Debugw(msg, kv...) }

func Info(msg string, kv ...any) { sugar.Infow(msg, kv...) }

func Warn(msg string, kv ...any) { sugar.Warnw(msg, kv...) }

func Error(msg string, kv ...any) { sugar.Errorw(msg, kv...) }

// Fatal logs and exits the process.
func Fatal(msg string, kv ...any) { sugar.Fatalw(msg, kv...) }

func Sync() error {
	return sugar.Sync()
}
