// Package logging builds the service logger: console output always, plus a
// rotated JSON file when configured.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// New constructs the service logger. Development mode logs debug and above
// to the console; production logs info and above. When cfg.LogFile is set a
// JSON core with size/age-based rotation is teed in.
func New(cfg types.Config) *zap.SugaredLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zap.DebugLevel
	if cfg.Production() {
		level = zap.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	if cfg.LogFile != "" {
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.LogFile,
				MaxSize:    100, // MB
				MaxBackups: 30,
				MaxAge:     90, // days
			}),
			zap.InfoLevel,
		)
		core = zapcore.NewTee(core, fileCore)
	}

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	return logger.Sugar()
}
