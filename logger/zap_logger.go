package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lotscan/lotscan/types"
)

type ZapWrapper struct {
	logger *zap.Logger
}

func NewLogger(config *types.LoggerConfig) (types.Logger, error) {
	if config == nil {
		config = &types.LoggerConfig{Level: "info", Format: "console", Output: "stdout"}
	}

	zapLogger, err := buildZapLogger(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &ZapWrapper{logger: zapLogger}, nil
}

func NewNop() types.Logger {
	return &ZapWrapper{logger: zap.NewNop()}
}

func buildZapLogger(config *types.LoggerConfig) (*zap.Logger, error) {
	level := parseLogLevel(config.Level)

	var zapConfig zap.Config
	if config.Format == "json" {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapConfig.DisableStacktrace = true
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	switch config.Output {
	case "stderr":
		zapConfig.OutputPaths = []string{"stderr"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	case "file":
		if config.File == "" {
			return nil, errors.New("logger output is file but no file configured")
		}
		if err := ensureLogDir(config.File); err != nil {
			return nil, err
		}
		zapConfig.OutputPaths = []string{config.File}
		zapConfig.ErrorOutputPaths = []string{config.File}
	default:
		zapConfig.OutputPaths = []string{"stdout"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	}

	return zapConfig.Build(zap.AddCaller())
}

func ensureLogDir(file string) error {
	dir := filepath.Dir(file)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create log directory")
	}
	return nil
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
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

func (w *ZapWrapper) Error(msg string, fields ...zap.Field) { w.logger.Error(msg, fields...) }
func (w *ZapWrapper) Warn(msg string, fields ...zap.Field)  { w.logger.Warn(msg, fields...) }
func (w *ZapWrapper) Info(msg string, fields ...zap.Field)  { w.logger.Info(msg, fields...) }
func (w *ZapWrapper) Debug(msg string, fields ...zap.Field) { w.logger.Debug(msg, fields...) }

func (w *ZapWrapper) Log(lvl zapcore.Level, msg string, fields ...zap.Field) {
	w.logger.Log(lvl, msg, fields...)
}

func (w *ZapWrapper) With(fields ...zap.Field) types.Logger {
	return &ZapWrapper{logger: w.logger.With(fields...)}
}

func (w *ZapWrapper) Sync() error {
	return w.logger.Sync()
}
