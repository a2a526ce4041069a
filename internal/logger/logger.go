package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger - логгер в стиле key/value, реализуется *zap.SugaredLogger
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

// Config содержит настройки логгера
type Config struct {
	Level      string `mapstructure:"level" validate:"required,oneof=debug info warn error fatal"`
	Encoding   string `mapstructure:"encoding" validate:"required,oneof=json console"`
	OutputPath string `mapstructure:"output_path"`
}

// DefaultConfig - настройки для локального запуска
func DefaultConfig() Config {
	return Config{
		Level:    "info",
		Encoding: "console",
	}
}

// New создает zap логгер по конфигурации
func New(cfg Config) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// stderr, чтобы не смешивать логи с выводом CLI
	outputPaths := []string{"stderr"}
	if cfg.OutputPath != "" {
		outputPaths = append(outputPaths, cfg.OutputPath)
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         cfg.Encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}

	log, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

// Nop возвращает логгер, который ничего не пишет
func Nop() Logger {
	return zap.NewNop().Sugar()
}
