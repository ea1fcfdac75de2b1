package logger

import (
	"fmt"

	"github.com/dkravets/recipebook/internal/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
}

type ZapLogger struct {
	lg *zap.SugaredLogger
}

func New(cfg config.Logger) (*ZapLogger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	if len(cfg.Output) != 0 {
		zapCfg.OutputPaths = cfg.Output
	}

	if len(cfg.ErrOutput) != 0 {
		zapCfg.ErrorOutputPaths = cfg.ErrOutput
	}

	zl, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger error: %w", err)
	}

	return &ZapLogger{lg: zl.Sugar()}, nil
}

func (z *ZapLogger) Info(args ...interface{}) {
	z.lg.Info(args...)
}

func (z *ZapLogger) Infof(template string, args ...interface{}) {
	z.lg.Infof(template, args...)
}

func (z *ZapLogger) Warnf(template string, args ...interface{}) {
	z.lg.Warnf(template, args...)
}

func (z *ZapLogger) Error(args ...interface{}) {
	z.lg.Error(args...)
}

func (z *ZapLogger) Errorf(template string, args ...interface{}) {
	z.lg.Errorf(template, args...)
}
