package logger

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/config"
)

var Module = fx.Options(
	fx.Provide(New, Sugar),
	fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: l.Named("fx")}
	}),
)

func New(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}

	zcfg := zap.NewProductionConfig()
	if cfg.LogDevelopment {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	l, err := zcfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = l.Sync()
			return nil
		},
	})

	return l, nil
}

func Sugar(l *zap.Logger) *zap.SugaredLogger {
	return l.Sugar()
}
