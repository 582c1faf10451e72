package config

import (
	"context"

	"sniper_bot/pkg/logger"

	"go.uber.org/fx"
)

// Module регистрирует конфиг как fx-провайдер и поднимает логгер.
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			NewConfig,
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *Config) error {
			logger.SetServiceName(cfg.Service.Name)
			if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
				return err
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					logger.Sync()
					return nil
				},
			})
			return nil
		}),
	)
}
