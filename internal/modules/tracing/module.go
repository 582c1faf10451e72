package tracing

import (
	"context"

	"sniper_bot/internal/modules/config"
	"sniper_bot/pkg/logger"
	"sniper_bot/pkg/tracing"

	"go.uber.org/fx"
)

// Module поднимает jaeger, если он включён в конфиге.
func Module() fx.Option {
	return fx.Module("tracing",
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			if !cfg.Tracing.Enabled {
				return nil
			}
			tracing.SetServiceName(cfg.Service.Name)
			_, closer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Tracing.Host,
				Port: cfg.Tracing.Port,
			})
			if err != nil {
				return err
			}
			logger.Info("[TRACING] jaeger agent %s:%d", cfg.Tracing.Host, cfg.Tracing.Port)
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closer()
					return nil
				},
			})
			return nil
		}),
	)
}
