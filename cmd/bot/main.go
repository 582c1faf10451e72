package main

import (
	"context"

	"sniper_bot/internal/modules/config"
	"sniper_bot/internal/modules/funding"
	"sniper_bot/internal/modules/health"
	"sniper_bot/internal/modules/metrics"
	telegram "sniper_bot/internal/modules/telegram_bot"
	"sniper_bot/internal/modules/tracing"
	"sniper_bot/internal/runner"

	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		tracing.Module(),
		metrics.Module(),
		runner.Module(),
		funding.Module(),
		telegram.Module(),
		health.Module(),
	)
	// Run ждёт SIGINT/SIGTERM и корректно гасит хуки OnStop
	app.Run()
}
