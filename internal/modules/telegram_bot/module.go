package telegram

import (
	"context"

	"sniper_bot/internal/modules/telegram_bot/service"
	"sniper_bot/internal/runner"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("telegram",
		// 1. Узкие интерфейсы поверх планировщика и источника
		fx.Provide(
			func(s *runner.Scheduler) service.SessionManager { return s },
			func(src runner.Source) service.BalanceSource { return src },
		),

		// 2. Сервис Telegram
		fx.Provide(
			service.NewTelegram,
		),

		// 3. Long-polling живёт в контексте приложения, а не OnStart
		fx.Invoke(
			func(lc fx.Lifecycle, t *service.Telegram, appCtx context.Context) {
				ctx, cancel := context.WithCancel(appCtx)
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						t.Start(ctx)
						return nil
					},
					OnStop: func(context.Context) error {
						cancel()
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
