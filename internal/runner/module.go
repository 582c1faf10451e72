package runner

import (
	"context"

	"sniper_bot/internal/ledger"
	"sniper_bot/internal/modules/config"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			func(cfg *config.Config) *ledger.Ledger {
				return ledger.New(cfg.Wallet.InitialBalance)
			},
			NewStore,
			func(reg prometheus.Registerer, store *Store, l *ledger.Ledger) *Metrics {
				return NewMetrics(reg, store, l.Balance)
			},
			NewSchedulerConfig,
			NewScheduler,
		),
		fx.Invoke(func(lc fx.Lifecycle, s *Scheduler) {
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					return s.Shutdown(ctx)
				},
			})
		}),
	)
}

// NewSchedulerConfig переводит секцию trading в настройки планировщика.
func NewSchedulerConfig(cfg *config.Config) Config {
	t := cfg.Trading

	var sel Selector = RandomSelector{}
	if t.Selection == config.SelectionFirst {
		sel = FirstSelector{}
	}
	onFail := KeepScanning
	if t.OnEntryFailure == config.OnFailureTerminate {
		onFail = Terminate
	}

	return Config{
		EntryDelay:     t.EntryDelay,
		ExitDelay:      t.ExitDelay,
		TradeAmount:    t.TradeAmount,
		TokenLimit:     t.TokenLimit,
		AutoReinvest:   t.AutoReinvest,
		EntryRetry:     RetryPolicy{MaxAttempts: t.EntryRetry.MaxAttempts, Backoff: t.EntryRetry.Backoff},
		ExitRetry:      RetryPolicy{MaxAttempts: t.ExitRetry.MaxAttempts, Backoff: t.ExitRetry.Backoff},
		OnEntryFailure: onFail,
		Profit:         FixedRatio(t.ProfitRatio),
		Selector:       sel,
	}
}
