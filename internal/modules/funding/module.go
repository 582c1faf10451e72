package funding

import (
	"sniper_bot/internal/ledger"
	"sniper_bot/internal/modules/config"
	"sniper_bot/internal/modules/funding/service"
	"sniper_bot/internal/runner"

	"go.uber.org/fx"
)

// Module отдаёт runner.Source: стаб за circuit breaker-ом.
func Module() fx.Option {
	return fx.Module("funding",
		fx.Provide(
			func(cfg *config.Config, l *ledger.Ledger) *service.Stub {
				return service.NewStub(service.StubConfig{
					FailureRate: cfg.Funding.FailureRate,
					Latency:     cfg.Funding.Latency,
				}, l)
			},
			func(cfg *config.Config, stub *service.Stub) runner.Source {
				return service.NewGuarded(stub, service.BreakerConfig{
					MaxFailures: cfg.Funding.Breaker.MaxFailures,
					OpenTimeout: cfg.Funding.Breaker.OpenTimeout,
				})
			},
		),
	)
}
