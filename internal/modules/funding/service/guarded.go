package service

import (
	"context"
	"time"

	"sniper_bot/internal/models"
	"sniper_bot/internal/runner"
	"sniper_bot/pkg/logger"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
)

type BreakerConfig struct {
	MaxFailures uint32        // подряд идущих отказов до размыкания
	OpenTimeout time.Duration // сколько держим разомкнутым
}

// Guarded ставит circuit breaker перед входами/выходами источника.
// Разомкнутый breaker отдаёт ErrActionFailed без обращения к источнику.
type Guarded struct {
	next runner.Source
	cb   *gobreaker.CircuitBreaker
}

func NewGuarded(next runner.Source, cfg BreakerConfig) *Guarded {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	st := gobreaker.Settings{
		Name:    "funding",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("[FUNDING] breaker %s: %s -> %s", name, from, to)
		},
	}
	return &Guarded{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

func (g *Guarded) Balance(ctx context.Context) (float64, error) {
	return g.next.Balance(ctx)
}

func (g *Guarded) ListCandidateTokens(ctx context.Context, limit int) ([]models.Token, error) {
	return g.next.ListCandidateTokens(ctx, limit)
}

func (g *Guarded) EntryAction(ctx context.Context, token models.Token, amount float64) (string, error) {
	return g.call(func() (string, error) { return g.next.EntryAction(ctx, token, amount) })
}

func (g *Guarded) ExitAction(ctx context.Context, token models.Token, amount float64) (string, error) {
	return g.call(func() (string, error) { return g.next.ExitAction(ctx, token, amount) })
}

func (g *Guarded) State() gobreaker.State {
	return g.cb.State()
}

func (g *Guarded) call(fn func() (string, error)) (string, error) {
	res, err := g.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", errors.Wrap(runner.ErrActionFailed, err.Error())
	}
	if err != nil {
		return "", err
	}
	return res.(string), nil
}
