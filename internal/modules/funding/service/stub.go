package service

import (
	"context"
	"math/rand"
	"time"

	"sniper_bot/internal/ledger"
	"sniper_bot/internal/models"
	"sniper_bot/internal/runner"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// mintNamespace — детерминированные "адреса" токенов стаба.
var mintNamespace = uuid.MustParse("6f1c7a52-3d0e-4c8e-9a43-5b1f3e2d7c90")

var catalog = []struct{ symbol, name string }{
	{"BONK", "Bonk"},
	{"WIF", "dogwifhat"},
	{"POPCAT", "Popcat"},
	{"MEW", "cat in a dogs world"},
	{"BOME", "BOOK OF MEME"},
	{"SLERF", "Slerf"},
	{"MYRO", "Myro"},
	{"PONKE", "Ponke"},
	{"WEN", "Wen"},
	{"SAMO", "Samoyedcoin"},
	{"GIGA", "GIGACHAD"},
	{"MOODENG", "Moo Deng"},
}

type StubConfig struct {
	FailureRate float64       // доля отказов входа/выхода
	Latency     time.Duration // имитация сетевой задержки
}

// Stub — синтетический источник: баланс берётся из леджера, сделки
// "исполняются" с задержкой и ссылкой-uuid.
type Stub struct {
	cfg    StubConfig
	ledger *ledger.Ledger
	roll   func() float64
}

func NewStub(cfg StubConfig, l *ledger.Ledger) *Stub {
	return &Stub{cfg: cfg, ledger: l, roll: rand.Float64}
}

func (s *Stub) Balance(context.Context) (float64, error) {
	return s.ledger.Balance(), nil
}

func (s *Stub) EntryAction(ctx context.Context, token models.Token, amount float64) (string, error) {
	return s.execute(ctx, "buy", token, amount)
}

func (s *Stub) ExitAction(ctx context.Context, token models.Token, amount float64) (string, error) {
	return s.execute(ctx, "sell", token, amount)
}

func (s *Stub) ListCandidateTokens(ctx context.Context, limit int) ([]models.Token, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > len(catalog) {
		limit = len(catalog)
	}
	out := make([]models.Token, 0, limit)
	for _, c := range catalog[:limit] {
		out = append(out, models.Token{
			Symbol: c.symbol,
			Name:   c.name,
			Mint:   uuid.NewSHA1(mintNamespace, []byte(c.symbol)).String(),
		})
	}
	return out, nil
}

func (s *Stub) execute(ctx context.Context, side string, token models.Token, amount float64) (string, error) {
	if amount <= 0 {
		return "", errors.Wrapf(runner.ErrActionFailed, "%s %s: amount must be > 0", side, token.Symbol)
	}
	if err := s.wait(ctx); err != nil {
		return "", errors.Wrapf(runner.ErrActionFailed, "%s %s: %v", side, token.Symbol, err)
	}
	if s.cfg.FailureRate > 0 && s.roll() < s.cfg.FailureRate {
		return "", errors.Wrapf(runner.ErrActionFailed, "%s %s: simulated slippage exceeded", side, token.Symbol)
	}
	return uuid.NewString(), nil
}

func (s *Stub) wait(ctx context.Context) error {
	if s.cfg.Latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.cfg.Latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
