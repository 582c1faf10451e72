package runner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sniper_bot/internal/ledger"
	"sniper_bot/internal/models"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type fakeSource struct {
	tokens    []models.Token
	scanErr   error
	entryErr  error
	exitErr   error
	entryGate chan struct{} // если задан, вход ждёт сигнала
	exitGate  chan struct{} // то же для выхода

	entryCalls atomic.Int32
	exitCalls  atomic.Int32
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		tokens: []models.Token{
			{Symbol: "BONK", Name: "Bonk", Mint: "mint-bonk"},
			{Symbol: "WIF", Name: "dogwifhat", Mint: "mint-wif"},
		},
	}
}

func (f *fakeSource) Balance(context.Context) (float64, error) { return 0, nil }

func (f *fakeSource) EntryAction(ctx context.Context, token models.Token, amount float64) (string, error) {
	n := f.entryCalls.Add(1)
	if f.entryGate != nil {
		select {
		case <-f.entryGate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.entryErr != nil {
		return "", f.entryErr
	}
	return fmt.Sprintf("entry-%s-%d", token.Symbol, n), nil
}

func (f *fakeSource) ExitAction(ctx context.Context, token models.Token, _ float64) (string, error) {
	n := f.exitCalls.Add(1)
	if f.exitGate != nil {
		select {
		case <-f.exitGate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.exitErr != nil {
		return "", f.exitErr
	}
	return fmt.Sprintf("exit-%s-%d", token.Symbol, n), nil
}

func (f *fakeSource) ListCandidateTokens(_ context.Context, limit int) ([]models.Token, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	if limit < len(f.tokens) {
		return f.tokens[:limit], nil
	}
	return f.tokens, nil
}

type note struct {
	chatID int64
	text   string
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (r *recordingNotifier) Notify(_ context.Context, chatID int64, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{chatID: chatID, text: text})
}

func (r *recordingNotifier) all() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note(nil), r.notes...)
}

type fixture struct {
	sch    *Scheduler
	store  *Store
	ledger *ledger.Ledger
	src    *fakeSource
	n      *recordingNotifier
	reg    *prometheus.Registry
}

func testConfig() Config {
	return Config{
		EntryDelay:   10 * time.Millisecond,
		ExitDelay:    20 * time.Millisecond,
		TradeAmount:  0.3,
		TokenLimit:   5,
		AutoReinvest: true,
		EntryRetry:   RetryPolicy{MaxAttempts: 1},
		ExitRetry:    RetryPolicy{MaxAttempts: 1},
		Profit:       FixedRatio(0.5),
		Selector:     FirstSelector{},
	}
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	store := NewStore()
	l := ledger.New(1.0)
	reg := prometheus.NewRegistry()
	src := newFakeSource()
	sch := NewScheduler(cfg, store, l, src, NewMetrics(reg, store, l.Balance))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = sch.Shutdown(ctx)
	})

	return &fixture{sch: sch, store: store, ledger: l, src: src, n: &recordingNotifier{}, reg: reg}
}

var errDownstream = errors.Wrap(ErrActionFailed, "rpc unavailable")
