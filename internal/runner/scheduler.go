package runner

import (
	"context"
	"sync"
	"time"

	"sniper_bot/internal/ledger"
	"sniper_bot/internal/models"
	"sniper_bot/pkg/logger"
	"sniper_bot/pkg/tracing"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
)

// Source — внешний источник средств и действий (биржа/кошелёк).
type Source interface {
	Balance(ctx context.Context) (float64, error)
	EntryAction(ctx context.Context, token models.Token, amount float64) (string, error)
	ExitAction(ctx context.Context, token models.Token, amount float64) (string, error)
	ListCandidateTokens(ctx context.Context, limit int) ([]models.Token, error)
}

// Notifier доставляет текст в чат. Ошибки доставки остаются внутри.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string)
}

type Config struct {
	EntryDelay     time.Duration
	ExitDelay      time.Duration
	TradeAmount    float64
	TokenLimit     int
	AutoReinvest   bool
	EntryRetry     RetryPolicy
	ExitRetry      RetryPolicy
	OnEntryFailure FailurePolicy

	Profit   ProfitPolicy
	Selector Selector
}

// Scheduler ведёт таймерные переходы сессий. Отмена работает через
// удаление записи из Store: таймер, проснувшись, перепроверяет сессию.
type Scheduler struct {
	cfg     Config
	store   *Store
	ledger  *ledger.Ledger
	src     Source
	metrics *Metrics
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex // closed + wg.Add
	closed bool
	wg     sync.WaitGroup
}

func NewScheduler(cfg Config, store *Store, l *ledger.Ledger, src Source, m *Metrics) *Scheduler {
	if cfg.Profit == nil {
		cfg.Profit = FixedRatio(0)
	}
	if cfg.Selector == nil {
		cfg.Selector = FirstSelector{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cfg:     cfg,
		store:   store,
		ledger:  l,
		src:     src,
		metrics: m,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// task — один запланированный цикл конкретной сессии.
type task struct {
	owner  int64
	id     string
	chatID int64
	n      Notifier
}

// StartSession создаёт сессию и взводит таймер входа.
func (s *Scheduler) StartSession(owner, chatID int64, n Notifier) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return models.Session{}, errors.New("scheduler is shut down")
	}

	sess, err := s.store.Create(owner, chatID)
	if err != nil {
		return models.Session{}, err
	}
	s.metrics.SessionsStarted.Inc()
	logger.Info("[SESSION] started owner=%d id=%s entryIn=%s", owner, sess.ID, s.cfg.EntryDelay)

	if n == nil {
		n = nopNotifier{}
	}
	t := &task{owner: owner, id: sess.ID, chatID: chatID, n: n}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(t)
	}()
	return sess, nil
}

// StopSession удаляет сессию и возвращает сводку. Безопасна в любой фазе,
// в том числе параллельно со срабатывающим таймером.
func (s *Scheduler) StopSession(owner int64) (models.Summary, error) {
	sess, ok := s.store.Remove(owner)
	if !ok {
		return models.Summary{}, errors.Wrapf(ErrNoActiveSession, "owner %d", owner)
	}
	s.metrics.SessionsStopped.Inc()
	logger.Info("[SESSION] stopped owner=%d id=%s phase=%s trades=%d", owner, sess.ID, sess.Phase, sess.TradesExecuted)
	return sess.Summary(s.now()), nil
}

func (s *Scheduler) QuerySession(owner int64) (models.Session, bool) {
	return s.store.Get(owner)
}

func (s *Scheduler) AutoReinvest() bool { return s.cfg.AutoReinvest }

// ActiveSessions — сколько сессий ещё не дошли до Closed.
func (s *Scheduler) ActiveSessions() int { return s.store.Active() }

// Wait блокируется, пока не отработают все запущенные циклы.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Shutdown гасит ожидающие таймеры и ждёт выхода горутин.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run(t *task) {
	token, ok := s.enter(t)
	if !ok {
		return
	}
	s.exit(t, token)
}

// enter: Scanning -> PositionOpen.
func (s *Scheduler) enter(t *task) (models.Token, bool) {
	if !s.sleep(s.cfg.EntryDelay) || !s.live(t) {
		return models.Token{}, false
	}

	tokens, err := s.src.ListCandidateTokens(s.ctx, s.cfg.TokenLimit)
	if err != nil {
		s.metrics.Actions.WithLabelValues(actionScan, resultFailed).Inc()
		logger.Error("[SESSION] token scan failed owner=%d id=%s phase=%s: %v", t.owner, t.id, models.PhaseScanning, err)
		if s.live(t) {
			t.n.Notify(s.ctx, t.chatID, scanFailedText(err))
		}
		return models.Token{}, false
	}
	token, ok := s.cfg.Selector.Pick(tokens)
	if !ok {
		s.metrics.Actions.WithLabelValues(actionScan, resultEmpty).Inc()
		logger.Info("[SESSION] no candidates owner=%d id=%s", t.owner, t.id)
		if s.live(t) {
			t.n.Notify(s.ctx, t.chatID, noCandidatesText())
		}
		return models.Token{}, false
	}

	amount := s.cfg.TradeAmount
	ref, err := s.attempt(t, actionEntry, models.PhaseScanning, s.cfg.EntryRetry, func(ctx context.Context) (string, error) {
		return s.src.EntryAction(ctx, token, amount)
	})
	if errors.Is(err, errAborted) {
		s.metrics.Actions.WithLabelValues(actionEntry, resultDiscarded).Inc()
		return models.Token{}, false
	}
	if err != nil {
		s.metrics.Actions.WithLabelValues(actionEntry, resultFailed).Inc()
		s.onEntryFailure(t, token, err)
		return models.Token{}, false
	}

	applied := s.store.Mutate(t.owner, func(sess *models.Session) bool {
		if sess.ID != t.id || sess.Phase != models.PhaseScanning {
			return false
		}
		tok := token
		sess.Phase = models.PhasePositionOpen
		sess.PendingToken = &tok
		sess.TradesExecuted++
		sess.EntryRef = ref
		return true
	})
	if !applied {
		s.metrics.Actions.WithLabelValues(actionEntry, resultDiscarded).Inc()
		logger.Info("[SESSION] entry result discarded owner=%d id=%s ref=%s", t.owner, t.id, ref)
		return models.Token{}, false
	}

	s.metrics.Actions.WithLabelValues(actionEntry, resultOK).Inc()
	logger.Info("[SESSION] entry owner=%d id=%s token=%s ref=%s", t.owner, t.id, token.Symbol, ref)
	t.n.Notify(s.ctx, t.chatID, entryText(token, amount, ref))
	return token, true
}

func (s *Scheduler) onEntryFailure(t *task, token models.Token, err error) {
	logger.Error("[SESSION] entry failed owner=%d id=%s phase=%s token=%s: %v",
		t.owner, t.id, models.PhaseScanning, token.Symbol, err)

	if s.cfg.OnEntryFailure == Terminate {
		_, removed := s.store.RemoveIf(t.owner, func(sess models.Session) bool {
			return sess.ID == t.id
		})
		if removed {
			t.n.Notify(s.ctx, t.chatID, entryFailedText(token, err, true))
		}
		return
	}
	if s.live(t) {
		t.n.Notify(s.ctx, t.chatID, entryFailedText(token, err, false))
	}
}

// exit: PositionOpen -> Closed. Сессия остаётся в сторе для /status.
func (s *Scheduler) exit(t *task, token models.Token) {
	if !s.sleep(s.cfg.ExitDelay) || !s.live(t) {
		return
	}

	amount := s.cfg.TradeAmount
	ref, err := s.attempt(t, actionExit, models.PhasePositionOpen, s.cfg.ExitRetry, func(ctx context.Context) (string, error) {
		return s.src.ExitAction(ctx, token, amount)
	})
	if errors.Is(err, errAborted) {
		s.metrics.Actions.WithLabelValues(actionExit, resultDiscarded).Inc()
		return
	}
	if err != nil {
		s.metrics.Actions.WithLabelValues(actionExit, resultFailed).Inc()
		logger.Error("[SESSION] exit failed owner=%d id=%s phase=%s token=%s: %v",
			t.owner, t.id, models.PhasePositionOpen, token.Symbol, err)
		t.n.Notify(s.ctx, t.chatID, exitFailedText(token, err))
		return
	}

	profit := s.cfg.Profit.Profit(amount)
	var balance float64
	applied := s.store.Mutate(t.owner, func(sess *models.Session) bool {
		if sess.ID != t.id || sess.Phase != models.PhasePositionOpen {
			return false
		}
		sess.Phase = models.PhaseClosed
		sess.TotalProfit += profit
		sess.ExitRef = ref
		balance = s.ledger.Credit(profit)
		return true
	})
	if !applied {
		s.metrics.Actions.WithLabelValues(actionExit, resultDiscarded).Inc()
		logger.Info("[SESSION] exit result discarded owner=%d id=%s ref=%s", t.owner, t.id, ref)
		return
	}

	s.metrics.Actions.WithLabelValues(actionExit, resultOK).Inc()
	logger.Info("[SESSION] exit owner=%d id=%s token=%s profit=%.6f ref=%s", t.owner, t.id, token.Symbol, profit, ref)
	t.n.Notify(s.ctx, t.chatID, exitText(token, profit, balance, ref, s.cfg.AutoReinvest))
}

// attempt вызывает действие с ретраями. Между попытками сессия
// перепроверяется; если её отменили, возвращается errAborted.
func (s *Scheduler) attempt(
	t *task,
	kind string,
	phase models.Phase,
	p RetryPolicy,
	call func(ctx context.Context) (string, error),
) (string, error) {
	var lastErr error
	for i := 1; i <= p.attempts(); i++ {
		if i > 1 && (!s.sleep(p.Backoff) || !s.live(t)) {
			return "", errAborted
		}

		ctx, finish := tracing.StartSpan(s.ctx, "runner."+kind, opentracing.Tags{
			"owner":   t.owner,
			"session": t.id,
			"attempt": i,
		})
		ref, err := call(ctx)
		finish(err)
		if err == nil {
			return ref, nil
		}
		lastErr = err
		logger.Warn("[SESSION] %s attempt %d/%d failed owner=%d id=%s phase=%s: %v",
			kind, i, p.attempts(), t.owner, t.id, phase, err)
	}
	if !s.live(t) {
		return "", errAborted
	}
	return "", errors.Wrapf(lastErr, "%s after %d attempt(s)", kind, p.attempts())
}

func (s *Scheduler) live(t *task) bool {
	sess, ok := s.store.Get(t.owner)
	return ok && sess.ID == t.id
}

func (s *Scheduler) sleep(d time.Duration) bool {
	if d <= 0 {
		return s.ctx.Err() == nil
	}
	tm := time.NewTimer(d)
	defer tm.Stop()
	select {
	case <-s.ctx.Done():
		return false
	case <-tm.C:
		return true
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, int64, string) {}
