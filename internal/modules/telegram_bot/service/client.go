package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sniper_bot/internal/models"
	"sniper_bot/internal/modules/config"
	healthsvc "sniper_bot/internal/modules/health/service"
	"sniper_bot/internal/runner"
	"sniper_bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// SessionManager — то, что нужно боту от планировщика сессий.
type SessionManager interface {
	StartSession(owner, chatID int64, n runner.Notifier) (models.Session, error)
	StopSession(owner int64) (models.Summary, error)
	QuerySession(owner int64) (models.Session, bool)
	AutoReinvest() bool
}

type BalanceSource interface {
	Balance(ctx context.Context) (float64, error)
}

// Telegram — командный интерфейс и нотифайер сессий.
type Telegram struct {
	bot      *tgbot.BotAPI
	cfg      *config.Config
	sessions SessionManager
	funds    BalanceSource
	state    *healthsvc.State
	limiter  *rate.Limiter
	now      func() time.Time
}

func NewTelegram(cfg *config.Config, sessions SessionManager, funds BalanceSource, state *healthsvc.State) (*Telegram, error) {
	var (
		b   *tgbot.BotAPI
		err error
	)
	if cfg.Telegram.APIEndpoint != "" {
		b, err = tgbot.NewBotAPIWithClient(cfg.Telegram.Token, cfg.Telegram.APIEndpoint, &http.Client{Timeout: 60 * time.Second})
	} else {
		b, err = tgbot.NewBotAPI(cfg.Telegram.Token)
	}
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	logger.Info("[TG] authorized as @%s", b.Self.UserName)

	return newTelegram(b, cfg, sessions, funds, state), nil
}

func newTelegram(b *tgbot.BotAPI, cfg *config.Config, sessions SessionManager, funds BalanceSource, state *healthsvc.State) *Telegram {
	limit := rate.Inf
	if cfg.Telegram.RatePerSec > 0 {
		limit = rate.Limit(cfg.Telegram.RatePerSec)
	}
	burst := cfg.Telegram.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Telegram{
		bot:      b,
		cfg:      cfg,
		sessions: sessions,
		funds:    funds,
		state:    state,
		limiter:  rate.NewLimiter(limit, burst),
		now:      time.Now,
	}
}

func (t *Telegram) Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error) {
	return t.SendMessage(ctx, tgbot.NewMessage(chatID, msg))
}

func (t *Telegram) SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbot.Message, error) {
	return t.Send(ctx, chatID, fmt.Sprintf(format, args...))
}

func (t *Telegram) SendMessage(ctx context.Context, message tgbot.MessageConfig) (tgbot.Message, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return tgbot.Message{}, err
	}
	return t.bot.Send(message)
}

// Notify — fire-and-forget доставка для планировщика.
func (t *Telegram) Notify(ctx context.Context, chatID int64, text string) {
	if _, err := t.Send(ctx, chatID, text); err != nil {
		logger.Error("[TG] notify chat=%d failed: %v", chatID, err)
	}
}

func (t *Telegram) request(ctx context.Context, c tgbot.Chattable) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := t.bot.Request(c)
	return err
}

func (t *Telegram) editText(ctx context.Context, chatID int64, msgID int, text string) error {
	return t.request(ctx, tgbot.NewEditMessageText(chatID, msgID, text))
}

func (t *Telegram) editMarkdown(ctx context.Context, chatID int64, msgID int, text string) error {
	edit := tgbot.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbot.ModeMarkdown
	return t.request(ctx, edit)
}

// Start запускает long-polling. Обработка идёт до отмены ctx.
func (t *Telegram) Start(ctx context.Context) {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message", "callback_query"}

	updates := t.bot.GetUpdatesChan(u)
	t.state.SetReady(true)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				t.state.TouchUpdate(t.now())
				t.handleUpdate(ctx, upd)
			}
		}
	}()
}

func (t *Telegram) Stop() {
	t.state.SetReady(false)
	t.bot.StopReceivingUpdates()
}
