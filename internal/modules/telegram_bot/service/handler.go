package service

import (
	"context"
	"fmt"

	"sniper_bot/internal/runner"
	"sniper_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// данные inline-кнопок
const (
	cbBalance   = "balance"
	cbSnipe     = "snipe"
	cbStatus    = "status"
	cbHelp      = "help"
	cbStopSnipe = "stop_snipe"
)

func (t *Telegram) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	// паника в обработчике не должна ронять цикл апдейтов
	defer func() {
		if r := recover(); r != nil {
			logger.Error("[TG] update %d panic: %v", update.UpdateID, r)
		}
	}()

	// 1) Команды
	if msg := update.Message; msg != nil {
		if msg.Chat == nil || msg.From == nil || !msg.IsCommand() {
			return
		}
		t.handleCommand(ctx, msg.Command(), msg.From.ID, msg.Chat.ID)
		return
	}

	// 2) Inline-кнопки
	if cb := update.CallbackQuery; cb != nil {
		if cb.Message == nil || cb.Message.Chat == nil || cb.From == nil {
			return
		}
		t.handleCallback(ctx, cb)
	}
}

func (t *Telegram) handleCommand(ctx context.Context, cmd string, owner, chatID int64) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("[TG] /%s panic: %v", cmd, r)
			if _, err := t.Send(ctx, chatID, commandErrorText); err != nil {
				logger.Error("[TG] /%s error reply chat=%d: %v", cmd, chatID, err)
			}
		}
	}()

	var err error
	switch cmd {
	case "start", "help":
		err = t.replyHelp(ctx, chatID)
	case "balance":
		err = t.replyBalance(ctx, chatID)
	case "snipe":
		err = t.replySnipe(ctx, owner, chatID)
	case "status":
		err = t.replyStatus(ctx, owner, chatID)
	case "stop":
		err = t.replyStop(ctx, owner, chatID)
	default:
		_, err = t.Send(ctx, chatID, unknownCommandText)
	}
	if err != nil {
		logger.Error("[TG] /%s chat=%d: %v", cmd, chatID, err)
	}
}

func (t *Telegram) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// убираем "часики" на кнопке
	if err := t.request(ctx, tgbotapi.NewCallback(cb.ID, "")); err != nil {
		logger.Warn("[TG] answer callback %s: %v", cb.ID, err)
	}

	owner := cb.From.ID
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID

	defer func() {
		if r := recover(); r != nil {
			logger.Error("[TG] button %q panic: %v", cb.Data, r)
			_ = t.editText(ctx, chatID, msgID, buttonErrorText)
		}
	}()

	var err error
	switch cb.Data {
	case cbBalance:
		err = t.replyBalance(ctx, chatID)
	case cbSnipe:
		err = t.replySnipe(ctx, owner, chatID)
	case cbStatus:
		err = t.replyStatus(ctx, owner, chatID)
	case cbHelp:
		err = t.replyHelp(ctx, chatID)
	case cbStopSnipe:
		summary, stopErr := t.sessions.StopSession(owner)
		switch {
		case errors.Is(stopErr, runner.ErrNoActiveSession):
			err = t.editText(ctx, chatID, msgID, noSessionText)
		case stopErr != nil:
			err = stopErr
		default:
			err = t.editMarkdown(ctx, chatID, msgID, formatStopSummary(summary))
		}
	default:
		err = t.editText(ctx, chatID, msgID, comingSoonText)
	}

	if err != nil {
		logger.Error("[TG] button %q chat=%d: %v", cb.Data, chatID, err)
		_ = t.editText(ctx, chatID, msgID, buttonErrorText)
	}
}

func (t *Telegram) replyHelp(ctx context.Context, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, helpText())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = mainKeyboard()
	_, err := t.SendMessage(ctx, msg)
	return err
}

func (t *Telegram) replyBalance(ctx context.Context, chatID int64) error {
	balance, err := t.funds.Balance(ctx)
	if err != nil {
		if _, sendErr := t.Send(ctx, chatID, "❌ Balance is unavailable right now."); sendErr != nil {
			logger.Error("[TG] balance reply chat=%d: %v", chatID, sendErr)
		}
		return fmt.Errorf("balance: %w", err)
	}
	msg := tgbotapi.NewMessage(chatID, formatBalance(t.cfg.Wallet.Address, balance))
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err = t.SendMessage(ctx, msg)
	return err
}

func (t *Telegram) replySnipe(ctx context.Context, owner, chatID int64) error {
	_, err := t.sessions.StartSession(owner, chatID, t)
	if errors.Is(err, runner.ErrAlreadyActive) {
		msg := tgbotapi.NewMessage(chatID, alreadyActiveText)
		msg.ReplyMarkup = stopKeyboard()
		_, err = t.SendMessage(ctx, msg)
		return err
	}
	if err != nil {
		if _, sendErr := t.SendF(ctx, chatID, "❌ Could not start sniping: %v", err); sendErr != nil {
			logger.Error("[TG] snipe reply chat=%d: %v", chatID, sendErr)
		}
		return err
	}

	msg := tgbotapi.NewMessage(chatID, formatSnipeStarted(t.cfg.Trading))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = stopKeyboard()
	_, err = t.SendMessage(ctx, msg)
	return err
}

func (t *Telegram) replyStatus(ctx context.Context, owner, chatID int64) error {
	sess, ok := t.sessions.QuerySession(owner)
	msg := tgbotapi.NewMessage(chatID, formatStatus(sess, ok, t.now(), t.sessions.AutoReinvest()))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if ok {
		msg.ReplyMarkup = stopKeyboard()
	}
	_, err := t.SendMessage(ctx, msg)
	return err
}

func (t *Telegram) replyStop(ctx context.Context, owner, chatID int64) error {
	summary, err := t.sessions.StopSession(owner)
	if errors.Is(err, runner.ErrNoActiveSession) {
		_, err = t.Send(ctx, chatID, noSessionText)
		return err
	}
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, formatStopSummary(summary))
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err = t.SendMessage(ctx, msg)
	return err
}
