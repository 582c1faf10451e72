package models

import (
	"time"
)

// Phase — положение сессии в автомате Scanning -> PositionOpen -> Closed.
type Phase int

const (
	PhaseScanning Phase = iota
	PhasePositionOpen
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseScanning:
		return "Scanning"
	case PhasePositionOpen:
		return "PositionOpen"
	case PhaseClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Token — кандидат на вход, который отдаёт источник.
type Token struct {
	Symbol string
	Name   string
	Mint   string // адрес
}

// Session — один запуск цикла вход/выход для пользователя.
type Session struct {
	ID     string
	Owner  int64 // Telegram user ID
	ChatID int64

	StartedAt time.Time
	Phase     Phase

	TradesExecuted int
	TotalProfit    float64

	PendingToken *Token
	EntryRef     string
	ExitRef      string
}

// Elapsed — сколько сессия уже живёт.
func (s Session) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}

// Summary отдаётся при остановке сессии.
type Summary struct {
	Duration       time.Duration
	TradesExecuted int
	TotalProfit    float64
	Phase          Phase
}

func (s Session) Summary(now time.Time) Summary {
	return Summary{
		Duration:       s.Elapsed(now),
		TradesExecuted: s.TradesExecuted,
		TotalProfit:    s.TotalProfit,
		Phase:          s.Phase,
	}
}
