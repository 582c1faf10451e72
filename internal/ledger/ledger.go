package ledger

import (
	"sync"
)

// Ledger — общий баланс. Пополняется только завершёнными выходами.
type Ledger struct {
	mu      sync.RWMutex
	balance float64
}

func New(initial float64) *Ledger {
	return &Ledger{balance: initial}
}

func (l *Ledger) Balance() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balance
}

// Credit добавляет сумму и возвращает новый баланс.
func (l *Ledger) Credit(amount float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance += amount
	return l.balance
}
