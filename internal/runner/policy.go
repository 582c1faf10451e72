package runner

import (
	"math/rand"
	"time"

	"sniper_bot/internal/models"
)

// ProfitPolicy считает прибыль закрытой сделки по её сумме.
type ProfitPolicy interface {
	Profit(amount float64) float64
}

// FixedRatio — прибыль как фиксированная доля суммы сделки.
type FixedRatio float64

func (r FixedRatio) Profit(amount float64) float64 { return amount * float64(r) }

// Selector выбирает токен из списка кандидатов. ok=false для пустого списка.
type Selector interface {
	Pick(tokens []models.Token) (models.Token, bool)
}

type FirstSelector struct{}

func (FirstSelector) Pick(tokens []models.Token) (models.Token, bool) {
	if len(tokens) == 0 {
		return models.Token{}, false
	}
	return tokens[0], true
}

type RandomSelector struct{}

func (RandomSelector) Pick(tokens []models.Token) (models.Token, bool) {
	if len(tokens) == 0 {
		return models.Token{}, false
	}
	return tokens[rand.Intn(len(tokens))], true
}

// RetryPolicy — сколько раз пробовать действие и сколько ждать между попытками.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// FailurePolicy — что делать с сессией, когда вход так и не удался.
type FailurePolicy int

const (
	// KeepScanning оставляет сессию в Scanning.
	KeepScanning FailurePolicy = iota
	// Terminate удаляет сессию.
	Terminate
)
