package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedger_Credit(t *testing.T) {
	l := New(1.0)

	assert.InDelta(t, 1.15, l.Credit(0.15), 1e-9)
	assert.InDelta(t, 1.15, l.Balance(), 1e-9)
}

func TestLedger_ConcurrentCredits(t *testing.T) {
	l := New(0)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Credit(1)
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(100), l.Balance())
}
