package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	actionEntry = "entry"
	actionExit  = "exit"
	actionScan  = "scan"

	resultOK        = "ok"
	resultFailed    = "failed"
	resultDiscarded = "discarded"
	resultEmpty     = "empty"
)

type Metrics struct {
	SessionsStarted prometheus.Counter
	SessionsStopped prometheus.Counter
	Actions         *prometheus.CounterVec // kind, result
}

// NewMetrics регистрирует счётчики сессий и gauge-и по стору и балансу.
func NewMetrics(reg prometheus.Registerer, store *Store, balance func() float64) *Metrics {
	f := promauto.With(reg)

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "sniper_active_sessions",
		Help: "Sessions in Scanning or PositionOpen phase",
	}, func() float64 { return float64(store.Active()) })

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "sniper_stored_sessions",
		Help: "Sessions held in the session store, closed ones included",
	}, func() float64 { return float64(store.Len()) })

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "sniper_ledger_balance",
		Help: "Current ledger balance",
	}, balance)

	return &Metrics{
		SessionsStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "sniper_sessions_started_total",
			Help: "Sessions created by start requests",
		}),
		SessionsStopped: f.NewCounter(prometheus.CounterOpts{
			Name: "sniper_sessions_stopped_total",
			Help: "Sessions removed by stop requests",
		}),
		Actions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sniper_actions_total",
			Help: "Scheduled actions by kind and result",
		}, []string{"kind", "result"}),
	}
}
