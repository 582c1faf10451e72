package health

import (
	"context"
	"html/template"
	"net"
	"net/http"
	"time"

	"sniper_bot/internal/ledger"
	"sniper_bot/internal/modules/config"
	"sniper_bot/internal/modules/health/service"
	"sniper_bot/internal/runner"
	"sniper_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

type Config struct {
	Addr     string // например ":8080"
	Identity string // адрес кошелька для /balance
}

func NewConfig(cfg *config.Config) Config {
	return Config{Addr: cfg.HTTPAddr(), Identity: cfg.Wallet.Address}
}

// BalanceReader — только чтение баланса.
type BalanceReader interface {
	Balance() float64
}

// SessionCounter — сколько сессий ещё не закрыто.
type SessionCounter interface {
	ActiveSessions() int
}

var statusPage = template.Must(template.New("status").Parse(`<!doctype html>
<html><head><title>Sniper Bot</title></head>
<body>
<h1>Sniper Bot</h1>
<table>
<tr><td>Status</td><td>{{if .Ready}}ready{{else}}starting{{end}}</td></tr>
<tr><td>Wallet</td><td><code>{{.Identity}}</code></td></tr>
<tr><td>Balance</td><td>{{printf "%.6f" .Balance}} SOL</td></tr>
<tr><td>Active sessions</td><td>{{.Sessions}}</td></tr>
<tr><td>Uptime</td><td>{{.Uptime}}</td></tr>
</table>
</body></html>
`))

func NewMux(cfg Config, state *service.State, bal BalanceReader, sessions SessionCounter, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		// liveness: процесс жив
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		// readiness: бот слушает Telegram
		if !state.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"status":         "healthy",
			"ready":          state.Ready(),
			"uptimeSec":      int64(state.Uptime().Seconds()),
			"activeSessions": sessions.ActiveSessions(),
			"lastUpdateUnix": func() int64 {
				t := state.LastUpdate()
				if t.IsZero() {
					return 0
				}
				return t.Unix()
			}(),
		})
	})

	mux.HandleFunc("/balance", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"wallet":  cfg.Identity,
			"balance": bal.Balance(),
		})
	})

	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := statusPage.Execute(w, struct {
			Ready    bool
			Identity string
			Balance  float64
			Sessions int
			Uptime   time.Duration
		}{
			Ready:    state.Ready(),
			Identity: cfg.Identity,
			Balance:  bal.Balance(),
			Sessions: sessions.ActiveSessions(),
			Uptime:   state.Uptime().Truncate(time.Second),
		})
		if err != nil {
			logger.Error("[HTTP] render status page: %v", err)
		}
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func RunHTTP(lc fx.Lifecycle, cfg Config, mux *http.ServeMux) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}
			logger.Info("[HTTP] listening on %s", cfg.Addr)
			go func() { _ = srv.Serve(ln) }()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			NewConfig,
			func(l *ledger.Ledger) BalanceReader { return l },
			func(s *runner.Scheduler) SessionCounter { return s },
			NewMux,
		),
		fx.Invoke(RunHTTP),
	)
}
