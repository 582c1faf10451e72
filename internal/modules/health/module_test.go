package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"sniper_bot/internal/ledger"
	"sniper_bot/internal/modules/health/service"

	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSessions int

func (f fixedSessions) ActiveSessions() int { return int(f) }

func newTestMux(state *service.State) *http.ServeMux {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"}))
	return NewMux(Config{Identity: "WALLET"}, state, ledger.New(1.25), fixedSessions(2), reg)
}

func get(t *testing.T, mux http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLivez(t *testing.T) {
	rec := get(t, newTestMux(service.NewState()), "/livez")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestReadyz(t *testing.T) {
	state := service.NewState()
	mux := newTestMux(state)

	assert.Equal(t, http.StatusServiceUnavailable, get(t, mux, "/readyz").Code)

	state.SetReady(true)
	assert.Equal(t, http.StatusOK, get(t, mux, "/readyz").Code)
}

func TestBalance(t *testing.T) {
	rec := get(t, newTestMux(service.NewState()), "/balance")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Wallet  string  `json:"wallet"`
		Balance float64 `json:"balance"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "WALLET", body.Wallet)
	assert.Equal(t, 1.25, body.Balance)
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestMux(service.NewState()), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(2), body["activeSessions"])
	assert.Equal(t, false, body["ready"])
}

func TestMetricsAndStatusPage(t *testing.T) {
	mux := newTestMux(service.NewState())

	rec := get(t, mux, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_total")

	rec = get(t, mux, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1.250000 SOL")
	assert.Contains(t, rec.Body.String(), "WALLET")

	assert.Equal(t, http.StatusNotFound, get(t, mux, "/nope").Code)
}
