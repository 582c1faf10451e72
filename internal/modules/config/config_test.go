package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "service:\n  name: sniper_test\n"))
	require.NoError(t, err)

	assert.Equal(t, "sniper_test", cfg.Service.Name)
	assert.Equal(t, 30*time.Second, cfg.Trading.EntryDelay)
	assert.Equal(t, 60*time.Second, cfg.Trading.ExitDelay)
	assert.Equal(t, 0.3, cfg.Trading.TradeAmount)
	assert.Equal(t, 0.5, cfg.Trading.ProfitRatio)
	assert.True(t, cfg.Trading.AutoReinvest)
	assert.Equal(t, SelectionRandom, cfg.Trading.Selection)
	assert.Equal(t, OnFailureKeep, cfg.Trading.OnEntryFailure)
	assert.Equal(t, 1, cfg.Trading.EntryRetry.MaxAttempts)
	assert.Equal(t, 1.0, cfg.Wallet.InitialBalance)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
trading:
  entry_delay: 5s
  exit_delay: 1m30s
  trade_amount: 0.25
  auto_reinvest: false
  selection: first
  on_entry_failure: terminate
  entry_retry:
    max_attempts: 3
    backoff: 2s
funding:
  failure_rate: 0.1
`))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Trading.EntryDelay)
	assert.Equal(t, 90*time.Second, cfg.Trading.ExitDelay)
	assert.Equal(t, 0.25, cfg.Trading.TradeAmount)
	assert.False(t, cfg.Trading.AutoReinvest)
	assert.Equal(t, SelectionFirst, cfg.Trading.Selection)
	assert.Equal(t, OnFailureTerminate, cfg.Trading.OnEntryFailure)
	assert.Equal(t, Retry{MaxAttempts: 3, Backoff: 2 * time.Second}, cfg.Trading.EntryRetry)
	assert.Equal(t, Retry{MaxAttempts: 1}, cfg.Trading.ExitRetry)
	assert.Equal(t, 0.1, cfg.Funding.FailureRate)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ENTRY_DELAY", "2s")
	t.Setenv("EXIT_DELAY", "4s")
	t.Setenv("TRADE_AMOUNT", "0.7")
	t.Setenv("PROFIT_RATIO", "0.25")
	t.Setenv("AUTO_REINVEST", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load(writeConfig(t, "trading:\n  entry_delay: 10s\n"))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, 2*time.Second, cfg.Trading.EntryDelay)
	assert.Equal(t, 4*time.Second, cfg.Trading.ExitDelay)
	assert.Equal(t, 0.7, cfg.Trading.TradeAmount)
	assert.Equal(t, 0.25, cfg.Trading.ProfitRatio)
	assert.False(t, cfg.Trading.AutoReinvest)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Service.PublicPort)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"zero entry delay":  "trading:\n  entry_delay: 0s\n",
		"negative amount":   "trading:\n  trade_amount: -1\n",
		"bad selection":     "trading:\n  selection: smartest\n",
		"bad failure mode":  "trading:\n  on_entry_failure: panic\n",
		"no retry attempts": "trading:\n  exit_retry:\n    max_attempts: 0\n",
		"failure rate":      "funding:\n  failure_rate: 1.5\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvDelaysInSeconds(t *testing.T) {
	t.Setenv("ENTRY_DELAY", "30")
	t.Setenv("EXIT_DELAY", "60")

	cfg, err := Load(writeConfig(t, "service:\n  name: sniper_test\n"))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Trading.EntryDelay)
	assert.Equal(t, 60*time.Second, cfg.Trading.ExitDelay)
}

func TestLoad_EnvDelayInvalid(t *testing.T) {
	t.Setenv("ENTRY_DELAY", "soon")

	_, err := Load(writeConfig(t, "service:\n  name: sniper_test\n"))
	assert.Error(t, err)
}

func TestParseDelay(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"30", 30 * time.Second},
		{" 5 ", 5 * time.Second},
		{"0", 0},
		{"1m30s", 90 * time.Second},
		{"250ms", 250 * time.Millisecond},
	}
	for _, c := range cases {
		got, err := parseDelay(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	_, err := parseDelay("abc")
	assert.Error(t, err)
}
