package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDir         = "configs"
	defaultConfigFile = "values_local.yaml"

	SelectionRandom = "random"
	SelectionFirst  = "first"

	OnFailureKeep      = "keep"
	OnFailureTerminate = "terminate"
)

// Config ...
type Config struct {
	Service struct {
		Name       string `yaml:"name"`
		Host       string `yaml:"host"`
		PublicPort int    `yaml:"public_port"`
	} `yaml:"service"`

	Telegram struct {
		Token       string  `yaml:"token"`
		APIEndpoint string  `yaml:"api_endpoint"` // пусто => api.telegram.org
		RatePerSec  float64 `yaml:"rate_per_sec"`
		Burst       int     `yaml:"burst"`
	} `yaml:"telegram"`

	Trading Trading `yaml:"trading"`

	Wallet struct {
		Address        string  `yaml:"address"` // фиксированная строка для /balance
		InitialBalance float64 `yaml:"initial_balance"`
	} `yaml:"wallet"`

	Funding struct {
		FailureRate float64       `yaml:"failure_rate"` // 0..1, доля искусственных отказов стаба
		Latency     time.Duration `yaml:"latency"`
		Breaker     struct {
			MaxFailures uint32        `yaml:"max_failures"`
			OpenTimeout time.Duration `yaml:"open_timeout"`
		} `yaml:"breaker"`
	} `yaml:"funding"`

	Tracing struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
	} `yaml:"tracing"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

type Trading struct {
	EntryDelay     time.Duration `yaml:"entry_delay"`
	ExitDelay      time.Duration `yaml:"exit_delay"`
	TradeAmount    float64       `yaml:"trade_amount"`
	ProfitRatio    float64       `yaml:"profit_ratio"` // 0.5 => +50% от суммы сделки
	AutoReinvest   bool          `yaml:"auto_reinvest"`
	TokenLimit     int           `yaml:"token_limit"`
	Selection      string        `yaml:"selection"` // random | first
	EntryRetry     Retry         `yaml:"entry_retry"`
	ExitRetry      Retry         `yaml:"exit_retry"`
	OnEntryFailure string        `yaml:"on_entry_failure"` // keep | terminate
}

type Retry struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Backoff     time.Duration `yaml:"backoff"`
}

func defaults() Config {
	var c Config
	c.Service.Name = "sniper_bot"
	c.Service.Host = "0.0.0.0"
	c.Service.PublicPort = 8080
	c.Telegram.RatePerSec = 25
	c.Telegram.Burst = 5
	c.Trading = Trading{
		EntryDelay:     30 * time.Second,
		ExitDelay:      60 * time.Second,
		TradeAmount:    0.3,
		ProfitRatio:    0.5,
		AutoReinvest:   true,
		TokenLimit:     10,
		Selection:      SelectionRandom,
		EntryRetry:     Retry{MaxAttempts: 1},
		ExitRetry:      Retry{MaxAttempts: 1},
		OnEntryFailure: OnFailureKeep,
	}
	c.Wallet.Address = "SNIPERxDemoWa11et1111111111111111111111111"
	c.Wallet.InitialBalance = 1.0
	c.Funding.Breaker.MaxFailures = 5
	c.Funding.Breaker.OpenTimeout = 30 * time.Second
	c.Tracing.Host = "localhost"
	c.Tracing.Port = 6831
	c.Log.Level = "info"
	return c
}

// NewConfig читает configs/$CONFIG_FILE (по умолчанию values_local.yaml).
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = defaultConfigFile
	}
	return Load(filepath.Join(configDir, configFileName))
}

// Load декодирует yaml-файл поверх дефолтов и применяет env-переопределения.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	config := defaults()
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}

	if err := applyEnv(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func applyEnv(c *Config) error {
	v := viper.New()
	_ = v.BindEnv("telegram.token", "TELEGRAM_TOKEN")
	_ = v.BindEnv("service.public_port", "HTTP_PORT")
	_ = v.BindEnv("trading.entry_delay", "ENTRY_DELAY")
	_ = v.BindEnv("trading.exit_delay", "EXIT_DELAY")
	_ = v.BindEnv("trading.trade_amount", "TRADE_AMOUNT")
	_ = v.BindEnv("trading.profit_ratio", "PROFIT_RATIO")
	_ = v.BindEnv("trading.auto_reinvest", "AUTO_REINVEST")
	_ = v.BindEnv("log.level", "LOG_LEVEL")

	if v.IsSet("telegram.token") {
		c.Telegram.Token = v.GetString("telegram.token")
	}
	if v.IsSet("service.public_port") {
		c.Service.PublicPort = v.GetInt("service.public_port")
	}
	if v.IsSet("trading.entry_delay") {
		d, err := parseDelay(v.GetString("trading.entry_delay"))
		if err != nil {
			return fmt.Errorf("ENTRY_DELAY: %w", err)
		}
		c.Trading.EntryDelay = d
	}
	if v.IsSet("trading.exit_delay") {
		d, err := parseDelay(v.GetString("trading.exit_delay"))
		if err != nil {
			return fmt.Errorf("EXIT_DELAY: %w", err)
		}
		c.Trading.ExitDelay = d
	}
	if v.IsSet("trading.trade_amount") {
		c.Trading.TradeAmount = v.GetFloat64("trading.trade_amount")
	}
	if v.IsSet("trading.profit_ratio") {
		c.Trading.ProfitRatio = v.GetFloat64("trading.profit_ratio")
	}
	if v.IsSet("trading.auto_reinvest") {
		c.Trading.AutoReinvest = v.GetBool("trading.auto_reinvest")
	}
	if v.IsSet("log.level") {
		c.Log.Level = v.GetString("log.level")
	}
	return nil
}

// parseDelay: голое целое — секунды ("30"), иначе формат time.ParseDuration ("1m30s").
func parseDelay(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

func (c *Config) Validate() error {
	t := c.Trading
	switch {
	case t.EntryDelay <= 0:
		return fmt.Errorf("trading.entry_delay must be > 0")
	case t.ExitDelay <= 0:
		return fmt.Errorf("trading.exit_delay must be > 0")
	case t.TradeAmount <= 0:
		return fmt.Errorf("trading.trade_amount must be > 0")
	case t.TokenLimit <= 0:
		return fmt.Errorf("trading.token_limit must be > 0")
	case t.EntryRetry.MaxAttempts < 1 || t.ExitRetry.MaxAttempts < 1:
		return fmt.Errorf("trading.*_retry.max_attempts must be >= 1")
	case t.Selection != SelectionRandom && t.Selection != SelectionFirst:
		return fmt.Errorf("trading.selection: unknown value %q", t.Selection)
	case t.OnEntryFailure != OnFailureKeep && t.OnEntryFailure != OnFailureTerminate:
		return fmt.Errorf("trading.on_entry_failure: unknown value %q", t.OnEntryFailure)
	case c.Funding.FailureRate < 0 || c.Funding.FailureRate > 1:
		return fmt.Errorf("funding.failure_rate must be within [0, 1]")
	}
	return nil
}

// HTTPAddr — адрес публичного HTTP (health/balance/metrics).
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Service.Host, c.Service.PublicPort)
}
