// Package config layers the backtester configuration: built-in
// defaults, then an optional YAML or JSON file, then FUNDARB_*
// environment variables. A .env file in the working directory is
// honored when present.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/quantfold/fundarb/backtest"
	"github.com/quantfold/fundarb/risk"
)

// Config is the complete backtester configuration.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Data    DataConfig    `json:"data" yaml:"data"`
	Journal JournalConfig `json:"journal" yaml:"journal"`

	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// AccountConfig holds the simulated account and its limits.
type AccountConfig struct {
	InitialCapital     float64 `json:"initial_capital" yaml:"initial_capital"`
	FundingThreshold   float64 `json:"funding_threshold" yaml:"funding_threshold"`
	MaxPositionSizeUSD float64 `json:"max_position_size_usd" yaml:"max_position_size_usd"`
	Leverage           float64 `json:"leverage" yaml:"leverage"`
	RebalanceThreshold float64 `json:"rebalance_threshold" yaml:"rebalance_threshold"`
	TradingFee         float64 `json:"trading_fee" yaml:"trading_fee"`
	CheckIntervalHours int     `json:"check_interval_hours" yaml:"check_interval_hours"`
}

// DataConfig locates historical data and export output.
type DataConfig struct {
	Assets    []string `json:"assets" yaml:"assets"`
	DataDir   string   `json:"data_dir" yaml:"data_dir"`
	OutputDir string   `json:"output_dir" yaml:"output_dir"`
}

// JournalConfig selects how runs are persisted.
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			InitialCapital:     10000,
			FundingThreshold:   0.0001,
			MaxPositionSizeUSD: 5000,
			Leverage:           2.0,
			RebalanceThreshold: 0.05,
			TradingFee:         0.0002,
			CheckIntervalHours: 8,
		},
		Data: DataConfig{
			Assets:    []string{"BTC", "ETH", "HYPE"},
			DataDir:   "backtest_data",
			OutputDir: "backtest_results",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "fundarb.db",
		},
		LogLevel: "info",
	}
}

// Load builds the effective configuration. path may be empty, in which
// case only defaults and the environment apply.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	// Try YAML first, fall back to JSON.
	if yerr := yaml.Unmarshal(data, c); yerr != nil {
		if jerr := json.Unmarshal(data, c); jerr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): %w", yerr)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	for _, err := range []error{
		envFloat("FUNDARB_INITIAL_CAPITAL", &c.Account.InitialCapital),
		envFloat("FUNDARB_FUNDING_THRESHOLD", &c.Account.FundingThreshold),
		envFloat("FUNDARB_MAX_POSITION_SIZE", &c.Account.MaxPositionSizeUSD),
		envFloat("FUNDARB_LEVERAGE", &c.Account.Leverage),
		envFloat("FUNDARB_REBALANCE_THRESHOLD", &c.Account.RebalanceThreshold),
		envFloat("FUNDARB_TRADING_FEE", &c.Account.TradingFee),
		envInt("FUNDARB_CHECK_INTERVAL_HOURS", &c.Account.CheckIntervalHours),
		envList("FUNDARB_ASSETS", &c.Data.Assets),
		envString("FUNDARB_DATA_DIR", &c.Data.DataDir),
		envString("FUNDARB_OUTPUT_DIR", &c.Data.OutputDir),
		envString("FUNDARB_JOURNAL_TYPE", &c.Journal.Type),
		envString("FUNDARB_JOURNAL_DB", &c.Journal.DBPath),
		envString("FUNDARB_JOURNAL_DIR", &c.Journal.Dir),
		envString("FUNDARB_LOG_LEVEL", &c.LogLevel),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func envFloat(key string, dst *float64) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envString(key string, dst *string) error {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
	return nil
}

func envList(key string, dst *[]string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
	return nil
}

func (c *Config) limits() risk.Limits {
	return risk.Limits{
		InitialCapital:     c.Account.InitialCapital,
		FundingThreshold:   c.Account.FundingThreshold,
		MaxPositionSizeUSD: c.Account.MaxPositionSizeUSD,
		Leverage:           c.Account.Leverage,
		TradingFee:         c.Account.TradingFee,
		RebalanceThreshold: c.Account.RebalanceThreshold,
		CheckIntervalHours: c.Account.CheckIntervalHours,
	}
}

// Validate checks the configuration before a run.
func (c *Config) Validate() error {
	if d := risk.Check(c.limits()); !d.Allowed {
		return d.Err()
	}

	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	case "csv":
		if c.Journal.Dir == "" {
			return fmt.Errorf("journal dir required for csv type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'none'")
	}
	return nil
}

// SaveToFile writes the configuration to path, as JSON when the
// extension is .json and YAML otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Backtest maps the account section onto an engine configuration.
func (c *Config) Backtest() backtest.Config {
	return backtest.Config{
		InitialCapital:     c.Account.InitialCapital,
		FundingThreshold:   c.Account.FundingThreshold,
		MaxPositionSizeUSD: c.Account.MaxPositionSizeUSD,
		Leverage:           c.Account.Leverage,
		RebalanceThreshold: c.Account.RebalanceThreshold,
		TradingFee:         c.Account.TradingFee,
		CheckInterval:      time.Duration(c.Account.CheckIntervalHours) * time.Hour,
	}
}
