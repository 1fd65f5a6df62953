// Package config defines the engine configuration and validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"solana-sandwich-engine/internal/domain"
	"solana-sandwich-engine/internal/solana"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by SANDWICH_* environment
// variables.
type Config struct {
	Solana     SolanaConfig     `toml:"solana"`
	Postgres   PostgresConfig   `toml:"postgres"`
	Clickhouse ClickhouseConfig `toml:"clickhouse"`
	Trading    TradingConfig    `toml:"trading"`
	Executor   ExecutorConfig   `toml:"executor"`
	Server     ServerConfig     `toml:"server"`
	DryRun     bool             `toml:"dry_run"`
}

// SolanaConfig holds RPC endpoints.
type SolanaConfig struct {
	RPCURL string `toml:"rpc_url"`
	WSURL  string `toml:"ws_url"`
}

// PostgresConfig holds the durable execution-history store parameters.
// An empty DSN selects the in-memory store.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	RunMigrations bool   `toml:"run_migrations"`
}

// ClickhouseConfig holds the outcome-analytics store parameters. An empty
// DSN disables the analytics sink.
type ClickhouseConfig struct {
	DSN string `toml:"dsn"`
}

// TradingConfig holds pricing and position parameters, all in lamports
// unless noted.
type TradingConfig struct {
	MinProfitLamports   uint64 `toml:"min_profit_lamports"`
	MaxPositionLamports uint64 `toml:"max_position_lamports"`
	BaseFeeLamports     uint64 `toml:"base_fee_lamports"`
	PriorityFeeLamports uint64 `toml:"priority_fee_lamports"`
	SlippageBps         uint64 `toml:"slippage_bps"`
	// Venues lists the venue tags to monitor and price.
	Venues []string `toml:"venues"`
	// AllowedMints restricts execution to these output assets when
	// non-empty.
	AllowedMints []string `toml:"allowed_mints"`
}

// ExecutorConfig holds execution controller limits.
type ExecutorConfig struct {
	MaxConcurrent       int      `toml:"max_concurrent"`
	Deadline            duration `toml:"deadline"`
	TargetRetryInterval duration `toml:"target_retry_interval"`
	TargetRetryCount    int      `toml:"target_retry_count"`
	SellRetryInterval   duration `toml:"sell_retry_interval"`
	SellRetryCount      int      `toml:"sell_retry_count"`
	RecoveryTimeout     duration `toml:"recovery_timeout"`
}

// ServerConfig holds the metrics/health HTTP listener parameters.
type ServerConfig struct {
	MetricsAddr string `toml:"metrics_addr"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "10s", "500ms").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Solana: SolanaConfig{
			RPCURL: "https://api.mainnet-beta.solana.com",
			WSURL:  "wss://api.mainnet-beta.solana.com",
		},
		Postgres: PostgresConfig{
			RunMigrations: true,
		},
		Trading: TradingConfig{
			MinProfitLamports:   1_000_000,
			MaxPositionLamports: 10_000_000_000,
			BaseFeeLamports:     5_000,
			PriorityFeeLamports: 100_000,
			SlippageBps:         50,
			Venues:              []string{domain.VenueRaydium, domain.VenuePumpFun},
		},
		Executor: ExecutorConfig{
			MaxConcurrent:       3,
			Deadline:            duration{10 * time.Second},
			TargetRetryInterval: duration{500 * time.Millisecond},
			TargetRetryCount:    30,
			SellRetryInterval:   duration{500 * time.Millisecond},
			SellRetryCount:      10,
			RecoveryTimeout:     duration{5 * time.Second},
		},
		Server: ServerConfig{
			MetricsAddr: ":9090",
		},
	}
}

var knownVenues = map[string]bool{
	domain.VenueRaydium: true,
	domain.VenuePumpFun: true,
}

// Validate checks the configuration for inconsistencies and returns a
// combined error describing everything that is wrong.
func (c *Config) Validate() error {
	var errs []string

	if c.Solana.RPCURL == "" {
		errs = append(errs, "solana: rpc_url must not be empty")
	}
	if c.Solana.WSURL == "" {
		errs = append(errs, "solana: ws_url must not be empty")
	}

	if c.Trading.MaxPositionLamports == 0 {
		errs = append(errs, "trading: max_position_lamports must be positive")
	}
	if c.Trading.SlippageBps >= 10_000 {
		errs = append(errs, fmt.Sprintf("trading: slippage_bps must be below 10000, got %d", c.Trading.SlippageBps))
	}
	if len(c.Trading.Venues) == 0 {
		errs = append(errs, "trading: at least one venue must be monitored")
	}
	for _, v := range c.Trading.Venues {
		if !knownVenues[v] {
			errs = append(errs, fmt.Sprintf("trading: unknown venue %q (valid: %s, %s)", v, domain.VenueRaydium, domain.VenuePumpFun))
		}
	}
	for _, mint := range c.Trading.AllowedMints {
		if err := solana.ValidatePubkey(mint); err != nil {
			errs = append(errs, fmt.Sprintf("trading: allowed mint %q: %v", mint, err))
		} else if !solana.IsOnCurve(mint) {
			// Mint accounts are created from keypairs; an off-curve address
			// is a pool or authority pasted by mistake.
			errs = append(errs, fmt.Sprintf("trading: allowed mint %q is not on the ed25519 curve", mint))
		}
	}

	if c.Executor.MaxConcurrent <= 0 {
		errs = append(errs, "executor: max_concurrent must be positive")
	}
	if c.Executor.Deadline.Duration <= 0 {
		errs = append(errs, "executor: deadline must be positive")
	}
	if c.Executor.TargetRetryCount <= 0 {
		errs = append(errs, "executor: target_retry_count must be positive")
	}
	if c.Executor.TargetRetryInterval.Duration <= 0 {
		errs = append(errs, "executor: target_retry_interval must be positive")
	}
	if c.Executor.SellRetryCount <= 0 {
		errs = append(errs, "executor: sell_retry_count must be positive")
	}

	if c.Server.MetricsAddr == "" {
		errs = append(errs, "server: metrics_addr must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
