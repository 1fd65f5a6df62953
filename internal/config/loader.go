package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies SANDWICH_* environment variable overrides, and
// returns the final Config. An empty path skips the file and uses defaults
// plus environment only. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known SANDWICH_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject endpoints and DSNs at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Solana.RPCURL, "SANDWICH_RPC_URL")
	setStr(&cfg.Solana.WSURL, "SANDWICH_WS_URL")

	setStr(&cfg.Postgres.DSN, "SANDWICH_POSTGRES_DSN")
	setBool(&cfg.Postgres.RunMigrations, "SANDWICH_POSTGRES_RUN_MIGRATIONS")

	setStr(&cfg.Clickhouse.DSN, "SANDWICH_CLICKHOUSE_DSN")

	setUint64(&cfg.Trading.MinProfitLamports, "SANDWICH_MIN_PROFIT_LAMPORTS")
	setUint64(&cfg.Trading.MaxPositionLamports, "SANDWICH_MAX_POSITION_LAMPORTS")
	setUint64(&cfg.Trading.BaseFeeLamports, "SANDWICH_BASE_FEE_LAMPORTS")
	setUint64(&cfg.Trading.PriorityFeeLamports, "SANDWICH_PRIORITY_FEE_LAMPORTS")
	setUint64(&cfg.Trading.SlippageBps, "SANDWICH_SLIPPAGE_BPS")
	setStringSlice(&cfg.Trading.Venues, "SANDWICH_VENUES")
	setStringSlice(&cfg.Trading.AllowedMints, "SANDWICH_ALLOWED_MINTS")

	setInt(&cfg.Executor.MaxConcurrent, "SANDWICH_MAX_CONCURRENT")
	setDuration(&cfg.Executor.Deadline, "SANDWICH_DEADLINE")
	setDuration(&cfg.Executor.TargetRetryInterval, "SANDWICH_TARGET_RETRY_INTERVAL")
	setInt(&cfg.Executor.TargetRetryCount, "SANDWICH_TARGET_RETRY_COUNT")
	setDuration(&cfg.Executor.SellRetryInterval, "SANDWICH_SELL_RETRY_INTERVAL")
	setInt(&cfg.Executor.SellRetryCount, "SANDWICH_SELL_RETRY_COUNT")
	setDuration(&cfg.Executor.RecoveryTimeout, "SANDWICH_RECOVERY_TIMEOUT")

	setStr(&cfg.Server.MetricsAddr, "SANDWICH_METRICS_ADDR")

	setBool(&cfg.DryRun, "SANDWICH_DRY_RUN")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setUint64(dst *uint64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
