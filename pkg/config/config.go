package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Wallet ledger collaborator
	WalletServiceURL string
	UseFakeLedger    bool
	LedgerRPCTimeout time.Duration

	// Recovery sweep
	RecoveryInterval  time.Duration
	RecoveryThreshold time.Duration
	RecoveryBatchSize int

	// Rate limiting for POST /transactions
	RateLimitPeriod   time.Duration
	RateLimitRequests int64
}

// LoadConfig loads configuration from environment variables and a .env file
// if present. Environment variables win over .env values, which win over the
// defaults below.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("WALLET_SERVICE_URL", "http://localhost:50051")
	viper.SetDefault("USE_FAKE_LEDGER", false)
	viper.SetDefault("LEDGER_RPC_TIMEOUT", "5s")
	viper.SetDefault("RECOVERY_INTERVAL", "60s")
	viper.SetDefault("RECOVERY_THRESHOLD", "1m")
	viper.SetDefault("RECOVERY_BATCH_SIZE", 50)
	viper.SetDefault("RATE_LIMIT_PERIOD", "1m")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 120)

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:       viper.GetString("PGSQL_URL"),
		Port:              viper.GetString("PORT"),
		IsProduction:      viper.GetBool("IS_PRODUCTION"),
		WalletServiceURL:  viper.GetString("WALLET_SERVICE_URL"),
		UseFakeLedger:     viper.GetBool("USE_FAKE_LEDGER"),
		LedgerRPCTimeout:  viper.GetDuration("LEDGER_RPC_TIMEOUT"),
		RecoveryInterval:  viper.GetDuration("RECOVERY_INTERVAL"),
		RecoveryThreshold: viper.GetDuration("RECOVERY_THRESHOLD"),
		RecoveryBatchSize: viper.GetInt("RECOVERY_BATCH_SIZE"),
		RateLimitPeriod:   viper.GetDuration("RATE_LIMIT_PERIOD"),
		RateLimitRequests: viper.GetInt64("RATE_LIMIT_REQUESTS"),
	}

	return cfg, nil
}
