package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Server configuration
	Server struct {
		Port string `env:"SERVER_PORT" envDefault:"5280"`
	}

	// Database configuration
	Database struct {
		Path string `env:"DATABASE_PATH" envDefault:"database/dealwise.db"`
	}

	// Redis cache for comparables lookups; empty address disables it
	Redis struct {
		Addr string `env:"REDIS_ADDR" envDefault:""`
		TTL  int    `env:"REDIS_TTL_SECONDS" envDefault:"86400"`
	}

	// Analysis defaults
	Analysis struct {
		// Cron expression for the nightly re-analysis of stored deals
		ReanalysisSchedule string `env:"REANALYSIS_SCHEDULE" envDefault:"0 2 * * *"`

		// Monthly cashflow at or above which a deal alert is sent
		AlertCashflowThreshold float64 `env:"ALERT_CASHFLOW_THRESHOLD" envDefault:"300"`
	}

	// Batch re-analysis configuration
	BatchProcessing struct {
		// Maximum number of deals per batch
		MaxBatchSize int `env:"BATCH_MAX_SIZE" envDefault:"100"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}

	// Telegram deal alerts
	Telegram struct {
		BotToken  string `env:"TELEGRAM_BOT_TOKEN" envDefault:""`
		ChatID    string `env:"TELEGRAM_CHAT_ID" envDefault:""`
		IsEnabled bool   `env:"TELEGRAM_ENABLED" envDefault:"false"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
