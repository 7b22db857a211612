package config

import (
	"os"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	// AdminIdentity is the only caller allowed to create/finalize projects
	// and mint tokens.
	AdminIdentity string
	// TreasuryAccount holds staked tokens and the externally funded reward
	// pool that covers winner bonuses.
	TreasuryAccount string

	OutboxPollInterval time.Duration
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "stakevote"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	admin := strings.TrimSpace(os.Getenv("ADMIN_IDENTITY"))
	if admin == "" {
		admin = "admin"
	}
	treasury := strings.TrimSpace(os.Getenv("TREASURY_ACCOUNT"))
	if treasury == "" {
		treasury = "treasury"
	}

	return Config{
		ServiceName:        service,
		HTTPPort:           port,
		PostgresDSN:        os.Getenv("POSTGRES_DSN"),
		KafkaBrokers:       brokers,
		AdminIdentity:      admin,
		TreasuryAccount:    treasury,
		OutboxPollInterval: envDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
	}, nil
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
