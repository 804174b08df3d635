package config

import (
	"fmt"
	"strings"
	"time"

	pkgconfig "github.com/proganas/extendable-order-payment-api/pkg/config"
	"github.com/proganas/extendable-order-payment-api/pkg/logger"
)

// ServiceName is used as the config file name and the environment prefix (ORDERPAY_).
const ServiceName = "orderpay"

type Config struct {
	Service   ServiceConfig   `mapstructure:"service"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Outbox    OutboxConfig    `mapstructure:"outbox"`
	Mail      MailConfig      `mapstructure:"mail"`
	Log       logger.Config   `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// LoadConfig reads configs/{APP_ENV}/orderpay.yaml (or the file given by path),
// applies ORDERPAY_* environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	src, err := pkgconfig.Load(pkgconfig.Options{
		ServiceName: ServiceName,
		File:        path,
		Defaults:    defaults(),
		DotEnv:      []string{".env"},
	})
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := src.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return fmt.Errorf("jwt.secret must be set")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("jwt.ttl must be positive")
	}
	if c.Payment.GatewayTimeout <= 0 {
		return fmt.Errorf("payment.gateway_timeout must be positive")
	}
	switch c.Outbox.Publisher {
	case PublisherLog, PublisherKafka, PublisherRedis:
	default:
		return fmt.Errorf("unknown outbox.publisher %q", c.Outbox.Publisher)
	}
	if c.Outbox.Publisher == PublisherKafka && len(c.Outbox.Kafka.Brokers) == 0 {
		return fmt.Errorf("outbox.kafka.brokers must be set for the kafka publisher")
	}
	if c.Outbox.Publisher == PublisherRedis && !c.Redis.Enabled() {
		return fmt.Errorf("redis.addr must be set for the redis publisher")
	}
	return nil
}

// defaults registers every key so that environment-only overrides reach Unmarshal.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"service.name":        ServiceName,
		"service.environment": "dev",
		"service.version":     "dev",

		"server.http.host":             "0.0.0.0",
		"server.http.port":             8080,
		"server.http.read_timeout":     15 * time.Second,
		"server.http.write_timeout":    15 * time.Second,
		"server.http.shutdown_timeout": 10 * time.Second,
		"server.grpc.host":             "0.0.0.0",
		"server.grpc.port":             9090,
		"server.grpc.enabled":          true,

		"database.host":               "localhost",
		"database.port":               5432,
		"database.name":               "orderpay",
		"database.user":               "postgres",
		"database.password":           "",
		"database.ssl_mode":           "disable",
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  30 * time.Minute,
		"database.conn_max_idle_time": 5 * time.Minute,
		"database.slow_threshold":     200 * time.Millisecond,
		"database.log_level":          "warn",

		"redis.addr":     "",
		"redis.password": "",
		"redis.db":       0,

		"jwt.secret": "",
		"jwt.issuer": ServiceName,
		"jwt.ttl":    24 * time.Hour,

		"payment.currency":        "usd",
		"payment.gateway_timeout": 10 * time.Second,

		"outbox.publisher":     PublisherLog,
		"outbox.interval":      2 * time.Second,
		"outbox.batch_size":    50,
		"outbox.kafka.brokers": []string{},
		"outbox.kafka.topic":   "orderpay.events",
		"outbox.redis.channel": "orderpay.events",

		"mail.enabled":  false,
		"mail.host":     "localhost",
		"mail.port":     1025,
		"mail.username": "",
		"mail.password": "",
		"mail.from":     "no-reply@orderpay.local",

		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stdout",
		"log.file_path":   "",
		"log.development": false,

		"rate_limit.auth_per_minute": 10,
		"rate_limit.burst":           5,
	}
}
