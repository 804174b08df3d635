package config

import "time"

type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type PaymentConfig struct {
	// Currency is the ISO code reported in simulated gateway payloads.
	Currency       string        `mapstructure:"currency"`
	GatewayTimeout time.Duration `mapstructure:"gateway_timeout"`
}

const (
	PublisherLog   = "log"
	PublisherKafka = "kafka"
	PublisherRedis = "redis"
)

type OutboxConfig struct {
	Publisher string        `mapstructure:"publisher"`
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`
	Kafka     KafkaConfig   `mapstructure:"kafka"`
	Redis     struct {
		Channel string `mapstructure:"channel"`
	} `mapstructure:"redis"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type MailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}
