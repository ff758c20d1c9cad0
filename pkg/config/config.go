package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Sink selects where generated ticks are sent.
const (
	SinkHTTP  = "http"
	SinkKafka = "kafka"
)

// Config holds all configuration for the generator
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
}

type GeneratorConfig struct {
	BaseURL        string  `mapstructure:"base_url"`  // ingestion endpoint base URL
	SourceID       string  `mapstructure:"source_id"` // source segment of the event path
	Volatility     float64 `mapstructure:"volatility"`
	Sink           string  `mapstructure:"sink"` // "http" or "kafka"
	SeedIntervalMs int     `mapstructure:"seed_interval_ms"`
	MinCycleSec    float64 `mapstructure:"min_cycle_sec"`
	MaxCycleSec    float64 `mapstructure:"max_cycle_sec"`
	MinBatch       int     `mapstructure:"min_batch"`
	MaxBatch       int     `mapstructure:"max_batch"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// LoadConfig reads configuration from .env file, environment variables, and defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Load .env file into System Environment (if it exists) so variables
	// like GENERATOR_BASE_URL are available as real env vars
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, relying on System Env Vars")
	}

	// Defaults mirror the original mock feed: localhost ingestion endpoint,
	// one seed pass then batched updates every 1-3 seconds.
	v.SetDefault("generator.base_url", "http://localhost:9000")
	v.SetDefault("generator.source_id", "price-feed")
	v.SetDefault("generator.volatility", 0.02)
	v.SetDefault("generator.sink", SinkHTTP)
	v.SetDefault("generator.seed_interval_ms", 100)
	v.SetDefault("generator.min_cycle_sec", 1.0)
	v.SetDefault("generator.max_cycle_sec", 3.0)
	v.SetDefault("generator.min_batch", 3)
	v.SetDefault("generator.max_batch", 8)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "market_ticks")

	// Map dot-notation keys to underscored env vars (generator.sink -> GENERATOR_SINK)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit binding is required for Viper to map flat env vars to nested structs
	bindEnv(v, "generator.base_url", "generator.source_id", "generator.volatility", "generator.sink")
	bindEnv(v, "generator.seed_interval_ms", "generator.min_cycle_sec", "generator.max_cycle_sec")
	bindEnv(v, "generator.min_batch", "generator.max_batch")
	bindEnv(v, "kafka.brokers", "kafka.topic")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %v", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Generator.Sink {
	case SinkHTTP:
		if c.Generator.BaseURL == "" {
			return fmt.Errorf("generator base_url cannot be empty")
		}
		if c.Generator.SourceID == "" {
			return fmt.Errorf("generator source_id cannot be empty")
		}
	case SinkKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka brokers cannot be empty")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka topic cannot be empty")
		}
	default:
		return fmt.Errorf("unknown sink %q (expected %q or %q)", c.Generator.Sink, SinkHTTP, SinkKafka)
	}

	if c.Generator.Volatility <= 0 {
		return fmt.Errorf("generator volatility must be positive")
	}
	if c.Generator.MinBatch < 1 || c.Generator.MaxBatch < c.Generator.MinBatch {
		return fmt.Errorf("generator batch bounds must satisfy 1 <= min_batch <= max_batch")
	}
	if c.Generator.MinCycleSec < 0 || c.Generator.MaxCycleSec < c.Generator.MinCycleSec {
		return fmt.Errorf("generator cycle bounds must satisfy 0 <= min_cycle_sec <= max_cycle_sec")
	}

	return nil
}

// bindEnv is a helper to bind multiple keys at once
func bindEnv(v *viper.Viper, keys ...string) {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			log.Printf("Could not bind env var for key %s: %v", key, err)
		}
	}
}
