package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Load builds the configuration in three layers: defaults, then the YAML file
// named by CONFIG_FILE (if any), then individual environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *AppConfig, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
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

	str("APP_ENV", &cfg.Env)
	str("PORT", &cfg.Server.Port)
	str("EMPLOYEE_API_BASE_URL", &cfg.Upstream.BaseURL)
	str("KAFKA_BROKER", &cfg.Kafka.Broker)
	str("KAFKA_TOPIC", &cfg.Kafka.Topic)
	str("KAFKA_CONSUMER_GROUP", &cfg.Kafka.ConsumerGroup)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"EMPLOYEE_API_CONNECT_TIMEOUT", &cfg.Upstream.ConnectTimeout},
		{"EMPLOYEE_API_READ_TIMEOUT", &cfg.Upstream.ReadTimeout},
		{"EMPLOYEE_API_WRITE_TIMEOUT", &cfg.Upstream.WriteTimeout},
		{"RETRY_WAIT_DURATION", &cfg.Retry.WaitTime},
		{"RETRY_MAX_WAIT_DURATION", &cfg.Retry.MaxWaitTime},
		{"RATE_LIMITER_REFRESH_PERIOD", &cfg.RateLimit.LimitRefreshPeriod},
		{"RATE_LIMITER_TIMEOUT", &cfg.RateLimit.TimeoutDuration},
	}
	for _, d := range durations {
		if err := dur(d.key, d.dst); err != nil {
			return err
		}
	}

	if err := num("RETRY_MAX_ATTEMPTS", &cfg.Retry.MaxAttempts); err != nil {
		return err
	}
	if err := num("RATE_LIMITER_LIMIT_FOR_PERIOD", &cfg.RateLimit.LimitForPeriod); err != nil {
		return err
	}
	if err := num("RATE_LIMIT_BURST", &cfg.Inbound.Burst); err != nil {
		return err
	}
	if v, ok := lookup("RATE_LIMIT_RPS"); ok && v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		cfg.Inbound.RPS = rps
	}

	return nil
}
