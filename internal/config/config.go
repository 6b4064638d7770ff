package config

import (
	"errors"
	"fmt"
	"time"
)

// AppConfig is the full runtime configuration of the gateway.
type AppConfig struct {
	Env       string          `yaml:"env"`
	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Retry     RetryConfig     `yaml:"retry"`
	RateLimit RateLimitConfig `yaml:"rate_limiter"`
	Inbound   InboundConfig   `yaml:"inbound"`
	Kafka     KafkaConfig     `yaml:"kafka"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// UpstreamConfig describes the mock employee API.
type UpstreamConfig struct {
	BaseURL        string        `yaml:"base_url"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	WaitTime    time.Duration `yaml:"wait_duration"`
	MaxWaitTime time.Duration `yaml:"max_wait_duration"`
}

type RateLimitConfig struct {
	LimitForPeriod     int           `yaml:"limit_for_period"`
	LimitRefreshPeriod time.Duration `yaml:"limit_refresh_period"`
	TimeoutDuration    time.Duration `yaml:"timeout_duration"`
}

// InboundConfig throttles callers of the facade per client IP.
// RPS of zero disables the limiter.
type InboundConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// KafkaConfig enables lifecycle events when Broker is set.
type KafkaConfig struct {
	Broker        string `yaml:"broker"`
	Topic         string `yaml:"topic"`
	ConsumerGroup string `yaml:"consumer_group"`
}

// Default mirrors the values the service ships with.
func Default() AppConfig {
	return AppConfig{
		Env: "development",
		Server: ServerConfig{
			Port:         "8111",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Upstream: UpstreamConfig{
			BaseURL:        "http://localhost:8112/api/v1/employee",
			ConnectTimeout: 5 * time.Second,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			WaitTime:    500 * time.Millisecond,
			MaxWaitTime: 5 * time.Second,
		},
		RateLimit: RateLimitConfig{
			LimitForPeriod:     10,
			LimitRefreshPeriod: time.Second,
			TimeoutDuration:    5 * time.Second,
		},
		Inbound: InboundConfig{
			RPS:   0,
			Burst: 20,
		},
		Kafka: KafkaConfig{
			Topic:         "hr.employee.lifecycle.v1",
			ConsumerGroup: "employee-gateway-audit",
		},
	}
}

// Validate rejects values the resilience layer cannot work with.
func (c AppConfig) Validate() error {
	var errs []error
	if c.Upstream.BaseURL == "" {
		errs = append(errs, errors.New("upstream base url is required"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry max attempts must be >= 1, got %d", c.Retry.MaxAttempts))
	}
	if c.Retry.WaitTime < 0 || c.Retry.MaxWaitTime < 0 {
		errs = append(errs, errors.New("retry wait durations must not be negative"))
	}
	if c.Retry.MaxWaitTime < c.Retry.WaitTime {
		errs = append(errs, errors.New("retry max wait must be >= initial wait"))
	}
	if c.RateLimit.LimitForPeriod < 1 {
		errs = append(errs, fmt.Errorf("rate limiter limit for period must be >= 1, got %d", c.RateLimit.LimitForPeriod))
	}
	if c.RateLimit.LimitRefreshPeriod <= 0 {
		errs = append(errs, errors.New("rate limiter refresh period must be positive"))
	}
	if c.RateLimit.TimeoutDuration < 0 {
		errs = append(errs, errors.New("rate limiter timeout must not be negative"))
	}
	if c.Inbound.RPS < 0 {
		errs = append(errs, errors.New("inbound rps must not be negative"))
	}
	return errors.Join(errs...)
}
