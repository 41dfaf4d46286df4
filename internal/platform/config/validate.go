package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Store.validate(),
		c.Telemetry.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (st *StoreConfig) validate() error {
	var errs []error

	switch st.Driver {
	case DriverMemory:
		// No connection parameters.
	case DriverRedis:
		if st.Redis.Addr == "" {
			errs = append(errs, errors.New("store.redis.addr must not be empty when driver is redis"))
		}
		if st.Redis.DB < 0 {
			errs = append(errs, fmt.Errorf("store.redis.db must be >= 0, got %d", st.Redis.DB))
		}
	case DriverCosmos:
		if st.Cosmos.ConnectionString == "" {
			errs = append(errs, errors.New("store.cosmos.connection_string must not be empty when driver is cosmos"))
		}
		if st.Cosmos.Database == "" {
			errs = append(errs, errors.New("store.cosmos.database must not be empty when driver is cosmos"))
		}
		if st.Cosmos.Container == "" {
			errs = append(errs, errors.New("store.cosmos.container must not be empty when driver is cosmos"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be one of: memory, redis, cosmos; got %q", st.Driver))
	}

	if st.PageSize < 1 {
		errs = append(errs, fmt.Errorf("store.page_size must be >= 1, got %d", st.PageSize))
	}
	if st.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("store.circuit_breaker.max_failures must be >= 1, got %d",
			st.CircuitBreaker.MaxFailures))
	}
	if st.CircuitBreaker.Timeout <= 0 {
		errs = append(errs, errors.New("store.circuit_breaker.timeout must be positive"))
	}
	if st.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("store.rate_limit.requests_per_second must be >= 0, got %f",
			st.RateLimit.RequestsPerSecond))
	}
	if st.RateLimit.RequestsPerSecond > 0 && st.RateLimit.BurstSize < 1 {
		errs = append(errs, fmt.Errorf("store.rate_limit.burst_size must be >= 1 when rate limiting is enabled, got %d",
			st.RateLimit.BurstSize))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}
