package config

const (
	defaultServerPort = 8080

	defaultStorePageSize = 10

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
// Every key is listed so that env vars can address it.
func defaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"store.driver":                          DriverMemory,
		"store.page_size":                       defaultStorePageSize,
		"store.redis.addr":                      "localhost:6379",
		"store.redis.password":                  "",
		"store.redis.db":                        0,
		"store.redis.key_prefix":                "todo:",
		"store.cosmos.connection_string":        "",
		"store.cosmos.database":                 "",
		"store.cosmos.container":                "",
		"store.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"store.circuit_breaker.timeout":         "30s",
		"store.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"store.rate_limit.requests_per_second":  0,
		"store.rate_limit.burst_size":           0,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "todo-service",
	}
}
