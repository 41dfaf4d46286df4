package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jsamuelsen11/todo-service/internal/platform/config"
)

func TestLoad_LocalProfile(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want \"debug\"", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want \"text\"", cfg.Log.Format)
	}
	if cfg.Store.Driver != config.DriverMemory {
		t.Errorf("Store.Driver = %q, want %q", cfg.Store.Driver, config.DriverMemory)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = true, want false for local")
	}
}

func TestLoad_ProdProfile(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("COSMOS_CONNECTION_STRING", "AccountEndpoint=https://acct.documents.azure.com:443/;AccountKey=a2V5;")

	cfg, err := config.Load("prod")
	if err != nil {
		t.Fatalf("Load(\"prod\") error: %v", err)
	}

	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want \"json\"", cfg.Log.Format)
	}
	if cfg.Store.Driver != config.DriverCosmos {
		t.Errorf("Store.Driver = %q, want %q", cfg.Store.Driver, config.DriverCosmos)
	}
	if cfg.Store.RateLimit.RequestsPerSecond != 200 {
		t.Errorf("Store.RateLimit.RequestsPerSecond = %v, want 200", cfg.Store.RateLimit.RequestsPerSecond)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = false, want true for prod")
	}
	if cfg.Telemetry.Exporter != "otlp" {
		t.Errorf("Telemetry.Exporter = %q, want \"otlp\"", cfg.Telemetry.Exporter)
	}
}

func TestLoad_ProdProfileWithoutConnectionString(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("COSMOS_CONNECTION_STRING", "")

	_, err := config.Load("prod")
	if err == nil {
		t.Fatal("Load(\"prod\") returned nil error, want missing connection string error")
	}
	if !strings.Contains(err.Error(), "store.cosmos.connection_string") {
		t.Errorf("error = %q, want mention of store.cosmos.connection_string", err.Error())
	}
}

func TestLoad_BaseConfigInheritance(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	// These come from base.yaml, not overridden by local.yaml.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want \"0.0.0.0\" (from base)", cfg.Server.Host)
	}
	if cfg.Store.PageSize != 10 {
		t.Errorf("Store.PageSize = %d, want 10 (from base)", cfg.Store.PageSize)
	}
	if cfg.Store.CircuitBreaker.MaxFailures != 5 {
		t.Errorf("Store.CircuitBreaker.MaxFailures = %d, want 5 (from base)",
			cfg.Store.CircuitBreaker.MaxFailures)
	}
	if cfg.Store.Redis.KeyPrefix != "todo:" {
		t.Errorf("Store.Redis.KeyPrefix = %q, want \"todo:\" (from base)", cfg.Store.Redis.KeyPrefix)
	}
}

func TestLoad_DefaultsFillMissingKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir+"/base.yaml", "log:\n  level: warn\n")
	writeFile(t, dir+"/empty.yaml", "{}\n")

	cfg, err := config.Load("empty", config.WithConfigDir(dir))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want \"warn\" (from base)", cfg.Log.Level)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Store.PageSize != 10 {
		t.Errorf("Store.PageSize = %d, want 10 (default)", cfg.Store.PageSize)
	}
	if cfg.Server.IdleTimeout != 120*time.Second {
		t.Errorf("Server.IdleTimeout = %v, want 120s (default)", cfg.Server.IdleTimeout)
	}
}

func TestLoad_EnvOverrideSimpleKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_SERVER_PORT", "9090")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 (env override)", cfg.Server.Port)
	}
}

func TestLoad_EnvOverrideSnakeCaseKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_SERVER_READ_TIMEOUT", "15s")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := 15 * time.Second
	if cfg.Server.ReadTimeout != want {
		t.Errorf("Server.ReadTimeout = %v, want %v (env override)", cfg.Server.ReadTimeout, want)
	}
}

func TestLoad_EnvOverrideDeeplyNestedKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_STORE_REDIS_KEY_PREFIX", "tasks:")
	t.Setenv("APP_STORE_CIRCUIT_BREAKER_MAX_FAILURES", "7")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Store.Redis.KeyPrefix != "tasks:" {
		t.Errorf("Store.Redis.KeyPrefix = %q, want \"tasks:\" (env override)", cfg.Store.Redis.KeyPrefix)
	}
	if cfg.Store.CircuitBreaker.MaxFailures != 7 {
		t.Errorf("Store.CircuitBreaker.MaxFailures = %d, want 7 (env override)", cfg.Store.CircuitBreaker.MaxFailures)
	}
}

func TestLoad_CosmosEnvVars(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_STORE_DRIVER", "cosmos")
	t.Setenv("COSMOS_CONNECTION_STRING", "AccountEndpoint=https://acct.documents.azure.com:443/;AccountKey=a2V5;")
	t.Setenv("COSMOS_DATABASE", "tododb")
	t.Setenv("COSMOS_CONTAINER", "items")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Store.Cosmos.Database != "tododb" {
		t.Errorf("Store.Cosmos.Database = %q, want \"tododb\"", cfg.Store.Cosmos.Database)
	}
	if cfg.Store.Cosmos.Container != "items" {
		t.Errorf("Store.Cosmos.Container = %q, want \"items\"", cfg.Store.Cosmos.Container)
	}
	if cfg.Store.Cosmos.ConnectionString == "" {
		t.Error("Store.Cosmos.ConnectionString is empty, want value from COSMOS_CONNECTION_STRING")
	}
}

func TestLoad_MissingProfile(t *testing.T) {
	t.Chdir("../../..")

	_, err := config.Load("nonexistent")
	if err == nil {
		t.Fatal("Load(\"nonexistent\") returned nil error, want error")
	}
}

func TestLoad_InvalidProfileName(t *testing.T) {
	t.Parallel()

	for _, profile := range []string{"", "  ", "../etc", "a/b"} {
		if _, err := config.Load(profile); err == nil {
			t.Errorf("Load(%q) returned nil error, want error", profile)
		}
	}
}
