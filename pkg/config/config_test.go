package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Storage.Backend != StorageBackendMemory {
		t.Fatalf("expected memory backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Pricing.FreeShippingThreshold != 999 || cfg.Pricing.FlatShippingFee != 149 {
		t.Fatalf("unexpected pricing defaults %+v", cfg.Pricing)
	}
	rate, err := cfg.Pricing.TaxRate()
	if err != nil {
		t.Fatalf("tax rate: %v", err)
	}
	if rate.String() != "0.05" {
		t.Fatalf("expected 0.05 tax rate, got %s", rate)
	}
	if cfg.Snapshot.Key != "cart" {
		t.Fatalf("expected snapshot key cart, got %q", cfg.Snapshot.Key)
	}
	if cfg.Orders.Timeout != 15*time.Second {
		t.Fatalf("unexpected orders timeout %v", cfg.Orders.Timeout)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	unsetEnv(t, EnvOrdersEndpoint)

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_PostgresBuildsDSNFromParts(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, StorageBackendPostgres)
	t.Setenv(EnvDBHost, "db.local")
	t.Setenv(EnvDBUser, "ormee")
	t.Setenv(EnvDBName, "storefront")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	want := "postgres://ormee@db.local:5432/storefront?sslmode=disable"
	if cfg.DB.DSN != want {
		t.Fatalf("expected DSN %q, got %q", want, cfg.DB.DSN)
	}
}

func TestLoad_PostgresWithoutDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, StorageBackendPostgres)

	if _, err := Load(); err == nil {
		t.Fatal("expected missing DB settings to fail")
	}
}

func TestLoad_RedisRequiresAddress(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, StorageBackendRedis)

	if _, err := Load(); err == nil {
		t.Fatal("expected redis backend without address to fail")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	if _, err := Load(); err != nil {
		t.Fatalf("unexpected error with redis url: %v", err)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "localstorage")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown backend to fail")
	}
}

func TestLoad_RejectsBadTaxRate(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvTaxRatePercent, "five")

	if _, err := Load(); err == nil {
		t.Fatal("expected invalid tax rate to fail")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "dev")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvOrdersEndpoint, "http://localhost:3000/api/orders")
	for _, key := range []string{
		EnvStorageBackend,
		EnvDBDSN,
		EnvDBHost,
		EnvDBUser,
		EnvDBName,
		EnvRedisURL,
		EnvRedisAddr,
		EnvTaxRatePercent,
	} {
		unsetEnv(t, key)
	}
}

// unsetEnv clears key for the test and restores it afterwards; envconfig
// treats an empty-but-set variable as present and skips defaults.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset %s: %v", key, err)
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}
