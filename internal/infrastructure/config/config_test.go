package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/shipping/internal/infrastructure/fedex"
)

// chdirTemp moves the test into an empty directory so no config.toml is found
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "erp-shipping", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, fedex.ProductionEndpoint, cfg.Fedex.Endpoint)
	assert.Equal(t, 30, cfg.Fedex.TimeoutSeconds)
	assert.Equal(t, "REGULAR_PICKUP", cfg.Fedex.DefaultDropOffType)
	assert.Equal(t, "YOUR_PACKAGING", cfg.Fedex.DefaultPackagingType)
	assert.Equal(t, "FEDEX_GROUND", cfg.Fedex.DefaultServiceType)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)

	toml := `
[app]
name = "shipping-test"
env = "staging"

[fedex]
key = "file-key"
sandbox = true
timeout_seconds = 10
default_service_type = "PRIORITY_OVERNIGHT"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "shipping-test", cfg.App.Name)
	assert.Equal(t, "file-key", cfg.Fedex.Key)
	assert.True(t, cfg.Fedex.Sandbox)
	assert.Equal(t, fedex.SandboxEndpoint, cfg.Fedex.Endpoint)
	assert.Equal(t, 10, cfg.Fedex.TimeoutSeconds)
	assert.Equal(t, "PRIORITY_OVERNIGHT", cfg.Fedex.DefaultServiceType)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)

	t.Setenv("ERP_FEDEX_KEY", "env-key")
	t.Setenv("ERP_FEDEX_ACCOUNT_NUMBER", "510087720")
	t.Setenv("ERP_DATABASE_PASSWORD", "secret")
	t.Setenv("ERP_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Fedex.Key)
	assert.Equal(t, "510087720", cfg.Fedex.AccountNumber)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ProductionValidation(t *testing.T) {
	chdirTemp(t)

	t.Setenv("ERP_APP_ENV", "production")

	t.Run("requires a database password", func(t *testing.T) {
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("rejects disabled ssl", func(t *testing.T) {
		t.Setenv("ERP_DATABASE_PASSWORD", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("rejects the sandbox endpoint", func(t *testing.T) {
		t.Setenv("ERP_DATABASE_PASSWORD", "secret")
		t.Setenv("ERP_DATABASE_SSLMODE", "require")
		t.Setenv("ERP_FEDEX_SANDBOX", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sandbox")
	})
}

func TestFedexConfig_Credentials(t *testing.T) {
	f := FedexConfig{
		Key:            "key",
		Password:       "password",
		AccountNumber:  "510087720",
		MeterNumber:    "118501898",
		IntegratorID:   "123",
		ProductID:      "erp-shipping",
		ProductVersion: "1.0",
	}

	creds := f.Credentials()
	assert.NoError(t, creds.Validate())
	assert.Equal(t, "118501898", creds.MeterNumber)
}

func TestFedexConfig_DefaultSettings(t *testing.T) {
	f := FedexConfig{
		DefaultDropOffType:   "REGULAR_PICKUP",
		DefaultPackagingType: "YOUR_PACKAGING",
		DefaultServiceType:   "FEDEX_GROUND",
	}

	settings := f.DefaultSettings()
	assert.True(t, settings.Complete())
	assert.Equal(t, "FEDEX_GROUND", settings.ServiceType)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "erp",
		Password: "p@ss/word",
		DBName:   "erp_shipping",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5433")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss/word", "password must be escaped")
}
