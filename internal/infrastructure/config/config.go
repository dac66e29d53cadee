package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"github.com/erp/shipping/internal/domain/shipping"
	"github.com/erp/shipping/internal/infrastructure/fedex"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	Database DatabaseConfig
	Fedex    FedexConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// FedexConfig holds carrier web-service credentials and the
// default shipment method selections applied when a carrier
// record leaves them blank.
type FedexConfig struct {
	Key            string
	Password       string
	AccountNumber  string
	MeterNumber    string
	IntegratorID   string
	ProductID      string
	ProductVersion string

	Endpoint       string
	Sandbox        bool
	TimeoutSeconds int

	DefaultDropOffType   string
	DefaultPackagingType string
	DefaultServiceType   string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with ERP_ prefix (e.g., ERP_FEDEX_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/erp-shipping")

	v.SetEnvPrefix("ERP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No config file is fine; env vars and defaults apply.
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Fedex: FedexConfig{
			Key:            v.GetString("fedex.key"),
			Password:       v.GetString("fedex.password"),
			AccountNumber:  v.GetString("fedex.account_number"),
			MeterNumber:    v.GetString("fedex.meter_number"),
			IntegratorID:   v.GetString("fedex.integrator_id"),
			ProductID:      v.GetString("fedex.product_id"),
			ProductVersion: v.GetString("fedex.product_version"),

			Endpoint:       v.GetString("fedex.endpoint"),
			Sandbox:        v.GetBool("fedex.sandbox"),
			TimeoutSeconds: v.GetInt("fedex.timeout_seconds"),

			DefaultDropOffType:   v.GetString("fedex.default_drop_off_type"),
			DefaultPackagingType: v.GetString("fedex.default_packaging_type"),
			DefaultServiceType:   v.GetString("fedex.default_service_type"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "erp-shipping"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "erp"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "erp_shipping"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 30
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 10
	}

	if cfg.Fedex.Endpoint == "" {
		if cfg.Fedex.Sandbox {
			cfg.Fedex.Endpoint = fedex.SandboxEndpoint
		} else {
			cfg.Fedex.Endpoint = fedex.ProductionEndpoint
		}
	}
	if cfg.Fedex.TimeoutSeconds == 0 {
		cfg.Fedex.TimeoutSeconds = 30
	}

	if cfg.Fedex.DefaultDropOffType == "" {
		cfg.Fedex.DefaultDropOffType = "REGULAR_PICKUP"
	}
	if cfg.Fedex.DefaultPackagingType == "" {
		cfg.Fedex.DefaultPackagingType = "YOUR_PACKAGING"
	}
	if cfg.Fedex.DefaultServiceType == "" {
		cfg.Fedex.DefaultServiceType = "FEDEX_GROUND"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Fedex.Sandbox {
			return fmt.Errorf("fedex.sandbox must be false in production")
		}
	}

	if c.Fedex.TimeoutSeconds < 0 {
		return fmt.Errorf("fedex.timeout_seconds cannot be negative")
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Credentials builds the carrier credential set from the Fedex section.
// Completeness is checked by the shipping services before each carrier call,
// so partially configured credentials load fine.
func (f *FedexConfig) Credentials() fedex.Credentials {
	return fedex.Credentials{
		Key:            f.Key,
		Password:       f.Password,
		AccountNumber:  f.AccountNumber,
		MeterNumber:    f.MeterNumber,
		IntegratorID:   f.IntegratorID,
		ProductID:      f.ProductID,
		ProductVersion: f.ProductVersion,
	}
}

// DefaultSettings returns the shipment method defaults configured
// for the carrier. Explicit carrier selections override these.
func (f *FedexConfig) DefaultSettings() shipping.ShippingSettings {
	var settings shipping.ShippingSettings
	for _, method := range []shipping.ShipmentMethod{
		{Name: "Default drop-off", Value: f.DefaultDropOffType, Type: shipping.MethodTypeDropOff},
		{Name: "Default packaging", Value: f.DefaultPackagingType, Type: shipping.MethodTypePackaging},
		{Name: "Default service", Value: f.DefaultServiceType, Type: shipping.MethodTypeService},
	} {
		settings = settings.Select(method)
	}
	return settings
}
