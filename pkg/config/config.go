package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Audit    AuditConfig    `mapstructure:"audit"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// AuditConfig drives the audit pipeline. Booleans select which sinks are
// wired at startup; batching applies only when async logging is on.
type AuditConfig struct {
	ServiceName     string `mapstructure:"service_name"`
	Version         string `mapstructure:"version"`
	Environment     string `mapstructure:"environment"`
	PIIFields       string `mapstructure:"pii_fields"`
	AsyncLogging    bool   `mapstructure:"async_logging"`
	BatchSize       int    `mapstructure:"batch_size"`
	FlushIntervalMS int    `mapstructure:"flush_interval_ms"`

	EnableConsoleOutput bool   `mapstructure:"enable_console_output"`
	EnableDatabase      bool   `mapstructure:"enable_database"`
	EnableRemote        bool   `mapstructure:"enable_remote"`
	RemoteEndpoint      string `mapstructure:"remote_endpoint"`
	RemoteTimeoutMS     int    `mapstructure:"remote_timeout_ms"`
}

// PIIFieldList splits the configured comma-separated field names, trimming
// blanks. An empty value means the built-in defaults apply.
func (c AuditConfig) PIIFieldList() []string {
	if c.PIIFields == "" {
		return nil
	}
	parts := strings.Split(c.PIIFields, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c AuditConfig) FlushInterval() time.Duration {
	return time.Duration(c.FlushIntervalMS) * time.Millisecond
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("audit.service_name", "lifeplan-navigator")
	v.SetDefault("audit.version", "1.0.0")
	v.SetDefault("audit.environment", "development")
	v.SetDefault("audit.async_logging", true)
	v.SetDefault("audit.batch_size", 100)
	v.SetDefault("audit.flush_interval_ms", 5000)
	v.SetDefault("audit.enable_console_output", true)
	v.SetDefault("audit.enable_database", true)
	v.SetDefault("audit.enable_remote", false)
}

// AutomaticEnv only resolves keys viper already knows about, so every key
// that may come exclusively from the environment is bound explicitly.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"server.host",
		"server.port",
		"database.dsn",
		"audit.service_name",
		"audit.version",
		"audit.environment",
		"audit.pii_fields",
		"audit.async_logging",
		"audit.batch_size",
		"audit.flush_interval_ms",
		"audit.enable_console_output",
		"audit.enable_database",
		"audit.enable_remote",
		"audit.remote_endpoint",
		"audit.remote_timeout_ms",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}
