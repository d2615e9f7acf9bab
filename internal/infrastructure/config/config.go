package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the Smarteefi bridge.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Cloud    CloudConfig    `yaml:"cloud"`
	Network  NetworkConfig  `yaml:"network"`
	CLI      CLIConfig      `yaml:"cli"`
	Sync     SyncConfig     `yaml:"sync"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	API      APIConfig      `yaml:"api"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CloudConfig contains settings for the Smarteefi device inventory service.
type CloudConfig struct {
	// BaseURL is the root of the cloud HTTP API.
	BaseURL string `yaml:"base_url"`

	// Token is the account API token used to list devices.
	Token string `yaml:"token"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// NetworkConfig describes the local network used to reach devices.
type NetworkConfig struct {
	// Address is the local IPv4 address passed to the control CLI.
	Address string `yaml:"address"`

	// Netmask is the local network mask passed to the control CLI.
	Netmask string `yaml:"netmask"`

	// ListenPort is the UDP port for inbound status packets.
	ListenPort int `yaml:"listen_port"`
}

// CLIConfig contains settings for the external control binary.
type CLIConfig struct {
	// Binary is the path to the control executable.
	Binary string `yaml:"binary"`
}

// SyncConfig contains polling coordinator settings.
type SyncConfig struct {
	// InitialInterval is the poll interval used until the first tick completes.
	InitialInterval time.Duration `yaml:"initial_interval"`

	// RegularInterval is the poll interval used from the second tick onward.
	RegularInterval time.Duration `yaml:"regular_interval"`

	// GroupDelay is the pause between consecutive group polls.
	GroupDelay time.Duration `yaml:"group_delay"`

	// RetryDelay is the pause before the single retry of a failed poll.
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings for status history.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// APIConfig contains admin HTTP API server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings (seconds).
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SMARTEEFI_SECTION_KEY
// For example: SMARTEEFI_CLOUD_TOKEN, SMARTEEFI_DATABASE_PATH
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Cloud: CloudConfig{
			BaseURL: "https://www.smarteefi.com/api/homeassistant_v1",
			Timeout: 15 * time.Second,
		},
		Network: NetworkConfig{
			ListenPort: 10201,
		},
		CLI: CLIConfig{
			Binary: "/usr/local/bin/smarteefi-ha-cli",
		},
		Sync: SyncConfig{
			InitialInterval: 10 * time.Second,
			RegularInterval: 60 * time.Second,
			GroupDelay:      500 * time.Millisecond,
			RetryDelay:      time.Second,
		},
		Database: DatabaseConfig{
			Path:        "./data/smarteefi.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "smarteefi-bridge",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		API: APIConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8093,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SMARTEEFI_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Cloud
	if v := os.Getenv("SMARTEEFI_CLOUD_TOKEN"); v != "" {
		cfg.Cloud.Token = v
	}
	if v := os.Getenv("SMARTEEFI_CLOUD_BASE_URL"); v != "" {
		cfg.Cloud.BaseURL = v
	}

	// Network
	if v := os.Getenv("SMARTEEFI_NETWORK_ADDRESS"); v != "" {
		cfg.Network.Address = v
	}
	if v := os.Getenv("SMARTEEFI_NETWORK_NETMASK"); v != "" {
		cfg.Network.Netmask = v
	}

	// CLI
	if v := os.Getenv("SMARTEEFI_CLI_BINARY"); v != "" {
		cfg.CLI.Binary = v
	}

	// Database
	if v := os.Getenv("SMARTEEFI_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("SMARTEEFI_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SMARTEEFI_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SMARTEEFI_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("SMARTEEFI_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// API
	if v := os.Getenv("SMARTEEFI_API_HOST"); v != "" {
		cfg.API.Host = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Cloud validation
	if c.Cloud.Token == "" {
		errs = append(errs, "cloud.token is required (set SMARTEEFI_CLOUD_TOKEN environment variable)")
	}
	if c.Cloud.BaseURL == "" {
		errs = append(errs, "cloud.base_url is required")
	}

	// Network validation
	if c.Network.Address == "" {
		errs = append(errs, "network.address is required")
	}
	if c.Network.Netmask == "" {
		errs = append(errs, "network.netmask is required")
	}
	if c.Network.ListenPort < 1 || c.Network.ListenPort > 65535 {
		errs = append(errs, "network.listen_port must be between 1 and 65535")
	}

	// CLI validation
	if c.CLI.Binary == "" {
		errs = append(errs, "cli.binary is required")
	}

	// Sync validation
	if c.Sync.InitialInterval <= 0 {
		errs = append(errs, "sync.initial_interval must be positive")
	}
	if c.Sync.RegularInterval <= 0 {
		errs = append(errs, "sync.regular_interval must be positive")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// API validation
	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
