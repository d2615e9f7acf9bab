package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const minimalYAML = `
cloud:
  token: "test-token"
network:
  address: "192.168.1.50"
  netmask: "255.255.255.0"
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Cloud.BaseURL != "https://www.smarteefi.com/api/homeassistant_v1" {
		t.Errorf("Cloud.BaseURL = %q, want default", cfg.Cloud.BaseURL)
	}
	if cfg.Network.ListenPort != 10201 {
		t.Errorf("Network.ListenPort = %d, want 10201", cfg.Network.ListenPort)
	}
	if cfg.Sync.InitialInterval != 10*time.Second {
		t.Errorf("Sync.InitialInterval = %v, want 10s", cfg.Sync.InitialInterval)
	}
	if cfg.Sync.RegularInterval != 60*time.Second {
		t.Errorf("Sync.RegularInterval = %v, want 60s", cfg.Sync.RegularInterval)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, minimalYAML+`
sync:
  initial_interval: 5s
  regular_interval: 2m
logging:
  level: debug
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sync.InitialInterval != 5*time.Second {
		t.Errorf("Sync.InitialInterval = %v, want 5s", cfg.Sync.InitialInterval)
	}
	if cfg.Sync.RegularInterval != 2*time.Minute {
		t.Errorf("Sync.RegularInterval = %v, want 2m", cfg.Sync.RegularInterval)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("SMARTEEFI_CLOUD_TOKEN", "env-token")
	t.Setenv("SMARTEEFI_DATABASE_PATH", "/var/lib/smarteefi/dev.db")

	cfg, err := Load(writeTempConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Cloud.Token != "env-token" {
		t.Errorf("Cloud.Token = %q, want env-token", cfg.Cloud.Token)
	}
	if cfg.Database.Path != "/var/lib/smarteefi/dev.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load() with missing file should return error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing token",
			mutate:  func(c *Config) { c.Cloud.Token = "" },
			wantErr: "cloud.token",
		},
		{
			name:    "missing network address",
			mutate:  func(c *Config) { c.Network.Address = "" },
			wantErr: "network.address",
		},
		{
			name:    "missing netmask",
			mutate:  func(c *Config) { c.Network.Netmask = "" },
			wantErr: "network.netmask",
		},
		{
			name:    "invalid listen port",
			mutate:  func(c *Config) { c.Network.ListenPort = 70000 },
			wantErr: "network.listen_port",
		},
		{
			name:    "missing binary",
			mutate:  func(c *Config) { c.CLI.Binary = "" },
			wantErr: "cli.binary",
		},
		{
			name:    "zero initial interval",
			mutate:  func(c *Config) { c.Sync.InitialInterval = 0 },
			wantErr: "sync.initial_interval",
		},
		{
			name:    "invalid qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Cloud.Token = "tok"
			cfg.Network.Address = "192.168.1.50"
			cfg.Network.Netmask = "255.255.255.0"
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should return error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestTimeoutHelpers(t *testing.T) {
	cfg := defaultConfig()
	if got := cfg.GetReadTimeout(); got != 30*time.Second {
		t.Errorf("GetReadTimeout() = %v, want 30s", got)
	}
	if got := cfg.GetIdleTimeout(); got != 60*time.Second {
		t.Errorf("GetIdleTimeout() = %v, want 60s", got)
	}
}
