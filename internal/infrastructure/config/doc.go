// Package config provides YAML-based configuration loading with
// environment variable overrides for the Smarteefi bridge.
//
// Configuration is resolved in three layers, later layers winning:
//
//	defaults -> YAML file -> SMARTEEFI_* environment variables
//
// Secrets such as the cloud API token and MQTT credentials should be
// supplied through the environment rather than committed to the file.
package config
