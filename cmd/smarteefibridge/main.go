// Smarteefi Bridge - local state sync for Smarteefi WiFi devices
//
// The bridge keeps a live mirror of every switch, fan, cover and light
// on a Smarteefi account: it listens for UDP status broadcasts, polls
// device groups through the vendor's control CLI, and republishes
// decoded state over MQTT with optional InfluxDB history and a local
// admin HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/smarteefi/smarteefi-bridge/internal/api"
	"github.com/smarteefi/smarteefi-bridge/internal/cloud"
	"github.com/smarteefi/smarteefi-bridge/internal/coordinator"
	"github.com/smarteefi/smarteefi-bridge/internal/device"
	"github.com/smarteefi/smarteefi-bridge/internal/entity"
	"github.com/smarteefi/smarteefi-bridge/internal/executor"
	"github.com/smarteefi/smarteefi-bridge/internal/infrastructure/config"
	"github.com/smarteefi/smarteefi-bridge/internal/infrastructure/database"
	"github.com/smarteefi/smarteefi-bridge/internal/infrastructure/influxdb"
	"github.com/smarteefi/smarteefi-bridge/internal/infrastructure/logging"
	"github.com/smarteefi/smarteefi-bridge/internal/infrastructure/mqtt"
	"github.com/smarteefi/smarteefi-bridge/internal/inventory"
	"github.com/smarteefi/smarteefi-bridge/internal/listener"
	"github.com/smarteefi/smarteefi-bridge/internal/router"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Returning an error allows main to handle exit codes
// consistently.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Smarteefi bridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	// Open the snapshot database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	repo := device.NewRepository(db)
	if err := repo.Init(ctx); err != nil {
		return fmt.Errorf("initialising device snapshot: %w", err)
	}

	// Control path: external CLI shared by the coordinator and the
	// entities.
	cli := executor.New(executor.Config{
		Binary:  cfg.CLI.Binary,
		Address: cfg.Network.Address,
		Netmask: cfg.Network.Netmask,
		Logger:  log.With("component", "executor"),
	})

	// Update fan-out
	updates := router.New()

	entities := entity.NewSet(cli, updates, log.With("component", "entity"))
	defer entities.Close()

	// Device inventory: cloud first, stored snapshot as fallback
	registry := device.NewRegistry()
	cloudClient := cloud.New(cloud.Config{
		BaseURL: cfg.Cloud.BaseURL,
		Token:   cfg.Cloud.Token,
		Timeout: cfg.Cloud.Timeout,
		Logger:  log.With("component", "cloud"),
	})
	if err := cloudClient.ValidateToken(ctx); err != nil {
		// Warn only: an offline cloud must not block startup while a
		// stored snapshot can carry the inventory.
		log.Warn("cloud token validation failed", "error", err)
	}
	manager, err := inventory.New(inventory.Config{
		Fetcher:  cloudClient,
		Registry: registry,
		Store:    repo,
		Applier:  entities,
		Logger:   log.With("component", "inventory"),
	})
	if err != nil {
		return fmt.Errorf("creating inventory manager: %w", err)
	}
	count, err := manager.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading inventory: %w", err)
	}
	log.Info("inventory ready", "devices", count)

	// MQTT status mirror (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log.With("component", "mqtt"))
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mirror := mqtt.NewMirror(mqttClient)
		defer updates.Tap(mirror.Update)()
	} else {
		log.Info("MQTT mirror disabled")
	}

	// InfluxDB status history (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"bucket", cfg.InfluxDB.Bucket,
		)

		recorder := influxdb.NewRecorder(influxClient)
		defer updates.Tap(recorder.Update)()
	} else {
		log.Info("InfluxDB history disabled")
	}

	// UDP broadcast listener
	lst, err := listener.New(listener.Config{
		Port:      cfg.Network.ListenPort,
		Publisher: updates,
		Logger:    log.With("component", "listener"),
	})
	if err != nil {
		return fmt.Errorf("creating listener: %w", err)
	}
	if err := lst.Start(ctx); err != nil {
		return fmt.Errorf("starting listener: %w", err)
	}
	defer func() {
		log.Info("stopping listener")
		if stopErr := lst.Stop(); stopErr != nil {
			log.Error("error stopping listener", "error", stopErr)
		}
	}()
	log.Info("listener started", "addr", lst.LocalAddr())

	// Poll coordinator. The ready flag flips once the whole wiring is
	// up, so timer ticks during startup are skipped.
	var ready atomic.Bool
	coord, err := coordinator.New(coordinator.Config{
		InitialInterval: cfg.Sync.InitialInterval,
		RegularInterval: cfg.Sync.RegularInterval,
		GroupDelay:      cfg.Sync.GroupDelay,
		RetryDelay:      cfg.Sync.RetryDelay,
		Runner:          cli,
		Devices:         registry,
		Publisher:       updates,
		Ready:           ready.Load,
		Logger:          log.With("component", "coordinator"),
	})
	if err != nil {
		return fmt.Errorf("creating coordinator: %w", err)
	}
	coord.Start()
	defer func() {
		log.Info("stopping coordinator")
		coord.Stop()
	}()
	log.Info("coordinator started",
		"initial_interval", cfg.Sync.InitialInterval,
		"regular_interval", cfg.Sync.RegularInterval,
	)

	// Admin HTTP API (optional)
	if cfg.API.Enabled {
		apiServer, err := api.New(api.Deps{
			Config:        cfg.API,
			Logger:        log,
			Registry:      registry,
			Entities:      entities,
			Syncer:        coord,
			Refresher:     manager,
			ListenerStats: lst.Stats,
			Version:       version,
		})
		if err != nil {
			return fmt.Errorf("creating API server: %w", err)
		}
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("starting API server: %w", err)
		}
		defer func() {
			log.Info("stopping API server")
			if closeErr := apiServer.Close(); closeErr != nil {
				log.Error("error stopping API server", "error", closeErr)
			}
		}()
	} else {
		log.Info("admin API disabled")
	}

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	ready.Store(true)
	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SMARTEEFI_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SMARTEEFI_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies infrastructure connections after startup.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check (nil when disabled)
//   - influxClient: InfluxDB client to check (nil when disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}
