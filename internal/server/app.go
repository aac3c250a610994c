package server

import (
	"log/slog"
	"os"
	"time"

	"BazaarBrawl/internal/game"
)

type AppConfig struct {
	SpawnConfigPath string
	SpawnOverrides  SpawnOverrides
	AdminToken      string
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		SpawnConfigPath: "configs/spawn.yaml",
	}
}

func resolveSpawnConfig(cfg AppConfig, logger *slog.Logger) game.SpawnConfig {
	spawn := game.DefaultSpawnConfig()
	loaded, err := loadSpawnConfigFromFile(cfg.SpawnConfigPath, spawn)
	if err != nil {
		logger.Warn("spawn config load failed, using defaults", "path", cfg.SpawnConfigPath, "err", err)
	} else {
		spawn = loaded
	}
	return applySpawnOverrides(spawn, cfg.SpawnOverrides)
}

func StartApp(addr string, cfg AppConfig) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	spawn := resolveSpawnConfig(cfg, logger)
	hub := game.NewHub(spawn, logger)

	// Periodic cleanup of empty rooms (every 60 seconds)
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			hub.CleanupEmptyRooms()
		}
	}()

	logger.Info("starting server", "addr", addr,
		"spawn_cap", spawn.MaxMonsters, "spawn_interval_s", spawn.IntervalSeconds,
		"templates", len(spawn.Catalog), "admin_enabled", cfg.AdminToken != "")
	startServer(hub, addr, cfg.AdminToken, logger)
}
