package server

import (
	"fmt"
	"os"
	"path/filepath"

	"BazaarBrawl/internal/game"

	"gopkg.in/yaml.v3"
)

type spawnFileConfig struct {
	MaxMonsters          *int                   `yaml:"maxMonsters"`
	SpawnIntervalSeconds *float64               `yaml:"spawnIntervalSeconds"`
	Templates            []game.MonsterTemplate `yaml:"templates"`
}

// SpawnOverrides represents optional command-line overrides for spawn tuning.
type SpawnOverrides struct {
	MaxMonsters     *int
	IntervalSeconds *float64
}

func (o SpawnOverrides) apply(base game.SpawnConfig) game.SpawnConfig {
	if o.MaxMonsters != nil {
		base.MaxMonsters = *o.MaxMonsters
	}
	if o.IntervalSeconds != nil {
		base.IntervalSeconds = *o.IntervalSeconds
	}
	return game.SanitizeSpawnConfig(base)
}

func mergeSpawnConfig(base game.SpawnConfig, cfg *spawnFileConfig) game.SpawnConfig {
	if cfg == nil {
		return base
	}
	if cfg.MaxMonsters != nil {
		base.MaxMonsters = *cfg.MaxMonsters
	}
	if cfg.SpawnIntervalSeconds != nil {
		base.IntervalSeconds = *cfg.SpawnIntervalSeconds
	}
	if len(cfg.Templates) > 0 {
		base.Catalog = cfg.Templates
	}
	return game.SanitizeSpawnConfig(base)
}

// loadSpawnConfigFromFile reads deploy-time spawn tuning. A missing file is
// not an error; the base config stands.
func loadSpawnConfigFromFile(path string, base game.SpawnConfig) (game.SpawnConfig, error) {
	if path == "" {
		return game.SanitizeSpawnConfig(base), nil
	}
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return game.SanitizeSpawnConfig(base), nil
		}
		return game.SanitizeSpawnConfig(base), fmt.Errorf("read spawn config %q: %w", cleanPath, err)
	}
	var cfg spawnFileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return game.SanitizeSpawnConfig(base), fmt.Errorf("parse spawn config %q: %w", cleanPath, err)
	}
	return mergeSpawnConfig(base, &cfg), nil
}

func applySpawnOverrides(base game.SpawnConfig, overrides SpawnOverrides) game.SpawnConfig {
	return overrides.apply(base)
}
