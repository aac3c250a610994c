package server

import (
	"encoding/json"

	"BazaarBrawl/internal/game"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinGamePayload struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	RoomID string `json:"roomId"`
}

type movePayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type chatPayload struct {
	Message string `json:"message"`
}

type defeatMonsterPayload struct {
	MonsterID string `json:"monsterId"`
}

// settingsDTO is the wire shape of spawn settings on both the adminSettings
// event and the updateAdminSettings / adminApplySettings requests.
type settingsDTO struct {
	MaxMonsters          int                    `json:"maxMonsters"`
	SpawnIntervalSeconds float64                `json:"spawnIntervalSeconds"`
	Templates            []game.MonsterTemplate `json:"templates"`
}

func settingsToDTO(cfg game.SpawnConfig) settingsDTO {
	return settingsDTO{
		MaxMonsters:          cfg.MaxMonsters,
		SpawnIntervalSeconds: cfg.IntervalSeconds,
		Templates:            cfg.Catalog,
	}
}

func (d settingsDTO) toConfig() game.SpawnConfig {
	return game.SpawnConfig{
		MaxMonsters:     d.MaxMonsters,
		IntervalSeconds: d.SpawnIntervalSeconds,
		Catalog:         d.Templates,
	}
}

type statsDTO struct {
	RoomID         string  `json:"roomId"`
	Players        int     `json:"players"`
	ActiveMonsters int     `json:"activeMonsters"`
	TotalSpawns    int     `json:"totalSpawns"`
	TotalKills     int     `json:"totalKills"`
	NextSpawnInS   float64 `json:"nextSpawnInSeconds"`
}

type adminActionPayload struct {
	Action    string `json:"action"`
	MonsterID string `json:"monsterId,omitempty"`
	Spawned   int    `json:"spawned,omitempty"`
	Cleared   int    `json:"cleared,omitempty"`
	Skipped   bool   `json:"skipped,omitempty"`
}

type adminErrorPayload struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}
