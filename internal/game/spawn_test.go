package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpawnController(cfg SpawnConfig) *SpawnController {
	return NewSpawnController(cfg, rand.New(rand.NewSource(1)))
}

func TestSpawnConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SpawnConfig)
		wantErr bool
	}{
		{name: "default is valid", mutate: func(c *SpawnConfig) {}},
		{name: "zero cap", mutate: func(c *SpawnConfig) { c.MaxMonsters = 0 }, wantErr: true},
		{name: "negative cap", mutate: func(c *SpawnConfig) { c.MaxMonsters = -3 }, wantErr: true},
		{name: "sub-second interval", mutate: func(c *SpawnConfig) { c.IntervalSeconds = 0.5 }, wantErr: true},
		{name: "empty catalog", mutate: func(c *SpawnConfig) { c.Catalog = nil }, wantErr: true},
		{name: "template without id", mutate: func(c *SpawnConfig) { c.Catalog[0].ID = "" }, wantErr: true},
		{name: "template with zero hp", mutate: func(c *SpawnConfig) { c.Catalog[0].HP = 0 }, wantErr: true},
		{name: "template with bad size", mutate: func(c *SpawnConfig) { c.Catalog[0].Size = "gigantic" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSpawnConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSettings)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAdvanceSpawnsOncePerInterval(t *testing.T) {
	cfg := DefaultSpawnConfig()
	cfg.MaxMonsters = 100
	cfg.IntervalSeconds = 10
	s := testSpawnController(cfg)

	s.ArmLocked(0)
	assert.Empty(t, s.AdvanceLocked(9.99))

	spawned := s.AdvanceLocked(10)
	require.Len(t, spawned, 1)
	assert.NotEmpty(t, spawned[0].ID)
	assert.Equal(t, 1, s.ActiveCountLocked())

	// Three more intervals elapse in one advance.
	spawned = s.AdvanceLocked(40)
	assert.Len(t, spawned, 3)
	assert.Equal(t, 4, s.ActiveCountLocked())
}

func TestAdvanceWithoutArmDoesNothing(t *testing.T) {
	s := testSpawnController(DefaultSpawnConfig())
	assert.Empty(t, s.AdvanceLocked(1000))
	assert.Equal(t, 0, s.StatsLocked(1000).TotalSpawns)
}

func TestTotalSpawnsCapsAtRoomLimit(t *testing.T) {
	cfg := DefaultSpawnConfig()
	cfg.MaxMonsters = 5
	cfg.IntervalSeconds = 1
	s := testSpawnController(cfg)

	// 20 attempts elapse; only the first 5 may land.
	s.ArmLocked(0)
	s.AdvanceLocked(20)

	stats := s.StatsLocked(20)
	assert.Equal(t, 5, stats.ActiveMonsters)
	assert.Equal(t, 5, stats.TotalSpawns)
	assert.Equal(t, 0, stats.TotalKills)
}

func TestSkippedAttemptResumesAfterKill(t *testing.T) {
	cfg := DefaultSpawnConfig()
	cfg.MaxMonsters = 1
	cfg.IntervalSeconds = 1
	s := testSpawnController(cfg)

	s.ArmLocked(0)
	spawned := s.AdvanceLocked(3)
	require.Len(t, spawned, 1)

	_, ok := s.MonsterDefeatedLocked(spawned[0].ID)
	require.True(t, ok)
	assert.Equal(t, 0, s.ActiveCountLocked())

	// Next due attempt fills the freed slot.
	spawned = s.AdvanceLocked(4)
	require.Len(t, spawned, 1)

	stats := s.StatsLocked(4)
	assert.Equal(t, 2, stats.TotalSpawns)
	assert.Equal(t, 1, stats.TotalKills)
}

func TestMonsterDefeatedUnknownIDIgnored(t *testing.T) {
	s := testSpawnController(DefaultSpawnConfig())
	s.ArmLocked(0)
	s.AdvanceLocked(10)

	m, ok := s.MonsterDefeatedLocked("no-such-monster")
	assert.False(t, ok)
	assert.Nil(t, m)
	assert.Equal(t, 0, s.StatsLocked(10).TotalKills)
}

func TestForceSpawnBypassesCap(t *testing.T) {
	cfg := DefaultSpawnConfig()
	cfg.MaxMonsters = 1
	s := testSpawnController(cfg)

	s.ArmLocked(0)
	require.Len(t, s.AdvanceLocked(cfg.IntervalSeconds), 1)

	m := s.ForceSpawnLocked()
	require.NotNil(t, m)
	assert.Equal(t, 2, s.ActiveCountLocked())
	assert.Equal(t, 2, s.StatsLocked(0).TotalSpawns)
}

func TestClearAllKeepsCounters(t *testing.T) {
	cfg := DefaultSpawnConfig()
	cfg.MaxMonsters = 3
	cfg.IntervalSeconds = 1
	s := testSpawnController(cfg)

	s.ArmLocked(0)
	s.AdvanceLocked(3)
	require.Equal(t, 3, s.ActiveCountLocked())

	assert.Equal(t, 3, s.ClearAllLocked())
	assert.Equal(t, 0, s.ActiveCountLocked())

	stats := s.StatsLocked(3)
	assert.Equal(t, 3, stats.TotalSpawns)
	assert.Equal(t, 0, stats.TotalKills)
}

func TestUpdateSettingsRejectsInvalidAndKeepsPrior(t *testing.T) {
	s := testSpawnController(DefaultSpawnConfig())
	s.ArmLocked(0)

	bad := DefaultSpawnConfig()
	bad.MaxMonsters = 0
	err := s.UpdateSettingsLocked(bad, 5)
	require.ErrorIs(t, err, ErrInvalidSettings)

	// The prior configuration still drives spawning.
	assert.Equal(t, DefaultSpawnCap, s.SettingsLocked().MaxMonsters)
}

func TestUpdateSettingsReschedulesOnIntervalChange(t *testing.T) {
	cfg := DefaultSpawnConfig()
	cfg.IntervalSeconds = 10
	s := testSpawnController(cfg)
	s.ArmLocked(0)

	cfg.IntervalSeconds = 3
	require.NoError(t, s.UpdateSettingsLocked(cfg, 5))

	// Old deadline at t=10 is gone; the next attempt is due at 5+3.
	assert.Empty(t, s.AdvanceLocked(7.9))
	assert.Len(t, s.AdvanceLocked(8), 1)
}

func TestUpdateSettingsSameIntervalKeepsSchedule(t *testing.T) {
	cfg := DefaultSpawnConfig()
	cfg.IntervalSeconds = 10
	s := testSpawnController(cfg)
	s.ArmLocked(0)

	cfg.MaxMonsters = 20
	require.NoError(t, s.UpdateSettingsLocked(cfg, 5))

	// Deadline at t=10 survives a cap-only change.
	assert.Len(t, s.AdvanceLocked(10), 1)
}

func TestApplySettingsClearsAndRespawnsToCap(t *testing.T) {
	cfg := DefaultSpawnConfig()
	cfg.MaxMonsters = 4
	cfg.IntervalSeconds = 1
	s := testSpawnController(cfg)
	s.ArmLocked(0)
	s.AdvanceLocked(4)
	require.Equal(t, 4, s.ActiveCountLocked())

	next := SpawnConfig{
		MaxMonsters:     1,
		IntervalSeconds: 30,
		Catalog: []MonsterTemplate{
			{ID: "goblin", Name: "Goblin", HP: 30, Attack: 5, XP: 10, Size: SizeSmall},
		},
	}
	spawned, cleared, err := s.ApplySettingsLocked(next, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cleared)
	require.Len(t, spawned, 1)
	assert.Equal(t, "goblin", spawned[0].TemplateID)
	assert.Equal(t, 1, s.ActiveCountLocked())

	// Schedule restarts on the new interval.
	assert.Empty(t, s.AdvanceLocked(33.9))
	assert.Len(t, s.AdvanceLocked(34), 0) // at cap, attempt skipped
}

func TestApplySettingsInvalidLeavesMonstersAlone(t *testing.T) {
	cfg := DefaultSpawnConfig()
	cfg.MaxMonsters = 2
	cfg.IntervalSeconds = 1
	s := testSpawnController(cfg)
	s.ArmLocked(0)
	s.AdvanceLocked(2)
	require.Equal(t, 2, s.ActiveCountLocked())

	bad := DefaultSpawnConfig()
	bad.Catalog = nil
	_, _, err := s.ApplySettingsLocked(bad, 2)
	require.ErrorIs(t, err, ErrInvalidSettings)
	assert.Equal(t, 2, s.ActiveCountLocked())
}

func TestArmRefreshesStaleSchedule(t *testing.T) {
	cfg := DefaultSpawnConfig()
	cfg.IntervalSeconds = 10
	s := testSpawnController(cfg)

	s.ArmLocked(0)
	s.AdvanceLocked(10) // deadline now t=20

	// A rejoin long past the deadline must not trigger catch-up spawns.
	s.ArmLocked(500)
	assert.Empty(t, s.AdvanceLocked(509.9))
	assert.Len(t, s.AdvanceLocked(510), 1)
}

func TestStatsNextSpawnCountdown(t *testing.T) {
	cfg := DefaultSpawnConfig()
	cfg.IntervalSeconds = 10
	s := testSpawnController(cfg)

	assert.Equal(t, 0.0, s.StatsLocked(0).NextSpawnInS)

	s.ArmLocked(0)
	assert.InDelta(t, 10.0, s.StatsLocked(0).NextSpawnInS, 1e-9)
	assert.InDelta(t, 4.0, s.StatsLocked(6).NextSpawnInS, 1e-9)
}

func TestSettingsReturnsCatalogCopy(t *testing.T) {
	s := testSpawnController(DefaultSpawnConfig())

	got := s.SettingsLocked()
	got.Catalog[0].Name = "Mutated"

	assert.Equal(t, "Goblin", s.SettingsLocked().Catalog[0].Name)
}
