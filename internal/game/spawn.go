package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidSettings rejects admin-supplied spawn configuration. The prior
// valid configuration stays in effect.
var ErrInvalidSettings = errors.New("invalid spawn settings")

// SpawnConfig tunes one room's spawn controller.
type SpawnConfig struct {
	MaxMonsters     int
	IntervalSeconds float64
	Catalog         []MonsterTemplate
}

func DefaultSpawnConfig() SpawnConfig {
	return SpawnConfig{
		MaxMonsters:     DefaultSpawnCap,
		IntervalSeconds: DefaultSpawnIntervalS,
		Catalog:         DefaultCatalog(),
	}
}

func (c SpawnConfig) Validate() error {
	if c.MaxMonsters < 1 {
		return fmt.Errorf("%w: max monsters must be >= 1, got %d", ErrInvalidSettings, c.MaxMonsters)
	}
	if c.IntervalSeconds < MinSpawnIntervalS {
		return fmt.Errorf("%w: spawn interval must be >= %.0fs, got %.2f", ErrInvalidSettings, MinSpawnIntervalS, c.IntervalSeconds)
	}
	if len(c.Catalog) == 0 {
		return fmt.Errorf("%w: template catalog is empty", ErrInvalidSettings)
	}
	for _, t := range c.Catalog {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
		}
	}
	return nil
}

// SanitizeSpawnConfig clamps deploy-time configuration to usable values.
// Admin input goes through Validate instead and is rejected outright.
func SanitizeSpawnConfig(c SpawnConfig) SpawnConfig {
	if c.MaxMonsters < 1 {
		c.MaxMonsters = DefaultSpawnCap
	}
	if c.IntervalSeconds < MinSpawnIntervalS {
		c.IntervalSeconds = DefaultSpawnIntervalS
	}
	if len(c.Catalog) == 0 {
		c.Catalog = DefaultCatalog()
	}
	return c
}

// Monster is one live instance in a room.
type Monster struct {
	ID         string
	TemplateID string
	Name       string
	HP         int
	Attack     int
	XP         int
	Color      string
	Size       SizeClass
	X, Y       float64
}

// MonsterView is the wire shape of a live monster.
type MonsterView struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"templateId"`
	Name       string    `json:"name"`
	HP         int       `json:"hp"`
	Attack     int       `json:"attack"`
	XP         int       `json:"xp"`
	Color      string    `json:"color"`
	Size       SizeClass `json:"size"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
}

func (m *Monster) View() MonsterView {
	return MonsterView{
		ID:         m.ID,
		TemplateID: m.TemplateID,
		Name:       m.Name,
		HP:         m.HP,
		Attack:     m.Attack,
		XP:         m.XP,
		Color:      m.Color,
		Size:       m.Size,
		X:          m.X,
		Y:          m.Y,
	}
}

// SpawnStats aggregates a room's spawn counters.
type SpawnStats struct {
	ActiveMonsters int     `json:"activeMonsters"`
	TotalSpawns    int     `json:"totalSpawns"`
	TotalKills     int     `json:"totalKills"`
	NextSpawnInS   float64 `json:"nextSpawnInSeconds"`
}

type spawnState int

const (
	spawnIdle spawnState = iota // no schedule armed; only before the first join
	spawnScheduled
)

// SpawnController runs one room's timed monster spawning on the room's
// logical clock. Every method must be called with the room lock held; the
// Locked suffix marks that contract.
type SpawnController struct {
	cfg         SpawnConfig
	state       spawnState
	nextSpawnAt float64
	monsters    map[string]*Monster
	totalSpawns int
	totalKills  int
	rng         *rand.Rand
}

func NewSpawnController(cfg SpawnConfig, rng *rand.Rand) *SpawnController {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SpawnController{
		cfg:      SanitizeSpawnConfig(cfg),
		monsters: map[string]*Monster{},
		rng:      rng,
	}
}

// ArmLocked starts (or refreshes) the spawn schedule. Called on the first
// join, and again when a room regains members after sitting empty so a stale
// deadline does not fire a burst of catch-up spawns.
func (s *SpawnController) ArmLocked(now float64) {
	if s.state == spawnIdle || s.nextSpawnAt <= now {
		s.state = spawnScheduled
		s.nextSpawnAt = now + s.cfg.IntervalSeconds
	}
}

// AdvanceLocked runs every spawn attempt due at or before now and returns
// the monsters created. An attempt at cap is skipped with no counter change.
func (s *SpawnController) AdvanceLocked(now float64) []*Monster {
	if s.state != spawnScheduled {
		return nil
	}
	var spawned []*Monster
	for now >= s.nextSpawnAt {
		s.nextSpawnAt += s.cfg.IntervalSeconds
		if len(s.monsters) >= s.cfg.MaxMonsters {
			continue
		}
		if m := s.spawnOneLocked(); m != nil {
			spawned = append(spawned, m)
		}
	}
	return spawned
}

// spawnOneLocked creates one instance from a uniformly random template.
// An empty catalog skips the spawn; that is a boundary condition, not an
// error.
func (s *SpawnController) spawnOneLocked() *Monster {
	if len(s.cfg.Catalog) == 0 {
		return nil
	}
	t := s.cfg.Catalog[s.rng.Intn(len(s.cfg.Catalog))]
	m := &Monster{
		ID:         uuid.NewString(),
		TemplateID: t.ID,
		Name:       t.Name,
		HP:         t.HP,
		Attack:     t.Attack,
		XP:         t.XP,
		Color:      t.Color,
		Size:       t.Size,
		X:          s.rng.Float64() * WorldW,
		Y:          s.rng.Float64() * WorldH,
	}
	s.monsters[m.ID] = m
	s.totalSpawns++
	return m
}

// ForceSpawnLocked spawns one monster ignoring the cap. The cap bypass is
// the documented admin exception; the schedule is left undisturbed.
func (s *SpawnController) ForceSpawnLocked() *Monster {
	return s.spawnOneLocked()
}

// ClearAllLocked removes every live monster. Counters are not rolled back.
func (s *SpawnController) ClearAllLocked() int {
	n := len(s.monsters)
	s.monsters = map[string]*Monster{}
	return n
}

// MonsterDefeatedLocked handles the combat layer's kill signal. Unknown ids
// are ignored so late signals after a clear-all stay harmless.
func (s *SpawnController) MonsterDefeatedLocked(id string) (*Monster, bool) {
	m, ok := s.monsters[id]
	if !ok {
		return nil, false
	}
	delete(s.monsters, id)
	if s.totalKills < s.totalSpawns {
		s.totalKills++
	}
	return m, true
}

// UpdateSettingsLocked atomically swaps the configuration. The schedule is
// rearmed only when the interval changed, so a pending tick at the old
// cadence never outlives the swap.
func (s *SpawnController) UpdateSettingsLocked(cfg SpawnConfig, now float64) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	intervalChanged := cfg.IntervalSeconds != s.cfg.IntervalSeconds
	s.cfg = cfg
	if intervalChanged && s.state == spawnScheduled {
		s.nextSpawnAt = now + cfg.IntervalSeconds
	}
	return nil
}

// ApplySettingsLocked is the combined admin "apply": swap the configuration,
// drop every live monster, and immediately respawn a fresh batch up to the
// new cap. Distinct from a bare settings update on purpose.
func (s *SpawnController) ApplySettingsLocked(cfg SpawnConfig, now float64) (spawned []*Monster, cleared int, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}
	cleared = s.ClearAllLocked()
	s.cfg = cfg
	s.state = spawnScheduled
	s.nextSpawnAt = now + cfg.IntervalSeconds
	for i := 0; i < cfg.MaxMonsters; i++ {
		if m := s.spawnOneLocked(); m != nil {
			spawned = append(spawned, m)
		}
	}
	return spawned, cleared, nil
}

func (s *SpawnController) SettingsLocked() SpawnConfig {
	cfg := s.cfg
	cfg.Catalog = append([]MonsterTemplate(nil), s.cfg.Catalog...)
	return cfg
}

func (s *SpawnController) StatsLocked(now float64) SpawnStats {
	next := 0.0
	if s.state == spawnScheduled && s.nextSpawnAt > now {
		next = s.nextSpawnAt - now
	}
	return SpawnStats{
		ActiveMonsters: len(s.monsters),
		TotalSpawns:    s.totalSpawns,
		TotalKills:     s.totalKills,
		NextSpawnInS:   next,
	}
}

func (s *SpawnController) ActiveCountLocked() int {
	return len(s.monsters)
}

// MonsterViewsLocked snapshots the live monsters for a joining client.
func (s *SpawnController) MonsterViewsLocked() []MonsterView {
	views := make([]MonsterView, 0, len(s.monsters))
	for _, m := range s.monsters {
		views = append(views, m.View())
	}
	return views
}
