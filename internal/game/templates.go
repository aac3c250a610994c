package game

import "fmt"

// SizeClass is purely descriptive; the server does no balancing with it.
type SizeClass string

const (
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeBoss   SizeClass = "boss"
)

// MonsterTemplate is one entry of the spawnable catalog.
type MonsterTemplate struct {
	ID     string    `json:"id" yaml:"id"`
	Name   string    `json:"name" yaml:"name"`
	HP     int       `json:"hp" yaml:"hp"`
	Attack int       `json:"attack" yaml:"attack"`
	XP     int       `json:"xp" yaml:"xp"`
	Color  string    `json:"color" yaml:"color"`
	Size   SizeClass `json:"size" yaml:"size"`
}

func (t MonsterTemplate) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("monster template missing id")
	}
	if t.Name == "" {
		return fmt.Errorf("monster template %s missing name", t.ID)
	}
	if t.HP < 1 {
		return fmt.Errorf("monster template %s has non-positive hp", t.ID)
	}
	switch t.Size {
	case SizeSmall, SizeMedium, SizeBoss:
	default:
		return fmt.Errorf("monster template %s has unknown size class %q", t.ID, t.Size)
	}
	return nil
}

// DefaultCatalog is the catalog rooms start with until an admin replaces it.
func DefaultCatalog() []MonsterTemplate {
	return []MonsterTemplate{
		{ID: "goblin", Name: "Goblin", HP: 30, Attack: 5, XP: 10, Color: "#4caf50", Size: SizeSmall},
		{ID: "wolf", Name: "Dire Wolf", HP: 60, Attack: 12, XP: 25, Color: "#9e9e9e", Size: SizeMedium},
		{ID: "ogre", Name: "Ogre Warlord", HP: 220, Attack: 30, XP: 120, Color: "#b71c1c", Size: SizeBoss},
	}
}
