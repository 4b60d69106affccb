package models

import "fmt"

// Bounds for the clamped numeric variables.
const (
	MaxHealth  = 100
	MaxStamina = 20
)

// ThreatLevel is the ordered danger level of the guarded treasure.
type ThreatLevel int

const (
	ThreatLow ThreatLevel = iota
	ThreatMedium
	ThreatHigh
)

var threatNames = map[ThreatLevel]string{
	ThreatLow:    "low",
	ThreatMedium: "medium",
	ThreatHigh:   "high",
}

func (t ThreatLevel) String() string {
	if name, ok := threatNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ThreatLevel(%d)", int(t))
}

// ParseThreatLevel converts a scenario-file string into a ThreatLevel.
func ParseThreatLevel(s string) (ThreatLevel, error) {
	for level, name := range threatNames {
		if name == s {
			return level, nil
		}
	}
	return ThreatLow, fmt.Errorf("unknown threat level %q", s)
}

// MarshalYAML renders the level as its lowercase name.
func (t ThreatLevel) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML accepts the lowercase names used in scenario files.
func (t *ThreatLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	level, err := ParseThreatLevel(s)
	if err != nil {
		return err
	}
	*t = level
	return nil
}

// Lower returns the level one step down, saturating at low.
func (t ThreatLevel) Lower() ThreatLevel {
	if t > ThreatLow {
		return t - 1
	}
	return ThreatLow
}

// WorldState is a snapshot of everything the guardian tracks about the
// dungeon. It is a value type: effects never mutate a state in place, they
// return a new one, so a state handed to the planner stays fixed while the
// live state moves on.
type WorldState struct {
	Health          int         `yaml:"health"`
	Stamina         int         `yaml:"stamina"`
	Potions         int         `yaml:"potions"`
	TreasureThreat  ThreatLevel `yaml:"treasure_threat"`
	EnemyNearby     bool        `yaml:"enemy_nearby"`
	InSafeZone      bool        `yaml:"in_safe_zone"`
	BackupAvailable bool        `yaml:"backup_available"`
}

// Validate rejects states with out-of-range values. External input (scenario
// files, the custom-scenario form) must pass through here before reaching
// the planner; effect application clamps instead and cannot go out of range.
func (s WorldState) Validate() error {
	if s.Health < 0 || s.Health > MaxHealth {
		return fmt.Errorf("health %d out of range [0,%d]", s.Health, MaxHealth)
	}
	if s.Stamina < 0 || s.Stamina > MaxStamina {
		return fmt.Errorf("stamina %d out of range [0,%d]", s.Stamina, MaxStamina)
	}
	if s.Potions < 0 {
		return fmt.Errorf("potions %d must not be negative", s.Potions)
	}
	if _, ok := threatNames[s.TreasureThreat]; !ok {
		return fmt.Errorf("invalid treasure threat %d", int(s.TreasureThreat))
	}
	return nil
}

// Clamped returns a copy with health, stamina and potions forced back into
// their ranges. Every action effect routes its result through this.
func (s WorldState) Clamped() WorldState {
	s.Health = clamp(s.Health, 0, MaxHealth)
	s.Stamina = clamp(s.Stamina, 0, MaxStamina)
	if s.Potions < 0 {
		s.Potions = 0
	}
	return s
}

// Key encodes the state compactly for the planner's visited set.
func (s WorldState) Key() string {
	return fmt.Sprintf("%d|%d|%d|%d|%t|%t|%t",
		s.Health, s.Stamina, s.Potions, s.TreasureThreat,
		s.EnemyNearby, s.InSafeZone, s.BackupAvailable)
}

func (s WorldState) String() string {
	return fmt.Sprintf("health=%d stamina=%d potions=%d threat=%s enemy=%t safe=%t backup=%t",
		s.Health, s.Stamina, s.Potions, s.TreasureThreat,
		s.EnemyNearby, s.InSafeZone, s.BackupAvailable)
}

// StatePatch is a partial world change: nil fields leave the variable
// untouched. Scenario scripts use patches for exogenous events between
// ticks (an enemy shows up, backup becomes unavailable).
type StatePatch struct {
	Health          *int         `yaml:"health,omitempty"`
	Stamina         *int         `yaml:"stamina,omitempty"`
	Potions         *int         `yaml:"potions,omitempty"`
	TreasureThreat  *ThreatLevel `yaml:"treasure_threat,omitempty"`
	EnemyNearby     *bool        `yaml:"enemy_nearby,omitempty"`
	InSafeZone      *bool        `yaml:"in_safe_zone,omitempty"`
	BackupAvailable *bool        `yaml:"backup_available,omitempty"`
}

// Apply overlays the patch on a state and clamps the result.
func (p StatePatch) Apply(s WorldState) WorldState {
	if p.Health != nil {
		s.Health = *p.Health
	}
	if p.Stamina != nil {
		s.Stamina = *p.Stamina
	}
	if p.Potions != nil {
		s.Potions = *p.Potions
	}
	if p.TreasureThreat != nil {
		s.TreasureThreat = *p.TreasureThreat
	}
	if p.EnemyNearby != nil {
		s.EnemyNearby = *p.EnemyNearby
	}
	if p.InSafeZone != nil {
		s.InSafeZone = *p.InSafeZone
	}
	if p.BackupAvailable != nil {
		s.BackupAvailable = *p.BackupAvailable
	}
	return s.Clamped()
}

// IsZero reports whether the patch changes nothing.
func (p StatePatch) IsZero() bool {
	return p.Health == nil && p.Stamina == nil && p.Potions == nil &&
		p.TreasureThreat == nil && p.EnemyNearby == nil &&
		p.InSafeZone == nil && p.BackupAvailable == nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
