package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestThreatLevelOrderingAndNames(t *testing.T) {
	assert.Less(t, ThreatLow, ThreatMedium)
	assert.Less(t, ThreatMedium, ThreatHigh)

	assert.Equal(t, "low", ThreatLow.String())
	assert.Equal(t, "medium", ThreatMedium.String())
	assert.Equal(t, "high", ThreatHigh.String())
}

func TestParseThreatLevel(t *testing.T) {
	for _, name := range []string{"low", "medium", "high"} {
		level, err := ParseThreatLevel(name)
		require.NoError(t, err)
		assert.Equal(t, name, level.String())
	}

	_, err := ParseThreatLevel("catastrophic")
	assert.Error(t, err)
}

func TestThreatLevelLowerSaturates(t *testing.T) {
	assert.Equal(t, ThreatMedium, ThreatHigh.Lower())
	assert.Equal(t, ThreatLow, ThreatMedium.Lower())
	assert.Equal(t, ThreatLow, ThreatLow.Lower())
}

func TestThreatLevelYAMLRoundTrip(t *testing.T) {
	type doc struct {
		Threat ThreatLevel `yaml:"threat"`
	}

	out, err := yaml.Marshal(doc{Threat: ThreatHigh})
	require.NoError(t, err)
	assert.Contains(t, string(out), "high")

	var in doc
	require.NoError(t, yaml.Unmarshal(out, &in))
	assert.Equal(t, ThreatHigh, in.Threat)

	assert.Error(t, yaml.Unmarshal([]byte("threat: catastrophic"), &in))
}

func TestValidate(t *testing.T) {
	good := WorldState{Health: 70, Stamina: 15, Potions: 2, TreasureThreat: ThreatMedium}
	assert.NoError(t, good.Validate())

	tests := []struct {
		name  string
		state WorldState
	}{
		{"health above max", WorldState{Health: 150, Stamina: 10}},
		{"negative health", WorldState{Health: -5, Stamina: 10}},
		{"stamina above max", WorldState{Health: 50, Stamina: 25}},
		{"negative potions", WorldState{Health: 50, Stamina: 10, Potions: -1}},
		{"unknown threat", WorldState{Health: 50, Stamina: 10, TreasureThreat: ThreatLevel(7)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.state.Validate())
		})
	}
}

func TestClamped(t *testing.T) {
	s := WorldState{Health: 150, Stamina: -3, Potions: -1}.Clamped()
	assert.Equal(t, MaxHealth, s.Health)
	assert.Equal(t, 0, s.Stamina)
	assert.Equal(t, 0, s.Potions)
	assert.NoError(t, s.Validate())
}

func TestKeyDistinguishesStates(t *testing.T) {
	a := WorldState{Health: 50, Stamina: 10, EnemyNearby: true}
	b := a
	assert.Equal(t, a.Key(), b.Key())

	b.EnemyNearby = false
	assert.NotEqual(t, a.Key(), b.Key())

	b = a
	b.TreasureThreat = ThreatHigh
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestStatePatchApply(t *testing.T) {
	base := WorldState{Health: 50, Stamina: 10, Potions: 1, TreasureThreat: ThreatLow}

	assert.True(t, StatePatch{}.IsZero())
	assert.Equal(t, base, StatePatch{}.Apply(base))

	health := 200
	enemy := true
	threat := ThreatHigh
	patch := StatePatch{Health: &health, EnemyNearby: &enemy, TreasureThreat: &threat}
	assert.False(t, patch.IsZero())

	got := patch.Apply(base)
	assert.Equal(t, MaxHealth, got.Health, "patched values are clamped")
	assert.True(t, got.EnemyNearby)
	assert.Equal(t, ThreatHigh, got.TreasureThreat)
	assert.Equal(t, base.Stamina, got.Stamina, "untouched fields survive")
	assert.Equal(t, base.Potions, got.Potions)
}
