package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmoor/dungeon-guardian/internal/engine"
	"github.com/kestrelmoor/dungeon-guardian/internal/models"
)

func alwaysSucceed() engine.FailureOverride {
	return func(engine.ActionType) *bool {
		v := true
		return &v
	}
}

func TestStepsClampIntoRange(t *testing.T) {
	assert.Equal(t, DefaultSteps, Scenario{}.Steps())
	assert.Equal(t, MinSteps, Scenario{MaxSteps: 2}.Steps())
	assert.Equal(t, MaxSteps, Scenario{MaxSteps: 99}.Steps())
	assert.Equal(t, 10, Scenario{MaxSteps: 10}.Steps())
}

func TestValidate(t *testing.T) {
	good := Scenario{
		Name:  "Patrol",
		State: models.WorldState{Health: 50, Stamina: 10},
	}
	assert.NoError(t, good.Validate())

	assert.Error(t, Scenario{State: good.State}.Validate(), "name is required")

	bad := good
	bad.State.Health = 500
	assert.Error(t, bad.Validate())

	scripted := good
	scripted.Events = []Event{{AfterStep: -1}}
	assert.Error(t, scripted.Validate())
}

func TestPresetsAreValidAndNamed(t *testing.T) {
	presets := Presets()
	require.NotEmpty(t, presets)

	seen := map[string]bool{}
	for _, scn := range presets {
		assert.NoError(t, scn.Validate())
		assert.False(t, seen[scn.Name], "duplicate preset %q", scn.Name)
		seen[scn.Name] = true
	}

	scn, ok := Preset("Critical Survival")
	require.True(t, ok)
	assert.Equal(t, 20, scn.State.Health)

	_, ok = Preset("No Such Watch")
	assert.False(t, ok)
}

func TestRunStopsWhenGoalHoldsAndScriptIsSpent(t *testing.T) {
	scn, ok := Preset("Calm Watch")
	require.True(t, ok)

	agent, err := engine.NewAgent(scn.State, engine.WithFailureOverride(alwaysSucceed()))
	require.NoError(t, err)

	result := Run(agent, scn)
	assert.Equal(t, engine.RunGoalSatisfied, result.Outcome)
	assert.Len(t, result.Reports, 1, "a calm watch is over in one tick")
	assert.Zero(t, result.Failures)
}

// A scripted disturbance after a satisfied tick must keep the run alive so
// the agent gets to answer it.
func TestRunPlaysOutPendingEvents(t *testing.T) {
	scn := Scenario{
		Name:  "Interrupted Watch",
		State: models.WorldState{Health: 95, Stamina: 20, Potions: 1, InSafeZone: true},
		Events: []Event{
			{AfterStep: 2, Note: "the satchel is stolen", Patch: models.StatePatch{Potions: intp(0)}},
		},
	}
	require.NoError(t, scn.Validate())

	agent, err := engine.NewAgent(scn.State, engine.WithFailureOverride(alwaysSucceed()))
	require.NoError(t, err)

	result := Run(agent, scn)
	assert.Equal(t, engine.RunGoalSatisfied, result.Outcome)
	assert.Greater(t, len(result.Reports), 2, "the run must outlive the scripted theft")
	assert.Equal(t, 1, result.Final.Potions, "the agent restocked after the theft")
}

func TestRunHitsStepLimitWhenGoalStaysOutOfReach(t *testing.T) {
	// Too little stamina to attack and no backup to call, so the threat
	// never clears and every tick ends in a fallback.
	scn := Scenario{
		Name: "Hopeless Siege",
		State: models.WorldState{
			Health: 80, Stamina: 4, Potions: 0,
			TreasureThreat: models.ThreatHigh,
			EnemyNearby:    true, InSafeZone: true,
		},
		MaxSteps: 6,
	}
	require.NoError(t, scn.Validate())

	agent, err := engine.NewAgent(scn.State, engine.WithFailureOverride(alwaysSucceed()))
	require.NoError(t, err)

	result := Run(agent, scn)
	assert.Equal(t, engine.RunStepLimit, result.Outcome)
	assert.Len(t, result.Reports, 6)
	for _, report := range result.Reports {
		assert.True(t, report.NoPlan)
	}
}

func intp(v int) *int { return &v }
