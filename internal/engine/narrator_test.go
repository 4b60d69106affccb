package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmoor/dungeon-guardian/internal/models"
)

func TestEveryGoalHasARationale(t *testing.T) {
	narrator, err := NewNarrator()
	require.NoError(t, err)

	states := map[GoalType]models.WorldState{
		GoalSurvive:          {Health: 20, Stamina: 5, EnemyNearby: true},
		GoalEliminateThreat:  {Health: 85, Stamina: 18, TreasureThreat: models.ThreatHigh, EnemyNearby: true},
		GoalProtectTreasure:  {Health: 85, Stamina: 18, TreasureThreat: models.ThreatHigh},
		GoalPrepareForBattle: {Health: 95, Stamina: 20, Potions: 1, InSafeZone: true},
	}

	for want, state := range states {
		goal := SelectGoal(state)
		require.Equal(t, want, goal.Type)

		rationale := narrator.GoalRationale(goal, state)
		assert.NotEmpty(t, rationale)
		assert.NotEqual(t, "goal_"+string(want), rationale,
			"missing template for %s", want)
	}
}

func TestEveryActionHasAJustification(t *testing.T) {
	narrator, err := NewNarrator()
	require.NoError(t, err)

	state := models.WorldState{Health: 50, Stamina: 10, Potions: 2, EnemyNearby: true}
	for _, action := range Catalog() {
		text := narrator.ActionJustification(action, state)
		assert.NotEmpty(t, text)
		assert.NotEqual(t, "action_"+string(action.Type), text,
			"missing template for %s", action.Type)
	}
}

func TestPlanJustificationNamesEveryStep(t *testing.T) {
	narrator, err := NewNarrator()
	require.NoError(t, err)

	state := models.WorldState{Health: 20, Stamina: 10, Potions: 1}
	goal := SelectGoal(state)
	plan, err := NewPlanner(Catalog(), nil).Plan(state, goal)
	require.NoError(t, err)
	require.NotEmpty(t, plan.Actions)

	text := narrator.PlanJustification(plan, state)
	for _, name := range plan.ActionNames() {
		assert.Contains(t, text, name)
	}
	assert.Contains(t, text, string(goal.Type))
}

func TestPlanJustificationForEmptyPlan(t *testing.T) {
	narrator, err := NewNarrator()
	require.NoError(t, err)

	state := models.WorldState{Health: 95, Stamina: 20, Potions: 1, InSafeZone: true}
	goal := SelectGoal(state)
	plan, err := NewPlanner(Catalog(), nil).Plan(state, goal)
	require.NoError(t, err)
	require.Empty(t, plan.Actions)

	text := narrator.PlanJustification(plan, state)
	assert.Contains(t, text, "already satisfied")
}

func TestNoPlanNarrationCoversBothShapes(t *testing.T) {
	narrator, err := NewNarrator()
	require.NoError(t, err)

	state := models.WorldState{
		Health: 80, Stamina: 4, Potions: 0,
		TreasureThreat: models.ThreatHigh,
		EnemyNearby:    true, InSafeZone: true,
	}
	goal := SelectGoal(state)

	fallback := mustAction(t, ActionSearchForPotion)
	withFallback := narrator.NoPlan(goal, state, &fallback)
	assert.Contains(t, withFallback, string(goal.Type))
	assert.Contains(t, withFallback, "Falling back")

	stuck := narrator.NoPlan(goal, state, nil)
	assert.Contains(t, stuck, "waits for the world to change")
}

func TestReflectionCitesActionAndReason(t *testing.T) {
	narrator, err := NewNarrator()
	require.NoError(t, err)

	memory := NewMemory()
	state := models.WorldState{Health: 50, Stamina: 10, EnemyNearby: true}
	rec := memory.Record(ActionAttackEnemy, state, "the strike missed")

	text := narrator.Reflection(rec)
	assert.Contains(t, text, string(ActionAttackEnemy))
	assert.Contains(t, text, "the strike missed")
	assert.Contains(t, text, "#1")
}
