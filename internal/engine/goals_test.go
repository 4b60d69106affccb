package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmoor/dungeon-guardian/internal/models"
)

func TestSelectGoalRules(t *testing.T) {
	tests := []struct {
		name  string
		state models.WorldState
		want  GoalType
	}{
		{
			name:  "critical health wins over everything",
			state: models.WorldState{Health: 30, Stamina: 10, TreasureThreat: models.ThreatHigh, EnemyNearby: true},
			want:  GoalSurvive,
		},
		{
			name:  "enemy plus threatened treasure",
			state: models.WorldState{Health: 85, Stamina: 10, TreasureThreat: models.ThreatMedium, EnemyNearby: true},
			want:  GoalEliminateThreat,
		},
		{
			name:  "threatened treasure without enemy",
			state: models.WorldState{Health: 85, Stamina: 10, TreasureThreat: models.ThreatHigh},
			want:  GoalProtectTreasure,
		},
		{
			name:  "enemy but calm treasure is not elimination",
			state: models.WorldState{Health: 85, Stamina: 10, TreasureThreat: models.ThreatLow, EnemyNearby: true},
			want:  GoalPrepareForBattle,
		},
		{
			name:  "quiet watch",
			state: models.WorldState{Health: 95, Stamina: 20, Potions: 1, InSafeZone: true},
			want:  GoalPrepareForBattle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := SelectGoal(tt.state)
			assert.Equal(t, tt.want, goal.Type)
		})
	}
}

func TestSelectGoalIsIdempotent(t *testing.T) {
	narrator, err := NewNarrator()
	require.NoError(t, err)

	state := models.WorldState{Health: 20, Stamina: 5, EnemyNearby: true, TreasureThreat: models.ThreatHigh}
	first := SelectGoal(state)
	second := SelectGoal(state)

	assert.Equal(t, first.Type, second.Type)
	assert.Equal(t,
		narrator.GoalRationale(first, state),
		narrator.GoalRationale(second, state))
}

func TestGoalRationaleCitesTriggeringValues(t *testing.T) {
	narrator, err := NewNarrator()
	require.NoError(t, err)

	state := models.WorldState{Health: 20, Stamina: 5, EnemyNearby: true}
	goal := SelectGoal(state)
	require.Equal(t, GoalSurvive, goal.Type)

	rationale := narrator.GoalRationale(goal, state)
	assert.Contains(t, rationale, fmt.Sprintf("%d", state.Health))
	assert.Contains(t, rationale, fmt.Sprintf("%d", CriticalHealth))
}

func TestGoalUnmetReachesZeroExactlyWhenSatisfied(t *testing.T) {
	states := []models.WorldState{
		{Health: 20, Stamina: 5, EnemyNearby: true},
		{Health: 85, Stamina: 18, Potions: 2, TreasureThreat: models.ThreatHigh, EnemyNearby: true, InSafeZone: true},
		{Health: 60, Stamina: 12, Potions: 1, TreasureThreat: models.ThreatHigh, InSafeZone: true},
		{Health: 95, Stamina: 20, Potions: 1, InSafeZone: true, BackupAvailable: true},
	}

	for _, state := range states {
		goal := SelectGoal(state)
		assert.Equal(t, goal.Satisfied(state), goal.Unmet(state) == 0,
			"goal %s on %s", goal.Type, state)
	}
}
