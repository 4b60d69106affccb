package engine

import (
	"github.com/kestrelmoor/dungeon-guardian/internal/models"
)

// GoalType identifies one of the guardian's goals.
type GoalType string

const (
	GoalSurvive          GoalType = "Survive"
	GoalEliminateThreat  GoalType = "EliminateThreat"
	GoalProtectTreasure  GoalType = "ProtectTreasure"
	GoalPrepareForBattle GoalType = "PrepareForBattle"
)

// Selector thresholds. CriticalHealth is the point below which nothing
// matters except staying alive.
const (
	CriticalHealth = 30
	surviveHealth  = 50
	preparedHealth = 70
	preparedStock  = 1
)

// Goal pairs a satisfaction predicate with the priority used to break ties
// and an Unmet count: the number of goal atoms the given state still fails,
// used as the planner's admissible heuristic. Each unmet atom needs at least
// one action (every action costs >= 1), except the treasure atom, which
// counts one per threat step since DefendTreasure lowers it one step at a
// time.
type Goal struct {
	Type      GoalType
	Priority  int
	Satisfied func(models.WorldState) bool
	Unmet     func(models.WorldState) int
}

func goalSurvive() Goal {
	return Goal{
		Type:     GoalSurvive,
		Priority: 4,
		Satisfied: func(s models.WorldState) bool {
			return s.Health >= surviveHealth && s.InSafeZone
		},
		Unmet: func(s models.WorldState) int {
			n := 0
			if s.Health < surviveHealth {
				n++
			}
			if !s.InSafeZone {
				n++
			}
			return n
		},
	}
}

func goalEliminateThreat() Goal {
	return Goal{
		Type:     GoalEliminateThreat,
		Priority: 3,
		Satisfied: func(s models.WorldState) bool {
			return !s.EnemyNearby && s.TreasureThreat == models.ThreatLow
		},
		Unmet: func(s models.WorldState) int {
			n := int(s.TreasureThreat)
			if s.EnemyNearby {
				n++
			}
			return n
		},
	}
}

func goalProtectTreasure() Goal {
	return Goal{
		Type:     GoalProtectTreasure,
		Priority: 2,
		Satisfied: func(s models.WorldState) bool {
			return s.TreasureThreat == models.ThreatLow
		},
		Unmet: func(s models.WorldState) int {
			return int(s.TreasureThreat)
		},
	}
}

func goalPrepareForBattle() Goal {
	return Goal{
		Type:     GoalPrepareForBattle,
		Priority: 1,
		Satisfied: func(s models.WorldState) bool {
			return s.Potions >= preparedStock && s.Health >= preparedHealth && s.InSafeZone
		},
		Unmet: func(s models.WorldState) int {
			n := 0
			if s.Potions < preparedStock {
				n++
			}
			if s.Health < preparedHealth {
				n++
			}
			if !s.InSafeZone {
				n++
			}
			return n
		},
	}
}

// SelectGoal maps a world state to exactly one goal. Rules run top to bottom,
// first match wins, so repeated calls on an unchanged state return the same
// goal. The selector is re-evaluated every tick rather than cached.
func SelectGoal(s models.WorldState) Goal {
	switch {
	case s.Health <= CriticalHealth:
		return goalSurvive()
	case s.EnemyNearby && s.TreasureThreat >= models.ThreatMedium:
		return goalEliminateThreat()
	case s.TreasureThreat >= models.ThreatMedium:
		return goalProtectTreasure()
	default:
		return goalPrepareForBattle()
	}
}
