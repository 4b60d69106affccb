package engine

import (
	"github.com/kestrelmoor/dungeon-guardian/internal/models"
)

// ActionType identifies one of the guardian's fixed catalog actions.
type ActionType string

const (
	ActionHealSelf        ActionType = "HealSelf"
	ActionAttackEnemy     ActionType = "AttackEnemy"
	ActionRetreat         ActionType = "Retreat"
	ActionDefendTreasure  ActionType = "DefendTreasure"
	ActionCallBackup      ActionType = "CallBackup"
	ActionSearchForPotion ActionType = "SearchForPotion"
)

// Action is an atomic state transformation. Precondition and Effect are pure
// functions over a WorldState; Effect must only be applied to states where
// Precondition holds. Cost steers the planner, SuccessProb only matters at
// execution time: planning assumes effects always succeed.
type Action struct {
	Type         ActionType
	Cost         float64
	SuccessProb  float64
	Precondition func(models.WorldState) bool
	Effect       func(models.WorldState) models.WorldState
}

// Costs are relative tuning constants, not contracts. Retreat and the potion
// actions are cheap, combat actions cost more, and CallBackup is deliberately
// expensive so the guardian only leans on outside help when nothing cheaper
// reaches the goal.
const (
	costHealSelf        = 2
	costAttackEnemy     = 4
	costRetreat         = 1
	costDefendTreasure  = 4
	costCallBackup      = 10
	costSearchForPotion = 2
)

const attackStaminaCost = 5

// Catalog returns the guardian's six actions in declaration order. The order
// is part of the planner's tie-break, so it is fixed.
func Catalog() []Action {
	return []Action{
		{
			Type:        ActionHealSelf,
			Cost:        costHealSelf,
			SuccessProb: 0.95,
			Precondition: func(s models.WorldState) bool {
				return s.Potions >= 1
			},
			Effect: func(s models.WorldState) models.WorldState {
				s.Health += 40
				s.Potions--
				return s.Clamped()
			},
		},
		{
			Type:        ActionAttackEnemy,
			Cost:        costAttackEnemy,
			SuccessProb: 0.70,
			Precondition: func(s models.WorldState) bool {
				return s.EnemyNearby && s.Stamina >= attackStaminaCost
			},
			Effect: func(s models.WorldState) models.WorldState {
				s.EnemyNearby = false
				s.Stamina -= attackStaminaCost
				return s.Clamped()
			},
		},
		{
			Type:        ActionRetreat,
			Cost:        costRetreat,
			SuccessProb: 0.90,
			Precondition: func(s models.WorldState) bool {
				return !s.InSafeZone
			},
			Effect: func(s models.WorldState) models.WorldState {
				s.InSafeZone = true
				return s.Clamped()
			},
		},
		{
			Type:        ActionDefendTreasure,
			Cost:        costDefendTreasure,
			SuccessProb: 0.85,
			Precondition: func(s models.WorldState) bool {
				return s.TreasureThreat >= models.ThreatMedium
			},
			Effect: func(s models.WorldState) models.WorldState {
				s.TreasureThreat = s.TreasureThreat.Lower()
				return s.Clamped()
			},
		},
		{
			Type:        ActionCallBackup,
			Cost:        costCallBackup,
			SuccessProb: 0.60,
			Precondition: func(s models.WorldState) bool {
				return s.BackupAvailable
			},
			Effect: func(s models.WorldState) models.WorldState {
				s.EnemyNearby = false
				s.TreasureThreat = models.ThreatLow
				return s.Clamped()
			},
		},
		{
			Type:        ActionSearchForPotion,
			Cost:        costSearchForPotion,
			SuccessProb: 0.80,
			Precondition: func(s models.WorldState) bool {
				return s.Potions < 3
			},
			Effect: func(s models.WorldState) models.WorldState {
				s.Potions++
				return s.Clamped()
			},
		},
	}
}

// FindAction looks an action up by type in a catalog slice.
func FindAction(catalog []Action, t ActionType) (Action, bool) {
	for _, a := range catalog {
		if a.Type == t {
			return a, true
		}
	}
	return Action{}, false
}
