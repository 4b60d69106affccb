package engine

import (
	"fmt"
	"math/rand"

	"github.com/kestrelmoor/dungeon-guardian/internal/models"
)

// PlanStatus tracks one plan instance through execution. Stale and Failed
// are terminal: the plan is discarded and a fresh one requested, never
// resumed.
type PlanStatus int

const (
	PlanPending PlanStatus = iota
	PlanRunning
	PlanStale
	PlanSucceeded
	PlanFailed
)

var planStatusNames = map[PlanStatus]string{
	PlanPending:   "pending",
	PlanRunning:   "running",
	PlanStale:     "stale",
	PlanSucceeded: "succeeded",
	PlanFailed:    "failed",
}

func (s PlanStatus) String() string {
	if name, ok := planStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("PlanStatus(%d)", int(s))
}

// FailureOverride lets tests and scripted demos force an action's next
// outcome. A nil return falls through to the random draw.
type FailureOverride func(ActionType) *bool

// Outcome describes one executed (or attempted) action.
type Outcome struct {
	Action  Action
	Success bool
	Before  models.WorldState
	After   models.WorldState
	Reason  string // set on failure
}

// Executor applies plan actions one at a time against the live world state.
// The success draw comes from an injected seeded source so whole runs are
// reproducible.
type Executor struct {
	rng      *rand.Rand
	override FailureOverride
}

// NewExecutor builds an executor around the given random source.
func NewExecutor(rng *rand.Rand) *Executor {
	return &Executor{rng: rng}
}

// SetFailureOverride installs a forced-outcome hook.
func (e *Executor) SetFailureOverride(fn FailureOverride) {
	e.override = fn
}

// ExecuteNext runs the plan's next action against the live state.
//
// The precondition is re-checked against the live state, not the state the
// plan was built from; a mismatch marks the plan stale and returns a
// STALE_PLAN error without touching the world. A failed success draw marks
// the plan failed and returns an ACTION_FAILED error, again leaving the
// world unchanged. On success the effect is applied and the new state
// returned.
func (e *Executor) ExecuteNext(plan *Plan, state models.WorldState) (Outcome, models.WorldState, error) {
	action, ok := plan.Next()
	if !ok {
		plan.status = PlanSucceeded
		return Outcome{}, state, nil
	}
	plan.status = PlanRunning

	if !action.Precondition(state) {
		plan.status = PlanStale
		return Outcome{Action: action, Before: state, After: state}, state,
			NewError(CodeStalePlan,
				fmt.Sprintf("%s precondition no longer holds", action.Type), nil)
	}

	if !e.drawSuccess(action) {
		plan.status = PlanFailed
		reason := failureReason(action, state)
		return Outcome{Action: action, Before: state, After: state, Reason: reason}, state,
			NewError(CodeActionFailed,
				fmt.Sprintf("%s failed: %s", action.Type, reason), nil)
	}

	after := action.Effect(state)
	plan.cursor++
	if plan.cursor >= len(plan.Actions) {
		plan.status = PlanSucceeded
	}
	return Outcome{Action: action, Success: true, Before: state, After: after}, after, nil
}

func (e *Executor) drawSuccess(action Action) bool {
	if e.override != nil {
		if forced := e.override(action.Type); forced != nil {
			return *forced
		}
	}
	return e.rng.Float64() < action.SuccessProb
}

// failureReason synthesizes the cause stored in memory. The cases key off
// the action, citing the state the guardian was in when it went wrong.
func failureReason(action Action, state models.WorldState) string {
	switch action.Type {
	case ActionHealSelf:
		return fmt.Sprintf("the potion fizzled at %d health", state.Health)
	case ActionAttackEnemy:
		return fmt.Sprintf("the strike missed with %d stamina left", state.Stamina)
	case ActionRetreat:
		return "the escape route was cut off"
	case ActionDefendTreasure:
		return fmt.Sprintf("the defenses buckled at %s threat", state.TreasureThreat)
	case ActionCallBackup:
		return "no answer from the garrison"
	case ActionSearchForPotion:
		return "the cache was empty"
	default:
		return "the attempt came to nothing"
	}
}
