// Package scenario supplies initial world states and scripted exogenous
// events to the agent engine. Scenarios come from the built-in presets or
// from YAML files; the engine itself never reads files.
package scenario

import (
	"fmt"

	"github.com/kestrelmoor/dungeon-guardian/internal/engine"
	"github.com/kestrelmoor/dungeon-guardian/internal/models"
)

// Step-count clamp for a single run.
const (
	MinSteps     = 5
	MaxSteps     = 30
	DefaultSteps = 15
)

// Event is an exogenous world change applied after the given step, before
// the next one. The agent did not cause it; if it breaks the plan in
// flight, the stale-plan check catches that on the next tick.
type Event struct {
	AfterStep int               `yaml:"after_step"`
	Note      string            `yaml:"note,omitempty"`
	Patch     models.StatePatch `yaml:"patch"`
}

// Scenario is an initial world state plus an optional event script.
type Scenario struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	State       models.WorldState `yaml:"state"`
	MaxSteps    int               `yaml:"max_steps,omitempty"`
	Events      []Event           `yaml:"events,omitempty"`
}

// Steps returns the scenario's step budget clamped into range.
func (s Scenario) Steps() int {
	steps := s.MaxSteps
	if steps == 0 {
		steps = DefaultSteps
	}
	if steps < MinSteps {
		steps = MinSteps
	}
	if steps > MaxSteps {
		steps = MaxSteps
	}
	return steps
}

// Validate checks the initial state and the event script.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario has no name")
	}
	if err := s.State.Validate(); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	for i, ev := range s.Events {
		if ev.AfterStep < 0 {
			return fmt.Errorf("scenario %q: event %d has negative after_step", s.Name, i)
		}
	}
	return nil
}

// Result is one finished run.
type Result struct {
	Scenario Scenario
	Reports  []*engine.StepReport
	Outcome  engine.RunOutcome
	Final    models.WorldState
	Failures int
}

// Run drives an agent through the scenario, applying scripted events
// between ticks. The run ends when the step budget is spent, or when the
// goal is satisfied and no events remain to disturb the world.
func Run(agent *engine.Agent, scn Scenario) Result {
	result := Result{Scenario: scn}
	steps := scn.Steps()

	for step := 1; step <= steps; step++ {
		report := agent.Step()
		result.Reports = append(result.Reports, report)

		if report.GoalSatisfied && !eventsPending(scn.Events, step) {
			result.Outcome = engine.RunGoalSatisfied
			result.Final = agent.State()
			result.Failures = agent.Memory().Len()
			return result
		}

		for _, ev := range scn.Events {
			if ev.AfterStep == step {
				agent.ApplyEvent(ev.Patch)
			}
		}
	}

	result.Outcome = engine.RunStepLimit
	result.Final = agent.State()
	result.Failures = agent.Memory().Len()
	return result
}

func eventsPending(events []Event, step int) bool {
	for _, ev := range events {
		if ev.AfterStep >= step {
			return true
		}
	}
	return false
}

func boolp(v bool) *bool { return &v }

// Presets returns the built-in scenarios in menu order.
func Presets() []Scenario {
	return []Scenario{
		{
			Name:        "Critical Survival",
			Description: "Badly hurt, no potions, enemy closing in, out in the open.",
			State: models.WorldState{
				Health: 20, Stamina: 10, Potions: 0,
				TreasureThreat: models.ThreatLow,
				EnemyNearby:    true, InSafeZone: false, BackupAvailable: true,
			},
		},
		{
			Name:        "Combat Ready",
			Description: "Strong and stocked while the treasure is under direct assault.",
			State: models.WorldState{
				Health: 85, Stamina: 18, Potions: 2,
				TreasureThreat: models.ThreatHigh,
				EnemyNearby:    true, InSafeZone: true, BackupAvailable: true,
			},
		},
		{
			Name:        "Treasure Under Siege",
			Description: "No enemy in sight but the hoard is at high threat and no backup answers.",
			State: models.WorldState{
				Health: 60, Stamina: 12, Potions: 1,
				TreasureThreat: models.ThreatHigh,
				EnemyNearby:    false, InSafeZone: true, BackupAvailable: false,
			},
		},
		{
			Name:        "Calm Watch",
			Description: "A quiet shift. The guardian keeps its stores topped up.",
			State: models.WorldState{
				Health: 95, Stamina: 20, Potions: 1,
				TreasureThreat: models.ThreatLow,
				EnemyNearby:    false, InSafeZone: true, BackupAvailable: true,
			},
		},
		{
			Name:        "Last Stand",
			Description: "Nearly spent, exposed, treasure at high threat, and the enemy keeps coming.",
			State: models.WorldState{
				Health: 15, Stamina: 3, Potions: 0,
				TreasureThreat: models.ThreatHigh,
				EnemyNearby:    true, InSafeZone: false, BackupAvailable: true,
			},
			MaxSteps: 8,
			Events: []Event{
				{
					AfterStep: 3,
					Note:      "another intruder slips in",
					Patch:     models.StatePatch{EnemyNearby: boolp(true)},
				},
			},
		},
	}
}

// Preset looks a built-in scenario up by name.
func Preset(name string) (Scenario, bool) {
	for _, scn := range Presets() {
		if scn.Name == name {
			return scn, true
		}
	}
	return Scenario{}, false
}
