package engine

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/kestrelmoor/dungeon-guardian/internal/models"
)

// Agent is the session object for one simulation run: the live world state,
// the failure memory, and the planning machinery, threaded explicitly
// through every tick. There is no shared global state; two Agents never
// interact.
type Agent struct {
	state    models.WorldState
	memory   *Memory
	catalog  []Action
	planner  *Planner
	executor *Executor
	narrator *Narrator
	log      *zap.Logger

	plan *Plan
	step int
}

// Option configures an Agent at construction.
type Option func(*Agent)

// WithSeed fixes the executor's random source so a run replays exactly.
func WithSeed(seed int64) Option {
	return func(a *Agent) {
		a.executor = NewExecutor(rand.New(rand.NewSource(seed)))
	}
}

// WithLogger attaches a structured logger. Defaults to zap.NewNop.
func WithLogger(log *zap.Logger) Option {
	return func(a *Agent) {
		a.log = log
	}
}

// WithPlannerBounds overrides the search expansion and depth caps.
func WithPlannerBounds(maxExpansions, maxDepth int) Option {
	return func(a *Agent) {
		a.planner.SetBounds(maxExpansions, maxDepth)
	}
}

// WithFailureOverride forces action outcomes, for tests and scripted demos.
func WithFailureOverride(fn FailureOverride) Option {
	return func(a *Agent) {
		a.executor.SetFailureOverride(fn)
	}
}

// NewAgent validates the initial state and assembles a session around it.
func NewAgent(state models.WorldState, opts ...Option) (*Agent, error) {
	if err := state.Validate(); err != nil {
		return nil, NewError(CodeInvalidState, "initial world state rejected", err)
	}
	narrator, err := NewNarrator()
	if err != nil {
		return nil, err
	}

	memory := NewMemory()
	catalog := Catalog()
	a := &Agent{
		state:    state,
		memory:   memory,
		catalog:  catalog,
		planner:  NewPlanner(catalog, memory),
		executor: NewExecutor(rand.New(rand.NewSource(time.Now().UnixNano()))),
		narrator: narrator,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// State returns the live world state.
func (a *Agent) State() models.WorldState {
	return a.state
}

// Memory returns the agent's failure log.
func (a *Agent) Memory() *Memory {
	return a.memory
}

// Planner returns the agent's planner, mainly so tests can inspect
// surcharged costs.
func (a *Agent) Planner() *Planner {
	return a.planner
}

// ApplyEvent applies an exogenous world change between ticks. Any plan in
// flight is kept; if the change broke its assumptions the next precondition
// check will mark it stale.
func (a *Agent) ApplyEvent(patch models.StatePatch) {
	if patch.IsZero() {
		return
	}
	before := a.state
	a.state = patch.Apply(a.state)
	a.log.Info("exogenous event",
		zap.String("before", before.String()),
		zap.String("after", a.state.String()))
}

// StepReport is everything the display layer gets for one tick. The core
// never prints; it reports.
type StepReport struct {
	Step          int
	Goal          GoalType
	Rationale     string
	GoalSatisfied bool

	Replanned         bool
	NoPlan            bool
	PlanSteps         []string
	PlanJustification string

	Action              string
	ActionJustification string
	Executed            bool
	Success             bool
	FailureReason       string
	Reflection          string

	Before     models.WorldState
	After      models.WorldState
	PlanStatus PlanStatus
}

// Step runs one tick: re-select the goal, replan if the current plan is
// missing, finished, stale, failed or aimed at a different goal, then
// execute at most one action. A stale precondition triggers one replan
// within the same tick; a simulated failure is recorded to memory and
// leaves replanning to the next tick.
func (a *Agent) Step() *StepReport {
	a.step++
	report := &StepReport{Step: a.step, Before: a.state}

	goal := SelectGoal(a.state)
	report.Goal = goal.Type
	report.Rationale = a.narrator.GoalRationale(goal, a.state)

	if goal.Satisfied(a.state) {
		a.plan = nil
		report.GoalSatisfied = true
		report.PlanJustification = a.narrator.PlanJustification(
			&Plan{Goal: goal, Origin: a.state}, a.state)
		report.After = a.state
		a.log.Info("goal already satisfied",
			zap.String("goal", string(goal.Type)),
			zap.Int("step", a.step))
		return report
	}

	// One replan retry covers the stale-plan case within a single tick.
	for attempt := 0; attempt < 2; attempt++ {
		if a.needsPlan(goal) {
			if !a.replan(goal, report) {
				report.After = a.state
				return report
			}
		}

		outcome, next, err := a.executor.ExecuteNext(a.plan, a.state)
		if err != nil {
			if IsCode(err, CodeStalePlan) {
				a.log.Info("plan went stale",
					zap.String("action", string(outcome.Action.Type)),
					zap.Int("step", a.step))
				a.plan = nil
				continue
			}
			// Simulated action failure: record, reflect, replan next tick.
			rec := a.memory.Record(outcome.Action.Type, a.state, outcome.Reason)
			report.Action = string(outcome.Action.Type)
			report.ActionJustification = a.narrator.ActionJustification(outcome.Action, a.state)
			report.Executed = true
			report.FailureReason = outcome.Reason
			report.Reflection = a.narrator.Reflection(rec)
			report.PlanStatus = a.plan.Status()
			report.After = a.state
			a.plan = nil
			a.log.Warn("action failed",
				zap.String("action", string(outcome.Action.Type)),
				zap.String("reason", outcome.Reason),
				zap.Int("failures", a.memory.Len()),
				zap.Int("step", a.step))
			return report
		}

		report.Action = string(outcome.Action.Type)
		report.ActionJustification = a.narrator.ActionJustification(outcome.Action, outcome.Before)
		report.Executed = true
		report.Success = true
		report.PlanStatus = a.plan.Status()
		a.state = next
		if a.plan.Status() == PlanSucceeded {
			a.plan = nil
		}
		report.After = a.state
		a.log.Info("action applied",
			zap.String("action", report.Action),
			zap.String("state", a.state.String()),
			zap.Int("step", a.step))
		return report
	}

	// Two stale plans in one tick: give up until the next one.
	report.After = a.state
	return report
}

func (a *Agent) needsPlan(goal Goal) bool {
	if a.plan == nil {
		return true
	}
	if a.plan.Goal.Type != goal.Type {
		return true
	}
	switch a.plan.Status() {
	case PlanStale, PlanFailed, PlanSucceeded:
		return true
	}
	return a.plan.Remaining() == 0
}

// replan computes a fresh plan, falling back to the default safety action
// when the search comes up empty. Returns false when the tick should end
// without executing anything.
func (a *Agent) replan(goal Goal, report *StepReport) bool {
	plan, err := a.planner.Plan(a.state, goal)
	if err == nil {
		a.plan = plan
		report.Replanned = true
		report.PlanSteps = plan.ActionNames()
		report.PlanJustification = a.narrator.PlanJustification(plan, a.state)
		a.log.Info("plan computed",
			zap.String("goal", string(goal.Type)),
			zap.Strings("actions", plan.ActionNames()),
			zap.Int("step", a.step))
		return true
	}

	if !IsCode(err, CodePlanNotFound) {
		// The planner only fails with PLAN_NOT_FOUND; anything else is a bug
		// worth surfacing loudly in the log, but the tick still ends safely.
		a.log.Error("planner error", zap.Error(err))
		report.NoPlan = true
		return false
	}

	report.NoPlan = true
	report.Replanned = true
	fallback, ok := FallbackAction(a.catalog, a.state)
	if !ok {
		report.PlanJustification = a.narrator.NoPlan(goal, a.state, nil)
		a.log.Warn("no plan and no fallback", zap.String("goal", string(goal.Type)))
		return false
	}
	a.plan = &Plan{Goal: goal, Origin: a.state, Actions: []Action{fallback}, status: PlanPending}
	report.PlanSteps = a.plan.ActionNames()
	report.PlanJustification = a.narrator.NoPlan(goal, a.state, &fallback)
	a.log.Warn("no plan found, using fallback",
		zap.String("goal", string(goal.Type)),
		zap.String("fallback", string(fallback.Type)))
	return true
}

// RunOutcome says how a bounded run ended.
type RunOutcome int

const (
	RunGoalSatisfied RunOutcome = iota
	RunStepLimit
)

func (o RunOutcome) String() string {
	if o == RunGoalSatisfied {
		return "goal satisfied"
	}
	return "step limit reached"
}

// Run steps the agent until the selected goal is satisfied or maxSteps
// ticks have passed, returning every report. Scenario scripts with
// exogenous events drive Step directly instead.
func (a *Agent) Run(maxSteps int) ([]*StepReport, RunOutcome) {
	var reports []*StepReport
	for i := 0; i < maxSteps; i++ {
		report := a.Step()
		reports = append(reports, report)
		if report.GoalSatisfied {
			return reports, RunGoalSatisfied
		}
	}
	return reports, RunStepLimit
}
