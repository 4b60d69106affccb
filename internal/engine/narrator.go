package engine

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/kestrelmoor/dungeon-guardian/internal/models"
)

//go:embed templates/*.txt
var templateFS embed.FS

// Narrator turns goals, plans, actions and memories into display text. It is
// a pure formatting layer over an enumerated template set: it makes no
// decisions and nothing downstream depends on its output.
type Narrator struct {
	tmpl *template.Template
}

// NewNarrator parses the embedded template set.
func NewNarrator() (*Narrator, error) {
	tmpl := template.New("narrator").Funcs(template.FuncMap{
		"join": strings.Join,
	})
	tmpl, err := tmpl.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parsing narration templates: %w", err)
	}
	return &Narrator{tmpl: tmpl}, nil
}

type narration struct {
	Goal     GoalType
	State    models.WorldState
	Critical int
	Steps    []string
	First    string
	Fallback string
	Record   MemoryRecord
}

// GoalRationale explains why the selector picked this goal, citing the
// variable values that triggered its rule.
func (n *Narrator) GoalRationale(goal Goal, state models.WorldState) string {
	return n.render("goal_"+string(goal.Type), narration{
		Goal:     goal.Type,
		State:    state,
		Critical: CriticalHealth,
	})
}

// ActionJustification explains one action in the context of the state it
// will run against.
func (n *Narrator) ActionJustification(action Action, state models.WorldState) string {
	return n.render("action_"+string(action.Type), narration{State: state})
}

// PlanJustification summarizes a freshly computed plan: the goal, the step
// names, and the reasoning for the first step.
func (n *Narrator) PlanJustification(plan *Plan, state models.WorldState) string {
	if len(plan.Actions) == 0 {
		return n.render("plan_empty", narration{Goal: plan.Goal.Type, State: state})
	}
	return n.render("plan", narration{
		Goal:  plan.Goal.Type,
		State: state,
		Steps: plan.ActionNames(),
		First: n.ActionJustification(plan.Actions[0], state),
	})
}

// NoPlan explains a failed search and the fallback taken, if any.
func (n *Narrator) NoPlan(goal Goal, state models.WorldState, fallback *Action) string {
	if fallback == nil {
		return n.render("no_plan_stuck", narration{Goal: goal.Type, State: state})
	}
	return n.render("no_plan", narration{
		Goal:     goal.Type,
		State:    state,
		Fallback: n.ActionJustification(*fallback, state),
	})
}

// Reflection voices the guardian's reaction to a recorded failure.
func (n *Narrator) Reflection(rec MemoryRecord) string {
	return n.render("reflection", narration{Record: rec, State: rec.State})
}

func (n *Narrator) render(name string, data narration) string {
	var buf bytes.Buffer
	if err := n.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		// Narration must never break a tick; fall back to the bare name.
		return name
	}
	return buf.String()
}
