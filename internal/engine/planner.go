package engine

import (
	"container/heap"
	"fmt"

	"github.com/kestrelmoor/dungeon-guardian/internal/models"
)

// Default search bounds. The state space is finite but the planner still
// caps expansions so an unreachable goal fails fast instead of enumerating
// every corner of it.
const (
	DefaultMaxExpansions = 4096
	DefaultMaxDepth      = 32
)

// Plan is an ordered action sequence aimed at one goal, remembered together
// with the state it was computed from. A plan is single-use: it either runs
// to completion or is discarded on the first stale step or failure.
type Plan struct {
	Goal    Goal
	Origin  models.WorldState
	Actions []Action
	cursor  int
	status  PlanStatus
}

// ActionNames lists the remaining actions' names, for display.
func (p *Plan) ActionNames() []string {
	names := make([]string, 0, len(p.Actions)-p.cursor)
	for _, a := range p.Actions[p.cursor:] {
		names = append(names, string(a.Type))
	}
	return names
}

// Next returns the next action to execute, or false when the plan is spent.
func (p *Plan) Next() (Action, bool) {
	if p.cursor >= len(p.Actions) {
		return Action{}, false
	}
	return p.Actions[p.cursor], true
}

// Remaining reports how many actions are left to run.
func (p *Plan) Remaining() int {
	return len(p.Actions) - p.cursor
}

// Status returns the plan's execution state.
func (p *Plan) Status() PlanStatus {
	return p.status
}

// Planner searches the implicit graph of world states reachable through the
// catalog for a minimum-cost sequence satisfying a goal. Edge weights are
// action base costs plus the memory surcharge for recently failed actions,
// and the heuristic is the goal's unmet-atom count, so the search is A*
// with an admissible heuristic.
type Planner struct {
	catalog       []Action
	memory        *Memory
	maxExpansions int
	maxDepth      int
}

// NewPlanner builds a planner over the given catalog, consulting memory for
// cost surcharges. A nil memory plans on base costs alone.
func NewPlanner(catalog []Action, memory *Memory) *Planner {
	return &Planner{
		catalog:       catalog,
		memory:        memory,
		maxExpansions: DefaultMaxExpansions,
		maxDepth:      DefaultMaxDepth,
	}
}

// SetBounds overrides the expansion and depth caps. Values below one keep
// the current setting.
func (p *Planner) SetBounds(maxExpansions, maxDepth int) {
	if maxExpansions >= 1 {
		p.maxExpansions = maxExpansions
	}
	if maxDepth >= 1 {
		p.maxDepth = maxDepth
	}
}

type searchNode struct {
	state   models.WorldState
	actions []int // indices into the catalog, in execution order
	cost    float64
	f       float64 // cost + heuristic
	seq     int     // insertion order, final tie-break
}

type frontier []*searchNode

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].f != f[j].f {
		return f[i].f < f[j].f
	}
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(*searchNode)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return node
}

// Plan searches for the cheapest action sequence from state to a state
// satisfying goal. A goal already satisfied yields an empty plan without
// searching. Exhausting the budget returns a PLAN_NOT_FOUND error.
func (p *Planner) Plan(state models.WorldState, goal Goal) (*Plan, error) {
	if goal.Satisfied(state) {
		return &Plan{Goal: goal, Origin: state, status: PlanPending}, nil
	}

	open := &frontier{}
	heap.Init(open)
	seq := 0
	heap.Push(open, &searchNode{
		state: state,
		f:     float64(goal.Unmet(state)),
		seq:   seq,
	})

	best := map[string]float64{state.Key(): 0}
	expanded := 0

	for open.Len() > 0 {
		node := heap.Pop(open).(*searchNode)

		if goal.Satisfied(node.state) {
			return &Plan{
				Goal:    goal,
				Origin:  state,
				Actions: p.resolve(node.actions),
				status:  PlanPending,
			}, nil
		}

		expanded++
		if expanded > p.maxExpansions {
			break
		}
		if len(node.actions) >= p.maxDepth {
			continue
		}

		for i, action := range p.catalog {
			if !action.Precondition(node.state) {
				continue
			}
			next := action.Effect(node.state)
			cost := node.cost + p.edgeCost(action, node.state)
			key := next.Key()
			if prev, ok := best[key]; ok && prev <= cost {
				continue
			}
			best[key] = cost

			seq++
			actions := make([]int, len(node.actions)+1)
			copy(actions, node.actions)
			actions[len(node.actions)] = i
			heap.Push(open, &searchNode{
				state:   next,
				actions: actions,
				cost:    cost,
				f:       cost + float64(goal.Unmet(next)),
				seq:     seq,
			})
		}
	}

	return nil, NewError(CodePlanNotFound,
		fmt.Sprintf("no action sequence reaches goal %s within %d expansions", goal.Type, expanded),
		nil)
}

// EffectiveCost exposes the surcharged cost the search uses for an action
// from the given state.
func (p *Planner) EffectiveCost(action Action, state models.WorldState) float64 {
	return p.edgeCost(action, state)
}

func (p *Planner) edgeCost(action Action, state models.WorldState) float64 {
	cost := action.Cost
	if p.memory != nil {
		cost += p.memory.Surcharge(action.Type, state)
	}
	return cost
}

func (p *Planner) resolve(indices []int) []Action {
	actions := make([]Action, len(indices))
	for i, idx := range indices {
		actions[i] = p.catalog[idx]
	}
	return actions
}

// FallbackAction is what the executor reaches for when planning fails:
// Retreat when exposed, otherwise SearchForPotion, the two actions that are
// nearly always legal. Returns false when even those are unavailable.
func FallbackAction(catalog []Action, state models.WorldState) (Action, bool) {
	if !state.InSafeZone {
		if a, ok := FindAction(catalog, ActionRetreat); ok {
			return a, true
		}
	}
	if a, ok := FindAction(catalog, ActionSearchForPotion); ok && a.Precondition(state) {
		return a, true
	}
	return Action{}, false
}
