package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/kestrelmoor/dungeon-guardian/internal/engine"
	"github.com/kestrelmoor/dungeon-guardian/internal/scenario"
)

// Fixed seed so a simulation transcript is comparable across runs.
const simSeed = 1337

func main() {
	for _, scn := range scenario.Presets() {
		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("SCENARIO: %s\n", scn.Name)
		fmt.Printf("%s\n", scn.Description)
		fmt.Println(strings.Repeat("=", 60))

		agent, err := engine.NewAgent(scn.State, engine.WithSeed(simSeed))
		if err != nil {
			log.Fatalf("Failed to create agent for %q: %v", scn.Name, err)
		}

		result := scenario.Run(agent, scn)
		for _, report := range result.Reports {
			printReport(report)
		}

		fmt.Printf("\nOutcome: %s after %d step(s), %d failure(s)\n",
			result.Outcome, len(result.Reports), result.Failures)
		fmt.Printf("Final state: %s\n\n", result.Final)
	}
}

func printReport(r *engine.StepReport) {
	fmt.Printf("\n--- Step %d ---\n", r.Step)
	fmt.Printf("Goal: %s\n", r.Goal)
	fmt.Printf("Why: %s\n", r.Rationale)

	if r.GoalSatisfied {
		fmt.Printf("%s\n", r.PlanJustification)
		return
	}

	if r.Replanned {
		if r.NoPlan {
			fmt.Println("No plan found.")
		} else if len(r.PlanSteps) > 0 {
			fmt.Printf("Plan: %s\n", strings.Join(r.PlanSteps, " -> "))
		}
		fmt.Printf("Reasoning: %s\n", r.PlanJustification)
	}

	if r.Executed {
		status := "ok"
		if !r.Success {
			status = "FAILED"
		}
		fmt.Printf("Action: %s (%s) [%s]\n", r.Action, r.ActionJustification, status)
		if !r.Success {
			fmt.Printf("Reflection: %s\n", r.Reflection)
		}
	}

	fmt.Printf("State: %s\n", r.After)
}
