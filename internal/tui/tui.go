package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kestrelmoor/dungeon-guardian/internal/config"
	"github.com/kestrelmoor/dungeon-guardian/internal/engine"
	"github.com/kestrelmoor/dungeon-guardian/internal/models"
	"github.com/kestrelmoor/dungeon-guardian/internal/scenario"
)

type screen int

const (
	screenMenu screen = iota
	screenCustomForm
	screenRunning
	screenError
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	menuStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	goalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5FAF5F"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D75F5F")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))
)

// formField is one prompt of the custom-scenario form, mirroring the
// questions the interactive runner asks.
type formField struct {
	label       string
	placeholder string
}

var customForm = []formField{
	{"Guardian health (0-100)", "50"},
	{"Guardian stamina (0-20)", "10"},
	{"Potion count (0-5)", "1"},
	{"Treasure threat (low/medium/high)", "low"},
	{"Enemy nearby? (y/n)", "n"},
	{"In safe zone? (y/n)", "y"},
	{"Backup available? (y/n)", "y"},
	{"Maximum steps (5-30)", "15"},
}

type model struct {
	cfg *config.Config
	log *zap.Logger

	screen    screen
	textInput textinput.Model
	viewport  viewport.Model
	width     int
	height    int
	err       error

	// custom form
	formIdx     int
	formAnswers []string
	formNotice  string

	// run state
	queue    []scenario.Scenario // remaining scenarios (run-all queues several)
	scn      scenario.Scenario
	agent    *engine.Agent
	stepNum  int
	runLog   string
	lastGoal engine.GoalType
	runDone  bool
	doneNote string
}

// Run starts the interactive runner.
func Run(cfg *config.Config, log *zap.Logger) error {
	p := tea.NewProgram(newModel(cfg, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(cfg *config.Config, log *zap.Logger) model {
	ti := textinput.New()
	ti.CharLimit = 32
	ti.Width = 24

	return model{
		cfg:       cfg,
		log:       log,
		screen:    screenMenu,
		textInput: ti,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}

		switch m.screen {
		case screenMenu:
			return m.updateMenu(msg)
		case screenCustomForm:
			if msg.Type == tea.KeyEnter {
				return m.submitFormField()
			}
		case screenRunning:
			if msg.Type == tea.KeyEnter {
				return m.advance()
			}
		case screenError:
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.72)
		m.viewport.Height = msg.Height - 6
		if m.screen == screenRunning {
			m.viewport.SetContent(m.runLog)
		}
	}

	switch m.screen {
	case screenCustomForm:
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	case screenRunning:
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "1":
		m.queue = scenario.Presets()
		return m.startNext()
	case "2":
		m.screen = screenCustomForm
		m.formIdx = 0
		m.formAnswers = nil
		m.formNotice = ""
		m.textInput.Placeholder = customForm[0].placeholder
		m.textInput.Reset()
		m.textInput.Focus()
		return m, textinput.Blink
	case "3":
		demo, _ := scenario.Preset("Last Stand")
		m.queue = []scenario.Scenario{demo}
		return m.startNext()
	case "4", "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) submitFormField() (tea.Model, tea.Cmd) {
	answer := strings.TrimSpace(m.textInput.Value())
	if answer == "" {
		answer = customForm[m.formIdx].placeholder
	}
	m.formAnswers = append(m.formAnswers, answer)
	m.textInput.Reset()
	m.formIdx++

	if m.formIdx < len(customForm) {
		m.textInput.Placeholder = customForm[m.formIdx].placeholder
		return m, nil
	}

	scn, err := parseCustomScenario(m.formAnswers)
	if err != nil {
		// Same behavior as the classic runner: bad input falls back to a
		// sensible default scenario instead of aborting.
		m.formNotice = fmt.Sprintf("Invalid input (%v) — using the default scenario.", err)
		scn = scenario.Scenario{
			Name:        "Custom Scenario",
			Description: "Default custom scenario.",
			State: models.WorldState{
				Health: 50, Stamina: 10, Potions: 1,
				TreasureThreat: models.ThreatLow,
				EnemyNearby:    false, InSafeZone: true, BackupAvailable: true,
			},
		}
	}
	m.queue = []scenario.Scenario{scn}
	return m.startNext()
}

func parseCustomScenario(answers []string) (scenario.Scenario, error) {
	health, err := strconv.Atoi(answers[0])
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("health: %w", err)
	}
	stamina, err := strconv.Atoi(answers[1])
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("stamina: %w", err)
	}
	potions, err := strconv.Atoi(answers[2])
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("potions: %w", err)
	}
	threat, err := models.ParseThreatLevel(strings.ToLower(answers[3]))
	if err != nil {
		return scenario.Scenario{}, err
	}
	maxSteps, err := strconv.Atoi(answers[7])
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("max steps: %w", err)
	}

	scn := scenario.Scenario{
		Name:        "Custom Scenario",
		Description: "Built from the custom scenario form.",
		State: models.WorldState{
			Health:          health,
			Stamina:         stamina,
			Potions:         potions,
			TreasureThreat:  threat,
			EnemyNearby:     yes(answers[4]),
			InSafeZone:      yes(answers[5]),
			BackupAvailable: yes(answers[6]),
		},
		MaxSteps: maxSteps,
	}
	if err := scn.Validate(); err != nil {
		return scenario.Scenario{}, err
	}
	return scn, nil
}

func yes(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "y")
}

// startNext pops the next queued scenario and builds a fresh agent for it.
func (m model) startNext() (tea.Model, tea.Cmd) {
	if len(m.queue) == 0 {
		m.screen = screenMenu
		return m, nil
	}
	m.scn = m.queue[0]
	m.queue = m.queue[1:]

	opts := []engine.Option{
		engine.WithLogger(m.log),
		engine.WithPlannerBounds(m.cfg.Planner.MaxExpansions, m.cfg.Planner.MaxDepth),
	}
	if m.cfg.Sim.Seed != 0 {
		// A configured seed replays runs exactly; 0 stays on the clock.
		opts = append(opts, engine.WithSeed(m.cfg.Sim.Seed))
	}
	agent, err := engine.NewAgent(m.scn.State, opts...)
	if err != nil {
		m.err = err
		m.screen = screenError
		return m, nil
	}
	m.agent = agent
	m.stepNum = 0
	m.runDone = false
	m.doneNote = ""
	m.screen = screenRunning

	header := titleStyle.Render(m.scn.Name)
	if m.scn.Description != "" {
		header += "\n" + dimStyle.Render(m.scn.Description)
	}
	if m.formNotice != "" {
		header += "\n" + failStyle.Render(m.formNotice)
		m.formNotice = ""
	}
	m.runLog = header + "\n\n"

	if m.viewport.Width == 0 {
		m.viewport = viewport.New(int(float64(m.width)*0.72), m.height-6)
	}
	m.viewport.SetContent(m.runLog)
	return m, nil
}

// advance executes one agent step, applies any scripted events that follow
// it, and appends the report to the log.
func (m model) advance() (tea.Model, tea.Cmd) {
	if m.runDone {
		if len(m.queue) > 0 {
			return m.startNext()
		}
		m.screen = screenMenu
		return m, nil
	}

	m.stepNum++
	report := m.agent.Step()
	m.lastGoal = report.Goal
	m.runLog += renderReport(report, m.viewport.Width)

	if report.GoalSatisfied {
		m.runDone = true
		m.doneNote = fmt.Sprintf("Goal %s satisfied after %d step(s).", report.Goal, m.stepNum)
	} else if m.stepNum >= m.scn.Steps() {
		m.runDone = true
		m.doneNote = fmt.Sprintf("Step limit (%d) reached.", m.scn.Steps())
	} else {
		for _, ev := range m.scn.Events {
			if ev.AfterStep == m.stepNum {
				m.agent.ApplyEvent(ev.Patch)
				note := ev.Note
				if note == "" {
					note = "the world shifts"
				}
				m.runLog += dimStyle.Render("  [event] "+note) + "\n"
			}
		}
	}

	if m.runDone {
		m.runLog += "\n" + okStyle.Render(m.doneNote) + "\n"
	}

	m.viewport.SetContent(m.runLog)
	m.viewport.GotoBottom()
	return m, nil
}

func renderReport(r *engine.StepReport, width int) string {
	var b strings.Builder

	b.WriteString(goalStyle.Render(fmt.Sprintf(" Step %d — %s ", r.Step, r.Goal)))
	b.WriteString("\n")
	b.WriteString(wrap("  "+r.Rationale, width))
	b.WriteString("\n")

	if r.GoalSatisfied {
		b.WriteString(okStyle.Render("  " + r.PlanJustification))
		b.WriteString("\n\n")
		return b.String()
	}

	if r.Replanned {
		if r.NoPlan {
			b.WriteString(failStyle.Render("  no plan found"))
			b.WriteString("\n")
		} else if len(r.PlanSteps) > 0 {
			b.WriteString(dimStyle.Render("  plan: " + strings.Join(r.PlanSteps, " → ")))
			b.WriteString("\n")
		}
		b.WriteString(wrap("  "+r.PlanJustification, width))
		b.WriteString("\n")
	}

	if r.Executed {
		line := fmt.Sprintf("  %s — %s", r.Action, r.ActionJustification)
		if r.Success {
			b.WriteString(wrap(line+" "+okStyle.Render("[ok]"), width))
			b.WriteString("\n")
		} else {
			b.WriteString(wrap(line+" "+failStyle.Render("[failed]"), width))
			b.WriteString("\n")
			b.WriteString(wrap("  "+failStyle.Render(r.Reflection), width))
			b.WriteString("\n")
		}
	}

	b.WriteString(dimStyle.Render("  " + r.After.String()))
	b.WriteString("\n\n")
	return b.String()
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

func (m model) View() string {
	var s string

	switch m.screen {
	case screenMenu:
		s = titleStyle.Render("DUNGEON GUARDIAN SIMULATOR") + "\n\n" +
			menuStyle.Render("1. Run all preset scenarios\n2. Create custom scenario\n3. Quick demo (Last Stand)\n4. Exit") + "\n\n" +
			helpStyle.Render("Choose an option (1-4). Esc quits.")

	case screenCustomForm:
		s = titleStyle.Render("CUSTOM SCENARIO") + "\n\n" +
			customForm[m.formIdx].label + ":\n\n" +
			m.textInput.View() + "\n\n" +
			helpStyle.Render("Enter accepts; empty uses the suggested value.")

	case screenRunning:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)
		help := "Enter: next step · Esc: quit"
		if m.runDone {
			if len(m.queue) > 0 {
				help = "Enter: next scenario · Esc: quit"
			} else {
				help = "Enter: back to menu · Esc: quit"
			}
		}
		s = lipgloss.JoinVertical(lipgloss.Left, mainView, "\n"+helpStyle.Render(help))

	case screenError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress any key to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) renderState() string {
	if m.agent == nil {
		return ""
	}
	state := m.agent.State()

	content := titleStyle.Render("GUARDIAN") + "\n" +
		fmt.Sprintf("Health:  %d/%d\n", state.Health, models.MaxHealth) +
		fmt.Sprintf("Stamina: %d/%d\n", state.Stamina, models.MaxStamina) +
		fmt.Sprintf("Potions: %d\n\n", state.Potions) +
		titleStyle.Render("DUNGEON") + "\n" +
		fmt.Sprintf("Threat:  %s\n", state.TreasureThreat) +
		fmt.Sprintf("Enemy:   %s\n", yn(state.EnemyNearby)) +
		fmt.Sprintf("Safe:    %s\n", yn(state.InSafeZone)) +
		fmt.Sprintf("Backup:  %s\n\n", yn(state.BackupAvailable)) +
		titleStyle.Render("MIND") + "\n" +
		fmt.Sprintf("Goal:     %s\n", m.lastGoal) +
		fmt.Sprintf("Failures: %d\n", m.agent.Memory().Len())

	stateWidth := int(float64(m.width) * 0.24)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(content)
}

func yn(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
