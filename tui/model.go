package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wricardo/mcp-training/t1000mission/game/engine"
	"github.com/wricardo/mcp-training/t1000mission/game/mission"
	"github.com/wricardo/mcp-training/t1000mission/game/script"
)

// Controller is the part of a mission controller the TUI drives.
// *mission.Controller satisfies it.
type Controller interface {
	StartMission(ctx context.Context) (*engine.MissionState, error)
	SubmitInstructions(ctx context.Context, instructions []engine.Instruction) (*engine.MissionState, error)
	PlanRoute(ctx context.Context) ([]engine.Instruction, error)
	State(ctx context.Context) (*engine.MissionState, error)
}

// EventChannel is a mission.Publisher feeding the TUI. Events are dropped
// when the buffer is full so the controller loop never waits on rendering.
type EventChannel chan mission.Event

// NewEventChannel creates an EventChannel with the given buffer size
func NewEventChannel(size int) EventChannel {
	return make(EventChannel, size)
}

// Publish implements mission.Publisher
func (c EventChannel) Publish(e mission.Event) {
	select {
	case c <- e:
	default:
	}
}

// eventMsg carries a controller event into the update loop
type eventMsg mission.Event

// stateMsg carries a fresh snapshot
type stateMsg struct {
	state *engine.MissionState
}

// planMsg carries a suggested route
type planMsg struct {
	instructions []engine.Instruction
}

// errMsg reports a failed controller call
type errMsg struct {
	err error
}

// Model is the bubbletea model of a single local mission
type Model struct {
	ctx    context.Context
	ctrl   Controller
	events EventChannel

	title  string
	state  *engine.MissionState
	input  textinput.Model
	keys   KeyMap
	help   help.Model
	status string
	err    error
	width  int
	height int
}

// NewModel creates the TUI model. events may be nil when the controller
// publishes nowhere; the view then refreshes only after its own calls.
func NewModel(ctx context.Context, title string, ctrl Controller, events EventChannel) Model {
	input := textinput.New()
	input.Placeholder = "right 3; down 2"
	input.Prompt = "> "
	input.CharLimit = 120
	input.Width = 40

	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		events: events,
		title:  title,
		input:  input,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.waitForEvent(),
		m.refreshState(),
	)
}

func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func (m Model) refreshState() tea.Cmd {
	return func() tea.Msg {
		state, err := m.ctrl.State(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return stateMsg{state}
	}
}

func (m Model) startMission() tea.Cmd {
	return func() tea.Msg {
		state, err := m.ctrl.StartMission(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return stateMsg{state}
	}
}

func (m Model) submit(instructions []engine.Instruction) tea.Cmd {
	return func() tea.Msg {
		state, err := m.ctrl.SubmitInstructions(m.ctx, instructions)
		if err != nil {
			return errMsg{err}
		}
		return stateMsg{state}
	}
}

func (m Model) planRoute() tea.Cmd {
	return func() tea.Msg {
		instructions, err := m.ctrl.PlanRoute(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return planMsg{instructions}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		if msg.State != nil {
			m.setState(msg.State)
		}
		if msg.Type == mission.EventMissionStarted {
			m.status = ""
		}
		return m, m.waitForEvent()

	case stateMsg:
		m.err = nil
		m.setState(msg.state)
		return m, nil

	case planMsg:
		m.err = nil
		m.input.SetValue(script.Format(msg.instructions))
		m.input.CursorEnd()
		m.status = fmt.Sprintf("Suggested route: %d instructions", len(msg.instructions))
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	typing := m.input.Focused()

	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case !typing && key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case msg.Type == tea.KeyCtrlN, !typing && key.Matches(msg, m.keys.NewMission):
		m.input.Reset()
		m.err = nil
		m.status = "Starting a new mission..."
		return m, m.startMission()
	case key.Matches(msg, m.keys.Plan):
		if !typing {
			return m, nil
		}
		return m, m.planRoute()
	case key.Matches(msg, m.keys.Clear):
		m.input.Reset()
		m.err = nil
		return m, nil
	case typing && key.Matches(msg, m.keys.Submit):
		instructions, err := script.Parse(m.input.Value())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.status = "Instructions sent: " + script.Format(instructions)
		m.input.Reset()
		return m, m.submit(instructions)
	}

	if !typing {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// setState keeps the prompt focused exactly while instructions are accepted
func (m *Model) setState(state *engine.MissionState) {
	m.state = state
	if state.Phase == engine.PhaseAwaitingInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("T-1000 // " + m.title))
	b.WriteString("\n\n")

	if m.state == nil {
		b.WriteString(DimStyle.Render("Connecting to mission controller..."))
		b.WriteString("\n")
		return b.String()
	}

	if len(m.state.BoardView) > 0 {
		b.WriteString(BoardStyle.Render(renderBoard(m.state.BoardView)))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s  robot (%d,%d)  missions %d\n",
		PhaseStyle.Render(strings.ToUpper(string(m.state.Phase))),
		m.state.RobotPos.X, m.state.RobotPos.Y, m.state.MissionsPlayed)

	if outcome := m.state.Outcome; outcome != nil {
		style := FailureStyle
		if outcome.Success {
			style = SuccessStyle
		}
		b.WriteString(style.Render(string(outcome.Code)))
		b.WriteString(" ")
	}
	if m.state.Message != "" {
		b.WriteString(MessageStyle.Render(m.state.Message))
	}
	b.WriteString("\n\n")

	if m.state.Phase == engine.PhaseAwaitingInput {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(DimStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderBoard colors each cell of the letter rows
func renderBoard(rows []string) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		cells := make([]string, 0, len(row))
		for _, letter := range row {
			cells = append(cells, renderCell(letter))
		}
		lines[i] = strings.Join(cells, " ")
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
