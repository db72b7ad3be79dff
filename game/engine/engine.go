package engine

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Engine owns one mission state and applies the game rules to it.
// It has no timers and is not safe for concurrent use; mission.Controller
// serializes every call.
type Engine struct {
	state  *MissionState
	config *MissionConfig
	rng    *rand.Rand
	now    func() time.Time
	newID  func() string

	// execution cursor
	slot  int
	taken int
	start Position
}

// Option customizes an Engine
type Option func(*Engine)

// WithRand sets the random source used for placement and dog moves
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithSeed makes placement and dog moves reproducible
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithClock overrides the time source used for mission records
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *MissionConfig, opts ...Option) (*Engine, error) {
	if err := ValidateMissionConfig(config); err != nil {
		return nil, err
	}

	e := &Engine{
		config: config,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed := uint64(time.Now().UnixNano())
		e.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	e.state = &MissionState{
		Phase:      PhaseIdle,
		BoardSize:  config.BoardSize,
		Board:      NewBoard(config.BoardSize),
		ConfigName: config.Name,
		History:    []MissionRecord{},
	}
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the classic configuration
func NewEngineWithDefaults(opts ...Option) *Engine {
	e, err := NewEngine(DefaultMissionConfig(), opts...)
	if err != nil {
		panic(fmt.Sprintf("default mission config is invalid: %v", err))
	}
	return e
}

// GetState returns the live mission state
func (e *Engine) GetState() *MissionState {
	return e.state
}

// Snapshot returns a deep copy of the state with the text board view filled in
func (e *Engine) Snapshot() *MissionState {
	s := e.state.Clone()
	s.BoardView = buildBoardView(s, e.config)
	return s
}

// GetConfig returns the mission configuration
func (e *Engine) GetConfig() *MissionConfig {
	return e.config
}

// Phase returns the current lifecycle phase
func (e *Engine) Phase() Phase {
	return e.state.Phase
}

// GetRobotPosition returns the robot position
func (e *Engine) GetRobotPosition() Position {
	return e.state.RobotPos
}

// GetHistory returns all resolved missions, oldest first
func (e *Engine) GetHistory() []MissionRecord {
	return e.state.History
}

// RestoreHistory replaces the mission history (used for persistence loading)
func (e *Engine) RestoreHistory(records []MissionRecord) {
	e.state.History = append([]MissionRecord{}, records...)
	e.state.MissionsPlayed = len(records)
}

// StartMission resets the board, places a fresh set of items and enters the preview phase
func (e *Engine) StartMission() (*MissionState, error) {
	if err := e.canStart(); err != nil {
		return nil, err
	}

	plan := DrawCounts(e.rng, e.config.Items)
	items, err := PlaceItems(e.rng, e.config.BoardSize, plan, e.config.MaxPlacementAttempts)
	if err != nil {
		return nil, err
	}

	e.begin(items)
	return e.state, nil
}

// LoadMission starts a mission on a fixed layout instead of a random one
func (e *Engine) LoadMission(items []Item) (*MissionState, error) {
	if err := e.canStart(); err != nil {
		return nil, err
	}
	seen := make(map[Position]bool, len(items))
	robots := 0
	for _, item := range items {
		if !item.Kind.Valid() {
			return nil, fmt.Errorf("load mission: unknown kind '%s'", item.Kind)
		}
		if item.X < 0 || item.X >= e.config.BoardSize || item.Y < 0 || item.Y >= e.config.BoardSize {
			return nil, fmt.Errorf("load mission: %s at (%d,%d) is off the board", item.Kind, item.X, item.Y)
		}
		if seen[item.Position] {
			return nil, fmt.Errorf("load mission: two items at (%d,%d)", item.X, item.Y)
		}
		seen[item.Position] = true
		if item.Kind == Robot {
			robots++
		}
	}
	if robots != 1 {
		return nil, fmt.Errorf("load mission: exactly one robot required, got %d", robots)
	}
	e.begin(append([]Item(nil), items...))
	return e.state, nil
}

func (e *Engine) canStart() error {
	switch e.state.Phase {
	case PhaseIdle, PhaseAwaitingInput:
		return nil
	case PhaseResolved:
		return e.Dismiss()
	}
	return fmt.Errorf("start mission while %s: %w", e.state.Phase, ErrInvalidPhase)
}

func (e *Engine) begin(items []Item) {
	s := e.state
	s.Board = NewBoard(e.config.BoardSize)
	s.Items = items
	s.Dogs = dogsFrom(items)
	for _, item := range items {
		if item.Kind == Robot {
			s.RobotPos = item.Position
		}
	}
	s.MissionID = e.newID()
	s.StartedAt = e.now()
	s.Phase = PhasePreviewing
	s.Instructions = nil
	s.StepsTaken = 0
	s.Outcome = nil
	s.Message = e.config.Messages.Briefing

	e.slot = 0
	e.taken = 0
	e.start = s.RobotPos

	e.renderItems()
}

// EndPreview wipes the board, redraws every item at its true position and waits for instructions
func (e *Engine) EndPreview() error {
	if e.state.Phase != PhasePreviewing {
		return fmt.Errorf("end preview while %s: %w", e.state.Phase, ErrInvalidPhase)
	}
	e.renderItems()
	e.state.Phase = PhaseAwaitingInput
	e.state.Message = e.config.Messages.AwaitingInput
	return nil
}

// Dismiss hides the outcome message and clears the board for the next mission
func (e *Engine) Dismiss() error {
	if e.state.Phase != PhaseResolved {
		return fmt.Errorf("dismiss while %s: %w", e.state.Phase, ErrInvalidPhase)
	}
	s := e.state
	s.Board.Clear()
	s.Items = nil
	s.Dogs = nil
	s.Instructions = nil
	s.StepsTaken = 0
	s.Outcome = nil
	s.Message = ""
	s.MissionID = ""
	s.Phase = PhaseIdle
	return nil
}

// renderItems clears the board and draws the authoritative item list
func (e *Engine) renderItems() {
	s := e.state
	s.Board.Clear()
	for _, item := range s.Items {
		if item.Kind == Robot {
			continue
		}
		s.Board[item.Y][item.X] = Cell{Glyph: e.config.Glyph(item.Kind)}
	}
	e.drawRobot(s.RobotPos)
}

func (e *Engine) drawRobot(p Position) {
	e.state.Board[p.Y][p.X] = Cell{Image: e.config.RobotImage}
}

func (e *Engine) clearCell(p Position) {
	e.state.Board[p.Y][p.X] = Cell{}
}

// finish resolves the mission with the given outcome and records it
func (e *Engine) finish(outcome Outcome) {
	s := e.state
	s.Outcome = &outcome
	s.Message = outcome.Message
	s.Phase = PhaseResolved
	s.MissionsPlayed++

	s.History = append(s.History, MissionRecord{
		ID:           s.MissionID,
		Number:       s.MissionsPlayed,
		StartedAt:    s.StartedAt,
		EndedAt:      e.now(),
		Instructions: append([]Instruction(nil), s.Instructions...),
		StepsTaken:   s.StepsTaken,
		Start:        e.start,
		End:          s.RobotPos,
		Outcome:      outcome,
	})
}
