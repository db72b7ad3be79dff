package engine

import "time"

// Kind identifies what occupies a cell
type Kind string

const (
	Crate     Kind = "crate"
	Barrel    Kind = "barrel"
	Barricade Kind = "barricade"
	Wall      Kind = "wall"
	Decoy     Kind = "decoy"  // innocent civilian
	Target    Kind = "target" // Skynet proxy, reaching it wins the mission
	Dog       Kind = "dog"
	Robot     Kind = "robot"

	// Validation constants
	MinBoardSize                = 3
	MaxBoardSize                = 50
	DefaultBoardSize            = 10
	DefaultInstructionSlots     = 7
	MaxInstructionSlots         = 20
	DefaultMaxPlacementAttempts = 1000
	WebSocketBufferSize         = 256

	ExplosionGlyph = "💥"
)

// Kinds lists every known kind in default placement order
var Kinds = []Kind{Crate, Barrel, Barricade, Wall, Decoy, Target, Dog, Robot}

// IsObstacle reports whether the kind is a static obstacle
func (k Kind) IsObstacle() bool {
	switch k {
	case Crate, Barrel, Barricade, Wall:
		return true
	}
	return false
}

// Valid reports whether the kind is known
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Direction is one of the four axis-aligned moves
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists all directions in a stable order
var Directions = []Direction{Up, Down, Left, Right}

// Phase is the mission lifecycle state
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhasePreviewing    Phase = "previewing"
	PhaseAwaitingInput Phase = "awaiting_input"
	PhaseExecuting     Phase = "executing"
	PhaseResolved      Phase = "resolved"
)

// OutcomeCode classifies how a mission ended
type OutcomeCode string

const (
	OutcomeAbandoned        OutcomeCode = "abandoned"
	OutcomeObstacle         OutcomeCode = "obstacle"
	OutcomeDetectedByDog    OutcomeCode = "detected_by_dog"
	OutcomeDecoyKilled      OutcomeCode = "decoy_killed"
	OutcomeTargetEliminated OutcomeCode = "target_eliminated"
	OutcomeNoIncidents      OutcomeCode = "no_incidents"
)

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Item is anything placed on the board, the robot included
type Item struct {
	Position
	Kind Kind `json:"kind"`
}

// DogState is a wandering dog. Position is its logical cell and never changes
// after placement; Origin is the spawn cell.
type DogState struct {
	Position
	Origin Position `json:"origin"`
}

// Instruction is one committed (direction, distance) pair
type Instruction struct {
	Direction Direction `json:"direction"`
	Distance  int       `json:"distance"`
}

// Cell is a single render surface cell: empty, a glyph or an image marker
type Cell struct {
	Glyph string `json:"glyph,omitempty"`
	Image string `json:"image,omitempty"`
}

// Board is the size x size render surface, indexed [y][x]
type Board [][]Cell

// Empty reports whether nothing is drawn in the cell
func (c Cell) Empty() bool {
	return c.Glyph == "" && c.Image == ""
}

// DogMove is one cosmetic preview step of a dog
type DogMove struct {
	Dog  int      `json:"dog"`
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Outcome describes how a mission ended
type Outcome struct {
	Code     OutcomeCode `json:"code"`
	Success  bool        `json:"success"`
	Message  string      `json:"message"`
	Position Position    `json:"position"`
	Kind     Kind        `json:"kind,omitempty"` // colliding item, if any
}

// StepResult reports a single unit step of the robot
type StepResult struct {
	Instruction int       `json:"instruction"` // 0-based slot index
	Step        int       `json:"step"`        // 1-based step within the slot
	Direction   Direction `json:"direction,omitempty"`
	From        Position  `json:"from"`
	To          Position  `json:"to"`
	Moved       bool      `json:"moved"`
	Done        bool      `json:"done"`
	Outcome     *Outcome  `json:"outcome,omitempty"`
	StepsTaken  int       `json:"steps_taken"`
}

// MissionRecord is kept for every resolved mission
type MissionRecord struct {
	ID           string        `json:"id"`
	Number       int           `json:"number"`
	StartedAt    time.Time     `json:"started_at"`
	EndedAt      time.Time     `json:"ended_at"`
	Instructions []Instruction `json:"instructions"`
	StepsTaken   int           `json:"steps_taken"`
	Start        Position      `json:"start"`
	End          Position      `json:"end"`
	Outcome      Outcome       `json:"outcome"`
}

// MissionState represents the complete mission state
type MissionState struct {
	MissionID      string          `json:"mission_id,omitempty"`
	Phase          Phase           `json:"phase"`
	BoardSize      int             `json:"board_size"`
	Board          Board           `json:"board"`
	Items          []Item          `json:"items"`
	Dogs           []DogState      `json:"dogs"`
	RobotPos       Position        `json:"robot_pos"`
	Instructions   []Instruction   `json:"instructions,omitempty"`
	StepsTaken     int             `json:"steps_taken"`
	Outcome        *Outcome        `json:"outcome,omitempty"`
	Message        string          `json:"message"`
	ConfigName     string          `json:"config_name"`
	StartedAt      time.Time       `json:"started_at,omitempty"`
	MissionsPlayed int             `json:"missions_played"`
	History        []MissionRecord `json:"history"`

	// Computed helper view (not required for core game logic)
	BoardView []string `json:"board_view,omitempty"`
}
