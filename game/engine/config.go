package engine

import (
	"fmt"
	"time"
)

// ItemSpec is the inclusive count range drawn for one kind
type ItemSpec struct {
	Kind Kind `json:"kind" yaml:"kind" toml:"kind"`
	Min  int  `json:"min" yaml:"min" toml:"min"`
	Max  int  `json:"max" yaml:"max" toml:"max"`
}

// Timings holds every pacing duration in milliseconds
type Timings struct {
	TickIntervalMS    int `json:"tick_interval_ms" yaml:"tick_interval_ms" toml:"tick_interval_ms"`
	DogVisibleMS      int `json:"dog_visible_ms" yaml:"dog_visible_ms" toml:"dog_visible_ms"`
	PreviewDurationMS int `json:"preview_duration_ms" yaml:"preview_duration_ms" toml:"preview_duration_ms"`
	StepDelayMS       int `json:"step_delay_ms" yaml:"step_delay_ms" toml:"step_delay_ms"`
	MessageDurationMS int `json:"message_duration_ms" yaml:"message_duration_ms" toml:"message_duration_ms"`
}

func (t Timings) TickInterval() time.Duration    { return ms(t.TickIntervalMS) }
func (t Timings) DogVisible() time.Duration      { return ms(t.DogVisibleMS) }
func (t Timings) PreviewDuration() time.Duration { return ms(t.PreviewDurationMS) }
func (t Timings) StepDelay() time.Duration       { return ms(t.StepDelayMS) }
func (t Timings) MessageDuration() time.Duration { return ms(t.MessageDurationMS) }

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// Messages are the player-facing texts
type Messages struct {
	Briefing         string `json:"briefing" yaml:"briefing" toml:"briefing"`
	AwaitingInput    string `json:"awaiting_input" yaml:"awaiting_input" toml:"awaiting_input"`
	Executing        string `json:"executing" yaml:"executing" toml:"executing"`
	Abandoned        string `json:"abandoned" yaml:"abandoned" toml:"abandoned"`
	Obstacle         string `json:"obstacle" yaml:"obstacle" toml:"obstacle"`
	DetectedByDog    string `json:"detected_by_dog" yaml:"detected_by_dog" toml:"detected_by_dog"`
	DecoyKilled      string `json:"decoy_killed" yaml:"decoy_killed" toml:"decoy_killed"`
	TargetEliminated string `json:"target_eliminated" yaml:"target_eliminated" toml:"target_eliminated"`
	NoIncidents      string `json:"no_incidents" yaml:"no_incidents" toml:"no_incidents"`
}

// MissionConfig represents a mission preset loaded from a config file
type MissionConfig struct {
	Name                 string            `json:"name" yaml:"name" toml:"name"`
	Description          string            `json:"description" yaml:"description" toml:"description"`
	BoardSize            int               `json:"board_size" yaml:"board_size" toml:"board_size"`
	InstructionSlots     int               `json:"instruction_slots" yaml:"instruction_slots" toml:"instruction_slots"`
	MaxPlacementAttempts int               `json:"max_placement_attempts" yaml:"max_placement_attempts" toml:"max_placement_attempts"`
	Items                []ItemSpec        `json:"items" yaml:"items" toml:"items"`
	Glyphs               map[string]string `json:"glyphs,omitempty" yaml:"glyphs,omitempty" toml:"glyphs,omitempty"`
	RobotImage           string            `json:"robot_image" yaml:"robot_image" toml:"robot_image"`
	Timings              Timings           `json:"timings" yaml:"timings" toml:"timings"`
	Messages             Messages          `json:"messages" yaml:"messages" toml:"messages"`
}

var defaultGlyphs = map[Kind]string{
	Crate:     "📦",
	Barrel:    "🛢️",
	Barricade: "🚧",
	Wall:      "🧱",
	Decoy:     "🧍🏼",
	Target:    "🚶",
	Dog:       "🐕‍🦺",
	Robot:     "🤖",
}

// DefaultItemSpecs returns the standard item mix
func DefaultItemSpecs() []ItemSpec {
	return []ItemSpec{
		{Kind: Crate, Min: 3, Max: 6},
		{Kind: Barrel, Min: 2, Max: 4},
		{Kind: Barricade, Min: 2, Max: 3},
		{Kind: Wall, Min: 2, Max: 3},
		{Kind: Decoy, Min: 1, Max: 1},
		{Kind: Target, Min: 1, Max: 1},
		{Kind: Dog, Min: 2, Max: 2},
		{Kind: Robot, Min: 1, Max: 1},
	}
}

// DefaultTimings returns the standard pacing
func DefaultTimings() Timings {
	return Timings{
		TickIntervalMS:    2000,
		DogVisibleMS:      1000,
		PreviewDurationMS: 8000,
		StepDelayMS:       500,
		MessageDurationMS: 3000,
	}
}

// DefaultMessages returns the standard English texts
func DefaultMessages() Messages {
	return Messages{
		Briefing:         "Memorize the board! The dogs are on patrol.",
		AwaitingInput:    "Enter your instructions.",
		Executing:        "Executing instructions...",
		Abandoned:        "Sorry, you have abandoned the mission.",
		Obstacle:         "Sorry, an obstacle defeated you and you lost the mission.",
		DetectedByDog:    "Sorry, the dog detected you and you lost the mission.",
		DecoyKilled:      "Sorry, you killed the real John Connor and doomed humanity.",
		TargetEliminated: "Congratulations! You defeated Skynet and saved humanity.",
		NoIncidents:      "The robot finished its movement without incidents.",
	}
}

// DefaultMissionConfig returns the classic 10x10 mission
func DefaultMissionConfig() *MissionConfig {
	return &MissionConfig{
		Name:                 "Classic",
		Description:          "The classic 10x10 infiltration with two patrol dogs",
		BoardSize:            DefaultBoardSize,
		InstructionSlots:     DefaultInstructionSlots,
		MaxPlacementAttempts: DefaultMaxPlacementAttempts,
		Items:                DefaultItemSpecs(),
		RobotImage:           "T1000.png",
		Timings:              DefaultTimings(),
		Messages:             DefaultMessages(),
	}
}

// ApplyDefaults fills zero values with the classic settings
func (c *MissionConfig) ApplyDefaults() {
	if c.BoardSize == 0 {
		c.BoardSize = DefaultBoardSize
	}
	if c.InstructionSlots == 0 {
		c.InstructionSlots = DefaultInstructionSlots
	}
	if c.MaxPlacementAttempts == 0 {
		c.MaxPlacementAttempts = DefaultMaxPlacementAttempts
	}
	if len(c.Items) == 0 {
		c.Items = DefaultItemSpecs()
	}
	if c.RobotImage == "" {
		c.RobotImage = "T1000.png"
	}

	dt := DefaultTimings()
	fill := func(v *int, d int) {
		if *v == 0 {
			*v = d
		}
	}
	fill(&c.Timings.TickIntervalMS, dt.TickIntervalMS)
	fill(&c.Timings.DogVisibleMS, dt.DogVisibleMS)
	fill(&c.Timings.PreviewDurationMS, dt.PreviewDurationMS)
	fill(&c.Timings.StepDelayMS, dt.StepDelayMS)
	fill(&c.Timings.MessageDurationMS, dt.MessageDurationMS)

	dm := DefaultMessages()
	text := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	text(&c.Messages.Briefing, dm.Briefing)
	text(&c.Messages.AwaitingInput, dm.AwaitingInput)
	text(&c.Messages.Executing, dm.Executing)
	text(&c.Messages.Abandoned, dm.Abandoned)
	text(&c.Messages.Obstacle, dm.Obstacle)
	text(&c.Messages.DetectedByDog, dm.DetectedByDog)
	text(&c.Messages.DecoyKilled, dm.DecoyKilled)
	text(&c.Messages.TargetEliminated, dm.TargetEliminated)
	text(&c.Messages.NoIncidents, dm.NoIncidents)
}

// Glyph returns the glyph drawn for a kind
func (c *MissionConfig) Glyph(k Kind) string {
	if g, ok := c.Glyphs[string(k)]; ok && g != "" {
		return g
	}
	return defaultGlyphs[k]
}

// ValidateMissionConfig validates a mission configuration for correctness and playability
func ValidateMissionConfig(config *MissionConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	if config.BoardSize < MinBoardSize || config.BoardSize > MaxBoardSize {
		return fmt.Errorf("config validation: board_size must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.BoardSize)
	}
	if config.InstructionSlots < 1 || config.InstructionSlots > MaxInstructionSlots {
		return fmt.Errorf("config validation: instruction_slots must be between 1 and %d, got %d", MaxInstructionSlots, config.InstructionSlots)
	}
	if config.MaxPlacementAttempts < 1 {
		return fmt.Errorf("config validation: max_placement_attempts must be positive, got %d", config.MaxPlacementAttempts)
	}

	if len(config.Items) == 0 {
		return fmt.Errorf("config validation: items are required")
	}
	cells := config.BoardSize * config.BoardSize
	robots := 0
	minTotal := 0
	for i, spec := range config.Items {
		if !spec.Kind.Valid() {
			return fmt.Errorf("config validation: items[%d] has unknown kind '%s'", i, spec.Kind)
		}
		if spec.Min < 0 || spec.Max < spec.Min {
			return fmt.Errorf("config validation: items[%d] (%s) range %d-%d is invalid", i, spec.Kind, spec.Min, spec.Max)
		}
		if spec.Max > cells {
			return fmt.Errorf("config validation: items[%d] (%s) max %d exceeds the %d cells of the board", i, spec.Kind, spec.Max, cells)
		}
		if spec.Kind == Robot {
			if spec.Min != 1 || spec.Max != 1 {
				return fmt.Errorf("config validation: exactly one robot must be placed, got range %d-%d", spec.Min, spec.Max)
			}
			robots++
		}
		minTotal += spec.Min
	}
	if robots != 1 {
		return fmt.Errorf("config validation: items must contain exactly one robot entry, got %d", robots)
	}
	if minTotal > cells {
		return fmt.Errorf("config validation: at least %d items requested but the board only has %d cells", minTotal, cells)
	}

	t := config.Timings
	if t.TickIntervalMS <= 0 || t.DogVisibleMS <= 0 || t.PreviewDurationMS <= 0 || t.StepDelayMS <= 0 || t.MessageDurationMS <= 0 {
		return fmt.Errorf("config validation: all timings must be positive")
	}
	if t.DogVisibleMS >= t.TickIntervalMS {
		return fmt.Errorf("config validation: dog_visible_ms (%d) must be shorter than tick_interval_ms (%d)", t.DogVisibleMS, t.TickIntervalMS)
	}

	m := config.Messages
	required := map[string]string{
		"abandoned":         m.Abandoned,
		"obstacle":          m.Obstacle,
		"detected_by_dog":   m.DetectedByDog,
		"decoy_killed":      m.DecoyKilled,
		"target_eliminated": m.TargetEliminated,
		"no_incidents":      m.NoIncidents,
	}
	for key, value := range required {
		if value == "" {
			return fmt.Errorf("config validation: messages.%s is required", key)
		}
	}

	return nil
}

// MaxDistance is the longest distance a single instruction may carry
func (c *MissionConfig) MaxDistance() int {
	return c.BoardSize - 1
}

// Density returns the minimum and maximum share of cells occupied after placement
func (c *MissionConfig) Density() (float64, float64) {
	minTotal, maxTotal := 0, 0
	for _, spec := range c.Items {
		minTotal += spec.Min
		maxTotal += spec.Max
	}
	cells := float64(c.BoardSize * c.BoardSize)
	return float64(minTotal) / cells, float64(maxTotal) / cells
}
