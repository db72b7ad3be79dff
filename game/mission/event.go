package mission

import (
	"log"
	"time"

	"github.com/wricardo/mcp-training/t1000mission/game/engine"
)

// EventType names a render event
type EventType string

const (
	EventMissionStarted       EventType = "mission_started"
	EventDogMoved             EventType = "dog_moved"
	EventDogReturned          EventType = "dog_returned"
	EventPreviewEnded         EventType = "preview_ended"
	EventInstructionsAccepted EventType = "instructions_accepted"
	EventRobotStepped         EventType = "robot_stepped"
	EventMissionResolved      EventType = "mission_resolved"
	EventMessageDismissed     EventType = "message_dismissed"
)

// Event is one change of the render surface, with the state right after it
type Event struct {
	Type      EventType            `json:"type"`
	SessionID string               `json:"session_id"`
	MissionID string               `json:"mission_id,omitempty"`
	DogMove   *engine.DogMove      `json:"dog_move,omitempty"`
	Step      *engine.StepResult   `json:"step,omitempty"`
	Outcome   *engine.Outcome      `json:"outcome,omitempty"`
	State     *engine.MissionState `json:"state"`
	Timestamp time.Time            `json:"timestamp"`
}

// Publisher receives render events. Publish is called from the controller
// loop and must not block for long.
type Publisher interface {
	Publish(Event)
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(Event)

func (f PublisherFunc) Publish(e Event) { f(e) }

// Publishers fans an event out to several publishers
type Publishers []Publisher

func (ps Publishers) Publish(e Event) {
	for _, p := range ps {
		if p != nil {
			p.Publish(e)
		}
	}
}

// LogPublisher writes one compact log line per lifecycle event.
// Dog moves are only logged when Verbose is set.
type LogPublisher struct {
	Verbose bool
}

func (l LogPublisher) Publish(e Event) {
	switch e.Type {
	case EventMissionStarted:
		log.Printf("[MISSION] session=%s mission=%s started items=%d dogs=%d robot=(%d,%d)",
			e.SessionID, e.MissionID, len(e.State.Items), len(e.State.Dogs), e.State.RobotPos.X, e.State.RobotPos.Y)
	case EventInstructionsAccepted:
		log.Printf("[MISSION] session=%s mission=%s instructions=%v", e.SessionID, e.MissionID, e.State.Instructions)
	case EventMissionResolved:
		log.Printf("[MISSION] session=%s mission=%s outcome=%s success=%v steps=%d end=(%d,%d)",
			e.SessionID, e.MissionID, e.Outcome.Code, e.Outcome.Success, e.State.StepsTaken, e.Outcome.Position.X, e.Outcome.Position.Y)
	case EventDogMoved, EventDogReturned:
		if l.Verbose {
			log.Printf("[MISSION] session=%s %s dog=%d from=(%d,%d) to=(%d,%d)",
				e.SessionID, e.Type, e.DogMove.Dog, e.DogMove.From.X, e.DogMove.From.Y, e.DogMove.To.X, e.DogMove.To.Y)
		}
	case EventRobotStepped:
		if l.Verbose {
			log.Printf("[MISSION] session=%s step slot=%d to=(%d,%d)", e.SessionID, e.Step.Instruction+1, e.Step.To.X, e.Step.To.Y)
		}
	}
}
