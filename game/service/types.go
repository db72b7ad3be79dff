package service

import (
	"time"

	"github.com/wricardo/mcp-training/t1000mission/game/engine"
)

// SessionInfo provides information about a mission session
type SessionInfo struct {
	ID             string                `json:"id"`
	ConfigID       string                `json:"config_id"`
	CreatedAt      time.Time             `json:"created_at"`
	LastAccessedAt time.Time             `json:"last_accessed_at"`
	MissionState   *engine.MissionState  `json:"mission_state"`
	MissionConfig  *engine.MissionConfig `json:"mission_config"`
}

// ExecutionResult is returned when instructions are submitted. Record is only
// set when the caller waited for the mission to resolve.
type ExecutionResult struct {
	Accepted     bool                  `json:"accepted"`
	Instructions []engine.Instruction  `json:"instructions"`
	MissionState *engine.MissionState  `json:"mission_state"`
	Record       *engine.MissionRecord `json:"record,omitempty"`
	Outcome      *engine.Outcome       `json:"outcome,omitempty"`
	Message      string                `json:"message,omitempty"`
}

// RoutePlan is a suggested set of instructions for the current mission
type RoutePlan struct {
	Instructions []engine.Instruction `json:"instructions"`
	Script       string               `json:"script"`
	Segments     int                  `json:"segments"`
	Steps        int                  `json:"steps"`
}

// HistoryOptions configures mission history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated mission history
type HistoryResponse struct {
	Missions      []engine.MissionRecord `json:"missions"`
	TotalMissions int                    `json:"total_missions"`
	Successes     int                    `json:"successes"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
	TotalPages    int                    `json:"total_pages"`
	HasNext       bool                   `json:"has_next"`
	HasPrevious   bool                   `json:"has_previous"`
}

// ConfigInfo provides information about a mission preset
type ConfigInfo struct {
	Filename         string  `json:"filename"`
	ConfigID         string  `json:"config_id"` // The identifier to use for session creation
	Name             string  `json:"name"`      // Display name
	Description      string  `json:"description"`
	Format           string  `json:"format"`
	BoardSize        int     `json:"board_size"`
	InstructionSlots int     `json:"instruction_slots"`
	MinDensity       float64 `json:"min_density"`
	MaxDensity       float64 `json:"max_density"`
}
