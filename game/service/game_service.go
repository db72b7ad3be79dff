package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/t1000mission/game/engine"
	"github.com/wricardo/mcp-training/t1000mission/game/mission"
)

// GameService defines all mission-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Mission Operations
	StartMission(ctx context.Context, sessionID string, items []engine.Item) (*engine.MissionState, error)
	SubmitInstructions(ctx context.Context, sessionID string, instructions []engine.Instruction, wait bool) (*ExecutionResult, error)
	PlanRoute(ctx context.Context, sessionID string) (*RoutePlan, error)

	// Mission State
	GetMissionState(ctx context.Context, sessionID string) (*engine.MissionState, error)
	GetMissionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.MissionConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.MissionConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, configID string, config *engine.MissionConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles mission preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.MissionConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.MissionConfig
	SaveConfig(name string, config *engine.MissionConfig) error
}

// Session represents an active mission session. The controller owns the
// engine; every read and write goes through it.
type Session struct {
	ID             string
	ConfigID       string
	Controller     *mission.Controller
	Config         *engine.MissionConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
