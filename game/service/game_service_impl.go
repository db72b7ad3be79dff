package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/wricardo/mcp-training/t1000mission/game/engine"
	"github.com/wricardo/mcp-training/t1000mission/game/script"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("config not found")
	ErrInvalidRequest  = errors.New("invalid request")
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given display name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// session looks a session up and marks it as accessed
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSessionNotFound, sessionID, err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) info(ctx context.Context, sess *Session) (*SessionInfo, error) {
	state, err := sess.Controller.State(ctx)
	if err != nil {
		return nil, err
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigID:       sess.ConfigID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		MissionState:   state,
		MissionConfig:  sess.Config,
	}, nil
}

// CreateSession creates a new mission session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	var config *engine.MissionConfig
	var configID string
	if configName != "" {
		var err error
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
		configID = configName
	} else {
		config = s.configs.GetDefault()
		configID = s.getConfigID(config.Name)
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", configID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.info(ctx, sess)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.info(ctx, sess)
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		info, err := s.info(ctx, sess)
		if err != nil {
			// Closed between List and State; it is gone already
			continue
		}
		result = append(result, info)
	}

	return result, nil
}

// DeleteSession stops and removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSessionNotFound, sessionID, err)
	}
	return nil
}

// StartMission starts a new mission with random placement, or on the given
// layout when items is not empty
func (s *gameServiceImpl) StartMission(ctx context.Context, sessionID string, items []engine.Item) (*engine.MissionState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		state, err := sess.Controller.LoadMission(ctx, items)
		if err != nil && !errors.Is(err, engine.ErrInvalidPhase) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return state, err
	}
	return sess.Controller.StartMission(ctx)
}

// SubmitInstructions commits the instructions. With wait it blocks until the
// mission resolves and returns its record.
func (s *gameServiceImpl) SubmitInstructions(ctx context.Context, sessionID string, instructions []engine.Instruction, wait bool) (*ExecutionResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	result := &ExecutionResult{Accepted: true}
	if !wait {
		state, err := sess.Controller.SubmitInstructions(ctx, instructions)
		if err != nil {
			return nil, err
		}
		result.Instructions = state.Instructions
		result.MissionState = state
		result.Message = state.Message
		return result, nil
	}

	record, err := sess.Controller.RunInstructions(ctx, instructions)
	if err != nil {
		return nil, err
	}
	state, err := sess.Controller.State(ctx)
	if err != nil {
		return nil, err
	}
	result.Instructions = record.Instructions
	result.MissionState = state
	result.Record = record
	result.Outcome = &record.Outcome
	result.Message = record.Outcome.Message
	return result, nil
}

// PlanRoute suggests instructions for the mission waiting for input
func (s *gameServiceImpl) PlanRoute(ctx context.Context, sessionID string) (*RoutePlan, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	route, err := sess.Controller.PlanRoute(ctx)
	if err != nil {
		return nil, err
	}

	plan := &RoutePlan{
		Instructions: route,
		Script:       script.Format(route),
		Segments:     len(route),
	}
	for _, ins := range route {
		plan.Steps += ins.Distance
	}
	return plan, nil
}

// GetMissionState returns the current mission state
func (s *gameServiceImpl) GetMissionState(ctx context.Context, sessionID string) (*engine.MissionState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Controller.State(ctx)
}

// GetMissionHistory returns a page of resolved missions
func (s *gameServiceImpl) GetMissionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	history, err := sess.Controller.History(ctx)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []engine.MissionRecord{}
	}

	// Set defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > maxHistoryLimit {
		opts.Limit = maxHistoryLimit
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	total := len(history)
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	successes := 0
	for _, rec := range history {
		if rec.Outcome.Success {
			successes++
		}
	}

	ordered := history
	if opts.Order == "desc" {
		ordered = make([]engine.MissionRecord, total)
		for i, rec := range history {
			ordered[total-1-i] = rec
		}
	}

	// page is clamped before multiplying so huge pages cannot overflow
	start := min(min(opts.Page-1, totalPages)*opts.Limit, total)
	end := min(start+opts.Limit, total)

	return &HistoryResponse{
		Missions:      ordered[start:end],
		TotalMissions: total,
		Successes:     successes,
		Page:          opts.Page,
		PageSize:      opts.Limit,
		TotalPages:    totalPages,
		HasNext:       opts.Page < totalPages,
		HasPrevious:   opts.Page > 1,
	}, nil
}

// ListConfigs returns all available mission presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific mission preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.MissionConfig, error) {
	config, err := s.configs.LoadConfig(configName)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configName, err)
	}
	return config, nil
}

// SaveConfig validates and saves a mission preset
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.MissionConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is required", ErrInvalidRequest)
	}
	config.ApplyDefaults()
	if err := engine.ValidateMissionConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return s.configs.SaveConfig(configName, config)
}
