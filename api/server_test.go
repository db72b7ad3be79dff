package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/t1000mission/game/engine"
	"github.com/wricardo/mcp-training/t1000mission/game/service"
	"github.com/wricardo/mcp-training/t1000mission/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Mission Operations
	StartMissionFunc       func(ctx context.Context, sessionID string, items []engine.Item) (*engine.MissionState, error)
	SubmitInstructionsFunc func(ctx context.Context, sessionID string, instructions []engine.Instruction, wait bool) (*service.ExecutionResult, error)
	PlanRouteFunc          func(ctx context.Context, sessionID string) (*service.RoutePlan, error)

	// Mission State
	GetMissionStateFunc   func(ctx context.Context, sessionID string) (*engine.MissionState, error)
	GetMissionHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.MissionConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.MissionConfig) error
}

func (m *MockGameService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName)
	}
	return &service.SessionInfo{ID: "test-session", ConfigID: configName, CreatedAt: time.Now()}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{ID: sessionID, ConfigID: "test-config", CreatedAt: time.Now()}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockGameService) StartMission(ctx context.Context, sessionID string, items []engine.Item) (*engine.MissionState, error) {
	if m.StartMissionFunc != nil {
		return m.StartMissionFunc(ctx, sessionID, items)
	}
	return &engine.MissionState{Phase: engine.PhasePreviewing}, nil
}

func (m *MockGameService) SubmitInstructions(ctx context.Context, sessionID string, instructions []engine.Instruction, wait bool) (*service.ExecutionResult, error) {
	if m.SubmitInstructionsFunc != nil {
		return m.SubmitInstructionsFunc(ctx, sessionID, instructions, wait)
	}
	return &service.ExecutionResult{Accepted: true, Instructions: instructions}, nil
}

func (m *MockGameService) PlanRoute(ctx context.Context, sessionID string) (*service.RoutePlan, error) {
	if m.PlanRouteFunc != nil {
		return m.PlanRouteFunc(ctx, sessionID)
	}
	return &service.RoutePlan{}, nil
}

func (m *MockGameService) GetMissionState(ctx context.Context, sessionID string) (*engine.MissionState, error) {
	if m.GetMissionStateFunc != nil {
		return m.GetMissionStateFunc(ctx, sessionID)
	}
	return &engine.MissionState{Phase: engine.PhaseIdle}, nil
}

func (m *MockGameService) GetMissionHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetMissionHistoryFunc != nil {
		return m.GetMissionHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Missions:   []engine.MissionRecord{},
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.MissionConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return &engine.MissionConfig{Name: configName, Description: "Test config"}, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.MissionConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

// Test helpers
func setupTestServer(t *testing.T, mockService *MockGameService) *Server {
	hub := websocket.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body any) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v (body %s)", err, w.Body.String())
	}
}

type routeTest struct {
	name           string
	method         string
	path           string
	body           any
	setupMock      func(*testing.T, *MockGameService)
	expectedStatus int
	validateResp   func(*testing.T, *httptest.ResponseRecorder)
}

func runRouteTests(t *testing.T, tests []routeTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(t, mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest(tt.method, tt.path, tt.body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d (body %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", service.ErrSessionNotFound), http.StatusNotFound},
		{fmt.Errorf("x: %w", service.ErrConfigNotFound), http.StatusNotFound},
		{fmt.Errorf("x: %w", engine.ErrNoRoute), http.StatusNotFound},
		{fmt.Errorf("x: %w", engine.ErrInvalidPhase), http.StatusConflict},
		{fmt.Errorf("x: %w", engine.ErrTooManyInstructions), http.StatusBadRequest},
		{fmt.Errorf("x: %w", engine.ErrInvalidDirection), http.StatusBadRequest},
		{fmt.Errorf("x: %w", service.ErrInvalidRequest), http.StatusBadRequest},
		{fmt.Errorf("x: %w", engine.ErrBoardTooFull), http.StatusInternalServerError},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestHealth(t *testing.T) {
	runRouteTests(t, []routeTest{{
		name:           "Health check",
		method:         "GET",
		path:           "/api/health",
		expectedStatus: http.StatusOK,
		validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
			var resp map[string]string
			parseResponse(t, w, &resp)
			if resp["status"] != "healthy" {
				t.Errorf("Expected healthy, got %v", resp)
			}
		},
	}})
}

func TestCreateSession(t *testing.T) {
	runRouteTests(t, []routeTest{
		{
			name:   "Create session with default config",
			method: "POST",
			path:   "/api/sessions",
			setupMock: func(t *testing.T, m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "" {
						t.Errorf("Expected empty config name, got %s", configName)
					}
					return &service.SessionInfo{ID: "ab12", ConfigID: "classic"}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "ab12" {
					t.Errorf("Expected session ID ab12, got %s", resp.ID)
				}
			},
		},
		{
			name:   "Create session with config_name alias",
			method: "POST",
			path:   "/api/sessions",
			body:   map[string]string{"config_name": "hard"},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "hard" {
						t.Errorf("Expected config hard, got %s", configName)
					}
					return &service.SessionInfo{ID: "cd34", ConfigID: configName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "Unknown config",
			method: "POST",
			path:   "/api/sessions",
			body:   map[string]string{"config_id": "nope"},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: 'nope'", service.ErrConfigNotFound)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "Handle service error",
			method: "POST",
			path:   "/api/sessions",
			setupMock: func(t *testing.T, m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	})
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	sessions := func(ctx context.Context) ([]*service.SessionInfo, error) {
		return []*service.SessionInfo{
			{ID: "old", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-time.Hour)},
			{ID: "new", CreatedAt: now.Add(-time.Hour), LastAccessedAt: now},
			{ID: "mid", CreatedAt: now.Add(-90 * time.Minute), LastAccessedAt: now.Add(-30 * time.Minute)},
		}, nil
	}

	type listResponse struct {
		Count    int                    `json:"count"`
		Total    int                    `json:"total"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}

	runRouteTests(t, []routeTest{
		{
			name:           "Default sort by access, newest first",
			method:         "GET",
			path:           "/api/sessions",
			setupMock:      func(t *testing.T, m *MockGameService) { m.ListSessionsFunc = sessions },
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp listResponse
				parseResponse(t, w, &resp)
				if resp.Count != 3 || resp.Sessions[0].ID != "new" || resp.Sessions[2].ID != "old" {
					t.Errorf("Unexpected order: %+v", resp.Sessions)
				}
			},
		},
		{
			name:           "Created ascending with limit",
			method:         "GET",
			path:           "/api/sessions?sort=created&order=asc&limit=2",
			setupMock:      func(t *testing.T, m *MockGameService) { m.ListSessionsFunc = sessions },
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp listResponse
				parseResponse(t, w, &resp)
				if resp.Count != 2 || resp.Total != 3 {
					t.Errorf("Expected 2 of 3 sessions, got %d of %d", resp.Count, resp.Total)
				}
				if resp.Sessions[0].ID != "old" || resp.Sessions[1].ID != "mid" {
					t.Errorf("Unexpected order: %s, %s", resp.Sessions[0].ID, resp.Sessions[1].ID)
				}
			},
		},
	})
}

func TestGetAndDeleteSession(t *testing.T) {
	notFound := func(t *testing.T, m *MockGameService) {
		m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return nil, fmt.Errorf("%w: %s", service.ErrSessionNotFound, sessionID)
		}
		m.DeleteSessionFunc = func(ctx context.Context, sessionID string) error {
			return fmt.Errorf("%w: %s", service.ErrSessionNotFound, sessionID)
		}
	}

	runRouteTests(t, []routeTest{
		{
			name:           "Get existing session",
			method:         "GET",
			path:           "/api/sessions/ab12",
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "ab12" {
					t.Errorf("Expected ab12, got %s", resp.ID)
				}
			},
		},
		{name: "Get missing session", method: "GET", path: "/api/sessions/zz99", setupMock: notFound, expectedStatus: http.StatusNotFound},
		{name: "Delete session", method: "DELETE", path: "/api/sessions/ab12", expectedStatus: http.StatusOK},
		{name: "Delete missing session", method: "DELETE", path: "/api/sessions/zz99", setupMock: notFound, expectedStatus: http.StatusNotFound},
	})
}

func TestStartMission(t *testing.T) {
	runRouteTests(t, []routeTest{
		{
			name:   "Random placement on empty body",
			method: "POST",
			path:   "/api/sessions/ab12/mission",
			setupMock: func(t *testing.T, m *MockGameService) {
				m.StartMissionFunc = func(ctx context.Context, sessionID string, items []engine.Item) (*engine.MissionState, error) {
					if items != nil {
						t.Errorf("Expected no items, got %v", items)
					}
					return &engine.MissionState{Phase: engine.PhasePreviewing, MissionID: "m-1"}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp engine.MissionState
				parseResponse(t, w, &resp)
				if resp.Phase != engine.PhasePreviewing {
					t.Errorf("Expected previewing, got %s", resp.Phase)
				}
			},
		},
		{
			name:   "Fixed layout",
			method: "POST",
			path:   "/api/sessions/ab12/mission",
			body: map[string]any{"items": []map[string]any{
				{"x": 0, "y": 0, "kind": "robot"},
				{"x": 3, "y": 0, "kind": "target"},
			}},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.StartMissionFunc = func(ctx context.Context, sessionID string, items []engine.Item) (*engine.MissionState, error) {
					if len(items) != 2 || items[1].Kind != engine.Target || items[1].X != 3 {
						t.Errorf("Items not decoded: %+v", items)
					}
					return &engine.MissionState{Phase: engine.PhasePreviewing}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Mission already running",
			method: "POST",
			path:   "/api/sessions/ab12/mission",
			setupMock: func(t *testing.T, m *MockGameService) {
				m.StartMissionFunc = func(ctx context.Context, sessionID string, items []engine.Item) (*engine.MissionState, error) {
					return nil, fmt.Errorf("start mission while executing: %w", engine.ErrInvalidPhase)
				}
			},
			expectedStatus: http.StatusConflict,
		},
	})
}

func TestSubmitInstructions(t *testing.T) {
	runRouteTests(t, []routeTest{
		{
			name:   "JSON instructions",
			method: "POST",
			path:   "/api/sessions/ab12/instructions",
			body: map[string]any{
				"instructions": []map[string]any{{"direction": "right", "distance": 3}},
				"wait":         true,
			},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.SubmitInstructionsFunc = func(ctx context.Context, sessionID string, ins []engine.Instruction, wait bool) (*service.ExecutionResult, error) {
					if !wait || len(ins) != 1 || ins[0].Direction != engine.Right || ins[0].Distance != 3 {
						t.Errorf("Unexpected call wait=%v ins=%+v", wait, ins)
					}
					outcome := &engine.Outcome{Code: engine.OutcomeTargetEliminated, Success: true}
					return &service.ExecutionResult{Accepted: true, Instructions: ins, Outcome: outcome}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.ExecutionResult
				parseResponse(t, w, &resp)
				if resp.Outcome == nil || resp.Outcome.Code != engine.OutcomeTargetEliminated {
					t.Errorf("Expected outcome in response, got %+v", resp.Outcome)
				}
			},
		},
		{
			name:   "Script",
			method: "POST",
			path:   "/api/sessions/ab12/instructions",
			body:   map[string]any{"script": "derecha 2; abajo 1"},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.SubmitInstructionsFunc = func(ctx context.Context, sessionID string, ins []engine.Instruction, wait bool) (*service.ExecutionResult, error) {
					want := []engine.Instruction{{Direction: engine.Right, Distance: 2}, {Direction: engine.Down, Distance: 1}}
					if len(ins) != len(want) || ins[0] != want[0] || ins[1] != want[1] {
						t.Errorf("Expected %+v, got %+v", want, ins)
					}
					return &service.ExecutionResult{Accepted: true, Instructions: ins}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Bad script",
			method:         "POST",
			path:           "/api/sessions/ab12/instructions",
			body:           map[string]any{"script": "sideways 2"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Both instructions and script",
			method: "POST",
			path:   "/api/sessions/ab12/instructions",
			body: map[string]any{
				"instructions": []map[string]any{{"direction": "up", "distance": 1}},
				"script":       "up 1",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Too many instructions",
			method: "POST",
			path:   "/api/sessions/ab12/instructions",
			body:   map[string]any{"script": "up 1; up 1"},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.SubmitInstructionsFunc = func(ctx context.Context, sessionID string, ins []engine.Instruction, wait bool) (*service.ExecutionResult, error) {
					return nil, fmt.Errorf("2 instructions for 1 slots: %w", engine.ErrTooManyInstructions)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Not at the prompt",
			method: "POST",
			path:   "/api/sessions/ab12/instructions",
			body:   map[string]any{"script": "up 1"},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.SubmitInstructionsFunc = func(ctx context.Context, sessionID string, ins []engine.Instruction, wait bool) (*service.ExecutionResult, error) {
					return nil, fmt.Errorf("submit instructions while previewing: %w", engine.ErrInvalidPhase)
				}
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Invalid body",
			method:         "POST",
			path:           "/api/sessions/ab12/instructions",
			body:           "not an object",
			expectedStatus: http.StatusBadRequest,
		},
	})
}

func TestGetHistory(t *testing.T) {
	runRouteTests(t, []routeTest{
		{
			name:   "Default pagination",
			method: "GET",
			path:   "/api/sessions/ab12/history",
			setupMock: func(t *testing.T, m *MockGameService) {
				m.GetMissionHistoryFunc = func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					if opts.Page != 1 || opts.Limit != 20 || opts.Order != "desc" {
						t.Errorf("Unexpected default options %+v", opts)
					}
					return &service.HistoryResponse{Missions: []engine.MissionRecord{}, Page: 1, PageSize: 20, TotalPages: 1}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Explicit pagination",
			method: "GET",
			path:   "/api/sessions/ab12/history?page=2&limit=5&order=asc",
			setupMock: func(t *testing.T, m *MockGameService) {
				m.GetMissionHistoryFunc = func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					if opts.Page != 2 || opts.Limit != 5 || opts.Order != "asc" {
						t.Errorf("Unexpected options %+v", opts)
					}
					return &service.HistoryResponse{Missions: []engine.MissionRecord{}, Page: 2, PageSize: 5}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Invalid values fall back to defaults",
			method: "GET",
			path:   "/api/sessions/ab12/history?page=-1&limit=abc&order=sideways",
			setupMock: func(t *testing.T, m *MockGameService) {
				m.GetMissionHistoryFunc = func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					if opts.Page != 1 || opts.Limit != 20 || opts.Order != "desc" {
						t.Errorf("Unexpected options %+v", opts)
					}
					return &service.HistoryResponse{Missions: []engine.MissionRecord{}}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
	})
}

func TestPlanRoute(t *testing.T) {
	runRouteTests(t, []routeTest{
		{
			name:   "Route found",
			method: "GET",
			path:   "/api/sessions/ab12/plan",
			setupMock: func(t *testing.T, m *MockGameService) {
				m.PlanRouteFunc = func(ctx context.Context, sessionID string) (*service.RoutePlan, error) {
					return &service.RoutePlan{
						Instructions: []engine.Instruction{{Direction: engine.Right, Distance: 2}},
						Script:       "right 2",
						Segments:     1,
						Steps:        2,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.RoutePlan
				parseResponse(t, w, &resp)
				if resp.Script != "right 2" {
					t.Errorf("Expected script 'right 2', got %q", resp.Script)
				}
			},
		},
		{
			name:   "No route",
			method: "GET",
			path:   "/api/sessions/ab12/plan",
			setupMock: func(t *testing.T, m *MockGameService) {
				m.PlanRouteFunc = func(ctx context.Context, sessionID string) (*service.RoutePlan, error) {
					return nil, fmt.Errorf("target unreachable: %w", engine.ErrNoRoute)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	})
}

func TestConfigs(t *testing.T) {
	runRouteTests(t, []routeTest{
		{
			name:   "List configs",
			method: "GET",
			path:   "/api/configs",
			setupMock: func(t *testing.T, m *MockGameService) {
				m.ListConfigsFunc = func(ctx context.Context) ([]*service.ConfigInfo, error) {
					return []*service.ConfigInfo{{ConfigID: "classic", Name: "Classic", BoardSize: 10}}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp []service.ConfigInfo
				parseResponse(t, w, &resp)
				if len(resp) != 1 || resp[0].ConfigID != "classic" {
					t.Errorf("Unexpected configs %+v", resp)
				}
			},
		},
		{
			name:   "Get config",
			method: "GET",
			path:   "/api/configs/hard",
			setupMock: func(t *testing.T, m *MockGameService) {
				m.LoadConfigFunc = func(ctx context.Context, configName string) (*engine.MissionConfig, error) {
					if configName != "hard" {
						t.Errorf("Expected hard, got %s", configName)
					}
					return &engine.MissionConfig{Name: "Hard", BoardSize: 12}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Get missing config",
			method: "GET",
			path:   "/api/configs/nope",
			setupMock: func(t *testing.T, m *MockGameService) {
				m.LoadConfigFunc = func(ctx context.Context, configName string) (*engine.MissionConfig, error) {
					return nil, fmt.Errorf("%w: nope", service.ErrConfigNotFound)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "Create config derives its ID from the name",
			method: "POST",
			path:   "/api/configs",
			body:   map[string]any{"name": "Night Raid", "board_size": 8},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.SaveConfigFunc = func(ctx context.Context, configName string, config *engine.MissionConfig) error {
					if configName != "night-raid" || config.BoardSize != 8 {
						t.Errorf("Unexpected save %s %+v", configName, config)
					}
					return nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]any
				parseResponse(t, w, &resp)
				if resp["config_id"] != "night-raid" {
					t.Errorf("Expected config_id night-raid, got %v", resp["config_id"])
				}
			},
		},
		{
			name:           "Create config without name",
			method:         "POST",
			path:           "/api/configs",
			body:           map[string]any{"board_size": 8},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Create invalid config",
			method: "POST",
			path:   "/api/configs",
			body:   map[string]any{"name": "Tiny", "board_size": 2},
			setupMock: func(t *testing.T, m *MockGameService) {
				m.SaveConfigFunc = func(ctx context.Context, configName string, config *engine.MissionConfig) error {
					return fmt.Errorf("%w: board_size", service.ErrInvalidRequest)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
	})
}

func TestWebSocket(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{name: "Missing session parameter", queryParams: "", expectedStatus: http.StatusBadRequest},
		{
			name:        "Invalid session",
			queryParams: "?session=invalid",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: invalid", service.ErrSessionNotFound)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, httptest.NewRequest("GET", "/ws"+tt.queryParams, nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestWebSocketStreamsSnapshot(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return &service.SessionInfo{
				ID:           "ab12",
				MissionState: &engine.MissionState{MissionID: "m-9", Phase: engine.PhaseAwaitingInput},
			}, nil
		},
	}
	server := httptest.NewServer(setupTestServer(t, mockService))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?session=AB12"
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var message websocket.Message
	if err := conn.ReadJSON(&message); err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	if message.Event != websocket.EventSnapshot || message.SessionID != "ab12" {
		t.Errorf("Expected snapshot for ab12, got %+v", message)
	}
	if message.State == nil || message.State.MissionID != "m-9" {
		t.Errorf("Expected state of mission m-9, got %+v", message.State)
	}
}
