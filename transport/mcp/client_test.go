package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/mcp-training/t1000mission/game/engine"
	"github.com/wricardo/mcp-training/t1000mission/game/service"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content, got none")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func testMissionState() *engine.MissionState {
	return &engine.MissionState{
		MissionID: "m-1",
		Phase:     engine.PhaseAwaitingInput,
		BoardSize: 3,
		RobotPos:  engine.Position{X: 0, Y: 0},
		Items: []engine.Item{
			{Position: engine.Position{X: 0, Y: 0}, Kind: engine.Robot},
			{Position: engine.Position{X: 2, Y: 0}, Kind: engine.Target},
			{Position: engine.Position{X: 1, Y: 1}, Kind: engine.Dog},
			{Position: engine.Position{X: 0, Y: 2}, Kind: engine.Wall},
		},
		BoardView: []string{"R.T", ".D.", "W.."},
	}
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080/"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}
	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" && r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type on POST")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "ab12", "path": r.URL.Path})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]any
	if err := client.apiCall(t.Context(), "POST", "/api/sessions", map[string]string{}, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "ab12" || response["path"] != "/api/sessions" {
		t.Errorf("Unexpected response %v", response)
	}
}

func TestClient_apiCall_Errors(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		client := NewClient("http://invalid-url-that-does-not-exist:9999")
		if err := client.apiCall(t.Context(), "GET", "/api", nil, nil); err == nil {
			t.Error("Expected error for invalid URL")
		}
	})

	t.Run("plain HTTP error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(t.Context(), "GET", "/api", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "API error: 500") {
			t.Errorf("Expected 'API error: 500', got: %v", err)
		}
	})

	t.Run("JSON error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "submit instructions while previewing: invalid phase"})
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(t.Context(), "GET", "/api", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "while previewing") {
			t.Errorf("Expected API error message, got: %v", err)
		}
	})
}

func TestClient_handleCreateSession(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.SessionInfo{ID: "test-session-123", ConfigID: "hard"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(t.Context(), callRequest("create_session", map[string]any{"config_name": "hard"}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "test-session-123") || !strings.Contains(text, "hard") {
		t.Errorf("Expected session ID and config in result, got: %s", text)
	}
	if gotBody["config_id"] != "hard" {
		t.Errorf("Expected config_id to be forwarded, got %v", gotBody)
	}
}

func TestClient_handleStartMission(t *testing.T) {
	var gotItems []engine.Item
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/ab12/mission" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body struct {
			Items []engine.Item `json:"items"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotItems = body.Items

		state := testMissionState()
		state.Phase = engine.PhasePreviewing
		json.NewEncoder(w).Encode(state)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleStartMission(t.Context(), callRequest("start_mission", map[string]any{
		"session_id": "ab12",
		"layout": []any{
			map[string]any{"x": float64(0), "y": float64(0), "kind": "robot"},
			map[string]any{"x": float64(2), "y": float64(0), "kind": "target"},
		},
	}))
	if err != nil {
		t.Fatalf("startMission failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Phase: previewing") {
		t.Errorf("Expected previewing phase, got: %s", text)
	}
	if len(gotItems) != 2 || gotItems[1].Kind != engine.Target || gotItems[1].X != 2 {
		t.Errorf("Layout not forwarded: %+v", gotItems)
	}
}

func TestClient_handleSubmitInstructions(t *testing.T) {
	tests := []struct {
		name        string
		args        map[string]any
		status      int
		response    any
		wantError   bool
		wantText    string
		validateReq func(*testing.T, map[string]any)
	}{
		{
			name:   "script waits by default",
			args:   map[string]any{"session_id": "ab12", "script": "right 2"},
			status: http.StatusOK,
			response: service.ExecutionResult{
				Accepted:     true,
				Instructions: []engine.Instruction{{Direction: engine.Right, Distance: 2}},
				Outcome:      &engine.Outcome{Code: engine.OutcomeTargetEliminated, Success: true},
				Record:       &engine.MissionRecord{StepsTaken: 2, End: engine.Position{X: 2}},
				Message:      "Target eliminated",
			},
			wantText: "SUCCESS: target_eliminated",
			validateReq: func(t *testing.T, body map[string]any) {
				if body["script"] != "right 2" || body["wait"] != true {
					t.Errorf("Unexpected request body %v", body)
				}
			},
		},
		{
			name: "JSON instructions without waiting",
			args: map[string]any{
				"session_id":   "ab12",
				"wait":         false,
				"instructions": []any{map[string]any{"direction": "down", "distance": float64(1)}},
			},
			status: http.StatusOK,
			response: service.ExecutionResult{
				Accepted:     true,
				Instructions: []engine.Instruction{{Direction: engine.Down, Distance: 1}},
			},
			wantText: "Executing. Poll mission_state",
			validateReq: func(t *testing.T, body map[string]any) {
				if body["wait"] != false {
					t.Errorf("Expected wait=false, got %v", body["wait"])
				}
				if _, ok := body["instructions"].([]any); !ok {
					t.Errorf("Expected instructions array, got %v", body["instructions"])
				}
			},
		},
		{
			name:      "nothing to submit",
			args:      map[string]any{"session_id": "ab12"},
			wantError: true,
			wantText:  "provide instructions or script",
		},
		{
			name:      "phase conflict",
			args:      map[string]any{"session_id": "ab12", "script": "up 1"},
			status:    http.StatusConflict,
			response:  map[string]string{"error": "submit instructions while previewing: invalid phase"},
			wantError: true,
			wantText:  "invalid phase",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var body map[string]any
				json.NewDecoder(r.Body).Decode(&body)
				if tt.validateReq != nil {
					tt.validateReq(t, body)
				}
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(tt.response)
			}))
			defer server.Close()

			client := NewClient(server.URL)
			result, err := client.handleSubmitInstructions(t.Context(), callRequest("submit_instructions", tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if result.IsError != tt.wantError {
				t.Errorf("Expected IsError=%v, got %v", tt.wantError, result.IsError)
			}
			if text := resultText(t, result); !strings.Contains(text, tt.wantText) {
				t.Errorf("Expected %q in result, got: %s", tt.wantText, text)
			}
		})
	}
}

func TestClient_handleMissionHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("limit") != "5" {
			t.Errorf("Expected page and limit query, got %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(service.HistoryResponse{
			Missions: []engine.MissionRecord{{
				Number:       6,
				Instructions: []engine.Instruction{{Direction: engine.Left, Distance: 1}},
				Outcome:      engine.Outcome{Code: engine.OutcomeAbandoned},
			}},
			TotalMissions: 6,
			Successes:     4,
			Page:          2,
			PageSize:      5,
			TotalPages:    2,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleMissionHistory(t.Context(), callRequest("mission_history", map[string]any{
		"session_id": "ab12",
		"page":       float64(2),
		"limit":      float64(5),
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"Page 2/2", "Successes: 4", "#6 ✗ abandoned [left 1]"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in history, got: %s", want, text)
		}
	}
}

func TestClient_handlePlanRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(service.RoutePlan{Script: "right 2; down 1", Segments: 2, Steps: 3})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handlePlanRoute(t.Context(), callRequest("plan_route", map[string]any{"session_id": "ab12"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "2 segments, 3 steps") || !strings.Contains(text, "right 2; down 1") {
		t.Errorf("Unexpected plan text: %s", text)
	}
}

func TestDescribeCell(t *testing.T) {
	state := testMissionState()

	tests := []struct {
		pos  engine.Position
		want string
	}{
		{engine.Position{X: 0, Y: 0}, "robot"},
		{engine.Position{X: 1, Y: 0}, "empty"},
		{engine.Position{X: 2, Y: 0}, "target, reaching it wins"},
		{engine.Position{X: 1, Y: 1}, "detected_by_dog"},
		{engine.Position{X: 0, Y: 2}, "wall, entering it ends the mission: obstacle"},
		{engine.Position{X: 3, Y: 0}, "outside the 3x3 board"},
	}

	for _, tt := range tests {
		if got := describeCell(state, tt.pos); !strings.Contains(got, tt.want) {
			t.Errorf("describeCell(%v) = %q, want it to contain %q", tt.pos, got, tt.want)
		}
	}
}

func TestFormatMissionState(t *testing.T) {
	state := testMissionState()
	state.Outcome = &engine.Outcome{Code: engine.OutcomeDetectedByDog, Position: engine.Position{X: 1, Y: 1}}
	state.Message = "Detected"

	text := formatMissionState(state)
	for _, want := range []string{"Phase: awaiting_input", "Robot: (0,0)", "  0 R.T", "  1 .D.", "detected_by_dog (FAILED) at (1,1)", "Message: Detected"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in state, got:\n%s", want, text)
		}
	}

	if formatMissionState(nil) != "No mission state available" {
		t.Error("nil state should render a placeholder")
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callRequest("game_instructions", map[string]any{}))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	expectedContent := []string{
		"T-1000 Infiltration Mission - Complete Rules",
		"OBJECTIVE:",
		"MISSION FLOW:",
		"OUTCOMES:",
		"target_eliminated",
		"BOARD LEGEND:",
		"• R = robot",
		"• T = target",
		"STRATEGY TIPS:",
	}
	for _, content := range expectedContent {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}
