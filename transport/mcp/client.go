package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/t1000mission/game/engine"
	"github.com/wricardo/mcp-training/t1000mission/game/script"
	"github.com/wricardo/mcp-training/t1000mission/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			// Waiting for a mission to resolve takes preview plus execution time
			Timeout: 60 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"T-1000 Infiltration Mission",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`T-1000 Infiltration Mission - MCP Interface

This is a thin client that proxies all requests to the REST API server.

MISSION OBJECTIVE:
Program the robot (R) to reach the Skynet proxy (T) on the board. Each mission
places random obstacles, civilians and guard dogs, shows the dogs patrolling for
a few seconds, then asks for a fixed number of (direction, distance) instructions.

AVAILABLE TOOLS:
- create_session / list_sessions / get_session: manage sessions
- start_mission: place a new board and start the dog preview
- mission_state: current board, phase and message
- submit_instructions: program the robot (JSON list or script like "right 3; down 2")
- plan_route: ask the planner for a collision-free route
- mission_history: past missions and their outcomes
- describe_cell: what sits at a board coordinate
- list_configs: available mission presets
- game_instructions: full rules

Instructions are only accepted when the phase is awaiting_input.`),
	)

	// Register all tools
	c.registerTools()
}

var sessionIDProperty = map[string]any{
	"type":        "string",
	"description": "Session ID",
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new mission session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"config_name": map[string]any{
					"type":        "string",
					"description": "Config ID to use, see list_configs (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active mission sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionIDProperty},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Mission operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_mission",
		Description: "Start a new mission: random placement unless a layout is given. Dogs patrol during the preview, then the robot waits for instructions.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty,
				"layout": map[string]any{
					"type":        "array",
					"description": "Optional fixed layout; must contain exactly one robot",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"x":    map[string]any{"type": "integer"},
							"y":    map[string]any{"type": "integer"},
							"kind": map[string]any{"type": "string", "enum": kindNames()},
						},
						"required": []string{"x", "y", "kind"},
					},
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleStartMission)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "mission_state",
		Description: "Get the current board, phase and message of a session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionIDProperty},
			Required:   []string{"session_id"},
		},
	}, c.handleMissionState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_instructions",
		Description: "Program the robot while the mission awaits input. Pass either instructions or script.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty,
				"instructions": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"direction": map[string]any{"type": "string", "enum": []string{"up", "down", "left", "right"}},
							"distance":  map[string]any{"type": "integer", "minimum": 0},
						},
						"required": []string{"direction", "distance"},
					},
					"description": "Ordered instructions, at most the config's instruction slots",
				},
				"script": map[string]any{
					"type":        "string",
					"description": `Instruction script, e.g. "right 3; down 2; left 1"`,
				},
				"wait": map[string]any{
					"type":        "boolean",
					"description": "Wait for the mission outcome (default true)",
				},
				"intent": map[string]any{
					"type":        "string",
					"description": "Brief explanation of the plan behind these instructions (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSubmitInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "plan_route",
		Description: "Ask the planner for a route from the robot to the target that avoids every other item",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionIDProperty},
			Required:   []string{"session_id"},
		},
	}, c.handlePlanRoute)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "mission_history",
		Description: "Get the mission history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty,
				"page": map[string]any{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Missions per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMissionHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get what occupies a specific cell of the board. Useful to double check a route before submitting it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty,
				"x": map[string]any{
					"type":        "integer",
					"description": "X coordinate (column) of the cell to describe (0-based)",
				},
				"y": map[string]any{
					"type":        "integer",
					"description": "Y coordinate (row) of the cell to describe (0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available mission configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive mission rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleGameInstructions)
}

func kindNames() []string {
	names := make([]string, 0, len(engine.Kinds))
	for _, k := range engine.Kinds {
		names = append(names, string(k))
	}
	return names
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]any {
	args, _ := request.Params.Arguments.(map[string]any)
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configName, _ := arguments(request)["config_name"].(string)

	body := map[string]string{}
	if configName != "" {
		body["config_id"] = configName
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nNext: start_mission with session_id=%s\n",
		session.ID, session.ConfigID, session.ID)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		phase := engine.PhaseIdle
		if s.MissionState != nil {
			phase = s.MissionState.Phase
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Phase: %s, Created: %s)\n",
			s.ID, s.ConfigID, phase, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleStartMission(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	var body any
	if raw, ok := args["layout"].([]any); ok && len(raw) > 0 {
		items, err := decodeItems(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		body = map[string]any{"items": items}
	}

	var state engine.MissionState
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/mission"), body, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Mission started. Dogs are patrolling; call mission_state until the phase is awaiting_input.\n\n")
	b.WriteString(formatMissionState(&state))
	return mcp.NewToolResultText(b.String()), nil
}

// decodeItems round-trips the loosely typed tool arguments through JSON
func decodeItems(raw []any) ([]engine.Item, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var items []engine.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	return items, nil
}

func (c *Client) handleMissionState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.MissionState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMissionState(&state)), nil
}

func (c *Client) handleSubmitInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	src, _ := args["script"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	wait := true
	if w, ok := args["wait"].(bool); ok {
		wait = w
	}

	body := map[string]any{"wait": wait}
	if raw, ok := args["instructions"].([]any); ok && len(raw) > 0 {
		data, _ := json.Marshal(raw)
		var instructions []engine.Instruction
		if err := json.Unmarshal(data, &instructions); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid instructions: %v", err)), nil
		}
		body["instructions"] = instructions
	}
	if src != "" {
		body["script"] = src
	}
	if _, ok := body["instructions"]; !ok && src == "" {
		return mcp.NewToolResultError("provide instructions or script"), nil
	}

	var result service.ExecutionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/instructions"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatExecutionResult(sessionID, &result)), nil
}

func (c *Client) handlePlanRoute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var plan service.RoutePlan
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/plan"), nil, &plan); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Suggested route (%d segments, %d steps):\n%s\n\nSubmit with submit_instructions script=%q",
		plan.Segments, plan.Steps, plan.Script, plan.Script)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMissionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	xf, okX := args["x"].(float64)
	yf, okY := args["y"].(float64)
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}
	pos := engine.Position{X: int(xf), Y: int(yf)}

	var state engine.MissionState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeCell(&state, pos)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (id: %s, %s)\n  %s\n  Board: %dx%d, Instruction slots: %d, Density: %.0f%%-%.0f%%\n\n",
			config.Name, config.ConfigID, config.Format, config.Description,
			config.BoardSize, config.BoardSize, config.InstructionSlots,
			config.MinDensity*100, config.MaxDensity*100)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🤖 T-1000 Infiltration Mission - Complete Rules

OBJECTIVE:
Move the robot (R) onto the Skynet proxy (T). The mission ends at the first
thing the robot walks into.

MISSION FLOW:
1. start_mission places a random board: obstacles, civilians, dogs, one target, the robot
2. Preview: dogs patrol for a few seconds (phase "previewing"). Their moves are cosmetic
   and every dog is back at its origin when the preview ends
3. Input: phase "awaiting_input". Submit up to the config's instruction slots
4. Execution: the robot walks one cell per tick, in order, each instruction in turn
5. Resolution: the outcome message is shown, then the board is cleared

OUTCOMES:
• target_eliminated: robot reached T (success)
• no_incidents: every instruction completed without touching anything (success)
• obstacle: walked into C/B/X/W (failure)
• detected_by_dog: walked into a dog D (failure)
• decoy_killed: walked into a civilian P (failure)
• abandoned: walked off the board (failure)

INSTRUCTIONS:
• JSON: [{"direction":"right","distance":3},{"direction":"down","distance":2}]
• Script: "right 3; down 2" (also u/d/l/r and arriba/abajo/izquierda/derecha)
• Distance 0 is a no-op slot. Distances are 1 to board_size-1
• Coordinates: x grows to the right, y grows downwards, (0,0) is the top-left

BOARD LEGEND:
` + formatLegend() + `
STRATEGY TIPS:
• Read the board with mission_state once the phase is awaiting_input
• plan_route gives a collision-free route when one exists within the slot limit
• describe_cell confirms what sits on a coordinate before you commit`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatLegend() string {
	legend := engine.ViewLegend()
	letters := make([]string, 0, len(legend))
	for letter := range legend {
		letters = append(letters, letter)
	}
	sort.Strings(letters)

	var b strings.Builder
	for _, letter := range letters {
		fmt.Fprintf(&b, "• %s = %s\n", letter, legend[letter])
	}
	return b.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatMissionState(session.MissionState))
}

func formatMissionState(state *engine.MissionState) string {
	if state == nil {
		return "No mission state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Phase: %s | Robot: (%d,%d) | Board: %dx%d | Missions played: %d\n",
		state.Phase, state.RobotPos.X, state.RobotPos.Y, state.BoardSize, state.BoardSize, state.MissionsPlayed)
	if state.MissionID != "" {
		fmt.Fprintf(&b, "Mission: %s\n", state.MissionID)
	}
	if len(state.Instructions) > 0 {
		fmt.Fprintf(&b, "Instructions: %s | Steps taken: %d\n", script.Format(state.Instructions), state.StepsTaken)
	}

	if len(state.BoardView) > 0 {
		b.WriteString("\n")
		b.WriteString(formatBoard(state.BoardView))
	}

	if state.Outcome != nil {
		status := "FAILED"
		if state.Outcome.Success {
			status = "SUCCESS"
		}
		fmt.Fprintf(&b, "\nOutcome: %s (%s) at (%d,%d)", state.Outcome.Code, status,
			state.Outcome.Position.X, state.Outcome.Position.Y)
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

// formatBoard prefixes rows and columns with their coordinates
func formatBoard(rows []string) string {
	var b strings.Builder
	b.WriteString("    ")
	for x := range len(rows) {
		fmt.Fprintf(&b, "%d", x%10)
	}
	b.WriteString("\n")
	for y, row := range rows {
		fmt.Fprintf(&b, "%3d %s\n", y, row)
	}
	return b.String()
}

func formatExecutionResult(sessionID string, result *service.ExecutionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Accepted: %s\n", script.Format(result.Instructions))

	if result.Outcome == nil {
		fmt.Fprintf(&b, "Executing. Poll mission_state session_id=%s for the outcome.\n", sessionID)
		if result.MissionState != nil {
			b.WriteString("\n" + formatMissionState(result.MissionState))
		}
		return b.String()
	}

	status := "❌ FAILED"
	if result.Outcome.Success {
		status = "✅ SUCCESS"
	}
	fmt.Fprintf(&b, "%s: %s\n", status, result.Outcome.Code)
	if result.Record != nil {
		fmt.Fprintf(&b, "Steps taken: %d | Start: (%d,%d) | End: (%d,%d)\n",
			result.Record.StepsTaken, result.Record.Start.X, result.Record.Start.Y,
			result.Record.End.X, result.Record.End.Y)
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", result.Message)
	}
	if result.MissionState != nil && len(result.MissionState.BoardView) > 0 {
		b.WriteString("\n" + formatBoard(result.MissionState.BoardView))
	}
	return b.String()
}

func describeCell(state *engine.MissionState, pos engine.Position) string {
	if !state.InBounds(pos) {
		return fmt.Sprintf("Cell (%d,%d) is outside the %dx%d board; moving there abandons the mission",
			pos.X, pos.Y, state.BoardSize, state.BoardSize)
	}
	if pos == state.RobotPos && state.Phase != engine.PhaseIdle {
		return fmt.Sprintf("Cell (%d,%d): robot", pos.X, pos.Y)
	}
	item, ok := state.ItemAtExcept(pos, engine.Robot)
	if !ok {
		return fmt.Sprintf("Cell (%d,%d): empty, safe to cross", pos.X, pos.Y)
	}

	var effect string
	switch {
	case item.Kind == engine.Target:
		effect = "reaching it wins the mission"
	case item.Kind == engine.Dog:
		effect = "entering it ends the mission: detected_by_dog"
	case item.Kind == engine.Decoy:
		effect = "entering it ends the mission: decoy_killed"
	case item.Kind.IsObstacle():
		effect = "entering it ends the mission: obstacle"
	}
	return fmt.Sprintf("Cell (%d,%d): %s, %s", pos.X, pos.Y, item.Kind, effect)
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mission History (Page %d/%d) - Missions: %d, Successes: %d\n\n",
		history.Page, history.TotalPages, history.TotalMissions, history.Successes)

	if len(history.Missions) == 0 {
		b.WriteString("(no missions yet)\n")
		return b.String()
	}
	for _, record := range history.Missions {
		status := "✓"
		if !record.Outcome.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "#%d %s %s [%s] steps=%d end=(%d,%d)\n",
			record.Number, status, record.Outcome.Code, script.Format(record.Instructions),
			record.StepsTaken, record.End.X, record.End.Y)
	}
	return b.String()
}
