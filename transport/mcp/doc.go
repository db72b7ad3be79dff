// Package mcp exposes the mission server to AI agents over the Model Context
// Protocol.
//
// Client is a thin proxy: every tool call becomes a REST request against a
// running server, and the JSON answer is rendered as agent-friendly text
// (board rows with coordinates, outcome summaries, history lines).
//
// Tools:
//   - create_session, list_sessions, get_session
//   - start_mission: random or fixed layout
//   - mission_state: phase, board and message
//   - submit_instructions: JSON instructions or a script, optionally waiting
//     for the outcome
//   - plan_route: planner suggestion
//   - mission_history: paginated records
//   - describe_cell: what occupies a coordinate
//   - list_configs, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// The main server also mounts the same tools over streamable HTTP at /mcp.
package mcp
