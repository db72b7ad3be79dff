// Package api provides HTTP REST API handlers for the mission server.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "..."} optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get session with its current mission state
//   - DELETE /api/sessions/{id} - Delete session
//
// Missions:
//   - POST /api/sessions/{id}/mission - Start a mission (optional {"items": [...]} fixed layout)
//   - GET /api/sessions/{id}/state - Current mission state
//   - POST /api/sessions/{id}/instructions - Program the robot
//     ({"instructions": [...]} or {"script": "right 3; down 2"}, "wait": true)
//   - GET /api/sessions/{id}/history - Mission history (?page&limit&order)
//   - GET /api/sessions/{id}/plan - Suggested route to the target
//
// Configuration:
//   - GET /api/configs - List mission presets
//   - GET /api/configs/{name} - Get one preset
//   - POST /api/configs - Save a preset
//
// Streaming:
//   - GET /ws?session={id} - WebSocket render stream
//
// Errors are JSON bodies of the form {"error": "..."}. Unknown sessions and
// configs map to 404, operations in the wrong mission phase to 409, malformed
// instructions to 400.
package api
