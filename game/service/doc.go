// Package service provides the business logic layer for the T-1000 mission game.
//
// GameService is what every transport talks to: the REST API, the MCP tools
// and the terminal client's remote commands. It resolves sessions, loads
// presets, and forwards mission operations to the session's controller.
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages mission preset loading and validation.
//
// Errors:
//
// Lookups fail with ErrSessionNotFound or ErrConfigNotFound, bad payloads
// with ErrInvalidRequest. Engine errors such as engine.ErrInvalidPhase and
// engine.ErrTooManyInstructions pass through unchanged so callers can map
// them with errors.Is.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//	gameService.StartMission(ctx, info.ID, nil)
//
//	// later, at the instruction prompt
//	result, err := gameService.SubmitInstructions(ctx, info.ID, instructions, true)
package service
