// Package engine provides the core rules of the T-1000 infiltration mission.
//
// A mission is played on a square board. Items (obstacles, patrol dogs, a
// decoy, the target and the robot itself) are placed at random, the dogs
// wander cosmetically during a timed preview, and the player then commits a
// fixed number of (direction, distance) instructions that the robot executes
// one cell at a time until it leaves the board, collides with an item or
// runs out of instructions.
//
// Core Types:
//
// Engine owns a MissionState and applies every rule to it. It holds no
// timers; pacing lives in package mission, which serializes all calls.
// MissionConfig describes board size, item mix, pacing and messages.
//
// Usage:
//
//	e, err := engine.NewEngine(engine.DefaultMissionConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	e.StartMission()
//	e.PreviewDogs()
//	e.EndPreview()
//	e.SubmitInstructions([]engine.Instruction{{Direction: engine.Right, Distance: 3}})
//	steps, outcome, err := e.RunToCompletion()
//
// PlanRoute searches the board for the fewest instructions that reach the
// target without touching anything else.
package engine
