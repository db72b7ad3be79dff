// Package config loads mission presets from a directory.
//
// A preset is a JSON, YAML or TOML file describing an engine.MissionConfig:
// board size, instruction slots, the item mix, pacing and player-facing
// messages. Its file name without extension is the config id used when
// creating sessions. Missing fields are filled with the classic defaults
// before validation, so a preset only needs to state what it changes.
//
// Shipped presets:
//   - classic: the 10x10 mission with two dogs
//   - clasico: the same mission with Spanish texts
//   - hard: a crowded 12x12 compound with four dogs
//   - training: a 6x6 yard for getting started
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	hard, err := manager.LoadConfig("hard")
//	presets, err := manager.ListConfigs()
//
// When no classic preset exists the first valid file becomes the default,
// and an empty directory falls back to engine.DefaultMissionConfig.
package config
