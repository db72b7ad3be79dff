package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wricardo/mcp-training/t1000mission/game/engine"
	"github.com/wricardo/mcp-training/t1000mission/game/mission"
)

// eventBuffer holds the events produced between two renders. A preview
// tick moves every dog, so this comfortably covers a crowded board.
const eventBuffer = 256

// Run plays missions of cfg in the terminal until the user quits or ctx
// is cancelled. Extra publishers receive the same events as the view.
func Run(ctx context.Context, cfg *engine.MissionConfig, opts []engine.Option, publishers ...mission.Publisher) error {
	eng, err := engine.NewEngine(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	events := NewEventChannel(eventBuffer)
	ctrl := mission.NewController("local", eng,
		mission.WithPublisher(append(mission.Publishers{events}, publishers...)))
	defer ctrl.Close()

	model := NewModel(ctx, cfg.Name, ctrl, events)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
