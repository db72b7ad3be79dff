package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/t1000mission/game/engine"
	"github.com/wricardo/mcp-training/t1000mission/game/script"
	"github.com/wricardo/mcp-training/t1000mission/game/service"
)

// autoplayStats tallies the missions played by autoplay
type autoplayStats struct {
	Played    int
	Successes int
	NoRoute   int
	Outcomes  map[engine.OutcomeCode]int
}

// autoplay plays missions back to back on one session, submitting the
// suggested route of each. Boards without a route get an empty submission.
func autoplay(ctx context.Context, c *apiClient, sessionID string, missions int, poll time.Duration, out io.Writer, verbose bool) (*autoplayStats, error) {
	stats := &autoplayStats{Outcomes: make(map[engine.OutcomeCode]int)}

	for n := 1; n <= missions; n++ {
		var state engine.MissionState
		if err := c.call(ctx, "POST", sessionPath(sessionID, "/mission"), map[string]any{}, &state); err != nil {
			return stats, fmt.Errorf("mission %d: start: %w", n, err)
		}

		if err := awaitInput(ctx, c, sessionID, &state, poll); err != nil {
			return stats, fmt.Errorf("mission %d: %w", n, err)
		}

		var plan service.RoutePlan
		instructions := []engine.Instruction{}
		if err := c.call(ctx, "GET", sessionPath(sessionID, "/plan"), nil, &plan); err != nil {
			if !strings.Contains(err.Error(), "HTTP 404") {
				return stats, fmt.Errorf("mission %d: plan: %w", n, err)
			}
			stats.NoRoute++
		} else {
			instructions = plan.Instructions
		}

		var result service.ExecutionResult
		body := map[string]any{"instructions": instructions, "wait": true}
		if err := c.call(ctx, "POST", sessionPath(sessionID, "/instructions"), body, &result); err != nil {
			return stats, fmt.Errorf("mission %d: submit: %w", n, err)
		}
		if result.Outcome == nil {
			return stats, fmt.Errorf("mission %d: no outcome after waiting", n)
		}

		stats.Played++
		stats.Outcomes[result.Outcome.Code]++
		if result.Outcome.Success {
			stats.Successes++
		}
		if verbose {
			fmt.Fprintf(out, "Mission %d/%d: [%s] -> %s\n", n, missions, script.Format(instructions), result.Outcome.Code)
		}
	}
	return stats, nil
}

// awaitInput polls the mission until the preview is over
func awaitInput(ctx context.Context, c *apiClient, sessionID string, state *engine.MissionState, poll time.Duration) error {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for state.Phase != engine.PhaseAwaitingInput {
		if state.Phase != engine.PhasePreviewing {
			return errors.New("mission left the preview in phase " + string(state.Phase))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := c.call(ctx, "GET", sessionPath(sessionID, "/state"), nil, state); err != nil {
			return err
		}
	}
	return nil
}

func printAutoplay(w io.Writer, sessionID string, stats *autoplayStats) {
	fmt.Fprintf(w, "Session %s: %d missions, %d successes", sessionID, stats.Played, stats.Successes)
	if stats.Played > 0 {
		fmt.Fprintf(w, " (%.1f%%)", float64(stats.Successes)*100/float64(stats.Played))
	}
	fmt.Fprintln(w)
	if stats.NoRoute > 0 {
		fmt.Fprintf(w, "No route on %d boards\n", stats.NoRoute)
	}
	for _, code := range []engine.OutcomeCode{
		engine.OutcomeTargetEliminated,
		engine.OutcomeDecoyKilled,
		engine.OutcomeObstacle,
		engine.OutcomeDetectedByDog,
		engine.OutcomeAbandoned,
		engine.OutcomeNoIncidents,
	} {
		if count := stats.Outcomes[code]; count > 0 {
			fmt.Fprintf(w, "   %s: %d\n", code, count)
		}
	}
}
