// Command analyze prints quick, human-readable heuristics about the mission
// presets in the project's configs directory. For every preset it samples
// random boards and summarizes density, placement failures and how often the
// planner finds a route to the target within the instruction slots.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/t1000mission/game/config"
	"github.com/wricardo/mcp-training/t1000mission/game/engine"
)

// Report aggregates the sampled boards of one preset
type Report struct {
	File             string
	Name             string
	BoardSize        int
	InstructionSlots int
	MinDensity       float64
	MaxDensity       float64
	Trials           int
	PlacementFailed  int
	NoTarget         int
	Routable         int
	// Segments counts routable boards by the number of instructions needed
	Segments map[int]int
}

// RouteRate is the share of placed boards with a route to the target
func (r *Report) RouteRate() float64 {
	placed := r.Trials - r.PlacementFailed
	if placed == 0 {
		return 0
	}
	return float64(r.Routable) / float64(placed)
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "sample random boards for each mission preset",
		ArgsUsage: "[preset files...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory scanned when no files are given"},
			&cli.IntFlag{Name: "trials", Value: 500, Usage: "boards sampled per preset"},
			&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "random seed"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				var err error
				if files, err = presetFiles(cmd.String("config-dir")); err != nil {
					return err
				}
			}

			for _, file := range files {
				fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
				mission, err := config.LoadFile(file)
				if err != nil {
					fmt.Printf("Error loading preset: %v\n", err)
					continue
				}
				report := analyzeConfig(mission, cmd.Int("trials"), cmd.Uint64("seed"))
				report.File = filepath.Base(file)
				printReport(os.Stdout, report)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// presetFiles lists every preset file in dir, sorted by name
func presetFiles(dir string) ([]string, error) {
	var files []string
	for _, ext := range config.Extensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no presets found in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

// analyzeConfig places trials random boards and plans a route on each
func analyzeConfig(mission *engine.MissionConfig, trials int, seed uint64) *Report {
	minDensity, maxDensity := mission.Density()
	report := &Report{
		Name:             mission.Name,
		BoardSize:        mission.BoardSize,
		InstructionSlots: mission.InstructionSlots,
		MinDensity:       minDensity,
		MaxDensity:       maxDensity,
		Trials:           trials,
		Segments:         make(map[int]int),
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x5bd1e995))
	for range trials {
		plan := engine.DrawCounts(rng, mission.Items)
		items, err := engine.PlaceItems(rng, mission.BoardSize, plan, mission.MaxPlacementAttempts)
		if err != nil {
			report.PlacementFailed++
			continue
		}

		state := &engine.MissionState{BoardSize: mission.BoardSize, Items: items}
		for _, item := range items {
			if item.Kind == engine.Robot {
				state.RobotPos = item.Position
			}
		}
		if state.CountKind(engine.Target) == 0 {
			report.NoTarget++
			continue
		}

		route, err := engine.PlanRoute(state, mission.InstructionSlots)
		if errors.Is(err, engine.ErrNoRoute) {
			continue
		}
		report.Routable++
		report.Segments[len(route)]++
	}

	return report
}

func printReport(w io.Writer, r *Report) {
	fmt.Fprintf(w, "Name: %s\n", r.Name)
	fmt.Fprintf(w, "Board: %d x %d, Instruction slots: %d\n", r.BoardSize, r.BoardSize, r.InstructionSlots)
	fmt.Fprintf(w, "Density: %.0f%% - %.0f%%\n", r.MinDensity*100, r.MaxDensity*100)

	if r.PlacementFailed > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: placement failed on %d of %d boards\n", r.PlacementFailed, r.Trials)
	} else {
		fmt.Fprintf(w, "✅ Placement succeeded on all %d boards\n", r.Trials)
	}
	if r.NoTarget > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d boards had no target; only no_incidents can succeed there\n", r.NoTarget)
	}

	rate := r.RouteRate() * 100
	switch {
	case rate < 50:
		fmt.Fprintf(w, "⚠️  CRITICAL: a route to the target exists on only %.1f%% of boards\n", rate)
	default:
		fmt.Fprintf(w, "✅ A route to the target exists on %.1f%% of boards\n", rate)
	}

	counts := make([]int, 0, len(r.Segments))
	for n := range r.Segments {
		counts = append(counts, n)
	}
	sort.Ints(counts)
	for _, n := range counts {
		fmt.Fprintf(w, "   %d instructions: %d boards\n", n, r.Segments[n])
	}
}
