package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wricardo/mcp-training/t1000mission/game/engine"
	"github.com/wricardo/mcp-training/t1000mission/game/script"
	"github.com/wricardo/mcp-training/t1000mission/game/service"
	wsstream "github.com/wricardo/mcp-training/t1000mission/transport/websocket"
)

func printState(w io.Writer, state *engine.MissionState) {
	if state == nil {
		fmt.Fprintln(w, "No mission state")
		return
	}
	for _, row := range state.BoardView {
		fmt.Fprintln(w, strings.Join(strings.Split(row, ""), " "))
	}
	fmt.Fprintf(w, "Phase: %s | Robot: (%d,%d) | Missions: %d\n",
		state.Phase, state.RobotPos.X, state.RobotPos.Y, state.MissionsPlayed)
	if len(state.Instructions) > 0 {
		fmt.Fprintf(w, "Instructions: %s\n", script.Format(state.Instructions))
	}
	if o := state.Outcome; o != nil {
		fmt.Fprintf(w, "Outcome: %s at (%d,%d)\n", o.Code, o.Position.X, o.Position.Y)
	}
	if state.Message != "" {
		fmt.Fprintf(w, "Message: %s\n", state.Message)
	}
}

func printSessions(w io.Writer, sessions []*service.SessionInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCONFIG\tPHASE\tMISSIONS\tLAST ACCESSED")
	for _, s := range sessions {
		phase, played := "-", 0
		if s.MissionState != nil {
			phase = string(s.MissionState.Phase)
			played = s.MissionState.MissionsPlayed
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", s.ID, s.ConfigID, phase, played, s.LastAccessedAt.Format("2006-01-02 15:04:05"))
	}
	tw.Flush()
}

func printConfigs(w io.Writer, configs []*service.ConfigInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBOARD\tSLOTS\tDENSITY")
	for _, c := range configs {
		fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%d\t%.0f%%-%.0f%%\n",
			c.ConfigID, c.Name, c.BoardSize, c.BoardSize, c.InstructionSlots, c.MinDensity*100, c.MaxDensity*100)
	}
	tw.Flush()
}

func printResult(w io.Writer, result *service.ExecutionResult) {
	fmt.Fprintf(w, "Accepted: %s\n", script.Format(result.Instructions))
	if result.Outcome != nil {
		status := "FAILED"
		if result.Outcome.Success {
			status = "SUCCESS"
		}
		fmt.Fprintf(w, "%s: %s (%s)\n", status, outcomeTitle(result.Outcome.Code), result.Outcome.Code)
	}
	printState(w, result.MissionState)
}

// outcomeTitle turns "detected_by_dog" into "Detected By Dog"
func outcomeTitle(code engine.OutcomeCode) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(code), "_", " "))
}

func printHistory(w io.Writer, history *service.HistoryResponse) {
	fmt.Fprintf(w, "Page %d/%d - Missions: %d, Successes: %d\n",
		history.Page, history.TotalPages, history.TotalMissions, history.Successes)
	for _, record := range history.Missions {
		fmt.Fprintf(w, "#%d %s %s [%s] steps=%d\n",
			record.Number, record.ID, record.Outcome.Code, script.Format(record.Instructions), record.StepsTaken)
	}
}

func printPlan(w io.Writer, plan *service.RoutePlan) {
	fmt.Fprintf(w, "Route: %s\n", plan.Script)
	fmt.Fprintf(w, "Instructions: %d, Steps: %d\n", plan.Segments, plan.Steps)
}

func printEvent(w io.Writer, msg wsstream.Message) {
	switch {
	case msg.DogMove != nil:
		fmt.Fprintf(w, "[%s] %s dog %d (%d,%d)\n", msg.Timestamp.Format("15:04:05.000"), msg.Event, msg.DogMove.Dog, msg.DogMove.To.X, msg.DogMove.To.Y)
	case msg.Step != nil:
		fmt.Fprintf(w, "[%s] %s (%d,%d)\n", msg.Timestamp.Format("15:04:05.000"), msg.Event, msg.Step.To.X, msg.Step.To.Y)
	case msg.Outcome != nil:
		fmt.Fprintf(w, "[%s] %s %s\n", msg.Timestamp.Format("15:04:05.000"), msg.Event, msg.Outcome.Code)
	default:
		fmt.Fprintf(w, "[%s] %s\n", msg.Timestamp.Format("15:04:05.000"), msg.Event)
	}
}
