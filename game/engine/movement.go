package engine

import "fmt"

// CoerceDistance returns distance when it lies in [1, maxDistance] and 0 otherwise
func CoerceDistance(distance, maxDistance int) int {
	if distance < 1 || distance > maxDistance {
		return 0
	}
	return distance
}

// NormalizeInstructions fills exactly slots instruction slots. Missing slots
// become no-op steps and invalid distances coerce to 0.
func NormalizeInstructions(instructions []Instruction, slots, maxDistance int) ([]Instruction, error) {
	if len(instructions) > slots {
		return nil, fmt.Errorf("%d instructions for %d slots: %w", len(instructions), slots, ErrTooManyInstructions)
	}

	out := make([]Instruction, slots)
	for i := range out {
		if i >= len(instructions) {
			out[i] = Instruction{Direction: Up}
			continue
		}
		ins := instructions[i]
		if ins.Direction == "" && ins.Distance == 0 {
			out[i] = Instruction{Direction: Up}
			continue
		}
		dir, err := ParseDirection(string(ins.Direction))
		if err != nil {
			return nil, fmt.Errorf("slot %d: '%s': %w", i+1, ins.Direction, err)
		}
		out[i] = Instruction{Direction: dir, Distance: CoerceDistance(ins.Distance, maxDistance)}
	}
	return out, nil
}

// SubmitInstructions commits the instruction slots and starts execution
func (e *Engine) SubmitInstructions(instructions []Instruction) error {
	if e.state.Phase != PhaseAwaitingInput {
		return fmt.Errorf("submit instructions while %s: %w", e.state.Phase, ErrInvalidPhase)
	}
	normalized, err := NormalizeInstructions(instructions, e.config.InstructionSlots, e.config.MaxDistance())
	if err != nil {
		return err
	}

	e.state.Instructions = normalized
	e.state.Phase = PhaseExecuting
	e.state.Message = e.config.Messages.Executing
	e.slot = 0
	e.taken = 0
	e.start = e.state.RobotPos
	return nil
}

// Step advances the robot by one unit step. When every instruction has been
// played out, or the step ends the mission, the result is Done and carries the outcome.
func (e *Engine) Step() (*StepResult, error) {
	s := e.state
	if s.Phase != PhaseExecuting {
		return nil, fmt.Errorf("step while %s: %w", s.Phase, ErrInvalidPhase)
	}

	for e.slot < len(s.Instructions) && e.taken >= s.Instructions[e.slot].Distance {
		e.slot++
		e.taken = 0
	}

	if e.slot >= len(s.Instructions) {
		outcome := e.outcomeFor(OutcomeNoIncidents, "")
		e.finish(outcome)
		return &StepResult{
			Instruction: len(s.Instructions) - 1,
			From:        s.RobotPos,
			To:          s.RobotPos,
			Done:        true,
			Outcome:     &outcome,
			StepsTaken:  s.StepsTaken,
		}, nil
	}

	ins := s.Instructions[e.slot]
	e.taken++
	result := &StepResult{
		Instruction: e.slot,
		Step:        e.taken,
		Direction:   ins.Direction,
		From:        s.RobotPos,
		To:          s.RobotPos,
	}

	next := s.RobotPos.Move(ins.Direction, 1)
	if !s.InBounds(next) {
		outcome := e.outcomeFor(OutcomeAbandoned, "")
		e.finish(outcome)
		result.Done = true
		result.Outcome = &outcome
		result.StepsTaken = s.StepsTaken
		return result, nil
	}

	e.clearCell(s.RobotPos)
	s.RobotPos = next
	for i := range s.Items {
		if s.Items[i].Kind == Robot {
			s.Items[i].Position = next
		}
	}
	e.drawRobot(next)
	s.StepsTaken++
	result.To = next
	result.Moved = true
	result.StepsTaken = s.StepsTaken

	if item, ok := s.ItemAtExcept(next, Robot); ok {
		s.Board[next.Y][next.X] = Cell{Glyph: ExplosionGlyph}
		outcome := e.collisionOutcome(item)
		e.finish(outcome)
		result.Done = true
		result.Outcome = &outcome
	}

	return result, nil
}

// RunToCompletion plays every remaining step without pacing
func (e *Engine) RunToCompletion() ([]StepResult, *Outcome, error) {
	var steps []StepResult
	for {
		res, err := e.Step()
		if err != nil {
			return steps, nil, err
		}
		steps = append(steps, *res)
		if res.Done {
			return steps, res.Outcome, nil
		}
	}
}

// collisionOutcome classifies a collision by the kind of item hit
func (e *Engine) collisionOutcome(item Item) Outcome {
	var code OutcomeCode
	switch {
	case item.Kind.IsObstacle():
		code = OutcomeObstacle
	case item.Kind == Dog:
		code = OutcomeDetectedByDog
	case item.Kind == Decoy:
		code = OutcomeDecoyKilled
	case item.Kind == Target:
		code = OutcomeTargetEliminated
	}
	return e.outcomeFor(code, item.Kind)
}

func (e *Engine) outcomeFor(code OutcomeCode, kind Kind) Outcome {
	m := e.config.Messages
	outcome := Outcome{Code: code, Position: e.state.RobotPos, Kind: kind}
	switch code {
	case OutcomeAbandoned:
		outcome.Message = m.Abandoned
	case OutcomeObstacle:
		outcome.Message = m.Obstacle
	case OutcomeDetectedByDog:
		outcome.Message = m.DetectedByDog
	case OutcomeDecoyKilled:
		outcome.Message = m.DecoyKilled
	case OutcomeTargetEliminated:
		outcome.Message = m.TargetEliminated
		outcome.Success = true
	case OutcomeNoIncidents:
		outcome.Message = m.NoIncidents
		outcome.Success = true
	}
	return outcome
}
