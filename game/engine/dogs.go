package engine

import "fmt"

// DogCandidates returns the free neighbour cells a dog may step to.
// Neighbours are clamped to the board, so an edge dog "stays" on that axis,
// and that cell is dropped because the dog itself occupies it.
func (gs *MissionState) DogCandidates(d DogState) []Position {
	clamp := func(v int) int {
		return max(0, min(gs.BoardSize-1, v))
	}
	neighbours := []Position{
		{X: d.X, Y: clamp(d.Y - 1)}, // Up
		{X: d.X, Y: clamp(d.Y + 1)}, // Down
		{X: clamp(d.X - 1), Y: d.Y}, // Left
		{X: clamp(d.X + 1), Y: d.Y}, // Right
	}

	free := make([]Position, 0, len(neighbours))
	for _, p := range neighbours {
		if !gs.Occupied(p) {
			free = append(free, p)
		}
	}
	return free
}

// PreviewDogs performs one preview tick: every dog that has a free neighbour
// is drawn there and its old cell is cleared. The item list and the dogs'
// logical positions are left untouched.
func (e *Engine) PreviewDogs() ([]DogMove, error) {
	if e.state.Phase != PhasePreviewing {
		return nil, fmt.Errorf("preview dogs while %s: %w", e.state.Phase, ErrInvalidPhase)
	}

	glyph := e.config.Glyph(Dog)
	moves := make([]DogMove, 0, len(e.state.Dogs))
	for i, dog := range e.state.Dogs {
		candidates := e.state.DogCandidates(dog)
		if len(candidates) == 0 {
			continue
		}
		target := candidates[randomInt(e.rng, 0, len(candidates)-1)]

		e.clearCell(dog.Position)
		e.state.Board[target.Y][target.X] = Cell{Glyph: glyph}
		moves = append(moves, DogMove{Dog: i, From: dog.Position, To: target})
	}
	return moves, nil
}

// RevertDogMove puts a previewed dog back on its recorded cell. It reports
// false and does nothing once the preview is over.
func (e *Engine) RevertDogMove(m DogMove) bool {
	if e.state.Phase != PhasePreviewing {
		return false
	}
	if !e.state.InBounds(m.From) || !e.state.InBounds(m.To) {
		return false
	}
	e.clearCell(m.To)
	e.state.Board[m.From.Y][m.From.X] = Cell{Glyph: e.config.Glyph(Dog)}
	return true
}
