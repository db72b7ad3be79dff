package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	ErrBoardTooFull        = errors.New("board too full for requested item density")
	ErrInvalidPhase        = errors.New("operation not allowed in current phase")
	ErrInvalidDirection    = errors.New("invalid direction")
	ErrTooManyInstructions = errors.New("too many instructions")
)

// Placement is a drawn count for one kind
type Placement struct {
	Kind  Kind `json:"kind"`
	Count int  `json:"count"`
}

// randomInt returns a uniform integer in [min, max]
func randomInt(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + int(rng.Uint64N(uint64(max-min)+1))
}

// DrawCounts draws an independent count for every item spec, in order
func DrawCounts(rng *rand.Rand, specs []ItemSpec) []Placement {
	plan := make([]Placement, 0, len(specs))
	for _, spec := range specs {
		plan = append(plan, Placement{Kind: spec.Kind, Count: randomInt(rng, spec.Min, spec.Max)})
	}
	return plan
}

// PlaceItems places every planned item on a free cell using rejection sampling.
// Each item gets at most maxAttempts draws; running out returns ErrBoardTooFull.
func PlaceItems(rng *rand.Rand, size int, plan []Placement, maxAttempts int) ([]Item, error) {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxPlacementAttempts
	}

	cells := size * size
	total := 0
	for _, p := range plan {
		total += max(p.Count, 0)
		if total > cells {
			return nil, fmt.Errorf("%d+ items requested on %dx%d: %w", total, size, size, ErrBoardTooFull)
		}
	}

	items := make([]Item, 0, total)
	occupied := make(map[Position]bool, total)

	for _, p := range plan {
		for i := 0; i < p.Count; i++ {
			placed := false
			for attempt := 0; attempt < maxAttempts; attempt++ {
				pos := Position{
					X: randomInt(rng, 0, size-1),
					Y: randomInt(rng, 0, size-1),
				}
				if occupied[pos] {
					continue
				}
				occupied[pos] = true
				items = append(items, Item{Position: pos, Kind: p.Kind})
				placed = true
				break
			}
			if !placed {
				return nil, fmt.Errorf("placing %s %d of %d after %d attempts (%d items on %dx%d): %w",
					p.Kind, i+1, p.Count, maxAttempts, len(items), size, size, ErrBoardTooFull)
			}
		}
	}

	return items, nil
}

// dogsFrom extracts the wandering dogs from the placed items
func dogsFrom(items []Item) []DogState {
	var dogs []DogState
	for _, item := range items {
		if item.Kind == Dog {
			dogs = append(dogs, DogState{Position: item.Position, Origin: item.Position})
		}
	}
	return dogs
}
