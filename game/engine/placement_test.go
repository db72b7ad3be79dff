package engine

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func TestDrawCounts_WithinRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	specs := DefaultItemSpecs()

	for i := 0; i < 200; i++ {
		plan := DrawCounts(rng, specs)
		if len(plan) != len(specs) {
			t.Fatalf("Expected %d placements, got %d", len(specs), len(plan))
		}
		for j, p := range plan {
			if p.Kind != specs[j].Kind {
				t.Errorf("Expected kind %s at %d, got %s", specs[j].Kind, j, p.Kind)
			}
			if p.Count < specs[j].Min || p.Count > specs[j].Max {
				t.Errorf("%s count %d outside %d-%d", p.Kind, p.Count, specs[j].Min, specs[j].Max)
			}
		}
	}
}

func TestPlaceItems_FillsWholeBoard(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	items, err := PlaceItems(rng, 3, []Placement{{Kind: Crate, Count: 8}, {Kind: Robot, Count: 1}}, 100000)
	if err != nil {
		t.Fatalf("PlaceItems failed: %v", err)
	}
	if len(items) != 9 {
		t.Fatalf("Expected 9 items, got %d", len(items))
	}
	seen := make(map[Position]bool)
	for _, it := range items {
		if seen[it.Position] {
			t.Errorf("Duplicate position %v", it.Position)
		}
		seen[it.Position] = true
	}
}

func TestPlaceItems_BoardTooFull(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	_, err := PlaceItems(rng, 3, []Placement{{Kind: Crate, Count: 10}}, 50)
	if !errors.Is(err, ErrBoardTooFull) {
		t.Errorf("Expected ErrBoardTooFull, got %v", err)
	}
}

func TestPlaceItems_CountBeyondBoard(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	plan := []Placement{{Kind: Crate, Count: math.MaxInt}, {Kind: Robot, Count: 1}}
	items, err := PlaceItems(rng, 6, plan, DefaultMaxPlacementAttempts)
	if !errors.Is(err, ErrBoardTooFull) {
		t.Fatalf("Expected ErrBoardTooFull, got %v", err)
	}
	if items != nil {
		t.Errorf("Expected no items, got %d", len(items))
	}
}

func TestRandomInt_FullRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 100; i++ {
		if n := randomInt(rng, 0, math.MaxInt); n < 0 {
			t.Fatalf("Expected non-negative draw, got %d", n)
		}
		if n := randomInt(rng, 2, 4); n < 2 || n > 4 {
			t.Fatalf("Draw %d outside 2-4", n)
		}
	}
	if n := randomInt(rng, 7, 7); n != 7 {
		t.Errorf("Expected 7 for an empty range, got %d", n)
	}
}

func TestStartMission_OversizedItemCount(t *testing.T) {
	e := NewEngineWithDefaults(WithSeed(11))
	e.config.Items[0].Max = math.MaxInt

	if _, err := e.StartMission(); !errors.Is(err, ErrBoardTooFull) {
		t.Fatalf("Expected ErrBoardTooFull, got %v", err)
	}
	if e.Phase() != PhaseIdle {
		t.Errorf("Expected phase %s after a failed start, got %s", PhaseIdle, e.Phase())
	}
}

func TestPlaceItems_KeepsPlanOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	plan := []Placement{{Kind: Wall, Count: 2}, {Kind: Target, Count: 1}, {Kind: Robot, Count: 1}}
	items, err := PlaceItems(rng, 6, plan, DefaultMaxPlacementAttempts)
	if err != nil {
		t.Fatalf("PlaceItems failed: %v", err)
	}
	want := []Kind{Wall, Wall, Target, Robot}
	for i, kind := range want {
		if items[i].Kind != kind {
			t.Errorf("item %d: expected %s, got %s", i, kind, items[i].Kind)
		}
	}
}
