package engine

import (
	"errors"
	"fmt"
)

var ErrNoRoute = errors.New("no route to target")

type heading struct {
	pos Position
	dir int // index into Directions
}

// PlanRoute searches a route from the robot to the target that avoids every
// other item and uses as few instruction segments as possible. Routes that
// need more than slots segments are reported as ErrNoRoute.
func PlanRoute(gs *MissionState, slots int) ([]Instruction, error) {
	var target Position
	found := false
	for _, item := range gs.Items {
		if item.Kind == Target {
			target = item.Position
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("no target on the board: %w", ErrNoRoute)
	}

	passable := func(p Position) bool {
		if !gs.InBounds(p) {
			return false
		}
		if p == target {
			return true
		}
		_, blocked := gs.ItemAtExcept(p, Robot)
		return !blocked
	}

	// 0-1 BFS: keeping the heading is free, turning opens a new segment
	const unvisited = -1
	size := gs.BoardSize
	cost := make([]int, size*size*len(Directions))
	for i := range cost {
		cost[i] = unvisited
	}
	parent := make(map[heading]heading)
	index := func(h heading) int {
		return (h.pos.Y*size+h.pos.X)*len(Directions) + h.dir
	}

	deque := make([]heading, 0, size*size)
	for d, dir := range Directions {
		next := gs.RobotPos.Move(dir, 1)
		if !passable(next) {
			continue
		}
		h := heading{pos: next, dir: d}
		cost[index(h)] = 1
		deque = append(deque, h)
	}

	var goal *heading
	for len(deque) > 0 {
		cur := deque[0]
		deque = deque[1:]
		if cur.pos == target {
			goal = &cur
			break
		}
		for d, dir := range Directions {
			next := cur.pos.Move(dir, 1)
			if !passable(next) {
				continue
			}
			step := 0
			if d != cur.dir {
				step = 1
			}
			h := heading{pos: next, dir: d}
			c := cost[index(cur)] + step
			if old := cost[index(h)]; old != unvisited && old <= c {
				continue
			}
			cost[index(h)] = c
			parent[h] = cur
			if step == 0 {
				deque = append([]heading{h}, deque...)
			} else {
				deque = append(deque, h)
			}
		}
	}
	if goal == nil {
		return nil, fmt.Errorf("target at (%d,%d) is unreachable: %w", target.X, target.Y, ErrNoRoute)
	}

	var dirs []Direction
	for h := *goal; ; {
		dirs = append(dirs, Directions[h.dir])
		prev, ok := parent[h]
		if !ok {
			break
		}
		h = prev
	}

	var route []Instruction
	for i := len(dirs) - 1; i >= 0; i-- {
		if n := len(route); n > 0 && route[n-1].Direction == dirs[i] {
			route[n-1].Distance++
			continue
		}
		route = append(route, Instruction{Direction: dirs[i], Distance: 1})
	}
	if len(route) > slots {
		return nil, fmt.Errorf("shortest route needs %d instructions but only %d slots exist: %w", len(route), slots, ErrNoRoute)
	}
	return route, nil
}
