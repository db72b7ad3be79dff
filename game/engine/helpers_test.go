package engine

// cellAt returns the rendered cell at p, or an empty cell when out of bounds
func (gs *MissionState) cellAt(p Position) Cell {
	if !gs.InBounds(p) || len(gs.Board) != gs.BoardSize {
		return Cell{}
	}
	return gs.Board[p.Y][p.X]
}

func gridDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
