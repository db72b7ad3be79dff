package engine

import "strings"

// NewBoard creates an empty size x size render grid
func NewBoard(size int) Board {
	board := make(Board, size)
	for y := range board {
		board[y] = make([]Cell, size)
	}
	return board
}

// Clear wipes every cell, dropping any prior render state
func (b Board) Clear() {
	for y := range b {
		clear(b[y])
	}
}

// InBounds reports whether p lies on the board
func (gs *MissionState) InBounds(p Position) bool {
	return p.X >= 0 && p.X < gs.BoardSize && p.Y >= 0 && p.Y < gs.BoardSize
}

// ItemAt returns the item occupying p, if any
func (gs *MissionState) ItemAt(p Position) (Item, bool) {
	for _, item := range gs.Items {
		if item.Position == p {
			return item, true
		}
	}
	return Item{}, false
}

// ItemAtExcept returns the first item at p whose kind is not skip
func (gs *MissionState) ItemAtExcept(p Position, skip Kind) (Item, bool) {
	for _, item := range gs.Items {
		if item.Position == p && item.Kind != skip {
			return item, true
		}
	}
	return Item{}, false
}

// Occupied reports whether any item sits on p
func (gs *MissionState) Occupied(p Position) bool {
	_, ok := gs.ItemAt(p)
	return ok
}

// CountKind counts placed items of the given kind
func (gs *MissionState) CountKind(kind Kind) int {
	count := 0
	for _, item := range gs.Items {
		if item.Kind == kind {
			count++
		}
	}
	return count
}

// Clone returns a deep copy that is safe to hand to other goroutines
func (gs *MissionState) Clone() *MissionState {
	if gs == nil {
		return nil
	}
	out := *gs
	out.Board = make(Board, len(gs.Board))
	for y, row := range gs.Board {
		out.Board[y] = append([]Cell(nil), row...)
	}
	out.Items = append([]Item(nil), gs.Items...)
	out.Dogs = append([]DogState(nil), gs.Dogs...)
	out.Instructions = append([]Instruction(nil), gs.Instructions...)
	out.History = make([]MissionRecord, len(gs.History))
	for i, rec := range gs.History {
		rec.Instructions = append([]Instruction(nil), rec.Instructions...)
		out.History[i] = rec
	}
	out.BoardView = append([]string(nil), gs.BoardView...)
	if gs.Outcome != nil {
		o := *gs.Outcome
		out.Outcome = &o
	}
	return &out
}

// Offset returns the unit vector of the direction
func (d Direction) Offset() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Valid reports whether d is one of the four directions
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// Move returns p shifted n cells in direction d
func (p Position) Move(d Direction, n int) Position {
	dx, dy := d.Offset()
	return Position{X: p.X + dx*n, Y: p.Y + dy*n}
}

// ParseDirection maps user input, including the Spanish labels, to a direction
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u", "arriba":
		return Up, nil
	case "down", "d", "abajo":
		return Down, nil
	case "left", "l", "izquierda":
		return Left, nil
	case "right", "r", "derecha":
		return Right, nil
	}
	return "", ErrInvalidDirection
}

// viewLetters is the legend of the text board view
var viewLetters = map[Kind]byte{
	Crate:     'C',
	Barrel:    'B',
	Barricade: 'X',
	Wall:      'W',
	Decoy:     'P',
	Target:    'T',
	Dog:       'D',
	Robot:     'R',
}

// ViewLegend returns the meaning of every letter used by BoardView
func ViewLegend() map[string]string {
	legend := map[string]string{".": "empty", "*": "explosion"}
	for kind, letter := range viewLetters {
		legend[string(letter)] = string(kind)
	}
	return legend
}

// buildBoardView renders the board as text rows, one letter per cell
func buildBoardView(gs *MissionState, config *MissionConfig) []string {
	byGlyph := make(map[string]byte, len(viewLetters))
	for kind, letter := range viewLetters {
		byGlyph[config.Glyph(kind)] = letter
	}

	rows := make([]string, 0, len(gs.Board))
	for _, row := range gs.Board {
		var sb strings.Builder
		for _, cell := range row {
			switch {
			case cell.Image != "":
				sb.WriteByte(viewLetters[Robot])
			case cell.Glyph == ExplosionGlyph:
				sb.WriteByte('*')
			case cell.Glyph == "":
				sb.WriteByte('.')
			default:
				if letter, ok := byGlyph[cell.Glyph]; ok {
					sb.WriteByte(letter)
				} else {
					sb.WriteByte('?')
				}
			}
		}
		rows = append(rows, sb.String())
	}
	return rows
}
