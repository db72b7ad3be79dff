// Package script parses textual instruction lists such as
// "right 3; down 2, up" into engine instructions.
//
// Grammar:
//
//	script    = { step [ ";" | "," ] }
//	step      = direction [ distance ]
//	direction = up | down | left | right | u | d | l | r
//	          | arriba | abajo | izquierda | derecha
//
// A missing distance parses as 0, which the engine treats as a no-op slot.
package script

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/wricardo/mcp-training/t1000mission/game/engine"
)

type Script struct {
	Steps []*Step `parser:"( @@ ( ';' | ',' )* )*"`
}

type Step struct {
	Pos       lexer.Position
	Direction string `parser:"@Ident"`
	Distance  *int   `parser:"@Int?"`
}

var parser = participle.MustBuild[Script]()

// Parse turns a script into instructions. Unknown direction words fail with
// engine.ErrInvalidDirection and the offending position.
func Parse(src string) ([]engine.Instruction, error) {
	ast, err := parser.ParseString("script", src)
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	instructions := make([]engine.Instruction, 0, len(ast.Steps))
	for _, step := range ast.Steps {
		dir, err := engine.ParseDirection(step.Direction)
		if err != nil {
			return nil, fmt.Errorf("%d:%d: '%s': %w", step.Pos.Line, step.Pos.Column, step.Direction, err)
		}
		distance := 0
		if step.Distance != nil {
			distance = *step.Distance
		}
		instructions = append(instructions, engine.Instruction{Direction: dir, Distance: distance})
	}
	return instructions, nil
}

// Format renders instructions back into script form, skipping no-op slots
func Format(instructions []engine.Instruction) string {
	parts := make([]string, 0, len(instructions))
	for _, ins := range instructions {
		if ins.Distance == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d", ins.Direction, ins.Distance))
	}
	return strings.Join(parts, "; ")
}
