// Package asm models Hack assembly instructions as structured values.
// Code generation builds instruction slices and only serializes them to
// text at the output boundary.
package asm

import (
	"strconv"
	"strings"
)

// Instruction is a single Hack assembly line: an A-instruction, a
// C-instruction or a label declaration.
type Instruction interface {
	Asm() string
}

// A is an A-instruction addressing a symbol, e.g. @SP or @Main.main.
type A struct {
	Symbol string
}

func (a A) Asm() string {
	return "@" + a.Symbol
}

// AConst is an A-instruction loading a literal value, e.g. @256.
type AConst struct {
	Value int
}

func (a AConst) Asm() string {
	return "@" + strconv.Itoa(a.Value)
}

// C is a C-instruction of the form dest=comp;jump. Dest and Jump may be
// empty; Comp is always present.
type C struct {
	Dest string
	Comp string
	Jump string
}

func (c C) Asm() string {
	var b strings.Builder
	if c.Dest != "" {
		b.WriteString(c.Dest)
		b.WriteByte('=')
	}
	b.WriteString(c.Comp)
	if c.Jump != "" {
		b.WriteByte(';')
		b.WriteString(c.Jump)
	}
	return b.String()
}

// Label declares a jump target, e.g. (Main.main).
type Label struct {
	Name string
}

func (l Label) Asm() string {
	return "(" + l.Name + ")"
}

// Render serializes instructions to assembly text, one instruction per
// line, with a trailing newline.
func Render(instructions []Instruction) string {
	var b strings.Builder
	for _, instruction := range instructions {
		b.WriteString(instruction.Asm())
		b.WriteByte('\n')
	}
	return b.String()
}
