package codewriter

import (
	"fmt"

	"vm2hack/internal/asm"
	"vm2hack/internal/vm"
)

// Unit is one compilation source: its short name (used for static
// addressing), its cleaned command lines and whether it is the designated
// entry unit.
type Unit struct {
	Name     string
	Commands []string
	IsEntry  bool
}

const (
	stackBase = 256
	entryCall = "call Sys.init 0"
	endLabel  = "end_asm_file"
)

// Bootstrap initializes the stack pointer and translates the synthetic
// entry call. The call runs under a writer named after the program so the
// empty-stack return label comes out as {program}.$ret.
func Bootstrap(ctx *Context, vocab vm.Vocabulary, program string) ([]asm.Instruction, error) {
	instructions := []asm.Instruction{
		atValue(stackBase), comp("D", "A"),
		at("SP"), comp("M", "D"),
	}
	w := New(ctx, vocab, program)
	call, err := w.WriteCommand(entryCall)
	if err != nil {
		return nil, err
	}
	return append(instructions, call...), nil
}

// EndLoop terminates a program without an entry unit with an infinite
// self-jump so execution cannot fall through.
func EndLoop() []asm.Instruction {
	return []asm.Instruction{
		asm.Label{Name: endLabel},
		at(endLabel), jump("0", "JMP"),
	}
}

// Translate folds every unit's commands, in the given order, into one
// assembly program. All units share one context; the first failure aborts
// the run and discards all output.
func Translate(units []Unit, program string) (string, error) {
	ctx := NewContext()
	vocab := vm.DefaultVocabulary()

	hasEntry := false
	for _, unit := range units {
		if unit.IsEntry {
			hasEntry = true
			break
		}
	}

	var instructions []asm.Instruction
	if hasEntry {
		boot, err := Bootstrap(ctx, vocab, program)
		if err != nil {
			return "", err
		}
		instructions = append(instructions, boot...)
	}
	for _, unit := range units {
		w := New(ctx, vocab, unit.Name)
		for _, line := range unit.Commands {
			expanded, err := w.WriteCommand(line)
			if err != nil {
				return "", fmt.Errorf("unit %s: %w", unit.Name, err)
			}
			instructions = append(instructions, expanded...)
		}
	}
	if !hasEntry {
		instructions = append(instructions, EndLoop()...)
	}
	return asm.Render(instructions), nil
}
