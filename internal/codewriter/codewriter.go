// Package codewriter generates Hack assembly for classified VM commands.
// One CodeWriter translates one unit; the run-wide state lives in a
// Context shared by all writers of a run.
package codewriter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"vm2hack/internal/asm"
	"vm2hack/internal/vm"
)

var (
	// ErrInvalidCommand reports a line matching no recognized command
	// surface form, including push/pop lines with an unknown segment.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrInvalidOperand reports a recognized command with a missing
	// operand or an operand outside its valid domain.
	ErrInvalidOperand = errors.New("invalid operand")
	// ErrNoRule reports a classified command the generator has no rule
	// for. Unreachable as long as classification is enforced.
	ErrNoRule = errors.New("no emission rule")
)

// CodeWriter emits assembly for one unit's commands. The line counter
// increments once per emitted command and disambiguates the internal
// labels of eq/gt/lt expansions.
type CodeWriter struct {
	ctx   *Context
	vocab vm.Vocabulary
	unit  string
	line  int
}

func New(ctx *Context, vocab vm.Vocabulary, unit string) *CodeWriter {
	return &CodeWriter{ctx: ctx, vocab: vocab, unit: unit}
}

// WriteCommand classifies one cleaned command line and returns its
// assembly expansion. Any failure is fatal to the run; no command is
// silently dropped.
func (w *CodeWriter) WriteCommand(raw string) ([]asm.Instruction, error) {
	cmd := vm.Classify(raw, w.vocab)
	var (
		instructions []asm.Instruction
		err          error
	)
	switch cmd.Kind {
	case vm.Arithmetic:
		instructions, err = w.writeArithmetic(cmd)
	case vm.Push:
		instructions, err = w.writePush(cmd)
	case vm.Pop:
		instructions, err = w.writePop(cmd)
	case vm.Label:
		instructions, err = w.writeLabel(cmd)
	case vm.Goto:
		instructions, err = w.writeGoto(cmd)
	case vm.IfGoto:
		instructions, err = w.writeIfGoto(cmd)
	case vm.Function:
		instructions, err = w.writeFunction(cmd)
	case vm.Call:
		instructions, err = w.writeCall(cmd)
	case vm.Return:
		instructions = w.writeReturn()
	case vm.Invalid:
		return nil, fmt.Errorf("%w: %q (line %d)", ErrInvalidCommand, raw, w.line)
	default:
		return nil, fmt.Errorf("%w for %s command: %q (line %d)", ErrNoRule, cmd.Kind, raw, w.line)
	}
	if err != nil {
		return nil, err
	}
	w.line++
	return instructions, nil
}

func (w *CodeWriter) operandError(cmd vm.Command) error {
	return fmt.Errorf("%w for %s command: %q (line %d)", ErrInvalidOperand, cmd.Kind, cmd.Raw, w.line)
}

func at(symbol string) asm.Instruction {
	return asm.A{Symbol: symbol}
}

func atValue(value int) asm.Instruction {
	return asm.AConst{Value: value}
}

func comp(dest, expr string) asm.Instruction {
	return asm.C{Dest: dest, Comp: expr}
}

func jump(expr, condition string) asm.Instruction {
	return asm.C{Comp: expr, Jump: condition}
}

// pushD appends the D register to the top of the stack and increments SP.
func pushD() []asm.Instruction {
	return []asm.Instruction{
		at("SP"), comp("A", "M"), comp("M", "D"),
		at("SP"), comp("M", "M+1"),
	}
}

// popD decrements SP and reads the popped cell into D.
func popD() []asm.Instruction {
	return []asm.Instruction{
		at("SP"), comp("AM", "M-1"), comp("D", "M"),
	}
}

func (w *CodeWriter) writeArithmetic(cmd vm.Command) ([]asm.Instruction, error) {
	switch cmd.Raw {
	case "add":
		return binary("D+M"), nil
	case "sub":
		return binary("M-D"), nil
	case "and":
		return binary("D&M"), nil
	case "or":
		return binary("D|M"), nil
	case "neg":
		return unary("-M"), nil
	case "not":
		return unary("!M"), nil
	case "eq":
		return w.compare("equal", "JEQ"), nil
	case "gt":
		return w.compare("greater", "JGT"), nil
	case "lt":
		return w.compare("lesser", "JLT"), nil
	}
	return nil, fmt.Errorf("%w for %s command: %q (line %d)", ErrNoRule, cmd.Kind, cmd.Raw, w.line)
}

// binary pops the top operand into D and combines it with the new top
// cell in place, for a net stack effect of -1.
func binary(expr string) []asm.Instruction {
	return append(popD(), comp("A", "A-1"), comp("M", expr))
}

// unary rewrites the top cell in place.
func unary(expr string) []asm.Instruction {
	return []asm.Instruction{at("SP"), comp("A", "M-1"), comp("M", expr)}
}

// compare pops two operands, branches on their signed difference and
// pushes all-ones for true or zero for false. The helper labels carry the
// line counter so that no two comparisons of a unit collide.
func (w *CodeWriter) compare(name, condition string) []asm.Instruction {
	branch := fmt.Sprintf("%s.%d", name, w.line)
	done := fmt.Sprintf("done.%d", w.line)
	instructions := append(popD(),
		comp("A", "A-1"), comp("D", "M-D"),
		at(branch), jump("D", condition),
		comp("D", "0"), at(done), jump("0", "JMP"),
		asm.Label{Name: branch}, comp("D", "-1"), asm.Label{Name: done},
	)
	return append(instructions, at("SP"), comp("A", "M-1"), comp("M", "D"))
}

func (w *CodeWriter) staticSymbol(index int) string {
	return w.unit + "." + strconv.Itoa(index)
}

func (w *CodeWriter) writePush(cmd vm.Command) ([]asm.Instruction, error) {
	if cmd.Arg1 == "" || !cmd.HasArg2 || cmd.Arg2 < 0 {
		return nil, w.operandError(cmd)
	}
	index := cmd.Arg2
	var read []asm.Instruction
	switch cmd.Arg1 {
	case "constant":
		read = []asm.Instruction{atValue(index), comp("D", "A")}
	case "static":
		read = []asm.Instruction{at(w.staticSymbol(index)), comp("D", "M")}
	case "pointer":
		switch index {
		case 0:
			read = []asm.Instruction{at("THIS"), comp("D", "M")}
		case 1:
			read = []asm.Instruction{at("THAT"), comp("D", "M")}
		default:
			return nil, w.operandError(cmd)
		}
	case "temp":
		read = []asm.Instruction{
			atValue(index), comp("D", "A"),
			atValue(5), comp("A", "D+A"), comp("D", "M"),
		}
	case "local":
		read = readThroughBase("LCL", index)
	case "argument":
		read = readThroughBase("ARG", index)
	default:
		// Segments outside the canonical set address a base register
		// named after the segment itself.
		read = readThroughBase(strings.ToUpper(cmd.Arg1), index)
	}
	return append(read, pushD()...), nil
}

// readThroughBase dereferences a base-pointer register plus index into D.
func readThroughBase(register string, index int) []asm.Instruction {
	return []asm.Instruction{
		at(register), comp("D", "M"),
		atValue(index), comp("A", "D+A"), comp("D", "M"),
	}
}

func (w *CodeWriter) writePop(cmd vm.Command) ([]asm.Instruction, error) {
	if cmd.Arg1 == "" || !cmd.HasArg2 || cmd.Arg2 < 0 {
		return nil, w.operandError(cmd)
	}
	index := cmd.Arg2
	switch cmd.Arg1 {
	case "static":
		return append(popD(), at(w.staticSymbol(index)), comp("M", "D")), nil
	case "pointer":
		switch index {
		case 0:
			return append(popD(), at("THIS"), comp("M", "D")), nil
		case 1:
			return append(popD(), at("THAT"), comp("M", "D")), nil
		}
		return nil, w.operandError(cmd)
	case "temp":
		address := []asm.Instruction{
			atValue(5), comp("D", "A"),
			atValue(index), comp("D", "D+A"),
		}
		return storeThroughScratch(address), nil
	case "local":
		return storeThroughScratch(addThroughBase("LCL", index)), nil
	case "argument":
		return storeThroughScratch(addThroughBase("ARG", index)), nil
	}
	return storeThroughScratch(addThroughBase(strings.ToUpper(cmd.Arg1), index)), nil
}

// addThroughBase computes base-register contents plus index into D.
func addThroughBase(register string, index int) []asm.Instruction {
	return []asm.Instruction{
		atValue(index), comp("D", "A"),
		at(register), comp("D", "D+M"),
	}
}

// storeThroughScratch parks the target address computed in D in R13, pops
// the stack and stores the popped value at that address.
func storeThroughScratch(address []asm.Instruction) []asm.Instruction {
	instructions := append(address, at("R13"), comp("M", "D"))
	instructions = append(instructions, popD()...)
	return append(instructions, at("R13"), comp("A", "M"), comp("M", "D"))
}

// scopedLabel qualifies a user label with the current function context, or
// leaves it bare when no call has been emitted yet.
func (w *CodeWriter) scopedLabel(label string) string {
	if function := w.ctx.currentFunction(); function != "" {
		return function + "$" + label
	}
	return label
}

func (w *CodeWriter) writeLabel(cmd vm.Command) ([]asm.Instruction, error) {
	if cmd.Arg1 == "" {
		return nil, w.operandError(cmd)
	}
	return []asm.Instruction{asm.Label{Name: w.scopedLabel(cmd.Arg1)}}, nil
}

func (w *CodeWriter) writeGoto(cmd vm.Command) ([]asm.Instruction, error) {
	if cmd.Arg1 == "" {
		return nil, w.operandError(cmd)
	}
	return []asm.Instruction{at(w.scopedLabel(cmd.Arg1)), jump("0", "JMP")}, nil
}

func (w *CodeWriter) writeIfGoto(cmd vm.Command) ([]asm.Instruction, error) {
	if cmd.Arg1 == "" {
		return nil, w.operandError(cmd)
	}
	return append(popD(), at(w.scopedLabel(cmd.Arg1)), jump("D", "JNE")), nil
}

// writeFunction declares the entry label and pushes one zero per local
// variable, establishing the callee's local segment on top of the stack.
func (w *CodeWriter) writeFunction(cmd vm.Command) ([]asm.Instruction, error) {
	if cmd.Arg1 == "" || !cmd.HasArg2 || cmd.Arg2 < 0 {
		return nil, w.operandError(cmd)
	}
	instructions := []asm.Instruction{
		asm.Label{Name: cmd.Arg1},
		atValue(0), comp("D", "A"),
	}
	for i := 0; i < cmd.Arg2; i++ {
		instructions = append(instructions, pushD()...)
	}
	return instructions, nil
}

// returnLabel names the return address of the call being emitted. With a
// non-empty call-site stack the label is numbered by how often the caller
// already appears on it, keeping repeated calls from the same context
// distinct; with an empty stack it falls back to a unit-qualified form.
func (w *CodeWriter) returnLabel() string {
	caller := w.ctx.currentFunction()
	if caller == "" {
		return w.unit + ".$ret"
	}
	return fmt.Sprintf("%s$ret.%d", caller, w.ctx.occurrences(caller))
}

// writeCall saves the caller frame, repositions ARG and LCL for the
// callee, jumps to its entry label and declares the return address.
func (w *CodeWriter) writeCall(cmd vm.Command) ([]asm.Instruction, error) {
	if cmd.Arg1 == "" || !cmd.HasArg2 || cmd.Arg2 < 0 {
		return nil, w.operandError(cmd)
	}
	returnAddress := w.returnLabel()
	w.ctx.pushCallSite(cmd.Arg1)

	instructions := append([]asm.Instruction{at(returnAddress), comp("D", "A")}, pushD()...)
	for _, register := range []string{"LCL", "ARG", "THIS", "THAT"} {
		instructions = append(instructions, at(register), comp("D", "M"))
		instructions = append(instructions, pushD()...)
	}
	instructions = append(instructions,
		// ARG = SP - (5 + nArgs)
		atValue(5+cmd.Arg2), comp("D", "A"),
		at("SP"), comp("D", "M-D"),
		at("ARG"), comp("M", "D"),
		// LCL = SP
		at("SP"), comp("D", "M"),
		at("LCL"), comp("M", "D"),
		at(cmd.Arg1), jump("0", "JMP"),
		asm.Label{Name: returnAddress},
	)
	return instructions, nil
}

// writeReturn restores the caller frame: the callee's LCL is the frame
// pointer, the return address sits five below it, the return value moves
// to *ARG, SP lands one past it, then THAT/THIS/ARG/LCL are restored
// walking down from the frame pointer before jumping back.
func (w *CodeWriter) writeReturn() []asm.Instruction {
	instructions := []asm.Instruction{
		at("LCL"), comp("D", "M"), at("R13"), comp("M", "D"),
		atValue(5), comp("A", "D-A"), comp("D", "M"), at("R14"), comp("M", "D"),
		at("SP"), comp("A", "M-1"), comp("D", "M"), at("ARG"), comp("A", "M"), comp("M", "D"),
		at("ARG"), comp("D", "M+1"), at("SP"), comp("M", "D"),
	}
	for _, register := range []string{"THAT", "THIS", "ARG", "LCL"} {
		instructions = append(instructions,
			at("R13"), comp("AM", "M-1"), comp("D", "M"),
			at(register), comp("M", "D"),
		)
	}
	return append(instructions, at("R14"), comp("A", "M"), jump("0", "JMP"))
}
