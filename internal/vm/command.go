// Package vm classifies cleaned VM command lines and extracts their
// operands. Classification is a pure function of the line and the
// vocabulary; it keeps no state across lines.
package vm

import (
	"strconv"
	"strings"
)

type Kind int

const (
	Invalid Kind = iota
	Arithmetic
	Push
	Pop
	Label
	Goto
	IfGoto
	Function
	Call
	Return
)

func (k Kind) String() string {
	switch k {
	case Arithmetic:
		return "arithmetic"
	case Push:
		return "push"
	case Pop:
		return "pop"
	case Label:
		return "label"
	case Goto:
		return "goto"
	case IfGoto:
		return "if-goto"
	case Function:
		return "function"
	case Call:
		return "call"
	case Return:
		return "return"
	}
	return "invalid"
}

// Command is one classified line. Arg1 is empty when the line carries no
// first operand; HasArg2 reports whether a valid second operand is present.
type Command struct {
	Raw     string
	Kind    Kind
	Arg1    string
	Arg2    int
	HasArg2 bool
}

// Classify determines the command kind of a cleaned line and extracts its
// operands. A push or pop line classifies only if its segment token belongs
// to the matching segment vocabulary. A line matching no recognized surface
// form yields Kind Invalid.
func Classify(line string, vocab Vocabulary) Command {
	cmd := Command{Raw: line, Kind: Invalid}
	switch {
	case strings.HasPrefix(line, "push"):
		cmd.Arg1 = arg1(line)
		if !contains(vocab.PushSegments, cmd.Arg1) {
			return cmd
		}
		cmd.Kind = Push
	case strings.HasPrefix(line, "pop"):
		cmd.Arg1 = arg1(line)
		if !contains(vocab.PopSegments, cmd.Arg1) {
			return cmd
		}
		cmd.Kind = Pop
	case strings.HasPrefix(line, "label"):
		cmd.Kind = Label
		cmd.Arg1 = arg1(line)
	case strings.HasPrefix(line, "goto"):
		cmd.Kind = Goto
		cmd.Arg1 = arg1(line)
	case strings.HasPrefix(line, "if-goto"):
		cmd.Kind = IfGoto
		cmd.Arg1 = arg1(line)
	case strings.HasPrefix(line, "call"):
		cmd.Kind = Call
		cmd.Arg1 = arg1(line)
	case strings.HasPrefix(line, "function"):
		cmd.Kind = Function
		cmd.Arg1 = arg1(line)
	case line == "return":
		cmd.Kind = Return
		return cmd
	default:
		if contains(vocab.Arithmetic, line) {
			cmd.Kind = Arithmetic
		}
		return cmd
	}
	switch cmd.Kind {
	case Push, Pop, Function, Call:
		cmd.Arg2, cmd.HasArg2 = arg2(line)
	}
	return cmd
}

func arg1(line string) string {
	tokens := strings.Split(line, " ")
	if len(tokens) < 2 {
		return ""
	}
	return tokens[1]
}

// arg2 returns the third token as an integer. The token is accepted only
// if it parses as a signed 16-bit value, which doubles as the numeric
// operand validation for push/pop/function/call.
func arg2(line string) (int, bool) {
	tokens := strings.Split(line, " ")
	if len(tokens) < 3 {
		return 0, false
	}
	value, err := strconv.ParseInt(tokens[2], 10, 16)
	if err != nil {
		return 0, false
	}
	return int(value), true
}
