package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Kinds(t *testing.T) {
	vocab := DefaultVocabulary()
	tests := []struct {
		line string
		kind Kind
	}{
		{"push constant 0", Push},
		{"pop this 5", Pop},
		{"and", Arithmetic},
		{"label END", Label},
		{"goto MOON", Goto},
		{"if-goto test", IfGoto},
		{"call Crazy.frog 9", Call},
		{"function Crazy.frog 3", Function},
		{"return", Return},
		{"yo mama", Invalid},
	}
	for _, tt := range tests {
		cmd := Classify(tt.line, vocab)
		assert.Equal(t, tt.kind, cmd.Kind, "line %q", tt.line)
		assert.Equal(t, tt.line, cmd.Raw)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
	}{
		{Arithmetic, "arithmetic"},
		{Push, "push"},
		{Pop, "pop"},
		{Label, "label"},
		{Goto, "goto"},
		{IfGoto, "if-goto"},
		{Function, "function"},
		{Call, "call"},
		{Return, "return"},
		{Invalid, "invalid"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.kind.String())
	}
}

func TestClassify_ArithmeticVocabulary(t *testing.T) {
	vocab := DefaultVocabulary()
	for _, line := range []string{"add", "sub", "neg", "eq", "gt", "lt", "and", "or", "not"} {
		cmd := Classify(line, vocab)
		assert.Equal(t, Arithmetic, cmd.Kind, "line %q", line)
	}
	// Arithmetic matches on the full line only.
	assert.Equal(t, Invalid, Classify("add 1", vocab).Kind)
	assert.Equal(t, Invalid, Classify("xor", vocab).Kind)
}

func TestClassify_SegmentVocabulary(t *testing.T) {
	vocab := DefaultVocabulary()
	for _, seg := range vocab.PushSegments {
		cmd := Classify("push "+seg+" 1", vocab)
		assert.Equal(t, Push, cmd.Kind, "segment %q", seg)
	}
	for _, seg := range vocab.PopSegments {
		cmd := Classify("pop "+seg+" 1", vocab)
		assert.Equal(t, Pop, cmd.Kind, "segment %q", seg)
	}
	// Constant cannot be assigned to and is absent from the pop table.
	assert.Equal(t, Invalid, Classify("pop constant 0", vocab).Kind)
	assert.Equal(t, Invalid, Classify("push heap 0", vocab).Kind)
	assert.Equal(t, Invalid, Classify("push", vocab).Kind)
}

func TestClassify_ExtendedVocabulary(t *testing.T) {
	// Segments outside the canonical set classify once the caller's
	// vocabulary lists them.
	vocab := DefaultVocabulary()
	vocab.PushSegments = append(vocab.PushSegments, "screen")
	cmd := Classify("push screen 3", vocab)
	assert.Equal(t, Push, cmd.Kind)
	assert.Equal(t, "screen", cmd.Arg1)
}

func TestClassify_Operands(t *testing.T) {
	vocab := DefaultVocabulary()
	tests := []struct {
		line    string
		arg1    string
		arg2    int
		hasArg2 bool
	}{
		{"push constant 0", "constant", 0, true},
		{"pop static 2", "static", 2, true},
		{"label OKOKOK", "OKOKOK", 0, false},
		{"goto OKOKOK", "OKOKOK", 0, false},
		{"if-goto OKOKOK", "OKOKOK", 0, false},
		{"call yopapa 4", "yopapa", 4, true},
		{"function yopapa 2", "yopapa", 2, true},
	}
	for _, tt := range tests {
		cmd := Classify(tt.line, vocab)
		assert.Equal(t, tt.arg1, cmd.Arg1, "line %q", tt.line)
		assert.Equal(t, tt.arg2, cmd.Arg2, "line %q", tt.line)
		assert.Equal(t, tt.hasArg2, cmd.HasArg2, "line %q", tt.line)
	}

	arith := Classify("add", vocab)
	assert.Equal(t, "", arith.Arg1)
	assert.False(t, arith.HasArg2)

	ret := Classify("return", vocab)
	assert.Equal(t, "", ret.Arg1)
	assert.False(t, ret.HasArg2)
	// A return with trailing tokens is no longer a return command.
	assert.Equal(t, Invalid, Classify("return 4", vocab).Kind)
}

func TestClassify_NumericOperand(t *testing.T) {
	vocab := DefaultVocabulary()

	// The second operand must parse as a signed 16-bit integer,
	// otherwise it is treated as absent.
	cmd := Classify("push constant x", vocab)
	assert.Equal(t, Push, cmd.Kind)
	assert.False(t, cmd.HasArg2)

	cmd = Classify("push constant 40000", vocab)
	assert.False(t, cmd.HasArg2)

	cmd = Classify("push constant 32767", vocab)
	assert.True(t, cmd.HasArg2)
	assert.Equal(t, 32767, cmd.Arg2)

	// Negative values parse here; the generator rejects them later.
	cmd = Classify("push argument -1", vocab)
	assert.True(t, cmd.HasArg2)
	assert.Equal(t, -1, cmd.Arg2)

	cmd = Classify("function Main.run 2", vocab)
	assert.True(t, cmd.HasArg2)
	assert.Equal(t, 2, cmd.Arg2)
}
