package vm

import (
	"math"
	"testing"

	"teascript/chunk"
	"teascript/object"
	"teascript/state"
	"teascript/value"
)

// run builds a zero-arg top-level closure out of raw bytecode and
// constants and interprets it, returning the single value left on the
// stack afterward. Constructs a *chunk.Chunk by hand and runs it rather
// than going through a compiler, since there is none here.
func run(t *testing.T, code []byte, constants []value.Value) value.Value {
	t.Helper()
	s := state.New(state.Options{})
	c := chunk.New()
	c.Code = code
	c.Constants = constants

	fn := object.NewFunction("<test>")
	fn.MaxSlots = 16
	fn.Chunk = c

	vm := New(s)
	closure := s.NewClosure(fn)
	if err := vm.Interpret(closure); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Top() != 1 {
		t.Fatalf("expected 1 value left on stack, got %d", s.Top())
	}
	return s.Peek(0)
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name      string
		code      []byte
		constants []value.Value
		expected  float64
	}{
		{
			name: "addition",
			code: []byte{
				byte(OpConstant), 0,
				byte(OpConstant), 1,
				byte(OpAdd),
				byte(OpReturn),
			},
			constants: []value.Value{value.Number(10), value.Number(20)},
			expected:  30,
		},
		{
			name: "subtraction",
			code: []byte{
				byte(OpConstant), 0,
				byte(OpConstant), 1,
				byte(OpSubtract),
				byte(OpReturn),
			},
			constants: []value.Value{value.Number(50), value.Number(20)},
			expected:  30,
		},
		{
			name: "multiplication",
			code: []byte{
				byte(OpConstant), 0,
				byte(OpConstant), 1,
				byte(OpMultiply),
				byte(OpReturn),
			},
			constants: []value.Value{value.Number(5), value.Number(6)},
			expected:  30,
		},
		{
			name: "division",
			code: []byte{
				byte(OpConstant), 0,
				byte(OpConstant), 1,
				byte(OpDivide),
				byte(OpReturn),
			},
			constants: []value.Value{value.Number(60), value.Number(2)},
			expected:  30,
		},
		{
			name: "modulo",
			code: []byte{
				byte(OpConstant), 0,
				byte(OpConstant), 1,
				byte(OpMod),
				byte(OpReturn),
			},
			constants: []value.Value{value.Number(17), value.Number(5)},
			expected:  2,
		},
		{
			name: "negation",
			code: []byte{
				byte(OpConstant), 0,
				byte(OpNegate),
				byte(OpReturn),
			},
			constants: []value.Value{value.Number(42)},
			expected:  -42,
		},
		{
			name: "power",
			code: []byte{
				byte(OpConstant), 0,
				byte(OpConstant), 1,
				byte(OpPow),
				byte(OpReturn),
			},
			constants: []value.Value{value.Number(2), value.Number(10)},
			expected:  1024,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(t, tt.code, tt.constants)
			if !got.IsNumber() || math.Abs(got.AsNumber()-tt.expected) > 0.0001 {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestStringConcat(t *testing.T) {
	s := state.New(state.Options{})
	a := value.Object(s.NewString("hello "))
	b := value.Object(s.NewString("world"))

	code := []byte{
		byte(OpConstant), 0,
		byte(OpConstant), 1,
		byte(OpAdd),
		byte(OpReturn),
	}

	c := chunk.New()
	c.Code = code
	c.Constants = []value.Value{a, b}

	fn := object.NewFunction("<test>")
	fn.MaxSlots = 16
	fn.Chunk = c

	vm := New(s)
	closure := s.NewClosure(fn)
	if err := vm.Interpret(closure); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := s.Peek(0)
	if !got.Is(value.KindString) {
		t.Fatalf("expected a string result, got %v", got)
	}
	if got.AsObject().(*object.String).Bytes != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", got.AsObject().(*object.String).Bytes)
	}
}

func TestListConstructAndSubscript(t *testing.T) {
	code := []byte{
		byte(OpConstant), 0,
		byte(OpConstant), 1,
		byte(OpConstant), 2,
		byte(OpList), 3,
		byte(OpConstant), 3,
		byte(OpSubscript),
		byte(OpReturn),
	}
	constants := []value.Value{value.Number(10), value.Number(20), value.Number(30), value.Number(1)}

	got := run(t, code, constants)
	if !got.IsNumber() || got.AsNumber() != 20 {
		t.Errorf("expected 20, got %v", got)
	}
}

func TestComparisonAndJump(t *testing.T) {
	// if 5 < 10 { true } else { false } — OpJumpIfFalse leaves the
	// condition on the stack (it only peeks), so both branches must start
	// with their own OpPop to discard it, matching how a real compiler's
	// if/else emission is structured.
	code := []byte{
		byte(OpConstant), 0, // 5
		byte(OpConstant), 1, // 10
		byte(OpLess),
		byte(OpJumpIfFalse), 0, 5,
		byte(OpPop),
		byte(OpTrue),
		byte(OpJump), 0, 2,
		byte(OpPop),
		byte(OpFalse),
		byte(OpReturn),
	}
	constants := []value.Value{value.Number(5), value.Number(10)}

	got := run(t, code, constants)
	if !got.IsBool() || !got.AsBool() {
		t.Errorf("expected true, got %v", got)
	}
}

func TestStackOverflowIsAnError(t *testing.T) {
	s := state.New(state.Options{MaxFrames: 4})
	fn := object.NewFunction("<test>")
	fn.MaxSlots = 1 << 30 // deliberately absurd: exceeds the hard growth ceiling
	c := chunk.New()
	c.Code = []byte{byte(OpNull), byte(OpReturn)}
	fn.Chunk = c

	vm := New(s)
	closure := s.NewClosure(fn)
	if err := vm.Interpret(closure); err == nil {
		t.Fatal("expected a stack overflow error")
	}
}

func TestCallNativeRecoversPanic(t *testing.T) {
	s := state.New(state.Options{})
	machine := New(s)

	native := s.NewNative("boom", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		panic("native blew up")
	})

	base := s.Top()
	result, err := machine.CallValue(value.Object(native), nil)
	if err == nil {
		t.Fatal("expected the native's panic to come back as an error")
	}
	if !result.IsNull() {
		t.Errorf("expected a null result on error, got %v", result)
	}
	if s.Top() != base {
		t.Errorf("Top() = %d after a panicking native, want %d (restored)", s.Top(), base)
	}
}

func TestCallNativeRestoresStackOnError(t *testing.T) {
	s := state.New(state.Options{})
	machine := New(s)

	native := s.NewNative("fail", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		return value.Null, rt.ThrowError("deliberate failure")
	})

	base := s.Top()
	if _, err := machine.CallValue(value.Object(native), nil); err == nil {
		t.Fatal("expected an error")
	}
	if s.Top() != base {
		t.Errorf("Top() = %d after a failing native, want %d (restored)", s.Top(), base)
	}
}

func TestUpvalueSurvivesStackGrowth(t *testing.T) {
	s := state.New(state.Options{})
	s.Push(value.Number(1))
	s.Push(value.Number(42)) // the local an upvalue will capture, at slot 1
	s.Push(value.Number(3))

	uv := captureUpvalue(s, 1)
	before := getUpvalueLocation(uv)

	oldCap := cap(s.Stack)
	if err := s.GrowStack(oldCap + 5000); err != nil {
		t.Fatalf("unexpected error growing stack: %v", err)
	}

	after := getUpvalueLocation(uv)
	if !value.Equal(before, after) {
		t.Errorf("upvalue read before growth (%v) != after growth (%v)", before, after)
	}

	setUpvalueLocation(uv, value.Number(99))
	if s.Stack[1].AsNumber() != 99 {
		t.Error("write through the upvalue after growth should land on the live stack slot")
	}
}
