package chunk

import (
	"testing"

	"teascript/value"
)

type fakeAnchor struct {
	stack []value.Value
}

func (a *fakeAnchor) Push(v value.Value) { a.stack = append(a.stack, v) }
func (a *fakeAnchor) Pop() value.Value {
	v := a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]
	return v
}

func TestWriteTracksLineRuns(t *testing.T) {
	c := New()
	c.Write(0x01, 1)
	c.Write(0x02, 1)
	c.Write(0x03, 2)
	c.Write(0x04, 2)
	c.Write(0x05, 3)

	if got := c.InstructionCount(); got != 5 {
		t.Fatalf("InstructionCount() = %d, want 5", got)
	}
	if len(c.Lines) != 3 {
		t.Fatalf("expected 3 line runs, got %d", len(c.Lines))
	}

	want := []struct{ offset, line int }{
		{0, 1}, {2, 2}, {4, 3},
	}
	for i, w := range want {
		if c.Lines[i].Offset != w.offset || c.Lines[i].Line != w.line {
			t.Errorf("Lines[%d] = %+v, want offset=%d line=%d", i, c.Lines[i], w.offset, w.line)
		}
	}
}

func TestGetLine(t *testing.T) {
	c := New()
	for i, line := range []int{1, 1, 2, 2, 2, 5} {
		c.Write(byte(i), line)
	}
	cases := []struct {
		offset, want int
	}{
		{0, 1}, {1, 1}, {2, 2}, {3, 2}, {4, 2}, {5, 5},
	}
	for _, c2 := range cases {
		if got := c.GetLine(c2.offset); got != c2.want {
			t.Errorf("GetLine(%d) = %d, want %d", c2.offset, got, c2.want)
		}
	}
}

func TestAddConstantAnchorsDuringAppend(t *testing.T) {
	c := New()
	a := &fakeAnchor{}

	idx := c.AddConstant(a, value.Number(42))
	if idx != 0 {
		t.Errorf("first constant index = %d, want 0", idx)
	}
	if len(a.stack) != 0 {
		t.Errorf("anchor should be popped after AddConstant returns, stack has %d items", len(a.stack))
	}
	if c.Constants[0].AsNumber() != 42 {
		t.Errorf("Constants[0] = %v, want 42", c.Constants[0])
	}

	idx2 := c.AddConstant(a, value.Number(7))
	if idx2 != 1 {
		t.Errorf("second constant index = %d, want 1", idx2)
	}
}

func TestGetConstants(t *testing.T) {
	c := New()
	a := &fakeAnchor{}
	c.AddConstant(a, value.Number(1))
	c.AddConstant(a, value.Number(2))

	got := c.GetConstants()
	if len(got) != 2 {
		t.Fatalf("GetConstants() len = %d, want 2", len(got))
	}
}
