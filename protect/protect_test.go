package protect

import (
	"errors"
	"testing"

	"teascript/state"
	"teascript/value"
)

func TestRunReturnsNilOnSuccess(t *testing.T) {
	s := state.New(state.Options{})
	err := Run(s, func() error { return nil })
	if err != nil {
		t.Errorf("Run() = %v, want nil", err)
	}
}

func TestRunRestoresStackOnError(t *testing.T) {
	s := state.New(state.Options{})
	s.Push(value.Number(1))
	base := s.Top()

	want := errors.New("boom")
	err := Run(s, func() error {
		s.Push(value.Number(2))
		s.Push(value.Number(3))
		return want
	})
	if err != want {
		t.Errorf("Run() error = %v, want %v", err, want)
	}
	if s.Top() != base {
		t.Errorf("Top() = %d after failed call, want %d (restored)", s.Top(), base)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	s := state.New(state.Options{})
	s.Push(value.Number(1))
	base := s.Top()

	err := Run(s, func() error {
		s.Push(value.Number(99))
		panic("native blew up")
	})
	if err == nil {
		t.Fatal("expected Run to convert the panic into an error")
	}
	if s.Top() != base {
		t.Errorf("Top() = %d after panicking call, want %d (restored)", s.Top(), base)
	}
}

func TestRunRestoresOpenUpvalues(t *testing.T) {
	s := state.New(state.Options{})
	s.Push(value.Number(1))
	s.Push(value.Number(2))
	before := s.OpenUpvalues

	err := Run(s, func() error {
		s.OpenUpvalues = s.NewUpvalue(&s.Stack[0], 0)
		return errors.New("fail")
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if s.OpenUpvalues != before {
		t.Errorf("OpenUpvalues = %v after failed call, want %v (restored)", s.OpenUpvalues, before)
	}
}

func TestRunRestoresFrameDepth(t *testing.T) {
	s := state.New(state.Options{})
	s.Frames = append(s.Frames, state.Frame{})
	base := len(s.Frames)

	err := Run(s, func() error {
		s.Frames = append(s.Frames, state.Frame{}, state.Frame{})
		return errors.New("fail")
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(s.Frames) != base {
		t.Errorf("len(Frames) = %d, want %d (restored)", len(s.Frames), base)
	}
}
