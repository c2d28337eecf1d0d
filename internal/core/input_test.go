package core

import "testing"

func TestInputFrame(t *testing.T) {
	var f InputFrame
	if f.Any() {
		t.Error("zero frame should be empty")
	}

	f.Set(ActionLeft)
	f.Set(ActionFire)
	if !f.Has(ActionLeft) || !f.Has(ActionFire) || f.Has(ActionRight) {
		t.Errorf("unexpected membership: %b", f.bits)
	}

	c := f.Clone()
	f.Clear()
	if f.Any() {
		t.Error("Clear should empty the frame")
	}
	if !c.Has(ActionFire) {
		t.Error("clone should be independent of the original")
	}
}

func TestInputFrameAnyIgnoresNone(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionNone)
	if f.Any() {
		t.Error("ActionNone alone should not count as input")
	}
	f.Set(ActionAny)
	if !f.Any() {
		t.Error("ActionAny should count as input")
	}
}

func TestActionString(t *testing.T) {
	if ActionRestart.String() != "Restart" || Action(99).String() != "Unknown" {
		t.Error("unexpected action names")
	}
}
