package flow

import "testing"

func assigned(slots ...uint) *Info {
	i := NewInfo()
	for _, s := range slots {
		i.MarkAsDefinitelyAssigned(s)
	}
	return i
}

func TestMergeCommutative(t *testing.T) {
	infos := map[string]*Info{
		"empty":       NewInfo(),
		"x":           assigned(0),
		"x y":         assigned(0, 1),
		"far":         assigned(70),
		"dead":        DeadEnd,
		"vacuous":     vacuousInfo,
		"conditional": Conditional(assigned(0, 2), assigned(2)),
	}
	for an, a := range infos {
		for bn, b := range infos {
			ab, ba := a.MergedWith(b), b.MergedWith(a)
			if !ab.Equal(ba) {
				t.Errorf("%s merged with %s = %s, reversed = %s", an, bn, ab, ba)
			}
		}
	}
}

func TestMergeSemantics(t *testing.T) {
	a := assigned(0, 1)
	b := assigned(1, 2)
	m := a.MergedWith(b)

	tests := []struct {
		slot       uint
		definitely bool
		potential  bool
	}{
		{0, false, true},
		{1, true, true},
		{2, false, true},
		{3, false, false},
	}
	for _, tt := range tests {
		if got := m.IsDefinitelyAssigned(tt.slot); got != tt.definitely {
			t.Errorf("IsDefinitelyAssigned(%d) = %v, want %v", tt.slot, got, tt.definitely)
		}
		if got := m.IsPotentiallyAssigned(tt.slot); got != tt.potential {
			t.Errorf("IsPotentiallyAssigned(%d) = %v, want %v", tt.slot, got, tt.potential)
		}
	}
	if !a.IsDefinitelyAssigned(0) || b.IsDefinitelyAssigned(0) {
		t.Error("MergedWith modified its inputs")
	}
}

func TestDeadEndIsIdentity(t *testing.T) {
	a := assigned(3)
	if !DeadEnd.MergedWith(a).Equal(a) || !a.MergedWith(DeadEnd).Equal(a) {
		t.Error("merging with DeadEnd changed the other side")
	}
	if !a.MergedWith(vacuousInfo).Equal(a) {
		t.Error("merging with a vacuous branch changed the other side")
	}
	if DeadEnd.Reachable() {
		t.Error("DeadEnd is reachable")
	}
	if !DeadEnd.IsDefinitelyAssigned(9) {
		t.Error("DeadEnd should count every variable as assigned")
	}
	DeadEnd.MarkAsDefinitelyAssigned(1)
	if DeadEnd.state != dead || DeadEnd.assigned != nil {
		t.Error("DeadEnd was modified")
	}
}

func TestConditionalInits(t *testing.T) {
	c := Conditional(assigned(0, 1), assigned(1))
	if !c.InitsWhenTrue().IsDefinitelyAssigned(0) {
		t.Error("when true should have slot 0")
	}
	if c.InitsWhenFalse().IsDefinitelyAssigned(0) {
		t.Error("when false should not have slot 0")
	}
	u := c.UnconditionalInits()
	if u.IsDefinitelyAssigned(0) || !u.IsDefinitelyAssigned(1) {
		t.Errorf("UnconditionalInits() = %s", u)
	}
	if !u.IsPotentiallyAssigned(0) {
		t.Error("UnconditionalInits lost a potential assignment")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	a := assigned(0)
	b := a.Copy()
	b.MarkAsDefinitelyAssigned(1)
	if a.IsDefinitelyAssigned(1) {
		t.Error("Copy shares state with the original")
	}
	a.forget(0)
	if a.IsPotentiallyAssigned(0) || !b.IsDefinitelyAssigned(0) {
		t.Error("forget did not clear only the receiver")
	}
}
