package codegen

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/jfront/classfile"
)

func TestForwardJumpIsPatched(t *testing.T) {
	c := newCode()
	l := c.newLabel()
	c.op(opIconst0, 1)
	c.jump(opIfeq, l)
	c.op(opIconst0+1, 1)
	c.op(opPop, -1)
	c.place(l)
	c.op(opReturn, 0)

	want := []byte{opIconst0, opIfeq, 0, 5, opIconst0 + 1, opPop, opReturn}
	if diff := cmp.Diff(want, c.buf); diff != "" {
		t.Errorf("code mismatch (-want +got):\n%s", diff)
	}
	if c.maxStack != 1 {
		t.Errorf("maxStack = %d, want 1", c.maxStack)
	}
}

func TestBackwardJump(t *testing.T) {
	c := newCode()
	top := c.newLabel()
	c.place(top)
	c.op(0x00, 0) // nop
	c.jump(opGoto, top)
	want := []byte{0x00, opGoto, 0xff, 0xff}
	if diff := cmp.Diff(want, c.buf); diff != "" {
		t.Errorf("code mismatch (-want +got):\n%s", diff)
	}
}

func TestUnreachableCodeIsDropped(t *testing.T) {
	c := newCode()
	c.op(opReturn, 0)
	c.op(opIconst0, 1)
	c.op(opPop, -1)
	if len(c.buf) != 1 {
		t.Fatalf("code after return was emitted: % x", c.buf)
	}

	// A label nobody jumps to keeps the code unreachable.
	l := c.newLabel()
	c.place(l)
	c.op(opReturn, 0)
	if len(c.buf) != 1 {
		t.Errorf("code after an unreferenced label was emitted: % x", c.buf)
	}
}

func TestPlaceRestoresDepth(t *testing.T) {
	c := newCode()
	end := c.newLabel()
	c.op(opIconst0, 1)
	c.op(opIconst0, 1)
	c.jump(opIfeq, end) // depth 1 at end
	c.op(opAthrow, -1)
	c.place(end)
	if !c.reachable || c.depth != 1 {
		t.Errorf("after place: reachable=%v depth=%d, want true 1", c.reachable, c.depth)
	}
}

func TestVarOpForms(t *testing.T) {
	tests := []struct {
		slot int
		want []byte
	}{
		{0, []byte{opIload0}},
		{3, []byte{opIload0 + 3}},
		{4, []byte{opIload, 4}},
		{255, []byte{opIload, 255}},
		{256, []byte{opWide, opIload, 1, 0}},
	}
	for _, tt := range tests {
		c := newCode()
		c.varOp(opIload, opIload0, tt.slot, 1)
		if diff := cmp.Diff(tt.want, c.buf); diff != "" {
			t.Errorf("slot %d (-want +got):\n%s", tt.slot, diff)
		}
	}
}

func TestSwitchOpChoosesTable(t *testing.T) {
	tests := []struct {
		name string
		keys []int32
		want byte
	}{
		{"dense", []int32{1, 2, 3, 4}, opTableswitch},
		{"sparse", []int32{1, 1000, 100000}, opLookupswitch},
		{"empty", nil, opLookupswitch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCode()
			c.op(opIconst0, 1)
			dflt := c.newLabel()
			targets := make([]*label, len(tt.keys))
			for i := range targets {
				targets[i] = c.newLabel()
			}
			c.switchOp(tt.keys, targets, dflt)
			if got := c.buf[1]; got != tt.want {
				t.Errorf("opcode = %#x, want %#x", got, tt.want)
			}
			if c.buf[1] == opTableswitch && len(c.buf)%4 != 0 {
				t.Errorf("operands are not aligned: %d bytes", len(c.buf))
			}
			if c.reachable {
				t.Errorf("code after a switch is reachable")
			}
			for _, l := range append(targets, dflt) {
				c.place(l)
				c.op(opReturn, 0)
			}
		})
	}
}

func TestHandlerSkipsGaps(t *testing.T) {
	c := newCode()
	r := &region{start: 0, end: 20}
	r.gap(5, 8)
	r.gap(12, 12)
	r.gap(15, 20)
	c.handler(r, 30, 7)
	want := []classfile.ExceptionTableEntry{
		{StartPC: 0, EndPC: 5, HandlerPC: 30, CatchType: 7},
		{StartPC: 8, EndPC: 15, HandlerPC: 30, CatchType: 7},
	}
	if diff := cmp.Diff(want, c.handlers); diff != "" {
		t.Errorf("handlers (-want +got):\n%s", diff)
	}
}

func TestDescriptorSlots(t *testing.T) {
	tests := []struct {
		desc      string
		args, ret int
	}{
		{"()V", 0, 0},
		{"(I)I", 1, 1},
		{"(JD)J", 4, 2},
		{"(Ljava/lang/String;[I[[Ljava/lang/Object;Z)Ljava/lang/Object;", 4, 1},
		{"([J)D", 1, 2},
	}
	for _, tt := range tests {
		args, ret := descriptorSlots(tt.desc)
		if args != tt.args || ret != tt.ret {
			t.Errorf("descriptorSlots(%q) = %d, %d, want %d, %d", tt.desc, args, ret, tt.args, tt.ret)
		}
	}
}

func TestNegate(t *testing.T) {
	pairs := [][2]byte{
		{opIfeq, opIfne},
		{opIflt, opIfge},
		{opIfgt, opIfle},
		{opIfIcmpeq, opIfIcmpne},
		{opIfIcmplt, opIfIcmpge},
		{opIfAcmpeq, opIfAcmpne},
		{opIfnull, opIfnonnull},
	}
	for _, p := range pairs {
		if negate(p[0]) != p[1] || negate(p[1]) != p[0] {
			t.Errorf("negate(%#x) = %#x, negate(%#x) = %#x", p[0], negate(p[0]), p[1], negate(p[1]))
		}
	}
}

func TestProblemMessage(t *testing.T) {
	tests := []struct {
		msgs []string
		want string
	}{
		{nil, "Unresolved compilation problem: \n\tUnknown error\n"},
		{[]string{"x cannot be resolved"}, "Unresolved compilation problem: \n\tx cannot be resolved\n"},
		{[]string{"a", "b"}, "Unresolved compilation problems: \n\ta\n\tb\n"},
	}
	for _, tt := range tests {
		if got := problemMessage(tt.msgs); got != tt.want {
			t.Errorf("problemMessage(%q) = %q, want %q", tt.msgs, got, tt.want)
		}
	}
}
