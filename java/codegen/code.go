package codegen

import (
	"encoding/binary"

	"github.com/dhamidi/jfront/classfile"
)

// label is a position in the code of a method. Jumps to a label that is
// not placed yet are patched when it is.
type label struct {
	pc    int
	depth int
	refs  []labelRef
}

type labelRef struct {
	base int // pc of the jump instruction
	at   int // position of the offset operand
	wide bool
}

// code assembles the bytecode of one method body. It tracks the operand
// stack depth to compute max_stack and drops instructions that cannot be
// reached, so every placed label either follows reachable code or is the
// target of a jump.
type code struct {
	buf       []byte
	depth     int
	maxStack  int
	maxLocals int
	reachable bool
	lines     []classfile.LineNumberEntry
	lastLine  int
	handlers  []classfile.ExceptionTableEntry
	overflow  bool
}

func newCode() *code {
	return &code{reachable: true}
}

func (c *code) pc() int { return len(c.buf) }

func (c *code) adjust(delta int) {
	c.depth += delta
	if c.depth < 0 {
		c.depth = 0
	}
	if c.depth > c.maxStack {
		c.maxStack = c.depth
	}
}

// op emits an instruction with its operands; delta is its effect on the
// stack depth.
func (c *code) op(opcode byte, delta int, operands ...byte) {
	if !c.reachable {
		return
	}
	c.buf = append(c.buf, opcode)
	c.buf = append(c.buf, operands...)
	c.adjust(delta)
	switch opcode {
	case opGoto, opAthrow, opReturn, opTableswitch, opLookupswitch:
		c.reachable = false
	default:
		if opcode >= opIreturn && opcode < opReturn {
			c.reachable = false
		}
	}
}

func (c *code) op2(opcode byte, delta int, v uint16) {
	c.op(opcode, delta, byte(v>>8), byte(v))
}

// varOp emits a load or store of a local variable slot, using the short
// form for slots 0 to 3 and the wide form above 255.
func (c *code) varOp(long, short byte, slot, delta int) {
	switch {
	case slot < 4:
		c.op(short+byte(slot), delta)
	case slot < 256:
		c.op(long, delta, byte(slot))
	default:
		c.op(opWide, 0)
		c.op(long, delta, byte(slot>>8), byte(slot))
	}
}

func (c *code) iinc(slot, by int) {
	if slot < 256 && by >= -128 && by < 128 {
		c.op(opIinc, 0, byte(slot), byte(int8(by)))
		return
	}
	c.op(opWide, 0)
	c.op(opIinc, 0, byte(slot>>8), byte(slot), byte(by>>8), byte(by))
}

// alloc reserves size local variable slots and returns the first.
func (c *code) alloc(size int) int {
	slot := c.maxLocals
	c.maxLocals += size
	return slot
}

func (c *code) newLabel() *label {
	return &label{pc: -1, depth: -1}
}

// jump emits a branch to l.
func (c *code) jump(opcode byte, l *label) {
	if !c.reachable {
		return
	}
	base := c.pc()
	c.op(opcode, -branchPops(opcode), 0, 0)
	if l.depth < 0 {
		l.depth = c.depth
	}
	c.ref(l, base, base+1, false)
}

func (c *code) ref(l *label, base, at int, wide bool) {
	if l.pc >= 0 {
		c.patch(labelRef{base, at, wide}, l.pc)
		return
	}
	l.refs = append(l.refs, labelRef{base, at, wide})
}

func (c *code) patch(r labelRef, target int) {
	off := target - r.base
	if r.wide {
		binary.BigEndian.PutUint32(c.buf[r.at:], uint32(int32(off)))
		return
	}
	if off < -32768 || off > 32767 {
		c.overflow = true
	}
	binary.BigEndian.PutUint16(c.buf[r.at:], uint16(int16(off)))
}

// place binds l to the current position. Code after an unconditional
// transfer becomes reachable again when something jumps here.
func (c *code) place(l *label) {
	l.pc = c.pc()
	if !c.reachable && (len(l.refs) > 0 || l.depth >= 0) {
		c.reachable = true
		c.depth = max(l.depth, 0)
	} else if c.reachable && l.depth < 0 {
		l.depth = c.depth
	}
	for _, r := range l.refs {
		c.patch(r, l.pc)
	}
	l.refs = nil
}

// placeHandler starts an exception handler: the stack holds the thrown
// exception.
func (c *code) placeHandler(l *label) {
	c.reachable = true
	c.depth = 0
	c.place(l)
	c.adjust(1)
}

// switchOp emits a tableswitch or lookupswitch on the int at the top of
// the stack. keys must be sorted.
func (c *code) switchOp(keys []int32, targets []*label, dflt *label) {
	if !c.reachable {
		return
	}
	base := c.pc()
	n := len(keys)
	table := n > 0 && int64(keys[n-1])-int64(keys[0]) < int64(2*n+4)
	opcode := byte(opLookupswitch)
	if table {
		opcode = opTableswitch
	}
	c.buf = append(c.buf, opcode)
	for c.pc()%4 != 0 {
		c.buf = append(c.buf, 0)
	}
	c.adjust(-1)
	c.u4Ref(dflt, base)
	if table {
		lo, hi := keys[0], keys[n-1]
		c.buf = binary.BigEndian.AppendUint32(c.buf, uint32(lo))
		c.buf = binary.BigEndian.AppendUint32(c.buf, uint32(hi))
		i := 0
		for k := int64(lo); k <= int64(hi); k++ {
			if int64(keys[i]) == k {
				c.u4Ref(targets[i], base)
				i++
			} else {
				c.u4Ref(dflt, base)
			}
		}
	} else {
		c.buf = binary.BigEndian.AppendUint32(c.buf, uint32(n))
		for i, k := range keys {
			c.buf = binary.BigEndian.AppendUint32(c.buf, uint32(k))
			c.u4Ref(targets[i], base)
		}
	}
	c.reachable = false
}

func (c *code) u4Ref(l *label, base int) {
	at := c.pc()
	c.buf = append(c.buf, 0, 0, 0, 0)
	if l.depth < 0 {
		l.depth = c.depth
	}
	c.ref(l, base, at, true)
}

// line records the source line of the code emitted next.
func (c *code) line(n int) {
	if n <= 0 || n == c.lastLine || !c.reachable {
		return
	}
	c.lastLine = n
	if k := len(c.lines); k > 0 && int(c.lines[k-1].StartPC) == c.pc() {
		c.lines[k-1].LineNumber = uint16(n)
		return
	}
	c.lines = append(c.lines, classfile.LineNumberEntry{StartPC: uint16(c.pc()), LineNumber: uint16(n)})
}

// handler adds exception table entries protecting [start, end) minus the
// gaps.
func (c *code) handler(r *region, handlerPC int, catchType uint16) {
	start := r.start
	for _, g := range r.gaps {
		if g[0] > start {
			c.addHandler(start, g[0], handlerPC, catchType)
		}
		start = max(start, g[1])
	}
	if r.end > start {
		c.addHandler(start, r.end, handlerPC, catchType)
	}
}

func (c *code) addHandler(start, end, handlerPC int, catchType uint16) {
	c.handlers = append(c.handlers, classfile.ExceptionTableEntry{
		StartPC: uint16(start), EndPC: uint16(end), HandlerPC: uint16(handlerPC), CatchType: catchType,
	})
}

// region is a range of code protected by exception handlers. Code inlined
// for jumps leaving the region is cut out of it.
type region struct {
	start, end int
	gaps       [][2]int
}

func (r *region) gap(start, end int) {
	if end > start {
		r.gaps = append(r.gaps, [2]int{start, end})
	}
}

// descriptorSlots returns the stack words taken by the arguments and the
// result of a method descriptor.
func descriptorSlots(desc string) (args, result int) {
	i := 1
	for i < len(desc) && desc[i] != ')' {
		size := 1
		switch desc[i] {
		case 'J', 'D':
			size = 2
		case '[':
			for desc[i] == '[' {
				i++
			}
			if desc[i] == 'L' {
				for desc[i] != ';' {
					i++
				}
			}
		case 'L':
			for desc[i] != ';' {
				i++
			}
		}
		args += size
		i++
	}
	if i+1 < len(desc) {
		switch desc[i+1] {
		case 'V':
		case 'J', 'D':
			result = 2
		default:
			result = 1
		}
	}
	return args, result
}
