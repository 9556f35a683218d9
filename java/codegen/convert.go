package codegen

import (
	"math"

	"github.com/dhamidi/jfront/java/constant"
	"github.com/dhamidi/jfront/java/lookup"
)

// kind is the JVM computational type of a value. The order matches the
// typed instruction families: iload, lload, fload, dload, aload.
type kind uint8

const (
	kInt kind = iota
	kLong
	kFloat
	kDouble
	kRef
	kVoid
)

func (k kind) size() int {
	switch k {
	case kLong, kDouble:
		return 2
	case kVoid:
		return 0
	}
	return 1
}

func primKind(p constant.TypeID) kind {
	switch p {
	case constant.TLong:
		return kLong
	case constant.TFloat:
		return kFloat
	case constant.TDouble:
		return kDouble
	case constant.TVoid:
		return kVoid
	case constant.TUndefined:
		return kRef
	}
	return kInt
}

func (g *generator) kind(t lookup.TypeID) kind {
	return primKind(g.env.Prim(t))
}

func (f *frame) load(k kind, slot int) {
	f.c.varOp(opIload+byte(k), opIload0+4*byte(k), slot, k.size())
}

func (f *frame) store(k kind, slot int) {
	f.c.varOp(opIstore+byte(k), opIstore0+4*byte(k), slot, -k.size())
}

func (f *frame) aload(slot int) { f.load(kRef, slot) }

func (f *frame) pop(k kind) {
	switch k.size() {
	case 1:
		f.c.op(opPop, -1)
	case 2:
		f.c.op(opPop2, -2)
	}
}

func (f *frame) pushInt(v int32) {
	c := f.c
	switch {
	case v >= -1 && v <= 5:
		c.op(byte(int32(opIconst0)+v), 1)
	case v >= math.MinInt8 && v <= math.MaxInt8:
		c.op(opBipush, 1, byte(int8(v)))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		c.op(opSipush, 1, byte(uint16(v)>>8), byte(v))
	default:
		ldc(c, f.cg.b.Integer(v), 1)
	}
}

// constant pushes a compile-time constant.
func (f *frame) constant(v constant.Constant) {
	c, b := f.c, f.cg.b
	switch v.Kind() {
	case constant.TBoolean:
		if v.Bool() {
			f.pushInt(1)
		} else {
			f.pushInt(0)
		}
	case constant.TLong:
		if n := v.Long(); n == 0 || n == 1 {
			c.op(opLconst0+byte(n), 2)
		} else {
			c.op2(opLdc2W, 2, b.Long(n))
		}
	case constant.TFloat:
		n := v.Float()
		if (n == 0 && !math.Signbit(float64(n))) || n == 1 || n == 2 {
			c.op(opFconst0+byte(n), 1)
		} else {
			ldc(c, b.Float(n), 1)
		}
	case constant.TDouble:
		n := v.Double()
		if (n == 0 && !math.Signbit(n)) || n == 1 {
			c.op(opDconst0+byte(n), 2)
		} else {
			c.op2(opLdc2W, 2, b.Double(n))
		}
	case constant.TString:
		ldc(c, b.String(v.String()), 1)
	default:
		f.pushInt(v.Int())
	}
}

// conversions between computational types, indexed [from][to].
var convertOps = [4][4]byte{
	kInt:    {0, opI2l, opI2f, opI2d},
	kLong:   {opL2i, 0, opL2f, opL2d},
	kFloat:  {opF2i, opF2l, 0, opF2d},
	kDouble: {opD2i, opD2l, opD2f, 0},
}

// primConvert converts between primitive types, narrowing to byte, short
// and char after an int conversion.
func (f *frame) primConvert(from, to constant.TypeID) {
	if from == to || to == constant.TBoolean || from == constant.TBoolean {
		return
	}
	fk, tk := primKind(from), primKind(to)
	if fk > kDouble || tk > kDouble {
		return
	}
	if fk != tk {
		f.c.op(convertOps[fk][tk], tk.size()-fk.size())
	}
	switch to {
	case constant.TByte:
		f.c.op(opI2b, 0)
	case constant.TShort:
		if from != constant.TByte {
			f.c.op(opI2s, 0)
		}
	case constant.TChar:
		f.c.op(opI2c, 0)
	}
}

var boxNames = map[constant.TypeID]string{
	constant.TBoolean: "java/lang/Boolean",
	constant.TByte:    "java/lang/Byte",
	constant.TChar:    "java/lang/Character",
	constant.TShort:   "java/lang/Short",
	constant.TInt:     "java/lang/Integer",
	constant.TLong:    "java/lang/Long",
	constant.TFloat:   "java/lang/Float",
	constant.TDouble:  "java/lang/Double",
	constant.TVoid:    "java/lang/Void",
}

var primNames = map[constant.TypeID]string{
	constant.TBoolean: "boolean",
	constant.TByte:    "byte",
	constant.TChar:    "char",
	constant.TShort:   "short",
	constant.TInt:     "int",
	constant.TLong:    "long",
	constant.TFloat:   "float",
	constant.TDouble:  "double",
}

var primDescs = map[constant.TypeID]string{
	constant.TBoolean: "Z",
	constant.TByte:    "B",
	constant.TChar:    "C",
	constant.TShort:   "S",
	constant.TInt:     "I",
	constant.TLong:    "J",
	constant.TFloat:   "F",
	constant.TDouble:  "D",
}

func (f *frame) box(p constant.TypeID) {
	owner := boxNames[p]
	k := primKind(p)
	desc := "(" + primDescs[p] + ")L" + owner + ";"
	f.c.op2(opInvokestatic, 1-k.size(), f.cg.b.Methodref(owner, "valueOf", desc, false))
}

func (f *frame) unbox(p constant.TypeID) {
	owner := boxNames[p]
	k := primKind(p)
	f.c.op2(opInvokevirtual, k.size()-1, f.cg.b.Methodref(owner, primNames[p]+"Value", "()"+primDescs[p], false))
}

// coerce converts the value on the stack from one type to another:
// primitive widening and narrowing, boxing, unboxing and the checkcast of
// a reference whose erasure is not known to be assignable.
func (f *frame) coerce(from, to lookup.TypeID) {
	env := f.env
	if from == to || from == lookup.NoType || to == lookup.NoType {
		return
	}
	fp, tp := env.Prim(from), env.Prim(to)
	switch {
	case fp == constant.TVoid || tp == constant.TVoid:
	case fp != constant.TUndefined && tp != constant.TUndefined:
		f.primConvert(fp, tp)
	case fp != constant.TUndefined:
		if ub := env.Prim(env.Unbox(to)); ub != constant.TUndefined {
			f.primConvert(fp, ub)
			f.box(ub)
			return
		}
		f.box(fp)
	case tp != constant.TUndefined:
		ub := env.Prim(env.Unbox(from))
		if ub == constant.TUndefined {
			ub = tp
			f.c.op2(opCheckcast, 0, f.cg.b.Class(boxNames[tp]))
		}
		f.unbox(ub)
		f.primConvert(ub, tp)
	default:
		f.castTo(from, to)
	}
}

// castTo emits a checkcast when a reference of type from is not known to
// be an instance of the erasure of to.
func (f *frame) castTo(from, to lookup.TypeID) {
	if !f.env.IsReference(to) || f.g.assignable(from, to) {
		return
	}
	f.c.op2(opCheckcast, 0, f.cg.b.Class(f.env.BinaryName(f.env.Erasure(to))))
}

// assignable reports whether erased values of type from are instances of
// the erasure of to.
func (g *generator) assignable(from, to lookup.TypeID) bool {
	env := g.env
	if env.Kind(from) == lookup.KindNull {
		return true
	}
	from, to = env.Erasure(from), env.Erasure(to)
	if from == to || to == env.Object() || from == lookup.NoType || to == lookup.NoType {
		return true
	}
	if env.Kind(from) == lookup.KindArray || env.Kind(to) == lookup.KindArray {
		return env.IsSubtype(from, to)
	}
	return g.inherits(from, to)
}

// inherits reports whether t is target or a subtype of its declaration.
func (g *generator) inherits(t, target lookup.TypeID) bool {
	env := g.env
	if t == lookup.NoType || target == lookup.NoType {
		return false
	}
	return env.AsSuper(t, env.Declared(target)) != lookup.NoType
}

// primOf returns the primitive type of t or of the primitive it boxes.
func (g *generator) primOf(t lookup.TypeID) constant.TypeID {
	env := g.env
	if p := env.Prim(t); p != constant.TUndefined {
		return p
	}
	return env.Prim(env.Unbox(t))
}

func (g *generator) isString(t lookup.TypeID) bool {
	s := g.env.StringType()
	return t != lookup.NoType && s != lookup.NoType && g.env.Resolve(t) == s
}

// arrayOp returns the typed array load or store instruction for elements
// of type elem.
func (g *generator) arrayOp(base byte, elem lookup.TypeID) byte {
	switch g.env.Prim(elem) {
	case constant.TBoolean, constant.TByte:
		return base + (opBaload - opIaload)
	case constant.TChar:
		return base + (opCaload - opIaload)
	case constant.TShort:
		return base + (opSaload - opIaload)
	}
	return base + byte(g.kind(elem))
}

func (f *frame) arrayLoad(elem lookup.TypeID) {
	f.c.op(f.g.arrayOp(opIaload, elem), f.g.kind(elem).size()-2)
}

func (f *frame) arrayStore(elem lookup.TypeID) {
	f.c.op(f.g.arrayOp(opIastore, elem), -2-f.g.kind(elem).size())
}

var newarrayTypes = map[constant.TypeID]byte{
	constant.TBoolean: 4,
	constant.TChar:    5,
	constant.TFloat:   6,
	constant.TDouble:  7,
	constant.TByte:    8,
	constant.TShort:   9,
	constant.TInt:     10,
	constant.TLong:    11,
}

// newArrayOf creates a one-dimensional array of elem whose length is on
// the stack.
func (f *frame) newArrayOf(elem lookup.TypeID) {
	if p := f.env.Prim(elem); p != constant.TUndefined {
		f.c.op(opNewarray, 0, newarrayTypes[p])
		return
	}
	f.c.op2(opAnewarray, 0, f.cg.b.Class(f.env.BinaryName(elem)))
}
