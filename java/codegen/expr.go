package codegen

import (
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/constant"
	"github.com/dhamidi/jfront/java/lookup"
)

// value pushes x converted to the type its context expects.
func (f *frame) value(x ast.Expr) {
	to := f.info.ConvertedType(x)
	if c, ok := f.info.ConstantOf(x); ok {
		if p := f.env.Prim(to); p != constant.TUndefined {
			if v, ok := constant.CastTo(c, p); ok {
				f.constant(v)
				return
			}
		}
		f.constant(c)
		f.coerce(f.info.Types[x], to)
		return
	}
	f.emit(x)
	f.coerce(f.info.Types[x], to)
}

// initValue pushes the initializer of a variable of type t.
func (f *frame) initValue(x ast.Expr, t lookup.TypeID) {
	if ai, ok := x.(*ast.ArrayInit); ok {
		f.arrayInit(ai, t)
		return
	}
	f.value(x)
}

// emit pushes the value of x in its own type.
func (f *frame) emit(x ast.Expr) {
	if c, ok := f.info.ConstantOf(x); ok {
		f.constant(c)
		return
	}
	switch x := x.(type) {
	case *ast.Paren:
		f.emit(x.X)
		f.coerce(f.info.Types[x.X], f.info.Types[x])
	case *ast.Literal:
		if x.LitKind != ast.NullLit {
			f.fail(x, "malformed literals")
		}
		f.c.op(opAconstNull, 1)
	case *ast.Name:
		f.name(x)
	case *ast.FieldAccess:
		f.fieldAccess(x)
	case *ast.MethodCall:
		f.call(x)
	case *ast.NewObject:
		f.newObject(x)
	case *ast.NewArray:
		f.newArray(x)
	case *ast.ArrayInit:
		f.arrayInit(x, f.info.Types[x])
	case *ast.ArrayAccess:
		f.value(x.X)
		f.value(x.Index)
		f.arrayLoad(f.info.Types[x])
	case *ast.Unary:
		f.unary(x, true)
	case *ast.Binary:
		f.binary(x)
	case *ast.Assign:
		f.assign(x, true)
	case *ast.Conditional:
		f.conditional(x)
	case *ast.Cast:
		f.emit(x.X)
		f.coerce(f.info.Types[x.X], f.info.Types[x])
	case *ast.InstanceOf:
		if x.Pattern != nil {
			f.condValue(x)
			return
		}
		f.value(x.X)
		t := f.info.TypeRefs[x.Type]
		f.c.op2(opInstanceof, 0, f.cg.b.Class(f.env.BinaryName(t)))
	case *ast.This:
		if x.Qualifier == nil {
			if f.static {
				f.fail(x, "this in static contexts")
			}
			f.aload(0)
			return
		}
		f.loadEnclosing(f.info.Types[x], x)
	case *ast.ClassLit:
		f.classLit(x)
	case *ast.SwitchExpr:
		f.switchCode(x, x.Selector, x.Cases, f.info.Types[x])
	case *ast.Lambda:
		f.fail(x, "lambda expressions")
	case *ast.MethodRef:
		f.fail(x, "method references")
	default:
		f.fail(x, "erroneous expressions")
	}
}

// effect evaluates x for its side effects.
func (f *frame) effect(x ast.Expr) {
	switch u := ast.Unparen(x).(type) {
	case *ast.Assign:
		f.assign(u, false)
		return
	case *ast.Unary:
		if u.Op == ast.OpInc || u.Op == ast.OpDec {
			f.incDec(u, false)
			return
		}
	}
	f.emit(x)
	f.pop(f.g.kind(f.info.Types[x]))
}

// isValue reports whether a qualifier denotes a value rather than a type
// or package.
func (f *frame) isValue(q ast.Expr) bool {
	_, ok := f.info.Types[q]
	return ok
}

// resultCast emits the checkcast a generic member's erased type needs to
// be used as the type of the expression.
func (f *frame) resultCast(declared, actual lookup.TypeID) {
	if !f.env.IsReference(actual) || f.env.Kind(actual) == lookup.KindNull {
		return
	}
	f.castTo(declared, actual)
}

func (f *frame) name(x *ast.Name) {
	sym := f.info.Uses[x.Ident]
	switch sym.Kind {
	case lookup.SymLocal:
		f.loadLocal(lookup.LocalID(sym.ID), x)
	case lookup.SymField:
		fid := f.info.Fields[x]
		if fid == 0 {
			fid = lookup.FieldID(sym.ID)
		}
		fb := f.env.Field(fid)
		if fb.IsStatic() {
			f.fieldOp(opGetstatic, fid, lookup.NoType)
		} else {
			f.loadEnclosing(fb.Declaring, x)
			f.fieldOp(opGetfield, fid, lookup.NoType)
		}
		f.resultCast(f.env.Field(fb.Original).Type, f.info.Types[x])
	default:
		f.fail(x, "unresolved names")
	}
}

func (f *frame) fieldAccess(x *ast.FieldAccess) {
	fid := f.info.Fields[x]
	if fid == 0 {
		f.fail(x, "unresolved fields")
	}
	if f.env.IsArrayLength(fid) {
		f.value(x.X)
		f.c.op(opArraylength, 0)
		return
	}
	fb := f.env.Field(fid)
	if fb.IsStatic() {
		if f.isValue(x.X) {
			f.value(x.X)
			f.pop(f.g.kind(f.info.Types[x.X]))
		}
		f.fieldOp(opGetstatic, fid, lookup.NoType)
	} else {
		f.receiver(x.X)
		f.fieldOp(opGetfield, fid, lookup.NoType)
	}
	f.resultCast(f.env.Field(fb.Original).Type, f.info.Types[x])
}

// receiver pushes the object a member is selected from.
func (f *frame) receiver(q ast.Expr) {
	if sup, ok := q.(*ast.Super); ok {
		if sup.Qualifier != nil {
			f.fail(sup, "qualified super access")
		}
		f.aload(0)
		return
	}
	f.value(q)
}

// fieldOp emits a field instruction for fid. The field reference names
// the declaring class of its generic declaration unless owner is given.
func (f *frame) fieldOp(op byte, fid lookup.FieldID, owner lookup.TypeID) {
	env := f.env
	fb := env.Field(env.Field(fid).Original)
	if owner == lookup.NoType {
		owner = env.Declared(fb.Declaring)
	}
	f.useField(fid)
	size := f.g.kind(fb.Type).size()
	var delta int
	switch op {
	case opGetstatic:
		delta = size
	case opPutstatic:
		delta = -size
	case opGetfield:
		delta = size - 1
	case opPutfield:
		delta = -1 - size
	}
	f.c.op2(op, delta, f.cg.b.Fieldref(env.BinaryName(owner), fb.Name, env.Descriptor(fb.Type)))
}

func (f *frame) call(x *ast.MethodCall) {
	env, b := f.env, f.cg.b
	m := f.info.Methods[x]
	if m == 0 {
		f.fail(x, "unresolved method calls")
	}
	mb := env.Method(m)
	orig := env.Method(mb.Original)
	decl := env.Declared(orig.Declaring)
	special := false
	switch q := x.X.(type) {
	case nil:
		if !orig.IsStatic() {
			f.loadEnclosing(decl, x)
		}
	case *ast.Super:
		if q.Qualifier != nil {
			f.fail(q, "qualified super calls")
		}
		if !orig.IsStatic() {
			f.aload(0)
			special = true
		}
	default:
		if f.isValue(q) {
			f.value(q)
			if orig.IsStatic() {
				f.pop(f.g.kind(f.info.Types[q]))
			}
		}
	}
	f.args(x, x.Args, m)

	if q := x.X; q != nil && orig.Name == "clone" && len(orig.Params) == 0 && env.Kind(f.info.Types[q]) == lookup.KindArray {
		arr := env.BinaryName(env.Erasure(f.info.Types[q]))
		f.c.op2(opInvokevirtual, 0, b.Methodref(arr, "clone", "()Ljava/lang/Object;", false))
		f.resultCast(env.Object(), f.info.Types[x])
		return
	}

	tb := env.Type(decl)
	iface := tb != nil && tb.IsInterface()
	owner := env.BinaryName(decl)
	desc := env.MethodDescriptor(m)
	args, res := descriptorSlots(desc)
	f.useMethod(m)
	switch {
	case orig.IsStatic():
		if iface {
			f.fail(x, "static interface method calls")
		}
		f.c.op2(opInvokestatic, res-args, b.Methodref(owner, orig.Name, desc, false))
	case special, orig.Modifiers.Has(lookup.ModPrivate) && decl == f.cg.id:
		if special && iface {
			f.fail(x, "interface super calls")
		}
		f.c.op2(opInvokespecial, res-args-1, b.Methodref(owner, orig.Name, desc, false))
	case iface:
		idx := b.Methodref(owner, orig.Name, desc, true)
		f.c.op(opInvokeinterface, res-args-1, byte(idx>>8), byte(idx), byte(args+1), 0)
	default:
		f.c.op2(opInvokevirtual, res-args-1, b.Methodref(owner, orig.Name, desc, false))
	}
	if res > 0 {
		f.resultCast(orig.Return, f.info.Types[x])
	}
}

// args pushes the arguments of an invocation of m, collecting the
// trailing ones into an array for variable arity calls.
func (f *frame) args(at ast.Node, xs []ast.Expr, m lookup.MethodID) {
	mb := f.env.Method(m)
	if !f.info.Varargs[at] || mb == nil || len(mb.Params) == 0 {
		for _, x := range xs {
			f.value(x)
		}
		return
	}
	n := len(mb.Params)
	for _, x := range xs[:n-1] {
		f.value(x)
	}
	elem := f.env.ElementType(f.env.Erasure(mb.Params[n-1]))
	rest := xs[n-1:]
	f.pushInt(int32(len(rest)))
	f.newArrayOf(elem)
	for i, x := range rest {
		f.c.op(opDup, 1)
		f.pushInt(int32(i))
		f.value(x)
		f.arrayStore(elem)
	}
}

func (f *frame) newObject(x *ast.NewObject) {
	if x.Body != nil {
		f.newAnonymous(x)
		return
	}
	env, b := f.env, f.cg.b
	m := f.info.Methods[x]
	if m == 0 {
		f.fail(x, "unresolved constructors")
	}
	decl := env.Declared(env.Method(m).Declaring)
	f.c.op2(opNew, 1, b.Class(env.BinaryName(decl)))
	f.c.op(opDup, 1)
	if outer := f.g.outerOf(decl); outer != lookup.NoType {
		if x.Outer != nil {
			f.value(x.Outer)
			f.nullCheck()
		} else {
			f.loadEnclosing(outer, x)
		}
	}
	f.args(x, x.Args, m)
	if lc := f.g.byType[decl]; lc != nil {
		for _, lid := range lc.captured {
			f.loadLocal(lid, x)
		}
	}
	f.invokeCtor(decl, m)
}

func (f *frame) newArray(x *ast.NewArray) {
	env := f.env
	t := f.info.Types[x]
	if x.Init != nil {
		f.arrayInit(x.Init, t)
		return
	}
	for _, d := range x.DimExprs {
		f.value(d)
	}
	if n := len(x.DimExprs); n > 1 {
		idx := f.cg.b.Class(env.BinaryName(env.Erasure(t)))
		f.c.op(opMultianewarray, 1-n, byte(idx>>8), byte(idx), byte(n))
		return
	}
	f.newArrayOf(env.Erasure(env.ElementType(t)))
}

func (f *frame) arrayInit(ai *ast.ArrayInit, t lookup.TypeID) {
	elem := f.env.ElementType(t)
	if elem == lookup.NoType {
		f.fail(ai, "array initializers of unknown type")
	}
	f.pushInt(int32(len(ai.Elems)))
	f.newArrayOf(f.env.Erasure(elem))
	for i, el := range ai.Elems {
		f.c.op(opDup, 1)
		f.pushInt(int32(i))
		f.initValue(el, elem)
		f.arrayStore(elem)
	}
}

func (f *frame) classLit(x *ast.ClassLit) {
	env, b := f.env, f.cg.b
	t := f.info.TypeRefs[x.Type]
	if p := env.Prim(t); p != constant.TUndefined {
		f.c.op2(opGetstatic, 1, b.Fieldref(boxNames[p], "TYPE", "Ljava/lang/Class;"))
		return
	}
	ldc(f.c, b.Class(env.BinaryName(env.Erasure(t))), 1)
}

func (f *frame) unary(x *ast.Unary, need bool) {
	switch x.Op {
	case ast.OpInc, ast.OpDec:
		f.incDec(x, need)
	case ast.OpNot:
		f.condValue(x)
	case ast.OpPos:
		f.value(x.X)
	case ast.OpNeg:
		f.value(x.X)
		f.c.op(opIneg+byte(f.g.kind(f.info.Types[x])), 0)
	case ast.OpBitNot:
		f.value(x.X)
		if f.g.kind(f.info.Types[x]) == kLong {
			f.c.op2(opLdc2W, 2, f.cg.b.Long(-1))
			f.c.op(opIxor+1, -2)
		} else {
			f.c.op(opIconstM1, 1)
			f.c.op(opIxor, -1)
		}
	default:
		f.fail(x, "erroneous operators")
	}
}

func (f *frame) binary(x *ast.Binary) {
	switch {
	case x.Op == ast.OpAndAnd, x.Op == ast.OpOrOr, x.Op.IsComparison():
		f.condValue(x)
		return
	case x.Op == ast.OpAdd && f.g.isString(f.info.Types[x]):
		f.concat(x)
		return
	}
	f.value(x.X)
	f.value(x.Y)
	if x.Op.IsShift() && f.g.kind(f.info.ConvertedType(x.Y)) == kLong {
		f.c.op(opL2i, -1)
	}
	f.arith(x, x.Op, f.g.kind(f.info.Types[x]))
}

// arith emits the instruction of a binary arithmetic, shift or bitwise
// operator on operands of kind k.
func (f *frame) arith(at ast.Node, op ast.Operator, k kind) {
	if k > kDouble {
		f.fail(at, "operators on erroneous operands")
	}
	size := k.size()
	wide := byte(0)
	if k == kLong {
		wide = 1
	}
	switch op {
	case ast.OpAdd:
		f.c.op(opIadd+byte(k), -size)
	case ast.OpSub:
		f.c.op(opIsub+byte(k), -size)
	case ast.OpMul:
		f.c.op(opImul+byte(k), -size)
	case ast.OpDiv:
		f.c.op(opIdiv+byte(k), -size)
	case ast.OpRem:
		f.c.op(opIrem+byte(k), -size)
	case ast.OpShl:
		f.c.op(opIshl+wide, -1)
	case ast.OpShr:
		f.c.op(opIshr+wide, -1)
	case ast.OpUShr:
		f.c.op(opIush+wide, -1)
	case ast.OpAnd:
		f.c.op(opIand+wide, -size)
	case ast.OpOr:
		f.c.op(opIor+wide, -size)
	case ast.OpXor:
		f.c.op(opIxor+wide, -size)
	default:
		f.fail(at, "erroneous operators")
	}
}

// condValue pushes a boolean expression as 0 or 1.
func (f *frame) condValue(x ast.Expr) {
	no, end := f.c.newLabel(), f.c.newLabel()
	f.branch(x, no, false)
	f.c.op(opIconst0+1, 1)
	f.c.jump(opGoto, end)
	f.c.place(no)
	f.c.op(opIconst0, 1)
	f.c.place(end)
}

// branch jumps to target when the boolean x evaluates to when and falls
// through otherwise.
func (f *frame) branch(x ast.Expr, target *label, when bool) {
	if c, ok := f.info.ConstantOf(x); ok {
		if c.Bool() == when {
			f.c.jump(opGoto, target)
		}
		return
	}
	switch u := ast.Unparen(x).(type) {
	case *ast.Unary:
		if u.Op == ast.OpNot && f.info.ConvertedType(u.X) == f.info.Types[u] {
			f.branch(u.X, target, !when)
			return
		}
	case *ast.Binary:
		switch {
		case u.Op == ast.OpAndAnd || u.Op == ast.OpOrOr:
			// a && b jumps on true only when both hold and on false when
			// either fails; || is the dual.
			if (u.Op == ast.OpAndAnd) == when {
				skip := f.c.newLabel()
				f.branch(u.X, skip, !when)
				f.branch(u.Y, target, when)
				f.c.place(skip)
			} else {
				f.branch(u.X, target, when)
				f.branch(u.Y, target, when)
			}
			return
		case u.Op.IsComparison():
			f.compare(u, target, when)
			return
		}
	case *ast.InstanceOf:
		if u.Pattern != nil {
			f.instanceOfPattern(u, target, when)
			return
		}
	}
	f.value(x)
	if when {
		f.c.jump(opIfne, target)
	} else {
		f.c.jump(opIfeq, target)
	}
}

var compareOps = map[ast.Operator]byte{
	ast.OpEQ: opIfeq,
	ast.OpNE: opIfne,
	ast.OpLT: opIflt,
	ast.OpGE: opIfge,
	ast.OpGT: opIfgt,
	ast.OpLE: opIfle,
}

func (f *frame) compare(x *ast.Binary, target *label, when bool) {
	op := compareOps[x.Op]
	if !when {
		op = negate(op)
	}
	k := f.g.kind(f.info.ConvertedType(x.X))
	if k == kRef {
		switch {
		case f.isNull(x.Y):
			f.value(x.X)
		case f.isNull(x.X):
			f.value(x.Y)
		default:
			f.value(x.X)
			f.value(x.Y)
			f.c.jump(op+(opIfAcmpeq-opIfeq), target)
			return
		}
		if op == opIfeq {
			f.c.jump(opIfnull, target)
		} else {
			f.c.jump(opIfnonnull, target)
		}
		return
	}
	f.value(x.X)
	switch k {
	case kInt:
		if c, ok := f.info.ConstantOf(x.Y); ok && c.Kind() != constant.TBoolean && c.Int() == 0 {
			f.c.jump(op, target)
			return
		}
		f.value(x.Y)
		f.c.jump(op+(opIfIcmpeq-opIfeq), target)
		return
	case kLong:
		f.value(x.Y)
		f.c.op(opLcmp, -3)
	case kFloat:
		f.value(x.Y)
		if x.Op == ast.OpLT || x.Op == ast.OpLE {
			f.c.op(opFcmpg, -1)
		} else {
			f.c.op(opFcmpl, -1)
		}
	case kDouble:
		f.value(x.Y)
		if x.Op == ast.OpLT || x.Op == ast.OpLE {
			f.c.op(opDcmpg, -3)
		} else {
			f.c.op(opDcmpl, -3)
		}
	default:
		f.fail(x, "comparisons of erroneous operands")
	}
	f.c.jump(op, target)
}

func (f *frame) isNull(x ast.Expr) bool {
	return f.env.Kind(f.info.Types[x]) == lookup.KindNull
}

// instanceOfPattern tests x and binds its pattern variable on success.
func (f *frame) instanceOfPattern(x *ast.InstanceOf, target *label, when bool) {
	p, ok := x.Pattern.(*ast.TypePattern)
	if !ok {
		f.fail(x, "record patterns")
	}
	b, env := f.cg.b, f.env
	t := f.info.TypeRefs[p.Type]
	cls := b.Class(env.BinaryName(env.Erasure(t)))
	f.value(x.X)
	if p.Name == nil {
		f.c.op2(opInstanceof, 0, cls)
		if when {
			f.c.jump(opIfne, target)
		} else {
			f.c.jump(opIfeq, target)
		}
		return
	}
	slot := f.declare(p.Name, t)
	f.store(kRef, slot)
	f.aload(slot)
	f.c.op2(opInstanceof, 0, cls)
	bind := func() {
		f.aload(slot)
		f.c.op2(opCheckcast, 0, cls)
		f.store(kRef, slot)
	}
	if when {
		skip := f.c.newLabel()
		f.c.jump(opIfeq, skip)
		bind()
		f.c.jump(opGoto, target)
		f.c.place(skip)
		return
	}
	f.c.jump(opIfeq, target)
	bind()
}

func (f *frame) conditional(x *ast.Conditional) {
	els, end := f.c.newLabel(), f.c.newLabel()
	f.branch(x.Cond, els, false)
	f.value(x.Then)
	f.c.jump(opGoto, end)
	f.c.place(els)
	f.value(x.Else)
	f.c.place(end)
}

// concat builds a string concatenation with a StringBuilder.
func (f *frame) concat(x *ast.Binary) {
	b := f.cg.b
	f.c.op2(opNew, 1, b.Class("java/lang/StringBuilder"))
	f.c.op(opDup, 1)
	f.c.op2(opInvokespecial, -1, b.Methodref("java/lang/StringBuilder", "<init>", "()V", false))
	for _, op := range f.concatOperands(x, nil) {
		f.emit(op)
		f.appendOp(f.info.Types[op])
	}
	f.toStringOp()
}

// concatOperands flattens a left-nested chain of string additions.
func (f *frame) concatOperands(x ast.Expr, out []ast.Expr) []ast.Expr {
	if bin, ok := x.(*ast.Binary); ok && bin.Op == ast.OpAdd && f.g.isString(f.info.Types[bin]) {
		if _, isConst := f.info.ConstantOf(bin); !isConst {
			out = f.concatOperands(bin.X, out)
			return append(out, bin.Y)
		}
	}
	return append(out, x)
}

func (f *frame) appendOp(t lookup.TypeID) {
	var arg string
	p := f.env.Prim(t)
	switch p {
	case constant.TByte, constant.TShort:
		arg = "I"
	case constant.TUndefined:
		arg = "Ljava/lang/Object;"
		if f.g.isString(t) {
			arg = "Ljava/lang/String;"
		}
	default:
		arg = primDescs[p]
	}
	f.c.op2(opInvokevirtual, -primKind(p).size(), f.cg.b.Methodref("java/lang/StringBuilder", "append", "("+arg+")Ljava/lang/StringBuilder;", false))
}

func (f *frame) toStringOp() {
	f.c.op2(opInvokevirtual, 0, f.cg.b.Methodref("java/lang/StringBuilder", "toString", "()Ljava/lang/String;", false))
}

// lvalue is an assignable location whose receiver, if any, has been
// pushed.
type lvalue struct {
	slot  int
	field lookup.FieldID
	elem  lookup.TypeID
	typ   lookup.TypeID
	// words is the number of stack words the receiver takes: 0 for
	// locals and static fields, 1 for instance fields, 2 for array
	// elements.
	words  int
	static bool
}

func (f *frame) lvalue(x ast.Expr) *lvalue {
	env := f.env
	t := f.info.Types[x]
	switch x := ast.Unparen(x).(type) {
	case *ast.Name:
		sym := f.info.Uses[x.Ident]
		switch sym.Kind {
		case lookup.SymLocal:
			lid := lookup.LocalID(sym.ID)
			slot, ok := f.slots[lid]
			if !ok {
				f.fail(x, "assignments to captured variables")
			}
			return &lvalue{slot: slot, typ: env.Local(lid).Type}
		case lookup.SymField:
			fid := f.info.Fields[x]
			if fid == 0 {
				fid = lookup.FieldID(sym.ID)
			}
			fb := env.Field(fid)
			if fb.IsStatic() {
				return &lvalue{field: fid, typ: fb.Type, static: true}
			}
			f.loadEnclosing(fb.Declaring, x)
			return &lvalue{field: fid, typ: fb.Type, words: 1}
		}
	case *ast.FieldAccess:
		fid := f.info.Fields[x]
		if fid == 0 || env.IsArrayLength(fid) {
			break
		}
		fb := env.Field(fid)
		if fb.IsStatic() {
			if f.isValue(x.X) {
				f.value(x.X)
				f.pop(f.g.kind(f.info.Types[x.X]))
			}
			return &lvalue{field: fid, typ: fb.Type, static: true}
		}
		f.receiver(x.X)
		return &lvalue{field: fid, typ: fb.Type, words: 1}
	case *ast.ArrayAccess:
		f.value(x.X)
		f.value(x.Index)
		return &lvalue{elem: t, typ: t, words: 2}
	}
	f.fail(x, "assignments to erroneous targets")
	return nil
}

func (f *frame) lvLoad(lv *lvalue) {
	switch {
	case lv.field != 0 && lv.static:
		f.fieldOp(opGetstatic, lv.field, lookup.NoType)
	case lv.field != 0:
		f.fieldOp(opGetfield, lv.field, lookup.NoType)
	case lv.words == 2:
		f.arrayLoad(lv.elem)
		return
	default:
		f.load(f.g.kind(lv.typ), lv.slot)
		return
	}
	fb := f.env.Field(lv.field)
	f.resultCast(f.env.Field(fb.Original).Type, lv.typ)
}

func (f *frame) lvStore(lv *lvalue) {
	switch {
	case lv.field != 0 && lv.static:
		f.fieldOp(opPutstatic, lv.field, lookup.NoType)
	case lv.field != 0:
		f.fieldOp(opPutfield, lv.field, lookup.NoType)
	case lv.words == 2:
		f.arrayStore(lv.elem)
	default:
		f.store(f.g.kind(lv.typ), lv.slot)
	}
}

// dupReceiver duplicates the receiver of lv for a load followed by a
// store.
func (f *frame) dupReceiver(lv *lvalue) {
	switch lv.words {
	case 1:
		f.c.op(opDup, 1)
	case 2:
		f.c.op(opDup2, 2)
	}
}

// dupValue copies the value of kind k on the stack below the receiver of
// lv so it remains as the result of the expression.
func (f *frame) dupValue(lv *lvalue, k kind) {
	wide := k.size() == 2
	var op byte
	switch lv.words {
	case 0:
		op = opDup
		if wide {
			op = opDup2
		}
	case 1:
		op = opDupX1
		if wide {
			op = opDup2X1
		}
	default:
		op = opDupX2
		if wide {
			op = opDup2X2
		}
	}
	f.c.op(op, k.size())
}

func (f *frame) assign(x *ast.Assign, need bool) {
	env := f.env
	lv := f.lvalue(x.Target)
	k := f.g.kind(lv.typ)
	if x.Op == ast.OpAssign {
		f.initValue(x.Value, lv.typ)
		if need {
			f.dupValue(lv, k)
		}
		f.lvStore(lv)
		return
	}
	op := x.Op.Binary()
	f.dupReceiver(lv)
	f.lvLoad(lv)
	vt := f.info.Types[x.Value]
	if op == ast.OpAdd && f.g.isString(lv.typ) {
		b := f.cg.b
		f.c.op2(opInvokestatic, 0, b.Methodref("java/lang/String", "valueOf", "(Ljava/lang/Object;)Ljava/lang/String;", false))
		f.c.op2(opNew, 1, b.Class("java/lang/StringBuilder"))
		f.c.op(opDupX1, 1)
		f.c.op(opSwap, 0)
		f.c.op2(opInvokespecial, -2, b.Methodref("java/lang/StringBuilder", "<init>", "(Ljava/lang/String;)V", false))
		f.emit(x.Value)
		f.appendOp(vt)
		f.toStringOp()
	} else {
		lp, rp := f.g.primOf(lv.typ), f.g.primOf(vt)
		pt, rt := constant.PromoteBinary(lp, rp), constant.TUndefined
		switch {
		case op.IsShift():
			pt, rt = constant.PromoteUnary(lp), constant.PromoteUnary(rp)
		case lp == constant.TBoolean:
			pt = constant.TBoolean
		}
		if rt == constant.TUndefined {
			rt = pt
		}
		if pt == constant.TUndefined || rt == constant.TUndefined {
			f.fail(x, "compound assignments of erroneous operands")
		}
		f.coerce(lv.typ, env.Base(pt))
		f.emit(x.Value)
		f.coerce(vt, env.Base(rt))
		if rt == constant.TLong && op.IsShift() {
			f.c.op(opL2i, -1)
		}
		f.arith(x, op, primKind(pt))
		f.coerce(env.Base(pt), lv.typ)
	}
	if need {
		f.dupValue(lv, k)
	}
	f.lvStore(lv)
}

func (f *frame) incDec(x *ast.Unary, need bool) {
	env := f.env
	lv := f.lvalue(x.X)
	t := lv.typ
	k := f.g.kind(t)
	by := 1
	if x.Op == ast.OpDec {
		by = -1
	}
	if lv.words == 0 && lv.field == 0 && env.Prim(t) == constant.TInt {
		if need && x.Postfix {
			f.load(kInt, lv.slot)
		}
		f.c.iinc(lv.slot, by)
		if need && !x.Postfix {
			f.load(kInt, lv.slot)
		}
		return
	}
	f.dupReceiver(lv)
	f.lvLoad(lv)
	if need && x.Postfix {
		f.dupValue(lv, k)
	}
	pt := constant.PromoteUnary(f.g.primOf(t))
	if pt == constant.TUndefined {
		f.fail(x, "increments of erroneous operands")
	}
	f.coerce(t, env.Base(pt))
	pk := primKind(pt)
	switch pk {
	case kLong:
		f.c.op(opLconst0+1, 2)
	case kFloat:
		f.c.op(opFconst0+1, 1)
	case kDouble:
		f.c.op(opDconst0+1, 2)
	default:
		f.c.op(opIconst0+1, 1)
	}
	if by > 0 {
		f.arith(x, ast.OpAdd, pk)
	} else {
		f.arith(x, ast.OpSub, pk)
	}
	f.coerce(env.Base(pt), t)
	if need && !x.Postfix {
		f.dupValue(lv, k)
	}
	f.lvStore(lv)
}
