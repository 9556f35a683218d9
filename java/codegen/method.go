package codegen

import (
	"strings"

	"github.com/dhamidi/jfront/classfile"
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/constant"
	"github.com/dhamidi/jfront/java/lookup"
	"github.com/dhamidi/jfront/java/problem"
)

// frame is the state of one method body being compiled.
type frame struct {
	cg   *classGen
	g    *generator
	env  *lookup.Environment
	info *lookup.Info
	c    *code

	static bool
	ret    lookup.TypeID
	slots  map[lookup.LocalID]int
	scopes []*scope
	// pending holds the labels of the loop statement compiled next.
	pending []string

	// In constructors the enclosing instance and the enum name and
	// ordinal are parameters; -1 elsewhere.
	outerSlot int
	enumSlot  int
}

func newFrame(cg *classGen, static bool) *frame {
	f := &frame{
		cg:        cg,
		g:         cg.g,
		env:       cg.g.env,
		info:      cg.g.info,
		c:         newCode(),
		static:    static,
		slots:     make(map[lookup.LocalID]int),
		outerSlot: -1,
		enumSlot:  -1,
	}
	if !static {
		f.c.alloc(1)
	}
	return f
}

// fail abandons the body: it is replaced by a problem method.
func (f *frame) fail(at ast.Node, what string) {
	f.g.unsupported(at, what)
	problem.Raise(problem.AbortMethod, f.g.unit.File, "Code generation for %s is not supported", what)
}

// declare allocates the slot of a local variable.
func (f *frame) declare(id *ast.Ident, t lookup.TypeID) int {
	sym, ok := f.info.Defs[id]
	if ok && sym.Kind == lookup.SymLocal {
		if l := f.env.Local(lookup.LocalID(sym.ID)); l != nil && l.Type != lookup.NoType {
			t = l.Type
		}
	}
	slot := f.c.alloc(f.g.kind(t).size())
	if ok && sym.Kind == lookup.SymLocal {
		f.slots[lookup.LocalID(sym.ID)] = slot
	}
	return slot
}

// ctorPrefix allocates the leading synthetic constructor parameters.
func (f *frame) ctorPrefix() {
	cg := f.cg
	if cg.outer != lookup.NoType {
		f.outerSlot = f.c.alloc(1)
	}
	if cg.tb.DeclKind == ast.EnumKind || cg.enumBody {
		f.enumSlot = f.c.alloc(2)
	}
}

// params allocates the parameter slots of a declared method.
func (f *frame) params(md *ast.MethodDecl, mb *lookup.MethodBinding) {
	f.ret = mb.Return
	if mb.Constructor {
		f.ctorPrefix()
	}
	params := md.Params
	if md.Compact {
		params = f.cg.decl.Components
	}
	for i, p := range params {
		t := lookup.NoType
		if i < len(mb.Params) {
			t = mb.Params[i]
		}
		f.declare(p.Name, t)
	}
	if mb.Constructor {
		f.capturedParams()
	}
}

func (f *frame) capturedParams() {
	for _, lid := range f.cg.captured {
		f.slots[lid] = f.c.alloc(f.g.kind(f.env.Local(lid).Type).size())
	}
}

func (f *frame) constructor(md *ast.MethodDecl, mid lookup.MethodID) {
	cg := f.cg
	stmts := md.Body.Stmts
	var call *ast.ConstructorCall
	if len(stmts) > 0 {
		call, _ = stmts[0].(*ast.ConstructorCall)
	}
	f.c.line(md.Span().Start.Line)
	switch {
	case call != nil && !call.Super:
		f.c.line(call.Span().Start.Line)
		f.thisCall(call)
		stmts = stmts[1:]
	case call != nil:
		f.storeSynthetic()
		f.c.line(call.Span().Start.Line)
		f.superCall(call, f.info.Methods[call], call.Qualifier, call.Args)
		stmts = stmts[1:]
		f.instanceInit()
	default:
		f.storeSynthetic()
		f.implicitSuper(md, f.info.Methods[md])
		f.instanceInit()
	}
	for _, st := range stmts {
		f.stmt(st)
	}
	if md.Compact && f.c.reachable {
		for _, p := range cg.decl.Components {
			sym := f.info.Defs[p.Name]
			fid := f.env.FindField(cg.id, p.Name.Name)
			if sym.Kind != lookup.SymLocal || fid == 0 {
				f.fail(p, "compact constructors of erroneous records")
			}
			f.c.varOp(opIload+byte(kRef), opIload0+4*byte(kRef), 0, 1)
			f.loadLocal(lookup.LocalID(sym.ID), p)
			f.fieldOp(opPutfield, fid, cg.id)
		}
	}
	if f.c.reachable {
		f.c.op(opReturn, 0)
	}
}

// storeSynthetic saves the enclosing instance and captured values before
// the superclass constructor runs.
func (f *frame) storeSynthetic() {
	cg, b, env := f.cg, f.cg.b, f.env
	if cg.outer != lookup.NoType {
		f.aload(0)
		f.aload(f.outerSlot)
		f.c.op2(opPutfield, -2, b.Fieldref(cg.tb.BinaryName, "this$0", env.Descriptor(cg.outer)))
	}
	for _, lid := range cg.captured {
		l := env.Local(lid)
		k := f.g.kind(l.Type)
		f.aload(0)
		f.load(k, f.slots[lid])
		f.c.op2(opPutfield, -1-k.size(), b.Fieldref(cg.tb.BinaryName, "val$"+l.Name, env.Descriptor(l.Type)))
	}
}

// thisCall compiles this(...): the synthetic parameters are passed along.
func (f *frame) thisCall(call *ast.ConstructorCall) {
	cg := f.cg
	m := f.info.Methods[call]
	if m == 0 {
		f.fail(call, "unresolved constructor calls")
	}
	f.aload(0)
	if f.outerSlot >= 0 {
		f.aload(f.outerSlot)
	}
	if f.enumSlot >= 0 {
		f.aload(f.enumSlot)
		f.load(kInt, f.enumSlot+1)
	}
	f.args(call, call.Args, m)
	for _, lid := range cg.captured {
		f.loadLocal(lid, call)
	}
	f.invokeCtor(cg.id, m)
}

// superCall invokes the superclass constructor m on this.
func (f *frame) superCall(at ast.Node, m lookup.MethodID, qualifier ast.Expr, args []ast.Expr) {
	cg, b, env := f.cg, f.cg.b, f.env
	if cg.tb.DeclKind == ast.EnumKind {
		f.aload(0)
		f.aload(f.enumSlot)
		f.load(kInt, f.enumSlot+1)
		f.c.op2(opInvokespecial, -3, b.Methodref("java/lang/Enum", "<init>", "(Ljava/lang/String;I)V", false))
		return
	}
	if cg.tb.DeclKind == ast.RecordKind {
		f.aload(0)
		f.c.op2(opInvokespecial, -1, b.Methodref("java/lang/Record", "<init>", "()V", false))
		return
	}
	if m == 0 {
		sup := env.Superclass(cg.id)
		if sup == lookup.NoType || env.Resolve(sup) == env.Object() {
			f.aload(0)
			f.c.op2(opInvokespecial, -1, b.Methodref("java/lang/Object", "<init>", "()V", false))
			return
		}
		f.fail(at, "unresolved constructor calls")
	}
	decl := env.Declared(env.Method(m).Declaring)
	f.aload(0)
	if cg.enumBody {
		f.aload(f.enumSlot)
		f.load(kInt, f.enumSlot+1)
	} else if outer := f.g.outerOf(decl); outer != lookup.NoType {
		if qualifier != nil {
			f.value(qualifier)
		} else {
			f.loadEnclosing(outer, at)
		}
	}
	f.args(at, args, m)
	if sc := f.g.byType[decl]; sc != nil {
		for _, lid := range sc.captured {
			f.loadLocal(lid, at)
		}
	}
	f.invokeCtor(decl, m)
}

func (f *frame) implicitSuper(at ast.Node, m lookup.MethodID) {
	f.superCall(at, m, nil, nil)
}

// invokeCtor emits invokespecial of constructor m of class decl. The
// receiver and arguments are on the stack.
func (f *frame) invokeCtor(decl lookup.TypeID, m lookup.MethodID) {
	desc := f.g.ctorDescriptor(m)
	args, _ := descriptorSlots(desc)
	f.useMethod(m)
	f.c.op2(opInvokespecial, -1-args, f.cg.b.Methodref(f.env.BinaryName(decl), "<init>", desc, false))
}

// instanceInit runs the instance variable initializers and instance
// initializer blocks in source order.
func (f *frame) instanceInit() {
	cg, env, g := f.cg, f.env, f.g
	for _, m := range cg.decl.Members {
		switch m := m.(type) {
		case *ast.FieldDecl:
			for _, v := range m.Vars {
				fid := env.FieldOfDecl(v)
				fb := env.Field(fid)
				if v.Init == nil || fb == nil || fb.IsStatic() {
					continue
				}
				f.c.line(v.Span().Start.Line)
				if g.erroneous(v) {
					cg.throwError(f.c, problemMessage(g.messages(v)))
					continue
				}
				f.aload(0)
				f.initValue(v.Init, fb.Type)
				f.fieldOp(opPutfield, fid, cg.id)
			}
		case *ast.Initializer:
			if m.Static {
				continue
			}
			if g.erroneous(m) {
				f.c.line(m.Span().Start.Line)
				cg.throwError(f.c, problemMessage(g.messages(m)))
				continue
			}
			f.block(m.Body)
		}
	}
}

// syntheticConstructor generates the default constructor or the
// canonical constructor of a record.
func (cg *classGen) syntheticConstructor(mid lookup.MethodID) {
	g, env := cg.g, cg.g.env
	mb := env.Method(mid)
	desc := g.ctorDescriptor(mid)
	record := cg.tb.DeclKind == ast.RecordKind
	flags := memberFlags(mb.Modifiers) &^ classfile.AccSynthetic
	if !record && g.info.Erroneous[cg.decl] && cg.decl.Name != nil {
		// the implicit super() call did not resolve
		c := cg.problemCode(cg.decl, false, desc, g.messages(cg.decl.Name))
		cg.addMethod(mid, flags, "<init>", desc, cg.codeAttr(c))
		return
	}
	c := cg.body(nil, false, desc, func(f *frame) {
		f.c.line(cg.decl.Span().Start.Line)
		f.ctorPrefix()
		var slots []int
		if record {
			for _, p := range mb.Params {
				slots = append(slots, f.c.alloc(g.kind(p).size()))
			}
		}
		f.capturedParams()
		f.storeSynthetic()
		sup := g.info.Methods[cg.decl]
		if sc := env.Superclass(cg.id); sup == 0 && sc != lookup.NoType && !record && cg.tb.DeclKind != ast.EnumKind {
			sup, _ = env.FindMethod(env.Methods(sc, "<init>"), nil, cg.id, lookup.NoType)
		}
		f.superCall(cg.decl, sup, nil, nil)
		f.instanceInit()
		if record {
			for i, p := range cg.decl.Components {
				fid := env.FindField(cg.id, p.Name.Name)
				if fid == 0 || i >= len(slots) {
					f.fail(p, "records with unresolved components")
				}
				k := g.kind(mb.Params[i])
				f.aload(0)
				f.load(k, slots[i])
				f.fieldOp(opPutfield, fid, cg.id)
			}
		}
		f.c.op(opReturn, 0)
	})
	cg.addMethod(mid, flags, "<init>", desc, cg.codeAttr(c))
}

// anonymousConstructor generates the constructor of an anonymous class:
// it passes its arguments on to the superclass constructor.
func (cg *classGen) anonymousConstructor() {
	g, env := cg.g, cg.g.env
	desc := cg.anonDesc
	c := cg.body(nil, false, desc, func(f *frame) {
		f.c.line(cg.decl.Span().Start.Line)
		f.ctorPrefix()
		superOuter := -1
		if cg.superOuter != lookup.NoType {
			superOuter = f.c.alloc(1)
		}
		var params []lookup.TypeID
		if cg.superCtor != 0 {
			params = env.Method(env.Method(cg.superCtor).Original).Params
		}
		var slots []int
		for _, p := range params {
			slots = append(slots, f.c.alloc(g.kind(p).size()))
		}
		f.capturedParams()
		f.storeSynthetic()

		b := cg.b
		f.aload(0)
		if cg.superCtor == 0 {
			f.c.op2(opInvokespecial, -1, b.Methodref("java/lang/Object", "<init>", "()V", false))
		} else {
			decl := env.Declared(env.Method(cg.superCtor).Declaring)
			if f.enumSlot >= 0 {
				f.aload(f.enumSlot)
				f.load(kInt, f.enumSlot+1)
			}
			if superOuter >= 0 {
				f.aload(superOuter)
			}
			for i, p := range params {
				f.load(g.kind(p), slots[i])
			}
			if sc := g.byType[decl]; sc != nil {
				for _, lid := range sc.captured {
					f.loadLocal(lid, cg.decl)
				}
			}
			f.invokeCtor(decl, cg.superCtor)
		}
		f.instanceInit()
		f.c.op(opReturn, 0)
	})
	cg.addMethod(0, 0, "<init>", desc, cg.codeAttr(c))
}

// anonymousDescriptor computes the constructor descriptor of an anonymous
// class: enclosing instance, the enclosing instance of the superclass,
// the enum name and ordinal, the superclass constructor parameters and
// the captured values.
func (cg *classGen) anonymousDescriptor() string {
	env := cg.g.env
	var sb strings.Builder
	sb.WriteByte('(')
	if cg.outer != lookup.NoType {
		sb.WriteString(env.Descriptor(cg.outer))
	}
	if cg.enumBody {
		sb.WriteString("Ljava/lang/String;I")
	}
	if cg.superOuter != lookup.NoType {
		sb.WriteString(env.Descriptor(cg.superOuter))
	}
	if cg.superCtor != 0 {
		sb.WriteString(paramDescriptors(env.MethodDescriptor(cg.superCtor)))
	}
	for _, lid := range cg.captured {
		sb.WriteString(env.Descriptor(env.Local(lid).Type))
	}
	sb.WriteString(")V")
	return sb.String()
}

func paramDescriptors(desc string) string {
	end := strings.IndexByte(desc, ')')
	if end < 1 {
		return ""
	}
	return desc[1:end]
}

// ctorDescriptor is the descriptor of constructor m including the
// synthetic parameters of its class.
func (g *generator) ctorDescriptor(m lookup.MethodID) string {
	env := g.env
	mb := env.Method(m)
	decl := env.Declared(mb.Declaring)
	cg := g.byType[decl]
	if cg != nil && cg.tb.Anonymous {
		return cg.anonDesc
	}
	tb := env.Type(decl)
	var sb strings.Builder
	sb.WriteByte('(')
	if outer := g.outerOf(decl); outer != lookup.NoType {
		sb.WriteString(env.Descriptor(outer))
	}
	if tb.Kind == lookup.KindSource && tb.DeclKind == ast.EnumKind {
		sb.WriteString("Ljava/lang/String;I")
	}
	sb.WriteString(paramDescriptors(env.MethodDescriptor(m)))
	if cg != nil {
		for _, lid := range cg.captured {
			sb.WriteString(env.Descriptor(env.Local(lid).Type))
		}
	}
	sb.WriteString(")V")
	return sb.String()
}

// outerOf returns the type of the enclosing instance instances of t are
// created with, NoType for static and top-level types.
func (g *generator) outerOf(t lookup.TypeID) lookup.TypeID {
	env := g.env
	t = env.Declared(t)
	if cg := g.byType[t]; cg != nil {
		return cg.outer
	}
	tb := env.Type(t)
	if tb == nil || tb.Enclosing == lookup.NoType || tb.Local || tb.Modifiers.IsStatic() {
		return lookup.NoType
	}
	if tb.IsInterface() || tb.Modifiers.Has(lookup.ModEnum) || tb.Modifiers.Has(lookup.ModRecord) {
		return lookup.NoType
	}
	if enc := env.Type(tb.Enclosing); enc == nil || enc.IsInterface() {
		return lookup.NoType
	}
	return tb.Enclosing
}

// captures lists the locals of enclosing bodies a local or anonymous
// class uses. Constant variables are inlined and not captured.
func (g *generator) captures(td *ast.TypeDecl, site *frame) []lookup.LocalID {
	env, info := g.env, g.info
	inside := make(map[lookup.LocalID]bool)
	ast.Inspect(td, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			if sym, ok := info.Defs[id]; ok && sym.Kind == lookup.SymLocal {
				inside[lookup.LocalID(sym.ID)] = true
			}
		}
		return true
	})
	var out []lookup.LocalID
	seen := make(map[lookup.LocalID]bool)
	add := func(lid lookup.LocalID) {
		if inside[lid] || seen[lid] {
			return
		}
		if l := env.Local(lid); l == nil || l.Constant.IsValid() {
			return
		}
		seen[lid] = true
		out = append(out, lid)
	}
	ast.Inspect(td, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			if sym, ok := info.Uses[id]; ok && sym.Kind == lookup.SymLocal {
				add(lookup.LocalID(sym.ID))
			}
		}
		return true
	})
	// A local superclass needs its captured values passed to its
	// constructor.
	if id := info.LocalTypes[td]; id != lookup.NoType {
		if sc := g.byType[env.Declared(env.Superclass(id))]; sc != nil {
			for _, lid := range sc.captured {
				add(lid)
			}
		}
	}
	return out
}

func (cg *classGen) needsClinit() bool {
	env := cg.g.env
	if cg.assertions || cg.decl.DeclKind == ast.EnumKind {
		return true
	}
	for _, m := range cg.decl.Members {
		switch m := m.(type) {
		case *ast.FieldDecl:
			for _, v := range m.Vars {
				fid := env.FieldOfDecl(v)
				if fb := env.Field(fid); fb != nil && fb.IsStatic() && v.Init != nil && !env.FieldConstant(fid).IsValid() {
					return true
				}
			}
		case *ast.Initializer:
			if m.Static {
				return true
			}
		}
	}
	return false
}

// clinit generates the class initializer: assertion status, enum
// constants, static variable initializers and static blocks.
func (cg *classGen) clinit() {
	g, env := cg.g, cg.g.env
	c := cg.body(nil, true, "()V", func(f *frame) {
		f.c.line(cg.decl.Span().Start.Line)
		if cg.assertions {
			f.assertionStatus()
		}
		if cg.decl.DeclKind == ast.EnumKind {
			f.enumConstants()
		}
		for _, m := range cg.decl.Members {
			switch m := m.(type) {
			case *ast.FieldDecl:
				for _, v := range m.Vars {
					fid := env.FieldOfDecl(v)
					fb := env.Field(fid)
					if fb == nil || !fb.IsStatic() || v.Init == nil || env.FieldConstant(fid).IsValid() {
						continue
					}
					f.c.line(v.Span().Start.Line)
					if g.erroneous(v) {
						cg.throwError(f.c, problemMessage(g.messages(v)))
						continue
					}
					f.initValue(v.Init, fb.Type)
					f.fieldOp(opPutstatic, fid, cg.id)
				}
			case *ast.Initializer:
				if !m.Static {
					continue
				}
				if g.erroneous(m) {
					f.c.line(m.Span().Start.Line)
					cg.throwError(f.c, problemMessage(g.messages(m)))
					continue
				}
				f.block(m.Body)
			}
		}
		f.c.op(opReturn, 0)
	})
	cg.addMethod(0, classfile.AccStatic, "<clinit>", "()V", cg.codeAttr(c))
}

// assertionStatus initializes $assertionsDisabled from the top-level
// class.
func (f *frame) assertionStatus() {
	cg, b, env := f.cg, f.cg.b, f.env
	top := cg.tb
	for top.Enclosing != lookup.NoType {
		top = env.Type(top.Enclosing)
	}
	ldc(f.c, b.Class(top.BinaryName), 1)
	f.c.op2(opInvokevirtual, 0, b.Methodref("java/lang/Class", "desiredAssertionStatus", "()Z", false))
	enabled, done := f.c.newLabel(), f.c.newLabel()
	f.c.jump(opIfne, enabled)
	f.c.op(opIconst0+1, 1)
	f.c.jump(opGoto, done)
	f.c.place(enabled)
	f.c.op(opIconst0, 1)
	f.c.place(done)
	f.c.op2(opPutstatic, -1, b.Fieldref(cg.tb.BinaryName, "$assertionsDisabled", "Z"))
}

// enumConstants creates the enum constants and the $VALUES array.
func (f *frame) enumConstants() {
	cg, b, env, g := f.cg, f.cg.b, f.env, f.g
	self := cg.tb.BinaryName
	desc := env.Descriptor(cg.id)
	for i, ec := range cg.decl.EnumConstants {
		f.c.line(ec.Span().Start.Line)
		if g.erroneous(ec) {
			cg.throwError(f.c, problemMessage(g.messages(ec)))
			continue
		}
		m := f.info.Methods[ec]
		if m == 0 {
			f.fail(ec, "unresolved enum constructors")
		}
		cls, ctorDesc := self, g.ctorDescriptor(m)
		if ec.Body != nil {
			body := g.anonymous(ec.Body, ec, f)
			cls, ctorDesc = body.tb.BinaryName, body.anonDesc
		}
		f.c.op2(opNew, 1, b.Class(cls))
		f.c.op(opDup, 1)
		ldc(f.c, b.String(ec.Name.Name), 1)
		f.pushInt(int32(i))
		f.args(ec, ec.Args, m)
		args, _ := descriptorSlots(ctorDesc)
		f.useMethod(m)
		f.c.op2(opInvokespecial, -1-args, b.Methodref(cls, "<init>", ctorDesc, false))
		f.c.op2(opPutstatic, -1, b.Fieldref(self, ec.Name.Name, desc))
	}
	n := len(cg.decl.EnumConstants)
	f.pushInt(int32(n))
	f.c.op2(opAnewarray, 0, b.Class(self))
	for i, ec := range cg.decl.EnumConstants {
		f.c.op(opDup, 1)
		f.pushInt(int32(i))
		f.c.op2(opGetstatic, 1, b.Fieldref(self, ec.Name.Name, desc))
		f.c.op(opIastore+byte(kRef), -3)
	}
	f.c.op2(opPutstatic, -1, b.Fieldref(self, "$VALUES", "["+desc))
}

func (cg *classGen) enumValues(mid lookup.MethodID) {
	b, env := cg.b, cg.g.env
	arr := "[" + env.Descriptor(cg.id)
	c := newCode()
	c.line(cg.decl.Span().Start.Line)
	c.op2(opGetstatic, 1, b.Fieldref(cg.tb.BinaryName, "$VALUES", arr))
	c.op2(opInvokevirtual, 0, b.Methodref(arr, "clone", "()Ljava/lang/Object;", false))
	c.op2(opCheckcast, 0, b.Class(arr))
	c.op(opIreturn+byte(kRef), -1)
	flags := memberFlags(env.Method(mid).Modifiers) &^ classfile.AccSynthetic
	cg.addMethod(mid, flags, "values", "()"+arr, cg.codeAttr(c))
}

func (cg *classGen) enumValueOf(mid lookup.MethodID) {
	b, env := cg.b, cg.g.env
	self := cg.tb.BinaryName
	c := newCode()
	c.maxLocals = 1
	c.line(cg.decl.Span().Start.Line)
	ldc(c, b.Class(self), 1)
	c.varOp(opIload+byte(kRef), opIload0+4*byte(kRef), 0, 1)
	c.op2(opInvokestatic, -1, b.Methodref("java/lang/Enum", "valueOf", "(Ljava/lang/Class;Ljava/lang/String;)Ljava/lang/Enum;", false))
	c.op2(opCheckcast, 0, b.Class(self))
	c.op(opIreturn+byte(kRef), -1)
	flags := memberFlags(env.Method(mid).Modifiers) &^ classfile.AccSynthetic
	cg.addMethod(mid, flags, "valueOf", "(Ljava/lang/String;)"+env.Descriptor(cg.id), cg.codeAttr(c))
}

// recordAccessor generates the implicit accessor of a record component.
func (cg *classGen) recordAccessor(mid lookup.MethodID) {
	g, b, env := cg.g, cg.b, cg.g.env
	mb := env.Method(mid)
	fid := env.FindField(cg.id, mb.Name)
	if fid == 0 || len(mb.Params) > 0 {
		return
	}
	fb := env.Field(fid)
	k := g.kind(fb.Type)
	c := newCode()
	c.maxLocals = 1
	c.line(cg.decl.Span().Start.Line)
	c.varOp(opIload+byte(kRef), opIload0+4*byte(kRef), 0, 1)
	c.op2(opGetfield, k.size()-1, b.Fieldref(cg.tb.BinaryName, fb.Name, env.Descriptor(fb.Type)))
	c.op(opIreturn+byte(k), -k.size())
	var attrs []classfile.AttributeInfo
	attrs = append(attrs, cg.codeAttr(c))
	if sig := env.FieldSignature(mb.Return); sig != "" {
		attrs = append(attrs, b.SignatureAttr("()"+sig))
	}
	flags := memberFlags(mb.Modifiers) &^ classfile.AccSynthetic
	cg.addMethod(mid, flags, mb.Name, env.MethodDescriptor(mid), attrs...)
}

// poolConstant adds the ConstantValue entry of a constant.
func (cg *classGen) poolConstant(c constant.Constant) uint16 {
	b := cg.b
	switch c.Kind() {
	case constant.TLong:
		return b.Long(c.Long())
	case constant.TFloat:
		return b.Float(c.Float())
	case constant.TDouble:
		return b.Double(c.Double())
	case constant.TString:
		return b.String(c.String())
	}
	return b.Integer(c.Int())
}
