package codegen

import (
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/lookup"
)

// anonymousSuper records the superclass constructor an anonymous class
// delegates to and fixes its constructor descriptor. The enclosing
// instance and the captured values must be known.
func (cg *classGen) anonymousSuper(origin ast.Node) {
	g, env := cg.g, cg.g.env
	switch o := origin.(type) {
	case *ast.EnumConstant:
		cg.enumBody = true
		cg.superCtor = g.info.Methods[o]
	case *ast.NewObject:
		cg.superCtor = g.info.Methods[o]
		if cg.superCtor != 0 {
			cg.superOuter = g.outerOf(env.Method(cg.superCtor).Declaring)
		}
	}
	cg.anonDesc = cg.anonymousDescriptor()
}

// anonymous generates the class of an anonymous class body created at
// site.
func (g *generator) anonymous(td *ast.TypeDecl, origin ast.Node, site *frame) *classGen {
	id := g.info.LocalTypes[td]
	if id == lookup.NoType {
		site.fail(td, "unresolved anonymous classes")
	}
	return g.class(td, id, site, origin)
}

func (f *frame) localClass(td *ast.TypeDecl) {
	id := f.info.LocalTypes[td]
	if id == lookup.NoType {
		f.fail(td, "unresolved local classes")
	}
	f.g.class(td, id, f, nil)
}

// newAnonymous creates an instance of an anonymous class.
func (f *frame) newAnonymous(x *ast.NewObject) {
	cg := f.g.anonymous(x.Body, x, f)
	b := f.cg.b
	f.c.op2(opNew, 1, b.Class(cg.tb.BinaryName))
	f.c.op(opDup, 1)
	if cg.outer != lookup.NoType {
		f.loadEnclosing(cg.outer, x)
	}
	if cg.superOuter != lookup.NoType {
		if x.Outer != nil {
			f.value(x.Outer)
			f.nullCheck()
		} else {
			f.loadEnclosing(cg.superOuter, x)
		}
	}
	if cg.superCtor != 0 {
		f.args(x, x.Args, cg.superCtor)
	}
	for _, lid := range cg.captured {
		f.loadLocal(lid, x)
	}
	args, _ := descriptorSlots(cg.anonDesc)
	f.c.op2(opInvokespecial, -1-args, b.Methodref(cg.tb.BinaryName, "<init>", cg.anonDesc, false))
}

// nullCheck throws a NullPointerException when the reference on the
// stack is null.
func (f *frame) nullCheck() {
	f.c.op(opDup, 1)
	f.c.op2(opInvokevirtual, 0, f.cg.b.Methodref("java/lang/Object", "getClass", "()Ljava/lang/Class;", false))
	f.c.op(opPop, -1)
}

// loadEnclosing pushes the innermost instance of target enclosing the
// code: this, or an outer instance reached through this$0 fields.
func (f *frame) loadEnclosing(target lookup.TypeID, at ast.Node) {
	g, env, b := f.g, f.env, f.cg.b
	target = env.Declared(target)
	if f.static {
		f.fail(at, "enclosing instances in static contexts")
	}
	cur := f.cg.id
	if g.inherits(cur, target) {
		f.aload(0)
		return
	}
	first := true
	for {
		outer := g.outerOf(cur)
		if outer == lookup.NoType {
			f.fail(at, "unreachable enclosing instances")
		}
		if first && f.outerSlot >= 0 {
			f.aload(f.outerSlot)
		} else {
			if first {
				f.aload(0)
			}
			f.c.op2(opGetfield, 0, b.Fieldref(env.BinaryName(cur), "this$0", env.Descriptor(outer)))
		}
		first = false
		cur = env.Declared(outer)
		if g.inherits(cur, target) {
			return
		}
	}
}

// loadLocal pushes a local variable: from its slot, as an inlined
// constant, or from the val$ field of a local class that captured it.
func (f *frame) loadLocal(lid lookup.LocalID, at ast.Node) {
	g, env, b := f.g, f.env, f.cg.b
	l := env.Local(lid)
	if l == nil {
		f.fail(at, "unresolved local variables")
	}
	k := g.kind(l.Type)
	if slot, ok := f.slots[lid]; ok {
		f.load(k, slot)
		return
	}
	if l.Constant.IsValid() {
		f.constant(l.Constant)
		return
	}
	if f.static {
		f.fail(at, "captured variables in static contexts")
	}
	cur := g.byType[f.cg.id]
	first := true
	for cur != nil {
		if containsLocal(cur.captured, lid) {
			if first {
				f.aload(0)
			}
			f.c.op2(opGetfield, k.size()-1, b.Fieldref(cur.tb.BinaryName, "val$"+l.Name, env.Descriptor(l.Type)))
			return
		}
		if cur.outer == lookup.NoType {
			break
		}
		if first && f.outerSlot >= 0 {
			f.aload(f.outerSlot)
		} else {
			if first {
				f.aload(0)
			}
			f.c.op2(opGetfield, 0, b.Fieldref(cur.tb.BinaryName, "this$0", env.Descriptor(cur.outer)))
		}
		first = false
		cur = g.byType[env.Declared(cur.outer)]
	}
	f.fail(at, "uncaptured local variables")
}

func containsLocal(ids []lookup.LocalID, id lookup.LocalID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// useMethod makes a private method accessed from another class of the
// same nest package private.
func (f *frame) useMethod(m lookup.MethodID) {
	env := f.env
	mb := env.Method(m)
	if mb == nil {
		return
	}
	if mb.Original != 0 {
		m, mb = mb.Original, env.Method(mb.Original)
	}
	if mb.Modifiers.Has(lookup.ModPrivate) && env.Declared(mb.Declaring) != f.cg.id {
		f.g.widenMethods[m] = true
	}
}

func (f *frame) useField(fid lookup.FieldID) {
	env := f.env
	fb := env.Field(fid)
	if fb == nil {
		return
	}
	if fb.Original != 0 {
		fid, fb = fb.Original, env.Field(fb.Original)
	}
	if fb.Modifiers.Has(lookup.ModPrivate) && env.Declared(fb.Declaring) != f.cg.id {
		f.g.widenFields[fid] = true
	}
}
