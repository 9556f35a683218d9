package codegen

import (
	"sort"

	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/constant"
	"github.com/dhamidi/jfront/java/lookup"
)

type scopeKind uint8

const (
	scopeLoop scopeKind = iota
	scopeSwitch
	scopeSwitchExpr
	scopeLabel
	scopeFinally
)

// scope is a statement that break, continue, yield and return may leave.
type scope struct {
	kind   scopeKind
	labels []string
	brk    *label
	cont   *label

	// result is the slot a switch expression stores its value in.
	result     int
	resultType lookup.TypeID

	// cleanup is emitted inline by every jump leaving the scope: a
	// finally block, a monitor exit or a resource close. The jump's
	// code is cut out of region.
	cleanup func()
	finally *ast.Block
	region  *region
}

func (f *frame) push(s *scope) { f.scopes = append(f.scopes, s) }
func (f *frame) popScope()     { f.scopes = f.scopes[:len(f.scopes)-1] }

func (f *frame) block(b *ast.Block) {
	if b == nil {
		return
	}
	for _, st := range b.Stmts {
		f.stmt(st)
	}
}

func (f *frame) stmt(st ast.Stmt) {
	if st == nil || st.Flags().Has(ast.Unreachable) {
		return
	}
	if _, ok := st.(*ast.Block); !ok {
		f.c.line(st.Span().Start.Line)
	}
	switch st := st.(type) {
	case *ast.Block:
		f.block(st)
	case *ast.EmptyStmt:
	case *ast.LocalVarDecl:
		f.localVars(st)
	case *ast.LocalClassDecl:
		f.localClass(st.Decl)
	case *ast.ExprStmt:
		f.effect(st.X)
	case *ast.IfStmt:
		f.ifStmt(st)
	case *ast.WhileStmt:
		f.whileStmt(st, f.takeLabels())
	case *ast.DoStmt:
		f.doStmt(st, f.takeLabels())
	case *ast.ForStmt:
		f.forStmt(st, f.takeLabels())
	case *ast.ForEachStmt:
		f.forEach(st, f.takeLabels())
	case *ast.LabeledStmt:
		f.labeled(st)
	case *ast.ReturnStmt:
		f.returnStmt(st)
	case *ast.BreakStmt:
		i := f.target(st.Label, false, false)
		if i < 0 {
			f.fail(st, "break statements without target")
		}
		f.leave(st, i, func() { f.c.jump(opGoto, f.scopes[i].brk) }, st.Subroutines, true)
	case *ast.ContinueStmt:
		i := f.target(st.Label, true, false)
		if i < 0 {
			f.fail(st, "continue statements without target")
		}
		f.leave(st, i, func() { f.c.jump(opGoto, f.scopes[i].cont) }, st.Subroutines, true)
	case *ast.YieldStmt:
		i := f.target(nil, false, true)
		if i < 0 {
			f.fail(st, "yield statements without switch")
		}
		s := f.scopes[i]
		f.value(st.Value)
		f.store(f.g.kind(s.resultType), s.result)
		f.leave(st, i, func() { f.c.jump(opGoto, s.brk) }, st.Subroutines, true)
	case *ast.ThrowStmt:
		f.value(st.X)
		f.c.op(opAthrow, -1)
	case *ast.SwitchStmt:
		f.switchCode(st, st.Selector, st.Cases, lookup.NoType)
	case *ast.TryStmt:
		f.tryStmt(st)
	case *ast.SyncStmt:
		f.syncStmt(st)
	case *ast.AssertStmt:
		f.assertStmt(st)
	case *ast.ConstructorCall:
		f.fail(st, "misplaced constructor calls")
	default:
		f.fail(st, "erroneous statements")
	}
}

func (f *frame) localVars(d *ast.LocalVarDecl) {
	for _, v := range d.Vars {
		slot := f.declare(v.Name, f.info.TypeRefs[d.Type])
		if v.Init == nil {
			continue
		}
		t := lookup.NoType
		if sym, ok := f.info.Defs[v.Name]; ok && sym.Kind == lookup.SymLocal {
			t = f.env.Local(lookup.LocalID(sym.ID)).Type
		}
		f.initValue(v.Init, t)
		f.store(f.g.kind(t), slot)
	}
}

// takeLabels returns the labels of the statement being compiled when it
// is a loop.
func (f *frame) takeLabels() []string {
	l := f.pending
	f.pending = nil
	return l
}

func (f *frame) labeled(st *ast.LabeledStmt) {
	labels := []string{st.Label.Name}
	body := st.Body
	for {
		l, ok := body.(*ast.LabeledStmt)
		if !ok {
			break
		}
		labels = append(labels, l.Label.Name)
		body = l.Body
	}
	switch body.(type) {
	case *ast.WhileStmt, *ast.DoStmt, *ast.ForStmt, *ast.ForEachStmt:
		f.pending = labels
		f.stmt(body)
		f.pending = nil
		return
	}
	brk := f.c.newLabel()
	f.push(&scope{kind: scopeLabel, labels: labels, brk: brk})
	f.stmt(body)
	f.popScope()
	f.c.place(brk)
}

// target finds the scope a break, continue or yield leaves.
func (f *frame) target(name *ast.Ident, cont, yield bool) int {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		s := f.scopes[i]
		switch {
		case yield:
			if s.kind == scopeSwitchExpr {
				return i
			}
		case name != nil:
			for _, l := range s.labels {
				if l == name.Name {
					return i
				}
			}
		case cont:
			if s.kind == scopeLoop {
				return i
			}
		default:
			if s.kind == scopeLoop || s.kind == scopeSwitch {
				return i
			}
		}
		if s.kind == scopeSwitchExpr && !yield {
			return -1
		}
	}
	return -1
}

// leave emits the cleanups of the scopes above target, innermost first,
// then exit. The emitted code is cut out of the regions it leaves.
func (f *frame) leave(at ast.Node, target int, exit func(), subs []*ast.Block, check bool) {
	start := f.c.pc()
	var ran []*ast.Block
	for i := len(f.scopes) - 1; i > target; i-- {
		s := f.scopes[i]
		if s.cleanup == nil {
			continue
		}
		saved := f.scopes
		f.scopes = f.scopes[:i]
		s.cleanup()
		f.scopes = saved
		if s.finally != nil {
			ran = append(ran, s.finally)
		}
	}
	exit()
	end := f.c.pc()
	for i := len(f.scopes) - 1; i > target; i-- {
		if r := f.scopes[i].region; r != nil {
			r.gap(start, end)
		}
	}
	if check && len(ran) != len(subs) {
		log.Debugf("%s: jump runs %d finally blocks, flow analysis recorded %d", f.cg.tb.BinaryName, len(ran), len(subs))
	}
}

func (f *frame) hasCleanup() bool {
	for _, s := range f.scopes {
		if s.cleanup != nil {
			return true
		}
	}
	return false
}

func (f *frame) returnStmt(st *ast.ReturnStmt) {
	if st.Result == nil {
		f.leave(st, -1, func() { f.c.op(opReturn, 0) }, nil, false)
		return
	}
	k := f.g.kind(f.ret)
	f.value(st.Result)
	if !f.hasCleanup() {
		f.c.op(opIreturn+byte(k), -k.size())
		return
	}
	tmp := f.c.alloc(k.size())
	f.store(k, tmp)
	f.leave(st, -1, func() {
		f.load(k, tmp)
		f.c.op(opIreturn+byte(k), -k.size())
	}, nil, false)
}

func (f *frame) ifStmt(st *ast.IfStmt) {
	if c, ok := f.info.ConstantOf(st.Cond); ok {
		if c.Bool() {
			f.stmt(st.Then)
		} else {
			f.stmt(st.Else)
		}
		return
	}
	els := f.c.newLabel()
	f.branch(st.Cond, els, false)
	f.stmt(st.Then)
	if st.Else == nil {
		f.c.place(els)
		return
	}
	end := f.c.newLabel()
	f.c.jump(opGoto, end)
	f.c.place(els)
	f.stmt(st.Else)
	f.c.place(end)
}

// loop compiles a loop body in its own scope.
func (f *frame) loop(labels []string, brk, cont *label, body ast.Stmt) {
	f.push(&scope{kind: scopeLoop, labels: labels, brk: brk, cont: cont})
	f.stmt(body)
	f.popScope()
}

func (f *frame) whileStmt(st *ast.WhileStmt, labels []string) {
	if c, ok := f.info.ConstantOf(st.Cond); ok && !c.Bool() {
		return
	}
	top, brk := f.c.newLabel(), f.c.newLabel()
	f.c.place(top)
	f.branch(st.Cond, brk, false)
	f.loop(labels, brk, top, st.Body)
	f.c.jump(opGoto, top)
	f.c.place(brk)
}

func (f *frame) doStmt(st *ast.DoStmt, labels []string) {
	top, cont, brk := f.c.newLabel(), f.c.newLabel(), f.c.newLabel()
	f.c.place(top)
	f.loop(labels, brk, cont, st.Body)
	f.c.place(cont)
	f.branch(st.Cond, top, true)
	f.c.place(brk)
}

func (f *frame) forStmt(st *ast.ForStmt, labels []string) {
	for _, s := range st.Init {
		f.stmt(s)
	}
	top, cont, brk := f.c.newLabel(), f.c.newLabel(), f.c.newLabel()
	f.c.place(top)
	if st.Cond != nil {
		f.branch(st.Cond, brk, false)
	}
	f.loop(labels, brk, cont, st.Body)
	f.c.place(cont)
	for _, u := range st.Update {
		f.effect(u)
	}
	f.c.jump(opGoto, top)
	f.c.place(brk)
}

// forEach iterates an array by index or an Iterable through its
// iterator.
func (f *frame) forEach(st *ast.ForEachStmt, labels []string) {
	env, b := f.env, f.cg.b
	if len(st.Var.Vars) != 1 {
		f.fail(st, "malformed enhanced for statements")
	}
	v := st.Var.Vars[0]
	it := f.info.Types[st.Iterable]
	top, cont, brk := f.c.newLabel(), f.c.newLabel(), f.c.newLabel()
	if env.Kind(it) == lookup.KindArray {
		elem := env.ElementType(it)
		arr := f.c.alloc(1)
		f.value(st.Iterable)
		f.store(kRef, arr)
		n := f.c.alloc(1)
		f.aload(arr)
		f.c.op(opArraylength, 0)
		f.store(kInt, n)
		idx := f.c.alloc(1)
		f.c.op(opIconst0, 1)
		f.store(kInt, idx)
		f.c.place(top)
		f.load(kInt, idx)
		f.load(kInt, n)
		f.c.jump(opIfIcmpge, brk)
		slot := f.declare(v.Name, elem)
		t := f.localType(v.Name, elem)
		f.aload(arr)
		f.load(kInt, idx)
		f.arrayLoad(elem)
		f.coerce(elem, t)
		f.store(f.g.kind(t), slot)
		f.loop(labels, brk, cont, st.Body)
		f.c.place(cont)
		f.c.iinc(idx, 1)
		f.c.jump(opGoto, top)
		f.c.place(brk)
		return
	}
	iter := f.c.alloc(1)
	f.value(st.Iterable)
	f.c.op(opInvokeinterface, 0, invokeinterfaceOperands(b.Methodref("java/lang/Iterable", "iterator", "()Ljava/util/Iterator;", true), 1)...)
	f.store(kRef, iter)
	f.c.place(top)
	f.aload(iter)
	f.c.op(opInvokeinterface, 0, invokeinterfaceOperands(b.Methodref("java/util/Iterator", "hasNext", "()Z", true), 1)...)
	f.c.jump(opIfeq, brk)
	slot := f.declare(v.Name, env.Object())
	t := f.localType(v.Name, env.Object())
	f.aload(iter)
	f.c.op(opInvokeinterface, 0, invokeinterfaceOperands(b.Methodref("java/util/Iterator", "next", "()Ljava/lang/Object;", true), 1)...)
	f.coerce(env.Object(), t)
	f.store(f.g.kind(t), slot)
	f.loop(labels, brk, cont, st.Body)
	f.c.place(cont)
	f.c.jump(opGoto, top)
	f.c.place(brk)
}

func invokeinterfaceOperands(idx uint16, words int) []byte {
	return []byte{byte(idx >> 8), byte(idx), byte(words), 0}
}

// localType returns the declared type of the local defined by id.
func (f *frame) localType(id *ast.Ident, def lookup.TypeID) lookup.TypeID {
	if sym, ok := f.info.Defs[id]; ok && sym.Kind == lookup.SymLocal {
		if l := f.env.Local(lookup.LocalID(sym.ID)); l != nil && l.Type != lookup.NoType {
			return l.Type
		}
	}
	return def
}

func (f *frame) assertStmt(st *ast.AssertStmt) {
	cg, b, env := f.cg, f.cg.b, f.env
	ok := f.c.newLabel()
	f.c.op2(opGetstatic, 1, b.Fieldref(cg.tb.BinaryName, "$assertionsDisabled", "Z"))
	f.c.jump(opIfne, ok)
	f.branch(st.Cond, ok, true)
	f.c.op2(opNew, 1, b.Class("java/lang/AssertionError"))
	f.c.op(opDup, 1)
	desc := "()V"
	words := 0
	if st.Message != nil {
		f.value(st.Message)
		t := f.info.ConvertedType(st.Message)
		p := env.Prim(t)
		switch p {
		case constant.TUndefined:
			desc = "(Ljava/lang/Object;)V"
		case constant.TByte, constant.TShort:
			desc = "(I)V"
		default:
			desc = "(" + primDescs[p] + ")V"
		}
		words = primKind(p).size()
	}
	f.c.op2(opInvokespecial, -1-words, b.Methodref("java/lang/AssertionError", "<init>", desc, false))
	f.c.op(opAthrow, -1)
	f.c.place(ok)
}

func (f *frame) syncStmt(st *ast.SyncStmt) {
	if f.c.depth != 0 {
		f.fail(st, "synchronized statements inside expressions")
	}
	f.value(st.Lock)
	f.c.op(opDup, 1)
	lock := f.c.alloc(1)
	f.store(kRef, lock)
	f.c.op(opMonitorenter, -1)
	exit := func() {
		f.aload(lock)
		f.c.op(opMonitorexit, -1)
	}
	s := &scope{kind: scopeFinally, cleanup: exit, region: &region{start: f.c.pc()}}
	f.push(s)
	f.block(st.Body)
	s.region.end = f.c.pc()
	f.popScope()
	end := f.c.newLabel()
	if f.c.reachable {
		exit()
		f.c.jump(opGoto, end)
	}
	if s.region.end > s.region.start {
		h := f.c.newLabel()
		f.c.placeHandler(h)
		f.c.handler(s.region, h.pc, 0)
		t := f.c.alloc(1)
		f.store(kRef, t)
		exit()
		f.aload(t)
		f.c.op(opAthrow, -1)
	}
	f.c.place(end)
}

func (f *frame) tryStmt(st *ast.TryStmt) {
	if f.c.depth != 0 {
		f.fail(st, "try statements inside expressions")
	}
	body := func() { f.block(st.Body) }
	if len(st.Resources) > 0 {
		body = func() { f.resources(st, st.Resources, st.Body) }
		if len(st.Catches) == 0 && st.Finally == nil {
			body()
			return
		}
	}
	f.tryCatchFinally(body, st.Catches, st.Finally)
}

func (f *frame) tryCatchFinally(body func(), catches []*ast.CatchClause, fin *ast.Block) {
	c, b, env := f.c, f.cg.b, f.env
	var cleanup func()
	if fin != nil {
		cleanup = func() { f.block(fin) }
	}
	end := c.newLabel()
	s := &scope{kind: scopeFinally, cleanup: cleanup, finally: fin, region: &region{start: c.pc()}}
	tried := s.region
	f.push(s)
	body()
	tried.end = c.pc()
	f.popScope()
	if c.reachable {
		if cleanup != nil {
			cleanup()
		}
		c.jump(opGoto, end)
	}
	if tried.end == tried.start {
		c.place(end)
		return
	}

	caught := &region{start: c.pc()}
	s.region = caught
	for _, cc := range catches {
		h := c.newLabel()
		c.placeHandler(h)
		for _, t := range f.catchTypes(cc) {
			c.handler(tried, h.pc, b.Class(env.BinaryName(env.Erasure(t))))
		}
		f.push(s)
		slot := f.declare(cc.Param.Name, env.Object())
		f.store(kRef, slot)
		f.block(cc.Body)
		f.popScope()
		if c.reachable {
			gs := c.pc()
			if cleanup != nil {
				cleanup()
			}
			c.jump(opGoto, end)
			caught.gap(gs, c.pc())
		}
	}
	caught.end = c.pc()
	if fin != nil {
		h := c.newLabel()
		c.placeHandler(h)
		c.handler(tried, h.pc, 0)
		c.handler(caught, h.pc, 0)
		t := c.alloc(1)
		f.store(kRef, t)
		cleanup()
		f.aload(t)
		c.op(opAthrow, -1)
	}
	c.place(end)
}

func (f *frame) catchTypes(cc *ast.CatchClause) []lookup.TypeID {
	if u, ok := cc.Param.Type.(*ast.UnionType); ok {
		var out []lookup.TypeID
		for _, a := range u.Alternatives {
			out = append(out, f.info.TypeRefs[a])
		}
		return out
	}
	return []lookup.TypeID{f.info.TypeRefs[cc.Param.Type]}
}

// resources compiles a try-with-resources statement: each resource is
// closed after the rest, suppressing exceptions its close throws while
// another one propagates.
func (f *frame) resources(at ast.Node, res []ast.Node, body *ast.Block) {
	if len(res) == 0 {
		f.block(body)
		return
	}
	c, b, env := f.c, f.cg.b, f.env
	var slot int
	var t lookup.TypeID
	switch r := res[0].(type) {
	case *ast.LocalVarDecl:
		if len(r.Vars) != 1 {
			f.fail(r, "malformed resources")
		}
		f.localVars(r)
		sym := f.info.Defs[r.Vars[0].Name]
		slot = f.slots[lookup.LocalID(sym.ID)]
		t = f.localType(r.Vars[0].Name, env.Object())
	case ast.Expr:
		f.value(r)
		t = f.info.Types[r]
		slot = c.alloc(1)
		f.store(kRef, slot)
	default:
		f.fail(at, "malformed resources")
	}
	decl := env.Declared(t)
	owner := env.BinaryName(decl)
	iface := false
	if tb := env.Type(decl); tb != nil {
		iface = tb.IsInterface()
	}
	invokeClose := func() {
		f.aload(slot)
		if iface {
			c.op(opInvokeinterface, -1, invokeinterfaceOperands(b.Methodref(owner, "close", "()V", true), 1)...)
		} else {
			c.op2(opInvokevirtual, -1, b.Methodref(owner, "close", "()V", false))
		}
	}
	closeIfSet := func() {
		skip := c.newLabel()
		f.aload(slot)
		c.jump(opIfnull, skip)
		invokeClose()
		c.place(skip)
	}
	s := &scope{kind: scopeFinally, cleanup: closeIfSet, region: &region{start: c.pc()}}
	f.push(s)
	f.resources(at, res[1:], body)
	s.region.end = c.pc()
	f.popScope()
	end := c.newLabel()
	if c.reachable {
		closeIfSet()
		c.jump(opGoto, end)
	}
	if s.region.end > s.region.start {
		h := c.newLabel()
		c.placeHandler(h)
		c.handler(s.region, h.pc, 0)
		primary := c.alloc(1)
		f.store(kRef, primary)
		rethrow := c.newLabel()
		f.aload(slot)
		c.jump(opIfnull, rethrow)
		cs := c.pc()
		invokeClose()
		ce := c.pc()
		c.jump(opGoto, rethrow)
		sh := c.newLabel()
		c.placeHandler(sh)
		c.addHandler(cs, ce, sh.pc, b.Class("java/lang/Throwable"))
		suppressed := c.alloc(1)
		f.store(kRef, suppressed)
		f.aload(primary)
		f.aload(suppressed)
		c.op2(opInvokevirtual, -2, b.Methodref("java/lang/Throwable", "addSuppressed", "(Ljava/lang/Throwable;)V", false))
		c.place(rethrow)
		f.aload(primary)
		c.op(opAthrow, -1)
	}
	c.place(end)
}

type switchTarget struct {
	key int32
	l   *label
}

// switchCode compiles a switch statement, or a switch expression when
// resultType is set. String selectors are matched with equals and
// enum selectors by ordinal or identity.
func (f *frame) switchCode(at ast.Node, sel ast.Expr, cases []*ast.SwitchCase, resultType lookup.TypeID) {
	c, b, env, g := f.c, f.cg.b, f.env, f.g
	isExpr := resultType != lookup.NoType
	for _, cs := range cases {
		if cs.Guard != nil {
			f.fail(cs, "guarded switch labels")
		}
		for _, l := range cs.Labels {
			switch l.(type) {
			case *ast.TypePattern, *ast.RecordPattern:
				f.fail(l, "pattern matching in switch")
			}
			if f.isNull(l) {
				f.fail(l, "case null")
			}
		}
	}
	end := c.newLabel()
	labels := make([]*label, len(cases))
	dflt := end
	for i, cs := range cases {
		labels[i] = c.newLabel()
		if cs.Default {
			dflt = labels[i]
		}
	}
	noDefault := isExpr && dflt == end
	if noDefault {
		dflt = c.newLabel()
	}
	result := -1
	if isExpr {
		result = c.alloc(g.kind(resultType).size())
	}

	selT := f.info.Types[sel]
	decl := env.Type(env.Declared(selT))
	var targets []switchTarget
	switch {
	case g.isString(selT):
		f.value(sel)
		tmp := c.alloc(1)
		f.store(kRef, tmp)
		f.aload(tmp)
		c.op2(opInvokevirtual, 0, b.Methodref("java/lang/String", "hashCode", "()I", false))
		f.pop(kInt)
		for i, cs := range cases {
			for _, l := range cs.Labels {
				k, _ := f.info.ConstantOf(l)
				f.aload(tmp)
				ldc(c, b.String(k.String()), 1)
				c.op2(opInvokevirtual, -1, b.Methodref("java/lang/String", "equals", "(Ljava/lang/Object;)Z", false))
				c.jump(opIfne, labels[i])
			}
		}
		c.jump(opGoto, dflt)
	case decl != nil && decl.Modifiers.Has(lookup.ModEnum) && decl.Kind == lookup.KindSource:
		f.value(sel)
		c.op2(opInvokevirtual, 0, b.Methodref(decl.BinaryName, "ordinal", "()I", false))
		for i, cs := range cases {
			for _, l := range cs.Labels {
				targets = append(targets, switchTarget{int32(f.ordinal(decl, l)), labels[i]})
			}
		}
	case decl != nil && decl.Modifiers.Has(lookup.ModEnum):
		f.value(sel)
		tmp := c.alloc(1)
		f.store(kRef, tmp)
		f.aload(tmp)
		c.op2(opInvokevirtual, 0, b.Methodref("java/lang/Enum", "ordinal", "()I", false))
		f.pop(kInt)
		desc := env.Descriptor(env.Declared(selT))
		for i, cs := range cases {
			for _, l := range cs.Labels {
				f.aload(tmp)
				c.op2(opGetstatic, 1, b.Fieldref(decl.BinaryName, enumLabel(l), desc))
				c.jump(opIfAcmpeq, labels[i])
			}
		}
		c.jump(opGoto, dflt)
	default:
		f.value(sel)
		f.coerce(selT, env.Base(constant.TInt))
		for i, cs := range cases {
			for _, l := range cs.Labels {
				k, ok := f.info.ConstantOf(l)
				if !ok {
					f.fail(l, "non-constant case labels")
				}
				targets = append(targets, switchTarget{k.Int(), labels[i]})
			}
		}
	}
	if c.reachable {
		sort.Slice(targets, func(i, j int) bool { return targets[i].key < targets[j].key })
		keys := make([]int32, len(targets))
		ls := make([]*label, len(targets))
		for i, t := range targets {
			keys[i], ls[i] = t.key, t.l
		}
		c.switchOp(keys, ls, dflt)
	}

	kind := scopeSwitch
	if isExpr {
		kind = scopeSwitchExpr
	}
	f.push(&scope{kind: kind, brk: end, result: result, resultType: resultType})
	for i, cs := range cases {
		c.place(labels[i])
		if cs.Arrow && isExpr && len(cs.Body) == 1 {
			if es, ok := cs.Body[0].(*ast.ExprStmt); ok {
				c.line(es.Span().Start.Line)
				f.value(es.X)
				f.store(g.kind(resultType), result)
				c.jump(opGoto, end)
				continue
			}
		}
		for _, st := range cs.Body {
			f.stmt(st)
		}
		if cs.Arrow && c.reachable {
			c.jump(opGoto, end)
		}
	}
	f.popScope()
	if noDefault {
		c.place(dflt)
		c.op2(opNew, 1, b.Class("java/lang/IncompatibleClassChangeError"))
		c.op(opDup, 1)
		c.op2(opInvokespecial, -1, b.Methodref("java/lang/IncompatibleClassChangeError", "<init>", "()V", false))
		c.op(opAthrow, -1)
	}
	c.place(end)
	if isExpr {
		f.load(g.kind(resultType), result)
	}
}

// ordinal returns the position of the enum constant named by a case
// label in its source declaration.
func (f *frame) ordinal(decl *lookup.TypeBinding, l ast.Expr) int {
	name := enumLabel(l)
	if td := decl.Decl; td != nil {
		for i, ec := range td.EnumConstants {
			if ec.Name.Name == name {
				return i
			}
		}
	}
	f.fail(l, "unknown enum constants")
	return 0
}

func enumLabel(l ast.Expr) string {
	switch l := ast.Unparen(l).(type) {
	case *ast.Name:
		return l.Ident.Name
	case *ast.FieldAccess:
		return l.Name.Name
	}
	return ""
}
