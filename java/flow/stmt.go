package flow

import (
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/lookup"
	"github.com/dhamidi/jfront/java/problem"
)

func (a *analyzer) block(b *ast.Block, in *Info) *Info {
	if b == nil {
		return in
	}
	return a.stmts(b.Stmts, in)
}

// stmts analyzes a statement list. The first statement reached by no
// path is reported; it and the rest are flagged Unreachable.
func (a *analyzer) stmts(list []ast.Stmt, in *Info) *Info {
	reported := in.isDead()
	for _, st := range list {
		if in.isDead() {
			ast.SetFlags(st, ast.Unreachable)
			if !reported {
				a.report(problem.UnreachableCode, st)
				reported = true
			}
		}
		in = a.stmt(st, in)
	}
	return in
}

func (a *analyzer) unreachable(st ast.Stmt) {
	ast.SetFlags(st, ast.Unreachable)
	a.report(problem.UnreachableCode, st)
}

func (a *analyzer) stmt(st ast.Stmt, in *Info) *Info {
	labels := a.labels
	a.labels = nil
	switch st := st.(type) {
	case nil:
		return in
	case *ast.Block:
		return a.block(st, in)
	case *ast.EmptyStmt:
		return in
	case *ast.LocalVarDecl:
		return a.localVars(st, in)
	case *ast.LocalClassDecl:
		a.typeDecl(st.Decl)
		return in
	case *ast.ExprStmt:
		return a.expr(st.X, in)
	case *ast.IfStmt:
		c := a.condition(st.Cond, in)
		then := a.stmt(st.Then, c.InitsWhenTrue().Copy())
		if st.Else == nil {
			return then.MergedWith(c.InitsWhenFalse())
		}
		return then.MergedWith(a.stmt(st.Else, c.InitsWhenFalse().Copy()))
	case *ast.WhileStmt:
		return a.whileStmt(st, labels, in)
	case *ast.DoStmt:
		return a.doStmt(st, labels, in)
	case *ast.ForStmt:
		return a.forStmt(st, labels, in)
	case *ast.ForEachStmt:
		return a.forEach(st, labels, in)
	case *ast.LabeledStmt:
		lc := &labelContext{parent: a.ctx, label: st.Label.Name, breaks: DeadEnd}
		a.ctx = lc
		a.labels = append(labels, st.Label.Name)
		out := a.stmt(st.Body, in)
		a.labels = nil
		a.ctx = lc.parent
		return out.MergedWith(lc.breaks)
	case *ast.SwitchStmt:
		return a.switchBody(st.Selector, st.Cases, false, in)
	case *ast.TryStmt:
		return a.tryStmt(st, in)
	case *ast.SyncStmt:
		return a.block(st.Body, a.expr(st.Lock, in))
	case *ast.AssertStmt:
		c := a.condition(st.Cond, in.Copy())
		if st.Message != nil {
			a.expr(st.Message, c.InitsWhenFalse().Copy())
		}
		return in.addPotential(c)
	case *ast.ReturnStmt:
		return a.returnStmt(st, in)
	case *ast.BreakStmt:
		return a.breakStmt(st, in)
	case *ast.ContinueStmt:
		return a.continueStmt(st, in)
	case *ast.YieldStmt:
		return a.yieldStmt(st, in)
	case *ast.ThrowStmt:
		in = a.expr(st.X, in)
		for _, t := range a.thrownTypes(st.X) {
			a.thrown(st, t)
		}
		return DeadEnd
	case *ast.ConstructorCall:
		return a.constructorCall(st, in)
	}
	log.Warningf("flow: unhandled statement %s", st.Kind())
	return in
}

func (a *analyzer) localVars(d *ast.LocalVarDecl, in *Info) *Info {
	for _, v := range d.Vars {
		s, ok := a.declareLocal(v.Name)
		if ok {
			in.forget(s)
		}
		if v.Init == nil {
			continue
		}
		in = a.expr(v.Init, in)
		if ok {
			in.MarkAsDefinitelyAssigned(s)
		}
	}
	return in
}

func (a *analyzer) constructorCall(st *ast.ConstructorCall, in *Info) *Info {
	if st.Qualifier != nil {
		in = a.expr(st.Qualifier, in)
	}
	in = a.exprs(st.Args, in)
	if m, ok := a.info.Methods[st]; ok {
		a.thrownBy(st, m)
	}
	if !st.Super {
		// The called constructor assigns every blank final.
		for f := range a.finals {
			if fb := a.env.Field(f); fb != nil && !fb.IsStatic() {
				in.MarkAsDefinitelyAssigned(a.declare(lookup.FieldSymbol(f)))
			}
		}
	}
	return in
}

func (a *analyzer) pushLoop(labels []string) *loopContext {
	lc := &loopContext{parent: a.ctx, labels: labels, breaks: DeadEnd, continues: DeadEnd}
	a.ctx = lc
	return lc
}

func (a *analyzer) whileStmt(st *ast.WhileStmt, labels []string, in *Info) *Info {
	in.markPotentiallyAssigned(a.assignedIn(st.Cond, st.Body))
	lc := a.pushLoop(labels)
	c := a.condition(st.Cond, in)
	body := c.InitsWhenTrue().Copy()
	if a.isConstant(st.Cond, false) {
		a.unreachable(st.Body)
		body = DeadEnd
	}
	a.stmt(st.Body, body)
	a.ctx = lc.parent
	exit := c.InitsWhenFalse()
	if a.isConstant(st.Cond, true) {
		exit = DeadEnd
	}
	return exit.MergedWith(lc.breaks)
}

func (a *analyzer) doStmt(st *ast.DoStmt, labels []string, in *Info) *Info {
	in.markPotentiallyAssigned(a.assignedIn(st.Body, st.Cond))
	lc := a.pushLoop(labels)
	body := a.stmt(st.Body, in)
	a.ctx = lc.parent
	c := a.condition(st.Cond, body.MergedWith(lc.continues))
	exit := c.InitsWhenFalse()
	if a.isConstant(st.Cond, true) {
		exit = DeadEnd
	}
	return exit.MergedWith(lc.breaks)
}

func (a *analyzer) forStmt(st *ast.ForStmt, labels []string, in *Info) *Info {
	for _, s := range st.Init {
		in = a.stmt(s, in)
	}
	parts := []ast.Node{st.Body}
	if st.Cond != nil {
		parts = append(parts, st.Cond)
	}
	for _, u := range st.Update {
		parts = append(parts, u)
	}
	in.markPotentiallyAssigned(a.assignedIn(parts...))
	lc := a.pushLoop(labels)
	var c *Info
	if st.Cond == nil {
		c = Conditional(in, DeadEnd)
	} else {
		c = a.condition(st.Cond, in)
	}
	body := c.InitsWhenTrue().Copy()
	if st.Cond != nil && a.isConstant(st.Cond, false) {
		a.unreachable(st.Body)
		body = DeadEnd
	}
	next := a.stmt(st.Body, body).MergedWith(lc.continues)
	for _, u := range st.Update {
		next = a.expr(u, next)
	}
	a.ctx = lc.parent
	exit := c.InitsWhenFalse()
	if st.Cond != nil && a.isConstant(st.Cond, true) {
		exit = DeadEnd
	}
	return exit.MergedWith(lc.breaks)
}

func (a *analyzer) forEach(st *ast.ForEachStmt, labels []string, in *Info) *Info {
	in = a.expr(st.Iterable, in)
	in.markPotentiallyAssigned(a.assignedIn(st.Body))
	lc := a.pushLoop(labels)
	body := in.Copy()
	if st.Var != nil {
		for _, v := range st.Var.Vars {
			if s, ok := a.declareLocal(v.Name); ok {
				body.MarkAsDefinitelyAssigned(s)
			}
		}
	}
	a.stmt(st.Body, body)
	a.ctx = lc.parent
	return in.MergedWith(lc.breaks)
}

// switchBody analyzes a switch statement or expression. Case groups are
// entered from the selector and, for colon cases, by falling through from
// the previous group.
func (a *analyzer) switchBody(sel ast.Expr, cases []*ast.SwitchCase, expression bool, in *Info) *Info {
	in = a.expr(sel, in)
	sc := &switchContext{parent: a.ctx, expression: expression, breaks: DeadEnd, yields: DeadEnd}
	a.ctx = sc
	defer func() { a.ctx = sc.parent }()

	exhaustive := expression
	fall := DeadEnd
	for _, c := range cases {
		if c.Default {
			exhaustive = true
		}
		entry := in.Copy()
		if !c.Arrow {
			entry = entry.MergedWith(fall)
		}
		for _, l := range c.Labels {
			switch l.(type) {
			case *ast.TypePattern, *ast.RecordPattern:
				exhaustive = true
			}
			entry = a.expr(l, entry)
		}
		if c.Guard != nil {
			entry = a.condition(c.Guard, entry).InitsWhenTrue().Copy()
		}
		if expression && c.Arrow && len(c.Body) == 1 {
			if es, ok := c.Body[0].(*ast.ExprStmt); ok {
				sc.recordYieldFrom(a.expr(es.X, entry))
				fall = DeadEnd
				continue
			}
		}
		out := a.stmts(c.Body, entry)
		if c.Arrow {
			if !expression {
				sc.recordBreakFrom(out)
			}
			fall = DeadEnd
			continue
		}
		fall = out
	}
	if expression {
		return sc.yields.MergedWith(fall)
	}
	out := fall.MergedWith(sc.breaks)
	if !exhaustive {
		out = out.MergedWith(in)
	}
	return out
}

func (a *analyzer) tryStmt(st *ast.TryStmt, in *Info) *Info {
	var fc *finallyContext
	if st.Finally != nil {
		parts := []ast.Node{st.Body}
		for _, r := range st.Resources {
			parts = append(parts, r)
		}
		for _, c := range st.Catches {
			parts = append(parts, c.Body)
		}
		pre := in.Copy()
		pre.markPotentiallyAssigned(a.assignedIn(parts...))
		end := a.block(st.Finally, pre)
		fc = &finallyContext{parent: a.ctx, block: st.Finally, completes: end.Reachable(), end: end}
		a.ctx = fc
	}

	ec := &exceptionContext{parent: a.ctx}
	for _, c := range st.Catches {
		ec.catches = append(ec.catches, a.catchClause(c))
	}
	a.ctx = ec
	body := in.Copy()
	for _, r := range st.Resources {
		switch r := r.(type) {
		case *ast.LocalVarDecl:
			body = a.localVars(r, body)
			for _, v := range r.Vars {
				if sym, ok := a.info.Defs[v.Name]; ok && sym.Kind == lookup.SymLocal {
					if l := a.env.Local(lookup.LocalID(sym.ID)); l != nil {
						a.closes(v, l.Type)
					}
				}
			}
		case ast.Expr:
			body = a.expr(r, body)
			a.closes(r, a.info.TypeOf(r))
		}
	}
	body = a.block(st.Body, body)
	a.ctx = ec.parent

	out := body
	for i, c := range st.Catches {
		cc := ec.catches[i]
		a.checkCatch(cc)
		entry := in.Copy().addPotential(body)
		if c.Param != nil {
			if s, ok := a.declareLocal(c.Param.Name); ok {
				entry.MarkAsDefinitelyAssigned(s)
			}
			if sym, ok := a.info.Defs[c.Param.Name]; ok && sym.Kind == lookup.SymLocal {
				a.rethrow[lookup.LocalID(sym.ID)] = cc.caught
			}
		}
		out = out.MergedWith(a.block(c.Body, entry))
	}

	if fc == nil {
		return out
	}
	a.ctx = fc.parent
	if !fc.completes {
		return DeadEnd
	}
	return out.Copy().addAssignments(fc.end)
}

// jumpTarget is a context a jump can end at.
type jumpTarget int

const (
	breakTarget jumpTarget = iota
	continueTarget
	yieldTarget
	returnTarget
)

// jump walks the contexts outward from a break, continue, yield or return
// and records info at the target. It returns the finally blocks passed
// through, innermost first, and whether a target was found. A finally
// block that cannot complete normally absorbs the jump.
func (a *analyzer) jump(kind jumpTarget, label string, in *Info) ([]*ast.Block, bool) {
	var subs []*ast.Block
	for c := a.ctx; c != nil; c = c.outer() {
		switch c := c.(type) {
		case *finallyContext:
			if !c.completes {
				return subs, true
			}
			subs = append(subs, c.block)
			in = in.Copy().addAssignments(c.end)
		case *methodContext:
			if kind == returnTarget {
				c.recordReturn(in)
				return subs, true
			}
			return nil, false
		case *loopContext:
			switch {
			case kind == breakTarget && label == "":
				c.recordBreakFrom(in)
				return subs, true
			case kind == continueTarget && (label == "" || c.hasLabel(label)):
				c.recordContinueFrom(in)
				return subs, true
			}
		case *switchContext:
			switch {
			case c.expression && kind == yieldTarget:
				c.recordYieldFrom(in)
				return subs, true
			case c.expression && kind != returnTarget:
				return nil, false
			case !c.expression && kind == breakTarget && label == "":
				c.recordBreakFrom(in)
				return subs, true
			}
		case *labelContext:
			if kind == breakTarget && label == c.label {
				c.recordBreakFrom(in)
				return subs, true
			}
		}
	}
	return nil, false
}

func labelName(id *ast.Ident) string {
	if id == nil {
		return ""
	}
	return id.Name
}

func (a *analyzer) breakStmt(st *ast.BreakStmt, in *Info) *Info {
	label := labelName(st.Label)
	subs, ok := a.jump(breakTarget, label, in)
	st.Subroutines = subs
	switch {
	case ok:
		return DeadEnd
	case label != "":
		a.report(problem.UndefinedLabel, st.Label, label)
	default:
		a.report(problem.InvalidBreak, st)
	}
	return in
}

func (a *analyzer) continueStmt(st *ast.ContinueStmt, in *Info) *Info {
	label := labelName(st.Label)
	subs, ok := a.jump(continueTarget, label, in)
	st.Subroutines = subs
	switch {
	case ok:
		return DeadEnd
	case label != "" && !a.labelInScope(label):
		a.report(problem.UndefinedLabel, st.Label, label)
	default:
		a.report(problem.InvalidContinue, st)
	}
	return in
}

// labelInScope reports whether a label encloses the current statement
// within the current body.
func (a *analyzer) labelInScope(label string) bool {
	for c := a.ctx; c != nil; c = c.outer() {
		switch c := c.(type) {
		case *methodContext:
			return false
		case *labelContext:
			if c.label == label {
				return true
			}
		}
	}
	return false
}

func (a *analyzer) yieldStmt(st *ast.YieldStmt, in *Info) *Info {
	in = a.expr(st.Value, in)
	subs, ok := a.jump(yieldTarget, "", in)
	st.Subroutines = subs
	if !ok {
		a.report(problem.InvalidYield, st)
		return in
	}
	return DeadEnd
}

func (a *analyzer) returnStmt(st *ast.ReturnStmt, in *Info) *Info {
	if st.Result != nil {
		in = a.expr(st.Result, in)
	}
	a.jump(returnTarget, "", in)
	return DeadEnd
}

// assignedIn returns the tracked variables assigned anywhere in nodes,
// outside nested lambdas and classes.
func (a *analyzer) assignedIn(nodes ...ast.Node) []uint {
	var out []uint
	for _, n := range nodes {
		if n == nil {
			continue
		}
		ast.Inspect(n, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.Lambda, *ast.TypeDecl:
				return false
			case *ast.Assign:
				if s, ok := a.targetSlot(n.Target); ok {
					out = append(out, s)
				}
			case *ast.Unary:
				if n.Op == ast.OpInc || n.Op == ast.OpDec {
					if s, ok := a.targetSlot(n.X); ok {
						out = append(out, s)
					}
				}
			}
			return true
		})
	}
	return out
}
