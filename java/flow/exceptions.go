package flow

import (
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/lookup"
	"github.com/dhamidi/jfront/java/problem"
)

// isChecked reports whether t is a checked exception type: a throwable
// that is neither a RuntimeException nor an Error.
func (a *analyzer) isChecked(t lookup.TypeID) bool {
	switch a.env.Kind(t) {
	case lookup.KindInvalid, lookup.KindMissing, lookup.KindUnresolved:
		return false
	}
	e := a.env
	return !e.IsSubtype(t, e.WellKnown("java.lang.RuntimeException")) &&
		!e.IsSubtype(t, e.WellKnown("java.lang.Error"))
}

// covered reports whether t is a subtype of one of the declared types.
func (a *analyzer) covered(t lookup.TypeID, declared []lookup.TypeID) bool {
	for _, d := range declared {
		if a.env.IsSubtype(t, d) {
			return true
		}
	}
	return false
}

func (a *analyzer) thrownBy(n ast.Node, m lookup.MethodID) {
	mb := a.env.Method(m)
	if mb == nil {
		return
	}
	for _, t := range mb.Throws {
		a.thrown(n, t)
	}
}

// thrown walks the contexts outward from a point that throws t. Catch
// clauses that can catch it are marked used; a checked exception reaching
// the body without being caught or declared is reported.
func (a *analyzer) thrown(n ast.Node, t lookup.TypeID) {
	if t == lookup.NoType {
		return
	}
	for c := a.ctx; c != nil; c = c.outer() {
		switch c := c.(type) {
		case *exceptionContext:
			if c.handle(a.env, t) {
				return
			}
		case *finallyContext:
			if !c.completes {
				return
			}
		case *methodContext:
			if c.anyExc || !a.isChecked(t) || a.covered(t, c.throws) {
				return
			}
			a.report(problem.UnhandledException, n, a.env.TypeName(t))
			return
		}
	}
}

// handle offers t to the catch clauses in order and reports whether one
// catches every exception of type t.
func (c *exceptionContext) handle(e *lookup.Environment, t lookup.TypeID) bool {
	for _, cc := range c.catches {
		for i, ct := range cc.types {
			switch {
			case e.IsSubtype(t, ct):
				cc.used[i] = true
				cc.caught = appendType(cc.caught, t)
				return true
			case e.IsSubtype(ct, t):
				cc.used[i] = true
				cc.caught = appendType(cc.caught, ct)
			}
		}
	}
	return false
}

func appendType(list []lookup.TypeID, t lookup.TypeID) []lookup.TypeID {
	for _, x := range list {
		if x == t {
			return list
		}
	}
	return append(list, t)
}

// thrownTypes returns the exceptions a throw statement throws. Rethrowing
// an effectively final catch parameter throws only what its clause caught.
func (a *analyzer) thrownTypes(x ast.Expr) []lookup.TypeID {
	if name, ok := ast.Unparen(x).(*ast.Name); ok {
		if sym, ok := a.info.Uses[name.Ident]; ok && sym.Kind == lookup.SymLocal {
			id := lookup.LocalID(sym.ID)
			if caught, ok := a.rethrow[id]; ok {
				if l := a.env.Local(id); l != nil && (l.Effective || l.Final) {
					return caught
				}
			}
		}
	}
	if t := a.info.TypeOf(x); t != lookup.NoType {
		return []lookup.TypeID{t}
	}
	return nil
}

func (a *analyzer) catchClause(c *ast.CatchClause) *catchClause {
	cc := &catchClause{node: c}
	if c.Param == nil {
		return cc
	}
	nodes := []ast.TypeNode{c.Param.Type}
	if u, ok := c.Param.Type.(*ast.UnionType); ok {
		nodes = u.Alternatives
	}
	for _, n := range nodes {
		t := a.info.TypeRefs[n]
		if t == lookup.NoType {
			continue
		}
		cc.nodes = append(cc.nodes, n)
		cc.types = append(cc.types, t)
	}
	cc.used = make([]bool, len(cc.types))
	return cc
}

// checkCatch reports catch clause alternatives naming a checked exception
// the try block cannot throw. Exception and its supertypes are exempt.
func (a *analyzer) checkCatch(cc *catchClause) {
	exception := a.env.WellKnown("java.lang.Exception")
	for i, t := range cc.types {
		if cc.used[i] || !a.isChecked(t) || a.env.IsSubtype(exception, t) {
			continue
		}
		a.report(problem.UnreachableCatch, cc.nodes[i], a.env.TypeName(t))
	}
}

// closes records the exceptions thrown by the close method of a resource
// of type t.
func (a *analyzer) closes(n ast.Node, t lookup.TypeID) {
	if t == lookup.NoType {
		return
	}
	for _, m := range a.env.Methods(t, "close") {
		if mb := a.env.Method(m); mb != nil && len(mb.Params) == 0 {
			a.thrownBy(n, m)
			return
		}
	}
}
