package flow

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/constant"
	"github.com/dhamidi/jfront/java/lookup"
	"github.com/dhamidi/jfront/java/problem"
)

var log = commonlog.GetLogger("jfront.flow")

type analyzer struct {
	env      *lookup.Environment
	info     *lookup.Info
	file     string
	reporter problem.Reporter

	slots map[lookup.Symbol]uint
	next  uint

	ctx    flowContext
	member ast.Node
	kind   memberKind
	labels []string

	// typ is the class whose members are being analyzed and finals its
	// blank final fields.
	typ    lookup.TypeID
	finals map[lookup.FieldID]bool

	// rethrow maps effectively final catch parameters to the exceptions
	// their clause can catch.
	rethrow map[lookup.LocalID][]lookup.TypeID

	errors int
}

// Analyze checks every body declared in unit. Problems go to reporter and
// the members they occur in are marked in info.Erroneous. Break, continue
// and yield statements get the finally blocks they run through.
// It returns the number of errors reported.
func Analyze(unit *ast.CompilationUnit, info *lookup.Info, env *lookup.Environment, reporter problem.Reporter) int {
	if reporter == nil {
		reporter = problem.Discard
	}
	a := &analyzer{
		env:      env,
		info:     info,
		file:     unit.File,
		reporter: reporter,
		slots:    make(map[lookup.Symbol]uint),
		rethrow:  make(map[lookup.LocalID][]lookup.TypeID),
	}
	for _, td := range unit.Types {
		a.typeDecl(td)
	}
	log.Debugf("analyzed %s: %d flow errors", unit.File, a.errors)
	return a.errors
}

func location(file string, n ast.Node) problem.Location {
	sp := n.Span()
	return problem.Location{
		File:   file,
		Start:  sp.Start.Offset,
		End:    sp.End.Offset,
		Line:   sp.Start.Line,
		Column: sp.Start.Column,
	}
}

func (a *analyzer) report(id problem.ID, n ast.Node, args ...any) {
	p := problem.New(id, location(a.file, n), args...)
	if p.IsError() {
		a.errors++
		if a.member != nil {
			a.info.Erroneous[a.member] = true
		}
	}
	a.reporter.Report(p)
}

// slot returns the bit position of a tracked variable.
func (a *analyzer) slot(sym lookup.Symbol) (uint, bool) {
	s, ok := a.slots[sym]
	return s, ok
}

func (a *analyzer) declare(sym lookup.Symbol) uint {
	if s, ok := a.slots[sym]; ok {
		return s
	}
	s := a.next
	a.next++
	a.slots[sym] = s
	return s
}

// declareLocal starts tracking the local declared by id.
func (a *analyzer) declareLocal(id *ast.Ident) (uint, bool) {
	if id == nil {
		return 0, false
	}
	sym, ok := a.info.Defs[id]
	if !ok || sym.Kind != lookup.SymLocal {
		return 0, false
	}
	return a.declare(sym), true
}

func (a *analyzer) typeOfDecl(td *ast.TypeDecl) lookup.TypeID {
	if id := a.env.TypeOfDecl(td); id != lookup.NoType {
		return id
	}
	return a.info.LocalTypes[td]
}

// typeDecl analyzes the members of a type. Nested and local types are
// analyzed with their own member state; locals of an enclosing body are
// captured effectively final and need no tracking inside them.
func (a *analyzer) typeDecl(td *ast.TypeDecl) {
	if td == nil || a.info.Aborted[td] {
		return
	}
	id := a.typeOfDecl(td)
	if id == lookup.NoType {
		log.Debugf("no binding for type %s", td.NameString())
		return
	}
	saved := *a
	defer func() {
		errors := a.errors
		*a = saved
		a.errors = errors
	}()
	a.typ = id
	a.ctx = nil
	a.slots, a.next = make(map[lookup.Symbol]uint), 0
	a.finals = make(map[lookup.FieldID]bool)

	var statics, instances []*ast.VarDeclarator
	for _, fd := range td.Fields() {
		for _, v := range fd.Vars {
			fid := a.env.FieldOfDecl(v)
			f := a.env.Field(fid)
			if f == nil || !f.IsFinal() || v.Init != nil || td.IsInterface() {
				continue
			}
			a.finals[fid] = true
			a.declare(lookup.FieldSymbol(fid))
			if f.IsStatic() {
				statics = append(statics, v)
			} else {
				instances = append(instances, v)
			}
		}
	}

	for _, c := range td.EnumConstants {
		a.enumConstant(c)
	}

	staticInfo := a.initializers(td, true)
	a.checkBlankFinals(staticInfo, statics, nil)

	instanceInfo := a.initializers(td, false)
	ctors := 0
	for _, md := range td.Methods() {
		if md.Constructor && md.Body != nil {
			ctors++
			end := a.method(md, instanceInfo.Copy())
			if !td.Anonymous && !a.info.Aborted[md] {
				a.checkBlankFinals(end, instances, md)
			}
			continue
		}
		a.method(md, NewInfo())
	}
	if ctors == 0 && td.DeclKind != ast.RecordKind {
		a.checkBlankFinals(instanceInfo, instances, nil)
	}

	for _, m := range td.Members {
		if nested, ok := m.(*ast.TypeDecl); ok {
			a.typeDecl(nested)
		}
	}
}

// initializers analyzes field initializers and initializer blocks in
// textual order and returns the state after them.
func (a *analyzer) initializers(td *ast.TypeDecl, static bool) *Info {
	kind := memberInstanceInit
	if static {
		kind = memberStaticInit
	}
	mc := a.memberContext(kind, lookup.NoType, nil)
	mc.anyExc = td.Anonymous && !static
	if !static && !td.Anonymous {
		mc.throws = a.constructorThrows(td)
	}
	info := NewInfo()
	for _, m := range td.Members {
		switch m := m.(type) {
		case *ast.FieldDecl:
			if m.Modifiers.Has(ast.ModStatic) != static && !td.IsInterface() {
				continue
			}
			for _, v := range m.Vars {
				if v.Init == nil {
					continue
				}
				info = a.guard(v, info, func(in *Info) *Info {
					a.enter(v, kind, mc)
					return a.expr(v.Init, in)
				})
			}
		case *ast.Initializer:
			if m.Static != static {
				continue
			}
			info = a.guard(m, info, func(in *Info) *Info {
				a.enter(m, kind, mc)
				return a.block(m.Body, in)
			})
		}
	}
	a.member, a.ctx = nil, nil
	return info
}

// guard analyzes one member starting from in. Members whose resolution
// was abandoned are skipped. An abort raised while analyzing a member
// skips the rest of it and marks it aborted; the analysis goes on from in.
func (a *analyzer) guard(member ast.Node, in *Info, fn func(in *Info) *Info) *Info {
	if a.info.Aborted[member] {
		return in
	}
	out, labels := in, a.labels
	ab := problem.Catch(problem.AbortMethod, func() { out = fn(in) })
	if ab == nil {
		return out
	}
	a.labels, a.member, a.ctx = labels, nil, nil
	log.Debugf("%s", ab)
	a.info.Erroneous[member] = true
	a.info.Aborted[member] = true
	return in
}

func (a *analyzer) enter(member ast.Node, kind memberKind, mc *methodContext) {
	a.member, a.kind, a.ctx = member, kind, mc
}

func (a *analyzer) memberContext(kind memberKind, result lookup.TypeID, throws []lookup.TypeID) *methodContext {
	return &methodContext{kind: kind, result: result, throws: throws, returns: DeadEnd}
}

// constructorThrows returns the exceptions an instance initializer may
// throw: those every explicit constructor declares. Without explicit
// constructors there are none.
func (a *analyzer) constructorThrows(td *ast.TypeDecl) []lookup.TypeID {
	var common []lookup.TypeID
	first := true
	for _, md := range td.Methods() {
		if !md.Constructor {
			continue
		}
		m := a.env.Method(a.env.MethodOfDecl(md))
		if m == nil {
			continue
		}
		if first {
			common, first = append(common, m.Throws...), false
			continue
		}
		var kept []lookup.TypeID
		for _, t := range common {
			if a.covered(t, m.Throws) {
				kept = append(kept, t)
			}
		}
		common = kept
	}
	return common
}

func (a *analyzer) enumConstant(c *ast.EnumConstant) {
	a.guard(c, NewInfo(), func(info *Info) *Info {
		mc := a.memberContext(memberStaticInit, lookup.NoType, nil)
		a.enter(c, memberStaticInit, mc)
		for _, arg := range c.Args {
			info = a.expr(arg, info)
		}
		if m, ok := a.info.Methods[c]; ok {
			a.thrownBy(c, m)
		}
		return info
	})
	a.member, a.ctx = nil, nil
	if c.Body != nil {
		a.typeDecl(c.Body)
	}
}

// method analyzes a method or constructor body starting from info and
// returns the state at its exits.
func (a *analyzer) method(md *ast.MethodDecl, info *Info) *Info {
	return a.guard(md, info, func(in *Info) *Info { return a.methodBody(md, in) })
}

func (a *analyzer) methodBody(md *ast.MethodDecl, info *Info) *Info {
	mb := a.env.Method(a.env.MethodOfDecl(md))
	if mb == nil || md.Body == nil {
		return info
	}
	kind := memberMethod
	if mb.Constructor {
		kind = memberConstructor
	}
	mc := a.memberContext(kind, mb.Return, mb.Throws)
	a.enter(md, kind, mc)
	defer func() { a.member, a.ctx = nil, nil }()

	params := md.Params
	if t := a.env.Type(a.typ); md.Compact && t.Decl != nil {
		params = t.Decl.Components
	}
	for _, p := range params {
		if s, ok := a.declareLocal(p.Name); ok {
			info.MarkAsDefinitelyAssigned(s)
		}
	}
	if mb.Constructor && !startsWithConstructorCall(md.Body) {
		if m, ok := a.info.Methods[md]; ok {
			a.thrownBy(md.Name, m)
		}
	}
	end := a.block(md.Body, info)
	if end.Reachable() && !mb.Constructor && !a.isVoid(mb.Return) {
		a.report(problem.MissingReturn, md.Name, a.env.TypeName(mb.Return))
	}
	return end.MergedWith(mc.returns)
}

func startsWithConstructorCall(b *ast.Block) bool {
	if len(b.Stmts) == 0 {
		return false
	}
	_, ok := b.Stmts[0].(*ast.ConstructorCall)
	return ok
}

func (a *analyzer) isVoid(t lookup.TypeID) bool {
	return t == lookup.NoType || a.env.Prim(t) == constant.TVoid
}

// checkBlankFinals reports the blank finals not definitely assigned at
// the end of a constructor or of the initializers. at is the constructor,
// nil to report at the field.
func (a *analyzer) checkBlankFinals(end *Info, fields []*ast.VarDeclarator, at *ast.MethodDecl) {
	for _, v := range fields {
		s, ok := a.slot(lookup.FieldSymbol(a.env.FieldOfDecl(v)))
		if !ok || end.IsDefinitelyAssigned(s) {
			continue
		}
		if at != nil {
			a.member = at
			a.report(problem.UninitializedBlankFinal, at.Name, v.Name.Name)
			a.member = nil
			continue
		}
		a.report(problem.UninitializedBlankFinal, v.Name, v.Name.Name)
	}
}
