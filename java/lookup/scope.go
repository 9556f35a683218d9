package lookup

import (
	"strings"

	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/problem"
)

// Scope is a lexical scope. Lookups start at the innermost scope and walk
// the Parent chain outward.
type Scope interface {
	Parent() Scope
}

// CompilationUnitScope holds the package and the imports of a unit.
type CompilationUnitScope struct {
	env  *Environment
	unit *unitState

	single         map[string]TypeID
	onDemand       []string
	onDemandTypes  []TypeID
	staticSingle   map[string][]TypeID
	staticOnDemand []TypeID
	imported       bool
}

func (s *CompilationUnitScope) Parent() Scope { return nil }

// ClassScope makes the members of a type visible.
type ClassScope struct {
	parent Scope
	Type   TypeID
}

func (s *ClassScope) Parent() Scope { return s.parent }

// MethodScope is the scope of a method, constructor, initializer, field
// initializer or lambda body. Locals declared directly in it are its
// parameters. Return is the type return statements must produce; NoType
// for initializers and for lambdas whose target is unknown.
type MethodScope struct {
	parent   Scope
	Method   MethodID
	Static   bool
	Lambda   bool
	TypeVars []TypeID
	Return   TypeID
	locals   map[string]LocalID
	body     *bodyState
}

func (s *MethodScope) Parent() Scope { return s.parent }

// BlockScope holds the locals and local classes of a block or statement.
type BlockScope struct {
	parent Scope
	locals map[string]LocalID
	types  map[string]TypeID
}

func (s *BlockScope) Parent() Scope { return s.parent }

// bodyState numbers the locals of one body; lambdas share the numbering of
// the body they appear in.
type bodyState struct {
	owner MethodID
	next  int
}

func newClassScope(parent Scope, t TypeID) *ClassScope {
	return &ClassScope{parent: parent, Type: t}
}

func newMethodScope(parent Scope, m MethodID, static bool) *MethodScope {
	return &MethodScope{parent: parent, Method: m, Static: static, locals: make(map[string]LocalID), body: &bodyState{owner: m}}
}

func newLambdaScope(parent Scope) *MethodScope {
	ms := &MethodScope{parent: parent, Lambda: true, locals: make(map[string]LocalID)}
	if outer := enclosingMethod(parent); outer != nil {
		ms.Static = outer.Static
		ms.body = outer.body
		ms.Method = outer.Method
	} else {
		ms.body = &bodyState{}
	}
	return ms
}

func newBlockScope(parent Scope) *BlockScope {
	return &BlockScope{parent: parent}
}

func enclosingMethod(s Scope) *MethodScope {
	for ; s != nil; s = s.Parent() {
		if ms, ok := s.(*MethodScope); ok {
			return ms
		}
	}
	return nil
}

func enclosingClass(s Scope) *ClassScope {
	for ; s != nil; s = s.Parent() {
		if cs, ok := s.(*ClassScope); ok {
			return cs
		}
	}
	return nil
}

func unitScope(s Scope) *CompilationUnitScope {
	for ; s != nil; s = s.Parent() {
		if us, ok := s.(*CompilationUnitScope); ok {
			return us
		}
	}
	return nil
}

// isStaticContext reports whether code in s has no this instance of the
// innermost enclosing class.
func isStaticContext(s Scope) bool {
	for ; s != nil; s = s.Parent() {
		switch s := s.(type) {
		case *MethodScope:
			if s.Static {
				return true
			}
			if !s.Lambda {
				return false
			}
		case *ClassScope:
			return false
		}
	}
	return true
}

// declareLocal adds a local to the innermost block or method scope. A name
// that is already a local of the same body is a DuplicateLocal problem.
func (r *resolver) declareLocal(s Scope, id *ast.Ident, typ TypeID, final, param bool) LocalID {
	ms := enclosingMethod(s)
	l := &LocalBinding{
		Name:      id.Name,
		Type:      typ,
		Final:     final,
		Param:     param,
		Decl:      id,
		Effective: true,
	}
	if ms != nil {
		l.Index = ms.body.next
		ms.body.next++
		l.Owner = ms.body.owner
	}
	lid := r.env.newLocal(l)
	if id.Name != "_" {
		if prev := r.lookupLocal(s, id.Name); prev != 0 {
			r.report(problem.DuplicateLocal, id, id.Name)
		}
	}
	switch s := s.(type) {
	case *BlockScope:
		if s.locals == nil {
			s.locals = make(map[string]LocalID)
		}
		s.locals[id.Name] = lid
	case *MethodScope:
		s.locals[id.Name] = lid
	}
	r.info.Defs[id] = LocalSymbol(lid)
	return lid
}

// lookupLocal finds a local by name up to the innermost class boundary,
// lambdas included.
func (r *resolver) lookupLocal(s Scope, name string) LocalID {
	for ; s != nil; s = s.Parent() {
		switch s := s.(type) {
		case *BlockScope:
			if id, ok := s.locals[name]; ok {
				return id
			}
		case *MethodScope:
			if id, ok := s.locals[name]; ok {
				return id
			}
			if !s.Lambda {
				return 0
			}
		case *ClassScope:
			return 0
		}
	}
	return 0
}

// lookupType resolves a simple type name from s outward.
func (e *Environment) lookupType(s Scope, name string) TypeID {
	for ; s != nil; s = s.Parent() {
		switch s := s.(type) {
		case *BlockScope:
			if id, ok := s.types[name]; ok {
				return id
			}
		case *MethodScope:
			for _, v := range s.TypeVars {
				if e.types[v].Name == name {
					return v
				}
			}
		case *ClassScope:
			t := e.Type(s.Type)
			for _, v := range t.TypeVars {
				if e.types[v].Name == name {
					return v
				}
			}
			if m := e.MemberType(s.Type, name); m != NoType {
				return m
			}
			if t.Name == name && (t.Local || t.Enclosing == NoType) {
				return t.ID
			}
		case *CompilationUnitScope:
			return s.lookupType(name)
		}
	}
	return NoType
}

func packagePath(pkg string) string {
	return strings.ReplaceAll(pkg, ".", "/")
}

func joinInternal(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return packagePath(pkg) + "/" + name
}

func (s *CompilationUnitScope) lookupType(name string) TypeID {
	e := s.env
	s.resolveImports()
	if id, ok := s.single[name]; ok {
		return id
	}
	if id, ok := e.typeByBinaryName(joinInternal(s.unit.pkg, name)); ok {
		return id
	}
	for _, t := range s.onDemandTypes {
		if m := e.MemberType(t, name); m != NoType {
			return m
		}
	}
	for _, pkg := range s.onDemand {
		if id, ok := e.typeByBinaryName(joinInternal(pkg, name)); ok {
			return id
		}
	}
	if id, ok := e.typeByBinaryName("java/lang/" + name); ok {
		return id
	}
	return NoType
}

// resolveImports binds the import declarations of the unit once. Imports
// that name nothing are reported as ImportNotFound.
func (s *CompilationUnitScope) resolveImports() {
	if s.imported {
		return
	}
	s.imported = true
	e := s.env
	s.single = make(map[string]TypeID)
	s.staticSingle = make(map[string][]TypeID)
	for _, imp := range s.unit.unit.Imports {
		if imp.Name == nil {
			continue
		}
		dotted := imp.Name.String()
		switch {
		case imp.Static && imp.OnDemand:
			if t, ok := e.TypeByName(dotted); ok {
				s.staticOnDemand = append(s.staticOnDemand, t)
				continue
			}
		case imp.Static:
			names := imp.Name.Names()
			owner := strings.Join(names[:len(names)-1], ".")
			if t, ok := e.TypeByName(owner); ok {
				member := names[len(names)-1]
				s.staticSingle[member] = append(s.staticSingle[member], t)
				if m := e.MemberType(t, member); m != NoType {
					s.single[member] = m
				}
				continue
			}
		case imp.OnDemand:
			if t, ok := e.TypeByName(dotted); ok {
				s.onDemandTypes = append(s.onDemandTypes, t)
				continue
			}
			if e.IsPackage(dotted) {
				s.onDemand = append(s.onDemand, dotted)
				continue
			}
		default:
			if t, ok := e.TypeByName(dotted); ok {
				s.single[imp.Name.Last()] = t
				continue
			}
		}
		s.unit.report(problem.ImportNotFound, imp.Name, dotted)
	}
}
