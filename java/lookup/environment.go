package lookup

import (
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jfront/classfile"
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/constant"
	"github.com/dhamidi/jfront/java/parser"
	"github.com/dhamidi/jfront/java/problem"
)

var log = commonlog.GetLogger("jfront.lookup")

// NameEnvironment answers type and package queries for everything that is
// not being compiled: the class path and the source path.
type NameEnvironment interface {
	// FindType looks up a top-level type or, with a $-joined last
	// segment, a member type in binary form.
	FindType(compoundName []string) Answer
	IsPackage(parent []string, name string) bool
}

// Answer is the result of a name environment query. At most one field is
// set; an empty Answer means not found.
type Answer struct {
	Binary *classfile.ClassFile
	Source *SourceUnit
}

func (a Answer) Found() bool { return a.Binary != nil || a.Source != nil }

// SourceUnit is a compilation unit given as source text.
type SourceUnit struct {
	FileName string
	Contents []byte
}

type Option func(*Environment)

// WithSourceLevel sets the language level used to parse source answers.
func WithSourceLevel(level parser.SourceLevel) Option {
	return func(e *Environment) { e.level = level }
}

// Environment owns every binding created while compiling a batch of units.
// It is not safe for concurrent use; parallel compilation gives each worker
// its own Environment.
type Environment struct {
	names    NameEnvironment
	reporter problem.Reporter
	level    parser.SourceLevel

	types    []*TypeBinding
	methods  []*MethodBinding
	fields   []*FieldBinding
	locals   []*LocalBinding
	packages []*PackageBinding

	packageIndex map[string]PackageID
	byBinary     map[string]TypeID
	byName       map[string]TypeID
	answers      map[string]Answer
	memo         map[typeKey]TypeID
	redirect     map[TypeID]TypeID
	memberMemo   map[memberKey]int32
	wellKnown    map[string]TypeID
	base         map[constant.TypeID]TypeID
	units        map[*ast.CompilationUnit]*unitState
	unresolved   map[string]TypeID
	declTypes    map[*ast.TypeDecl]TypeID
	declMethods  map[*ast.MethodDecl]MethodID
	declFields   map[*ast.VarDeclarator]FieldID
	localNames   map[TypeID]int
	typeScopes   map[TypeID]Scope
	inferMemo    map[string]MethodID

	boundChecks []boundCheck
}

// NewEnvironment creates an environment. Problems found in the units being
// compiled go to reporter; problems in source answers are dropped since
// those units are compiled on their own.
func NewEnvironment(names NameEnvironment, reporter problem.Reporter, opts ...Option) *Environment {
	if reporter == nil {
		reporter = problem.Discard
	}
	e := &Environment{
		names:        names,
		reporter:     reporter,
		level:        parser.LatestSourceLevel,
		types:        []*TypeBinding{nil},
		methods:      []*MethodBinding{nil},
		fields:       []*FieldBinding{nil},
		locals:       []*LocalBinding{nil},
		packages:     []*PackageBinding{nil},
		packageIndex: make(map[string]PackageID),
		byBinary:     make(map[string]TypeID),
		byName:       make(map[string]TypeID),
		answers:      make(map[string]Answer),
		memo:         make(map[typeKey]TypeID),
		redirect:     make(map[TypeID]TypeID),
		memberMemo:   make(map[memberKey]int32),
		wellKnown:    make(map[string]TypeID),
		base:         make(map[constant.TypeID]TypeID),
		units:        make(map[*ast.CompilationUnit]*unitState),
		unresolved:   make(map[string]TypeID),
		declTypes:    make(map[*ast.TypeDecl]TypeID),
		declMethods:  make(map[*ast.MethodDecl]MethodID),
		declFields:   make(map[*ast.VarDeclarator]FieldID),
		localNames:   make(map[TypeID]int),
		typeScopes:   make(map[TypeID]Scope),
		inferMemo:    make(map[string]MethodID),
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, k := range []constant.TypeID{
		constant.TBoolean, constant.TByte, constant.TChar, constant.TShort, constant.TInt,
		constant.TLong, constant.TFloat, constant.TDouble, constant.TVoid,
	} {
		e.base[k] = e.newType(&TypeBinding{Kind: KindBase, Prim: k, Name: k.String()})
	}
	e.base[constant.TNull] = e.newType(&TypeBinding{Kind: KindNull, Name: "null"})
	return e
}

func (e *Environment) newType(t *TypeBinding) TypeID {
	t.ID = TypeID(len(e.types))
	e.types = append(e.types, t)
	return t.ID
}

func (e *Environment) newMethod(m *MethodBinding) MethodID {
	m.ID = MethodID(len(e.methods))
	if m.Original == 0 {
		m.Original = m.ID
	}
	e.methods = append(e.methods, m)
	return m.ID
}

func (e *Environment) newField(f *FieldBinding) FieldID {
	f.ID = FieldID(len(e.fields))
	if f.Original == 0 {
		f.Original = f.ID
	}
	e.fields = append(e.fields, f)
	return f.ID
}

func (e *Environment) newLocal(l *LocalBinding) LocalID {
	l.ID = LocalID(len(e.locals))
	e.locals = append(e.locals, l)
	return l.ID
}

// Resolve follows the indirection table: an unresolved placeholder is
// resolved on first use and its ID then stands for the real binding.
func (e *Environment) Resolve(id TypeID) TypeID {
	for i := 0; i < 8; i++ {
		if to, ok := e.redirect[id]; ok {
			id = to
			continue
		}
		if id > 0 && int(id) < len(e.types) && e.types[id].Kind == KindUnresolved && !e.types[id].resolved {
			e.resolveUnresolved(id)
			continue
		}
		return id
	}
	return id
}

// Type returns the binding for id after following the indirection table,
// or nil for NoType.
func (e *Environment) Type(id TypeID) *TypeBinding {
	id = e.Resolve(id)
	if id <= 0 || int(id) >= len(e.types) {
		return nil
	}
	return e.types[id]
}

func (e *Environment) Method(id MethodID) *MethodBinding {
	if id <= 0 || int(id) >= len(e.methods) {
		return nil
	}
	return e.methods[id]
}

func (e *Environment) Field(id FieldID) *FieldBinding {
	if id <= 0 || int(id) >= len(e.fields) {
		return nil
	}
	return e.fields[id]
}

func (e *Environment) Local(id LocalID) *LocalBinding {
	if id <= 0 || int(id) >= len(e.locals) {
		return nil
	}
	return e.locals[id]
}

func (e *Environment) Package(id PackageID) *PackageBinding {
	if id <= 0 || int(id) >= len(e.packages) {
		return nil
	}
	return e.packages[id]
}

// Base returns the binding of a primitive type, void or the null type.
func (e *Environment) Base(kind constant.TypeID) TypeID {
	return e.base[kind]
}

// Kind is a shortcut for the kind of a type, KindInvalid for NoType.
func (e *Environment) Kind(id TypeID) TypeKind {
	if t := e.Type(id); t != nil {
		return t.Kind
	}
	return KindInvalid
}

func (e *Environment) packageID(name string) PackageID {
	if id, ok := e.packageIndex[name]; ok {
		return id
	}
	id := PackageID(len(e.packages))
	e.packages = append(e.packages, &PackageBinding{ID: id, Name: name})
	e.packageIndex[name] = id
	return id
}

// IsPackage reports whether the dotted name denotes a known package.
func (e *Environment) IsPackage(name string) bool {
	if name == "" {
		return true
	}
	if _, ok := e.packageIndex[name]; ok {
		return true
	}
	parts := strings.Split(name, ".")
	if e.names != nil && e.names.IsPackage(parts[:len(parts)-1], parts[len(parts)-1]) {
		e.packageID(name)
		return true
	}
	return false
}

func (e *Environment) find(compound []string) Answer {
	key := strings.Join(compound, "/")
	if a, ok := e.answers[key]; ok {
		return a
	}
	var a Answer
	if e.names != nil {
		a = e.names.FindType(compound)
	}
	if !a.Found() {
		log.Debugf("type not found: %s", key)
	}
	e.answers[key] = a
	return a
}

// typeByBinaryName returns the type with the internal name, loading it from
// the name environment. ok is false when no such type exists.
func (e *Environment) typeByBinaryName(internal string) (TypeID, bool) {
	if id, ok := e.byBinary[internal]; ok {
		id = e.Resolve(id)
		return id, e.types[id].Kind != KindMissing
	}
	compound := strings.Split(internal, "/")
	a := e.find(compound)
	switch {
	case a.Binary != nil:
		return e.acceptBinary(a.Binary), true
	case a.Source != nil:
		e.acceptSource(a.Source)
		id, ok := e.byBinary[internal]
		return id, ok
	}
	// A member type that is not in its own class file: load the top-level
	// type and find it among the members.
	last := compound[len(compound)-1]
	if i := strings.LastIndexByte(last, '$'); i > 0 {
		outer := strings.Join(append(append([]string{}, compound[:len(compound)-1]...), last[:i]), "/")
		if o, ok := e.typeByBinaryName(outer); ok {
			if m := e.MemberType(o, last[i+1:]); m != NoType {
				return m, true
			}
		}
	}
	return NoType, false
}

// TypeByName finds a type by its dotted source name, such as
// java.util.Map.Entry. Member types are found through their enclosing
// types.
func (e *Environment) TypeByName(qualified string) (TypeID, bool) {
	if id, ok := e.byName[qualified]; ok {
		return e.Resolve(id), true
	}
	parts := strings.Split(qualified, ".")
	for k := len(parts) - 1; k >= 0; k-- {
		top := strings.Join(parts[:k+1], "/")
		id, ok := e.typeByBinaryName(top)
		if !ok {
			continue
		}
		for _, member := range parts[k+1:] {
			id = e.MemberType(id, member)
			if id == NoType {
				return NoType, false
			}
		}
		e.byName[qualified] = id
		return id, true
	}
	return NoType, false
}

// WellKnown returns a type from the platform library by dotted name. When
// the library does not provide it a missing type is returned, so callers
// always get a usable binding.
func (e *Environment) WellKnown(qualified string) TypeID {
	if id, ok := e.wellKnown[qualified]; ok {
		return id
	}
	id, ok := e.TypeByName(qualified)
	if !ok {
		id = e.missing(strings.Split(qualified, "."))
	}
	e.wellKnown[qualified] = id
	return id
}

func (e *Environment) Object() TypeID     { return e.WellKnown("java.lang.Object") }
func (e *Environment) StringType() TypeID { return e.WellKnown("java.lang.String") }

// missing creates or returns the placeholder for a type that cannot be
// found. It behaves as a class without members.
func (e *Environment) missing(compound []string) TypeID {
	internal := strings.Join(compound, "/")
	if id, ok := e.byBinary[internal]; ok {
		return id
	}
	name := compound[len(compound)-1]
	id := e.newType(&TypeBinding{
		Kind:       KindMissing,
		Name:       name,
		Package:    strings.Join(compound[:len(compound)-1], "."),
		Qualified:  strings.Join(compound, "."),
		BinaryName: internal,
		Modifiers:  ModPublic,
		state:      completedHeader | completedSupertypes | completedMembers,
	})
	e.byBinary[internal] = id
	return id
}

// acceptSource parses a source answer and builds its bindings. Problems in
// the unit are not reported here.
func (e *Environment) acceptSource(su *SourceUnit) {
	p := parser.ParseCompilationUnit(strings.NewReader(string(su.Contents)),
		parser.WithFile(su.FileName), parser.WithSourceLevel(e.level), parser.WithReporter(problem.Discard))
	unit := p.Finish()
	log.Debugf("loading source answer %s", su.FileName)
	e.buildUnit(unit, problem.Discard)
	e.completeUnit(unit)
}

type typeKey struct {
	kind     TypeKind
	a, b, c  TypeID
	args     string
	degraded bool
}

type memberKey struct {
	field    bool
	receiver TypeID
	member   int32
}

func idList(ids []TypeID) string {
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(id)))
	}
	return sb.String()
}
