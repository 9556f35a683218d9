package ast

import "strings"

type CompilationUnit struct {
	Base
	File     string
	Package  *PackageDecl
	Imports  []*ImportDecl
	Types    []*TypeDecl
	Module   *ModuleDecl
	Comments []Comment
}

// PackageName returns the dotted package name or "" for the default package.
func (u *CompilationUnit) PackageName() string {
	if u == nil || u.Package == nil {
		return ""
	}
	return u.Package.Name.String()
}

type PackageDecl struct {
	Base
	Annotations []*Annotation
	Name        *QualifiedName
}

type ImportDecl struct {
	Base
	Static   bool
	Name     *QualifiedName
	OnDemand bool
}

// QualifiedName is a dotted name such as java.util.List.
type QualifiedName struct {
	Base
	Parts []*Ident
}

func (q *QualifiedName) String() string {
	if q == nil {
		return ""
	}
	names := make([]string, len(q.Parts))
	for i, p := range q.Parts {
		names[i] = p.Name
	}
	return strings.Join(names, ".")
}

// Names returns the segments of the name.
func (q *QualifiedName) Names() []string {
	if q == nil {
		return nil
	}
	names := make([]string, len(q.Parts))
	for i, p := range q.Parts {
		names[i] = p.Name
	}
	return names
}

// Last returns the final segment.
func (q *QualifiedName) Last() string {
	if q == nil || len(q.Parts) == 0 {
		return ""
	}
	return q.Parts[len(q.Parts)-1].Name
}

type ModuleDecl struct {
	Base
	Annotations []*Annotation
	Open        bool
	Name        *QualifiedName
	Directives  []*ModuleDirective
}

type ModuleDirective struct {
	Base
	Directive string // requires, exports, opens, uses, provides
	Modifiers []string
	Name      *QualifiedName
	Targets   []*QualifiedName
}

type TypeDeclKind int

const (
	ClassKind TypeDeclKind = iota
	InterfaceKind
	EnumKind
	RecordKind
	AnnotationKind
)

func (k TypeDeclKind) String() string {
	switch k {
	case ClassKind:
		return "class"
	case InterfaceKind:
		return "interface"
	case EnumKind:
		return "enum"
	case RecordKind:
		return "record"
	case AnnotationKind:
		return "@interface"
	}
	return "unknown"
}

// TypeDecl is a class, interface, enum, record or annotation type
// declaration. Anonymous class bodies are TypeDecls without a Name.
type TypeDecl struct {
	Base
	DeclKind      TypeDeclKind
	Modifiers     *Modifiers
	Name          *Ident
	TypeParams    []*TypeParam
	Extends       TypeNode
	Implements    []TypeNode
	Permits       []TypeNode
	Components    []*Param
	EnumConstants []*EnumConstant
	Members       []Decl
	Doc           *Comment
	Local         bool
	Anonymous     bool
	BodyStart     Position
}

func (d *TypeDecl) NameString() string {
	if d == nil || d.Name == nil {
		return ""
	}
	return d.Name.Name
}

func (d *TypeDecl) IsInterface() bool {
	return d.DeclKind == InterfaceKind || d.DeclKind == AnnotationKind
}

// Methods returns the method and constructor members.
func (d *TypeDecl) Methods() []*MethodDecl {
	var out []*MethodDecl
	for _, m := range d.Members {
		if md, ok := m.(*MethodDecl); ok {
			out = append(out, md)
		}
	}
	return out
}

// Fields returns the field members.
func (d *TypeDecl) Fields() []*FieldDecl {
	var out []*FieldDecl
	for _, m := range d.Members {
		if fd, ok := m.(*FieldDecl); ok {
			out = append(out, fd)
		}
	}
	return out
}

// MemberTypes returns the nested type declarations.
func (d *TypeDecl) MemberTypes() []*TypeDecl {
	var out []*TypeDecl
	for _, m := range d.Members {
		if td, ok := m.(*TypeDecl); ok {
			out = append(out, td)
		}
	}
	return out
}

type ModifierFlags uint32

const (
	ModPublic ModifierFlags = 1 << iota
	ModProtected
	ModPrivate
	ModStatic
	ModFinal
	ModAbstract
	ModNative
	ModSynchronized
	ModTransient
	ModVolatile
	ModStrictfp
	ModDefault
	ModSealed
	ModNonSealed
)

var modifierNames = []struct {
	flag ModifierFlags
	name string
}{
	{ModPublic, "public"},
	{ModProtected, "protected"},
	{ModPrivate, "private"},
	{ModAbstract, "abstract"},
	{ModStatic, "static"},
	{ModFinal, "final"},
	{ModSealed, "sealed"},
	{ModNonSealed, "non-sealed"},
	{ModTransient, "transient"},
	{ModVolatile, "volatile"},
	{ModSynchronized, "synchronized"},
	{ModNative, "native"},
	{ModStrictfp, "strictfp"},
	{ModDefault, "default"},
}

func (m ModifierFlags) String() string {
	var parts []string
	for _, mn := range modifierNames {
		if m&mn.flag != 0 {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, " ")
}

// ModifierByName maps a modifier keyword to its flag.
func ModifierByName(name string) (ModifierFlags, bool) {
	for _, mn := range modifierNames {
		if mn.name == name {
			return mn.flag, true
		}
	}
	return 0, false
}

type Modifiers struct {
	Base
	Mods        ModifierFlags
	Annotations []*Annotation
}

func (m *Modifiers) Has(f ModifierFlags) bool {
	return m != nil && m.Mods&f != 0
}

// HasAnnotation reports whether an annotation with the given simple or
// qualified name is present.
func (m *Modifiers) HasAnnotation(name string) bool {
	if m == nil {
		return false
	}
	for _, a := range m.Annotations {
		n := a.Name.String()
		if n == name || a.Name.Last() == name {
			return true
		}
	}
	return false
}

type FieldDecl struct {
	Base
	Modifiers *Modifiers
	Type      TypeNode
	Vars      []*VarDeclarator
	Doc       *Comment
}

// VarDeclarator is one name in a field or local variable declaration.
type VarDeclarator struct {
	Base
	Name *Ident
	Dims int
	Init Expr
}

type MethodDecl struct {
	Base
	Modifiers   *Modifiers
	TypeParams  []*TypeParam
	Result      TypeNode // nil for constructors
	Name        *Ident
	Receiver    *Param
	Params      []*Param
	Dims        int
	Throws      []TypeNode
	Body        *Block // nil when declared without a body
	Constructor bool
	Compact     bool
	Default     Expr // annotation element default
	Doc         *Comment
}

func (m *MethodDecl) NameString() string {
	if m == nil || m.Name == nil {
		return ""
	}
	return m.Name.Name
}

type Param struct {
	Base
	Modifiers *Modifiers
	Type      TypeNode // nil for implicitly typed lambda parameters
	Varargs   bool
	Name      *Ident
	Dims      int
}

type Initializer struct {
	Base
	Static bool
	Body   *Block
}

type EnumConstant struct {
	Base
	Annotations []*Annotation
	Name        *Ident
	Args        []Expr
	Body        *TypeDecl
	Doc         *Comment
}

type TypeParam struct {
	Base
	Annotations []*Annotation
	Name        *Ident
	Bounds      []TypeNode
}

// Annotation is both a modifier and an element value expression.
type Annotation struct {
	Base
	Name *QualifiedName
	Args []*ElementValue
}

// ElementValue is a name=value pair; Name is nil for the single-element form.
type ElementValue struct {
	Base
	Name  *Ident
	Value Expr
}

func (*CompilationUnit) declNode() {}
func (*PackageDecl) declNode()     {}
func (*ImportDecl) declNode()      {}
func (*ModuleDecl) declNode()      {}
func (*TypeDecl) declNode()        {}
func (*FieldDecl) declNode()       {}
func (*MethodDecl) declNode()      {}
func (*Initializer) declNode()     {}
func (*EnumConstant) declNode()    {}
