package lookup

import (
	"github.com/dhamidi/jfront/classfile"
	"github.com/dhamidi/jfront/java/ast"
	"github.com/dhamidi/jfront/java/constant"
)

// TypeID addresses a type binding in an Environment. The zero value means
// "no type" and is what expressions get after an error has been reported.
type TypeID int32

type MethodID int32
type FieldID int32
type LocalID int32
type PackageID int32

const NoType TypeID = 0

type TypeKind uint8

const (
	KindInvalid TypeKind = iota
	KindBase
	KindNull
	KindSource
	KindBinary
	KindParameterized
	KindRaw
	KindWildcard
	KindTypeVariable
	KindArray
	KindMissing
	KindUnresolved
	KindIntersection
	KindCaptured
)

var typeKindNames = [...]string{
	KindInvalid:       "invalid",
	KindBase:          "base",
	KindNull:          "null",
	KindSource:        "source",
	KindBinary:        "binary",
	KindParameterized: "parameterized",
	KindRaw:           "raw",
	KindWildcard:      "wildcard",
	KindTypeVariable:  "type variable",
	KindArray:         "array",
	KindMissing:       "missing",
	KindUnresolved:    "unresolved",
	KindIntersection:  "intersection",
	KindCaptured:      "captured",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "unknown"
}

// Modifiers are the access and property flags of types and members, from
// source modifiers or class file access flags.
type Modifiers uint32

const (
	ModPublic Modifiers = 1 << iota
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
	ModInterface
	ModEnum
	ModAnnotation
	ModRecord
	ModDeprecated
	ModVarargs
	ModSynthetic
	ModSealed
)

func (m Modifiers) Has(f Modifiers) bool { return m&f != 0 }

func (m Modifiers) IsStatic() bool { return m&ModStatic != 0 }

// WildcardKind tells how a wildcard is bounded.
type WildcardKind uint8

const (
	Unbounded WildcardKind = iota
	ExtendsBound
	SuperBound
)

type completion uint8

const (
	completedHeader completion = 1 << iota
	completedSupertypes
	completedMembers
	completingSupertypes
)

// TypeBinding is one entry of the type arena. The fields used depend on
// Kind.
type TypeBinding struct {
	ID   TypeID
	Kind TypeKind

	// Base
	Prim constant.TypeID

	// Source, Binary, Missing: declared types.
	Name        string // simple name; "" for anonymous classes
	Package     string // dotted package name
	Qualified   string // dotted source name, e.g. java.util.Map.Entry
	BinaryName  string // internal name, e.g. java/util/Map$Entry
	Modifiers   Modifiers
	DeclKind    ast.TypeDeclKind
	Enclosing   TypeID
	Superclass  TypeID
	Interfaces  []TypeID
	TypeVars    []TypeID
	Fields      []FieldID
	Methods     []MethodID
	MemberTypes []TypeID
	Local       bool
	Anonymous   bool
	Decl        *ast.TypeDecl
	Unit        *ast.CompilationUnit

	// Parameterized and Raw: Generic is the generic type; Outer the
	// parameterized enclosing type if any. Degraded marks a binding built
	// from a reference with the wrong number of type arguments.
	Generic  TypeID
	Args     []TypeID
	Outer    TypeID
	Degraded bool

	// Array
	Elem TypeID // component type, never an array
	Dims int

	// Wildcard
	Bound     TypeID
	BoundKind WildcardKind

	// TypeVariable, Captured, Intersection: Bounds holds the upper bounds,
	// the first one being a class type or a type variable when given.
	Bounds        []TypeID
	Rank          int
	DeclaringType TypeID
	DeclaringMeth MethodID
	Lower         TypeID // captured ? super bound

	// Unresolved
	CompoundName []string
	wrappers     []wrapper
	resolved     bool
	pending      bool // mentions an unresolved type

	class    *classfile.ClassFile
	classSig *classfile.ClassSignature
	state    completion
}

// IsDeclared reports whether the binding is a class, interface, enum,
// record or annotation type, possibly missing.
func (t *TypeBinding) IsDeclared() bool {
	return t.Kind == KindSource || t.Kind == KindBinary || t.Kind == KindMissing
}

func (t *TypeBinding) IsInterface() bool {
	return t.Modifiers.Has(ModInterface)
}

type MethodBinding struct {
	ID          MethodID
	Name        string
	Declaring   TypeID
	Modifiers   Modifiers
	TypeVars    []TypeID
	Params      []TypeID
	ParamNames  []string
	Return      TypeID
	Throws      []TypeID
	Constructor bool
	Decl        *ast.MethodDecl

	// Original is the generic declaration a substituted copy was made
	// from; a method's Original is itself otherwise.
	Original MethodID
}

func (m *MethodBinding) IsVarargs() bool  { return m.Modifiers.Has(ModVarargs) }
func (m *MethodBinding) IsStatic() bool   { return m.Modifiers.Has(ModStatic) }
func (m *MethodBinding) IsAbstract() bool { return m.Modifiers.Has(ModAbstract) }

type FieldBinding struct {
	ID        FieldID
	Name      string
	Declaring TypeID
	Modifiers Modifiers
	Type      TypeID
	Decl      *ast.VarDeclarator
	Original  FieldID

	constant   constant.Constant
	constState uint8 // 0 unknown, 1 evaluating, 2 done
}

func (f *FieldBinding) IsStatic() bool { return f.Modifiers.Has(ModStatic) }
func (f *FieldBinding) IsFinal() bool  { return f.Modifiers.Has(ModFinal) }

// LocalBinding is a local variable, parameter, resource, catch parameter or
// pattern variable. Index numbers the locals of one body (a method,
// constructor, initializer or field initializer together with the lambdas
// inside it) densely from zero.
type LocalBinding struct {
	ID        LocalID
	Name      string
	Type      TypeID
	Final     bool
	Param     bool
	Index     int
	Decl      *ast.Ident
	Owner     MethodID
	Pattern   bool
	Constant  constant.Constant
	Effective bool // effectively final so far
}

type PackageBinding struct {
	ID   PackageID
	Name string
}

// SymbolKind tells what a Symbol refers to.
type SymbolKind uint8

const (
	SymNone SymbolKind = iota
	SymType
	SymMethod
	SymField
	SymLocal
	SymPackage
)

// Symbol is a reference into one of the environment arenas.
type Symbol struct {
	Kind SymbolKind
	ID   int32
}

func TypeSymbol(id TypeID) Symbol       { return Symbol{SymType, int32(id)} }
func MethodSymbol(id MethodID) Symbol   { return Symbol{SymMethod, int32(id)} }
func FieldSymbol(id FieldID) Symbol     { return Symbol{SymField, int32(id)} }
func LocalSymbol(id LocalID) Symbol     { return Symbol{SymLocal, int32(id)} }
func PackageSymbol(id PackageID) Symbol { return Symbol{SymPackage, int32(id)} }
