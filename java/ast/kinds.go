package ast

type NodeKind int

const (
	KindInvalid NodeKind = iota

	// Declarations
	KindIdent
	KindCompilationUnit
	KindPackageDecl
	KindImportDecl
	KindQualifiedName
	KindModuleDecl
	KindModuleDirective
	KindTypeDecl
	KindModifiers
	KindFieldDecl
	KindVarDeclarator
	KindMethodDecl
	KindParam
	KindInitializer
	KindEnumConstant
	KindTypeParam
	KindAnnotation
	KindElementValue

	// Statements
	KindBlock
	KindEmptyStmt
	KindLocalVarDecl
	KindLocalClassDecl
	KindExprStmt
	KindIfStmt
	KindWhileStmt
	KindDoStmt
	KindForStmt
	KindForEachStmt
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindYieldStmt
	KindThrowStmt
	KindSwitchStmt
	KindSwitchCase
	KindTryStmt
	KindCatchClause
	KindLabeledStmt
	KindSyncStmt
	KindAssertStmt
	KindConstructorCall

	// Expressions
	KindLiteral
	KindName
	KindFieldAccess
	KindMethodCall
	KindNewObject
	KindNewArray
	KindArrayInit
	KindArrayAccess
	KindUnary
	KindBinary
	KindAssign
	KindConditional
	KindCast
	KindInstanceOf
	KindThis
	KindSuper
	KindClassLit
	KindLambda
	KindMethodRef
	KindSwitchExpr
	KindParen
	KindTypePattern
	KindRecordPattern
	KindTypeExpr
	KindBadExpr

	// Types
	KindPrimitiveType
	KindClassType
	KindArrayType
	KindWildcardType
	KindUnionType
	KindIntersectionType
	KindVarType
)

var nodeKindNames = map[NodeKind]string{
	KindIdent:            "Ident",
	KindCompilationUnit:  "CompilationUnit",
	KindPackageDecl:      "PackageDecl",
	KindImportDecl:       "ImportDecl",
	KindQualifiedName:    "QualifiedName",
	KindModuleDecl:       "ModuleDecl",
	KindModuleDirective:  "ModuleDirective",
	KindTypeDecl:         "TypeDecl",
	KindModifiers:        "Modifiers",
	KindFieldDecl:        "FieldDecl",
	KindVarDeclarator:    "VarDeclarator",
	KindMethodDecl:       "MethodDecl",
	KindParam:            "Param",
	KindInitializer:      "Initializer",
	KindEnumConstant:     "EnumConstant",
	KindTypeParam:        "TypeParam",
	KindAnnotation:       "Annotation",
	KindElementValue:     "ElementValue",
	KindBlock:            "Block",
	KindEmptyStmt:        "EmptyStmt",
	KindLocalVarDecl:     "LocalVarDecl",
	KindLocalClassDecl:   "LocalClassDecl",
	KindExprStmt:         "ExprStmt",
	KindIfStmt:           "IfStmt",
	KindWhileStmt:        "WhileStmt",
	KindDoStmt:           "DoStmt",
	KindForStmt:          "ForStmt",
	KindForEachStmt:      "ForEachStmt",
	KindReturnStmt:       "ReturnStmt",
	KindBreakStmt:        "BreakStmt",
	KindContinueStmt:     "ContinueStmt",
	KindYieldStmt:        "YieldStmt",
	KindThrowStmt:        "ThrowStmt",
	KindSwitchStmt:       "SwitchStmt",
	KindSwitchCase:       "SwitchCase",
	KindTryStmt:          "TryStmt",
	KindCatchClause:      "CatchClause",
	KindLabeledStmt:      "LabeledStmt",
	KindSyncStmt:         "SyncStmt",
	KindAssertStmt:       "AssertStmt",
	KindConstructorCall:  "ConstructorCall",
	KindLiteral:          "Literal",
	KindName:             "Name",
	KindFieldAccess:      "FieldAccess",
	KindMethodCall:       "MethodCall",
	KindNewObject:        "NewObject",
	KindNewArray:         "NewArray",
	KindArrayInit:        "ArrayInit",
	KindArrayAccess:      "ArrayAccess",
	KindUnary:            "Unary",
	KindBinary:           "Binary",
	KindAssign:           "Assign",
	KindConditional:      "Conditional",
	KindCast:             "Cast",
	KindInstanceOf:       "InstanceOf",
	KindThis:             "This",
	KindSuper:            "Super",
	KindClassLit:         "ClassLit",
	KindLambda:           "Lambda",
	KindMethodRef:        "MethodRef",
	KindSwitchExpr:       "SwitchExpr",
	KindParen:            "Paren",
	KindTypePattern:      "TypePattern",
	KindRecordPattern:    "RecordPattern",
	KindTypeExpr:         "TypeExpr",
	KindBadExpr:          "BadExpr",
	KindPrimitiveType:    "PrimitiveType",
	KindClassType:        "ClassType",
	KindArrayType:        "ArrayType",
	KindWildcardType:     "WildcardType",
	KindUnionType:        "UnionType",
	KindIntersectionType: "IntersectionType",
	KindVarType:          "VarType",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

func (*Ident) Kind() NodeKind            { return KindIdent }
func (*CompilationUnit) Kind() NodeKind  { return KindCompilationUnit }
func (*PackageDecl) Kind() NodeKind      { return KindPackageDecl }
func (*ImportDecl) Kind() NodeKind       { return KindImportDecl }
func (*QualifiedName) Kind() NodeKind    { return KindQualifiedName }
func (*ModuleDecl) Kind() NodeKind       { return KindModuleDecl }
func (*ModuleDirective) Kind() NodeKind  { return KindModuleDirective }
func (*TypeDecl) Kind() NodeKind         { return KindTypeDecl }
func (*Modifiers) Kind() NodeKind        { return KindModifiers }
func (*FieldDecl) Kind() NodeKind        { return KindFieldDecl }
func (*VarDeclarator) Kind() NodeKind    { return KindVarDeclarator }
func (*MethodDecl) Kind() NodeKind       { return KindMethodDecl }
func (*Param) Kind() NodeKind            { return KindParam }
func (*Initializer) Kind() NodeKind      { return KindInitializer }
func (*EnumConstant) Kind() NodeKind     { return KindEnumConstant }
func (*TypeParam) Kind() NodeKind        { return KindTypeParam }
func (*Annotation) Kind() NodeKind       { return KindAnnotation }
func (*ElementValue) Kind() NodeKind     { return KindElementValue }
func (*Block) Kind() NodeKind            { return KindBlock }
func (*EmptyStmt) Kind() NodeKind        { return KindEmptyStmt }
func (*LocalVarDecl) Kind() NodeKind     { return KindLocalVarDecl }
func (*LocalClassDecl) Kind() NodeKind   { return KindLocalClassDecl }
func (*ExprStmt) Kind() NodeKind         { return KindExprStmt }
func (*IfStmt) Kind() NodeKind           { return KindIfStmt }
func (*WhileStmt) Kind() NodeKind        { return KindWhileStmt }
func (*DoStmt) Kind() NodeKind           { return KindDoStmt }
func (*ForStmt) Kind() NodeKind          { return KindForStmt }
func (*ForEachStmt) Kind() NodeKind      { return KindForEachStmt }
func (*ReturnStmt) Kind() NodeKind       { return KindReturnStmt }
func (*BreakStmt) Kind() NodeKind        { return KindBreakStmt }
func (*ContinueStmt) Kind() NodeKind     { return KindContinueStmt }
func (*YieldStmt) Kind() NodeKind        { return KindYieldStmt }
func (*ThrowStmt) Kind() NodeKind        { return KindThrowStmt }
func (*SwitchStmt) Kind() NodeKind       { return KindSwitchStmt }
func (*SwitchCase) Kind() NodeKind       { return KindSwitchCase }
func (*TryStmt) Kind() NodeKind          { return KindTryStmt }
func (*CatchClause) Kind() NodeKind      { return KindCatchClause }
func (*LabeledStmt) Kind() NodeKind      { return KindLabeledStmt }
func (*SyncStmt) Kind() NodeKind         { return KindSyncStmt }
func (*AssertStmt) Kind() NodeKind       { return KindAssertStmt }
func (*ConstructorCall) Kind() NodeKind  { return KindConstructorCall }
func (*Literal) Kind() NodeKind          { return KindLiteral }
func (*Name) Kind() NodeKind             { return KindName }
func (*FieldAccess) Kind() NodeKind      { return KindFieldAccess }
func (*MethodCall) Kind() NodeKind       { return KindMethodCall }
func (*NewObject) Kind() NodeKind        { return KindNewObject }
func (*NewArray) Kind() NodeKind         { return KindNewArray }
func (*ArrayInit) Kind() NodeKind        { return KindArrayInit }
func (*ArrayAccess) Kind() NodeKind      { return KindArrayAccess }
func (*Unary) Kind() NodeKind            { return KindUnary }
func (*Binary) Kind() NodeKind           { return KindBinary }
func (*Assign) Kind() NodeKind           { return KindAssign }
func (*Conditional) Kind() NodeKind      { return KindConditional }
func (*Cast) Kind() NodeKind             { return KindCast }
func (*InstanceOf) Kind() NodeKind       { return KindInstanceOf }
func (*This) Kind() NodeKind             { return KindThis }
func (*Super) Kind() NodeKind            { return KindSuper }
func (*ClassLit) Kind() NodeKind         { return KindClassLit }
func (*Lambda) Kind() NodeKind           { return KindLambda }
func (*MethodRef) Kind() NodeKind        { return KindMethodRef }
func (*SwitchExpr) Kind() NodeKind       { return KindSwitchExpr }
func (*Paren) Kind() NodeKind            { return KindParen }
func (*TypePattern) Kind() NodeKind      { return KindTypePattern }
func (*RecordPattern) Kind() NodeKind    { return KindRecordPattern }
func (*TypeExpr) Kind() NodeKind         { return KindTypeExpr }
func (*BadExpr) Kind() NodeKind          { return KindBadExpr }
func (*PrimitiveType) Kind() NodeKind    { return KindPrimitiveType }
func (*ClassType) Kind() NodeKind        { return KindClassType }
func (*ArrayType) Kind() NodeKind        { return KindArrayType }
func (*WildcardType) Kind() NodeKind     { return KindWildcardType }
func (*UnionType) Kind() NodeKind        { return KindUnionType }
func (*IntersectionType) Kind() NodeKind { return KindIntersectionType }
func (*VarType) Kind() NodeKind          { return KindVarType }
