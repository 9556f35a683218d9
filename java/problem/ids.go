package problem

type ID int

const (
	Unknown ID = iota

	// Lexical
	InvalidCharacter
	UnterminatedString
	UnterminatedChar
	UnterminatedComment
	UnterminatedTextBlock
	InvalidEscape
	InvalidUnderscore
	InvalidHexLiteral
	InvalidBinaryLiteral
	InvalidOctalLiteral
	InvalidFloatLiteral
	EmptyCharLiteral
	InvalidCharLiteral
	TextBlockNotSupported
	UnderscoreAsIdentifier

	// Syntax
	SyntaxErrorOnToken
	SyntaxErrorDeleteToken
	SyntaxErrorInsertToComplete
	SyntaxErrorMisplacedConstruct

	// Semantic
	UndefinedType
	UndefinedName
	UndefinedMethod
	UndefinedConstructor
	UndefinedField
	AmbiguousMethod
	IncompatibleTypes
	IncorrectArityForParameterizedType
	NonGenericType
	TypeArgumentMismatch
	DuplicateLocal
	DuplicateMethod
	DuplicateType
	DuplicateField
	NonStaticFromStatic
	NotVisible
	AbstractInstantiation
	CyclicInheritance
	ExtendsFinal
	SuperclassMustBeClass
	SuperinterfaceMustBeInterface
	InvalidOperator
	MissingReturnType
	VoidValue
	IntegerOutOfRange
	DeprecatedUse
	VoidMethodReturnsValue
	ShouldReturnValue
	NotAnArray
	InvalidCast
	IncompatibleInstanceof
	ThisInStaticContext
	InvalidIterable
	ImportNotFound
	MethodBodyRequired
	AbstractMethodWithBody
	UnimplementedAbstractMethod
	NotAFunctionalInterface
	InvalidClassFile

	// Flow
	InvalidBreak
	InvalidContinue
	UndefinedLabel
	UninitializedLocal
	FinalReassignment
	FinalFieldAssignment
	UninitializedBlankFinal
	UnreachableCode
	MissingReturn
	UnhandledException
	UnreachableCatch
	InvalidYield

	// Internal
	CodegenUnsupported
	InternalError
	ExpressionTooComplex
)

type description struct {
	template string
	severity Severity
	category Category
}

var descriptions = map[ID]description{
	InvalidCharacter:       {"Invalid character %q in source", SeverityError, CategoryLexical},
	UnterminatedString:     {"String literal is not properly closed by a double-quote", SeverityError, CategoryLexical},
	UnterminatedChar:       {"Character literal is not properly closed", SeverityError, CategoryLexical},
	UnterminatedComment:    {"Unexpected end of comment", SeverityError, CategoryLexical},
	UnterminatedTextBlock:  {"Text block is not properly closed with the delimiter", SeverityError, CategoryLexical},
	InvalidEscape:          {"Invalid escape sequence (valid ones are  \\b  \\t  \\n  \\f  \\r  \\\"  \\'  \\\\ )", SeverityError, CategoryLexical},
	InvalidUnderscore:      {"Underscores have to be located within digits", SeverityError, CategoryLexical},
	InvalidHexLiteral:      {"Invalid hex literal number", SeverityError, CategoryLexical},
	InvalidBinaryLiteral:   {"Invalid binary literal number (only '0' and '1' are expected)", SeverityError, CategoryLexical},
	InvalidOctalLiteral:    {"Invalid octal literal %s", SeverityError, CategoryLexical},
	InvalidFloatLiteral:    {"Invalid float literal number", SeverityError, CategoryLexical},
	EmptyCharLiteral:       {"Empty character constant", SeverityError, CategoryLexical},
	InvalidCharLiteral:     {"Invalid character constant", SeverityError, CategoryLexical},
	TextBlockNotSupported:  {"Text Blocks are not supported below source level 15", SeverityError, CategoryLexical},
	UnderscoreAsIdentifier: {"'_' should not be used as an identifier, since it is a reserved keyword from source level 9 on", SeverityError, CategoryLexical},

	SyntaxErrorOnToken:            {"Syntax error on token %q, %s expected", SeverityError, CategorySyntax},
	SyntaxErrorDeleteToken:        {"Syntax error on token %q, delete this token", SeverityError, CategorySyntax},
	SyntaxErrorInsertToComplete:   {"Syntax error, insert %q to complete %s", SeverityError, CategorySyntax},
	SyntaxErrorMisplacedConstruct: {"Syntax error on tokens, misplaced construct(s)", SeverityError, CategorySyntax},

	UndefinedType:                      {"%s cannot be resolved to a type", SeverityError, CategorySemantic},
	UndefinedName:                      {"%s cannot be resolved", SeverityError, CategorySemantic},
	UndefinedMethod:                    {"The method %s(%s) is undefined for the type %s", SeverityError, CategorySemantic},
	UndefinedConstructor:               {"The constructor %s(%s) is undefined", SeverityError, CategorySemantic},
	UndefinedField:                     {"%s cannot be resolved or is not a field", SeverityError, CategorySemantic},
	AmbiguousMethod:                    {"The method %s(%s) is ambiguous for the type %s", SeverityError, CategorySemantic},
	IncompatibleTypes:                  {"Type mismatch: cannot convert from %s to %s", SeverityError, CategorySemantic},
	IncorrectArityForParameterizedType: {"Incorrect number of arguments for type %s; it cannot be parameterized with arguments <%s>", SeverityError, CategorySemantic},
	NonGenericType:                     {"The type %s is not generic; it cannot be parameterized with arguments <%s>", SeverityError, CategorySemantic},
	TypeArgumentMismatch:               {"Bound mismatch: The type %s is not a valid substitute for the bounded parameter <%s extends %s> of the type %s", SeverityError, CategorySemantic},
	DuplicateLocal:                     {"Duplicate local variable %s", SeverityError, CategorySemantic},
	DuplicateMethod:                    {"Duplicate method %s in type %s", SeverityError, CategorySemantic},
	DuplicateType:                      {"The type %s is already defined", SeverityError, CategorySemantic},
	DuplicateField:                     {"Duplicate field %s.%s", SeverityError, CategorySemantic},
	NonStaticFromStatic:                {"Cannot make a static reference to the non-static %s %s", SeverityError, CategorySemantic},
	NotVisible:                         {"The %s %s is not visible", SeverityError, CategorySemantic},
	AbstractInstantiation:              {"Cannot instantiate the type %s", SeverityError, CategorySemantic},
	CyclicInheritance:                  {"Cycle detected: the type %s cannot extend/implement itself or one of its own member types", SeverityError, CategorySemantic},
	ExtendsFinal:                       {"The type %s cannot subclass the final class %s", SeverityError, CategorySemantic},
	SuperclassMustBeClass:              {"The type %s cannot be the superclass of %s; a superclass must be a class", SeverityError, CategorySemantic},
	SuperinterfaceMustBeInterface:      {"The type %s cannot be a superinterface of %s; a superinterface must be an interface", SeverityError, CategorySemantic},
	InvalidOperator:                    {"The operator %s is undefined for the argument type(s) %s", SeverityError, CategorySemantic},
	MissingReturnType:                  {"Return type for the method is missing", SeverityError, CategorySemantic},
	VoidValue:                          {"void is an invalid type for the variable %s", SeverityError, CategorySemantic},
	IntegerOutOfRange:                  {"The literal %s of type %s is out of range", SeverityError, CategorySemantic},
	DeprecatedUse:                      {"The %s %s is deprecated", SeverityWarning, CategorySemantic},
	VoidMethodReturnsValue:             {"Void methods cannot return a value", SeverityError, CategorySemantic},
	ShouldReturnValue:                  {"This method must return a result of type %s", SeverityError, CategorySemantic},
	NotAnArray:                         {"The type of the expression must be an array type but it resolved to %s", SeverityError, CategorySemantic},
	InvalidCast:                        {"Cannot cast from %s to %s", SeverityError, CategorySemantic},
	IncompatibleInstanceof:             {"Incompatible conditional operand types %s and %s", SeverityError, CategorySemantic},
	ThisInStaticContext:                {"Cannot use %s in a static context", SeverityError, CategorySemantic},
	InvalidIterable:                    {"Can only iterate over an array or an instance of java.lang.Iterable", SeverityError, CategorySemantic},
	ImportNotFound:                     {"The import %s cannot be resolved", SeverityError, CategorySemantic},
	MethodBodyRequired:                 {"This method requires a body instead of a semicolon", SeverityError, CategorySemantic},
	AbstractMethodWithBody:             {"Abstract methods do not specify a body", SeverityError, CategorySemantic},
	UnimplementedAbstractMethod:        {"The type %s must implement the inherited abstract method %s", SeverityError, CategorySemantic},
	NotAFunctionalInterface:            {"The target type of this expression must be a functional interface", SeverityError, CategorySemantic},
	InvalidClassFile:                   {"The class file %s is corrupt: %s", SeverityError, CategoryInternal},

	InvalidBreak:            {"break cannot be used outside of a loop or a switch", SeverityError, CategoryFlow},
	InvalidContinue:         {"continue cannot be used outside of a loop", SeverityError, CategoryFlow},
	UndefinedLabel:          {"The label %s is missing", SeverityError, CategoryFlow},
	UninitializedLocal:      {"The local variable %s may not have been initialized", SeverityError, CategoryFlow},
	FinalReassignment:       {"The final local variable %s may already have been assigned", SeverityError, CategoryFlow},
	FinalFieldAssignment:    {"The final field %s cannot be assigned", SeverityError, CategoryFlow},
	UninitializedBlankFinal: {"The blank final field %s may not have been initialized", SeverityError, CategoryFlow},
	UnreachableCode:         {"Unreachable code", SeverityError, CategoryFlow},
	MissingReturn:           {"This method must return a result of type %s", SeverityError, CategoryFlow},
	UnhandledException:      {"Unhandled exception type %s", SeverityError, CategoryFlow},
	UnreachableCatch:        {"Unreachable catch block for %s. This exception is never thrown from the try statement body", SeverityError, CategoryFlow},
	InvalidYield:            {"yield outside of switch expression", SeverityError, CategoryFlow},

	CodegenUnsupported: {"Code generation for %s is not supported; a problem method was emitted", SeverityWarning, CategoryInternal},
	InternalError:      {"Internal compiler error: %s", SeverityError, CategoryInternal},

	ExpressionTooComplex: {"The expression is nested too deeply to be compiled", SeverityError, CategoryInternal},
}

func describe(id ID) description {
	if d, ok := descriptions[id]; ok {
		return d
	}
	return description{template: "", severity: SeverityError, category: CategoryInternal}
}

// DefaultCategory returns the category problems with this id are filed under.
func (id ID) DefaultCategory() Category {
	return describe(id).category
}
