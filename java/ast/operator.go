package ast

type Operator int

const (
	OpInvalid Operator = iota

	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpRemAssign
	OpAndAssign
	OpOrAssign
	OpXorAssign
	OpShlAssign
	OpShrAssign
	OpUShrAssign

	OpOrOr
	OpAndAnd
	OpOr
	OpXor
	OpAnd
	OpEQ
	OpNE
	OpLT
	OpGT
	OpLE
	OpGE
	OpShl
	OpShr
	OpUShr
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem

	OpNot
	OpBitNot
	OpNeg
	OpPos
	OpInc
	OpDec
)

var operatorNames = map[Operator]string{
	OpAssign:     "=",
	OpAddAssign:  "+=",
	OpSubAssign:  "-=",
	OpMulAssign:  "*=",
	OpDivAssign:  "/=",
	OpRemAssign:  "%=",
	OpAndAssign:  "&=",
	OpOrAssign:   "|=",
	OpXorAssign:  "^=",
	OpShlAssign:  "<<=",
	OpShrAssign:  ">>=",
	OpUShrAssign: ">>>=",
	OpOrOr:       "||",
	OpAndAnd:     "&&",
	OpOr:         "|",
	OpXor:        "^",
	OpAnd:        "&",
	OpEQ:         "==",
	OpNE:         "!=",
	OpLT:         "<",
	OpGT:         ">",
	OpLE:         "<=",
	OpGE:         ">=",
	OpShl:        "<<",
	OpShr:        ">>",
	OpUShr:       ">>>",
	OpAdd:        "+",
	OpSub:        "-",
	OpMul:        "*",
	OpDiv:        "/",
	OpRem:        "%",
	OpNot:        "!",
	OpBitNot:     "~",
	OpNeg:        "-",
	OpPos:        "+",
	OpInc:        "++",
	OpDec:        "--",
}

func (op Operator) String() string {
	if s, ok := operatorNames[op]; ok {
		return s
	}
	return "?"
}

// Binary returns the operator a compound assignment applies, or op itself.
func (op Operator) Binary() Operator {
	switch op {
	case OpAddAssign:
		return OpAdd
	case OpSubAssign:
		return OpSub
	case OpMulAssign:
		return OpMul
	case OpDivAssign:
		return OpDiv
	case OpRemAssign:
		return OpRem
	case OpAndAssign:
		return OpAnd
	case OpOrAssign:
		return OpOr
	case OpXorAssign:
		return OpXor
	case OpShlAssign:
		return OpShl
	case OpShrAssign:
		return OpShr
	case OpUShrAssign:
		return OpUShr
	}
	return op
}

func (op Operator) IsCompoundAssign() bool {
	return op > OpAssign && op <= OpUShrAssign
}

func (op Operator) IsComparison() bool {
	return op >= OpEQ && op <= OpGE
}

func (op Operator) IsShift() bool {
	return op == OpShl || op == OpShr || op == OpUShr
}

// Precedence is the binary operator precedence, higher binds tighter.
// Non-binary operators return 0.
func (op Operator) Precedence() int {
	switch op {
	case OpOrOr:
		return 1
	case OpAndAnd:
		return 2
	case OpOr:
		return 3
	case OpXor:
		return 4
	case OpAnd:
		return 5
	case OpEQ, OpNE:
		return 6
	case OpLT, OpGT, OpLE, OpGE:
		return 7
	case OpShl, OpShr, OpUShr:
		return 8
	case OpAdd, OpSub:
		return 9
	case OpMul, OpDiv, OpRem:
		return 10
	}
	return 0
}
