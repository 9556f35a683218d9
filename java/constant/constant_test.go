package constant

import (
	"math"
	"testing"

	"github.com/dhamidi/jfront/java/ast"
)

func TestCastTo(t *testing.T) {
	tests := []struct {
		name string
		in   Constant
		to   TypeID
		want Constant
	}{
		{"int to byte wraps", Int(300), TByte, Byte(44)},
		{"int to byte negative", Int(200), TByte, Byte(-56)},
		{"int to short wraps", Int(70000), TShort, Short(4464)},
		{"int to char wraps", Int(-1), TChar, Char(65535)},
		{"char to int", Char('A'), TInt, Int(65)},
		{"long to int truncates", Long(1<<32 + 5), TInt, Int(5)},
		{"NaN to int", Double(math.NaN()), TInt, Int(0)},
		{"NaN to long", Float(float32(math.NaN())), TLong, Long(0)},
		{"large double saturates", Double(1e20), TInt, Int(math.MaxInt32)},
		{"negative infinity saturates", Double(math.Inf(-1)), TLong, Long(math.MinInt64)},
		{"double to int truncates toward zero", Double(-3.99), TInt, Int(-3)},
		{"double to byte goes through int", Double(300.7), TByte, Byte(44)},
		{"double to char saturates first", Double(1e10), TChar, Char(65535)},
		{"int to float rounds", Int(16777217), TFloat, Float(16777216)},
		{"double to float", Double(0.1), TFloat, Float(0.1)},
		{"float to double", Float(0.5), TDouble, Double(0.5)},
		{"identity", String("s"), TString, String("s")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CastTo(tt.in, tt.to)
			if !ok {
				t.Fatalf("CastTo(%v, %v) not allowed", tt.in, tt.to)
			}
			if !Equal(got, tt.want) {
				t.Errorf("CastTo(%v, %v) = %v (%v), want %v (%v)", tt.in, tt.to, got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}

	disallowed := []struct {
		in Constant
		to TypeID
	}{
		{Bool(true), TInt},
		{Int(1), TBoolean},
		{Int(1), TString},
		{String("1"), TInt},
		{NotAConstant, TInt},
	}
	for _, tt := range disallowed {
		if _, ok := CastTo(tt.in, tt.to); ok {
			t.Errorf("CastTo(%v, %v) allowed, want disallowed", tt.in, tt.to)
		}
	}
}

func TestBinaryOp(t *testing.T) {
	tests := []struct {
		name  string
		op    ast.Operator
		left  Constant
		right Constant
		typ   TypeID
		want  Constant
	}{
		{"int overflow wraps", ast.OpAdd, Int(math.MaxInt32), Int(1), TInt, Int(math.MinInt32)},
		{"int multiply wraps", ast.OpMul, Int(1 << 16), Int(1 << 16), TInt, Int(0)},
		{"min int divided by minus one", ast.OpDiv, Int(math.MinInt32), Int(-1), TInt, Int(math.MinInt32)},
		{"remainder keeps dividend sign", ast.OpRem, Int(-7), Int(3), TInt, Int(-1)},
		{"byte operands promote", ast.OpAdd, Byte(100), Byte(100), TInt, Int(200)},
		{"int and long promote", ast.OpSub, Int(1), Long(2), TLong, Long(-1)},
		{"shift distance is masked", ast.OpShl, Int(1), Int(33), TInt, Int(2)},
		{"long shift distance is masked", ast.OpShl, Long(1), Int(65), TLong, Long(2)},
		{"unsigned shift", ast.OpUShr, Int(-1), Int(28), TInt, Int(15)},
		{"signed shift", ast.OpShr, Int(-16), Int(2), TInt, Int(-4)},
		{"long shift by long distance", ast.OpUShr, Long(-1), Long(60), TLong, Long(15)},
		{"float arithmetic rounds to float", ast.OpDiv, Float(1), Float(3), TFloat, Float(float32(1) / float32(3))},
		{"double division by zero", ast.OpDiv, Double(1), Double(0), TDouble, Double(math.Inf(1))},
		{"double remainder", ast.OpRem, Double(5.5), Double(2), TDouble, Double(1.5)},
		{"comparison", ast.OpLT, Int(1), Int(2), TInt, Bool(true)},
		{"NaN is not equal to itself", ast.OpEQ, Double(math.NaN()), Double(math.NaN()), TDouble, Bool(false)},
		{"NaN not equal", ast.OpNE, Double(math.NaN()), Double(1), TDouble, Bool(true)},
		{"char comparison", ast.OpGE, Char('b'), Char('a'), TInt, Bool(true)},
		{"boolean and", ast.OpAndAnd, Bool(true), Bool(false), TBoolean, Bool(false)},
		{"boolean xor", ast.OpXor, Bool(true), Bool(false), TBoolean, Bool(true)},
		{"bitwise int", ast.OpAnd, Int(0xff), Int(0x0f), TInt, Int(0x0f)},
		{"string concatenation", ast.OpAdd, String("a"), Int(1), TString, String("a1")},
		{"string with double", ast.OpAdd, String("x="), Double(1.0), TString, String("x=1.0")},
		{"string with char", ast.OpAdd, Char('c'), String("d"), TString, String("cd")},
		{"string with large double", ast.OpAdd, String(""), Double(1e7), TString, String("1.0E7")},
		{"string with float", ast.OpAdd, String(""), Float(0.1), TString, String("0.1")},
		{"string with boolean", ast.OpAdd, Bool(false), String("!"), TString, String("false!")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BinaryOp(tt.op, tt.left, tt.right, tt.typ)
			if !ok {
				t.Fatalf("BinaryOp not constant")
			}
			if !Equal(got, tt.want) {
				t.Errorf("BinaryOp(%v %v %v) = %v (%v), want %v (%v)", tt.left, tt.op, tt.right, got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}
}

func TestBinaryOpNotConstant(t *testing.T) {
	tests := []struct {
		name  string
		op    ast.Operator
		left  Constant
		right Constant
		typ   TypeID
	}{
		{"int division by zero", ast.OpDiv, Int(1), Int(0), TInt},
		{"long remainder by zero", ast.OpRem, Long(1), Long(0), TLong},
		{"string subtraction", ast.OpSub, String("a"), String("b"), TString},
		{"missing operand", ast.OpAdd, Int(1), NotAConstant, TInt},
		{"boolean arithmetic", ast.OpAdd, Bool(true), Bool(true), TBoolean},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := BinaryOp(tt.op, tt.left, tt.right, tt.typ); ok {
				t.Errorf("BinaryOp = %v, want not constant", got)
			}
		})
	}
}

func TestUnaryOp(t *testing.T) {
	tests := []struct {
		op   ast.Operator
		in   Constant
		typ  TypeID
		want Constant
	}{
		{ast.OpNeg, Int(math.MinInt32), TInt, Int(math.MinInt32)},
		{ast.OpNeg, Byte(5), TInt, Int(-5)},
		{ast.OpBitNot, Int(0), TInt, Int(-1)},
		{ast.OpBitNot, Long(0), TLong, Long(-1)},
		{ast.OpNot, Bool(true), TBoolean, Bool(false)},
		{ast.OpPos, Char('a'), TInt, Int(97)},
		{ast.OpNeg, Double(0), TDouble, Double(math.Copysign(0, -1))},
	}
	for _, tt := range tests {
		got, ok := UnaryOp(tt.op, tt.in, tt.typ)
		if !ok || !Equal(got, tt.want) {
			t.Errorf("UnaryOp(%v, %v) = %v, %v, want %v", tt.op, tt.in, got, ok, tt.want)
		}
	}
	if _, ok := UnaryOp(ast.OpBitNot, Double(1), TDouble); ok {
		t.Error("~ on double folded")
	}
}

func TestFitsIn(t *testing.T) {
	tests := []struct {
		c    Constant
		to   TypeID
		want bool
	}{
		{Int(127), TByte, true},
		{Int(128), TByte, false},
		{Int(-128), TByte, true},
		{Int(65535), TChar, true},
		{Int(-1), TChar, false},
		{Char(40000), TShort, false},
		{Short(-1), TChar, false},
		{Long(1), TByte, false},
		{Int(1), TLong, false},
		{Int(math.MaxInt32), TInt, true},
	}
	for _, tt := range tests {
		if got := FitsIn(tt.c, tt.to); got != tt.want {
			t.Errorf("FitsIn(%v %v, %v) = %v, want %v", tt.c.Kind(), tt.c, tt.to, got, tt.want)
		}
	}
}

func TestPromote(t *testing.T) {
	binary := []struct {
		l, r, want TypeID
	}{
		{TByte, TShort, TInt},
		{TChar, TChar, TInt},
		{TInt, TLong, TLong},
		{TLong, TFloat, TFloat},
		{TFloat, TDouble, TDouble},
		{TInt, TBoolean, TUndefined},
		{TString, TInt, TUndefined},
	}
	for _, tt := range binary {
		if got := PromoteBinary(tt.l, tt.r); got != tt.want {
			t.Errorf("PromoteBinary(%v, %v) = %v, want %v", tt.l, tt.r, got, tt.want)
		}
	}
	if PromoteUnary(TChar) != TInt || PromoteUnary(TLong) != TLong || PromoteUnary(TBoolean) != TUndefined {
		t.Error("PromoteUnary mismatch")
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		f    float64
		bits int
		want string
	}{
		{1, 64, "1.0"},
		{-2.5, 64, "-2.5"},
		{100, 64, "100.0"},
		{0.001, 64, "0.001"},
		{0.0001, 64, "1.0E-4"},
		{1234567, 64, "1234567.0"},
		{1e7, 64, "1.0E7"},
		{1.5e10, 64, "1.5E10"},
		{0.1, 64, "0.1"},
		{float64(float32(0.1)), 32, "0.1"},
		{float64(float32(1) / 3), 32, "0.33333334"},
		{1.0 / 3, 64, "0.3333333333333333"},
		{math.Copysign(0, -1), 64, "-0.0"},
		{math.NaN(), 64, "NaN"},
		{math.Inf(-1), 64, "-Infinity"},
		{math.MaxFloat64, 64, "1.7976931348623157E308"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.f, tt.bits); got != tt.want {
			t.Errorf("FormatFloat(%v, %d) = %q, want %q", tt.f, tt.bits, got, tt.want)
		}
	}
}

func TestFromLiteral(t *testing.T) {
	tests := []struct {
		kind    ast.LiteralKind
		raw     string
		negated bool
		want    Constant
	}{
		{ast.IntLit, "0x10", false, Int(16)},
		{ast.IntLit, "2147483648", true, Int(math.MinInt32)},
		{ast.LongLit, "10L", false, Long(10)},
		{ast.FloatLit, "1.5f", false, Float(1.5)},
		{ast.DoubleLit, "2e1", false, Double(20)},
		{ast.CharLit, `'\t'`, false, Char('\t')},
		{ast.StringLit, `"a\"b"`, false, String(`a"b`)},
		{ast.TextBlockLit, "\"\"\"\n  hi\n  \"\"\"", false, String("hi\n")},
		{ast.BoolLit, "true", false, Bool(true)},
	}
	for _, tt := range tests {
		got, err := FromLiteral(tt.kind, tt.raw, tt.negated)
		if err != nil {
			t.Errorf("FromLiteral(%s) error: %v", tt.raw, err)
			continue
		}
		if !Equal(got, tt.want) {
			t.Errorf("FromLiteral(%s) = %v, want %v", tt.raw, got, tt.want)
		}
	}

	if _, err := FromLiteral(ast.IntLit, "2147483648", false); err == nil {
		t.Error("FromLiteral(2147483648) succeeded, want out of range")
	}
	if c, err := FromLiteral(ast.NullLit, "null", false); err != nil || c.IsValid() {
		t.Errorf("FromLiteral(null) = %v, %v, want NotAConstant", c, err)
	}
}

func TestConstantAccessors(t *testing.T) {
	c := Double(3.9)
	if c.Int() != 3 || c.Long() != 3 || c.Float() != float32(3.9) {
		t.Errorf("accessors of %v = %d %d %v", c, c.Int(), c.Long(), c.Float())
	}
	if Char('x').String() != "x" || Int(-5).String() != "-5" || !Bool(true).Bool() {
		t.Error("String/Bool accessors mismatch")
	}
	if FromName("int") != TInt || FromName("String") != TString || FromName("Foo") != TUndefined {
		t.Error("FromName mismatch")
	}
}
