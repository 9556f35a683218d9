package codegen

// JVM opcodes used by the generator.
const (
	opAconstNull = 0x01
	opIconstM1   = 0x02
	opIconst0    = 0x03
	opLconst0    = 0x09
	opFconst0    = 0x0b
	opDconst0    = 0x0e
	opBipush     = 0x10
	opSipush     = 0x11
	opLdc        = 0x12
	opLdcW       = 0x13
	opLdc2W      = 0x14

	opIload  = 0x15
	opIload0 = 0x1a
	opIaload = 0x2e
	opBaload = 0x33
	opCaload = 0x34
	opSaload = 0x35

	opIstore  = 0x36
	opIstore0 = 0x3b
	opIastore = 0x4f
	opBastore = 0x54
	opCastore = 0x55
	opSastore = 0x56

	opPop    = 0x57
	opPop2   = 0x58
	opDup    = 0x59
	opDupX1  = 0x5a
	opDupX2  = 0x5b
	opDup2   = 0x5c
	opDup2X1 = 0x5d
	opDup2X2 = 0x5e
	opSwap   = 0x5f

	opIadd = 0x60
	opIsub = 0x64
	opImul = 0x68
	opIdiv = 0x6c
	opIrem = 0x70
	opIneg = 0x74
	opIshl = 0x78
	opIshr = 0x7a
	opIush = 0x7c
	opIand = 0x7e
	opIor  = 0x80
	opIxor = 0x82
	opIinc = 0x84

	opI2l = 0x85
	opI2f = 0x86
	opI2d = 0x87
	opL2i = 0x88
	opL2f = 0x89
	opL2d = 0x8a
	opF2i = 0x8b
	opF2l = 0x8c
	opF2d = 0x8d
	opD2i = 0x8e
	opD2l = 0x8f
	opD2f = 0x90
	opI2b = 0x91
	opI2c = 0x92
	opI2s = 0x93

	opLcmp  = 0x94
	opFcmpl = 0x95
	opFcmpg = 0x96
	opDcmpl = 0x97
	opDcmpg = 0x98

	opIfeq     = 0x99
	opIfne     = 0x9a
	opIflt     = 0x9b
	opIfge     = 0x9c
	opIfgt     = 0x9d
	opIfle     = 0x9e
	opIfIcmpeq = 0x9f
	opIfIcmpne = 0xa0
	opIfIcmplt = 0xa1
	opIfIcmpge = 0xa2
	opIfIcmpgt = 0xa3
	opIfIcmple = 0xa4
	opIfAcmpeq = 0xa5
	opIfAcmpne = 0xa6
	opGoto     = 0xa7

	opTableswitch  = 0xaa
	opLookupswitch = 0xab
	opIreturn      = 0xac
	opReturn       = 0xb1

	opGetstatic       = 0xb2
	opPutstatic       = 0xb3
	opGetfield        = 0xb4
	opPutfield        = 0xb5
	opInvokevirtual   = 0xb6
	opInvokespecial   = 0xb7
	opInvokestatic    = 0xb8
	opInvokeinterface = 0xb9
	opNew             = 0xbb
	opNewarray        = 0xbc
	opAnewarray       = 0xbd
	opArraylength     = 0xbe
	opAthrow          = 0xbf
	opCheckcast       = 0xc0
	opInstanceof      = 0xc1
	opMonitorenter    = 0xc2
	opMonitorexit     = 0xc3
	opWide            = 0xc4
	opMultianewarray  = 0xc5
	opIfnull          = 0xc6
	opIfnonnull       = 0xc7
)

// negate returns the conditional branch testing the opposite condition.
func negate(op byte) byte {
	switch op {
	case opIfnull:
		return opIfnonnull
	case opIfnonnull:
		return opIfnull
	}
	// ifeq/ifne, iflt/ifge, ifgt/ifle and the if_icmp and if_acmp pairs
	// differ in their lowest bit.
	if (op-opIfeq)%2 == 0 {
		return op + 1
	}
	return op - 1
}

// branchPops is the number of stack words a branch instruction consumes.
func branchPops(op byte) int {
	switch {
	case op == opGoto:
		return 0
	case op >= opIfeq && op <= opIfle, op == opIfnull, op == opIfnonnull:
		return 1
	}
	return 2
}
