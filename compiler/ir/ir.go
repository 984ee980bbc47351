package ir

import (
	"strconv"
)

type (
	// Op is a stack machine instruction.
	Op uint8

	// Instr is one instruction. A and B are operands: jump offsets,
	// function, type, field and slot indexes. F is the PushFloat constant.
	Instr struct {
		Op Op
		A  int64
		B  int64
		F  float64
	}

	Code []Instr

	operands uint8
)

const (
	Nop Op = iota

	PushInt
	PushFloat

	Add
	Sub
	Div
	Mul
	Mod
	Pow
	Xor
	Or
	Not
	And
	Neg
	LNot
	Shl
	Shr

	Br
	BrT
	BrF

	CmpEq
	CmpNEq
	CmpLt
	CmpGt
	CmpLtEq
	CmpGtEq

	Call
	VirtualCall
	ConstructorCall
	ClosureCall
	CreateClosure
	Return

	LoadLocal
	StoreLocal
	LoadGlobal
	StoreGlobal

	CreateObject
	DestroyObject
	StoreField
	LoadField
	LoadType

	CreateArray
	DestroyArray
	ArrayGet
	ArraySet

	numOps
)

const (
	noOperands operands = iota
	intOperand
	floatOperand
	oneOperand
	twoOperands
)

var ops = [numOps]struct {
	name string
	args operands
}{
	Nop:       {"nop", noOperands},
	PushInt:   {"push.i", intOperand},
	PushFloat: {"push.f", floatOperand},

	Add:  {"add", noOperands},
	Sub:  {"sub", noOperands},
	Div:  {"div", noOperands},
	Mul:  {"mul", noOperands},
	Mod:  {"mod", noOperands},
	Pow:  {"pow", noOperands},
	Xor:  {"xor", noOperands},
	Or:   {"or", noOperands},
	Not:  {"not", noOperands},
	And:  {"and", noOperands},
	Neg:  {"neg", noOperands},
	LNot: {"lnot", noOperands},
	Shl:  {"shl", noOperands},
	Shr:  {"shr", noOperands},

	Br:  {"br", oneOperand},
	BrT: {"br.t", oneOperand},
	BrF: {"br.f", oneOperand},

	CmpEq:   {"cmp.eq", noOperands},
	CmpNEq:  {"cmp.ne", noOperands},
	CmpLt:   {"cmp.lt", noOperands},
	CmpGt:   {"cmp.gt", noOperands},
	CmpLtEq: {"cmp.le", noOperands},
	CmpGtEq: {"cmp.ge", noOperands},

	Call:            {"call", oneOperand},
	VirtualCall:     {"call.virt", oneOperand},
	ConstructorCall: {"call.ctor", oneOperand},
	ClosureCall:     {"call.closure", noOperands},
	CreateClosure:   {"closure", oneOperand},
	Return:          {"ret", noOperands},

	LoadLocal:   {"load.local", oneOperand},
	StoreLocal:  {"store.local", oneOperand},
	LoadGlobal:  {"load.global", oneOperand},
	StoreGlobal: {"store.global", oneOperand},

	CreateObject:  {"new.obj", oneOperand},
	DestroyObject: {"del.obj", oneOperand},
	StoreField:    {"store.field", twoOperands},
	LoadField:     {"load.field", twoOperands},
	LoadType:      {"load.type", oneOperand},

	CreateArray:  {"new.arr", twoOperands},
	DestroyArray: {"del.arr", twoOperands},
	ArrayGet:     {"arr.get", twoOperands},
	ArraySet:     {"arr.set", twoOperands},
}

func (op Op) String() string {
	if op < numOps {
		return ops[op].name
	}

	return "op(" + strconv.Itoa(int(op)) + ")"
}

// Operands is the number of integer operands op takes.
func (op Op) Operands() int {
	if op >= numOps {
		return 0
	}

	switch ops[op].args {
	case intOperand, oneOperand:
		return 1
	case twoOperands:
		return 2
	}

	return 0
}

// IsBranch reports whether A is an instruction offset.
func (op Op) IsBranch() bool {
	return op == Br || op == BrT || op == BrF
}

func (c Code) Emit(op Op, args ...int64) Code {
	x := Instr{Op: op}

	if len(args) > 0 {
		x.A = args[0]
	}
	if len(args) > 1 {
		x.B = args[1]
	}

	return append(c, x)
}

func (c Code) EmitFloat(v float64) Code {
	return append(c, Instr{Op: PushFloat, F: v})
}
