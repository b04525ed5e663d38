package intcode

import "strconv"

// Opcode is the low two decimal digits of an instruction cell.
type Opcode int64

// Here's a handy summary of all the opcodes:
const (
	OpAdd         Opcode = 1  // a b dst   dst = a + b
	OpMul         Opcode = 2  // a b dst   dst = a * b
	OpInput       Opcode = 3  // dst       dst = next input
	OpOutput      Opcode = 4  // a         output a, then yield
	OpJumpIfTrue  Opcode = 5  // a target  a != 0 ? pc = target
	OpJumpIfFalse Opcode = 6  // a target  a == 0 ? pc = target
	OpLessThan    Opcode = 7  // a b dst   dst = a < b
	OpEquals      Opcode = 8  // a b dst   dst = a == b
	OpAdjustBase  Opcode = 9  // a         base += a
	OpHalt        Opcode = 99 // -         stop for good
)

// op describes one opcode: its mnemonic, operands, and implementation.
// An operand is either a source (resolved to a value) or a destination
// (resolved to an address); dests marks the destination positions.
type op struct {
	name  string
	arity int
	dests [maxParams]bool
	exec  func(m *Machine, ins *instruction) Status
}

var opTable [100]op

func init() {
	var (
		src  = [maxParams]bool{}
		dst1 = [maxParams]bool{true}
		dst3 = [maxParams]bool{2: true}
	)
	opTable[OpAdd] = op{"add", 3, dst3, (*Machine).add}
	opTable[OpMul] = op{"mul", 3, dst3, (*Machine).mul}
	opTable[OpInput] = op{"in", 1, dst1, (*Machine).input}
	opTable[OpOutput] = op{"out", 1, src, (*Machine).output}
	opTable[OpJumpIfTrue] = op{"jnz", 2, src, (*Machine).jumpIfTrue}
	opTable[OpJumpIfFalse] = op{"jz", 2, src, (*Machine).jumpIfFalse}
	opTable[OpLessThan] = op{"lt", 3, dst3, (*Machine).lessThan}
	opTable[OpEquals] = op{"eq", 3, dst3, (*Machine).equals}
	opTable[OpAdjustBase] = op{"arb", 1, src, (*Machine).adjustBase}
	opTable[OpHalt] = op{"halt", 0, src, (*Machine).halt}
}

func (code Opcode) op() (op, bool) {
	if code < 0 || int(code) >= len(opTable) {
		return op{}, false
	}
	o := opTable[code]
	return o, o.exec != nil
}

func (code Opcode) String() string {
	if o, ok := code.op(); ok {
		return o.name
	}
	return "Opcode(" + strconv.FormatInt(int64(code), 10) + ")"
}

// Arity returns the number of operands taken by code, or -1 if undefined.
func (code Opcode) Arity() int {
	if o, ok := code.op(); ok {
		return o.arity
	}
	return -1
}

//// Arithmetic

func (m *Machine) add(ins *instruction) Status {
	a, b := m.param(ins, 0), m.param(ins, 1)
	m.stor(m.dest(ins, 2), a+b)
	return running
}

func (m *Machine) mul(ins *instruction) Status {
	a, b := m.param(ins, 0), m.param(ins, 1)
	m.stor(m.dest(ins, 2), a*b)
	return running
}

//// Comparison

func (m *Machine) lessThan(ins *instruction) Status {
	a, b := m.param(ins, 0), m.param(ins, 1)
	m.stor(m.dest(ins, 2), boolCell(a < b))
	return running
}

func (m *Machine) equals(ins *instruction) Status {
	a, b := m.param(ins, 0), m.param(ins, 1)
	m.stor(m.dest(ins, 2), boolCell(a == b))
	return running
}

//// Control flow

func (m *Machine) jumpIfTrue(ins *instruction) Status {
	if a, target := m.param(ins, 0), m.param(ins, 1); a != 0 {
		m.pc = target
	}
	return running
}

func (m *Machine) jumpIfFalse(ins *instruction) Status {
	if a, target := m.param(ins, 0), m.param(ins, 1); a == 0 {
		m.pc = target
	}
	return running
}

func (m *Machine) adjustBase(ins *instruction) Status {
	m.base += m.param(ins, 0)
	return running
}

func (m *Machine) halt(ins *instruction) Status {
	m.halted = true
	return Halted
}

//// Input/Output

// input expects the step loop to have already checked for a queued value.
func (m *Machine) input(ins *instruction) Status {
	addr := m.dest(ins, 0)
	val, _ := m.in.pop()
	m.stor(addr, val)
	return running
}

func (m *Machine) output(ins *instruction) Status {
	m.out.push(m.param(ins, 0))
	return ProducedOutput
}

func boolCell(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
