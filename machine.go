package intcode

import (
	"context"

	"github.com/jcorbin/intcode/internal/mem"
)

// Machine is an Intcode interpreter instance. It owns its memory, registers
// and queues; machines never share state, so any number may be driven side
// by side. A Machine is not safe for concurrent use.
type Machine struct {
	logging

	name string

	pc     int64 // program counter, an index into mem
	at     int64 // address of the instruction being executed
	base   int64 // relative base register
	halted bool
	err    error // sticky fatal error
	steps  uint64

	// Memory is a paged store of cells. Addresses never written read as 0,
	// so the machine behaves as if memory grew on demand, zero filled; extent
	// is one past the highest address loaded or stored so far.
	mem    mem.Cells
	extent int64

	in  queue
	out queue

	patches []patch // pending until New loads the program
}

// Status tells a Run caller why the machine stopped.
type Status uint8

// Run outcomes.
const (
	running Status = iota

	// Halted means the machine executed opcode 99, or faulted; it will not
	// run again.
	Halted

	// ProducedOutput means one output instruction executed; its value is
	// ready for PopOutput.
	ProducedOutput

	// NeedsInput means an input instruction found the input queue empty.
	// The program counter still addresses that instruction, so the next Run
	// retries it after PushInput.
	NeedsInput
)

func (st Status) String() string {
	switch st {
	case running:
		return "running"
	case Halted:
		return "halted"
	case ProducedOutput:
		return "produced output"
	case NeedsInput:
		return "needs input"
	}
	return "Status(?)"
}

func (m *Machine) exec(ctx context.Context) Status {
	if m.logfn != nil {
		defer m.withLogPrefix("	")()
	}
	for {
		if st := m.step(); st != running {
			return st
		}
		if err := ctx.Err(); err != nil {
			m.fault(err)
		}
	}
}

// step decodes and executes the instruction at the program counter.
func (m *Machine) step() Status {
	at := m.pc
	m.at = at
	ins, err := decode(m.load(at))
	if err != nil {
		m.fault(err)
	}
	o, defined := ins.code.op()
	if !defined {
		m.fault(OpcodeError(ins.code))
	}
	for i := 0; i < o.arity; i++ {
		if o.dests[i] && ins.modes[i] == Immediate {
			m.fault(ErrImmediateWrite)
		}
	}

	if ins.code == OpInput && m.in.len() == 0 {
		m.logf(">", "@%v needs input", at)
		return NeedsInput
	}

	if m.logfn != nil {
		m.logf("@", "%v %v -- base:%v in:%v", at, m.disasm(at), m.base, m.in.len())
	}

	m.steps++
	m.pc++
	st := o.exec(m, &ins)
	switch st {
	case ProducedOutput:
		m.logf(">", "@%v output %v", at, m.out.peekLast())
	case Halted:
		m.logf("#", "@%v halt", at)
	}
	return st
}

// param loads the next operand cell and resolves it as a source value.
func (m *Machine) param(ins *instruction, i int) int64 {
	val := m.load(m.pc)
	m.pc++
	switch ins.modes[i] {
	case Immediate:
		return val
	case Relative:
		return m.load(m.base + val)
	default:
		return m.load(val)
	}
}

// dest loads the next operand cell and resolves it as a destination address;
// step has already rejected immediate mode destinations.
func (m *Machine) dest(ins *instruction, i int) int64 {
	val := m.load(m.pc)
	m.pc++
	if ins.modes[i] == Relative {
		return m.base + val
	}
	return val
}

func (m *Machine) load(addr int64) int64 {
	if addr < 0 {
		m.fault(AddressError(addr))
	}
	val, err := m.mem.Load(uint(addr))
	if err != nil {
		m.fault(err)
	}
	if addr >= m.extent {
		m.extent = addr + 1
	}
	return val
}

func (m *Machine) stor(addr int64, values ...int64) {
	if addr < 0 {
		m.fault(AddressError(addr))
	}
	if err := m.mem.Stor(uint(addr), values...); err != nil {
		m.fault(err)
	}
	if end := addr + int64(len(values)); end > m.extent {
		m.extent = end
	}
}

// fault aborts the current run; Run recovers the panic and records err as
// the machine's sticky error.
func (m *Machine) fault(err error) {
	func() {
		defer func() { recover() }()
		m.logf("#", "fault: %v", err)
	}()
	panic(haltError{err})
}
