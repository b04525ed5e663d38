package intcode

import (
	"context"
	"errors"

	"github.com/jcorbin/intcode/internal/panicerr"
)

// New creates a machine whose memory holds a copy of program starting at
// address 0. The program counter and relative base start at 0.
func New(program []int64, opts ...Option) *Machine {
	var m Machine
	m.name = "intcode"
	Options(opts...).apply(&m)
	err := m.preload(0, program)
	for _, p := range m.patches {
		if err == nil {
			err = m.preload(p.addr, p.values)
		}
	}
	m.patches = nil
	if err != nil {
		m.err = FaultError{PC: 0, Err: err}
		m.halted = true
	}
	return &m
}

// preload stores values outside of any run, where faults would not be
// recovered.
func (m *Machine) preload(addr int64, values []int64) error {
	if addr < 0 {
		return AddressError(addr)
	}
	if err := m.mem.Stor(uint(addr), values...); err != nil {
		return err
	}
	if end := addr + int64(len(values)); end > m.extent {
		m.extent = end
	}
	return nil
}

// Run executes instructions until the machine halts, executes one output
// instruction, or needs input that has not been pushed yet.
//
// A fatal error (invalid address, unknown opcode or mode, immediate mode
// destination, memory limit, or ctx being done) halts the machine; the
// error is returned as a FaultError by this and every later Run.
// Running a halted machine returns Halted without executing anything.
func (m *Machine) Run(ctx context.Context) (Status, error) {
	if m.err != nil {
		return Halted, m.err
	}
	if m.halted {
		return Halted, nil
	}

	var st Status
	err := panicerr.Recover(m.name, func() error {
		st = m.exec(ctx)
		return nil
	})
	if err == nil {
		return st, nil
	}

	var halt haltError
	if errors.As(err, &halt) {
		err = halt.error
	}
	m.err = FaultError{PC: m.at, Err: err}
	m.halted = true
	return Halted, m.err
}

// RunAll runs until the machine halts, feeding it input values as it asks
// for them and collecting every output. It returns NeedsInput with the
// collected outputs if input runs out before the machine halts.
func (m *Machine) RunAll(ctx context.Context, input ...int64) ([]int64, Status, error) {
	m.PushInput(input...)
	var outputs []int64
	for {
		st, err := m.Run(ctx)
		outputs = append(outputs, m.Outputs()...)
		if err != nil || st != ProducedOutput {
			return outputs, st, err
		}
	}
}

// PushInput appends values to the input queue.
func (m *Machine) PushInput(values ...int64) { m.in.push(values...) }

// PopOutput removes and returns the oldest queued output value.
// It returns ErrOutputUnderflow, leaving the machine untouched, if none is
// queued.
func (m *Machine) PopOutput() (int64, error) {
	if val, ok := m.out.pop(); ok {
		return val, nil
	}
	return 0, ErrOutputUnderflow
}

// Outputs drains and returns all queued output values.
func (m *Machine) Outputs() []int64 { return m.out.drain() }

// PendingInput returns the number of values queued but not yet consumed.
func (m *Machine) PendingInput() int { return m.in.len() }

// Halted returns true once the machine has executed a halt instruction, or
// stopped on a fatal error.
func (m *Machine) Halted() bool { return m.halted }

// Err returns the fatal error that stopped the machine, if any.
func (m *Machine) Err() error { return m.err }

// PeekMemory returns the value stored at addr without affecting the machine.
func (m *Machine) PeekMemory(addr int64) (int64, error) {
	if addr < 0 {
		return 0, AddressError(addr)
	}
	return m.mem.Load(uint(addr))
}

// MemorySize returns one past the highest address the machine has loaded or
// stored, its program included.
func (m *Machine) MemorySize() int64 { return m.extent }

// PC returns the program counter.
func (m *Machine) PC() int64 { return m.pc }

// RelativeBase returns the relative base register.
func (m *Machine) RelativeBase() int64 { return m.base }

// Steps returns how many instructions have executed.
func (m *Machine) Steps() uint64 { return m.steps }

// Name returns the name given by WithName, used in logs and errors.
func (m *Machine) Name() string { return m.name }
