package intcode

import (
	"errors"
	"fmt"
)

var (
	// ErrOutputUnderflow is returned by PopOutput when no output is queued.
	ErrOutputUnderflow = errors.New("output underflow")

	// ErrImmediateWrite indicates an instruction whose destination operand
	// is in immediate mode.
	ErrImmediateWrite = errors.New("immediate mode destination")
)

// AddressError indicates a negative computed memory address.
type AddressError int64

func (addr AddressError) Error() string { return fmt.Sprintf("invalid address %v", int64(addr)) }

// OpcodeError indicates an undefined opcode.
type OpcodeError int64

func (code OpcodeError) Error() string { return fmt.Sprintf("unknown opcode %v", int64(code)) }

// ModeError indicates an undefined parameter mode digit.
type ModeError int64

func (mode ModeError) Error() string { return fmt.Sprintf("unknown parameter mode %v", int64(mode)) }

// FaultError wraps a fatal error with the address of the instruction that
// raised it.
type FaultError struct {
	PC  int64
	Err error
}

func (fe FaultError) Error() string { return fmt.Sprintf("fault @%v: %v", fe.PC, fe.Err) }
func (fe FaultError) Unwrap() error { return fe.Err }

type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}
func (err haltError) Unwrap() error { return err.error }
