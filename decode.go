package intcode

import "strconv"

// Mode selects how an instruction parameter is resolved.
type Mode uint8

// Parameter modes, numbered by their instruction digit.
const (
	Position  Mode = iota // operand is an address to dereference
	Immediate             // operand is the literal value
	Relative              // operand is an offset from the relative base
)

func (mode Mode) String() string {
	switch mode {
	case Position:
		return "position"
	case Immediate:
		return "immediate"
	case Relative:
		return "relative"
	}
	return "Mode(" + strconv.Itoa(int(mode)) + ")"
}

// maxParams is the largest operand count of any opcode.
const maxParams = 3

type instruction struct {
	code  Opcode
	modes [maxParams]Mode
}

// decode splits an instruction cell into its opcode and parameter modes.
// The mode of parameter i is decimal digit i of cell/100, counting from the
// least significant digit; exhausted digits leave Position.
func decode(cell int64) (ins instruction, err error) {
	if cell < 0 {
		return ins, OpcodeError(cell)
	}
	ins.code = Opcode(cell % 100)
	digits := cell / 100
	for i := range ins.modes {
		digit := digits % 10
		if digit > int64(Relative) {
			return ins, ModeError(digit)
		}
		ins.modes[i] = Mode(digit)
		digits /= 10
	}
	if digits != 0 {
		return ins, ModeError(digits % 10)
	}
	return ins, nil
}
