package intcode

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type fmtBuf interface {
	Len() int
	Write(p []byte) (n int, err error)
	WriteByte(c byte) error
	WriteString(s string) (n int, err error)
}

// Dump writes the machine's registers, queues, and a disassembly of its
// memory to w.
func (m *Machine) Dump(w io.Writer) error {
	dump := dumper{load: m.peek, next: m.allocated, size: m.extent, pc: m.pc, mark: true}
	var buf strings.Builder
	fmt.Fprintf(&buf, "# Machine %v\n", m.name)
	fmt.Fprintf(&buf, "  pc: %v\n", m.pc)
	fmt.Fprintf(&buf, "  base: %v\n", m.base)
	fmt.Fprintf(&buf, "  steps: %v\n", m.steps)
	fmt.Fprintf(&buf, "  halted: %v\n", m.halted)
	if m.err != nil {
		fmt.Fprintf(&buf, "  error: %v\n", m.err)
	}
	fmt.Fprintf(&buf, "  input: %v\n", m.in.vals[m.in.head:])
	fmt.Fprintf(&buf, "  output: %v\n", m.out.vals[m.out.head:])
	buf.WriteString("# Memory\n")
	if _, err := io.WriteString(w, buf.String()); err != nil {
		return err
	}
	return dump.dump(w)
}

// Disassemble writes a listing of program to w, one instruction or data
// cell per line.
func Disassemble(w io.Writer, program []int64) error {
	dump := dumper{
		load: func(addr int64) int64 {
			if addr >= 0 && addr < int64(len(program)) {
				return program[addr]
			}
			return 0
		},
		size: int64(len(program)),
	}
	return dump.dump(w)
}

func (m *Machine) peek(addr int64) int64 {
	val, _ := m.PeekMemory(addr)
	return val
}

// allocated returns the lowest address at or above addr that may hold a
// non-zero value.
func (m *Machine) allocated(addr int64) int64 {
	if next, ok := m.mem.Allocated(uint(addr)); ok {
		return int64(next)
	}
	return m.extent
}

// disasm formats the instruction at addr for trace logging.
func (m *Machine) disasm(addr int64) string {
	var sb strings.Builder
	dumper{load: m.peek, size: addr + maxParams + 1}.formatInstruction(&sb, addr)
	return sb.String()
}

type dumper struct {
	load func(addr int64) int64
	next func(addr int64) int64 // optional, skips unallocated cells
	size int64

	pc   int64
	mark bool // mark the pc line
}

func (dump dumper) dump(w io.Writer) error {
	addrWidth := len(strconv.FormatInt(dump.size, 10))
	var buf strings.Builder
	for addr := int64(0); addr < dump.size; {
		buf.Reset()
		if dump.mark && addr == dump.pc {
			buf.WriteString("> ")
		} else {
			buf.WriteString("  ")
		}
		fmt.Fprintf(&buf, "@%-*v ", addrWidth, addr)
		if end := dump.zeros(addr); end-addr >= minZeroRun {
			fmt.Fprintf(&buf, "0 x%v", end-addr)
			addr = end
		} else {
			addr = dump.formatInstruction(&buf, addr)
		}
		buf.WriteByte('\n')
		if _, err := io.WriteString(w, buf.String()); err != nil {
			return err
		}
	}
	return nil
}

// minZeroRun is the shortest run of zero cells collapsed into one line.
const minZeroRun = 4

// zeros returns the end of any run of zero cells starting at addr, stopping
// short of the pc line.
func (dump dumper) zeros(addr int64) int64 {
	end := addr
	for end < dump.size {
		if dump.mark && end == dump.pc && end > addr {
			break
		}
		if dump.next != nil {
			if next := dump.next(end); next > end {
				if dump.mark && dump.pc > end && dump.pc < next {
					next = dump.pc
				}
				end = min(next, dump.size)
				continue
			}
		}
		if dump.load(end) != 0 {
			break
		}
		end++
	}
	return end
}

// formatInstruction writes the instruction at addr, returning the address
// following it. Cells that do not decode, or whose operands would run off
// the end of memory, are written as plain data.
func (dump dumper) formatInstruction(buf fmtBuf, addr int64) int64 {
	cell := dump.load(addr)
	ins, err := decode(cell)
	o, defined := ins.code.op()
	if err != nil || !defined || addr+int64(o.arity) >= dump.size {
		buf.WriteString(strconv.FormatInt(cell, 10))
		return addr + 1
	}

	buf.WriteString(o.name)
	for i := 0; i < o.arity; i++ {
		if i == 0 {
			buf.WriteByte(' ')
		} else {
			buf.WriteString(", ")
		}
		formatParam(buf, ins.modes[i], dump.load(addr+1+int64(i)))
	}
	return addr + 1 + int64(o.arity)
}

func formatParam(buf fmtBuf, mode Mode, val int64) {
	switch mode {
	case Immediate:
		buf.WriteString(strconv.FormatInt(val, 10))
	case Relative:
		buf.WriteString("[rb")
		if val >= 0 {
			buf.WriteByte('+')
		}
		buf.WriteString(strconv.FormatInt(val, 10))
		buf.WriteByte(']')
	default:
		buf.WriteByte('[')
		buf.WriteString(strconv.FormatInt(val, 10))
		buf.WriteByte(']')
	}
}
