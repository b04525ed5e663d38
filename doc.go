/* Package intcode implements a resumable Intcode interpreter.

An Intcode program is a sequence of signed integers; it is copied into the
memory of a Machine starting at address 0, and executed from there. Memory is
a flat store of 64-bit cells: any non-negative address is valid, and cells
never written read as 0.

Instructions

The cell at the program counter is an instruction: its two lowest decimal
digits are the opcode, and each higher digit gives the mode of one parameter,
the hundreds digit for the first parameter, the thousands digit for the
second, and so on. Missing digits mean position mode.

	 1  add            a b dst    dst = a + b
	 2  mul            a b dst    dst = a * b
	 3  in             dst        dst = next input value
	 4  out            a          output a
	 5  jump-if-true   a target   if a != 0, continue at target
	 6  jump-if-false  a target   if a == 0, continue at target
	 7  less-than      a b dst    dst = 1 if a < b else 0
	 8  equals         a b dst    dst = 1 if a == b else 0
	 9  adjust-base    a          relative base += a
	99  halt

Parameter modes:

	0  position   the operand is an address; the parameter is the cell there
	1  immediate  the operand is the parameter itself
	2  relative   like position, but relative to the relative base

Destination parameters are addresses, so only position and relative modes are
meaningful for them; an immediate destination is a fault.

Running

Run executes instructions until the machine stops, telling its caller why:

	Halted          a halt instruction executed, or the machine faulted
	ProducedOutput  one output instruction executed; PopOutput collects it
	NeedsInput      an input instruction found no queued input

Stopping after every output lets a caller interleave several machines, feeding
one's output into another's input; see package amp. When input runs dry, the
input instruction is retried by the next Run, so the caller only needs to
PushInput and Run again.

For example, the following program echoes one input value:

	m := intcode.New([]int64{3, 0, 4, 0, 99}, intcode.WithInput(42))
	outputs, _, err := m.RunAll(ctx)
	// outputs == []int64{42}

*/
package intcode
