package intcode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/intcode/internal/mem"
)

func Test_Machine(t *testing.T) {
	var testCases machineTestCases

	// add and multiply
	testCases = append(testCases,
		machineTest("add", 1, 0, 0, 0, 99).expectMemAt(0, 2, 0, 0, 0, 99),
		machineTest("mul", 2, 3, 0, 3, 99).expectMemAt(0, 2, 3, 0, 6, 99),
		machineTest("mul past program", 2, 4, 4, 5, 99, 0).expectMemAt(0, 2, 4, 4, 5, 99, 9801),
		machineTest("self modify", 1, 1, 1, 4, 99, 5, 6, 0, 99).expectMemAt(0, 30, 1, 1, 4, 2, 5, 6, 0, 99),
		machineTest("add then mul", 1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50).
			expectMemAt(0, 3500, 9, 10, 70, 2, 3, 11, 0, 99, 30, 40, 50).
			expectDump(
				"# Machine intcode",
				"  pc: 9",
				"  base: 0",
				"  steps: 3",
				"  halted: true",
				"  input: []",
				"  output: []",
				"# Memory",
				"  @0  3500",
				"  @1  arb [10]",
				"  @3  70",
				"  @4  mul [3], [11], [0]",
				"  @8  halt",
				"> @9  30",
				"  @10 40",
				"  @11 50",
			),
	)

	// parameter modes
	testCases = append(testCases,
		machineTest("immediate mul", 1002, 4, 3, 4, 33).expectMemAt(4, 99),
		machineTest("negative immediate", 1101, 100, -1, 4, 0).expectMemAt(4, 99),
		machineTest("relative destination", 109, 20, 21101, 3, 4, 0, 204, 0, 99).
			expectOutput(7).expectMemAt(20, 7).expectBase(20),
		machineTest("relative base accumulates", 109, 3, 109, 1, 204, 0, 99).
			expectOutput(204).expectBase(4),
		machineTest("relative input", 109, 10, 203, 0, 204, 0, 99).withInput(42).
			expectOutput(42).expectMemAt(10, 42),
		machineTest("negative relative base", 109, -1, 204, 1, 99).expectOutput(109).expectBase(-1),
	)

	// input and output
	testCases = append(testCases,
		machineTest("echo", 3, 0, 4, 0, 99).withInput(-7).expectOutput(-7).expectMemAt(0, -7),
		machineTest("starved", 3, 0, 4, 0, 99).expectStatus(NeedsInput).expectPC(0).expectOutput(),
		machineTest("starved later", 3, 9, 3, 10, 1, 9, 10, 11, 99).withInput(1).
			expectStatus(NeedsInput).expectPC(2).expectMemAt(9, 1, 0, 0),
		machineTest("pending input", 3, 0, 99).withInput(1, 2, 3).expectOutput().
			expectMemAt(0, 1),
	)

	// comparisons and jumps
	for _, tc := range []struct {
		name    string
		program []int64
		io      [][2]int64
	}{
		{"equal to 8 position", []int64{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8},
			[][2]int64{{8, 1}, {7, 0}, {9, 0}}},
		{"less than 8 position", []int64{3, 9, 7, 9, 10, 9, 4, 9, 99, -1, 8},
			[][2]int64{{8, 0}, {7, 1}, {-100, 1}}},
		{"equal to 8 immediate", []int64{3, 3, 1108, -1, 8, 3, 4, 3, 99},
			[][2]int64{{8, 1}, {7, 0}}},
		{"less than 8 immediate", []int64{3, 3, 1107, -1, 8, 3, 4, 3, 99},
			[][2]int64{{8, 0}, {7, 1}}},
		{"jump position", []int64{3, 12, 6, 12, 15, 1, 13, 14, 13, 4, 13, 99, -1, 0, 1, 9},
			[][2]int64{{0, 0}, {5, 1}}},
		{"jump immediate", []int64{3, 3, 1105, -1, 9, 1101, 0, 0, 12, 4, 12, 99, 1},
			[][2]int64{{0, 0}, {-5, 1}}},
		{"compare to 8", []int64{
			3, 21, 1008, 21, 8, 20, 1005, 20, 22, 107, 8, 21, 20, 1006, 20, 31,
			1106, 0, 36, 98, 0, 0, 1002, 21, 125, 20, 4, 20, 1105, 1, 46, 104,
			999, 1105, 1, 46, 1101, 1000, 1, 20, 4, 20, 1105, 1, 46, 98, 99,
		}, [][2]int64{{7, 999}, {8, 1000}, {9, 1001}}},
	} {
		for _, io := range tc.io {
			testCases = append(testCases,
				machineTest(fmt.Sprintf("%v given %v", tc.name, io[0]), tc.program...).
					withInput(io[0]).expectOutput(io[1]))
		}
	}

	// large values and memory growth
	quine := []int64{109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99}
	testCases = append(testCases,
		machineTest("quine", quine...).expectOutput(quine...),
		machineTest("large mul", 1102, 34915192, 34915192, 7, 4, 7, 99, 0).expectOutput(1219070632396864),
		machineTest("large literal", 104, 1125899906842624, 99).expectOutput(1125899906842624),
		machineTest("far store", 1101, 7, 8, 1000000, 4, 1000000, 99).
			expectOutput(15).expectMemAt(999998, 0, 0, 15, 0),
		machineTest("far load", 4, 5000, 99).expectOutput(0),
		machineTest("far load dump", 4, 1099511627776, 99).
			expectOutput(0).
			expectDump(
				"# Machine intcode",
				"  pc: 3",
				"  base: 0",
				"  steps: 2",
				"  halted: true",
				"  input: []",
				"  output: []",
				"# Memory",
				"  @0             out [1099511627776]",
				"  @2             halt",
				"> @3             0 x1099511627774",
			),
		machineTest("far jump dump", 1105, 1, 1000000).
			expectFault(1000000, OpcodeError(0)).
			expectDump(
				"# Machine intcode",
				"  pc: 1000000",
				"  base: 0",
				"  steps: 1",
				"  halted: true",
				"  error: fault @1000000: unknown opcode 0",
				"  input: []",
				"  output: []",
				"# Memory",
				"  @0       jnz 1, 1000000",
				"  @3       0 x999997",
				"> @1000000 0",
			),
		machineTest("small pages", 1101, 7, 8, 300, 4, 300, 99).
			withOptions(WithPageSize(8)).expectOutput(15),
		machineTest("patched", 1, 0, 0, 0, 99).
			withOptions(WithPatch(1, 4, 4)).expectMemAt(0, 198, 4, 4, 0, 99),
	)

	// faults
	testCases = append(testCases,
		machineTest("unknown opcode", 42).expectFault(0, OpcodeError(42)),
		machineTest("negative opcode", 1101, 0, 0, 3, -1).expectFault(4, OpcodeError(-1)),
		machineTest("zero opcode", 1101, 1, 1, 6, 0).expectFault(4, OpcodeError(0)),
		machineTest("unknown mode", 301, 0, 0, 0, 99).expectFault(0, ModeError(3)),
		machineTest("immediate destination", 11101, 1, 1, 1, 99).expectFault(0, ErrImmediateWrite),
		machineTest("immediate input destination", 103, 0, 99).expectFault(0, ErrImmediateWrite),
		machineTest("negative position", 1, -1, 0, 0, 99).expectFault(0, AddressError(-1)),
		machineTest("negative relative", 109, -1, 204, 0, 99).expectFault(2, AddressError(-1)),
		machineTest("negative jump", 1105, 1, -5).expectFault(-5, AddressError(-5)),
		machineTest("negative patch", 99).withOptions(WithPatch(-2, 0)).expectFault(0, AddressError(-2)),
		machineTest("memory limit", 1101, 7, 8, 1000, 4, 1000, 99).
			withOptions(WithMemLimit(100)).
			expectFault(0, mem.LimitError{Addr: 1000, Limit: 100, Op: "stor"}),
	)

	testCases.run(t)
}

func TestMachine_resume(t *testing.T) {
	ctx := context.Background()
	m := New([]int64{3, 0, 4, 0, 99})

	st, err := m.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, NeedsInput, st)
	assert.Equal(t, int64(0), m.PC(), "expected pc to stay at the input instruction")
	assert.Equal(t, uint64(0), m.Steps())

	_, err = m.PopOutput()
	assert.Equal(t, ErrOutputUnderflow, err)

	st, err = m.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, NeedsInput, st, "expected starvation to repeat")

	m.PushInput(5)
	assert.Equal(t, 1, m.PendingInput())
	st, err = m.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, ProducedOutput, st)
	assert.False(t, m.Halted())
	val, err := m.PopOutput()
	require.NoError(t, err)
	assert.Equal(t, int64(5), val)

	st, err = m.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, Halted, st)
	assert.True(t, m.Halted())
	steps := m.Steps()

	st, err = m.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Halted, st, "expected halt to be terminal")
	assert.Equal(t, steps, m.Steps(), "expected nothing to run after halt")
}

func TestMachine_outputQueue(t *testing.T) {
	ctx := context.Background()
	m := New([]int64{104, 1, 104, 2, 104, 3, 99})
	for i := 0; i < 3; i++ {
		st, err := m.Run(ctx)
		require.NoError(t, err)
		require.Equal(t, ProducedOutput, st, "expected one output per run")
	}
	for _, want := range []int64{1, 2, 3} {
		val, err := m.PopOutput()
		require.NoError(t, err)
		assert.Equal(t, want, val, "expected outputs in order")
	}
	_, err := m.PopOutput()
	assert.Equal(t, ErrOutputUnderflow, err)
}

func TestMachine_stickyFault(t *testing.T) {
	ctx := context.Background()
	m := New([]int64{104, 1, 42})

	st, err := m.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, ProducedOutput, st)

	st, err = m.Run(ctx)
	require.Equal(t, Halted, st)
	require.EqualError(t, err, "fault @2: unknown opcode 42")

	st, err2 := m.Run(ctx)
	assert.Equal(t, Halted, st)
	assert.Equal(t, err, err2, "expected the same fault again")
	assert.Equal(t, err, m.Err())

	val, err := m.PopOutput()
	require.NoError(t, err, "expected output before the fault to survive")
	assert.Equal(t, int64(1), val)
}

func TestMachine_canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := New([]int64{1105, 1, 0})
	st, err := m.Run(ctx)
	assert.Equal(t, Halted, st)
	assert.True(t, errors.Is(err, context.Canceled), "expected cancellation, got %v", err)
}

func TestMachine_independent(t *testing.T) {
	ctx := context.Background()
	program := []int64{3, 7, 1001, 7, 1, 7, 99, 0}
	a := New(program)
	b := New(program)

	_, _, err := a.RunAll(ctx, 10)
	require.NoError(t, err)
	_, _, err = b.RunAll(ctx, 20)
	require.NoError(t, err)

	av, _ := a.PeekMemory(7)
	bv, _ := b.PeekMemory(7)
	assert.Equal(t, int64(11), av)
	assert.Equal(t, int64(21), bv)
	assert.Equal(t, []int64{3, 7, 1001, 7, 1, 7, 99, 0}, program, "expected program to be copied")
}

func TestMachine_arithmetic(t *testing.T) {
	ctx := context.Background()
	values := []int64{0, 1, -1, 7, -13, 1 << 40, -(1 << 40)}
	for _, a := range values {
		for _, b := range values {
			for _, tc := range []struct {
				code Opcode
				want int64
			}{
				{OpAdd, a + b},
				{OpMul, a * b},
				{OpLessThan, boolCell(a < b)},
				{OpEquals, boolCell(a == b)},
			} {
				for run := 0; run < 2; run++ {
					m := New([]int64{int64(tc.code), 5, 6, 7, 99, a, b, -99})
					_, st, err := m.RunAll(ctx)
					require.NoError(t, err)
					require.Equal(t, Halted, st)
					got, _ := m.PeekMemory(7)
					assert.Equal(t, tc.want, got, "%v %v %v", tc.code, a, b)
					for addr, want := range []int64{int64(tc.code), 5, 6, 7, 99, a, b} {
						got, _ := m.PeekMemory(int64(addr))
						assert.Equal(t, want, got, "expected only the destination to change")
					}
				}
			}
		}
	}
}

func TestMachine_trace(t *testing.T) {
	var lines []string
	m := New([]int64{1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50}, WithLogf(func(mess string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(mess, args...))
	}))
	_, _, err := m.RunAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"\t@ 0 add [9], [10], [3] -- base:0 in:0",
		"\t@ 4 mul [3], [11], [0] -- base:0 in:0",
		"\t@ 8 halt -- base:0 in:0",
		"\t# @8 halt",
	}, lines)
}

func TestMachine_memorySize(t *testing.T) {
	m := New([]int64{1101, 7, 8, 1000, 99})
	assert.Equal(t, int64(5), m.MemorySize())
	_, _, err := m.RunAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1001), m.MemorySize())
}

func TestDisassemble(t *testing.T) {
	var out strings.Builder
	require.NoError(t, Disassemble(&out, []int64{109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99, 0, 0, 0, 0, 3}))
	assert.Equal(t, strings.Join([]string{
		"  @0  arb 1",
		"  @2  out [rb-1]",
		"  @4  add [100], 1, [100]",
		"  @8  eq [100], 16, [101]",
		"  @12 jz [101], 0",
		"  @15 halt",
		"  @16 0 x4",
		"  @20 3",
		"",
	}, "\n"), out.String())
}

func TestDecode(t *testing.T) {
	for _, tc := range []struct {
		cell  int64
		code  Opcode
		modes [maxParams]Mode
		err   error
	}{
		{cell: 1, code: OpAdd},
		{cell: 1002, code: OpMul, modes: [maxParams]Mode{Position, Immediate, Position}},
		{cell: 21101, code: OpAdd, modes: [maxParams]Mode{Immediate, Immediate, Relative}},
		{cell: 204, code: OpOutput, modes: [maxParams]Mode{Relative}},
		{cell: 99, code: OpHalt},
		{cell: 399, code: OpHalt, err: ModeError(3)},
		{cell: 100001, code: OpAdd, err: ModeError(1)},
		{cell: -1, err: OpcodeError(-1)},
	} {
		t.Run(fmt.Sprint(tc.cell), func(t *testing.T) {
			ins, err := decode(tc.cell)
			assert.Equal(t, tc.err, err)
			if tc.err == nil {
				assert.Equal(t, tc.code, ins.code)
				assert.Equal(t, tc.modes, ins.modes)
			}
		})
	}

	assert.Equal(t, 3, OpAdd.Arity())
	assert.Equal(t, 0, OpHalt.Arity())
	assert.Equal(t, -1, Opcode(42).Arity())
	assert.Equal(t, "jnz", OpJumpIfTrue.String())
	assert.Equal(t, "Opcode(42)", Opcode(42).String())
	assert.Equal(t, "relative", Relative.String())
}
