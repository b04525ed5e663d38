package intcode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type machineTestCases []machineTestCase

func (mts machineTestCases) run(t *testing.T) {
	for _, mt := range mts {
		t.Run(mt.name, mt.run)
	}
}

func machineTest(name string, program ...int64) (mt machineTestCase) {
	mt.name = name
	mt.program = program
	return mt
}

type machineTestCase struct {
	name    string
	program []int64
	opts    []Option
	input   []int64
	timeout time.Duration

	wantStatus Status
	wantErr    error
	expect     []func(t *testing.T, m *testMachine)
}

func (mt machineTestCase) withOptions(opts ...Option) machineTestCase {
	mt.opts = append(mt.opts, opts...)
	return mt
}

func (mt machineTestCase) withInput(values ...int64) machineTestCase {
	mt.input = append(mt.input, values...)
	return mt
}

func (mt machineTestCase) expectStatus(st Status) machineTestCase {
	mt.wantStatus = st
	return mt
}

func (mt machineTestCase) expectError(err error) machineTestCase {
	mt.wantErr = err
	return mt
}

func (mt machineTestCase) expectFault(pc int64, err error) machineTestCase {
	mt = mt.expectError(err)
	mt.expect = append(mt.expect, func(t *testing.T, m *testMachine) {
		var fe FaultError
		if assert.True(t, errors.As(m.Err(), &fe), "expected a FaultError, got %T", m.Err()) {
			assert.Equal(t, pc, fe.PC, "expected fault address")
		}
		assert.True(t, m.Halted(), "expected a faulted machine to be halted")
	})
	return mt
}

func (mt machineTestCase) expectOutput(values ...int64) machineTestCase {
	mt.expect = append(mt.expect, func(t *testing.T, m *testMachine) {
		assert.Equal(t, values, m.outputs, "expected output values")
	})
	return mt
}

func (mt machineTestCase) expectMemAt(addr int64, values ...int64) machineTestCase {
	mt.expect = append(mt.expect, func(t *testing.T, m *testMachine) {
		buf := make([]int64, len(values))
		for i := range buf {
			val, err := m.PeekMemory(addr + int64(i))
			require.NoError(t, err, "unexpected peek error @%v", addr+int64(i))
			buf[i] = val
		}
		assert.Equal(t, values, buf, "expected memory values @%v", addr)
	})
	return mt
}

func (mt machineTestCase) expectPC(pc int64) machineTestCase {
	mt.expect = append(mt.expect, func(t *testing.T, m *testMachine) {
		assert.Equal(t, pc, m.PC(), "expected program counter")
	})
	return mt
}

func (mt machineTestCase) expectBase(base int64) machineTestCase {
	mt.expect = append(mt.expect, func(t *testing.T, m *testMachine) {
		assert.Equal(t, base, m.RelativeBase(), "expected relative base")
	})
	return mt
}

func (mt machineTestCase) expectDump(lines ...string) machineTestCase {
	mt.expect = append(mt.expect, func(t *testing.T, m *testMachine) {
		var out strings.Builder
		require.NoError(t, m.Dump(&out))
		assert.Equal(t, strings.Join(lines, "\n")+"\n", out.String(), "expected dump")
	})
	return mt
}

func (mt machineTestCase) run(t *testing.T) {
	const defaultTimeout = time.Second
	timeout := mt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var trace []string
	opts := append([]Option{WithLogf(func(mess string, args ...interface{}) {
		trace = append(trace, fmt.Sprintf(mess, args...))
	})}, mt.opts...)
	tm := &testMachine{Machine: New(mt.program, opts...)}

	defer func() {
		if t.Failed() {
			for _, line := range trace {
				t.Log(line)
			}
			var out strings.Builder
			tm.Dump(&out)
			t.Log(out.String())
		}
	}()

	st, err := tm.runAll(ctx, mt.input...)
	if mt.wantErr != nil {
		assert.True(t, errors.Is(err, mt.wantErr), "expected error: %v\ngot: %+v", mt.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected machine error")
	}
	wantStatus := mt.wantStatus
	if wantStatus == running {
		wantStatus = Halted
	}
	assert.Equal(t, wantStatus, st, "expected final status")

	for _, expect := range mt.expect {
		expect(t, tm)
	}
}

// testMachine retains every output collected while running.
type testMachine struct {
	*Machine
	outputs []int64
}

func (tm *testMachine) runAll(ctx context.Context, input ...int64) (Status, error) {
	outputs, st, err := tm.RunAll(ctx, input...)
	tm.outputs = append(tm.outputs, outputs...)
	return st, err
}
