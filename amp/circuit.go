// Package amp wires Intcode machines into amplifier circuits: a pipeline
// where each stage's output is the next stage's input, optionally closed
// into a feedback loop.
package amp

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/jcorbin/intcode"
)

// ErrNoStages is returned when running a circuit built without phases.
var ErrNoStages = errors.New("circuit has no stages")

// StageError reports a stage that did not behave like an amplifier.
type StageError struct {
	Stage  int
	Status intcode.Status
}

func (se StageError) Error() string {
	return fmt.Sprintf("amplifier %v %v without producing a signal", StageName(se.Stage), se.Status)
}

// StageName names stage i the way the puzzle does: A, B, C...
func StageName(i int) string {
	if i >= 0 && i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("#%v", i)
}

// Circuit is a chain of machines, one per phase setting.
type Circuit struct {
	// Feedback routes the last stage's output back into the first stage,
	// repeating passes until the last stage halts.
	Feedback bool

	stages []*intcode.Machine
	passes int
}

// New builds one machine per phase, each running its own copy of program
// and given its phase as first input.
func New(program []int64, phases []int64, opts ...intcode.Option) *Circuit {
	c := &Circuit{stages: make([]*intcode.Machine, len(phases))}
	for i, phase := range phases {
		c.stages[i] = intcode.New(program, intcode.Options(
			intcode.Options(opts...),
			intcode.WithName("amp "+StageName(i)),
			intcode.WithInput(phase),
		))
	}
	return c
}

// NewFeedback is like New, but builds a feedback circuit.
func NewFeedback(program []int64, phases []int64, opts ...intcode.Option) *Circuit {
	c := New(program, phases, opts...)
	c.Feedback = true
	return c
}

// Stages returns the circuit's machines, first stage first.
func (c *Circuit) Stages() []*intcode.Machine { return c.stages }

// Passes returns how many times a signal has gone through the whole chain.
func (c *Circuit) Passes() int { return c.passes }

// Run feeds signal into the first stage and passes it along the chain,
// returning the last value output by the final stage.
func (c *Circuit) Run(ctx context.Context, signal int64) (int64, error) {
	if len(c.stages) == 0 {
		return 0, ErrNoStages
	}
	last := len(c.stages) - 1
	var out int64
	have := false
	for {
		for i, m := range c.stages {
			val, st, err := c.drive(ctx, m, signal)
			if err != nil {
				return 0, errors.Wrapf(err, "amplifier %v", StageName(i))
			}
			if st == intcode.ProducedOutput {
				signal = val
				continue
			}
			if st == intcode.NeedsInput || !c.Feedback {
				return 0, StageError{Stage: i, Status: st}
			}
			// a halt ends the loop; let the rest of the chain wind down
			return c.settle(ctx, i+1, out, have)
		}
		c.passes++
		out, have = signal, true
		if !c.Feedback || c.stages[last].Halted() {
			return out, nil
		}
	}
}

// drive gives one signal to a stage and runs it until it produces its next
// output, halts, or starves.
func (c *Circuit) drive(ctx context.Context, m *intcode.Machine, signal int64) (int64, intcode.Status, error) {
	if m.Halted() {
		return 0, intcode.Halted, m.Err()
	}
	m.PushInput(signal)
	st, err := m.Run(ctx)
	if err != nil || st != intcode.ProducedOutput {
		return 0, st, err
	}
	val, err := m.PopOutput()
	return val, st, err
}

// settle runs stages from i onward to completion without new signal, passing
// along any stray output, once an earlier stage has halted.
func (c *Circuit) settle(ctx context.Context, i int, out int64, have bool) (int64, error) {
	last := len(c.stages) - 1
	for ; i <= last; i++ {
		outputs, st, err := c.stages[i].RunAll(ctx)
		if err != nil {
			return 0, errors.Wrapf(err, "amplifier %v", StageName(i))
		}
		if st != intcode.Halted {
			return 0, StageError{Stage: i, Status: st}
		}
		if len(outputs) == 0 {
			continue
		}
		if i == last {
			out, have = outputs[len(outputs)-1], true
		} else {
			c.stages[i+1].PushInput(outputs...)
		}
	}
	if !have {
		return 0, StageError{Stage: last, Status: intcode.Halted}
	}
	return out, nil
}
