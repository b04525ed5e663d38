package intcode

import (
	"context"
	"fmt"
)

// NotFoundError is returned by FindNounVerb when no pair produces the target.
type NotFoundError struct {
	Target int64
	Max    int64
}

func (nf NotFoundError) Error() string {
	return fmt.Sprintf("no noun and verb in [0, %v] yields %v", nf.Max, nf.Target)
}

// RunPatched runs program to completion with cells 1 and 2 replaced by noun
// and verb, returning the final value of cell 0.
func RunPatched(ctx context.Context, program []int64, noun, verb int64, opts ...Option) (int64, error) {
	m := New(program, Options(Options(opts...), WithPatch(1, noun, verb)))
	if _, st, err := m.RunAll(ctx); err != nil {
		return 0, err
	} else if st != Halted {
		return 0, fmt.Errorf("noun %v verb %v: program stopped with %v", noun, verb, st)
	}
	return m.PeekMemory(0)
}

// FindNounVerb searches every noun and verb in [0, max] for a pair for which
// RunPatched yields target. Pairs whose run faults are skipped.
func FindNounVerb(ctx context.Context, program []int64, target, max int64, opts ...Option) (noun, verb int64, err error) {
	for noun = 0; noun <= max; noun++ {
		for verb = 0; verb <= max; verb++ {
			if err := ctx.Err(); err != nil {
				return 0, 0, err
			}
			if val, err := RunPatched(ctx, program, noun, verb, opts...); err == nil && val == target {
				return noun, verb, nil
			}
		}
	}
	return 0, 0, NotFoundError{Target: target, Max: max}
}
