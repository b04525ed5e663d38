package amp

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/jcorbin/intcode"
)

// Permutations returns every ordering of values, generated by Heap's
// algorithm. The first is values itself.
func Permutations(values []int64) [][]int64 {
	perm := append([]int64(nil), values...)
	res := [][]int64{append([]int64(nil), perm...)}
	c := make([]int, len(perm))
	for i := 1; i < len(perm); {
		if c[i] < i {
			if i%2 == 0 {
				perm[0], perm[i] = perm[i], perm[0]
			} else {
				perm[c[i]], perm[i] = perm[i], perm[c[i]]
			}
			res = append(res, append([]int64(nil), perm...))
			c[i]++
			i = 1
		} else {
			c[i] = 0
			i++
		}
	}
	return res
}

// Search looks for the phase ordering that yields the highest signal.
type Search struct {
	// Feedback searches feedback circuits rather than pipelines.
	Feedback bool

	// Signal is the initial input to the first stage.
	Signal int64

	// Limit bounds how many circuits are evaluated at once; each circuit is
	// still driven one stage at a time. Zero means runtime.GOMAXPROCS.
	Limit int

	// Options are given to every machine.
	Options []intcode.Option
}

// Result is the best signal found and the phases producing it.
type Result struct {
	Signal int64
	Phases []int64
}

// Max runs program in a circuit for every ordering of settings, returning
// the highest final signal. Ties go to the earliest ordering.
func (s Search) Max(ctx context.Context, program []int64, settings []int64) (Result, error) {
	perms := Permutations(settings)
	signals := make([]int64, len(perms))

	limit := s.Limit
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, phases := range perms {
		eg.Go(func() error {
			c := New(program, phases, s.Options...)
			c.Feedback = s.Feedback
			signal, err := c.Run(ctx, s.Signal)
			if err != nil {
				return errors.Wrapf(err, "phases %v", phases)
			}
			signals[i] = signal
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Result{}, err
	}

	var best Result
	for i, signal := range signals {
		if best.Phases == nil || signal > best.Signal {
			best = Result{Signal: signal, Phases: perms[i]}
		}
	}
	return best, nil
}
