// Command intcode runs Intcode programs.
//
// The program is read from the file named by the only argument, or from
// standard input. Output values are printed one per line, or as characters
// under -ascii. Input values come from -input; once those run out, and the
// program was not itself read from standard input, further values are read
// from standard input, prompting for them if it is a terminal.
//
// With -phases or -search the program instead runs as an amplifier circuit,
// and with -noun-verb it is searched for the noun and verb giving a result.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/jcorbin/intcode"
	"github.com/jcorbin/intcode/amp"
	"github.com/jcorbin/intcode/internal/flushio"
	"github.com/jcorbin/intcode/internal/logio"
	"github.com/jcorbin/intcode/internal/runeio"
)

func main() {
	logger := logio.NewLogger(os.Stderr)
	log.SetFlags(0)
	log.SetOutput(&logio.Writer{Logf: logger.Leveledf("TRACE")})

	cfg, err := parseArgs(flag.CommandLine, os.Args[1:])
	if err == nil {
		out := flushio.NewWriteFlusher(os.Stdout)
		err = run(context.Background(), cfg, os.Stdin, out)
		if ferr := out.Flush(); err == nil {
			err = ferr
		}
	}
	logger.ErrorIf(err)
	os.Exit(logger.ExitCode())
}

func run(ctx context.Context, cfg config, stdin *os.File, out io.Writer) error {
	if cfg.Trace {
		log.Printf("config:\n%v", cfg)
	}

	program, err := loadProgram(cfg.Program, stdin)
	if err != nil {
		return err
	}
	if cfg.Disasm {
		return intcode.Disassemble(out, program)
	}

	opts, err := cfg.options(log.Printf)
	if err != nil {
		return err
	}
	if cfg.Timeout.Duration != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout.Duration)
		defer cancel()
	}

	switch {
	case cfg.NounVerb.set:
		noun, verb, err := intcode.FindNounVerb(ctx, program, cfg.NounVerb.val, cfg.NounMax, opts...)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "noun=%v verb=%v answer=%v\n", noun, verb, 100*noun+verb)
		return err

	case len(cfg.Search) > 0:
		search := amp.Search{Feedback: cfg.Feedback, Signal: firstValue(cfg.Input), Options: opts}
		res, err := search.Max(ctx, program, cfg.Search)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%v phases=%v\n", res.Signal, intcode.FormatProgram(res.Phases))
		return err

	case len(cfg.Phases) > 0:
		c := amp.New(program, cfg.Phases, opts...)
		c.Feedback = cfg.Feedback
		signal, err := c.Run(ctx, firstValue(cfg.Input))
		if cfg.Dump {
			for _, m := range c.Stages() {
				if derr := m.Dump(out); err == nil {
					err = derr
				}
			}
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, signal)
		return err
	}

	m := intcode.New(program, append(opts, intcode.WithInput(cfg.Input...))...)
	r := runner{m: m, ascii: cfg.ASCII, out: out}
	if cfg.Program != "" && cfg.Program != "-" {
		r.in = runeio.NewReader(stdin)
		if term.IsTerminal(int(stdin.Fd())) {
			r.prompt = os.Stderr
		}
	}
	err = r.run(ctx)
	if cfg.Dump {
		if derr := m.Dump(out); err == nil {
			err = derr
		}
	}
	return err
}

func loadProgram(name string, stdin io.Reader) ([]int64, error) {
	if name == "" || name == "-" {
		return intcode.ReadProgram(intcode.NamedReader("<stdin>", stdin))
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open program")
	}
	defer f.Close()
	return intcode.ReadProgram(f)
}

func firstValue(vals []int64) int64 {
	if len(vals) > 0 {
		return vals[0]
	}
	return 0
}

// runner drives a single machine against standard input and output.
type runner struct {
	m      *intcode.Machine
	ascii  bool
	out    io.Writer
	in     runeio.Reader // nil if no further input may be read
	prompt io.Writer     // non-nil when in is interactive
	values *intcode.ValueReader
}

func (r *runner) run(ctx context.Context) error {
	for {
		st, err := r.m.Run(ctx)
		if err != nil {
			return err
		}
		switch st {
		case intcode.ProducedOutput:
			if err := r.writeOutputs(); err != nil {
				return err
			}
		case intcode.NeedsInput:
			if err := r.readInput(); err != nil {
				return err
			}
		case intcode.Halted:
			return nil
		}
	}
}

func (r *runner) writeOutputs() error {
	for _, val := range r.m.Outputs() {
		var err error
		if r.ascii && val >= 0 && val <= utf8.MaxRune && utf8.ValidRune(rune(val)) {
			_, err = runeio.WriteANSIRune(r.out, rune(val))
		} else {
			_, err = fmt.Fprintln(r.out, val)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) readInput() error {
	if r.in == nil {
		return errors.Errorf("program needs input @%v, but none was given", r.m.PC())
	}
	if f, ok := r.out.(flushio.WriteFlusher); ok {
		if err := f.Flush(); err != nil {
			return err
		}
	}
	if r.prompt != nil && !r.ascii {
		fmt.Fprint(r.prompt, "? ")
	}

	if r.ascii {
		return r.readLine()
	}

	if r.values == nil {
		r.values = intcode.NewValueReader(intcode.NamedReader("<stdin>", r.in))
	}
	val, err := r.values.Next()
	if err == io.EOF {
		return errors.Errorf("program needs input @%v, but input ended", r.m.PC())
	} else if err != nil {
		return errors.Wrap(err, "unable to read input")
	}
	r.m.PushInput(val)
	return nil
}

// readLine queues one line of input as character codes, newline included.
func (r *runner) readLine() error {
	n := 0
	for {
		c, _, err := r.in.ReadRune()
		if err == io.EOF {
			if n == 0 {
				return errors.Errorf("program needs input @%v, but input ended", r.m.PC())
			}
			return nil
		} else if err != nil {
			return errors.Wrap(err, "unable to read input")
		}
		r.m.PushInput(int64(c))
		n++
		if c == '\n' {
			return nil
		}
	}
}
