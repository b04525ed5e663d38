package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/jcorbin/intcode"
)

// config holds every setting of a run; it may be loaded from a TOML file,
// with flags given on the command line taking precedence.
type config struct {
	Program  string   `toml:"program"`
	Input    values   `toml:"input"`
	ASCII    bool     `toml:"ascii"`
	Phases   values   `toml:"phases"`
	Feedback bool     `toml:"feedback"`
	Search   values   `toml:"search"`
	Patch    patches  `toml:"patch"`
	NounVerb target   `toml:"noun-verb"`
	NounMax  int64    `toml:"noun-verb-max"`
	Dump     bool     `toml:"dump"`
	Disasm   bool     `toml:"disasm"`
	Trace    bool     `toml:"trace"`
	MemLimit uint     `toml:"mem-limit"`
	Timeout  duration `toml:"timeout"`
}

func (cfg *config) flags(fs *flag.FlagSet) {
	fs.Var(&cfg.Input, "input", "comma separated `values` queued as program input")
	fs.BoolVar(&cfg.ASCII, "ascii", cfg.ASCII, "print output values as characters, and read input lines as characters")
	fs.Var(&cfg.Phases, "phases", "run an amplifier circuit with the given phase `settings`")
	fs.BoolVar(&cfg.Feedback, "feedback", cfg.Feedback, "loop the amplifier circuit back on itself")
	fs.Var(&cfg.Search, "search", "find the ordering of phase `settings` that produces the highest signal")
	fs.Var(&cfg.Patch, "patch", "overwrite cells after loading, like `addr=value,...`; may be repeated")
	fs.Var(&cfg.NounVerb, "noun-verb", "search for the noun and verb that leave `target` in cell 0")
	fs.Int64Var(&cfg.NounMax, "noun-verb-max", cfg.NounMax, "largest noun and verb to try")
	fs.BoolVar(&cfg.Dump, "dump", cfg.Dump, "dump machine state after running")
	fs.BoolVar(&cfg.Disasm, "disasm", cfg.Disasm, "print a disassembly of the program instead of running it")
	fs.BoolVar(&cfg.Trace, "trace", cfg.Trace, "enable trace logging")
	fs.UintVar(&cfg.MemLimit, "mem-limit", cfg.MemLimit, "highest memory address a program may use")
	fs.Var(&cfg.Timeout, "timeout", "specify a time limit")
}

// parseArgs parses command line flags. If a config file is named, it is
// loaded first, and then the command line is parsed again on top of it.
func parseArgs(fs *flag.FlagSet, args []string) (cfg config, err error) {
	var configFile string
	cfg.NounMax = 99
	fs.StringVar(&configFile, "config", "", "load settings from a TOML `file`")
	cfg.flags(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if configFile != "" {
		file := config{NounMax: 99}
		if _, err := toml.DecodeFile(configFile, &file); err != nil {
			return cfg, errors.Wrapf(err, "unable to load config %q", configFile)
		}
		cfg = file
		if err := fs.Parse(args); err != nil {
			return cfg, err
		}
	}
	if fs.NArg() > 1 {
		return cfg, errors.Errorf("expected at most one program file, got %q", fs.Args())
	} else if fs.NArg() == 1 {
		cfg.Program = fs.Arg(0)
	}
	return cfg, nil
}

// options returns the machine options common to every mode.
func (cfg config) options(logf func(mess string, args ...interface{})) ([]intcode.Option, error) {
	var opts []intcode.Option
	if cfg.Trace {
		opts = append(opts, intcode.WithLogf(logf))
	}
	if cfg.MemLimit != 0 {
		opts = append(opts, intcode.WithMemLimit(cfg.MemLimit))
	}
	for _, arg := range cfg.Patch {
		opt, err := parsePatch(arg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

func parsePatch(arg string) (intcode.Option, error) {
	i := strings.IndexByte(arg, '=')
	if i < 0 {
		return nil, errors.Errorf("invalid patch %q, expected addr=value,...", arg)
	}
	addr, err := strconv.ParseInt(strings.TrimSpace(arg[:i]), 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid patch address %q", arg[:i])
	}
	vals, err := intcode.ParseProgram(arg[i+1:])
	if err != nil {
		return nil, errors.Wrapf(err, "invalid patch %q", arg)
	}
	return intcode.WithPatch(addr, vals...), nil
}

// values is a flag.Value holding a comma separated list.
type values []int64

func (vs values) String() string { return intcode.FormatProgram(vs) }

func (vs *values) Set(s string) error {
	vals, err := intcode.ParseProgram(s)
	if err != nil {
		return err
	}
	*vs = vals
	return nil
}

// patches is a flag.Value that accumulates every -patch given.
type patches []string

func (ps patches) String() string { return strings.Join(ps, " ") }

func (ps *patches) Set(s string) error {
	if _, err := parsePatch(s); err != nil {
		return err
	}
	*ps = append(*ps, s)
	return nil
}

// target is an int64 that remembers whether it was given at all, so that 0
// is a valid target.
type target struct {
	val int64
	set bool
}

func (tg target) String() string {
	if !tg.set {
		return ""
	}
	return strconv.FormatInt(tg.val, 10)
}

func (tg *target) Set(s string) error {
	val, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return err
	}
	*tg = target{val: val, set: true}
	return nil
}

func (tg *target) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*tg = target{}
		return nil
	}
	return tg.Set(string(text))
}

func (tg target) MarshalText() ([]byte, error) { return []byte(tg.String()), nil }

// duration reads like time.ParseDuration from both flags and TOML strings.
type duration struct{ time.Duration }

func (d duration) String() string { return d.Duration.String() }

func (d *duration) Set(s string) (err error) {
	d.Duration, err = time.ParseDuration(s)
	return err
}

func (d *duration) UnmarshalText(text []byte) error { return d.Set(string(text)) }
func (d duration) MarshalText() ([]byte, error)     { return []byte(d.String()), nil }

func (cfg config) String() string {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return sb.String()
}
