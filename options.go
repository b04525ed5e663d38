package intcode

// Option configures a Machine under construction.
type Option interface{ apply(m *Machine) }

// Options combines any number of options into one, applied in order.
// Nil options are skipped.
func Options(opts ...Option) Option {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, impl)
		}
	}
	return res
}

type options []Option

func (opts options) apply(m *Machine) {
	for _, opt := range opts {
		opt.apply(m)
	}
}

// WithInput queues values as the first inputs, e.g. an amplifier phase.
func WithInput(values ...int64) Option { return inputOption(values) }

// WithName names the machine in trace logs and recovered panics.
func WithName(name string) Option { return nameOption(name) }

// WithLogf enables trace logging of every executed instruction.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

// WithMemLimit sets the highest address the program may use; 0 means
// unlimited.
func WithMemLimit(limit uint) Option { return memLimitOption(limit) }

// WithPageSize sets the size of memory pages allocated on demand.
func WithPageSize(size uint) Option { return pageSizeOption(size) }

// WithPatch overwrites program cells starting at addr once the program is
// loaded, like restoring the "1202 program alarm" state.
func WithPatch(addr int64, values ...int64) Option { return patch{addr, values} }

type inputOption []int64
type nameOption string
type withLogfn func(mess string, args ...interface{})
type memLimitOption uint
type pageSizeOption uint

type patch struct {
	addr   int64
	values []int64
}

func (values inputOption) apply(m *Machine) { m.in.push(values...) }
func (name nameOption) apply(m *Machine)    { m.name = string(name) }
func (logfn withLogfn) apply(m *Machine)    { m.logfn = logfn }
func (lim memLimitOption) apply(m *Machine) { m.mem.Limit = uint(lim) }
func (size pageSizeOption) apply(m *Machine) {
	m.mem.PageSize = uint(size)
}
func (p patch) apply(m *Machine) { m.patches = append(m.patches, p) }
