package intcode

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/jcorbin/intcode/internal/fileinput"
)

// SyntaxError locates a malformed value in program text.
type SyntaxError struct {
	Name  string
	Line  int
	Token string
	Err   error
}

func (se SyntaxError) Error() string {
	return fmt.Sprintf("%v:%v: invalid value %q: %v", se.Name, se.Line, se.Token, se.Err)
}

func (se SyntaxError) Unwrap() error { return se.Err }

var errEmptyValue = errors.New("empty value")

// ParseProgram parses comma-separated decimal values, e.g. "1,9,10,3,99".
func ParseProgram(text string) ([]int64, error) {
	return ReadProgram(NamedReader("<program>", strings.NewReader(text)))
}

// ReadProgram reads all comma-separated values from r. If r has a
// Name() string method, like *os.File, errors are located under that name.
func ReadProgram(r io.Reader) ([]int64, error) {
	vr := NewValueReader(r)
	var program []int64
	for {
		val, err := vr.Next()
		if err == io.EOF {
			return program, nil
		} else if err != nil {
			return nil, errors.Wrap(err, "unable to read program")
		}
		program = append(program, val)
	}
}

// FormatProgram renders values in the form read by ParseProgram.
func FormatProgram(values []int64) string {
	var sb strings.Builder
	for i, val := range values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(val, 10))
	}
	return sb.String()
}

// ValueReader reads decimal values, separated by commas or white space,
// from a sequence of input streams.
type ValueReader struct {
	in    fileinput.Input
	tok   strings.Builder
	loc   fileinput.Location
	count int
	comma bool // a comma followed the last value
}

// NewValueReader returns a ValueReader over the given streams, read in order.
func NewValueReader(rs ...io.Reader) *ValueReader {
	var vr ValueReader
	vr.in.Queue = rs
	return &vr
}

// Next returns the next value, or io.EOF after the last one.
func (vr *ValueReader) Next() (int64, error) {
	vr.tok.Reset()
	for {
		r, _, err := vr.in.ReadRune()
		if err == io.EOF {
			break
		} else if err != nil {
			return 0, err
		}

		if r == ',' {
			if vr.tok.Len() > 0 {
				vr.comma = true
				break
			}
			if vr.count == 0 || vr.comma {
				return 0, vr.syntaxError(vr.in.Location(), ",", errEmptyValue)
			}
			vr.comma = true
			continue
		}

		// zero runes mark the boundary between input streams
		if r == 0 || unicode.IsSpace(r) {
			if vr.tok.Len() > 0 {
				vr.comma = false
				break
			}
			continue
		}

		if vr.tok.Len() == 0 {
			vr.loc = vr.in.Location()
			vr.comma = false
		}
		vr.tok.WriteRune(r)
	}

	if vr.tok.Len() == 0 {
		return 0, io.EOF
	}

	token := vr.tok.String()
	val, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok {
			err = ne.Err
		}
		return 0, vr.syntaxError(vr.loc, token, err)
	}
	vr.count++
	return val, nil
}

// Location returns the name and line of the input being read.
func (vr *ValueReader) Location() (name string, line int) {
	loc := vr.in.Location()
	return loc.Name, loc.Line
}

func (vr *ValueReader) syntaxError(loc fileinput.Location, token string, err error) error {
	return SyntaxError{Name: loc.Name, Line: loc.Line, Token: token, Err: err}
}

// NamedReader attaches a name to r, used to locate errors.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }
