// Package fileinput reads runes through a queue of named input streams,
// tracking the current line for error reporting.
package fileinput

import (
	"fmt"
	"io"

	"github.com/jcorbin/intcode/internal/runeio"
)

// Location names a line in an Input stream.
type Location struct {
	Name string
	Line int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }

// Input implements sequential rune reading through a Queue of one or more
// input streams. Streams are closed once read, if they are io.Closers.
type Input struct {
	Queue []io.Reader

	cur io.Reader
	rr  io.RuneReader
	loc Location
	eol bool // last rune read ended a line
}

// Location returns the position of the most recently read rune; a line feed
// belongs to the line that it ends.
func (in *Input) Location() Location { return in.loc }

// ReadRune reads one rune from the current input stream.
//
// When one stream ends and another is queued, a 0 rune is returned with a
// nil error to mark the boundary; io.EOF is only returned after the last.
func (in *Input) ReadRune() (rune, int, error) {
	if in.rr == nil && !in.next() {
		return 0, 0, io.EOF
	}

	r, n, err := in.rr.ReadRune()
	if err == io.EOF {
		if in.next() {
			return 0, 0, nil
		}
		return 0, 0, io.EOF
	} else if err != nil {
		return r, n, err
	}

	if in.eol {
		in.loc.Line++
	}
	in.eol = r == '\n'
	return r, n, nil
}

// next closes the current stream, and starts reading the next queued one.
func (in *Input) next() bool {
	if cl, ok := in.cur.(io.Closer); ok {
		cl.Close()
	}
	in.cur, in.rr = nil, nil
	if len(in.Queue) == 0 {
		return false
	}
	in.cur = in.Queue[0]
	in.Queue = in.Queue[1:]
	in.rr = runeio.NewReader(in.cur)
	in.loc = Location{Name: nameOf(in.cur), Line: 1}
	in.eol = false
	return true
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
