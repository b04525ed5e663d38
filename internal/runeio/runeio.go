// Package runeio provides rune reading and ANSI-aware rune writing.
package runeio

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// Reader is an io.Reader that also supports reading runes.
type Reader interface {
	io.Reader
	io.RuneReader
}

// NewReader returns r if it already reads runes, otherwise r wrapped in a
// bufio.Reader.
func NewReader(r io.Reader) Reader {
	if rr, ok := r.(Reader); ok {
		return rr
	}
	return bufio.NewReader(r)
}

// WriteANSIRune writes a rune to the given writer:
//   - ASCII runes are written directly as bytes
//   - NEL is written as the more conventional \r\n
//   - all other C1 controls are written in their 7-bit escape form,
//     e.g. "\x1b[" for CSI
//   - all other runes are written in utf8 form
func WriteANSIRune(w io.Writer, r rune) (int, error) {
	var buf [utf8.UTFMax]byte
	switch {
	case r < 0x80:
		buf[0] = byte(r)
		return w.Write(buf[:1])
	case r == 0x85:
		return io.WriteString(w, "\r\n")
	case r <= 0x9f:
		buf[0], buf[1] = 0x1b, byte(r-0x40)
		return w.Write(buf[:2])
	}
	n := utf8.EncodeRune(buf[:], r)
	return w.Write(buf[:n])
}
