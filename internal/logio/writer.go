package logio

import (
	"bytes"
	"sync"
)

// Writer is an io.Writer that passes every complete line written to it
// through Logf, without its line feed. It is safe to write from multiple
// goroutines.
type Writer struct {
	Logf func(mess string, args ...interface{})

	mu      sync.Mutex
	partial []byte
}

// Write logs any lines completed by p, holding back a trailing partial line.
func (lw *Writer) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	n := len(p)
	for {
		line, rest, found := bytes.Cut(p, []byte{'\n'})
		lw.partial = append(lw.partial, line...)
		if !found {
			return n, nil
		}
		lw.Logf("%s", lw.partial)
		lw.partial = lw.partial[:0]
		p = rest
	}
}

// Close logs any partial line left over.
func (lw *Writer) Close() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	if len(lw.partial) > 0 {
		lw.Logf("%s", lw.partial)
		lw.partial = lw.partial[:0]
	}
	return nil
}
