package logio_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/intcode/internal/logio"
)

func TestLogger(t *testing.T) {
	var out strings.Builder
	log := logio.NewLogger(&out)

	trace := log.Leveledf("TRACE")
	trace("@%v %v", 0, "add [9], [10], [3]")
	log.Printf("", "plain")
	assert.Equal(t, 0, log.ExitCode(), "expected no error yet")

	log.ErrorIf(nil)
	log.ErrorIf(errors.New("bang"))
	assert.Equal(t, 1, log.ExitCode(), "expected error exit code")

	assert.Equal(t, strings.Join([]string{
		"TRACE: @0 add [9], [10], [3]",
		"plain",
		"ERROR: bang",
		"",
	}, "\n"), out.String())
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("no space") }

func TestLogger_outputFailure(t *testing.T) {
	log := logio.NewLogger(failWriter{})
	log.Printf("INFO", "lost")
	assert.Equal(t, 2, log.ExitCode())
}

func TestWriter(t *testing.T) {
	var lines []string
	w := &logio.Writer{Logf: func(mess string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(mess, args...))
	}}
	fmt.Fprintf(w, "one\ntw")
	fmt.Fprintf(w, "o\nthree")
	assert.Equal(t, []string{"one", "two"}, lines)
	assert.NoError(t, w.Close())
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}
