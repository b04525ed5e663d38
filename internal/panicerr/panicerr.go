// Package panicerr runs functions so that a panic, or a runtime.Goexit call,
// comes back as an ordinary error.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Error describes a function run by Recover that did not return normally.
type Error struct {
	Name   string      // as given to Recover
	Value  interface{} // passed to panic
	Stack  []byte      // of the panicking goroutine
	Goexit bool        // runtime.Goexit was called, rather than panic
}

// Recover runs f on a new goroutine and waits for it, returning the error
// that f returned, or an *Error if f panicked or called runtime.Goexit.
func Recover(name string, f func() error) (err error) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		returned := false
		defer func() {
			if returned {
				return
			}
			if v := recover(); v != nil {
				err = &Error{Name: name, Value: v, Stack: debug.Stack()}
			} else {
				err = &Error{Name: name, Goexit: true}
			}
		}()
		err = f()
		returned = true
	}()
	<-done
	return err
}

func (e *Error) Error() string { return fmt.Sprint(e) }

// Format prints the panic stack under the %+v verb.
func (e *Error) Format(f fmt.State, c rune) {
	switch {
	case e.Goexit && e.Name == "":
		fmt.Fprint(f, "runtime.Goexit called")
	case e.Goexit:
		fmt.Fprintf(f, "%v called runtime.Goexit", e.Name)
	case e.Name == "":
		fmt.Fprintf(f, "paniced: %v", e.Value)
	default:
		fmt.Fprintf(f, "%v paniced: %v", e.Name, e.Value)
	}
	if c == 'v' && f.Flag('+') && len(e.Stack) > 0 {
		fmt.Fprintf(f, "\nPanic stack: %s", e.Stack)
	}
}

// Unwrap returns the panic value if it was an error.
func (e *Error) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsExit returns true if err indicates a recovered goroutine exit.
func IsExit(err error) bool {
	e := asError(err)
	return e != nil && e.Goexit
}

// IsPanic returns true if err indicates a recovered panic.
func IsPanic(err error) bool {
	e := asError(err)
	return e != nil && !e.Goexit
}

// PanicValue returns the value passed to panic, if err is a recovered panic.
func PanicValue(err error) interface{} {
	if e := asError(err); e != nil {
		return e.Value
	}
	return nil
}

// PanicStack returns the stack trace of a recovered panic, or "".
func PanicStack(err error) string {
	if e := asError(err); e != nil {
		return string(e.Stack)
	}
	return ""
}
