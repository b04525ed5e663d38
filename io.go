package intcode

import (
	"fmt"
	"strings"
)

// queue is an unbounded FIFO of cells.
type queue struct {
	vals []int64
	head int
}

func (q *queue) len() int { return len(q.vals) - q.head }

func (q *queue) push(values ...int64) {
	if q.head > 0 && q.head >= len(q.vals)/2 {
		n := copy(q.vals, q.vals[q.head:])
		q.vals = q.vals[:n]
		q.head = 0
	}
	q.vals = append(q.vals, values...)
}

func (q *queue) pop() (int64, bool) {
	if q.head >= len(q.vals) {
		return 0, false
	}
	val := q.vals[q.head]
	q.head++
	if q.head == len(q.vals) {
		q.vals, q.head = q.vals[:0], 0
	}
	return val, true
}

func (q *queue) peekLast() int64 {
	if i := len(q.vals) - 1; i >= q.head {
		return q.vals[i]
	}
	return 0
}

func (q *queue) drain() []int64 {
	if q.len() == 0 {
		return nil
	}
	vals := append([]int64(nil), q.vals[q.head:]...)
	q.vals, q.head = q.vals[:0], 0
	return vals
}

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

// logf formats a trace line after a mark column, padding marks to the
// widest seen so far.
func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
