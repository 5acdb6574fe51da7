// Package diag carries the compiler's diagnostic types. Every pass is a
// pure function returning (NextIR, *Error); the driver prints the first
// error and exits with status 1 (spec.md §7). A Collector is provided for
// passes that fan out work across goroutines (per-function codegen) and need
// to gather whichever error arrives first.
package diag

import (
	"fmt"
	"sync"

	"mirc/internal/ident"
)

// Kind differentiates the class of a diagnostic, per spec.md §7.
type Kind int

const (
	LexError Kind = iota
	SyntaxError
	UnresolvedName
	TypeError
	CodegenError
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case SyntaxError:
		return "syntax error"
	case UnresolvedName:
		return "unresolved name"
	case TypeError:
		return "type error"
	case CodegenError:
		return "codegen error"
	default:
		return "error"
	}
}

// Error is a fatal compiler diagnostic. Exactly one is ever surfaced to the
// CLI driver: the pipeline has no multi-error recovery (spec.md Non-goals).
type Error struct {
	Kind Kind
	Span ident.Span
	Msg  string
}

func New(kind Kind, span ident.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Span: span, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Span, e.Msg)
}

// Collector gathers errors reported by concurrent worker goroutines and lets
// the caller retrieve the first one once all workers have finished. Modeled
// on the teacher's util.perror: a goroutine owns the buffer so appends never
// race, and Append/Stop mirror perror's channel-based protocol exactly.
type Collector struct {
	listen chan *Error
	stop   chan struct{}
	done   chan struct{}
	mu     sync.Mutex
	errs   []*Error
}

// NewCollector starts the background listener goroutine and returns a ready
// Collector. Callers must call Stop exactly once after all producers have
// finished sending.
func NewCollector() *Collector {
	c := &Collector{
		listen: make(chan *Error),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Collector) run() {
	defer close(c.done)
	for {
		select {
		case err := <-c.listen:
			c.mu.Lock()
			c.errs = append(c.errs, err)
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

// Append sends err to the listener. A nil error is ignored.
func (c *Collector) Append(err *Error) {
	if err != nil {
		c.listen <- err
	}
}

// Stop terminates the listener goroutine and blocks until it has exited.
func (c *Collector) Stop() {
	close(c.stop)
	<-c.done
}

// Errors returns every error collected so far, in arrival order.
func (c *Collector) Errors() []*Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Error, len(c.errs))
	copy(out, c.errs)
	return out
}

// First returns the first collected error, or nil if none were reported.
func (c *Collector) First() *Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs[0]
}
