package internal

import (
	"fmt"
	"io"
	"os"
)

type runError struct {
	err  error
	line int
}

// runState stores the state of a single compile-and-interpret run
type runState struct {
	source  string
	tokens  []token
	code    []instruction
	symbols *symbolTable
	errors  []runError

	diag io.Writer
}

func newRunState(source string, diag io.Writer) *runState {
	if diag == nil {
		diag = os.Stderr
	}
	return &runState{
		source:  source,
		symbols: newSymbolTable(),
		errors:  make([]runError, 0),
		diag:    diag,
	}
}

func (s *runState) setError(err error, line int) {
	s.errors = append(s.errors, runError{err: err, line: line})
}

// fatalError records err and aborts the current stage. The panic is
// recovered at the stage boundary in run.go.
func (s *runState) fatalError(err error, line int) {
	s.errors = append(s.errors, runError{err: err, line: line})
	panic(err)
}

func (s *runState) valid() bool {
	return len(s.errors) == 0
}

// printErrors reports all recorded errors and returns true if there
// were any.
func (s *runState) printErrors() bool {
	for _, e := range s.errors {
		fmt.Fprintf(s.diag, "Error on line %d: %v\n", e.line, e.err)
	}
	return len(s.errors) > 0
}
