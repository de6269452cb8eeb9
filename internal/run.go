package internal

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
)

// Toolchain wires the three stages together: lexical scan, parse with
// postfix emission, interpretation. Streams are injected through
// options so the driver and the tests share the same entry point.
type Toolchain struct {
	in       io.Reader
	out      io.Writer
	prompt   io.Writer
	diag     io.Writer
	listings io.Writer
}

type Option interface{ apply(t *Toolchain) }

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type promptOption struct{ io.Writer }
type diagOption struct{ io.Writer }
type listingsOption struct{ io.Writer }

// WithInput sets the stream the interpreter reads 'input' values from.
func WithInput(r io.Reader) Option { return inputOption{r} }

// WithOutput sets the stream 'output' values are written to.
func WithOutput(w io.Writer) Option { return outputOption{w} }

// WithPrompt sets the stream input prompts are written to, kept
// separate from the output stream so program output stays clean.
func WithPrompt(w io.Writer) Option { return promptOption{w} }

// WithDiagnostics sets the stream error reports are written to.
func WithDiagnostics(w io.Writer) Option { return diagOption{w} }

// WithListings enables the token, postfix and symbol-table listings on
// the given stream.
func WithListings(w io.Writer) Option { return listingsOption{w} }

func (o inputOption) apply(t *Toolchain)    { t.in = o.Reader }
func (o outputOption) apply(t *Toolchain)   { t.out = o.Writer }
func (o promptOption) apply(t *Toolchain)   { t.prompt = o.Writer }
func (o diagOption) apply(t *Toolchain)     { t.diag = o.Writer }
func (o listingsOption) apply(t *Toolchain) { t.listings = o.Writer }

var defaults = []Option{
	WithInput(bytes.NewReader(nil)),
	WithOutput(ioutil.Discard),
	WithPrompt(ioutil.Discard),
	WithDiagnostics(os.Stderr),
}

func New(opts ...Option) *Toolchain {
	t := &Toolchain{}
	for _, opt := range defaults {
		opt.apply(t)
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(t)
		}
	}
	return t
}

// RunSource compiles and interprets one program on fresh state.
// Returns false if any stage reported an error; stages after a failing
// one do not run.
func (t *Toolchain) RunSource(source string) bool {
	state := newRunState(source, t.diag)

	lx := &lexer{source: source, line: 1, state: state}
	lx.scan()
	if state.printErrors() {
		return false
	}
	if t.listings != nil {
		state.writeTokenListing(t.listings)
	}

	// Nothing but the end sentinel: nothing to parse or execute.
	if len(state.tokens) == 1 {
		return true
	}

	ps := &parser{state: state}
	safely(state, ps.parse)
	if state.printErrors() {
		return false
	}
	if t.listings != nil {
		state.writeCodeListing(t.listings)
		state.writeSymbolListing(t.listings)
	}

	m := newMachine(state, t.in, t.out, t.prompt)
	safely(state, m.run)
	return !state.printErrors()
}

// safely recovers the panic raised by state.fatalError. A panic that
// left no recorded error is a bug and is re-raised.
func safely(state *runState, fn func()) {
	defer func() {
		if r := recover(); r != nil && state.valid() {
			panic(r)
		}
	}()
	fn()
}
