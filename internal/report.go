package internal

import (
	"fmt"
	"io"

	"github.com/labstack/gommon/color"
)

// The three diagnostic listings the driver prints after a clean
// compile: tokens, postfix stream, symbol table.

func (s *runState) writeTokenListing(w io.Writer) {
	fmt.Fprintln(w, color.Cyan("--- Tokens ---"))
	for _, tok := range s.tokens {
		fmt.Fprintf(w, "  %-12s %q (line %d)\n", tok.tt, tok.lexeme, tok.line)
	}
}

func (s *runState) writeCodeListing(w io.Writer) {
	fmt.Fprintln(w, color.Cyan("--- Postfix ---"))
	if len(s.code) == 0 {
		fmt.Fprintln(w, "  (empty)")
		return
	}
	for i, inst := range s.code {
		fmt.Fprintf(w, "  %3d: Line %d: %s %q\n", i, inst.line, inst.op, inst.value)
	}
}

func (s *runState) writeSymbolListing(w io.Writer) {
	fmt.Fprintln(w, color.Cyan("--- Symbols ---"))
	names := s.symbols.names()
	if len(names) == 0 {
		fmt.Fprintln(w, "  (empty)")
		return
	}
	for _, name := range names {
		sym, _ := s.symbols.lookup(name)
		fmt.Fprintf(w, "  %q: class=%s size=%d declared on line %d\n",
			name, sym.class, sym.size, sym.declLine)
	}
}
