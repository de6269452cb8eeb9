package internal

import (
	"io/ioutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanSource(source string) *runState {
	state := newRunState(source, ioutil.Discard)
	lx := &lexer{source: source, line: 1, state: state}
	lx.scan()
	return state
}

func kinds(state *runState) []tokenType {
	tts := make([]tokenType, len(state.tokens))
	for i, tok := range state.tokens {
		tts[i] = tok.tt
	}
	return tts
}

func TestScanPunctuation(t *testing.T) {
	singles := map[string]tokenType{
		"+": tkPlus,
		"-": tkMinus,
		"*": tkStar,
		"/": tkSlash,
		"=": tkEq,
		"~": tkEqCompare,
		">": tkGt,
		"<": tkLt,
		"!": tkNot,
		"(": tkLparen,
		")": tkRparen,
		"[": tkLbracket,
		"]": tkRbracket,
		";": tkSemicolon,
		"$": tkDollar,
	}
	for ch, want := range singles {
		state := scanSource(ch + " ")
		require.True(t, state.valid(), "char %q", ch)
		require.Len(t, state.tokens, 2, "char %q", ch)
		assert.Equal(t, want, state.tokens[0].tt)
		assert.Equal(t, ch, state.tokens[0].lexeme)
		assert.Equal(t, tkEOS, state.tokens[1].tt)
	}
}

func TestScanKeywords(t *testing.T) {
	for lexeme, want := range keywords {
		state := scanSource(lexeme)
		require.True(t, state.valid())
		require.Len(t, state.tokens, 2)
		assert.Equal(t, want, state.tokens[0].tt, "keyword %q", lexeme)

		// A keyword followed by a letter or digit is an identifier.
		state = scanSource(lexeme + "x")
		require.Len(t, state.tokens, 2)
		assert.Equal(t, tkID, state.tokens[0].tt)
		assert.Equal(t, lexeme+"x", state.tokens[0].lexeme)

		state = scanSource(lexeme + "9")
		assert.Equal(t, tkID, state.tokens[0].tt)
	}
}

func TestScanNumbersAndIdentifiers(t *testing.T) {
	state := scanSource("abc 123 a1b2")
	require.True(t, state.valid())
	assert.Equal(t, []tokenType{tkID, tkNum, tkID, tkEOS}, kinds(state))
	assert.Equal(t, "abc", state.tokens[0].lexeme)
	assert.Equal(t, "123", state.tokens[1].lexeme)
	assert.Equal(t, "a1b2", state.tokens[2].lexeme)
}

func TestScanPushback(t *testing.T) {
	// The character terminating a lexeme is rescanned from the start
	// state and still produces its own token.
	state := scanSource("ab)")
	require.True(t, state.valid())
	assert.Equal(t, []tokenType{tkID, tkRparen, tkEOS}, kinds(state))

	state = scanSource("12;")
	assert.Equal(t, []tokenType{tkNum, tkSemicolon, tkEOS}, kinds(state))
}

func TestScanLineCounting(t *testing.T) {
	state := scanSource("int a;\nint b;\n\nbegin end")
	require.True(t, state.valid())
	byLexeme := map[string]int{}
	for _, tok := range state.tokens {
		byLexeme[tok.lexeme] = tok.line
	}
	assert.Equal(t, 1, byLexeme["a"])
	assert.Equal(t, 2, byLexeme["b"])
	assert.Equal(t, 4, byLexeme["begin"])
}

func TestScanEOSAfterLexeme(t *testing.T) {
	// End of input while accumulating a lexeme emits the lexeme, then
	// the sentinel.
	state := scanSource("count")
	require.Len(t, state.tokens, 2)
	assert.Equal(t, tkID, state.tokens[0].tt)
	assert.Equal(t, tkEOS, state.tokens[1].tt)

	state = scanSource("42")
	assert.Equal(t, []tokenType{tkNum, tkEOS}, kinds(state))
}

func TestScanEmptySource(t *testing.T) {
	state := scanSource("")
	require.True(t, state.valid())
	assert.Equal(t, []tokenType{tkEOS}, kinds(state))
}

func TestScanInvalidCharAtStart(t *testing.T) {
	// Category-OTHER characters in the start state are reported and
	// skipped; scanning continues.
	state := scanSource("@ abc")
	assert.False(t, state.valid())
	assert.Equal(t, []tokenType{tkID, tkEOS}, kinds(state))
}

func TestScanInvalidCharMidLexeme(t *testing.T) {
	// The in-progress lexeme is finished and emitted, the offending
	// character is recorded and rescanned.
	state := scanSource("ab@cd")
	assert.False(t, state.valid())
	assert.Equal(t, []tokenType{tkID, tkID, tkEOS}, kinds(state))
	assert.Equal(t, "ab", state.tokens[0].lexeme)
	assert.Equal(t, "cd", state.tokens[1].lexeme)

	state = scanSource("12ab")
	assert.False(t, state.valid())
	assert.Equal(t, []tokenType{tkNum, tkID, tkEOS}, kinds(state))
	assert.Equal(t, "12", state.tokens[0].lexeme)
	assert.Equal(t, "ab", state.tokens[1].lexeme)
}

func TestScanNonASCII(t *testing.T) {
	state := scanSource("int \x80;")
	assert.False(t, state.valid())
}

func TestScanOverlongLexeme(t *testing.T) {
	state := scanSource(strings.Repeat("a", maxLexeme+100))
	assert.False(t, state.valid())
	require.Len(t, state.tokens, 3)
	assert.Equal(t, maxLexeme, len(state.tokens[0].lexeme))
	assert.Equal(t, 100, len(state.tokens[1].lexeme))
}

func TestScanTokenFlood(t *testing.T) {
	state := scanSource(strings.Repeat(";", maxTokens+1))
	assert.False(t, state.valid())
	assert.EqualError(t, state.errors[0].err, errTooManyTokens.Error())
}

func TestScanTotality(t *testing.T) {
	// Any byte sequence terminates with either an EOS token or a
	// recorded lexical error.
	inputs := []string{
		"",
		"int a; begin a = 1; end",
		"@@@@",
		"1a2b3c",
		strings.Repeat("x", 5000),
		"\x00\x01\x02",
		"((((((((",
	}
	for _, src := range inputs {
		state := scanSource(src)
		if state.valid() {
			require.NotEmpty(t, state.tokens)
			assert.Equal(t, tkEOS, state.tokens[len(state.tokens)-1].tt)
		}
	}
}
