package internal

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Scanner states.
const (
	stateStart = iota
	stateIdent
	stateNumber
	numStates
)

// Character categories. Every byte of the 7-bit ASCII range maps to
// exactly one of these; bytes above 127 map to catOther.
const (
	catLetter = iota
	catDigit
	catPlus
	catMinus
	catEq
	catStar
	catSlash
	catSpace
	catLparen
	catRparen
	catLbracket
	catRbracket
	catGt
	catLt
	catNot
	catSemicolon
	catNewline
	catDollar
	catTilde
	catOther
	numCategories
)

// Semantic actions selected by the state/category table.
const (
	actBeginIdent = iota
	actBeginNumber
	actEmitSingle
	actSkipSpace
	actNewline
	actContinueIdent
	actFinishIdent
	actContinueNumber
	actFinishNumber
	actErrorStart
	actErrorMid
)

const maxLexeme = 1023
const maxTokens = 10000

var keywords = map[string]tokenType{
	"if":     tkIf,
	"else":   tkElse,
	"while":  tkWhile,
	"input":  tkInput,
	"output": tkOutput,
	"int":    tkInt,
	"arr":    tkArr,
	"begin":  tkBegin,
	"end":    tkEnd,
	"sin":    tkSin,
	"cos":    tkCos,
	"tg":     tkTg,
	"ctg":    tkCtg,
}

// asciiCategories classifies the 7-bit ASCII range. Built once at
// startup, never mutated afterwards.
var asciiCategories = func() (table [128]int) {
	for i := range table {
		table[i] = catOther
	}
	for c := 'a'; c <= 'z'; c++ {
		table[c] = catLetter
	}
	for c := 'A'; c <= 'Z'; c++ {
		table[c] = catLetter
	}
	for c := '0'; c <= '9'; c++ {
		table[c] = catDigit
	}
	table['+'] = catPlus
	table['-'] = catMinus
	table['='] = catEq
	table['*'] = catStar
	table['/'] = catSlash
	table[' '] = catSpace
	table['('] = catLparen
	table[')'] = catRparen
	table['['] = catLbracket
	table[']'] = catRbracket
	table['>'] = catGt
	table['<'] = catLt
	table['!'] = catNot
	table[';'] = catSemicolon
	table['\n'] = catNewline
	table['$'] = catDollar
	table['~'] = catTilde
	return table
}()

// lexActions is the state/category action table. Token policy lives
// here rather than in control flow: adding a punctuation character is
// a table change plus a singleTokens entry.
var lexActions = func() (table [numStates][numCategories]int) {
	table[stateStart] = [numCategories]int{
		catLetter:    actBeginIdent,
		catDigit:     actBeginNumber,
		catPlus:      actEmitSingle,
		catMinus:     actEmitSingle,
		catEq:        actEmitSingle,
		catStar:      actEmitSingle,
		catSlash:     actEmitSingle,
		catSpace:     actSkipSpace,
		catLparen:    actEmitSingle,
		catRparen:    actEmitSingle,
		catLbracket:  actEmitSingle,
		catRbracket:  actEmitSingle,
		catGt:        actEmitSingle,
		catLt:        actEmitSingle,
		catNot:       actEmitSingle,
		catSemicolon: actEmitSingle,
		catNewline:   actNewline,
		catDollar:    actEmitSingle,
		catTilde:     actEmitSingle,
		catOther:     actErrorStart,
	}
	for cat := 0; cat < numCategories; cat++ {
		table[stateIdent][cat] = actFinishIdent
		table[stateNumber][cat] = actFinishNumber
	}
	table[stateIdent][catLetter] = actContinueIdent
	table[stateIdent][catDigit] = actContinueIdent
	table[stateIdent][catOther] = actErrorMid
	table[stateNumber][catDigit] = actContinueNumber
	table[stateNumber][catLetter] = actErrorMid
	table[stateNumber][catOther] = actErrorMid
	return table
}()

// singleTokens maps an emit-single category to its token kind.
var singleTokens = map[int]tokenType{
	catPlus:      tkPlus,
	catMinus:     tkMinus,
	catEq:        tkEq,
	catStar:      tkStar,
	catSlash:     tkSlash,
	catLparen:    tkLparen,
	catRparen:    tkRparen,
	catLbracket:  tkLbracket,
	catRbracket:  tkRbracket,
	catGt:        tkGt,
	catLt:        tkLt,
	catNot:       tkNot,
	catSemicolon: tkSemicolon,
	catDollar:    tkDollar,
	catTilde:     tkEqCompare,
}

type lexer struct {
	source string
	pos    int
	line   int

	// one-character pushback buffer
	pending    byte
	hasPending bool

	state *runState
}

func (l *lexer) get() (byte, bool) {
	if l.hasPending {
		l.hasPending = false
		return l.pending, true
	}
	if l.pos >= len(l.source) {
		return 0, false
	}
	b := l.source[l.pos]
	l.pos++
	return b, true
}

func (l *lexer) unget(b byte) {
	l.pending = b
	l.hasPending = true
}

// scan tokenizes the whole source, appending tokens to the run state
// up to and including the end-of-input sentinel.
func (l *lexer) scan() {
	for {
		tok := l.nextToken()
		l.state.tokens = append(l.state.tokens, tok)
		trace.WithFields(logrus.Fields{
			"kind":   tok.tt.String(),
			"lexeme": tok.lexeme,
			"line":   tok.line,
		}).Debug("token")
		if tok.tt == tkEOS {
			return
		}
		if len(l.state.tokens) > maxTokens {
			l.state.setError(errTooManyTokens, tok.line)
			return
		}
	}
}

func (l *lexer) nextToken() token {
	var lexeme []byte
	state := stateStart
	startLine := l.line

	for {
		b, ok := l.get()
		if !ok {
			// End of input while accumulating a lexeme emits it;
			// the sentinel follows on the next call.
			switch state {
			case stateIdent:
				return l.finishIdent(string(lexeme), startLine)
			case stateNumber:
				return token{tt: tkNum, lexeme: string(lexeme), line: startLine}
			}
			return token{tt: tkEOS, lexeme: "EOS", line: l.line}
		}

		cat := catOther
		if b < 128 {
			cat = asciiCategories[b]
		}

		switch lexActions[state][cat] {
		case actBeginIdent:
			lexeme = append(lexeme, b)
			state = stateIdent
			startLine = l.line
		case actBeginNumber:
			lexeme = append(lexeme, b)
			state = stateNumber
			startLine = l.line
		case actEmitSingle:
			return token{tt: singleTokens[cat], lexeme: string(b), line: l.line}
		case actSkipSpace:
		case actNewline:
			l.line++
		case actContinueIdent:
			if len(lexeme) < maxLexeme {
				lexeme = append(lexeme, b)
				continue
			}
			l.state.setError(fmt.Errorf("%w: identifier %q...", errOverlongLexeme, string(lexeme[:16])), startLine)
			l.unget(b)
			return l.finishIdent(string(lexeme), startLine)
		case actContinueNumber:
			if len(lexeme) < maxLexeme {
				lexeme = append(lexeme, b)
				continue
			}
			l.state.setError(fmt.Errorf("%w: number %q...", errOverlongLexeme, string(lexeme[:16])), startLine)
			l.unget(b)
			return token{tt: tkNum, lexeme: string(lexeme), line: startLine}
		case actFinishIdent:
			l.unget(b)
			return l.finishIdent(string(lexeme), startLine)
		case actFinishNumber:
			l.unget(b)
			return token{tt: tkNum, lexeme: string(lexeme), line: startLine}
		case actErrorStart:
			l.state.setError(fmt.Errorf("%w %q", errInvalidChar, rune(b)), l.line)
		case actErrorMid:
			// Finish the in-progress lexeme and rescan the offending
			// character from the start state.
			l.unget(b)
			l.state.setError(fmt.Errorf("%w %q after %q", errInvalidChar, rune(b), string(lexeme)), startLine)
			if state == stateIdent {
				return l.finishIdent(string(lexeme), startLine)
			}
			return token{tt: tkNum, lexeme: string(lexeme), line: startLine}
		}
	}
}

func (l *lexer) finishIdent(lexeme string, line int) token {
	tt, ok := keywords[lexeme]
	if !ok {
		tt = tkID
	}
	return token{tt: tt, lexeme: lexeme, line: line}
}
