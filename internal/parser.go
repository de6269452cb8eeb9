package internal

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
)

// parser recognizes the LL(1) grammar in a single pass, building the
// symbol table and emitting the postfix stream as productions are
// recognized. It aborts on the first error via state.fatalError.
type parser struct {
	current int
	labels  int

	state *runState
}

func (p *parser) parse() {
	if len(p.state.tokens) == 0 || p.state.tokens[len(p.state.tokens)-1].tt != tkEOS {
		p.state.fatalError(fmt.Errorf("token stream does not end with EOS"), 0)
	}
	p.program()
	if !p.check(tkEOS) {
		p.state.fatalError(fmt.Errorf("%w, found %s %q", errTrailingTokens, p.peek().tt, p.peek().lexeme), p.peek().line)
	}
}

// program handles P: a chain of declarations followed by at most one
// begin/end block. A declaration-only program is legal and produces an
// empty postfix stream.
func (p *parser) program() {
	switch {
	case p.check(tkInt):
		p.scalarDecl()
	case p.check(tkArr):
		p.arrayDecl()
	case p.match(tkBegin):
		p.statements()
		p.consume(tkEnd, errExpectedEnd)
	default:
		p.state.fatalError(fmt.Errorf("%w, found %s %q", errProgramStart, p.peek().tt, p.peek().lexeme), p.peek().line)
	}
}

// declTail handles E -> P | lambda.
func (p *parser) declTail() {
	if p.check(tkInt) || p.check(tkArr) || p.check(tkBegin) {
		p.program()
	}
}

func (p *parser) scalarDecl() {
	p.consume(tkInt, errProgramStart)
	id := p.consume(tkID, errExpectedIdentifier)
	p.declare(id, classScalar, 0)
	p.consume(tkSemicolon, errExpectedSemicolon)
	p.declTail()
}

func (p *parser) arrayDecl() {
	p.consume(tkArr, errProgramStart)
	id := p.consume(tkID, errExpectedIdentifier)
	p.consume(tkLbracket, errExpectedLeftBracket)
	sizeTok := p.consume(tkNum, errExpectedSize)
	size, err := strconv.Atoi(sizeTok.lexeme)
	if err != nil {
		p.state.fatalError(fmt.Errorf("array size too large: %s", sizeTok.lexeme), sizeTok.line)
	}
	if size <= 0 {
		p.state.fatalError(fmt.Errorf("%w: %q", errArraySize, id.lexeme), sizeTok.line)
	}
	p.consume(tkRbracket, errExpectedRightBracket)
	p.declare(id, classArray, size)
	p.consume(tkSemicolon, errExpectedSemicolon)
	p.declTail()
}

// statements handles A: a possibly empty sequence of statements inside
// a begin/end block.
func (p *parser) statements() {
	for {
		switch {
		case p.check(tkID):
			p.assignment()
		case p.match(tkIf):
			p.ifStmt()
		case p.match(tkWhile):
			p.whileStmt()
		case p.match(tkInput):
			p.inputStmt()
		case p.match(tkOutput):
			p.outputStmt()
		case p.checkTrig():
			p.trigStmt()
		default:
			return
		}
	}
}

func (p *parser) assignment() {
	id := p.advance()
	sym := p.resolve(id)

	indexed := false
	if p.check(tkLbracket) {
		if sym.class != classArray {
			p.state.fatalError(fmt.Errorf("%w: %q", errNotArray, id.lexeme), id.line)
		}
		indexed = true
		p.emit(opPushArrayBase, id.lexeme, id.line)
		p.advance()
		p.expression()
		p.consume(tkRbracket, errExpectedRightBracket)
	} else {
		if sym.class == classArray {
			p.state.fatalError(fmt.Errorf("%w: %q", errAssignWholeArray, id.lexeme), id.line)
		}
		p.emit(opPushVar, id.lexeme, id.line)
	}

	p.consume(tkEq, errExpectedAssign)
	p.expression()
	if indexed {
		p.emit(opOperation, "[]=", id.line)
	} else {
		p.emit(opOperation, "=", id.line)
	}
	p.consume(tkSemicolon, errExpectedSemicolon)
}

func (p *parser) ifStmt() {
	keyword := p.previous()

	p.consume(tkLparen, errExpectedLeftParen)
	p.condition()
	p.consume(tkRparen, errExpectedRightParen)

	// The skip label is defined inside the same statement, so no jump
	// can target a label that is not already scheduled for definition.
	elseLabel := p.newLabel()
	p.emit(opJumpFalse, elseLabel, keyword.line)

	p.consume(tkBegin, errExpectedBegin)
	p.statements()
	p.consume(tkEnd, errExpectedEnd)

	if p.match(tkElse) {
		endLabel := p.newLabel()
		elseTok := p.previous()
		p.emit(opJump, endLabel, elseTok.line)
		p.emit(opLabel, elseLabel, elseTok.line)
		p.consume(tkBegin, errExpectedBegin)
		p.statements()
		p.consume(tkEnd, errExpectedEnd)
		p.emit(opLabel, endLabel, p.previous().line)
	} else {
		p.emit(opLabel, elseLabel, keyword.line)
	}
	p.consume(tkSemicolon, errExpectedSemicolon)
}

func (p *parser) whileStmt() {
	keyword := p.previous()
	topLabel := p.newLabel()
	endLabel := p.newLabel()

	p.emit(opLabel, topLabel, keyword.line)
	p.consume(tkLparen, errExpectedLeftParen)
	p.condition()
	p.consume(tkRparen, errExpectedRightParen)
	p.emit(opJumpFalse, endLabel, keyword.line)

	p.consume(tkBegin, errExpectedBegin)
	p.statements()
	p.consume(tkEnd, errExpectedEnd)

	p.emit(opJump, topLabel, keyword.line)
	p.emit(opLabel, endLabel, keyword.line)
	p.consume(tkSemicolon, errExpectedSemicolon)
}

func (p *parser) inputStmt() {
	keyword := p.previous()
	p.consume(tkLparen, errExpectedLeftParen)
	id := p.consume(tkID, errExpectedIdentifier)
	sym := p.resolve(id)

	if p.check(tkLbracket) {
		if sym.class != classArray {
			p.state.fatalError(fmt.Errorf("%w: %q", errNotArray, id.lexeme), id.line)
		}
		p.emit(opPushArrayBase, id.lexeme, id.line)
		p.advance()
		p.expression()
		p.consume(tkRbracket, errExpectedRightBracket)
		p.emit(opRead, "IN[]", keyword.line)
	} else {
		if sym.class == classArray {
			p.state.fatalError(fmt.Errorf("%w: %q", errReadWholeArray, id.lexeme), id.line)
		}
		p.emit(opPushVar, id.lexeme, id.line)
		p.emit(opRead, "IN", keyword.line)
	}

	p.consume(tkRparen, errExpectedRightParen)
	p.consume(tkSemicolon, errExpectedSemicolon)
}

func (p *parser) outputStmt() {
	keyword := p.previous()
	p.consume(tkLparen, errExpectedLeftParen)
	p.expression()
	p.consume(tkRparen, errExpectedRightParen)
	p.emit(opWrite, "OUT", keyword.line)
	p.consume(tkSemicolon, errExpectedSemicolon)
}

func (p *parser) trigStmt() {
	fn := p.advance()
	p.consume(tkLparen, errExpectedLeftParen)
	p.expression()
	p.consume(tkRparen, errExpectedRightParen)
	p.emit(trigOpcode(fn.tt), fn.lexeme, fn.line)
	p.consume(tkSemicolon, errExpectedSemicolon)
}

// expression handles G -> T U' with U' -> ('+'|'-') T U' | lambda.
func (p *parser) expression() {
	p.term()
	for p.check(tkPlus) || p.check(tkMinus) {
		op := p.advance()
		p.term()
		p.emit(opOperation, op.lexeme, op.line)
	}
}

// term handles T -> F V' with V' -> ('*'|'/') F V' | lambda.
func (p *parser) term() {
	p.factor()
	for p.check(tkStar) || p.check(tkSlash) {
		op := p.advance()
		p.factor()
		p.emit(opOperation, op.lexeme, op.line)
	}
}

// factor handles F -> '(' G ')' | TRIG '(' G ')' | ID LHS_TAIL | NUM.
func (p *parser) factor() {
	switch {
	case p.match(tkLparen):
		p.expression()
		p.consume(tkRparen, errExpectedRightParen)
	case p.checkTrig():
		fn := p.advance()
		p.consume(tkLparen, errExpectedLeftParen)
		p.expression()
		p.consume(tkRparen, errExpectedRightParen)
		p.emit(trigOpcode(fn.tt), fn.lexeme, fn.line)
	case p.check(tkID):
		id := p.advance()
		sym := p.resolve(id)
		if p.check(tkLbracket) {
			if sym.class != classArray {
				p.state.fatalError(fmt.Errorf("%w: %q", errNotArray, id.lexeme), id.line)
			}
			p.emit(opPushArrayBase, id.lexeme, id.line)
			p.advance()
			p.expression()
			p.consume(tkRbracket, errExpectedRightBracket)
			p.emit(opIndex, "[]", id.line)
		} else {
			if sym.class == classArray {
				p.state.fatalError(fmt.Errorf("%w: %q", errArrayAsValue, id.lexeme), id.line)
			}
			p.emit(opPushVar, id.lexeme, id.line)
		}
	case p.check(tkNum):
		lit := p.advance()
		if _, err := strconv.Atoi(lit.lexeme); err != nil {
			p.state.fatalError(fmt.Errorf("%w: %s", errLiteralRange, lit.lexeme), lit.line)
		}
		p.emit(opPushConst, lit.lexeme, lit.line)
	default:
		p.state.fatalError(fmt.Errorf("%w, found %s %q", errExpectedFactor, p.peek().tt, p.peek().lexeme), p.peek().line)
	}
}

// condition handles C -> G REL G.
func (p *parser) condition() {
	p.expression()
	rel := p.peek()
	switch rel.tt {
	case tkEqCompare, tkGt, tkLt, tkNot:
		p.advance()
	default:
		p.state.fatalError(fmt.Errorf("%w, found %s %q", errExpectedRelation, rel.tt, rel.lexeme), rel.line)
	}
	p.expression()
	p.emit(opOperation, rel.lexeme, rel.line)
}

func (p *parser) checkTrig() bool {
	switch p.peek().tt {
	case tkSin, tkCos, tkTg, tkCtg:
		return true
	}
	return false
}

func trigOpcode(tt tokenType) opcode {
	switch tt {
	case tkCos:
		return opCallCos
	case tkTg:
		return opCallTan
	case tkCtg:
		return opCallCot
	}
	return opCallSin
}

func (p *parser) newLabel() string {
	label := fmt.Sprintf("L%d", p.labels)
	p.labels++
	return label
}

func (p *parser) emit(op opcode, value string, line int) {
	p.state.code = append(p.state.code, instruction{op: op, value: value, line: line})
	trace.WithFields(logrus.Fields{
		"op":    op.String(),
		"value": value,
		"line":  line,
	}).Debug("emit")
}

func (p *parser) declare(id token, class symbolClass, size int) {
	if prev, ok := p.state.symbols.lookup(id.lexeme); ok {
		p.state.fatalError(
			fmt.Errorf("%w: %q first declared on line %d", errRedeclared, id.lexeme, prev.declLine),
			id.line,
		)
	}
	p.state.symbols.declare(id.lexeme, symbol{class: class, declLine: id.line, size: size})
}

func (p *parser) resolve(id token) symbol {
	sym, ok := p.state.symbols.lookup(id.lexeme)
	if !ok {
		p.state.fatalError(fmt.Errorf("%w: %q", errUndeclared, id.lexeme), id.line)
	}
	return sym
}

func (p *parser) consume(tt tokenType, expected error) token {
	if p.check(tt) {
		return p.advance()
	}
	t := p.peek()
	p.state.fatalError(fmt.Errorf("%w, found %s %q", expected, t.tt, t.lexeme), t.line)
	return token{}
}

func (p *parser) match(tt tokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) check(tt tokenType) bool {
	return p.peek().tt == tt
}

func (p *parser) advance() token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) peek() token {
	return p.state.tokens[p.current]
}

func (p *parser) previous() token {
	return p.state.tokens[p.current-1]
}

func (p *parser) isAtEnd() bool {
	return p.peek().tt == tkEOS
}
