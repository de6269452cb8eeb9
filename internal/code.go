package internal

// opcode enumerates the postfix instruction kinds
type opcode int

const (
	opPushVar opcode = iota
	opPushArrayBase
	opPushConst
	opOperation
	opLabel
	opJump
	opJumpFalse
	opIndex
	opRead
	opWrite
	opCallSin
	opCallCos
	opCallTan
	opCallCot
)

var opcodeNames = [...]string{
	opPushVar:       "PUSH_VAR",
	opPushArrayBase: "PUSH_ARRAY_BASE",
	opPushConst:     "PUSH_CONST",
	opOperation:     "OP",
	opLabel:         "LABEL",
	opJump:          "JUMP",
	opJumpFalse:     "JUMP_FALSE",
	opIndex:         "INDEX",
	opRead:          "READ",
	opWrite:         "WRITE",
	opCallSin:       "CALL_SIN",
	opCallCos:       "CALL_COS",
	opCallTan:       "CALL_TAN",
	opCallCot:       "CALL_COT",
}

func (op opcode) String() string {
	if op < 0 || int(op) >= len(opcodeNames) {
		return "UNKNOWN"
	}
	return opcodeNames[op]
}

// instruction is one entry of the postfix stream. value carries the
// opcode-specific payload: an operator spelling, an identifier name, a
// numeric literal or a label name. line is the originating source line.
type instruction struct {
	op    opcode
	value string
	line  int
}
