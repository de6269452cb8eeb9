package internal

// tokenType holds a token kind
type tokenType int

const (
	tkEOS tokenType = iota

	// Literals.
	// number, identifier
	tkNum
	tkID

	// Keywords.
	// if, else, while, input, output, int, arr, begin, end,
	// sin, cos, tg, ctg
	tkIf
	tkElse
	tkWhile
	tkInput
	tkOutput
	tkInt
	tkArr
	tkBegin
	tkEnd
	tkSin
	tkCos
	tkTg
	tkCtg

	// Single-character tokens.
	// +, -, *, /, =, ~, >, <, !, (, ), [, ], ;, $
	tkPlus
	tkMinus
	tkStar
	tkSlash
	tkEq
	tkEqCompare
	tkGt
	tkLt
	tkNot
	tkLparen
	tkRparen
	tkLbracket
	tkRbracket
	tkSemicolon
	tkDollar

	tkError
)

var tokenNames = [...]string{
	tkEOS:       "EOS",
	tkNum:       "NUM",
	tkID:        "ID",
	tkIf:        "IF",
	tkElse:      "ELSE",
	tkWhile:     "WHILE",
	tkInput:     "INPUT",
	tkOutput:    "OUTPUT",
	tkInt:       "INT",
	tkArr:       "ARR",
	tkBegin:     "BEG",
	tkEnd:       "END",
	tkSin:       "SIN",
	tkCos:       "COS",
	tkTg:        "TG",
	tkCtg:       "CTG",
	tkPlus:      "PLUS",
	tkMinus:     "MINUS",
	tkStar:      "STAR",
	tkSlash:     "SLASH",
	tkEq:        "EQ",
	tkEqCompare: "EQ_COMPARE",
	tkGt:        "GT",
	tkLt:        "LT",
	tkNot:       "NOT",
	tkLparen:    "LPAREN",
	tkRparen:    "RPAREN",
	tkLbracket:  "LBRACKET",
	tkRbracket:  "RBRACKET",
	tkSemicolon: "SEMICOLON",
	tkDollar:    "DOLLAR",
	tkError:     "ERROR",
}

func (tt tokenType) String() string {
	if tt < 0 || int(tt) >= len(tokenNames) {
		return "UNKNOWN"
	}
	return tokenNames[tt]
}

type token struct {
	tt     tokenType
	lexeme string
	line   int
}
