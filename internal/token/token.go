// Package token defines the closed set of lexical token kinds this
// compiler recognizes, and the Token value the lexer produces.
package token

type Kind int

const (
	// Special
	EOF Kind = iota
	Ident
	Constant

	// Keywords
	KwInt
	KwVoid
	KwReturn
	KwIf
	KwElse
	KwFor
	KwWhile
	KwDo
	KwBreak
	KwContinue

	// Punctuation
	LParen
	RParen
	LBrace
	RBrace
	Semi
	Colon
	Question

	// Unary operators
	Tilde
	Bang

	// Binary / compound-assignment operators
	Plus
	Minus
	Star
	Slash
	Percent
	Shl
	Shr
	Amp
	Pipe
	Caret
	AmpAmp
	PipePipe
	EqEq
	BangEq
	Lt
	Gt
	Le
	Ge

	Assign
	PlusEq
	MinusEq
	StarEq
	SlashEq
	PercentEq
	AmpEq
	PipeEq
	CaretEq
	ShlEq
	ShrEq

	PlusPlus
	MinusMinus
)

var keywords = map[string]Kind{
	"int":      KwInt,
	"void":     KwVoid,
	"return":   KwReturn,
	"if":       KwIf,
	"else":     KwElse,
	"for":      KwFor,
	"while":    KwWhile,
	"do":       KwDo,
	"break":    KwBreak,
	"continue": KwContinue,
}

// LookupKeyword reports whether lexeme names a keyword, returning its
// Kind if so. Called on identifier-shaped lexemes only, per the lexer's
// longest-match-then-keyword-lookup contract (spec §4.1).
func LookupKeyword(lexeme string) (Kind, bool) {
	k, ok := keywords[lexeme]
	return k, ok
}

// Token is a single lexical unit: its kind, the exact source text it
// was lexed from, and the 1-based source line it starts on.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "<unknown token>"
}

var kindNames = map[Kind]string{
	EOF:        "EOF",
	Ident:      "identifier",
	Constant:   "constant",
	KwInt:      "'int'",
	KwVoid:     "'void'",
	KwReturn:   "'return'",
	KwIf:       "'if'",
	KwElse:     "'else'",
	KwFor:      "'for'",
	KwWhile:    "'while'",
	KwDo:       "'do'",
	KwBreak:    "'break'",
	KwContinue: "'continue'",
	LParen:     "'('",
	RParen:     "')'",
	LBrace:     "'{'",
	RBrace:     "'}'",
	Semi:       "';'",
	Colon:      "':'",
	Question:   "'?'",
	Tilde:      "'~'",
	Bang:       "'!'",
	Plus:       "'+'",
	Minus:      "'-'",
	Star:       "'*'",
	Slash:      "'/'",
	Percent:    "'%'",
	Shl:        "'<<'",
	Shr:        "'>>'",
	Amp:        "'&'",
	Pipe:       "'|'",
	Caret:      "'^'",
	AmpAmp:     "'&&'",
	PipePipe:   "'||'",
	EqEq:       "'=='",
	BangEq:     "'!='",
	Lt:         "'<'",
	Gt:         "'>'",
	Le:         "'<='",
	Ge:         "'>='",
	Assign:     "'='",
	PlusEq:     "'+='",
	MinusEq:    "'-='",
	StarEq:     "'*='",
	SlashEq:    "'/='",
	PercentEq:  "'%='",
	AmpEq:      "'&='",
	PipeEq:     "'|='",
	CaretEq:    "'^='",
	ShlEq:      "'<<='",
	ShrEq:      "'>>='",
	PlusPlus:   "'++'",
	MinusMinus: "'--'",
}
