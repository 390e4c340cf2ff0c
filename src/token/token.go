// Package token defines the lexical tokens produced by the lexer and
// consumed by the parser: token kinds, spans and the Token type itself.
package token

import "fmt"

// Kind differentiates the kinds of lexemes the lexer can produce.
type Kind int

const (
	EOF Kind = iota
	Invalid

	Identifier
	Int   // unclassified integer literal; refined to a sized kind at type-check
	Float // unclassified float literal; refined to a sized kind at type-check
	String
	Character

	// Sized numeric literal suffixes.
	I1
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64

	// Punctuation and operators.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semicolon
	Colon
	ColonColon // ::
	Dot
	DotDot // ..
	Amp
	AmpAmp
	Pipe
	PipePipe
	Caret
	Tilde
	Bang
	BangEqual
	Equal
	EqualEqual
	Less
	LessEqual
	LessLess
	LessLessEqual
	Greater
	GreaterEqual
	RightShift      // >> (reassembled by the parser from two Greater tokens)
	RightShiftEqual // >>=
	Plus
	PlusPlus
	PlusEqual
	Minus
	MinusMinus
	MinusEqual
	Arrow // ->
	Star
	StarEqual
	Slash
	SlashEqual
	Percent
	PercentEqual
	At // @attribute marker

	// Keywords.
	KwVar
	KwConst
	KwEnum
	KwType
	KwStruct
	KwFun
	KwOperator
	KwReturn
	KwIf
	KwElse
	KwFor
	KwWhile
	KwSwitch
	KwCast
	KwDefer
	KwBreak
	KwContinue
	KwTypeSize
	KwTypeAlign
	KwValueSize
	KwTrue
	KwFalse
	KwNull
	KwUndefined
	KwVarargs
	KwLoad
	KwImport
)

var names = map[Kind]string{
	EOF:             "EOF",
	Invalid:         "INVALID",
	Identifier:      "IDENTIFIER",
	Int:             "INT",
	Float:           "FLOAT",
	String:          "STRING",
	Character:       "CHARACTER",
	I1:              "i1", I8: "i8", I16: "i16", I32: "i32", I64: "i64",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64",
	F32: "f32", F64: "f64",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Comma: ",", Semicolon: ";", Colon: ":", ColonColon: "::", Dot: ".", DotDot: "..",
	Amp: "&", AmpAmp: "&&", Pipe: "|", PipePipe: "||", Caret: "^", Tilde: "~", Bang: "!",
	BangEqual: "!=", Equal: "=", EqualEqual: "==",
	Less: "<", LessEqual: "<=", LessLess: "<<", LessLessEqual: "<<=",
	Greater: ">", GreaterEqual: ">=", RightShift: ">>", RightShiftEqual: ">>=",
	Plus: "+", PlusPlus: "++", PlusEqual: "+=",
	Minus: "-", MinusMinus: "--", MinusEqual: "-=", Arrow: "->",
	Star: "*", StarEqual: "*=", Slash: "/", SlashEqual: "/=",
	Percent: "%", PercentEqual: "%=", At: "@",
	KwVar: "var", KwConst: "const", KwEnum: "enum", KwType: "type", KwStruct: "struct",
	KwFun: "fun", KwOperator: "operator", KwReturn: "return", KwIf: "if", KwElse: "else",
	KwFor: "for", KwWhile: "while", KwSwitch: "switch", KwCast: "cast", KwDefer: "defer",
	KwBreak: "break", KwContinue: "continue", KwTypeSize: "type_size", KwTypeAlign: "type_align",
	KwValueSize: "value_size", KwTrue: "true", KwFalse: "false", KwNull: "null",
	KwUndefined: "undefined", KwVarargs: "varargs", KwLoad: "load", KwImport: "import",
}

// String returns the print-friendly name of the kind.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps reserved words to their Kind, used by the lexer's
// post-scan identifier classification.
var Keywords = map[string]Kind{
	"var": KwVar, "const": KwConst, "enum": KwEnum, "type": KwType, "struct": KwStruct,
	"fun": KwFun, "operator": KwOperator, "return": KwReturn, "if": KwIf, "else": KwElse,
	"for": KwFor, "while": KwWhile, "switch": KwSwitch, "cast": KwCast, "defer": KwDefer,
	"break": KwBreak, "continue": KwContinue, "type_size": KwTypeSize, "type_align": KwTypeAlign,
	"value_size": KwValueSize, "true": KwTrue, "false": KwFalse, "null": KwNull,
	"undefined": KwUndefined, "varargs": KwVarargs, "load": KwLoad, "import": KwImport,
	"i1": I1, "i8": I8, "i16": I16, "i32": I32, "i64": I64,
	"u8": U8, "u16": U16, "u32": U32, "u64": U64, "f32": F32, "f64": F64,
}

// Span locates a token (or a tree node derived from tokens) in source: the
// file it came from plus a line/column start and end.
type Span struct {
	File              int
	Line, Col         int
	EndLine, EndCol   int
}

// String renders the span in "line:col" form for diagnostics.
func (s Span) String() string {
	if s.Line == s.EndLine && s.Col == s.EndCol {
		return fmt.Sprintf("%d:%d", s.Line, s.Col)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.Line, s.Col, s.EndLine, s.EndCol)
}

// Token is a single lexeme scanned by the lexer: kind, literal text and span.
// An Invalid token carries a human-readable reason in Lexeme.
type Token struct {
	Kind   Kind
	Lexeme string
	Span   Span
}

// String returns a print-friendly representation used by -ts token dumps.
func (t Token) String() string {
	if len(t.Lexeme) > 20 {
		return fmt.Sprintf("%.17q...\t%s\t%s", t.Lexeme, t.Kind, t.Span)
	}
	return fmt.Sprintf("%q\t%s\t%s", t.Lexeme, t.Kind, t.Span)
}

// IsSizedNumberSuffix reports whether k is one of the i*/u*/f* literal suffix kinds.
func IsSizedNumberSuffix(k Kind) bool {
	switch k {
	case I1, I8, I16, I32, I64, U8, U16, U32, U64, F32, F64:
		return true
	}
	return false
}
