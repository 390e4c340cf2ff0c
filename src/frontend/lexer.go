// Package frontend implements the lexical analyzer and the
// recursive-descent/Pratt parser.
//
// The lexer's state-function shape follows Rob Pike's lexer-as-a-stack-
// of-functions pattern, with no channel or goroutine handoff: the
// pipeline is strictly single-threaded with no suspension, so state
// functions append directly to an in-memory token slice and Lex returns
// the finished sequence eagerly.
package frontend

import (
	"strings"
	"unicode/utf8"

	"la/src/diag"
	"la/src/token"
)

// stateFunc is one state of the lexer's state machine; it returns the
// state to run next, or nil to stop.
type stateFunc func(*lexer) stateFunc

const eof = rune(0)

// lexer scans a single source file into a finite token sequence.
type lexer struct {
	file  int
	input string

	start int // byte offset of the token being built
	pos   int // current byte offset
	width int // width in bytes of the last rune returned by next

	line, col           int // current line/column (1-indexed)
	startLine, startCol int // line/column at start of current token

	tokens []token.Token
	sink   *diag.Sink
}

// Lex scans src (from file, used for diagnostic spans) into a token
// sequence terminated by an EOF token. Invalid tokens are appended
// in-band rather than aborting the scan.
func Lex(file int, src string, sink *diag.Sink) []token.Token {
	l := &lexer{
		file:      file,
		input:     src,
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
		sink:      sink,
	}
	for state := stateFunc(lexGlobal); state != nil; {
		state = state(l)
	}
	l.emit(token.EOF)
	return l.tokens
}

// next returns the next rune in the input and advances past it.
func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// backup steps back one rune. Only valid once per call to next, and never
// across a newline (the lexer never needs to back up over one).
func (l *lexer) backup() {
	if l.pos == l.start {
		return
	}
	l.pos -= l.width
	if l.col > 1 {
		l.col--
	}
}

// peek returns, without consuming, the next rune.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// peek2 returns, without consuming, the rune after next.
func (l *lexer) peek2() rune {
	r1 := l.next()
	if r1 == eof {
		return eof
	}
	r2 := l.next()
	l.backup()
	l.backup()
	return r2
}

// accept consumes the next rune if it is one of valid.
func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

// acceptRun consumes a run of runes from valid.
func (l *lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}

// ignore discards the pending lexeme without emitting a token.
func (l *lexer) ignore() {
	l.start = l.pos
	l.startLine, l.startCol = l.line, l.col
}

// span returns the source span of the pending lexeme.
func (l *lexer) span() token.Span {
	return token.Span{
		File: l.file, Line: l.startLine, Col: l.startCol,
		EndLine: l.line, EndCol: l.col,
	}
}

// emit appends a token of kind k covering the pending lexeme.
func (l *lexer) emit(k token.Kind) {
	l.tokens = append(l.tokens, token.Token{
		Kind: k, Lexeme: l.input[l.start:l.pos], Span: l.span(),
	})
	l.start = l.pos
	l.startLine, l.startCol = l.line, l.col
}

// emitLexeme is like emit but overrides the recorded lexeme, used for
// Invalid tokens whose lexeme is a human-readable reason.
func (l *lexer) emitLexeme(k token.Kind, lexeme string) {
	l.tokens = append(l.tokens, token.Token{Kind: k, Lexeme: lexeme, Span: l.span()})
	l.start = l.pos
	l.startLine, l.startCol = l.line, l.col
}

// invalid emits an Invalid token carrying reason and reports it to the sink.
func (l *lexer) invalid(reason string) {
	l.sink.Errorf(l.span(), diag.Lexical, "%s", reason)
	l.emitLexeme(token.Invalid, reason)
}

func isAlpha(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isAlphaNumeric(r rune) bool { return isAlpha(r) || isDigit(r) }

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
