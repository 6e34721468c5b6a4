/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package lexer tokenizes a console-concentrator configuration file into
// keyword, string, integer, punctuation, end-of-line, end-of-file, and
// error tokens, tracking line number and the raw text of the current token.
package lexer

import (
	"strings"
)

// Token identifies the kind of lexeme just consumed. Keyword tokens are
// assigned dynamically from a caller-supplied table starting at TokKeyword.
type Token int

const (
	TokEOF Token = iota
	TokEOL
	TokErr
	TokStr
	TokInt
	TokPunct
	TokKeyword
)

// Lexer is a finite-state tokenizer over an in-memory byte buffer. It
// performs no allocation per token beyond an internal scratch string.
type Lexer struct {
	buf  []byte
	pos  int
	line int

	keywords map[string]Token
	prev     Token
	text     string
}

// New creates a Lexer over buf. keywords maps a case-insensitive identifier
// to the token id the caller wants returned for it; unmatched identifiers
// are returned as TokStr.
func New(buf []byte, keywords map[string]Token) *Lexer {
	kw := make(map[string]Token, len(keywords))
	for k, v := range keywords {
		kw[strings.ToUpper(k)] = v
	}

	return &Lexer{
		buf:      buf,
		pos:      0,
		line:     1,
		keywords: kw,
		prev:     TokEOF,
	}
}

// Line returns the current line number, starting at 1.
func (l *Lexer) Line() int {
	return l.line
}

// Prev returns the token id returned by the previous call to Next.
func (l *Lexer) Prev() Token {
	return l.prev
}

// Text returns the raw text of the current token (the string value for
// TokStr/TokKeyword/TokInt, or the single character for TokPunct).
func (l *Lexer) Text() string {
	return l.text
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.buf) {
		return 0
	}
	return l.buf[l.pos]
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.buf) {
		return 0
	}
	return l.buf[l.pos+off]
}

func (l *Lexer) advance() byte {
	c := l.buf[l.pos]
	l.pos++
	return c
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// Next consumes and returns the next token, updating Line/Prev/Text.
func (l *Lexer) Next() Token {
	for {
		if l.pos >= len(l.buf) {
			l.text = ""
			l.prev = TokEOF
			return TokEOF
		}

		c := l.peek()

		if c == '\n' {
			l.advance()
			l.line++
			l.text = "\n"
			l.prev = TokEOL
			return TokEOL
		}

		if isSpace(c) {
			l.advance()
			continue
		}

		if c == '#' {
			for l.pos < len(l.buf) && l.peek() != '\n' {
				l.advance()
			}
			continue
		}

		break
	}

	c := l.peek()

	switch {
	case c == '"':
		return l.lexString()
	case isDigit(c):
		return l.lexInt()
	case isIdentStart(c):
		return l.lexIdent()
	default:
		l.advance()
		l.text = string(c)
		l.prev = TokPunct
		return TokPunct
	}
}

func (l *Lexer) lexString() Token {
	l.advance() // opening quote

	var sb strings.Builder
	closed := false

	for l.pos < len(l.buf) {
		c := l.peek()
		if c == '"' {
			l.advance()
			closed = true
			break
		}
		if c == '\n' {
			break
		}
		if c == '\\' && l.peekAt(1) != 0 {
			l.advance()
			sb.WriteByte(l.advance())
			continue
		}
		sb.WriteByte(l.advance())
	}

	if !closed {
		l.text = sb.String()
		l.prev = TokErr
		return TokErr
	}

	l.text = sb.String()
	l.prev = TokStr
	return TokStr
}

func (l *Lexer) lexInt() Token {
	start := l.pos
	for l.pos < len(l.buf) && isDigit(l.peek()) {
		l.advance()
	}
	l.text = string(l.buf[start:l.pos])
	l.prev = TokInt
	return TokInt
}

func (l *Lexer) lexIdent() Token {
	start := l.pos
	for l.pos < len(l.buf) && isIdentCont(l.peek()) {
		l.advance()
	}
	word := string(l.buf[start:l.pos])
	l.text = word

	if tok, ok := l.keywords[strings.ToUpper(word)]; ok {
		l.prev = tok
		return tok
	}

	l.prev = TokStr
	return TokStr
}

// SkipToEOL advances the lexer past the next end-of-line or end-of-file
// token, used by the configuration parser to resynchronize after a
// per-directive error.
func (l *Lexer) SkipToEOL() {
	for l.prev != TokEOL && l.prev != TokEOF {
		l.Next()
	}
}
