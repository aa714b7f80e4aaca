package core

import (
	"bytes"
	"fmt"
)

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenComment
	TokenKeyword    // true, obj, stream, and content stream operators such as Tj or T*
	TokenInteger    // 123
	TokenReal       // 3.14
	TokenString     // (hello)
	TokenHexString  // <48656C6C6F>, Value holds the decoded bytes
	TokenName       // /Type, Value holds the name without the slash
	TokenArrayStart // [
	TokenArrayEnd   // ]
	TokenDictStart  // <<
	TokenDictEnd    // >>
)

var tokenTypeNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenComment:    "Comment",
	TokenKeyword:    "Keyword",
	TokenInteger:    "Integer",
	TokenReal:       "Real",
	TokenString:     "String",
	TokenHexString:  "HexString",
	TokenName:       "Name",
	TokenArrayStart: "ArrayStart",
	TokenArrayEnd:   "ArrayEnd",
	TokenDictStart:  "DictStart",
	TokenDictEnd:    "DictEnd",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int // Offset of the first byte of the token
}

// Lexer splits PDF bytes into tokens. It works on an in-memory buffer so
// callers can reposition it and read raw stream data between tokens.
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a lexer positioned at the start of data.
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Pos returns the current offset.
func (l *Lexer) Pos() int {
	return l.pos
}

// Seek moves the lexer to offset, clamped to the buffer.
func (l *Lexer) Seek(offset int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(l.data) {
		offset = len(l.data)
	}
	l.pos = offset
}

// Remaining returns the unread bytes without consuming them.
func (l *Lexer) Remaining() []byte {
	return l.data[l.pos:]
}

// Skip advances past n bytes.
func (l *Lexer) Skip(n int) {
	l.Seek(l.pos + n)
}

// NextToken returns the next token. Whitespace is skipped; comments are
// returned as TokenComment so that callers decide whether they matter.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.data) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	b := l.data[l.pos]

	switch b {
	case '%':
		return l.readComment(), nil
	case '[':
		l.pos++
		return Token{Type: TokenArrayStart, Value: l.data[start:l.pos], Pos: start}, nil
	case ']':
		l.pos++
		return Token{Type: TokenArrayEnd, Value: l.data[start:l.pos], Pos: start}, nil
	case '(':
		return l.readString()
	case '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			l.pos += 2
			return Token{Type: TokenDictStart, Value: l.data[start:l.pos], Pos: start}, nil
		}
		return l.readHexString()
	case '>':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '>' {
			l.pos += 2
			return Token{Type: TokenDictEnd, Value: l.data[start:l.pos], Pos: start}, nil
		}
		return Token{}, fmt.Errorf("unexpected '>' at position %d", start)
	case '/':
		return l.readName(), nil
	case ')', '{', '}':
		return Token{}, fmt.Errorf("unexpected character %q at position %d", b, start)
	}

	if isDigit(b) || b == '-' || b == '+' || b == '.' {
		return l.readNumber(), nil
	}

	return l.readKeyword(), nil
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.data) && isWhitespace(l.data[l.pos]) {
		l.pos++
	}
}

// readComment reads from '%' up to, not including, the end of line.
func (l *Lexer) readComment() Token {
	start := l.pos
	for l.pos < len(l.data) && l.data[l.pos] != '\r' && l.data[l.pos] != '\n' {
		l.pos++
	}
	return Token{Type: TokenComment, Value: l.data[start:l.pos], Pos: start}
}

// readString reads a literal string, resolving escapes and balanced parentheses.
func (l *Lexer) readString() (Token, error) {
	start := l.pos
	l.pos++ // (

	var buf bytes.Buffer
	depth := 1
	for {
		if l.pos >= len(l.data) {
			return Token{}, fmt.Errorf("unterminated string starting at position %d", start)
		}
		b := l.data[l.pos]
		l.pos++

		switch b {
		case '(':
			depth++
			buf.WriteByte(b)
		case ')':
			depth--
			if depth == 0 {
				return Token{Type: TokenString, Value: buf.Bytes(), Pos: start}, nil
			}
			buf.WriteByte(b)
		case '\\':
			l.readEscape(&buf)
		case '\r':
			// An unescaped end of line in a string is read as a single LF.
			if l.pos < len(l.data) && l.data[l.pos] == '\n' {
				l.pos++
			}
			buf.WriteByte('\n')
		default:
			buf.WriteByte(b)
		}
	}
}

func (l *Lexer) readEscape(buf *bytes.Buffer) {
	if l.pos >= len(l.data) {
		return
	}
	next := l.data[l.pos]
	l.pos++

	switch next {
	case 'n':
		buf.WriteByte('\n')
	case 'r':
		buf.WriteByte('\r')
	case 't':
		buf.WriteByte('\t')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case '\r':
		// Line continuation
		if l.pos < len(l.data) && l.data[l.pos] == '\n' {
			l.pos++
		}
	case '\n':
		// Line continuation
	case '0', '1', '2', '3', '4', '5', '6', '7':
		val := int(next - '0')
		for i := 0; i < 2 && l.pos < len(l.data) && isOctalDigit(l.data[l.pos]); i++ {
			val = val*8 + int(l.data[l.pos]-'0')
			l.pos++
		}
		buf.WriteByte(byte(val))
	default:
		// Unknown escapes drop the backslash.
		buf.WriteByte(next)
	}
}

// readHexString reads <...>. Whitespace is ignored and an odd final digit
// is padded with 0.
func (l *Lexer) readHexString() (Token, error) {
	start := l.pos
	l.pos++ // <

	var buf bytes.Buffer
	var hi byte
	half := false
	for {
		if l.pos >= len(l.data) {
			return Token{}, fmt.Errorf("unterminated hex string starting at position %d", start)
		}
		b := l.data[l.pos]
		l.pos++

		switch {
		case b == '>':
			if half {
				buf.WriteByte(hi << 4)
			}
			return Token{Type: TokenHexString, Value: buf.Bytes(), Pos: start}, nil
		case isWhitespace(b):
			continue
		case isHexDigit(b):
			if half {
				buf.WriteByte(hi<<4 | hexValue(b))
				half = false
			} else {
				hi = hexValue(b)
				half = true
			}
		default:
			return Token{}, fmt.Errorf("invalid hex digit %q at position %d", b, l.pos-1)
		}
	}
}

// readName reads /Name. A "#xx" escape yields the byte xx; a malformed
// escape keeps the '#'.
func (l *Lexer) readName() Token {
	start := l.pos
	l.pos++ // /

	var buf bytes.Buffer
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		if b == '#' && l.pos+2 < len(l.data) && isHexDigit(l.data[l.pos+1]) && isHexDigit(l.data[l.pos+2]) {
			buf.WriteByte(hexValue(l.data[l.pos+1])<<4 | hexValue(l.data[l.pos+2]))
			l.pos += 3
			continue
		}
		buf.WriteByte(b)
		l.pos++
	}
	return Token{Type: TokenName, Value: buf.Bytes(), Pos: start}
}

// readNumber reads an integer or a real. A sign is only accepted in first
// position and a second decimal point ends the number.
func (l *Lexer) readNumber() Token {
	start := l.pos
	hasDecimal := false
scan:
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		switch {
		case isDigit(b):
		case b == '.' && !hasDecimal:
			hasDecimal = true
		case (b == '-' || b == '+') && l.pos == start:
		default:
			break scan
		}
		l.pos++
	}
	typ := TokenInteger
	if hasDecimal {
		typ = TokenReal
	}
	return Token{Type: typ, Value: l.data[start:l.pos], Pos: start}
}

// readKeyword reads a run of regular characters: true, false, null, R, obj,
// endobj, stream, and content stream operators such as T*, ' and d0.
func (l *Lexer) readKeyword() Token {
	start := l.pos
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		l.pos++
	}
	return Token{Type: TokenKeyword, Value: l.data[start:l.pos], Pos: start}
}

// SkipStreamEOL consumes the end-of-line marker that follows the "stream"
// keyword: CRLF or LF, and a lone CR which some writers emit.
func (l *Lexer) SkipStreamEOL() {
	if l.pos < len(l.data) && l.data[l.pos] == '\r' {
		l.pos++
	}
	if l.pos < len(l.data) && l.data[l.pos] == '\n' {
		l.pos++
	}
}

// ReadBytes returns the next n raw bytes and advances past them.
func (l *Lexer) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative read length %d", n)
	}
	if l.pos+n > len(l.data) {
		return nil, fmt.Errorf("unexpected EOF: expected %d bytes, got %d", n, len(l.data)-l.pos)
	}
	out := l.data[l.pos : l.pos+n]
	l.pos += n
	return out, nil
}

func isWhitespace(b byte) bool {
	// PDF whitespace: space, tab, LF, CR, FF, null
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}

// IsWhitespace reports whether b is PDF whitespace.
func IsWhitespace(b byte) bool {
	return isWhitespace(b)
}
