package lexer

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/phylostack/internal/diagnostics"
	"github.com/funvibe/phylostack/internal/token"
)

// Problem is the Literal of an ILLEGAL token.
type Problem struct {
	Code    diagnostics.ErrorCode
	Message string
}

func (p Problem) String() string { return p.Message }

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Tokenize scans the whole input. The result always ends with EOF.
// Malformed input shows up as ILLEGAL tokens; scanning continues past them.
func Tokenize(input string) []token.Token {
	l := New(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += w
		l.column++
		return
	}

	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	switch l.ch {
	case '[':
		tok = newToken(token.LBRACKET, l.ch, l.line, l.column)
	case ']':
		tok = newToken(token.RBRACKET, l.ch, l.line, l.column)
	case '(':
		tok = newToken(token.LPAREN, l.ch, l.line, l.column)
	case ')':
		tok = newToken(token.RPAREN, l.ch, l.line, l.column)
	case ',':
		tok = newToken(token.COMMA, l.ch, l.line, l.column)
	case ':':
		tok = newToken(token.COLON, l.ch, l.line, l.column)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch, l.line, l.column)
	case '~':
		tok = newToken(token.TILDE, l.ch, l.line, l.column)
	case '=':
		tok = newToken(token.ASSIGN, l.ch, l.line, l.column)
	case '*':
		tok = newToken(token.ASTERISK, l.ch, l.line, l.column)
	case '/':
		tok = newToken(token.SLASH, l.ch, l.line, l.column)
	case '+', '-':
		// A sign glued to a digit is part of the number.
		if isDigit(l.peekChar()) {
			return l.readNumber()
		}
		if l.ch == '+' {
			tok = newToken(token.PLUS, l.ch, l.line, l.column)
		} else {
			tok = newToken(token.MINUS, l.ch, l.line, l.column)
		}
	case '"':
		return l.readString()
	case 0:
		tok.Lexeme = ""
		tok.Type = token.EOF
		tok.Line = l.line
		tok.Column = l.column
		return tok
	default:
		if isLetter(l.ch) {
			startLine, startCol := l.line, l.column
			lexeme := l.readIdentifier()
			return token.Token{
				Type:    token.LookupIdent(lexeme),
				Lexeme:  lexeme,
				Literal: lexeme,
				Line:    startLine,
				Column:  startCol,
			}
		} else if isDigit(l.ch) {
			return l.readNumber()
		}
		tok = token.Token{
			Type:    token.ILLEGAL,
			Lexeme:  string(l.ch),
			Literal: Problem{Code: diagnostics.ErrL002, Message: fmt.Sprintf("unrecognized character %q", l.ch)},
			Line:    l.line,
			Column:  l.column,
		}
	}

	l.readChar()
	return tok
}

// readString scans a double-quoted string. Backslash escapes are kept
// verbatim in the literal; a newline or end of input before the closing
// quote yields an ILLEGAL token and scanning resumes at the newline.
func (l *Lexer) readString() token.Token {
	startLine, startCol := l.line, l.column
	start := l.position
	l.readChar() // opening quote
	contentStart := l.position
	for {
		switch l.ch {
		case '"':
			content := l.input[contentStart:l.position]
			l.readChar()
			return token.Token{
				Type:    token.STRING,
				Lexeme:  l.input[start:l.position],
				Literal: content,
				Line:    startLine,
				Column:  startCol,
			}
		case '\\':
			l.readChar()
			if l.ch == 0 || l.ch == '\n' {
				continue
			}
		case 0, '\n':
			return token.Token{
				Type:    token.ILLEGAL,
				Lexeme:  l.input[start:l.position],
				Literal: Problem{Code: diagnostics.ErrL001, Message: "unterminated string literal"},
				Line:    startLine,
				Column:  startCol,
			}
		}
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber scans [+-]digits[.digits][(e|E)[+-]digits]. Literals without a
// fraction or exponent are integers.
func (l *Lexer) readNumber() token.Token {
	startLine, startCol := l.line, l.column
	position := l.position
	isFloat := false

	if l.ch == '+' || l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar() // .
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		isFloat = true
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if !isDigit(l.ch) {
			for isLetter(l.ch) || isDigit(l.ch) {
				l.readChar()
			}
			lexeme := l.input[position:l.position]
			return token.Token{
				Type:    token.ILLEGAL,
				Lexeme:  lexeme,
				Literal: Problem{Code: diagnostics.ErrL003, Message: fmt.Sprintf("malformed exponent in %q", lexeme)},
				Line:    startLine,
				Column:  startCol,
			}
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	lexeme := l.input[position:l.position]
	if isFloat {
		val, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: Problem{Code: diagnostics.ErrL003, Message: err.Error()}, Line: startLine, Column: startCol}
		}
		return token.Token{Type: token.NUMBER, Lexeme: lexeme, Literal: val, Line: startLine, Column: startCol}
	}
	val, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: Problem{Code: diagnostics.ErrL003, Message: fmt.Sprintf("integer literal %s out of range", lexeme)}, Line: startLine, Column: startCol}
	}
	return token.Token{Type: token.NUMBER, Lexeme: lexeme, Literal: val, Line: startLine, Column: startCol}
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func newToken(tokenType token.TokenType, ch rune, line, col int) token.Token {
	literal := string(ch)
	return token.Token{Type: tokenType, Lexeme: literal, Literal: literal, Line: line, Column: col}
}

func (l *Lexer) skipWhitespace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		break
	}
}
