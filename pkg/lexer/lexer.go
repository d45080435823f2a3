package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"pscode/interpreter-go/pkg/diag"
)

const eof rune = -1

var escapes = map[rune]rune{
	'n': '\n',
	't': '\t',
	'r': '\r',
}

// Lex converts text into a token sequence terminated by a single EOF token.
// It either succeeds completely or returns exactly one diagnostic; partial
// token sequences are never returned.
func Lex(file, text string) ([]Token, error) {
	l := &lexer{pos: diag.Start(file, text), src: text}
	if err := l.checkEncoding(); err != nil {
		return nil, err
	}
	l.ch, l.width = l.peekAt(0)
	tokens, err := l.run()
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

type lexer struct {
	src   string
	pos   diag.Position
	ch    rune
	width int
}

// checkEncoding rejects source that is not valid UTF-8, pointing at the
// first offending byte.
func (l *lexer) checkEncoding() error {
	pos := l.pos
	for pos.Index < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[pos.Index:])
		if r == utf8.RuneError && size == 1 {
			return diag.New(diag.IllegalCharacter, diag.NewSpan(pos, pos.AdvanceWidth(r, size)),
				"Invalid UTF-8 byte 0x%02x", l.src[pos.Index])
		}
		pos = pos.AdvanceWidth(r, size)
	}
	return nil
}

func (l *lexer) peekAt(index int) (rune, int) {
	if index >= len(l.src) {
		return eof, 0
	}
	return utf8.DecodeRuneInString(l.src[index:])
}

func (l *lexer) advance() {
	if l.ch == eof {
		return
	}
	l.pos = l.pos.AdvanceWidth(l.ch, l.width)
	l.ch, l.width = l.peekAt(l.pos.Index)
}

func (l *lexer) single(kind Kind, literal string) Token {
	start := l.pos
	l.advance()
	return Token{Kind: kind, Literal: literal, Span: diag.NewSpan(start, l.pos)}
}

// withLookahead consumes the current character and, when the next one is in
// follow, that one too.
func (l *lexer) withLookahead(fallback Kind, fallbackLit string, follow map[rune]Kind) Token {
	start := l.pos
	first := l.ch
	l.advance()
	if kind, ok := follow[l.ch]; ok {
		literal := string([]rune{first, l.ch})
		l.advance()
		return Token{Kind: kind, Literal: literal, Span: diag.NewSpan(start, l.pos)}
	}
	return Token{Kind: fallback, Literal: fallbackLit, Span: diag.NewSpan(start, l.pos)}
}

func (l *lexer) run() ([]Token, error) {
	var tokens []Token
	for l.ch != eof {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.advance()
		case l.ch == '\n' || l.ch == ';':
			tokens = append(tokens, l.single(Newline, ""))
		case isDigit(l.ch) || l.ch == '.':
			tok, err := l.number()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case isLetter(l.ch):
			tokens = append(tokens, l.word())
		case l.ch == '"':
			tok, err := l.str()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case l.ch == '=':
			tokens = append(tokens, l.withLookahead(Equals, "=", map[rune]Kind{'>': Arrow}))
		case l.ch == '<':
			tokens = append(tokens, l.withLookahead(LessThan, "<", map[rune]Kind{
				'=': LessThanOrEquals,
				'>': NotEquals,
				'-': Assign,
			}))
		case l.ch == '>':
			tokens = append(tokens, l.withLookahead(GreaterThan, ">", map[rune]Kind{'=': GreaterThanOrEquals}))
		case l.ch == '*':
			tokens = append(tokens, l.withLookahead(Multiply, "*", map[rune]Kind{'*': Power}))
		case l.ch == '/':
			tokens = append(tokens, l.withLookahead(Divide, "/", map[rune]Kind{'/': FloorDivide}))
		case l.ch == '!':
			start := l.pos
			l.advance()
			if l.ch != '=' {
				return nil, diag.New(diag.ExpectedCharacter, diag.NewSpan(l.pos, l.pos), "Expected '=' after '!'")
			}
			l.advance()
			tokens = append(tokens, Token{Kind: NotEquals, Literal: "!=", Span: diag.NewSpan(start, l.pos)})
		case l.ch == '^':
			tokens = append(tokens, l.single(Power, "^"))
		case l.ch == '+':
			tokens = append(tokens, l.single(Plus, "+"))
		case l.ch == '-':
			tokens = append(tokens, l.single(Minus, "-"))
		case l.ch == '%':
			tokens = append(tokens, l.single(Modulo, "%"))
		case l.ch == ',':
			tokens = append(tokens, l.single(Comma, ""))
		case l.ch == ':':
			tokens = append(tokens, l.single(Colon, ""))
		case l.ch == '(':
			tokens = append(tokens, l.single(LParen, ""))
		case l.ch == ')':
			tokens = append(tokens, l.single(RParen, ""))
		case l.ch == '[':
			tokens = append(tokens, l.single(LSquare, ""))
		case l.ch == ']':
			tokens = append(tokens, l.single(RSquare, ""))
		default:
			return nil, l.illegal()
		}
	}
	tokens = append(tokens, Token{Kind: EOF, Span: diag.NewSpan(l.pos, l.pos)})
	return tokens, nil
}

func (l *lexer) illegal() error {
	return diag.New(diag.IllegalCharacter, diag.NewSpan(l.pos, l.pos.AdvanceWidth(l.ch, l.width)), "'%c' is not a valid character", l.ch)
}

// number scans digits with at most one decimal point. A second point ends
// the literal.
func (l *lexer) number() (Token, error) {
	start := l.pos
	var b strings.Builder
	dots := 0
	for isDigit(l.ch) || l.ch == '.' {
		if l.ch == '.' {
			if dots == 1 {
				break
			}
			dots++
		}
		b.WriteRune(l.ch)
		l.advance()
	}
	text := b.String()
	if text == "." {
		l.pos = start
		l.ch, l.width = '.', 1
		return Token{}, l.illegal()
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, diag.New(diag.InvalidSyntax, diag.NewSpan(start, l.pos), "Invalid number literal '%s'", text)
	}
	return Token{Kind: Number, Literal: text, Num: value, Span: diag.NewSpan(start, l.pos)}, nil
}

func (l *lexer) word() Token {
	start := l.pos
	var b strings.Builder
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		b.WriteRune(l.ch)
		l.advance()
	}
	text := b.String()
	span := diag.NewSpan(start, l.pos)
	switch text {
	case "MOD":
		return Token{Kind: Modulo, Literal: text, Span: span}
	case "DIV":
		return Token{Kind: FloorDivide, Literal: text, Span: span}
	case "TRUE", "FALSE":
		return Token{Kind: Boolean, Literal: text, Span: span}
	}
	if _, ok := Keywords[text]; ok {
		return Token{Kind: Keyword, Literal: text, Span: span}
	}
	return Token{Kind: Identifier, Literal: text, Span: span}
}

func (l *lexer) str() (Token, error) {
	start := l.pos
	l.advance()
	var b strings.Builder
	for l.ch != '"' {
		if l.ch == '\\' {
			l.advance()
			if l.ch == eof {
				break
			}
			if mapped, ok := escapes[l.ch]; ok {
				b.WriteRune(mapped)
			} else {
				b.WriteRune(l.ch)
			}
			l.advance()
			continue
		}
		if l.ch == eof {
			break
		}
		b.WriteRune(l.ch)
		l.advance()
	}
	if l.ch == eof {
		return Token{}, diag.New(diag.UnterminatedLiteral, diag.NewSpan(start, l.pos),
			"This probably means you have forgotten to close a string")
	}
	l.advance()
	return Token{Kind: String, Literal: b.String(), Span: diag.NewSpan(start, l.pos)}, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
