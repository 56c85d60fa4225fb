package syntax

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"emberc/report"
)

// Lexer tokenizes a single source file. Grounded on the teacher's own
// Lexer (the same mark/eat/skip/peek token-buffer discipline, the same
// comment-or-division disambiguation, the same escape-sequence handling),
// simplified to this specification's narrower type system: numeric
// literals are plain decimal/hex/octal/binary integers (there is no
// floating-point builtin per spec §3.1), and there is no separate rune
// literal kind (a one-byte string literal covers that case).
type Lexer struct {
	ctx  *report.CompilationContext
	file *bufio.Reader

	tokBuff *strings.Builder

	line, col           int
	startLine, startCol int
}

func NewLexer(ctx *report.CompilationContext, file *bufio.Reader) *Lexer {
	return &Lexer{ctx: ctx, file: file, tokBuff: &strings.Builder{}}
}

// NextToken retrieves the next token, skipping whitespace and comments. ok
// is false only once a lexical error has already been reported to the
// lexer's CompilationContext.
func (l *Lexer) NextToken() (tok *Token, ok bool) {
	for {
		c, err := l.peek()
		if err != nil {
			return nil, l.ioError(err)
		} else if c == -1 {
			return &Token{Kind: TokEOF, Pos: l.getPos()}, true
		}

		switch c {
		case '\n', '\t', ' ', '\r', '\v', '\f':
			l.skip()
		case '/':
			if tok, handled, ok := l.lexCommentOrDiv(); handled {
				return tok, ok
			}
		case '"':
			return l.lexStringLit()
		default:
			switch {
			case isDecimalDigit(c):
				return l.lexNumericLit()
			case isFirstIdentChar(c):
				return l.lexIdentOrKeyword()
			default:
				return l.lexPunctOrOper()
			}
		}
	}
}

// symbolPatterns maps symbol strings, longest match first, to their
// punctuation/operator token kind.
var symbolPatterns = map[string]TokKind{
	"+": TokPlus, "+=": TokPlusEq,
	"-": TokMinus, "-=": TokMinusEq,
	"*": TokStar, "*=": TokStarEq,
	"%": TokMod, "%=": TokModEq,

	"&": TokBWAnd, "&=": TokBWAndEq,
	"|": TokBWOr, "|=": TokBWOrEq,
	"^": TokBWXor, "^=": TokBWXorEq,
	"~":  TokBWNot,
	"<<": TokLShift, "<<=": TokLShiftEq,
	">>": TokRShift, ">>=": TokRShiftEq,

	"==": TokEq,
	"!=": TokNeq,
	"<":  TokLt,
	"<=": TokLtEq,
	">":  TokGt,
	">=": TokGtEq,

	"=": TokAssign,

	"(": TokLParen,
	")": TokRParen,
	"{": TokLBrace,
	"}": TokRBrace,
	"[": TokLBracket,
	"]": TokRBracket,
	",": TokComma,
	".": TokDot,
	";": TokSemi,
	":": TokColon,
	"@": TokAtSign,
}

func (l *Lexer) lexPunctOrOper() (*Token, bool) {
	l.mark()
	l.eat()

	kind, ok := symbolPatterns[l.tokBuff.String()]
	if !ok {
		return nil, l.err("unknown symbol %q", l.tokBuff.String())
	}

	for {
		c, err := l.peek()
		if err != nil {
			return nil, l.ioError(err)
		}
		if c == -1 {
			break
		}
		if next, ok := symbolPatterns[l.tokBuff.String()+string(c)]; ok {
			l.eat()
			kind = next
		} else {
			break
		}
	}

	return l.makeToken(kind), true
}

func (l *Lexer) lexIdentOrKeyword() (*Token, bool) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, l.ioError(err)
		}
		if !isFirstIdentChar(c) && !isDecimalDigit(c) {
			break
		}
		l.eat()
	}

	kind, isKeyword := keywords[l.tokBuff.String()]
	if !isKeyword {
		kind = TokIdent
	}
	return l.makeToken(kind), true
}

// lexNumericLit lexes a decimal, 0x-hex, 0o-octal, or 0b-binary integer
// literal. Unlike the teacher's lexer, there is no float/exponent/suffix
// handling: this specification's only numeric builtin is the integer.
func (l *Lexer) lexNumericLit() (*Token, bool) {
	l.mark()
	c, _ := l.eat()

	isDigitForBase := isDecimalDigit
	if c == '0' {
		next, err := l.peek()
		if err != nil {
			return nil, l.ioError(err)
		}
		switch next {
		case 'x', 'X':
			l.eat()
			isDigitForBase = isHexDigit
		case 'o', 'O':
			l.eat()
			isDigitForBase = func(r rune) bool { return '0' <= r && r <= '7' }
		case 'b', 'B':
			l.eat()
			isDigitForBase = func(r rune) bool { return r == '0' || r == '1' }
		}
	}

	for {
		c, err := l.peek()
		if err != nil {
			return nil, l.ioError(err)
		}
		if c == '_' {
			l.skip()
			continue
		}
		if !isDigitForBase(c) {
			break
		}
		l.eat()
	}

	return l.makeToken(TokIntLit), true
}

// lexStringLit lexes a standard, double-quoted string literal.
func (l *Lexer) lexStringLit() (*Token, bool) {
	l.mark()
	l.skip()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, l.ioError(err)
		}

		switch c {
		case -1:
			return nil, l.err("unclosed string literal")
		case '"':
			l.skip()
			return l.makeToken(TokStringLit), true
		case '\\':
			l.eat()
			if ok := l.eatEscapeSequence(); !ok {
				return nil, false
			}
		case '\n':
			return nil, l.err("string literal cannot contain a newline")
		default:
			l.eat()
		}
	}
}

func (l *Lexer) eatEscapeSequence() bool {
	c, err := l.eat()
	if err != nil {
		l.ioError(err)
		return false
	}

	eatHexDigits := func(n int) bool {
		for i := 0; i < n; i++ {
			c, err := l.eat()
			if err != nil {
				l.ioError(err)
				return false
			}
			if c == -1 || !isHexDigit(c) {
				l.err("expected a %d-digit hexadecimal escape", n)
				return false
			}
		}
		return true
	}

	switch c {
	case -1:
		return l.err("expected an escape sequence, not end of file")
	case 'a', 'b', 'f', 'n', 'r', 't', 'v', '0', '\'', '\\', '"':
		return true
	case 'x':
		return eatHexDigits(2)
	default:
		return l.err("unknown escape sequence '\\%c'", c)
	}
}

// lexCommentOrDiv disambiguates `/`, `//`, and `/* */` (teacher's own
// lookahead trick for the same ambiguity). handled is false once a line or
// block comment has been skipped, so the caller's NextToken loop retries;
// the bare-division case returns handled true with a TokDiv token.
func (l *Lexer) lexCommentOrDiv() (tok *Token, handled bool, ok bool) {
	l.mark()
	l.skip()

	c, err := l.peek()
	if err != nil {
		return nil, true, l.ioError(err)
	}

	switch c {
	case '/':
		for c != '\n' && c != -1 {
			c, err = l.skip()
			if err != nil {
				return nil, true, l.ioError(err)
			}
		}
		return nil, false, true
	case '*':
		for {
			c, err = l.skip()
			if err != nil {
				return nil, true, l.ioError(err)
			}
			if c == -1 {
				return nil, true, l.err("unclosed block comment")
			}
			if c == '*' {
				c, err = l.peek()
				if err != nil {
					return nil, true, l.ioError(err)
				}
				if c == '/' {
					l.skip()
					break
				}
			}
		}
		return nil, false, true
	default:
		tok = l.makeToken(TokDiv)
		tok.Value = "/"
		return tok, true, true
	}
}

func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

func (l *Lexer) makeToken(kind TokKind) *Token {
	value := l.tokBuff.String()
	l.tokBuff.Reset()
	return &Token{Kind: kind, Value: value, Pos: l.getPos()}
}

func (l *Lexer) getPos() *report.TextPosition {
	return &report.TextPosition{
		FilePath: l.ctx.FilePath,
		StartLn:  l.startLine, StartCol: l.startCol,
		EndLn: l.line, EndCol: l.col,
	}
}

func (l *Lexer) err(format string, args ...any) bool {
	report.NewError(l.ctx, l.getPos(), format, args...).Emit()
	return false
}

func (l *Lexer) ioError(err error) bool {
	report.NewError(l.ctx, nil, "i/o error reading source: %v", err).Emit()
	return false
}

func (l *Lexer) eat() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}
		return 0, err
	}
	l.updatePos(c)
	l.tokBuff.WriteRune(c)
	return c, nil
}

func (l *Lexer) skip() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}
		return 0, err
	}
	l.updatePos(c)
	return c, nil
}

func (l *Lexer) peek() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}
		return 0, err
	}
	if err := l.file.UnreadRune(); err != nil {
		return 0, err
	}
	return c, nil
}

func (l *Lexer) updatePos(c rune) {
	switch c {
	case '\n':
		l.line++
		l.col = 0
	case '\t':
		l.col += 4
	default:
		l.col++
	}
}

func isDecimalDigit(c rune) bool { return '0' <= c && c <= '9' }

func isHexDigit(c rune) bool {
	return isDecimalDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isFirstIdentChar(c rune) bool { return unicode.IsLetter(c) || c == '_' }
