package syntax

import (
	"errors"
	"unicode"

	"lexis/pkg/codec"
	"lexis/pkg/diag"
	"lexis/pkg/source"
)

// endRune is what the cursor holds once the source is exhausted.
const endRune = source.Sentinel

// Lexer turns a sentinel-terminated source buffer into tokens, one rune of
// lookahead at a time.
type Lexer struct {
	path string
	src  []byte
	size int
	sink diag.Sink

	position int
	width    int
	r        rune
	row      int
	column   int

	Token Token
}

// NewLexer positions a cursor on the first rune of f. Decode failures are
// reported to sink and returned.
func NewLexer(f *source.File, sink diag.Sink) (*Lexer, error) {
	if sink == nil {
		sink = diag.Discard
	}
	l := &Lexer{
		path: f.Path,
		src:  f.Data,
		size: f.Size(),
		sink: sink,
		r:    '\n',
	}
	if err := l.advance(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Lexer) atEnd() bool {
	return l.r == endRune && l.position >= l.size
}

// peek decodes the rune after the current one without moving the cursor.
func (l *Lexer) peek() (rune, int, error) {
	p := l.position + l.width
	if p >= l.size {
		return endRune, 0, nil
	}
	r, n, err := codec.DecodeUTF8(l.src[p:l.size])
	if err != nil {
		size := 1
		var decodeErr *codec.DecodeError
		if errors.As(err, &decodeErr) {
			size = decodeErr.Size
		}
		row, column := l.row, l.column+1
		if l.r == '\n' {
			row, column = l.row+1, 1
		}
		return 0, 0, l.report(diag.KindDecode, p, p+size, row, column, "Unknown rune.")
	}
	return r, n, nil
}

func (l *Lexer) advance() error {
	r, n, err := l.peek()
	if err != nil {
		return err
	}
	l.position += l.width
	if l.r == '\n' {
		l.row++
		l.column = 0
	}
	l.column++
	l.r, l.width = r, n
	return nil
}

func (l *Lexer) report(kind diag.Kind, beginning, ending, row, column int, message string) error {
	d := diag.Diagnostic{
		Severity:  diag.Failure,
		Kind:      kind,
		Path:      l.path,
		Beginning: beginning,
		Ending:    ending,
		Row:       row,
		Column:    column,
		Message:   message,
	}
	l.sink.Report(d, l.src)
	return d
}

// fail reports a lexical failure spanning the token scanned so far.
func (l *Lexer) fail(message string) error {
	return l.report(diag.KindLexical, l.Token.Beginning, l.position, l.Token.Row, l.Token.Column, message)
}

// Next scans the following token into l.Token and returns its tag.
func (l *Lexer) Next() (Tag, error) {
	tag, err := l.scan()
	l.Token.Tag = tag
	l.Token.Ending = l.position
	return tag, err
}

func (l *Lexer) scan() (Tag, error) {
	for {
		for isWhitespace(l.r) {
			if err := l.advance(); err != nil {
				return TagUnknown, err
			}
		}

		l.Token.Beginning = l.position
		l.Token.Row = l.row
		l.Token.Column = l.column

		if l.atEnd() {
			return TagEnd, nil
		}

		next, _, err := l.peek()
		if err != nil {
			return TagUnknown, err
		}

		switch {
		case l.r == '-' && next == '-':
			if err := l.skipComment(); err != nil {
				return TagUnknown, err
			}
			continue
		case l.r == '"':
			return l.scanText()
		case (l.r == '<' || l.r == '>') && next == l.r:
			return l.scanShift()
		}

		if tag, ok := doubles[[2]rune{l.r, next}]; ok {
			return tag, l.advanceN(2)
		}
		if tag, ok := singles[l.r]; ok {
			return tag, l.advance()
		}

		switch {
		case isLetter(l.r) || l.r == '_':
			return l.scanIdentifier()
		case isDigit(l.r):
			return l.scanNumeral()
		}

		if err := l.advance(); err != nil {
			return TagUnknown, err
		}
		return TagUnknown, l.fail("Unknown token.")
	}
}

func (l *Lexer) advanceN(n int) error {
	for i := 0; i < n; i++ {
		if err := l.advance(); err != nil {
			return err
		}
	}
	return nil
}

// skipComment consumes up to, not including, the next newline.
func (l *Lexer) skipComment() error {
	for l.r != '\n' && !l.atEnd() {
		if err := l.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lexer) scanShift() (Tag, error) {
	first := l.r
	if err := l.advance(); err != nil {
		return TagUnknown, err
	}
	next, _, err := l.peek()
	if err != nil {
		return TagUnknown, err
	}

	var tag Tag
	switch {
	case first == '<' && next == '=':
		tag = TagShiftLeftEqual
	case first == '>' && next == '=':
		tag = TagShiftRightEqual
	case first == '<':
		return TagShiftLeft, l.advance()
	default:
		return TagShiftRight, l.advance()
	}
	return tag, l.advanceN(2)
}

// scanText consumes a quoted literal. A backslash makes the lexer skip the
// following rune without interpreting it.
func (l *Lexer) scanText() (Tag, error) {
	for {
		if err := l.advance(); err != nil {
			return TagUnknown, err
		}
		if l.atEnd() {
			return TagUnknown, l.fail("Unterminated text literal.")
		}
		if l.r == '"' {
			break
		}
		if l.r == '\\' {
			if err := l.advance(); err != nil {
				return TagUnknown, err
			}
			if l.atEnd() {
				return TagUnknown, l.fail("Unterminated text literal.")
			}
		}
	}
	return TagText, l.advance()
}

func (l *Lexer) scanIdentifier() (Tag, error) {
	for {
		if err := l.advance(); err != nil {
			return TagUnknown, err
		}
		if isLetter(l.r) || isDigit(l.r) || l.r == '_' {
			continue
		}
		if l.r != '-' {
			return TagIdentifier, nil
		}
		// a hyphen joins only when a name rune follows, so `x->` and `x--`
		// still split
		next, _, err := l.peek()
		if err != nil {
			return TagUnknown, err
		}
		if !isLetter(next) && !isDigit(next) && next != '_' {
			return TagIdentifier, nil
		}
	}
}

func (l *Lexer) scanNumeral() (Tag, error) {
	tag := TagInteger
	if l.r == '0' {
		next, _, err := l.peek()
		if err != nil {
			return TagUnknown, err
		}
		switch next {
		case 'x', 'X':
			tag = TagHexadecimal
		case 'b', 'B':
			tag = TagBinary
		}
		if tag != TagInteger {
			if err := l.advanceN(2); err != nil {
				return TagUnknown, err
			}
		}
	}

	digits := 0
	for {
		switch {
		case l.r == '_':
		case isDigitOf(tag, l.r):
			digits++
		case tag == TagBinary && isDigit(l.r):
			return TagUnknown, l.malformed()
		case l.r == '.':
			if tag != TagInteger {
				return TagUnknown, l.malformed()
			}
			tag = TagFractional
		case (l.r == 'e' || l.r == 'E') && (tag == TagInteger || tag == TagFractional):
			tag = TagScientific
			if err := l.advance(); err != nil {
				return TagUnknown, err
			}
			if l.r == '+' || l.r == '-' {
				if err := l.advance(); err != nil {
					return TagUnknown, err
				}
			}
			if !isDigit(l.r) {
				return TagUnknown, l.malformed()
			}
			continue
		default:
			if digits == 0 {
				return TagUnknown, l.malformed()
			}
			return tag, nil
		}
		if err := l.advance(); err != nil {
			return TagUnknown, err
		}
	}
}

// malformed consumes the rest of the run up to whitespace before reporting.
func (l *Lexer) malformed() error {
	for !isWhitespace(l.r) && !l.atEnd() {
		if err := l.advance(); err != nil {
			return err
		}
	}
	return l.fail("Malformed numeral.")
}

func isWhitespace(r rune) bool {
	return (r >= '\t' && r <= '\r') || r == ' '
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isDigitOf(tag Tag, r rune) bool {
	switch tag {
	case TagHexadecimal:
		return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	case TagBinary:
		return r == '0' || r == '1'
	}
	return isDigit(r)
}
