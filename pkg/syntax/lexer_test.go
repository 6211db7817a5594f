package syntax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexis/pkg/diag"
	"lexis/pkg/source"
)

func lex(t *testing.T, src string) ([]Token, error) {
	t.Helper()
	l, err := NewLexer(source.FromBytes("lex.lx", []byte(src), nil), diag.Discard)
	if err != nil {
		return nil, err
	}
	var tokens []Token
	for {
		tag, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, l.Token)
		if tag == TagEnd {
			return tokens, nil
		}
	}
}

func tags(t *testing.T, src string) []Tag {
	t.Helper()
	tokens, err := lex(t, src)
	require.NoError(t, err)
	out := make([]Tag, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Tag
	}
	return out
}

func TestLexerOperators(t *testing.T) {
	tests := map[string]Tag{
		"(": TagLeftParenthesis, ")": TagRightParenthesis, "[": TagLeftBracket, "]": TagRightBracket,
		"{": TagLeftBrace, "}": TagRightBrace, ",": TagComma, ".": TagPeriod, ":": TagColon,
		";": TagSemicolon, "?": TagQuestion, "@": TagAt, "#": TagHash, "$": TagDollar,
		"`": TagBacktick, "~": TagTilde, "\\": TagBackslash,
		"!": TagBang, "%": TagPercent, "&": TagAmpersand, "*": TagStar, "+": TagPlus, "-": TagMinus,
		"/": TagSlash, "<": TagLess, "=": TagEqual, ">": TagGreater, "^": TagCaret, "|": TagBar,
		"!=": TagBangEqual, "%=": TagPercentEqual, "&=": TagAmpersandEqual, "&&": TagAmpersandAmpersand,
		"*=": TagStarEqual, "+=": TagPlusEqual, "-=": TagMinusEqual, "->": TagArrow, "/=": TagSlashEqual,
		"<=": TagLessEqual, "==": TagEqualEqual, ">=": TagGreaterEqual, "^=": TagCaretEqual,
		"||": TagBarBar, "|=": TagBarEqual,
		"<<": TagShiftLeft, ">>": TagShiftRight, "<<=": TagShiftLeftEqual, ">>=": TagShiftRightEqual,
	}
	for src, want := range tests {
		t.Run(src, func(t *testing.T) {
			tokens, err := lex(t, src)
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			assert.Equal(t, want, tokens[0].Tag)
			assert.Equal(t, 0, tokens[0].Beginning)
			assert.Equal(t, len(src), tokens[0].Ending)
			assert.Equal(t, TagEnd, tokens[1].Tag)
		})
	}
}

func TestLexerShiftConsumesOnlyItsRunes(t *testing.T) {
	assert.Equal(t, []Tag{TagIdentifier, TagShiftLeft, TagIdentifier, TagEnd}, tags(t, "a<<b"))
	assert.Equal(t, []Tag{TagIdentifier, TagShiftRight, TagInteger, TagEnd}, tags(t, "a>>2"))
	assert.Equal(t, []Tag{TagShiftLeft, TagLess, TagEnd}, tags(t, "<<<"))
}

func TestLexerWhitespaceAndCommentsDoNotChangeTags(t *testing.T) {
	compact := tags(t, "a=b+1;f(x){y}")
	spaced := tags(t, "  a =\tb + 1 ; -- trailing comment\n\n f ( x )\r\n{ y } -- last")
	assert.Equal(t, compact, spaced)
}

func TestLexerPositions(t *testing.T) {
	tokens, err := lex(t, "ab\n  cd\n\n e")
	require.NoError(t, err)
	require.Len(t, tokens, 4)

	assert.Equal(t, Token{Tag: TagIdentifier, Beginning: 0, Ending: 2, Row: 1, Column: 1}, tokens[0])
	assert.Equal(t, Token{Tag: TagIdentifier, Beginning: 5, Ending: 7, Row: 2, Column: 3}, tokens[1])
	assert.Equal(t, Token{Tag: TagIdentifier, Beginning: 10, Ending: 11, Row: 4, Column: 2}, tokens[2])
	assert.Equal(t, TagEnd, tokens[3].Tag)
	assert.Equal(t, 11, tokens[3].Beginning)
	assert.Equal(t, 11, tokens[3].Ending)
}

func TestLexerIdentifiers(t *testing.T) {
	assert.Equal(t, []Tag{TagIdentifier, TagEnd}, tags(t, "kebab-case_name2"))
	assert.Equal(t, []Tag{TagIdentifier, TagEnd}, tags(t, "größe"))
	assert.Equal(t, []Tag{TagIdentifier, TagArrow, TagIdentifier, TagEnd}, tags(t, "x->y"))
	assert.Equal(t, []Tag{TagIdentifier, TagEnd}, tags(t, "x--comment"))
	assert.Equal(t, []Tag{TagIdentifier, TagMinus, TagInteger, TagEnd}, tags(t, "x- 1"))
}

func TestLexerText(t *testing.T) {
	tokens, err := lex(t, `"a\"b" "c"`)
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, TagText, tokens[0].Tag)
	assert.Equal(t, 6, tokens[0].Ending)
	assert.Equal(t, TagText, tokens[1].Tag)
	assert.Equal(t, 7, tokens[1].Beginning)
}

func TestLexerNumerals(t *testing.T) {
	tests := []struct {
		src string
		tag Tag
	}{
		{"42", TagInteger},
		{"1_000", TagInteger},
		{"0x1F", TagHexadecimal},
		{"0b1010", TagBinary},
		{"3.25", TagFractional},
		{"1.", TagFractional},
		{"1e3", TagScientific},
		{"2.5E-1", TagScientific},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tokens, err := lex(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.tag, tokens[0].Tag)
			assert.Equal(t, len(tt.src), tokens[0].Ending)
		})
	}
}

func TestLexerFailures(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		kind      diag.Kind
		message   string
		beginning int
		ending    int
	}{
		{"second point", "1.2.3 x", diag.KindLexical, "Malformed numeral.", 0, 5},
		{"point after hexadecimal", "0x1.5", diag.KindLexical, "Malformed numeral.", 0, 5},
		{"decimal digit after binary prefix", "0b102", diag.KindLexical, "Malformed numeral.", 0, 5},
		{"empty prefix", "0x;", diag.KindLexical, "Malformed numeral.", 0, 3},
		{"empty exponent", "1e+", diag.KindLexical, "Malformed numeral.", 0, 3},
		{"unterminated text", `"abc`, diag.KindLexical, "Unterminated text literal.", 0, 4},
		{"escape before end", `"abc\`, diag.KindLexical, "Unterminated text literal.", 0, 5},
		{"unknown token", "a ☃", diag.KindLexical, "Unknown token.", 2, 5},
		{"sentinel byte inside source", "a \x03 b", diag.KindLexical, "Unknown token.", 2, 3},
		{"malformed rune", "a \xff", diag.KindDecode, "Unknown rune.", 2, 3},
		{"truncated rune", "a \xe2\x82", diag.KindDecode, "Unknown rune.", 2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var collector diag.Collector
			l, err := NewLexer(source.FromBytes("bad.lx", []byte(tt.src), nil), &collector)
			require.NoError(t, err)
			for err == nil {
				var tag Tag
				tag, err = l.Next()
				if tag == TagEnd {
					break
				}
			}
			require.Error(t, err)

			var d diag.Diagnostic
			require.True(t, errors.As(err, &d))
			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, tt.message, d.Message)
			assert.Equal(t, tt.beginning, d.Beginning)
			assert.Equal(t, tt.ending, d.Ending)

			require.Len(t, collector.Failures(), 1)
		})
	}
}

func TestLexerMalformedFirstRune(t *testing.T) {
	var collector diag.Collector
	_, err := NewLexer(source.FromBytes("bad.lx", []byte{0xC3}, nil), &collector)
	require.Error(t, err)
	require.Len(t, collector.Diagnostics, 1)
	d := collector.Diagnostics[0]
	assert.Equal(t, 1, d.Row)
	assert.Equal(t, 1, d.Column)
	assert.Equal(t, 0, d.Beginning)
	assert.Equal(t, 1, d.Ending)
}

func BenchmarkLexer(b *testing.B) {
	src := []byte("main -> int { x : = 0x1F + 3.25 * f(y, z); -- comment\n r <<= 2; \"text\" }")
	f := source.FromBytes("bench.lx", src, nil)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l, _ := NewLexer(f, diag.Discard)
		for {
			tag, err := l.Next()
			if err != nil || tag == TagEnd {
				break
			}
		}
	}
}
