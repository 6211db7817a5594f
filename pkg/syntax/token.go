package syntax

import "fmt"

// Tag classifies a token.
type Tag uint8

const (
	TagUnknown Tag = iota
	TagEnd

	TagIdentifier
	TagText
	TagInteger
	TagHexadecimal
	TagBinary
	TagFractional
	TagScientific

	TagLeftParenthesis
	TagRightParenthesis
	TagLeftBracket
	TagRightBracket
	TagLeftBrace
	TagRightBrace
	TagComma
	TagPeriod
	TagColon
	TagSemicolon
	TagQuestion
	TagAt
	TagHash
	TagDollar
	TagBacktick
	TagTilde
	TagBackslash

	TagBang
	TagPercent
	TagAmpersand
	TagStar
	TagPlus
	TagMinus
	TagSlash
	TagLess
	TagEqual
	TagGreater
	TagCaret
	TagBar

	TagBangEqual
	TagPercentEqual
	TagAmpersandEqual
	TagAmpersandAmpersand
	TagStarEqual
	TagPlusEqual
	TagMinusEqual
	TagArrow
	TagSlashEqual
	TagLessEqual
	TagEqualEqual
	TagGreaterEqual
	TagCaretEqual
	TagBarBar
	TagBarEqual
	TagShiftLeft
	TagShiftRight
	TagShiftLeftEqual
	TagShiftRightEqual

	tagCount
)

var tagRepresentations = [tagCount]string{
	TagUnknown: "unknown",
	TagEnd:     "`End`",

	TagIdentifier:  "identifier",
	TagText:        "text",
	TagInteger:     "integer",
	TagHexadecimal: "hexadecimal",
	TagBinary:      "binary",
	TagFractional:  "fractional",
	TagScientific:  "scientific",

	TagLeftParenthesis:  "`(`",
	TagRightParenthesis: "`)`",
	TagLeftBracket:      "`[`",
	TagRightBracket:     "`]`",
	TagLeftBrace:        "`{`",
	TagRightBrace:       "`}`",
	TagComma:            "`,`",
	TagPeriod:           "`.`",
	TagColon:            "`:`",
	TagSemicolon:        "`;`",
	TagQuestion:         "`?`",
	TagAt:               "`@`",
	TagHash:             "`#`",
	TagDollar:           "`$`",
	TagBacktick:         "`` ` ``",
	TagTilde:            "`~`",
	TagBackslash:        "`\\`",

	TagBang:      "`!`",
	TagPercent:   "`%`",
	TagAmpersand: "`&`",
	TagStar:      "`*`",
	TagPlus:      "`+`",
	TagMinus:     "`-`",
	TagSlash:     "`/`",
	TagLess:      "`<`",
	TagEqual:     "`=`",
	TagGreater:   "`>`",
	TagCaret:     "`^`",
	TagBar:       "`|`",

	TagBangEqual:          "`!=`",
	TagPercentEqual:       "`%=`",
	TagAmpersandEqual:     "`&=`",
	TagAmpersandAmpersand: "`&&`",
	TagStarEqual:          "`*=`",
	TagPlusEqual:          "`+=`",
	TagMinusEqual:         "`-=`",
	TagArrow:              "`->`",
	TagSlashEqual:         "`/=`",
	TagLessEqual:          "`<=`",
	TagEqualEqual:         "`==`",
	TagGreaterEqual:       "`>=`",
	TagCaretEqual:         "`^=`",
	TagBarBar:             "`||`",
	TagBarEqual:           "`|=`",
	TagShiftLeft:          "`<<`",
	TagShiftRight:         "`>>`",
	TagShiftLeftEqual:     "`<<=`",
	TagShiftRightEqual:    "`>>=`",
}

func (t Tag) String() string {
	if t < tagCount {
		return tagRepresentations[t]
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

// Token is the lexer's current lexical unit. Beginning and Ending are byte
// offsets (half-open); Row and Column are 1-based and point at the first rune.
type Token struct {
	Tag       Tag
	Beginning int
	Ending    int
	Row       int
	Column    int
}

var singles = map[rune]Tag{
	'(':  TagLeftParenthesis,
	')':  TagRightParenthesis,
	'[':  TagLeftBracket,
	']':  TagRightBracket,
	'{':  TagLeftBrace,
	'}':  TagRightBrace,
	',':  TagComma,
	'.':  TagPeriod,
	':':  TagColon,
	';':  TagSemicolon,
	'?':  TagQuestion,
	'@':  TagAt,
	'#':  TagHash,
	'$':  TagDollar,
	'`':  TagBacktick,
	'~':  TagTilde,
	'\\': TagBackslash,
	'!':  TagBang,
	'%':  TagPercent,
	'&':  TagAmpersand,
	'*':  TagStar,
	'+':  TagPlus,
	'-':  TagMinus,
	'/':  TagSlash,
	'<':  TagLess,
	'=':  TagEqual,
	'>':  TagGreater,
	'^':  TagCaret,
	'|':  TagBar,
}

var doubles = map[[2]rune]Tag{
	{'!', '='}: TagBangEqual,
	{'%', '='}: TagPercentEqual,
	{'&', '='}: TagAmpersandEqual,
	{'&', '&'}: TagAmpersandAmpersand,
	{'*', '='}: TagStarEqual,
	{'+', '='}: TagPlusEqual,
	{'-', '='}: TagMinusEqual,
	{'-', '>'}: TagArrow,
	{'/', '='}: TagSlashEqual,
	{'<', '='}: TagLessEqual,
	{'=', '='}: TagEqualEqual,
	{'>', '='}: TagGreaterEqual,
	{'^', '='}: TagCaretEqual,
	{'|', '|'}: TagBarBar,
	{'|', '='}: TagBarEqual,
}
