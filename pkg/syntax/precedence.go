package syntax

type precedence uint8

// Binding strengths from loosest to tightest. An operator extends the left
// operand only when its precedence is strictly greater than the caller's.
const (
	precedenceNone precedence = iota
	precedenceList
	precedenceAssignment
	precedenceDeclaration
	precedenceLogicalDisjunction
	precedenceLogicalConjunction
	precedenceBitwiseDisjunction
	precedenceBitwiseExclusiveDisjunction
	precedenceBitwiseConjunction
	precedenceEquality
	precedenceRelational
	precedenceShift
	precedenceAdditive
	precedenceMultiplicative
	precedenceInvocation
	precedenceResolution
	precedenceUnary
)

// parseContext tells parseExpression what construct it is parsing the operand of.
type parseContext uint8

const (
	contextNormal parseContext = iota
	// contextProcedureTail: a `{` prime belongs to the enclosing procedure
	// as its body.
	contextProcedureTail
	// contextConditionalTail: a `:` ends the operand instead of starting a
	// declaration.
	contextConditionalTail
)

type operator struct {
	tag        NodeTag
	precedence precedence
}

var infix = map[Tag]operator{
	TagComma: {NodeList, precedenceList},

	TagEqual:           {NodeAssignment, precedenceAssignment},
	TagPlusEqual:       {NodeAdditionAssignment, precedenceAssignment},
	TagMinusEqual:      {NodeSubtractionAssignment, precedenceAssignment},
	TagStarEqual:       {NodeMultiplicationAssignment, precedenceAssignment},
	TagSlashEqual:      {NodeDivisionAssignment, precedenceAssignment},
	TagPercentEqual:    {NodeModulusAssignment, precedenceAssignment},
	TagAmpersandEqual:  {NodeBitwiseConjunctionAssignment, precedenceAssignment},
	TagBarEqual:        {NodeBitwiseDisjunctionAssignment, precedenceAssignment},
	TagCaretEqual:      {NodeBitwiseExclusiveDisjunctionAssignment, precedenceAssignment},
	TagShiftLeftEqual:  {NodeLeftShiftAssignment, precedenceAssignment},
	TagShiftRightEqual: {NodeRightShiftAssignment, precedenceAssignment},
	TagQuestion:        {NodeConditional, precedenceAssignment},

	TagColon: {NodeDeclaration, precedenceDeclaration},

	TagBarBar:             {NodeLogicalDisjunction, precedenceLogicalDisjunction},
	TagAmpersandAmpersand: {NodeLogicalConjunction, precedenceLogicalConjunction},
	TagBar:                {NodeBitwiseDisjunction, precedenceBitwiseDisjunction},
	TagCaret:              {NodeBitwiseExclusiveDisjunction, precedenceBitwiseExclusiveDisjunction},
	TagAmpersand:          {NodeBitwiseConjunction, precedenceBitwiseConjunction},

	TagEqualEqual: {NodeEquality, precedenceEquality},
	TagBangEqual:  {NodeInequality, precedenceEquality},

	TagLess:         {NodeLess, precedenceRelational},
	TagGreater:      {NodeGreater, precedenceRelational},
	TagLessEqual:    {NodeLessOrEqual, precedenceRelational},
	TagGreaterEqual: {NodeGreaterOrEqual, precedenceRelational},

	TagShiftLeft:  {NodeLeftShift, precedenceShift},
	TagShiftRight: {NodeRightShift, precedenceShift},

	TagPlus:  {NodeAddition, precedenceAdditive},
	TagMinus: {NodeSubtraction, precedenceAdditive},

	TagStar:    {NodeMultiplication, precedenceMultiplicative},
	TagSlash:   {NodeDivision, precedenceMultiplicative},
	TagPercent: {NodeModulus, precedenceMultiplicative},

	TagPeriod: {NodeResolution, precedenceResolution},
	TagArrow:  {NodeProcedure, precedenceUnary},
}

var invocation = operator{NodeInvocation, precedenceInvocation}

var prefix = map[Tag]NodeTag{
	TagBang:  NodeLogicalNegation,
	TagMinus: NodeNegation,
	TagTilde: NodeBitwiseNegation,
	TagAt:    NodeReference,
}

func isTerminator(tag Tag) bool {
	switch tag {
	case TagEnd, TagSemicolon, TagRightParenthesis, TagRightBrace, TagRightBracket:
		return true
	}
	return false
}

// rightAssociative operators parse their right operand one level looser so
// that a chain nests to the right.
func (o operator) rightAssociative() bool {
	return o.precedence == precedenceAssignment
}

func (o operator) ternary() bool {
	return o.tag == NodeProcedure || o.tag == NodeConditional
}
