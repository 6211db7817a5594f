package syntax

import (
	"math/bits"
	"strings"

	"github.com/shopspring/decimal"

	"lexis/pkg/diag"
)

// leaf starts a node spanning the current token.
func (p *parser) leaf(tag NodeTag) Node {
	tok := p.lexer.Token
	return Node{
		Tag:       tag,
		Beginning: tok.Beginning,
		Ending:    tok.Ending,
		Row:       tok.Row,
		Column:    tok.Column,
	}
}

func (p *parser) tokenBytes() []byte {
	tok := p.lexer.Token
	return p.lexer.src[tok.Beginning:tok.Ending]
}

// finish consumes the current token and adds n.
func (p *parser) finish(n Node) (NodeID, error) {
	if _, err := p.next(); err != nil {
		return 0, err
	}
	return p.tree.add(n), nil
}

func (p *parser) parseIdentifier() (NodeID, error) {
	n := p.leaf(NodeIdentifier)
	n.Text = p.arena.Copy(p.tokenBytes())
	return p.finish(n)
}

// parseText keeps the content between the quotes with escapes unresolved.
func (p *parser) parseText() (NodeID, error) {
	n := p.leaf(NodeText)
	raw := p.tokenBytes()
	// TODO: resolve backslash escapes once the escape set is settled
	n.Text = p.arena.Copy(raw[1 : len(raw)-1])
	return p.finish(n)
}

func (p *parser) parseInteger() (NodeID, error) {
	n := p.leaf(NodeInteger)
	digits := p.tokenBytes()

	n.Radix = 10
	switch p.lexer.Token.Tag {
	case TagHexadecimal:
		n.Radix, digits = 16, digits[2:]
	case TagBinary:
		n.Radix, digits = 2, digits[2:]
	}

	var value uint64
	for _, c := range digits {
		if c == '_' {
			continue
		}
		hi, lo := bits.Mul64(value, uint64(n.Radix))
		sum, carry := bits.Add64(lo, uint64(digitValue(c)), 0)
		if hi != 0 || carry != 0 {
			return 0, p.fail(diag.KindSyntactic, "Integer literal does not fit in 64 bits.")
		}
		value = sum
	}
	n.Value = value
	return p.finish(n)
}

func digitValue(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	}
	return c - '0'
}

func (p *parser) parseFractional() (NodeID, error) {
	n := p.leaf(NodeFractional)
	exact, err := decimal.NewFromString(normalizeFractional(p.tokenBytes()))
	if err != nil {
		return 0, p.fail(diag.KindLexical, "Malformed numeral.")
	}
	n.Exact = exact
	n.Float, _ = exact.Float64()
	return p.finish(n)
}

// normalizeFractional drops digit separators and completes a bare trailing
// point, as in `1.` or `1.e3`.
func normalizeFractional(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw) + 1)
	for i, c := range raw {
		if c == '_' {
			continue
		}
		b.WriteByte(c)
		if c == '.' && !digitFollows(raw[i+1:]) {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func digitFollows(rest []byte) bool {
	for _, c := range rest {
		if c != '_' {
			return c >= '0' && c <= '9'
		}
	}
	return false
}

// parsePragma parses `#` identifier. Only `fp64` has an effect.
func (p *parser) parsePragma() (NodeID, error) {
	n := p.leaf(NodePragma)
	if _, err := p.next(); err != nil {
		return 0, err
	}
	if err := p.expect(TagIdentifier); err != nil {
		return 0, err
	}
	name := p.tokenBytes()
	if string(name) == "fp64" {
		p.program.FP64 = true
	}
	n.Text = p.arena.Copy(name)
	if _, err := p.next(); err != nil {
		return 0, err
	}
	n.Ending = p.previousEnding
	return p.tree.add(n), nil
}
