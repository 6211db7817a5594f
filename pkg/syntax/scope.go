package syntax

import (
	"fmt"

	"lexis/pkg/arena"
	"lexis/pkg/diag"
)

const scopeInitialCapacity = 8

// nodeList is a growable sequence of ids backed by arena memory. Growing
// pushes a larger block and copies; the old block is left to the arena.
type nodeList struct {
	arena *arena.Allocator
	items []NodeID
	count int
}

func newNodeList(a *arena.Allocator) *nodeList {
	return &nodeList{
		arena: a,
		items: arena.PushSlice[NodeID](a, scopeInitialCapacity),
	}
}

func (l *nodeList) append(id NodeID) {
	if l.count == len(l.items) {
		grown := arena.PushSlice[NodeID](l.arena, len(l.items)+len(l.items)/2)
		copy(grown, l.items)
		l.items = grown
	}
	l.items[l.count] = id
	l.count++
}

func (l *nodeList) slice() []NodeID {
	return l.items[:l.count:l.count]
}

// parseScope parses statements separated by `;`. The root scope runs until
// the end of the source; a nested scope starts at `{` and ends at the
// matching `}`, which is consumed.
func (p *parser) parseScope(root bool) (NodeID, error) {
	n := Node{Tag: NodeScope, Row: 1, Column: 1}
	if !root {
		opener := p.lexer.Token
		if opener.Tag != TagLeftBrace {
			return 0, p.fail(diag.KindInternal, fmt.Sprintf("Expected token: %s.", TagLeftBrace))
		}
		n.Beginning, n.Row, n.Column = opener.Beginning, opener.Row, opener.Column
	}

	// fetches the first token of the root, or skips the `{`
	if _, err := p.next(); err != nil {
		return 0, err
	}

	statements := newNodeList(p.arena)
	for {
		id, err := p.parseExpression(precedenceNone, contextNormal)
		if err != nil {
			return 0, err
		}
		if id != 0 {
			statements.append(id)
		}

		switch p.lexer.Token.Tag {
		case TagSemicolon:
			if _, err := p.next(); err != nil {
				return 0, err
			}
			continue

		case TagEnd:
			if !root {
				return 0, p.fail(diag.KindSyntactic, fmt.Sprintf("Unterminated %s.", TagLeftBrace))
			}
			n.Ending = p.lexer.Token.Beginning

		case TagRightBrace:
			if root {
				return 0, p.fail(diag.KindSyntactic, fmt.Sprintf("Extraneous %s.", TagRightBrace))
			}
			if _, err := p.next(); err != nil {
				return 0, err
			}
			n.Ending = p.previousEnding

		default:
			return 0, p.fail(diag.KindInternal, fmt.Sprintf("Unexpected %s after a statement.", p.lexer.Token.Tag))
		}

		n.Children = statements.slice()
		return p.tree.add(n), nil
	}
}
