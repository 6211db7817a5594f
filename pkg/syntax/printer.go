package syntax

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"lexis/pkg/diag"
	"lexis/pkg/source"
)

// Fprint writes every top-level statement of prog as an indented outline,
// one node per line as `tag: payload`. Absent operands print as `undefined`.
func Fprint(w io.Writer, prog *Program) error {
	bw := bufio.NewWriter(w)
	for _, id := range prog.Statements() {
		printNode(bw, prog.Tree, id, 0)
	}
	return bw.Flush()
}

// FprintNode writes the subtree rooted at id starting at the given depth.
func FprintNode(w io.Writer, tree *Tree, id NodeID, depth int) error {
	bw := bufio.NewWriter(w)
	printNode(bw, tree, id, depth)
	return bw.Flush()
}

func printNode(w *bufio.Writer, tree *Tree, id NodeID, depth int) {
	w.WriteString(strings.Repeat("  ", depth))

	n := tree.Node(id)
	if n == nil {
		w.WriteString("undefined\n")
		return
	}

	w.WriteString(n.Tag.String())
	w.WriteByte(':')

	switch n.Tag {
	case NodeScope:
		w.WriteByte('\n')
		for _, child := range n.Children {
			printNode(w, tree, child, depth+1)
		}
		return
	case NodeIdentifier, NodePragma:
		w.WriteByte(' ')
		w.Write(n.Text)
	case NodeText:
		w.WriteString(" \"")
		w.Write(n.Text)
		w.WriteByte('"')
	case NodeInteger:
		w.WriteByte(' ')
		w.WriteString(strconv.FormatUint(n.Value, 10))
	case NodeFractional:
		w.WriteByte(' ')
		w.WriteString(strconv.FormatFloat(n.Float, 'f', 6, 64))
	}
	w.WriteByte('\n')

	for _, operand := range tree.Operands(id) {
		printNode(w, tree, operand, depth+1)
	}
}

// Tokens reports every token of f, End included, to sink as a verbose
// diagnostic and returns how many were seen. A lexical failure stops the scan.
func Tokens(f *source.File, sink diag.Sink) (int, error) {
	l, err := NewLexer(f, sink)
	if err != nil {
		return 0, err
	}
	count := 0
	for {
		tag, err := l.Next()
		if err != nil {
			return count, err
		}
		count++
		tok := l.Token
		sink.Report(diag.Diagnostic{
			Severity:  diag.Verbose,
			Path:      f.Path,
			Beginning: tok.Beginning,
			Ending:    tok.Ending,
			Row:       tok.Row,
			Column:    tok.Column,
			Message:   tag.String(),
		}, f.Data)
		if tag == TagEnd {
			return count, nil
		}
	}
}

// ExportedNode is a self-contained copy of a subtree, shaped for JSON.
type ExportedNode struct {
	Tag       NodeTag         `json:"tag"`
	Beginning int             `json:"beginning"`
	Ending    int             `json:"ending"`
	Row       int             `json:"row"`
	Column    int             `json:"column"`
	Text      string          `json:"text,omitempty"`
	Value     *uint64         `json:"value,omitempty"`
	Radix     uint8           `json:"radix,omitempty"`
	Exact     string          `json:"exact,omitempty"`
	Operands  []*ExportedNode `json:"operands,omitempty"`
	Children  []*ExportedNode `json:"children,omitempty"`
}

// Export copies the subtree rooted at id out of the arena. It returns nil for
// an absent id.
func Export(tree *Tree, id NodeID) *ExportedNode {
	n := tree.Node(id)
	if n == nil {
		return nil
	}
	e := &ExportedNode{
		Tag:       n.Tag,
		Beginning: n.Beginning,
		Ending:    n.Ending,
		Row:       n.Row,
		Column:    n.Column,
	}
	switch n.Tag {
	case NodeIdentifier, NodeText, NodePragma:
		e.Text = string(n.Text)
	case NodeInteger:
		value := n.Value
		e.Value, e.Radix = &value, n.Radix
	case NodeFractional:
		e.Exact = n.Exact.String()
	case NodeScope:
		e.Children = make([]*ExportedNode, 0, len(n.Children))
		for _, child := range n.Children {
			e.Children = append(e.Children, Export(tree, child))
		}
	}
	for _, operand := range tree.Operands(id) {
		e.Operands = append(e.Operands, Export(tree, operand))
	}
	return e
}
