package syntax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"lexis/pkg/arena"
	"lexis/pkg/source"
)

// NodeTag names the syntactic category of a node.
type NodeTag uint8

const (
	NodeInvalid NodeTag = iota

	// leaves
	NodeScope
	NodeIdentifier
	NodeText
	NodeInteger
	NodeFractional
	NodePragma

	// unary
	NodeSubexpression
	NodeIndexation
	NodeLogicalNegation
	NodeNegation
	NodeBitwiseNegation
	NodeReference

	// binary
	NodeList
	NodeAssignment
	NodeAdditionAssignment
	NodeSubtractionAssignment
	NodeMultiplicationAssignment
	NodeDivisionAssignment
	NodeModulusAssignment
	NodeBitwiseConjunctionAssignment
	NodeBitwiseDisjunctionAssignment
	NodeBitwiseExclusiveDisjunctionAssignment
	NodeLeftShiftAssignment
	NodeRightShiftAssignment
	NodeDeclaration
	NodeLogicalDisjunction
	NodeLogicalConjunction
	NodeBitwiseDisjunction
	NodeBitwiseExclusiveDisjunction
	NodeBitwiseConjunction
	NodeEquality
	NodeInequality
	NodeLess
	NodeGreater
	NodeLessOrEqual
	NodeGreaterOrEqual
	NodeLeftShift
	NodeRightShift
	NodeAddition
	NodeSubtraction
	NodeMultiplication
	NodeDivision
	NodeModulus
	NodeInvocation
	NodeResolution

	// ternary
	NodeProcedure
	NodeConditional

	nodeTagCount
)

var nodeTagNames = [nodeTagCount]string{
	NodeInvalid: "invalid",

	NodeScope:      "scope",
	NodeIdentifier: "identifier",
	NodeText:       "text",
	NodeInteger:    "integer",
	NodeFractional: "fractional",
	NodePragma:     "pragma",

	NodeSubexpression:   "subexpression",
	NodeIndexation:      "indexation",
	NodeLogicalNegation: "logical_negation",
	NodeNegation:        "negation",
	NodeBitwiseNegation: "bitwise_negation",
	NodeReference:       "reference",

	NodeList:                                  "list",
	NodeAssignment:                            "assignment",
	NodeAdditionAssignment:                    "addition_assignment",
	NodeSubtractionAssignment:                 "subtraction_assignment",
	NodeMultiplicationAssignment:              "multiplication_assignment",
	NodeDivisionAssignment:                    "division_assignment",
	NodeModulusAssignment:                     "modulus_assignment",
	NodeBitwiseConjunctionAssignment:          "bitwise_conjunction_assignment",
	NodeBitwiseDisjunctionAssignment:          "bitwise_disjunction_assignment",
	NodeBitwiseExclusiveDisjunctionAssignment: "bitwise_exclusive_disjunction_assignment",
	NodeLeftShiftAssignment:                   "left_shift_assignment",
	NodeRightShiftAssignment:                  "right_shift_assignment",
	NodeDeclaration:                           "declaration",
	NodeLogicalDisjunction:                    "logical_disjunction",
	NodeLogicalConjunction:                    "logical_conjunction",
	NodeBitwiseDisjunction:                    "bitwise_disjunction",
	NodeBitwiseExclusiveDisjunction:           "bitwise_exclusive_disjunction",
	NodeBitwiseConjunction:                    "bitwise_conjunction",
	NodeEquality:                              "equality",
	NodeInequality:                            "inequality",
	NodeLess:                                  "less",
	NodeGreater:                               "greater",
	NodeLessOrEqual:                           "less_or_equal",
	NodeGreaterOrEqual:                        "greater_or_equal",
	NodeLeftShift:                             "left_shift",
	NodeRightShift:                            "right_shift",
	NodeAddition:                              "addition",
	NodeSubtraction:                           "subtraction",
	NodeMultiplication:                        "multiplication",
	NodeDivision:                              "division",
	NodeModulus:                               "modulus",
	NodeInvocation:                            "invocation",
	NodeResolution:                            "resolution",

	NodeProcedure:   "procedure",
	NodeConditional: "conditional",
}

func (t NodeTag) String() string {
	if t < nodeTagCount {
		return nodeTagNames[t]
	}
	return fmt.Sprintf("node(%d)", uint8(t))
}

func (t NodeTag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Arity returns how many operands a node of this tag carries: 0 for leaves,
// 3 for procedures and conditionals.
func (t NodeTag) Arity() int {
	switch {
	case t >= NodeScope && t <= NodePragma:
		return 0
	case t >= NodeSubexpression && t <= NodeReference:
		return 1
	case t >= NodeList && t <= NodeResolution:
		return 2
	case t == NodeProcedure || t == NodeConditional:
		return 3
	}
	return 0
}

// NodeID refers to a node inside its Tree. The zero value means absent.
type NodeID uint32

// Node is one element of the syntax tree. Which payload fields are set
// depends on Tag: Left for unary nodes, Left and Right for binary, all three
// operands for ternary, Text for identifiers, text literals and pragmas,
// Value and Radix for integers, Float and Exact for fractionals, Children
// for scopes.
type Node struct {
	Tag       NodeTag
	Beginning int
	Ending    int
	Row       int
	Column    int

	Left  NodeID
	Right NodeID
	Third NodeID

	Text     []byte
	Value    uint64
	Radix    uint8
	Float    float64
	Exact    decimal.Decimal
	Children []NodeID
}

// Tree owns every node produced by one parse.
type Tree struct {
	nodes []Node
}

func newTree() *Tree {
	// slot 0 backs the absent id
	return &Tree{nodes: make([]Node, 1, 64)}
}

func (t *Tree) add(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// Node returns the node for id, or nil when id is absent or out of range.
func (t *Tree) Node(id NodeID) *Node {
	if id == 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

// Children returns the statements of a scope node.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	return n.Children
}

// Operands returns the operand slots of id according to its arity. Absent
// operands are returned as zero ids.
func (t *Tree) Operands(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	switch n.Tag.Arity() {
	case 1:
		return []NodeID{n.Left}
	case 2:
		return []NodeID{n.Left, n.Right}
	case 3:
		return []NodeID{n.Left, n.Right, n.Third}
	}
	return nil
}

// Walk visits id and its descendants depth first. Returning false from fn
// skips the node's children. Absent operands are not visited.
func (t *Tree) Walk(id NodeID, fn func(id NodeID, n *Node, depth int) bool) {
	t.walk(id, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, *Node, int) bool) {
	n := t.Node(id)
	if n == nil || !fn(id, n, depth) {
		return
	}
	if n.Tag == NodeScope {
		for _, child := range n.Children {
			t.walk(child, depth+1, fn)
		}
		return
	}
	for _, operand := range t.Operands(id) {
		t.walk(operand, depth+1, fn)
	}
}

// Program is the result of a successful parse.
type Program struct {
	Path string
	File *source.File
	Tree *Tree
	Root NodeID

	// Arena owns the source buffer and every identifier, text and scope
	// sequence referenced by Tree.
	Arena *arena.Allocator

	// FP64 is set by a `#fp64` pragma anywhere in the source.
	FP64 bool
}

// Statements returns the children of the root scope.
func (p *Program) Statements() []NodeID {
	return p.Tree.Children(p.Root)
}
