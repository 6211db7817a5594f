// Package syntax turns source text into a syntax tree by precedence climbing.
//
// A parse stops at the first failure. The failure is reported once to the
// configured diag.Sink and returned as a diag.Diagnostic error; no partial
// tree is handed back.
package syntax

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"lexis/pkg/arena"
	"lexis/pkg/diag"
	"lexis/pkg/source"
)

type options struct {
	sink              diag.Sink
	arena             *arena.Allocator
	minimumRegionSize int
	logger            *slog.Logger
}

type Option func(*options)

// WithSink sets where diagnostics are reported. The default discards them.
func WithSink(sink diag.Sink) Option {
	return func(o *options) { o.sink = sink }
}

// WithArena makes the parse push its source and tree storage from a instead
// of a fresh allocator. The allocator must not be shared with a concurrent
// parse.
func WithArena(a *arena.Allocator) Option {
	return func(o *options) { o.arena = a }
}

// WithMinimumRegionSize sizes the regions of the allocator created for the
// parse. It has no effect together with WithArena.
func WithMinimumRegionSize(size int) Option {
	return func(o *options) { o.minimumRegionSize = size }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.sink == nil {
		o.sink = diag.Discard
	}
	if o.arena == nil {
		o.arena = arena.New(o.minimumRegionSize)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// Parse loads the file at path and parses it. I/O failures are returned as
// is; every other failure is a diag.Diagnostic that was already reported.
func Parse(path string, opts ...Option) (*Program, error) {
	o := newOptions(opts)
	file, err := source.Load(path, o.arena)
	if err != nil {
		o.logger.Error("failed to load source", "path", path, "error", err)
		return nil, err
	}
	return parseFile(file, o)
}

// ParseSource parses src as if it had been read from path.
func ParseSource(path string, src []byte, opts ...Option) (*Program, error) {
	o := newOptions(opts)
	return parseFile(source.FromBytes(path, src, o.arena), o)
}

type parser struct {
	lexer   *Lexer
	tree    *Tree
	arena   *arena.Allocator
	program *Program

	// previousEnding is where the last consumed token ended.
	previousEnding int

	depth int
}

// maxNesting bounds the recursion depth of parseExpression.
const maxNesting = 4096

func parseFile(file *source.File, o *options) (program *Program, err error) {
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("panic recovered in parser",
				"panic", r,
				"path", file.Path,
				"stack", string(debug.Stack()),
			)
			d := diag.Diagnostic{
				Severity: diag.Failure,
				Kind:     diag.KindInternal,
				Path:     file.Path,
				Message:  fmt.Sprintf("Internal parser failure: %v.", r),
			}
			o.sink.Report(d, file.Data)
			program, err = nil, d
		}
	}()

	lexer, err := NewLexer(file, o.sink)
	if err != nil {
		o.logger.Debug("failed to parse", "path", file.Path, "error", err)
		return nil, err
	}

	p := &parser{
		lexer: lexer,
		tree:  newTree(),
		arena: o.arena,
	}
	p.program = &Program{
		Path:  file.Path,
		File:  file,
		Tree:  p.tree,
		Arena: o.arena,
	}

	root, err := p.parseScope(true)
	if err != nil {
		o.logger.Debug("failed to parse", "path", file.Path, "error", err)
		return nil, err
	}
	p.program.Root = root

	used, _, regions := o.arena.Stats()
	o.logger.Debug("parse finished",
		"path", file.Path,
		"nodes", p.tree.Len(),
		"arena_bytes", used,
		"arena_regions", regions,
		"duration", time.Since(started),
	)
	return p.program, nil
}

func (p *parser) next() (Tag, error) {
	p.previousEnding = p.lexer.Token.Ending
	return p.lexer.Next()
}

// fail reports a failure spanning the current token.
func (p *parser) fail(kind diag.Kind, message string) error {
	tok := p.lexer.Token
	return p.lexer.report(kind, tok.Beginning, tok.Ending, tok.Row, tok.Column, message)
}

func (p *parser) expect(tag Tag) error {
	if p.lexer.Token.Tag != tag {
		return p.fail(diag.KindSyntactic, fmt.Sprintf("Expected token: %s.", tag))
	}
	return nil
}

// parseExpression parses a prime operand and extends it with every operator
// binding tighter than minimum. It returns 0 when there is no operand.
func (p *parser) parseExpression(minimum precedence, ctx parseContext) (NodeID, error) {
	start := p.lexer.Token

	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxNesting {
		return 0, p.fail(diag.KindInternal, fmt.Sprintf("Expression nesting exceeds %d levels.", maxNesting))
	}

	left, err := p.parsePrime(ctx)
	if err != nil || left == 0 {
		return left, err
	}

	inner := ctx
	if inner == contextProcedureTail {
		inner = contextNormal
	}

	for {
		tag := p.lexer.Token.Tag
		if isTerminator(tag) {
			return left, nil
		}
		if tag == TagColon && ctx == contextConditionalTail {
			return left, nil
		}

		op, explicit := infix[tag]
		if !explicit {
			op = invocation
		}
		if op.precedence <= minimum {
			return left, nil
		}
		if explicit {
			if _, err := p.next(); err != nil {
				return 0, err
			}
		}

		rightMinimum := op.precedence
		if op.rightAssociative() {
			rightMinimum--
		}
		rightContext := inner
		switch op.tag {
		case NodeProcedure:
			rightContext = contextProcedureTail
		case NodeConditional:
			rightContext = contextConditionalTail
		}

		right, err := p.parseExpression(rightMinimum, rightContext)
		if err != nil {
			return 0, err
		}

		n := Node{
			Tag:       op.tag,
			Beginning: start.Beginning,
			Row:       start.Row,
			Column:    start.Column,
			Left:      left,
			Right:     right,
		}

		if op.ternary() {
			switch p.lexer.Token.Tag {
			case TagLeftBrace:
				n.Third, err = p.parseScope(false)
			case TagColon:
				// inside a conditional's middle operand the colon belongs to
				// the conditional
				if op.tag == NodeProcedure && inner == contextConditionalTail {
					break
				}
				if _, err = p.next(); err == nil {
					n.Third, err = p.parseExpression(op.precedence, inner)
				}
			}
			if err != nil {
				return 0, err
			}
		}

		n.Ending = p.previousEnding
		left = p.tree.add(n)
	}
}

func (p *parser) parsePrime(ctx parseContext) (NodeID, error) {
	tok := p.lexer.Token

	switch tok.Tag {
	case TagHash:
		return p.parsePragma()

	case TagLeftParenthesis:
		return p.parseEnclosed(NodeSubexpression, TagRightParenthesis)
	case TagLeftBracket:
		return p.parseEnclosed(NodeIndexation, TagRightBracket)

	case TagEnd, TagSemicolon, TagRightParenthesis, TagRightBrace, TagRightBracket:
		return 0, nil

	case TagLeftBrace:
		if ctx == contextProcedureTail {
			return 0, nil
		}
		return p.parseScope(false)

	case TagIdentifier:
		return p.parseIdentifier()
	case TagText:
		return p.parseText()
	case TagInteger, TagHexadecimal, TagBinary:
		return p.parseInteger()
	case TagFractional, TagScientific:
		return p.parseFractional()

	case TagEqual:
		// `x : = 1` leaves the declared type out
		return 0, nil
	}

	if tag, ok := prefix[tok.Tag]; ok {
		if _, err := p.next(); err != nil {
			return 0, err
		}
		operand, err := p.parseExpression(precedenceUnary, contextNormal)
		if err != nil {
			return 0, err
		}
		return p.tree.add(Node{
			Tag:       tag,
			Beginning: tok.Beginning,
			Ending:    p.previousEnding,
			Row:       tok.Row,
			Column:    tok.Column,
			Left:      operand,
		}), nil
	}

	return 0, p.fail(diag.KindSyntactic, "Unexpected token.")
}

// parseEnclosed parses `(` expression `)` or `[` expression `]`.
func (p *parser) parseEnclosed(tag NodeTag, closer Tag) (NodeID, error) {
	opener := p.lexer.Token
	if _, err := p.next(); err != nil {
		return 0, err
	}
	operand, err := p.parseExpression(precedenceNone, contextNormal)
	if err != nil {
		return 0, err
	}
	if err := p.expect(closer); err != nil {
		return 0, err
	}
	if _, err := p.next(); err != nil {
		return 0, err
	}
	return p.tree.add(Node{
		Tag:       tag,
		Beginning: opener.Beginning,
		Ending:    p.previousEnding,
		Row:       opener.Row,
		Column:    opener.Column,
		Left:      operand,
	}), nil
}
