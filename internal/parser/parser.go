// Package parser builds statements from tokens and compiles their
// exclusion clauses into matchers.
package parser

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/b4fun/zatlin-go/nodes"
	"github.com/b4fun/zatlin-go/types"
)

// Options configures parsing.
type Options struct {
	logger *slog.Logger
	strict bool
}

// Option configures Options.
type Option func(*Options)

// WithLogger sets the logger for parse diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.logger = logger
	}
}

// WithStrict enables the compile-time check for references to undefined
// variables.
func WithStrict(strict bool) Option {
	return func(opts *Options) {
		opts.strict = strict
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newOptions(opts []Option) *Options {
	rv := &Options{}
	for _, o := range opts {
		o(rv)
	}
	if rv.logger == nil {
		rv.logger = discardLogger()
	}
	return rv
}

const (
	pointStatement     = "statement"
	pointDefine        = "define"
	pointBind          = "define (bind)"
	pointGenerate      = "generate"
	pointPattern       = "pattern"
	pointGroup         = "group"
	pointExclude       = "exclude pattern"
	pointExcludePrefix = "exclude pattern (prefix)"
	pointExcludeSuffix = "exclude pattern (suffix)"
)

type parser struct {
	cursor
	logger *slog.Logger
}

// Parse parses tokens into statements and compiles their exclusions. The
// first error aborts the whole parse.
func Parse(tokens []types.Token, opts ...Option) ([]types.Statement, error) {
	options := newOptions(opts)

	p := &parser{
		cursor: cursor{tokens: tokens},
		logger: options.logger,
	}
	statements, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	p.logger.Debug("parsed statements", "tokens", len(tokens), "statements", len(statements))

	statements, err = CompileExcludes(statements, options.logger)
	if err != nil {
		return nil, err
	}

	if options.strict {
		if err := checkDefined(types.NewGrammar(statements)); err != nil {
			return nil, err
		}
	}

	return statements, nil
}

func (p *parser) parseStatements() ([]types.Statement, error) {
	var statements []types.Statement
	for !p.atEnd() {
		token, _ := p.peek()
		switch token.Kind {
		case types.TokenNewLine:
			p.advance()
		case types.TokenIdent:
			stmt, err := p.parseDefine()
			if err != nil {
				return nil, err
			}
			statements = append(statements, stmt)
		case types.TokenPercent:
			stmt, err := p.parseGenerate()
			if err != nil {
				return nil, err
			}
			statements = append(statements, stmt)
		default:
			return nil, p.unexpected(pointStatement)
		}
	}

	return statements, nil
}

func (p *parser) parseDefine() (*types.Define, error) {
	name := p.advance()

	var binds []types.Bind
	if p.peekIs(types.TokenColon) {
		p.advance()
		var err error
		binds, err = p.parseBinds()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(pointDefine, types.TokenEqual); err != nil {
		return nil, err
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if !p.peekIs(types.TokenSemicolon, types.TokenNewLine) {
		return nil, p.unexpected(pointDefine)
	}
	p.advance()

	return &types.Define{Name: name.Text, Binds: binds, Expr: expr}, nil
}

func (p *parser) parseBinds() ([]types.Bind, error) {
	var binds []types.Bind
	for {
		local, err := p.expect(pointBind, types.TokenIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(pointBind, types.TokenLeftArrow); err != nil {
			return nil, err
		}
		source, err := p.expect(pointBind, types.TokenIdent)
		if err != nil {
			return nil, err
		}
		binds = append(binds, types.Bind{Local: local.Text, Source: source.Text})

		if !p.peekIs(types.TokenComma) {
			return binds, nil
		}
		p.advance()
	}
}

func (p *parser) parseGenerate() (*types.Generate, error) {
	p.advance()

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	// a newline does not terminate a generate statement
	if _, err := p.expect(pointGenerate, types.TokenSemicolon); err != nil {
		return nil, err
	}

	return &types.Generate{Expr: expr}, nil
}

func (p *parser) parseExpression() (*types.Expression, error) {
	patterns, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}

	var excludes []*types.Pattern
	if p.peekIs(types.TokenMinus) {
		p.advance()
		for {
			pattern, err := p.parseExcludePattern()
			if err != nil {
				return nil, err
			}
			excludes = append(excludes, pattern)

			if !p.peekIs(types.TokenOr) {
				break
			}
			p.advance()
		}
	}

	return types.NewExpression(patterns, excludes), nil
}

func (p *parser) parseAlternation() ([]*types.Pattern, error) {
	var patterns []*types.Pattern
	for {
		pattern, err := p.parsePattern(pointPattern, false)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pattern)

		if !p.peekIs(types.TokenOr) {
			return patterns, nil
		}
		p.advance()
	}
}

func (p *parser) parsePattern(point string, inExclude bool) (*types.Pattern, error) {
	values, err := p.parseValues(point, inExclude)
	if err != nil {
		return nil, err
	}

	weight := 1.0
	if p.peekIs(types.TokenNumber) {
		weight = p.advance().Number
	}

	return types.NewPattern(values, weight), nil
}

func (p *parser) parseExcludePattern() (*types.Pattern, error) {
	prefix := false
	if p.peekIs(types.TokenCircumflex) {
		p.advance()
		prefix = true
	}

	point := pointExclude
	if prefix {
		point = pointExcludePrefix
	}
	values, err := p.parseValues(point, true)
	if err != nil {
		return nil, err
	}

	suffix := false
	if p.peekIs(types.TokenCircumflex) {
		p.advance()
		suffix = true
	}

	if p.peekIs(types.TokenNumber) {
		return nil, p.unexpected(pointExcludeSuffix)
	}

	return types.NewExcludePattern(values, types.NewExtractMode(prefix, suffix)), nil
}

func isValueStart(token types.Token) bool {
	switch token.Kind {
	case types.TokenString, types.TokenIdent, types.TokenLeftParen, types.TokenBackref:
		return true
	default:
		return false
	}
}

// parseValues parses one or more values. Backrefs are resolved against the
// values parsed so far in the same list.
func (p *parser) parseValues(point string, inExclude bool) ([]types.Value, error) {
	var values []types.Value
	for {
		token, ok := p.peek()
		if !ok || !isValueStart(token) {
			break
		}

		value, err := p.parseValue(len(values), inExclude)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	if len(values) == 0 {
		return nil, p.unexpected(point)
	}
	return values, nil
}

func (p *parser) parseValue(preceding int, inExclude bool) (types.Value, error) {
	index := p.index
	token := p.advance()

	switch token.Kind {
	case types.TokenString:
		return &types.Literal{Text: token.Text}, nil
	case types.TokenIdent:
		return &types.Variable{Name: token.Text}, nil
	case types.TokenBackref:
		if inExclude {
			return nil, &types.ErrInvalidBackref{
				Token:  token,
				Index:  index,
				Reason: "backrefs are not allowed in exclusions",
			}
		}
		if token.Backref > preceding {
			return nil, &types.ErrInvalidBackref{
				Token:  token,
				Index:  index,
				Reason: fmt.Sprintf("pattern has only %d earlier values", preceding),
			}
		}
		return &types.Backref{Index: token.Backref}, nil
	case types.TokenLeftParen:
		patterns, err := p.parseGroup(inExclude)
		if err != nil {
			return nil, err
		}
		return &types.Group{Patterns: patterns}, nil
	default:
		return nil, fmt.Errorf("%w: token %s cannot start a value", types.ErrSyntax, token)
	}
}

func (p *parser) parseGroup(inExclude bool) ([]*types.Pattern, error) {
	var patterns []*types.Pattern
	for {
		pattern, err := p.parsePattern(pointGroup, inExclude)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pattern)

		if !p.peekIs(types.TokenOr) {
			break
		}
		p.advance()
	}

	if _, err := p.expect(pointGroup, types.TokenRightParen); err != nil {
		return nil, err
	}
	return patterns, nil
}

// checkDefined reports the first variable reference that is neither defined
// nor a destructuring local of its definition.
func checkDefined(g *types.Grammar) error {
	for _, stmt := range g.Statements() {
		def, ok := stmt.(*types.Define)
		if !ok {
			continue
		}
		for _, b := range def.Binds {
			if _, ok := g.Lookup(b.Source); !ok {
				return &types.ErrUndefinedVariable{Name: b.Source}
			}
		}
	}

	mux := nodes.NewVisitorMux().HandleVariable(
		func(v nodes.Visit, variable *types.Variable) error {
			if def, ok := v.Statement.(*types.Define); ok {
				if _, local := def.BindSource(variable.Name); local {
					return nil
				}
			}
			if _, ok := g.Lookup(variable.Name); !ok {
				return &types.ErrUndefinedVariable{Name: variable.Name}
			}
			return nil
		},
	)

	return mux.Walk(g)
}
