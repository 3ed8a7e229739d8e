package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/b4fun/zatlin-go/types"
)

// excludeCompiler flattens exclusion patterns into one regexp alternation.
// Variable expansions are memoized, so a variable shared by several
// exclusions is expanded once.
type excludeCompiler struct {
	defines   map[string]*types.Define
	memo      map[string]string
	expanding map[string]bool
	chain     []string
}

func newExcludeCompiler(statements []types.Statement) *excludeCompiler {
	defines := make(map[string]*types.Define)
	for _, stmt := range statements {
		if def, ok := stmt.(*types.Define); ok {
			defines[def.Name] = def
		}
	}

	return &excludeCompiler{
		defines:   defines,
		memo:      make(map[string]string),
		expanding: make(map[string]bool),
	}
}

// CompileExcludes attaches a compiled matcher to every statement whose
// expression has exclusion patterns. Statements without exclusions are
// returned as is.
func CompileExcludes(statements []types.Statement, logger *slog.Logger) ([]types.Statement, error) {
	if logger == nil {
		logger = discardLogger()
	}

	c := newExcludeCompiler(statements)
	rv := make([]types.Statement, len(statements))
	for idx, stmt := range statements {
		expr := stmt.Expression()
		if !expr.HasExclude() {
			rv[idx] = stmt
			continue
		}

		var scope *types.Define
		if def, ok := stmt.(*types.Define); ok {
			scope = def
		}
		exclude, err := c.compile(expr.Exclude.Patterns, scope)
		if err != nil {
			return nil, fmt.Errorf("compile exclusion of %s: %w", statementName(stmt), err)
		}
		logger.Debug(
			"compiled exclusion",
			"statement", statementName(stmt),
			"source", exclude.Source(),
		)

		switch s := stmt.(type) {
		case *types.Define:
			rv[idx] = &types.Define{Name: s.Name, Binds: s.Binds, Expr: expr.WithExclude(exclude)}
		case *types.Generate:
			rv[idx] = &types.Generate{Expr: expr.WithExclude(exclude)}
		default:
			return nil, fmt.Errorf("%w: unknown statement type %T", types.ErrSemantic, stmt)
		}
	}

	return rv, nil
}

func statementName(stmt types.Statement) string {
	if def, ok := stmt.(*types.Define); ok {
		return fmt.Sprintf("define %q", def.Name)
	}
	return "generate"
}

func (c *excludeCompiler) compile(patterns []*types.Pattern, scope *types.Define) (*types.Exclude, error) {
	parts := make([]string, len(patterns))
	for idx, pattern := range patterns {
		s, err := c.expandValues(pattern.Values, scope)
		if err != nil {
			return nil, err
		}
		if pattern.Mode.AnchorsStart() {
			s = "^" + s
		}
		if pattern.Mode.AnchorsEnd() {
			s += "$"
		}
		parts[idx] = s
	}

	return types.CompileExclude(patterns, strings.Join(parts, "|"))
}

func (c *excludeCompiler) expandPatterns(patterns []*types.Pattern, scope *types.Define) (string, error) {
	parts := make([]string, len(patterns))
	for idx, pattern := range patterns {
		s, err := c.expandValues(pattern.Values, scope)
		if err != nil {
			return "", err
		}
		parts[idx] = s
	}

	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(?:" + strings.Join(parts, "|") + ")", nil
}

func (c *excludeCompiler) expandValues(values []types.Value, scope *types.Define) (string, error) {
	sb := new(strings.Builder)
	for _, value := range values {
		s, err := c.expandValue(value, scope)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func (c *excludeCompiler) expandValue(value types.Value, scope *types.Define) (string, error) {
	switch v := value.(type) {
	case *types.Literal:
		return regexp2.Escape(v.Text), nil
	case *types.Variable:
		name := v.Name
		if scope != nil {
			if source, ok := scope.BindSource(name); ok {
				name = source
			}
		}
		return c.expandVariable(name)
	case *types.Group:
		return c.expandPatterns(v.Patterns, scope)
	case *types.Backref:
		return "", fmt.Errorf(
			"%w: %s cannot be inlined into an exclusion",
			types.ErrSemantic, v,
		)
	default:
		return "", fmt.Errorf("%w: unknown value type %T", types.ErrSemantic, value)
	}
}

func (c *excludeCompiler) expandVariable(name string) (string, error) {
	if s, ok := c.memo[name]; ok {
		return s, nil
	}

	if c.expanding[name] {
		chain := make([]string, len(c.chain), len(c.chain)+1)
		copy(chain, c.chain)
		return "", &types.ErrSelfReference{Name: name, Chain: append(chain, name)}
	}

	def, ok := c.defines[name]
	if !ok {
		return "", &types.ErrUndefinedVariable{Name: name}
	}

	c.expanding[name] = true
	c.chain = append(c.chain, name)
	s, err := c.expandPatterns(def.Expr.Patterns, def)
	c.chain = c.chain[:len(c.chain)-1]
	delete(c.expanding, name)
	if err != nil {
		return "", err
	}

	c.memo[name] = s
	return s, nil
}
