package nodes

import (
	"fmt"

	"github.com/b4fun/zatlin-go/types"
)

// Visit describes the position of a visited element in the statement tree.
// Pattern is nil when visiting a statement; Value is nil when visiting a
// statement or a pattern.
type Visit struct {
	Statement types.Statement
	Pattern   *types.Pattern
	Value     types.Value
	// Exclude is true inside the exclusion patterns of a statement.
	Exclude bool
	// Depth counts the groups enclosing the visited element.
	Depth int
}

// VisitFunc visits one element. Returning an error stops the walk.
type VisitFunc func(v Visit) error

// Walk visits every statement of g, then each of its patterns and values
// depth-first, in declaration order.
func Walk(g *types.Grammar, fn VisitFunc) error {
	for _, stmt := range g.Statements() {
		if err := fn(Visit{Statement: stmt}); err != nil {
			return err
		}

		expr := stmt.Expression()
		if err := walkPatterns(stmt, expr.Patterns, false, 0, fn); err != nil {
			return err
		}
		if expr.HasExclude() {
			if err := walkPatterns(stmt, expr.Exclude.Patterns, true, 0, fn); err != nil {
				return err
			}
		}
	}

	return nil
}

func walkPatterns(
	stmt types.Statement,
	patterns []*types.Pattern,
	exclude bool,
	depth int,
	fn VisitFunc,
) error {
	for _, pattern := range patterns {
		v := Visit{Statement: stmt, Pattern: pattern, Exclude: exclude, Depth: depth}
		if err := fn(v); err != nil {
			return err
		}

		for _, value := range pattern.Values {
			v.Value = value
			if err := fn(v); err != nil {
				return err
			}

			if group, ok := value.(*types.Group); ok {
				if err := walkPatterns(stmt, group.Patterns, exclude, depth+1, fn); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// VisitorMux dispatches visited values to per-kind handlers. Statements,
// patterns and values without a handler go to the default visit func.
type VisitorMux struct {
	literal      func(Visit, *types.Literal) error
	variable     func(Visit, *types.Variable) error
	group        func(Visit, *types.Group) error
	backref      func(Visit, *types.Backref) error
	defaultVisit VisitFunc
}

// VisitorMuxOpt configures a VisitorMux.
type VisitorMuxOpt func(*VisitorMux)

// WithDefaultVisitFunc sets the default visit function for a VisitorMux.
func WithDefaultVisitFunc(f VisitFunc) VisitorMuxOpt {
	return func(mux *VisitorMux) {
		mux.defaultVisit = f
	}
}

// DefaultVisitor accepts every element.
func DefaultVisitor(Visit) error {
	return nil
}

// NewVisitorMux creates a VisitorMux instance.
func NewVisitorMux(opts ...VisitorMuxOpt) *VisitorMux {
	rv := &VisitorMux{
		defaultVisit: DefaultVisitor,
	}

	for _, opt := range opts {
		opt(rv)
	}

	return rv
}

func mustBeUnset(set bool, kind string) {
	if set {
		panic(fmt.Sprintf("duplicated visitor for %s", kind))
	}
}

func (mux *VisitorMux) HandleLiteral(f func(Visit, *types.Literal) error) *VisitorMux {
	mustBeUnset(mux.literal != nil, "literal")
	mux.literal = f
	return mux
}

func (mux *VisitorMux) HandleVariable(f func(Visit, *types.Variable) error) *VisitorMux {
	mustBeUnset(mux.variable != nil, "variable")
	mux.variable = f
	return mux
}

func (mux *VisitorMux) HandleGroup(f func(Visit, *types.Group) error) *VisitorMux {
	mustBeUnset(mux.group != nil, "group")
	mux.group = f
	return mux
}

func (mux *VisitorMux) HandleBackref(f func(Visit, *types.Backref) error) *VisitorMux {
	mustBeUnset(mux.backref != nil, "backref")
	mux.backref = f
	return mux
}

// Visit dispatches v to the handler registered for its value kind.
func (mux *VisitorMux) Visit(v Visit) error {
	switch value := v.Value.(type) {
	case nil:
		return mux.defaultVisit(v)
	case *types.Literal:
		if mux.literal != nil {
			return mux.literal(v, value)
		}
	case *types.Variable:
		if mux.variable != nil {
			return mux.variable(v, value)
		}
	case *types.Group:
		if mux.group != nil {
			return mux.group(v, value)
		}
	case *types.Backref:
		if mux.backref != nil {
			return mux.backref(v, value)
		}
	default:
		return fmt.Errorf("%w: unknown value type %T", types.ErrSemantic, v.Value)
	}

	return mux.defaultVisit(v)
}

// Walk walks g dispatching every element through the mux.
func (mux *VisitorMux) Walk(g *types.Grammar) error {
	return Walk(g, mux.Visit)
}
