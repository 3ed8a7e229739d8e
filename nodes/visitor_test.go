package nodes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b4fun/zatlin-go/types"
)

func sampleGrammar(t *testing.T) *types.Grammar {
	t.Helper()

	consonant := &types.Define{
		Name: "C",
		Expr: types.NewExpression([]*types.Pattern{
			types.NewPattern([]types.Value{&types.Literal{Text: "p"}}, 1),
			types.NewPattern([]types.Value{&types.Literal{Text: "f"}}, 2),
		}, nil),
	}
	excludes := []*types.Pattern{
		types.NewExcludePattern([]types.Value{&types.Literal{Text: "pa"}}, types.ExtractForward),
	}
	exclude, err := types.CompileExclude(excludes, "^pa")
	require.NoError(t, err)

	generate := &types.Generate{
		Expr: types.NewExpression([]*types.Pattern{
			types.NewPattern([]types.Value{
				&types.Variable{Name: "C"},
				&types.Group{Patterns: []*types.Pattern{
					types.NewPattern([]types.Value{&types.Literal{Text: "a"}}, 1),
					types.NewPattern([]types.Value{&types.Literal{Text: "i"}}, 1),
				}},
				&types.Backref{Index: 1},
			}, 1),
		}, excludes).WithExclude(exclude),
	}

	return types.NewGrammar([]types.Statement{consonant, generate})
}

func Test_Walk(t *testing.T) {
	g := sampleGrammar(t)

	var visited []string
	err := Walk(g, func(v Visit) error {
		switch {
		case v.Pattern == nil:
			visited = append(visited, "statement")
		case v.Value == nil:
			visited = append(visited, "pattern")
		case v.Exclude:
			visited = append(visited, "exclude:"+v.Value.String())
		default:
			visited = append(visited, v.Value.String())
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"statement", "pattern", `"p"`, "pattern", `"f"`,
		"statement", "pattern", "C", `("a" | "i")`,
		"pattern", `"a"`, "pattern", `"i"`,
		"&1",
		"pattern", `exclude:"pa"`,
	}, visited)
}

func Test_Walk_StopsOnError(t *testing.T) {
	g := sampleGrammar(t)
	boom := errors.New("boom")

	count := 0
	err := Walk(g, func(v Visit) error {
		count++
		if v.Value != nil {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, count)
}

func Test_VisitorMux(t *testing.T) {
	g := sampleGrammar(t)

	var literals, variables, groups, backrefs, others int
	mux := NewVisitorMux(WithDefaultVisitFunc(func(Visit) error {
		others++
		return nil
	})).HandleLiteral(func(Visit, *types.Literal) error {
		literals++
		return nil
	}).HandleVariable(func(Visit, *types.Variable) error {
		variables++
		return nil
	}).HandleGroup(func(v Visit, g *types.Group) error {
		assert.Equal(t, 0, v.Depth)
		groups++
		return nil
	}).HandleBackref(func(Visit, *types.Backref) error {
		backrefs++
		return nil
	})

	require.NoError(t, mux.Walk(g))
	assert.Equal(t, 5, literals)
	assert.Equal(t, 1, variables)
	assert.Equal(t, 1, groups)
	assert.Equal(t, 1, backrefs)
	// 2 statements and 6 patterns
	assert.Equal(t, 8, others)
}

func Test_VisitorMux_DuplicatedHandler(t *testing.T) {
	mux := NewVisitorMux().HandleLiteral(func(Visit, *types.Literal) error { return nil })
	assert.Panics(t, func() {
		mux.HandleLiteral(func(Visit, *types.Literal) error { return nil })
	})
}

func Test_DumpGrammar(t *testing.T) {
	expected := `define C
  pattern weight=1
    literal "p"
  pattern weight=2
    literal "f"
generate matcher="^pa"
  pattern weight=1
    variable C
    group #patterns=2
      pattern weight=1
        literal "a"
      pattern weight=1
        literal "i"
    backref 1
  exclude forward
    literal "pa"
`
	assert.Equal(t, expected, DumpGrammar(sampleGrammar(t)))
}
