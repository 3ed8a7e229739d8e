package generator

import (
	"bytes"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b4fun/zatlin-go/internal/lexer"
	"github.com/b4fun/zatlin-go/internal/parser"
	"github.com/b4fun/zatlin-go/types"
)

func compile(t *testing.T, source string) *types.Grammar {
	t.Helper()

	statements, err := parser.Parse(lexer.Tokenize(source))
	require.NoError(t, err)
	return types.NewGrammar(statements)
}

func drawN(t *testing.T, gen *Generator, g *types.Grammar, n int) []string {
	t.Helper()

	rv := make([]string, n)
	for idx := range rv {
		s, err := gen.Generate(g)
		require.NoError(t, err)
		rv[idx] = s
	}
	return rv
}

func Test_Generate(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		allowed []string
	}{
		{
			name:    "concatenation of variables",
			in:      `C = "p" | "f"; V = "a" | "i"; % C V;`,
			allowed: []string{"pa", "pi", "fa", "fi"},
		},
		{
			name:    "only the non excluded alternative",
			in:      `% "a" | "b" - "a";`,
			allowed: []string{"b"},
		},
		{
			name:    "nested groups",
			in:      `% "k" ("a" | ("e" | "o")) "n";`,
			allowed: []string{"kan", "ken", "kon"},
		},
		{
			name:    "exclusion through variables and anchors",
			in:      `C = "p" | "f"; V = "a" | "i"; % C V - "pa" | ^"f" "i"^;`,
			allowed: []string{"pi", "fa"},
		},
		{
			name:    "exclusion owned by a definition",
			in:      `V = "a" | "b" - "a"; % V V;`,
			allowed: []string{"bb"},
		},
		{
			name:    "empty literal",
			in:      `% "a" ("" | "h");`,
			allowed: []string{"a", "ah"},
		},
		{
			name:    "zero weight alternative",
			in:      `% "a" 0 | "b" | "c" 0.5;`,
			allowed: []string{"b", "c"},
		},
	}

	for idx := range cases {
		c := cases[idx]
		t.Run(c.name, func(t *testing.T) {
			g := compile(t, c.in)
			gen := New(WithSeed(uint64(idx) + 1))

			seen := make(map[string]bool)
			for _, s := range drawN(t, gen, g, 500) {
				assert.Contains(t, c.allowed, s)
				seen[s] = true
			}
			assert.Len(t, seen, len(c.allowed), "every alternative should be reachable")
		})
	}
}

func Test_Generate_Weights(t *testing.T) {
	g := compile(t, `% "p" "a" 3 | "f" "i" 1;`)
	gen := New(WithSeed(2024))

	counts := make(map[string]int)
	for _, s := range drawN(t, gen, g, 10000) {
		counts[s]++
	}

	require.Len(t, counts, 2)
	ratio := float64(counts["pa"]) / float64(counts["fi"])
	assert.InDelta(t, 3.0, ratio, 0.3)
}

func Test_Generate_RetryExhausted(t *testing.T) {
	for _, budget := range []int{1, 7, 100} {
		buf := new(bytes.Buffer)
		logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		g := compile(t, `% "a" | "a" - "a";`)
		gen := New(WithSeed(1), WithRetryBudget(budget), WithLogger(logger))

		s, err := gen.Generate(g)
		assert.Empty(t, s)

		var e *types.ErrRetryExhausted
		require.ErrorAs(t, err, &e)
		assert.Equal(t, budget, e.Attempts)
		assert.ErrorIs(t, err, types.ErrRuntime)
		assert.Equal(t, budget, strings.Count(buf.String(), "candidate excluded"))
	}
}

func Test_Generate_Errors(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		check func(t *testing.T, err error)
	}{
		{
			name: "undefined variable",
			in:   `% X;`,
			check: func(t *testing.T, err error) {
				var e *types.ErrUndefinedVariable
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "X", e.Name)
				assert.EqualError(t, err, "undefined variable: X")
			},
		},
		{
			name: "definition after generate is not visible",
			in:   `% C; C = "a";`,
			check: func(t *testing.T, err error) {
				var e *types.ErrUndefinedVariable
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "C", e.Name)
			},
		},
		{
			name: "zero total weight",
			in:   `% "a" 0 | "b" 0;`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, types.ErrZeroWeight)
			},
		},
		{
			name: "overflowing total weight",
			in:   `% "a" 1e308 | "b" 1e308;`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, types.ErrWeightOverflow)
				assert.NotErrorIs(t, err, types.ErrNoPatternSelected)
			},
		},
		{
			name: "no generate statement",
			in:   `C = "a";`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, types.ErrNoGenerate)
			},
		},
		{
			name: "recursive definition",
			in:   `R = "a" R; % R;`,
			check: func(t *testing.T, err error) {
				var e *types.ErrDepthExceeded
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "R", e.Name)
				assert.Equal(t, 16, e.Depth)
			},
		},
		{
			name: "only exclusion rejections are retried",
			in:   `% "a" X | "b" - "b";`,
			check: func(t *testing.T, err error) {
				var e *types.ErrUndefinedVariable
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "X", e.Name)
			},
		},
	}

	for idx := range cases {
		c := cases[idx]
		t.Run(c.name, func(t *testing.T) {
			g := compile(t, c.in)
			gen := New(WithSeed(7), WithMaxDepth(16))

			s, err := gen.Generate(g)
			require.Error(t, err)
			assert.Empty(t, s)
			c.check(t, err)
		})
	}
}

func Test_Generate_NilGrammar(t *testing.T) {
	_, err := New().Generate(nil)
	assert.ErrorIs(t, err, types.ErrNoGenerate)
}

func Test_Generate_RecursionWithExit(t *testing.T) {
	g := compile(t, `R = "a" 3 | "b" R; % R;`)
	gen := New(WithSeed(11))

	for _, s := range drawN(t, gen, g, 200) {
		assert.True(t, strings.HasSuffix(s, "a"), s)
		assert.Equal(t, strings.Repeat("b", len(s)-1)+"a", s)
	}
}

func Test_Generate_Destructuring(t *testing.T) {
	g := compile(t, `
V = "a" | "i" | "u"
C = "p" | "k" | "t"
X : Vx <- V, Cx <- C = Cx Vx Cx Vx
% X;
`)
	gen := New(WithSeed(5))

	seen := make(map[string]bool)
	for _, s := range drawN(t, gen, g, 300) {
		require.Len(t, s, 4)
		assert.Equal(t, s[:2], s[2:], "both uses of a bound local agree")
		seen[s] = true
	}
	assert.Len(t, seen, 9)
}

func Test_Generate_DestructuringShadowsCallees(t *testing.T) {
	// Vx inside Y sees X's local, not the global definition
	g := compile(t, `
V = "a" | "i"
Vx = "o"
Y = Vx
X : Vx <- V = Vx Y
% X;
`)
	gen := New(WithSeed(3))

	seen := make(map[string]bool)
	for _, s := range drawN(t, gen, g, 200) {
		assert.Contains(t, []string{"aa", "ii"}, s)
		seen[s] = true
	}
	assert.Len(t, seen, 2)
}

func Test_Generate_DestructuringInnerBindsWin(t *testing.T) {
	g := compile(t, `
V = "a" | "i"
W = "e"
Y : Vx <- W = Vx
X : Vx <- V = Vx Y
% X;
`)
	gen := New(WithSeed(4))

	for _, s := range drawN(t, gen, g, 100) {
		assert.Contains(t, []string{"ae", "ie"}, s)
	}
}

func Test_Generate_DestructuringRedrawnOnRetry(t *testing.T) {
	g := compile(t, `V = "a" | "i"; X : Vx <- V = "k" Vx - "ka"; % X;`)
	gen := New(WithSeed(9))

	for _, s := range drawN(t, gen, g, 100) {
		assert.Equal(t, "ki", s)
	}
}

func Test_Generate_Backref(t *testing.T) {
	g := compile(t, `C = "p" | "k" | "t"; V = "a" | "o"; % C V &1 &2;`)
	gen := New(WithSeed(13))

	for _, s := range drawN(t, gen, g, 200) {
		require.Len(t, s, 4)
		assert.Equal(t, s[:2], s[2:])
	}
}

func Test_Generate_Seeded(t *testing.T) {
	g := compile(t, `C = "p" | "f" | "t" | "k"; V = "a" | "i" | "u"; % C V C V;`)

	first := drawN(t, New(WithSeed(42)), g, 50)
	second := drawN(t, New(WithSeed(42)), g, 50)
	assert.Equal(t, first, second)

	third := drawN(t, New(WithRand(rand.New(rand.NewPCG(1, 2)))), g, 50)
	fourth := drawN(t, New(WithRand(rand.New(rand.NewPCG(1, 2)))), g, 50)
	assert.Equal(t, third, fourth)
}

func Test_GenerateMany(t *testing.T) {
	gen := New(WithSeed(1), WithRetryBudget(3))

	results := gen.GenerateMany(compile(t, `% "a" | "b" - "a";`), 5)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.Equal(t, "b", r.Value)
	}

	results = gen.GenerateMany(compile(t, `% "a" - "a";`), 3)
	require.Len(t, results, 3)
	for _, r := range results {
		var e *types.ErrRetryExhausted
		assert.ErrorAs(t, r.Err, &e)
	}

	assert.Empty(t, gen.GenerateMany(compile(t, `% "a";`), -1))
}

func Test_New_Defaults(t *testing.T) {
	assert.Equal(t, DefaultRetryBudget, New().RetryBudget())
	assert.Equal(t, DefaultRetryBudget, New(WithRetryBudget(0)).RetryBudget())
	assert.Equal(t, 5, New(WithRetryBudget(5)).RetryBudget())
}
