// Package generator produces random strings from a compiled grammar.
package generator

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/b4fun/zatlin-go/types"
)

// Generator draws strings from grammars. A Generator owns its random source
// and must not be used from several goroutines at once; the grammars it reads
// may be shared freely.
type Generator struct {
	rand        *rand.Rand
	retryBudget int
	maxDepth    int
	logger      *slog.Logger
}

// Result is the outcome of one draw.
type Result struct {
	Value string
	Err   error
}

// New creates a Generator instance.
func New(opts ...Option) *Generator {
	options := newOptions(opts)

	return &Generator{
		rand:        options.rand,
		retryBudget: options.retryBudget,
		maxDepth:    options.maxDepth,
		logger:      options.logger,
	}
}

// RetryBudget returns the attempts allowed per excluding expression.
func (gen *Generator) RetryBudget() int {
	return gen.retryBudget
}

// Generate evaluates the first generate statement of g. Definitions are
// visible to it when declared before it.
func (gen *Generator) Generate(g *types.Grammar) (string, error) {
	if g == nil {
		return "", types.ErrNoGenerate
	}

	table := make(map[string]*types.Define)
	for _, stmt := range g.Statements() {
		switch s := stmt.(type) {
		case *types.Define:
			table[s.Name] = s
		case *types.Generate:
			e := &evaluation{gen: gen, table: table}
			return e.expression(s.Expr, nil, nil, 0)
		default:
			return "", fmt.Errorf("%w: unknown statement type %T", types.ErrRuntime, stmt)
		}
	}

	return "", types.ErrNoGenerate
}

// GenerateMany draws count independent strings. A failed draw does not stop
// the remaining ones.
func (gen *Generator) GenerateMany(g *types.Grammar, count int) []Result {
	if count < 0 {
		count = 0
	}

	results := make([]Result, count)
	for idx := range results {
		value, err := gen.Generate(g)
		results[idx] = Result{Value: value, Err: err}
	}
	return results
}

// evaluation holds the definitions visible to one Generate call.
type evaluation struct {
	gen   *Generator
	table map[string]*types.Define
}

// scope maps destructuring locals to their fixed expansions. Locals shadow
// definitions of the same name for the rest of the evaluation below the
// definition that binds them.
type scope map[string]string

// with layers inner on top of s.
func (s scope) with(inner scope) scope {
	if len(inner) == 0 {
		return s
	}
	if len(s) == 0 {
		return inner
	}

	merged := make(scope, len(s)+len(inner))
	for k, v := range s {
		merged[k] = v
	}
	for k, v := range inner {
		merged[k] = v
	}
	return merged
}

// expression evaluates expr under the locals inherited from its callers. An
// expression owning an exclusion is redrawn, binds included, until the
// candidate is accepted or the budget runs out.
func (e *evaluation) expression(expr *types.Expression, binds []types.Bind, outer scope, depth int) (string, error) {
	attempts := 1
	if expr.HasExclude() {
		attempts = e.gen.retryBudget
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		bound, err := e.bind(binds, outer, depth)
		if err != nil {
			return "", err
		}
		locals := outer.with(bound)

		candidate, err := e.choose(expr.Patterns, locals, depth)
		if err != nil {
			return "", err
		}
		if !expr.HasExclude() {
			return candidate, nil
		}

		excluded, err := expr.Exclude.Matches(candidate)
		if err != nil {
			return "", fmt.Errorf("match exclusion: %w", err)
		}
		if !excluded {
			return candidate, nil
		}
		e.gen.logger.Debug(
			"candidate excluded",
			"candidate", candidate,
			"attempt", attempt,
			"budget", attempts,
		)
	}

	return "", &types.ErrRetryExhausted{Attempts: attempts}
}

func (e *evaluation) bind(binds []types.Bind, outer scope, depth int) (scope, error) {
	if len(binds) == 0 {
		return nil, nil
	}

	locals := make(scope, len(binds))
	for _, b := range binds {
		s, err := e.variable(b.Source, outer, depth)
		if err != nil {
			return nil, fmt.Errorf("bind %s: %w", b, err)
		}
		locals[b.Local] = s
	}
	return locals, nil
}

// choose selects one pattern by weight and evaluates it.
func (e *evaluation) choose(patterns []*types.Pattern, locals scope, depth int) (string, error) {
	total := types.TotalWeight(patterns)
	if total <= 0 {
		return "", types.ErrZeroWeight
	}
	if math.IsInf(total, 0) {
		return "", types.ErrWeightOverflow
	}

	u := e.gen.rand.Float64() * total
	var cumulative float64
	for _, pattern := range patterns {
		cumulative += pattern.Weight
		if u < cumulative {
			return e.pattern(pattern, locals, depth)
		}
	}

	return "", types.ErrNoPatternSelected
}

func (e *evaluation) pattern(pattern *types.Pattern, locals scope, depth int) (string, error) {
	outputs := make([]string, 0, len(pattern.Values))
	for _, value := range pattern.Values {
		s, err := e.value(value, outputs, locals, depth)
		if err != nil {
			return "", err
		}
		outputs = append(outputs, s)
	}
	return strings.Join(outputs, ""), nil
}

func (e *evaluation) value(value types.Value, preceding []string, locals scope, depth int) (string, error) {
	switch v := value.(type) {
	case *types.Literal:
		return v.Text, nil
	case *types.Variable:
		return e.variable(v.Name, locals, depth)
	case *types.Group:
		if depth+1 > e.gen.maxDepth {
			return "", &types.ErrDepthExceeded{Depth: e.gen.maxDepth, Name: v.String()}
		}
		return e.choose(v.Patterns, locals, depth+1)
	case *types.Backref:
		if v.Index < 1 || v.Index > len(preceding) {
			return "", fmt.Errorf("%w: %s has no earlier value", types.ErrRuntime, v)
		}
		return preceding[v.Index-1], nil
	default:
		return "", fmt.Errorf("%w: unknown value type %T", types.ErrRuntime, value)
	}
}

func (e *evaluation) variable(name string, locals scope, depth int) (string, error) {
	if s, ok := locals[name]; ok {
		return s, nil
	}

	def, ok := e.table[name]
	if !ok {
		return "", &types.ErrUndefinedVariable{Name: name}
	}
	if depth+1 > e.gen.maxDepth {
		return "", &types.ErrDepthExceeded{Depth: e.gen.maxDepth, Name: name}
	}

	return e.expression(def.Expr, def.Binds, locals, depth+1)
}
