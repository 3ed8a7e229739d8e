// Package zatlin compiles word grammars and generates random strings from
// them.
//
// A grammar defines weighted alternatives and one generate statement:
//
//	C = "p" | "f" | "t" 2
//	V = "a" | "i"
//	% C V C V - ^"f" | "tt";
//
// Compile the source once, then draw as many strings as needed.
package zatlin

import (
	"fmt"
	"log/slog"

	"github.com/b4fun/zatlin-go/generator"
	"github.com/b4fun/zatlin-go/internal/lexer"
	"github.com/b4fun/zatlin-go/internal/parser"
	"github.com/b4fun/zatlin-go/types"
)

// CompileOptions configures compilation.
type CompileOptions struct {
	filename string
	logger   *slog.Logger
	strict   bool
}

// CompileOption configures CompileOptions.
type CompileOption func(*CompileOptions)

// CompileWithFilename sets the filename reported in token positions.
func CompileWithFilename(name string) CompileOption {
	return func(opts *CompileOptions) {
		opts.filename = name
	}
}

// CompileWithLogger sets the logger for compile diagnostics.
func CompileWithLogger(logger *slog.Logger) CompileOption {
	return func(opts *CompileOptions) {
		opts.logger = logger
	}
}

// CompileWithStrict rejects references to undefined variables at compile
// time instead of at generation time.
func CompileWithStrict(strict bool) CompileOption {
	return func(opts *CompileOptions) {
		opts.strict = strict
	}
}

func newCompileOptions(opts []CompileOption) *CompileOptions {
	rv := &CompileOptions{}
	for _, o := range opts {
		o(rv)
	}
	return rv
}

func (opts *CompileOptions) parserOptions() []parser.Option {
	return []parser.Option{
		parser.WithLogger(opts.logger),
		parser.WithStrict(opts.strict),
	}
}

// Compile compiles grammar source.
func Compile(source string, opts ...CompileOption) (*Grammar, error) {
	options := newCompileOptions(opts)

	tokens := lexer.Tokenize(source, lexer.WithFilename(options.filename))
	statements, err := parser.Parse(tokens, options.parserOptions()...)
	if err != nil {
		return nil, fmt.Errorf("compile grammar: %w", err)
	}

	return types.NewGrammar(statements), nil
}

// CompileFragments compiles a grammar given as pre-split lexemes, one token
// per fragment.
func CompileFragments(fragments []string, opts ...CompileOption) (*Grammar, error) {
	options := newCompileOptions(opts)

	statements, err := parser.Parse(lexer.TokenizeFragments(fragments), options.parserOptions()...)
	if err != nil {
		return nil, fmt.Errorf("compile grammar fragments: %w", err)
	}

	return types.NewGrammar(statements), nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(source string) *Grammar {
	g, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return g
}

// GenerateOne draws one string from g with a time seeded generator.
func GenerateOne(g *Grammar) (string, error) {
	return generator.New().Generate(g)
}

// GenerateMany draws count independent strings from g.
func GenerateMany(g *Grammar, count int) []Result {
	return generator.New().GenerateMany(g, count)
}

// GenerateManyFromSource compiles source and draws count strings from it.
// When compilation fails every slot carries the compile error.
func GenerateManyFromSource(source string, count int) []Result {
	g, err := Compile(source)
	if err != nil {
		if count < 0 {
			count = 0
		}
		results := make([]Result, count)
		for idx := range results {
			results[idx] = Result{Err: err}
		}
		return results
	}

	return GenerateMany(g, count)
}
