package zatlin

import (
	"github.com/b4fun/zatlin-go/generator"
	"github.com/b4fun/zatlin-go/internal/lexer"
	"github.com/b4fun/zatlin-go/nodes"
	"github.com/b4fun/zatlin-go/types"
)

var (
	Tokenize          = lexer.Tokenize
	TokenizeFragments = lexer.TokenizeFragments
	FormatTokens      = types.FormatTokens

	NewGenerator          = generator.New
	GeneratorWithSeed     = generator.WithSeed
	GeneratorWithRand     = generator.WithRand
	GeneratorWithRetry    = generator.WithRetryBudget
	GeneratorWithMaxDepth = generator.WithMaxDepth
	GeneratorWithLogger   = generator.WithLogger

	DumpGrammar      = nodes.DumpGrammar
	Walk             = nodes.Walk
	NewVisitorMux    = nodes.NewVisitorMux
	WithDefaultVisit = nodes.WithDefaultVisitFunc

	ErrSyntax            = types.ErrSyntax
	ErrSemantic          = types.ErrSemantic
	ErrRuntime           = types.ErrRuntime
	ErrNoPatternSelected = types.ErrNoPatternSelected
	ErrZeroWeight        = types.ErrZeroWeight
	ErrWeightOverflow    = types.ErrWeightOverflow
	ErrNoGenerate        = types.ErrNoGenerate
)

const (
	DefaultRetryBudget = generator.DefaultRetryBudget
	DefaultMaxDepth    = generator.DefaultMaxDepth
)

type (
	Grammar         = types.Grammar
	Token           = types.Token
	TokenKind       = types.TokenKind
	Statement       = types.Statement
	Generator       = generator.Generator
	GeneratorOption = generator.Option
	Result          = generator.Result
	Visit           = nodes.Visit

	ErrUnknownToken      = types.ErrUnknownToken
	ErrInvalidToken      = types.ErrInvalidToken
	ErrEndOfInput        = types.ErrEndOfInput
	ErrInvalidBackref    = types.ErrInvalidBackref
	ErrUndefinedVariable = types.ErrUndefinedVariable
	ErrSelfReference     = types.ErrSelfReference
	ErrInvalidExclude    = types.ErrInvalidExclude
	ErrRetryExhausted    = types.ErrRetryExhausted
	ErrDepthExceeded     = types.ErrDepthExceeded
)
