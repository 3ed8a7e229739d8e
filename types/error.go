package types

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by this module wraps one of them.
var (
	ErrSyntax   = errors.New("syntax error")
	ErrSemantic = errors.New("semantic error")
	ErrRuntime  = errors.New("runtime error")
)

var (
	// ErrNoPatternSelected reports that the weighted scan found no pattern.
	ErrNoPatternSelected = fmt.Errorf("%w: no pattern selected", ErrRuntime)
	// ErrZeroWeight reports an expression whose weights sum to zero.
	ErrZeroWeight = fmt.Errorf("%w: total pattern weight is zero", ErrRuntime)
	// ErrWeightOverflow reports finite weights whose sum is not finite.
	ErrWeightOverflow = fmt.Errorf("%w: total pattern weight overflows", ErrRuntime)
	// ErrNoGenerate reports a statement list without a generate statement.
	ErrNoGenerate = fmt.Errorf("%w: no generate statement", ErrRuntime)
)

// ErrUnknownToken is returned when the parser reaches a token the tokenizer
// could not classify.
type ErrUnknownToken struct {
	Token Token
	Index int
}

func (e *ErrUnknownToken) Error() string {
	return fmt.Sprintf(
		"unknown token %q at index %d (line %d, column %d)",
		e.Token.Text, e.Index, e.Token.Pos.Line, e.Token.Pos.Column,
	)
}

func (e *ErrUnknownToken) Unwrap() error { return ErrSyntax }

// ErrInvalidToken is returned when a token is not valid at a parse point.
type ErrInvalidToken struct {
	// Point names the grammar rule being parsed, e.g. "generate".
	Point string
	Token Token
	Index int
}

func (e *ErrInvalidToken) Error() string {
	return fmt.Sprintf(
		"invalid token in %s: %s, index: %d (line %d, column %d)",
		e.Point, e.Token, e.Index, e.Token.Pos.Line, e.Token.Pos.Column,
	)
}

func (e *ErrInvalidToken) Unwrap() error { return ErrSyntax }

// ErrEndOfInput is returned when tokens run out at a parse point.
type ErrEndOfInput struct {
	Point string
	Index int
}

func (e *ErrEndOfInput) Error() string {
	return fmt.Sprintf("end of input in %s, index: %d", e.Point, e.Index)
}

func (e *ErrEndOfInput) Unwrap() error { return ErrSyntax }

// ErrInvalidBackref is returned for a backref that does not point at an
// earlier value of its pattern, or that appears in an exclusion.
type ErrInvalidBackref struct {
	Token  Token
	Index  int
	Reason string
}

func (e *ErrInvalidBackref) Error() string {
	return fmt.Sprintf("invalid backref %s at index %d: %s", e.Token.Source(), e.Index, e.Reason)
}

func (e *ErrInvalidBackref) Unwrap() error { return ErrSyntax }

// ErrUndefinedVariable is returned when a referenced variable has no definition.
type ErrUndefinedVariable struct {
	Name string
}

func (e *ErrUndefinedVariable) Error() string {
	return fmt.Sprintf("undefined variable: %s", e.Name)
}

// Is lets callers match either category: the same error is raised at compile
// time (exclusions, strict mode) and at generation time.
func (e *ErrUndefinedVariable) Is(target error) bool {
	return target == ErrSemantic || target == ErrRuntime
}

// ErrSelfReference is returned when expanding an exclusion revisits a
// variable that is still being expanded.
type ErrSelfReference struct {
	Name string
	// Chain is the expansion path ending at the repeated variable.
	Chain []string
}

func (e *ErrSelfReference) Error() string {
	return fmt.Sprintf("self-referential exclusion on %q: %s", e.Name, joinNames(e.Chain))
}

func (e *ErrSelfReference) Unwrap() error { return ErrSemantic }

// ErrInvalidExclude is returned when the flattened exclusion fails to compile.
type ErrInvalidExclude struct {
	Source string
	Err    error
}

func (e *ErrInvalidExclude) Error() string {
	return fmt.Sprintf("invalid exclusion %q: %s", e.Source, e.Err)
}

func (e *ErrInvalidExclude) Unwrap() []error { return []error{ErrSemantic, e.Err} }

// ErrRetryExhausted is returned when every attempt was rejected by the
// expression's exclusion.
type ErrRetryExhausted struct {
	Attempts int
}

func (e *ErrRetryExhausted) Error() string {
	return fmt.Sprintf("retry count is over limit: %d attempts excluded", e.Attempts)
}

func (e *ErrRetryExhausted) Unwrap() error { return ErrRuntime }

// ErrDepthExceeded is returned when variable expansion nests too deeply,
// typically because of a recursive definition.
type ErrDepthExceeded struct {
	Depth int
	Name  string
}

func (e *ErrDepthExceeded) Error() string {
	return fmt.Sprintf("expansion depth %d exceeded at %q", e.Depth, e.Name)
}

func (e *ErrDepthExceeded) Unwrap() error { return ErrRuntime }
