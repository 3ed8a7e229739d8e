package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// ExtractMode anchors an exclusion pattern against a candidate string.
type ExtractMode int

const (
	// ExtractNone matches anywhere in the candidate.
	ExtractNone ExtractMode = iota
	// ExtractForward matches at the start of the candidate ("^" prefix).
	ExtractForward
	// ExtractBackward matches at the end of the candidate ("^" suffix).
	ExtractBackward
	// ExtractExact matches the whole candidate ("^" on both sides).
	ExtractExact
)

// NewExtractMode combines the prefix and suffix anchor flags.
func NewExtractMode(prefix, suffix bool) ExtractMode {
	switch {
	case prefix && suffix:
		return ExtractExact
	case prefix:
		return ExtractForward
	case suffix:
		return ExtractBackward
	default:
		return ExtractNone
	}
}

// AnchorsStart reports whether the mode anchors at the start of the candidate.
func (m ExtractMode) AnchorsStart() bool {
	return m == ExtractForward || m == ExtractExact
}

// AnchorsEnd reports whether the mode anchors at the end of the candidate.
func (m ExtractMode) AnchorsEnd() bool {
	return m == ExtractBackward || m == ExtractExact
}

func (m ExtractMode) String() string {
	switch m {
	case ExtractNone:
		return "none"
	case ExtractForward:
		return "forward"
	case ExtractBackward:
		return "backward"
	case ExtractExact:
		return "exact"
	default:
		return fmt.Sprintf("ExtractMode(%d)", int(m))
	}
}

// Value is one element of a pattern. The set of implementations is closed:
// Literal, Variable, Group and Backref.
type Value interface {
	fmt.Stringer

	isValue()
}

// Literal is quoted text copied to the output.
type Literal struct {
	Text string
}

// Variable references a defined (or locally bound) name.
type Variable struct {
	Name string
}

// Group is a parenthesized nested alternation.
type Group struct {
	Patterns []*Pattern
}

// Backref repeats the output of an earlier value of the same pattern.
type Backref struct {
	// Index is the 1-based position of the referenced value.
	Index int
}

func (*Literal) isValue()  {}
func (*Variable) isValue() {}
func (*Group) isValue()    {}
func (*Backref) isValue()  {}

var (
	_ Value = (*Literal)(nil)
	_ Value = (*Variable)(nil)
	_ Value = (*Group)(nil)
	_ Value = (*Backref)(nil)
)

func (l *Literal) String() string  { return strconv.Quote(l.Text) }
func (v *Variable) String() string { return v.Name }
func (g *Group) String() string    { return "(" + joinPatterns(g.Patterns) + ")" }
func (b *Backref) String() string  { return "&" + strconv.Itoa(b.Index) }

// Pattern is a weighted concatenation of values.
type Pattern struct {
	Values []Value
	// Weight is the unnormalized selection weight, 1 unless given.
	Weight float64
	// Mode is only meaningful for exclusion patterns.
	Mode ExtractMode
}

// NewPattern creates a generation pattern.
func NewPattern(values []Value, weight float64) *Pattern {
	return &Pattern{Values: values, Weight: weight, Mode: ExtractNone}
}

// NewExcludePattern creates an exclusion pattern.
func NewExcludePattern(values []Value, mode ExtractMode) *Pattern {
	return &Pattern{Values: values, Weight: 1, Mode: mode}
}

func (p *Pattern) String() string {
	parts := make([]string, 0, len(p.Values)+3)
	if p.Mode.AnchorsStart() {
		parts = append(parts, "^")
	}
	for _, v := range p.Values {
		parts = append(parts, v.String())
	}
	if p.Weight != 1 {
		parts = append(parts, strconv.FormatFloat(p.Weight, 'f', -1, 64))
	}
	if p.Mode.AnchorsEnd() {
		parts = append(parts, "^")
	}
	return strings.Join(parts, " ")
}

func joinPatterns(patterns []*Pattern) string {
	parts := make([]string, len(patterns))
	for idx, p := range patterns {
		parts[idx] = p.String()
	}
	return strings.Join(parts, " | ")
}

// TotalWeight sums the weights of patterns.
func TotalWeight(patterns []*Pattern) float64 {
	var sum float64
	for _, p := range patterns {
		sum += p.Weight
	}
	return sum
}

// Exclude holds the exclusion patterns of an expression and, once compiled,
// the matcher built from them.
type Exclude struct {
	Patterns []*Pattern

	source  string
	matcher *regexp2.Regexp
}

// Empty reports whether the expression has no exclusion clause.
func (e *Exclude) Empty() bool {
	return e == nil || (len(e.Patterns) == 0 && e.matcher == nil)
}

// Compiled reports whether a matcher has been attached.
func (e *Exclude) Compiled() bool {
	return e != nil && e.matcher != nil
}

// Source returns the alternation the matcher was compiled from.
func (e *Exclude) Source() string {
	if e == nil {
		return ""
	}
	return e.source
}

// Matches reports whether candidate is rejected by the exclusion.
// An empty exclusion never matches.
func (e *Exclude) Matches(candidate string) (bool, error) {
	if e.Empty() {
		return false, nil
	}
	if e.matcher == nil {
		return false, fmt.Errorf("%w: exclusion %q is not compiled", ErrSemantic, joinPatterns(e.Patterns))
	}

	return e.matcher.MatchString(candidate)
}

// CompileExclude builds the matcher for source and returns a new, immutable
// Exclude carrying both the original patterns and the matcher.
func CompileExclude(patterns []*Pattern, source string) (*Exclude, error) {
	re, err := regexp2.Compile(source, regexp2.RE2)
	if err != nil {
		return nil, &ErrInvalidExclude{Source: source, Err: err}
	}

	return &Exclude{
		Patterns: patterns,
		source:   source,
		matcher:  re,
	}, nil
}

func (e *Exclude) String() string {
	if e.Empty() {
		return ""
	}
	return joinPatterns(e.Patterns)
}

// Expression is a weighted alternation of patterns with an optional exclusion.
type Expression struct {
	Patterns []*Pattern
	Exclude  *Exclude
}

// NewExpression creates an expression; excludes may be empty.
func NewExpression(patterns []*Pattern, excludes []*Pattern) *Expression {
	return &Expression{
		Patterns: patterns,
		Exclude:  &Exclude{Patterns: excludes},
	}
}

// HasExclude reports whether the expression owns an exclusion clause.
func (e *Expression) HasExclude() bool {
	return !e.Exclude.Empty()
}

// WithExclude returns a copy of e sharing its patterns but using exclude.
func (e *Expression) WithExclude(exclude *Exclude) *Expression {
	return &Expression{Patterns: e.Patterns, Exclude: exclude}
}

func (e *Expression) String() string {
	rv := joinPatterns(e.Patterns)
	if e.HasExclude() {
		rv += " - " + e.Exclude.String()
	}
	return rv
}
