package types

import (
	"fmt"
	"strings"
)

// Statement is either a Define or a Generate.
type Statement interface {
	fmt.Stringer

	// Expression returns the expression owned by the statement.
	Expression() *Expression

	isStatement()
}

// Bind is a destructuring bind: Local is fixed to one expansion of Source
// for the duration of a single expansion of the owning definition.
type Bind struct {
	Local  string
	Source string
}

func (b Bind) String() string {
	return b.Local + " <- " + b.Source
}

// Define binds Name to Expr.
type Define struct {
	Name  string
	Binds []Bind
	Expr  *Expression
}

// Generate marks the expression producing the final output.
type Generate struct {
	Expr *Expression
}

func (*Define) isStatement()   {}
func (*Generate) isStatement() {}

var (
	_ Statement = (*Define)(nil)
	_ Statement = (*Generate)(nil)
)

func (d *Define) Expression() *Expression   { return d.Expr }
func (g *Generate) Expression() *Expression { return g.Expr }

// BindSource returns the source variable bound to local, if any.
func (d *Define) BindSource(local string) (string, bool) {
	for _, b := range d.Binds {
		if b.Local == local {
			return b.Source, true
		}
	}
	return "", false
}

func (d *Define) String() string {
	sb := new(strings.Builder)
	sb.WriteString(d.Name)
	if len(d.Binds) > 0 {
		binds := make([]string, len(d.Binds))
		for idx, b := range d.Binds {
			binds[idx] = b.String()
		}
		sb.WriteString(" : ")
		sb.WriteString(strings.Join(binds, ", "))
	}
	sb.WriteString(" = ")
	sb.WriteString(d.Expr.String())
	sb.WriteString(";")
	return sb.String()
}

func (g *Generate) String() string {
	return "% " + g.Expr.String() + ";"
}
