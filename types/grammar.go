package types

import "fmt"

// Grammar is a compiled statement list. It is immutable once built and may
// be shared by concurrent generators.
type Grammar struct {
	statements []Statement
	defines    map[string]*Define
}

// NewGrammar creates a grammar from parsed statements.
func NewGrammar(statements []Statement) *Grammar {
	defines := make(map[string]*Define)
	for _, stmt := range statements {
		if def, ok := stmt.(*Define); ok {
			defines[def.Name] = def
		}
	}

	return &Grammar{
		statements: statements,
		defines:    defines,
	}
}

func (g *Grammar) String() string {
	return fmt.Sprintf(
		"<Grammar #statements=%d #defines=%d generate=%t>",
		len(g.statements),
		len(g.defines),
		g.Generate() != nil,
	)
}

// Statements returns the statements in declaration order.
func (g *Grammar) Statements() []Statement {
	return g.statements
}

// Len returns the number of statements.
func (g *Grammar) Len() int {
	return len(g.statements)
}

// Lookup returns the last definition of name.
func (g *Grammar) Lookup(name string) (*Define, bool) {
	def, ok := g.defines[name]
	return def, ok
}

// Generate returns the first generate statement, or nil.
func (g *Grammar) Generate() *Generate {
	for _, stmt := range g.statements {
		if gen, ok := stmt.(*Generate); ok {
			return gen
		}
	}
	return nil
}
