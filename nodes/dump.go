package nodes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/b4fun/zatlin-go/types"
)

// DumpGrammar renders g as an indented tree, one element per line.
func DumpGrammar(g *types.Grammar) string {
	sb := new(strings.Builder)

	indent := func(v Visit) string {
		level := v.Depth * 2
		if v.Pattern != nil {
			level++
		}
		if v.Value != nil {
			level++
		}
		return strings.Repeat("  ", level)
	}

	mux := NewVisitorMux(WithDefaultVisitFunc(func(v Visit) error {
		if v.Pattern == nil {
			sb.WriteString(dumpStatement(v.Statement))
			sb.WriteString("\n")
			return nil
		}
		fmt.Fprintf(sb, "%s%s\n", indent(v), dumpPattern(v))
		return nil
	}))
	mux.HandleLiteral(func(v Visit, l *types.Literal) error {
		fmt.Fprintf(sb, "%sliteral %s\n", indent(v), strconv.Quote(l.Text))
		return nil
	}).HandleVariable(func(v Visit, variable *types.Variable) error {
		fmt.Fprintf(sb, "%svariable %s\n", indent(v), variable.Name)
		return nil
	}).HandleGroup(func(v Visit, g *types.Group) error {
		fmt.Fprintf(sb, "%sgroup #patterns=%d\n", indent(v), len(g.Patterns))
		return nil
	}).HandleBackref(func(v Visit, b *types.Backref) error {
		fmt.Fprintf(sb, "%sbackref %d\n", indent(v), b.Index)
		return nil
	})

	// the dump never fails: every handler above returns nil
	_ = mux.Walk(g)

	return sb.String()
}

func dumpStatement(stmt types.Statement) string {
	sb := new(strings.Builder)
	switch s := stmt.(type) {
	case *types.Define:
		fmt.Fprintf(sb, "define %s", s.Name)
		for _, b := range s.Binds {
			fmt.Fprintf(sb, " [%s]", b)
		}
	case *types.Generate:
		sb.WriteString("generate")
	default:
		fmt.Fprintf(sb, "%T", stmt)
	}

	if exclude := stmt.Expression().Exclude; exclude.Compiled() {
		fmt.Fprintf(sb, " matcher=%s", strconv.Quote(exclude.Source()))
	}
	return sb.String()
}

func dumpPattern(v Visit) string {
	if v.Exclude && v.Depth == 0 {
		return "exclude " + v.Pattern.Mode.String()
	}
	return "pattern weight=" + strconv.FormatFloat(v.Pattern.Weight, 'f', -1, 64)
}
