package lower

import (
	"github.com/exalt-lang/exalt/internal/target"
)

// Pattern is the closed set of match patterns a branch arm can compile to.
type Pattern interface {
	patternNode()
}

// LiteralPattern matches one constant value.
type LiteralPattern struct {
	Value target.Node
}

// VariablePattern binds the matched value to a name.
type VariablePattern struct {
	Name string
}

// TuplePattern destructures a fixed-size tuple.
type TuplePattern struct {
	Elems []Pattern
}

// ListPattern destructures an ordered sequence element by element.
type ListPattern struct {
	Elems []Pattern
}

// WildcardPattern matches anything and binds nothing.
type WildcardPattern struct{}

func (*LiteralPattern) patternNode()  {}
func (*VariablePattern) patternNode() {}
func (*TuplePattern) patternNode()    {}
func (*ListPattern) patternNode()     {}
func (*WildcardPattern) patternNode() {}

// PatternClause is one compiled match arm. Patterns holds one pattern per
// matched value of the arm; the clause lives only as long as the enclosing
// branch construct's compilation.
type PatternClause struct {
	Patterns []Pattern
	Guard    target.Node
	Body     target.Node
}

// emitPattern converts a pattern to its output tree form.
func emitPattern(p Pattern) target.Node {
	switch v := p.(type) {
	case *LiteralPattern:
		return v.Value
	case *VariablePattern:
		return &target.Var{Name: v.Name}
	case *TuplePattern:
		elems := make([]target.Node, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = emitPattern(e)
		}
		return &target.Tuple{Elems: elems}
	case *ListPattern:
		elems := make([]target.Node, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = emitPattern(e)
		}
		return &target.List{Elems: elems}
	case *WildcardPattern:
		return target.Wildcard()
	default:
		return target.Wildcard()
	}
}

func emitClause(c PatternClause) target.Clause {
	out := target.Clause{Guard: c.Guard, Body: c.Body}
	out.Patterns = make([]target.Node, len(c.Patterns))
	for i, p := range c.Patterns {
		out.Patterns[i] = emitPattern(p)
	}
	return out
}
