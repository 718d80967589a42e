package lower

import (
	"github.com/exalt-lang/exalt/internal/source"
)

// ExitKind classifies the dominant early-exit statement of a loop body.
type ExitKind int

const (
	ExitNone ExitKind = iota
	ExitBreak
	ExitContinue
	ExitReturn
)

func (k ExitKind) String() string {
	switch k {
	case ExitNone:
		return "none"
	case ExitBreak:
		return "break"
	case ExitContinue:
		return "continue"
	case ExitReturn:
		return "return"
	default:
		return "unknown"
	}
}

// ExitPattern describes the first lexically-reachable early exit of a loop
// body. Cond is the exact boolean expression guarding reachability of the
// exit from the loop's top: the conjunction of every enclosing branch test,
// negated where the exit sits in an else arm. Cond is nil when the exit is
// unconditional. Value carries the returned expression for ExitReturn.
//
// The consumer that would turn an ExitPattern into accumulator-based
// iteration is a separate stage; loops currently lower to plain iteration
// whether or not a pattern is found, and this analysis stays correct
// independently of that.
type ExitPattern struct {
	Kind  ExitKind
	Cond  source.Node
	Value source.Node
}

// AnalyzeLoopExit scans a loop body for its dominant early-exit statement.
// The traversal is pre-order and depth-first and stops at the first exit
// found: a loop is classified by a single pattern, never a merge of several
// exits. It descends through conditional arms, sequential blocks, and
// switch-arm bodies only. Nested loop bodies, function-literal bodies, and
// call argument lists belong to inner scopes, so exits inside them never
// classify the outer loop. The analysis is pure: the input tree is not
// touched, and synthesized condition nodes only reference it.
func AnalyzeLoopExit(body source.Node) ExitPattern {
	if p, ok := findExit(body); ok {
		return p
	}
	return ExitPattern{Kind: ExitNone}
}

func findExit(n source.Node) (ExitPattern, bool) {
	switch v := n.(type) {
	case *source.Break:
		return ExitPattern{Kind: ExitBreak}, true
	case *source.Continue:
		return ExitPattern{Kind: ExitContinue}, true
	case *source.Return:
		return ExitPattern{Kind: ExitReturn, Value: v.Value}, true
	case *source.Block:
		for _, s := range v.Stmts {
			if p, ok := findExit(s); ok {
				return p, true
			}
		}
	case *source.If:
		if p, ok := findExit(v.Then); ok {
			p.Cond = conjoin(v.Cond, p.Cond)
			return p, true
		}
		if v.Else != nil {
			if p, ok := findExit(v.Else); ok {
				p.Cond = conjoin(negate(v.Cond), p.Cond)
				return p, true
			}
		}
	case *source.Switch:
		for _, arm := range v.Arms {
			if arm.Body == nil {
				continue
			}
			if p, ok := findExit(arm.Body); ok {
				return p, true
			}
		}
		if v.Default != nil {
			if p, ok := findExit(v.Default); ok {
				return p, true
			}
		}
	case *source.VarDecl:
		// An initializer is an expression position, not a statement path;
		// same for every remaining node kind.
	}
	return ExitPattern{}, false
}

// conjoin builds outer && inner, composing nested branch conditions
// outward. A nil inner condition means the exit was unconditional below
// this branch.
func conjoin(outer, inner source.Node) source.Node {
	if inner == nil {
		return outer
	}
	return &source.Binary{Op: "&&", Left: outer, Right: inner}
}

func negate(cond source.Node) source.Node {
	return &source.Unary{Op: "!", Operand: cond}
}
