package lower

import (
	"github.com/exalt-lang/exalt/internal/diagnostics"
	"github.com/exalt-lang/exalt/internal/source"
	"github.com/exalt-lang/exalt/internal/target"
)

// compileSwitch converts a branch-on-value construct into a guarded
// pattern-clause set. Each arm gets one pattern per matched value, a fresh
// ClauseContext, and its body compiled under that context; extracted
// variant-parameter captures are threaded into the body through the
// context. A trailing default arm becomes a single wildcard clause.
func (fl *fnLowerer) compileSwitch(sw *source.Switch) target.Node {
	out := &target.Case{Subject: fl.compileNode(sw.Subject)}
	for i := range sw.Arms {
		arm := &sw.Arms[i]
		// An arm with no matched values has nothing to dispatch on and is
		// dropped without a clause.
		if len(arm.Values) == 0 {
			continue
		}
		out.Clauses = append(out.Clauses, emitClause(fl.compileArm(arm)))
	}
	if sw.Default != nil {
		ctx := NewClauseContext()
		fl.pushClause(ctx)
		body := ctx.WrapBody(fl.compileNode(sw.Default))
		fl.popClause()
		out.Clauses = append(out.Clauses, emitClause(PatternClause{
			Patterns: []Pattern{&WildcardPattern{}},
			Body:     body,
		}))
	}
	return out
}

// compileArm builds the clause for one arm: patterns first, then capture
// correlation, then the body under the arm's own context, then the guard.
func (fl *fnLowerer) compileArm(arm *source.Arm) PatternClause {
	ctx := NewClauseContext()
	var captures []string
	patterns := make([]Pattern, 0, len(arm.Values))
	for _, v := range arm.Values {
		patterns = append(patterns, fl.buildPattern(v, ctx, &captures))
	}

	fl.pushClause(ctx)
	if len(captures) > 0 && arm.Body != nil {
		fl.correlateCaptures(arm.Body, captures, ctx)
	}
	var body target.Node
	if arm.Body != nil {
		body = fl.compileNode(arm.Body)
	} else {
		body = &target.Nil{}
	}
	body = ctx.WrapBody(body)
	// The guard resolves captures through the live context but stays
	// outside the context's body wrapping.
	var guard target.Node
	if arm.Guard != nil {
		guard = fl.compileNode(arm.Guard)
	}
	fl.popClause()

	return PatternClause{Patterns: patterns, Guard: guard, Body: body}
}

// buildPattern dispatches on the shape of one matched value. Anything
// without a pattern equivalent degrades to a wildcard: the clause still
// matches, it just stops discriminating, which is reported rather than
// treated as an error.
func (fl *fnLowerer) buildPattern(value source.Node, ctx *ClauseContext, captures *[]string) Pattern {
	switch v := value.(type) {
	case *source.Const:
		return &LiteralPattern{Value: fl.compileConst(v)}
	case *source.Call:
		if v.Recv == nil {
			if variant, ok := fl.lookupVariant(v.Name); ok {
				return fl.variantPattern(variant, captures)
			}
		}
	case *source.ArrayLit:
		lp := &ListPattern{}
		for _, e := range v.Elems {
			lp.Elems = append(lp.Elems, fl.buildPattern(e, ctx, captures))
		}
		return lp
	case *source.VarRef:
		name := Normalize(v.Name)
		ctx.Bind(v.ID, name)
		return &VariablePattern{Name: name}
	}
	fl.sink.Report(diagnostics.LevelInfo, diagnostics.CategoryPatternFallback, value.Span(),
		"branch value has no pattern equivalent, matching anything instead")
	return &WildcardPattern{}
}

// variantPattern builds a tagged-tuple pattern for a variant constructor:
// the tag atom first, then one fresh capture variable per constructor
// parameter in declaration order. The capture names are collected for
// correlation against the arm body.
func (fl *fnLowerer) variantPattern(variant *source.Variant, captures *[]string) Pattern {
	tp := &TuplePattern{Elems: []Pattern{
		&LiteralPattern{Value: &target.Atom{Name: variant.Tag}},
	}}
	for _, param := range variant.Params {
		name := fl.freshName(Normalize(param))
		tp.Elems = append(tp.Elems, &VariablePattern{Name: name})
		*captures = append(*captures, name)
	}
	return tp
}

// correlateCaptures assigns extracted variant-parameter captures to the
// arm body's unbound variable references in order of first use. The
// frontend drops the binder identities when it flattens a constructor
// pattern, so declaration-index correlation is not available here; a body
// that reads a multi-parameter variant's fields out of declaration order
// will pair them positionally all the same.
func (fl *fnLowerer) correlateCaptures(body source.Node, captures []string, ctx *ClauseContext) {
	next := 0
	declared := make(map[int]bool)
	var walk func(n source.Node)
	walk = func(n source.Node) {
		if n == nil || next >= len(captures) {
			return
		}
		switch v := n.(type) {
		case *source.VarRef:
			if declared[v.ID] {
				return
			}
			if _, known := fl.locals[v.ID]; known {
				return
			}
			if _, bound := fl.resolveClause(v.ID); bound {
				return
			}
			ctx.Bind(v.ID, captures[next])
			next++
		case *source.VarDecl:
			walk(v.Init)
			declared[v.ID] = true
		case *source.VarAssign:
			walk(v.Value)
		case *source.Call:
			walk(v.Recv)
			for _, a := range v.Args {
				walk(a)
			}
		case *source.FieldAccess:
			walk(v.Obj)
		case *source.If:
			walk(v.Cond)
			walk(v.Then)
			walk(v.Else)
		case *source.Block:
			for _, s := range v.Stmts {
				walk(s)
			}
		case *source.While:
			walk(v.Cond)
			walk(v.Body)
		case *source.ForEach:
			walk(v.Seq)
			declared[v.VarID] = true
			walk(v.Body)
		case *source.Switch:
			walk(v.Subject)
			for i := range v.Arms {
				for _, val := range v.Arms[i].Values {
					walk(val)
				}
				walk(v.Arms[i].Guard)
				walk(v.Arms[i].Body)
			}
			walk(v.Default)
		case *source.ObjectLit:
			for _, f := range v.Fields {
				walk(f.Value)
			}
		case *source.ArrayLit:
			for _, e := range v.Elems {
				walk(e)
			}
		case *source.Unary:
			walk(v.Operand)
		case *source.Binary:
			walk(v.Left)
			walk(v.Right)
		case *source.Return:
			walk(v.Value)
		case *source.FuncLit:
			for _, p := range v.Params {
				declared[p.ID] = true
			}
			walk(v.Body)
		}
	}
	walk(body)
}
