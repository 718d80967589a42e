package lower

import (
	"github.com/exalt-lang/exalt/internal/diagnostics"
	"github.com/exalt-lang/exalt/internal/source"
	"github.com/exalt-lang/exalt/internal/target"
)

// compileNode is the recursive expression compiler. The structural
// transformers hand it every sub-expression they do not interpret
// themselves, and it re-enters them for nested switches, literals, and
// loops. It is total over the closed node set and never fails on a
// well-formed tree.
func (fl *fnLowerer) compileNode(n source.Node) target.Node {
	switch v := n.(type) {
	case *source.Const:
		return fl.compileConst(v)
	case *source.VarRef:
		return &target.Var{Name: fl.varName(v)}
	case *source.VarDecl:
		fl.locals[v.ID] = Normalize(v.Name)
		var init target.Node = &target.Nil{}
		if v.Init != nil {
			init = fl.compileNode(v.Init)
		}
		return &target.Assign{Name: fl.locals[v.ID], Value: init}
	case *source.VarAssign:
		name, ok := fl.resolveClause(v.ID)
		if !ok {
			if local, known := fl.locals[v.ID]; known {
				name = local
			} else {
				name = Normalize(v.Name)
			}
		}
		return &target.Assign{Name: name, Value: fl.compileNode(v.Value)}
	case *source.Call:
		return fl.compileCall(v)
	case *source.FieldAccess:
		return &target.Dot{Obj: fl.compileNode(v.Obj), Name: Normalize(v.Name)}
	case *source.If:
		out := &target.If{Cond: fl.compileNode(v.Cond), Then: fl.compileNode(v.Then)}
		if v.Else != nil {
			out.Else = fl.compileNode(v.Else)
		}
		return out
	case *source.Block:
		out := &target.Block{}
		for _, s := range v.Stmts {
			out.Stmts = append(out.Stmts, fl.compileNode(s))
		}
		return out
	case *source.While:
		return fl.compileWhile(v)
	case *source.ForEach:
		return fl.compileForEach(v)
	case *source.Switch:
		return fl.compileSwitch(v)
	case *source.ObjectLit:
		_, node := fl.classifyLiteral(v)
		return node
	case *source.ArrayLit:
		out := &target.List{}
		for _, e := range v.Elems {
			out.Elems = append(out.Elems, fl.compileNode(e))
		}
		return out
	case *source.Unary:
		return &target.UnOp{Op: unaryOp(v.Op), Operand: fl.compileNode(v.Operand)}
	case *source.Binary:
		return &target.BinOp{Op: binaryOp(v.Op), Left: fl.compileNode(v.Left), Right: fl.compileNode(v.Right)}
	case *source.Return:
		// The target has no early return; in tail position the value is
		// the expression's result. Non-tail returns are the loop exit
		// analyzer's concern.
		if v.Value != nil {
			return fl.compileNode(v.Value)
		}
		return &target.Nil{}
	case *source.Break, *source.Continue:
		// Inside plain iteration these have no direct equivalent; the
		// accumulator-based lowering that would consume them is a separate
		// stage (see AnalyzeLoopExit).
		return &target.Nil{}
	case *source.FuncLit:
		fn := &target.Fn{}
		for _, p := range v.Params {
			name := Normalize(p.Name)
			fl.locals[p.ID] = name
			fn.Params = append(fn.Params, name)
		}
		fn.Body = fl.compileNode(v.Body)
		return fn
	default:
		// The node set is sealed; a new kind must be added here before the
		// frontend may emit it.
		return &target.Raw{Text: "nil"}
	}
}

func (fl *fnLowerer) compileConst(c *source.Const) target.Node {
	switch c.Kind {
	case source.ConstInt:
		return &target.Int{Value: c.Int}
	case source.ConstFloat:
		return &target.Float{Value: c.Float}
	case source.ConstBool:
		return &target.Bool{Value: c.Bool}
	case source.ConstString:
		return &target.Str{Value: c.Str}
	case source.ConstNull:
		return &target.Nil{}
	default:
		return &target.Nil{}
	}
}

// varName resolves a variable reference: clause captures first, then the
// function's declared locals, then the normalized surface name.
func (fl *fnLowerer) varName(v *source.VarRef) string {
	if name, ok := fl.resolveClause(v.ID); ok {
		return name
	}
	if name, ok := fl.locals[v.ID]; ok {
		return name
	}
	return Normalize(v.Name)
}

// compileCall lowers variant constructions to tagged tuples, test
// assertions to macro calls, and everything else to ordinary calls.
func (fl *fnLowerer) compileCall(call *source.Call) target.Node {
	if call.Recv == nil {
		if variant, ok := fl.lookupVariant(call.Name); ok {
			out := &target.Tuple{Elems: []target.Node{&target.Atom{Name: variant.Tag}}}
			for _, a := range call.Args {
				out.Elems = append(out.Elems, fl.compileNode(a))
			}
			return out
		}
		if node, handled := fl.compileAssertion(call); handled {
			return node
		}
	}
	out := &target.Call{Fun: Normalize(call.Name)}
	if ref, ok := call.Recv.(*source.VarRef); ok && len(ref.Name) > 0 && ref.Name[0] >= 'A' && ref.Name[0] <= 'Z' {
		// Static receiver: Module.function(args).
		out.Module = ref.Name
	} else if call.Recv != nil {
		// Instance receiver becomes the first argument, module-function
		// style.
		out.Args = append(out.Args, fl.compileNode(call.Recv))
	}
	for _, a := range call.Args {
		out.Args = append(out.Args, fl.compileNode(a))
	}
	return out
}

// compileWhile emits plain self-recursive iteration. Exit analysis runs
// first so a detected early-exit pattern is visible on the diagnostic
// channel even though the specialized accumulator lowering is not applied
// here.
func (fl *fnLowerer) compileWhile(w *source.While) target.Node {
	fl.noteExitPattern(w.Body)
	loop := fl.freshName("loop")
	body := &target.Block{}
	compiled := fl.compileNode(w.Body)
	if blk, ok := compiled.(*target.Block); ok {
		body.Stmts = append(body.Stmts, blk.Stmts...)
	} else {
		body.Stmts = append(body.Stmts, compiled)
	}
	body.Stmts = append(body.Stmts, &target.Apply{Callee: &target.Var{Name: loop}, Args: []target.Node{&target.Var{Name: loop}}})
	return &target.Block{Stmts: []target.Node{
		&target.Assign{Name: loop, Value: &target.Fn{
			Params: []string{loop},
			Body:   &target.If{Cond: fl.compileNode(w.Cond), Then: body},
		}},
		&target.Apply{Callee: &target.Var{Name: loop}, Args: []target.Node{&target.Var{Name: loop}}},
	}}
}

// compileForEach lowers sequence iteration to Enum.each.
func (fl *fnLowerer) compileForEach(fe *source.ForEach) target.Node {
	fl.noteExitPattern(fe.Body)
	name := Normalize(fe.VarName)
	fl.locals[fe.VarID] = name
	return &target.Call{
		Module: "Enum",
		Fun:    "each",
		Args: []target.Node{
			fl.compileNode(fe.Seq),
			&target.Fn{Params: []string{name}, Body: fl.compileNode(fe.Body)},
		},
	}
}

func (fl *fnLowerer) noteExitPattern(body source.Node) {
	if p := AnalyzeLoopExit(body); p.Kind != ExitNone {
		fl.sink.Report(diagnostics.LevelHint, diagnostics.CategoryExitPattern, body.Span(),
			"loop body carries a %s exit pattern; emitting plain iteration", p.Kind)
	}
}

func unaryOp(op string) string {
	switch op {
	case "!":
		return "not"
	default:
		return op
	}
}

func binaryOp(op string) string {
	switch op {
	case "&&":
		return "and"
	case "||":
		return "or"
	default:
		return op
	}
}
