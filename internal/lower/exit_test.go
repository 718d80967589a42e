package lower

import (
	"testing"

	"github.com/exalt-lang/exalt/internal/source"
)

func intConst(v int64) *source.Const {
	return &source.Const{Kind: source.ConstInt, Int: v}
}

func boolVar(id int, name string) *source.VarRef {
	return &source.VarRef{ID: id, Name: name}
}

func TestAnalyzeLoopExitNone(t *testing.T) {
	tests := []struct {
		name string
		body source.Node
	}{
		{
			name: "flat block without exits",
			body: &source.Block{Stmts: []source.Node{
				&source.Call{Name: "log", Args: []source.Node{intConst(1)}},
				&source.VarDecl{ID: 1, Name: "x", Init: intConst(2)},
			}},
		},
		{
			name: "break inside nested loop is the inner loop's business",
			body: &source.Block{Stmts: []source.Node{
				&source.While{
					Cond: boolVar(1, "more"),
					Body: &source.Break{},
				},
			}},
		},
		{
			name: "return inside function literal",
			body: &source.Block{Stmts: []source.Node{
				&source.FuncLit{Body: &source.Return{Value: intConst(1)}},
			}},
		},
		{
			name: "break inside call argument list",
			body: &source.Call{Name: "weird", Args: []source.Node{&source.Break{}}},
		},
		{
			name: "break in nested foreach",
			body: &source.ForEach{VarID: 2, VarName: "item", Seq: boolVar(1, "items"), Body: &source.Break{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnalyzeLoopExit(tt.body); got.Kind != ExitNone {
				t.Errorf("AnalyzeLoopExit() = %v, want none", got.Kind)
			}
		})
	}
}

func TestAnalyzeLoopExitKinds(t *testing.T) {
	tests := []struct {
		name     string
		body     source.Node
		expected ExitKind
	}{
		{name: "bare break", body: &source.Break{}, expected: ExitBreak},
		{name: "bare continue", body: &source.Continue{}, expected: ExitContinue},
		{name: "bare return", body: &source.Return{Value: intConst(7)}, expected: ExitReturn},
		{
			name: "break in switch arm",
			body: &source.Switch{
				Subject: boolVar(1, "state"),
				Arms: []source.Arm{
					{Values: []source.Node{intConst(0)}, Body: &source.Break{}},
				},
			},
			expected: ExitBreak,
		},
		{
			name: "return in switch default",
			body: &source.Switch{
				Subject: boolVar(1, "state"),
				Arms: []source.Arm{
					{Values: []source.Node{intConst(0)}, Body: intConst(0)},
				},
				Default: &source.Return{},
			},
			expected: ExitReturn,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeLoopExit(tt.body)
			if got.Kind != tt.expected {
				t.Errorf("AnalyzeLoopExit() = %v, want %v", got.Kind, tt.expected)
			}
		})
	}
}

func TestAnalyzeLoopExitReturnValue(t *testing.T) {
	val := intConst(42)
	got := AnalyzeLoopExit(&source.Return{Value: val})
	if got.Kind != ExitReturn {
		t.Fatalf("kind = %v, want return", got.Kind)
	}
	if got.Value != val {
		t.Errorf("value = %v, want the returned expression", got.Value)
	}
}

func TestAnalyzeLoopExitCondition(t *testing.T) {
	found := boolVar(1, "found")
	done := boolVar(2, "done")

	t.Run("then arm keeps the branch test", func(t *testing.T) {
		body := &source.If{Cond: found, Then: &source.Break{}}
		got := AnalyzeLoopExit(body)
		if got.Kind != ExitBreak {
			t.Fatalf("kind = %v, want break", got.Kind)
		}
		if got.Cond != found {
			t.Errorf("cond = %v, want the branch test itself", got.Cond)
		}
	})

	t.Run("else arm negates the branch test", func(t *testing.T) {
		body := &source.If{Cond: found, Then: intConst(0), Else: &source.Break{}}
		got := AnalyzeLoopExit(body)
		if got.Kind != ExitBreak {
			t.Fatalf("kind = %v, want break", got.Kind)
		}
		neg, ok := got.Cond.(*source.Unary)
		if !ok || neg.Op != "!" {
			t.Fatalf("cond = %#v, want a negation", got.Cond)
		}
		if neg.Operand != found {
			t.Errorf("negated operand = %v, want the branch test", neg.Operand)
		}
	})

	t.Run("nested conditionals conjoin outward", func(t *testing.T) {
		body := &source.If{
			Cond: found,
			Then: &source.If{Cond: done, Then: &source.Break{}},
		}
		got := AnalyzeLoopExit(body)
		conj, ok := got.Cond.(*source.Binary)
		if !ok || conj.Op != "&&" {
			t.Fatalf("cond = %#v, want a conjunction", got.Cond)
		}
		if conj.Left != found || conj.Right != done {
			t.Errorf("conjunction = (%v && %v), want (found && done)", conj.Left, conj.Right)
		}
	})
}

func TestAnalyzeLoopExitFirstWins(t *testing.T) {
	// Classification is a single-pattern policy: the first lexically
	// reachable exit decides, later exits are not merged in.
	body := &source.Block{Stmts: []source.Node{
		&source.If{Cond: boolVar(1, "a"), Then: &source.Continue{}},
		&source.Break{},
		&source.Return{},
	}}
	got := AnalyzeLoopExit(body)
	if got.Kind != ExitContinue {
		t.Errorf("AnalyzeLoopExit() = %v, want the first exit (continue)", got.Kind)
	}
}

func TestAnalyzeLoopExitPure(t *testing.T) {
	cond := boolVar(1, "found")
	inner := &source.If{Cond: cond, Then: &source.Break{}}
	body := &source.Block{Stmts: []source.Node{inner}}
	before := *inner
	_ = AnalyzeLoopExit(body)
	if *inner != before {
		t.Error("analysis mutated the input tree")
	}
}
