package lower

import (
	"strings"
	"testing"

	"github.com/exalt-lang/exalt/internal/diagnostics"
	"github.com/exalt-lang/exalt/internal/source"
	"github.com/exalt-lang/exalt/internal/target"
)

func optionUnit() *source.Unit {
	return &source.Unit{
		Module: "Test.Unit",
		Variants: []source.Variant{
			{Ctor: "Some", Tag: "some", Params: []string{"value"}},
			{Ctor: "None", Tag: "none"},
			{Ctor: "Pair", Tag: "pair", Params: []string{"first", "second"}},
		},
	}
}

func TestSwitchConstantArmEmitsLiteralPattern(t *testing.T) {
	sw := &source.Switch{
		Subject: &source.VarRef{ID: 1, Name: "state"},
		Arms: []source.Arm{
			{Values: []source.Node{intConst(1)}, Body: intConst(10)},
		},
	}
	node, _ := lowerBody(t, sw, nil)
	expected := "case state do\n" +
		"  1 ->\n" +
		"    10\n" +
		"end"
	if got := target.Render(node); got != expected {
		t.Errorf("rendered:\n%s\nwant:\n%s", got, expected)
	}
}

func TestSwitchVariantArmExtractsParameters(t *testing.T) {
	sw := &source.Switch{
		Subject: &source.VarRef{ID: 1, Name: "opt"},
		Arms: []source.Arm{
			{
				Values: []source.Node{&source.Call{Name: "Some"}},
				Body:   &source.VarRef{ID: 7, Name: "v"},
			},
			{
				Values: []source.Node{&source.Call{Name: "None"}},
				Body:   &source.Const{Kind: source.ConstNull},
			},
		},
	}
	node, _ := lowerBody(t, sw, optionUnit())
	expected := "case opt do\n" +
		"  {:some, value} ->\n" +
		"    value\n" +
		"  {:none} ->\n" +
		"    nil\n" +
		"end"
	if got := target.Render(node); got != expected {
		t.Errorf("rendered:\n%s\nwant:\n%s", got, expected)
	}
}

func TestSwitchCapturesCorrelateByFirstUse(t *testing.T) {
	// The frontend drops binder identities, so captures pair with the
	// body's unbound references in order of first use, not by declared
	// parameter index. A body reading the second parameter first therefore
	// receives the first capture name.
	sw := &source.Switch{
		Subject: &source.VarRef{ID: 1, Name: "p"},
		Arms: []source.Arm{
			{
				Values: []source.Node{&source.Call{Name: "Pair"}},
				Body: &source.Block{Stmts: []source.Node{
					&source.VarRef{ID: 21, Name: "b"},
					&source.VarRef{ID: 20, Name: "a"},
					&source.VarRef{ID: 21, Name: "b"},
				}},
			},
		},
	}
	node, _ := lowerBody(t, sw, optionUnit())
	expected := "case p do\n" +
		"  {:pair, first, second} ->\n" +
		"    first\n" +
		"    second\n" +
		"    first\n" +
		"end"
	if got := target.Render(node); got != expected {
		t.Errorf("rendered:\n%s\nwant:\n%s", got, expected)
	}
}

func TestSwitchGuardUsesCaptures(t *testing.T) {
	sw := &source.Switch{
		Subject: &source.VarRef{ID: 1, Name: "opt"},
		Arms: []source.Arm{
			{
				Values: []source.Node{&source.Call{Name: "Some"}},
				Guard:  &source.Binary{Op: ">", Left: &source.VarRef{ID: 7, Name: "v"}, Right: intConst(0)},
				Body:   &source.VarRef{ID: 7, Name: "v"},
			},
		},
	}
	node, _ := lowerBody(t, sw, optionUnit())
	got := target.Render(node)
	if !strings.Contains(got, "{:some, value} when value > 0 ->") {
		t.Errorf("guard clause missing or wrong:\n%s", got)
	}
}

func TestSwitchDefaultArmIsWildcard(t *testing.T) {
	sw := &source.Switch{
		Subject: &source.VarRef{ID: 1, Name: "state"},
		Arms: []source.Arm{
			{Values: []source.Node{intConst(1)}, Body: intConst(10)},
		},
		Default: intConst(0),
	}
	node, _ := lowerBody(t, sw, nil)
	got := target.Render(node)
	if !strings.Contains(got, "  _ ->\n    0\n") {
		t.Errorf("default clause missing or not a wildcard:\n%s", got)
	}
}

func TestSwitchDropsArmWithoutValues(t *testing.T) {
	sw := &source.Switch{
		Subject: &source.VarRef{ID: 1, Name: "state"},
		Arms: []source.Arm{
			{Body: intConst(99)},
			{Values: []source.Node{intConst(1)}, Body: intConst(10)},
		},
	}
	node, sink := lowerBody(t, sw, nil)
	c, ok := node.(*target.Case)
	if !ok {
		t.Fatalf("lowered to %T, want case", node)
	}
	if len(c.Clauses) != 1 {
		t.Fatalf("clause count = %d, want 1 (valueless arm dropped silently)", len(c.Clauses))
	}
	if n := len(sink.All()); n != 0 {
		t.Errorf("diagnostics = %d, want none for a dropped arm", n)
	}
}

func TestSwitchListValueBuildsListPattern(t *testing.T) {
	sw := &source.Switch{
		Subject: &source.VarRef{ID: 1, Name: "pairs"},
		Arms: []source.Arm{
			{
				Values: []source.Node{&source.ArrayLit{Elems: []source.Node{
					intConst(1),
					&source.VarRef{ID: 5, Name: "rest"},
				}}},
				Body: &source.VarRef{ID: 5, Name: "rest"},
			},
		},
	}
	node, _ := lowerBody(t, sw, nil)
	got := target.Render(node)
	if !strings.Contains(got, "[1, rest] ->") {
		t.Errorf("list pattern missing:\n%s", got)
	}
}

func TestSwitchUnrecognizedValueFallsBackToWildcard(t *testing.T) {
	sw := &source.Switch{
		Subject: &source.VarRef{ID: 1, Name: "state"},
		Arms: []source.Arm{
			{
				Values: []source.Node{&source.FieldAccess{Obj: &source.VarRef{ID: 2, Name: "cfg"}, Name: "mode"}},
				Body:   intConst(1),
			},
		},
	}
	node, sink := lowerBody(t, sw, nil)
	got := target.Render(node)
	if !strings.Contains(got, "  _ ->") {
		t.Errorf("expected wildcard fallback:\n%s", got)
	}
	if len(sink.ByCategory(diagnostics.CategoryPatternFallback)) != 1 {
		t.Error("wildcard fallback was not reported on the diagnostic sink")
	}
}

func TestSwitchMultiValueArmRendersAlternation(t *testing.T) {
	sw := &source.Switch{
		Subject: &source.VarRef{ID: 1, Name: "state"},
		Arms: []source.Arm{
			{Values: []source.Node{intConst(1), intConst(2)}, Body: intConst(10)},
		},
	}
	node, _ := lowerBody(t, sw, nil)
	c := node.(*target.Case)
	if len(c.Clauses) != 1 {
		t.Fatalf("clause count = %d, want 1", len(c.Clauses))
	}
	if len(c.Clauses[0].Patterns) != 2 {
		t.Fatalf("pattern count = %d, want one per matched value", len(c.Clauses[0].Patterns))
	}
	got := target.Render(node)
	if !strings.Contains(got, "  1 ->\n    10\n  2 ->\n    10\n") {
		t.Errorf("alternation heads missing:\n%s", got)
	}
}

func TestNestedSwitchKeepsOuterCaptures(t *testing.T) {
	// A nested branch inside an arm body gets its own clause scope; the
	// outer arm's captures stay visible and uncorrupted.
	inner := &source.Switch{
		Subject: &source.VarRef{ID: 30, Name: "innerOpt"},
		Arms: []source.Arm{
			{
				Values: []source.Node{&source.Call{Name: "None"}},
				Body:   &source.VarRef{ID: 7, Name: "v"}, // outer capture
			},
		},
	}
	sw := &source.Switch{
		Subject: &source.VarRef{ID: 1, Name: "opt"},
		Arms: []source.Arm{
			{
				Values: []source.Node{&source.Call{Name: "Some"}},
				Body: &source.Block{Stmts: []source.Node{
					&source.VarRef{ID: 7, Name: "v"},
					inner,
				}},
			},
		},
	}
	node, _ := lowerBody(t, sw, optionUnit())
	got := target.Render(node)
	if !strings.Contains(got, "{:none} ->\n        value") {
		t.Errorf("outer capture not visible in nested arm:\n%s", got)
	}
}
