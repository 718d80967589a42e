package lower

import (
	"testing"

	"github.com/exalt-lang/exalt/internal/diagnostics"
	"github.com/exalt-lang/exalt/internal/source"
	"github.com/exalt-lang/exalt/internal/target"
)

func TestAssertionMapping(t *testing.T) {
	x := &source.VarRef{ID: 1, Name: "x"}
	tests := []struct {
		name     string
		call     *source.Call
		expected string
	}{
		{
			name:     "assertEquals",
			call:     &source.Call{Name: "assertEquals", Args: []source.Node{x, intConst(3)}},
			expected: "assert x == 3",
		},
		{
			name:     "assertNotEquals",
			call:     &source.Call{Name: "assertNotEquals", Args: []source.Node{x, intConst(3)}},
			expected: "assert x != 3",
		},
		{
			name:     "assertTrue",
			call:     &source.Call{Name: "assertTrue", Args: []source.Node{x}},
			expected: "assert x",
		},
		{
			name:     "assertFalse",
			call:     &source.Call{Name: "assertFalse", Args: []source.Node{x}},
			expected: "refute x",
		},
		{
			name:     "assertNull",
			call:     &source.Call{Name: "assertNull", Args: []source.Node{x}},
			expected: "assert is_nil(x)",
		},
		{
			name:     "assertNotNull",
			call:     &source.Call{Name: "assertNotNull", Args: []source.Node{x}},
			expected: "refute is_nil(x)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, _ := lowerBody(t, tt.call, nil)
			if got := target.Render(node); got != tt.expected {
				t.Errorf("rendered = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestUnmappedAssertionEmitsPlaceholder(t *testing.T) {
	call := &source.Call{Name: "assertMatchesRegex", Args: []source.Node{&source.VarRef{ID: 1, Name: "x"}}}
	node, sink := lowerBody(t, call, nil)
	if _, ok := node.(*target.Raw); !ok {
		t.Fatalf("lowered to %T, want an inert placeholder", node)
	}
	if len(sink.ByCategory(diagnostics.CategoryAssertion)) != 1 {
		t.Error("unmapped assertion was not reported")
	}
}

func TestNonAssertionCallPassesThrough(t *testing.T) {
	call := &source.Call{Name: "computeTotal", Args: []source.Node{intConst(1)}}
	node, _ := lowerBody(t, call, nil)
	if got := target.Render(node); got != "compute_total(1)" {
		t.Errorf("rendered = %q, want compute_total(1)", got)
	}
}
