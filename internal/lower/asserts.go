package lower

import (
	"strings"

	"github.com/exalt-lang/exalt/internal/diagnostics"
	"github.com/exalt-lang/exalt/internal/source"
	"github.com/exalt-lang/exalt/internal/target"
)

// assertRule describes how one source assertion method maps to a target
// assertion macro. The mapping is a pure table lookup; no structural
// reasoning happens here.
type assertRule struct {
	macro string // target macro name
	binop string // comparison joining the first two arguments, if any
	wrap  string // predicate wrapped around the single argument, if any
}

var assertRules = map[string]assertRule{
	"assertEquals":    {macro: "assert", binop: "=="},
	"assertNotEquals": {macro: "assert", binop: "!="},
	"assertTrue":      {macro: "assert"},
	"assertFalse":     {macro: "refute"},
	"assertNull":      {macro: "assert", wrap: "is_nil"},
	"assertNotNull":   {macro: "refute", wrap: "is_nil"},
}

// compileAssertion maps a test-assertion call to its target macro. Calls
// that are not assertions return handled == false and compile as ordinary
// calls. An assertion-looking call with no table entry emits an inert
// placeholder and a diagnostic instead of failing.
func (fl *fnLowerer) compileAssertion(call *source.Call) (target.Node, bool) {
	rule, known := assertRules[call.Name]
	if !known {
		if !strings.HasPrefix(call.Name, "assert") {
			return nil, false
		}
		fl.sink.Report(diagnostics.LevelWarning, diagnostics.CategoryAssertion, call.Span(),
			"no assertion macro mapping for %q; emitting a placeholder", call.Name)
		return &target.Raw{Text: "# unmapped assertion: " + call.Name}, true
	}
	switch {
	case rule.binop != "" && len(call.Args) >= 2:
		return &target.MacroCall{Name: rule.macro, Args: []target.Node{
			&target.BinOp{Op: rule.binop, Left: fl.compileNode(call.Args[0]), Right: fl.compileNode(call.Args[1])},
		}}, true
	case rule.wrap != "" && len(call.Args) >= 1:
		return &target.MacroCall{Name: rule.macro, Args: []target.Node{
			&target.Call{Fun: rule.wrap, Args: []target.Node{fl.compileNode(call.Args[0])}},
		}}, true
	case len(call.Args) >= 1:
		return &target.MacroCall{Name: rule.macro, Args: []target.Node{fl.compileNode(call.Args[0])}}, true
	default:
		fl.sink.Report(diagnostics.LevelWarning, diagnostics.CategoryAssertion, call.Span(),
			"assertion %q called with too few arguments; emitting a placeholder", call.Name)
		return &target.Raw{Text: "# malformed assertion: " + call.Name}, true
	}
}
