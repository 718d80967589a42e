package lower

import (
	"fmt"

	"github.com/exalt-lang/exalt/internal/diagnostics"
	"github.com/exalt-lang/exalt/internal/source"
	"github.com/exalt-lang/exalt/internal/target"
)

// TypeLookup resolves a callee name to variant-constructor metadata. The
// upstream type checker supplies the implementation; the backend never
// fabricates type records when a lookup misses, it just compiles the call
// as an ordinary call.
type TypeLookup interface {
	VariantByCtor(name string) (*source.Variant, bool)
}

// Options configures one Engine.
type Options struct {
	// Verbose records Info/Hint diagnostics such as pattern-fallback
	// notices and detected loop exit patterns.
	Verbose bool
}

// Engine lowers type-checked compilation units. It holds no per-function
// state: each function starts fresh, so lowering the same unit twice gives
// byte-identical output.
type Engine struct {
	opts Options
	sink *diagnostics.Collector
}

// NewEngine creates an engine reporting into sink. A nil sink gets a
// private collector honoring opts.Verbose.
func NewEngine(opts Options, sink *diagnostics.Collector) *Engine {
	if sink == nil {
		sink = diagnostics.NewCollector(opts.Verbose)
	}
	return &Engine{opts: opts, sink: sink}
}

// Sink exposes the engine's diagnostic collector.
func (e *Engine) Sink() *diagnostics.Collector {
	return e.sink
}

// LowerUnit lowers every function of a unit into one target module.
func (e *Engine) LowerUnit(u *source.Unit) (*target.Module, error) {
	if u == nil {
		return nil, fmt.Errorf("lower: nil unit")
	}
	mod := &target.Module{Name: u.Module}
	for _, fn := range u.Functions {
		body, err := e.LowerFunction(fn, u, u.Renames)
		if err != nil {
			return nil, fmt.Errorf("lower %s.%s: %w", u.Module, fn.Name, err)
		}
		def := target.FuncDef{Name: Normalize(fn.Name), Body: body}
		for _, p := range fn.Params {
			def.Params = append(def.Params, Normalize(p.Name))
		}
		mod.Funcs = append(mod.Funcs, def)
	}
	return mod, nil
}

// LowerFunction lowers one function body with fresh compiler state. types
// may be nil when the unit declares no variants; renames may be nil.
func (e *Engine) LowerFunction(fn *source.Function, types TypeLookup, renames map[string]string) (target.Node, error) {
	if fn == nil || fn.Body == nil {
		return nil, fmt.Errorf("lower: nil function body")
	}
	fl := &fnLowerer{
		sink:    e.sink,
		types:   types,
		renames: renames,
		locals:  make(map[int]string),
		taken:   make(map[string]int),
	}
	for _, p := range fn.Params {
		fl.locals[p.ID] = Normalize(p.Name)
	}
	return fl.compileNode(fn.Body), nil
}

// fnLowerer carries the state of exactly one function's lowering: declared
// locals, the clause-context stack, and the fresh-name counter. Nothing in
// it survives the function.
type fnLowerer struct {
	sink    *diagnostics.Collector
	types   TypeLookup
	renames map[string]string
	locals  map[int]string
	ctxs    []*ClauseContext
	taken   map[string]int
}

// freshName returns base the first time it is requested and base2, base3,
// and so on afterwards. The counter is function-scoped and deterministic.
func (fl *fnLowerer) freshName(base string) string {
	fl.taken[base]++
	if n := fl.taken[base]; n > 1 {
		return fmt.Sprintf("%s%d", base, n)
	}
	return base
}

// lookupVariant consults the injected type table.
func (fl *fnLowerer) lookupVariant(name string) (*source.Variant, bool) {
	if fl.types == nil {
		return nil, false
	}
	return fl.types.VariantByCtor(name)
}
